// Package limiter provides token bucket rate limiting keyed by request path
// Package limiter 提供按请求路径划分的令牌桶限流
package limiter

import (
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/juju/ratelimit"
)

// Face rate limiter interface
// Face 限流器接口
type Face interface {
	Key(c *gin.Context) string
	GetBucket(key string) (*ratelimit.Bucket, bool)
	AddBuckets(rules ...BucketRule) Face
}

// BucketRule 令牌桶规则
type BucketRule struct {
	// Key path prefix the bucket applies to // 桶作用的路径前缀
	Key string
	// FillInterval 令牌填充间隔
	FillInterval time.Duration
	// Capacity 桶容量
	Capacity int64
	// Quantum 每次填充的令牌数
	Quantum int64
}

type Limiter struct {
	mu      sync.RWMutex
	buckets map[string]*ratelimit.Bucket
	keys    []string
}

// MethodLimiter limits by the longest matching path prefix
// MethodLimiter 按最长匹配的路径前缀限流
type MethodLimiter struct {
	*Limiter
}

func NewMethodLimiter() Face {
	return MethodLimiter{
		Limiter: &Limiter{buckets: make(map[string]*ratelimit.Bucket)},
	}
}

// Key returns the registered prefix matching the request path, or the bare path
// Key 返回与请求路径匹配的已注册前缀，无匹配时返回路径本身
func (l MethodLimiter) Key(c *gin.Context) string {
	p := c.Request.URL.Path

	l.mu.RLock()
	defer l.mu.RUnlock()

	best := ""
	for _, k := range l.keys {
		if strings.HasPrefix(p, k) && len(k) > len(best) {
			best = k
		}
	}
	if best != "" {
		return best
	}
	return p
}

func (l MethodLimiter) GetBucket(key string) (*ratelimit.Bucket, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	bucket, ok := l.buckets[key]
	return bucket, ok
}

func (l MethodLimiter) AddBuckets(rules ...BucketRule) Face {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, rule := range rules {
		if _, ok := l.buckets[rule.Key]; ok {
			continue
		}
		l.buckets[rule.Key] = ratelimit.NewBucketWithQuantum(rule.FillInterval, rule.Capacity, rule.Quantum)
		l.keys = append(l.keys, rule.Key)
	}
	return l
}
