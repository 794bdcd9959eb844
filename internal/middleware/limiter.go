package middleware

import (
	"math"
	"strconv"

	"github.com/haierkeys/doc-toolbox-service/pkg/app"
	"github.com/haierkeys/doc-toolbox-service/pkg/code"
	"github.com/haierkeys/doc-toolbox-service/pkg/limiter"

	"github.com/gin-gonic/gin"
)

// RateLimiter rejects requests whose path bucket is empty with 429 and a Retry-After hint
// RateLimiter 令牌桶为空时返回 429，并通过 Retry-After 提示下一个令牌的等待秒数
func RateLimiter(l limiter.Face) gin.HandlerFunc {
	return func(c *gin.Context) {
		bucket, ok := l.GetBucket(l.Key(c))
		if ok && bucket.TakeAvailable(1) == 0 {
			if rate := bucket.Rate(); rate > 0 {
				c.Header("Retry-After", strconv.Itoa(int(math.Ceil(1/rate-1e-6))))
			}
			app.NewResponse(c).ToResponse(code.ErrorTooManyRequests)
			c.Abort()
			return
		}

		c.Next()
	}
}
