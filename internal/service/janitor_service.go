package service

import (
	"context"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/haierkeys/doc-toolbox-service/internal/domain"
	"github.com/haierkeys/doc-toolbox-service/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// SweepResult summary of one retention sweep
// SweepResult 一次清理的统计结果
type SweepResult struct {
	Scanned    int
	Deleted    int
	Skipped    int // 超期但被打开或被分享引用
	Errors     int
	FreedBytes int64
	StartedAt  time.Time
	Duration   time.Duration
}

// JanitorService defines the retention sweep over the file store
// JanitorService 定义文件存储的过期清理
type JanitorService interface {
	// Sweep deletes every file older than the retention window.
	// Concurrent callers share one running sweep.
	// Sweep 删除超过保留时间的文件，并发调用共享同一次清理
	Sweep(ctx context.Context) (*SweepResult, error)

	// LastResult returns the most recent sweep, or nil before the first one
	// LastResult 返回最近一次清理结果
	LastResult() *SweepResult
}

type janitorService struct {
	store     FileStoreService
	shares    ShareService
	logger    *zap.Logger
	retention time.Duration
	now       func() time.Time

	group singleflight.Group

	mu   sync.RWMutex
	last *SweepResult
}

// NewJanitorService creates JanitorService instance
// NewJanitorService 创建 JanitorService 实例
func NewJanitorService(store FileStoreService, shares ShareService, logger *zap.Logger, config *ServiceConfig) JanitorService {
	var cfg JanitorConfig
	if config != nil {
		cfg = config.Janitor
	}
	return &janitorService{
		store:     store,
		shares:    shares,
		logger:    logger,
		retention: cfg.retention(),
		now:       time.Now,
	}
}

func (s *janitorService) Sweep(ctx context.Context) (*SweepResult, error) {
	// 取消某个调用方不应中断其他调用方共享的清理
	shared := context.WithoutCancel(ctx)
	ch := s.group.DoChan("sweep", func() (interface{}, error) {
		return s.sweep(shared), nil
	})

	select {
	case res := <-ch:
		r := *res.Val.(*SweepResult)
		return &r, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *janitorService) sweep(ctx context.Context) *SweepResult {
	start := s.now()
	res := &SweepResult{StartedAt: start}

	for _, area := range []domain.Area{domain.AreaWorking, domain.AreaShared} {
		files, err := s.store.List(ctx, area)
		if err != nil {
			res.Errors++
			s.logger.Warn("janitor list failed", zap.String(logger.FieldArea, string(area)), zap.Error(err))
			continue
		}
		for _, f := range files {
			res.Scanned++
			if f.Age(start) <= s.retention {
				continue
			}
			s.sweepFile(ctx, f, res)
		}
	}

	res.Duration = s.now().Sub(start)

	janitorRunsTotal.Inc()
	janitorDuration.Observe(res.Duration.Seconds())

	s.mu.Lock()
	s.last = res
	s.mu.Unlock()

	if res.Deleted > 0 || res.Errors > 0 {
		s.logger.Info("janitor sweep finished",
			zap.Int("scanned", res.Scanned),
			zap.Int("deleted", res.Deleted),
			zap.Int("skipped", res.Skipped),
			zap.Int("errors", res.Errors),
			zap.String("freed", humanize.Bytes(uint64(res.FreedBytes))),
			zap.Duration(logger.FieldDuration, res.Duration))
	}
	return res
}

func (s *janitorService) sweepFile(ctx context.Context, f domain.StoredFile, res *SweepResult) {
	if f.Area == domain.AreaShared && s.shares != nil && s.shares.IsReferenced(f.Path) {
		res.Skipped++
		janitorSkippedTotal.WithLabelValues("shared").Inc()
		return
	}

	deleted, err := s.store.DeleteIfIdle(ctx, f.Path)
	switch {
	case err != nil:
		res.Errors++
		s.logger.Warn("janitor delete failed", zap.String(logger.FieldPath, f.Path), zap.Error(err))
	case !deleted:
		res.Skipped++
		janitorSkippedTotal.WithLabelValues("open").Inc()
	default:
		res.Deleted++
		res.FreedBytes += f.Size
		janitorDeletedTotal.WithLabelValues(string(f.Area)).Inc()
		s.logger.Debug("janitor deleted file",
			zap.String(logger.FieldPath, f.Path),
			zap.String(logger.FieldArea, string(f.Area)),
			zap.Duration("age", f.Age(res.StartedAt)))
	}
}

func (s *janitorService) LastResult() *SweepResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return nil
	}
	r := *s.last
	return &r
}
