package service

import (
	"context"
	"sync"
	"time"

	"github.com/haierkeys/doc-toolbox-service/internal/domain"
	"github.com/haierkeys/doc-toolbox-service/pkg/code"
	"github.com/haierkeys/doc-toolbox-service/pkg/logger"
	"github.com/haierkeys/doc-toolbox-service/pkg/util"
	"go.uber.org/zap"
)

// shareTokenBytes share id 的随机字节数，编码后为 22 个字符
const shareTokenBytes = 16

// shareCreateAttempts id 碰撞时的最大重试次数
const shareCreateAttempts = 5

// ShareService defines the in-memory share link registry
// ShareService 定义内存中的分享链接注册表
type ShareService interface {
	// Create registers a record and returns it with its id and expiry
	// Create 注册分享记录，返回带 id 与过期时间的记录
	Create(kind domain.ShareKind, payload domain.SharePayload) (*domain.ShareRecord, error)

	// ShareFile stores the upload in the shared area and registers a file share
	// ShareFile 保存分享文件并注册文件分享
	ShareFile(ctx context.Context, content []byte, originalName string) (*domain.ShareRecord, error)

	// ShareText registers a text share
	// ShareText 注册文本分享
	ShareText(ctx context.Context, text string) (*domain.ShareRecord, error)

	// Resolve returns the live record, domain.ErrShareNotFound, or domain.ErrShareExpired (once)
	// Resolve 返回有效记录；不存在返回 ErrShareNotFound；过期时删除记录并返回 ErrShareExpired
	Resolve(ctx context.Context, id string) (*domain.ShareRecord, error)

	// IsReferenced reports whether a live file share points at path
	// IsReferenced 是否有未过期的文件分享引用该路径
	IsReferenced(path string) bool

	// Count returns the number of records held in memory
	// Count 返回内存中的记录数
	Count() int
}

// shareService implementation of ShareService interface
// shareService 实现 ShareService 接口
type shareService struct {
	store  FileStoreService
	logger *zap.Logger
	ttl    time.Duration
	now    func() time.Time
	token  func() (string, error)

	// 一把锁保护 records 与 byPath，插入与“查找+过期删除”都在锁内完成
	mu      sync.Mutex
	records map[string]*domain.ShareRecord
	byPath  map[string]string // StoredPath -> id
}

// NewShareService creates ShareService instance
// NewShareService 创建 ShareService 实例
func NewShareService(store FileStoreService, logger *zap.Logger, config *ServiceConfig) ShareService {
	var cfg ShareConfig
	if config != nil {
		cfg = config.Share
	}
	return &shareService{
		store:   store,
		logger:  logger,
		ttl:     cfg.ttl(),
		now:     time.Now,
		token:   func() (string, error) { return util.TokenURLSafe(shareTokenBytes) },
		records: make(map[string]*domain.ShareRecord),
		byPath:  make(map[string]string),
	}
}

func (s *shareService) Create(kind domain.ShareKind, payload domain.SharePayload) (*domain.ShareRecord, error) {
	if !kind.Valid() {
		return nil, code.ErrorShareTypeInvalid.WithDetails(string(kind))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for attempt := 0; attempt < shareCreateAttempts; attempt++ {
		id, err := s.token()
		if err != nil {
			return nil, code.ErrorShareCreate.WithDetails(err.Error())
		}
		if _, taken := s.records[id]; taken {
			s.logger.Warn("share id collision, retrying", zap.Int("attempt", attempt+1))
			continue
		}

		now := s.now()
		rec := &domain.ShareRecord{
			ID:        id,
			Kind:      kind,
			Payload:   payload,
			CreatedAt: now,
			ExpiresAt: now.Add(s.ttl),
		}
		s.records[id] = rec
		if kind == domain.ShareKindFile && payload.StoredPath != "" {
			s.byPath[payload.StoredPath] = id
		}

		sharesCreatedTotal.WithLabelValues(string(kind)).Inc()
		sharesActive.Set(float64(len(s.records)))

		out := *rec
		return &out, nil
	}
	return nil, code.ErrorShareCreate.WithDetails("could not allocate a unique id")
}

func (s *shareService) ShareFile(ctx context.Context, content []byte, originalName string) (*domain.ShareRecord, error) {
	name, err := s.store.SanitizeName(originalName)
	if err != nil {
		return nil, err
	}
	path, err := s.store.SaveShared(ctx, content, name)
	if err != nil {
		return nil, err
	}

	rec, err := s.Create(domain.ShareKindFile, domain.SharePayload{StoredPath: path, DisplayName: name})
	if err != nil {
		_ = s.store.Delete(ctx, path)
		return nil, err
	}

	s.logger.Info("file shared",
		zap.String(logger.FieldShareID, rec.ID),
		zap.String(logger.FieldPath, path),
		zap.Int(logger.FieldSize, len(content)))
	return rec, nil
}

func (s *shareService) ShareText(ctx context.Context, text string) (*domain.ShareRecord, error) {
	if text == "" {
		return nil, code.ErrorTextRequired
	}
	rec, err := s.Create(domain.ShareKindText, domain.SharePayload{Text: text})
	if err != nil {
		return nil, err
	}
	s.logger.Info("text shared",
		zap.String(logger.FieldShareID, rec.ID),
		zap.Int(logger.FieldSize, len(text)))
	return rec, nil
}

func (s *shareService) Resolve(ctx context.Context, id string) (*domain.ShareRecord, error) {
	s.mu.Lock()
	rec, ok := s.records[id]
	if !ok {
		s.mu.Unlock()
		shareResolveTotal.WithLabelValues("not_found").Inc()
		return nil, domain.ErrShareNotFound
	}

	if rec.IsExpired(s.now()) {
		delete(s.records, id)
		if rec.Kind == domain.ShareKindFile {
			delete(s.byPath, rec.Payload.StoredPath)
		}
		sharesActive.Set(float64(len(s.records)))
		s.mu.Unlock()

		shareResolveTotal.WithLabelValues("expired").Inc()
		if rec.Kind == domain.ShareKindFile {
			if err := s.store.Delete(ctx, rec.Payload.StoredPath); err != nil {
				s.logger.Warn("delete expired shared file failed",
					zap.String(logger.FieldShareID, id),
					zap.String(logger.FieldPath, rec.Payload.StoredPath),
					zap.Error(err))
			}
		}
		return nil, domain.ErrShareExpired
	}
	s.mu.Unlock()

	shareResolveTotal.WithLabelValues("ok").Inc()
	out := *rec
	return &out, nil
}

func (s *shareService) IsReferenced(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byPath[path]
	if !ok {
		return false
	}
	rec, ok := s.records[id]
	return ok && !rec.IsExpired(s.now())
}

func (s *shareService) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
