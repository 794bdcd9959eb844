package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/haierkeys/doc-toolbox-service/internal/domain"
	"github.com/haierkeys/doc-toolbox-service/pkg/code"
	"github.com/haierkeys/doc-toolbox-service/pkg/docops"
	"github.com/haierkeys/doc-toolbox-service/pkg/fileurl"
	"github.com/haierkeys/doc-toolbox-service/pkg/logger"
	"github.com/haierkeys/doc-toolbox-service/pkg/storage"
	"github.com/haierkeys/doc-toolbox-service/pkg/util"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// outputTags 允许的输出文件前缀
var outputTags = map[string]bool{
	docops.OpMerge:    true,
	docops.OpSplit:    true,
	docops.OpCompress: true,
	docops.OpRotate:   true,
	docops.OpSecure:   true,
	docops.OpConvert:  true,
}

// FileStoreService defines the transient file store
// FileStoreService 定义临时文件存储
type FileStoreService interface {
	// SanitizeName reduces a client file name to a safe whitelisted name
	// SanitizeName 规整客户端文件名，并校验后缀白名单
	SanitizeName(originalName string) (string, error)

	// SaveUpload stores a staged upload in the working area
	// SaveUpload 将上传文件暂存到工作区，文件名为 <unixnano>_<uuid8>_<name>
	SaveUpload(ctx context.Context, content []byte, originalName string) (string, error)

	// SaveOutput stores an operation result in the working area
	// SaveOutput 保存处理结果到工作区，文件名为 <tag>_<unix>_<uuid8>.<ext>
	SaveOutput(ctx context.Context, content []byte, tag, ext string) (string, error)

	// SaveShared stores a shared upload in the shared area
	// SaveShared 保存分享文件到分享区，文件名为 <token>_<name>
	SaveShared(ctx context.Context, content []byte, originalName string) (string, error)

	// Read returns the whole file, or domain.ErrFileNotFound
	// Read 读取整个文件，不存在时返回 domain.ErrFileNotFound
	Read(ctx context.Context, path string) ([]byte, error)

	// Open opens the file for streaming; the file counts as in use until the reader is closed
	// Open 打开文件用于流式读取，关闭前文件视为使用中
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes the file; deleting a missing file is not an error
	// Delete 删除文件，文件不存在不视为错误
	Delete(ctx context.Context, path string) error

	// DeleteIfIdle removes the file unless a reader has it open
	// DeleteIfIdle 文件未被打开时删除，返回是否删除
	DeleteIfIdle(ctx context.Context, path string) (bool, error)

	// List enumerates the files of one area
	// List 列出存储区中的文件
	List(ctx context.Context, area domain.Area) ([]domain.StoredFile, error)

	// InUse reports whether a reader currently has path open
	// InUse 文件是否正在被读取
	InUse(path string) bool

	// DownloadPath maps a public download name onto its working-area path
	// DownloadPath 将下载文件名映射为工作区路径，非法名称返回 domain.ErrFileNotFound
	DownloadPath(name string) (string, error)
}

// fileStoreService implementation of FileStoreService
// fileStoreService 实现 FileStoreService 接口
type fileStoreService struct {
	storage storage.Storager
	logger  *zap.Logger
	config  FileStoreConfig
	now     func() time.Time

	mu       sync.Mutex
	open     map[string]int      // path -> 打开计数
	deleting map[string]struct{} // 正在删除的 path，删除期间不持有锁
}

// NewFileStoreService creates FileStoreService instance
// NewFileStoreService 创建 FileStoreService 实例
func NewFileStoreService(st storage.Storager, logger *zap.Logger, config *ServiceConfig) FileStoreService {
	var cfg FileStoreConfig
	if config != nil {
		cfg = config.Store
	}
	return &fileStoreService{
		storage:  st,
		logger:   logger,
		config:   cfg,
		now:      time.Now,
		open:     make(map[string]int),
		deleting: make(map[string]struct{}),
	}
}

func (s *fileStoreService) areaDir(area domain.Area) string {
	if area == domain.AreaShared {
		return s.config.sharedDir()
	}
	return s.config.workingDir()
}

func (s *fileStoreService) areaOf(path string) (domain.Area, bool) {
	switch {
	case strings.HasPrefix(path, s.config.workingDir()+"/"):
		return domain.AreaWorking, true
	case strings.HasPrefix(path, s.config.sharedDir()+"/"):
		return domain.AreaShared, true
	}
	return "", false
}

// checkPath accepts only "<area dir>/<single component>"
func (s *fileStoreService) checkPath(path string) error {
	area, ok := s.areaOf(path)
	if !ok {
		return errors.Wrap(domain.ErrFileNotFound, path)
	}
	name := strings.TrimPrefix(path, s.areaDir(area)+"/")
	if !fileurl.IsSingleComponent(name) {
		return errors.Wrap(domain.ErrFileNotFound, path)
	}
	return nil
}

// fallbackStem 文件名主干清理后为空（如纯中文文件名）时使用
const fallbackStem = "file"

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

func (s *fileStoreService) SanitizeName(originalName string) (string, error) {
	if strings.TrimSpace(originalName) == "" {
		return "", code.ErrorUploadNameInvalid
	}
	if strings.Trim(originalName, ". ") == "" {
		return "", code.ErrorUploadNameInvalid.WithDetails(originalName)
	}
	// 后缀取自原始文件名，非 ASCII 文件名同样可以通过白名单
	if !fileurl.IsAllowedExt(originalName) {
		return "", code.ErrorUploadExtNotAllow.WithDetails(fileurl.GetFileExt(originalName))
	}
	stem, ext := fileurl.SplitExt(originalName)
	stem = fileurl.SecureFilename(stem)
	if stem == "" {
		stem = fallbackStem
	}
	return stem + ext, nil
}

func (s *fileStoreService) put(ctx context.Context, area domain.Area, name string, content []byte) (string, error) {
	path := s.areaDir(area) + "/" + name
	if err := s.storage.Put(ctx, path, content); err != nil {
		s.logger.Error("file store write failed",
			zap.String(logger.FieldPath, path),
			zap.String(logger.FieldArea, string(area)),
			zap.Error(err))
		return "", code.ErrorStorageWrite.WithDetails(err.Error())
	}
	s.logger.Debug("file stored",
		zap.String(logger.FieldPath, path),
		zap.String(logger.FieldArea, string(area)),
		zap.Int(logger.FieldSize, len(content)))
	return path, nil
}

func (s *fileStoreService) SaveUpload(ctx context.Context, content []byte, originalName string) (string, error) {
	name, err := s.SanitizeName(originalName)
	if err != nil {
		return "", err
	}
	name = fmt.Sprintf("%d_%s_%s", s.now().UnixNano(), shortID(), name)
	return s.put(ctx, domain.AreaWorking, name, content)
}

func (s *fileStoreService) SaveOutput(ctx context.Context, content []byte, tag, ext string) (string, error) {
	if !outputTags[tag] {
		return "", code.ErrorOperationFailed.WithDetails("unknown output tag " + tag)
	}
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if !fileurl.IsAllowedExt("out." + ext) {
		return "", code.ErrorUploadExtNotAllow.WithDetails(ext)
	}
	name := fmt.Sprintf("%s_%d_%s.%s", tag, s.now().Unix(), shortID(), ext)
	return s.put(ctx, domain.AreaWorking, name, content)
}

func (s *fileStoreService) SaveShared(ctx context.Context, content []byte, originalName string) (string, error) {
	name, err := s.SanitizeName(originalName)
	if err != nil {
		return "", err
	}
	token, err := util.TokenURLSafe(16)
	if err != nil {
		return "", code.ErrorStorageWrite.WithDetails(err.Error())
	}
	return s.put(ctx, domain.AreaShared, token+"_"+name, content)
}

func (s *fileStoreService) Read(ctx context.Context, path string) ([]byte, error) {
	rc, err := s.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	b, err := io.ReadAll(rc)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return b, nil
}

// trackedReader 关闭时释放打开计数
type trackedReader struct {
	io.ReadCloser
	once    sync.Once
	release func()
}

func (t *trackedReader) Close() error {
	err := t.ReadCloser.Close()
	t.once.Do(t.release)
	return err
}

// acquire 登记一次打开，文件正在被删除时返回 false
func (s *fileStoreService) acquire(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.deleting[path]; ok {
		return false
	}
	s.open[path]++
	return true
}

func (s *fileStoreService) release(path string) {
	s.mu.Lock()
	if s.open[path] <= 1 {
		delete(s.open, path)
	} else {
		s.open[path]--
	}
	s.mu.Unlock()
}

func (s *fileStoreService) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := s.checkPath(path); err != nil {
		return nil, err
	}

	// 先登记再打开，DeleteIfIdle 在同一把锁下检查计数并占位
	if !s.acquire(path) {
		return nil, errors.Wrap(domain.ErrFileNotFound, path)
	}
	rc, err := s.storage.Open(ctx, path)
	if err != nil {
		s.release(path)
		if errors.Is(err, storage.ErrNotExist) {
			return nil, errors.Wrap(domain.ErrFileNotFound, path)
		}
		return nil, errors.Wrap(err, path)
	}
	return &trackedReader{ReadCloser: rc, release: func() { s.release(path) }}, nil
}

func (s *fileStoreService) Delete(ctx context.Context, path string) error {
	if err := s.checkPath(path); err != nil {
		return nil
	}
	return s.storage.Delete(ctx, path)
}

func (s *fileStoreService) DeleteIfIdle(ctx context.Context, path string) (bool, error) {
	if err := s.checkPath(path); err != nil {
		return false, nil
	}

	s.mu.Lock()
	_, busy := s.deleting[path]
	if busy || s.open[path] > 0 {
		s.mu.Unlock()
		return false, nil
	}
	s.deleting[path] = struct{}{}
	s.mu.Unlock()

	// 远端存储的删除可能较慢，不在锁内执行
	err := s.storage.Delete(ctx, path)

	s.mu.Lock()
	delete(s.deleting, path)
	s.mu.Unlock()

	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *fileStoreService) List(ctx context.Context, area domain.Area) ([]domain.StoredFile, error) {
	objs, err := s.storage.List(ctx, s.areaDir(area))
	if err != nil {
		return nil, err
	}
	files := make([]domain.StoredFile, 0, len(objs))
	for _, o := range objs {
		files = append(files, domain.StoredFile{
			Area:    area,
			Path:    o.Key,
			Name:    o.Name(),
			Size:    o.Size,
			ModTime: o.ModTime,
		})
	}
	return files, nil
}

func (s *fileStoreService) InUse(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open[path] > 0
}

func (s *fileStoreService) DownloadPath(name string) (string, error) {
	if !fileurl.IsSingleComponent(name) || fileurl.SecureFilename(name) != name {
		return "", errors.Wrap(domain.ErrFileNotFound, name)
	}
	return s.config.workingDir() + "/" + name, nil
}
