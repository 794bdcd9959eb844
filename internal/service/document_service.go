package service

import (
	"context"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/haierkeys/doc-toolbox-service/pkg/code"
	"github.com/haierkeys/doc-toolbox-service/pkg/docops"
	"github.com/haierkeys/doc-toolbox-service/pkg/fileurl"
	"github.com/haierkeys/doc-toolbox-service/pkg/logger"
	"github.com/haierkeys/doc-toolbox-service/pkg/workerpool"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const mimePDF = "application/pdf"

// Upload 一个已读入内存的上传文件
type Upload struct {
	Name string // 客户端提供的原始文件名
	Data []byte
}

// OperationResult result of a document operation stored in the working area
// OperationResult 文档操作结果（已保存到工作区）
type OperationResult struct {
	Path string // 存储路径
	Name string // 下载文件名

	TotalPages int // split: 源文档总页数

	OriginalSize   int64   // compress
	CompressedSize int64   // compress
	Reduction      float64 // compress
}

// DocumentService defines the document tools
// DocumentService 定义文档处理工具
type DocumentService interface {
	// Merge concatenates the PDF uploads in order; uploads that are not PDFs are skipped
	// Merge 按顺序合并 PDF，非 PDF 上传被忽略，有效文件少于 2 个时失败
	Merge(ctx context.Context, files []Upload) (*OperationResult, error)

	// Split extracts the pages named by ranges, e.g. "1-3,5"; empty string keeps every page
	// Split 按页码范围提取页面，空范围表示全部
	Split(ctx context.Context, file Upload, ranges string) (*OperationResult, error)

	// Rotate rotates every page; empty rotation means 90
	// Rotate 旋转所有页面，未指定角度时为 90
	Rotate(ctx context.Context, file Upload, rotation string) (*OperationResult, error)

	// Compress optimizes the PDF and reports the size reduction
	// Compress 压缩 PDF 并返回体积变化
	Compress(ctx context.Context, file Upload) (*OperationResult, error)

	// Secure encrypts the PDF with password
	// Secure 使用密码加密 PDF
	Secure(ctx context.Context, file Upload, password string) (*OperationResult, error)

	// Convert converts the upload to target (pdf->docx, doc/docx->pdf); empty target means pdf
	// Convert 格式转换，目标为空时默认 pdf
	Convert(ctx context.Context, file Upload, target string) (*OperationResult, error)
}

type documentService struct {
	store  FileStoreService
	pool   *workerpool.Pool
	logger *zap.Logger
}

// NewDocumentService creates DocumentService instance
// NewDocumentService 创建 DocumentService 实例
func NewDocumentService(store FileStoreService, pool *workerpool.Pool, logger *zap.Logger) DocumentService {
	return &documentService{
		store:  store,
		pool:   pool,
		logger: logger,
	}
}

// pdfUpload checks that the upload is a whitelisted .pdf and returns its sanitized name
// pdfUpload 校验上传为 PDF 文件
func (s *documentService) pdfUpload(file Upload) (string, error) {
	if file.Name == "" || len(file.Data) == 0 {
		return "", code.ErrorUploadInvalidFile
	}
	name, err := s.store.SanitizeName(file.Name)
	if err != nil {
		return "", code.ErrorUploadInvalidFile.WithDetails(file.Name)
	}
	if fileurl.GetFileExt(name) != "pdf" {
		return "", code.ErrorUploadInvalidFile.WithDetails(name)
	}
	return name, nil
}

// sniffPDF 按内容识别类型，后缀为 pdf 但内容不是 PDF 时视为无效文档
func sniffPDF(name string, data []byte) error {
	if mt := mimetype.Detect(data); !mt.Is(mimePDF) {
		return code.ErrorInvalidDocument.WithDetails(name + " is " + mt.String())
	}
	return nil
}

// run executes fn on the worker pool and stores its output
// run 在 Worker Pool 中执行文档操作并保存结果
func (s *documentService) run(ctx context.Context, op, ext string, fn func() ([]byte, error)) (*OperationResult, error) {
	start := time.Now()
	var out []byte
	err := s.pool.Submit(ctx, func(ctx context.Context) error {
		b, err := fn()
		if err != nil {
			return err
		}
		out = b
		return nil
	})
	documentOpDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

	if err != nil {
		documentOpsTotal.WithLabelValues(op, "failed").Inc()
		s.logger.Warn("document operation failed",
			zap.String(logger.FieldOperation, op),
			zap.Duration(logger.FieldDuration, time.Since(start)),
			zap.Error(err))
		return nil, toCodeError(err)
	}

	p, err := s.store.SaveOutput(ctx, out, op, ext)
	if err != nil {
		documentOpsTotal.WithLabelValues(op, "failed").Inc()
		return nil, err
	}
	documentOpsTotal.WithLabelValues(op, "ok").Inc()

	s.logger.Info("document operation finished",
		zap.String(logger.FieldOperation, op),
		zap.String(logger.FieldPath, p),
		zap.String(logger.FieldSize, humanize.Bytes(uint64(len(out)))),
		zap.Duration(logger.FieldDuration, time.Since(start)))

	return &OperationResult{Path: p, Name: path.Base(p)}, nil
}

func (s *documentService) Merge(ctx context.Context, files []Upload) (*OperationResult, error) {
	inputs := make([][]byte, 0, len(files))
	for _, f := range files {
		if _, err := s.pdfUpload(f); err != nil {
			s.logger.Debug("merge skips upload", zap.String("name", f.Name), zap.Error(err))
			continue
		}
		inputs = append(inputs, f.Data)
	}
	if len(inputs) < 2 {
		return nil, code.ErrorMergeTooFewFiles
	}

	return s.run(ctx, docops.OpMerge, "pdf", func() ([]byte, error) {
		return docops.Merge(inputs)
	})
}

func (s *documentService) Split(ctx context.Context, file Upload, ranges string) (*OperationResult, error) {
	name, err := s.pdfUpload(file)
	if err != nil {
		return nil, err
	}
	if err := sniffPDF(name, file.Data); err != nil {
		return nil, err
	}

	var total int
	res, err := s.run(ctx, docops.OpSplit, "pdf", func() ([]byte, error) {
		r, err := docops.Split(file.Data, strings.TrimSpace(ranges))
		if err != nil {
			return nil, err
		}
		total = r.TotalPages
		return r.Data, nil
	})
	if err != nil {
		return nil, err
	}
	res.TotalPages = total
	return res, nil
}

// parseRotation 解析旋转角度，空字符串为默认 90
func parseRotation(rotation string) (int, error) {
	rotation = strings.TrimSpace(rotation)
	if rotation == "" {
		return docops.DefaultRotation, nil
	}
	deg, err := strconv.Atoi(rotation)
	if err != nil {
		return 0, code.ErrorRotationInvalid.WithDetails(rotation)
	}
	if _, err := docops.NormalizeRotation(deg); err != nil {
		return 0, code.ErrorRotationInvalid.WithDetails(rotation)
	}
	return deg, nil
}

func (s *documentService) Rotate(ctx context.Context, file Upload, rotation string) (*OperationResult, error) {
	name, err := s.pdfUpload(file)
	if err != nil {
		return nil, err
	}
	deg, err := parseRotation(rotation)
	if err != nil {
		return nil, err
	}
	if err := sniffPDF(name, file.Data); err != nil {
		return nil, err
	}

	return s.run(ctx, docops.OpRotate, "pdf", func() ([]byte, error) {
		return docops.Rotate(file.Data, deg)
	})
}

func (s *documentService) Compress(ctx context.Context, file Upload) (*OperationResult, error) {
	name, err := s.pdfUpload(file)
	if err != nil {
		return nil, err
	}
	if err := sniffPDF(name, file.Data); err != nil {
		return nil, err
	}

	var stats docops.CompressResult
	res, err := s.run(ctx, docops.OpCompress, "pdf", func() ([]byte, error) {
		r, err := docops.Compress(file.Data)
		if err != nil {
			return nil, err
		}
		stats = *r
		return r.Data, nil
	})
	if err != nil {
		return nil, err
	}
	res.OriginalSize = stats.OriginalSize
	res.CompressedSize = stats.CompressedSize
	res.Reduction = stats.Reduction
	return res, nil
}

func (s *documentService) Secure(ctx context.Context, file Upload, password string) (*OperationResult, error) {
	name, err := s.pdfUpload(file)
	if err != nil {
		return nil, err
	}
	if password == "" {
		return nil, code.ErrorPasswordRequired
	}
	if err := sniffPDF(name, file.Data); err != nil {
		return nil, err
	}

	return s.run(ctx, docops.OpSecure, "pdf", func() ([]byte, error) {
		return docops.Secure(file.Data, password)
	})
}

func (s *documentService) Convert(ctx context.Context, file Upload, target string) (*OperationResult, error) {
	if file.Name == "" || len(file.Data) == 0 {
		return nil, code.ErrorUploadMissing
	}
	name, err := s.store.SanitizeName(file.Name)
	if err != nil {
		return nil, err
	}

	target = strings.ToLower(strings.TrimSpace(target))
	if target == "" {
		target = docops.DefaultConvertTarget
	}
	srcExt := fileurl.GetFileExt(name)
	if !docops.CanConvert(srcExt, target) {
		return nil, code.ErrorConvertUnsupported.WithDetails(srcExt + " to " + target)
	}

	// 输入先暂存到工作区，处理结束后删除；进程中途退出时由清理任务回收
	staged, err := s.store.SaveUpload(ctx, file.Data, name)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := s.store.Delete(context.WithoutCancel(ctx), staged); err != nil {
			s.logger.Warn("delete staged upload failed", zap.String(logger.FieldPath, staged), zap.Error(err))
		}
	}()

	return s.run(ctx, docops.OpConvert, target, func() ([]byte, error) {
		input, err := s.store.Read(ctx, staged)
		if err != nil {
			return nil, err
		}
		return docops.Convert(input, srcExt, target)
	})
}

// toCodeError maps an operation error onto the coded error returned to clients
// toCodeError 将操作错误映射为对外的错误码
func toCodeError(err error) error {
	var c *code.Code
	if errors.As(err, &c) {
		return c
	}

	if f, ok := docops.AsFailure(err); ok {
		detail := f.Kind.String()
		if f.Err != nil {
			detail = f.Err.Error()
		}
		switch f.Kind {
		case docops.KindTooFewInputs:
			return code.ErrorMergeTooFewFiles.WithDetails(detail)
		case docops.KindMalformedRange:
			return code.ErrorPageRangeMalformed.WithDetails(detail)
		case docops.KindPageOutOfBounds:
			return code.ErrorPageOutOfBounds.WithDetails(detail)
		case docops.KindInvalidRotation:
			return code.ErrorRotationInvalid.WithDetails(detail)
		case docops.KindMissingPassword:
			return code.ErrorPasswordRequired.WithDetails(detail)
		case docops.KindUnsupported:
			return code.ErrorConvertUnsupported.WithDetails(detail)
		default:
			return code.ErrorInvalidDocument.WithDetails(detail)
		}
	}

	var pe *workerpool.PanicError
	switch {
	case errors.Is(err, workerpool.ErrWorkerPoolFull), errors.Is(err, workerpool.ErrWorkerPoolClosed):
		return code.ErrorServerBusy
	case errors.As(err, &pe):
		return code.ErrorOperationFailed.WithDetails(pe.Error())
	}
	return code.ErrorOperationFailed.WithDetails(err.Error())
}
