// Package api_router 提供 HTTP API 路由处理器
package api_router

import (
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/haierkeys/doc-toolbox-service/internal/app"
	"github.com/haierkeys/doc-toolbox-service/internal/domain"
	"github.com/haierkeys/doc-toolbox-service/internal/middleware"
	"github.com/haierkeys/doc-toolbox-service/internal/service"
	pkgapp "github.com/haierkeys/doc-toolbox-service/pkg/app"
	"github.com/haierkeys/doc-toolbox-service/pkg/code"
	"github.com/haierkeys/doc-toolbox-service/pkg/logger"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Handler 基础 Handler 结构体，封装 App Container
// 所有 Handler 都嵌入此结构体以获得依赖注入能力
type Handler struct {
	App *app.App
}

// NewHandler 创建基础 Handler 实例
func NewHandler(a *app.App) *Handler {
	return &Handler{App: a}
}

// errorCode maps a service error onto the response code
// errorCode 将服务层错误映射为响应码
func errorCode(err error) *code.Code {
	var c *code.Code
	switch {
	case errors.As(err, &c):
		return c
	case errors.Is(err, domain.ErrFileNotFound):
		return code.ErrorFileNotFound
	case errors.Is(err, domain.ErrShareExpired):
		return code.ErrorShareExpired
	case errors.Is(err, domain.ErrShareNotFound):
		return code.ErrorShareNotFound
	default:
		return code.ErrorServerInternal.WithDetails(err.Error())
	}
}

// logError 记录失败请求，5xx 记为 error，其余记为 debug
func (h *Handler) logError(c *gin.Context, method string, err error) *code.Code {
	ec := errorCode(err)
	fields := []zap.Field{
		zap.String(logger.FieldTraceID, middleware.GetTraceIDFromGin(c)),
		zap.String(logger.FieldMethod, method),
		zap.Int("code", ec.Code()),
		zap.Error(err),
	}
	if ec.StatusCode() >= http.StatusInternalServerError {
		h.App.Logger().Error("request failed", fields...)
	} else {
		h.App.Logger().Debug("request rejected", fields...)
	}
	return ec
}

// fail 记录错误并输出 JSON 错误响应
func (h *Handler) fail(c *gin.Context, method string, err error) {
	pkgapp.NewResponse(c).ToResponse(h.logError(c, method, err))
}

// invalidParams 输出参数校验失败响应
func invalidParams(c *gin.Context, errs pkgapp.ValidErrors) {
	pkgapp.NewResponse(c).ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
}

// formUpload reads one multipart file field fully into memory
// formUpload 读取单个上传字段；字段缺失或文件名为空时返回 ErrorUploadMissing
func (h *Handler) formUpload(c *gin.Context, field string) (service.Upload, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return service.Upload{}, uploadError(err)
	}
	return h.readUpload(fh)
}

// formUploads reads every file of a repeated multipart field
func (h *Handler) formUploads(c *gin.Context, field string) ([]service.Upload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, uploadError(err)
	}
	uploads := make([]service.Upload, 0, len(form.File[field]))
	for _, fh := range form.File[field] {
		u, err := h.readUpload(fh)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, u)
	}
	return uploads, nil
}

// readUpload 上传内容只读取一次，后续的大小统计与处理共用同一份数据
func (h *Handler) readUpload(fh *multipart.FileHeader) (service.Upload, error) {
	if fh.Filename == "" {
		return service.Upload{}, code.ErrorUploadMissing
	}
	if limit := h.App.Config().GetMaxUploadSize(); fh.Size > limit {
		return service.Upload{}, code.ErrorUploadTooLarge.WithDetails(humanize.Bytes(uint64(fh.Size)) + " > " + humanize.Bytes(uint64(limit)))
	}
	f, err := fh.Open()
	if err != nil {
		return service.Upload{}, errors.Wrap(err, "open upload")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return service.Upload{}, errors.Wrap(err, "read upload")
	}
	return service.Upload{Name: fh.Filename, Data: data}, nil
}

func uploadError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return code.ErrorUploadTooLarge.WithDetails(humanize.Bytes(uint64(tooLarge.Limit)))
	}
	return code.ErrorUploadMissing
}

// serveAttachment streams a stored file as a download named name
// serveAttachment 以附件形式流式输出存储文件，输出期间文件计为使用中
func (h *Handler) serveAttachment(c *gin.Context, method, path, name string) {
	rc, err := h.App.FileStore.Open(c.Request.Context(), path)
	if err != nil {
		pkgapp.NewResponse(c).ToErrorText(h.logError(c, method, err))
		return
	}
	defer rc.Close()

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, -1, contentType, rc, map[string]string{
		"Content-Disposition": mime.FormatMediaType("attachment", map[string]string{"filename": name}),
	})
}
