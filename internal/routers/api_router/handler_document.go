package api_router

import (
	"github.com/haierkeys/doc-toolbox-service/internal/app"
	"github.com/haierkeys/doc-toolbox-service/internal/dto"
	"github.com/haierkeys/doc-toolbox-service/internal/service"
	pkgapp "github.com/haierkeys/doc-toolbox-service/pkg/app"
	"github.com/haierkeys/doc-toolbox-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// DocumentHandler document tool API router handler
// DocumentHandler 文档工具 API 路由处理器
// 上传在此读取，处理交给 DocumentService
type DocumentHandler struct {
	*Handler
}

// NewDocumentHandler creates DocumentHandler instance
// NewDocumentHandler 创建 DocumentHandler 实例
func NewDocumentHandler(a *app.App) *DocumentHandler {
	return &DocumentHandler{Handler: NewHandler(a)}
}

// downloadURL 结果文件的相对下载地址
func downloadURL(res *service.OperationResult) string {
	return "/download/" + res.Name
}

func (h *DocumentHandler) ok(c *gin.Context, res *service.OperationResult) {
	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(dto.OperationResponse{
		Success:     true,
		DownloadURL: downloadURL(res),
	}))
}

// Merge combines the uploaded PDFs in upload order
// @Summary Merge PDFs
// @Accept multipart/form-data
// @Param files formData file true "PDF files, at least two"
// @Success 200 {object} dto.OperationResponse
// @Router /merge [post]
func (h *DocumentHandler) Merge(c *gin.Context) {
	uploads, err := h.formUploads(c, "files")
	if err != nil {
		h.fail(c, "DocumentHandler.Merge", err)
		return
	}
	if len(uploads) < 2 {
		h.fail(c, "DocumentHandler.Merge", code.ErrorMergeTooFewFiles)
		return
	}

	res, err := h.App.DocumentService.Merge(c.Request.Context(), uploads)
	if err != nil {
		h.fail(c, "DocumentHandler.Merge", err)
		return
	}
	h.ok(c, res)
}

// Split extracts the requested pages into a new PDF
// @Summary Split PDF
// @Param file formData file true "PDF file"
// @Param pages formData string false "page ranges, e.g. 1-3,5"
// @Success 200 {object} dto.SplitResponse
// @Router /split [post]
func (h *DocumentHandler) Split(c *gin.Context) {
	params := &dto.SplitRequest{}
	if valid, errs := pkgapp.BindAndValid(c, params); !valid {
		invalidParams(c, errs)
		return
	}
	up, err := h.formUpload(c, "file")
	if err != nil {
		h.fail(c, "DocumentHandler.Split", err)
		return
	}

	res, err := h.App.DocumentService.Split(c.Request.Context(), up, params.Pages)
	if err != nil {
		h.fail(c, "DocumentHandler.Split", err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(dto.SplitResponse{
		Success:     true,
		DownloadURL: downloadURL(res),
		TotalPages:  res.TotalPages,
	}))
}

// Convert converts between PDF and Word
// @Summary Convert document
// @Param file formData file true "source document"
// @Param convert_to formData string false "target extension, default pdf"
// @Success 200 {object} dto.OperationResponse
// @Router /convert [post]
func (h *DocumentHandler) Convert(c *gin.Context) {
	params := &dto.ConvertRequest{}
	if valid, errs := pkgapp.BindAndValid(c, params); !valid {
		invalidParams(c, errs)
		return
	}
	up, err := h.formUpload(c, "file")
	if err != nil {
		h.fail(c, "DocumentHandler.Convert", err)
		return
	}

	res, err := h.App.DocumentService.Convert(c.Request.Context(), up, params.ConvertTo)
	if err != nil {
		h.fail(c, "DocumentHandler.Convert", err)
		return
	}
	h.ok(c, res)
}

// Compress rewrites the PDF with object streams and duplicate resources removed
// @Summary Compress PDF
// @Param file formData file true "PDF file"
// @Success 200 {object} dto.CompressResponse
// @Router /compress [post]
func (h *DocumentHandler) Compress(c *gin.Context) {
	up, err := h.formUpload(c, "file")
	if err != nil {
		h.fail(c, "DocumentHandler.Compress", err)
		return
	}

	res, err := h.App.DocumentService.Compress(c.Request.Context(), up)
	if err != nil {
		h.fail(c, "DocumentHandler.Compress", err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(dto.CompressResponse{
		Success:        true,
		DownloadURL:    downloadURL(res),
		OriginalSize:   res.OriginalSize,
		CompressedSize: res.CompressedSize,
		Reduction:      res.Reduction,
	}))
}

// Rotate turns every page by the given angle
// @Summary Rotate PDF
// @Param file formData file true "PDF file"
// @Param rotation formData string false "degrees, multiple of 90, default 90"
// @Success 200 {object} dto.OperationResponse
// @Router /rotate [post]
func (h *DocumentHandler) Rotate(c *gin.Context) {
	params := &dto.RotateRequest{}
	if valid, errs := pkgapp.BindAndValid(c, params); !valid {
		invalidParams(c, errs)
		return
	}
	up, err := h.formUpload(c, "file")
	if err != nil {
		h.fail(c, "DocumentHandler.Rotate", err)
		return
	}

	res, err := h.App.DocumentService.Rotate(c.Request.Context(), up, params.Rotation)
	if err != nil {
		h.fail(c, "DocumentHandler.Rotate", err)
		return
	}
	h.ok(c, res)
}

// Secure encrypts the PDF with a user password
// @Summary Password-protect PDF
// @Param file formData file true "PDF file"
// @Param password formData string true "password"
// @Success 200 {object} dto.OperationResponse
// @Router /secure [post]
func (h *DocumentHandler) Secure(c *gin.Context) {
	params := &dto.SecureRequest{}
	if valid, errs := pkgapp.BindAndValid(c, params); !valid {
		invalidParams(c, errs)
		return
	}
	up, err := h.formUpload(c, "file")
	if err != nil {
		h.fail(c, "DocumentHandler.Secure", err)
		return
	}

	res, err := h.App.DocumentService.Secure(c.Request.Context(), up, params.Password)
	if err != nil {
		h.fail(c, "DocumentHandler.Secure", err)
		return
	}
	h.ok(c, res)
}
