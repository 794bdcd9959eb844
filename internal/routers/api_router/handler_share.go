package api_router

import (
	"net/http"

	"github.com/haierkeys/doc-toolbox-service/internal/app"
	"github.com/haierkeys/doc-toolbox-service/internal/domain"
	"github.com/haierkeys/doc-toolbox-service/internal/dto"
	pkgapp "github.com/haierkeys/doc-toolbox-service/pkg/app"
	"github.com/haierkeys/doc-toolbox-service/pkg/code"
	"github.com/haierkeys/doc-toolbox-service/pkg/util"

	"github.com/gin-gonic/gin"
)

// ShareHandler share link API router handler
// ShareHandler 分享链接路由处理器
type ShareHandler struct {
	*Handler
}

// NewShareHandler creates ShareHandler instance
// NewShareHandler 创建 ShareHandler 实例
func NewShareHandler(a *app.App) *ShareHandler {
	return &ShareHandler{Handler: NewHandler(a)}
}

// Create registers a file or text share
// @Summary Create share link
// @Param share_type formData string false "file or text, default file"
// @Param file formData file false "file to share"
// @Param text_content formData string false "text to share"
// @Success 200 {object} dto.ShareCreateResponse
// @Router /share [post]
func (h *ShareHandler) Create(c *gin.Context) {
	params := &dto.ShareCreateRequest{}
	if valid, errs := pkgapp.BindAndValid(c, params); !valid {
		invalidParams(c, errs)
		return
	}

	kind := domain.ShareKind(params.ShareType)
	if kind == "" {
		kind = domain.ShareKindFile
	}

	var (
		rec *domain.ShareRecord
		err error
	)
	switch kind {
	case domain.ShareKindFile:
		up, uerr := h.formUpload(c, "file")
		if uerr != nil {
			h.fail(c, "ShareHandler.Create", uerr)
			return
		}
		rec, err = h.App.ShareService.ShareFile(c.Request.Context(), up.Data, up.Name)
	case domain.ShareKindText:
		rec, err = h.App.ShareService.ShareText(c.Request.Context(), params.TextContent)
	default:
		err = code.ErrorShareTypeInvalid.WithDetails(params.ShareType)
	}
	if err != nil {
		h.fail(c, "ShareHandler.Create", err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(dto.ShareCreateResponse{
		Success:   true,
		ShareLink: pkgapp.GetAccessHost(c) + "/shared/" + rec.ID,
		Expiry:    rec.ExpiresAt.Format(util.ExpiryLayout),
	}))
}

// Shared resolves a share link: 404 unknown, 410 expired, otherwise the file or text
// Shared 访问分享链接：不存在 404，过期 410，否则输出文件或文本页面
// @Router /shared/{id} [get]
func (h *ShareHandler) Shared(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	params := &dto.SharedPathRequest{}
	if err := c.ShouldBindUri(params); err != nil {
		response.ToErrorText(code.ErrorShareNotFound)
		return
	}

	rec, err := h.App.ShareService.Resolve(c.Request.Context(), params.ID)
	if err != nil {
		response.ToErrorText(h.logError(c, "ShareHandler.Shared", err))
		return
	}

	switch rec.Kind {
	case domain.ShareKindText:
		c.HTML(http.StatusOK, "shared_text.html", gin.H{
			"Text":      rec.Payload.Text,
			"ExpiresAt": rec.ExpiresAt.Format(util.ExpiryLayout),
			"Lang":      pkgapp.Lang(c),
		})
	default:
		h.serveAttachment(c, "ShareHandler.Shared", rec.Payload.StoredPath, rec.Payload.DisplayName)
	}
}
