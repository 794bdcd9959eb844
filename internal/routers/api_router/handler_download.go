package api_router

import (
	"github.com/haierkeys/doc-toolbox-service/internal/app"
	pkgapp "github.com/haierkeys/doc-toolbox-service/pkg/app"
	"github.com/haierkeys/doc-toolbox-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// DownloadHandler 处理结果下载
type DownloadHandler struct {
	*Handler
}

// NewDownloadHandler creates DownloadHandler instance
func NewDownloadHandler(a *app.App) *DownloadHandler {
	return &DownloadHandler{Handler: NewHandler(a)}
}

// Download serves a working-area file as an attachment
// Download 以附件形式下载工作区文件，名称必须是单个路径片段
// @Router /download/{filename} [get]
func (h *DownloadHandler) Download(c *gin.Context) {
	name := c.Param("filename")
	path, err := h.App.FileStore.DownloadPath(name)
	if err != nil {
		pkgapp.NewResponse(c).ToErrorText(code.ErrorFileNotFound)
		return
	}
	h.serveAttachment(c, "DownloadHandler.Download", path, name)
}
