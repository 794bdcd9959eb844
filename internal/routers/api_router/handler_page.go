package api_router

import (
	"net/http"

	"github.com/haierkeys/doc-toolbox-service/internal/app"
	"github.com/haierkeys/doc-toolbox-service/internal/middleware"
	pkgapp "github.com/haierkeys/doc-toolbox-service/pkg/app"
	"github.com/haierkeys/doc-toolbox-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ToolPages 每个工具对应一个同名模板
var ToolPages = []string{"merge", "split", "convert", "compress", "rotate", "secure", "share"}

// PageHandler 页面路由处理器
type PageHandler struct {
	*Handler
}

// NewPageHandler 创建 PageHandler 实例
func NewPageHandler(a *app.App) *PageHandler {
	return &PageHandler{Handler: NewHandler(a)}
}

func (h *PageHandler) data(c *gin.Context, page string) gin.H {
	return gin.H{
		"Name":          app.Name,
		"Version":       app.Version,
		"Page":          page,
		"Lang":          pkgapp.Lang(c),
		"MaxUploadSize": h.App.Config().App.MaxUploadSize,
	}
}

// Index runs a retention sweep, then renders the landing page
// Index 先同步执行一次清理，再渲染首页；清理失败不影响页面
func (h *PageHandler) Index(c *gin.Context) {
	if _, err := h.App.JanitorService.Sweep(c.Request.Context()); err != nil {
		h.App.Logger().Warn("landing page sweep failed",
			zap.String(logger.FieldTraceID, middleware.GetTraceIDFromGin(c)),
			zap.Error(err))
	}
	c.HTML(http.StatusOK, "index.html", h.data(c, "index"))
}

// Tool renders the form page of one tool
func (h *PageHandler) Tool(page string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, page+".html", h.data(c, page))
	}
}
