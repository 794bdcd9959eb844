package routers

import (
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/haierkeys/doc-toolbox-service/internal/app"
	"github.com/haierkeys/doc-toolbox-service/internal/middleware"
	"github.com/haierkeys/doc-toolbox-service/internal/routers/api_router"
	"github.com/haierkeys/doc-toolbox-service/pkg/limiter"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
)

// 表单字段之外的 multipart 开销余量
const multipartOverhead = 1 << 20

// methodLimiters 为每个会写入存储的路由建立令牌桶
func methodLimiters(cfg *app.AppConfig) limiter.Face {
	l := limiter.NewMethodLimiter()
	if !cfg.Limiter.Enabled {
		return l
	}
	for _, key := range []string{"/merge", "/split", "/convert", "/compress", "/rotate", "/secure", "/share", "/shared/"} {
		l.AddBuckets(limiter.BucketRule{
			Key:          key,
			FillInterval: cfg.GetLimiterFillInterval(),
			Capacity:     cfg.Limiter.Capacity,
			Quantum:      cfg.Limiter.Quantum,
		})
	}
	return l
}

// NewRouter builds the public engine.
// frontendFiles must contain frontend/templates/*.html and frontend/static/.
// NewRouter 创建公开路由，frontendFiles 中需包含模板与静态资源
func NewRouter(frontendFiles fs.FS, appContainer *app.App, uni *ut.UniversalTranslator) *gin.Engine {

	// 获取配置
	cfg := appContainer.Config()

	r := gin.New()
	r.SetHTMLTemplate(template.Must(template.New("").ParseFS(frontendFiles, "frontend/templates/*.html")))

	cacheMiddleware := func(c *gin.Context) {
		// 设置强缓存，缓存一天
		c.Header("Cache-Control", "public, max-age=86400")
		c.Next()
	}
	if frontendStatic, err := fs.Sub(frontendFiles, "frontend/static"); err == nil {
		r.Group("/static", cacheMiddleware).StaticFS("/", http.FS(frontendStatic))
	}

	r.Use(middleware.AppInfo(app.Name, appContainer.Version().Version))
	r.Use(middleware.TraceMiddleware(cfg.Tracer.Enabled, cfg.Tracer.Header)) // Trace ID 中间件
	r.Use(middleware.RateLimiter(methodLimiters(cfg)))
	r.Use(middleware.ContextTimeout(time.Duration(cfg.App.DefaultContextTimeout) * time.Second))
	if cfg.Cors.Enabled {
		r.Use(middleware.Cors(cfg.Cors.AllowOrigins))
	}
	r.Use(middleware.LangWithTranslator(uni))
	r.Use(middleware.AccessLogWithLogger(appContainer.Logger()))
	r.Use(middleware.RecoveryWithLogger(appContainer.Logger()))
	r.Use(middleware.BodyLimit(cfg.GetMaxUploadSize() + multipartOverhead))

	// 创建 Handlers（注入 App Container）
	pageHandler := api_router.NewPageHandler(appContainer)
	documentHandler := api_router.NewDocumentHandler(appContainer)
	shareHandler := api_router.NewShareHandler(appContainer)
	downloadHandler := api_router.NewDownloadHandler(appContainer)
	healthHandler := api_router.NewHealthHandler(appContainer)
	versionHandler := api_router.NewVersionHandler(appContainer)

	// 访问首页时同步清理过期文件
	r.GET("/", pageHandler.Index)
	for _, page := range api_router.ToolPages {
		r.GET("/"+page, pageHandler.Tool(page))
	}

	r.POST("/merge", documentHandler.Merge)
	r.POST("/split", documentHandler.Split)
	r.POST("/convert", documentHandler.Convert)
	r.POST("/compress", documentHandler.Compress)
	r.POST("/rotate", documentHandler.Rotate)
	r.POST("/secure", documentHandler.Secure)

	r.POST("/share", shareHandler.Create)
	r.GET("/shared/:id", shareHandler.Shared)
	r.GET("/download/:filename", downloadHandler.Download)

	api := r.Group("/api")
	{
		api.GET("/health", healthHandler.Check)
		api.GET("/version", versionHandler.ServerVersion)
	}

	r.NoRoute(middleware.NoFound())

	return r
}
