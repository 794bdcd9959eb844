// Package app 提供应用容器，封装所有依赖和服务
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/haierkeys/doc-toolbox-service/internal/service"
	pkgapp "github.com/haierkeys/doc-toolbox-service/pkg/app"
	"github.com/haierkeys/doc-toolbox-service/pkg/storage"
	"github.com/haierkeys/doc-toolbox-service/pkg/workerpool"

	"go.uber.org/zap"
)

// App 应用容器，封装所有依赖和服务
// 启动时构建一次，以引用方式传给路由与任务
type App struct {
	// 基础设施（注入的依赖）
	config  *AppConfig
	logger  *zap.Logger
	Storage storage.Storager

	// 并发控制组件
	workerPool *workerpool.Pool

	// Service 层
	FileStore       service.FileStoreService
	ShareService    service.ShareService
	JanitorService  service.JanitorService
	DocumentService service.DocumentService

	startedAt time.Time

	// 关闭控制
	shutdownCh chan struct{}
	shutdownMu sync.Mutex
	wg         sync.WaitGroup
}

// NewApp 创建应用容器实例
// 初始化所有依赖并进行依赖注入
// cfg: 应用配置（必须）
// logger: zap 日志器（必须）
func NewApp(cfg *AppConfig, logger *zap.Logger) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	st, err := storage.NewClient(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to init storage %q: %w", cfg.Storage.Type, err)
	}

	return newApp(cfg, logger, st), nil
}

// NewAppWithStorage 使用给定存储创建应用容器，测试中配合内存存储使用
func NewAppWithStorage(cfg *AppConfig, logger *zap.Logger, st storage.Storager) *App {
	return newApp(cfg, logger, st)
}

func newApp(cfg *AppConfig, logger *zap.Logger, st storage.Storager) *App {
	a := &App{
		config:     cfg,
		logger:     logger,
		Storage:    st,
		startedAt:  time.Now(),
		shutdownCh: make(chan struct{}),
	}

	// 初始化 Worker Pool
	wpConfig := cfg.GetWorkerPoolConfig()
	a.workerPool = workerpool.New(&wpConfig, logger)

	// 初始化 Service 层（依赖注入）
	svcConfig := cfg.GetServiceConfig()
	a.FileStore = service.NewFileStoreService(st, logger, svcConfig)
	a.ShareService = service.NewShareService(a.FileStore, logger, svcConfig)
	a.JanitorService = service.NewJanitorService(a.FileStore, a.ShareService, logger, svcConfig)
	a.DocumentService = service.NewDocumentService(a.FileStore, a.workerPool, logger)

	logger.Info("App container initialized successfully",
		zap.String("storageType", a.StorageType()),
		zap.Int("workerPoolMaxWorkers", wpConfig.MaxWorkers),
		zap.Int("workerPoolQueueSize", wpConfig.QueueSize))

	return a
}

// Config 获取应用配置
func (a *App) Config() *AppConfig {
	return a.config
}

// Logger 获取日志器
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Version 获取版本信息
func (a *App) Version() pkgapp.VersionInfo {
	return pkgapp.VersionInfo{
		Version:   Version,
		GitTag:    GitTag,
		BuildTime: BuildTime,
	}
}

// Uptime 运行时长
func (a *App) Uptime() time.Duration {
	return time.Since(a.startedAt)
}

// StorageType 当前存储类型
func (a *App) StorageType() string {
	if a.config.Storage.Type == "" {
		return storage.LOCAL
	}
	return a.config.Storage.Type
}

// LocalRoot 本地存储根目录，非本地存储返回空
func (a *App) LocalRoot() string {
	if r, ok := a.Storage.(storage.LocalRooter); ok {
		return r.Root()
	}
	return ""
}

// IsProductionMode 是否为生产模式
// 根据日志配置中的 Production 字段判断
func (a *App) IsProductionMode() bool {
	return a.config.Log.Production
}

// WorkerPool 获取 Worker Pool
func (a *App) WorkerPool() *workerpool.Pool {
	return a.workerPool
}

// DefaultShutdownTimeout 默认关闭超时时间
const DefaultShutdownTimeout = 30 * time.Second

// Shutdown 优雅关闭应用容器
// 按顺序关闭：Worker Pool -> 后台操作
// ctx 用于控制关闭超时，如果为 nil 则使用默认 30 秒超时
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("App container shutting down...")

	// 如果没有提供 context，使用默认超时
	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer cancel()
	}

	// 标记关闭
	a.shutdownMu.Lock()
	select {
	case <-a.shutdownCh:
		a.shutdownMu.Unlock()
		return nil
	default:
		close(a.shutdownCh)
	}
	a.shutdownMu.Unlock()

	var errs []error

	// 1. 关闭 Worker Pool（停止接受新任务，等待现有任务完成）
	if a.workerPool != nil {
		a.logger.Info("Shutting down worker pool...")
		if err := a.workerPool.Shutdown(ctx); err != nil {
			a.logger.Warn("Worker pool shutdown error", zap.Error(err))
			errs = append(errs, fmt.Errorf("worker pool shutdown: %w", err))
		}
	}

	// 2. 等待所有后台操作完成（定时清理等）
	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		a.logger.Info("All background operations completed")
	case <-ctx.Done():
		a.logger.Warn("Shutdown timeout waiting for background operations")
		errs = append(errs, fmt.Errorf("background operations timeout: %w", ctx.Err()))
	}

	if len(errs) > 0 {
		a.logger.Warn("App container shutdown completed with errors",
			zap.Int("errorCount", len(errs)))
		return fmt.Errorf("shutdown completed with %d errors: %v", len(errs), errs)
	}

	a.logger.Info("App container shutdown completed successfully")
	return nil
}

// IsShuttingDown 检查应用是否正在关闭
func (a *App) IsShuttingDown() bool {
	select {
	case <-a.shutdownCh:
		return true
	default:
		return false
	}
}

// ShutdownCh 返回关闭信号通道（用于监听关闭事件）
func (a *App) ShutdownCh() <-chan struct{} {
	return a.shutdownCh
}

// TrackOperation 跟踪后台操作（用于优雅关闭时等待）
// 返回一个函数，在操作完成时调用
func (a *App) TrackOperation() func() {
	a.wg.Add(1)
	return func() {
		a.wg.Done()
	}
}
