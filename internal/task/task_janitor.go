package task

import (
	"context"
	"time"

	"github.com/haierkeys/doc-toolbox-service/internal/app"

	"go.uber.org/zap"
)

// JanitorSweepTask 定时清理任务，按 janitor.schedule 或 janitor.interval 执行
type JanitorSweepTask struct {
	app      *app.App
	schedule string
	interval time.Duration
}

// Name 任务名称
func (t *JanitorSweepTask) Name() string {
	return "JanitorSweepTask"
}

// LoopInterval 执行间隔
func (t *JanitorSweepTask) LoopInterval() time.Duration {
	return t.interval
}

// Schedule cron 表达式
func (t *JanitorSweepTask) Schedule() string {
	return t.schedule
}

// IsStartupRun 启动清理由 StartupSweepTask 负责
func (t *JanitorSweepTask) IsStartupRun() bool {
	return false
}

// Run 执行一次清理
func (t *JanitorSweepTask) Run(ctx context.Context) error {
	return sweep(ctx, t.app, t.Name())
}

// NewJanitorSweepTask 创建定时清理任务，schedule 与 interval 都未配置时返回 nil
func NewJanitorSweepTask(a *app.App) (Task, error) {
	cfg := a.Config()
	interval := cfg.GetJanitorInterval()
	if cfg.Janitor.Schedule == "" && interval <= 0 {
		a.Logger().Info("janitor sweep task is disabled, sweeping on landing page only")
		return nil, nil
	}
	return &JanitorSweepTask{
		app:      a,
		schedule: cfg.Janitor.Schedule,
		interval: interval,
	}, nil
}

// StartupSweepTask 启动时清理上次运行遗留的过期文件
type StartupSweepTask struct {
	app *app.App
}

func (t *StartupSweepTask) Name() string {
	return "StartupSweepTask"
}

func (t *StartupSweepTask) LoopInterval() time.Duration {
	return 0
}

func (t *StartupSweepTask) IsStartupRun() bool {
	return true
}

func (t *StartupSweepTask) Run(ctx context.Context) error {
	return sweep(ctx, t.app, t.Name())
}

// NewStartupSweepTask 创建启动清理任务
func NewStartupSweepTask(a *app.App) (Task, error) {
	return &StartupSweepTask{app: a}, nil
}

// sweep 执行一次清理；关闭中不再启动新的清理
func sweep(ctx context.Context, a *app.App, name string) error {
	if a.IsShuttingDown() {
		return nil
	}
	done := a.TrackOperation()
	defer done()

	res, err := a.JanitorService.Sweep(ctx)
	if err != nil {
		return err
	}
	a.Logger().Info(name+" completed",
		zap.Int("scanned", res.Scanned),
		zap.Int("deleted", res.Deleted),
		zap.Int("skipped", res.Skipped),
		zap.Int("errors", res.Errors))
	return nil
}

func init() {
	Register(NewStartupSweepTask)
	Register(NewJanitorSweepTask)
}
