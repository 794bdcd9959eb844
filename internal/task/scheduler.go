package task

import (
	"context"
	"time"

	"github.com/haierkeys/doc-toolbox-service/pkg/safe_close"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Task 定义任务接口
type Task interface {
	Name() string                  // 任务名称
	Run(ctx context.Context) error // 执行任务
	LoopInterval() time.Duration   // 执行间隔，0 表示不周期执行
	IsStartupRun() bool            // 是否立即执行一次
}

// CronTask is a Task driven by a cron expression instead of LoopInterval
// CronTask 按 cron 表达式调度的任务，Schedule 非空时忽略 LoopInterval
type CronTask interface {
	Task
	Schedule() string
}

// Scheduler 任务调度器
type Scheduler struct {
	logger *zap.Logger
	tasks  []Task
	sc     *safe_close.SafeClose
}

// NewScheduler 创建任务调度器
func NewScheduler(logger *zap.Logger, sc *safe_close.SafeClose) *Scheduler {
	return &Scheduler{
		logger: logger,
		tasks:  make([]Task, 0),
		sc:     sc,
	}
}

// AddTask 添加任务
func (s *Scheduler) AddTask(task Task) {
	s.tasks = append(s.tasks, task)
}

// Start 启动所有任务
func (s *Scheduler) Start() {
	if len(s.tasks) == 0 {
		s.logger.Info("no tasks to schedule")
		return
	}

	s.logger.Info("tasks starting ", zap.Int("count", len(s.tasks)))

	for _, task := range s.tasks {
		s.startTask(task)
	}
}

// run 执行一次任务，panic 被记录而不向外传播
func (s *Scheduler) run(task Task, trigger string) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("task panic",
				zap.String("name", task.Name()),
				zap.String("trigger", trigger),
				zap.Any("panic", r),
				zap.Stack("stack"))
		}
	}()
	s.logger.Info("task running", zap.String("name", task.Name()), zap.String("trigger", trigger))
	if err := task.Run(context.Background()); err != nil {
		s.logger.Error("task running error",
			zap.String("name", task.Name()),
			zap.String("trigger", trigger),
			zap.Error(err))
	}
}

// startTask 启动单个任务
func (s *Scheduler) startTask(task Task) {

	s.sc.Attach(func(done func(), closeSignal <-chan struct{}) {
		defer done()

		// 如果任务需要立即执行
		if task.IsStartupRun() {
			go s.run(task, "startup")
		}

		if ct, ok := task.(CronTask); ok && ct.Schedule() != "" {
			s.runCron(ct, closeSignal)
			return
		}

		if task.LoopInterval() <= 0 {
			return
		}

		ticker := time.NewTicker(task.LoopInterval())
		defer ticker.Stop()

		// 定时执行
		for {
			select {
			case <-ticker.C:
				s.run(task, "loop")
			case <-closeSignal:
				s.logger.Info("task stopped", zap.String("name", task.Name()), zap.String("trigger", "loop"))
				return
			}
		}
	})
}

// runCron 按 cron 表达式执行，直到收到关闭信号；关闭时等待正在执行的任务结束
func (s *Scheduler) runCron(task CronTask, closeSignal <-chan struct{}) {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(task.Schedule(), func() { s.run(task, "cron") }); err != nil {
		s.logger.Error("invalid task schedule",
			zap.String("name", task.Name()),
			zap.String("schedule", task.Schedule()),
			zap.Error(err))
		return
	}
	c.Start()

	<-closeSignal
	<-c.Stop().Done()
	s.logger.Info("task stopped", zap.String("name", task.Name()), zap.String("trigger", "cron"))
}
