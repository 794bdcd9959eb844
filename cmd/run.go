package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/haierkeys/doc-toolbox-service/pkg/fileurl"

	"github.com/radovskyb/watcher"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type runFlags struct {
	dir     string // Project root directory // 项目根目录
	port    string // Startup port // 启动端口
	runMode string // Startup mode // 启动模式
	config  string // Specified configuration file path // 指定要使用的配置文件路径
}

// prepare changes into the run dir and locates (or creates) the config file
// prepare 切换工作目录并查找配置文件，找不到时写出默认配置
func (f *runFlags) prepare() bool {
	if len(f.dir) > 0 {
		err := os.Chdir(f.dir)
		if err != nil {
			bootstrapLogger.Error("failed to change the current working directory", zap.Error(err))
		}
		bootstrapLogger.Info("working directory changed", zap.String("dir", f.dir))
	}

	if len(f.config) > 0 {
		return true
	}

	if fileurl.IsExist("config/config-dev.yaml") {
		f.config = "config/config-dev.yaml"
	} else if fileurl.IsExist("config.yaml") {
		f.config = "config.yaml"
	} else if fileurl.IsExist("config/config.yaml") {
		f.config = "config/config.yaml"
	} else {
		bootstrapLogger.Warn("config file not found, creating default config")
		f.config = "config/config.yaml"

		if err := fileurl.CreatePath(f.config, os.ModePerm); err != nil {
			bootstrapLogger.Error("config file auto create error", zap.Error(err))
			return false
		}
		if err := os.WriteFile(f.config, []byte(configDefault), 0666); err != nil {
			bootstrapLogger.Error("config file auto create writing error", zap.Error(err))
			return false
		}
		bootstrapLogger.Info("config file auto create successfully", zap.String("path", f.config))
	}
	return true
}

func (f *runFlags) bind(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.dir, "dir", "d", "", "run dir")
	fs.StringVarP(&f.config, "config", "c", "", "config file")
}

func init() {
	runEnv := new(runFlags)

	var runCommand = &cobra.Command{
		Use:   "run [-c config_file] [-d working_dir] [-p port]",
		Short: "Run service",
		Run: func(cmd *cobra.Command, args []string) {
			if !runEnv.prepare() {
				return
			}

			s, err := NewServer(runEnv)
			if err != nil {
				bootstrapLogger.Error("api service start err", zap.Error(err))
				return
			}
			slot := &serverSlot{cur: s}

			go func() {

				w := watcher.New()

				// 将 SetMaxEvents 设置为 1，以便在每个监听周期中至多接收 1 个事件
				w.SetMaxEvents(1)

				// Only notify write events.
				// 只通知写入事件。
				w.FilterOps(watcher.Write)

				go func() {
					for {
						select {
						case event := <-w.Event:
							slot.logger().Info("config watcher change", zap.String("event", event.Op.String()), zap.String("file", event.Path))
							// 失败已在 reload 中记录
							_ = slot.reload(runEnv, NewServer)

						case err := <-w.Error:
							slot.logger().Error("config watcher error", zap.Error(err))
						case <-w.Closed:
							bootstrapLogger.Info("config watcher closed")
							return
						}
					}
				}()

				// 监听配置文件
				if err := w.Add(runEnv.config); err != nil {
					slot.logger().Error("config watcher file error", zap.Error(err))
				}

				// Start watching
				// 启动监听
				if err := w.Start(time.Second * 5); err != nil {
					slot.logger().Error("config watcher start error", zap.Error(err))
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit

			log := slot.logger()
			log.Info("Received shutdown signal, initiating graceful shutdown...")

			// 等待所有关闭处理器完成（包括 App Container 的优雅关闭）
			if err := slot.shutdown(); err != nil {
				log.Error("Shutdown completed with error", zap.Error(err))
			} else {
				log.Info("Service has been shut down gracefully.")
			}

		},
	}

	rootCmd.AddCommand(runCommand)
	runEnv.bind(runCommand)
	fs := runCommand.Flags()
	fs.StringVarP(&runEnv.port, "port", "p", "", "run port")
	fs.StringVarP(&runEnv.runMode, "mode", "m", "", "run mode")

}
