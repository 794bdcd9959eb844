package cmd

import (
	"context"
	"fmt"
	"time"

	internalApp "github.com/haierkeys/doc-toolbox-service/internal/app"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func init() {
	sweepEnv := new(runFlags)

	var sweepCommand = &cobra.Command{
		Use:   "sweep [-c config_file] [-d working_dir]",
		Short: "Delete expired working and shared files once, then exit. // 清理一次过期文件后退出。",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !sweepEnv.prepare() {
				return fmt.Errorf("config file not available")
			}

			appConfig, _, err := loadConfig(sweepEnv)
			if err != nil {
				return err
			}

			a, err := internalApp.NewApp(appConfig, bootstrapLogger)
			if err != nil {
				return err
			}
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = a.Shutdown(ctx)
			}()

			res, err := a.JanitorService.Sweep(cmd.Context())
			if err != nil {
				return err
			}

			bootstrapLogger.Info("sweep finished",
				zap.String("storage", a.StorageType()),
				zap.Int("scanned", res.Scanned),
				zap.Int("deleted", res.Deleted),
				zap.Int("skipped", res.Skipped),
				zap.Int("errors", res.Errors))
			fmt.Printf("deleted %d of %d files, freed %s\n", res.Deleted, res.Scanned, humanize.Bytes(uint64(res.FreedBytes)))
			return nil
		},
	}

	rootCmd.AddCommand(sweepCommand)
	sweepEnv.bind(sweepCommand)
}
