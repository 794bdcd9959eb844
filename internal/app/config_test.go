package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/haierkeys/doc-toolbox-service/pkg/storage/local_fs"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	p := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoadConfig_Defaults(t *testing.T) {
	p := writeConfig(t, t.TempDir(), "server:\n  http-port: \":8080\"\n")

	cfg, realpath, err := LoadConfig(p)
	require.NoError(t, err)
	assert.Equal(t, p, realpath)

	assert.Equal(t, ":8080", cfg.Server.HttpPort)
	assert.Equal(t, "release", cfg.Server.RunMode)
	assert.Equal(t, "localfs", cfg.Storage.Type)
	assert.Equal(t, "uploads", cfg.App.WorkingDir)
	assert.Equal(t, "shared", cfg.App.SharedDir)
	assert.Equal(t, "24h", cfg.Share.TTL)
	assert.Equal(t, "1h", cfg.Janitor.Retention)
	assert.True(t, cfg.Limiter.Enabled)
	assert.Equal(t, int64(1<<30), cfg.GetMaxUploadSize())
	assert.Equal(t, time.Minute, cfg.GetLimiterFillInterval())
	assert.Zero(t, cfg.GetJanitorInterval())
}

func TestLoadConfig_DotEnvExpansion(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("BUCKET=docs\nSECRET=from-dotenv\n"), 0o644))
	t.Setenv("SECRET", "from-process")
	t.Setenv("REGION", "eu-west-1")

	p := writeConfig(t, dir, `
storage:
  type: s3
  bucket-name: ${BUCKET}
  access-key-secret: ${SECRET}
  region: ${REGION}
`)
	cfg, _, err := LoadConfig(p)
	require.NoError(t, err)

	assert.Equal(t, "docs", cfg.Storage.BucketName)
	assert.Equal(t, "from-dotenv", cfg.Storage.AccessKeySecret, ".env wins over the process environment")
	assert.Equal(t, "eu-west-1", cfg.Storage.Region)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	p := writeConfig(t, t.TempDir(), "server: [")
	_, _, err = LoadConfig(p)
	assert.Error(t, err)
}

func TestAppConfig_Helpers(t *testing.T) {
	cfg := &AppConfig{}
	cfg.App.MaxUploadSize = "512MB"
	cfg.Janitor.Interval = "1d"
	cfg.WorkerPool.MaxWorkers = 3

	assert.Equal(t, int64(512*1000*1000), cfg.GetMaxUploadSize())
	assert.Equal(t, 24*time.Hour, cfg.GetJanitorInterval())

	wp := cfg.GetWorkerPoolConfig()
	assert.Equal(t, 3, wp.MaxWorkers)
	assert.Equal(t, 64, wp.QueueSize)

	cfg.App.MaxUploadSize = "lots"
	assert.Equal(t, int64(1<<30), cfg.GetMaxUploadSize())
}

func TestAppConfig_Save(t *testing.T) {
	p := writeConfig(t, t.TempDir(), "share:\n  ttl: 2h\n")
	cfg, _, err := LoadConfig(p)
	require.NoError(t, err)

	cfg.Share.TTL = "3h"
	require.NoError(t, cfg.Save())

	again, _, err := LoadConfig(p)
	require.NoError(t, err)
	assert.Equal(t, "3h", again.Share.TTL)
}

func TestApp_Lifecycle(t *testing.T) {
	_, err := NewApp(nil, zap.NewNop())
	assert.Error(t, err)

	cfg, _, err := LoadConfig(writeConfig(t, t.TempDir(), ""))
	require.NoError(t, err)

	a := NewAppWithStorage(cfg, zap.NewNop(), local_fs.NewWithFs(afero.NewMemMapFs(), nil))
	assert.Equal(t, "localfs", a.StorageType())
	assert.Empty(t, a.LocalRoot())
	assert.False(t, a.IsShuttingDown())

	done := a.TrackOperation()
	go func() {
		time.Sleep(10 * time.Millisecond)
		done()
	}()

	require.NoError(t, a.Shutdown(context.Background()))
	assert.True(t, a.IsShuttingDown())
	assert.True(t, a.WorkerPool().IsClosed())
	require.NoError(t, a.Shutdown(context.Background()), "second shutdown is a no-op")
}
