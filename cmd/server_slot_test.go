package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/haierkeys/doc-toolbox-service/pkg/safe_close"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// runningServer 返回一个挂载了后台协程的 Server，closed 在收到关闭信号后关闭
func runningServer() (*Server, <-chan struct{}) {
	s := &Server{logger: zap.NewNop(), sc: safe_close.NewSafeClose()}
	closed := make(chan struct{})
	s.sc.Attach(func(done func(), closeSignal <-chan struct{}) {
		defer done()
		<-closeSignal
		close(closed)
	})
	return s, closed
}

func isClosed(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

func writeConfig(t *testing.T, body string) *runFlags {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return &runFlags{config: p}
}

const validConfig = "server:\n  http-port: \":0\"\n"

func TestServerSlot_BrokenConfigKeepsServer(t *testing.T) {
	old, closed := runningServer()
	slot := &serverSlot{cur: old}
	runEnv := writeConfig(t, "server: [unterminated\n")

	built := false
	err := slot.reload(runEnv, func(*runFlags) (*Server, error) {
		built = true
		return nil, nil
	})
	require.Error(t, err)
	assert.False(t, built)
	assert.Same(t, old, slot.get())
	assert.False(t, isClosed(closed), "running server must not be stopped")

	require.NoError(t, slot.shutdown())
	assert.True(t, isClosed(closed))
	assert.Nil(t, slot.get())
}

func TestServerSlot_ReplacesServer(t *testing.T) {
	old, oldClosed := runningServer()
	slot := &serverSlot{cur: old}
	next, _ := runningServer()

	err := slot.reload(writeConfig(t, validConfig), func(*runFlags) (*Server, error) {
		return next, nil
	})
	require.NoError(t, err)
	assert.True(t, isClosed(oldClosed))
	assert.Same(t, next, slot.get())
}

func TestServerSlot_FailedStartLeavesSlotEmpty(t *testing.T) {
	old, oldClosed := runningServer()
	slot := &serverSlot{cur: old}
	runEnv := writeConfig(t, validConfig)

	err := slot.reload(runEnv, func(*runFlags) (*Server, error) {
		return nil, errors.New("listen tcp: address in use")
	})
	require.Error(t, err)
	assert.True(t, isClosed(oldClosed))
	assert.Nil(t, slot.get())

	// 空槽位上的日志、关闭与再次重载都不能 panic
	assert.NotNil(t, slot.logger())
	assert.NoError(t, slot.shutdown())

	next, _ := runningServer()
	require.NoError(t, slot.reload(runEnv, func(*runFlags) (*Server, error) { return next, nil }))
	assert.Same(t, next, slot.get())
}

func TestServerSlot_ConcurrentAccess(t *testing.T) {
	s, _ := runningServer()
	slot := &serverSlot{cur: s}
	runEnv := writeConfig(t, validConfig)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			next, _ := runningServer()
			_ = slot.reload(runEnv, func(*runFlags) (*Server, error) { return next, nil })
		}()
		go func() {
			defer wg.Done()
			slot.logger().Debug("tick")
		}()
	}
	wg.Wait()
	assert.NoError(t, slot.shutdown())
}
