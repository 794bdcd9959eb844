package cmd

import (
	"sync"

	"go.uber.org/zap"
)

// stop 发送关闭信号并等待 HTTP 服务、调度器与 App Container 退出
func (s *Server) stop() error {
	s.sc.SendCloseSignal(nil)
	return s.sc.WaitClosed()
}

// serverSlot holds the running server across config reloads
// serverSlot 持有当前运行的 Server，配置监听协程与信号处理共用
type serverSlot struct {
	mu  sync.Mutex
	cur *Server
}

func (h *serverSlot) get() *Server {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cur
}

func (h *serverSlot) logger() *zap.Logger {
	if s := h.get(); s != nil {
		return s.logger
	}
	return bootstrapLogger
}

// reload rebuilds the server after a config change
// A config that fails to load leaves the running server untouched.
// If the new server fails to start the slot stays empty until the next successful reload.
// reload 配置变更后重建 Server：配置无法加载时保留旧服务；新服务启动失败时置空，等待下一次变更
func (h *serverSlot) reload(runEnv *runFlags, build func(*runFlags) (*Server, error)) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	log := bootstrapLogger
	if h.cur != nil {
		log = h.cur.logger
	}

	if _, _, err := loadConfig(runEnv); err != nil {
		log.Error("config reload rejected, keeping current server", zap.Error(err))
		return err
	}

	if h.cur != nil {
		if err := h.cur.stop(); err != nil {
			log.Warn("previous server closed with error", zap.Error(err))
		}
		h.cur = nil
	}

	// 内存中的分享链接随旧容器一起失效
	s, err := build(runEnv)
	if err != nil {
		bootstrapLogger.Error("service restart err", zap.Error(err))
		return err
	}
	h.cur = s
	return nil
}

// shutdown stops the current server, if any
// shutdown 关闭当前 Server，重建失败后为空时直接返回
func (h *serverSlot) shutdown() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cur == nil {
		return nil
	}
	err := h.cur.stop()
	h.cur = nil
	return err
}
