// Package safe_close coordinates graceful shutdown of long running goroutines
// Package safe_close 协调长期运行协程的优雅关闭
package safe_close

import "sync"

// SafeClose broadcasts a single close signal and waits for every attached worker
// SafeClose 广播一次关闭信号，并等待所有挂载的协程退出
type SafeClose struct {
	once        sync.Once
	closeSignal chan struct{}
	wg          sync.WaitGroup

	mu  sync.Mutex
	err error
}

func NewSafeClose() *SafeClose {
	return &SafeClose{closeSignal: make(chan struct{})}
}

// Attach runs fn in its own goroutine; fn must call done before returning
// Attach 在独立协程中运行 fn，fn 返回前必须调用 done
func (s *SafeClose) Attach(fn func(done func(), closeSignal <-chan struct{})) {
	s.wg.Add(1)
	var doneOnce sync.Once
	done := func() { doneOnce.Do(s.wg.Done) }
	go fn(done, s.closeSignal)
}

// SendCloseSignal closes the signal channel once, recording the first non-nil cause
// SendCloseSignal 只关闭一次信号通道，并记录第一个非空原因
func (s *SafeClose) SendCloseSignal(err error) {
	s.mu.Lock()
	if err != nil && s.err == nil {
		s.err = err
	}
	s.mu.Unlock()
	s.once.Do(func() { close(s.closeSignal) })
}

// CloseSignal 返回关闭信号通道
func (s *SafeClose) CloseSignal() <-chan struct{} {
	return s.closeSignal
}

// WaitClosed blocks until all attached workers have called done
// WaitClosed 阻塞直到所有挂载的协程调用 done
func (s *SafeClose) WaitClosed() error {
	s.wg.Wait()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
