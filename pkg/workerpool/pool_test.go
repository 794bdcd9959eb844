package workerpool

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_SubmitReturnsResult(t *testing.T) {
	p := New(&Config{MaxWorkers: 2, QueueSize: 4}, nil)
	defer p.Shutdown(context.Background())

	want := errors.New("boom")
	err := p.Submit(context.Background(), func(ctx context.Context) error { return want })
	assert.ErrorIs(t, err, want)

	err = p.Submit(context.Background(), func(ctx context.Context) error { return nil })
	assert.NoError(t, err)
}

func TestPool_PanicIsRecovered(t *testing.T) {
	p := New(&Config{MaxWorkers: 1, QueueSize: 1}, nil)
	defer p.Shutdown(context.Background())

	err := p.Submit(context.Background(), func(ctx context.Context) error {
		panic("bad document")
	})
	var pe *PanicError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "bad document", pe.Value)

	// the worker is still alive
	assert.NoError(t, p.Submit(context.Background(), func(ctx context.Context) error { return nil }))
}

func TestPool_FullQueue(t *testing.T) {
	p := New(&Config{MaxWorkers: 1, QueueSize: 1}, nil)
	defer p.Shutdown(context.Background())

	release := make(chan struct{})
	started := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = p.Submit(context.Background(), func(ctx context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	// occupies the single queue slot
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = p.Submit(context.Background(), func(ctx context.Context) error { return nil })
	}()
	require.Eventually(t, func() bool { return p.QueuedCount() == 1 }, time.Second, 5*time.Millisecond)

	err := p.Submit(context.Background(), func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrWorkerPoolFull)

	close(release)
	wg.Wait()
}

func TestPool_SubmitAfterShutdown(t *testing.T) {
	p := New(nil, nil)
	require.NoError(t, p.Shutdown(context.Background()))
	assert.True(t, p.IsClosed())

	err := p.Submit(context.Background(), func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrWorkerPoolClosed)
}
