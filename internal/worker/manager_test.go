package worker_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tactical-map/internal/worker"
)

// blockingWorker runs until stopped
type blockingWorker struct {
	*worker.BaseWorker
	started chan struct{}
}

func newBlockingWorker(name string) *blockingWorker {
	return &blockingWorker{
		BaseWorker: worker.NewBaseWorker(name, "test-group", zap.NewNop()),
		started:    make(chan struct{}),
	}
}

func (w *blockingWorker) Start(ctx context.Context) error {
	close(w.started)
	select {
	case <-w.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// stuckWorker ignores Stop
type stuckWorker struct {
	*worker.BaseWorker
	release chan struct{}
}

func (w *stuckWorker) Start(ctx context.Context) error {
	<-w.release
	return nil
}

func TestWorkerManager_NoWorkers(t *testing.T) {
	m := worker.NewWorkerManager(zap.NewNop(), 0)
	assert.Error(t, m.Start(context.Background()))
}

func TestWorkerManager_StartStop(t *testing.T) {
	m := worker.NewWorkerManager(zap.NewNop(), time.Second)
	a := newBlockingWorker("a")
	b := newBlockingWorker("b")
	m.Register(a)
	m.Register(b)

	require.NoError(t, m.Start(context.Background()))
	<-a.started
	<-b.started

	require.NoError(t, m.Stop())
	assert.True(t, a.Stopped())
	assert.True(t, b.Stopped())
	assert.Equal(t, "test-group", a.ConsumerGroup())
}

func TestWorkerManager_StopTimeout(t *testing.T) {
	m := worker.NewWorkerManager(zap.NewNop(), 50*time.Millisecond)
	stuck := &stuckWorker{BaseWorker: worker.NewBaseWorker("stuck", "g", zap.NewNop()), release: make(chan struct{})}
	m.Register(stuck)
	require.NoError(t, m.Start(context.Background()))

	assert.Error(t, m.Stop())
	close(stuck.release)
}

func TestBaseWorker_Pause(t *testing.T) {
	w := worker.NewBaseWorker("p", "g", zap.NewNop())
	assert.NotEmpty(t, w.ConsumerName())
	assert.True(t, w.Pause(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, w.Pause(ctx, time.Hour))

	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
	assert.True(t, w.Stopped())
	assert.False(t, w.Pause(context.Background(), time.Hour))
}
