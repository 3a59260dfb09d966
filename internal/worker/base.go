package worker

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Worker - фоновый потребитель стрима
type Worker interface {
	// Start блокирует до Stop или отмены ctx
	Start(ctx context.Context) error
	Stop() error
	Name() string
}

// BaseWorker - общая часть воркеров: имя, consumer group и сигнал остановки
type BaseWorker struct {
	name          string
	consumerGroup string
	consumerName  string
	logger        *zap.Logger

	stopOnce sync.Once
	done     chan struct{}
}

// NewBaseWorker создает BaseWorker; имя консьюмера - hostname-pid
func NewBaseWorker(name, consumerGroup string, logger *zap.Logger) *BaseWorker {
	hostname, _ := os.Hostname()
	return &BaseWorker{
		name:          name,
		consumerGroup: consumerGroup,
		consumerName:  fmt.Sprintf("%s-%d", hostname, os.Getpid()),
		logger:        logger.With(zap.String("worker", name)),
		done:          make(chan struct{}),
	}
}

func (w *BaseWorker) Name() string {
	return w.name
}

func (w *BaseWorker) ConsumerGroup() string {
	return w.consumerGroup
}

func (w *BaseWorker) ConsumerName() string {
	return w.consumerName
}

func (w *BaseWorker) Logger() *zap.Logger {
	return w.logger
}

// Stop идемпотентен
func (w *BaseWorker) Stop() error {
	w.stopOnce.Do(func() {
		w.logger.Info("Stopping worker")
		close(w.done)
	})
	return nil
}

// Done закрывается при Stop
func (w *BaseWorker) Done() <-chan struct{} {
	return w.done
}

func (w *BaseWorker) Stopped() bool {
	select {
	case <-w.done:
		return true
	default:
		return false
	}
}

// Pause ждёт d; false, если ожидание прервано остановкой или ctx
func (w *BaseWorker) Pause(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	case <-w.done:
		return false
	}
}
