package labeling

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tactical-map/internal/domain"
	"github.com/tactical-map/internal/domain/repository"
	"github.com/tactical-map/internal/worker"
)

const (
	emptyQueueSleep = 100 * time.Millisecond // пауза если очередь пуста
	retryBackoff    = 200 * time.Millisecond
	// staleAfter - через сколько неподтверждённые сообщения упавшего consumer-а забираются себе
	staleAfter = 30 * time.Second
)

// IntentLabeler - то, что воркер вызывает для пачки интентов
type IntentLabeler interface {
	LabelBatch(ctx context.Context, intents []domain.Intent) (int, error)
}

// IntentLabelingWorker читает stream:tactical:intents и публикует адреса новых маркеров и областей
type IntentLabelingWorker struct {
	*worker.BaseWorker
	streamRepo repository.StreamRepository
	labeler    IntentLabeler
	batchSize  int
	maxRetries int
}

// NewIntentLabelingWorker создает новый IntentLabelingWorker
func NewIntentLabelingWorker(
	streamRepo repository.StreamRepository,
	labeler IntentLabeler,
	consumerGroup string,
	batchSize int,
	maxRetries int,
	logger *zap.Logger,
) *IntentLabelingWorker {
	if batchSize <= 0 {
		batchSize = 20
	}
	if maxRetries <= 0 {
		maxRetries = 1
	}

	return &IntentLabelingWorker{
		BaseWorker: worker.NewBaseWorker("intent-labeling", consumerGroup, logger),
		streamRepo: streamRepo,
		labeler:    labeler,
		batchSize:  batchSize,
		maxRetries: maxRetries,
	}
}

// Start запускает воркер
func (w *IntentLabelingWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting IntentLabelingWorker",
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.ConsumerName()),
		zap.Int("batch_size", w.batchSize))

	if err := w.streamRepo.CreateConsumerGroup(ctx, domain.StreamIntents, w.ConsumerGroup()); err != nil {
		logger.Error("Failed to create consumer group", zap.Error(err))
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	for {
		select {
		case <-w.Done():
			logger.Info("Worker stopped")
			return nil

		case <-ctx.Done():
			logger.Info("Context cancelled")
			return ctx.Err()

		default:
			processed, err := w.processBatch(ctx)
			if err != nil {
				if ctx.Err() != nil {
					continue
				}
				logger.Error("Failed to process batch", zap.Error(err))
				w.Pause(ctx, time.Second)
				continue
			}

			if processed == 0 {
				w.Pause(ctx, emptyQueueSleep)
			}
		}
	}
}

// processBatch читает и обрабатывает пачку сообщений; возвращает их количество
func (w *IntentLabelingWorker) processBatch(ctx context.Context) (int, error) {
	logger := w.Logger()

	messages, err := w.streamRepo.ConsumeBatch(ctx, domain.StreamIntents, w.ConsumerGroup(), w.ConsumerName(), w.batchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to consume batch: %w", err)
	}
	if len(messages) == 0 {
		messages, err = w.streamRepo.ClaimStale(ctx, domain.StreamIntents, w.ConsumerGroup(), w.ConsumerName(), staleAfter, w.batchSize)
		if err != nil {
			return 0, fmt.Errorf("failed to claim stale messages: %w", err)
		}
	}
	if len(messages) == 0 {
		return 0, nil
	}

	intents := make([]domain.Intent, 0, len(messages))
	ids := make([]string, 0, len(messages))
	for _, msg := range messages {
		ids = append(ids, msg.ID)

		intent, err := parseMessage(msg)
		if err != nil {
			// битое сообщение подтверждаем вместе с остальными, чтобы не застревало
			logger.Warn("Failed to parse message, skipping",
				zap.String("message_id", msg.ID),
				zap.Error(err))
			continue
		}
		intents = append(intents, intent)
	}

	published, err := w.labelWithRetry(ctx, intents)
	if err != nil {
		logger.Error("Labelling failed, dropping batch",
			zap.Int("intents", len(intents)),
			zap.Int("published", published),
			zap.Error(err))
	}

	if err := w.streamRepo.AckMessages(ctx, domain.StreamIntents, w.ConsumerGroup(), ids); err != nil {
		// Не критично - сообщения будут переобработаны
		logger.Error("Failed to ack messages", zap.Error(err))
	}

	logger.Info("Batch processed",
		zap.Int("messages", len(messages)),
		zap.Int("labels", published))
	return len(messages), nil
}

func (w *IntentLabelingWorker) labelWithRetry(ctx context.Context, intents []domain.Intent) (int, error) {
	if len(intents) == 0 {
		return 0, nil
	}

	var lastErr error
	for attempt := 1; attempt <= w.maxRetries; attempt++ {
		// повтор может опубликовать метку ещё раз; получатель сверяет по target_id
		published, err := w.labeler.LabelBatch(ctx, intents)
		if err == nil {
			return published, nil
		}
		lastErr = err
		w.Logger().Warn("Label batch attempt failed",
			zap.Int("attempt", attempt),
			zap.Error(err))
		if attempt < w.maxRetries {
			if !w.Pause(ctx, retryBackoff*time.Duration(attempt)) {
				break
			}
		}
	}
	return 0, lastErr
}

func parseMessage(msg domain.StreamMessage) (domain.Intent, error) {
	if msg.Data == "" {
		return domain.Intent{}, fmt.Errorf("missing or invalid 'data' field")
	}

	var intent domain.Intent
	if err := json.Unmarshal([]byte(msg.Data), &intent); err != nil {
		return domain.Intent{}, fmt.Errorf("failed to unmarshal intent: %w", err)
	}
	if intent.Kind == "" {
		return domain.Intent{}, fmt.Errorf("intent without kind")
	}
	return intent, nil
}
