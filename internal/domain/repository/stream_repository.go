package repository

import (
	"context"
	"time"

	"github.com/tactical-map/internal/domain"
)

// StreamRepository - доступ к Redis Streams
type StreamRepository interface {
	// ConsumeBatch читает до maxCount новых сообщений, долго не блокируясь
	ConsumeBatch(ctx context.Context, stream, group, consumer string, maxCount int) ([]domain.StreamMessage, error)

	// ClaimStale забирает сообщения, которые другой consumer не подтвердил за minIdle
	ClaimStale(ctx context.Context, stream, group, consumer string, minIdle time.Duration, maxCount int) ([]domain.StreamMessage, error)

	AckMessages(ctx context.Context, stream, group string, messageIDs []string) error

	CreateConsumerGroup(ctx context.Context, stream, group string) error

	PublishToStream(ctx context.Context, stream string, data interface{}) error
}
