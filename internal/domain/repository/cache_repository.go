package repository

import (
	"context"
	"time"

	"github.com/tactical-map/internal/domain"
)

// CacheRepository определяет методы для работы с кешем
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error

	// GetSearch - закешированный прямой поиск; ok false при промахе
	GetSearch(ctx context.Context, query, region string) (results []domain.GeocodedLocation, ok bool, err error)
	SetSearch(ctx context.Context, query, region string, results []domain.GeocodedLocation, ttl time.Duration) error

	// GetReverse - закешированный обратный результат; закешированное "ничего не найдено" это (nil, true, nil)
	GetReverse(ctx context.Context, point domain.GeoPoint) (loc *domain.GeocodedLocation, ok bool, err error)
	SetReverse(ctx context.Context, point domain.GeoPoint, loc *domain.GeocodedLocation, ttl time.Duration) error
}
