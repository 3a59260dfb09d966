package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/tactical-map/internal/domain"
	"github.com/tactical-map/internal/domain/repository"
)

const (
	searchKeyPrefix  = "geocode:search"
	reverseKeyPrefix = "geocode:reverse"
)

type cacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

func NewCacheRepository(redis *Redis) repository.CacheRepository {
	return &cacheRepository{
		client: redis.Client(),
		logger: redis.logger,
	}
}

// SearchKey normalises the query: lower-cased, trimmed, inner whitespace collapsed.
func SearchKey(query, region string) string {
	q := strings.Join(strings.Fields(strings.ToLower(query)), " ")
	return fmt.Sprintf("%s:%s:%s", searchKeyPrefix, strings.ToLower(strings.TrimSpace(region)), q)
}

// ReverseKey rounds the point to 5 decimals (about a meter).
func ReverseKey(point domain.GeoPoint) string {
	return fmt.Sprintf("%s:%.5f:%.5f", reverseKeyPrefix, point.Lat, point.Lng)
}

func (r *cacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil // Cache miss
	}
	if err != nil {
		r.logger.Error("Failed to get from cache", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	r.logger.Debug("Cache hit", zap.String("key", key))
	return val, nil
}

func (r *cacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := r.client.Set(ctx, key, value, ttl).Err()
	if err != nil {
		r.logger.Error("Failed to set cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache set error: %w", err)
	}

	r.logger.Debug("Cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

func (r *cacheRepository) Delete(ctx context.Context, key string) error {
	err := r.client.Del(ctx, key).Err()
	if err != nil {
		r.logger.Error("Failed to delete from cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache delete error: %w", err)
	}

	r.logger.Debug("Cache deleted", zap.String("key", key))
	return nil
}

// GetSearch получает результаты прямого геокодирования из кеша
func (r *cacheRepository) GetSearch(ctx context.Context, query, region string) ([]domain.GeocodedLocation, bool, error) {
	data, err := r.Get(ctx, SearchKey(query, region))
	if err != nil || data == nil {
		return nil, false, err
	}

	var results []domain.GeocodedLocation
	if err := json.Unmarshal(data, &results); err != nil {
		r.logger.Error("Failed to unmarshal search results from cache", zap.Error(err))
		return nil, false, fmt.Errorf("unmarshal search results: %w", err)
	}
	if results == nil {
		results = []domain.GeocodedLocation{}
	}
	return results, true, nil
}

// SetSearch сохраняет результаты прямого геокодирования
func (r *cacheRepository) SetSearch(ctx context.Context, query, region string, results []domain.GeocodedLocation, ttl time.Duration) error {
	if results == nil {
		results = []domain.GeocodedLocation{}
	}
	data, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("marshal search results: %w", err)
	}
	return r.Set(ctx, SearchKey(query, region), data, ttl)
}

// GetReverse получает результат обратного геокодирования; "null" означает закешированное "ничего не найдено"
func (r *cacheRepository) GetReverse(ctx context.Context, point domain.GeoPoint) (*domain.GeocodedLocation, bool, error) {
	data, err := r.Get(ctx, ReverseKey(point))
	if err != nil || data == nil {
		return nil, false, err
	}

	var loc *domain.GeocodedLocation
	if err := json.Unmarshal(data, &loc); err != nil {
		r.logger.Error("Failed to unmarshal reverse result from cache", zap.Error(err))
		return nil, false, fmt.Errorf("unmarshal reverse result: %w", err)
	}
	if loc != nil {
		// the name is cached per rounded cell; the point stays the caller's
		loc.Point = point
	}
	return loc, true, nil
}

// SetReverse сохраняет результат обратного геокодирования
func (r *cacheRepository) SetReverse(ctx context.Context, point domain.GeoPoint, loc *domain.GeocodedLocation, ttl time.Duration) error {
	data, err := json.Marshal(loc)
	if err != nil {
		return fmt.Errorf("marshal reverse result: %w", err)
	}
	return r.Set(ctx, ReverseKey(point), data, ttl)
}
