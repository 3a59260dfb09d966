package usecase_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/tactical-map/internal/domain"
)

// MockGeocodingRepository is a mock of GeocodingRepository
type MockGeocodingRepository struct {
	mock.Mock
}

func (m *MockGeocodingRepository) SearchAddress(ctx context.Context, query string, region string) ([]domain.GeocodedLocation, error) {
	args := m.Called(ctx, query, region)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GeocodedLocation), args.Error(1)
}

func (m *MockGeocodingRepository) ReverseGeocode(ctx context.Context, point domain.GeoPoint) (*domain.GeocodedLocation, error) {
	args := m.Called(ctx, point)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GeocodedLocation), args.Error(1)
}

// MockCacheRepository is a mock of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheRepository) GetSearch(ctx context.Context, query, region string) ([]domain.GeocodedLocation, bool, error) {
	args := m.Called(ctx, query, region)
	var results []domain.GeocodedLocation
	if args.Get(0) != nil {
		results = args.Get(0).([]domain.GeocodedLocation)
	}
	return results, args.Bool(1), args.Error(2)
}

func (m *MockCacheRepository) SetSearch(ctx context.Context, query, region string, results []domain.GeocodedLocation, ttl time.Duration) error {
	args := m.Called(ctx, query, region, results, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) GetReverse(ctx context.Context, point domain.GeoPoint) (*domain.GeocodedLocation, bool, error) {
	args := m.Called(ctx, point)
	var loc *domain.GeocodedLocation
	if args.Get(0) != nil {
		loc = args.Get(0).(*domain.GeocodedLocation)
	}
	return loc, args.Bool(1), args.Error(2)
}

func (m *MockCacheRepository) SetReverse(ctx context.Context, point domain.GeoPoint, loc *domain.GeocodedLocation, ttl time.Duration) error {
	args := m.Called(ctx, point, loc, ttl)
	return args.Error(0)
}

// MockStreamRepository is a mock of StreamRepository
type MockStreamRepository struct {
	mock.Mock
}

func (m *MockStreamRepository) ConsumeBatch(ctx context.Context, stream, group, consumer string, maxCount int) ([]domain.StreamMessage, error) {
	args := m.Called(ctx, stream, group, consumer, maxCount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StreamMessage), args.Error(1)
}

func (m *MockStreamRepository) ClaimStale(ctx context.Context, stream, group, consumer string, minIdle time.Duration, maxCount int) ([]domain.StreamMessage, error) {
	args := m.Called(ctx, stream, group, consumer, minIdle, maxCount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StreamMessage), args.Error(1)
}

func (m *MockStreamRepository) AckMessages(ctx context.Context, stream, group string, messageIDs []string) error {
	args := m.Called(ctx, stream, group, messageIDs)
	return args.Error(0)
}

func (m *MockStreamRepository) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	args := m.Called(ctx, stream, group)
	return args.Error(0)
}

func (m *MockStreamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	args := m.Called(ctx, stream, data)
	return args.Error(0)
}

// MockLocationRepository is a mock of LocationRepository
type MockLocationRepository struct {
	mock.Mock
}

func (m *MockLocationRepository) GetCurrentPosition(ctx context.Context, highAccuracy bool) (domain.GeoPoint, error) {
	args := m.Called(ctx, highAccuracy)
	return args.Get(0).(domain.GeoPoint), args.Error(1)
}
