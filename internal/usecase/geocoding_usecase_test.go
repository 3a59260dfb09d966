package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tactical-map/internal/domain"
	"github.com/tactical-map/internal/domain/repository"
	apperrors "github.com/tactical-map/internal/pkg/errors"
	"github.com/tactical-map/internal/pkg/metrics"
	"github.com/tactical-map/internal/usecase"
	"github.com/tactical-map/internal/usecase/dto"
)

func newGeocodingUC(geo *MockGeocodingRepository, cache repository.CacheRepository, m *metrics.Metrics) *usecase.GeocodingUseCase {
	return usecase.NewGeocodingUseCase(geo, cache, m, zap.NewNop(), "br", time.Hour, 24*time.Hour)
}

func TestGeocodingUseCase_SearchAddress(t *testing.T) {
	ctx := context.Background()
	results := []domain.GeocodedLocation{{Name: "Praça da Liberdade", Point: domain.GeoPoint{Lat: -19.932, Lng: -43.938}}}

	t.Run("cache hit skips upstream", func(t *testing.T) {
		geo := &MockGeocodingRepository{}
		cache := &MockCacheRepository{}
		cache.On("GetSearch", ctx, "Praça da Liberdade", "br").Return(results, true, nil)

		got, err := newGeocodingUC(geo, cache, nil).SearchAddress(ctx, "  Praça da Liberdade ", "")
		require.NoError(t, err)
		assert.Equal(t, results, got)
		geo.AssertNotCalled(t, "SearchAddress", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("miss goes upstream and stores", func(t *testing.T) {
		geo := &MockGeocodingRepository{}
		cache := &MockCacheRepository{}
		cache.On("GetSearch", ctx, "Savassi", "br").Return(nil, false, nil)
		geo.On("SearchAddress", ctx, "Savassi", "br").Return(results, nil)
		cache.On("SetSearch", ctx, "Savassi", "br", results, time.Hour).Return(nil)

		got, err := newGeocodingUC(geo, cache, nil).SearchAddress(ctx, "Savassi", "br")
		require.NoError(t, err)
		assert.Equal(t, results, got)
		cache.AssertExpectations(t)
	})

	t.Run("cache errors are ignored", func(t *testing.T) {
		geo := &MockGeocodingRepository{}
		cache := &MockCacheRepository{}
		cache.On("GetSearch", ctx, "Savassi", "br").Return(nil, false, errors.New("connection refused"))
		geo.On("SearchAddress", ctx, "Savassi", "br").Return(nil, nil)
		cache.On("SetSearch", ctx, "Savassi", "br", []domain.GeocodedLocation{}, time.Hour).Return(errors.New("connection refused"))

		got, err := newGeocodingUC(geo, cache, nil).SearchAddress(ctx, "Savassi", "br")
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("upstream failure is ErrGeocodingFailed and not cached", func(t *testing.T) {
		geo := &MockGeocodingRepository{}
		m := metrics.New()
		geo.On("SearchAddress", ctx, "Savassi", "br").Return(nil, errors.New("status 503"))

		_, err := newGeocodingUC(geo, nil, m).SearchAddress(ctx, "Savassi", "br")
		assert.True(t, errors.Is(err, apperrors.ErrGeocodingFailed))

		n, gerr := testutil.GatherAndCount(m.Registry(), "tactical_map_geocode_requests_total")
		require.NoError(t, gerr)
		assert.Equal(t, 1, n)
	})
}

func TestGeocodingUseCase_ReverseGeocode(t *testing.T) {
	ctx := context.Background()
	p := domain.GeoPoint{Lat: -19.9, Lng: -43.9}

	t.Run("cached nothing found", func(t *testing.T) {
		geo := &MockGeocodingRepository{}
		cache := &MockCacheRepository{}
		cache.On("GetReverse", ctx, p).Return(nil, true, nil)

		loc, err := newGeocodingUC(geo, cache, nil).ReverseGeocode(ctx, p)
		require.NoError(t, err)
		assert.Nil(t, loc)
		geo.AssertNotCalled(t, "ReverseGeocode", mock.Anything, mock.Anything)
	})

	t.Run("empty upstream result is cached", func(t *testing.T) {
		geo := &MockGeocodingRepository{}
		cache := &MockCacheRepository{}
		cache.On("GetReverse", ctx, p).Return(nil, false, nil)
		geo.On("ReverseGeocode", ctx, p).Return(nil, nil)
		cache.On("SetReverse", ctx, p, (*domain.GeocodedLocation)(nil), 24*time.Hour).Return(nil)

		loc, err := newGeocodingUC(geo, cache, nil).ReverseGeocode(ctx, p)
		require.NoError(t, err)
		assert.Nil(t, loc)
		cache.AssertExpectations(t)
	})

	t.Run("invalid point", func(t *testing.T) {
		_, err := newGeocodingUC(&MockGeocodingRepository{}, nil, nil).ReverseGeocode(ctx, domain.GeoPoint{Lat: 100})
		assert.True(t, errors.Is(err, apperrors.ErrInvalidCoordinates))
	})
}

func TestGeocodingUseCase_ReverseDegrades(t *testing.T) {
	ctx := context.Background()
	p := domain.GeoPoint{Lat: -19.9, Lng: -43.9}

	t.Run("failure gives literal coordinates", func(t *testing.T) {
		geo := &MockGeocodingRepository{}
		geo.On("ReverseGeocode", mock.Anything, p).Return(nil, errors.New("timeout"))

		resp, err := newGeocodingUC(geo, nil, nil).Reverse(ctx, dto.ReverseGeocodeRequest{Lat: p.Lat, Lng: p.Lng})
		require.NoError(t, err)
		assert.False(t, resp.Resolved)
		assert.Equal(t, "-19.9, -43.9", resp.Location.Name)
		assert.Equal(t, p, resp.Location.Point)
	})

	t.Run("success keeps the requested point", func(t *testing.T) {
		geo := &MockGeocodingRepository{}
		geo.On("ReverseGeocode", mock.Anything, p).Return(&domain.GeocodedLocation{Name: "Centro, Belo Horizonte", Point: domain.GeoPoint{Lat: -19.91, Lng: -43.93}}, nil)

		resp, err := newGeocodingUC(geo, nil, nil).Reverse(ctx, dto.ReverseGeocodeRequest{Lat: p.Lat, Lng: p.Lng})
		require.NoError(t, err)
		assert.True(t, resp.Resolved)
		assert.Equal(t, "Centro, Belo Horizonte", resp.Location.Name)
		assert.Equal(t, p, resp.Location.Point)
	})
}
