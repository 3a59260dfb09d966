package usecase

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tactical-map/internal/domain"
	"github.com/tactical-map/internal/domain/repository"
	"github.com/tactical-map/internal/pkg/errors"
	"github.com/tactical-map/internal/pkg/metrics"
	"github.com/tactical-map/internal/usecase/dto"
)

// GeocodingUseCase - геокодирование с кешем и метриками. Сам реализует
// repository.GeocodingRepository, поэтому сессии карты ходят через него.
type GeocodingUseCase struct {
	geocoder   repository.GeocodingRepository
	cacheRepo  repository.CacheRepository
	metrics    *metrics.Metrics
	logger     *zap.Logger
	region     string
	searchTTL  time.Duration
	reverseTTL time.Duration
}

// NewGeocodingUseCase - cacheRepo и m могут быть nil
func NewGeocodingUseCase(
	geocoder repository.GeocodingRepository,
	cacheRepo repository.CacheRepository,
	m *metrics.Metrics,
	logger *zap.Logger,
	region string,
	searchTTL time.Duration,
	reverseTTL time.Duration,
) *GeocodingUseCase {
	return &GeocodingUseCase{
		geocoder:   geocoder,
		cacheRepo:  cacheRepo,
		metrics:    m,
		logger:     logger,
		region:     region,
		searchTTL:  searchTTL,
		reverseTTL: reverseTTL,
	}
}

// SearchAddress - прямое геокодирование; ошибки кеша не ломают поиск
func (uc *GeocodingUseCase) SearchAddress(ctx context.Context, query string, region string) ([]domain.GeocodedLocation, error) {
	query = strings.TrimSpace(query)
	if region == "" {
		region = uc.region
	}

	if uc.cacheRepo != nil {
		cached, ok, err := uc.cacheRepo.GetSearch(ctx, query, region)
		if err != nil {
			uc.logger.Warn("Search cache read failed", zap.Error(err))
		} else if ok {
			uc.metrics.ObserveGeocode(metrics.KindSearch, metrics.OutcomeCacheHit, 0)
			return cached, nil
		}
	}

	start := time.Now()
	results, err := uc.geocoder.SearchAddress(ctx, query, region)
	elapsed := time.Since(start)
	if err != nil {
		uc.metrics.ObserveGeocode(metrics.KindSearch, metrics.OutcomeError, elapsed)
		uc.logger.Warn("Address search failed", zap.String("query", query), zap.Error(err))
		return nil, errors.ErrGeocodingFailed.WithDetails(map[string]interface{}{"cause": err.Error()})
	}
	if results == nil {
		results = []domain.GeocodedLocation{}
	}

	outcome := metrics.OutcomeOK
	if len(results) == 0 {
		outcome = metrics.OutcomeEmpty
	}
	uc.metrics.ObserveGeocode(metrics.KindSearch, outcome, elapsed)

	if uc.cacheRepo != nil {
		if err := uc.cacheRepo.SetSearch(ctx, query, region, results, uc.searchTTL); err != nil {
			uc.logger.Warn("Search cache write failed", zap.Error(err))
		}
	}
	return results, nil
}

// ReverseGeocode - обратное геокодирование; (nil, nil) - ничего не найдено
func (uc *GeocodingUseCase) ReverseGeocode(ctx context.Context, point domain.GeoPoint) (*domain.GeocodedLocation, error) {
	if !point.Valid() {
		return nil, errors.ErrInvalidCoordinates
	}

	if uc.cacheRepo != nil {
		cached, ok, err := uc.cacheRepo.GetReverse(ctx, point)
		if err != nil {
			uc.logger.Warn("Reverse cache read failed", zap.Error(err))
		} else if ok {
			uc.metrics.ObserveGeocode(metrics.KindReverse, metrics.OutcomeCacheHit, 0)
			return cached, nil
		}
	}

	start := time.Now()
	loc, err := uc.geocoder.ReverseGeocode(ctx, point)
	elapsed := time.Since(start)
	if err != nil {
		uc.metrics.ObserveGeocode(metrics.KindReverse, metrics.OutcomeError, elapsed)
		uc.logger.Warn("Reverse geocoding failed",
			zap.Float64("lat", point.Lat),
			zap.Float64("lng", point.Lng),
			zap.Error(err))
		return nil, errors.ErrGeocodingFailed.WithDetails(map[string]interface{}{"cause": err.Error()})
	}

	outcome := metrics.OutcomeOK
	if loc == nil {
		outcome = metrics.OutcomeEmpty
	}
	uc.metrics.ObserveGeocode(metrics.KindReverse, outcome, elapsed)

	if uc.cacheRepo != nil {
		if err := uc.cacheRepo.SetReverse(ctx, point, loc, uc.reverseTTL); err != nil {
			uc.logger.Warn("Reverse cache write failed", zap.Error(err))
		}
	}
	return loc, nil
}

// Search - HTTP вариант прямого геокодирования
func (uc *GeocodingUseCase) Search(ctx context.Context, req dto.GeocodeSearchRequest) (*dto.GeocodeSearchResponse, error) {
	results, err := uc.SearchAddress(ctx, req.Query, req.Region)
	if err != nil {
		return nil, err
	}
	return &dto.GeocodeSearchResponse{Results: results, Total: len(results)}, nil
}

// Reverse - HTTP вариант: при неудаче имя деградирует до "lat, lng"
func (uc *GeocodingUseCase) Reverse(ctx context.Context, req dto.ReverseGeocodeRequest) (*dto.ReverseGeocodeResponse, error) {
	point := req.Point()
	if !point.Valid() {
		return nil, errors.ErrInvalidCoordinates
	}

	loc, resolved := uc.Resolve(ctx, point)
	return &dto.ReverseGeocodeResponse{Location: loc, Resolved: resolved}, nil
}

// Resolve never fails: it returns the degraded location and false when no name was found.
func (uc *GeocodingUseCase) Resolve(ctx context.Context, point domain.GeoPoint) (domain.GeocodedLocation, bool) {
	loc, err := uc.ReverseGeocode(ctx, point)
	if err != nil || loc == nil || strings.TrimSpace(loc.Name) == "" {
		return domain.Unresolved(point), false
	}
	return domain.GeocodedLocation{Name: loc.Name, Point: point}, true
}
