package repository

import (
	"context"

	"github.com/tactical-map/internal/domain"
)

// GeocodingRepository - геокодинг в обе стороны. Реализации без состояния,
// вызовы независимы
type GeocodingRepository interface {
	// SearchAddress - свободный текст в кандидатов, с ограничением по region (ISO код страны),
	// если он задан. Нет совпадений - пустой слайс, не ошибка
	SearchAddress(ctx context.Context, query string, region string) ([]domain.GeocodedLocation, error)

	// ReverseGeocode называет точку; (nil, nil) - ничего не найдено
	ReverseGeocode(ctx context.Context, point domain.GeoPoint) (*domain.GeocodedLocation, error)
}
