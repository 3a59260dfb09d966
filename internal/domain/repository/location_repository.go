package repository

import (
	"context"

	"github.com/tactical-map/internal/domain"
)

// LocationRepository получает позицию устройства. Если позиция не получена
// до дедлайна контекста, возвращается errors.ErrLocationUnavailable
type LocationRepository interface {
	GetCurrentPosition(ctx context.Context, highAccuracy bool) (domain.GeoPoint, error)
}
