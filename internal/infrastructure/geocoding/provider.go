// Package geocoding выбирает бэкенд геокодирования по конфигурации.
package geocoding

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/tactical-map/internal/config"
	"github.com/tactical-map/internal/domain/repository"
	"github.com/tactical-map/internal/infrastructure/googlemaps"
	"github.com/tactical-map/internal/infrastructure/mapbox"
	"github.com/tactical-map/internal/infrastructure/nominatim"
)

const (
	ProviderNominatim = "nominatim"
	ProviderGoogle    = "google"
	ProviderMapbox    = "mapbox"
)

// New создает клиент провайдера из cfg.Provider; пустое значение - nominatim
func New(cfg *config.GeocodingConfig, logger *zap.Logger) (repository.GeocodingRepository, error) {
	switch cfg.Provider {
	case "", ProviderNominatim:
		return nominatim.NewNominatimClient(cfg, logger), nil
	case ProviderGoogle:
		return googlemaps.NewGoogleMapsClient(cfg, logger)
	case ProviderMapbox:
		return mapbox.NewMapboxClient(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown geocoding provider %q", cfg.Provider)
	}
}
