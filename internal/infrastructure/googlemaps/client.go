package googlemaps

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"googlemaps.github.io/maps"

	"github.com/tactical-map/internal/config"
	"github.com/tactical-map/internal/domain"
	"github.com/tactical-map/internal/domain/repository"
)

const statusZeroResults = "ZERO_RESULTS"

// Client - геокодинг через Google Geocoding API
type Client struct {
	client   *maps.Client
	language string
	limit    int
	logger   *zap.Logger
}

// NewGoogleMapsClient создаёт бэкенд геокодинга; BaseURL подменяет хост API
func NewGoogleMapsClient(cfg *config.GeocodingConfig, logger *zap.Logger) (repository.GeocodingRepository, error) {
	opts := []maps.ClientOption{
		maps.WithAPIKey(cfg.APIKey),
		maps.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, maps.WithBaseURL(cfg.BaseURL))
	}

	client, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}

	limit := cfg.Limit
	if limit <= 0 {
		limit = 5
	}
	return &Client{client: client, language: cfg.Language, limit: limit, logger: logger}, nil
}

func (c *Client) SearchAddress(ctx context.Context, query string, region string) ([]domain.GeocodedLocation, error) {
	r := &maps.GeocodingRequest{
		Address:  query,
		Language: c.language,
	}
	if region != "" {
		r.Region = strings.ToLower(region)
		r.Components = map[maps.Component]string{maps.ComponentCountry: strings.ToUpper(region)}
	}

	resp, err := c.client.Geocode(ctx, r)
	if err != nil {
		if isZeroResults(err) {
			return []domain.GeocodedLocation{}, nil
		}
		c.logger.Warn("Geocoding API error", zap.String("query", query), zap.Error(err))
		return nil, fmt.Errorf("geocoding api error: %w", err)
	}

	results := make([]domain.GeocodedLocation, 0, len(resp))
	for _, res := range resp {
		point := domain.GeoPoint{Lat: res.Geometry.Location.Lat, Lng: res.Geometry.Location.Lng}
		if !point.Valid() {
			continue
		}
		results = append(results, domain.GeocodedLocation{Name: shortName(res), Point: point})
		if len(results) >= c.limit {
			break
		}
	}

	c.logger.Debug("Google geocode completed", zap.String("query", query), zap.Int("results", len(results)))
	return results, nil
}

func (c *Client) ReverseGeocode(ctx context.Context, point domain.GeoPoint) (*domain.GeocodedLocation, error) {
	r := &maps.GeocodingRequest{
		LatLng:   &maps.LatLng{Lat: point.Lat, Lng: point.Lng},
		Language: c.language,
	}

	resp, err := c.client.ReverseGeocode(ctx, r)
	if err != nil {
		if isZeroResults(err) {
			return nil, nil
		}
		c.logger.Warn("Reverse geocoding API error",
			zap.Float64("lat", point.Lat),
			zap.Float64("lng", point.Lng),
			zap.Error(err))
		return nil, fmt.Errorf("reverse geocoding api error: %w", err)
	}
	if len(resp) == 0 {
		return nil, nil
	}

	name := shortName(resp[0])
	if name == "" {
		return nil, nil
	}
	return &domain.GeocodedLocation{Name: name, Point: point}, nil
}

// shortName - "улица номер, район, город", иначе formatted address
func shortName(res maps.GeocodingResult) string {
	var route, number, hood, city string
	for _, comp := range res.AddressComponents {
		for _, t := range comp.Types {
			switch t {
			case "route":
				route = comp.LongName
			case "street_number":
				number = comp.LongName
			case "sublocality", "sublocality_level_1", "neighborhood":
				if hood == "" {
					hood = comp.LongName
				}
			case "locality", "administrative_area_level_2":
				if city == "" {
					city = comp.LongName
				}
			}
		}
	}

	var parts []string
	if route != "" {
		if number != "" {
			route += ", " + number
		}
		parts = append(parts, route)
	}
	if hood != "" {
		parts = append(parts, hood)
	}
	if city != "" {
		parts = append(parts, city)
	}
	if len(parts) == 0 {
		return strings.TrimSpace(res.FormattedAddress)
	}
	return strings.Join(parts, ", ")
}

func isZeroResults(err error) bool {
	return err != nil && strings.Contains(err.Error(), statusZeroResults)
}
