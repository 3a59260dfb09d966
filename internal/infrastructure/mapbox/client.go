package mapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/tactical-map/internal/config"
	"github.com/tactical-map/internal/domain"
	"github.com/tactical-map/internal/domain/repository"
)

// DefaultBaseURL - публичный API Mapbox
const DefaultBaseURL = "https://api.mapbox.com"

type client struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
	language    string
	limit       int
	logger      *zap.Logger
}

// NewMapboxClient создает клиент для Mapbox Geocoding API (v5, mapbox.places)
func NewMapboxClient(cfg *config.GeocodingConfig, logger *zap.Logger) (repository.GeocodingRepository, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("mapbox access token is required")
	}
	limit := cfg.Limit
	if limit <= 0 {
		limit = 5
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:     baseURL,
		accessToken: cfg.APIKey,
		language:    cfg.Language,
		limit:       limit,
		logger:      logger,
	}, nil
}

type contextEntry struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type feature struct {
	Text      string         `json:"text"`
	PlaceName string         `json:"place_name"`
	Address   string         `json:"address"`
	Center    []float64      `json:"center"`
	Context   []contextEntry `json:"context"`
}

type featureCollection struct {
	Features []feature `json:"features"`
	Message  string    `json:"message"`
}

// SearchAddress выполняет прямое геокодирование
func (c *client) SearchAddress(ctx context.Context, query string, region string) ([]domain.GeocodedLocation, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(c.limit))
	params.Set("autocomplete", "true")
	if region != "" {
		params.Set("country", strings.ToLower(region))
	}

	var fc featureCollection
	if err := c.get(ctx, url.PathEscape(query), params, &fc); err != nil {
		return nil, err
	}

	results := make([]domain.GeocodedLocation, 0, len(fc.Features))
	for _, f := range fc.Features {
		point, ok := f.point()
		if !ok {
			c.logger.Debug("Skipping feature without center", zap.String("place_name", f.PlaceName))
			continue
		}
		results = append(results, domain.GeocodedLocation{Name: f.shortName(), Point: point})
	}

	c.logger.Debug("Mapbox search completed",
		zap.String("query", query),
		zap.String("region", region),
		zap.Int("results", len(results)))

	return results, nil
}

// ReverseGeocode выполняет обратное геокодирование; (nil, nil) если ничего не найдено
func (c *client) ReverseGeocode(ctx context.Context, point domain.GeoPoint) (*domain.GeocodedLocation, error) {
	params := url.Values{}
	params.Set("limit", "1")
	params.Set("types", "address,poi,neighborhood,place")

	// Mapbox ждёт "lng,lat"
	coords := strconv.FormatFloat(point.Lng, 'f', 6, 64) + "," + strconv.FormatFloat(point.Lat, 'f', 6, 64)

	var fc featureCollection
	if err := c.get(ctx, coords, params, &fc); err != nil {
		return nil, err
	}
	if len(fc.Features) == 0 {
		c.logger.Debug("Mapbox reverse found nothing",
			zap.Float64("lat", point.Lat),
			zap.Float64("lng", point.Lng))
		return nil, nil
	}

	name := fc.Features[0].shortName()
	if name == "" {
		return nil, nil
	}
	return &domain.GeocodedLocation{Name: name, Point: point}, nil
}

func (c *client) get(ctx context.Context, search string, params url.Values, out *featureCollection) error {
	params.Set("access_token", c.accessToken)
	if c.language != "" {
		params.Set("language", c.language)
	}
	endpoint := fmt.Sprintf("%s/geocoding/v5/mapbox.places/%s.json?%s", c.baseURL, search, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.logger.Error("Failed to create request", zap.Error(err))
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to execute request", zap.Error(err))
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("Mapbox API returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(body)))
		return fmt.Errorf("mapbox API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logger.Error("Failed to decode response", zap.Error(err))
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (f feature) point() (domain.GeoPoint, bool) {
	if len(f.Center) != 2 {
		return domain.GeoPoint{}, false
	}
	p := domain.GeoPoint{Lat: f.Center[1], Lng: f.Center[0]}
	return p, p.Valid()
}

// shortName: "Rua da Bahia, 100, Centro, Belo Horizonte"
func (f feature) shortName() string {
	var parts []string
	if f.Text != "" {
		parts = append(parts, f.Text)
	}
	if f.Address != "" {
		parts = append(parts, f.Address)
	}
	for _, prefix := range []string{"neighborhood.", "locality.", "place."} {
		for _, ctxEntry := range f.Context {
			if strings.HasPrefix(ctxEntry.ID, prefix) && ctxEntry.Text != "" {
				parts = append(parts, ctxEntry.Text)
				break
			}
		}
	}
	if len(parts) < 2 {
		return f.PlaceName
	}
	return strings.Join(parts, ", ")
}
