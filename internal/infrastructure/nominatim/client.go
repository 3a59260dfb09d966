package nominatim

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

// DefaultBaseURL is the public OpenStreetMap instance.
const DefaultBaseURL = "https://nominatim.openstreetmap.org"

type client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	language   string
	limit      int
	logger     *zap.Logger
}

// NewNominatimClient создает клиент для Nominatim (OpenStreetMap) API
func NewNominatimClient(cfg *config.GeocodingConfig, logger *zap.Logger) repository.GeocodingRepository {
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
		baseURL:   baseURL,
		userAgent: cfg.UserAgent,
		language:  cfg.Language,
		limit:     limit,
		logger:    logger,
	}
}

type address struct {
	Road          string `json:"road"`
	HouseNumber   string `json:"house_number"`
	Neighbourhood string `json:"neighbourhood"`
	Suburb        string `json:"suburb"`
	City          string `json:"city"`
	Town          string `json:"town"`
	Village       string `json:"village"`
	Municipality  string `json:"municipality"`
	State         string `json:"state"`
}

type place struct {
	Lat         string   `json:"lat"`
	Lon         string   `json:"lon"`
	DisplayName string   `json:"display_name"`
	Address     *address `json:"address"`
	Error       string   `json:"error"`
}

// SearchAddress выполняет прямое геокодирование
func (c *client) SearchAddress(ctx context.Context, query string, region string) ([]domain.GeocodedLocation, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "jsonv2")
	params.Set("addressdetails", "1")
	params.Set("limit", strconv.Itoa(c.limit))
	if region != "" {
		params.Set("countrycodes", strings.ToLower(region))
	}

	var places []place
	if err := c.get(ctx, "/search", params, &places); err != nil {
		return nil, err
	}

	results := make([]domain.GeocodedLocation, 0, len(places))
	for _, p := range places {
		loc, ok := p.toLocation()
		if !ok {
			c.logger.Debug("Skipping place with unparsable coordinates", zap.String("display_name", p.DisplayName))
			continue
		}
		results = append(results, loc)
	}

	c.logger.Debug("Nominatim search completed",
		zap.String("query", query),
		zap.String("region", region),
		zap.Int("results", len(results)))

	return results, nil
}

// ReverseGeocode выполняет обратное геокодирование; (nil, nil) если ничего не найдено
func (c *client) ReverseGeocode(ctx context.Context, point domain.GeoPoint) (*domain.GeocodedLocation, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(point.Lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(point.Lng, 'f', -1, 64))
	params.Set("format", "jsonv2")
	params.Set("addressdetails", "1")
	params.Set("zoom", "18")

	var p place
	if err := c.get(ctx, "/reverse", params, &p); err != nil {
		return nil, err
	}
	if p.Error != "" {
		c.logger.Debug("Nominatim reverse found nothing",
			zap.Float64("lat", point.Lat),
			zap.Float64("lng", point.Lng),
			zap.String("reason", p.Error))
		return nil, nil
	}

	name := shortName(p.Address, p.DisplayName)
	if name == "" {
		return nil, nil
	}
	return &domain.GeocodedLocation{Name: name, Point: point}, nil
}

func (c *client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	if c.language != "" {
		params.Set("accept-language", c.language)
	}
	endpoint := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.logger.Error("Failed to create request", zap.Error(err))
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Failed to execute request", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.logger.Warn("Nominatim API returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(body)))
		return fmt.Errorf("nominatim API error: status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logger.Error("Failed to decode response", zap.Error(err))
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (p place) toLocation() (domain.GeocodedLocation, bool) {
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return domain.GeocodedLocation{}, false
	}
	lng, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return domain.GeocodedLocation{}, false
	}
	point := domain.GeoPoint{Lat: lat, Lng: lng}
	if !point.Valid() {
		return domain.GeocodedLocation{}, false
	}

	name := shortName(p.Address, p.DisplayName)
	if name == "" {
		name = point.Label()
	}
	return domain.GeocodedLocation{Name: name, Point: point}, true
}

// shortName builds "road number, neighbourhood, city" from the structured
// address, falling back to the full display name when no part is present.
func shortName(a *address, displayName string) string {
	if a == nil {
		return strings.TrimSpace(displayName)
	}

	var parts []string
	if road := strings.TrimSpace(a.Road); road != "" {
		if a.HouseNumber != "" {
			road += ", " + strings.TrimSpace(a.HouseNumber)
		}
		parts = append(parts, road)
	}
	if n := firstNonEmpty(a.Neighbourhood, a.Suburb); n != "" {
		parts = append(parts, n)
	}
	if city := firstNonEmpty(a.City, a.Town, a.Village, a.Municipality); city != "" {
		parts = append(parts, city)
	}

	if len(parts) == 0 {
		return strings.TrimSpace(displayName)
	}
	return strings.Join(parts, ", ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
