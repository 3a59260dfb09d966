package geolocation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/tactical-map/internal/domain"
)

// IPLocator - приблизительная позиция по публичному IP (формат ответа ip-api.com)
type IPLocator struct {
	httpClient *http.Client
	url        string
	strict     bool
	logger     *zap.Logger
}

type ipLookupResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	City    string  `json:"city"`
}

func NewIPLocator(httpClient *http.Client, url string, logger *zap.Logger) *IPLocator {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &IPLocator{httpClient: httpClient, url: url, logger: logger}
}

// Strict - запросы с highAccuracy завершаются ошибкой
func (l *IPLocator) Strict() *IPLocator {
	l.strict = true
	return l
}

func (l *IPLocator) GetCurrentPosition(ctx context.Context, highAccuracy bool) (domain.GeoPoint, error) {
	if highAccuracy && l.strict {
		return domain.GeoPoint{}, errors.New("ip lookup cannot provide high accuracy")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("ip lookup request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.GeoPoint{}, fmt.Errorf("ip lookup error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var out ipLookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return domain.GeoPoint{}, fmt.Errorf("failed to decode ip lookup response: %w", err)
	}
	if out.Status != "" && out.Status != "success" {
		return domain.GeoPoint{}, fmt.Errorf("ip lookup failed: %s", out.Message)
	}

	point := domain.GeoPoint{Lat: out.Lat, Lng: out.Lon}
	if !point.Valid() || (point.Lat == 0 && point.Lng == 0) {
		return domain.GeoPoint{}, errors.New("ip lookup returned no position")
	}

	l.logger.Debug("IP position resolved",
		zap.String("city", out.City),
		zap.Float64("lat", point.Lat),
		zap.Float64("lng", point.Lng))
	return point, nil
}
