package domain

import (
	"github.com/paulmach/orb"

	"github.com/tactical-map/internal/pkg/utils"
)

// GeoPoint - координата WGS84
type GeoPoint struct {
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
	Lng float64 `json:"lng" validate:"min=-180,max=180"`
}

// Valid - обе компоненты конечны и в допустимом диапазоне
func (p GeoPoint) Valid() bool {
	return utils.ValidateCoordinates(p.Lat, p.Lng)
}

// Label - текст "lat, lng", когда адрес неизвестен
func (p GeoPoint) Label() string {
	return utils.FormatCoordinates(p.Lat, p.Lng)
}

// Orb - порядок orb: [lng, lat]
func (p GeoPoint) Orb() orb.Point {
	return orb.Point{p.Lng, p.Lat}
}

func PointFromOrb(p orb.Point) GeoPoint {
	return GeoPoint{Lat: p.Lat(), Lng: p.Lon()}
}

// DistanceKm - расстояние до q по гаверсинусу
func (p GeoPoint) DistanceKm(q GeoPoint) float64 {
	return utils.HaversineDistance(p.Lat, p.Lng, q.Lat, q.Lng)
}

// GeocodedLocation - точка с читаемым названием
type GeocodedLocation struct {
	Name  string   `json:"name"`
	Point GeoPoint `json:"point"`
}

// Unresolved - деградированная подпись, когда обратный геокодинг ничего не дал
func Unresolved(p GeoPoint) GeocodedLocation {
	return GeocodedLocation{Name: p.Label(), Point: p}
}
