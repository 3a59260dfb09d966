package domain

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// MinAreaVertices - минимум вершин у зоны
const MinAreaVertices = 3

// FillOpacity - прозрачность заливки полигона
const FillOpacity = 0.25

// TacticalArea - нарисованный вручную полигон с метаданными.
// Ring не замкнут, замыкающее ребро подразумевается
type TacticalArea struct {
	ID          string     `json:"id"`
	Ring        []GeoPoint `json:"ring" validate:"min=3,dive"`
	Name        string     `json:"name" validate:"required,max=120"`
	Description string     `json:"description" validate:"max=1000"`
	Color       Color      `json:"color" validate:"required,oneof=red blue yellow green purple"`
}

// OrbRing - замкнутый контур (первая вершина повторена в конце)
func (a TacticalArea) OrbRing() orb.Ring {
	return ClosedRing(a.Ring)
}

// Centroid - центроид по площади; для вырожденного контура среднее вершин
func (a TacticalArea) Centroid() GeoPoint {
	if len(a.Ring) == 0 {
		return GeoPoint{}
	}
	ring := a.OrbRing()
	c, area := planar.CentroidArea(orb.Polygon{ring})
	if area == 0 {
		var lat, lng float64
		for _, p := range a.Ring {
			lat += p.Lat
			lng += p.Lng
		}
		n := float64(len(a.Ring))
		return GeoPoint{Lat: lat / n, Lng: lng / n}
	}
	return PointFromOrb(c)
}

// Bounds - юго-западный и северо-восточный углы
func (a TacticalArea) Bounds() (GeoPoint, GeoPoint) {
	b := a.OrbRing().Bound()
	return PointFromOrb(b.Min), PointFromOrb(b.Max)
}

// ClosedRing переводит вершины в orb.Ring и замыкает его при необходимости
func ClosedRing(points []GeoPoint) orb.Ring {
	ring := make(orb.Ring, 0, len(points)+1)
	for _, p := range points {
		ring = append(ring, p.Orb())
	}
	if len(ring) > 0 && !ring.Closed() {
		ring = append(ring, ring[0])
	}
	return ring
}
