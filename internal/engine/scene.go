package engine

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/tactical-map/internal/domain"
)

// PickedLocation - пин, поставленный выбором адреса
type PickedLocation struct {
	Location domain.GeocodedLocation `json:"location"`
	Overlay  Overlay                 `json:"overlay"`
}

// Scene - полное визуальное дерево одного прохода рендера
type Scene struct {
	SessionID    string                 `json:"session_id"`
	Loading      bool                   `json:"loading"`
	Camera       Camera                 `json:"camera"`
	Mode         domain.InteractionMode `json:"mode"`
	Filter       domain.FilterState     `json:"filter"`
	Layers       Layers                 `json:"layers"`
	InfoPanel    *InfoPanel             `json:"info_panel,omitempty"`
	Picked       *PickedLocation        `json:"picked,omitempty"`
	MarkerEditor MarkerEditorView       `json:"marker_editor"`
	AreaDrawer   AreaDrawerView         `json:"area_drawer"`
	Address      AddressState           `json:"address"`
	Notice       string                 `json:"notice,omitempty"`
}

// FeatureCollection - видимые слои и черновик зоны в GeoJSON.
// Для сцены в состоянии загрузки коллекция пустая
func (s Scene) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	if s.Loading {
		return fc
	}

	for _, m := range s.Layers.Suspects {
		f := geojson.NewFeature(m.Overlay.Point.Orb())
		f.ID = m.SuspectID
		f.Properties["layer"] = string(KindSuspect)
		f.Properties["name"] = m.Name
		f.Properties["status"] = string(m.Status)
		f.Properties["severity"] = string(m.Status.Severity())
		f.Properties["role"] = string(m.Role)
		f.Properties["render"] = string(m.Overlay.Kind)
		fc.Append(f)
	}

	for _, m := range s.Layers.CustomMarkers {
		f := geojson.NewFeature(m.Overlay.Point.Orb())
		f.ID = m.MarkerID
		f.Properties["layer"] = string(KindCustom)
		f.Properties["title"] = m.Title
		if icon, ok := m.Overlay.Content.(IconContent); ok {
			f.Properties["icon"] = icon.Icon
			f.Properties["color"] = icon.Color
		}
		fc.Append(f)
	}

	for _, a := range s.Layers.Areas {
		f := geojson.NewFeature(orb.Polygon{ringOf(a.Ring)})
		f.ID = a.AreaID
		f.Properties["layer"] = string(KindArea)
		f.Properties["name"] = a.Name
		f.Properties["stroke"] = a.Stroke
		f.Properties["fill"] = a.Fill
		f.Properties["fill-opacity"] = a.FillOpacity
		fc.Append(f)
	}

	if s.Layers.User != nil {
		f := geojson.NewFeature(s.Layers.User.Point.Orb())
		f.Properties["layer"] = string(KindUser)
		fc.Append(f)
	}

	if s.Picked != nil {
		f := geojson.NewFeature(s.Picked.Location.Point.Orb())
		f.Properties["layer"] = "picked"
		f.Properties["name"] = s.Picked.Location.Name
		fc.Append(f)
	}

	if d := s.AreaDrawer; d.State == AreaDrawing && len(d.Vertices) > 0 {
		var geom orb.Geometry
		if d.Closed {
			geom = orb.Polygon{domain.ClosedRing(d.Vertices)}
		} else {
			line := make(orb.LineString, 0, len(d.Vertices))
			for _, p := range d.Vertices {
				line = append(line, p.Orb())
			}
			geom = line
		}
		f := geojson.NewFeature(geom)
		f.Properties["layer"] = "draft"
		f.Properties["vertices"] = len(d.Vertices)
		fc.Append(f)
	}

	return fc
}

func ringOf(points []domain.GeoPoint) orb.Ring {
	ring := make(orb.Ring, 0, len(points))
	for _, p := range points {
		ring = append(ring, p.Orb())
	}
	return ring
}
