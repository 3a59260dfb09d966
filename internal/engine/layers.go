package engine

import (
	"sync"

	"github.com/tactical-map/internal/domain"
)

// DefaultZoomThreshold - с этого зума подозреваемые рисуются фотографиями
const DefaultZoomThreshold = 15.0

type Fidelity string

const (
	FidelityIcon  Fidelity = "icon"
	FidelityPhoto Fidelity = "photo"
)

// MarkerKind - слой, к которому относится выбираемый маркер
type MarkerKind string

const (
	KindSuspect MarkerKind = "suspect"
	KindCustom  MarkerKind = "custom"
	KindArea    MarkerKind = "area"
	KindUser    MarkerKind = "user"
)

func (k MarkerKind) Valid() bool {
	switch k {
	case KindSuspect, KindCustom, KindArea, KindUser:
		return true
	}
	return false
}

// VisibleSuspect - подозреваемый и адрес, выбранный фильтром роли
type VisibleSuspect struct {
	Suspect  domain.Suspect
	Location domain.SuspectLocation
}

// VisibleSuspects - не больше одной точки на подозреваемого. Чистая функция,
// зум на состав не влияет
func VisibleSuspects(suspects []domain.Suspect, filter domain.FilterState) []VisibleSuspect {
	result := make([]VisibleSuspect, 0, len(suspects))
	for _, s := range suspects {
		if !s.ShowOnMap {
			continue
		}
		if !filter.Status.Matches(s.Status) {
			continue
		}
		loc, ok := s.Location(filter.Role)
		if !ok {
			continue
		}
		result = append(result, VisibleSuspect{Suspect: s, Location: loc})
	}
	return result
}

type SuspectMarker struct {
	SuspectID string               `json:"suspect_id"`
	Name      string               `json:"name"`
	Status    domain.SuspectStatus `json:"status"`
	Role      domain.LocationRole  `json:"role"`
	Label     string               `json:"label,omitempty"`
	Overlay   Overlay              `json:"overlay"`
}

type CustomMarkerOverlay struct {
	MarkerID string  `json:"marker_id"`
	Title    string  `json:"title"`
	Overlay  Overlay `json:"overlay"`
}

// AreaShape - полигон для хоста: контур замкнут, цвета подставлены
type AreaShape struct {
	AreaID      string            `json:"area_id"`
	Name        string            `json:"name"`
	Ring        []domain.GeoPoint `json:"ring"`
	Stroke      string            `json:"stroke"`
	Fill        string            `json:"fill"`
	FillOpacity float64           `json:"fill_opacity"`
	Centroid    domain.GeoPoint   `json:"centroid"`
}

// Selection - единственный маркер с открытой панелью
type Selection struct {
	Kind MarkerKind `json:"kind"`
	ID   string     `json:"id"`
}

// InfoPanel - содержимое открытой панели
type InfoPanel struct {
	Kind        MarkerKind           `json:"kind"`
	ID          string               `json:"id"`
	Title       string               `json:"title"`
	Subtitle    string               `json:"subtitle,omitempty"`
	Description string               `json:"description,omitempty"`
	Status      domain.SuspectStatus `json:"status,omitempty"`
	Role        domain.LocationRole  `json:"role,omitempty"`
	Point       domain.GeoPoint      `json:"point"`
	DistanceKm  *float64             `json:"distance_km,omitempty"`
	CanOpen     bool                 `json:"can_open_profile"`
}

// Layers - набор оверлеев одного прохода рендера
type Layers struct {
	Fidelity      Fidelity              `json:"fidelity"`
	Suspects      []SuspectMarker       `json:"suspects"`
	CustomMarkers []CustomMarkerOverlay `json:"custom_markers"`
	Areas         []AreaShape           `json:"areas"`
	User          *Overlay              `json:"user,omitempty"`
}

// LayerController считает видимые оверлеи по слоям и хранит единственный выбор
type LayerController struct {
	threshold float64
	renderer  OverlayRenderer

	mu       sync.Mutex
	selected *Selection
}

func NewLayerController(threshold float64) *LayerController {
	if threshold <= 0 {
		threshold = DefaultZoomThreshold
	}
	return &LayerController{threshold: threshold}
}

func (l *LayerController) Threshold() float64 {
	return l.threshold
}

func (l *LayerController) Fidelity(zoom float64) Fidelity {
	if zoom >= l.threshold {
		return FidelityPhoto
	}
	return FidelityIcon
}

func (l *LayerController) Suspects(suspects []domain.Suspect, filter domain.FilterState) []SuspectMarker {
	fidelity := l.Fidelity(filter.Zoom)
	visible := VisibleSuspects(suspects, filter)

	markers := make([]SuspectMarker, 0, len(visible))
	for _, v := range visible {
		var overlay Overlay
		point := *v.Location.Point
		if fidelity == FidelityPhoto {
			overlay = l.renderer.Render(point, Square(SizePhotoCard), PhotoContent{
				URL:    v.Suspect.PhotoURL,
				Border: v.Suspect.Status.Severity(),
			})
		} else {
			overlay = l.renderer.Render(point, Square(SizeStatusDot), DotContent{
				Severity: v.Suspect.Status.Severity(),
				Icon:     statusIcon(v.Suspect.Status),
			})
		}
		markers = append(markers, SuspectMarker{
			SuspectID: v.Suspect.ID,
			Name:      v.Suspect.Name,
			Status:    v.Suspect.Status,
			Role:      filter.Role,
			Label:     v.Location.Label,
			Overlay:   overlay,
		})
	}
	return markers
}

// CustomMarkers всегда в режиме иконок
func (l *LayerController) CustomMarkers(markers []domain.CustomMarker) []CustomMarkerOverlay {
	result := make([]CustomMarkerOverlay, 0, len(markers))
	for _, m := range markers {
		result = append(result, CustomMarkerOverlay{
			MarkerID: m.ID,
			Title:    m.Title,
			Overlay: l.renderer.Render(m.Point, Square(SizeMarkerBadge), IconContent{
				Icon:  string(m.Icon),
				Color: m.Color.Hex(),
			}),
		})
	}
	return result
}

func (l *LayerController) Areas(areas []domain.TacticalArea) []AreaShape {
	result := make([]AreaShape, 0, len(areas))
	for _, a := range areas {
		if len(a.Ring) < domain.MinAreaVertices {
			continue
		}
		ring := a.OrbRing()
		points := make([]domain.GeoPoint, 0, len(ring))
		for _, p := range ring {
			points = append(points, domain.PointFromOrb(p))
		}
		result = append(result, AreaShape{
			AreaID:      a.ID,
			Name:        a.Name,
			Ring:        points,
			Stroke:      a.Color.Hex(),
			Fill:        a.Color.Hex(),
			FillOpacity: domain.FillOpacity,
			Centroid:    a.Centroid(),
		})
	}
	return result
}

// UserPosition - позиция устройства; nil, если неизвестна
func (l *LayerController) UserPosition(p *domain.GeoPoint) *Overlay {
	if p == nil {
		return nil
	}
	o := l.renderer.Render(*p, Square(SizeStatusDot), IconContent{Icon: "user", Color: "#2563eb"})
	return &o
}

func (l *LayerController) Build(snap Snapshot, filter domain.FilterState, user *domain.GeoPoint) Layers {
	return Layers{
		Fidelity:      l.Fidelity(filter.Zoom),
		Suspects:      l.Suspects(snap.Suspects, filter),
		CustomMarkers: l.CustomMarkers(snap.Markers),
		Areas:         l.Areas(snap.Areas),
		User:          l.UserPosition(user),
	}
}

// Select открывает панель маркера, закрывая предыдущую
func (l *LayerController) Select(kind MarkerKind, id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.selected = &Selection{Kind: kind, ID: id}
}

func (l *LayerController) ClearSelection() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.selected = nil
}

func (l *LayerController) clearIf(kind MarkerKind, id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.selected != nil && l.selected.Kind == kind && l.selected.ID == id {
		l.selected = nil
	}
}

func (l *LayerController) Selected() *Selection {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.selected == nil {
		return nil
	}
	s := *l.selected
	return &s
}

// InfoPanel собирает панель по текущей проекции.
// Если маркер больше не виден, панели нет
func (l *LayerController) InfoPanel(snap Snapshot, filter domain.FilterState, user *domain.GeoPoint) *InfoPanel {
	sel := l.Selected()
	if sel == nil {
		return nil
	}

	switch sel.Kind {
	case KindSuspect:
		for _, v := range VisibleSuspects(snap.Suspects, filter) {
			if v.Suspect.ID != sel.ID {
				continue
			}
			panel := &InfoPanel{
				Kind:        KindSuspect,
				ID:          v.Suspect.ID,
				Title:       v.Suspect.Name,
				Subtitle:    v.Suspect.Nickname,
				Description: v.Location.Label,
				Status:      v.Suspect.Status,
				Role:        filter.Role,
				Point:       *v.Location.Point,
				CanOpen:     true,
			}
			if user != nil {
				d := user.DistanceKm(*v.Location.Point)
				panel.DistanceKm = &d
			}
			return panel
		}
	case KindCustom:
		for _, m := range snap.Markers {
			if m.ID == sel.ID {
				return &InfoPanel{Kind: KindCustom, ID: m.ID, Title: m.Title, Description: m.Description, Point: m.Point}
			}
		}
	case KindArea:
		for _, a := range snap.Areas {
			if a.ID == sel.ID {
				return &InfoPanel{Kind: KindArea, ID: a.ID, Title: a.Name, Description: a.Description, Point: a.Centroid()}
			}
		}
	case KindUser:
		if user != nil {
			return &InfoPanel{Kind: KindUser, Title: "Você está aqui", Description: user.Label(), Point: *user}
		}
	}
	return nil
}

func statusIcon(s domain.SuspectStatus) string {
	switch s {
	case domain.StatusWanted:
		return "alert"
	case domain.StatusInvestigating:
		return "search"
	case domain.StatusArrested:
		return "lock"
	case domain.StatusReleased:
		return "check"
	default:
		return "user"
	}
}
