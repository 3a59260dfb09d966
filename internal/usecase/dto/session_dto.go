package dto

import (
	"time"

	"github.com/tactical-map/internal/domain"
	"github.com/tactical-map/internal/engine"
)

// CreateSessionRequest - параметры новой сессии карты
type CreateSessionRequest struct {
	Center *domain.GeoPoint `json:"center,omitempty"`
	Zoom   float64          `json:"zoom,omitempty" validate:"omitempty,min=0,max=22"`
	Region string           `json:"region,omitempty" validate:"omitempty,len=2,alpha"`
}

type SessionResponse struct {
	ID    string       `json:"id"`
	Scene engine.Scene `json:"scene"`
}

// CollectionsRequest - коллекции, которыми владеет родитель
type CollectionsRequest struct {
	Suspects []domain.Suspect      `json:"suspects" validate:"dive"`
	Markers  []domain.CustomMarker `json:"markers" validate:"dive"`
	Areas    []domain.TacticalArea `json:"areas" validate:"dive"`
}

func (r CollectionsRequest) Snapshot() engine.Snapshot {
	return engine.Snapshot{Suspects: r.Suspects, Markers: r.Markers, Areas: r.Areas}
}

type FiltersRequest struct {
	Status  string `json:"status,omitempty" validate:"omitempty,oneof=all wanted investigating arrested released"`
	Role    string `json:"role,omitempty" validate:"omitempty,oneof=residence approach"`
	MapType string `json:"map_type,omitempty" validate:"omitempty,oneof=road satellite hybrid"`
}

func (r FiltersRequest) Update() engine.FilterUpdate {
	return engine.FilterUpdate{
		Status:  domain.StatusFilter(r.Status),
		Role:    domain.LocationRole(r.Role),
		MapType: domain.MapType(r.MapType),
	}
}

type PointRequest struct {
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
	Lng float64 `json:"lng" validate:"min=-180,max=180"`
}

func (r PointRequest) Point() domain.GeoPoint {
	return domain.GeoPoint{Lat: r.Lat, Lng: r.Lng}
}

type ZoomRequest struct {
	Zoom float64 `json:"zoom" validate:"min=0,max=22"`
}

// SelectRequest - пустой Kind снимает выделение
type SelectRequest struct {
	Kind string `json:"kind,omitempty" validate:"omitempty,oneof=suspect custom area user"`
	ID   string `json:"id,omitempty" validate:"required_with=Kind"`
}

// DeviceFix - позиция, полученная устройством клиента
type DeviceFix struct {
	Lat       float64    `json:"lat" validate:"min=-90,max=90"`
	Lng       float64    `json:"lng" validate:"min=-180,max=180"`
	Accuracy  float64    `json:"accuracy,omitempty" validate:"min=0"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// LocateRequest - Fix опционален; без него используется резервный источник
type LocateRequest struct {
	Fix *DeviceFix `json:"fix,omitempty"`
}

type LocateResponse struct {
	Location domain.GeocodedLocation `json:"location"`
	Scene    engine.Scene            `json:"scene"`
}

type SearchInputRequest struct {
	Text string `json:"text" validate:"max=200"`
}

type SelectSuggestionRequest struct {
	Index int `json:"index" validate:"min=0"`
}

type MarkerDraftRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
}

func (r MarkerDraftRequest) Draft() engine.MarkerDraft {
	return engine.MarkerDraft{
		Title:       r.Title,
		Description: r.Description,
		Icon:        domain.MarkerIcon(r.Icon),
		Color:       domain.Color(r.Color),
	}
}

type AreaMetadataRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

func (r AreaMetadataRequest) Metadata() engine.AreaMetadata {
	return engine.AreaMetadata{
		Name:        r.Name,
		Description: r.Description,
		Color:       domain.Color(r.Color),
	}
}
