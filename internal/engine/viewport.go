package engine

import (
	"sync"

	"github.com/tactical-map/internal/domain"
	apperrors "github.com/tactical-map/internal/pkg/errors"
)

// MapSurface - SDK карты хоста глазами ядра.
// Тайлы, жесты и проекция остаются на стороне хоста
type MapSurface interface {
	SetCenter(point domain.GeoPoint)
	SetZoom(zoom float64)
	SetMapType(kind domain.MapType)
}

// NopSurface игнорирует команды камеры; для хостов, которые сами опрашивают сцену
type NopSurface struct{}

func (NopSurface) SetCenter(domain.GeoPoint) {}
func (NopSurface) SetZoom(float64)           {}
func (NopSurface) SetMapType(domain.MapType) {}

type Camera struct {
	Center  domain.GeoPoint `json:"center"`
	Zoom    float64         `json:"zoom"`
	MapType domain.MapType  `json:"map_type"`
}

// Viewport владеет камерой и флагом готовности карты хоста
type Viewport struct {
	mu      sync.Mutex
	surface MapSurface
	camera  Camera
	ready   bool

	onClick func(domain.GeoPoint)
	onZoom  func(float64)
}

func NewViewport(surface MapSurface, center domain.GeoPoint, zoom float64) *Viewport {
	if surface == nil {
		surface = NopSurface{}
	}
	return &Viewport{
		surface: surface,
		camera:  Camera{Center: center, Zoom: zoom, MapType: domain.MapTypeRoad},
	}
}

// MarkReady - карта хоста загрузилась; текущая камера отправляется ей
func (v *Viewport) MarkReady() {
	v.mu.Lock()
	v.ready = true
	cam := v.camera
	v.mu.Unlock()

	v.surface.SetCenter(cam.Center)
	v.surface.SetZoom(cam.Zoom)
	v.surface.SetMapType(cam.MapType)
}

func (v *Viewport) Ready() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.ready
}

func (v *Viewport) Camera() Camera {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.camera
}

func (v *Viewport) PanTo(point domain.GeoPoint) error {
	if !point.Valid() {
		return apperrors.ErrInvalidCoordinates
	}
	v.mu.Lock()
	v.camera.Center = point
	ready := v.ready
	v.mu.Unlock()

	if ready {
		v.surface.SetCenter(point)
	}
	return nil
}

func (v *Viewport) SetZoom(zoom float64) {
	v.mu.Lock()
	v.camera.Zoom = zoom
	ready := v.ready
	v.mu.Unlock()

	if ready {
		v.surface.SetZoom(zoom)
	}
}

func (v *Viewport) SetMapType(kind domain.MapType) error {
	if !kind.Valid() {
		return apperrors.ErrInvalidRequest.WithMessage("unknown map type")
	}
	v.mu.Lock()
	v.camera.MapType = kind
	ready := v.ready
	v.mu.Unlock()

	if ready {
		v.surface.SetMapType(kind)
	}
	return nil
}

// OnClick - обработчик клика по пустому месту карты
func (v *Viewport) OnClick(fn func(domain.GeoPoint)) {
	v.mu.Lock()
	v.onClick = fn
	v.mu.Unlock()
}

// OnZoomChanged - обработчик изменения зума со стороны хоста
func (v *Viewport) OnZoomChanged(fn func(float64)) {
	v.mu.Lock()
	v.onZoom = fn
	v.mu.Unlock()
}

// Click вызывается адаптером хоста при клике по самой карте
func (v *Viewport) Click(point domain.GeoPoint) error {
	v.mu.Lock()
	ready, fn := v.ready, v.onClick
	v.mu.Unlock()

	if !ready {
		return apperrors.ErrMapNotReady
	}
	if !point.Valid() {
		return apperrors.ErrInvalidCoordinates
	}
	if fn != nil {
		fn(point)
	}
	return nil
}

// ZoomChanged вызывается адаптером после зума пользователя;
// камера подстраивается без обратной команды карте
func (v *Viewport) ZoomChanged(zoom float64) {
	v.mu.Lock()
	v.camera.Zoom = zoom
	fn := v.onZoom
	v.mu.Unlock()

	if fn != nil {
		fn(zoom)
	}
}
