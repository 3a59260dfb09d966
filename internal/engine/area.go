package engine

import (
	"github.com/tactical-map/internal/domain"
	apperrors "github.com/tactical-map/internal/pkg/errors"
	"github.com/tactical-map/internal/pkg/validator"
)

const DefaultAreaName = "Nova Área Tática"

type AreaState string

const (
	AreaIdle            AreaState = "idle"
	AreaDrawing         AreaState = "drawing"
	AreaEditingMetadata AreaState = "editing-metadata"
)

// AreaMetadata - поля боковой панели зоны
type AreaMetadata struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Color       domain.Color `json:"color"`
}

// AreaDrawerView - черновик, видимый во время рисования или редактирования
type AreaDrawerView struct {
	State         AreaState         `json:"state"`
	Vertices      []domain.GeoPoint `json:"vertices,omitempty"`
	Closed        bool              `json:"closed"`
	Metadata      AreaMetadata      `json:"metadata"`
	EditingID     string            `json:"editing_id,omitempty"`
	PendingDelete string            `json:"pending_delete,omitempty"`
}

// AreaDrawer - конечный автомат рисования полигона.
// Не потокобезопасен, доступ сериализует Session
type AreaDrawer struct {
	state         AreaState
	vertices      []domain.GeoPoint
	meta          AreaMetadata
	editing       domain.TacticalArea
	pendingDelete string

	emit  Emitter
	newID IDGenerator
}

func NewAreaDrawer(emit Emitter, newID IDGenerator) *AreaDrawer {
	if newID == nil {
		newID = newUUID
	}
	if emit == nil {
		emit = func(domain.Intent) {}
	}
	return &AreaDrawer{state: AreaIdle, emit: emit, newID: newID}
}

func (d *AreaDrawer) State() AreaState {
	return d.state
}

// HasDraft - идёт рисование хотя бы с одной вершиной
func (d *AreaDrawer) HasDraft() bool {
	return d.state == AreaDrawing && len(d.vertices) > 0
}

// Start начинает новое рисование, старый черновик или правка сбрасываются
func (d *AreaDrawer) Start() {
	d.reset()
	d.state = AreaDrawing
	d.meta = AreaMetadata{Name: DefaultAreaName, Color: domain.Colors[0]}
}

func (d *AreaDrawer) AddVertex(point domain.GeoPoint) error {
	if d.state != AreaDrawing {
		return apperrors.ErrModeNotActive.WithMessage("area drawing is not active")
	}
	if !point.Valid() {
		return apperrors.ErrInvalidCoordinates
	}
	d.vertices = append(d.vertices, point)
	return nil
}

// Clear очищает вершины, режим рисования остаётся
func (d *AreaDrawer) Clear() error {
	if d.state != AreaDrawing {
		return apperrors.ErrModeNotActive.WithMessage("area drawing is not active")
	}
	d.vertices = nil
	return nil
}

func (d *AreaDrawer) SetMetadata(meta AreaMetadata) error {
	if d.state == AreaIdle {
		return apperrors.ErrModeNotActive.WithMessage("no area is being drawn or edited")
	}
	d.meta = meta
	return nil
}

// Commit превращает черновик в зону. Меньше MinAreaVertices вершин -
// ошибка, интент не уходит, черновик сохраняется
func (d *AreaDrawer) Commit() (domain.TacticalArea, error) {
	if d.state != AreaDrawing {
		return domain.TacticalArea{}, apperrors.ErrModeNotActive.WithMessage("area drawing is not active")
	}
	if len(d.vertices) < domain.MinAreaVertices {
		return domain.TacticalArea{}, apperrors.ErrTooFewVertices.WithDetails(map[string]interface{}{
			"vertices": len(d.vertices),
			"min":      domain.MinAreaVertices,
		})
	}

	area := domain.TacticalArea{
		Ring:        append([]domain.GeoPoint(nil), d.vertices...),
		Name:        d.meta.Name,
		Description: d.meta.Description,
		Color:       d.meta.Color,
	}
	if err := validator.ValidateAs(area, apperrors.ErrInvalidArea); err != nil {
		return domain.TacticalArea{}, err
	}
	area.ID = d.newID()

	d.emit(domain.AreaCreated(area))
	d.reset()
	return area, nil
}

// Cancel отбрасывает черновик или несохранённые правки
func (d *AreaDrawer) Cancel() {
	d.reset()
}

// Edit открывает правку метаданных существующей зоны; геометрия не меняется
func (d *AreaDrawer) Edit(area domain.TacticalArea) {
	d.reset()
	d.state = AreaEditingMetadata
	d.editing = area
	d.editing.Ring = append([]domain.GeoPoint(nil), area.Ring...)
	d.meta = AreaMetadata{Name: area.Name, Description: area.Description, Color: area.Color}
}

// Save отправляет обновление метаданных с исходным контуром
func (d *AreaDrawer) Save() (domain.TacticalArea, error) {
	if d.state != AreaEditingMetadata {
		return domain.TacticalArea{}, apperrors.ErrModeNotActive.WithMessage("no area is being edited")
	}
	area := d.editing
	area.Name = d.meta.Name
	area.Description = d.meta.Description
	area.Color = d.meta.Color
	if err := validator.ValidateAs(area, apperrors.ErrInvalidArea); err != nil {
		return domain.TacticalArea{}, err
	}

	d.emit(domain.AreaMetadataUpdated(area))
	d.reset()
	return area, nil
}

func (d *AreaDrawer) RequestDelete(id string) {
	d.pendingDelete = id
}

func (d *AreaDrawer) CancelDelete() {
	d.pendingDelete = ""
}

func (d *AreaDrawer) ConfirmDelete() (string, error) {
	id := d.pendingDelete
	if id == "" {
		return "", apperrors.ErrDeleteNotConfirmed
	}
	d.pendingDelete = ""
	if d.state == AreaEditingMetadata && d.editing.ID == id {
		d.reset()
	}
	d.emit(domain.AreaDeleted(id))
	return id, nil
}

func (d *AreaDrawer) View() AreaDrawerView {
	v := AreaDrawerView{
		State:         d.state,
		Metadata:      d.meta,
		PendingDelete: d.pendingDelete,
	}
	switch d.state {
	case AreaDrawing:
		v.Vertices = append([]domain.GeoPoint(nil), d.vertices...)
		v.Closed = len(d.vertices) >= domain.MinAreaVertices
	case AreaEditingMetadata:
		v.Vertices = append([]domain.GeoPoint(nil), d.editing.Ring...)
		v.Closed = true
		v.EditingID = d.editing.ID
	}
	return v
}

func (d *AreaDrawer) reset() {
	d.state = AreaIdle
	d.vertices = nil
	d.meta = AreaMetadata{}
	d.editing = domain.TacticalArea{}
}
