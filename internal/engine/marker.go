package engine

import (
	"github.com/google/uuid"

	"github.com/tactical-map/internal/domain"
	apperrors "github.com/tactical-map/internal/pkg/errors"
	"github.com/tactical-map/internal/pkg/validator"
)

// Значения формы новой метки по умолчанию
const (
	DefaultMarkerTitle       = "Novo Ponto Tático"
	DefaultMarkerDescription = "Descrição do ponto tático"
)

type MarkerState string

const (
	MarkerIdle                MarkerState = "idle"
	MarkerPlacing             MarkerState = "placing"
	MarkerConfiguringNew      MarkerState = "configuring-new"
	MarkerConfiguringExisting MarkerState = "configuring-existing"
)

// Emitter получает интенты автомата
type Emitter func(domain.Intent)

// IDGenerator выдаёт новый id сущности
type IDGenerator func() string

func newUUID() string {
	return uuid.NewString()
}

// MarkerDraft - редактируемая часть метки
type MarkerDraft struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Icon        domain.MarkerIcon `json:"icon"`
	Color       domain.Color      `json:"color"`
}

// MarkerEditorView - видимое снаружи состояние редактора
type MarkerEditorView struct {
	State         MarkerState          `json:"state"`
	Draft         *domain.CustomMarker `json:"draft,omitempty"`
	PendingDelete string               `json:"pending_delete,omitempty"`
}

// MarkerEditor - автомат создания, правки и удаления меток.
// Не потокобезопасен, доступ сериализует Session
type MarkerEditor struct {
	state         MarkerState
	draft         domain.CustomMarker
	pendingDelete string

	emit  Emitter
	newID IDGenerator
}

func NewMarkerEditor(emit Emitter, newID IDGenerator) *MarkerEditor {
	if newID == nil {
		newID = newUUID
	}
	if emit == nil {
		emit = func(domain.Intent) {}
	}
	return &MarkerEditor{state: MarkerIdle, emit: emit, newID: newID}
}

func (e *MarkerEditor) State() MarkerState {
	return e.state
}

func (e *MarkerEditor) Armed() bool {
	return e.state == MarkerPlacing
}

func (e *MarkerEditor) Configuring() bool {
	return e.state == MarkerConfiguringNew || e.state == MarkerConfiguringExisting
}

// ToggleArm включает или выключает режим установки; открытая форма при этом
// закрывается. Возвращает, включён ли режим
func (e *MarkerEditor) ToggleArm() bool {
	if e.state == MarkerPlacing {
		e.state = MarkerIdle
		return false
	}
	e.reset()
	e.state = MarkerPlacing
	return true
}

// PlaceAt забирает клик по карте и открывает форму с дефолтами
func (e *MarkerEditor) PlaceAt(point domain.GeoPoint) error {
	if e.state != MarkerPlacing {
		return apperrors.ErrModeNotActive.WithMessage("marker placement is not armed")
	}
	if !point.Valid() {
		return apperrors.ErrInvalidCoordinates
	}
	e.draft = domain.CustomMarker{
		Point:       point,
		Title:       DefaultMarkerTitle,
		Description: DefaultMarkerDescription,
		Icon:        domain.MarkerIcons[0],
		Color:       domain.Colors[0],
	}
	e.state = MarkerConfiguringNew
	return nil
}

// Edit загружает существующую метку в форму, минуя установку
func (e *MarkerEditor) Edit(marker domain.CustomMarker) {
	e.pendingDelete = ""
	e.draft = marker
	e.state = MarkerConfiguringExisting
}

func (e *MarkerEditor) UpdateDraft(d MarkerDraft) error {
	if !e.Configuring() {
		return apperrors.ErrModeNotActive.WithMessage("no marker form is open")
	}
	e.draft.Title = d.Title
	e.draft.Description = d.Description
	e.draft.Icon = d.Icon
	e.draft.Color = d.Color
	return nil
}

// Save валидирует форму и отправляет create или update. При ошибке форма остаётся открытой
func (e *MarkerEditor) Save() (domain.CustomMarker, error) {
	if !e.Configuring() {
		return domain.CustomMarker{}, apperrors.ErrModeNotActive.WithMessage("no marker form is open")
	}
	if err := validator.ValidateAs(e.draft, apperrors.ErrInvalidMarker); err != nil {
		return domain.CustomMarker{}, err
	}

	marker := e.draft
	if e.state == MarkerConfiguringNew {
		marker.ID = e.newID()
		e.emit(domain.MarkerCreated(marker))
	} else {
		e.emit(domain.MarkerUpdated(marker))
	}
	e.reset()
	return marker, nil
}

// Cancel отбрасывает черновик или режим установки, ничего не отправляя
func (e *MarkerEditor) Cancel() {
	e.reset()
}

// RequestDelete - шаг подтверждения, интент ещё не уходит
func (e *MarkerEditor) RequestDelete(id string) {
	e.pendingDelete = id
}

func (e *MarkerEditor) CancelDelete() {
	e.pendingDelete = ""
}

// ConfirmDelete отправляет удаление по ожидающему запросу
func (e *MarkerEditor) ConfirmDelete() (string, error) {
	id := e.pendingDelete
	if id == "" {
		return "", apperrors.ErrDeleteNotConfirmed
	}
	e.pendingDelete = ""
	if e.state == MarkerConfiguringExisting && e.draft.ID == id {
		e.reset()
	}
	e.emit(domain.MarkerDeleted(id))
	return id, nil
}

func (e *MarkerEditor) View() MarkerEditorView {
	v := MarkerEditorView{State: e.state, PendingDelete: e.pendingDelete}
	if e.Configuring() {
		d := e.draft
		v.Draft = &d
	}
	return v
}

func (e *MarkerEditor) reset() {
	e.state = MarkerIdle
	e.draft = domain.CustomMarker{}
}
