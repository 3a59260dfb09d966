package domain

// InteractionMode - единственный активный режим взаимодействия с картой
type InteractionMode string

const (
	ModeViewing       InteractionMode = "viewing"
	ModePlacingMarker InteractionMode = "placing-marker"
	ModeDrawingArea   InteractionMode = "drawing-area"
	ModeEditingMarker InteractionMode = "editing-marker"
	ModeEditingArea   InteractionMode = "editing-area"
)
