package engine

import "github.com/tactical-map/internal/domain"

// Размеры квадратных оверлеев в пикселях
const (
	SizeStatusDot   = 24
	SizeMarkerBadge = 32
	SizePhotoCard   = 40
)

type Size struct {
	W int `json:"w"`
	H int `json:"h"`
}

func Square(px int) Size {
	return Size{W: px, H: px}
}

// Offset - сдвиг левого верхнего угла оверлея в пикселях
type Offset struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// CenterOffset ставит центр прямоугольника ровно на точку
func CenterOffset(size Size) Offset {
	return Offset{X: -float64(size.W) / 2, Y: -float64(size.H) / 2}
}

type ContentKind string

const (
	ContentPhoto ContentKind = "photo"
	ContentIcon  ContentKind = "icon"
	ContentDot   ContentKind = "dot"
)

// Content - визуальное наполнение оверлея. Набор закрыт:
// PhotoContent, IconContent, DotContent
type Content interface {
	Kind() ContentKind
	sealed()
}

// PhotoContent - миниатюра с рамкой цвета серьёзности
type PhotoContent struct {
	URL    string          `json:"url"`
	Border domain.Severity `json:"border"`
}

// IconContent - иконка на цветном бейдже
type IconContent struct {
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// DotContent - точка статуса со значком
type DotContent struct {
	Severity domain.Severity `json:"severity"`
	Icon     string          `json:"icon"`
}

func (PhotoContent) Kind() ContentKind { return ContentPhoto }
func (IconContent) Kind() ContentKind  { return ContentIcon }
func (DotContent) Kind() ContentKind   { return ContentDot }

func (PhotoContent) sealed() {}
func (IconContent) sealed()  {}
func (DotContent) sealed()   {}

// Overlay - отрисованный маркер, привязанный к географической точке
type Overlay struct {
	Point   domain.GeoPoint `json:"point"`
	Size    Size            `json:"size"`
	Offset  Offset          `json:"offset"`
	Kind    ContentKind     `json:"kind"`
	Content Content         `json:"content"`
	// StopPropagation - клик по оверлею не доходит до обработчика карты
	StopPropagation bool `json:"stop_propagation"`
}

// OverlayRenderer - примитив рендера, на котором строятся все слои
type OverlayRenderer struct{}

func (OverlayRenderer) Render(point domain.GeoPoint, size Size, content Content) Overlay {
	o := Overlay{
		Point:           point,
		Size:            size,
		Offset:          CenterOffset(size),
		Content:         content,
		StopPropagation: true,
	}
	if content != nil {
		o.Kind = content.Kind()
	}
	return o
}
