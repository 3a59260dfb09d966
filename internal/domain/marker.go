package domain

// MarkerIcon - закрытый набор иконок меток
type MarkerIcon string

const (
	IconTarget  MarkerIcon = "target"
	IconShield  MarkerIcon = "shield"
	IconAlert   MarkerIcon = "alert"
	IconFlag    MarkerIcon = "flag"
	IconEye     MarkerIcon = "eye"
	IconVehicle MarkerIcon = "vehicle"
)

// MarkerIcons упорядочен; первая иконка - дефолт для новых меток
var MarkerIcons = []MarkerIcon{IconTarget, IconShield, IconAlert, IconFlag, IconEye, IconVehicle}

func (i MarkerIcon) Valid() bool {
	for _, v := range MarkerIcons {
		if v == i {
			return true
		}
	}
	return false
}

// Color - общая закрытая палитра меток и зон
type Color string

const (
	ColorRed    Color = "red"
	ColorBlue   Color = "blue"
	ColorYellow Color = "yellow"
	ColorGreen  Color = "green"
	ColorPurple Color = "purple"
)

// Colors упорядочен; первый цвет - дефолт
var Colors = []Color{ColorRed, ColorBlue, ColorYellow, ColorGreen, ColorPurple}

func (c Color) Valid() bool {
	for _, v := range Colors {
		if v == c {
			return true
		}
	}
	return false
}

// Hex - цвет обводки
func (c Color) Hex() string {
	switch c {
	case ColorRed:
		return "#dc2626"
	case ColorBlue:
		return "#2563eb"
	case ColorYellow:
		return "#ca8a04"
	case ColorGreen:
		return "#16a34a"
	case ColorPurple:
		return "#9333ea"
	default:
		return "#6b7280"
	}
}

// CustomMarker - точка интереса, созданная пользователем
type CustomMarker struct {
	ID          string     `json:"id"`
	Point       GeoPoint   `json:"point"`
	Title       string     `json:"title" validate:"required,max=120"`
	Description string     `json:"description" validate:"max=1000"`
	Icon        MarkerIcon `json:"icon" validate:"required,oneof=target shield alert flag eye vehicle"`
	Color       Color      `json:"color" validate:"required,oneof=red blue yellow green purple"`
}
