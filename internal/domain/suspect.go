package domain

// SuspectStatus - статус подозреваемого в реестре
type SuspectStatus string

const (
	StatusWanted        SuspectStatus = "wanted"
	StatusInvestigating SuspectStatus = "investigating"
	StatusArrested      SuspectStatus = "arrested"
	StatusReleased      SuspectStatus = "released"
)

// SuspectStatuses - закрытый набор в порядке отображения
var SuspectStatuses = []SuspectStatus{StatusWanted, StatusInvestigating, StatusArrested, StatusReleased}

func (s SuspectStatus) Valid() bool {
	switch s {
	case StatusWanted, StatusInvestigating, StatusArrested, StatusReleased:
		return true
	}
	return false
}

// Severity определяет цвет рамки и точки маркера
type Severity string

const (
	SeverityDanger  Severity = "danger"
	SeverityWarning Severity = "warning"
	SeverityNeutral Severity = "neutral"
)

func (s SuspectStatus) Severity() Severity {
	switch s {
	case StatusWanted:
		return SeverityDanger
	case StatusInvestigating:
		return SeverityWarning
	case StatusArrested, StatusReleased:
		return SeverityNeutral
	default:
		return SeverityNeutral
	}
}

// LocationRole - какой из двух адресов подозреваемого представляет координата
type LocationRole string

const (
	RoleResidence LocationRole = "residence"
	RoleApproach  LocationRole = "approach"
)

func (r LocationRole) Valid() bool {
	return r == RoleResidence || r == RoleApproach
}

// SuspectLocation - один адрес; Point nil, если неизвестен
type SuspectLocation struct {
	Point *GeoPoint `json:"point,omitempty"`
	Label string    `json:"label,omitempty"`
}

type Suspect struct {
	ID        string          `json:"id" validate:"required"`
	Name      string          `json:"name" validate:"required"`
	Nickname  string          `json:"nickname,omitempty"`
	PhotoURL  string          `json:"photo_url,omitempty"`
	Status    SuspectStatus   `json:"status" validate:"required,oneof=wanted investigating arrested released"`
	ShowOnMap bool            `json:"show_on_map"`
	Residence SuspectLocation `json:"residence"`
	Approach  SuspectLocation `json:"approach"`
}

// Location - адрес для роли и есть ли у него точка
func (s Suspect) Location(role LocationRole) (SuspectLocation, bool) {
	var loc SuspectLocation
	switch role {
	case RoleResidence:
		loc = s.Residence
	case RoleApproach:
		loc = s.Approach
	default:
		return SuspectLocation{}, false
	}
	return loc, loc.Point != nil
}
