package domain

// StatusFilter - StatusFilterAll или одно значение SuspectStatus
type StatusFilter string

const StatusFilterAll StatusFilter = "all"

func (f StatusFilter) Valid() bool {
	return f == StatusFilterAll || SuspectStatus(f).Valid()
}

// Matches - проходит ли статус s фильтр
func (f StatusFilter) Matches(s SuspectStatus) bool {
	return f == StatusFilterAll || SuspectStatus(f) == s
}

type MapType string

const (
	MapTypeRoad      MapType = "road"
	MapTypeSatellite MapType = "satellite"
	MapTypeHybrid    MapType = "hybrid"
)

func (t MapType) Valid() bool {
	switch t {
	case MapTypeRoad, MapTypeSatellite, MapTypeHybrid:
		return true
	}
	return false
}

// FilterState - фильтр отображения сессии; сущности он не меняет
type FilterState struct {
	Status  StatusFilter `json:"status"`
	Role    LocationRole `json:"role"`
	MapType MapType      `json:"map_type"`
	Zoom    float64      `json:"zoom"`
}

func DefaultFilterState(zoom float64) FilterState {
	return FilterState{
		Status:  StatusFilterAll,
		Role:    RoleResidence,
		MapType: MapTypeRoad,
		Zoom:    zoom,
	}
}
