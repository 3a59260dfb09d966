package dto

import "github.com/tactical-map/internal/domain"

// GeocodeSearchRequest - запрос на прямое геокодирование
type GeocodeSearchRequest struct {
	Query  string `query:"q" json:"q" validate:"required,max=200"`
	Region string `query:"region" json:"region" validate:"omitempty,len=2,alpha"`
}

// GeocodeSearchResponse - подсказки; пустой список - не ошибка
type GeocodeSearchResponse struct {
	Results []domain.GeocodedLocation `json:"results"`
	Total   int                       `json:"total"`
}

// ReverseGeocodeRequest - запрос на обратное геокодирование
type ReverseGeocodeRequest struct {
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
	Lng float64 `json:"lng" validate:"min=-180,max=180"`
}

func (r ReverseGeocodeRequest) Point() domain.GeoPoint {
	return domain.GeoPoint{Lat: r.Lat, Lng: r.Lng}
}

// ReverseGeocodeResponse - Resolved=false означает, что имя - это сами координаты
type ReverseGeocodeResponse struct {
	Location domain.GeocodedLocation `json:"location"`
	Resolved bool                    `json:"resolved"`
}
