// Package docs Tactical Map API.
//
// Сервис тактической карты. Держит сессии карты на сервере и отдаёт
// клиенту готовую сцену: слои подозреваемых, пользовательские метки,
// тактические зоны, панель информации и состояние редакторов.
//
// Основные возможности:
// - Фильтрация подозреваемых по статусу и роли адреса
// - Переключение детализации маркеров по порогу зума
// - Размещение меток и рисование зон с подтверждением удаления
// - Прямое и обратное геокодирование (Nominatim или Google Maps)
// - Экспорт видимых слоёв в GeoJSON
//
//	Schemes: http, https
//	BasePath: /
//	Version: 1.0.0
//
//	Consumes:
//	- application/json
//
//	Produces:
//	- application/json
//	- application/geo+json
//
// swagger:meta
package docs
