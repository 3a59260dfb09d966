package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/tactical-map/internal/pkg/errors"
	"github.com/tactical-map/internal/pkg/utils"
	"github.com/tactical-map/internal/pkg/validator"
	"github.com/tactical-map/internal/usecase"
	"github.com/tactical-map/internal/usecase/dto"
)

// GeocodingHandler - обработчик запросов геокодирования
type GeocodingHandler struct {
	geocodingUC *usecase.GeocodingUseCase
	logger      *zap.Logger
}

// NewGeocodingHandler - создание нового GeocodingHandler
func NewGeocodingHandler(geocodingUC *usecase.GeocodingUseCase, logger *zap.Logger) *GeocodingHandler {
	return &GeocodingHandler{
		geocodingUC: geocodingUC,
		logger:      logger,
	}
}

// Search godoc
// @Summary Прямое геокодирование
// @Description Ищет адрес по тексту и возвращает подсказки. Пустой список - нормальный ответ, не 404.
// @Tags Geocoding
// @Produce json
// @Param q query string true "Адрес"
// @Param region query string false "Код страны (ISO 3166-1 alpha-2)" default(br)
// @Success 200 {object} utils.SuccessResponse{data=dto.GeocodeSearchResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/geocode/search [get]
func (h *GeocodingHandler) Search(c *fiber.Ctx) error {
	req := dto.GeocodeSearchRequest{
		Query:  c.Query("q"),
		Region: c.Query("region"),
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.geocodingUC.Search(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total: result.Total,
	})
}

// Reverse godoc
// @Summary Обратное геокодирование
// @Description Возвращает короткое имя места. Если адрес не найден, имя - это сами координаты "lat, lng" и resolved=false.
// @Tags Geocoding
// @Accept json
// @Produce json
// @Param request body dto.ReverseGeocodeRequest true "Координаты точки"
// @Success 200 {object} utils.SuccessResponse{data=dto.ReverseGeocodeResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/geocode/reverse [post]
func (h *GeocodingHandler) Reverse(c *fiber.Ctx) error {
	var req dto.ReverseGeocodeRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage("Invalid request body"))
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.geocodingUC.Reverse(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, nil)
}
