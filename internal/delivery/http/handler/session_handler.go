package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/tactical-map/internal/engine"
	"github.com/tactical-map/internal/pkg/errors"
	"github.com/tactical-map/internal/pkg/utils"
	"github.com/tactical-map/internal/pkg/validator"
	"github.com/tactical-map/internal/usecase"
	"github.com/tactical-map/internal/usecase/dto"
)

// SessionHandler - обработчик сессий карты. Почти каждое действие
// возвращает свежую сцену, чтобы клиенту не нужен был второй запрос.
type SessionHandler struct {
	sessionUC *usecase.SessionUseCase
	logger    *zap.Logger
}

// NewSessionHandler - создание нового SessionHandler
func NewSessionHandler(sessionUC *usecase.SessionUseCase, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		sessionUC: sessionUC,
		logger:    logger,
	}
}

// Create godoc
// @Summary Открыть сессию карты
// @Tags Sessions
// @Accept json
// @Produce json
// @Param request body dto.CreateSessionRequest false "Начальная камера"
// @Success 201 {object} utils.SuccessResponse{data=dto.SessionResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/sessions [post]
func (h *SessionHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateSessionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return utils.SendError(c, errors.ErrInvalidRequest.WithMessage("Invalid request body"))
		}
	}

	result, err := h.sessionUC.Create(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	c.Status(fiber.StatusCreated)
	return utils.SendSuccess(c, result, nil)
}

// Delete godoc
// @Summary Закрыть сессию карты
// @Tags Sessions
// @Param id path string true "ID сессии"
// @Success 204
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id} [delete]
func (h *SessionHandler) Delete(c *fiber.Ctx) error {
	if err := h.sessionUC.Delete(c.Params("id")); err != nil {
		return utils.SendError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Scene godoc
// @Summary Текущая сцена
// @Tags Sessions
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} utils.SuccessResponse{data=engine.Scene}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/scene [get]
func (h *SessionHandler) Scene(c *fiber.Ctx) error {
	scene, err := h.sessionUC.Scene(c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, scene, nil)
}

// SceneGeoJSON godoc
// @Summary Видимые слои в формате GeoJSON
// @Tags Sessions
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} object "FeatureCollection"
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/scene.geojson [get]
func (h *SessionHandler) SceneGeoJSON(c *fiber.Ctx) error {
	scene, err := h.sessionUC.Scene(c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}

	body, err := scene.FeatureCollection().MarshalJSON()
	if err != nil {
		h.logger.Error("Failed to encode scene", zap.Error(err))
		return utils.SendError(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/geo+json")
	return c.Send(body)
}

// ReplaceCollections godoc
// @Summary Заменить коллекции подозреваемых, меток и зон
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param request body dto.CollectionsRequest true "Коллекции"
// @Success 200 {object} utils.SuccessResponse{data=engine.Scene}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/collections [put]
func (h *SessionHandler) ReplaceCollections(c *fiber.Ctx) error {
	var req dto.CollectionsRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage("Invalid request body"))
	}

	scene, err := h.sessionUC.ReplaceCollections(c.Params("id"), req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, scene, nil)
}

// SetFilters godoc
// @Summary Изменить фильтры (статус, роль, тип карты)
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param request body dto.FiltersRequest true "Пустые поля не меняются"
// @Success 200 {object} utils.SuccessResponse{data=engine.Scene}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/filters [put]
func (h *SessionHandler) SetFilters(c *fiber.Ctx) error {
	var req dto.FiltersRequest
	if !h.parse(c, &req) {
		return nil
	}
	return h.act(c, func(s *engine.Session) error {
		return s.SetFilters(req.Update())
	})
}

// MapReady godoc
// @Summary Карта клиента загружена
// @Tags Map
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} utils.SuccessResponse{data=engine.Scene}
// @Router /api/v1/sessions/{id}/map/ready [post]
func (h *SessionHandler) MapReady(c *fiber.Ctx) error {
	return h.act(c, func(s *engine.Session) error {
		s.MapReady()
		return nil
	})
}

// MapClick godoc
// @Summary Клик по карте
// @Description Ставит метку в режиме размещения или добавляет вершину в режиме рисования; иначе закрывает панель.
// @Tags Map
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param request body dto.PointRequest true "Точка клика"
// @Success 200 {object} utils.SuccessResponse{data=engine.Scene}
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/map/click [post]
func (h *SessionHandler) MapClick(c *fiber.Ctx) error {
	var req dto.PointRequest
	if !h.parse(c, &req) {
		return nil
	}
	return h.act(c, func(s *engine.Session) error {
		return s.Click(req.Point())
	})
}

// MapZoom godoc
// @Summary Изменение зума
// @Tags Map
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param request body dto.ZoomRequest true "Новый зум"
// @Success 200 {object} utils.SuccessResponse{data=engine.Scene}
// @Router /api/v1/sessions/{id}/map/zoom [post]
func (h *SessionHandler) MapZoom(c *fiber.Ctx) error {
	var req dto.ZoomRequest
	if !h.parse(c, &req) {
		return nil
	}
	return h.act(c, func(s *engine.Session) error {
		s.ZoomChanged(req.Zoom)
		return nil
	})
}

// Select godoc
// @Summary Выбрать маркер; пустой kind закрывает панель
// @Tags Map
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param request body dto.SelectRequest true "Маркер"
// @Success 200 {object} utils.SuccessResponse{data=engine.Scene}
// @Router /api/v1/sessions/{id}/select [post]
func (h *SessionHandler) Select(c *fiber.Ctx) error {
	var req dto.SelectRequest
	if !h.parse(c, &req) {
		return nil
	}
	return h.act(c, func(s *engine.Session) error {
		if req.Kind == "" {
			s.ClearSelection()
			return nil
		}
		return s.Select(engine.MarkerKind(req.Kind), req.ID)
	})
}

// OpenSuspect godoc
// @Summary Открыть профиль подозреваемого
// @Tags Map
// @Produce json
// @Param id path string true "ID сессии"
// @Param suspectId path string true "ID подозреваемого"
// @Success 200 {object} utils.SuccessResponse{data=engine.Scene}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/suspects/{suspectId}/open [post]
func (h *SessionHandler) OpenSuspect(c *fiber.Ctx) error {
	suspectID := c.Params("suspectId")
	return h.act(c, func(s *engine.Session) error {
		return s.OpenSuspectProfile(c.Context(), suspectID)
	})
}

// Locate godoc
// @Summary "Моё местоположение"
// @Description Кладёт fix устройства (если передан), определяет позицию и подписывает её адресом.
// @Tags Location
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param request body dto.LocateRequest false "Fix устройства"
// @Success 200 {object} utils.SuccessResponse{data=dto.LocateResponse}
// @Failure 409 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/locate [post]
func (h *SessionHandler) Locate(c *fiber.Ctx) error {
	var req dto.LocateRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return utils.SendError(c, errors.ErrInvalidRequest.WithMessage("Invalid request body"))
		}
	}

	result, err := h.sessionUC.Locate(c.Context(), c.Params("id"), req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result, nil)
}

// Recenter godoc
// @Summary Центрировать карту на устройстве
// @Tags Location
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param request body dto.LocateRequest false "Fix устройства"
// @Success 200 {object} utils.SuccessResponse{data=engine.Scene}
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/recenter [post]
func (h *SessionHandler) Recenter(c *fiber.Ctx) error {
	var req dto.LocateRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return utils.SendError(c, errors.ErrInvalidRequest.WithMessage("Invalid request body"))
		}
	}

	scene, err := h.sessionUC.Recenter(c.Context(), c.Params("id"), req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, scene, nil)
}

// Resolve godoc
// @Summary Подписать брошенный или перетащенный пин
// @Tags Location
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param request body dto.PointRequest true "Точка пина"
// @Success 200 {object} utils.SuccessResponse{data=engine.Scene}
// @Router /api/v1/sessions/{id}/resolve [post]
func (h *SessionHandler) Resolve(c *fiber.Ctx) error {
	var req dto.PointRequest
	if !h.parse(c, &req) {
		return nil
	}
	return h.act(c, func(s *engine.Session) error {
		_, err := s.ResolvePoint(c.Context(), req.Point())
		return err
	})
}

// SearchInput godoc
// @Summary Ввод в поле адреса
// @Description Поиск запускается с задержкой; подсказки приходят в следующих сценах.
// @Tags Search
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param request body dto.SearchInputRequest true "Текст"
// @Success 200 {object} utils.SuccessResponse{data=engine.Scene}
// @Router /api/v1/sessions/{id}/search/input [post]
func (h *SessionHandler) SearchInput(c *fiber.Ctx) error {
	var req dto.SearchInputRequest
	if !h.parse(c, &req) {
		return nil
	}
	return h.act(c, func(s *engine.Session) error {
		s.SearchInput(req.Text)
		return nil
	})
}

// SelectSuggestion godoc
// @Summary Выбрать подсказку
// @Tags Search
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param request body dto.SelectSuggestionRequest true "Индекс подсказки"
// @Success 200 {object} utils.SuccessResponse{data=engine.Scene}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/search/select [post]
func (h *SessionHandler) SelectSuggestion(c *fiber.Ctx) error {
	var req dto.SelectSuggestionRequest
	if !h.parse(c, &req) {
		return nil
	}
	return h.act(c, func(s *engine.Session) error {
		_, err := s.SelectSuggestion(req.Index)
		return err
	})
}

// CloseSuggestions godoc
// @Summary Закрыть список подсказок
// @Tags Search
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} utils.SuccessResponse{data=engine.Scene}
// @Router /api/v1/sessions/{id}/search/close [post]
func (h *SessionHandler) CloseSuggestions(c *fiber.Ctx) error {
	return h.act(c, func(s *engine.Session) error {
		s.CloseSuggestions()
		return nil
	})
}

// parse разбирает и валидирует тело; при ошибке ответ уже отправлен
func (h *SessionHandler) parse(c *fiber.Ctx, req interface{}) bool {
	if err := c.BodyParser(req); err != nil {
		_ = utils.SendError(c, errors.ErrInvalidRequest.WithMessage("Invalid request body"))
		return false
	}
	if err := validator.Validate(req); err != nil {
		_ = utils.SendError(c, err)
		return false
	}
	return true
}

// act выполняет действие над сессией и отвечает сценой
func (h *SessionHandler) act(c *fiber.Ctx, fn func(s *engine.Session) error) error {
	s, err := h.sessionUC.Session(c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}
	if err := fn(s); err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, s.Render(), nil)
}
