package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tactical-map/internal/engine"
	"github.com/tactical-map/internal/usecase/dto"
)

// ArmMarker godoc
// @Summary Включить или выключить размещение метки
// @Description Включение отменяет черновик зоны. Следующий клик по карте ставит метку.
// @Tags Markers
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} utils.SuccessResponse{data=engine.Scene}
// @Router /api/v1/sessions/{id}/markers/arm [post]
func (h *SessionHandler) ArmMarker(c *fiber.Ctx) error {
	return h.act(c, func(s *engine.Session) error {
		s.ToggleMarkerPlacement()
		return nil
	})
}

// UpdateMarkerDraft godoc
// @Summary Изменить поля открытой формы метки
// @Tags Markers
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param request body dto.MarkerDraftRequest true "Поля метки"
// @Success 200 {object} utils.SuccessResponse{data=engine.Scene}
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/markers/draft [put]
func (h *SessionHandler) UpdateMarkerDraft(c *fiber.Ctx) error {
	var req dto.MarkerDraftRequest
	if !h.parse(c, &req) {
		return nil
	}
	return h.act(c, func(s *engine.Session) error {
		return s.UpdateMarkerDraft(req.Draft())
	})
}

// SaveMarker godoc
// @Summary Сохранить метку
// @Tags Markers
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} utils.SuccessResponse{data=engine.Scene}
// @Failure 409 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/markers/save [post]
func (h *SessionHandler) SaveMarker(c *fiber.Ctx) error {
	return h.act(c, func(s *engine.Session) error {
		_, err := s.SaveMarker(c.Context())
		return err
	})
}

// CancelMarker godoc
// @Summary Закрыть форму метки без сохранения
// @Tags Markers
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} utils.SuccessResponse{data=engine.Scene}
// @Router /api/v1/sessions/{id}/markers/cancel [post]
func (h *SessionHandler) CancelMarker(c *fiber.Ctx) error {
	return h.act(c, func(s *engine.Session) error {
		s.CancelMarker()
		return nil
	})
}

// EditMarker godoc
// @Summary Открыть существующую метку на редактирование
// @Tags Markers
// @Produce json
// @Param id path string true "ID сессии"
// @Param markerId path string true "ID метки"
// @Success 200 {object} utils.SuccessResponse{data=engine.Scene}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/markers/{markerId}/edit [post]
func (h *SessionHandler) EditMarker(c *fiber.Ctx) error {
	markerID := c.Params("markerId")
	return h.act(c, func(s *engine.Session) error {
		return s.EditMarker(markerID)
	})
}

// RequestDeleteMarker godoc
// @Summary Запросить удаление метки (требует подтверждения)
// @Tags Markers
// @Produce json
// @Param id path string true "ID сессии"
// @Param markerId path string true "ID метки"
// @Success 200 {object} utils.SuccessResponse{data=engine.Scene}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/markers/{markerId}/delete [post]
func (h *SessionHandler) RequestDeleteMarker(c *fiber.Ctx) error {
	markerID := c.Params("markerId")
	return h.act(c, func(s *engine.Session) error {
		return s.RequestDeleteMarker(markerID)
	})
}

// ConfirmDeleteMarker godoc
// @Summary Подтвердить удаление метки
// @Tags Markers
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} utils.SuccessResponse{data=engine.Scene}
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/markers/delete/confirm [post]
func (h *SessionHandler) ConfirmDeleteMarker(c *fiber.Ctx) error {
	return h.act(c, func(s *engine.Session) error {
		_, err := s.ConfirmDeleteMarker(c.Context())
		return err
	})
}

// CancelDeleteMarker godoc
// @Summary Отменить удаление метки
// @Tags Markers
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} utils.SuccessResponse{data=engine.Scene}
// @Router /api/v1/sessions/{id}/markers/delete/cancel [post]
func (h *SessionHandler) CancelDeleteMarker(c *fiber.Ctx) error {
	return h.act(c, func(s *engine.Session) error {
		s.CancelDeleteMarker()
		return nil
	})
}

// StartDrawing godoc
// @Summary Начать рисование зоны
// @Description Отменяет размещение метки и открытую форму метки.
// @Tags Areas
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} utils.SuccessResponse{data=engine.Scene}
// @Router /api/v1/sessions/{id}/areas/draw [post]
func (h *SessionHandler) StartDrawing(c *fiber.Ctx) error {
	return h.act(c, func(s *engine.Session) error {
		s.StartDrawing()
		return nil
	})
}

// ClearDraft godoc
// @Summary Убрать все вершины черновика
// @Tags Areas
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} utils.SuccessResponse{data=engine.Scene}
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/areas/clear [post]
func (h *SessionHandler) ClearDraft(c *fiber.Ctx) error {
	return h.act(c, func(s *engine.Session) error {
		return s.ClearDraft()
	})
}

// UpdateAreaDraft godoc
// @Summary Изменить название, описание и цвет зоны
// @Tags Areas
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param request body dto.AreaMetadataRequest true "Поля зоны"
// @Success 200 {object} utils.SuccessResponse{data=engine.Scene}
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/areas/draft [put]
func (h *SessionHandler) UpdateAreaDraft(c *fiber.Ctx) error {
	var req dto.AreaMetadataRequest
	if !h.parse(c, &req) {
		return nil
	}
	return h.act(c, func(s *engine.Session) error {
		return s.SetAreaMetadata(req.Metadata())
	})
}

// CommitArea godoc
// @Summary Замкнуть и сохранить новую зону
// @Tags Areas
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} utils.SuccessResponse{data=engine.Scene}
// @Failure 422 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/areas/commit [post]
func (h *SessionHandler) CommitArea(c *fiber.Ctx) error {
	return h.act(c, func(s *engine.Session) error {
		_, err := s.CommitArea(c.Context())
		return err
	})
}

// CancelArea godoc
// @Summary Отменить рисование или редактирование зоны
// @Tags Areas
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} utils.SuccessResponse{data=engine.Scene}
// @Router /api/v1/sessions/{id}/areas/cancel [post]
func (h *SessionHandler) CancelArea(c *fiber.Ctx) error {
	return h.act(c, func(s *engine.Session) error {
		s.CancelArea()
		return nil
	})
}

// EditArea godoc
// @Summary Открыть существующую зону на редактирование полей
// @Tags Areas
// @Produce json
// @Param id path string true "ID сессии"
// @Param areaId path string true "ID зоны"
// @Success 200 {object} utils.SuccessResponse{data=engine.Scene}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/areas/{areaId}/edit [post]
func (h *SessionHandler) EditArea(c *fiber.Ctx) error {
	areaID := c.Params("areaId")
	return h.act(c, func(s *engine.Session) error {
		return s.EditArea(areaID)
	})
}

// SaveArea godoc
// @Summary Сохранить поля редактируемой зоны
// @Tags Areas
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} utils.SuccessResponse{data=engine.Scene}
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/areas/save [post]
func (h *SessionHandler) SaveArea(c *fiber.Ctx) error {
	return h.act(c, func(s *engine.Session) error {
		_, err := s.SaveArea(c.Context())
		return err
	})
}

// RequestDeleteArea godoc
// @Summary Запросить удаление зоны (требует подтверждения)
// @Tags Areas
// @Produce json
// @Param id path string true "ID сессии"
// @Param areaId path string true "ID зоны"
// @Success 200 {object} utils.SuccessResponse{data=engine.Scene}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/areas/{areaId}/delete [post]
func (h *SessionHandler) RequestDeleteArea(c *fiber.Ctx) error {
	areaID := c.Params("areaId")
	return h.act(c, func(s *engine.Session) error {
		return s.RequestDeleteArea(areaID)
	})
}

// ConfirmDeleteArea godoc
// @Summary Подтвердить удаление зоны
// @Tags Areas
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} utils.SuccessResponse{data=engine.Scene}
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/areas/delete/confirm [post]
func (h *SessionHandler) ConfirmDeleteArea(c *fiber.Ctx) error {
	return h.act(c, func(s *engine.Session) error {
		_, err := s.ConfirmDeleteArea(c.Context())
		return err
	})
}

// CancelDeleteArea godoc
// @Summary Отменить удаление зоны
// @Tags Areas
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} utils.SuccessResponse{data=engine.Scene}
// @Router /api/v1/sessions/{id}/areas/delete/cancel [post]
func (h *SessionHandler) CancelDeleteArea(c *fiber.Ctx) error {
	return h.act(c, func(s *engine.Session) error {
		s.CancelDeleteArea()
		return nil
	})
}
