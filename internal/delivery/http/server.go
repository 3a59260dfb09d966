package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"

	"github.com/tactical-map/internal/config"
	"github.com/tactical-map/internal/delivery/http/handler"
	"github.com/tactical-map/internal/delivery/http/middleware"
	"github.com/tactical-map/internal/pkg/metrics"
)

// Server - HTTP сервер на основе Fiber
type Server struct {
	app     *fiber.App
	config  *config.Config
	logger  *zap.Logger
	metrics *metrics.Metrics

	// Handlers
	geocodingHandler *handler.GeocodingHandler
	sessionHandler   *handler.SessionHandler

	healthChecks map[string]HealthCheck
}

// HealthCheck - проверка внешней зависимости для /health
type HealthCheck func(ctx context.Context) error

// NewServer - создание нового HTTP сервера
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	m *metrics.Metrics,
	geocodingHandler *handler.GeocodingHandler,
	sessionHandler *handler.SessionHandler,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Tactical Map",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:              app,
		config:           cfg,
		logger:           logger,
		metrics:          m,
		geocodingHandler: geocodingHandler,
		sessionHandler:   sessionHandler,
		healthChecks:     make(map[string]HealthCheck),
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// App - доступ к fiber.App (для тестов)
func (s *Server) App() *fiber.App {
	return s.app
}

// AddHealthCheck - регистрирует проверку; вызывать до Start
func (s *Server) AddHealthCheck(name string, check HealthCheck) {
	s.healthChecks[name] = check
}

// setupMiddlewares - настройка middleware
func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery(s.logger))
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS(s.config.Server.CORSOrigins))
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

// setupRoutes - настройка маршрутов
func (s *Server) setupRoutes() {
	// Swagger documentation route
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	// Prometheus
	s.app.Get("/metrics", adaptor.HTTPHandler(s.metrics.Handler()))

	api := s.app.Group("/api/v1")

	// Health check
	api.Get("/health", s.health)

	// Geocoding routes
	api.Get("/geocode/search", s.geocodingHandler.Search)
	api.Post("/geocode/reverse", s.geocodingHandler.Reverse)

	// Session routes
	api.Post("/sessions", s.sessionHandler.Create)
	sessions := api.Group("/sessions/:id")
	sessions.Delete("", s.sessionHandler.Delete)
	sessions.Get("/scene", s.sessionHandler.Scene)
	sessions.Get("/scene.geojson", s.sessionHandler.SceneGeoJSON)
	sessions.Put("/collections", s.sessionHandler.ReplaceCollections)
	sessions.Put("/filters", s.sessionHandler.SetFilters)

	// Map events
	sessions.Post("/map/ready", s.sessionHandler.MapReady)
	sessions.Post("/map/click", s.sessionHandler.MapClick)
	sessions.Post("/map/zoom", s.sessionHandler.MapZoom)
	sessions.Post("/select", s.sessionHandler.Select)
	sessions.Post("/suspects/:suspectId/open", s.sessionHandler.OpenSuspect)

	// Location & address picker
	sessions.Post("/locate", s.sessionHandler.Locate)
	sessions.Post("/recenter", s.sessionHandler.Recenter)
	sessions.Post("/resolve", s.sessionHandler.Resolve)
	sessions.Post("/search/input", s.sessionHandler.SearchInput)
	sessions.Post("/search/select", s.sessionHandler.SelectSuggestion)
	sessions.Post("/search/close", s.sessionHandler.CloseSuggestions)

	// Custom markers
	markers := sessions.Group("/markers")
	markers.Post("/arm", s.sessionHandler.ArmMarker)
	markers.Put("/draft", s.sessionHandler.UpdateMarkerDraft)
	markers.Post("/save", s.sessionHandler.SaveMarker)
	markers.Post("/cancel", s.sessionHandler.CancelMarker)
	markers.Post("/delete/confirm", s.sessionHandler.ConfirmDeleteMarker)
	markers.Post("/delete/cancel", s.sessionHandler.CancelDeleteMarker)
	markers.Post("/:markerId/edit", s.sessionHandler.EditMarker)
	markers.Post("/:markerId/delete", s.sessionHandler.RequestDeleteMarker)

	// Tactical areas
	areas := sessions.Group("/areas")
	areas.Post("/draw", s.sessionHandler.StartDrawing)
	areas.Post("/clear", s.sessionHandler.ClearDraft)
	areas.Put("/draft", s.sessionHandler.UpdateAreaDraft)
	areas.Post("/commit", s.sessionHandler.CommitArea)
	areas.Post("/cancel", s.sessionHandler.CancelArea)
	areas.Post("/save", s.sessionHandler.SaveArea)
	areas.Post("/delete/confirm", s.sessionHandler.ConfirmDeleteArea)
	areas.Post("/delete/cancel", s.sessionHandler.CancelDeleteArea)
	areas.Post("/:areaId/edit", s.sessionHandler.EditArea)
	areas.Post("/:areaId/delete", s.sessionHandler.RequestDeleteArea)
}

// health - 503, если хотя бы одна зависимость не отвечает
func (s *Server) health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	status := "healthy"
	code := fiber.StatusOK
	checks := make(fiber.Map, len(s.healthChecks))
	for name, check := range s.healthChecks {
		if err := check(ctx); err != nil {
			s.logger.Warn("Health check failed", zap.String("dependency", name), zap.Error(err))
			checks[name] = err.Error()
			status = "degraded"
			code = fiber.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	return c.Status(code).JSON(fiber.Map{
		"status": status,
		"checks": checks,
		"time":   time.Now(),
	})
}

// Start - запуск HTTP сервера
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown HTTP сервера
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// customErrorHandler - кастомный обработчик ошибок
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		errCode := "INTERNAL_SERVER_ERROR"

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
			if code == fiber.StatusNotFound {
				errCode = "NOT_FOUND"
			}
		}

		if code >= fiber.StatusInternalServerError {
			logger.Error("HTTP Error",
				zap.String("path", c.Path()),
				zap.Int("status", code),
				zap.Error(err),
			)
		}

		return c.Status(code).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    errCode,
				"message": err.Error(),
			},
		})
	}
}
