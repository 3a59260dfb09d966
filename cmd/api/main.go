package main

// @title Tactical Map API
// @version 1.0.0
// @description Сервис тактической карты: слои подозреваемых с фильтрами, пользовательские метки, тактические зоны и адресный поиск.
// @description
// @description Основные возможности:
// @description - Сессии карты со сценой (слои, панель информации, редакторы) и экспортом в GeoJSON
// @description - Фильтрация подозреваемых по статусу и роли адреса, смена детализации по зуму
// @description - Создание, редактирование и удаление меток и зон с подтверждением
// @description - Прямое и обратное геокодирование с кэшем в Redis
// @description - Публикация интентов в Redis Streams

// @contact.name API Support
// @contact.email support@tactical-map.dev

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/tactical-map/docs/swagger"
	"github.com/tactical-map/internal/config"
	httpDelivery "github.com/tactical-map/internal/delivery/http"
	"github.com/tactical-map/internal/delivery/http/handler"
	"github.com/tactical-map/internal/domain/repository"
	"github.com/tactical-map/internal/infrastructure/geocoding"
	"github.com/tactical-map/internal/infrastructure/geolocation"
	"github.com/tactical-map/internal/pkg/logger"
	"github.com/tactical-map/internal/pkg/metrics"
	"github.com/tactical-map/internal/repository/cache"
	redisRepo "github.com/tactical-map/internal/repository/redis"
	"github.com/tactical-map/internal/usecase"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, zap.String("service", "tactical-map-api"))
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Tactical Map service")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("geocoding_provider", cfg.Geocoding.Provider),
	)

	// 3. Connect to Redis. Без Redis сервис работает без кэша и без стримов.
	var (
		cacheRepo  repository.CacheRepository
		streamRepo repository.StreamRepository
	)
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Warn("Redis unavailable, running without cache and intent stream", zap.Error(err))
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Failed to close Redis connection", zap.Error(err))
			}
		}()
		cacheRepo = cache.NewCacheRepository(redisClient)
		streamRepo = redisRepo.NewStreamRepository(redisClient.Client(), log)
		log.Info("Redis connected")
	}

	// 4. Initialize providers
	geocoder, err := geocoding.New(&cfg.Geocoding, logger.Component(log, "geocoding"))
	if err != nil {
		log.Fatal("Failed to initialize geocoding provider", zap.Error(err))
	}
	ipLocator := geolocation.NewIPLocator(
		&http.Client{Timeout: cfg.Location.Timeout},
		cfg.Location.IPLookupURL,
		logger.Component(log, "geolocation"),
	)
	if cfg.Location.IPStrict {
		ipLocator.Strict()
	}
	m := metrics.New()

	log.Info("Providers initialized")

	// 5. Initialize Use Cases
	geocodingUC := usecase.NewGeocodingUseCase(
		geocoder,
		cacheRepo,
		m,
		log,
		cfg.Geocoding.Region(),
		cfg.Cache.SearchCacheTTL,
		cfg.Cache.ReverseCacheTTL,
	)

	sessionUC := usecase.NewSessionUseCase(
		geocodingUC,
		ipLocator,
		streamRepo,
		m,
		cfg,
		logger.Component(log, "sessions"),
	)

	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	go sessionUC.RunSweeper(sweepCtx)

	log.Info("Use cases initialized")

	// 6. Initialize HTTP Handlers
	geocodingHandler := handler.NewGeocodingHandler(geocodingUC, log)
	sessionHandler := handler.NewSessionHandler(sessionUC, log)

	// 7. Initialize HTTP Server
	server := httpDelivery.NewServer(
		cfg,
		log,
		m,
		geocodingHandler,
		sessionHandler,
	)
	if redisClient != nil {
		server.AddHealthCheck("redis", redisClient.Health)
	}

	// 8. Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 9. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	stopSweeper()
	sessionUC.CloseAll()

	log.Info("Server stopped successfully")
}
