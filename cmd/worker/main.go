package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/tactical-map/internal/config"
	"github.com/tactical-map/internal/infrastructure/geocoding"
	"github.com/tactical-map/internal/pkg/logger"
	"github.com/tactical-map/internal/pkg/metrics"
	"github.com/tactical-map/internal/repository/cache"
	redisRepo "github.com/tactical-map/internal/repository/redis"
	"github.com/tactical-map/internal/usecase"
	"github.com/tactical-map/internal/worker"
	"github.com/tactical-map/internal/worker/labeling"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Check if worker is enabled
	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true to enable.")
		os.Exit(0)
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, zap.String("service", "tactical-map-worker"))
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Intent Labeling Worker")
	log.Info("Configuration loaded",
		zap.String("consumer_group", cfg.Worker.ConsumerGroup),
		zap.Int("max_retries", cfg.Worker.MaxRetries),
		zap.Int("batch_size", cfg.Worker.BatchSize))

	// 3. Connect to Redis
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	// 4. Initialize repositories
	cacheRepo := cache.NewCacheRepository(redisClient)
	streamRepo := redisRepo.NewStreamRepository(redisClient.Client(), log)

	geocoder, err := geocoding.New(&cfg.Geocoding, logger.Component(log, "geocoding"))
	if err != nil {
		log.Fatal("Failed to initialize geocoding provider", zap.Error(err))
	}

	// 5. Initialize use cases
	geocodingUC := usecase.NewGeocodingUseCase(
		geocoder,
		cacheRepo,
		metrics.New(),
		log,
		cfg.Geocoding.Region(),
		cfg.Cache.SearchCacheTTL,
		cfg.Cache.ReverseCacheTTL,
	)
	labelingUC := usecase.NewLabelingUseCase(geocodingUC, streamRepo, logger.Component(log, "labeling"))

	// 6. Initialize workers
	labelingWorker := labeling.NewIntentLabelingWorker(
		streamRepo,
		labelingUC,
		cfg.Worker.ConsumerGroup,
		cfg.Worker.BatchSize,
		cfg.Worker.MaxRetries,
		log,
	)

	// 7. Create worker manager and register workers
	workerManager := worker.NewWorkerManager(log, worker.DefaultShutdownTimeout)
	workerManager.Register(labelingWorker)

	// 8. Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := workerManager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Info("Received shutdown signal")

	cancel()

	if err := workerManager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}

	log.Info("Worker shutdown complete")
}
