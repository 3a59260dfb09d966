package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tactical-map/internal/config"
	"github.com/tactical-map/internal/domain"
	"github.com/tactical-map/internal/domain/repository"
	"github.com/tactical-map/internal/engine"
	"github.com/tactical-map/internal/infrastructure/geolocation"
	"github.com/tactical-map/internal/pkg/errors"
	"github.com/tactical-map/internal/pkg/metrics"
	"github.com/tactical-map/internal/pkg/validator"
	"github.com/tactical-map/internal/usecase/dto"
)

// sessionEntry - сессия вместе с тем, чем она владеет
type sessionEntry struct {
	session     *engine.Session
	collections *engine.Collections
	device      *geolocation.DeviceFeed
}

// SessionUseCase - реестр сессий карты
type SessionUseCase struct {
	geocoder   repository.GeocodingRepository
	fallback   repository.LocationRepository
	streamRepo repository.StreamRepository
	metrics    *metrics.Metrics
	cfg        *config.Config
	logger     *zap.Logger
	now        func() time.Time

	mu       sync.RWMutex
	sessions map[string]*sessionEntry
}

// NewSessionUseCase - fallback и streamRepo могут быть nil
func NewSessionUseCase(
	geocoder repository.GeocodingRepository,
	fallback repository.LocationRepository,
	streamRepo repository.StreamRepository,
	m *metrics.Metrics,
	cfg *config.Config,
	logger *zap.Logger,
) *SessionUseCase {
	return &SessionUseCase{
		geocoder:   geocoder,
		fallback:   fallback,
		streamRepo: streamRepo,
		metrics:    m,
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
		sessions:   make(map[string]*sessionEntry),
	}
}

// Create открывает новую сессию
func (uc *SessionUseCase) Create(ctx context.Context, req dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	if err := validator.Validate(req); err != nil {
		return nil, err
	}

	mapCfg := uc.cfg.Map
	center := domain.GeoPoint{Lat: mapCfg.FallbackLat, Lng: mapCfg.FallbackLng}
	if req.Center != nil {
		if !req.Center.Valid() {
			return nil, errors.ErrInvalidCoordinates
		}
		center = *req.Center
	}
	zoom := mapCfg.DefaultZoom
	if req.Zoom > 0 {
		zoom = req.Zoom
	}
	region := req.Region
	if region == "" {
		region = uc.cfg.Geocoding.Region()
	}

	id := uuid.NewString()
	collections := engine.NewCollections(uc.logger)
	device := geolocation.NewDeviceFeed(uc.cfg.Location.DeviceFixMaxAge, uc.now)
	locator := geolocation.NewChain(uc.cfg.Location.Timeout, uc.logger, device, uc.fallback)

	session := engine.NewSession(
		collections,
		uc.intentSink(collections),
		uc.geocoder,
		locator,
		engine.SessionOptions{
			ID:             id,
			ZoomThreshold:  mapCfg.ZoomThreshold,
			DefaultZoom:    zoom,
			RecenterZoom:   mapCfg.RecenterZoom,
			Fallback:       center,
			Region:         region,
			Debounce:       mapCfg.Debounce,
			MinQueryLength: mapCfg.MinQueryLength,
			GeocodeTimeout: uc.cfg.Geocoding.Timeout,
			LocateTimeout:  uc.cfg.Location.Timeout,
		},
		uc.logger,
	)

	uc.mu.Lock()
	uc.sessions[id] = &sessionEntry{session: session, collections: collections, device: device}
	count := len(uc.sessions)
	uc.mu.Unlock()

	uc.metrics.SetActiveSessions(count)
	uc.logger.Info("Map session created", zap.String("session_id", id), zap.Int("active", count))

	return &dto.SessionResponse{ID: id, Scene: session.Render()}, nil
}

// Session возвращает сессию по id
func (uc *SessionUseCase) Session(id string) (*engine.Session, error) {
	e, err := uc.entry(id)
	if err != nil {
		return nil, err
	}
	return e.session, nil
}

// Scene рендерит сессию
func (uc *SessionUseCase) Scene(id string) (engine.Scene, error) {
	s, err := uc.Session(id)
	if err != nil {
		return engine.Scene{}, err
	}
	return s.Render(), nil
}

// ReplaceCollections подменяет коллекции, присланные родителем
func (uc *SessionUseCase) ReplaceCollections(id string, req dto.CollectionsRequest) (engine.Scene, error) {
	if err := validator.Validate(req); err != nil {
		return engine.Scene{}, err
	}
	e, err := uc.entry(id)
	if err != nil {
		return engine.Scene{}, err
	}
	if err := e.collections.Replace(req.Snapshot()); err != nil {
		return engine.Scene{}, err
	}
	return e.session.Render(), nil
}

// Locate - "use my location"; fix, если есть, кладётся в ленту устройства
func (uc *SessionUseCase) Locate(ctx context.Context, id string, req dto.LocateRequest) (*dto.LocateResponse, error) {
	e, err := uc.entry(id)
	if err != nil {
		return nil, err
	}
	if err := e.report(req.Fix); err != nil {
		return nil, err
	}

	loc, err := e.session.UseMyLocation(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.LocateResponse{Location: loc, Scene: e.session.Render()}, nil
}

// Recenter переводит камеру на позицию устройства
func (uc *SessionUseCase) Recenter(ctx context.Context, id string, req dto.LocateRequest) (engine.Scene, error) {
	e, err := uc.entry(id)
	if err != nil {
		return engine.Scene{}, err
	}
	if err := e.report(req.Fix); err != nil {
		return engine.Scene{}, err
	}

	if _, err := e.session.Recenter(ctx); err != nil {
		return engine.Scene{}, err
	}
	return e.session.Render(), nil
}

// Delete закрывает сессию
func (uc *SessionUseCase) Delete(id string) error {
	uc.mu.Lock()
	e, ok := uc.sessions[id]
	if ok {
		delete(uc.sessions, id)
	}
	count := len(uc.sessions)
	uc.mu.Unlock()

	if !ok {
		return errors.ErrSessionNotFound
	}
	e.session.Close()
	uc.metrics.SetActiveSessions(count)
	uc.logger.Info("Map session closed", zap.String("session_id", id))
	return nil
}

// Count - число активных сессий
func (uc *SessionUseCase) Count() int {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return len(uc.sessions)
}

// Sweep закрывает сессии, неактивные дольше TTL
func (uc *SessionUseCase) Sweep(now time.Time) int {
	ttl := uc.cfg.Session.TTL
	if ttl <= 0 {
		return 0
	}

	var expired []*sessionEntry
	uc.mu.Lock()
	for id, e := range uc.sessions {
		if now.Sub(e.session.LastActive()) > ttl {
			expired = append(expired, e)
			delete(uc.sessions, id)
		}
	}
	count := len(uc.sessions)
	uc.mu.Unlock()

	for _, e := range expired {
		e.session.Close()
	}
	if len(expired) > 0 {
		uc.metrics.SetActiveSessions(count)
		uc.logger.Info("Expired map sessions evicted",
			zap.Int("evicted", len(expired)),
			zap.Int("active", count))
	}
	return len(expired)
}

// RunSweeper периодически вызывает Sweep до отмены ctx
func (uc *SessionUseCase) RunSweeper(ctx context.Context) {
	interval := uc.cfg.Session.SweepInterval
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			uc.Sweep(uc.now())
		}
	}
}

// CloseAll закрывает все сессии при остановке сервиса
func (uc *SessionUseCase) CloseAll() {
	uc.mu.Lock()
	entries := uc.sessions
	uc.sessions = make(map[string]*sessionEntry)
	uc.mu.Unlock()

	for _, e := range entries {
		e.session.Close()
	}
	uc.metrics.SetActiveSessions(0)
}

func (e *sessionEntry) report(fix *dto.DeviceFix) error {
	if fix == nil {
		return nil
	}
	if err := validator.Validate(fix); err != nil {
		return err
	}
	f := geolocation.Fix{
		Point:    domain.GeoPoint{Lat: fix.Lat, Lng: fix.Lng},
		Accuracy: fix.Accuracy,
	}
	if fix.Timestamp != nil {
		f.At = *fix.Timestamp
	}
	return e.device.Report(f)
}

func (uc *SessionUseCase) entry(id string) (*sessionEntry, error) {
	uc.mu.RLock()
	e, ok := uc.sessions[id]
	uc.mu.RUnlock()
	if !ok {
		return nil, errors.ErrSessionNotFound.WithDetails(map[string]interface{}{"session_id": id})
	}
	return e, nil
}

// intentSink: сначала коллекции (источник истины), потом метрика и стрим.
// Ошибка публикации в стрим не откатывает уже применённый интент.
func (uc *SessionUseCase) intentSink(collections *engine.Collections) repository.IntentSink {
	return repository.IntentSinkFunc(func(ctx context.Context, intent domain.Intent) error {
		if err := collections.Emit(ctx, intent); err != nil {
			return err
		}
		uc.metrics.IncIntent(string(intent.Kind))

		if uc.streamRepo != nil {
			if err := uc.streamRepo.PublishToStream(ctx, domain.StreamIntents, intent); err != nil {
				uc.logger.Warn("Failed to publish intent",
					zap.String("kind", string(intent.Kind)),
					zap.String("target_id", intent.TargetID),
					zap.Error(err))
			}
		}
		return nil
	})
}
