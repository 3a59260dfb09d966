package engine

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tactical-map/internal/domain"
	"github.com/tactical-map/internal/domain/repository"
	apperrors "github.com/tactical-map/internal/pkg/errors"
)

// SessionOptions - настройки сессии карты; нулевые значения заменяются дефолтами
type SessionOptions struct {
	ID             string
	ZoomThreshold  float64
	DefaultZoom    float64
	RecenterZoom   float64
	Fallback       domain.GeoPoint
	Region         string
	Debounce       time.Duration
	MinQueryLength int
	GeocodeTimeout time.Duration
	LocateTimeout  time.Duration
	Surface        MapSurface
	Clock          Clock
	Run            func(func())
	NewID          IDGenerator
}

// FilterUpdate меняет только непустые поля фильтра
type FilterUpdate struct {
	Status  domain.StatusFilter `json:"status,omitempty"`
	Role    domain.LocationRole `json:"role,omitempty"`
	MapType domain.MapType      `json:"map_type,omitempty"`
}

// Session собирает контроллеры одной карты; активен не больше чем один режим,
// кроме просмотра. Коллекции только читаются, изменения уходят интентами
type Session struct {
	id      string
	opts    SessionOptions
	logger  *zap.Logger
	locator repository.LocationRepository
	source  CollectionSource
	sink    repository.IntentSink

	viewport *Viewport
	layers   *LayerController
	address  *AddressController
	renderer OverlayRenderer

	mu         sync.Mutex
	areas      *AreaDrawer
	markers    *MarkerEditor
	filter     domain.FilterState
	user       *domain.GeoPoint
	picked     *domain.GeocodedLocation
	notice     string
	outbox     []domain.Intent
	lastActive time.Time
}

func NewSession(
	source CollectionSource,
	sink repository.IntentSink,
	geocoder repository.GeocodingRepository,
	locator repository.LocationRepository,
	opts SessionOptions,
	logger *zap.Logger,
) *Session {
	if opts.ZoomThreshold <= 0 {
		opts.ZoomThreshold = DefaultZoomThreshold
	}
	if opts.DefaultZoom <= 0 {
		opts.DefaultZoom = 13
	}
	if opts.RecenterZoom <= 0 {
		opts.RecenterZoom = 16
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock()
	}
	if opts.NewID == nil {
		opts.NewID = newUUID
	}
	if opts.LocateTimeout <= 0 {
		opts.LocateTimeout = 2 * DefaultRequestTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if sink == nil {
		sink = repository.IntentSinkFunc(func(context.Context, domain.Intent) error { return nil })
	}

	s := &Session{
		id:         opts.ID,
		opts:       opts,
		logger:     logger.With(zap.String("session_id", opts.ID)),
		locator:    locator,
		source:     source,
		sink:       sink,
		layers:     NewLayerController(opts.ZoomThreshold),
		filter:     domain.DefaultFilterState(opts.DefaultZoom),
		lastActive: opts.Clock.Now(),
	}
	s.viewport = NewViewport(opts.Surface, opts.Fallback, opts.DefaultZoom)
	s.viewport.OnClick(s.onMapClick)
	s.viewport.OnZoomChanged(s.onZoomChanged)

	s.address = NewAddressController(geocoder, locator, AddressOptions{
		Region:            opts.Region,
		Debounce:          opts.Debounce,
		MinQueryLength:    opts.MinQueryLength,
		SearchTimeout:     opts.GeocodeTimeout,
		LocateTimeout:     opts.LocateTimeout,
		Clock:             opts.Clock,
		Run:               opts.Run,
		OnLocationChanged: s.onLocationChanged,
	}, s.logger)

	emit := func(intent domain.Intent) {
		s.outbox = append(s.outbox, intent)
	}
	s.markers = NewMarkerEditor(emit, opts.NewID)
	s.areas = NewAreaDrawer(emit, opts.NewID)
	return s
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

func (s *Session) Viewport() *Viewport {
	return s.viewport
}

// Mode - текущий единственный режим взаимодействия
func (s *Session) Mode() domain.InteractionMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modeLocked()
}

func (s *Session) modeLocked() domain.InteractionMode {
	switch {
	case s.markers.Armed():
		return domain.ModePlacingMarker
	case s.markers.Configuring():
		return domain.ModeEditingMarker
	case s.areas.State() == AreaDrawing:
		return domain.ModeDrawingArea
	case s.areas.State() == AreaEditingMetadata:
		return domain.ModeEditingArea
	default:
		return domain.ModeViewing
	}
}

// --- вьюпорт ---

func (s *Session) MapReady() {
	s.viewport.MarkReady()
	s.touch()
}

// Click - клик по пустому месту карты
func (s *Session) Click(point domain.GeoPoint) error {
	return s.viewport.Click(point)
}

func (s *Session) ZoomChanged(zoom float64) {
	s.viewport.ZoomChanged(zoom)
}

func (s *Session) onMapClick(point domain.GeoPoint) {
	_ = s.mutate(context.Background(), func() error {
		switch {
		case s.markers.Armed():
			return s.markers.PlaceAt(point)
		case s.areas.State() == AreaDrawing:
			return s.areas.AddVertex(point)
		default:
			s.layers.ClearSelection()
			return nil
		}
	})
}

func (s *Session) onZoomChanged(zoom float64) {
	s.mu.Lock()
	s.filter.Zoom = zoom
	s.mu.Unlock()
}

func (s *Session) onLocationChanged(loc domain.GeocodedLocation) {
	s.mu.Lock()
	s.picked = &loc
	s.mu.Unlock()

	if err := s.viewport.PanTo(loc.Point); err != nil {
		s.logger.Debug("Skipping pan to resolved location", zap.Error(err))
	}
}

// --- фильтры и выбор ---

func (s *Session) SetFilters(update FilterUpdate) error {
	return s.mutate(context.Background(), func() error {
		if update.Status != "" && !update.Status.Valid() {
			return apperrors.ErrInvalidRequest.WithDetails(map[string]interface{}{"status": update.Status})
		}
		if update.Role != "" && !update.Role.Valid() {
			return apperrors.ErrInvalidRequest.WithDetails(map[string]interface{}{"role": update.Role})
		}
		if update.MapType != "" {
			if err := s.viewport.SetMapType(update.MapType); err != nil {
				return err
			}
			s.filter.MapType = update.MapType
		}
		if update.Status != "" {
			s.filter.Status = update.Status
		}
		if update.Role != "" {
			s.filter.Role = update.Role
		}
		return nil
	})
}

func (s *Session) Filter() domain.FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// Select открывает панель маркера, остальные закрываются
func (s *Session) Select(kind MarkerKind, id string) error {
	if !kind.Valid() {
		return apperrors.ErrInvalidRequest.WithMessage("unknown marker kind")
	}
	s.layers.Select(kind, id)
	s.touch()
	return nil
}

func (s *Session) ClearSelection() {
	s.layers.ClearSelection()
	s.touch()
}

func (s *Session) OpenSuspectProfile(ctx context.Context, suspectID string) error {
	snap := s.source.Snapshot()
	return s.mutate(ctx, func() error {
		if _, ok := snap.Suspect(suspectID); !ok {
			return apperrors.ErrSuspectNotFound.WithDetails(map[string]interface{}{"id": suspectID})
		}
		s.outbox = append(s.outbox, domain.OpenSuspectProfile(suspectID))
		return nil
	})
}

// --- адреса ---

func (s *Session) SearchInput(text string) {
	s.address.SetInput(text)
	s.touch()
}

func (s *Session) SelectSuggestion(i int) (domain.GeocodedLocation, error) {
	s.touch()
	return s.address.Select(i)
}

func (s *Session) CloseSuggestions() {
	s.address.CloseSuggestions()
}

// ResolvePoint подписывает поставленный или перетащенный пин
func (s *Session) ResolvePoint(ctx context.Context, point domain.GeoPoint) (domain.GeocodedLocation, error) {
	s.touch()
	return s.address.ResolvePoint(ctx, point)
}

// UseMyLocation ставит позицию устройства в выбор адреса
// и отмечает её как позицию пользователя
func (s *Session) UseMyLocation(ctx context.Context) (domain.GeocodedLocation, error) {
	s.touch()
	loc, err := s.address.UseMyLocation(ctx)
	if err != nil {
		s.setNotice(err)
		return loc, err
	}
	p := loc.Point
	s.mu.Lock()
	s.user = &p
	s.mu.Unlock()
	return loc, nil
}

// Recenter переводит камеру на позицию устройства; без позиции камера остаётся на месте
func (s *Session) Recenter(ctx context.Context) (domain.GeoPoint, error) {
	s.touch()
	if s.locator == nil {
		s.setNotice(apperrors.ErrLocationUnavailable)
		return domain.GeoPoint{}, apperrors.ErrLocationUnavailable
	}

	locateCtx, cancel := context.WithTimeout(ctx, s.opts.LocateTimeout)
	point, err := s.locator.GetCurrentPosition(locateCtx, true)
	cancel()
	if err != nil {
		s.logger.Warn("Recenter failed", zap.Error(err))
		err = AsLocationUnavailable(err)
		s.setNotice(err)
		return domain.GeoPoint{}, err
	}
	if err := s.viewport.PanTo(point); err != nil {
		return domain.GeoPoint{}, err
	}
	s.viewport.SetZoom(s.opts.RecenterZoom)

	s.mu.Lock()
	s.user = &point
	s.filter.Zoom = s.opts.RecenterZoom
	s.notice = ""
	s.mu.Unlock()
	return point, nil
}

// SetUserPosition - позиция, присланная хостом
func (s *Session) SetUserPosition(point domain.GeoPoint) error {
	if !point.Valid() {
		return apperrors.ErrInvalidCoordinates
	}
	s.mu.Lock()
	s.user = &point
	s.mu.Unlock()
	return nil
}

// --- метки ---

// ToggleMarkerPlacement включает или выключает установку метки; черновик зоны сбрасывается
func (s *Session) ToggleMarkerPlacement() bool {
	var armed bool
	_ = s.mutate(context.Background(), func() error {
		if !s.markers.Armed() {
			s.areas.Cancel()
		}
		armed = s.markers.ToggleArm()
		return nil
	})
	return armed
}

func (s *Session) EditMarker(id string) error {
	snap := s.source.Snapshot()
	return s.mutate(context.Background(), func() error {
		m, ok := snap.Marker(id)
		if !ok {
			return apperrors.ErrMarkerNotFound.WithDetails(map[string]interface{}{"id": id})
		}
		s.areas.Cancel()
		s.markers.Edit(m)
		return nil
	})
}

func (s *Session) UpdateMarkerDraft(d MarkerDraft) error {
	return s.mutate(context.Background(), func() error {
		return s.markers.UpdateDraft(d)
	})
}

func (s *Session) SaveMarker(ctx context.Context) (domain.CustomMarker, error) {
	var marker domain.CustomMarker
	err := s.mutate(ctx, func() error {
		var err error
		marker, err = s.markers.Save()
		return err
	})
	return marker, err
}

func (s *Session) CancelMarker() {
	_ = s.mutate(context.Background(), func() error {
		s.markers.Cancel()
		return nil
	})
}

func (s *Session) RequestDeleteMarker(id string) error {
	snap := s.source.Snapshot()
	return s.mutate(context.Background(), func() error {
		if _, ok := snap.Marker(id); !ok {
			return apperrors.ErrMarkerNotFound.WithDetails(map[string]interface{}{"id": id})
		}
		s.markers.RequestDelete(id)
		return nil
	})
}

func (s *Session) ConfirmDeleteMarker(ctx context.Context) (string, error) {
	var id string
	err := s.mutate(ctx, func() error {
		var err error
		id, err = s.markers.ConfirmDelete()
		if err == nil {
			s.layers.clearIf(KindCustom, id)
		}
		return err
	})
	return id, err
}

func (s *Session) CancelDeleteMarker() {
	_ = s.mutate(context.Background(), func() error {
		s.markers.CancelDelete()
		return nil
	})
}

// --- тактические зоны ---

// StartDrawing начинает черновик зоны; установка метки и открытая форма метки отменяются
func (s *Session) StartDrawing() {
	_ = s.mutate(context.Background(), func() error {
		s.markers.Cancel()
		s.areas.Start()
		return nil
	})
}

func (s *Session) ClearDraft() error {
	return s.mutate(context.Background(), s.areas.Clear)
}

func (s *Session) SetAreaMetadata(meta AreaMetadata) error {
	return s.mutate(context.Background(), func() error {
		return s.areas.SetMetadata(meta)
	})
}

func (s *Session) CommitArea(ctx context.Context) (domain.TacticalArea, error) {
	var area domain.TacticalArea
	err := s.mutate(ctx, func() error {
		var err error
		area, err = s.areas.Commit()
		return err
	})
	return area, err
}

func (s *Session) CancelArea() {
	_ = s.mutate(context.Background(), func() error {
		s.areas.Cancel()
		return nil
	})
}

func (s *Session) EditArea(id string) error {
	snap := s.source.Snapshot()
	return s.mutate(context.Background(), func() error {
		a, ok := snap.Area(id)
		if !ok {
			return apperrors.ErrAreaNotFound.WithDetails(map[string]interface{}{"id": id})
		}
		s.markers.Cancel()
		s.areas.Edit(a)
		return nil
	})
}

func (s *Session) SaveArea(ctx context.Context) (domain.TacticalArea, error) {
	var area domain.TacticalArea
	err := s.mutate(ctx, func() error {
		var err error
		area, err = s.areas.Save()
		return err
	})
	return area, err
}

func (s *Session) RequestDeleteArea(id string) error {
	snap := s.source.Snapshot()
	return s.mutate(context.Background(), func() error {
		if _, ok := snap.Area(id); !ok {
			return apperrors.ErrAreaNotFound.WithDetails(map[string]interface{}{"id": id})
		}
		s.areas.RequestDelete(id)
		return nil
	})
}

func (s *Session) ConfirmDeleteArea(ctx context.Context) (string, error) {
	var id string
	err := s.mutate(ctx, func() error {
		var err error
		id, err = s.areas.ConfirmDelete()
		if err == nil {
			s.layers.clearIf(KindArea, id)
		}
		return err
	})
	return id, err
}

func (s *Session) CancelDeleteArea() {
	_ = s.mutate(context.Background(), func() error {
		s.areas.CancelDelete()
		return nil
	})
}

// --- рендер ---

// Render проецирует коллекции через текущее состояние.
// Пока карта хоста не готова, отдаётся только заглушка загрузки
func (s *Session) Render() Scene {
	snap := s.source.Snapshot()
	addr := s.address.State()
	cam := s.viewport.Camera()
	ready := s.viewport.Ready()

	s.mu.Lock()
	defer s.mu.Unlock()

	scene := Scene{
		SessionID:    s.id,
		Loading:      !ready,
		Camera:       cam,
		Mode:         s.modeLocked(),
		Filter:       s.filter,
		Address:      addr,
		Notice:       s.notice,
		MarkerEditor: s.markers.View(),
		AreaDrawer:   s.areas.View(),
	}
	if !ready {
		return scene
	}

	scene.Layers = s.layers.Build(snap, s.filter, s.user)
	scene.InfoPanel = s.layers.InfoPanel(snap, s.filter, s.user)
	if s.picked != nil {
		o := s.renderer.Render(s.picked.Point, Square(SizeMarkerBadge), IconContent{Icon: "pin", Color: domain.ColorRed.Hex()})
		scene.Picked = &PickedLocation{Location: *s.picked, Overlay: o}
	}
	return scene
}

// Close освобождает таймеры
func (s *Session) Close() {
	s.address.Close()
}

// mutate выполняет fn под локом сессии, а интенты отправляет уже после его снятия
func (s *Session) mutate(ctx context.Context, fn func() error) error {
	s.mu.Lock()
	s.notice = ""
	err := fn()
	pending := s.outbox
	s.outbox = nil
	s.lastActive = s.opts.Clock.Now()
	if err != nil {
		s.notice = noticeFor(err)
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Debug("Session action rejected", zap.Error(err))
		return err
	}
	return s.dispatch(ctx, pending)
}

func (s *Session) dispatch(ctx context.Context, intents []domain.Intent) error {
	var firstErr error
	for _, intent := range intents {
		intent.SessionID = s.id
		intent.At = s.opts.Clock.Now()
		if err := s.sink.Emit(ctx, intent); err != nil {
			s.logger.Warn("Intent rejected",
				zap.String("kind", string(intent.Kind)),
				zap.String("target_id", intent.TargetID),
				zap.Error(err),
			)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	if firstErr != nil {
		s.setNotice(firstErr)
	}
	return firstErr
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastActive = s.opts.Clock.Now()
	s.mu.Unlock()
}

func (s *Session) setNotice(err error) {
	s.mu.Lock()
	s.notice = noticeFor(err)
	s.mu.Unlock()
}

func noticeFor(err error) string {
	var appErr *apperrors.AppError
	if stderrors.As(err, &appErr) {
		return appErr.Message
	}
	return apperrors.ErrInternalServer.Message
}
