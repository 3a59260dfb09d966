package engine

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/tactical-map/internal/domain"
	"github.com/tactical-map/internal/domain/repository"
	apperrors "github.com/tactical-map/internal/pkg/errors"
)

// Сообщения для пользователя
const (
	NoticeSearchFailed        = "Não foi possível buscar o endereço. Tente novamente."
	NoticeAddressUnresolved   = "Endereço não encontrado; usando coordenadas."
	NoticeLocationUnavailable = "Não foi possível obter sua localização."
)

const (
	DefaultDebounce       = 500 * time.Millisecond
	DefaultMinQueryLength = 3
	DefaultRequestTimeout = 5 * time.Second
)

// AddressOptions - настройки AddressController; нулевые значения заменяются дефолтами
type AddressOptions struct {
	Region         string
	Debounce       time.Duration
	MinQueryLength int
	SearchTimeout  time.Duration
	LocateTimeout  time.Duration
	Clock          Clock
	// Run запускает фоновый поиск; по умолчанию в новой горутине
	Run func(func())
	// OnLocationChanged вызывается после выбора подсказки или разрешения точки
	OnLocationChanged func(domain.GeocodedLocation)
}

func (o AddressOptions) withDefaults() AddressOptions {
	if o.Debounce <= 0 {
		o.Debounce = DefaultDebounce
	}
	if o.MinQueryLength <= 0 {
		o.MinQueryLength = DefaultMinQueryLength
	}
	if o.SearchTimeout <= 0 {
		o.SearchTimeout = DefaultRequestTimeout
	}
	if o.LocateTimeout <= 0 {
		o.LocateTimeout = 2 * DefaultRequestTimeout
	}
	if o.Clock == nil {
		o.Clock = SystemClock()
	}
	if o.Run == nil {
		o.Run = func(f func()) { go f() }
	}
	return o
}

// AddressState - снимок поля поиска, списка подсказок и подписи пина
type AddressState struct {
	Input           string                    `json:"input"`
	Suggestions     []domain.GeocodedLocation `json:"suggestions"`
	SuggestionsOpen bool                      `json:"suggestions_open"`
	NoResults       bool                      `json:"no_results"`
	Searching       bool                      `json:"searching"`
	Locating        bool                      `json:"locating"`
	Resolved        *domain.GeocodedLocation  `json:"resolved,omitempty"`
	Notice          string                    `json:"notice,omitempty"`
}

// AddressController - поиск по мере ввода и подпись точек.
// Сетевые вызовы никогда не идут под локом контроллера
type AddressController struct {
	geocoder repository.GeocodingRepository
	locator  repository.LocationRepository
	opts     AddressOptions
	debounce *Debouncer
	logger   *zap.Logger

	mu            sync.Mutex
	input         string
	suggestions   []domain.GeocodedLocation
	open          bool
	noResults     bool
	resolved      *domain.GeocodedLocation
	notice        string
	searchSeq     uint64
	searching     bool
	inFlightQuery string
	reverseSeq    uint64
	locating      bool
}

func NewAddressController(
	geocoder repository.GeocodingRepository,
	locator repository.LocationRepository,
	opts AddressOptions,
	logger *zap.Logger,
) *AddressController {
	opts = opts.withDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AddressController{
		geocoder: geocoder,
		locator:  locator,
		opts:     opts,
		debounce: NewDebouncer(opts.Clock, opts.Debounce),
		logger:   logger,
	}
}

// SetInput обрабатывает ввод: сбрасывает выбранный адрес и (пере)запускает debounce.
// Повтор того же текста при выбранном адресе ничего не меняет
func (c *AddressController) SetInput(text string) {
	c.mu.Lock()
	if c.resolved != nil && text == c.input {
		c.mu.Unlock()
		return
	}
	c.input = text
	c.resolved = nil
	c.notice = ""
	query := strings.TrimSpace(text)
	short := utf8.RuneCountInString(query) < c.opts.MinQueryLength
	if short {
		c.suggestions = nil
		c.open = false
		c.noResults = false
	}
	c.mu.Unlock()

	if short {
		c.debounce.Cancel()
		return
	}
	c.debounce.Trigger(c.fireSearch)
}

func (c *AddressController) fireSearch() {
	c.mu.Lock()
	query := strings.TrimSpace(c.input)
	if utf8.RuneCountInString(query) < c.opts.MinQueryLength || c.resolved != nil {
		c.mu.Unlock()
		return
	}
	if c.searching && c.inFlightQuery == query {
		c.mu.Unlock()
		return
	}
	c.searchSeq++
	seq := c.searchSeq
	c.searching = true
	c.inFlightQuery = query
	c.mu.Unlock()

	c.opts.Run(func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.opts.SearchTimeout)
		defer cancel()

		results, err := withDeadline(ctx, func(ctx context.Context) ([]domain.GeocodedLocation, error) {
			return c.geocoder.SearchAddress(ctx, query, c.opts.Region)
		})
		c.finishSearch(seq, query, results, err)
	})
}

func (c *AddressController) finishSearch(seq uint64, query string, results []domain.GeocodedLocation, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if seq == c.searchSeq {
		c.searching = false
		c.inFlightQuery = ""
	}
	if seq != c.searchSeq || strings.TrimSpace(c.input) != query {
		c.logger.Debug("Discarding stale search response", zap.String("query", query))
		return
	}

	if err != nil {
		c.logger.Warn("Address search failed", zap.String("query", query), zap.Error(err))
		c.suggestions = nil
		c.noResults = true
		c.open = true
		c.notice = NoticeSearchFailed
		return
	}

	c.suggestions = append([]domain.GeocodedLocation(nil), results...)
	c.noResults = len(results) == 0
	c.open = true
}

// Select выбирает подсказку i
func (c *AddressController) Select(i int) (domain.GeocodedLocation, error) {
	c.mu.Lock()
	if i < 0 || i >= len(c.suggestions) {
		c.mu.Unlock()
		return domain.GeocodedLocation{}, apperrors.ErrInvalidRequest.WithMessage("suggestion index out of range")
	}
	loc := c.suggestions[i]
	c.applyResolvedLocked(loc)
	// запрос в полёте больше не актуален
	c.searchSeq++
	c.searching = false
	c.inFlightQuery = ""
	c.mu.Unlock()

	c.debounce.Cancel()
	c.notify(loc)
	return loc, nil
}

// CloseSuggestions прячет список (клик вне поля), ввод остаётся
func (c *AddressController) CloseSuggestions() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = false
	c.noResults = false
}

// ResolvePoint подписывает точку обратным геокодингом. Ошибка или пустой ответ
// дают подпись "lat, lng" и ошибкой не считаются
func (c *AddressController) ResolvePoint(ctx context.Context, point domain.GeoPoint) (domain.GeocodedLocation, error) {
	if !point.Valid() {
		return domain.GeocodedLocation{}, apperrors.ErrInvalidCoordinates
	}

	c.mu.Lock()
	c.reverseSeq++
	seq := c.reverseSeq
	c.mu.Unlock()

	loc, resolved := c.reverse(ctx, point)

	c.mu.Lock()
	if seq != c.reverseSeq {
		// более поздний drag уже перекрыл этот
		c.mu.Unlock()
		return loc, nil
	}
	c.applyResolvedLocked(loc)
	if !resolved {
		c.notice = NoticeAddressUnresolved
	}
	c.mu.Unlock()

	c.notify(loc)
	return loc, nil
}

// UseMyLocation - точная позиция устройства с подписью. Одновременно только один запрос;
// неудача возвращается явно, дефолтной точкой не подменяется
func (c *AddressController) UseMyLocation(ctx context.Context) (domain.GeocodedLocation, error) {
	if c.locator == nil {
		return domain.GeocodedLocation{}, apperrors.ErrLocationUnavailable
	}

	c.mu.Lock()
	if c.locating {
		c.mu.Unlock()
		return domain.GeocodedLocation{}, apperrors.ErrRequestInFlight
	}
	c.locating = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.locating = false
		c.mu.Unlock()
	}()

	locateCtx, cancel := context.WithTimeout(ctx, c.opts.LocateTimeout)
	point, err := withDeadline(locateCtx, func(ctx context.Context) (domain.GeoPoint, error) {
		return c.locator.GetCurrentPosition(ctx, true)
	})
	cancel()
	if err != nil {
		c.logger.Warn("Device location unavailable", zap.Error(err))
		c.mu.Lock()
		c.notice = NoticeLocationUnavailable
		c.mu.Unlock()
		return domain.GeocodedLocation{}, AsLocationUnavailable(err)
	}

	return c.ResolvePoint(ctx, point)
}

func (c *AddressController) State() AddressState {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := AddressState{
		Input:           c.input,
		Suggestions:     append([]domain.GeocodedLocation(nil), c.suggestions...),
		SuggestionsOpen: c.open,
		NoResults:       c.noResults,
		Searching:       c.searching,
		Locating:        c.locating,
		Notice:          c.notice,
	}
	if c.resolved != nil {
		r := *c.resolved
		s.Resolved = &r
	}
	return s
}

// Close останавливает отложенный поиск
func (c *AddressController) Close() {
	c.debounce.Cancel()
}

func (c *AddressController) reverse(ctx context.Context, point domain.GeoPoint) (domain.GeocodedLocation, bool) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.SearchTimeout)
	defer cancel()

	loc, err := withDeadline(ctx, func(ctx context.Context) (*domain.GeocodedLocation, error) {
		return c.geocoder.ReverseGeocode(ctx, point)
	})
	if err != nil {
		c.logger.Warn("Reverse geocoding failed",
			zap.Float64("lat", point.Lat),
			zap.Float64("lng", point.Lng),
			zap.Error(err),
		)
		return domain.Unresolved(point), false
	}
	if loc == nil || strings.TrimSpace(loc.Name) == "" {
		return domain.Unresolved(point), false
	}
	// подпись относится к точке пользователя, а не к точке геокодера
	return domain.GeocodedLocation{Name: loc.Name, Point: point}, true
}

func (c *AddressController) applyResolvedLocked(loc domain.GeocodedLocation) {
	c.resolved = &loc
	c.input = loc.Name
	c.suggestions = nil
	c.open = false
	c.noResults = false
	c.notice = ""
}

func (c *AddressController) notify(loc domain.GeocodedLocation) {
	if c.opts.OnLocationChanged != nil {
		c.opts.OnLocationChanged(loc)
	}
}

// withDeadline ждёт f, но не дольше ctx. Бэкенд, игнорирующий ctx, бросается,
// его поздний ответ теряется
func withDeadline[T any](ctx context.Context, f func(context.Context) (T, error)) (T, error) {
	type result struct {
		v   T
		err error
	}
	done := make(chan result, 1)
	go func() {
		v, err := f(ctx)
		done <- result{v, err}
	}()

	select {
	case r := <-done:
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// AsLocationUnavailable сводит любую ошибку получения позиции к ErrLocationUnavailable
func AsLocationUnavailable(err error) error {
	if stderrors.Is(err, apperrors.ErrLocationUnavailable) {
		return err
	}
	return apperrors.ErrLocationUnavailable.WithDetails(map[string]interface{}{"cause": err.Error()})
}
