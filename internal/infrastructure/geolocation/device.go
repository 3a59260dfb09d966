package geolocation

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tactical-map/internal/domain"
	apperrors "github.com/tactical-map/internal/pkg/errors"
)

// ErrNoFix - устройство не присылало свежую позицию
var ErrNoFix = errors.New("no recent device fix")

// Fix - позиция, присланная устройством клиента
type Fix struct {
	Point    domain.GeoPoint
	Accuracy float64 // meters, 0 when unknown
	At       time.Time
}

// DeviceFeed хранит последнюю позицию устройства одной сессии
type DeviceFeed struct {
	mu     sync.RWMutex
	last   *Fix
	maxAge time.Duration
	now    func() time.Time
}

func NewDeviceFeed(maxAge time.Duration, now func() time.Time) *DeviceFeed {
	if now == nil {
		now = time.Now
	}
	return &DeviceFeed{maxAge: maxAge, now: now}
}

// Report сохраняет позицию; пустой At заполняется текущим временем
func (f *DeviceFeed) Report(fix Fix) error {
	if !fix.Point.Valid() {
		return apperrors.ErrInvalidCoordinates
	}
	if fix.At.IsZero() {
		fix.At = f.now()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.last != nil && fix.At.Before(f.last.At) {
		return nil
	}
	f.last = &fix
	return nil
}

// GetCurrentPosition - последняя позиция, если она моложе maxAge.
// Позиция устройства всегда считается точной
func (f *DeviceFeed) GetCurrentPosition(ctx context.Context, _ bool) (domain.GeoPoint, error) {
	if err := ctx.Err(); err != nil {
		return domain.GeoPoint{}, err
	}

	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.last == nil {
		return domain.GeoPoint{}, ErrNoFix
	}
	if f.maxAge > 0 && f.now().Sub(f.last.At) > f.maxAge {
		return domain.GeoPoint{}, ErrNoFix
	}
	return f.last.Point, nil
}
