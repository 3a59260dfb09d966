package engine_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/tactical-map/internal/domain"
	"github.com/tactical-map/internal/engine"
)

type MockGeocoder struct {
	mock.Mock
}

func (m *MockGeocoder) SearchAddress(ctx context.Context, query string, region string) ([]domain.GeocodedLocation, error) {
	args := m.Called(ctx, query, region)
	var res []domain.GeocodedLocation
	if v := args.Get(0); v != nil {
		res = v.([]domain.GeocodedLocation)
	}
	return res, args.Error(1)
}

func (m *MockGeocoder) ReverseGeocode(ctx context.Context, point domain.GeoPoint) (*domain.GeocodedLocation, error) {
	args := m.Called(ctx, point)
	var res *domain.GeocodedLocation
	if v := args.Get(0); v != nil {
		res = v.(*domain.GeocodedLocation)
	}
	return res, args.Error(1)
}

type MockLocator struct {
	mock.Mock
}

func (m *MockLocator) GetCurrentPosition(ctx context.Context, highAccuracy bool) (domain.GeoPoint, error) {
	args := m.Called(ctx, highAccuracy)
	return args.Get(0).(domain.GeoPoint), args.Error(1)
}

// recordingSink collects emitted intents.
type recordingSink struct {
	mu      sync.Mutex
	intents []domain.Intent
}

func (r *recordingSink) Emit(_ context.Context, intent domain.Intent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.intents = append(r.intents, intent)
	return nil
}

func (r *recordingSink) Intents() []domain.Intent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Intent(nil), r.intents...)
}

func inline(f func()) { f() }

// queueRunner holds background searches until the test releases them.
type queueRunner struct {
	queued []func()
}

func (q *queueRunner) Run(f func()) {
	q.queued = append(q.queued, f)
}

func testClock() *engine.ManualClock {
	return engine.NewManualClock(time.Date(2024, 5, 10, 14, 0, 0, 0, time.UTC))
}

func sequentialIDs(prefix string) engine.IDGenerator {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}
