package geolocation

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tactical-map/internal/domain"
	apperrors "github.com/tactical-map/internal/pkg/errors"
)

func TestDeviceFeed(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	feed := NewDeviceFeed(30*time.Second, func() time.Time { return now })
	ctx := context.Background()

	_, err := feed.GetCurrentPosition(ctx, true)
	assert.ErrorIs(t, err, ErrNoFix)

	p := domain.GeoPoint{Lat: -19.92, Lng: -43.94}
	require.NoError(t, feed.Report(Fix{Point: p}))
	got, err := feed.GetCurrentPosition(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	// older fixes never replace a newer one
	require.NoError(t, feed.Report(Fix{Point: domain.GeoPoint{Lat: 1, Lng: 1}, At: now.Add(-time.Minute)}))
	got, _ = feed.GetCurrentPosition(ctx, true)
	assert.Equal(t, p, got)

	now = now.Add(31 * time.Second)
	_, err = feed.GetCurrentPosition(ctx, true)
	assert.ErrorIs(t, err, ErrNoFix)

	assert.ErrorIs(t, feed.Report(Fix{Point: domain.GeoPoint{Lat: 91, Lng: 0}}), apperrors.ErrInvalidCoordinates)
}

func TestIPLocator(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status":"success","lat":-19.9191,"lon":-43.9386,"city":"Belo Horizonte"}`))
		}))
		defer server.Close()

		l := NewIPLocator(server.Client(), server.URL, zap.NewNop())
		got, err := l.GetCurrentPosition(context.Background(), true)
		require.NoError(t, err)
		assert.Equal(t, domain.GeoPoint{Lat: -19.9191, Lng: -43.9386}, got)
	})

	t.Run("fail status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status":"fail","message":"private range"}`))
		}))
		defer server.Close()

		l := NewIPLocator(server.Client(), server.URL, zap.NewNop())
		_, err := l.GetCurrentPosition(context.Background(), false)
		assert.Error(t, err)
	})

	t.Run("strict refuses high accuracy", func(t *testing.T) {
		l := NewIPLocator(nil, "http://127.0.0.1:0", zap.NewNop()).Strict()
		_, err := l.GetCurrentPosition(context.Background(), true)
		assert.Error(t, err)
	})
}

type stubLocator struct {
	point domain.GeoPoint
	err   error
	calls int
}

func (s *stubLocator) GetCurrentPosition(ctx context.Context, _ bool) (domain.GeoPoint, error) {
	s.calls++
	return s.point, s.err
}

func TestChain(t *testing.T) {
	ctx := context.Background()
	p := domain.GeoPoint{Lat: -19.9, Lng: -43.9}

	t.Run("fallback after primary fails", func(t *testing.T) {
		primary := &stubLocator{err: errors.New("denied")}
		fallback := &stubLocator{point: p}
		got, err := NewChain(time.Second, zap.NewNop(), primary, fallback).GetCurrentPosition(ctx, true)
		require.NoError(t, err)
		assert.Equal(t, p, got)
		assert.Equal(t, 1, primary.calls)
	})

	t.Run("primary wins", func(t *testing.T) {
		primary := &stubLocator{point: p}
		fallback := &stubLocator{point: domain.GeoPoint{Lat: 1, Lng: 1}}
		got, err := NewChain(0, zap.NewNop(), primary, fallback).GetCurrentPosition(ctx, true)
		require.NoError(t, err)
		assert.Equal(t, p, got)
		assert.Zero(t, fallback.calls)
	})

	t.Run("all fail", func(t *testing.T) {
		_, err := NewChain(time.Second, zap.NewNop(), &stubLocator{err: errors.New("timeout")}, nil).GetCurrentPosition(ctx, true)
		assert.True(t, errors.Is(err, apperrors.ErrLocationUnavailable))
	})
}
