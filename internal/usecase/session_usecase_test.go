package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tactical-map/internal/config"
	"github.com/tactical-map/internal/domain"
	apperrors "github.com/tactical-map/internal/pkg/errors"
	"github.com/tactical-map/internal/pkg/metrics"
	"github.com/tactical-map/internal/usecase"
	"github.com/tactical-map/internal/usecase/dto"
)

func testConfig() *config.Config {
	return &config.Config{
		Geocoding: config.GeocodingConfig{CountryCodes: []string{"br"}, Timeout: time.Second},
		Location:  config.LocationConfig{DeviceFixMaxAge: 30 * time.Second, Timeout: time.Second},
		Map: config.MapConfig{
			ZoomThreshold:  15,
			DefaultZoom:    13,
			RecenterZoom:   16,
			FallbackLat:    -19.9191,
			FallbackLng:    -43.9386,
			Debounce:       500 * time.Millisecond,
			MinQueryLength: 3,
		},
		Session: config.SessionConfig{TTL: time.Hour, SweepInterval: time.Minute},
	}
}

func TestSessionUseCase_CreateAndScene(t *testing.T) {
	uc := usecase.NewSessionUseCase(&MockGeocodingRepository{}, nil, nil, nil, testConfig(), zap.NewNop())

	resp, err := uc.Create(context.Background(), dto.CreateSessionRequest{})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.True(t, resp.Scene.Loading)
	assert.Equal(t, domain.GeoPoint{Lat: -19.9191, Lng: -43.9386}, resp.Scene.Camera.Center)
	assert.Equal(t, 1, uc.Count())

	_, err = uc.Scene("missing")
	assert.True(t, errors.Is(err, apperrors.ErrSessionNotFound))

	_, err = uc.Create(context.Background(), dto.CreateSessionRequest{Center: &domain.GeoPoint{Lat: 120}})
	assert.Error(t, err)
}

func TestSessionUseCase_IntentFanOut(t *testing.T) {
	stream := &MockStreamRepository{}
	stream.On("PublishToStream", mock.Anything, domain.StreamIntents, mock.AnythingOfType("domain.Intent")).Return(errors.New("redis down"))

	uc := usecase.NewSessionUseCase(&MockGeocodingRepository{}, nil, stream, metrics.New(), testConfig(), zap.NewNop())
	resp, err := uc.Create(context.Background(), dto.CreateSessionRequest{})
	require.NoError(t, err)

	s, err := uc.Session(resp.ID)
	require.NoError(t, err)
	s.MapReady()

	require.True(t, s.ToggleMarkerPlacement())
	require.NoError(t, s.Click(domain.GeoPoint{Lat: -19.92, Lng: -43.93}))
	marker, err := s.SaveMarker(context.Background())
	require.NoError(t, err, "a failed stream publish must not reject the intent")

	scene, err := uc.Scene(resp.ID)
	require.NoError(t, err)
	require.Len(t, scene.Layers.CustomMarkers, 1)
	assert.Equal(t, marker.ID, scene.Layers.CustomMarkers[0].MarkerID)
	stream.AssertNumberOfCalls(t, "PublishToStream", 1)
}

func TestSessionUseCase_ReplaceCollections(t *testing.T) {
	uc := usecase.NewSessionUseCase(&MockGeocodingRepository{}, nil, nil, nil, testConfig(), zap.NewNop())
	resp, err := uc.Create(context.Background(), dto.CreateSessionRequest{})
	require.NoError(t, err)

	s, _ := uc.Session(resp.ID)
	s.MapReady()

	p := domain.GeoPoint{Lat: -19.91, Lng: -43.94}
	scene, err := uc.ReplaceCollections(resp.ID, dto.CollectionsRequest{
		Suspects: []domain.Suspect{{ID: "s1", Name: "Carlos", Status: domain.StatusWanted, ShowOnMap: true, Residence: domain.SuspectLocation{Point: &p}}},
	})
	require.NoError(t, err)
	assert.Len(t, scene.Layers.Suspects, 1)

	_, err = uc.ReplaceCollections(resp.ID, dto.CollectionsRequest{
		Suspects: []domain.Suspect{{ID: "s2", Name: "X", Status: "fugitive"}},
	})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidRequest))

	twice := domain.Suspect{ID: "s1", Name: "Carlos", Status: domain.StatusWanted, ShowOnMap: true, Residence: domain.SuspectLocation{Point: &p}}
	_, err = uc.ReplaceCollections(resp.ID, dto.CollectionsRequest{Suspects: []domain.Suspect{twice, twice}})
	assert.True(t, errors.Is(err, apperrors.ErrDuplicateID))

	scene, err = uc.Scene(resp.ID)
	require.NoError(t, err)
	assert.Len(t, scene.Layers.Suspects, 1)
}

func TestSessionUseCase_Locate(t *testing.T) {
	ctx := context.Background()
	p := domain.GeoPoint{Lat: -19.92, Lng: -43.94}

	t.Run("device fix is used", func(t *testing.T) {
		geo := &MockGeocodingRepository{}
		geo.On("ReverseGeocode", mock.Anything, p).Return(&domain.GeocodedLocation{Name: "Rua da Bahia", Point: p}, nil)
		fallback := &MockLocationRepository{}

		uc := usecase.NewSessionUseCase(geo, fallback, nil, nil, testConfig(), zap.NewNop())
		resp, err := uc.Create(ctx, dto.CreateSessionRequest{})
		require.NoError(t, err)

		out, err := uc.Locate(ctx, resp.ID, dto.LocateRequest{Fix: &dto.DeviceFix{Lat: p.Lat, Lng: p.Lng, Accuracy: 5}})
		require.NoError(t, err)
		assert.Equal(t, "Rua da Bahia", out.Location.Name)
		fallback.AssertNotCalled(t, "GetCurrentPosition", mock.Anything, mock.Anything)
	})

	t.Run("no source is location unavailable", func(t *testing.T) {
		fallback := &MockLocationRepository{}
		fallback.On("GetCurrentPosition", mock.Anything, true).Return(domain.GeoPoint{}, errors.New("denied"))

		uc := usecase.NewSessionUseCase(&MockGeocodingRepository{}, fallback, nil, nil, testConfig(), zap.NewNop())
		resp, err := uc.Create(ctx, dto.CreateSessionRequest{})
		require.NoError(t, err)

		_, err = uc.Locate(ctx, resp.ID, dto.LocateRequest{})
		assert.True(t, errors.Is(err, apperrors.ErrLocationUnavailable))

		scene, _ := uc.Scene(resp.ID)
		assert.NotEmpty(t, scene.Notice)
	})
}

func TestSessionUseCase_SweepAndDelete(t *testing.T) {
	uc := usecase.NewSessionUseCase(&MockGeocodingRepository{}, nil, nil, nil, testConfig(), zap.NewNop())
	a, _ := uc.Create(context.Background(), dto.CreateSessionRequest{})
	b, _ := uc.Create(context.Background(), dto.CreateSessionRequest{})

	assert.Zero(t, uc.Sweep(time.Now()))
	require.NoError(t, uc.Delete(a.ID))
	assert.True(t, errors.Is(uc.Delete(a.ID), apperrors.ErrSessionNotFound))

	assert.Equal(t, 1, uc.Sweep(time.Now().Add(2*time.Hour)))
	_, err := uc.Session(b.ID)
	assert.True(t, errors.Is(err, apperrors.ErrSessionNotFound))
	assert.Zero(t, uc.Count())
}
