package mapbox

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tactical-map/internal/config"
	"github.com/tactical-map/internal/domain"
	"github.com/tactical-map/internal/domain/repository"
)

const searchBody = `{
  "type": "FeatureCollection",
  "features": [
    {
      "text": "Rua da Bahia",
      "address": "1148",
      "place_name": "Rua da Bahia 1148, Centro, Belo Horizonte - Minas Gerais, Brazil",
      "center": [-43.9352, -19.9245],
      "context": [
        {"id": "neighborhood.1", "text": "Centro"},
        {"id": "place.2", "text": "Belo Horizonte"},
        {"id": "region.3", "text": "Minas Gerais"}
      ]
    },
    {
      "text": "Broken",
      "place_name": "Broken",
      "center": []
    }
  ]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) repository.GeocodingRepository {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := NewMapboxClient(&config.GeocodingConfig{
		BaseURL:  server.URL,
		APIKey:   "test_token",
		Language: "pt",
		Limit:    3,
		Timeout:  5 * time.Second,
	}, zap.NewNop())
	require.NoError(t, err)
	return c
}

func TestClient_SearchAddress(t *testing.T) {
	t.Run("successful request", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/geocoding/v5/mapbox.places/rua da bahia.json", r.URL.Path)
			q := r.URL.Query()
			assert.Equal(t, "test_token", q.Get("access_token"))
			assert.Equal(t, "br", q.Get("country"))
			assert.Equal(t, "3", q.Get("limit"))
			assert.Equal(t, "pt", q.Get("language"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(searchBody))
		})

		results, err := c.SearchAddress(context.Background(), "rua da bahia", "BR")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Rua da Bahia, 1148, Centro, Belo Horizonte", results[0].Name)
		assert.Equal(t, domain.GeoPoint{Lat: -19.9245, Lng: -43.9352}, results[0].Point)
	})

	t.Run("api error", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Not Authorized - Invalid Token"}`))
		})

		_, err := c.SearchAddress(context.Background(), "rua da bahia", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 401")
	})
}

func TestClient_ReverseGeocode(t *testing.T) {
	t.Run("lng,lat order", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/geocoding/v5/mapbox.places/-43.935200,-19.924500.json", r.URL.Path)
			assert.Equal(t, "1", r.URL.Query().Get("limit"))
			_, _ = w.Write([]byte(searchBody))
		})

		p := domain.GeoPoint{Lat: -19.9245, Lng: -43.9352}
		loc, err := c.ReverseGeocode(context.Background(), p)
		require.NoError(t, err)
		require.NotNil(t, loc)
		assert.Equal(t, "Rua da Bahia, 1148, Centro, Belo Horizonte", loc.Name)
		assert.Equal(t, p, loc.Point)
	})

	t.Run("nothing found", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"type":"FeatureCollection","features":[]}`))
		})

		loc, err := c.ReverseGeocode(context.Background(), domain.GeoPoint{Lat: 0, Lng: 0})
		require.NoError(t, err)
		assert.Nil(t, loc)
	})
}

func TestNewMapboxClient_RequiresToken(t *testing.T) {
	_, err := NewMapboxClient(&config.GeocodingConfig{}, zap.NewNop())
	assert.Error(t, err)
}

func TestFeature_ShortName(t *testing.T) {
	f := feature{Text: "Praça Sete", PlaceName: "Praça Sete, Belo Horizonte, Brazil"}
	assert.Equal(t, "Praça Sete, Belo Horizonte, Brazil", f.shortName())

	f.Context = []contextEntry{{ID: "place.1", Text: "Belo Horizonte"}}
	assert.Equal(t, "Praça Sete, Belo Horizonte", f.shortName())
}
