package googlemaps

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"googlemaps.github.io/maps"

	"github.com/tactical-map/internal/config"
	"github.com/tactical-map/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	repo, err := NewGoogleMapsClient(&config.GeocodingConfig{
		Provider: "google",
		BaseURL:  server.URL,
		APIKey:   "AIza-test",
		Language: "pt-BR",
		Limit:    5,
		Timeout:  2 * time.Second,
	}, zap.NewNop())
	require.NoError(t, err)
	return repo.(*Client)
}

func TestClient_SearchAddress(t *testing.T) {
	t.Run("country restriction and short name", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/maps/api/geocode/json", r.URL.Path)
			assert.Equal(t, "Avenida Afonso Pena", r.URL.Query().Get("address"))
			assert.Equal(t, "country:BR", r.URL.Query().Get("components"))
			assert.Equal(t, "AIza-test", r.URL.Query().Get("key"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"status":"OK","results":[{
				"formatted_address":"Av. Afonso Pena, 1212 - Centro, Belo Horizonte - MG, Brasil",
				"geometry":{"location":{"lat":-19.9245,"lng":-43.9352}},
				"address_components":[
					{"long_name":"1212","short_name":"1212","types":["street_number"]},
					{"long_name":"Avenida Afonso Pena","short_name":"Av. Afonso Pena","types":["route"]},
					{"long_name":"Centro","short_name":"Centro","types":["sublocality_level_1","sublocality","political"]},
					{"long_name":"Belo Horizonte","short_name":"Belo Horizonte","types":["administrative_area_level_2","political"]}
				]}]}`))
		})

		results, err := c.SearchAddress(context.Background(), "Avenida Afonso Pena", "br")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Avenida Afonso Pena, 1212, Centro, Belo Horizonte", results[0].Name)
		assert.Equal(t, domain.GeoPoint{Lat: -19.9245, Lng: -43.9352}, results[0].Point)
	})

	t.Run("zero results is empty", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status":"ZERO_RESULTS","results":[]}`))
		})

		results, err := c.SearchAddress(context.Background(), "qwertyuiop", "br")
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("denied is an error", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status":"REQUEST_DENIED","error_message":"bad key","results":[]}`))
		})

		_, err := c.SearchAddress(context.Background(), "Savassi", "br")
		assert.Error(t, err)
	})
}

func TestClient_ReverseGeocode(t *testing.T) {
	p := domain.GeoPoint{Lat: -19.9, Lng: -43.9}

	t.Run("formatted address fallback", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "-19.900000,-43.900000", r.URL.Query().Get("latlng"))
			_, _ = w.Write([]byte(`{"status":"OK","results":[{
				"formatted_address":"Belo Horizonte - MG, Brasil",
				"geometry":{"location":{"lat":-19.9,"lng":-43.9}},
				"address_components":[{"long_name":"Minas Gerais","short_name":"MG","types":["administrative_area_level_1"]}]}]}`))
		})

		loc, err := c.ReverseGeocode(context.Background(), p)
		require.NoError(t, err)
		require.NotNil(t, loc)
		assert.Equal(t, "Belo Horizonte - MG, Brasil", loc.Name)
		assert.Equal(t, p, loc.Point)
	})

	t.Run("zero results", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status":"ZERO_RESULTS","results":[]}`))
		})

		loc, err := c.ReverseGeocode(context.Background(), p)
		require.NoError(t, err)
		assert.Nil(t, loc)
	})
}

func TestShortName(t *testing.T) {
	res := maps.GeocodingResult{
		FormattedAddress: "Brasil",
		AddressComponents: []maps.AddressComponent{
			{LongName: "Savassi", Types: []string{"neighborhood"}},
			{LongName: "Belo Horizonte", Types: []string{"locality"}},
		},
	}
	assert.Equal(t, "Savassi, Belo Horizonte", shortName(res))
	assert.Equal(t, "Brasil", shortName(maps.GeocodingResult{FormattedAddress: " Brasil "}))
}
