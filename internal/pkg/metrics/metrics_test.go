package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.ObserveGeocode(KindSearch, OutcomeOK, time.Second)
	m.IncIntent("marker.created")
	m.SetActiveSessions(3)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetrics_Counters(t *testing.T) {
	m := New()
	m.ObserveGeocode(KindReverse, OutcomeEmpty, 20*time.Millisecond)
	m.ObserveGeocode(KindReverse, OutcomeCacheHit, 0)
	m.IncIntent("area.created")
	m.IncIntent("area.created")
	m.SetActiveSessions(2)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.geocodeRequests.WithLabelValues(KindReverse, OutcomeEmpty)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.intentsEmitted.WithLabelValues("area.created")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.activeSessions))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "tactical_map_geocode_requests_total"))
}
