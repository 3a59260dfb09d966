package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Geocode request kinds.
const (
	KindSearch  = "search"
	KindReverse = "reverse"
)

// Geocode outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeEmpty    = "empty"
	OutcomeError    = "error"
	OutcomeCacheHit = "cache_hit"
)

// Metrics is nil-safe: every method is a no-op on a nil receiver.
type Metrics struct {
	registry        *prometheus.Registry
	geocodeRequests *prometheus.CounterVec
	geocodeDuration *prometheus.HistogramVec
	intentsEmitted  *prometheus.CounterVec
	activeSessions  prometheus.Gauge
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	geocodeRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tactical_map",
		Name:      "geocode_requests_total",
		Help:      "Geocoding lookups by kind and outcome",
	}, []string{"kind", "outcome"})

	geocodeDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tactical_map",
		Name:      "geocode_request_duration_seconds",
		Help:      "Latency of upstream geocoding calls",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"kind"})

	intentsEmitted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tactical_map",
		Name:      "intents_emitted_total",
		Help:      "Create/update/delete intents emitted by map sessions",
	}, []string{"kind"})

	activeSessions := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "tactical_map",
		Name:      "active_sessions",
		Help:      "Map sessions currently held in memory",
	})

	registry.MustRegister(geocodeRequests, geocodeDuration, intentsEmitted, activeSessions)

	return &Metrics{
		registry:        registry,
		geocodeRequests: geocodeRequests,
		geocodeDuration: geocodeDuration,
		intentsEmitted:  intentsEmitted,
		activeSessions:  activeSessions,
	}
}

func (m *Metrics) ObserveGeocode(kind, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.geocodeRequests.WithLabelValues(kind, outcome).Inc()
	if outcome != OutcomeCacheHit {
		m.geocodeDuration.WithLabelValues(kind).Observe(duration.Seconds())
	}
}

func (m *Metrics) IncIntent(kind string) {
	if m == nil {
		return
	}
	m.intentsEmitted.WithLabelValues(kind).Inc()
}

func (m *Metrics) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.activeSessions.Set(float64(n))
}

// Registry is exposed for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler exposes the registry over HTTP.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("metrics unavailable"))
		})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
