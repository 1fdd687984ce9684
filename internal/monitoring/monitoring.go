// FilePath: internal/monitoring/monitoring.go
package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vigilaire/hub/internal/models"
)

// Metrics holds the process-wide instrumentation for the hub.
type Metrics struct {
	registry *prometheus.Registry

	readingsIngested prometheus.Counter
	connectionEvents *prometheus.CounterVec
	fallbackActive   prometheus.Gauge
	wsSessions       prometheus.Gauge
}

// New registers all hub metrics on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		readingsIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vigilaire_readings_ingested_total",
			Help: "Readings accepted through the ingestion path.",
		}),
		connectionEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vigilaire_connection_events_total",
			Help: "Connection events journaled, by transition type.",
		}, []string{"type"}),
		fallbackActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "vigilaire_fallback_active",
			Help: "1 when the process has latched onto the in-memory fallback store.",
		}),
		wsSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "vigilaire_ws_sessions",
			Help: "Currently registered realtime channels.",
		}),
	}

	m.registry.MustRegister(m.readingsIngested, m.connectionEvents, m.fallbackActive, m.wsSessions)
	return m
}

func (m *Metrics) ReadingIngested() {
	m.readingsIngested.Inc()
}

func (m *Metrics) ConnectionEvent(eventType models.EventType) {
	m.connectionEvents.WithLabelValues(string(eventType)).Inc()
}

func (m *Metrics) SetFallbackActive(active bool) {
	if active {
		m.fallbackActive.Set(1)
	} else {
		m.fallbackActive.Set(0)
	}
}

func (m *Metrics) SessionOpened() {
	m.wsSessions.Inc()
}

func (m *Metrics) SessionClosed() {
	m.wsSessions.Dec()
}

// Handler exposes the registry in Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
