package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	registry *prometheus.Registry

	// Session metrics
	SessionsActive       prometheus.Gauge
	SessionsCreatedTotal prometheus.Counter
	SessionsDeletedTotal prometheus.Counter

	// Conversation metrics
	MessagesTotal       *prometheus.CounterVec
	BackendCallDuration *prometheus.HistogramVec
	BackendErrorsTotal  *prometheus.CounterVec

	// Upload metrics
	UploadsTotal          prometheus.Counter
	ExtractionErrorsTotal prometheus.Counter
}

// New creates and registers all metrics on a fresh registry
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,

		SessionsActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "sessions_active",
				Help: "Number of live chat sessions",
			},
		),
		SessionsCreatedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "sessions_created_total",
				Help: "Total number of chat sessions created",
			},
		),
		SessionsDeletedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "sessions_deleted_total",
				Help: "Total number of chat sessions deleted",
			},
		),
		MessagesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "messages_total",
				Help: "Total number of messages appended to histories",
			},
			[]string{"role"},
		),
		BackendCallDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "backend_call_duration_seconds",
				Help:    "Duration of AI backend calls in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider"},
		),
		BackendErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backend_errors_total",
				Help: "Total number of failed AI backend calls",
			},
			[]string{"provider"},
		),
		UploadsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "uploads_total",
				Help: "Total number of document uploads",
			},
		),
		ExtractionErrorsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "extraction_errors_total",
				Help: "Total number of failed text extractions",
			},
		),
	}

	registry.MustRegister(
		m.SessionsActive,
		m.SessionsCreatedTotal,
		m.SessionsDeletedTotal,
		m.MessagesTotal,
		m.BackendCallDuration,
		m.BackendErrorsTotal,
		m.UploadsTotal,
		m.ExtractionErrorsTotal,
	)

	return m
}

// Handler returns an HTTP handler serving the metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
