package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the portal
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Session store metrics
	SessionsOpenedTotal    prometheus.Counter
	DocumentsSavedTotal    prometheus.Counter
	DocumentsRejectedTotal *prometheus.CounterVec
	DocumentBytesTotal     prometheus.Counter
	PagesExtractedTotal    prometheus.Counter

	// Mirror metrics
	MirrorUploadsTotal *prometheus.CounterVec
}

// NewMetrics creates and registers all metrics on a private registry
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,

		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portal_http_requests_total",
				Help: "Total number of HTTP requests by route, method and status",
			},
			[]string{"route", "method", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "portal_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),

		SessionsOpenedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "portal_sessions_opened_total",
				Help: "Total number of sessions created or reopened",
			},
		),
		DocumentsSavedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "portal_documents_saved_total",
				Help: "Total number of PDFs saved into sessions",
			},
		),
		DocumentsRejectedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portal_documents_rejected_total",
				Help: "Total number of uploads rejected, by error type",
			},
			[]string{"reason"},
		),
		DocumentBytesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "portal_document_bytes_total",
				Help: "Total bytes of PDFs written to session directories",
			},
		),
		PagesExtractedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "portal_pages_extracted_total",
				Help: "Total number of PDF pages read back as text",
			},
		),

		MirrorUploadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portal_mirror_uploads_total",
				Help: "Total number of mirror uploads by status",
			},
			[]string{"status"},
		),
	}

	m.registerMetrics()

	return m
}

// registerMetrics registers all metrics with the registry
func (m *Metrics) registerMetrics() {
	m.registry.MustRegister(m.HTTPRequestsTotal)
	m.registry.MustRegister(m.HTTPRequestDuration)

	m.registry.MustRegister(m.SessionsOpenedTotal)
	m.registry.MustRegister(m.DocumentsSavedTotal)
	m.registry.MustRegister(m.DocumentsRejectedTotal)
	m.registry.MustRegister(m.DocumentBytesTotal)
	m.registry.MustRegister(m.PagesExtractedTotal)

	m.registry.MustRegister(m.MirrorUploadsTotal)
}

// Handler returns an HTTP handler for the metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Registry returns the Prometheus registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
