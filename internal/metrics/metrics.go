package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the application collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	httpActive     prometheus.Gauge
	weatherCalls   *prometheus.CounterVec
	weatherErrors  *prometheus.CounterVec
	activeSessions prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		httpActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_active_requests",
			Help: "Number of active HTTP requests",
		}),
		weatherCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "weather_api_calls_total",
			Help: "Total forecast lookups sent to the weather API",
		}, []string{"outcome"}),
		weatherErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "weather_api_errors_total",
			Help: "Failed forecast lookups by failure kind",
		}, []string{"kind"}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "widget_sessions_active",
			Help: "Number of live widget sessions",
		}),
	}

	m.registry.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.httpActive,
		m.weatherCalls,
		m.weatherErrors,
		m.activeSessions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Registry exposes the underlying registry, mostly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) RequestStarted() {
	m.httpActive.Inc()
}

func (m *Metrics) RequestFinished(method, route, status string, seconds float64) {
	m.httpActive.Dec()
	m.httpRequests.WithLabelValues(method, route, status).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(seconds)
}

// RecordWeatherCall counts one forecast lookup. kind is ignored on success.
func (m *Metrics) RecordWeatherCall(ctx context.Context, success bool, kind string) {
	if success {
		m.weatherCalls.WithLabelValues("success").Inc()
		return
	}
	m.weatherCalls.WithLabelValues("failure").Inc()
	m.weatherErrors.WithLabelValues(kind).Inc()
}

func (m *Metrics) SetActiveSessions(n int) {
	m.activeSessions.Set(float64(n))
}
