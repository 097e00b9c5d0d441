// Package metrics holds the Prometheus collectors exported on /metrics.
// Every recorder method is safe to call on a nil *AppMetrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type AppMetrics struct {
	requestDuration   *prometheus.HistogramVec
	requestTotal      *prometheus.CounterVec
	activeConnections prometheus.Gauge
	userOperations    *prometheus.CounterVec
	rateLimitHits     *prometheus.CounterVec
}

func NewAppMetrics(registry prometheus.Registerer) *AppMetrics {
	m := &AppMetrics{
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		activeConnections: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_active_connections",
				Help: "Number of in-flight HTTP requests",
			},
		),
		userOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "user_operations_total",
				Help: "Total number of user operations by outcome",
			},
			[]string{"operation", "outcome"},
		),
		rateLimitHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_limit_hits_total",
				Help: "Total number of requests rejected by the rate limiter",
			},
			[]string{"path"},
		),
	}

	registry.MustRegister(
		m.requestDuration,
		m.requestTotal,
		m.activeConnections,
		m.userOperations,
		m.rateLimitHits,
	)

	return m
}

func (m *AppMetrics) RecordRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, code).Inc()
}

func (m *AppMetrics) IncrementActiveConnections() {
	if m == nil {
		return
	}
	m.activeConnections.Inc()
}

func (m *AppMetrics) DecrementActiveConnections() {
	if m == nil {
		return
	}
	m.activeConnections.Dec()
}

// RecordUserOperation counts a usecase call; outcome is "ok" or an error class.
func (m *AppMetrics) RecordUserOperation(operation, outcome string) {
	if m == nil {
		return
	}
	m.userOperations.WithLabelValues(operation, outcome).Inc()
}

func (m *AppMetrics) RecordRateLimitHit(path string) {
	if m == nil {
		return
	}
	m.rateLimitHits.WithLabelValues(path).Inc()
}
