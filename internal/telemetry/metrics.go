package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the mentor gateway.
type Metrics struct {
	RequestTotal         *prometheus.CounterVec
	RequestDurationMs    *prometheus.HistogramVec
	RateLimitHitTotal    prometheus.Counter
	OriginDeniedTotal    prometheus.Counter
	UpstreamAttemptTotal *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		RequestTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "mentor_request_total",
			Help: "Total number of requests processed by the gateway.",
		}, []string{"route", "status"}),

		RequestDurationMs: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mentor_request_duration_ms",
			Help:    "Total request duration in milliseconds (including provider latency).",
			Buckets: []float64{10, 50, 100, 250, 500, 1000, 2500, 5000, 12000, 30000},
		}, []string{"route"}),

		RateLimitHitTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mentor_rate_limit_hit_total",
			Help: "Total requests rejected by the rate limiter.",
		}),

		OriginDeniedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mentor_origin_denied_total",
			Help: "Total requests rejected by the origin allowlist.",
		}),

		UpstreamAttemptTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "mentor_upstream_attempt_total",
			Help: "Completion provider attempts by outcome.",
		}, []string{"outcome"}),
	}
}

// RecordRequest records a completed request.
func (m *Metrics) RecordRequest(route, status string, durationMs float64) {
	m.RequestTotal.WithLabelValues(route, status).Inc()
	m.RequestDurationMs.WithLabelValues(route).Observe(durationMs)
}

// RecordRateLimitHit records a rate-limited request.
func (m *Metrics) RecordRateLimitHit() {
	m.RateLimitHitTotal.Inc()
}

// RecordOriginDenied records an origin-denied request.
func (m *Metrics) RecordOriginDenied() {
	m.OriginDeniedTotal.Inc()
}

// RecordUpstreamAttempt records one completion-provider attempt.
// Outcomes: ok, retried, fallback, error, timeout.
func (m *Metrics) RecordUpstreamAttempt(outcome string) {
	m.UpstreamAttemptTotal.WithLabelValues(outcome).Inc()
}
