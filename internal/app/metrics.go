package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trend_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trend_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "route"},
	)

	loginFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "trend_login_failures_total",
			Help: "Total number of rejected login attempts",
		},
	)
)

// metricsRoute collapses request paths onto the fixed route set so the
// route label stays bounded no matter what clients send.
func metricsRoute(path string) string {
	switch path {
	case "/login", "/api/current", "/api/series", "/healthz", "/readyz", "/metrics":
		return path
	default:
		return "other"
	}
}
