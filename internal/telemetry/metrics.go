// Package telemetry registers the Prometheus collectors exposed at /metrics.
//
// HTTP metrics are labelled with the Gin route template (c.FullPath()), never
// the raw URL, so ids in paths such as /alerts/:id/resolve do not create a
// series per record.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ricemill"

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests processed, by method, route template, and status code.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Histogram of HTTP request latencies, by method and route template.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)
)

// AuditWriteFailuresTotal counts audit entries that could not be persisted
// after the business mutation had already succeeded.
var AuditWriteFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_write_failures_total",
		Help:      "Audit entries dropped because the audit store rejected the write, by module.",
	},
	[]string{"module"},
)

var (
	AlertsRaisedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_raised_total",
			Help:      "Alerts created, by alert type.",
		},
		[]string{"type"},
	)

	StockScansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_scans_total",
			Help:      "Scheduled low-stock scans, by result (ok, error).",
		},
		[]string{"result"},
	)
)

var (
	RateLimitRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ratelimit_rejections_total",
			Help:      "Requests rejected with 429, by rule.",
		},
		[]string{"rule"},
	)

	IdempotentReplaysTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "idempotent_replays_total",
			Help:      "Responses replayed from the idempotency cache.",
		},
	)
)
