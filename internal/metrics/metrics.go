// Package metrics exposes prometheus counters and histograms for the
// two surfaces a deployment of this runtime cares about: HTTP requests
// against internal/debugserver, and conv operations against arbitrary
// callers. Both follow the same CounterVec/HistogramVec-plus-sync.Once
// registration pattern.
package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "extprot",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests against the debug server.",
		},
		[]string{"service", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "extprot",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path", "status"},
	)
	convOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "extprot",
			Subsystem: "conv",
			Name:      "operations_total",
			Help:      "Total conv facade operations, by outcome.",
		},
		[]string{"op", "outcome"},
	)
	convDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "extprot",
			Subsystem: "conv",
			Name:      "operation_duration_seconds",
			Help:      "conv facade operation duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"op", "outcome"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, convOperations, convDuration)
	})
}

func RecordHTTPRequest(service, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(service, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(service, method, path, statusLabel).Observe(duration.Seconds())
}

// RecordConvOperation records one conv facade call. outcome is the
// result of Outcome(err): "ok" or "error".
func RecordConvOperation(op, outcome string, duration time.Duration) {
	RegisterMetrics()
	convOperations.WithLabelValues(op, outcome).Inc()
	convDuration.WithLabelValues(op, outcome).Observe(duration.Seconds())
}

// Outcome reduces an error to a small, bounded label set suitable for a
// metric dimension — unlike error.Error(), which is unbounded and would
// blow up cardinality.
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return "error"
}
