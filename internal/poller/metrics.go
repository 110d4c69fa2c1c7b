// Package poller provides Prometheus metrics for refresh monitoring.
package poller

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RefreshesTotal counts refresh runs.
	// Labels: job, result (success, error)
	RefreshesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lifedash",
			Subsystem: "poller",
			Name:      "refreshes_total",
			Help:      "Total number of refresh runs by job and result",
		},
		[]string{"job", "result"},
	)

	// RefreshDuration tracks how long refresh runs take.
	RefreshDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "lifedash",
			Subsystem: "poller",
			Name:      "refresh_duration_seconds",
			Help:      "Duration of refresh runs in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"job"},
	)
)

// recordRefresh records the outcome of one refresh run.
func recordRefresh(job string, elapsed time.Duration, err error) {
	if err != nil {
		RefreshesTotal.WithLabelValues(job, "error").Inc()
		return
	}
	RefreshesTotal.WithLabelValues(job, "success").Inc()
	RefreshDuration.WithLabelValues(job).Observe(elapsed.Seconds())
}
