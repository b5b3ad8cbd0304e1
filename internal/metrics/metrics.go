// Package metrics provides Prometheus metrics for the segmentation service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RunsTotal tracks finished segmentation runs by status
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "segments",
			Subsystem: "run",
			Name:      "runs_total",
			Help:      "Total number of segmentation runs by final status",
		},
		[]string{"status"},
	)

	// RunDuration tracks how long a run takes end to end
	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "segments",
			Subsystem: "run",
			Name:      "duration_seconds",
			Help:      "Duration of segmentation runs in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		},
	)

	// RunsInFlight tracks runs currently executing
	RunsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "segments",
			Subsystem: "run",
			Name:      "in_flight",
			Help:      "Number of segmentation runs currently executing",
		},
	)

	// ActiveUsers is the active population of the last completed run
	ActiveUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "segments",
			Subsystem: "population",
			Name:      "active_users",
			Help:      "Active users considered by the last completed run",
		},
	)

	// SegmentUsers is the user count per segment of the last completed run
	SegmentUsers = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "segments",
			Subsystem: "population",
			Name:      "segment_users",
			Help:      "Users per segment in the last completed run",
		},
		[]string{"segment"},
	)

	// HTTPRequestsTotal tracks served API requests
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "segments",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests served",
		},
		[]string{"method", "route", "status_code"},
	)

	// HTTPRequestDuration tracks API latency
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "segments",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "route"},
	)
)

// RecordSegments replaces the per-segment gauges with the counts of one run
func RecordSegments(activeUsers int, counts map[string]int) {
	ActiveUsers.Set(float64(activeUsers))
	SegmentUsers.Reset()
	for segment, n := range counts {
		SegmentUsers.WithLabelValues(segment).Set(float64(n))
	}
}
