// Package metrics defines the Prometheus collectors for the media pipeline.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	StatusOK       = "ok"
	StatusNotFound = "not_found"
	StatusError    = "error"
)

var registerOnce sync.Once

var (
	// OperationsTotal counts adapter operations by name and outcome.
	OperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_operations_total",
			Help: "Media storage operations by type and outcome",
		},
		[]string{"operation", "status"},
	)

	// TranscodeDuration observes how long decode, resize and encode take.
	TranscodeDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "media_transcode_duration_seconds",
			Help:    "Image transcode latency in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	// UploadBytes observes the size of encoded objects written to the store.
	UploadBytes = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "media_upload_bytes",
			Help:    "Size of uploaded objects in bytes",
			Buckets: prometheus.ExponentialBuckets(4096, 4, 8),
		},
	)
)

// Register adds all collectors to the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(OperationsTotal, TranscodeDuration, UploadBytes)
	})
}

func ObserveOperation(operation, status string) {
	OperationsTotal.WithLabelValues(operation, status).Inc()
}
