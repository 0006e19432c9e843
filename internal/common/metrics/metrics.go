// Package metrics defines the Prometheus metrics exposed on /metrics.
// Database instrumentation lives in the repository package; this package
// covers the HTTP surface and the speech synthesizer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal tracks HTTP API requests
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "flowconfig",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP API requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration tracks HTTP API request duration
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "flowconfig",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP API request duration",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// SpeechSynthesisTotal tracks speech preview synthesis calls by engine
	SpeechSynthesisTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "flowconfig",
			Subsystem: "speech",
			Name:      "synthesis_total",
			Help:      "Total speech synthesis calls",
		},
		[]string{"engine", "outcome"},
	)

	// RuntimeResolveSize tracks the serialized size of runtime responses.
	// The runtime caller rejects responses over 32KB, so the distribution
	// matters more than the average.
	RuntimeResolveSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "flowconfig",
			Subsystem: "runtime",
			Name:      "resolve_size_bytes",
			Help:      "Serialized size of resolved runtime responses",
			Buckets:   []float64{512, 1024, 4096, 8192, 16384, 24576, 30000, 32768},
		},
	)
)
