package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Aleph-Alpha/embeddings/v1/observability"
)

// MetricsCollector is implemented by *Metrics.
//
// It is an observability.Observer, so it can be handed directly to
// embedding.WithObserver, and it lets applications register their own
// collectors on the same registry.
type MetricsCollector interface {
	observability.Observer

	// CreateCounter creates and registers a CounterVec.
	CreateCounter(name, help string, labels []string) *prometheus.CounterVec

	// CreateHistogram creates and registers a HistogramVec.
	CreateHistogram(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec
}
