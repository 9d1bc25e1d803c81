package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Aleph-Alpha/embeddings/v1/observability"
)

// ObserveOperation records one completed operation.
//
// The outcome label comes from Metadata["outcome"] and becomes "error" when
// the operation returned an error. Metadata["attempts"] feeds the attempt and
// retry counters.
func (m *Metrics) ObserveOperation(op observability.OperationContext) {
	outcome := "unknown"
	if v, ok := op.Metadata["outcome"].(string); ok && v != "" {
		outcome = v
	}
	if op.Error != nil {
		outcome = "error"
	}

	m.operationsTotal.WithLabelValues(op.Component, op.Operation, op.Resource, outcome).Inc()
	m.operationDuration.WithLabelValues(op.Component, op.Operation, op.Resource).Observe(op.Duration.Seconds())

	if attempts, ok := op.Metadata["attempts"].(int); ok && attempts > 0 {
		m.attemptsTotal.WithLabelValues(op.Component, op.Resource).Add(float64(attempts))
		if attempts > 1 {
			m.retriesTotal.WithLabelValues(op.Component, op.Resource).Add(float64(attempts - 1))
		}
	}
	if op.Size > 0 {
		m.itemsTotal.WithLabelValues(op.Component, op.Resource).Add(float64(op.Size))
	}
}

// CreateCounter creates a new CounterVec and registers it with the service label.
func (m *Metrics) CreateCounter(name, help string, labels []string) *prometheus.CounterVec {
	counter := m.newCounterVec(name, help, labels)
	m.registerer.MustRegister(counter)
	return counter
}

// CreateHistogram creates a new HistogramVec and registers it with the service label.
func (m *Metrics) CreateHistogram(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	hist := m.newHistogramVec(name, help, labels, buckets)
	m.registerer.MustRegister(hist)
	return hist
}

func (m *Metrics) newCounterVec(name, help string, labels []string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Name:      name,
			Help:      help,
		},
		labels,
	)
}

func (m *Metrics) newHistogramVec(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}
	return prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Name:      name,
			Help:      help,
			Buckets:   buckets,
		},
		labels,
	)
}
