package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a dedicated Prometheus registry, the operation metrics fed by
// ObserveOperation and the HTTP server exposing /metrics.
type Metrics struct {
	// Server serves the registry on Config.Address.
	Server *http.Server

	// Registry holds every metric of this instance.
	Registry *prometheus.Registry

	// registerer adds the constant service label before registering on Registry.
	registerer prometheus.Registerer

	namespace string

	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	attemptsTotal     *prometheus.CounterVec
	retriesTotal      *prometheus.CounterVec
	itemsTotal        *prometheus.CounterVec
}

// Latency buckets sized for embedding calls, which include retry waits of
// several seconds.
var operationBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8, 16, 32}

// NewMetrics creates the registry, registers the operation metrics (and the
// default collectors when enabled) and prepares, but does not start, the
// /metrics server.
//
// Example:
//
//	m := metrics.NewMetrics(metrics.Config{Address: ":9090", ServiceName: "indexer"})
//	client, _ := embedding.New(opts, embedding.WithObserver(m))
//	go m.Server.ListenAndServe()
func NewMetrics(cfg Config) *Metrics {
	registry := prometheus.NewRegistry()

	wrapped := prometheus.WrapRegistererWith(
		prometheus.Labels{"service": cfg.ServiceName},
		registry,
	)

	m := &Metrics{
		Registry:   registry,
		registerer: wrapped,
		namespace:  cfg.Namespace,
	}

	m.operationsTotal = m.newCounterVec("operations_total",
		"Total number of observed operations by outcome.",
		[]string{"component", "operation", "resource", "outcome"})
	m.operationDuration = m.newHistogramVec("operation_duration_seconds",
		"Wall time of observed operations, retry waits included.",
		[]string{"component", "operation", "resource"}, operationBuckets)
	m.attemptsTotal = m.newCounterVec("attempts_total",
		"Physical HTTP attempts performed by observed operations.",
		[]string{"component", "resource"})
	m.retriesTotal = m.newCounterVec("retries_total",
		"Attempts that were repeated after a rate-limit response.",
		[]string{"component", "resource"})
	m.itemsTotal = m.newCounterVec("items_total",
		"Input items processed by observed operations.",
		[]string{"component", "resource"})

	wrapped.MustRegister(
		m.operationsTotal,
		m.operationDuration,
		m.attemptsTotal,
		m.retriesTotal,
		m.itemsTotal,
	)

	if cfg.EnableDefaultCollectors {
		wrapped.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewBuildInfoCollector(),
		)
	}

	address := cfg.Address
	if address == "" {
		address = DefaultMetricsAddress
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	m.Server = &http.Server{
		Addr:    address,
		Handler: mux,
	}
	return m
}
