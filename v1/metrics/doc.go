// Package metrics exposes Prometheus metrics for embedding calls.
//
// *Metrics implements observability.Observer. Pass it to the embedding
// client and every logical call is recorded:
//
//	m := metrics.NewMetrics(metrics.Config{Address: ":9090", ServiceName: "indexer"})
//	client, err := embedding.New(opts, embedding.WithObserver(m))
//
// Recorded series (prefixed with Config.Namespace when set, and labelled with
// service="<ServiceName>"):
//
//	operations_total{component,operation,resource,outcome}
//	operation_duration_seconds{component,operation,resource}
//	attempts_total{component,resource}
//	retries_total{component,resource}
//	items_total{component,resource}
//
// For embeddings, resource is the variant (hosted, gateway, self_hosted) and
// outcome is success, rate_limited, error.
//
// Additional collectors can be registered with CreateCounter and
// CreateHistogram or directly on Registry.
//
// # Configuration
//
//	METRICS_ADDRESS=:9090
//	METRICS_ENABLE_DEFAULT_COLLECTORS=true
//	METRICS_NAMESPACE=search
//	METRICS_SERVICE_NAME=indexer
package metrics
