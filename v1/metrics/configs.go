package metrics

// DefaultMetricsAddress is used when Config.Address is empty.
const DefaultMetricsAddress = ":9090"

// Config defines how metrics are exposed.
type Config struct {
	// Address is where the /metrics HTTP server listens, e.g. ":9090".
	Address string `yaml:"address" envconfig:"METRICS_ADDRESS"`

	// EnableDefaultCollectors registers the Go runtime, process and build info
	// collectors next to the embedding metrics.
	EnableDefaultCollectors bool `yaml:"enable_default_collectors" envconfig:"METRICS_ENABLE_DEFAULT_COLLECTORS"`

	// Namespace prefixes every metric name, e.g. "search" gives "search_operations_total".
	Namespace string `yaml:"namespace" envconfig:"METRICS_NAMESPACE"`

	// ServiceName is added as a constant "service" label to all metrics.
	ServiceName string `yaml:"service_name" envconfig:"METRICS_SERVICE_NAME"`
}
