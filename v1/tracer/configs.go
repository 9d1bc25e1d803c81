package tracer

// Config controls the tracer provider.
type Config struct {
	// ServiceName is recorded as the service.name resource attribute.
	ServiceName string `yaml:"service_name" envconfig:"TRACER_SERVICE_NAME"`

	// AppEnv is recorded as deployment.environment and environment.
	AppEnv string `yaml:"app_env" envconfig:"APP_ENV"`

	// EnableExport sends spans to an OTLP/HTTP collector configured through the
	// standard OTEL_EXPORTER_OTLP_* environment variables.
	EnableExport bool `yaml:"enable_export" envconfig:"TRACER_ENABLE_EXPORT"`
}
