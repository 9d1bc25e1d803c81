package logger

// Supported log levels.
const (
	Debug   = "debug"
	Info    = "info"
	Warning = "warning"
	Error   = "error"
)

// Config holds the logger settings.
type Config struct {
	// Level is one of Debug, Info, Warning or Error. Anything else falls back to Info.
	Level string `yaml:"level" envconfig:"ZAP_LOGGER_LEVEL"`

	// EnableTracing adds trace_id and span_id to entries written through the
	// *WithContext methods when the context carries an active span.
	EnableTracing bool `yaml:"enable_tracing" envconfig:"LOGGER_ENABLE_TRACING"`

	// ServiceName is attached to every entry as the "service" field.
	ServiceName string `yaml:"service_name" envconfig:"LOGGER_SERVICE_NAME"`
}
