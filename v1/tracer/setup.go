package tracer

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

// Logger is the subset of *logger.Logger used during tracer setup and shutdown.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
	Fatal(msg string, err error, fields ...map[string]interface{})
}

// Tracer wraps an OpenTelemetry TracerProvider.
//
// NewClient installs the provider and a W3C trace-context propagator
// globally. The embedding client creates its spans and injects traceparent
// headers through those globals, so installing a Tracer is all that is needed
// to trace embedding calls end to end.
type Tracer struct {
	tracer *trace.TracerProvider
	logger Logger
}

// NewClient creates the tracer provider, optionally with an OTLP/HTTP
// exporter, and registers it globally.
//
// Example:
//
//	t := tracer.NewClient(tracer.Config{ServiceName: "indexer", AppEnv: "prod"}, log)
//	defer t.Shutdown(context.Background())
func NewClient(cfg Config, logger Logger) *Tracer {
	var options []trace.TracerProviderOption

	if cfg.EnableExport {
		exporter, err := otlptrace.New(context.Background(), otlptracehttp.NewClient())
		if err != nil {
			logger.Fatal("cannot initiate tracer", err, nil)
			return nil
		}
		options = append(options, trace.WithBatcher(exporter))
	}

	return newTracer(cfg, logger, options...)
}

func newTracer(cfg Config, logger Logger, options ...trace.TracerProviderOption) *Tracer {
	options = append(options, trace.WithResource(resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.DeploymentEnvironment(cfg.AppEnv),
		attribute.String("environment", cfg.AppEnv),
	)))

	tp := trace.NewTracerProvider(options...)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(newPropagator())

	return &Tracer{tracer: tp, logger: logger}
}

func newPropagator() propagation.TextMapPropagator {
	return propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{})
}

// Shutdown flushes pending spans and stops the provider.
func (t *Tracer) Shutdown(ctx context.Context) error {
	if t == nil || t.tracer == nil {
		return nil
	}
	return t.tracer.Shutdown(ctx)
}
