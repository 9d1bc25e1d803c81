package tracer

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	traceSpan "go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/Aleph-Alpha/embeddings"

// StartSpan starts a span named name as a child of any span in ctx, with
// attrs set from the start so samplers can see them. The caller must End the
// returned span.
func (t *Tracer) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, traceSpan.Span) {
	return t.tracer.Tracer(instrumentationName).Start(ctx, name, traceSpan.WithAttributes(attrs...))
}

// RecordErrorOnSpan records err on span and marks the span as failed.
func (t *Tracer) RecordErrorOnSpan(span traceSpan.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// SetAttributes adds attrs to span. Strings, ints, int64s, float64s and bools
// keep their type; everything else is stored with fmt.Sprint.
func (t *Tracer) SetAttributes(span traceSpan.Span, attrs map[string]interface{}) {
	if len(attrs) == 0 {
		return
	}

	attributes := make([]attribute.KeyValue, 0, len(attrs))
	for k, v := range attrs {
		switch val := v.(type) {
		case string:
			attributes = append(attributes, attribute.String(k, val))
		case int:
			attributes = append(attributes, attribute.Int(k, val))
		case int64:
			attributes = append(attributes, attribute.Int64(k, val))
		case float64:
			attributes = append(attributes, attribute.Float64(k, val))
		case bool:
			attributes = append(attributes, attribute.Bool(k, val))
		default:
			attributes = append(attributes, attribute.String(k, fmt.Sprint(val)))
		}
	}

	span.SetAttributes(attributes...)
}

// GetCarrier returns the W3C trace context of ctx as a header map
// ("traceparent", and "tracestate"/"baggage" when present).
func (t *Tracer) GetCarrier(ctx context.Context) map[string]string {
	carrier := propagation.MapCarrier{}
	newPropagator().Inject(ctx, carrier)
	return carrier
}

// SetCarrierOnContext is the inverse of GetCarrier.
func (t *Tracer) SetCarrierOnContext(ctx context.Context, carrier map[string]string) context.Context {
	return newPropagator().Extract(ctx, propagation.MapCarrier(carrier))
}
