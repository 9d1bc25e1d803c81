package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// convertToZapFields turns the optional error and field maps into zap fields.
// Later maps override earlier ones on duplicate keys.
func (l *Logger) convertToZapFields(err error, fields ...map[string]interface{}) []zap.Field {
	merged := make(map[string]interface{})
	for _, fieldMap := range fields {
		for key, value := range fieldMap {
			merged[key] = value
		}
	}

	zapFields := make([]zap.Field, 0, len(merged)+1)
	if err != nil {
		zapFields = append(zapFields, zap.Error(err))
	}
	for key, value := range merged {
		zapFields = append(zapFields, zap.Any(key, value))
	}
	return zapFields
}

// traceFields returns trace_id and span_id for the span carried by ctx.
// It returns nil when tracing is disabled or the context holds no valid span.
func (l *Logger) traceFields(ctx context.Context) []zap.Field {
	if !l.tracingEnabled || ctx == nil {
		return nil
	}
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return nil
	}
	return []zap.Field{
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	}
}

func (l *Logger) contextFields(ctx context.Context, err error, fields ...map[string]interface{}) []zap.Field {
	return append(l.convertToZapFields(err, fields...), l.traceFields(ctx)...)
}

// Debug logs a debug-level message.
func (l *Logger) Debug(msg string, err error, fields ...map[string]interface{}) {
	l.Zap.Debug(msg, l.convertToZapFields(err, fields...)...)
}

// Info logs an informational message.
//
// Example:
//
//	log.Info("embedding client ready", nil, map[string]interface{}{
//	    "variant": "gateway",
//	})
func (l *Logger) Info(msg string, err error, fields ...map[string]interface{}) {
	l.Zap.Info(msg, l.convertToZapFields(err, fields...)...)
}

// Warn logs a warning.
func (l *Logger) Warn(msg string, err error, fields ...map[string]interface{}) {
	l.Zap.Warn(msg, l.convertToZapFields(err, fields...)...)
}

// Error logs an error together with its context fields.
func (l *Logger) Error(msg string, err error, fields ...map[string]interface{}) {
	l.Zap.Error(msg, l.convertToZapFields(err, fields...)...)
}

// Fatal logs the message and terminates the process with os.Exit(1).
func (l *Logger) Fatal(msg string, err error, fields ...map[string]interface{}) {
	l.Zap.Fatal(msg, l.convertToZapFields(err, fields...)...)
}

// DebugWithContext is Debug plus trace correlation fields taken from ctx.
func (l *Logger) DebugWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{}) {
	l.Zap.Debug(msg, l.contextFields(ctx, err, fields...)...)
}

// InfoWithContext is Info plus trace correlation fields taken from ctx.
func (l *Logger) InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{}) {
	l.Zap.Info(msg, l.contextFields(ctx, err, fields...)...)
}

// WarnWithContext is Warn plus trace correlation fields taken from ctx.
func (l *Logger) WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{}) {
	l.Zap.Warn(msg, l.contextFields(ctx, err, fields...)...)
}

// ErrorWithContext is Error plus trace correlation fields taken from ctx.
func (l *Logger) ErrorWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{}) {
	l.Zap.Error(msg, l.contextFields(ctx, err, fields...)...)
}
