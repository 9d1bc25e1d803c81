// Package logger provides structured logging backed by Uber's zap.
//
// # Usage
//
//	log := logger.NewLoggerClient(logger.Config{
//		Level:         logger.Info,
//		EnableTracing: true,
//		ServiceName:   "document-indexer",
//	})
//
//	log.Info("client constructed", nil, map[string]interface{}{"variant": "hosted"})
//	log.WarnWithContext(ctx, "rate limited, retrying", nil, map[string]interface{}{
//		"attempt":  1,
//		"delay_ms": 1000,
//	})
//
// Every method takes a message, an optional error and any number of field
// maps. The *WithContext variants additionally attach trace_id and span_id
// when EnableTracing is set and ctx carries a valid OpenTelemetry span, which
// correlates embedding retries with the span of the call that caused them.
//
// # Fx
//
// FXModule provides *Logger from a logger.Config and syncs it on shutdown.
// *Logger satisfies embedding.Logger, so the embedding FX module picks it up
// automatically when both modules are installed.
//
// # Configuration
//
//	ZAP_LOGGER_LEVEL=debug       # debug, info, warning, error
//	LOGGER_ENABLE_TRACING=true
//	LOGGER_SERVICE_NAME=indexer
//
// All methods are safe for concurrent use.
package logger
