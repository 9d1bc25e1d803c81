package logger

import (
	"log"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a wrapper around Uber's Zap logger.
//
// The embedding client only needs the *WithContext methods; the plain variants
// are kept for lifecycle and setup code that has no request context.
type Logger struct {
	// Zap is the underlying zap.Logger, exposed for callers that need
	// zap-specific functionality such as Sync or Named.
	Zap *zap.Logger

	tracingEnabled bool
}

// NewLoggerClient builds a JSON logger writing to stderr.
//
// Entries use ISO8601 timestamps, capital level names and carry the process id
// and the configured service name. If zap cannot be built the process exits.
//
// Example:
//
//	log := logger.NewLoggerClient(logger.Config{Level: logger.Info, ServiceName: "indexer"})
//	log.Info("embedding client ready", nil, nil)
func NewLoggerClient(cfg Config) *Logger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderCfg.EncodeDuration = zapcore.MillisDurationEncoder

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(levelFor(cfg.Level)),
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    encoderCfg,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		InitialFields: map[string]interface{}{
			"pid":     os.Getpid(),
			"service": cfg.ServiceName,
		},
	}

	z, err := config.Build(zap.AddCaller(), zap.AddCallerSkip(1))
	if err != nil {
		log.Fatal(err)
	}

	return &Logger{Zap: z, tracingEnabled: cfg.EnableTracing}
}

// NewNopLogger returns a Logger that discards everything.
func NewNopLogger() *Logger {
	return &Logger{Zap: zap.NewNop()}
}

func levelFor(level string) zapcore.Level {
	switch level {
	case Debug:
		return zap.DebugLevel
	case Warning:
		return zap.WarnLevel
	case Error:
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}
