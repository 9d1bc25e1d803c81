package logger

import (
	"context"

	"go.uber.org/fx"
)

// FXModule provides *Logger built from a logger.Config found in the container
// and flushes it on shutdown.
//
// Usage:
//
//	app := fx.New(
//	    logger.FXModule,
//	    fx.Provide(func() logger.Config {
//	        return logger.Config{Level: logger.Info, ServiceName: "indexer"}
//	    }),
//	)
var FXModule = fx.Module("logger",
	fx.Provide(
		NewLoggerClient,
	),
	fx.Invoke(RegisterLoggerLifecycle),
)

// RegisterLoggerLifecycle syncs the zap logger when the application stops so
// that buffered entries are not lost.
func RegisterLoggerLifecycle(lc fx.Lifecycle, client *Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			// Sync on stderr returns EINVAL/ENOTTY on some platforms; that is not a shutdown failure.
			_ = client.Zap.Sync()
			return nil
		},
	})
}
