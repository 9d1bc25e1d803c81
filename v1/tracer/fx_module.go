package tracer

import (
	"context"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/embeddings/v1/logger"
)

// FXModule provides *Tracer from a tracer.Config and a *logger.Logger and
// shuts the provider down when the application stops, flushing pending spans.
var FXModule = fx.Module("tracer",
	fx.Provide(
		NewClientWithDI,
	),
	fx.Invoke(RegisterTracerLifecycle),
)

// NewClientWithDI adapts NewClient to the concrete logger provided by logger.FXModule.
func NewClientWithDI(cfg Config, log *logger.Logger) *Tracer {
	return NewClient(cfg, log)
}

// RegisterTracerLifecycle shuts the tracer down on application stop.
func RegisterTracerLifecycle(lc fx.Lifecycle, tracer *Tracer) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if tracer == nil || tracer.tracer == nil {
				return nil
			}
			tracer.logger.Info("shutting down tracer", nil, nil)
			return tracer.Shutdown(ctx)
		},
	})
}
