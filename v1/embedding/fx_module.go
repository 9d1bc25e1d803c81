package embedding

import (
	"context"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/embeddings/v1/logger"
	"github.com/Aleph-Alpha/embeddings/v1/observability"
)

// FXModule wires the embedding client into Fx.
//
// It provides:
//   - Options  (NewOptionsFromEnv)
//   - *Client  (NewClientWithDI)
//
// and closes the client's idle connections on shutdown. A *logger.Logger and
// an observability.Observer (for example from metrics.FXModule) are used
// when present in the container.
var FXModule = fx.Module(
	"embedding",

	fx.Provide(
		NewOptionsFromEnv,
		NewClientWithDI,
	),

	fx.Invoke(RegisterEmbeddingLifecycle),
)

// EmbeddingParams groups the dependencies of NewClientWithDI.
type EmbeddingParams struct {
	fx.In

	Options  Options
	Logger   *logger.Logger         `optional:"true"`
	Observer observability.Observer `optional:"true"`
}

// NewClientWithDI resolves the injected Options and builds the client with
// the optional logger and observer.
func NewClientWithDI(params EmbeddingParams) (*Client, error) {
	var opts []ClientOption
	if params.Logger != nil {
		opts = append(opts, WithLogger(params.Logger))
	}
	if params.Observer != nil {
		opts = append(opts, WithObserver(params.Observer))
	}
	return New(params.Options, opts...)
}

// RegisterEmbeddingLifecycle closes the client when the application stops.
func RegisterEmbeddingLifecycle(lc fx.Lifecycle, client *Client) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
}
