package batcher

import (
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/embeddings/v1/embedding"
)

// FXModule provides a *Batcher on top of the *embedding.Client in the
// container. Supply a Config to override the defaults.
var FXModule = fx.Module(
	"batcher",

	fx.Provide(NewWithDI),
)

// BatcherParams groups the dependencies of NewWithDI.
type BatcherParams struct {
	fx.In

	Client *embedding.Client
	Config Config `optional:"true"`
}

// NewWithDI builds a Batcher from injected dependencies.
func NewWithDI(params BatcherParams) *Batcher {
	return New(params.Client, params.Config)
}
