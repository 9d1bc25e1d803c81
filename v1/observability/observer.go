// Package observability defines the hook through which instrumented components
// report the operations they perform.
//
// Components such as the embedding client accept an optional Observer and call
// it once per logical operation. The metrics package ships an implementation
// backed by Prometheus; tests typically use a small recording observer.
package observability

import "time"

// Observer receives a notification after every observed operation.
// Implementations must be safe for concurrent use.
type Observer interface {
	ObserveOperation(ctx OperationContext)
}

// OperationContext describes a single completed operation.
type OperationContext struct {
	// Component is the reporting package, e.g. "embedding".
	Component string

	// Operation is the logical operation name, e.g. "create_embeddings".
	Operation string

	// Resource is the primary target of the operation (for embeddings: the variant).
	Resource string

	// SubResource narrows the resource (for embeddings: the model or deployment).
	SubResource string

	// Duration is the wall time of the whole operation, retries included.
	Duration time.Duration

	// Error is the returned error, nil when the operation produced a result.
	Error error

	// Size is the number of items processed.
	Size int64

	// Metadata carries component specific details such as attempts and outcome.
	Metadata map[string]interface{}
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(ctx OperationContext)

// ObserveOperation calls f(ctx).
func (f ObserverFunc) ObserveOperation(ctx OperationContext) {
	f(ctx)
}
