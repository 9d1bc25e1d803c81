package embedding

import (
	"time"

	"github.com/Aleph-Alpha/embeddings/v1/observability"
)

// observeOperation reports one logical call to the observer, if any.
func (c *Client) observeOperation(inputs int, duration time.Duration, res Result, err error) {
	if c.observer == nil {
		return
	}

	outcome := res.Kind.String()
	if err != nil {
		outcome = "error"
	}

	c.observer.ObserveOperation(observability.OperationContext{
		Component:   "embedding",
		Operation:   "create_embeddings",
		Resource:    string(c.cfg.Variant),
		SubResource: c.cfg.modelID(),
		Duration:    duration,
		Error:       err,
		Size:        int64(inputs),
		Metadata: map[string]interface{}{
			"outcome":     outcome,
			"attempts":    res.Attempts,
			"status_code": res.StatusCode,
		},
	})
}
