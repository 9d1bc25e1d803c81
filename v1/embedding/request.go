package embedding

import (
	"encoding/json"
	"fmt"
	"net/url"
)

const (
	embeddingsPath     = "/v1/embeddings"
	gatewayPathPattern = "/openai/deployments/%s/embeddings"
)

// endpointURL returns the target URL for cfg's variant.
func endpointURL(cfg Config) string {
	switch cfg.Variant {
	case VariantGateway:
		query := url.Values{"api-version": []string{cfg.APIVersion}}
		return cfg.Endpoint + fmt.Sprintf(gatewayPathPattern, url.PathEscape(cfg.Deployment)) + "?" + query.Encode()
	default:
		return cfg.Endpoint + embeddingsPath
	}
}

// buildRequest returns the URL and JSON body for input. The model field is
// taken from cfg; callers have no way to set it per request.
func buildRequest(cfg Config, input Input) (string, []byte, error) {
	if input.Len() == 0 {
		return "", nil, ErrEmptyInput
	}

	body, err := json.Marshal(embeddingRequest{
		Input: input,
		Model: cfg.modelID(),
	})
	if err != nil {
		return "", nil, fmt.Errorf("embedding: encode request: %w", err)
	}
	return endpointURL(cfg), body, nil
}
