package embedding

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// RateLimitMessage is the Result message when the retry schedule ran out.
const RateLimitMessage = "embedding service rate limit exceeded: retry schedule exhausted"

// responseSchema describes the part of a successful response this client
// relies on. Extra fields such as "object", "model" or "usage" are allowed.
const responseSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["data"],
	"properties": {
		"data": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["index", "embedding"],
				"properties": {
					"index": {"type": "integer"},
					"embedding": {"type": "array", "items": {"type": "number"}}
				}
			}
		}
	}
}`

var compiledResponseSchema = jsonschema.MustCompileString("embedding_response.json", responseSchema)

// normalizeResponse turns the final HTTP response into a Result and closes
// its body. Only unreadable or malformed success bodies produce an error.
func normalizeResponse(resp *http.Response, inputCount, attempts int) (Result, error) {
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("%w: read response body: %w", ErrTransport, err)
	}

	var res Result
	switch {
	case resp.StatusCode < http.StatusMultipleChoices:
		res, err = decodeSuccess(raw, inputCount)
		if err != nil {
			return Result{}, err
		}
	case resp.StatusCode == http.StatusTooManyRequests:
		res = RateLimited(RateLimitMessage)
	default:
		res = Failure(statusMessage(resp, raw))
	}

	res.StatusCode = resp.StatusCode
	res.Attempts = attempts
	return res, nil
}

// decodeSuccess validates the body, checks that the items form a permutation
// of [0, inputCount) and orders the vectors by index.
func decodeSuccess(raw []byte, inputCount int) (Result, error) {
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if err := compiledResponseSchema.Validate(doc); err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	var payload embeddingResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	if len(payload.Data) != inputCount {
		return Failure(fmt.Sprintf("embedding response contained %d items for %d inputs", len(payload.Data), inputCount)), nil
	}

	vectors := make([][]float64, inputCount)
	seen := make([]bool, inputCount)
	for _, item := range payload.Data {
		if item.Index < 0 || item.Index >= inputCount {
			return Failure(fmt.Sprintf("embedding response item index %d is outside [0, %d)", item.Index, inputCount)), nil
		}
		if seen[item.Index] {
			return Failure(fmt.Sprintf("embedding response contained duplicate index %d", item.Index)), nil
		}
		seen[item.Index] = true
		vectors[item.Index] = item.Embedding
	}

	return Success(vectors), nil
}

// statusMessage renders "embedding request failed with status 500 Internal
// Server Error", followed by the provider's error message when the body has one.
func statusMessage(resp *http.Response, raw []byte) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}

	msg := fmt.Sprintf("embedding request failed with status %d %s", resp.StatusCode, text)
	if detail := providerErrorMessage(raw); detail != "" {
		msg += ": " + detail
	}
	return msg
}

// providerErrorMessage extracts {"error":{"message":"..."}} or {"error":"..."}.
func providerErrorMessage(raw []byte) string {
	var body struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || len(body.Error) == 0 {
		return ""
	}

	var detail struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body.Error, &detail); err == nil && detail.Message != "" {
		return detail.Message
	}

	var text string
	if err := json.Unmarshal(body.Error, &text); err == nil {
		return text
	}
	return ""
}
