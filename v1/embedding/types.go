package embedding

import (
	"context"
	"encoding/json"
)

// Input is the text sent to the service: a single string or an ordered batch.
// Build it with Text or Texts.
type Input struct {
	texts []string
	batch bool
}

// Text is a single input; it is sent as a JSON string.
func Text(text string) Input {
	return Input{texts: []string{text}}
}

// Texts is an ordered batch; it is sent as a JSON array and the result holds
// one vector per element, in the same order.
func Texts(texts ...string) Input {
	return Input{texts: append([]string(nil), texts...), batch: true}
}

// Len is the number of texts, and therefore of expected vectors.
func (in Input) Len() int {
	return len(in.texts)
}

// Values returns a copy of the texts.
func (in Input) Values() []string {
	return append([]string(nil), in.texts...)
}

// MarshalJSON encodes a single input as a string and a batch as an array.
func (in Input) MarshalJSON() ([]byte, error) {
	if !in.batch && len(in.texts) == 1 {
		return json.Marshal(in.texts[0])
	}
	if in.texts == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(in.texts)
}

// ResultKind tags a Result.
type ResultKind int

const (
	// ResultSuccess means every input has a vector, in input order.
	ResultSuccess ResultKind = iota + 1

	// ResultRateLimited means the service kept answering 429 after the retry
	// schedule was exhausted.
	ResultRateLimited

	// ResultError means the service answered with another error status or the
	// response failed the integrity check.
	ResultError
)

func (k ResultKind) String() string {
	switch k {
	case ResultSuccess:
		return "success"
	case ResultRateLimited:
		return "rate_limited"
	case ResultError:
		return "error"
	default:
		return "unknown"
	}
}

// Result is the outcome of one CreateEmbeddings call. Either Vectors (success)
// or Message (rate limited, error) is populated, never both.
type Result struct {
	Kind    ResultKind
	Vectors [][]float64
	Message string

	// StatusCode is the HTTP status of the final attempt.
	StatusCode int

	// Attempts is the number of physical HTTP requests made.
	Attempts int
}

// Success builds a successful result.
func Success(vectors [][]float64) Result {
	return Result{Kind: ResultSuccess, Vectors: vectors}
}

// RateLimited builds a rate-limited result.
func RateLimited(message string) Result {
	return Result{Kind: ResultRateLimited, Message: message}
}

// Failure builds an error result.
func Failure(message string) Result {
	return Result{Kind: ResultError, Message: message}
}

// IsSuccess reports whether r holds vectors.
func (r Result) IsSuccess() bool {
	return r.Kind == ResultSuccess
}

// Logger is the logging contract of the client. *logger.Logger satisfies it.
type Logger interface {
	DebugWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}

type nopLogger struct{}

func (nopLogger) DebugWithContext(context.Context, string, error, ...map[string]interface{}) {}
func (nopLogger) InfoWithContext(context.Context, string, error, ...map[string]interface{})  {}
func (nopLogger) WarnWithContext(context.Context, string, error, ...map[string]interface{})  {}

// embeddingRequest is the wire body. Model always comes from Config.
type embeddingRequest struct {
	Input Input  `json:"input"`
	Model string `json:"model"`
}

type rawItem struct {
	Index     int       `json:"index"`
	Embedding []float64 `json:"embedding"`
}

type embeddingResponse struct {
	Data []rawItem `json:"data"`
}
