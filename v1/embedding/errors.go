package embedding

import "errors"

// Errors returned by this package. HTTP outcomes, including rate limiting and
// error statuses, are reported through Result and never through these.
var (
	// ErrInvalidConfig is returned at construction when the resolved variant
	// is missing required fields or has a malformed endpoint.
	ErrInvalidConfig = errors.New("embedding: invalid config")

	// ErrEmptyInput is returned when CreateEmbeddings is called without any text.
	ErrEmptyInput = errors.New("embedding: empty input")

	// ErrTransport wraps network level failures such as DNS errors, refused
	// connections and timeouts.
	ErrTransport = errors.New("embedding: transport failure")

	// ErrMalformedResponse is returned when a successful response body is not
	// valid JSON or does not have the expected shape.
	ErrMalformedResponse = errors.New("embedding: malformed response")
)

// IsInvalidConfigError reports whether err is a construction-time configuration error.
func IsInvalidConfigError(err error) bool {
	return errors.Is(err, ErrInvalidConfig)
}

// IsTransportError reports whether err is a network level failure.
func IsTransportError(err error) bool {
	return errors.Is(err, ErrTransport)
}

// IsMalformedResponseError reports whether err is caused by an unparseable response body.
func IsMalformedResponseError(err error) bool {
	return errors.Is(err, ErrMalformedResponse)
}
