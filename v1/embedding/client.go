package embedding

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Aleph-Alpha/embeddings/v1/observability"
)

const instrumentationName = "github.com/Aleph-Alpha/embeddings/v1/embedding"

// Client computes embeddings against one resolved variant.
//
// A Client is safe for concurrent use. Calls share only the immutable
// configuration and the HTTP transport.
type Client struct {
	cfg      Config
	http     HTTPDoer
	logger   Logger
	observer observability.Observer
	sleep    sleeper
	newID    func() string
}

// ClientOption customizes a Client at construction.
type ClientOption func(*Client)

// WithHTTPClient replaces the default *http.Client. Nil is ignored.
func WithHTTPClient(doer HTTPDoer) ClientOption {
	return func(c *Client) {
		if doer != nil {
			c.http = doer
		}
	}
}

// WithLogger sets the logger. Nil is ignored.
func WithLogger(l Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithObserver registers an observer notified once per CreateEmbeddings call.
func WithObserver(o observability.Observer) ClientOption {
	return func(c *Client) {
		c.observer = o
	}
}

func withSleeper(s sleeper) ClientOption {
	return func(c *Client) {
		c.sleep = s
	}
}

func withRequestIDs(f func() string) ClientOption {
	return func(c *Client) {
		c.newID = f
	}
}

// New resolves opts into a Config and builds a Client from it.
//
// Example:
//
//	client, err := embedding.New(embedding.Options{
//	    GatewayAPIKey:   key,
//	    GatewayEndpoint: "https://my-gateway.example.com/",
//	    Deployment:      "embeddings-large",
//	})
func New(opts Options, clientOpts ...ClientOption) (*Client, error) {
	cfg, err := Resolve(opts)
	if err != nil {
		return nil, err
	}
	return NewClient(cfg, clientOpts...)
}

// NewClient builds a Client from a resolved Config. The config is validated
// again so a hand-built value cannot bypass endpoint or field checks. No
// network activity happens here.
func NewClient(cfg Config, opts ...ClientOption) (*Client, error) {
	resolved, err := cfg.validate()
	if err != nil {
		return nil, err
	}

	c := &Client{
		cfg:    resolved,
		logger: nopLogger{},
		sleep:  sleepContext,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: resolved.Timeout}
	}
	return c, nil
}

// Options returns a copy of the resolved configuration, defaults included.
func (c *Client) Options() Config {
	return c.cfg.clone()
}

// Variant returns the variant chosen at construction.
func (c *Client) Variant() Variant {
	return c.cfg.Variant
}

// CreateEmbeddings embeds input and returns one vector per text, in input order.
//
// Rate limiting and HTTP error statuses are reported through the Result kind.
// An error is returned only for empty input, transport failures, cancelled
// contexts and malformed success bodies.
func (c *Client) CreateEmbeddings(ctx context.Context, input Input) (Result, error) {
	start := time.Now()

	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "embedding.CreateEmbeddings",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("embedding.variant", string(c.cfg.Variant)),
			attribute.String("embedding.model", c.cfg.modelID()),
			attribute.Int("embedding.inputs", input.Len()),
		),
	)
	defer span.End()

	res, err := c.createEmbeddings(ctx, input)

	span.SetAttributes(attribute.Int("embedding.attempts", res.Attempts))
	switch {
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	case res.Kind != ResultSuccess:
		span.SetAttributes(attribute.Int("http.response.status_code", res.StatusCode))
		span.SetStatus(codes.Error, res.Message)
	default:
		span.SetAttributes(attribute.Int("http.response.status_code", res.StatusCode))
	}

	c.observeOperation(input.Len(), time.Since(start), res, err)
	return res, err
}

func (c *Client) createEmbeddings(ctx context.Context, input Input) (Result, error) {
	target, body, err := buildRequest(c.cfg, input)
	if err != nil {
		return Result{}, err
	}

	resp, attempts, err := c.send(ctx, target, body, c.newID())
	if err != nil {
		return Result{Attempts: attempts}, err
	}

	res, err := normalizeResponse(resp, input.Len(), attempts)
	if err != nil {
		return Result{Attempts: attempts}, fmt.Errorf("embedding: %s response: %w", c.cfg.Variant, err)
	}
	return res, nil
}

// Close releases idle connections held by the transport, when it has any.
func (c *Client) Close() error {
	if closer, ok := c.http.(interface{ CloseIdleConnections() }); ok {
		closer.CloseIdleConnections()
	}
	return nil
}
