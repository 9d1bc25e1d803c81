package embedding

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// HTTPDoer sends a single HTTP request. *http.Client implements it.
// Implementations must be safe for concurrent use.
//
//go:generate mockgen -source=transport.go -destination=mock_http_doer_test.go -package=embedding
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// sleeper waits for d or until ctx is done.
type sleeper func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// send performs one logical call. A 429 response is retried while the retry
// schedule has entries left, waiting RetryDelays[n] after the n-th attempt.
// Any other status, or a 429 once the schedule is exhausted, is returned as the
// final response. Attempts are strictly sequential.
//
// The returned int is the number of physical attempts made.
func (c *Client) send(ctx context.Context, target string, body []byte, requestID string) (*http.Response, int, error) {
	delays := c.cfg.RetryDelays

	for attempt := 0; ; attempt++ {
		req, err := c.newHTTPRequest(ctx, target, body, requestID)
		if err != nil {
			return nil, attempt, err
		}

		start := time.Now()
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, attempt + 1, fmt.Errorf("%w: POST %s: %w", ErrTransport, target, err)
		}
		c.logAttempt(ctx, target, requestID, attempt, resp.StatusCode, time.Since(start))

		if resp.StatusCode != http.StatusTooManyRequests || attempt >= len(delays) {
			return resp, attempt + 1, nil
		}

		drainAndClose(resp.Body)

		delay := delays[attempt]
		c.logger.WarnWithContext(ctx, "embedding service rate limited the request, retrying", nil, map[string]interface{}{
			"variant":    string(c.cfg.Variant),
			"attempt":    attempt,
			"delay_ms":   delay.Milliseconds(),
			"request_id": requestID,
		})

		if err := c.sleep(ctx, delay); err != nil {
			return nil, attempt + 1, err
		}
	}
}

// newHTTPRequest builds the request for one attempt. Caller headers go first,
// the Content-Type and User-Agent defaults only fill gaps, and the variant's
// auth headers are always applied last.
func (c *Client) newHTTPRequest(ctx context.Context, target string, body []byte, requestID string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("embedding: build request: %w", err)
	}

	for k, v := range c.cfg.Headers {
		req.Header.Set(k, v)
	}
	if req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", UserAgent)
	}
	if requestID != "" && req.Header.Get("X-Request-Id") == "" {
		req.Header.Set("X-Request-Id", requestID)
	}

	switch c.cfg.Variant {
	case VariantGateway:
		req.Header.Set("api-key", c.cfg.APIKey)
	default:
		if c.cfg.APIKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
		}
		if c.cfg.Organization != "" {
			req.Header.Set("OpenAI-Organization", c.cfg.Organization)
		}
	}

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
	return req, nil
}

func (c *Client) logAttempt(ctx context.Context, target, requestID string, attempt, status int, took time.Duration) {
	fields := map[string]interface{}{
		"method":      http.MethodPost,
		"url":         target,
		"attempt":     attempt,
		"status":      status,
		"duration_ms": took.Milliseconds(),
		"request_id":  requestID,
	}
	if c.cfg.LogRequests {
		c.logger.InfoWithContext(ctx, "embedding request attempt", nil, fields)
		return
	}
	c.logger.DebugWithContext(ctx, "embedding request attempt", nil, fields)
}

// drainAndClose lets the connection be reused for the next attempt.
func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 1<<20))
	_ = body.Close()
}
