// Package embedding is a client for OpenAI-compatible embeddings APIs.
//
// # Variants
//
// The same JSON-over-HTTPS API is reachable in three ways:
//
//   - VariantHosted: the vendor endpoint, POST <base>/v1/embeddings with
//     "Authorization: Bearer <key>" and an optional "OpenAI-Organization".
//   - VariantGateway: an enterprise gateway, POST
//     <endpoint>/openai/deployments/<deployment>/embeddings?api-version=<v>
//     with an "api-key" header. The request's model field is the deployment.
//   - VariantSelfHosted: a self-hosted server, POST <endpoint>/v1/embeddings,
//     Bearer auth only when a key is configured.
//
// # Construction
//
// Use a dedicated constructor when the variant is known:
//
//	cfg, err := embedding.NewGatewayConfig(embedding.GatewayOptions{
//		APIKey:     key,
//		Deployment: "embeddings-large",
//		Endpoint:   "https://gateway.example.com/",
//	})
//	client, err := embedding.NewClient(cfg)
//
// or let Resolve pick it from a loosely shaped Options value (for example
// one read by NewOptionsFromEnv or LoadOptionsFile). Resolve prefers the
// gateway when GatewayAPIKey is set, then self-hosted when SelfHostedModel
// is set, and falls back to hosted.
//
// Endpoints are trimmed, lose one trailing slash and must use https.
// Invalid configuration fails construction with ErrInvalidConfig; no request
// is ever sent with it.
//
// # Calling
//
//	res, err := client.CreateEmbeddings(ctx, embedding.Texts("first", "second"))
//	if err != nil {
//		// transport failure, malformed body, cancelled context
//	}
//	switch res.Kind {
//	case embedding.ResultSuccess:
//		use(res.Vectors) // one vector per input, in input order
//	case embedding.ResultRateLimited, embedding.ResultError:
//		log.Println(res.Message)
//	}
//
// The service may return items in any order; vectors are placed by their
// index. A response whose items do not cover every input exactly once is
// reported as ResultError.
//
// # Rate limits
//
// A 429 response is retried after waiting RetryDelays[0], then
// RetryDelays[1], and so on. Once the schedule is used up the last 429 is
// reported as ResultRateLimited, so a call makes at most
// len(RetryDelays)+1 requests. Waits honour ctx cancellation. No other
// status is retried.
//
// # Observability
//
// Each call is a client span named "embedding.CreateEmbeddings" on the global
// OpenTelemetry provider, and the outgoing request carries the W3C trace
// context plus an X-Request-Id shared by all attempts of that call. Attach a
// Logger with WithLogger and an observability.Observer (metrics.Metrics)
// with WithObserver.
//
// # Fx
//
// FXModule provides Options from the environment and *Client, and closes
// the client on shutdown.
package embedding
