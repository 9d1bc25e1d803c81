// Package tracer configures OpenTelemetry tracing.
//
// NewClient builds an SDK TracerProvider, optionally exporting over
// OTLP/HTTP, and installs it together with a W3C trace-context propagator as
// the global OpenTelemetry provider. The embedding client uses those globals:
// every CreateEmbeddings call becomes a span and the outgoing HTTP request
// carries a traceparent header, so gateway or self-hosted deployments that
// participate in tracing link their spans to the caller's.
//
//	t := tracer.NewClient(tracer.Config{ServiceName: "indexer"}, log)
//	defer t.Shutdown(ctx)
//
//	ctx, span := t.StartSpan(ctx, "index-document")
//	defer span.End()
//	res, err := client.CreateEmbeddings(ctx, embedding.Texts(chunks...))
//
// GetCarrier and SetCarrierOnContext move trace context across boundaries
// that are not HTTP, such as message headers.
package tracer
