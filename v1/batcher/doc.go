// Package batcher embeds large inputs by splitting them into bounded
// requests and running them concurrently through an embedding client.
//
//	b := batcher.New(client, batcher.Config{BatchSize: 64, MaxParallel: 8})
//	res, err := b.Embed(ctx, texts)
//
// The result has the same shape as a single embedding call: vectors in input
// order on success, otherwise the first failing chunk's result. Attempts is
// the total across all chunks.
package batcher
