package batcher

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/Aleph-Alpha/embeddings/v1/embedding"
)

// Embedder is the part of *embedding.Client the batcher needs.
type Embedder interface {
	CreateEmbeddings(ctx context.Context, input embedding.Input) (embedding.Result, error)
}

// Batcher embeds inputs larger than a single request should carry.
type Batcher struct {
	embedder Embedder
	cfg      Config
}

// New returns a Batcher sending requests through e.
func New(e Embedder, cfg Config) *Batcher {
	return &Batcher{embedder: e, cfg: cfg.withDefaults()}
}

// Config returns the effective configuration, defaults included.
func (b *Batcher) Config() Config {
	return b.cfg
}

type chunk struct {
	start, end int
}

// Embed splits texts into contiguous chunks of at most BatchSize, embeds them
// with at most MaxParallel requests in flight and returns the vectors in input
// order.
//
// There is no partial success. The first error returned by any chunk is
// returned and cancels the chunks still running. Otherwise, if a chunk ends
// rate limited or failed, the first such result in chunk order is returned.
func (b *Batcher) Embed(ctx context.Context, texts []string) (embedding.Result, error) {
	if len(texts) == 0 {
		return embedding.Result{}, embedding.ErrEmptyInput
	}

	chunks := splitChunks(len(texts), b.cfg.BatchSize)
	if len(chunks) == 1 {
		return b.embedder.CreateEmbeddings(ctx, embedding.Texts(texts...))
	}

	results := make([]embedding.Result, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.cfg.MaxParallel)
	for i, c := range chunks {
		g.Go(func() error {
			res, err := b.embedder.CreateEmbeddings(gctx, embedding.Texts(texts[c.start:c.end]...))
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return embedding.Result{}, err
	}

	return merge(results, chunks, len(texts)), nil
}

func merge(results []embedding.Result, chunks []chunk, total int) embedding.Result {
	attempts := 0
	for _, res := range results {
		attempts += res.Attempts
	}

	for _, res := range results {
		if !res.IsSuccess() {
			res.Attempts = attempts
			return res
		}
	}

	vectors := make([][]float64, total)
	for i, c := range chunks {
		copy(vectors[c.start:c.end], results[i].Vectors)
	}

	out := embedding.Success(vectors)
	out.StatusCode = results[len(results)-1].StatusCode
	out.Attempts = attempts
	return out
}

// splitChunks cuts [0, n) into consecutive ranges of at most size elements.
func splitChunks(n, size int) []chunk {
	out := make([]chunk, 0, (n+size-1)/size)
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		out = append(out, chunk{start: start, end: end})
	}
	return out
}
