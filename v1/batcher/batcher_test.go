package batcher

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/Aleph-Alpha/embeddings/v1/embedding"
)

// fakeEmbedder returns one vector per text holding the text parsed as a float.
type fakeEmbedder struct {
	mu       sync.Mutex
	calls    [][]string
	inFlight atomic.Int32
	peak     atomic.Int32
	delay    time.Duration
	respond  func(texts []string) (embedding.Result, error)
}

func (f *fakeEmbedder) CreateEmbeddings(ctx context.Context, input embedding.Input) (embedding.Result, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}

	texts := input.Values()
	f.mu.Lock()
	f.calls = append(f.calls, texts)
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return embedding.Result{}, ctx.Err()
		}
	}

	if f.respond != nil {
		return f.respond(texts)
	}
	return echo(texts), nil
}

func echo(texts []string) embedding.Result {
	vectors := make([][]float64, len(texts))
	for i, t := range texts {
		v, _ := strconv.ParseFloat(t, 64)
		vectors[i] = []float64{v}
	}
	res := embedding.Success(vectors)
	res.StatusCode = 200
	res.Attempts = 1
	return res
}

func numbered(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = strconv.Itoa(i)
	}
	return out
}

func TestNewAppliesDefaults(t *testing.T) {
	b := New(&fakeEmbedder{}, Config{})
	assert.Equal(t, DefaultBatchSize, b.Config().BatchSize)
	assert.Equal(t, DefaultMaxParallel, b.Config().MaxParallel)

	b = New(&fakeEmbedder{}, Config{BatchSize: 10, MaxParallel: -1})
	assert.Equal(t, 10, b.Config().BatchSize)
	assert.Equal(t, DefaultMaxParallel, b.Config().MaxParallel)
}

func TestSplitChunks(t *testing.T) {
	assert.Equal(t, []chunk{{0, 3}, {3, 6}, {6, 7}}, splitChunks(7, 3))
	assert.Equal(t, []chunk{{0, 2}}, splitChunks(2, 5))
	assert.Equal(t, []chunk{{0, 4}, {4, 8}}, splitChunks(8, 4))
}

func TestEmbedEmptyInput(t *testing.T) {
	f := &fakeEmbedder{}
	_, err := New(f, Config{}).Embed(context.Background(), nil)
	require.ErrorIs(t, err, embedding.ErrEmptyInput)
	assert.Empty(t, f.calls)
}

func TestEmbedSingleChunk(t *testing.T) {
	f := &fakeEmbedder{}
	res, err := New(f, Config{BatchSize: 10}).Embed(context.Background(), numbered(3))
	require.NoError(t, err)
	require.True(t, res.IsSuccess())
	assert.Equal(t, [][]float64{{0}, {1}, {2}}, res.Vectors)
	assert.Len(t, f.calls, 1)
}

func TestEmbedReassemblesInInputOrder(t *testing.T) {
	f := &fakeEmbedder{delay: 5 * time.Millisecond}
	texts := numbered(23)

	res, err := New(f, Config{BatchSize: 5, MaxParallel: 3}).Embed(context.Background(), texts)
	require.NoError(t, err)
	require.True(t, res.IsSuccess())
	require.Len(t, res.Vectors, 23)
	for i, v := range res.Vectors {
		assert.Equal(t, []float64{float64(i)}, v)
	}
	assert.Len(t, f.calls, 5)
	assert.Equal(t, 5, res.Attempts)
	assert.Equal(t, 200, res.StatusCode)
	for _, call := range f.calls {
		assert.LessOrEqual(t, len(call), 5)
	}
}

func TestEmbedRespectsMaxParallel(t *testing.T) {
	f := &fakeEmbedder{delay: 20 * time.Millisecond}

	_, err := New(f, Config{BatchSize: 1, MaxParallel: 2}).Embed(context.Background(), numbered(8))
	require.NoError(t, err)
	assert.LessOrEqual(t, f.peak.Load(), int32(2))
}

func TestEmbedFirstNonSuccessInChunkOrderWins(t *testing.T) {
	f := &fakeEmbedder{
		respond: func(texts []string) (embedding.Result, error) {
			switch texts[0] {
			case "2":
				res := embedding.RateLimited(embedding.RateLimitMessage)
				res.StatusCode = 429
				res.Attempts = 3
				return res, nil
			case "4":
				res := embedding.Failure("embedding request failed with status 500 Internal Server Error")
				res.StatusCode = 500
				res.Attempts = 1
				return res, nil
			}
			return echo(texts), nil
		},
	}

	res, err := New(f, Config{BatchSize: 2, MaxParallel: 4}).Embed(context.Background(), numbered(6))
	require.NoError(t, err)
	assert.Equal(t, embedding.ResultRateLimited, res.Kind)
	assert.Equal(t, 429, res.StatusCode)
	assert.Nil(t, res.Vectors)
	assert.Equal(t, 1+3+1, res.Attempts)
}

func TestEmbedPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	f := &fakeEmbedder{
		respond: func(texts []string) (embedding.Result, error) {
			if texts[0] == "3" {
				return embedding.Result{}, boom
			}
			return echo(texts), nil
		},
	}

	_, err := New(f, Config{BatchSize: 3, MaxParallel: 2}).Embed(context.Background(), numbered(9))
	require.ErrorIs(t, err, boom)
}

func TestFXModuleProvidesBatcher(t *testing.T) {
	t.Setenv("EMBEDDING_API_KEY", "sk-test")

	var b *Batcher
	app := fxtest.New(t,
		embedding.FXModule,
		FXModule,
		fx.Supply(Config{BatchSize: 16}),
		fx.Populate(&b),
	)
	app.RequireStart()
	defer app.RequireStop()

	require.NotNil(t, b)
	assert.Equal(t, 16, b.Config().BatchSize)
	assert.Equal(t, DefaultMaxParallel, b.Config().MaxParallel)
}
