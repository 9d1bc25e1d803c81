package batcher

// Defaults applied by New when a Config field is zero or negative.
const (
	DefaultBatchSize   = 96
	DefaultMaxParallel = 4
)

// Config bounds how the batcher splits and schedules work.
type Config struct {
	// BatchSize is the maximum number of texts per request.
	BatchSize int `yaml:"batch_size" envconfig:"EMBEDDING_BATCH_SIZE"`

	// MaxParallel is the maximum number of requests in flight.
	MaxParallel int `yaml:"max_parallel" envconfig:"EMBEDDING_BATCH_MAX_PARALLEL"`
}

func (c Config) withDefaults() Config {
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.MaxParallel <= 0 {
		c.MaxParallel = DefaultMaxParallel
	}
	return c
}
