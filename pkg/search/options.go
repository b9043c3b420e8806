package search

import (
	"log/slog"

	"github.com/Adithya-Monish-Kumar-K/docsearch/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/docsearch/pkg/metrics"
)

type options struct {
	parallelism       int
	accumulatorShards int
	tracing           bool
	maxResults        int
	cacheEntries      int
	metrics           *metrics.Metrics
	logger            *slog.Logger
}

// Option configures a Server.
type Option func(*options)

// WithParallelism bounds the goroutines used by one parallel operation.
// Zero means GOMAXPROCS.
func WithParallelism(n int) Option {
	return func(o *options) { o.parallelism = n }
}

// WithAccumulatorShards fixes the shard count of the parallel relevance
// accumulator instead of deriving it from the vocabulary size.
func WithAccumulatorShards(n int) Option {
	return func(o *options) { o.accumulatorShards = n }
}

func WithTracing(enabled bool) Option {
	return func(o *options) { o.tracing = enabled }
}

// WithMaxResults caps FindTopDocuments results. Non-positive values keep
// the default of five.
func WithMaxResults(n int) Option {
	return func(o *options) { o.maxResults = n }
}

// WithResultCache memoizes up to n ranked results of queries run with the
// default filter. Every successful add or remove empties the cache. Zero
// disables it.
func WithResultCache(n int) Option {
	return func(o *options) { o.cacheEntries = n }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// FromConfig applies the index, search and tracing sections of cfg. Stop
// words are passed to NewServer separately.
func FromConfig(cfg *config.Config) Option {
	return func(o *options) {
		o.parallelism = cfg.Index.Parallelism
		o.accumulatorShards = cfg.Index.AccumulatorShards
		o.maxResults = cfg.Search.MaxResults
		o.cacheEntries = cfg.Search.CacheEntries
		o.tracing = cfg.Tracing.Enabled
	}
}
