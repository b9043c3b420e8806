// Package config loads and validates docsearch configuration from YAML files
// with environment-variable overrides. It provides typed structs for the
// index, search, logging, metrics and tracing subsystems.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/docsearch/pkg/logger"
)

// Config is the top-level configuration.
type Config struct {
	Index   IndexConfig   `yaml:"index"`
	Search  SearchConfig  `yaml:"search"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Tracing TracingConfig `yaml:"tracing"`
}

// IndexConfig controls stop words and the parallel execution paths.
type IndexConfig struct {
	// StopWords is merged with the space-delimited StopWordsText.
	StopWords     []string `yaml:"stopWords"`
	StopWordsText string   `yaml:"stopWordsText"`
	// Parallelism bounds the worker goroutines of one parallel operation.
	// Zero means runtime.GOMAXPROCS(0).
	Parallelism int `yaml:"parallelism"`
	// AccumulatorShards fixes the shard count of the relevance accumulator.
	// Zero sizes it from the number of distinct indexed words.
	AccumulatorShards int `yaml:"accumulatorShards"`
}

// AllStopWords returns StopWords followed by the words of StopWordsText.
// Only ' ' separates words, so tabs and other control characters stay
// inside a word and are rejected when the server is built.
func (c IndexConfig) AllStopWords() []string {
	words := make([]string, 0, len(c.StopWords))
	words = append(words, c.StopWords...)
	words = append(words, tokenizer.Split(c.StopWordsText)...)
	return words
}

// SearchConfig controls query result limits and result caching.
type SearchConfig struct {
	MaxResults int `yaml:"maxResults"`
	// CacheEntries bounds the default-filter result cache; zero disables it.
	CacheEntries int `yaml:"cacheEntries"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig toggles Prometheus instrumentation.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// TracingConfig toggles span logging for parallel relevance evaluation.
type TracingConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Load reads a YAML config file (if provided) and applies environment-variable
// overrides. Missing values keep their defaults.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return defaultConfig()
}

func defaultConfig() *Config {
	return &Config{
		Index: IndexConfig{
			Parallelism:       0,
			AccumulatorShards: 0,
		},
		Search: SearchConfig{
			MaxResults: 5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Validate rejects values no component can run with.
func (c *Config) Validate() error {
	if c.Index.Parallelism < 0 {
		return fmt.Errorf("index.parallelism must not be negative, got %d", c.Index.Parallelism)
	}
	if c.Index.AccumulatorShards < 0 {
		return fmt.Errorf("index.accumulatorShards must not be negative, got %d", c.Index.AccumulatorShards)
	}
	if c.Search.MaxResults < 0 {
		return fmt.Errorf("search.maxResults must not be negative, got %d", c.Search.MaxResults)
	}
	if c.Search.CacheEntries < 0 {
		return fmt.Errorf("search.cacheEntries must not be negative, got %d", c.Search.CacheEntries)
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	if !logger.ValidFormat(c.Logging.Format) {
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}
	return nil
}

// applyEnvOverrides reads DS_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DS_INDEX_STOP_WORDS"); v != "" {
		cfg.Index.StopWordsText = v
	}
	if v := os.Getenv("DS_INDEX_PARALLELISM"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Index.Parallelism = n
		}
	}
	if v := os.Getenv("DS_INDEX_ACCUMULATOR_SHARDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Index.AccumulatorShards = n
		}
	}
	if v := os.Getenv("DS_SEARCH_MAX_RESULTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Search.MaxResults = n
		}
	}
	if v := os.Getenv("DS_SEARCH_CACHE_ENTRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Search.CacheEntries = n
		}
	}
	if v := os.Getenv("DS_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("DS_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("DS_METRICS_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Metrics.Enabled = b
		}
	}
	if v := os.Getenv("DS_TRACING_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Tracing.Enabled = b
		}
	}
}
