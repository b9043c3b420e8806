// Package search is the public entry point of docsearch: an in-process
// document index answering top-K TF-IDF queries with plus and minus words,
// status filtering and rating tie-breaking.
//
// A Server may be shared between goroutines. Queries run concurrently with
// each other; AddDocument and RemoveDocument wait for running queries and
// block new ones until they finish.
package search

import (
	"fmt"
	"iter"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/execution"
	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/searcher/batch"
	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/searcher/cache"
	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/searcher/ranker"
	"github.com/Adithya-Monish-Kumar-K/docsearch/pkg/document"
	apperrors "github.com/Adithya-Monish-Kumar-K/docsearch/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/docsearch/pkg/metrics"
)

// ExecutionMode selects sequential or parallel evaluation per call.
type ExecutionMode = execution.Mode

const (
	Sequential = execution.Sequential
	Parallel   = execution.Parallel
)

// MaxResultDocumentCount is the default cap on FindTopDocuments results.
const MaxResultDocumentCount = ranker.MaxResultDocumentCount

// Filter decides whether a document may be returned. Filters passed with
// Parallel are called from several goroutines at once.
type Filter = executor.Predicate

// ByStatus accepts documents filed under status.
func ByStatus(status document.Status) Filter {
	return func(_ int, s document.Status, _ int) bool {
		return s == status
	}
}

// AnyDocument accepts every document.
func AnyDocument() Filter {
	return func(int, document.Status, int) bool {
		return true
	}
}

type Server struct {
	mu         sync.RWMutex
	index      *index.MemoryIndex
	executor   *executor.Executor
	batch      *batch.Processor
	cache      *cache.QueryCache
	maxResults int
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// NewServer creates an empty index with the given stop words. It fails with
// ErrInvalidArgument if a stop word contains control characters.
func NewServer(stopWords []string, opts ...Option) (*Server, error) {
	sw, err := tokenizer.NewStopWords(stopWords)
	if err != nil {
		return nil, fmt.Errorf("building stop words: %w", err)
	}
	return newServer(sw, opts), nil
}

// NewServerFromText is NewServer with stop words given as one
// space-delimited string.
func NewServerFromText(stopWords string, opts ...Option) (*Server, error) {
	sw, err := tokenizer.ParseStopWords(stopWords)
	if err != nil {
		return nil, fmt.Errorf("building stop words: %w", err)
	}
	return newServer(sw, opts), nil
}

func newServer(sw tokenizer.StopWords, opts []Option) *Server {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default().With("component", "search-server")
	}
	s := &Server{
		index: index.NewMemoryIndex(sw, o.parallelism),
		executor: executor.New(executor.Config{
			Parallelism:       o.parallelism,
			AccumulatorShards: o.accumulatorShards,
			Tracing:           o.tracing,
		}),
		maxResults: o.maxResults,
		metrics:    o.metrics,
		logger:     o.logger,
	}
	s.batch = batch.New(s, o.parallelism)
	if o.cacheEntries > 0 {
		s.cache = cache.New(o.cacheEntries)
	}
	s.logger.Debug("search server created",
		"stop_words", sw.Len(),
		"parallelism", execution.Workers(o.parallelism),
	)
	return s
}

// AddDocument indexes text under id. It fails with ErrInvalidArgument for a
// negative or duplicate id or a word containing control characters, leaving
// the index unchanged.
func (s *Server) AddDocument(id int, text string, status document.Status, ratings []int) error {
	s.mu.Lock()
	err := s.index.Add(id, text, status, ratings)
	if err == nil {
		s.invalidateLocked()
	}
	s.recordSizeLocked()
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.DocumentsAddedTotal.WithLabelValues(apperrors.Kind(err)).Inc()
	}
	if err != nil {
		s.logger.Debug("document rejected", "doc_id", id, "error", err)
		return fmt.Errorf("adding document %d: %w", id, err)
	}
	return nil
}

// RemoveDocument drops document id. Removing an unknown id does nothing.
func (s *Server) RemoveDocument(mode ExecutionMode, id int) {
	s.mu.Lock()
	removed := s.index.Remove(mode, id)
	if removed {
		s.invalidateLocked()
	}
	s.recordSizeLocked()
	s.mu.Unlock()

	if removed && s.metrics != nil {
		s.metrics.DocumentsRemovedTotal.WithLabelValues(mode.String()).Inc()
	}
}

// FindTopDocuments returns at most MaxResultDocumentCount documents ranked
// by relevance, then rating. A nil filter keeps documents with status
// ACTUAL; only such queries are served from the result cache.
func (s *Server) FindTopDocuments(mode ExecutionMode, rawQuery string, filter Filter) ([]document.Document, error) {
	start := time.Now()
	cacheable := filter == nil && s.cache != nil
	if filter == nil {
		filter = ByStatus(document.StatusActual)
	}

	s.mu.RLock()
	q, err := parser.Parse(rawQuery, s.index.StopWords(), false)
	var (
		top        []document.Document
		candidates int
		hit        bool
	)
	switch {
	case err != nil:
	case q.IsEmpty():
		top = make([]document.Document, 0)
		cacheable = false
	default:
		rank := func() ([]document.Document, error) {
			matched := s.executor.FindAll(s.index, q, filter, mode)
			candidates = len(matched)
			if mode == Parallel && s.metrics != nil {
				s.metrics.AccumulatorShards.Observe(float64(s.executor.ShardCount(s.index)))
			}
			return ranker.Rank(matched, s.maxResults), nil
		}
		if cacheable {
			top, hit, _ = s.cache.GetOrCompute(q, s.maxResults, rank)
		} else {
			top, _ = rank()
		}
	}
	s.mu.RUnlock()

	s.observeQuery("find", mode, start, err)
	if err != nil {
		return nil, fmt.Errorf("parsing query %q: %w", rawQuery, err)
	}
	if s.metrics != nil {
		s.metrics.QueryResultsCount.Observe(float64(len(top)))
		if cacheable {
			s.metrics.QueryCacheTotal.WithLabelValues(cacheResult(hit)).Inc()
		}
	}
	s.logger.Debug("query executed",
		"query", rawQuery,
		"plus_words", q.PlusWords,
		"minus_words", q.MinusWords,
		"candidates", candidates,
		"results", len(top),
		"cache_hit", hit,
		"mode", mode.String(),
	)
	return top, nil
}

// MatchDocument returns the query's plus words present in document id and
// the document's status. The word list is empty when a minus word matches.
// It fails with ErrOutOfRange for an unknown id.
func (s *Server) MatchDocument(mode ExecutionMode, rawQuery string, id int) ([]string, document.Status, error) {
	start := time.Now()
	s.mu.RLock()
	words, status, err := s.index.Match(mode, rawQuery, id)
	s.mu.RUnlock()

	s.observeQuery("match", mode, start, err)
	if err != nil {
		return nil, 0, fmt.Errorf("matching document %d: %w", id, err)
	}
	return words, status, nil
}

// WordFrequencies returns the term frequency of every word of document id,
// or an empty map if the id is unknown.
func (s *Server) WordFrequencies(id int) map[string]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.WordFrequencies(id)
}

func (s *Server) DocumentCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.DocumentCount()
}

// DocumentIDs returns the ids of all indexed documents in ascending order.
func (s *Server) DocumentIDs() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.DocumentIDs()
}

// All iterates over a snapshot of the document ids in ascending order.
func (s *Server) All() iter.Seq[int] {
	return slices.Values(s.DocumentIDs())
}

// StopWords returns the stop words in ascending order.
func (s *Server) StopWords() []string {
	return s.index.StopWords().Words()
}

// CacheStats describes the result cache. Enabled is false when the server
// was built without WithResultCache.
type CacheStats struct {
	Enabled bool
	Entries int
	Hits    int64
	Misses  int64
}

func (s *Server) CacheStats() CacheStats {
	if s.cache == nil {
		return CacheStats{}
	}
	hits, misses := s.cache.Stats()
	return CacheStats{Enabled: true, Entries: s.cache.Len(), Hits: hits, Misses: misses}
}

// ParseExecutionMode accepts "sequential" (or "seq") and "parallel" (or
// "par"), ignoring case. The empty string is Sequential.
func ParseExecutionMode(name string) (ExecutionMode, error) {
	return execution.ParseMode(name)
}

func (s *Server) invalidateLocked() {
	if s.cache != nil {
		s.cache.Invalidate()
	}
}

func cacheResult(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

func (s *Server) recordSizeLocked() {
	if s.metrics == nil {
		return
	}
	s.metrics.IndexedDocuments.Set(float64(s.index.DocumentCount()))
	s.metrics.IndexedWords.Set(float64(s.index.WordCount()))
}

func (s *Server) observeQuery(operation string, mode ExecutionMode, start time.Time, err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.QueriesTotal.WithLabelValues(operation, mode.String(), apperrors.Kind(err)).Inc()
	s.metrics.QueryLatency.WithLabelValues(operation, mode.String()).Observe(time.Since(start).Seconds())
}
