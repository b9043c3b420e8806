// Package executor is the relevance engine. It accumulates TF-IDF relevance
// for every document reached by a query's plus words, keeps the documents
// accepted by a predicate and drops every document reached by a minus word.
// The parallel form spreads words over a bounded worker group and
// accumulates into a sharded concurrent map.
package executor

import (
	"context"
	"log/slog"
	"maps"
	"slices"

	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/execution"
	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/searcher/accumulator"
	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/docsearch/pkg/document"
	"github.com/Adithya-Monish-Kumar-K/docsearch/pkg/tracing"
)

// maxAutoShards caps the accumulator size derived from the vocabulary.
const maxAutoShards = 1024

// Predicate decides whether a document may appear in results. In parallel
// mode it is called from several goroutines at once.
type Predicate func(id int, status document.Status, rating int) bool

// Index is the read side of the document store used for scoring.
type Index interface {
	DocumentCount() int
	WordCount() int
	Document(id int) (index.Record, bool)
	Postings(word string) (index.Postings, bool)
	InverseDocumentFrequency(word string) float64
}

type Config struct {
	// Parallelism bounds worker goroutines; zero means GOMAXPROCS.
	Parallelism int
	// AccumulatorShards fixes the shard count; zero derives it from the
	// number of distinct indexed words.
	AccumulatorShards int
	// Tracing logs a span tree for every parallel evaluation.
	Tracing bool
}

type Executor struct {
	cfg    Config
	logger *slog.Logger
}

func New(cfg Config) *Executor {
	return &Executor{
		cfg:    cfg,
		logger: slog.Default().With("component", "relevance-executor"),
	}
}

// FindAll returns every matching document with its accumulated relevance,
// ordered by id. A nil predicate accepts every document.
func (e *Executor) FindAll(idx Index, q parser.Query, pred Predicate, mode execution.Mode) []document.Document {
	if pred == nil {
		pred = func(int, document.Status, int) bool { return true }
	}
	var relevance map[int]float64
	if mode == execution.Parallel {
		relevance = e.scoreParallel(idx, q, pred)
	} else {
		relevance = e.scoreSequential(idx, q, pred)
	}

	result := make([]document.Document, 0, len(relevance))
	for _, id := range slices.Sorted(maps.Keys(relevance)) {
		rec, _ := idx.Document(id)
		result = append(result, document.Document{
			ID:        id,
			Relevance: relevance[id],
			Rating:    rec.Rating,
		})
	}
	e.logger.Debug("relevance computed",
		"query", q.RawQuery,
		"plus_words", len(q.PlusWords),
		"minus_words", len(q.MinusWords),
		"matches", len(result),
		"mode", mode.String(),
	)
	return result
}

func (e *Executor) scoreSequential(idx Index, q parser.Query, pred Predicate) map[int]float64 {
	relevance := make(map[int]float64)
	for _, w := range q.PlusWords {
		postings, ok := idx.Postings(w)
		if !ok {
			continue
		}
		idf := idx.InverseDocumentFrequency(w)
		for id, tf := range postings {
			rec, _ := idx.Document(id)
			if pred(id, rec.Status, rec.Rating) {
				relevance[id] += tf * idf
			}
		}
	}
	for _, w := range q.MinusWords {
		postings, ok := idx.Postings(w)
		if !ok {
			continue
		}
		for id := range postings {
			delete(relevance, id)
		}
	}
	return relevance
}

// scoreParallel runs two phases on the shared accumulator: all plus-word
// additions, then all minus-word removals. The second phase starts only
// after the first has finished, so a minus word always wins.
func (e *Executor) scoreParallel(idx Index, q parser.Query, pred Predicate) map[int]float64 {
	acc := accumulator.New[int, float64](e.ShardCount(idx))

	ctx := context.Background()
	var root *tracing.Span
	if e.cfg.Tracing {
		ctx, root = tracing.Start(ctx, "find_all")
		root.SetAttr("shards", acc.ShardCount())
	}

	phase := e.startPhase(ctx, "plus_phase", len(q.PlusWords))
	execution.ForEach(execution.Parallel, e.cfg.Parallelism, q.PlusWords, func(w string) {
		postings, ok := idx.Postings(w)
		if !ok {
			return
		}
		idf := idx.InverseDocumentFrequency(w)
		for id, tf := range postings {
			rec, _ := idx.Document(id)
			if pred(id, rec.Status, rec.Rating) {
				acc.Add(id, tf*idf)
			}
		}
	})
	phase.end()

	phase = e.startPhase(ctx, "minus_phase", len(q.MinusWords))
	execution.ForEach(execution.Parallel, e.cfg.Parallelism, q.MinusWords, func(w string) {
		postings, ok := idx.Postings(w)
		if !ok {
			return
		}
		for id := range postings {
			acc.Remove(id)
		}
	})
	phase.end()

	phase = e.startPhase(ctx, "drain", acc.ShardCount())
	relevance := acc.Drain()
	phase.end()

	if root != nil {
		root.SetAttr("matches", len(relevance))
		root.End()
		root.Log(e.logger)
	}
	return relevance
}

// ShardCount is the accumulator size a parallel evaluation over idx uses.
func (e *Executor) ShardCount(idx Index) int {
	if e.cfg.AccumulatorShards > 0 {
		return e.cfg.AccumulatorShards
	}
	return min(max(idx.WordCount(), 1), maxAutoShards)
}

type tracedPhase struct {
	span *tracing.Span
}

func (e *Executor) startPhase(ctx context.Context, name string, items int) tracedPhase {
	if tracing.FromContext(ctx) == nil {
		return tracedPhase{}
	}
	_, span := tracing.Start(ctx, name)
	span.SetAttr("items", items)
	return tracedPhase{span: span}
}

func (p tracedPhase) end() {
	if p.span != nil {
		p.span.End()
	}
}
