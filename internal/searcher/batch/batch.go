// Package batch runs many queries against one searcher at once. Queries
// fan out over a bounded worker group; identical queries within one batch
// are evaluated once.
package batch

import (
	"fmt"
	"log/slog"
	"slices"

	"golang.org/x/sync/singleflight"

	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/execution"
	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/docsearch/pkg/document"
)

// Searcher must be safe for concurrent FindTopDocuments calls.
type Searcher interface {
	FindTopDocuments(mode execution.Mode, rawQuery string, filter executor.Predicate) ([]document.Document, error)
}

type Processor struct {
	searcher    Searcher
	parallelism int
	logger      *slog.Logger
}

func New(searcher Searcher, parallelism int) *Processor {
	return &Processor{
		searcher:    searcher,
		parallelism: parallelism,
		logger:      slog.Default().With("component", "batch-processor"),
	}
}

// Process returns the top documents of every query, in query order. Each
// query uses the default filter (status ACTUAL). The first failing query
// fails the whole batch. Duplicates are shared only inside this call, so a
// batch never returns results computed before it started.
func (p *Processor) Process(queries []string) ([][]document.Document, error) {
	var group singleflight.Group
	results, err := execution.Map(execution.Parallel, p.parallelism, queries,
		func(i int, query string) ([]document.Document, error) {
			v, err, shared := group.Do(query, func() (any, error) {
				return p.searcher.FindTopDocuments(execution.Sequential, query, nil)
			})
			if err != nil {
				return nil, fmt.Errorf("query %d %q: %w", i, query, err)
			}
			if shared {
				p.logger.Debug("batch query shared", "query", query)
			}
			return slices.Clone(v.([]document.Document)), nil
		})
	if err != nil {
		p.logger.Error("batch failed", "queries", len(queries), "error", err)
		return nil, err
	}
	p.logger.Debug("batch processed", "queries", len(queries))
	return results, nil
}

// ProcessJoined is Process with all result lists concatenated in query
// order.
func (p *Processor) ProcessJoined(queries []string) ([]document.Document, error) {
	perQuery, err := p.Process(queries)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, docs := range perQuery {
		total += len(docs)
	}
	joined := make([]document.Document, 0, total)
	for _, docs := range perQuery {
		joined = append(joined, docs...)
	}
	return joined, nil
}
