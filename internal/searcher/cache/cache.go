// Package cache memoizes ranked results of default-filter queries. The
// owner must call Invalidate whenever the index changes.
package cache

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/docsearch/pkg/document"
)

type QueryCache struct {
	mu         sync.RWMutex
	entries    map[string][]document.Document
	maxEntries int
	group      singleflight.Group
	logger     *slog.Logger
	hits       atomic.Int64
	misses     atomic.Int64
}

// New returns a cache holding at most maxEntries result lists. When full,
// the next insertion empties it.
func New(maxEntries int) *QueryCache {
	return &QueryCache{
		entries:    make(map[string][]document.Document),
		maxEntries: max(maxEntries, 1),
		logger:     slog.Default().With("component", "query-cache"),
	}
}

func (c *QueryCache) Get(q parser.Query, limit int) ([]document.Document, bool) {
	key := BuildKey(q, limit)
	c.mu.RLock()
	docs, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	c.logger.Debug("cache hit", "query", q.RawQuery)
	return slices.Clone(docs), true
}

func (c *QueryCache) Set(q parser.Query, limit int, docs []document.Document) {
	key := BuildKey(q, limit)
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) >= c.maxEntries {
		c.logger.Debug("cache full, evicting", "entries", len(c.entries))
		clear(c.entries)
	}
	c.entries[key] = slices.Clone(docs)
}

// GetOrCompute returns the cached result for q or runs computeFn once for
// all concurrent callers asking for the same key. The bool reports a hit.
func (c *QueryCache) GetOrCompute(
	q parser.Query,
	limit int,
	computeFn func() ([]document.Document, error),
) ([]document.Document, bool, error) {
	if docs, ok := c.Get(q, limit); ok {
		return docs, true, nil
	}
	val, err, _ := c.group.Do(BuildKey(q, limit), func() (any, error) {
		docs, err := computeFn()
		if err != nil {
			return nil, err
		}
		c.Set(q, limit, docs)
		return docs, nil
	})
	if err != nil {
		return nil, false, err
	}
	return slices.Clone(val.([]document.Document)), false, nil
}

func (c *QueryCache) Invalidate() {
	c.mu.Lock()
	n := len(c.entries)
	clear(c.entries)
	c.mu.Unlock()
	if n > 0 {
		c.logger.Debug("cache invalidated", "entries_dropped", n)
	}
}

func (c *QueryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *QueryCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// BuildKey normalizes q so that queries differing only in word order or
// repetition share an entry.
func BuildKey(q parser.Query, limit int) string {
	plus := slices.Compact(slices.Sorted(slices.Values(q.PlusWords)))
	minus := slices.Compact(slices.Sorted(slices.Values(q.MinusWords)))
	return fmt.Sprintf("%s|NOT:%s|limit=%d",
		strings.Join(plus, ","), strings.Join(minus, ","), limit)
}
