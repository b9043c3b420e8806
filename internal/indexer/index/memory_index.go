// Package index is the in-memory document store: document metadata, the
// word -> document inverted index and the document -> word reverse index.
// The two indexes always hold the same (word, document, frequency) triples.
//
// A MemoryIndex is not safe for concurrent mutation. Readers may run
// concurrently with each other; callers serialize Add and Remove against
// everything else. Parallel operations only parallelize work inside one call.
package index

import (
	"iter"
	"log/slog"
	"math"
	"slices"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/execution"
	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/docsearch/pkg/document"
	apperrors "github.com/Adithya-Monish-Kumar-K/docsearch/pkg/errors"
)

type MemoryIndex struct {
	stopWords   tokenizer.StopWords
	documents   map[int]Record
	wordToDocs  map[string]Postings
	docToWords  map[int]WordFrequencies
	ids         []int
	parallelism int
	logger      *slog.Logger
}

// NewMemoryIndex creates an empty index. parallelism bounds the goroutines
// of parallel Remove and Match calls; zero means GOMAXPROCS.
func NewMemoryIndex(stopWords tokenizer.StopWords, parallelism int) *MemoryIndex {
	return &MemoryIndex{
		stopWords:   stopWords,
		documents:   make(map[int]Record),
		wordToDocs:  make(map[string]Postings),
		docToWords:  make(map[int]WordFrequencies),
		parallelism: parallelism,
		logger:      slog.Default().With("component", "memory-index"),
	}
}

func (m *MemoryIndex) StopWords() tokenizer.StopWords {
	return m.stopWords
}

// Add indexes a document. It fails with ErrInvalidArgument for a negative
// or already present id and for text containing an invalid word; on
// failure the index is unchanged.
func (m *MemoryIndex) Add(id int, text string, status document.Status, ratings []int) error {
	if id < 0 {
		return apperrors.InvalidArgumentf("document id %d is negative", id)
	}
	if _, exists := m.documents[id]; exists {
		return apperrors.InvalidArgumentf("document %d already exists", id)
	}
	text = strings.Clone(text)
	words, err := m.stopWords.SplitNoStop(text)
	if err != nil {
		return err
	}

	freqs := make(WordFrequencies, len(words))
	if len(words) > 0 {
		inv := 1.0 / float64(len(words))
		for _, w := range words {
			freqs[w] += inv
		}
	}
	for w, tf := range freqs {
		postings, ok := m.wordToDocs[w]
		if !ok {
			postings = make(Postings)
			m.wordToDocs[w] = postings
		}
		postings[id] = tf
	}
	m.docToWords[id] = freqs
	m.documents[id] = Record{
		Rating: averageRating(ratings),
		Status: status,
		Text:   text,
	}
	pos, _ := slices.BinarySearch(m.ids, id)
	m.ids = slices.Insert(m.ids, pos, id)

	m.logger.Debug("document added",
		"doc_id", id,
		"token_count", len(words),
		"distinct_words", len(freqs),
	)
	return nil
}

// Remove drops a document and all of its index entries. It reports whether
// the id was present; an unknown id is not an error. In Parallel mode the
// per-word deletions run concurrently, each on its own posting map.
func (m *MemoryIndex) Remove(mode execution.Mode, id int) bool {
	freqs, ok := m.docToWords[id]
	if !ok {
		return false
	}
	words := make([]string, 0, len(freqs))
	for w := range freqs {
		words = append(words, w)
	}
	execution.ForEach(mode, m.parallelism, words, func(w string) {
		delete(m.wordToDocs[w], id)
	})
	for _, w := range words {
		if len(m.wordToDocs[w]) == 0 {
			delete(m.wordToDocs, w)
		}
	}
	delete(m.docToWords, id)
	delete(m.documents, id)
	if pos, found := slices.BinarySearch(m.ids, id); found {
		m.ids = slices.Delete(m.ids, pos, pos+1)
	}

	m.logger.Debug("document removed",
		"doc_id", id,
		"words", len(words),
		"mode", mode.String(),
	)
	return true
}

// WordFrequencies returns a copy of the document's word frequencies, or an
// empty map for an unknown id.
func (m *MemoryIndex) WordFrequencies(id int) map[string]float64 {
	freqs := m.docToWords[id]
	result := make(map[string]float64, len(freqs))
	for w, tf := range freqs {
		result[w] = tf
	}
	return result
}

func (m *MemoryIndex) DocumentCount() int {
	return len(m.documents)
}

// WordCount is the number of distinct words with at least one posting.
func (m *MemoryIndex) WordCount() int {
	return len(m.wordToDocs)
}

// DocumentIDs returns the live ids in ascending order.
func (m *MemoryIndex) DocumentIDs() []int {
	return slices.Clone(m.ids)
}

// All iterates over the live ids in ascending order.
func (m *MemoryIndex) All() iter.Seq[int] {
	return func(yield func(int) bool) {
		for _, id := range m.ids {
			if !yield(id) {
				return
			}
		}
	}
}

func (m *MemoryIndex) Document(id int) (Record, bool) {
	rec, ok := m.documents[id]
	return rec, ok
}

// Postings returns the posting map of word. The map must not be modified.
func (m *MemoryIndex) Postings(word string) (Postings, bool) {
	postings, ok := m.wordToDocs[word]
	return postings, ok
}

// InverseDocumentFrequency is ln(documents / documents containing word).
// It is zero for a word that no document contains.
func (m *MemoryIndex) InverseDocumentFrequency(word string) float64 {
	postings := m.wordToDocs[word]
	if len(postings) == 0 {
		return 0
	}
	return math.Log(float64(len(m.documents)) / float64(len(postings)))
}

func (m *MemoryIndex) contains(word string, id int) bool {
	postings, ok := m.wordToDocs[word]
	if !ok {
		return false
	}
	_, ok = postings[id]
	return ok
}

// Match returns the query's plus words found in document id, sorted and
// deduplicated, together with the document's status. A minus word found in
// the document empties the result. Query words unknown to the index never
// match. It fails with ErrOutOfRange for an unknown id.
func (m *MemoryIndex) Match(mode execution.Mode, rawQuery string, id int) ([]string, document.Status, error) {
	rec, ok := m.documents[id]
	if id < 0 || !ok {
		return nil, 0, apperrors.OutOfRangef("document %d does not exist", id)
	}
	q, err := parser.Parse(rawQuery, m.stopWords, mode == execution.Parallel)
	if err != nil {
		return nil, 0, err
	}
	inDocument := func(w string) bool {
		return m.contains(w, id)
	}

	if mode != execution.Parallel {
		for _, w := range q.MinusWords {
			if inDocument(w) {
				return []string{}, rec.Status, nil
			}
		}
		matched := make([]string, 0, len(q.PlusWords))
		for _, w := range q.PlusWords {
			if inDocument(w) {
				matched = append(matched, w)
			}
		}
		return matched, rec.Status, nil
	}

	if execution.AnyOf(mode, m.parallelism, q.MinusWords, inDocument) {
		return []string{}, rec.Status, nil
	}
	matched := execution.Filter(mode, m.parallelism, q.PlusWords, inDocument)
	slices.Sort(matched)
	return slices.Compact(matched), rec.Status, nil
}
