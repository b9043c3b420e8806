package ranker

import (
	"container/heap"
	"math"
	"sort"

	"github.com/Adithya-Monish-Kumar-K/docsearch/pkg/document"
)

// MaxResultDocumentCount is the default result cap.
const MaxResultDocumentCount = 5

// Epsilon is the float64 machine epsilon. Relevances closer than Epsilon
// are ranked by rating.
var Epsilon = math.Nextafter(1, 2) - 1

// Less reports whether a ranks before b: higher relevance first, then
// higher rating, then lower id. Relevance ties within Epsilon are not
// transitive, so the heap and the full sort may order a chain of near-ties
// differently.
func Less(a, b document.Document) bool {
	if math.Abs(a.Relevance-b.Relevance) >= Epsilon {
		return a.Relevance > b.Relevance
	}
	if a.Rating != b.Rating {
		return a.Rating > b.Rating
	}
	return a.ID < b.ID
}

// Rank orders docs best first and keeps at most limit of them. A
// non-positive limit means MaxResultDocumentCount. docs is reordered in
// place.
func Rank(docs []document.Document, limit int) []document.Document {
	if limit <= 0 {
		limit = MaxResultDocumentCount
	}
	if len(docs) <= limit {
		sort.Slice(docs, func(i, j int) bool {
			return Less(docs[i], docs[j])
		})
		return docs
	}
	return selectTop(docs, limit)
}

// selectTop keeps the best limit documents on a bounded min-heap.
func selectTop(docs []document.Document, limit int) []document.Document {
	h := make(worstFirst, 0, limit+1)
	for _, doc := range docs {
		heap.Push(&h, doc)
		if h.Len() > limit {
			heap.Pop(&h)
		}
	}
	result := make([]document.Document, h.Len())
	for i := len(result) - 1; i >= 0; i-- {
		result[i] = heap.Pop(&h).(document.Document)
	}
	return result
}

type worstFirst []document.Document

func (h worstFirst) Len() int { return len(h) }

func (h worstFirst) Less(i, j int) bool { return Less(h[j], h[i]) }

func (h worstFirst) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *worstFirst) Push(x any) {
	*h = append(*h, x.(document.Document))
}

func (h *worstFirst) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
