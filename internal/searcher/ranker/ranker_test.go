package ranker

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/docsearch/pkg/document"
)

func TestEpsilon(t *testing.T) {
	assert.Equal(t, 2.220446049250313e-16, Epsilon)
}

func TestRankOrdersByRelevanceThenRating(t *testing.T) {
	docs := []document.Document{
		{ID: 1, Relevance: 0.2, Rating: 1},
		{ID: 2, Relevance: 0.9, Rating: -5},
		{ID: 3, Relevance: 0.2, Rating: 7},
		{ID: 4, Relevance: 0.2 + Epsilon/4, Rating: 3},
	}
	got := Rank(docs, 0)
	ids := make([]int, len(got))
	for i, d := range got {
		ids[i] = d.ID
	}
	assert.Equal(t, []int{2, 3, 4, 1}, ids)
}

func TestRankTruncates(t *testing.T) {
	docs := make([]document.Document, 0, 7)
	for i := 0; i < 7; i++ {
		docs = append(docs, document.Document{ID: i, Relevance: float64(i) / 10})
	}
	got := Rank(docs, 0)
	require.Len(t, got, MaxResultDocumentCount)
	for i, d := range got {
		assert.Equal(t, 6-i, d.ID)
	}

	got = Rank(docs, 2)
	require.Len(t, got, 2)
	assert.Equal(t, 6, got[0].ID)
}

func TestRankHeapMatchesFullSort(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	docs := make([]document.Document, 500)
	for i := range docs {
		docs[i] = document.Document{
			ID:        i,
			Relevance: float64(rng.Intn(20)) / 7,
			Rating:    rng.Intn(10) - 5,
		}
	}
	want := append([]document.Document(nil), docs...)
	sort.Slice(want, func(i, j int) bool { return Less(want[i], want[j]) })

	assert.Equal(t, want[:10], Rank(docs, 10))
}

func TestRankEmpty(t *testing.T) {
	assert.Empty(t, Rank(nil, 0))
}

func BenchmarkRank(b *testing.B) {
	for _, n := range []int{100, 1000, 10000} {
		b.Run(fmt.Sprintf("docs_%d", n), func(b *testing.B) {
			src := make([]document.Document, n)
			for i := range src {
				src[i] = document.Document{ID: i, Relevance: float64(i%97) / 13, Rating: i % 11}
			}
			docs := make([]document.Document, n)
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				copy(docs, src)
				_ = Rank(docs, MaxResultDocumentCount)
			}
		})
	}
}

func TestLessNearTiesAreNotTransitive(t *testing.T) {
	a := document.Document{ID: 1, Relevance: 0, Rating: 3}
	b := document.Document{ID: 2, Relevance: 0.75 * Epsilon, Rating: 2}
	c := document.Document{ID: 3, Relevance: 1.5 * Epsilon, Rating: 1}

	assert.True(t, Less(a, b))
	assert.True(t, Less(b, c))
	assert.True(t, Less(c, a))
}
