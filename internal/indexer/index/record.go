package index

import "github.com/Adithya-Monish-Kumar-K/docsearch/pkg/document"

// Record is the metadata kept for one indexed document.
type Record struct {
	Rating int
	Status document.Status
	Text   string
}

// Postings maps document id to the term frequency of one word.
type Postings map[int]float64

// WordFrequencies maps word to its term frequency within one document.
type WordFrequencies map[string]float64

func averageRating(ratings []int) int {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return sum / len(ratings)
}
