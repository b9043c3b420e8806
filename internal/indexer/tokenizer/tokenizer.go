// Package tokenizer splits document and query text into words. Words are
// runs of non-space bytes separated by one or more ' ' characters; no case
// folding or stemming is applied. Returned words are substrings of the
// input and share its backing memory.
package tokenizer

import (
	"sort"
	"strings"

	apperrors "github.com/Adithya-Monish-Kumar-K/docsearch/pkg/errors"
)

// Split breaks text into non-empty words. Empty or all-space input yields
// no words.
func Split(text string) []string {
	words := make([]string, 0, strings.Count(text, " ")+1)
	for len(text) > 0 {
		text = strings.TrimLeft(text, " ")
		if text == "" {
			break
		}
		end := strings.IndexByte(text, ' ')
		if end < 0 {
			words = append(words, text)
			break
		}
		words = append(words, text[:end])
		text = text[end:]
	}
	return words
}

// IsValid reports whether word is free of control characters (bytes below
// 0x20).
func IsValid(word string) bool {
	for i := 0; i < len(word); i++ {
		if word[i] < ' ' {
			return false
		}
	}
	return true
}

// StopWords is an immutable set of words excluded from indexing and from
// queries. Matching is exact and case-sensitive.
type StopWords struct {
	set map[string]struct{}
}

// NewStopWords builds a StopWords set. Empty strings are skipped and every
// other word must be valid.
func NewStopWords(words []string) (StopWords, error) {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		if w == "" {
			continue
		}
		if !IsValid(w) {
			return StopWords{}, apperrors.InvalidArgumentf("stop word %q contains control characters", w)
		}
		set[w] = struct{}{}
	}
	return StopWords{set: set}, nil
}

// ParseStopWords builds a StopWords set from a space-delimited string.
func ParseStopWords(text string) (StopWords, error) {
	return NewStopWords(Split(text))
}

func (s StopWords) Contains(word string) bool {
	_, ok := s.set[word]
	return ok
}

func (s StopWords) Len() int {
	return len(s.set)
}

// Words returns the stop words in ascending order.
func (s StopWords) Words() []string {
	words := make([]string, 0, len(s.set))
	for w := range s.set {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

// SplitNoStop splits text, rejects invalid words and drops stop words.
func (s StopWords) SplitNoStop(text string) ([]string, error) {
	all := Split(text)
	words := all[:0]
	for _, w := range all {
		if !IsValid(w) {
			return nil, apperrors.InvalidArgumentf("word %q contains control characters", w)
		}
		if s.Contains(w) {
			continue
		}
		words = append(words, w)
	}
	return words, nil
}
