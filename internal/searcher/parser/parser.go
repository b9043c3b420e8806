package parser

import (
	"slices"

	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/indexer/tokenizer"
	apperrors "github.com/Adithya-Monish-Kumar-K/docsearch/pkg/errors"
)

// Query is a parsed query. Words alias the raw query text.
type Query struct {
	PlusWords  []string
	MinusWords []string
	RawQuery   string
}

// IsEmpty reports whether the query has no plus words and no minus words.
func (q Query) IsEmpty() bool {
	return len(q.PlusWords) == 0 && len(q.MinusWords) == 0
}

type queryWord struct {
	data    string
	isMinus bool
	isStop  bool
}

// Parse classifies each word of raw as a plus or minus word, dropping stop
// words. Unless keepInputOrder is set, both lists are sorted and
// deduplicated.
func Parse(raw string, stopWords tokenizer.StopWords, keepInputOrder bool) (Query, error) {
	q := Query{
		PlusWords:  make([]string, 0),
		MinusWords: make([]string, 0),
		RawQuery:   raw,
	}
	for _, text := range tokenizer.Split(raw) {
		w, err := parseWord(text, stopWords)
		if err != nil {
			return Query{}, err
		}
		if w.isStop {
			continue
		}
		if w.isMinus {
			q.MinusWords = append(q.MinusWords, w.data)
		} else {
			q.PlusWords = append(q.PlusWords, w.data)
		}
	}
	if !keepInputOrder {
		slices.Sort(q.PlusWords)
		q.PlusWords = slices.Compact(q.PlusWords)
		slices.Sort(q.MinusWords)
		q.MinusWords = slices.Compact(q.MinusWords)
	}
	return q, nil
}

func parseWord(text string, stopWords tokenizer.StopWords) (queryWord, error) {
	if text == "" {
		return queryWord{}, apperrors.New(apperrors.ErrInvalidArgument, "query word is empty")
	}
	word := text
	isMinus := false
	if word[0] == '-' {
		isMinus = true
		word = word[1:]
	}
	if word == "" {
		return queryWord{}, apperrors.New(apperrors.ErrInvalidArgument, "minus sign without a word")
	}
	if word[0] == '-' {
		return queryWord{}, apperrors.InvalidArgumentf("query word %q starts with a double minus", text)
	}
	if !tokenizer.IsValid(word) {
		return queryWord{}, apperrors.InvalidArgumentf("query word %q contains control characters", text)
	}
	return queryWord{
		data:    word,
		isMinus: isMinus,
		isStop:  stopWords.Contains(word),
	}, nil
}
