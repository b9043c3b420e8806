// Package corpus reads a YAML file of stop words and documents and loads it
// into a search server.
package corpus

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Adithya-Monish-Kumar-K/docsearch/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/docsearch/pkg/document"
	"github.com/Adithya-Monish-Kumar-K/docsearch/pkg/search"
)

// Corpus is the content of a corpus file.
type Corpus struct {
	// StopWords is space-delimited.
	StopWords string  `yaml:"stopWords"`
	Documents []Entry `yaml:"documents"`
}

// Entry is one document to index. A missing status means ACTUAL.
type Entry struct {
	ID      int             `yaml:"id"`
	Text    string          `yaml:"text"`
	Status  document.Status `yaml:"status"`
	Ratings []int           `yaml:"ratings"`
}

func Load(path string) (*Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading corpus file %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing corpus file %s: %w", path, err)
	}
	return c, nil
}

func Parse(data []byte) (*Corpus, error) {
	var c Corpus
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// NewServer builds a server from the corpus stop words plus extra and adds
// every document in file order. opts are passed to search.NewServer.
func (c *Corpus) NewServer(extra []string, opts ...search.Option) (*search.Server, error) {
	stopWords := append(tokenizer.Split(c.StopWords), extra...)
	s, err := search.NewServer(stopWords, opts...)
	if err != nil {
		return nil, err
	}
	if err := c.AddTo(s); err != nil {
		return nil, err
	}
	return s, nil
}

// AddTo adds every document to s, stopping at the first rejected one.
func (c *Corpus) AddTo(s *search.Server) error {
	for i, e := range c.Documents {
		if err := s.AddDocument(e.ID, e.Text, e.Status, e.Ratings); err != nil {
			return fmt.Errorf("corpus entry %d: %w", i, err)
		}
	}
	slog.Debug("corpus loaded", "documents", len(c.Documents))
	return nil
}
