package search

import (
	"github.com/Adithya-Monish-Kumar-K/docsearch/pkg/document"
)

// ProcessQueries runs FindTopDocuments for every query concurrently with
// the default filter and returns the result lists in query order.
func ProcessQueries(s *Server, queries []string) ([][]document.Document, error) {
	s.countBatch(len(queries))
	return s.batch.Process(queries)
}

// ProcessQueriesJoined is ProcessQueries with the result lists concatenated
// in query order.
func ProcessQueriesJoined(s *Server, queries []string) ([]document.Document, error) {
	s.countBatch(len(queries))
	return s.batch.ProcessJoined(queries)
}

func (s *Server) countBatch(n int) {
	if s.metrics != nil {
		s.metrics.BatchQueriesTotal.Add(float64(n))
	}
}
