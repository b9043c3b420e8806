// Package document defines the value types exchanged with callers of the
// search index: ranked Document results and the Status a document is filed
// under.
package document

import (
	"fmt"
	"strings"
)

// Document is one ranked search hit.
type Document struct {
	ID        int     `json:"id" yaml:"id"`
	Relevance float64 `json:"relevance" yaml:"relevance"`
	Rating    int     `json:"rating" yaml:"rating"`
}

func (d Document) String() string {
	return fmt.Sprintf("{ document_id = %d, relevance = %g, rating = %d }", d.ID, d.Relevance, d.Rating)
}

// Status is compared by equality only; its meaning belongs to the caller.
type Status int

const (
	StatusActual Status = iota
	StatusIrrelevant
	StatusBanned
	StatusRemoved
)

var statusNames = [...]string{
	StatusActual:     "ACTUAL",
	StatusIrrelevant: "IRRELEVANT",
	StatusBanned:     "BANNED",
	StatusRemoved:    "REMOVED",
}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusNames[s]
}

// ParseStatus accepts the status names case-insensitively.
func ParseStatus(name string) (Status, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for i, n := range statusNames {
		if n == upper {
			return Status(i), nil
		}
	}
	return 0, fmt.Errorf("unknown document status %q", name)
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
