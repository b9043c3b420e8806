// Package tracing records in-process span trees for one evaluation and
// writes them to slog. A span started under a context that already carries
// a span becomes its child and shares its trace id.
package tracing

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

type spanKey struct{}

type Span struct {
	name    string
	traceID string
	start   time.Time

	mu       sync.Mutex
	end      time.Time
	attrs    []slog.Attr
	children []*Span
}

// Start opens a span named name. Without a span in ctx it is a root span
// with a new trace id.
func Start(ctx context.Context, name string) (context.Context, *Span) {
	span := &Span{name: name, start: time.Now()}
	if parent := FromContext(ctx); parent != nil {
		span.traceID = parent.traceID
		parent.mu.Lock()
		parent.children = append(parent.children, span)
		parent.mu.Unlock()
	} else {
		span.traceID = uuid.NewString()
	}
	return context.WithValue(ctx, spanKey{}, span), span
}

// FromContext returns the innermost span of ctx, or nil.
func FromContext(ctx context.Context) *Span {
	span, _ := ctx.Value(spanKey{}).(*Span)
	return span
}

func (s *Span) Name() string    { return s.name }
func (s *Span) TraceID() string { return s.traceID }

// End stops the clock. Only the first call counts.
func (s *Span) End() {
	s.mu.Lock()
	if s.end.IsZero() {
		s.end = time.Now()
	}
	s.mu.Unlock()
}

// Duration is the time between Start and End, or until now for an open
// span.
func (s *Span) Duration() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.end.IsZero() {
		return time.Since(s.start)
	}
	return s.end.Sub(s.start)
}

// SetAttr sets key, replacing an earlier value. Attributes keep their
// first-set order.
func (s *Span) SetAttr(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.attrs {
		if s.attrs[i].Key == key {
			s.attrs[i].Value = slog.AnyValue(value)
			return
		}
	}
	s.attrs = append(s.attrs, slog.Any(key, value))
}

func (s *Span) Children() []*Span {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.children)
}

// Walk visits s and its descendants depth first, parents before children.
func (s *Span) Walk(fn func(span *Span, depth int)) {
	s.walk(fn, 0)
}

func (s *Span) walk(fn func(*Span, int), depth int) {
	fn(s, depth)
	for _, child := range s.Children() {
		child.walk(fn, depth+1)
	}
}

// Log writes one debug record per span of the tree.
func (s *Span) Log(logger *slog.Logger) {
	s.Walk(func(span *Span, depth int) {
		args := []any{
			"trace_id", span.traceID,
			"span", span.name,
			"depth", depth,
			"duration_us", span.Duration().Microseconds(),
		}
		span.mu.Lock()
		for _, a := range span.attrs {
			args = append(args, a)
		}
		span.mu.Unlock()
		logger.Debug("span", args...)
	})
}
