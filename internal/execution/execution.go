// Package execution selects between sequential and parallel evaluation and
// provides the bounded parallel-for primitives the index and the relevance
// engine are built on. Parallel work runs on an errgroup limited to a fixed
// number of goroutines.
package execution

import (
	"fmt"
	"runtime"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Mode is chosen explicitly by the caller of every operation that has a
// parallel form. The zero value is Sequential.
type Mode int

const (
	Sequential Mode = iota
	Parallel
)

func (m Mode) String() string {
	switch m {
	case Sequential:
		return "sequential"
	case Parallel:
		return "parallel"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "seq", "sequential":
		return Sequential, nil
	case "par", "parallel":
		return Parallel, nil
	default:
		return Sequential, fmt.Errorf("unknown execution mode %q", name)
	}
}

// Workers resolves a configured parallelism to a goroutine limit.
func Workers(limit int) int {
	if limit <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return limit
}

// For calls fn for every index in [0, n). In Parallel mode calls run on at
// most Workers(limit) goroutines and For returns once all have finished.
func For(mode Mode, limit int, n int, fn func(i int)) {
	if mode != Parallel || n < 2 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}
	var g errgroup.Group
	g.SetLimit(Workers(limit))
	for i := 0; i < n; i++ {
		g.Go(func() error {
			fn(i)
			return nil
		})
	}
	_ = g.Wait()
}

// ForEach calls fn for every item.
func ForEach[T any](mode Mode, limit int, items []T, fn func(item T)) {
	For(mode, limit, len(items), func(i int) {
		fn(items[i])
	})
}

// AnyOf reports whether pred holds for at least one item. Once a match is
// seen, remaining parallel calls skip the predicate.
func AnyOf[T any](mode Mode, limit int, items []T, pred func(item T) bool) bool {
	var found atomic.Bool
	For(mode, limit, len(items), func(i int) {
		if found.Load() {
			return
		}
		if pred(items[i]) {
			found.Store(true)
		}
	})
	return found.Load()
}

// Filter returns the items satisfying pred in their input order.
func Filter[T any](mode Mode, limit int, items []T, pred func(item T) bool) []T {
	keep := make([]bool, len(items))
	For(mode, limit, len(items), func(i int) {
		keep[i] = pred(items[i])
	})
	result := make([]T, 0, len(items))
	for i, item := range items {
		if keep[i] {
			result = append(result, item)
		}
	}
	return result
}

// Map applies fn to every item, keeping results in input order. The first
// error wins; in Parallel mode it also stops new calls from starting.
func Map[T, R any](mode Mode, limit int, items []T, fn func(i int, item T) (R, error)) ([]R, error) {
	results := make([]R, len(items))
	if mode != Parallel || len(items) < 2 {
		for i, item := range items {
			r, err := fn(i, item)
			if err != nil {
				return nil, err
			}
			results[i] = r
		}
		return results, nil
	}
	var g errgroup.Group
	g.SetLimit(Workers(limit))
	var failed atomic.Bool
	for i, item := range items {
		if failed.Load() {
			break
		}
		g.Go(func() error {
			r, err := fn(i, item)
			if err != nil {
				failed.Store(true)
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
