package execution

import (
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var modes = []Mode{Sequential, Parallel}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("Parallel")
	require.NoError(t, err)
	assert.Equal(t, Parallel, m)
	m, err = ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, Sequential, m)
	_, err = ParseMode("async")
	assert.Error(t, err)
	assert.Equal(t, "parallel", Parallel.String())
	assert.Equal(t, "Mode(7)", Mode(7).String())
}

func TestWorkers(t *testing.T) {
	assert.Equal(t, 3, Workers(3))
	assert.Positive(t, Workers(0))
}

func TestForVisitsEveryIndex(t *testing.T) {
	for _, mode := range modes {
		t.Run(mode.String(), func(t *testing.T) {
			var sum atomic.Int64
			For(mode, 4, 100, func(i int) {
				sum.Add(int64(i))
			})
			assert.Equal(t, int64(4950), sum.Load())
		})
	}
}

func TestForRespectsLimit(t *testing.T) {
	var running, peak atomic.Int64
	For(Parallel, 2, 50, func(i int) {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		running.Add(-1)
	})
	assert.LessOrEqual(t, peak.Load(), int64(2))
}

func TestAnyOfAndFilter(t *testing.T) {
	items := []int{5, 8, 13, 21, 34}
	for _, mode := range modes {
		t.Run(mode.String(), func(t *testing.T) {
			assert.True(t, AnyOf(mode, 0, items, func(v int) bool { return v == 21 }))
			assert.False(t, AnyOf(mode, 0, items, func(v int) bool { return v > 100 }))
			assert.False(t, AnyOf(mode, 0, nil, func(v int) bool { return true }))
			assert.Equal(t, []int{8, 34}, Filter(mode, 0, items, func(v int) bool { return v%2 == 0 }))
			assert.Empty(t, Filter(mode, 0, items, func(v int) bool { return false }))
		})
	}
}

func TestMap(t *testing.T) {
	items := []string{"a", "bb", "ccc"}
	for _, mode := range modes {
		t.Run(mode.String(), func(t *testing.T) {
			got, err := Map(mode, 2, items, func(i int, s string) (string, error) {
				return fmt.Sprintf("%d:%d", i, len(s)), nil
			})
			require.NoError(t, err)
			assert.Equal(t, []string{"0:1", "1:2", "2:3"}, got)

			boom := errors.New("boom")
			_, err = Map(mode, 2, items, func(i int, s string) (int, error) {
				if s == "bb" {
					return 0, boom
				}
				return i, nil
			})
			assert.ErrorIs(t, err, boom)
		})
	}
}
