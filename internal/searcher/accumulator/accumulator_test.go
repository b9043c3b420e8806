package accumulator

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessCreatesZeroValue(t *testing.T) {
	m := New[int, float64](4)
	a := m.Access(7)
	assert.Equal(t, 0.0, *a.Value)
	*a.Value += 1.5
	a.Release()
	a.Release()

	m.Add(7, 0.5)
	m.Add(3, 2)
	assert.Equal(t, map[int]float64{3: 2, 7: 2}, m.Drain())
	assert.Equal(t, 2, m.Len())
}

func TestRemove(t *testing.T) {
	m := New[int, float64](3)
	m.Add(1, 1)
	m.Add(4, 1)
	m.Remove(4)
	m.Remove(100)
	assert.Equal(t, map[int]float64{1: 1}, m.Drain())
}

func TestShardCountAtLeastOne(t *testing.T) {
	m := New[int, int](0)
	assert.Equal(t, 1, m.ShardCount())
	m.Add(-5, 1)
	assert.Equal(t, map[int]int{-5: 1}, m.Drain())
}

func TestDifferentShardsDoNotBlock(t *testing.T) {
	m := New[int, int](2)
	held := m.Access(0)
	defer held.Release()

	done := make(chan struct{})
	go func() {
		m.Add(1, 1)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("update on another shard blocked behind a held lock")
	}
}

func TestSameKeySerializes(t *testing.T) {
	m := New[int, int](2)
	held := m.Access(4)

	done := make(chan struct{})
	go func() {
		m.Add(4, 1)
		close(done)
	}()
	select {
	case <-done:
		t.Fatal("update proceeded while the shard was locked")
	case <-time.After(50 * time.Millisecond):
	}
	*held.Value = 10
	held.Release()
	<-done
	assert.Equal(t, map[int]int{4: 11}, m.Drain())
}

func TestConcurrentIncrementStress(t *testing.T) {
	const (
		workers    = 16
		iterations = 2000
		keys       = 37
	)
	for _, shards := range []int{1, 7, 64} {
		t.Run(fmt.Sprintf("shards_%d", shards), func(t *testing.T) {
			m := New[int, int64](shards)
			var wg sync.WaitGroup
			for w := 0; w < workers; w++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for i := 0; i < iterations; i++ {
						m.Add(i%keys, 1)
					}
				}()
			}
			wg.Wait()

			result := m.Drain()
			require.Len(t, result, keys)
			var total int64
			for _, v := range result {
				total += v
			}
			assert.Equal(t, int64(workers*iterations), total)
		})
	}
}

func BenchmarkAddParallel(b *testing.B) {
	for _, shards := range []int{1, 8, 128} {
		b.Run(fmt.Sprintf("shards_%d", shards), func(b *testing.B) {
			m := New[int, float64](shards)
			b.ReportAllocs()
			b.RunParallel(func(pb *testing.PB) {
				i := 0
				for pb.Next() {
					m.Add(i%1024, 0.25)
					i++
				}
			})
		})
	}
}
