// Package accumulator provides Map, a fixed-shard concurrent map from
// integer keys to numeric values. Each shard owns its own mutex, so writers
// touching keys in different shards never contend. It is the per-query
// relevance accumulator of the parallel search path.
package accumulator

import "sync"

type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

type Number interface {
	Integer | ~float32 | ~float64
}

type shard[K Integer, V Number] struct {
	mu     sync.Mutex
	values map[K]*V
}

// Map routes key k to shard uint64(k) % ShardCount().
type Map[K Integer, V Number] struct {
	shards []shard[K, V]
}

// New creates a Map with shardCount shards (at least one). Shard storage
// is allocated on first write.
func New[K Integer, V Number](shardCount int) *Map[K, V] {
	if shardCount < 1 {
		shardCount = 1
	}
	return &Map[K, V]{shards: make([]shard[K, V], shardCount)}
}

func (m *Map[K, V]) ShardCount() int {
	return len(m.shards)
}

func (m *Map[K, V]) shardFor(key K) *shard[K, V] {
	return &m.shards[uint64(key)%uint64(len(m.shards))]
}

// Access is exclusive access to one key. The owning shard stays locked
// until Release is called.
type Access[K Integer, V Number] struct {
	Value *V
	shard *shard[K, V]
}

// Release unlocks the shard. Calling it more than once is a no-op.
func (a *Access[K, V]) Release() {
	if a.shard == nil {
		return
	}
	a.shard.mu.Unlock()
	a.shard = nil
	a.Value = nil
}

// Access locks the shard owning key and returns a handle to its value,
// inserting a zero value if the key is absent.
func (m *Map[K, V]) Access(key K) *Access[K, V] {
	s := m.shardFor(key)
	s.mu.Lock()
	if s.values == nil {
		s.values = make(map[K]*V)
	}
	v, ok := s.values[key]
	if !ok {
		v = new(V)
		s.values[key] = v
	}
	return &Access[K, V]{Value: v, shard: s}
}

// Update runs fn on the value of key while holding its shard lock.
func (m *Map[K, V]) Update(key K, fn func(value *V)) {
	a := m.Access(key)
	defer a.Release()
	fn(a.Value)
}

// Add increments the value of key by delta.
func (m *Map[K, V]) Add(key K, delta V) {
	m.Update(key, func(value *V) {
		*value += delta
	})
}

// Remove erases key if present.
func (m *Map[K, V]) Remove(key K) {
	s := m.shardFor(key)
	s.mu.Lock()
	delete(s.values, key)
	s.mu.Unlock()
}

// Len counts keys shard by shard.
func (m *Map[K, V]) Len() int {
	n := 0
	for i := range m.shards {
		s := &m.shards[i]
		s.mu.Lock()
		n += len(s.values)
		s.mu.Unlock()
	}
	return n
}

// Drain copies every shard into an ordinary map, locking one shard at a
// time. The result is only a consistent snapshot once all writers are done.
func (m *Map[K, V]) Drain() map[K]V {
	result := make(map[K]V)
	for i := range m.shards {
		s := &m.shards[i]
		s.mu.Lock()
		for k, v := range s.values {
			result[k] = *v
		}
		s.mu.Unlock()
	}
	return result
}
