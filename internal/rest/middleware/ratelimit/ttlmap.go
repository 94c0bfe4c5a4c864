package ratelimit

import (
	"sync"
	"time"
)

// ttlMap is a thread-safe map whose entries expire ttl after their last write.
// Expired entries are pruned on writes at most once per ttl.
type ttlMap[K comparable, V any] struct {
	mu        sync.Mutex
	data      map[K]V
	expires   map[K]time.Time
	ttl       time.Duration
	lastPrune time.Time
	now       func() time.Time
}

func newTTLMap[K comparable, V any](ttl time.Duration) *ttlMap[K, V] {
	return &ttlMap[K, V]{
		data:    make(map[K]V),
		expires: make(map[K]time.Time),
		ttl:     ttl,
		now:     time.Now,
	}
}

// GetOrCreate returns the live value for key, creating it with create when missing
// or expired. The entry's expiry is refreshed either way.
func (m *ttlMap[K, V]) GetOrCreate(key K, create func() V) V {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.prune(now)

	value, ok := m.data[key]
	if !ok || now.After(m.expires[key]) {
		value = create()
		m.data[key] = value
	}
	m.expires[key] = now.Add(m.ttl)

	return value
}

// Len returns the number of stored entries, expired ones included.
func (m *ttlMap[K, V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

func (m *ttlMap[K, V]) prune(now time.Time) {
	if now.Sub(m.lastPrune) < m.ttl {
		return
	}
	m.lastPrune = now

	for key, expires := range m.expires {
		if now.After(expires) {
			delete(m.data, key)
			delete(m.expires, key)
		}
	}
}
