// Package cache provides the keyed memoization store for extraction results
// and rendered pages. Keys are (content fingerprint, qualifier) pairs; values
// are only published after they are fully constructed.
package cache

import (
	"container/list"
	"sync"
)

// DefaultCapacity bounds the store so long-running deployments do not grow
// without limit.
const DefaultCapacity = 1024

type entry[V any] struct {
	key   string
	value V
}

// Store memoizes values by (fingerprint, qualifier). Same key always yields
// the stored value once computed. There is no single-flight: concurrent
// computes for one key may all run and the last write wins; computing is
// idempotent for identical inputs, so overwriting with an equivalent value
// is always safe.
type Store[V any] struct {
	mu       sync.Mutex
	capacity int
	items    map[string]*list.Element
	order    *list.List // front = most recently used
}

// New returns a Store bounded to capacity entries; capacity <= 0 selects
// DefaultCapacity.
func New[V any](capacity int) *Store[V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store[V]{
		capacity: capacity,
		items:    make(map[string]*list.Element),
		order:    list.New(),
	}
}

// The qualifier is joined to the fingerprint with a byte that appears in
// neither hex digests nor language names.
func storeKey(fingerprint, qualifier string) string {
	return fingerprint + "\x00" + qualifier
}

// Get returns the stored value for (fingerprint, qualifier), if any.
func (s *Store[V]) Get(fingerprint, qualifier string) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	elem, ok := s.items[storeKey(fingerprint, qualifier)]
	if !ok {
		var zero V
		return zero, false
	}
	s.order.MoveToFront(elem)
	return elem.Value.(entry[V]).value, true
}

// GetOrCompute returns the stored value for (fingerprint, qualifier),
// invoking compute to produce and store it on a miss. compute runs outside
// the lock so a slow computation never blocks readers of other keys.
func (s *Store[V]) GetOrCompute(fingerprint, qualifier string, compute func() V) V {
	if v, ok := s.Get(fingerprint, qualifier); ok {
		return v
	}
	v := compute()
	s.Put(fingerprint, qualifier, v)
	return v
}

// Put stores value under (fingerprint, qualifier), evicting the least
// recently used entry when over capacity.
func (s *Store[V]) Put(fingerprint, qualifier string, value V) {
	key := storeKey(fingerprint, qualifier)
	s.mu.Lock()
	defer s.mu.Unlock()
	if elem, ok := s.items[key]; ok {
		elem.Value = entry[V]{key: key, value: value}
		s.order.MoveToFront(elem)
		return
	}
	s.items[key] = s.order.PushFront(entry[V]{key: key, value: value})
	for s.order.Len() > s.capacity {
		oldest := s.order.Back()
		s.order.Remove(oldest)
		delete(s.items, oldest.Value.(entry[V]).key)
	}
}

// Len reports the number of stored entries.
func (s *Store[V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Len()
}
