package cache

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

// entry represents a cached value with the metadata used for invalidation
type entry struct {
	value    any
	deps     []Dependency
	stamps   []string
	storedAt time.Time
}

// MemoryStore is an in-process Store. Concurrent misses on the same key
// share one computation.
type MemoryStore struct {
	items map[string]*entry
	mutex sync.RWMutex
	group singleflight.Group

	hits        atomic.Int64
	misses      atomic.Int64
	builds      atomic.Int64
	stale       atomic.Int64
	uncacheable atomic.Int64
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[string]*entry),
	}
}

// LoadOrCompute implements Store
func (s *MemoryStore) LoadOrCompute(key string, compute ComputeFunc) (any, error) {
	if value, ok := s.load(key); ok {
		s.hits.Add(1)
		return value, nil
	}
	s.misses.Add(1)

	value, err, _ := s.group.Do(key, func() (any, error) {
		// another caller may have stored it while we waited
		if value, ok := s.load(key); ok {
			return value, nil
		}

		value, deps, err := compute()
		if err != nil {
			return nil, err
		}
		s.builds.Add(1)

		stamps, err := snapshot(deps)
		if err != nil {
			// served once, never stored
			s.uncacheable.Add(1)
			return value, nil
		}

		s.mutex.Lock()
		s.items[key] = &entry{
			value:    value,
			deps:     deps,
			stamps:   stamps,
			storedAt: time.Now(),
		}
		s.mutex.Unlock()
		return value, nil
	})
	return value, err
}

// load retrieves a value with dependency validation. A stale entry is removed.
func (s *MemoryStore) load(key string) (any, bool) {
	s.mutex.RLock()
	item, exists := s.items[key]
	s.mutex.RUnlock()

	if !exists {
		return nil, false
	}
	if fresh(item.deps, item.stamps) {
		return item.value, true
	}

	s.stale.Add(1)
	s.mutex.Lock()
	if s.items[key] == item {
		delete(s.items, key)
	}
	s.mutex.Unlock()
	return nil, false
}

// Invalidate implements Store
func (s *MemoryStore) Invalidate(key string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.items, key)
}

// Clear implements Store
func (s *MemoryStore) Clear() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.items = make(map[string]*entry)
}

// Keys returns all keys in the store, sorted
func (s *MemoryStore) Keys() []string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	keys := make([]string, 0, len(s.items))
	for key := range s.items {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Dependencies returns the identities recorded for key
func (s *MemoryStore) Dependencies(key string) []string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	item, exists := s.items[key]
	if !exists {
		return nil
	}
	identities := make([]string, len(item.deps))
	for i, dep := range item.deps {
		identities[i] = dep.Identity
	}
	return identities
}

// Stats returns store statistics
func (s *MemoryStore) Stats() Stats {
	s.mutex.RLock()
	size := len(s.items)
	s.mutex.RUnlock()

	return Stats{
		Size:        size,
		Hits:        s.hits.Load(),
		Misses:      s.misses.Load(),
		Builds:      s.builds.Load(),
		Stale:       s.stale.Load(),
		Uncacheable: s.uncacheable.Load(),
	}
}

// Stats provides store statistics
type Stats struct {
	Size        int   // entries currently stored
	Hits        int64 // loads served from the store
	Misses      int64 // loads that had to wait for a computation
	Builds      int64 // successful computations
	Stale       int64 // entries dropped because a dependency changed
	Uncacheable int64 // values computed but not stored
}
