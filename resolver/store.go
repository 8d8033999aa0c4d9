package resolver

import (
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/erraggy/refinline/document"
)

// Store is a memoizing cache from document identity to a shared, immutable
// JSON value. A resolution uses two stores: one for documents as loaded and
// one for fully resolved documents.
//
// Store is safe for concurrent use. Concurrent first requests for the same
// identity share a single load; failed loads are not cached, so a later
// request tries again. Values handed out by a Store must not be modified.
type Store struct {
	mu    sync.RWMutex
	docs  map[document.Identity]any
	group singleflight.Group

	hits   atomic.Int64
	misses atomic.Int64
	loads  atomic.Int64
}

// StoreStats reports cache activity.
type StoreStats struct {
	// Hits counts lookups answered from the cache.
	Hits int64
	// Misses counts lookups that found nothing cached.
	Misses int64
	// Loads counts values computed and inserted by the store.
	Loads int64
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{docs: make(map[document.Identity]any)}
}

// Get returns the cached value for id.
func (s *Store) Get(id document.Identity) (any, bool) {
	v, ok := s.lookup(id)
	if ok {
		s.hits.Add(1)
	} else {
		s.misses.Add(1)
	}
	return v, ok
}

// Put caches v under id, replacing any previous value. It is meant for
// seeding a store with documents that are already in memory.
func (s *Store) Put(id document.Identity, v any) {
	s.mu.Lock()
	s.docs[id] = v
	s.mu.Unlock()
}

// Len returns the number of cached documents.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// Identities returns the cached identities ordered by key.
func (s *Store) Identities() []document.Identity {
	s.mu.RLock()
	ids := make([]document.Identity, 0, len(s.docs))
	for id := range s.docs {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	slices.SortFunc(ids, func(a, b document.Identity) int {
		return strings.Compare(a.Key(), b.Key())
	})
	return ids
}

// Reset drops every cached document and zeroes the statistics.
func (s *Store) Reset() {
	s.mu.Lock()
	s.docs = make(map[document.Identity]any)
	s.mu.Unlock()

	s.hits.Store(0)
	s.misses.Store(0)
	s.loads.Store(0)
}

// Stats returns a snapshot of cache activity.
func (s *Store) Stats() StoreStats {
	return StoreStats{
		Hits:   s.hits.Load(),
		Misses: s.misses.Load(),
		Loads:  s.loads.Load(),
	}
}

func (s *Store) lookup(id document.Identity) (any, bool) {
	s.mu.RLock()
	v, ok := s.docs[id]
	s.mu.RUnlock()
	return v, ok
}

// getOrLoad returns the cached value for id, calling fn to compute it on a
// miss. Concurrent callers for the same id wait for one fn call.
func (s *Store) getOrLoad(id document.Identity, fn func() (any, error)) (any, error) {
	if v, ok := s.lookup(id); ok {
		s.hits.Add(1)
		return v, nil
	}
	s.misses.Add(1)

	v, err, _ := s.group.Do(id.Key(), func() (any, error) {
		// check cache inside singleflight
		if v, ok := s.lookup(id); ok {
			return v, nil
		}

		v, err := fn()
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.docs[id] = v
		s.mu.Unlock()
		s.loads.Add(1)
		return v, nil
	})
	return v, err
}
