// Package syncstore is the per-session keyed cache behind the case data
// synchronization controller. One instance lives for one running client
// session and is torn down with it; nothing here is a package-level global.
package syncstore

import (
	"sync"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"caseflow-be/internal/entity"
)

// Store maps cache keys to the last known merged CollectedData. Entries have
// no automatic expiry: staleness is only resolved by an explicit new read or
// write, and entries are never partially invalidated, only replaced wholesale.
type Store struct {
	cache *cache.Cache

	// Per-key application locks. Applying a network result (read prev,
	// reconcile, store) must be serialized per key so that whichever call
	// completes last determines the cache value. Keys are independent; there
	// is no cross-key locking.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewStore builds an empty store. No expiration, no cleanup janitor.
func NewStore() *Store {
	return &Store{
		cache: cache.New(cache.NoExpiration, 0),
		locks: make(map[string]*sync.Mutex),
	}
}

// Key builds the cache key for a case's collected data. kind narrows to a
// sub-resource and may be empty for the full record.
func Key(caseId uuid.UUID, kind string) string {
	if kind == "" {
		return caseId.String()
	}
	return caseId.String() + ":" + kind
}

// Get returns a copy of the cached record for a key.
func (s *Store) Get(key string) (*entity.CollectedData, bool) {
	v, found := s.cache.Get(key)
	if !found {
		return nil, false
	}
	data := v.(entity.CollectedData)
	return &data, true
}

// Apply serializes one result application for a key: fn receives the current
// cached value (nil on a cold key) and returns the replacement, which is
// stored wholesale. The returned value is the stored record.
func (s *Store) Apply(key string, fn func(previous *entity.CollectedData) entity.CollectedData) entity.CollectedData {
	lock := s.lockFor(key)
	lock.Lock()
	defer lock.Unlock()

	previous, _ := s.Get(key)
	next := fn(previous)
	s.cache.Set(key, next, cache.NoExpiration)
	return next
}

// Invalidate removes a key. The next Fetch will go back to the upstream
// service.
func (s *Store) Invalidate(key string) {
	s.cache.Delete(key)
}

func (s *Store) lockFor(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}
	return lock
}
