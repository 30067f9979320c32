// Package syncstore holds the shared client-state cache behind the entity
// sync services: one entry per (kind, owner, filter) key, a generation
// counter per key to discard stale in-flight reads, and a per-key mutation
// lock so optimistic mutations against the same key never interleave their
// snapshot/rollback windows.
package syncstore

import (
	"sync"
	"time"
)

// Key addresses one cached collection (or single entity, for profiles).
// Filter is empty for unfiltered reads.
type Key struct {
	Kind    string
	OwnerID string
	Filter  string
}

const (
	KindClients  = "clients"
	KindProjects = "projects"
	KindProfile  = "profile"
)

type entry struct {
	value    any
	fresh    bool
	lastUsed time.Time
}

// Store is an explicit cache-store instance: created at application start,
// passed by reference to the sync services, cleared wholesale on account
// deletion. All methods are safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	entries map[Key]*entry
	gens    map[Key]uint64
	locks   map[Key]*sync.Mutex
	now     func() time.Time
}

func New() *Store {
	return &Store{
		entries: make(map[Key]*entry),
		gens:    make(map[Key]uint64),
		locks:   make(map[Key]*sync.Mutex),
		now:     time.Now,
	}
}

// Get returns the cached value for key, whether it is fresh, and whether an
// entry exists at all. No side effects beyond touching the sweep clock.
func (s *Store) Get(key Key) (value any, fresh bool, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, false, false
	}
	e.lastUsed = s.now()
	return e.value, e.fresh, true
}

// Set replaces the cached value for key and marks it fresh. It never
// contacts the gateway; both speculative writes and fetched results land
// here.
func (s *Store) Set(key Key, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = &entry{value: value, fresh: true, lastUsed: s.now()}
}

// restore puts back a snapshot, preserving the freshness the entry had when
// the snapshot was taken.
func (s *Store) restore(key Key, value any, fresh bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = &entry{value: value, fresh: fresh, lastUsed: s.now()}
}

// Invalidate marks the entry stale so the next read re-fetches. The value is
// kept: readers see stale data rather than nothing while the re-fetch runs.
func (s *Store) Invalidate(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[key]; ok {
		e.fresh = false
	}
}

// InvalidateKind marks every entry of the kind stale for one owner,
// regardless of filter, and advances their generations so reads already in
// flight on those keys cannot land pre-mutation rows as fresh. Mirrors
// prefix invalidation on the query key.
func (s *Store) InvalidateKind(kind, ownerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, e := range s.entries {
		if k.Kind == kind && k.OwnerID == ownerID {
			e.fresh = false
			s.gens[k]++
		}
	}
	for k := range s.gens {
		if k.Kind == kind && k.OwnerID == ownerID {
			if _, ok := s.entries[k]; !ok {
				s.gens[k]++
			}
		}
	}
}

// Delete removes the entry entirely (rollback target for a key that had no
// entry before the mutation).
func (s *Store) Delete(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// CancelInFlight advances the key's generation so any read started before
// now discards its result on completion. Must be called before applying a
// speculative write.
func (s *Store) CancelInFlight(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gens[key]++
}

// Generation returns the key's current generation. A read captures it before
// going to the gateway and hands it back to CompleteFetch. The key is
// registered as a side effect so kind-wide invalidation can cancel a first
// read that has not produced an entry yet.
func (s *Store) Generation(key Key) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.gens[key]
	if !ok {
		s.gens[key] = 0
	}
	return g
}

// CompleteFetch stores a fetched result unless the generation advanced while
// the read was in flight. Reports whether the result was kept.
func (s *Store) CompleteFetch(key Key, gen uint64, value any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gens[key] != gen {
		return false
	}
	s.entries[key] = &entry{value: value, fresh: true, lastUsed: s.now()}
	return true
}

// Clear drops everything. Used on account deletion: a global reset, not a
// per-key invalidate.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[Key]*entry)
	s.gens = make(map[Key]uint64)
}

// ClearOwner drops every entry belonging to one owner. Used on sign-out and
// sign-in-as-different-user.
func (s *Store) ClearOwner(ownerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.entries {
		if k.OwnerID == ownerID {
			delete(s.entries, k)
		}
	}
	for k := range s.gens {
		if k.OwnerID == ownerID {
			delete(s.gens, k)
		}
	}
}

// Sweep removes entries not touched within maxAge and returns how many were
// dropped. Run from the nightly janitor.
func (s *Store) Sweep(maxAge time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-maxAge)
	n := 0
	for k, e := range s.entries {
		if e.lastUsed.Before(cutoff) {
			delete(s.entries, k)
			delete(s.gens, k)
			n++
		}
	}
	return n
}

// Len reports the number of cached entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// LockKey serializes mutations on one key. Holding the returned unlock
// across snapshot, speculative apply and remote settle closes the
// lost-update window between two back-to-back mutations on the same key.
func (s *Store) LockKey(key Key) func() {
	s.mu.Lock()
	m, ok := s.locks[key]
	if !ok {
		m = &sync.Mutex{}
		s.locks[key] = m
	}
	s.mu.Unlock()

	m.Lock()
	return m.Unlock
}
