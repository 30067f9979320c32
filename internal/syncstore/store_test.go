package syncstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreGetSet(t *testing.T) {
	s := New()
	key := Key{Kind: KindClients, OwnerID: "u1"}

	_, _, ok := s.Get(key)
	assert.False(t, ok)

	s.Set(key, []string{"a", "b"})

	v, fresh, ok := s.Get(key)
	require.True(t, ok)
	assert.True(t, fresh)
	assert.Equal(t, []string{"a", "b"}, v)
}

func TestStoreInvalidateKeepsValue(t *testing.T) {
	s := New()
	key := Key{Kind: KindClients, OwnerID: "u1"}
	s.Set(key, "v")

	s.Invalidate(key)

	v, fresh, ok := s.Get(key)
	require.True(t, ok)
	assert.False(t, fresh)
	assert.Equal(t, "v", v)
}

func TestStoreInvalidateKind(t *testing.T) {
	s := New()
	all := Key{Kind: KindProjects, OwnerID: "u1"}
	completed := Key{Kind: KindProjects, OwnerID: "u1", Filter: "completed"}
	other := Key{Kind: KindProjects, OwnerID: "u2"}
	clients := Key{Kind: KindClients, OwnerID: "u1"}
	for _, k := range []Key{all, completed, other, clients} {
		s.Set(k, "v")
	}

	s.InvalidateKind(KindProjects, "u1")

	for _, k := range []Key{all, completed} {
		_, fresh, ok := s.Get(k)
		require.True(t, ok)
		assert.False(t, fresh, "key %+v should be stale", k)
	}
	for _, k := range []Key{other, clients} {
		_, fresh, ok := s.Get(k)
		require.True(t, ok)
		assert.True(t, fresh, "key %+v should be untouched", k)
	}
}

func TestStoreGenerationCancelsInFlightRead(t *testing.T) {
	s := New()
	key := Key{Kind: KindClients, OwnerID: "u1"}

	gen := s.Generation(key)
	// A mutation starts while the read is in flight.
	s.CancelInFlight(key)
	s.Set(key, "speculative")

	kept := s.CompleteFetch(key, gen, "stale-response")
	assert.False(t, kept)

	v, _, ok := s.Get(key)
	require.True(t, ok)
	assert.Equal(t, "speculative", v)
}

func TestStoreCompleteFetchCurrentGeneration(t *testing.T) {
	s := New()
	key := Key{Kind: KindClients, OwnerID: "u1"}

	gen := s.Generation(key)
	kept := s.CompleteFetch(key, gen, "rows")
	assert.True(t, kept)

	v, fresh, ok := s.Get(key)
	require.True(t, ok)
	assert.True(t, fresh)
	assert.Equal(t, "rows", v)
}

func TestStoreClearOwner(t *testing.T) {
	s := New()
	s.Set(Key{Kind: KindClients, OwnerID: "u1"}, "a")
	s.Set(Key{Kind: KindProjects, OwnerID: "u1", Filter: "paused"}, "b")
	s.Set(Key{Kind: KindClients, OwnerID: "u2"}, "c")

	s.ClearOwner("u1")

	assert.Equal(t, 1, s.Len())
	_, _, ok := s.Get(Key{Kind: KindClients, OwnerID: "u2"})
	assert.True(t, ok)
}

func TestStoreClear(t *testing.T) {
	s := New()
	s.Set(Key{Kind: KindClients, OwnerID: "u1"}, "a")
	s.Set(Key{Kind: KindProfile, OwnerID: "u2"}, "b")

	s.Clear()

	assert.Equal(t, 0, s.Len())
}

func TestStoreSweep(t *testing.T) {
	s := New()
	now := time.Now()
	s.now = func() time.Time { return now }

	oldKey := Key{Kind: KindClients, OwnerID: "idle"}
	s.Set(oldKey, "a")

	s.now = func() time.Time { return now.Add(48 * time.Hour) }
	freshKey := Key{Kind: KindClients, OwnerID: "active"}
	s.Set(freshKey, "b")

	dropped := s.Sweep(24 * time.Hour)
	assert.Equal(t, 1, dropped)

	_, _, ok := s.Get(oldKey)
	assert.False(t, ok)
	_, _, ok = s.Get(freshKey)
	assert.True(t, ok)
}
