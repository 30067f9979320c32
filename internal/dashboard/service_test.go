package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clientdesk/clientdesk-backend/internal/domain"
)

type fakeSource struct {
	stats    map[string]*Stats
	computes int
	err      error
}

func (f *fakeSource) ComputeStats(_ context.Context, ownerID string) (*Stats, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.computes++
	if s, ok := f.stats[ownerID]; ok {
		cp := *s
		return &cp, nil
	}
	return &Stats{}, nil
}

func newTestCache(t *testing.T, ttl time.Duration) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, ttl), mr
}

func TestStatsRequiresOwner(t *testing.T) {
	svc := NewService(&fakeSource{}, nil)
	_, err := svc.Stats(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestStatsCachesComputedValue(t *testing.T) {
	cache, _ := newTestCache(t, time.Minute)
	src := &fakeSource{stats: map[string]*Stats{
		"u1": {ClientCount: 3, ProjectCount: 5, InProgress: 2, TotalBudget: 1200.50, ActiveBudget: 700},
	}}
	svc := NewService(src, cache)

	first, err := svc.Stats(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, first.ClientCount)
	assert.Equal(t, 1, src.computes)

	second, err := svc.Stats(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, src.computes, "second read is served from redis")
}

func TestStatsRecomputesAfterTTL(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	src := &fakeSource{stats: map[string]*Stats{"u1": {ClientCount: 1}}}
	svc := NewService(src, cache)

	_, err := svc.Stats(context.Background(), "u1")
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)
	src.stats["u1"].ClientCount = 2

	got, err := svc.Stats(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.ClientCount)
	assert.Equal(t, 2, src.computes)
}

func TestStatsIsolatedPerOwner(t *testing.T) {
	cache, _ := newTestCache(t, time.Minute)
	src := &fakeSource{stats: map[string]*Stats{
		"u1": {ClientCount: 1},
		"u2": {ClientCount: 9},
	}}
	svc := NewService(src, cache)

	a, err := svc.Stats(context.Background(), "u1")
	require.NoError(t, err)
	b, err := svc.Stats(context.Background(), "u2")
	require.NoError(t, err)

	assert.Equal(t, 1, a.ClientCount)
	assert.Equal(t, 9, b.ClientCount)
}

func TestStatsDegradesWithoutCache(t *testing.T) {
	src := &fakeSource{stats: map[string]*Stats{"u1": {Paused: 4}}}
	svc := NewService(src, nil)

	got, err := svc.Stats(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 4, got.Paused)
}

func TestStatsSourceFailure(t *testing.T) {
	cache, _ := newTestCache(t, time.Minute)
	svc := NewService(&fakeSource{err: errors.New("db down")}, cache)

	_, err := svc.Stats(context.Background(), "u1")
	require.Error(t, err)
	assert.True(t, domain.IsRemote(err))
}

func TestCacheInvalidate(t *testing.T) {
	cache, _ := newTestCache(t, time.Minute)
	src := &fakeSource{stats: map[string]*Stats{"u1": {ClientCount: 1}}}
	svc := NewService(src, cache)

	_, err := svc.Stats(context.Background(), "u1")
	require.NoError(t, err)
	require.NoError(t, cache.Invalidate(context.Background(), "u1"))

	_, err = svc.Stats(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, src.computes)
}
