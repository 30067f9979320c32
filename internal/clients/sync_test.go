package clients

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clientdesk/clientdesk-backend/internal/domain"
	"github.com/clientdesk/clientdesk-backend/internal/syncstore"
)

type fakeGateway struct {
	rows      []domain.Client
	selectErr error
	insertErr error
	updateErr error
	deleteErr error
	selects   int
}

func (f *fakeGateway) Select(_ context.Context, ownerID string) ([]domain.Client, error) {
	f.selects++
	if f.selectErr != nil {
		return nil, f.selectErr
	}
	out := make([]domain.Client, 0, len(f.rows))
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].OwnerID == ownerID {
			out = append(out, f.rows[i])
		}
	}
	return out, nil
}

func (f *fakeGateway) Insert(_ context.Context, ownerID string, in domain.ClientInput) (*domain.Client, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	now := time.Now()
	c := domain.Client{
		ID:        "srv-" + in.Name,
		OwnerID:   ownerID,
		Name:      in.Name,
		Email:     in.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.rows = append(f.rows, c)
	return &c, nil
}

func (f *fakeGateway) Update(_ context.Context, ownerID, id string, in domain.ClientInput) (*domain.Client, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	for i := range f.rows {
		if f.rows[i].ID == id && f.rows[i].OwnerID == ownerID {
			f.rows[i].Name = in.Name
			f.rows[i].UpdatedAt = time.Now()
			return &f.rows[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeGateway) Delete(_ context.Context, ownerID, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i := range f.rows {
		if f.rows[i].ID == id && f.rows[i].OwnerID == ownerID {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func newTestSync(gw Gateway) (*Sync, *syncstore.Store) {
	store := syncstore.New()
	return NewSync(store, gw), store
}

func seeded(owner string, names ...string) *fakeGateway {
	gw := &fakeGateway{}
	for i := len(names) - 1; i >= 0; i-- {
		gw.rows = append(gw.rows, domain.Client{
			ID: "srv-" + names[i], OwnerID: owner, Name: names[i],
			CreatedAt: time.Now().Add(-time.Duration(i) * time.Hour),
		})
	}
	return gw
}

func TestListRequiresOwner(t *testing.T) {
	s, _ := newTestSync(&fakeGateway{})
	_, err := s.List(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestListCachesResult(t *testing.T) {
	gw := seeded("u1", "Acme", "Globex")
	s, _ := newTestSync(gw)

	first, err := s.List(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, "Acme", first[0].Name)

	second, err := s.List(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, gw.selects, "second read must come from cache")
}

func TestListErrorKeepsStaleData(t *testing.T) {
	gw := seeded("u1", "Acme")
	s, store := newTestSync(gw)

	_, err := s.List(context.Background(), "u1")
	require.NoError(t, err)

	store.Invalidate(syncstore.Key{Kind: syncstore.KindClients, OwnerID: "u1"})
	gw.selectErr = errors.New("gateway down")

	_, err = s.List(context.Background(), "u1")
	require.Error(t, err)
	assert.True(t, domain.IsRemote(err))

	v, _, ok := store.Get(syncstore.Key{Kind: syncstore.KindClients, OwnerID: "u1"})
	require.True(t, ok)
	assert.Len(t, v.([]domain.Client), 1, "failed read must not clear cached data")
}

func TestCreateValidatesBeforeGateway(t *testing.T) {
	gw := &fakeGateway{insertErr: errors.New("must not be called")}
	s, _ := newTestSync(gw)

	_, err := s.Create(context.Background(), "u1", domain.ClientInput{Name: "   "})
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestCreateReplacesTempIDOnRefetch(t *testing.T) {
	gw := seeded("u1", "Globex")
	s, _ := newTestSync(gw)

	_, err := s.List(context.Background(), "u1")
	require.NoError(t, err)

	created, err := s.Create(context.Background(), "u1", domain.ClientInput{Name: "Acme"})
	require.NoError(t, err)
	assert.False(t, syncstore.IsTempID(created.ID))

	// The successful create left the key stale; the next read re-fetches.
	rows, err := s.List(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, c := range rows {
		assert.False(t, syncstore.IsTempID(c.ID), "temp id leaked into authoritative state")
	}
	assert.Equal(t, "Acme", rows[0].Name)
}

func TestCreateRollsBackOnGatewayFailure(t *testing.T) {
	gw := seeded("u1", "Globex")
	s, store := newTestSync(gw)

	before, err := s.List(context.Background(), "u1")
	require.NoError(t, err)

	gw.insertErr = errors.New("offline")
	key := syncstore.Key{Kind: syncstore.KindClients, OwnerID: "u1"}

	_, err = s.Create(context.Background(), "u1", domain.ClientInput{Name: "Acme"})
	require.Error(t, err)
	assert.True(t, domain.IsRemote(err))

	v, fresh, ok := store.Get(key)
	require.True(t, ok)
	assert.True(t, fresh)
	assert.Equal(t, before, v, "cache must revert to the pre-create list")
}

func TestCreateOfflineWithEmptyCache(t *testing.T) {
	gw := &fakeGateway{insertErr: errors.New("offline")}
	s, store := newTestSync(gw)

	_, err := s.Create(context.Background(), "u1", domain.ClientInput{Name: "Acme"})
	require.Error(t, err)

	_, _, ok := store.Get(syncstore.Key{Kind: syncstore.KindClients, OwnerID: "u1"})
	assert.False(t, ok, "no pre-create entry existed, none may remain")
}

func TestCreateSpeculativeEntryVisibleImmediately(t *testing.T) {
	gw := seeded("u1", "Globex")
	s, store := newTestSync(gw)

	_, err := s.List(context.Background(), "u1")
	require.NoError(t, err)

	gw.insertErr = errors.New("slow network") // force the rollback path after we observe
	key := syncstore.Key{Kind: syncstore.KindClients, OwnerID: "u1"}

	var seen []domain.Client
	gwWrapped := &observingGateway{Gateway: gw, onInsert: func() {
		v, _, _ := store.Get(key)
		seen = v.([]domain.Client)
	}}
	s2 := NewSync(store, gwWrapped)

	_, _ = s2.Create(context.Background(), "u1", domain.ClientInput{Name: "Acme"})

	require.Len(t, seen, 2)
	assert.Equal(t, "Acme", seen[0].Name)
	assert.True(t, syncstore.IsTempID(seen[0].ID))
	assert.Equal(t, "u1", seen[0].OwnerID)
}

type observingGateway struct {
	Gateway
	onInsert func()
}

func (o *observingGateway) Insert(ctx context.Context, ownerID string, in domain.ClientInput) (*domain.Client, error) {
	if o.onInsert != nil {
		o.onInsert()
	}
	return o.Gateway.Insert(ctx, ownerID, in)
}

func TestUpdateMergesInPlaceAndRefreshesTimestamp(t *testing.T) {
	gw := seeded("u1", "Acme", "Globex")
	s, store := newTestSync(gw)

	rows, err := s.List(context.Background(), "u1")
	require.NoError(t, err)
	target := rows[0]
	wasUpdated := target.UpdatedAt

	gw.updateErr = errors.New("hold") // keep speculative state observable
	key := syncstore.Key{Kind: syncstore.KindClients, OwnerID: "u1"}

	var seen []domain.Client
	s2 := NewSync(store, &observingGateway2{Gateway: gw, onUpdate: func() {
		v, _, _ := store.Get(key)
		seen = v.([]domain.Client)
	}})

	_, _ = s2.Update(context.Background(), "u1", target.ID, domain.ClientInput{Name: "Acme Corp"})

	require.Len(t, seen, 2)
	assert.Equal(t, "Acme Corp", seen[0].Name)
	assert.Equal(t, target.ID, seen[0].ID)
	assert.True(t, seen[0].UpdatedAt.After(wasUpdated) || seen[0].UpdatedAt.Equal(wasUpdated))
	assert.Equal(t, "Globex", seen[1].Name, "other rows untouched")
}

type observingGateway2 struct {
	Gateway
	onUpdate func()
}

func (o *observingGateway2) Update(ctx context.Context, ownerID, id string, in domain.ClientInput) (*domain.Client, error) {
	if o.onUpdate != nil {
		o.onUpdate()
	}
	return o.Gateway.Update(ctx, ownerID, id, in)
}

func TestUpdateRollsBackOnFailure(t *testing.T) {
	gw := seeded("u1", "Acme")
	s, store := newTestSync(gw)

	before, err := s.List(context.Background(), "u1")
	require.NoError(t, err)

	gw.updateErr = errors.New("rejected")
	_, err = s.Update(context.Background(), "u1", before[0].ID, domain.ClientInput{Name: "Changed"})
	require.Error(t, err)

	v, _, _ := store.Get(syncstore.Key{Kind: syncstore.KindClients, OwnerID: "u1"})
	assert.Equal(t, before, v)
}

func TestUpdateDoesNotTouchOtherOwnersRows(t *testing.T) {
	gw := seeded("u1", "Acme")
	s, _ := newTestSync(gw)

	_, err := s.Update(context.Background(), "u2", "srv-Acme", domain.ClientInput{Name: "Stolen"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "Acme", gw.rows[0].Name)
}

func TestDeleteRemovesFromCacheAndGateway(t *testing.T) {
	gw := seeded("u1", "Acme", "Globex")
	s, _ := newTestSync(gw)

	rows, err := s.List(context.Background(), "u1")
	require.NoError(t, err)

	require.NoError(t, s.Delete(context.Background(), "u1", rows[0].ID))

	after, err := s.List(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, after, 1)
	assert.Equal(t, "Globex", after[0].Name)
}

func TestDeleteAlreadyGoneYieldsNotFound(t *testing.T) {
	gw := seeded("u1", "Acme")
	s, store := newTestSync(gw)

	before, err := s.List(context.Background(), "u1")
	require.NoError(t, err)

	err = s.Delete(context.Background(), "u1", "srv-nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Rollback restored the entry; the cache is unchanged.
	v, _, _ := store.Get(syncstore.Key{Kind: syncstore.KindClients, OwnerID: "u1"})
	assert.Equal(t, before, v)
}

func TestDeleteFailureRollsBack(t *testing.T) {
	gw := seeded("u1", "Acme", "Globex")
	s, store := newTestSync(gw)

	before, err := s.List(context.Background(), "u1")
	require.NoError(t, err)

	gw.deleteErr = errors.New("gateway down")
	err = s.Delete(context.Background(), "u1", before[0].ID)
	require.Error(t, err)
	assert.True(t, domain.IsRemote(err))

	v, _, _ := store.Get(syncstore.Key{Kind: syncstore.KindClients, OwnerID: "u1"})
	assert.Equal(t, before, v)
}
