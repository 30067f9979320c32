package profile

import (
	"context"
	"time"

	"github.com/clientdesk/clientdesk-backend/internal/domain"
	"github.com/clientdesk/clientdesk-backend/internal/syncstore"
)

// Gateway is the remote side of the sync service. *Repo implements it;
// tests substitute fakes.
type Gateway interface {
	Get(ctx context.Context, ownerID string) (*domain.Profile, error)
	Update(ctx context.Context, ownerID string, in domain.ProfileInput) (*domain.Profile, error)
	SetAvatar(ctx context.Context, ownerID, url string) (*domain.Profile, error)
}

// Sync caches the single profile row per owner with the same optimistic
// protocol as the collection kinds; the cached value is one entity, not a
// sequence.
type Sync struct {
	store *syncstore.Store
	gw    Gateway
	now   func() time.Time
}

func NewSync(store *syncstore.Store, gw Gateway) *Sync {
	return &Sync{store: store, gw: gw, now: time.Now}
}

func (s *Sync) key(ownerID string) syncstore.Key {
	return syncstore.Key{Kind: syncstore.KindProfile, OwnerID: ownerID}
}

func (s *Sync) Get(ctx context.Context, ownerID string) (*domain.Profile, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthenticated
	}

	p, err := syncstore.Fetch(ctx, s.store, s.key(ownerID), func(ctx context.Context) (domain.Profile, error) {
		row, err := s.gw.Get(ctx, ownerID)
		if err != nil {
			return domain.Profile{}, domain.Remote("get profile", err)
		}
		return *row, nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Sync) Update(ctx context.Context, ownerID string, in domain.ProfileInput) (*domain.Profile, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	var updated *domain.Profile
	err := syncstore.Mutate(ctx, s.store, s.key(ownerID),
		func(cur domain.Profile) domain.Profile {
			cur.OwnerID = ownerID
			cur.FullName = in.FullName
			cur.AvatarURL = in.AvatarURL
			cur.UpdatedAt = now
			return cur
		},
		func(ctx context.Context) error {
			row, err := s.gw.Update(ctx, ownerID, in)
			if err != nil {
				return domain.Remote("update profile", err)
			}
			updated = row
			return nil
		},
	)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// SetAvatar points the profile at a freshly uploaded avatar object.
func (s *Sync) SetAvatar(ctx context.Context, ownerID, url string) (*domain.Profile, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthenticated
	}

	now := s.now()
	var updated *domain.Profile
	err := syncstore.Mutate(ctx, s.store, s.key(ownerID),
		func(cur domain.Profile) domain.Profile {
			cur.OwnerID = ownerID
			u := url
			cur.AvatarURL = &u
			cur.UpdatedAt = now
			return cur
		},
		func(ctx context.Context) error {
			row, err := s.gw.SetAvatar(ctx, ownerID, url)
			if err != nil {
				return domain.Remote("set avatar", err)
			}
			updated = row
			return nil
		},
	)
	if err != nil {
		return nil, err
	}
	return updated, nil
}
