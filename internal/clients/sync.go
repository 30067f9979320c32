package clients

import (
	"context"
	"time"

	"github.com/clientdesk/clientdesk-backend/internal/domain"
	"github.com/clientdesk/clientdesk-backend/internal/syncstore"
)

// Gateway is the remote side of the sync service. *Repo implements it;
// tests substitute fakes.
type Gateway interface {
	Select(ctx context.Context, ownerID string) ([]domain.Client, error)
	Insert(ctx context.Context, ownerID string, in domain.ClientInput) (*domain.Client, error)
	Update(ctx context.Context, ownerID, id string, in domain.ClientInput) (*domain.Client, error)
	Delete(ctx context.Context, ownerID, id string) error
}

// Sync exposes the four client operations with optimistic cache updates:
// mutations appear in the cached list immediately, the gateway confirms in
// the background, and failures roll the cache back to its snapshot.
type Sync struct {
	store *syncstore.Store
	gw    Gateway
	now   func() time.Time
}

func NewSync(store *syncstore.Store, gw Gateway) *Sync {
	return &Sync{store: store, gw: gw, now: time.Now}
}

func (s *Sync) key(ownerID string) syncstore.Key {
	return syncstore.Key{Kind: syncstore.KindClients, OwnerID: ownerID}
}

// List returns the owner's clients, newest first, from cache when fresh.
func (s *Sync) List(ctx context.Context, ownerID string) ([]domain.Client, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthenticated
	}

	return syncstore.Fetch(ctx, s.store, s.key(ownerID), func(ctx context.Context) ([]domain.Client, error) {
		rows, err := s.gw.Select(ctx, ownerID)
		if err != nil {
			return nil, domain.Remote("list clients", err)
		}
		return rows, nil
	})
}

func (s *Sync) Create(ctx context.Context, ownerID string, in domain.ClientInput) (*domain.Client, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	spec := domain.Client{
		ID:        syncstore.TempID(),
		OwnerID:   ownerID,
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Company:   in.Company,
		Address:   in.Address,
		Notes:     in.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	var created *domain.Client
	err := syncstore.Mutate(ctx, s.store, s.key(ownerID),
		func(cur []domain.Client) []domain.Client {
			out := make([]domain.Client, 0, len(cur)+1)
			out = append(out, spec)
			return append(out, cur...)
		},
		func(ctx context.Context) error {
			row, err := s.gw.Insert(ctx, ownerID, in)
			if err != nil {
				return domain.Remote("create client", err)
			}
			created = row
			return nil
		},
	)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Sync) Update(ctx context.Context, ownerID, id string, in domain.ClientInput) (*domain.Client, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	var updated *domain.Client
	err := syncstore.Mutate(ctx, s.store, s.key(ownerID),
		func(cur []domain.Client) []domain.Client {
			out := make([]domain.Client, len(cur))
			copy(out, cur)
			for i := range out {
				// Both id and owner must match before the row is touched.
				if out[i].ID == id && out[i].OwnerID == ownerID {
					out[i].Name = in.Name
					out[i].Email = in.Email
					out[i].Phone = in.Phone
					out[i].Company = in.Company
					out[i].Address = in.Address
					out[i].Notes = in.Notes
					out[i].UpdatedAt = now
				}
			}
			return out
		},
		func(ctx context.Context) error {
			row, err := s.gw.Update(ctx, ownerID, id, in)
			if err != nil {
				return domain.Remote("update client", err)
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

func (s *Sync) Delete(ctx context.Context, ownerID, id string) error {
	if ownerID == "" {
		return domain.ErrUnauthenticated
	}

	return syncstore.Mutate(ctx, s.store, s.key(ownerID),
		func(cur []domain.Client) []domain.Client {
			out := make([]domain.Client, 0, len(cur))
			for _, c := range cur {
				if c.ID == id && c.OwnerID == ownerID {
					continue
				}
				out = append(out, c)
			}
			return out
		},
		func(ctx context.Context) error {
			if err := s.gw.Delete(ctx, ownerID, id); err != nil {
				return domain.Remote("delete client", err)
			}
			return nil
		},
	)
}
