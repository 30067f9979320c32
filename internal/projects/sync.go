package projects

import (
	"context"
	"time"

	"github.com/clientdesk/clientdesk-backend/internal/domain"
	"github.com/clientdesk/clientdesk-backend/internal/syncstore"
)

// Gateway is the remote side of the sync service. *Repo implements it;
// tests substitute fakes.
type Gateway interface {
	Select(ctx context.Context, ownerID string, status domain.ProjectStatus) ([]domain.Project, error)
	Insert(ctx context.Context, ownerID string, in domain.ProjectInput) (*domain.Project, error)
	Update(ctx context.Context, ownerID, id string, in domain.ProjectInput) (*domain.Project, error)
	Delete(ctx context.Context, ownerID, id string) error
}

// Sync is the optimistic sync service for projects. Reads are cached per
// (owner, status filter) so switching tabs between "all" and "completed"
// never re-fetches the other view. Mutations speculate against the
// unfiltered key and mark every filtered key of the owner stale on success;
// the filtered views converge on their next read.
type Sync struct {
	store *syncstore.Store
	gw    Gateway
	now   func() time.Time
}

func NewSync(store *syncstore.Store, gw Gateway) *Sync {
	return &Sync{store: store, gw: gw, now: time.Now}
}

func (s *Sync) key(ownerID string, status domain.ProjectStatus) syncstore.Key {
	return syncstore.Key{Kind: syncstore.KindProjects, OwnerID: ownerID, Filter: string(status)}
}

// List returns the owner's projects, newest first. status narrows the view;
// empty means all.
func (s *Sync) List(ctx context.Context, ownerID string, status domain.ProjectStatus) ([]domain.Project, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if status != "" && !status.Valid() {
		return nil, domain.Invalid("status", "must be in_progress, completed or paused")
	}

	return syncstore.Fetch(ctx, s.store, s.key(ownerID, status), func(ctx context.Context) ([]domain.Project, error) {
		rows, err := s.gw.Select(ctx, ownerID, status)
		if err != nil {
			return nil, domain.Remote("list projects", err)
		}
		return rows, nil
	})
}

func (s *Sync) Create(ctx context.Context, ownerID string, in domain.ProjectInput) (*domain.Project, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	spec := domain.Project{
		ID:          syncstore.TempID(),
		OwnerID:     ownerID,
		ClientID:    in.ClientID,
		Name:        in.Name,
		Description: in.Description,
		Status:      in.Status,
		StartDate:   parseDate(in.StartDate),
		EndDate:     parseDate(in.EndDate),
		Budget:      in.Budget,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var created *domain.Project
	err := syncstore.Mutate(ctx, s.store, s.key(ownerID, ""),
		func(cur []domain.Project) []domain.Project {
			out := make([]domain.Project, 0, len(cur)+1)
			out = append(out, spec)
			return append(out, cur...)
		},
		func(ctx context.Context) error {
			row, err := s.gw.Insert(ctx, ownerID, in)
			if err != nil {
				return domain.Remote("create project", err)
			}
			created = row
			return nil
		},
	)
	if err != nil {
		return nil, err
	}

	s.store.InvalidateKind(syncstore.KindProjects, ownerID)
	return created, nil
}

func (s *Sync) Update(ctx context.Context, ownerID, id string, in domain.ProjectInput) (*domain.Project, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	var updated *domain.Project
	err := syncstore.Mutate(ctx, s.store, s.key(ownerID, ""),
		func(cur []domain.Project) []domain.Project {
			out := make([]domain.Project, len(cur))
			copy(out, cur)
			for i := range out {
				if out[i].ID == id && out[i].OwnerID == ownerID {
					out[i].ClientID = in.ClientID
					out[i].Name = in.Name
					out[i].Description = in.Description
					out[i].Status = in.Status
					out[i].StartDate = parseDate(in.StartDate)
					out[i].EndDate = parseDate(in.EndDate)
					out[i].Budget = in.Budget
					out[i].UpdatedAt = now
				}
			}
			return out
		},
		func(ctx context.Context) error {
			row, err := s.gw.Update(ctx, ownerID, id, in)
			if err != nil {
				return domain.Remote("update project", err)
			}
			updated = row
			return nil
		},
	)
	if err != nil {
		return nil, err
	}

	s.store.InvalidateKind(syncstore.KindProjects, ownerID)
	return updated, nil
}

func (s *Sync) Delete(ctx context.Context, ownerID, id string) error {
	if ownerID == "" {
		return domain.ErrUnauthenticated
	}

	err := syncstore.Mutate(ctx, s.store, s.key(ownerID, ""),
		func(cur []domain.Project) []domain.Project {
			out := make([]domain.Project, 0, len(cur))
			for _, p := range cur {
				if p.ID == id && p.OwnerID == ownerID {
					continue
				}
				out = append(out, p)
			}
			return out
		},
		func(ctx context.Context) error {
			if err := s.gw.Delete(ctx, ownerID, id); err != nil {
				return domain.Remote("delete project", err)
			}
			return nil
		},
	)
	if err != nil {
		return err
	}

	s.store.InvalidateKind(syncstore.KindProjects, ownerID)
	return nil
}

func parseDate(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil
	}
	return &t
}
