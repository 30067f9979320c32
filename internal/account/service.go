package account

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"github.com/clientdesk/clientdesk-backend/internal/domain"
	"github.com/clientdesk/clientdesk-backend/internal/syncstore"
)

// Identity is the privileged slice of the Firebase Admin client the service
// needs. Deleting the auth user invalidates every session token it issued.
type Identity interface {
	DeleteUser(ctx context.Context, uid string) error
}

// Gateway removes the owner's root row; clients and projects go with it via
// referential integrity, not re-implemented here.
type Gateway interface {
	DeleteOwner(ctx context.Context, ownerID string) error
}

// Service performs account deletion: the one operation that needs privilege
// beyond row-level access. On success the entire cache store is cleared,
// a global reset rather than a per-key invalidate.
type Service struct {
	identity Identity
	gw       Gateway
	store    *syncstore.Store
}

func NewService(identity Identity, gw Gateway, store *syncstore.Store) *Service {
	return &Service{identity: identity, gw: gw, store: store}
}

func (s *Service) DeleteAccount(ctx context.Context, ownerID string) error {
	if ownerID == "" {
		return domain.ErrUnauthenticated
	}

	// Data first: if the privileged identity call fails afterwards the user
	// can still sign in and retry, whereas the reverse order would strand
	// orphaned rows behind a dead identity.
	if err := s.gw.DeleteOwner(ctx, ownerID); err != nil {
		return domain.Remote("delete account data", err)
	}

	if err := s.identity.DeleteUser(ctx, ownerID); err != nil {
		return domain.Remote("delete identity", err)
	}

	s.store.Clear()
	log.WithField("owner", ownerID).Info("account deleted")
	return nil
}

// Repo implements Gateway over postgres.
type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

func (r *Repo) DeleteOwner(ctx context.Context, ownerID string) error {
	// profiles is the cascade root: clients and projects reference it with
	// ON DELETE CASCADE.
	const q = `delete from profiles where user_id = $1;`

	ct, err := r.db.Exec(ctx, q, ownerID)
	if err != nil {
		return fmt.Errorf("delete owner: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
