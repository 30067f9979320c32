package profile

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clientdesk/clientdesk-backend/internal/domain"
)

// Repo is the postgres gateway for profiles: one row per owner.
type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Get(ctx context.Context, ownerID string) (*domain.Profile, error) {
	const q = `
select user_id, full_name, email, avatar_url, created_at, updated_at
from profiles
where user_id = $1;
`
	var p domain.Profile
	err := r.db.QueryRow(ctx, q, ownerID).
		Scan(&p.OwnerID, &p.FullName, &p.Email, &p.AvatarURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Ensure upserts the profile row for an authenticated owner, filling the
// email from the token when the row is new or the email changed.
func (r *Repo) Ensure(ctx context.Context, ownerID, email string) error {
	const q = `
insert into profiles (user_id, full_name, email, updated_at)
values ($1, '', nullif($2,''), now())
on conflict (user_id) do update
set
  email = coalesce(excluded.email, profiles.email),
  updated_at = now();
`
	_, err := r.db.Exec(ctx, q, ownerID, email)
	return err
}

func (r *Repo) Update(ctx context.Context, ownerID string, in domain.ProfileInput) (*domain.Profile, error) {
	const q = `
update profiles
set full_name = $2, avatar_url = $3, updated_at = now()
where user_id = $1
returning user_id, full_name, email, avatar_url, created_at, updated_at;
`
	var p domain.Profile
	err := r.db.QueryRow(ctx, q, ownerID, in.FullName, in.AvatarURL).
		Scan(&p.OwnerID, &p.FullName, &p.Email, &p.AvatarURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *Repo) SetAvatar(ctx context.Context, ownerID, url string) (*domain.Profile, error) {
	const q = `
update profiles
set avatar_url = $2, updated_at = now()
where user_id = $1
returning user_id, full_name, email, avatar_url, created_at, updated_at;
`
	var p domain.Profile
	err := r.db.QueryRow(ctx, q, ownerID, url).
		Scan(&p.OwnerID, &p.FullName, &p.Email, &p.AvatarURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}
