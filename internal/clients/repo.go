package clients

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clientdesk/clientdesk-backend/internal/domain"
)

// Repo is the postgres gateway for clients. Every query is scoped by the
// owner id in the WHERE clause; ownership is also enforced by the database,
// this is defense in depth.
type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Select(ctx context.Context, ownerID string) ([]domain.Client, error) {
	const q = `
select id, user_id, name, email, phone, company, address, notes, created_at, updated_at
from clients
where user_id = $1
order by created_at desc;
`
	rows, err := r.db.Query(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Client, 0, 16)
	for rows.Next() {
		var c domain.Client
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Email, &c.Phone, &c.Company, &c.Address, &c.Notes, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repo) Insert(ctx context.Context, ownerID string, in domain.ClientInput) (*domain.Client, error) {
	const q = `
insert into clients (user_id, name, email, phone, company, address, notes)
values ($1, $2, $3, $4, $5, $6, $7)
returning id, user_id, name, email, phone, company, address, notes, created_at, updated_at;
`
	var c domain.Client
	err := r.db.QueryRow(ctx, q, ownerID, in.Name, in.Email, in.Phone, in.Company, in.Address, in.Notes).
		Scan(&c.ID, &c.OwnerID, &c.Name, &c.Email, &c.Phone, &c.Company, &c.Address, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repo) Update(ctx context.Context, ownerID, id string, in domain.ClientInput) (*domain.Client, error) {
	const q = `
update clients
set name = $3, email = $4, phone = $5, company = $6, address = $7, notes = $8, updated_at = now()
where user_id = $1 and id = $2
returning id, user_id, name, email, phone, company, address, notes, created_at, updated_at;
`
	var c domain.Client
	err := r.db.QueryRow(ctx, q, ownerID, id, in.Name, in.Email, in.Phone, in.Company, in.Address, in.Notes).
		Scan(&c.ID, &c.OwnerID, &c.Name, &c.Email, &c.Phone, &c.Company, &c.Address, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Delete removes the row. Projects referencing it go with it via the
// ON DELETE CASCADE constraint; this layer does not re-implement the
// cascade.
func (r *Repo) Delete(ctx context.Context, ownerID, id string) error {
	const q = `delete from clients where user_id = $1 and id = $2;`

	ct, err := r.db.Exec(ctx, q, ownerID, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
