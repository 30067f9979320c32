package projects

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clientdesk/clientdesk-backend/internal/domain"
)

// Repo is the postgres gateway for projects. The client name is joined in
// for display; the insert/update guards re-check that the referenced client
// belongs to the same owner even though the schema could not express that
// as a plain FK.
type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

const projectColumns = `
p.id, p.user_id, p.client_id, p.name, p.description, p.status,
p.start_date, p.end_date, p.budget, c.name, p.created_at, p.updated_at`

func scanProject(row pgx.Row, p *domain.Project) error {
	return row.Scan(&p.ID, &p.OwnerID, &p.ClientID, &p.Name, &p.Description, &p.Status,
		&p.StartDate, &p.EndDate, &p.Budget, &p.ClientName, &p.CreatedAt, &p.UpdatedAt)
}

// Select returns the owner's projects, optionally narrowed to one status,
// newest first.
func (r *Repo) Select(ctx context.Context, ownerID string, status domain.ProjectStatus) ([]domain.Project, error) {
	const q = `
select ` + projectColumns + `
from projects p
join clients c on c.id = p.client_id
where p.user_id = $1 and ($2 = '' or p.status = $2)
order by p.created_at desc;
`
	rows, err := r.db.Query(ctx, q, ownerID, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Project, 0, 16)
	for rows.Next() {
		var p domain.Project
		if err := scanProject(rows, &p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) Insert(ctx context.Context, ownerID string, in domain.ProjectInput) (*domain.Project, error) {
	// The inner select only yields a row when the client belongs to the same
	// owner, so a cross-user client_id inserts nothing.
	const q = `
with ins as (
  insert into projects (user_id, client_id, name, description, status, start_date, end_date, budget)
  select $1, c.id, $3, $4, $5, nullif($6,'')::date, nullif($7,'')::date, $8
  from clients c
  where c.id = $2 and c.user_id = $1
  returning *
)
select ` + projectColumns + `
from ins p
join clients c on c.id = p.client_id;
`
	var p domain.Project
	err := scanProject(r.db.QueryRow(ctx, q, ownerID, in.ClientID, in.Name, in.Description,
		string(in.Status), strOrEmpty(in.StartDate), strOrEmpty(in.EndDate), in.Budget), &p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.Invalid("client_id", "unknown client")
		}
		return nil, err
	}
	return &p, nil
}

func (r *Repo) Update(ctx context.Context, ownerID, id string, in domain.ProjectInput) (*domain.Project, error) {
	const q = `
with upd as (
  update projects p
  set client_id = $3, name = $4, description = $5, status = $6,
      start_date = nullif($7,'')::date, end_date = nullif($8,'')::date,
      budget = $9, updated_at = now()
  where p.user_id = $1 and p.id = $2
    and exists (select 1 from clients c where c.id = $3 and c.user_id = $1)
  returning *
)
select ` + projectColumns + `
from upd p
join clients c on c.id = p.client_id;
`
	var p domain.Project
	err := scanProject(r.db.QueryRow(ctx, q, ownerID, id, in.ClientID, in.Name, in.Description,
		string(in.Status), strOrEmpty(in.StartDate), strOrEmpty(in.EndDate), in.Budget), &p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *Repo) Delete(ctx context.Context, ownerID, id string) error {
	const q = `delete from projects where user_id = $1 and id = $2;`

	ct, err := r.db.Exec(ctx, q, ownerID, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
