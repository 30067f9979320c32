package dashboard

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Stats is the aggregate view backing the dashboard page.
type Stats struct {
	ClientCount  int     `json:"client_count"`
	ProjectCount int     `json:"project_count"`
	InProgress   int     `json:"in_progress"`
	Completed    int     `json:"completed"`
	Paused       int     `json:"paused"`
	TotalBudget  float64 `json:"total_budget"`
	ActiveBudget float64 `json:"active_budget"`
}

// Repo computes dashboard aggregates straight from postgres.
type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

func (r *Repo) ComputeStats(ctx context.Context, ownerID string) (*Stats, error) {
	const q = `
select
  (select count(*) from clients where user_id = $1),
  count(p.id),
  count(p.id) filter (where p.status = 'in_progress'),
  count(p.id) filter (where p.status = 'completed'),
  count(p.id) filter (where p.status = 'paused'),
  coalesce(sum(p.budget), 0),
  coalesce(sum(p.budget) filter (where p.status = 'in_progress'), 0)
from projects p
where p.user_id = $1;
`
	var s Stats
	err := r.db.QueryRow(ctx, q, ownerID).Scan(
		&s.ClientCount, &s.ProjectCount, &s.InProgress, &s.Completed, &s.Paused,
		&s.TotalBudget, &s.ActiveBudget,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
