package domain

import "time"

// Client is a customer record owned by exactly one user. Optional contact
// fields are pointers so a missing value round-trips as null.
type Client struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"user_id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email"`
	Phone     *string   `json:"phone"`
	Company   *string   `json:"company"`
	Address   *string   `json:"address"`
	Notes     *string   `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ProjectStatus string

const (
	StatusInProgress ProjectStatus = "in_progress"
	StatusCompleted  ProjectStatus = "completed"
	StatusPaused     ProjectStatus = "paused"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case StatusInProgress, StatusCompleted, StatusPaused:
		return true
	}
	return false
}

// Project belongs to one user and references one of that user's clients.
// ClientName is denormalized for display and only populated on reads.
type Project struct {
	ID          string        `json:"id"`
	OwnerID     string        `json:"user_id"`
	ClientID    string        `json:"client_id"`
	Name        string        `json:"name"`
	Description *string       `json:"description"`
	Status      ProjectStatus `json:"status"`
	StartDate   *time.Time    `json:"start_date"`
	EndDate     *time.Time    `json:"end_date"`
	Budget      *float64      `json:"budget"`
	ClientName  string        `json:"client_name,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// Profile is the one-to-one user profile row, keyed by the owner id.
type Profile struct {
	OwnerID   string    `json:"user_id"`
	FullName  string    `json:"full_name"`
	Email     *string   `json:"email"`
	AvatarURL *string   `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
