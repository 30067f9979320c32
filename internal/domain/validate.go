package domain

import (
	"net/mail"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

// Field limits match what the web client enforces in its forms, so the two
// layers reject the same inputs.
const (
	maxNameLen    = 100
	maxPhoneLen   = 20
	maxCompanyLen = 100
	maxAddressLen = 500
	maxNotesLen   = 1000
	maxDescLen    = 1000
	minFullName   = 2
	maxFullName   = 100
)

// ClientInput carries the caller-supplied fields of a client create/update.
type ClientInput struct {
	Name    string  `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Company *string `json:"company"`
	Address *string `json:"address"`
	Notes   *string `json:"notes"`
}

func (in *ClientInput) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return Invalid("name", "required")
	}
	if utf8.RuneCountInString(in.Name) > maxNameLen {
		return Invalid("name", "too long")
	}
	if s := deref(in.Email); s != "" {
		if _, err := mail.ParseAddress(s); err != nil {
			return Invalid("email", "invalid email")
		}
	}
	if utf8.RuneCountInString(deref(in.Phone)) > maxPhoneLen {
		return Invalid("phone", "too long")
	}
	if utf8.RuneCountInString(deref(in.Company)) > maxCompanyLen {
		return Invalid("company", "too long")
	}
	if utf8.RuneCountInString(deref(in.Address)) > maxAddressLen {
		return Invalid("address", "too long")
	}
	if utf8.RuneCountInString(deref(in.Notes)) > maxNotesLen {
		return Invalid("notes", "too long")
	}
	return nil
}

// ProjectInput carries the caller-supplied fields of a project create/update.
type ProjectInput struct {
	Name        string        `json:"name"`
	ClientID    string        `json:"client_id"`
	Description *string       `json:"description"`
	Status      ProjectStatus `json:"status"`
	StartDate   *string       `json:"start_date"`
	EndDate     *string       `json:"end_date"`
	Budget      *float64      `json:"budget"`
}

func (in *ProjectInput) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return Invalid("name", "required")
	}
	if utf8.RuneCountInString(in.Name) > maxNameLen {
		return Invalid("name", "too long")
	}
	if strings.TrimSpace(in.ClientID) == "" {
		return Invalid("client_id", "required")
	}
	if !in.Status.Valid() {
		return Invalid("status", "must be in_progress, completed or paused")
	}
	if utf8.RuneCountInString(deref(in.Description)) > maxDescLen {
		return Invalid("description", "too long")
	}
	if in.Budget != nil && *in.Budget < 0 {
		return Invalid("budget", "must be non-negative")
	}
	for _, d := range []struct {
		field string
		value *string
	}{{"start_date", in.StartDate}, {"end_date", in.EndDate}} {
		if s := deref(d.value); s != "" {
			if _, err := time.Parse("2006-01-02", s); err != nil {
				return Invalid(d.field, "invalid date")
			}
		}
	}
	return nil
}

// ProfileInput carries the caller-supplied fields of a profile update.
type ProfileInput struct {
	FullName  string  `json:"full_name"`
	AvatarURL *string `json:"avatar_url"`
}

func (in *ProfileInput) Validate() error {
	in.FullName = strings.TrimSpace(in.FullName)
	if utf8.RuneCountInString(in.FullName) < minFullName {
		return Invalid("full_name", "too short")
	}
	if utf8.RuneCountInString(in.FullName) > maxFullName {
		return Invalid("full_name", "too long")
	}
	if s := deref(in.AvatarURL); s != "" {
		u, err := url.Parse(s)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return Invalid("avatar_url", "invalid url")
		}
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
