package model

import (
	"slices"
	"time"
)

type User struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string
	DisplayName  string
	Roles        []string
	CreatedAt    time.Time
	UpdatedAt    *time.Time
	DeletedAt    *time.Time
}

// Snapshot copies the identity fields embedded into access-token claims.
// Password hash and timestamps never leave the user record.
func (u *User) Snapshot() UserSnapshot {
	return UserSnapshot{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		Username:    u.Username,
		Roles:       slices.Clone(u.Roles),
	}
}

// UserSnapshot is the user state captured at token issuance. Role checks
// consult this copy, not the live user record.
type UserSnapshot struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"displayName,omitempty"`
	Email       string   `json:"email"`
	Username    string   `json:"username"`
	Roles       []string `json:"roles"`
}

func (s UserSnapshot) HasRole(role string) bool {
	return slices.Contains(s.Roles, role)
}

func (s UserSnapshot) Equal(other UserSnapshot) bool {
	return s.ID == other.ID &&
		s.DisplayName == other.DisplayName &&
		s.Email == other.Email &&
		s.Username == other.Username &&
		slices.Equal(s.Roles, other.Roles)
}
