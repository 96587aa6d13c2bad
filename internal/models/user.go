package models

import (
	"time"

	"github.com/google/uuid"
)

// Role constants
const (
	RoleReader = "reader"
	RoleAuthor = "author"
	RoleAdmin  = "admin"
)

// User represents a user authenticated via OIDC.
type User struct {
	ID        uuid.UUID `json:"id"`
	Sub       string    `json:"sub"` // OIDC subject identifier
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Picture   string    `json:"picture"`
	Role      string    `json:"role"` // reader, author, admin
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsAdmin returns true if the user is an admin.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanSubmit returns true if the user may submit articles for review.
func (u *User) CanSubmit() bool {
	return u.Role == RoleAuthor || u.Role == RoleAdmin
}

// HasRole reports whether the user holds one of the given roles.
func (u *User) HasRole(roles ...string) bool {
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}
