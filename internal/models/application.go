package models

import (
	"time"

	"github.com/google/uuid"
)

// Author application status constants
const (
	ApplicationPending  = "pending"
	ApplicationApproved = "approved"
	ApplicationRejected = "rejected"
)

// AuthorApplication is a public request to be granted the author role.
// At most one application exists per email address.
type AuthorApplication struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Message    string     `json:"message"`
	Status     string     `json:"status"` // pending, approved, rejected
	AppliedAt  time.Time  `json:"applied_at"`
	ReviewedAt *time.Time `json:"reviewed_at"`
	ReviewedBy string     `json:"reviewed_by,omitempty"`
}
