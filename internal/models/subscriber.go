package models

import (
	"time"

	"github.com/google/uuid"
)

// Subscriber status constants
const (
	SubscriberPending = "pending"
	SubscriberActive  = "active"
)

// Subscriber is a newsletter subscription, pending until the address is
// verified via the emailed token.
type Subscriber struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	Status       string     `json:"status"` // pending, active
	Verified     bool       `json:"verified"`
	Source       string     `json:"source,omitempty"`
	SubscribedAt time.Time  `json:"subscribed_at"`
	VerifiedAt   *time.Time `json:"verified_at"`

	// Token fields are never serialized to API responses.
	VerificationToken string     `json:"-"`
	TokenCreatedAt    *time.Time `json:"-"`
	UnsubscribeToken  string     `json:"-"`
}
