package models

import "time"

// Slug lookup outcomes recorded for metrics.
const (
	LookupHit  = "hit"
	LookupMiss = "miss"
)

// SlugLookup is an aggregated lookup counter for a public article slug.
type SlugLookup struct {
	Slug       string    `json:"slug"`
	Outcome    string    `json:"outcome"`
	Count      int64     `json:"count"`
	LastSeenAt time.Time `json:"last_seen_at"`
}
