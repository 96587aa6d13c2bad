package models

import (
	"time"

	"github.com/google/uuid"
)

// Submission status constants
const (
	SubmissionPending           = "pending"
	SubmissionApproved          = "approved"
	SubmissionRevisionRequested = "revision_requested"
)

// Submission is an author-authored draft awaiting editorial review.
type Submission struct {
	ID          uuid.UUID  `json:"id"`
	ArticleID   *uuid.UUID `json:"article_id"` // set once the submission is published
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Content     string     `json:"content"`
	Excerpt     string     `json:"excerpt"`
	CoverImage  string     `json:"cover_image"`
	Category    string     `json:"category"`
	Tags        []string   `json:"tags"`
	Status      string     `json:"status"` // pending, approved, revision_requested
	AuthorID    *uuid.UUID `json:"author_id"`
	AuthorName  string     `json:"author_name"`
	AuthorEmail string     `json:"author_email"`
	SubmittedAt time.Time  `json:"submitted_at"`
	ReviewedAt  *time.Time `json:"reviewed_at"`
	ReviewedBy  string     `json:"reviewed_by,omitempty"`
	ReviewNotes string     `json:"review_notes,omitempty"`
}

// IsTerminal returns true once the submission can no longer change state.
func (s *Submission) IsTerminal() bool {
	return s.Status == SubmissionApproved
}

// Editable returns true while content fields may still be changed.
func (s *Submission) Editable() bool {
	return !s.IsTerminal()
}
