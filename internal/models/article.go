package models

import (
	"time"

	"github.com/google/uuid"
)

// Article status constants
const (
	ArticleDraft     = "draft"
	ArticlePublished = "published"
)

// Review status mirrored onto an article while its submission is in revision.
const ReviewRevisionRequested = "revision_requested"

// AuthorRef is a denormalized snapshot of the author at time of writing,
// not a live reference to the users table.
type AuthorRef struct {
	ID    *uuid.UUID `json:"id"`
	Name  string     `json:"name"`
	Email string     `json:"email"`
}

// Article represents a published or draft content unit.
type Article struct {
	ID           uuid.UUID  `json:"id"`
	Slug         string     `json:"slug"`
	Title        string     `json:"title"`
	Content      string     `json:"content"` // HTML
	Excerpt      string     `json:"excerpt"`
	CoverImage   string     `json:"cover_image"`
	Category     string     `json:"category"`
	Tags         []string   `json:"tags"`
	Status       string     `json:"status"` // draft, published
	Author       AuthorRef  `json:"author"`
	Views        int64      `json:"views"`
	Likes        int64      `json:"likes"`
	ReviewStatus string     `json:"review_status,omitempty"`
	ReviewNotes  string     `json:"review_notes,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	PublishedAt  *time.Time `json:"published_at"`
}

// IsPublished returns true if the article is visible to public readers.
func (a *Article) IsPublished() bool {
	return a.Status == ArticlePublished
}
