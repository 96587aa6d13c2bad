package db

import "context"

// DashboardStats holds the counters shown on the admin dashboard.
type DashboardStats struct {
	PublishedArticles   int64 `json:"published_articles"`
	DraftArticles       int64 `json:"draft_articles"`
	TotalViews          int64 `json:"total_views"`
	TotalLikes          int64 `json:"total_likes"`
	PendingSubmissions  int64 `json:"pending_submissions"`
	PendingApplications int64 `json:"pending_applications"`
	ActiveSubscribers   int64 `json:"active_subscribers"`
}

// GetDashboardStats collects admin dashboard counters in a single round trip.
func (d *DB) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	var s DashboardStats
	err := d.Pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM articles WHERE status = 'published'),
			(SELECT COUNT(*) FROM articles WHERE status = 'draft'),
			(SELECT COALESCE(SUM(views), 0) FROM articles),
			(SELECT COALESCE(SUM(likes), 0) FROM articles),
			(SELECT COUNT(*) FROM submissions WHERE status = 'pending'),
			(SELECT COUNT(*) FROM author_applications WHERE status = 'pending'),
			(SELECT COUNT(*) FROM newsletter_subscribers WHERE status = 'active')
	`).Scan(
		&s.PublishedArticles,
		&s.DraftArticles,
		&s.TotalViews,
		&s.TotalLikes,
		&s.PendingSubmissions,
		&s.PendingApplications,
		&s.ActiveSubscribers,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
