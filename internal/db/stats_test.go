package db

import (
	"context"
	"testing"

	"stively/internal/models"
)

func TestGetDashboardStats(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	createTestArticle(t, db, "pub-stat", models.ArticlePublished)
	createTestArticle(t, db, "draft-stat", models.ArticleDraft)
	createTestSubmission(t, db, "pending-stat", "casey@example.com")
	createTestApplication(t, db, "Casey Writer", "casey@example.com")
	createTestSubscriber(t, db, "active@example.com", "tok-stat")
	if _, err := db.VerifySubscriber(ctx, "tok-stat"); err != nil {
		t.Fatalf("VerifySubscriber() error = %v", err)
	}

	stats, err := db.GetDashboardStats(ctx)
	if err != nil {
		t.Fatalf("GetDashboardStats() error = %v", err)
	}

	if stats.PublishedArticles != 1 {
		t.Errorf("PublishedArticles = %d, want 1", stats.PublishedArticles)
	}
	if stats.DraftArticles != 1 {
		t.Errorf("DraftArticles = %d, want 1", stats.DraftArticles)
	}
	if stats.PendingSubmissions != 1 {
		t.Errorf("PendingSubmissions = %d, want 1", stats.PendingSubmissions)
	}
	if stats.PendingApplications != 1 {
		t.Errorf("PendingApplications = %d, want 1", stats.PendingApplications)
	}
	if stats.ActiveSubscribers != 1 {
		t.Errorf("ActiveSubscribers = %d, want 1", stats.ActiveSubscribers)
	}
}
