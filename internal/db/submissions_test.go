package db

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"stively/internal/models"
)

func createTestSubmission(t *testing.T, db *DB, slug, authorEmail string) *models.Submission {
	t.Helper()
	sub := &models.Submission{
		Title:       "Submission " + slug,
		Slug:        slug,
		Content:     "<p>draft content</p>",
		Excerpt:     "draft content",
		Category:    "essays",
		AuthorName:  "Casey Writer",
		AuthorEmail: authorEmail,
	}
	if err := db.CreateSubmission(context.Background(), sub); err != nil {
		t.Fatalf("CreateSubmission() error = %v", err)
	}
	return sub
}

func TestCreateSubmission(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	sub := createTestSubmission(t, db, "first-essay", "casey@example.com")

	if sub.ID == uuid.Nil {
		t.Error("CreateSubmission() did not set ID")
	}
	if sub.Status != models.SubmissionPending {
		t.Errorf("status = %q, want %q", sub.Status, models.SubmissionPending)
	}
	if sub.SubmittedAt.IsZero() {
		t.Error("CreateSubmission() did not set SubmittedAt")
	}
}

func TestCreateSubmission_DuplicateSlug(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	createTestSubmission(t, db, "contested", "casey@example.com")

	dup := &models.Submission{
		Title:       "Late Arrival",
		Slug:        "contested",
		Content:     "<p>x</p>",
		AuthorName:  "Riley Writer",
		AuthorEmail: "riley@example.com",
	}
	if err := db.CreateSubmission(context.Background(), dup); !errors.Is(err, ErrDuplicateSlug) {
		t.Errorf("CreateSubmission() error = %v, want ErrDuplicateSlug", err)
	}
}

func TestApproveSubmission(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	sub := createTestSubmission(t, db, "approved-essay", "casey@example.com")

	article, err := db.ApproveSubmission(ctx, sub.ID, "editor@example.com")
	if err != nil {
		t.Fatalf("ApproveSubmission() error = %v", err)
	}

	if article.Slug != "approved-essay" {
		t.Errorf("article slug = %q, want %q", article.Slug, "approved-essay")
	}
	if article.Status != models.ArticlePublished {
		t.Errorf("article status = %q, want %q", article.Status, models.ArticlePublished)
	}
	if article.PublishedAt == nil {
		t.Error("ApproveSubmission() did not set PublishedAt")
	}

	got, err := db.GetSubmissionByID(ctx, sub.ID)
	if err != nil {
		t.Fatalf("GetSubmissionByID() error = %v", err)
	}
	if got.Status != models.SubmissionApproved {
		t.Errorf("submission status = %q, want %q", got.Status, models.SubmissionApproved)
	}
	if got.ReviewedBy != "editor@example.com" {
		t.Errorf("reviewed_by = %q, want editor", got.ReviewedBy)
	}
	if got.ArticleID == nil || *got.ArticleID != article.ID {
		t.Error("submission was not linked to the published article")
	}

	// The published article is publicly visible.
	if _, err := db.GetPublishedArticleBySlug(ctx, "approved-essay"); err != nil {
		t.Errorf("GetPublishedArticleBySlug() after approve error = %v", err)
	}
}

func TestApproveSubmission_Idempotent(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	sub := createTestSubmission(t, db, "twice-approved", "casey@example.com")

	first, err := db.ApproveSubmission(ctx, sub.ID, "editor@example.com")
	if err != nil {
		t.Fatalf("first ApproveSubmission() error = %v", err)
	}
	firstPublished := *first.PublishedAt

	second, err := db.ApproveSubmission(ctx, sub.ID, "other-editor@example.com")
	if err != nil {
		t.Fatalf("second ApproveSubmission() error = %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("second approve returned article %s, want %s", second.ID, first.ID)
	}
	if !second.PublishedAt.Equal(firstPublished) {
		t.Error("second approve changed PublishedAt")
	}

	got, _ := db.GetSubmissionByID(ctx, sub.ID)
	if got.ReviewedBy != "editor@example.com" {
		t.Errorf("reviewed_by = %q, second approve must not rewrite reviewer", got.ReviewedBy)
	}
}

func TestApproveSubmission_FromRevisionRequested(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	sub := createTestSubmission(t, db, "revised-then-approved", "casey@example.com")

	if _, err := db.RequestRevision(ctx, sub.ID, "editor@example.com", "tighten the intro"); err != nil {
		t.Fatalf("RequestRevision() error = %v", err)
	}

	// The editor may fix it up and publish without waiting for a resubmit.
	article, err := db.ApproveSubmission(ctx, sub.ID, "editor@example.com")
	if err != nil {
		t.Fatalf("ApproveSubmission() from revision_requested error = %v", err)
	}
	if article.Status != models.ArticlePublished {
		t.Errorf("article status = %q, want published", article.Status)
	}
}

func TestApproveSubmission_NotFound(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	if _, err := db.ApproveSubmission(context.Background(), uuid.New(), "editor@example.com"); !errors.Is(err, ErrSubmissionNotFound) {
		t.Errorf("ApproveSubmission(missing) error = %v, want ErrSubmissionNotFound", err)
	}
}

func TestRequestRevision(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	sub := createTestSubmission(t, db, "needs-work", "casey@example.com")

	got, err := db.RequestRevision(ctx, sub.ID, "editor@example.com", "add sources")
	if err != nil {
		t.Fatalf("RequestRevision() error = %v", err)
	}

	if got.Status != models.SubmissionRevisionRequested {
		t.Errorf("status = %q, want %q", got.Status, models.SubmissionRevisionRequested)
	}
	if got.ReviewNotes != "add sources" {
		t.Errorf("review_notes = %q, want %q", got.ReviewNotes, "add sources")
	}
	if got.ReviewedBy != "editor@example.com" {
		t.Errorf("reviewed_by = %q", got.ReviewedBy)
	}
	if got.ReviewedAt == nil {
		t.Error("RequestRevision() did not set ReviewedAt")
	}
}

func TestRequestRevision_NotPending(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	sub := createTestSubmission(t, db, "already-published", "casey@example.com")

	if _, err := db.ApproveSubmission(ctx, sub.ID, "editor@example.com"); err != nil {
		t.Fatalf("ApproveSubmission() error = %v", err)
	}

	if _, err := db.RequestRevision(ctx, sub.ID, "editor@example.com", "too late"); !errors.Is(err, ErrNotPending) {
		t.Errorf("RequestRevision(approved) error = %v, want ErrNotPending", err)
	}
}

func TestRequestRevision_MirrorsLinkedArticle(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	article := createTestArticle(t, db, "linked-draft", models.ArticleDraft)
	sub := createTestSubmission(t, db, "linked-submission", "casey@example.com")

	if _, err := db.Pool.Exec(ctx,
		`UPDATE submissions SET article_id = $1 WHERE id = $2`, article.ID, sub.ID); err != nil {
		t.Fatalf("failed to link article: %v", err)
	}

	if _, err := db.RequestRevision(ctx, sub.ID, "editor@example.com", "rework the ending"); err != nil {
		t.Fatalf("RequestRevision() error = %v", err)
	}

	got, err := db.GetArticleByID(ctx, article.ID)
	if err != nil {
		t.Fatalf("GetArticleByID() error = %v", err)
	}
	if got.ReviewStatus != models.ReviewRevisionRequested {
		t.Errorf("article review_status = %q, want %q", got.ReviewStatus, models.ReviewRevisionRequested)
	}
	if got.ReviewNotes != "rework the ending" {
		t.Errorf("article review_notes = %q", got.ReviewNotes)
	}
}

func TestResubmitSubmission(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	sub := createTestSubmission(t, db, "round-trip", "casey@example.com")

	if _, err := db.RequestRevision(ctx, sub.ID, "editor@example.com", "shorter please"); err != nil {
		t.Fatalf("RequestRevision() error = %v", err)
	}

	got, err := db.ResubmitSubmission(ctx, sub.ID, "casey@example.com")
	if err != nil {
		t.Fatalf("ResubmitSubmission() error = %v", err)
	}
	if got.Status != models.SubmissionPending {
		t.Errorf("status = %q, want %q", got.Status, models.SubmissionPending)
	}
	if !got.SubmittedAt.After(sub.SubmittedAt) {
		t.Error("ResubmitSubmission() did not bump SubmittedAt")
	}
}

func TestResubmitSubmission_WrongAuthor(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	sub := createTestSubmission(t, db, "owned", "casey@example.com")
	if _, err := db.RequestRevision(ctx, sub.ID, "editor@example.com", "notes"); err != nil {
		t.Fatalf("RequestRevision() error = %v", err)
	}

	if _, err := db.ResubmitSubmission(ctx, sub.ID, "stranger@example.com"); !errors.Is(err, ErrSubmissionNotFound) {
		t.Errorf("ResubmitSubmission(wrong author) error = %v, want ErrSubmissionNotFound", err)
	}
}

func TestResubmitSubmission_NotRevisable(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	sub := createTestSubmission(t, db, "still-pending", "casey@example.com")

	if _, err := db.ResubmitSubmission(context.Background(), sub.ID, "casey@example.com"); !errors.Is(err, ErrNotRevisable) {
		t.Errorf("ResubmitSubmission(pending) error = %v, want ErrNotRevisable", err)
	}
}

func TestUpdateSubmissionContent(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	sub := createTestSubmission(t, db, "editable", "casey@example.com")

	sub.Title = "Edited Title"
	sub.Content = "<p>edited</p>"
	if err := db.UpdateSubmissionContent(ctx, sub); err != nil {
		t.Fatalf("UpdateSubmissionContent() error = %v", err)
	}

	got, _ := db.GetSubmissionByID(ctx, sub.ID)
	if got.Title != "Edited Title" {
		t.Errorf("title = %q, want %q", got.Title, "Edited Title")
	}
	if got.Status != models.SubmissionPending {
		t.Errorf("edit must not change status, got %q", got.Status)
	}
}

func TestUpdateSubmissionContent_Terminal(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	sub := createTestSubmission(t, db, "frozen", "casey@example.com")
	if _, err := db.ApproveSubmission(ctx, sub.ID, "editor@example.com"); err != nil {
		t.Fatalf("ApproveSubmission() error = %v", err)
	}

	sub.Title = "Too Late"
	if err := db.UpdateSubmissionContent(ctx, sub); !errors.Is(err, ErrSubmissionTerminal) {
		t.Errorf("UpdateSubmissionContent(approved) error = %v, want ErrSubmissionTerminal", err)
	}
}

func TestListSubmissions_Visibility(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	createTestSubmission(t, db, "by-casey", "casey@example.com")
	createTestSubmission(t, db, "by-riley", "riley@example.com")

	admin := createTestUser(t, db, "admin-sub", "admin@example.com", models.RoleAdmin)
	author := createTestUser(t, db, "author-sub", "casey@example.com", models.RoleAuthor)

	all, err := db.ListSubmissions(ctx, admin)
	if err != nil {
		t.Fatalf("ListSubmissions(admin) error = %v", err)
	}
	if len(all) != 2 {
		t.Errorf("admin sees %d submissions, want 2", len(all))
	}

	own, err := db.ListSubmissions(ctx, author)
	if err != nil {
		t.Fatalf("ListSubmissions(author) error = %v", err)
	}
	if len(own) != 1 || own[0].Slug != "by-casey" {
		t.Errorf("author sees %d submissions, want only their own", len(own))
	}
}
