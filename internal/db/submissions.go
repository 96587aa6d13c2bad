package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"stively/internal/models"
)

const submissionColumns = `
	id, article_id, title, slug, content, excerpt, cover_image, category, tags, status,
	author_id, author_name, author_email, submitted_at, reviewed_at, reviewed_by, review_notes
`

func scanSubmission(row pgx.Row) (*models.Submission, error) {
	var s models.Submission
	err := row.Scan(
		&s.ID, &s.ArticleID, &s.Title, &s.Slug, &s.Content, &s.Excerpt, &s.CoverImage,
		&s.Category, &s.Tags, &s.Status,
		&s.AuthorID, &s.AuthorName, &s.AuthorEmail,
		&s.SubmittedAt, &s.ReviewedAt, &s.ReviewedBy, &s.ReviewNotes,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSubmissionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateSubmission inserts a new submission in the pending state. The
// partial unique index on slug reserves the candidate slug while the
// submission is in flight.
func (d *DB) CreateSubmission(ctx context.Context, s *models.Submission) error {
	query := `
		INSERT INTO submissions (title, slug, content, excerpt, cover_image, category, tags,
			author_id, author_name, author_email)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, status, submitted_at
	`
	err := d.Pool.QueryRow(ctx, query,
		s.Title, s.Slug, s.Content, s.Excerpt, s.CoverImage, s.Category, s.Tags,
		s.AuthorID, s.AuthorName, s.AuthorEmail,
	).Scan(&s.ID, &s.Status, &s.SubmittedAt)

	if isUniqueViolation(err) {
		return ErrDuplicateSlug
	}
	return err
}

// GetSubmissionByID retrieves a submission.
func (d *DB) GetSubmissionByID(ctx context.Context, id uuid.UUID) (*models.Submission, error) {
	return scanSubmission(d.Pool.QueryRow(ctx,
		`SELECT `+submissionColumns+` FROM submissions WHERE id = $1`, id))
}

// ListSubmissions returns submissions newest-first. Admins see everything;
// everyone else sees only submissions matching their own email.
func (d *DB) ListSubmissions(ctx context.Context, user *models.User) ([]models.Submission, error) {
	query := `
		SELECT ` + submissionColumns + `
		FROM submissions
		WHERE $1 OR author_email = $2
		ORDER BY submitted_at DESC
	`
	rows, err := d.Pool.Query(ctx, query, user.IsAdmin(), user.Email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var submissions []models.Submission
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		submissions = append(submissions, *s)
	}
	return submissions, rows.Err()
}

// ListPendingSubmissions returns all submissions awaiting review, oldest first.
func (d *DB) ListPendingSubmissions(ctx context.Context) ([]models.Submission, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT `+submissionColumns+`
		FROM submissions WHERE status = $1
		ORDER BY submitted_at ASC
	`, models.SubmissionPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var submissions []models.Submission
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		submissions = append(submissions, *s)
	}
	return submissions, rows.Err()
}

// UpdateSubmissionContent updates the content fields of a non-terminal
// submission. It never changes status.
func (d *DB) UpdateSubmissionContent(ctx context.Context, s *models.Submission) error {
	query := `
		UPDATE submissions
		SET title = $1, slug = $2, content = $3, excerpt = $4, cover_image = $5,
			category = $6, tags = $7
		WHERE id = $8 AND status <> $9
		RETURNING status
	`
	err := d.Pool.QueryRow(ctx, query,
		s.Title, s.Slug, s.Content, s.Excerpt, s.CoverImage, s.Category, s.Tags,
		s.ID, models.SubmissionApproved,
	).Scan(&s.Status)

	if errors.Is(err, pgx.ErrNoRows) {
		// Either missing or already approved; look it up to say which.
		existing, lookupErr := d.GetSubmissionByID(ctx, s.ID)
		if lookupErr != nil {
			return lookupErr
		}
		if existing.IsTerminal() {
			return ErrSubmissionTerminal
		}
		return ErrSubmissionNotFound
	}
	if isUniqueViolation(err) {
		return ErrDuplicateSlug
	}
	return err
}

// ApproveSubmission publishes a submission in a single transaction: the
// published article is materialized (or the linked article promoted) and the
// submission is marked approved with the reviewer identity. Approving an
// already-approved submission is a no-op returning the existing article.
func (d *DB) ApproveSubmission(ctx context.Context, id uuid.UUID, reviewer string) (*models.Article, error) {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	sub, err := scanSubmission(tx.QueryRow(ctx,
		`SELECT `+submissionColumns+` FROM submissions WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, err
	}

	if sub.Status == models.SubmissionApproved {
		if sub.ArticleID == nil {
			return nil, ErrArticleNotFound
		}
		article, err := scanArticle(tx.QueryRow(ctx,
			`SELECT `+articleColumns+` FROM articles WHERE id = $1`, *sub.ArticleID))
		if err != nil {
			return nil, err
		}
		return article, tx.Commit(ctx)
	}

	now := time.Now()
	var article *models.Article

	if sub.ArticleID != nil {
		// Promote the pre-created article, copying the final (possibly
		// reviewer-edited) content. published_at is set exactly once.
		article, err = scanArticle(tx.QueryRow(ctx, `
			UPDATE articles
			SET slug = $1, title = $2, content = $3, excerpt = $4, cover_image = $5,
				category = $6, tags = $7, status = $8,
				review_status = '', review_notes = '',
				published_at = COALESCE(published_at, $9), updated_at = $9
			WHERE id = $10
			RETURNING `+articleColumns,
			sub.Slug, sub.Title, sub.Content, sub.Excerpt, sub.CoverImage,
			sub.Category, sub.Tags, models.ArticlePublished, now, *sub.ArticleID,
		))
	} else {
		article, err = scanArticle(tx.QueryRow(ctx, `
			INSERT INTO articles (slug, title, content, excerpt, cover_image, category, tags, status,
				author_id, author_name, author_email, published_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			RETURNING `+articleColumns,
			sub.Slug, sub.Title, sub.Content, sub.Excerpt, sub.CoverImage,
			sub.Category, sub.Tags, models.ArticlePublished,
			sub.AuthorID, sub.AuthorName, sub.AuthorEmail, now,
		))
	}
	if isUniqueViolation(err) {
		return nil, ErrDuplicateSlug
	}
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE submissions
		SET status = $1, reviewed_at = $2, reviewed_by = $3, article_id = $4
		WHERE id = $5
	`, models.SubmissionApproved, now, reviewer, article.ID, id)
	if err != nil {
		return nil, err
	}

	return article, tx.Commit(ctx)
}

// RequestRevision moves a pending submission to revision_requested with the
// reviewer's notes, mirroring the review state onto a linked article.
func (d *DB) RequestRevision(ctx context.Context, id uuid.UUID, reviewer, notes string) (*models.Submission, error) {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	now := time.Now()
	sub, err := scanSubmission(tx.QueryRow(ctx, `
		UPDATE submissions
		SET status = $1, reviewed_at = $2, reviewed_by = $3, review_notes = $4
		WHERE id = $5 AND status = $6
		RETURNING `+submissionColumns,
		models.SubmissionRevisionRequested, now, reviewer, notes,
		id, models.SubmissionPending,
	))
	if errors.Is(err, ErrSubmissionNotFound) {
		if _, lookupErr := d.GetSubmissionByID(ctx, id); lookupErr != nil {
			return nil, lookupErr
		}
		return nil, ErrNotPending
	}
	if err != nil {
		return nil, err
	}

	if sub.ArticleID != nil {
		_, err = tx.Exec(ctx, `
			UPDATE articles
			SET review_status = $1, review_notes = $2, updated_at = NOW()
			WHERE id = $3
		`, models.ReviewRevisionRequested, notes, *sub.ArticleID)
		if err != nil {
			return nil, err
		}
	}

	return sub, tx.Commit(ctx)
}

// ResubmitSubmission returns a revision-requested submission to the review
// queue. Only the owning author may resubmit.
func (d *DB) ResubmitSubmission(ctx context.Context, id uuid.UUID, authorEmail string) (*models.Submission, error) {
	sub, err := scanSubmission(d.Pool.QueryRow(ctx, `
		UPDATE submissions
		SET status = $1, submitted_at = NOW()
		WHERE id = $2 AND status = $3 AND author_email = $4
		RETURNING `+submissionColumns,
		models.SubmissionPending, id, models.SubmissionRevisionRequested, authorEmail,
	))
	if errors.Is(err, ErrSubmissionNotFound) {
		existing, lookupErr := d.GetSubmissionByID(ctx, id)
		if lookupErr != nil {
			return nil, lookupErr
		}
		if existing.AuthorEmail != authorEmail {
			return nil, ErrSubmissionNotFound
		}
		return nil, ErrNotRevisable
	}
	return sub, err
}
