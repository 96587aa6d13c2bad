package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"stively/internal/models"
)

const articleColumns = `
	id, slug, title, content, excerpt, cover_image, category, tags, status,
	author_id, author_name, author_email, views, likes,
	review_status, review_notes, created_at, updated_at, published_at
`

func scanArticle(row pgx.Row) (*models.Article, error) {
	var a models.Article
	err := row.Scan(
		&a.ID, &a.Slug, &a.Title, &a.Content, &a.Excerpt, &a.CoverImage,
		&a.Category, &a.Tags, &a.Status,
		&a.Author.ID, &a.Author.Name, &a.Author.Email, &a.Views, &a.Likes,
		&a.ReviewStatus, &a.ReviewNotes, &a.CreatedAt, &a.UpdatedAt, &a.PublishedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrArticleNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// isUniqueViolation reports whether err is a unique constraint violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// CreateArticle inserts a new article. The store-level unique index on slug
// is the authoritative uniqueness check; concurrent creates of the same slug
// lose with ErrDuplicateSlug.
func (d *DB) CreateArticle(ctx context.Context, a *models.Article) error {
	var publishedAt *time.Time
	if a.Status == models.ArticlePublished {
		now := time.Now()
		publishedAt = &now
	}

	query := `
		INSERT INTO articles (slug, title, content, excerpt, cover_image, category, tags, status,
			author_id, author_name, author_email, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, views, likes, created_at, updated_at, published_at
	`
	err := d.Pool.QueryRow(ctx, query,
		a.Slug, a.Title, a.Content, a.Excerpt, a.CoverImage, a.Category, a.Tags, a.Status,
		a.Author.ID, a.Author.Name, a.Author.Email, publishedAt,
	).Scan(&a.ID, &a.Views, &a.Likes, &a.CreatedAt, &a.UpdatedAt, &a.PublishedAt)

	if isUniqueViolation(err) {
		return ErrDuplicateSlug
	}
	return err
}

// GetArticleByID retrieves an article regardless of status.
func (d *DB) GetArticleByID(ctx context.Context, id uuid.UUID) (*models.Article, error) {
	return scanArticle(d.Pool.QueryRow(ctx, `SELECT `+articleColumns+` FROM articles WHERE id = $1`, id))
}

// GetPublishedArticleBySlug retrieves a published article by its slug.
func (d *DB) GetPublishedArticleBySlug(ctx context.Context, slug string) (*models.Article, error) {
	return scanArticle(d.Pool.QueryRow(ctx,
		`SELECT `+articleColumns+` FROM articles WHERE slug = $1 AND status = $2`,
		slug, models.ArticlePublished))
}

// ListArticles returns articles newest-first, optionally filtered by status
// and category. Empty filter values match everything.
func (d *DB) ListArticles(ctx context.Context, status, category string) ([]models.Article, error) {
	query := `
		SELECT ` + articleColumns + `
		FROM articles
		WHERE ($1 = '' OR status = $1) AND ($2 = '' OR category = $2)
		ORDER BY created_at DESC
	`
	rows, err := d.Pool.Query(ctx, query, status, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []models.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, *a)
	}
	return articles, rows.Err()
}

// UpdateArticle updates the content fields of an article. A status change to
// published sets published_at exactly once.
func (d *DB) UpdateArticle(ctx context.Context, a *models.Article) error {
	query := `
		UPDATE articles
		SET slug = $1, title = $2, content = $3, excerpt = $4, cover_image = $5,
			category = $6, tags = $7, status = $8,
			published_at = CASE WHEN $8 = 'published' AND published_at IS NULL THEN NOW() ELSE published_at END,
			updated_at = NOW()
		WHERE id = $9
		RETURNING updated_at, published_at
	`
	err := d.Pool.QueryRow(ctx, query,
		a.Slug, a.Title, a.Content, a.Excerpt, a.CoverImage, a.Category, a.Tags, a.Status, a.ID,
	).Scan(&a.UpdatedAt, &a.PublishedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return ErrArticleNotFound
	}
	if isUniqueViolation(err) {
		return ErrDuplicateSlug
	}
	return err
}

// DeleteArticle removes an article.
func (d *DB) DeleteArticle(ctx context.Context, id uuid.UUID) error {
	result, err := d.Pool.Exec(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrArticleNotFound
	}
	return nil
}

// IncrementViews bumps the view counter with a single atomic update.
func (d *DB) IncrementViews(ctx context.Context, id uuid.UUID) error {
	_, err := d.Pool.Exec(ctx, `UPDATE articles SET views = views + 1 WHERE id = $1`, id)
	return err
}

// LikeArticle records a like for a (article, user) pair and returns the new
// count. A second like by the same user fails with ErrAlreadyLiked; the
// primary key on article_likes makes the increment exactly-once.
func (d *DB) LikeArticle(ctx context.Context, articleID, userID uuid.UUID) (int64, error) {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO article_likes (article_id, user_id) VALUES ($1, $2)
	`, articleID, userID)
	if isUniqueViolation(err) {
		return 0, ErrAlreadyLiked
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return 0, ErrArticleNotFound
		}
		return 0, err
	}

	var likes int64
	err = tx.QueryRow(ctx, `
		UPDATE articles SET likes = likes + 1 WHERE id = $1 RETURNING likes
	`, articleID).Scan(&likes)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrArticleNotFound
	}
	if err != nil {
		return 0, err
	}

	return likes, tx.Commit(ctx)
}

// SlugExists reports whether a slug is taken by any article or any active
// submission, excluding the given id. Used as the allocator's fast-path
// check before the unique indexes settle the race.
func (d *DB) SlugExists(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	var exists bool
	err := d.Pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM articles WHERE slug = $1 AND id <> $2
			UNION ALL
			SELECT 1 FROM submissions WHERE slug = $1 AND status <> 'approved' AND id <> $2
		)
	`, slug, excludeID).Scan(&exists)
	return exists, err
}
