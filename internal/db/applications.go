package db

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"stively/internal/models"
)

const applicationColumns = `id, name, email, message, status, applied_at, reviewed_at, reviewed_by`

func scanApplication(row pgx.Row) (*models.AuthorApplication, error) {
	var app models.AuthorApplication
	err := row.Scan(&app.ID, &app.Name, &app.Email, &app.Message, &app.Status,
		&app.AppliedAt, &app.ReviewedAt, &app.ReviewedBy)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrApplicationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// CreateApplication inserts a new author application. The unique index on
// email enforces at most one application per address.
func (d *DB) CreateApplication(ctx context.Context, app *models.AuthorApplication) error {
	query := `
		INSERT INTO author_applications (name, email, message)
		VALUES ($1, $2, $3)
		RETURNING id, status, applied_at
	`
	err := d.Pool.QueryRow(ctx, query,
		strings.TrimSpace(app.Name),
		strings.ToLower(strings.TrimSpace(app.Email)),
		strings.TrimSpace(app.Message),
	).Scan(&app.ID, &app.Status, &app.AppliedAt)

	if isUniqueViolation(err) {
		return ErrDuplicateApplication
	}
	return err
}

// GetApplicationByID retrieves an author application.
func (d *DB) GetApplicationByID(ctx context.Context, id uuid.UUID) (*models.AuthorApplication, error) {
	return scanApplication(d.Pool.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM author_applications WHERE id = $1`, id))
}

// ListApplications returns all author applications, pending first, then
// newest first within each status.
func (d *DB) ListApplications(ctx context.Context) ([]models.AuthorApplication, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT `+applicationColumns+`
		FROM author_applications
		ORDER BY (status = 'pending') DESC, applied_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []models.AuthorApplication
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, *app)
	}
	return apps, rows.Err()
}

// ApproveApplication marks a pending application approved and grants the
// applicant the author role in the same transaction.
func (d *DB) ApproveApplication(ctx context.Context, id uuid.UUID, reviewer string) (*models.AuthorApplication, error) {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	app, err := scanApplication(tx.QueryRow(ctx, `
		UPDATE author_applications
		SET status = $1, reviewed_at = $2, reviewed_by = $3
		WHERE id = $4 AND status = $5
		RETURNING `+applicationColumns,
		models.ApplicationApproved, time.Now(), reviewer, id, models.ApplicationPending,
	))
	if errors.Is(err, ErrApplicationNotFound) {
		if _, lookupErr := d.GetApplicationByID(ctx, id); lookupErr != nil {
			return nil, lookupErr
		}
		return nil, ErrApplicationReviewed
	}
	if err != nil {
		return nil, err
	}

	// Grant the author role: promote an existing account, or create a
	// placeholder record that the OIDC upsert claims on first login.
	var exists bool
	if err := tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))`,
		app.Email,
	).Scan(&exists); err != nil {
		return nil, err
	}
	if exists {
		_, err = tx.Exec(ctx, `
			UPDATE users SET role = 'author', updated_at = NOW()
			WHERE LOWER(email) = LOWER($1) AND role <> 'admin'
		`, app.Email)
	} else {
		_, err = tx.Exec(ctx, `
			INSERT INTO users (sub, email, name, role)
			VALUES ('pending:' || LOWER($2), $2, $1, 'author')
		`, app.Name, app.Email)
	}
	if err != nil {
		return nil, err
	}

	return app, tx.Commit(ctx)
}

// RejectApplication marks a pending application rejected.
func (d *DB) RejectApplication(ctx context.Context, id uuid.UUID, reviewer string) (*models.AuthorApplication, error) {
	app, err := scanApplication(d.Pool.QueryRow(ctx, `
		UPDATE author_applications
		SET status = $1, reviewed_at = $2, reviewed_by = $3
		WHERE id = $4 AND status = $5
		RETURNING `+applicationColumns,
		models.ApplicationRejected, time.Now(), reviewer, id, models.ApplicationPending,
	))
	if errors.Is(err, ErrApplicationNotFound) {
		if _, lookupErr := d.GetApplicationByID(ctx, id); lookupErr != nil {
			return nil, lookupErr
		}
		return nil, ErrApplicationReviewed
	}
	return app, err
}
