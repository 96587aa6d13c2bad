package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"stively/internal/models"
)

// UpsertUser creates or updates a user based on their OIDC subject. The role
// is never downgraded by a login; it only changes through explicit admin
// action or author-application approval.
func (d *DB) UpsertUser(ctx context.Context, user *models.User) error {
	// Claim a placeholder account left by an author-application approval
	// that happened before this person's first login.
	if user.Email != "" {
		_, err := d.Pool.Exec(ctx,
			`UPDATE users SET sub = $1 WHERE sub = 'pending:' || LOWER($2)`,
			user.Sub, user.Email)
		if err != nil {
			return err
		}
	}

	query := `
		INSERT INTO users (sub, email, name, picture, role)
		VALUES ($1, $2, $3, $4, COALESCE($5, 'reader'))
		ON CONFLICT (sub) DO UPDATE SET
			email = EXCLUDED.email,
			name = EXCLUDED.name,
			picture = EXCLUDED.picture,
			updated_at = NOW()
		RETURNING id, role, created_at, updated_at
	`
	return d.Pool.QueryRow(ctx, query,
		user.Sub,
		user.Email,
		user.Name,
		user.Picture,
		nullIfEmpty(user.Role),
	).Scan(&user.ID, &user.Role, &user.CreatedAt, &user.UpdatedAt)
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// GetUserBySub retrieves a user by their OIDC subject identifier.
func (d *DB) GetUserBySub(ctx context.Context, sub string) (*models.User, error) {
	return d.getUser(ctx, `WHERE sub = $1`, sub)
}

// GetUserByEmail retrieves a user by email, case-insensitively.
func (d *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return d.getUser(ctx, `WHERE LOWER(email) = LOWER($1)`, email)
}

func (d *DB) getUser(ctx context.Context, where string, arg any) (*models.User, error) {
	query := `
		SELECT id, sub, email, name, picture, role, created_at, updated_at
		FROM users ` + where

	var user models.User
	err := d.Pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Sub,
		&user.Email,
		&user.Name,
		&user.Picture,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SetUserRole updates a user's role.
func (d *DB) SetUserRole(ctx context.Context, id uuid.UUID, role string) error {
	tag, err := d.Pool.Exec(ctx,
		`UPDATE users SET role = $2, updated_at = NOW() WHERE id = $1`, id, role)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// GetAdminEmails returns the addresses of every admin with an email set.
func (d *DB) GetAdminEmails(ctx context.Context) ([]string, error) {
	rows, err := d.Pool.Query(ctx,
		`SELECT email FROM users WHERE role = 'admin' AND email <> ''`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, err
		}
		emails = append(emails, email)
	}
	return emails, rows.Err()
}

