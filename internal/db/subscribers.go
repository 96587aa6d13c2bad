package db

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"stively/internal/models"
)

// TokenTTL is how long a newsletter verification token stays valid.
const TokenTTL = 24 * time.Hour

// CreateSubscriber inserts a pending subscriber with a verification token
// and a long-lived unsubscribe token.
func (d *DB) CreateSubscriber(ctx context.Context, sub *models.Subscriber) error {
	query := `
		INSERT INTO newsletter_subscribers (email, source, verification_token, token_created_at, unsubscribe_token)
		VALUES ($1, $2, $3, NOW(), $4)
		RETURNING id, status, verified, subscribed_at, token_created_at
	`
	err := d.Pool.QueryRow(ctx, query,
		strings.ToLower(strings.TrimSpace(sub.Email)),
		sub.Source,
		sub.VerificationToken,
		sub.UnsubscribeToken,
	).Scan(&sub.ID, &sub.Status, &sub.Verified, &sub.SubscribedAt, &sub.TokenCreatedAt)

	if isUniqueViolation(err) {
		return ErrAlreadySubscribed
	}
	return err
}

// VerifySubscriber activates the pending subscriber holding the given token.
// The token is single-use and expires after TokenTTL.
func (d *DB) VerifySubscriber(ctx context.Context, token string) (*models.Subscriber, error) {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var sub models.Subscriber
	var tokenCreatedAt time.Time
	err = tx.QueryRow(ctx, `
		SELECT id, email, status, verified, source, subscribed_at, token_created_at, unsubscribe_token
		FROM newsletter_subscribers
		WHERE verification_token = $1 AND verified = FALSE
		FOR UPDATE
	`, token).Scan(&sub.ID, &sub.Email, &sub.Status, &sub.Verified, &sub.Source,
		&sub.SubscribedAt, &tokenCreatedAt, &sub.UnsubscribeToken)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, err
	}

	if time.Since(tokenCreatedAt) > TokenTTL {
		return nil, ErrTokenExpired
	}

	err = tx.QueryRow(ctx, `
		UPDATE newsletter_subscribers
		SET verified = TRUE, status = $1, verified_at = NOW(),
			verification_token = NULL, token_created_at = NULL
		WHERE id = $2
		RETURNING verified, status, verified_at
	`, models.SubscriberActive, sub.ID).Scan(&sub.Verified, &sub.Status, &sub.VerifiedAt)
	if err != nil {
		return nil, err
	}

	return &sub, tx.Commit(ctx)
}

// DeleteSubscriberByToken removes the subscription holding the given
// unsubscribe token. Keying on the token keeps unsubscribe links usable
// without letting anyone remove an arbitrary address.
func (d *DB) DeleteSubscriberByToken(ctx context.Context, token string) error {
	result, err := d.Pool.Exec(ctx,
		`DELETE FROM newsletter_subscribers WHERE unsubscribe_token = $1`, token)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrSubscriberNotFound
	}
	return nil
}

// ListSubscribers returns subscribers newest-first, optionally only active.
func (d *DB) ListSubscribers(ctx context.Context, activeOnly bool) ([]models.Subscriber, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT id, email, status, verified, source, subscribed_at, verified_at
		FROM newsletter_subscribers
		WHERE NOT $1 OR status = 'active'
		ORDER BY subscribed_at DESC
	`, activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []models.Subscriber
	for rows.Next() {
		var s models.Subscriber
		if err := rows.Scan(&s.ID, &s.Email, &s.Status, &s.Verified, &s.Source,
			&s.SubscribedAt, &s.VerifiedAt); err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}
