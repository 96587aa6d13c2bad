package db

import (
	"context"
	"errors"
	"testing"

	"stively/internal/models"
)

func createTestSubscriber(t *testing.T, db *DB, email, token string) *models.Subscriber {
	t.Helper()
	sub := &models.Subscriber{
		Email:             email,
		Source:            "footer",
		VerificationToken: token,
		UnsubscribeToken:  "unsub-" + token,
	}
	if err := db.CreateSubscriber(context.Background(), sub); err != nil {
		t.Fatalf("CreateSubscriber() error = %v", err)
	}
	return sub
}

func TestCreateSubscriber(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	sub := createTestSubscriber(t, db, "Reader@Example.com", "tok-1")

	if sub.Status != models.SubscriberPending {
		t.Errorf("status = %q, want %q", sub.Status, models.SubscriberPending)
	}
	if sub.Verified {
		t.Error("new subscriber must not be verified")
	}
	if sub.TokenCreatedAt == nil {
		t.Error("CreateSubscriber() did not set TokenCreatedAt")
	}
}

func TestCreateSubscriber_Duplicate(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	createTestSubscriber(t, db, "reader@example.com", "tok-1")

	dup := &models.Subscriber{Email: "READER@example.com", VerificationToken: "tok-2"}
	if err := db.CreateSubscriber(context.Background(), dup); !errors.Is(err, ErrAlreadySubscribed) {
		t.Errorf("CreateSubscriber() error = %v, want ErrAlreadySubscribed", err)
	}
}

func TestVerifySubscriber(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	createTestSubscriber(t, db, "reader@example.com", "tok-verify")

	sub, err := db.VerifySubscriber(ctx, "tok-verify")
	if err != nil {
		t.Fatalf("VerifySubscriber() error = %v", err)
	}
	if sub.Status != models.SubscriberActive {
		t.Errorf("status = %q, want %q", sub.Status, models.SubscriberActive)
	}
	if !sub.Verified || sub.VerifiedAt == nil {
		t.Error("VerifySubscriber() did not mark the subscriber verified")
	}
	if sub.UnsubscribeToken != "unsub-tok-verify" {
		t.Errorf("UnsubscribeToken = %q, want %q", sub.UnsubscribeToken, "unsub-tok-verify")
	}

	// The token is single-use.
	if _, err := db.VerifySubscriber(ctx, "tok-verify"); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("second VerifySubscriber() error = %v, want ErrTokenNotFound", err)
	}
}

func TestVerifySubscriber_ExpiredToken(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	createTestSubscriber(t, db, "late@example.com", "tok-old")

	if _, err := db.Pool.Exec(ctx, `
		UPDATE newsletter_subscribers
		SET token_created_at = NOW() - INTERVAL '25 hours'
		WHERE verification_token = 'tok-old'
	`); err != nil {
		t.Fatalf("failed to age token: %v", err)
	}

	if _, err := db.VerifySubscriber(ctx, "tok-old"); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("VerifySubscriber(expired) error = %v, want ErrTokenExpired", err)
	}
}

func TestVerifySubscriber_UnknownToken(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	if _, err := db.VerifySubscriber(context.Background(), "no-such-token"); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("VerifySubscriber(unknown) error = %v, want ErrTokenNotFound", err)
	}
}

func TestDeleteSubscriberByToken(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	createTestSubscriber(t, db, "leaver@example.com", "tok-leave")

	if err := db.DeleteSubscriberByToken(ctx, "unsub-tok-leave"); err != nil {
		t.Fatalf("DeleteSubscriberByToken() error = %v", err)
	}
	if err := db.DeleteSubscriberByToken(ctx, "unsub-tok-leave"); !errors.Is(err, ErrSubscriberNotFound) {
		t.Errorf("second DeleteSubscriberByToken() error = %v, want ErrSubscriberNotFound", err)
	}
}

func TestDeleteSubscriberByToken_EmailIsNotAKey(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	createTestSubscriber(t, db, "stays@example.com", "tok-stay")

	// Knowing the address alone must not be enough to unsubscribe it.
	if err := db.DeleteSubscriberByToken(ctx, "stays@example.com"); !errors.Is(err, ErrSubscriberNotFound) {
		t.Errorf("DeleteSubscriberByToken(email) error = %v, want ErrSubscriberNotFound", err)
	}
}

func TestListSubscribers_ActiveOnly(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	createTestSubscriber(t, db, "pending@example.com", "tok-p")
	createTestSubscriber(t, db, "active@example.com", "tok-a")
	if _, err := db.VerifySubscriber(ctx, "tok-a"); err != nil {
		t.Fatalf("VerifySubscriber() error = %v", err)
	}

	all, err := db.ListSubscribers(ctx, false)
	if err != nil {
		t.Fatalf("ListSubscribers(all) error = %v", err)
	}
	if len(all) != 2 {
		t.Errorf("all = %d subscribers, want 2", len(all))
	}

	active, err := db.ListSubscribers(ctx, true)
	if err != nil {
		t.Fatalf("ListSubscribers(active) error = %v", err)
	}
	if len(active) != 1 || active[0].Email != "active@example.com" {
		t.Errorf("active = %d subscribers, want just the verified one", len(active))
	}
}
