package api

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"

	"stively/internal/config"
	"stively/internal/db"
	"stively/internal/email"
	"stively/internal/models"
	"stively/internal/validation"
)

// NewsletterHandler handles the subscribe/verify/unsubscribe flow.
type NewsletterHandler struct {
	db       *db.DB
	cfg      *config.Config
	notifier *email.Notifier
}

// NewNewsletterHandler creates a new newsletter handler.
func NewNewsletterHandler(database *db.DB, cfg *config.Config, notifier *email.Notifier) *NewsletterHandler {
	return &NewsletterHandler{db: database, cfg: cfg, notifier: notifier}
}

// Subscribe registers a pending subscription and emails a verification link.
func (h *NewsletterHandler) Subscribe(c fiber.Ctx) error {
	var req struct {
		Email  string `json:"email"`
		Source string `json:"source"`
	}
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" {
		return jsonError(c, fiber.StatusBadRequest, "email is required")
	}
	if ok, reason := validation.ValidateSubscriptionEmail(req.Email); !ok {
		return jsonError(c, fiber.StatusBadRequest, reason)
	}

	token, err := generateToken()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to create subscription")
	}
	unsubToken, err := generateToken()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to create subscription")
	}

	sub := &models.Subscriber{
		Email:             req.Email,
		Source:            req.Source,
		VerificationToken: token,
		UnsubscribeToken:  unsubToken,
	}
	if err := h.db.CreateSubscriber(c.Context(), sub); err != nil {
		if errors.Is(err, db.ErrAlreadySubscribed) {
			return jsonError(c, fiber.StatusConflict, "this email is already subscribed")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to create subscription")
	}

	if h.notifier != nil {
		h.notifier.SendVerification(sub.Email, token)
	}
	return jsonSuccess(c, fiber.Map{
		"message": "verification email sent",
	})
}

// Verify activates the subscription behind the emailed token and redirects
// to the frontend result page.
func (h *NewsletterHandler) Verify(c fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		return c.Redirect().To(h.cfg.FrontendURL + "/newsletter/failed")
	}

	sub, err := h.db.VerifySubscriber(c.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrTokenExpired):
			return c.Redirect().To(h.cfg.FrontendURL + "/newsletter/expired")
		case errors.Is(err, db.ErrTokenNotFound):
			return c.Redirect().To(h.cfg.FrontendURL + "/newsletter/failed")
		}
		return c.Redirect().To(h.cfg.FrontendURL + "/newsletter/failed")
	}

	if h.notifier != nil {
		h.notifier.SendWelcome(sub.Email, sub.UnsubscribeToken)
	}
	return c.Redirect().To(h.cfg.FrontendURL + "/newsletter/verified")
}

// Unsubscribe removes the subscription behind an emailed unsubscribe token.
func (h *NewsletterHandler) Unsubscribe(c fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		return jsonError(c, fiber.StatusBadRequest, "token is required")
	}

	if err := h.db.DeleteSubscriberByToken(c.Context(), token); err != nil {
		if errors.Is(err, db.ErrSubscriberNotFound) {
			return jsonError(c, fiber.StatusNotFound, "subscription not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to unsubscribe")
	}
	return jsonSuccess(c, fiber.Map{"message": "unsubscribed"})
}

// List returns subscribers, optionally active only. Admin only.
func (h *NewsletterHandler) List(c fiber.Ctx) error {
	subs, err := h.db.ListSubscribers(c.Context(), c.Query("active") == "true")
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch subscribers")
	}
	if subs == nil {
		subs = []models.Subscriber{}
	}
	return jsonSuccess(c, subs)
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
