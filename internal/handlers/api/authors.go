package api

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"stively/internal/db"
	"stively/internal/email"
	"stively/internal/middleware"
	"stively/internal/models"
	"stively/internal/validation"
)

// AuthorHandler handles author applications: the public apply endpoint and
// the admin review queue.
type AuthorHandler struct {
	db       *db.DB
	notifier *email.Notifier
}

// NewAuthorHandler creates a new author application handler.
func NewAuthorHandler(database *db.DB, notifier *email.Notifier) *AuthorHandler {
	return &AuthorHandler{db: database, notifier: notifier}
}

// Apply files an author application. Public; one application per email.
func (h *AuthorHandler) Apply(c fiber.Ctx) error {
	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" {
		return jsonError(c, fiber.StatusBadRequest, "name and email are required")
	}
	if !validation.ValidateEmailFormat(req.Email) {
		return jsonError(c, fiber.StatusBadRequest, "invalid email address")
	}

	app := &models.AuthorApplication{
		Name:    req.Name,
		Email:   req.Email,
		Message: strings.TrimSpace(req.Message),
	}
	if err := h.db.CreateApplication(c.Context(), app); err != nil {
		if errors.Is(err, db.ErrDuplicateApplication) {
			return jsonError(c, fiber.StatusConflict, "an application for this email already exists")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to submit application")
	}
	return jsonSuccess(c, app)
}

// List returns all applications, pending first. Admin only.
func (h *AuthorHandler) List(c fiber.Ctx) error {
	apps, err := h.db.ListApplications(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch applications")
	}
	if apps == nil {
		apps = []models.AuthorApplication{}
	}
	return jsonSuccess(c, apps)
}

// Approve grants the applicant the author role. Admin only.
func (h *AuthorHandler) Approve(c fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid application id")
	}

	app, err := h.db.ApproveApplication(c.Context(), id, user.Email)
	if err != nil {
		return applicationError(c, err, "approve")
	}

	if h.notifier != nil {
		h.notifier.NotifyApplicationApproved(app)
	}
	return jsonSuccess(c, app)
}

// Reject declines an application. Admin only.
func (h *AuthorHandler) Reject(c fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid application id")
	}

	app, err := h.db.RejectApplication(c.Context(), id, user.Email)
	if err != nil {
		return applicationError(c, err, "reject")
	}

	if h.notifier != nil {
		h.notifier.NotifyApplicationRejected(app)
	}
	return jsonSuccess(c, app)
}

func applicationError(c fiber.Ctx, err error, action string) error {
	switch {
	case errors.Is(err, db.ErrApplicationNotFound):
		return jsonError(c, fiber.StatusNotFound, "application not found")
	case errors.Is(err, db.ErrApplicationReviewed):
		return jsonError(c, fiber.StatusConflict, "application has already been reviewed")
	}
	return jsonError(c, fiber.StatusInternalServerError, "failed to "+action+" application")
}
