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
	"stively/internal/slug"
)

// SubmissionHandler drives the editorial review workflow.
type SubmissionHandler struct {
	db       *db.DB
	notifier *email.Notifier
}

// NewSubmissionHandler creates a new submission handler.
func NewSubmissionHandler(database *db.DB, notifier *email.Notifier) *SubmissionHandler {
	return &SubmissionHandler{db: database, notifier: notifier}
}

type submissionRequest struct {
	Title      string   `json:"title"`
	Slug       string   `json:"slug"`
	Content    string   `json:"content"`
	Excerpt    string   `json:"excerpt"`
	CoverImage string   `json:"cover_image"`
	Category   string   `json:"category"`
	Tags       []string `json:"tags"`
}

// Create submits a draft for review.
func (h *SubmissionHandler) Create(c fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	if !user.CanSubmit() {
		return jsonError(c, fiber.StatusForbidden, "author access required")
	}

	var req submissionRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.Title == "" || req.Content == "" {
		return jsonError(c, fiber.StatusBadRequest, "title and content are required")
	}

	allocated, err := slug.Allocate(c.Context(), h.db, req.Title, req.Slug, uuid.Nil)
	if err != nil {
		return slugAllocError(c, err)
	}

	sub := &models.Submission{
		Title:       req.Title,
		Slug:        allocated,
		Content:     req.Content,
		Excerpt:     req.Excerpt,
		CoverImage:  req.CoverImage,
		Category:    req.Category,
		Tags:        req.Tags,
		Status:      models.SubmissionPending,
		AuthorID:    &user.ID,
		AuthorName:  user.Name,
		AuthorEmail: user.Email,
	}
	if err := h.db.CreateSubmission(c.Context(), sub); err != nil {
		if errors.Is(err, db.ErrDuplicateSlug) {
			return jsonError(c, fiber.StatusConflict, "slug already in use")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to create submission")
	}

	if h.notifier != nil {
		h.notifier.NotifySubmissionReceived(c.Context(), sub)
	}
	return jsonCreated(c, sub)
}

// List returns submissions newest first. Admins see everything, authors
// only their own.
func (h *SubmissionHandler) List(c fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	subs, err := h.db.ListSubmissions(c.Context(), user)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch submissions")
	}
	if subs == nil {
		subs = []models.Submission{}
	}
	return jsonSuccess(c, subs)
}

// Get returns a single submission to its author or an admin.
func (h *SubmissionHandler) Get(c fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid submission id")
	}
	sub, err := h.db.GetSubmissionByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrSubmissionNotFound) {
			return jsonError(c, fiber.StatusNotFound, "submission not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch submission")
	}
	if !user.IsAdmin() && !strings.EqualFold(sub.AuthorEmail, user.Email) {
		return jsonError(c, fiber.StatusForbidden, "you do not have access to this submission")
	}
	return jsonSuccess(c, sub)
}

// Update edits a submission's content fields before publication. Admin only;
// approved submissions are immutable.
func (h *SubmissionHandler) Update(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid submission id")
	}
	sub, err := h.db.GetSubmissionByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrSubmissionNotFound) {
			return jsonError(c, fiber.StatusNotFound, "submission not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch submission")
	}

	var req submissionRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if req.Title != "" {
		sub.Title = req.Title
	}
	if req.Content != "" {
		sub.Content = req.Content
	}
	if req.Excerpt != "" {
		sub.Excerpt = req.Excerpt
	}
	if req.CoverImage != "" {
		sub.CoverImage = req.CoverImage
	}
	if req.Category != "" {
		sub.Category = req.Category
	}
	if req.Tags != nil {
		sub.Tags = req.Tags
	}
	if req.Slug != "" && req.Slug != sub.Slug {
		allocated, err := slug.Allocate(c.Context(), h.db, sub.Title, req.Slug, sub.ID)
		if err != nil {
			return slugAllocError(c, err)
		}
		sub.Slug = allocated
	}

	if err := h.db.UpdateSubmissionContent(c.Context(), sub); err != nil {
		switch {
		case errors.Is(err, db.ErrSubmissionTerminal):
			return jsonError(c, fiber.StatusConflict, "submission is already approved")
		case errors.Is(err, db.ErrSubmissionNotFound):
			return jsonError(c, fiber.StatusNotFound, "submission not found")
		case errors.Is(err, db.ErrDuplicateSlug):
			return jsonError(c, fiber.StatusConflict, "slug already in use")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to update submission")
	}
	return jsonSuccess(c, sub)
}

// Approve publishes a submission. Approving an already-approved submission
// returns the existing article unchanged.
func (h *SubmissionHandler) Approve(c fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid submission id")
	}
	sub, err := h.db.GetSubmissionByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrSubmissionNotFound) {
			return jsonError(c, fiber.StatusNotFound, "submission not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch submission")
	}
	alreadyApproved := sub.Status == models.SubmissionApproved

	article, err := h.db.ApproveSubmission(c.Context(), sub.ID, user.Email)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrSubmissionNotFound):
			return jsonError(c, fiber.StatusNotFound, "submission not found")
		case errors.Is(err, db.ErrDuplicateSlug):
			return jsonError(c, fiber.StatusConflict, "slug already in use")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to approve submission")
	}

	if h.notifier != nil && !alreadyApproved {
		h.notifier.NotifyArticlePublished(sub, article)
	}
	return jsonSuccess(c, fiber.Map{
		"message": "submission approved",
		"article": article,
	})
}

// Revise sends a submission back to its author with review notes.
func (h *SubmissionHandler) Revise(c fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid submission id")
	}

	var req struct {
		Notes string `json:"notes"`
	}
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Notes) == "" {
		return jsonError(c, fiber.StatusBadRequest, "revision notes are required")
	}

	sub, err := h.db.RequestRevision(c.Context(), id, user.Email, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrSubmissionNotFound):
			return jsonError(c, fiber.StatusNotFound, "submission not found")
		case errors.Is(err, db.ErrNotPending):
			return jsonError(c, fiber.StatusConflict, "only pending submissions can be sent back for revision")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to request revision")
	}

	if h.notifier != nil {
		h.notifier.NotifyRevisionRequested(sub, req.Notes)
	}
	return jsonSuccess(c, sub)
}

// Resubmit puts a revised submission back into the review queue.
func (h *SubmissionHandler) Resubmit(c fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid submission id")
	}

	authorEmail := user.Email
	if user.IsAdmin() {
		existing, err := h.db.GetSubmissionByID(c.Context(), id)
		if err != nil {
			if errors.Is(err, db.ErrSubmissionNotFound) {
				return jsonError(c, fiber.StatusNotFound, "submission not found")
			}
			return jsonError(c, fiber.StatusInternalServerError, "failed to fetch submission")
		}
		authorEmail = existing.AuthorEmail
	}

	sub, err := h.db.ResubmitSubmission(c.Context(), id, authorEmail)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrSubmissionNotFound):
			return jsonError(c, fiber.StatusNotFound, "submission not found")
		case errors.Is(err, db.ErrNotRevisable):
			return jsonError(c, fiber.StatusConflict, "submission is not awaiting revision")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to resubmit submission")
	}
	return jsonSuccess(c, sub)
}