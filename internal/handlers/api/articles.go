package api

import (
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"stively/internal/db"
	"stively/internal/metrics"
	"stively/internal/middleware"
	"stively/internal/models"
	"stively/internal/slug"
)

// ArticleHandler serves the public blog surface and the admin article CRUD.
type ArticleHandler struct {
	db    *db.DB
	slugs slug.Checker
}

// NewArticleHandler creates a new article handler.
func NewArticleHandler(database *db.DB) *ArticleHandler {
	return &ArticleHandler{db: database, slugs: database}
}

type articleRequest struct {
	Title      string   `json:"title"`
	Slug       string   `json:"slug"`
	Content    string   `json:"content"`
	Excerpt    string   `json:"excerpt"`
	CoverImage string   `json:"cover_image"`
	Category   string   `json:"category"`
	Tags       []string `json:"tags"`
	Status     string   `json:"status"`
}

// List returns articles. Readers see published articles only; admins may
// filter by any status via ?status=.
func (h *ArticleHandler) List(c fiber.Ctx) error {
	status := models.ArticlePublished
	user := middleware.CurrentUser(c)
	if user != nil && user.IsAdmin() {
		status = c.Query("status")
	}

	articles, err := h.db.ListArticles(c.Context(), status, c.Query("category"))
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch articles")
	}
	if articles == nil {
		articles = []models.Article{}
	}
	return jsonSuccess(c, articles)
}

// GetBySlug returns a published article and counts the read. Hits and
// misses both feed the slug lookup metric.
func (h *ArticleHandler) GetBySlug(c fiber.Ctx) error {
	requested := c.Params("slug")

	article, err := h.db.GetPublishedArticleBySlug(c.Context(), requested)
	if err != nil {
		if errors.Is(err, db.ErrArticleNotFound) {
			metrics.RecordSlugLookup(requested, models.LookupMiss)
			return jsonError(c, fiber.StatusNotFound, "article not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch article")
	}
	metrics.RecordSlugLookup(requested, models.LookupHit)

	if err := h.db.IncrementViews(c.Context(), article.ID); err != nil {
		slog.Error("failed to count view", "slug", requested, "error", err)
	} else {
		article.Views++
	}
	return jsonSuccess(c, article)
}

// Create creates an article directly, outside the submission workflow.
// Admin only.
func (h *ArticleHandler) Create(c fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var req articleRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.Title == "" || req.Content == "" {
		return jsonError(c, fiber.StatusBadRequest, "title and content are required")
	}
	status := req.Status
	if status == "" {
		status = models.ArticleDraft
	}
	if status != models.ArticleDraft && status != models.ArticlePublished {
		return jsonError(c, fiber.StatusBadRequest, "invalid status")
	}

	allocated, err := slug.Allocate(c.Context(), h.slugs, req.Title, req.Slug, uuid.Nil)
	if err != nil {
		return slugAllocError(c, err)
	}

	article := &models.Article{
		Slug:       allocated,
		Title:      req.Title,
		Content:    req.Content,
		Excerpt:    req.Excerpt,
		CoverImage: req.CoverImage,
		Category:   req.Category,
		Tags:       req.Tags,
		Status:     status,
		Author:     models.AuthorRef{ID: &user.ID, Name: user.Name, Email: user.Email},
	}
	if err := h.db.CreateArticle(c.Context(), article); err != nil {
		if errors.Is(err, db.ErrDuplicateSlug) {
			return jsonError(c, fiber.StatusConflict, "slug already in use")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to create article")
	}
	return jsonCreated(c, article)
}

// Update edits an article's content fields. Admin only.
func (h *ArticleHandler) Update(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid article id")
	}

	article, err := h.db.GetArticleByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrArticleNotFound) {
			return jsonError(c, fiber.StatusNotFound, "article not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch article")
	}

	var req articleRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if req.Title != "" {
		article.Title = req.Title
	}
	if req.Content != "" {
		article.Content = req.Content
	}
	if req.Excerpt != "" {
		article.Excerpt = req.Excerpt
	}
	if req.CoverImage != "" {
		article.CoverImage = req.CoverImage
	}
	if req.Category != "" {
		article.Category = req.Category
	}
	if req.Tags != nil {
		article.Tags = req.Tags
	}
	if req.Status != "" {
		if req.Status != models.ArticleDraft && req.Status != models.ArticlePublished {
			return jsonError(c, fiber.StatusBadRequest, "invalid status")
		}
		article.Status = req.Status
	}
	if req.Slug != "" && req.Slug != article.Slug {
		allocated, err := slug.Allocate(c.Context(), h.slugs, article.Title, req.Slug, article.ID)
		if err != nil {
			return slugAllocError(c, err)
		}
		article.Slug = allocated
	}

	if err := h.db.UpdateArticle(c.Context(), article); err != nil {
		if errors.Is(err, db.ErrDuplicateSlug) {
			return jsonError(c, fiber.StatusConflict, "slug already in use")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to update article")
	}
	return jsonSuccess(c, article)
}

// Delete removes an article. Admin only.
func (h *ArticleHandler) Delete(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid article id")
	}
	if err := h.db.DeleteArticle(c.Context(), id); err != nil {
		if errors.Is(err, db.ErrArticleNotFound) {
			return jsonError(c, fiber.StatusNotFound, "article not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to delete article")
	}
	return jsonSuccess(c, fiber.Map{"message": "article deleted"})
}

// Like records one like per user per article.
func (h *ArticleHandler) Like(c fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid article id")
	}

	likes, err := h.db.LikeArticle(c.Context(), id, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrAlreadyLiked):
			return jsonError(c, fiber.StatusBadRequest, "already liked")
		case errors.Is(err, db.ErrArticleNotFound):
			return jsonError(c, fiber.StatusNotFound, "article not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to like article")
	}
	return jsonSuccess(c, fiber.Map{"likes": likes})
}

// CheckSlug reports whether a requested slug is free, or suggests one
// derived from the title. An explicit slug must already be in canonical
// form; a taken slug is a conflict, not an availability answer.
func (h *ArticleHandler) CheckSlug(c fiber.Ctx) error {
	var req struct {
		Title string `json:"title"`
		Slug  string `json:"slug"`
	}
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.Title == "" && req.Slug == "" {
		return jsonError(c, fiber.StatusBadRequest, "title or slug is required")
	}

	if req.Slug != "" {
		if !slug.Valid(req.Slug) {
			return jsonError(c, fiber.StatusBadRequest, "invalid slug format")
		}
		taken, err := h.slugs.SlugExists(c.Context(), req.Slug, uuid.Nil)
		if err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "failed to check slug")
		}
		if taken {
			return jsonError(c, fiber.StatusConflict, "slug already in use")
		}
		return jsonSuccess(c, fiber.Map{"available": true, "slug": req.Slug})
	}

	allocated, err := slug.Allocate(c.Context(), h.slugs, req.Title, "", uuid.Nil)
	if err != nil {
		return slugAllocError(c, err)
	}
	return jsonSuccess(c, fiber.Map{"available": true, "slug": allocated})
}

func slugAllocError(c fiber.Ctx, err error) error {
	var conflict *slug.ErrConflict
	if errors.As(err, &conflict) {
		return jsonError(c, fiber.StatusConflict, conflict.Error())
	}
	var invalid *slug.ErrInvalid
	if errors.As(err, &invalid) {
		return jsonError(c, fiber.StatusBadRequest, invalid.Error())
	}
	return jsonError(c, fiber.StatusInternalServerError, "failed to allocate slug")
}
