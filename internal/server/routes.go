package server

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"stively/internal/db"
	"stively/internal/email"
	"stively/internal/handlers"
	"stively/internal/handlers/api"
	"stively/internal/importer"
	"stively/internal/middleware"
	"stively/internal/models"
)

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(ctx context.Context, database *db.DB) error {
	authMiddleware := middleware.NewAuthMiddleware(database)
	notifier := email.NewNotifier(s.Cfg, database)

	var store importer.ImageStore
	if s.Cfg.IsStorageEnabled() {
		minioStore, err := importer.NewMinioStore(s.Cfg)
		if err != nil {
			slog.Warn("object storage unavailable, imported images will be dropped", "error", err)
		} else {
			store = minioStore
		}
	}

	articleHandler := api.NewArticleHandler(database)
	submissionHandler := api.NewSubmissionHandler(database, notifier)
	authorHandler := api.NewAuthorHandler(database, notifier)
	newsletterHandler := api.NewNewsletterHandler(database, s.Cfg, notifier)
	importHandler := api.NewImportHandler(importer.New(store))
	statsHandler := api.NewStatsHandler(database)
	probeHandler := handlers.NewProbeHandler(database)

	authHandler, err := handlers.NewAuthHandler(ctx, s.Cfg, database)
	if err != nil {
		return err
	}

	s.App.Get("/auth/login", authHandler.Login)
	s.App.Get("/auth/callback", authHandler.Callback)
	s.App.Get("/auth/logout", authHandler.Logout)

	// Probes and metrics
	s.App.Get("/healthz", probeHandler.Liveness)
	s.App.Get("/readyz", probeHandler.Readiness)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	adminOnly := authMiddleware.RequireRole(models.RoleAdmin)
	authorOrAdmin := authMiddleware.RequireRole(models.RoleAuthor, models.RoleAdmin)

	// Public blog surface
	s.App.Get("/api/blogs", authMiddleware.OptionalAuth, articleHandler.List)
	s.App.Get("/api/blogs/slug/:slug", articleHandler.GetBySlug)
	s.App.Post("/api/blogs/check-slug", articleHandler.CheckSlug)
	s.App.Post("/api/blogs/:id/like", authMiddleware.RequireAuth, articleHandler.Like)

	// Admin article management
	s.App.Post("/api/blogs", adminOnly, articleHandler.Create)
	s.App.Put("/api/blogs/:id", adminOnly, articleHandler.Update)
	s.App.Delete("/api/blogs/:id", adminOnly, articleHandler.Delete)

	// Editorial review workflow
	s.App.Post("/api/submissions", authorOrAdmin, submissionHandler.Create)
	s.App.Get("/api/submissions", authMiddleware.RequireAuth, submissionHandler.List)
	s.App.Get("/api/submissions/:id", authMiddleware.RequireAuth, submissionHandler.Get)
	s.App.Put("/api/submissions/:id", adminOnly, submissionHandler.Update)
	s.App.Post("/api/submissions/:id/approve", adminOnly, submissionHandler.Approve)
	s.App.Post("/api/submissions/:id/revise", adminOnly, submissionHandler.Revise)
	s.App.Post("/api/submissions/:id/resubmit", authorOrAdmin, submissionHandler.Resubmit)

	// Author applications
	s.App.Post("/api/authors/apply", authorHandler.Apply)
	s.App.Get("/api/admin/authors", adminOnly, authorHandler.List)
	s.App.Post("/api/admin/authors/:id/approve", adminOnly, authorHandler.Approve)
	s.App.Post("/api/admin/authors/:id/reject", adminOnly, authorHandler.Reject)

	// Newsletter
	s.App.Post("/api/newsletter", newsletterHandler.Subscribe)
	s.App.Get("/api/newsletter/verify", newsletterHandler.Verify)
	s.App.Get("/api/newsletter/unsubscribe", newsletterHandler.Unsubscribe)
	s.App.Get("/api/admin/newsletter", adminOnly, newsletterHandler.List)

	// Admin tools
	s.App.Post("/api/admin/import-document", adminOnly, importHandler.Import)
	s.App.Get("/api/admin/stats", adminOnly, statsHandler.Dashboard)

	return nil
}
