package api

import (
	"github.com/gofiber/fiber/v3"

	"stively/internal/db"
)

// StatsHandler serves the admin dashboard counters.
type StatsHandler struct {
	db *db.DB
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(database *db.DB) *StatsHandler {
	return &StatsHandler{db: database}
}

// Dashboard returns the content and audience counters in one response.
func (h *StatsHandler) Dashboard(c fiber.Ctx) error {
	stats, err := h.db.GetDashboardStats(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch stats")
	}
	return jsonSuccess(c, stats)
}
