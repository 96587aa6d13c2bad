package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"

	"stively/internal/db"
)

// readinessTimeout bounds the database ping so a hung pool reports not-ready
// instead of stalling the probe.
const readinessTimeout = 2 * time.Second

// ProbeHandler answers liveness and readiness checks.
type ProbeHandler struct {
	db      *db.DB
	started time.Time
}

// NewProbeHandler creates a new probe handler.
func NewProbeHandler(database *db.DB) *ProbeHandler {
	return &ProbeHandler{db: database, started: time.Now()}
}

// Liveness handles /healthz. It only proves the process is serving requests.
func (h *ProbeHandler) Liveness(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"uptime": time.Since(h.started).Round(time.Second).String(),
	})
}

// Readiness handles /readyz. Ready means the database answers a ping within
// the probe deadline.
func (h *ProbeHandler) Readiness(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), readinessTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "error",
			"error":  "database unavailable",
		})
	}
	return c.JSON(fiber.Map{
		"status": "ok",
	})
}
