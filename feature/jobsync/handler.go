package jobsync

import (
	"errors"

	"jobads-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler exposes the sync loop over HTTP.
type Handler struct {
	syncer *Syncer
}

// NewHandler creates a new HTTP handler.
func NewHandler(syncer *Syncer) *Handler {
	return &Handler{syncer: syncer}
}

// RegisterRoutes registers the sync routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/sync")
	group.Get("/status", h.HandleStatus)
	group.Post("/run", h.HandleRun)
}

// HandleStatus returns the current sync status.
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	return c.JSON(h.syncer.Status())
}

// HandleRun runs one update cycle and returns its report. It answers 409
// while another cycle holds the store.
func (h *Handler) HandleRun(c *fiber.Ctx) error {
	l := logger.WithRayID(h.syncer.logger, c)

	report, err := h.syncer.RunCycle(c.Context())
	if errors.Is(err, ErrCycleInProgress) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if err != nil {
		l.Error("Manual sync cycle failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":  err.Error(),
			"report": report,
		})
	}

	l.Info("Manual sync cycle finished", zap.Int("fetched", report.Fetched))
	return c.JSON(report)
}
