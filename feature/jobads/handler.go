package jobads

import (
	"errors"

	"jobads-sync/core/logger"
	"jobads-sync/core/utils"
	"jobads-sync/feature/jobads/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for stored job ads.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the job ad routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/jobads")
	group.Get("/", h.HandleList)
	group.Get("/count", h.HandleCount)
	group.Get("/:id", h.HandleGet)
}

// HandleList returns a page of ads, optionally filtered by city and occupation.
func (h *Handler) HandleList(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	page, err := h.service.List(c.Context(), models.ListOptions{
		Limit:      utils.ToInt(c.Query("limit")),
		Offset:     utils.ToInt(c.Query("offset")),
		City:       c.Query("city"),
		Occupation: c.Query("occupation"),
	})
	if err != nil {
		l.Error("Listing job ads failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(page)
}

// HandleCount returns the number of stored ads.
func (h *Handler) HandleCount(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	n, err := h.service.Count(c.Context())
	if err != nil {
		l.Error("Counting job ads failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{"count": n})
}

// HandleGet returns one ad by id.
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	id := c.Params("id")
	l := logger.WithRayID(h.service.logger, c)

	ad, err := h.service.Get(c.Context(), id)
	if errors.Is(err, ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if err != nil {
		l.Error("Job ad lookup failed", zap.String("id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(ad)
}
