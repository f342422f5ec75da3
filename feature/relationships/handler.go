package relationships

import (
	"relationship-manager/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for relationships.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the relationship routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/relationships")
	group.Get("/validate", h.HandleValidate)
	group.Get("/report", h.HandleReport)
	group.Post("/repair", h.HandleRepair)
	group.Post("/rebuild", h.HandleRebuild)
	group.Get("/drift", h.HandleDrift)
	group.Post("/drift", h.HandleDriftApply)
}

// HandleValidate validates the source dataset.
// @Summary Validate Relationships
// @Description Check every artist/studio reference. Responds 200 with valid=false when errors exist.
// @Tags relationships
// @Produce json
// @Success 200 {object} integrity.Report "Validation report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /relationships/validate [get]
func (h *Handler) HandleValidate(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.Validate(c.Context())
	if err != nil {
		l.Error("Relationship validation failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(report)
}

// HandleReport returns the studio overview.
// @Summary Studio Overview
// @Description Per-studio artist counts, capacity and specialties plus validation totals.
// @Tags relationships
// @Produce json
// @Success 200 {object} relationships.Overview "Overview"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /relationships/report [get]
func (h *Handler) HandleReport(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	overview, err := h.service.Overview(c.Context())
	if err != nil {
		l.Error("Relationship report failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(overview)
}

// HandleRepair repairs the source dataset and persists it.
// @Summary Repair Relationships
// @Description Fix dangling references, duplicates, orphans and empty studios in one pass.
// @Tags relationships
// @Produce json
// @Param dry_run query bool false "Report without persisting"
// @Success 200 {object} relationships.RepairResult "Repair result"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /relationships/repair [post]
func (h *Handler) HandleRepair(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	result, err := h.service.Repair(c.Context(), c.QueryBool("dry_run", false))
	if err != nil {
		l.Error("Relationship repair failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(result)
}

// HandleRebuild reassigns every artist and persists the result.
// @Summary Rebuild Relationships
// @Description Discard existing relationships, assign artists afresh, synchronize and validate.
// @Tags relationships
// @Produce json
// @Param dry_run query bool false "Report without persisting"
// @Success 200 {object} relationships.RebuildResult "Rebuild result"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /relationships/rebuild [post]
func (h *Handler) HandleRebuild(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	result, err := h.service.Rebuild(c.Context(), c.QueryBool("dry_run", false))
	if err != nil {
		l.Error("Relationship rebuild failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(result)
}

// HandleDrift compares replicas with the source.
// @Summary Mirror Drift
// @Description Compare relationship fields of every mirror against the source and plan republishing.
// @Tags relationships
// @Produce json
// @Success 200 {object} reconcile.ReconcilePlan "Drift plan"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /relationships/drift [get]
func (h *Handler) HandleDrift(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	plan, _, err := h.service.Drift(c.Context(), false)
	if err != nil {
		l.Error("Drift check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(plan)
}

// HandleDriftApply republishes the source to drifted replicas.
// @Summary Apply Mirror Drift
// @Description Republish the source dataset to every drifted mirror.
// @Tags relationships
// @Produce json
// @Success 200 {object} map[string]interface{} "Plan and executed action count"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /relationships/drift [post]
func (h *Handler) HandleDriftApply(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	plan, executed, err := h.service.Drift(c.Context(), true)
	if err != nil {
		l.Error("Drift apply failed", zap.Error(err), zap.Int("executed", executed))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":    err.Error(),
			"executed": executed,
		})
	}
	return c.JSON(fiber.Map{
		"plan":     plan,
		"executed": executed,
	})
}
