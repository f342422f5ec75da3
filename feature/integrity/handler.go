package integrity

import (
	"errors"

	"relationship-manager/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/structure", h.HandleStructureCheck)
	group.Get("/fixtures", h.HandleFixturesCheck)
	group.Get("/schema", h.HandleSchemaCheck)
	group.Get("/index", h.HandleIndexCheck)
}

// HandleIntegrityCheck triggers all integrity checks.
// @Summary Run All Integrity Checks
// @Description Performs every infrastructure check (Structure, Fixtures, Schema, Index). Unconfigured checks are reported as skipped.
// @Tags integrity
// @Produce json
// @Success 200 {object} map[string]interface{} "Combined Report"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	ctx := c.Context()
	report := make(map[string]interface{})

	if structure, err := h.service.CheckStructure(ctx); err != nil {
		report["structure"] = errorEntry(err)
	} else {
		report["structure"] = structure
	}

	report["fixtures"] = h.service.CheckFixtures(ctx)

	if schema, err := h.service.CheckSchema(); err != nil {
		report["schema"] = errorEntry(err)
	} else {
		report["schema"] = schema
	}

	if index, err := h.service.CheckIndex(ctx); err != nil {
		report["index"] = errorEntry(err)
	} else {
		report["index"] = index
	}

	return c.JSON(report)
}

func errorEntry(err error) map[string]interface{} {
	if errors.Is(err, ErrNotConfigured) {
		return map[string]interface{}{"status": "skipped", "reason": err.Error()}
	}
	return map[string]interface{}{"status": "error", "error": err.Error()}
}

// HandleStructureCheck checks and optionally fixes the bucket layout.
// @Summary Check Structure
// @Description Checks that the fixture bucket and its folders exist. Optionally creates what is missing.
// @Tags integrity
// @Produce json
// @Param fix query boolean false "Create the missing bucket and folders"
// @Success 200 {object} map[string]interface{} "Structure Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/structure [get]
func (h *Handler) HandleStructureCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := c.Query("fix") == "true"

	report, err := h.service.CheckStructure(c.Context())
	if err != nil {
		l.Error("Structure check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if !report.IsHealthy() {
		l.Warn("Bucket structure incomplete",
			zap.Bool("bucket_exists", report.BucketExists),
			zap.Strings("missing", report.Missing))

		if fix {
			l.Info("Attempting to fix bucket structure")
			if err := h.service.FixStructure(c.Context(), report); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error":   "Failed to fix structure",
					"details": err.Error(),
					"missing": report.Missing,
				})
			}
			return c.JSON(fiber.Map{
				"status":         "fixed",
				"bucket_created": !report.BucketExists,
				"fixed":          report.Missing,
			})
		}
	}

	return c.JSON(fiber.Map{
		"status":        "checked",
		"bucket_exists": report.BucketExists,
		"missing":       report.Missing,
	})
}

// HandleFixturesCheck inspects the published fixtures.
// @Summary Check Fixtures
// @Description Verifies that the file and bucket fixtures exist and decode.
// @Tags integrity
// @Produce json
// @Success 200 {array} checks.FixtureReport "Fixture Reports"
// @Router /integrity/fixtures [get]
func (h *Handler) HandleFixturesCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	reports := h.service.CheckFixtures(c.Context())
	for _, r := range reports {
		if !r.IsHealthy() {
			l.Warn("Fixture unhealthy",
				zap.String("source", r.Source),
				zap.String("location", r.Location),
				zap.Bool("present", r.Present),
				zap.String("error", r.Error))
		}
	}
	return c.JSON(reports)
}

// HandleSchemaCheck checks the document store schema.
// @Summary Check Document Schema
// @Description Checks that the artists and studios tables match the expected columns and types.
// @Tags integrity
// @Produce json
// @Success 200 {object} checks.SchemaReport "Schema Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/schema [get]
func (h *Handler) HandleSchemaCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Starting document schema check")

	report, err := h.service.CheckSchema()
	if err != nil {
		l.Error("Schema check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(report)
}

// HandleIndexCheck checks the search index.
// @Summary Check Search Index
// @Description Pings the search index and counts indexed artists and studios.
// @Tags integrity
// @Produce json
// @Success 200 {object} checks.IndexReport "Index Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/index [get]
func (h *Handler) HandleIndexCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.CheckIndex(c.Context())
	if err != nil {
		l.Error("Index check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(report)
}
