package handlers

import (
	"strconv"

	"github.com/ahmetcoskunkizilkaya/social-notifications/internal/dto"
	"github.com/ahmetcoskunkizilkaya/social-notifications/internal/services"
	"github.com/gofiber/fiber/v2"
)

const maxReportPage = 100

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) FileReport(c *fiber.Ctx) error {
	var req dto.FileReportRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	report, err := h.reportService.FileReport(c.UserContext(), req.ResourceID, req.ReasonCategory, req.ReasonDescription)
	if err != nil {
		return writeError(c, err)
	}
	if report == nil {
		return c.JSON(dto.FileReportResponse{})
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FileReportResponse{Report: report})
}

// List serves the moderation queue:
// GET /admin/reports?orderBy=&reviewed=&closed=&offset=&first=
func (h *ReportHandler) List(c *fiber.Ctx) error {
	var (
		filter services.ReportFilter
		err    error
	)
	if filter.OrderBy, err = services.ParseOrdering(c.Query("orderBy")); err != nil {
		return writeError(c, err)
	}
	if filter.Reviewed, err = services.ParseOptionalBool(c.Query("reviewed")); err != nil {
		return writeError(c, err)
	}
	if filter.Closed, err = services.ParseOptionalBool(c.Query("closed")); err != nil {
		return writeError(c, err)
	}
	if filter.Offset, err = queryInt(c, "offset"); err != nil {
		return writeError(c, err)
	}
	if filter.First, err = queryInt(c, "first"); err != nil {
		return writeError(c, err)
	}
	if filter.First > maxReportPage {
		filter.First = maxReportPage
	}

	reports, err := h.reportService.Reports(c.UserContext(), filter)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ReportsResponse{
		Reports: reports,
		Offset:  filter.Offset,
		First:   filter.First,
	})
}

func queryInt(c *fiber.Ctx, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, services.ValidationError("%s must be an integer", key)
	}
	return n, nil
}
