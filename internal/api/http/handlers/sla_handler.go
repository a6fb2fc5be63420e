package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-sla/internal/api/dto"
	"github.com/spec-kit/ticket-sla/internal/service"
	apperrors "github.com/spec-kit/ticket-sla/pkg/util/errorutil"
)

// SLAHandler exposes ticket evaluation and stored reports.
type SLAHandler struct {
	service *service.ReportService
}

// NewSLAHandler constructs handler.
func NewSLAHandler(reportService *service.ReportService) *SLAHandler {
	return &SLAHandler{service: reportService}
}

// Evaluate POST /v1/sla/evaluate.
func (h *SLAHandler) Evaluate(c *fiber.Ctx) error {
	var req dto.EvaluateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Issue.Key) == "" || strings.TrimSpace(req.Issue.Created) == "" {
		return apperrors.NewValidationError("issue.key and issue.created required", nil)
	}

	report, err := h.service.Evaluate(c.UserContext(), req.Issue)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewReportResponse(report)})
}

// GetReport GET /v1/reports/:key.
func (h *SLAHandler) GetReport(c *fiber.Ctx) error {
	report, err := h.service.GetReport(c.UserContext(), c.Params("key"))
	if err != nil {
		return mapStorageError(err)
	}
	return c.JSON(fiber.Map{"data": dto.NewReportResponse(report)})
}

// ListRun GET /v1/runs/:id/reports.
func (h *SLAHandler) ListRun(c *fiber.Ctx) error {
	reports, err := h.service.ListRun(c.UserContext(), c.Params("id"))
	if err != nil {
		return mapStorageError(err)
	}
	items := make([]dto.ReportResponse, 0, len(reports))
	for i := range reports {
		items = append(items, dto.NewReportResponse(&reports[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Run POST /v1/reports/run.
func (h *SLAHandler) Run(c *fiber.Ctx) error {
	var req dto.RunRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
	}

	summary, err := h.service.Run(c.UserContext(), service.RunOptions{JQL: req.JQL})
	if err != nil {
		var ticketErr *service.TicketError
		if errors.As(err, &ticketErr) {
			return err
		}
		return apperrors.NewUpstreamError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": summary})
}

func mapStorageError(err error) error {
	if errors.Is(err, service.ErrStorageDisabled) {
		return apperrors.NewUnavailable("report storage disabled")
	}
	return err
}
