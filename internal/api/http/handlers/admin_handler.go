package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/aniketsharma889/faculty-appraisal-system-sub001/internal/auth"
	"github.com/aniketsharma889/faculty-appraisal-system-sub001/internal/domain"
	"github.com/aniketsharma889/faculty-appraisal-system-sub001/internal/service"
	apperrors "github.com/aniketsharma889/faculty-appraisal-system-sub001/pkg/util/errorutil"
)

// AdminHandler exposes institutional admin review endpoints.
type AdminHandler struct {
	service *service.AppraisalService
	summary *service.SummaryService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(appraisalService *service.AppraisalService, summaryService *service.SummaryService) *AdminHandler {
	return &AdminHandler{service: appraisalService, summary: summaryService}
}

// List GET /admin/appraisals?status=pending_admin.
func (h *AdminHandler) List(c *fiber.Ctx) error {
	status := domain.AppraisalStatus(strings.TrimSpace(c.Query("status")))
	if status == "" {
		status = domain.StatusPendingAdmin
	}
	switch status {
	case domain.StatusPendingHOD, domain.StatusPendingAdmin, domain.StatusApproved, domain.StatusRejected:
	default:
		return apperrors.NewValidationError("invalid status filter", map[string]any{
			"field": "status",
			"value": string(status),
		})
	}

	records, err := h.service.ListByStatusForAdmin(c.Context(), status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": appraisalSummaries(records), "total": len(records)})
}

// Get GET /admin/appraisals/:id.
func (h *AdminHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	record, err := h.service.GetForPrincipal(c.Context(), *principal, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": appraisalDetail(record)})
}

// Decide POST /admin/appraisals/:id/review.
func (h *AdminHandler) Decide(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	approve, remarks, err := parseReviewRequest(c)
	if err != nil {
		return err
	}
	record, err := h.service.ReviewAsAdmin(c.Context(), *principal, c.Params("id"), approve, remarks)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": appraisalDetail(record)})
}

// Dashboard GET /admin/dashboard: record counts per lifecycle status.
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	counts, err := h.summary.StatusCounts(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": counts})
}
