package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/aniketsharma889/faculty-appraisal-system-sub001/internal/api/dto"
	"github.com/aniketsharma889/faculty-appraisal-system-sub001/internal/auth"
	"github.com/aniketsharma889/faculty-appraisal-system-sub001/internal/service"
	apperrors "github.com/aniketsharma889/faculty-appraisal-system-sub001/pkg/util/errorutil"
)

// HODHandler exposes department head review endpoints.
type HODHandler struct {
	service *service.AppraisalService
}

// NewHODHandler constructs handler.
func NewHODHandler(appraisalService *service.AppraisalService) *HODHandler {
	return &HODHandler{service: appraisalService}
}

// ListPending GET /hod/appraisals: records awaiting HOD action in the
// reviewer's department.
func (h *HODHandler) ListPending(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	records, err := h.service.ListPendingForHOD(c.Context(), *principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": appraisalSummaries(records), "total": len(records)})
}

// Get GET /hod/appraisals/:id.
func (h *HODHandler) Get(c *fiber.Ctx) error {
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

// Decide POST /hod/appraisals/:id/review.
func (h *HODHandler) Decide(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	approve, remarks, err := parseReviewRequest(c)
	if err != nil {
		return err
	}
	record, err := h.service.ReviewAsHOD(c.Context(), *principal, c.Params("id"), approve, remarks)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": appraisalDetail(record)})
}

func parseReviewRequest(c *fiber.Ctx) (approve bool, remarks string, err error) {
	var req dto.ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return false, "", apperrors.NewValidationError("invalid payload", nil)
	}
	switch strings.ToLower(strings.TrimSpace(req.Decision)) {
	case "approve":
		return true, strings.TrimSpace(req.Remarks), nil
	case "reject":
		return false, strings.TrimSpace(req.Remarks), nil
	default:
		return false, "", apperrors.NewValidationError("decision must be either 'approve' or 'reject'", map[string]any{
			"field": "decision",
		})
	}
}
