package handlers

import (
	"mime/multipart"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/aniketsharma889/faculty-appraisal-system-sub001/internal/api/dto"
	"github.com/aniketsharma889/faculty-appraisal-system-sub001/internal/auth"
	"github.com/aniketsharma889/faculty-appraisal-system-sub001/internal/domain"
	"github.com/aniketsharma889/faculty-appraisal-system-sub001/internal/service"
	"github.com/aniketsharma889/faculty-appraisal-system-sub001/internal/storage"
	apperrors "github.com/aniketsharma889/faculty-appraisal-system-sub001/pkg/util/errorutil"
)

// AppraisalsHandler manages faculty-facing appraisal endpoints.
type AppraisalsHandler struct {
	service *service.AppraisalService
}

// NewAppraisalsHandler constructs handler.
func NewAppraisalsHandler(appraisalService *service.AppraisalService) *AppraisalsHandler {
	return &AppraisalsHandler{service: appraisalService}
}

// Submit POST /appraisals. Multipart: text fields plus attachment files.
func (h *AppraisalsHandler) Submit(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	form, err := c.MultipartForm()
	if err != nil {
		return apperrors.NewValidationError("multipart form expected", nil)
	}

	uploads, closeFiles, err := openUploads(form)
	if err != nil {
		return err
	}
	defer closeFiles()

	record, err := h.service.Submit(c.Context(), *principal, payloadFromForm(form), uploads)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": appraisalDetail(record)})
}

// List GET /appraisals.
func (h *AppraisalsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	records, err := h.service.ListForFaculty(c.Context(), *principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": appraisalSummaries(records)})
}

// Get GET /appraisals/:id.
func (h *AppraisalsHandler) Get(c *fiber.Ctx) error {
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

// Edit PUT /appraisals/:id. Multipart like Submit, plus an optional
// existingFiles field carrying the references the client wants to keep.
func (h *AppraisalsHandler) Edit(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	form, err := c.MultipartForm()
	if err != nil {
		return apperrors.NewValidationError("multipart form expected", nil)
	}

	uploads, closeFiles, err := openUploads(form)
	if err != nil {
		return err
	}
	defer closeFiles()

	var existingRefs any
	if raw := formValue(form, "existingFiles"); raw != "" {
		existingRefs = raw
	}

	record, err := h.service.Edit(c.Context(), *principal, c.Params("id"), payloadFromForm(form), existingRefs, uploads)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": appraisalDetail(record)})
}

// History GET /appraisals/:id/history.
func (h *AppraisalsHandler) History(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	entries, err := h.service.HistoryForPrincipal(c.Context(), *principal, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": historyResponses(entries)})
}

func payloadFromForm(form *multipart.Form) service.SubmissionPayload {
	return service.SubmissionPayload{
		FullName:      formValue(form, "fullName"),
		EmployeeCode:  formValue(form, "employeeCode"),
		Email:         formValue(form, "email"),
		Phone:         formValue(form, "phone"),
		Department:    formValue(form, "department"),
		Designation:   formValue(form, "designation"),
		DateOfJoining: formValue(form, "dateOfJoining"),
		DateOfBirth:   formValue(form, "dateOfBirth"),
		Address:       formValue(form, "address"),

		AcademicQualifications:         formValue(form, "academicQualifications"),
		ResearchPublications:           formValue(form, "researchPublications"),
		Seminars:                       formValue(form, "seminars"),
		Projects:                       formValue(form, "projects"),
		Lectures:                       formValue(form, "lectures"),
		AwardsRecognitions:             formValue(form, "awardsRecognitions"),
		ProfessionalMemberships:        formValue(form, "professionalMemberships"),
		CoursesTaught:                  formValue(form, "coursesTaught"),
		AdministrativeResponsibilities: formValue(form, "administrativeResponsibilities"),
		StudentMentoring:               formValue(form, "studentMentoring"),
	}
}

func formValue(form *multipart.Form, key string) string {
	values := form.Value[key]
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// openUploads opens every attachment file header and returns a closer for
// all of them. The readers stay valid for the lifetime of the request.
func openUploads(form *multipart.Form) ([]storage.UploadInput, func(), error) {
	headers := form.File["attachments"]
	uploads := make([]storage.UploadInput, 0, len(headers))
	opened := make([]multipart.File, 0, len(headers))

	closeAll := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}

	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			closeAll()
			return nil, nil, apperrors.NewValidationError("unreadable attachment", map[string]any{
				"file_name": header.Filename,
			})
		}
		opened = append(opened, file)
		uploads = append(uploads, storage.UploadInput{
			FileName:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Reader:      file,
		})
	}
	return uploads, closeAll, nil
}

func appraisalSummaries(records []domain.AppraisalRecord) []dto.AppraisalSummary {
	items := make([]dto.AppraisalSummary, 0, len(records))
	for i := range records {
		items = append(items, appraisalSummary(&records[i]))
	}
	return items
}

func appraisalSummary(record *domain.AppraisalRecord) dto.AppraisalSummary {
	return dto.AppraisalSummary{
		ID:             record.ID,
		FacultyID:      record.FacultyID,
		FullName:       record.FullName,
		EmployeeCode:   record.EmployeeCode,
		Department:     record.Department,
		Designation:    record.Designation,
		Status:         record.Status,
		SubmissionDate: record.SubmissionDate,
		UpdatedAt:      record.UpdatedAt,
	}
}

func appraisalDetail(record *domain.AppraisalRecord) dto.AppraisalDetailResponse {
	attachments := make([]dto.AttachmentResponse, 0, len(record.Attachments))
	for _, ref := range record.Attachments {
		attachments = append(attachments, dto.AttachmentResponse{
			FileName:   ref.FileName,
			FileURL:    ref.FileURL,
			UploadedAt: ref.UploadedAt,
		})
	}
	return dto.AppraisalDetailResponse{
		ID:        record.ID,
		FacultyID: record.FacultyID,

		FullName:      record.FullName,
		EmployeeCode:  record.EmployeeCode,
		Email:         record.Email,
		Phone:         record.Phone,
		Department:    record.Department,
		Designation:   record.Designation,
		DateOfJoining: record.DateOfJoining,
		DateOfBirth:   record.DateOfBirth,
		Address:       record.Address,

		AcademicQualifications:         record.AcademicQualifications,
		ResearchPublications:           record.ResearchPublications,
		Seminars:                       record.Seminars,
		Projects:                       record.Projects,
		Lectures:                       record.Lectures,
		AwardsRecognitions:             record.AwardsRecognitions,
		ProfessionalMemberships:        record.ProfessionalMemberships,
		CoursesTaught:                  record.CoursesTaught,
		AdministrativeResponsibilities: record.AdministrativeResponsibilities,
		StudentMentoring:               record.StudentMentoring,

		Attachments: attachments,

		Status:         record.Status,
		SubmissionDate: record.SubmissionDate,
		HODApproval:    decisionResponse(record.HODApproval),
		AdminApproval:  decisionResponse(record.AdminApproval),
		CreatedAt:      record.CreatedAt,
		UpdatedAt:      record.UpdatedAt,
	}
}

func decisionResponse(decision domain.ReviewDecision) dto.ReviewDecisionResponse {
	return dto.ReviewDecisionResponse{
		Approved: decision.Approved,
		Date:     decision.Date,
		Remarks:  decision.Remarks,
	}
}

func historyResponses(entries []domain.AppraisalHistory) []dto.AppraisalHistoryResponse {
	resp := make([]dto.AppraisalHistoryResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, dto.AppraisalHistoryResponse{
			ID:         entry.ID,
			ChangedBy:  entry.ChangedBy,
			ActorRole:  entry.ActorRole,
			ChangeType: entry.ChangeType,
			OldValue:   entry.OldValue,
			NewValue:   entry.NewValue,
			CreatedAt:  entry.CreatedAt,
		})
	}
	return resp
}
