package dto

import (
	"time"

	"github.com/aniketsharma889/faculty-appraisal-system-sub001/internal/domain"
)

// ReviewRequest is the HOD/admin decision payload.
type ReviewRequest struct {
	Decision string `json:"decision"`
	Remarks  string `json:"remarks"`
}

// ReviewDecisionResponse mirrors one stage's outcome.
type ReviewDecisionResponse struct {
	Approved *bool      `json:"approved"`
	Date     *time.Time `json:"date"`
	Remarks  string     `json:"remarks,omitempty"`
}

// AttachmentResponse is one stored file reference.
type AttachmentResponse struct {
	FileName   string    `json:"fileName"`
	FileURL    string    `json:"fileUrl"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// AppraisalSummary is the listing shape.
type AppraisalSummary struct {
	ID             string                 `json:"id"`
	FacultyID      string                 `json:"facultyId"`
	FullName       string                 `json:"fullName"`
	EmployeeCode   string                 `json:"employeeCode"`
	Department     string                 `json:"department"`
	Designation    string                 `json:"designation"`
	Status         domain.AppraisalStatus `json:"status"`
	SubmissionDate time.Time              `json:"submissionDate"`
	UpdatedAt      time.Time              `json:"updatedAt"`
}

// AppraisalDetailResponse is the full record shape.
type AppraisalDetailResponse struct {
	ID        string `json:"id"`
	FacultyID string `json:"facultyId"`

	FullName      string `json:"fullName"`
	EmployeeCode  string `json:"employeeCode"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Department    string `json:"department"`
	Designation   string `json:"designation"`
	DateOfJoining string `json:"dateOfJoining"`
	DateOfBirth   string `json:"dateOfBirth"`
	Address       string `json:"address"`

	AcademicQualifications         []domain.Qualification       `json:"academicQualifications"`
	ResearchPublications           []domain.Publication         `json:"researchPublications"`
	Seminars                       []domain.Seminar             `json:"seminars"`
	Projects                       []domain.Project             `json:"projects"`
	Lectures                       []domain.Lecture             `json:"lectures"`
	AwardsRecognitions             []domain.Award               `json:"awardsRecognitions"`
	ProfessionalMemberships        []string                     `json:"professionalMemberships"`
	CoursesTaught                  []domain.Course              `json:"coursesTaught"`
	AdministrativeResponsibilities []domain.AdminResponsibility `json:"administrativeResponsibilities"`
	StudentMentoring               []domain.Mentoring           `json:"studentMentoring"`

	Attachments []AttachmentResponse `json:"attachments"`

	Status         domain.AppraisalStatus `json:"status"`
	SubmissionDate time.Time              `json:"submissionDate"`
	HODApproval    ReviewDecisionResponse `json:"hodApproval"`
	AdminApproval  ReviewDecisionResponse `json:"adminApproval"`
	CreatedAt      time.Time              `json:"createdAt"`
	UpdatedAt      time.Time              `json:"updatedAt"`
}

// AppraisalHistoryResponse is one audit trail entry.
type AppraisalHistoryResponse struct {
	ID         string                     `json:"id"`
	ChangedBy  string                     `json:"changedBy"`
	ActorRole  domain.Role                `json:"actorRole"`
	ChangeType domain.AppraisalChangeType `json:"changeType"`
	OldValue   map[string]any             `json:"oldValue"`
	NewValue   map[string]any             `json:"newValue"`
	CreatedAt  time.Time                  `json:"createdAt"`
}
