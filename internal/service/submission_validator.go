package service

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/aniketsharma889/faculty-appraisal-system-sub001/internal/domain"
	apperrors "github.com/aniketsharma889/faculty-appraisal-system-sub001/pkg/util/errorutil"
)

// SubmissionPayload is the raw multi-section appraisal document as received
// from the form surface. Professional collections arrive as serialized JSON.
type SubmissionPayload struct {
	FullName      string
	EmployeeCode  string
	Email         string
	Phone         string
	Department    string
	Designation   string
	DateOfJoining string
	DateOfBirth   string
	Address       string

	AcademicQualifications         string
	ResearchPublications           string
	Seminars                       string
	Projects                       string
	Lectures                       string
	AwardsRecognitions             string
	ProfessionalMemberships        string
	CoursesTaught                  string
	AdministrativeResponsibilities string
	StudentMentoring               string
}

// NormalizedAppraisal is the validator's typed output: trimmed personal
// fields plus parsed professional collections. Lifecycle fields are owned by
// the workflow engine, never by the validator.
type NormalizedAppraisal struct {
	FullName      string
	EmployeeCode  string
	Email         string
	Phone         string
	Department    string
	Designation   string
	DateOfJoining string
	DateOfBirth   string
	Address       string

	AcademicQualifications         []domain.Qualification
	ResearchPublications           []domain.Publication
	Seminars                       []domain.Seminar
	Projects                       []domain.Project
	Lectures                       []domain.Lecture
	AwardsRecognitions             []domain.Award
	ProfessionalMemberships        []string
	CoursesTaught                  []domain.Course
	AdministrativeResponsibilities []domain.AdminResponsibility
	StudentMentoring               []domain.Mentoring
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Collection field labels used in validation errors. These match the labels
// the form surface renders, so clients can point at the offending section.
const (
	fieldAcademicQualifications = "academic qualifications"
	fieldResearchPublications   = "research publications"
	fieldSeminars               = "seminars"
	fieldProjects               = "projects"
	fieldLectures               = "lectures"
	fieldAwardsRecognitions     = "awards and recognitions"
	fieldMemberships            = "professionalMemberships"
	fieldCoursesTaught          = "courses taught"
	fieldAdminResponsibilities  = "administrative responsibilities"
	fieldStudentMentoring       = "student mentoring"
)

// ValidateSubmission checks a raw payload and produces a normalized typed
// appraisal. It stops at the first violation in field order and reports that
// single error (reference first-error-wins behavior; errors are not batched).
// Only the first entry of each collection is checked for required sub-fields;
// later entries are stored as-is. That leniency is deliberate and load-bearing
// for legacy documents.
func ValidateSubmission(payload SubmissionPayload) (*NormalizedAppraisal, error) {
	normalized := &NormalizedAppraisal{
		FullName:      strings.TrimSpace(payload.FullName),
		EmployeeCode:  strings.TrimSpace(payload.EmployeeCode),
		Email:         strings.TrimSpace(payload.Email),
		Phone:         strings.TrimSpace(payload.Phone),
		Department:    strings.TrimSpace(payload.Department),
		Designation:   strings.TrimSpace(payload.Designation),
		DateOfJoining: strings.TrimSpace(payload.DateOfJoining),
		DateOfBirth:   strings.TrimSpace(payload.DateOfBirth),
		Address:       strings.TrimSpace(payload.Address),
	}

	personal := []struct {
		label string
		value string
	}{
		{"full name", normalized.FullName},
		{"employee code", normalized.EmployeeCode},
		{"email", normalized.Email},
		{"phone", normalized.Phone},
		{"department", normalized.Department},
		{"designation", normalized.Designation},
		{"date of joining", normalized.DateOfJoining},
		{"date of birth", normalized.DateOfBirth},
		{"address", normalized.Address},
	}
	for _, field := range personal {
		if field.value == "" {
			return nil, missingField(field.label)
		}
	}

	if !emailPattern.MatchString(normalized.Email) {
		return nil, invalidEmail(normalized.Email)
	}

	if err := parseCollection(fieldAcademicQualifications, payload.AcademicQualifications, &normalized.AcademicQualifications); err != nil {
		return nil, err
	}
	if len(normalized.AcademicQualifications) == 0 {
		return nil, emptyCollection(fieldAcademicQualifications)
	}
	first := normalized.AcademicQualifications[0]
	if strings.TrimSpace(first.Degree) == "" {
		return nil, incompleteFirstEntry(fieldAcademicQualifications, "degree")
	}
	if strings.TrimSpace(first.Institution) == "" {
		return nil, incompleteFirstEntry(fieldAcademicQualifications, "institution")
	}
	if strings.TrimSpace(first.YearOfPassing) == "" {
		return nil, incompleteFirstEntry(fieldAcademicQualifications, "yearOfPassing")
	}

	if err := parseCollection(fieldResearchPublications, payload.ResearchPublications, &normalized.ResearchPublications); err != nil {
		return nil, err
	}
	if len(normalized.ResearchPublications) == 0 {
		return nil, emptyCollection(fieldResearchPublications)
	}
	if strings.TrimSpace(normalized.ResearchPublications[0].Title) == "" {
		return nil, incompleteFirstEntry(fieldResearchPublications, "title")
	}

	if err := parseCollection(fieldSeminars, payload.Seminars, &normalized.Seminars); err != nil {
		return nil, err
	}
	if len(normalized.Seminars) == 0 {
		return nil, emptyCollection(fieldSeminars)
	}
	if strings.TrimSpace(normalized.Seminars[0].Title) == "" {
		return nil, incompleteFirstEntry(fieldSeminars, "title")
	}

	if err := parseCollection(fieldProjects, payload.Projects, &normalized.Projects); err != nil {
		return nil, err
	}
	if len(normalized.Projects) == 0 {
		return nil, emptyCollection(fieldProjects)
	}
	if strings.TrimSpace(normalized.Projects[0].Title) == "" {
		return nil, incompleteFirstEntry(fieldProjects, "title")
	}

	if err := parseCollection(fieldLectures, payload.Lectures, &normalized.Lectures); err != nil {
		return nil, err
	}
	if len(normalized.Lectures) == 0 {
		return nil, emptyCollection(fieldLectures)
	}
	if strings.TrimSpace(normalized.Lectures[0].Topic) == "" {
		return nil, incompleteFirstEntry(fieldLectures, "topic")
	}

	if err := parseCollection(fieldAwardsRecognitions, payload.AwardsRecognitions, &normalized.AwardsRecognitions); err != nil {
		return nil, err
	}
	if len(normalized.AwardsRecognitions) == 0 {
		return nil, emptyCollection(fieldAwardsRecognitions)
	}
	if strings.TrimSpace(normalized.AwardsRecognitions[0].Title) == "" {
		return nil, incompleteFirstEntry(fieldAwardsRecognitions, "title")
	}

	if err := parseCollection(fieldMemberships, payload.ProfessionalMemberships, &normalized.ProfessionalMemberships); err != nil {
		return nil, err
	}
	if len(normalized.ProfessionalMemberships) == 0 || strings.TrimSpace(normalized.ProfessionalMemberships[0]) == "" {
		return nil, emptyCollection(fieldMemberships)
	}

	if err := parseCollection(fieldCoursesTaught, payload.CoursesTaught, &normalized.CoursesTaught); err != nil {
		return nil, err
	}
	if len(normalized.CoursesTaught) == 0 {
		return nil, emptyCollection(fieldCoursesTaught)
	}
	if strings.TrimSpace(normalized.CoursesTaught[0].CourseName) == "" {
		return nil, incompleteFirstEntry(fieldCoursesTaught, "courseName")
	}

	if err := parseCollection(fieldAdminResponsibilities, payload.AdministrativeResponsibilities, &normalized.AdministrativeResponsibilities); err != nil {
		return nil, err
	}
	if len(normalized.AdministrativeResponsibilities) == 0 {
		return nil, emptyCollection(fieldAdminResponsibilities)
	}
	if strings.TrimSpace(normalized.AdministrativeResponsibilities[0].Role) == "" {
		return nil, incompleteFirstEntry(fieldAdminResponsibilities, "role")
	}

	if err := parseCollection(fieldStudentMentoring, payload.StudentMentoring, &normalized.StudentMentoring); err != nil {
		return nil, err
	}
	if len(normalized.StudentMentoring) == 0 {
		return nil, emptyCollection(fieldStudentMentoring)
	}
	if strings.TrimSpace(normalized.StudentMentoring[0].StudentName) == "" {
		return nil, incompleteFirstEntry(fieldStudentMentoring, "studentName")
	}

	return normalized, nil
}

// parseCollection decodes one serialized collection into out. A blank value
// is reported as an empty collection, not a parse failure.
func parseCollection(field, raw string, out any) error {
	if strings.TrimSpace(raw) == "" {
		return emptyCollection(field)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return malformedCollection(field)
	}
	return nil
}

func missingField(label string) error {
	return apperrors.NewValidationError(label+" is required", map[string]any{
		"reason": "missing_field",
		"field":  label,
	})
}

func invalidEmail(value string) error {
	return apperrors.NewValidationError("email address is invalid", map[string]any{
		"reason": "invalid_email",
		"field":  "email",
		"value":  value,
	})
}

func malformedCollection(field string) error {
	return apperrors.NewValidationError(field+" could not be parsed", map[string]any{
		"reason": "malformed_collection",
		"field":  field,
	})
}

func emptyCollection(field string) error {
	return apperrors.NewValidationError(field+" must have at least one entry", map[string]any{
		"reason": "empty_collection",
		"field":  field,
	})
}

func incompleteFirstEntry(field, subField string) error {
	return apperrors.NewValidationError(field+" first entry is missing "+subField, map[string]any{
		"reason":    "incomplete_first_entry",
		"field":     field,
		"sub_field": subField,
	})
}
