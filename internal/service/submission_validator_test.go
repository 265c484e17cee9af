package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/aniketsharma889/faculty-appraisal-system-sub001/pkg/util/errorutil"
)

func validPayload() SubmissionPayload {
	return SubmissionPayload{
		FullName:      "Asha Verma",
		EmployeeCode:  "FAC-1021",
		Email:         "asha.verma@example.edu",
		Phone:         "9876543210",
		Department:    "Computer Science",
		Designation:   "Assistant Professor",
		DateOfJoining: "2018-07-01",
		DateOfBirth:   "1986-03-12",
		Address:       "14 College Road",

		AcademicQualifications:         `[{"degree":"PhD","institution":"IIT Delhi","yearOfPassing":"2016","grade":"A"}]`,
		ResearchPublications:           `[{"title":"Scheduling under Uncertainty"}]`,
		Seminars:                       `[{"title":"National Workshop on ML"}]`,
		Projects:                       `[{"title":"Smart Campus Sensors"}]`,
		Lectures:                       `[{"topic":"Distributed Consensus"}]`,
		AwardsRecognitions:             `[{"title":"Best Teacher Award"}]`,
		ProfessionalMemberships:        `["IEEE","ACM"]`,
		CoursesTaught:                  `[{"courseName":"Operating Systems"}]`,
		AdministrativeResponsibilities: `[{"role":"Exam Coordinator"}]`,
		StudentMentoring:               `[{"studentName":"R. Iyer"}]`,
	}
}

func domainErrDetails(t *testing.T, err error) map[string]any {
	t.Helper()
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr), "expected DomainError, got %v", err)
	return domainErr.Details
}

func TestValidateSubmission_ValidPayload(t *testing.T) {
	normalized, err := ValidateSubmission(validPayload())
	require.NoError(t, err)

	assert.Equal(t, "Asha Verma", normalized.FullName)
	assert.Equal(t, "Computer Science", normalized.Department)
	require.Len(t, normalized.AcademicQualifications, 1)
	assert.Equal(t, "PhD", normalized.AcademicQualifications[0].Degree)
	assert.Equal(t, []string{"IEEE", "ACM"}, normalized.ProfessionalMemberships)
}

func TestValidateSubmission_TrimsWhitespace(t *testing.T) {
	payload := validPayload()
	payload.FullName = "  Asha Verma  "
	payload.Email = " asha.verma@example.edu "

	normalized, err := ValidateSubmission(payload)
	require.NoError(t, err)
	assert.Equal(t, "Asha Verma", normalized.FullName)
	assert.Equal(t, "asha.verma@example.edu", normalized.Email)
}

func TestValidateSubmission_ReportsFirstMissingFieldOnly(t *testing.T) {
	payload := validPayload()
	payload.FullName = "   "
	payload.Email = ""
	payload.Phone = ""

	_, err := ValidateSubmission(payload)
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))

	details := domainErrDetails(t, err)
	assert.Equal(t, "missing_field", details["reason"])
	assert.Equal(t, "full name", details["field"])
}

func TestValidateSubmission_PersonalFieldOrder(t *testing.T) {
	cases := []struct {
		label string
		blank func(*SubmissionPayload)
	}{
		{"employee code", func(p *SubmissionPayload) { p.EmployeeCode = "" }},
		{"email", func(p *SubmissionPayload) { p.Email = "" }},
		{"phone", func(p *SubmissionPayload) { p.Phone = "" }},
		{"department", func(p *SubmissionPayload) { p.Department = "" }},
		{"designation", func(p *SubmissionPayload) { p.Designation = "" }},
		{"date of joining", func(p *SubmissionPayload) { p.DateOfJoining = "" }},
		{"date of birth", func(p *SubmissionPayload) { p.DateOfBirth = "" }},
		{"address", func(p *SubmissionPayload) { p.Address = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.label, func(t *testing.T) {
			payload := validPayload()
			tc.blank(&payload)
			_, err := ValidateSubmission(payload)
			require.Error(t, err)
			details := domainErrDetails(t, err)
			assert.Equal(t, tc.label, details["field"])
		})
	}
}

func TestValidateSubmission_InvalidEmail(t *testing.T) {
	payload := validPayload()
	payload.Email = "not-an-email"

	_, err := ValidateSubmission(payload)
	require.Error(t, err)
	details := domainErrDetails(t, err)
	assert.Equal(t, "invalid_email", details["reason"])
	assert.Equal(t, "email", details["field"])
}

func TestValidateSubmission_EmptyQualifications(t *testing.T) {
	for name, raw := range map[string]string{
		"empty array":  "[]",
		"blank string": "   ",
	} {
		t.Run(name, func(t *testing.T) {
			payload := validPayload()
			payload.AcademicQualifications = raw

			_, err := ValidateSubmission(payload)
			require.Error(t, err)
			details := domainErrDetails(t, err)
			assert.Equal(t, "empty_collection", details["reason"])
			assert.Equal(t, "academic qualifications", details["field"])
		})
	}
}

func TestValidateSubmission_MalformedCollection(t *testing.T) {
	payload := validPayload()
	payload.ResearchPublications = `{"title": "not an array"`

	_, err := ValidateSubmission(payload)
	require.Error(t, err)
	details := domainErrDetails(t, err)
	assert.Equal(t, "malformed_collection", details["reason"])
	assert.Equal(t, "research publications", details["field"])
}

func TestValidateSubmission_IncompleteFirstEntry(t *testing.T) {
	payload := validPayload()
	payload.AcademicQualifications = `[{"degree":"PhD","institution":"","yearOfPassing":"2016"}]`

	_, err := ValidateSubmission(payload)
	require.Error(t, err)
	details := domainErrDetails(t, err)
	assert.Equal(t, "incomplete_first_entry", details["reason"])
	assert.Equal(t, "academic qualifications", details["field"])
	assert.Equal(t, "institution", details["sub_field"])
}

func TestValidateSubmission_LaterEntriesNotChecked(t *testing.T) {
	payload := validPayload()
	payload.AcademicQualifications = `[
		{"degree":"PhD","institution":"IIT Delhi","yearOfPassing":"2016"},
		{"degree":"","institution":"","yearOfPassing":""}
	]`

	normalized, err := ValidateSubmission(payload)
	require.NoError(t, err)
	assert.Len(t, normalized.AcademicQualifications, 2)
}

func TestValidateSubmission_MembershipFirstEntryBlank(t *testing.T) {
	payload := validPayload()
	payload.ProfessionalMemberships = `["   ","ACM"]`

	_, err := ValidateSubmission(payload)
	require.Error(t, err)
	details := domainErrDetails(t, err)
	assert.Equal(t, "empty_collection", details["reason"])
	assert.Equal(t, "professionalMemberships", details["field"])
}

func TestValidateSubmission_Deterministic(t *testing.T) {
	payload := validPayload()
	payload.CoursesTaught = "[]"

	_, first := ValidateSubmission(payload)
	_, second := ValidateSubmission(payload)
	require.Error(t, first)
	require.Error(t, second)
	assert.Equal(t, first.Error(), second.Error())
}
