package events

import (
	"time"

	"github.com/aniketsharma889/faculty-appraisal-system-sub001/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAppraisalSubmitted     EventType = "appraisal_submitted"
	EventAppraisalStatusChanged EventType = "appraisal_status_changed"
	EventAppraisalEdited        EventType = "appraisal_edited"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID     string      `json:"user_id"`
	Role       domain.Role `json:"role"`
	Department string      `json:"department,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID          string      `json:"id"`
	Type        EventType   `json:"type"`
	AppraisalID string      `json:"appraisal_id"`
	Actor       Actor       `json:"actor"`
	Timestamp   time.Time   `json:"timestamp"`
	Payload     interface{} `json:"payload"`
}

// AppraisalSubmittedPayload payload.
type AppraisalSubmittedPayload struct {
	FacultyID  string `json:"faculty_id"`
	Department string `json:"department"`
	FullName   string `json:"full_name"`
}

// AppraisalStatusChangedPayload payload.
type AppraisalStatusChangedPayload struct {
	OldStatus domain.AppraisalStatus `json:"old_status"`
	NewStatus domain.AppraisalStatus `json:"new_status"`
	Remarks   string                 `json:"remarks,omitempty"`
}

// AppraisalEditedPayload payload.
type AppraisalEditedPayload struct {
	PreviousStatus domain.AppraisalStatus `json:"previous_status"`
	ApprovalsReset bool                   `json:"approvals_reset"`
}
