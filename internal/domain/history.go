package domain

import "time"

// AppraisalChangeType captures what changed in a history entry.
type AppraisalChangeType string

const (
	ChangeTypeStatus AppraisalChangeType = "STATUS_CHANGE"
	ChangeTypeEdit   AppraisalChangeType = "EDIT"
)

// AppraisalHistory is an immutable audit trail entry for one record.
type AppraisalHistory struct {
	ID          string
	AppraisalID string
	ChangedBy   string
	ActorRole   Role
	ChangeType  AppraisalChangeType
	OldValue    map[string]any
	NewValue    map[string]any
	CreatedAt   time.Time
}
