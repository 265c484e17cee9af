package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/aniketsharma889/faculty-appraisal-system-sub001/internal/domain"
	"github.com/aniketsharma889/faculty-appraisal-system-sub001/internal/events"
	"github.com/aniketsharma889/faculty-appraisal-system-sub001/internal/repository"
	"github.com/aniketsharma889/faculty-appraisal-system-sub001/internal/storage"
	apperrors "github.com/aniketsharma889/faculty-appraisal-system-sub001/pkg/util/errorutil"
)

// AppraisalService owns the appraisal record lifecycle: submission, the
// two-stage review state machine, and the edit/reset path. Guards are
// evaluated in a fixed order for every call: record existence, then
// authorization, then the status guard, then payload validation (edit only).
type AppraisalService struct {
	appraisals repository.AppraisalRepository
	history    repository.AppraisalHistoryRepository
	normalizer *AttachmentNormalizer
	dispatcher events.Dispatcher
	now        func() time.Time
}

// AppraisalDependencies bundles collaborators for the service.
type AppraisalDependencies struct {
	AppraisalRepo repository.AppraisalRepository
	HistoryRepo   repository.AppraisalHistoryRepository
	Normalizer    *AttachmentNormalizer
	Dispatcher    events.Dispatcher
}

// NewAppraisalService constructs the service.
func NewAppraisalService(deps AppraisalDependencies) *AppraisalService {
	return &AppraisalService{
		appraisals: deps.AppraisalRepo,
		history:    deps.HistoryRepo,
		normalizer: deps.Normalizer,
		dispatcher: deps.Dispatcher,
		now:        time.Now,
	}
}

// Submit validates a new appraisal payload, stores its attachments, and
// creates the record in pending_hod. The department is fixed on the record
// here and never re-derived afterwards.
func (s *AppraisalService) Submit(ctx context.Context, principal domain.Principal, payload SubmissionPayload, uploads []storage.UploadInput) (*domain.AppraisalRecord, error) {
	normalized, err := ValidateSubmission(payload)
	if err != nil {
		return nil, err
	}

	attachments, err := s.normalizer.Normalize(ctx, nil, uploads)
	if err != nil {
		return nil, err
	}

	record := &domain.AppraisalRecord{
		FacultyID:      principal.UserID,
		Status:         domain.StatusPendingHOD,
		SubmissionDate: s.now(),
		Attachments:    attachments,
	}
	applyNormalized(record, normalized, true)

	if err := s.appraisals.Create(ctx, record); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.recordHistory(ctx, record.ID, principal, domain.ChangeTypeStatus,
		map[string]any{"status": nil},
		map[string]any{"status": record.Status})
	s.publishEvent(ctx, events.Event{
		Type:        events.EventAppraisalSubmitted,
		AppraisalID: record.ID,
		Actor:       principalActor(principal),
		Payload: events.AppraisalSubmittedPayload{
			FacultyID:  record.FacultyID,
			Department: record.Department,
			FullName:   record.FullName,
		},
	})
	return record, nil
}

// ReviewAsHOD applies a department head decision. The reviewer may only act
// on records of their own department, and only while the record is waiting
// for the HOD stage.
func (s *AppraisalService) ReviewAsHOD(ctx context.Context, reviewer domain.Principal, recordID string, approve bool, remarks string) (*domain.AppraisalRecord, error) {
	record, err := s.load(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if reviewer.Department != record.Department {
		return nil, apperrors.NewForbidden("appraisal belongs to a different department")
	}
	if record.Status != domain.StatusPendingHOD {
		return nil, apperrors.NewStaleTransition(string(domain.StatusPendingHOD), string(record.Status))
	}

	decidedAt := s.now()
	record.HODApproval = domain.ReviewDecision{Approved: &approve, Date: &decidedAt, Remarks: remarks}
	oldStatus := record.Status
	if approve {
		record.Status = domain.StatusPendingAdmin
	} else {
		record.Status = domain.StatusRejected
	}

	if err := s.save(ctx, record); err != nil {
		return nil, err
	}
	s.finishTransition(ctx, record, reviewer, oldStatus, remarks)
	return record, nil
}

// ReviewAsAdmin applies the institutional admin decision on a record the HOD
// has already recommended.
func (s *AppraisalService) ReviewAsAdmin(ctx context.Context, reviewer domain.Principal, recordID string, approve bool, remarks string) (*domain.AppraisalRecord, error) {
	record, err := s.load(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if record.Status != domain.StatusPendingAdmin {
		return nil, apperrors.NewStaleTransition(string(domain.StatusPendingAdmin), string(record.Status))
	}

	decidedAt := s.now()
	record.AdminApproval = domain.ReviewDecision{Approved: &approve, Date: &decidedAt, Remarks: remarks}
	oldStatus := record.Status
	if approve {
		record.Status = domain.StatusApproved
	} else {
		record.Status = domain.StatusRejected
	}

	if err := s.save(ctx, record); err != nil {
		return nil, err
	}
	s.finishTransition(ctx, record, reviewer, oldStatus, remarks)
	return record, nil
}

// Edit replaces all editable fields of a record the owner may still touch.
// Editing a rejected record clears both stage decisions and sends it back to
// pending_hod; the submission date is preserved, it marks the original
// submission rather than the latest edit. The record's department never
// changes on edit.
func (s *AppraisalService) Edit(ctx context.Context, principal domain.Principal, recordID string, payload SubmissionPayload, existingRefsRaw any, uploads []storage.UploadInput) (*domain.AppraisalRecord, error) {
	record, err := s.load(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if record.FacultyID != principal.UserID {
		return nil, apperrors.NewForbidden("only the owning faculty member may edit this appraisal")
	}
	if record.Status != domain.StatusPendingHOD && record.Status != domain.StatusRejected {
		return nil, apperrors.NewStaleTransition(
			string(domain.StatusPendingHOD)+" or "+string(domain.StatusRejected),
			string(record.Status))
	}

	normalized, err := ValidateSubmission(payload)
	if err != nil {
		return nil, err
	}

	if existingRefsRaw == nil {
		existingRefsRaw = record.Attachments
	}
	attachments, err := s.normalizer.Normalize(ctx, existingRefsRaw, uploads)
	if err != nil {
		return nil, err
	}

	oldStatus := record.Status
	wasRejected := record.Status == domain.StatusRejected
	applyNormalized(record, normalized, false)
	record.Attachments = attachments
	if wasRejected {
		record.HODApproval = domain.ReviewDecision{}
		record.AdminApproval = domain.ReviewDecision{}
		record.Status = domain.StatusPendingHOD
	}

	if err := s.save(ctx, record); err != nil {
		return nil, err
	}

	s.recordHistory(ctx, record.ID, principal, domain.ChangeTypeEdit,
		map[string]any{"status": oldStatus},
		map[string]any{"status": record.Status, "approvals_reset": wasRejected})
	s.publishEvent(ctx, events.Event{
		Type:        events.EventAppraisalEdited,
		AppraisalID: record.ID,
		Actor:       principalActor(principal),
		Payload: events.AppraisalEditedPayload{
			PreviousStatus: oldStatus,
			ApprovalsReset: wasRejected,
		},
	})
	return record, nil
}

// GetForPrincipal fetches a record enforcing role scoping: owners see their
// own, HODs see their department, admins see everything.
func (s *AppraisalService) GetForPrincipal(ctx context.Context, principal domain.Principal, recordID string) (*domain.AppraisalRecord, error) {
	record, err := s.load(ctx, recordID)
	if err != nil {
		return nil, err
	}
	switch principal.Role {
	case domain.RoleAdmin:
		return record, nil
	case domain.RoleHOD:
		if principal.Department != record.Department {
			return nil, apperrors.NewForbidden("appraisal belongs to a different department")
		}
		return record, nil
	default:
		if record.FacultyID != principal.UserID {
			return nil, apperrors.NewForbidden("appraisal belongs to another faculty member")
		}
		return record, nil
	}
}

// ListForFaculty returns the caller's own records, newest first.
func (s *AppraisalService) ListForFaculty(ctx context.Context, principal domain.Principal) ([]domain.AppraisalRecord, error) {
	records, err := s.appraisals.ListByFaculty(ctx, principal.UserID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return records, nil
}

// ListPendingForHOD returns records awaiting HOD action in the reviewer's
// department.
func (s *AppraisalService) ListPendingForHOD(ctx context.Context, reviewer domain.Principal) ([]domain.AppraisalRecord, error) {
	records, err := s.appraisals.ListByDepartmentAndStatus(ctx, reviewer.Department, domain.StatusPendingHOD)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return records, nil
}

// ListByStatusForAdmin returns all records in the given status.
func (s *AppraisalService) ListByStatusForAdmin(ctx context.Context, status domain.AppraisalStatus) ([]domain.AppraisalRecord, error) {
	records, err := s.appraisals.ListByStatus(ctx, status)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return records, nil
}

// HistoryForPrincipal lists a record's transition trail with the same
// scoping as GetForPrincipal.
func (s *AppraisalService) HistoryForPrincipal(ctx context.Context, principal domain.Principal, recordID string) ([]domain.AppraisalHistory, error) {
	if _, err := s.GetForPrincipal(ctx, principal, recordID); err != nil {
		return nil, err
	}
	entries, err := s.history.ListByAppraisal(ctx, recordID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

func (s *AppraisalService) load(ctx context.Context, recordID string) (*domain.AppraisalRecord, error) {
	record, err := s.appraisals.GetByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("appraisal", map[string]any{"id": recordID})
		}
		return nil, apperrors.MapError(err)
	}
	return record, nil
}

// save persists a mutation and translates a lost optimistic-version race into
// a retryable conflict, never silently overwriting a concurrent reviewer.
func (s *AppraisalService) save(ctx context.Context, record *domain.AppraisalRecord) error {
	if err := s.appraisals.Update(ctx, record); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return apperrors.NewConflict("appraisal was modified concurrently, reload and retry", map[string]any{
				"id": record.ID,
			})
		}
		return apperrors.MapError(err)
	}
	return nil
}

func (s *AppraisalService) finishTransition(ctx context.Context, record *domain.AppraisalRecord, actor domain.Principal, oldStatus domain.AppraisalStatus, remarks string) {
	s.recordHistory(ctx, record.ID, actor, domain.ChangeTypeStatus,
		map[string]any{"status": oldStatus},
		map[string]any{"status": record.Status, "remarks": remarks})
	s.publishEvent(ctx, events.Event{
		Type:        events.EventAppraisalStatusChanged,
		AppraisalID: record.ID,
		Actor:       principalActor(actor),
		Payload: events.AppraisalStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: record.Status,
			Remarks:   remarks,
		},
	})
}

func (s *AppraisalService) recordHistory(ctx context.Context, recordID string, actor domain.Principal, changeType domain.AppraisalChangeType, oldValue, newValue map[string]any) {
	if s.history == nil {
		return
	}
	entry := &domain.AppraisalHistory{
		AppraisalID: recordID,
		ChangedBy:   actor.UserID,
		ActorRole:   actor.Role,
		ChangeType:  changeType,
		OldValue:    oldValue,
		NewValue:    newValue,
	}
	_ = s.history.Create(ctx, entry)
}

func (s *AppraisalService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func principalActor(principal domain.Principal) events.Actor {
	return events.Actor{
		UserID:     principal.UserID,
		Role:       principal.Role,
		Department: principal.Department,
	}
}

// applyNormalized copies validated content onto a record. The department is
// only written on first submission; edits never move a record between
// departments.
func applyNormalized(record *domain.AppraisalRecord, normalized *NormalizedAppraisal, includeDepartment bool) {
	record.FullName = normalized.FullName
	record.EmployeeCode = normalized.EmployeeCode
	record.Email = normalized.Email
	record.Phone = normalized.Phone
	if includeDepartment {
		record.Department = normalized.Department
	}
	record.Designation = normalized.Designation
	record.DateOfJoining = normalized.DateOfJoining
	record.DateOfBirth = normalized.DateOfBirth
	record.Address = normalized.Address

	record.AcademicQualifications = normalized.AcademicQualifications
	record.ResearchPublications = normalized.ResearchPublications
	record.Seminars = normalized.Seminars
	record.Projects = normalized.Projects
	record.Lectures = normalized.Lectures
	record.AwardsRecognitions = normalized.AwardsRecognitions
	record.ProfessionalMemberships = normalized.ProfessionalMemberships
	record.CoursesTaught = normalized.CoursesTaught
	record.AdministrativeResponsibilities = normalized.AdministrativeResponsibilities
	record.StudentMentoring = normalized.StudentMentoring
}
