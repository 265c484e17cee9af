package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aniketsharma889/faculty-appraisal-system-sub001/internal/domain"
	"github.com/aniketsharma889/faculty-appraisal-system-sub001/internal/events"
	"github.com/aniketsharma889/faculty-appraisal-system-sub001/internal/repository"
	apperrors "github.com/aniketsharma889/faculty-appraisal-system-sub001/pkg/util/errorutil"
)

// fakeAppraisalRepo is an in-memory repository with the same optimistic
// versioning contract as the postgres implementation.
type fakeAppraisalRepo struct {
	records map[string]domain.AppraisalRecord
	nextID  int

	// when set, the stored version is bumped after the next GetByID,
	// simulating a concurrent writer between load and save
	bumpAfterGet bool
}

func newFakeAppraisalRepo() *fakeAppraisalRepo {
	return &fakeAppraisalRepo{records: make(map[string]domain.AppraisalRecord)}
}

func (f *fakeAppraisalRepo) Create(_ context.Context, record *domain.AppraisalRecord) error {
	f.nextID++
	record.ID = fmt.Sprintf("apr-%d", f.nextID)
	record.Version = 1
	record.CreatedAt = time.Now()
	record.UpdatedAt = record.CreatedAt
	f.records[record.ID] = *record
	return nil
}

func (f *fakeAppraisalRepo) Update(_ context.Context, record *domain.AppraisalRecord) error {
	stored, ok := f.records[record.ID]
	if !ok || stored.Version != record.Version {
		return repository.ErrVersionConflict
	}
	record.Version++
	record.UpdatedAt = time.Now()
	f.records[record.ID] = *record
	return nil
}

func (f *fakeAppraisalRepo) GetByID(_ context.Context, id string) (*domain.AppraisalRecord, error) {
	stored, ok := f.records[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if f.bumpAfterGet {
		f.bumpAfterGet = false
		bumped := stored
		bumped.Version++
		f.records[id] = bumped
	}
	clone := stored
	return &clone, nil
}

func (f *fakeAppraisalRepo) ListByFaculty(_ context.Context, facultyID string) ([]domain.AppraisalRecord, error) {
	var out []domain.AppraisalRecord
	for _, record := range f.records {
		if record.FacultyID == facultyID {
			out = append(out, record)
		}
	}
	return out, nil
}

func (f *fakeAppraisalRepo) ListByDepartmentAndStatus(_ context.Context, department string, status domain.AppraisalStatus) ([]domain.AppraisalRecord, error) {
	var out []domain.AppraisalRecord
	for _, record := range f.records {
		if record.Department == department && record.Status == status {
			out = append(out, record)
		}
	}
	return out, nil
}

func (f *fakeAppraisalRepo) ListByStatus(_ context.Context, status domain.AppraisalStatus) ([]domain.AppraisalRecord, error) {
	var out []domain.AppraisalRecord
	for _, record := range f.records {
		if record.Status == status {
			out = append(out, record)
		}
	}
	return out, nil
}

func (f *fakeAppraisalRepo) CountByStatus(_ context.Context) (map[domain.AppraisalStatus]int64, error) {
	counts := make(map[domain.AppraisalStatus]int64)
	for _, record := range f.records {
		counts[record.Status]++
	}
	return counts, nil
}

type fakeHistoryRepo struct {
	entries []domain.AppraisalHistory
}

func (f *fakeHistoryRepo) Create(_ context.Context, entry *domain.AppraisalHistory) error {
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeHistoryRepo) ListByAppraisal(_ context.Context, appraisalID string) ([]domain.AppraisalHistory, error) {
	var out []domain.AppraisalHistory
	for _, entry := range f.entries {
		if entry.AppraisalID == appraisalID {
			out = append(out, entry)
		}
	}
	return out, nil
}

type capturingDispatcher struct {
	published []events.Event
}

func (c *capturingDispatcher) Publish(_ context.Context, event events.Event) error {
	c.published = append(c.published, event)
	return nil
}

func (c *capturingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

type serviceFixture struct {
	service    *AppraisalService
	repo       *fakeAppraisalRepo
	history    *fakeHistoryRepo
	dispatcher *capturingDispatcher
}

func newServiceFixture() *serviceFixture {
	repo := newFakeAppraisalRepo()
	history := &fakeHistoryRepo{}
	dispatcher := &capturingDispatcher{}
	svc := NewAppraisalService(AppraisalDependencies{
		AppraisalRepo: repo,
		HistoryRepo:   history,
		Normalizer:    NewAttachmentNormalizer(&fakeFileStore{}),
		Dispatcher:    dispatcher,
	})
	return &serviceFixture{service: svc, repo: repo, history: history, dispatcher: dispatcher}
}

var (
	facultyCS = domain.Principal{UserID: "user-faculty", Role: domain.RoleFaculty, Department: "Computer Science"}
	hodCS     = domain.Principal{UserID: "user-hod", Role: domain.RoleHOD, Department: "Computer Science"}
	hodMech   = domain.Principal{UserID: "user-hod-2", Role: domain.RoleHOD, Department: "Mechanical"}
	adminUser = domain.Principal{UserID: "user-admin", Role: domain.RoleAdmin}
)

func submitValid(t *testing.T, f *serviceFixture) *domain.AppraisalRecord {
	t.Helper()
	record, err := f.service.Submit(context.Background(), facultyCS, validPayload(), nil)
	require.NoError(t, err)
	return record
}

func TestSubmit_CreatesPendingHODRecord(t *testing.T) {
	f := newServiceFixture()
	record := submitValid(t, f)

	assert.Equal(t, domain.StatusPendingHOD, record.Status)
	assert.Equal(t, facultyCS.UserID, record.FacultyID)
	assert.Equal(t, "Computer Science", record.Department)
	assert.False(t, record.SubmissionDate.IsZero())
	assert.False(t, record.HODApproval.Acted())
	assert.False(t, record.AdminApproval.Acted())
	assert.Equal(t, int64(1), record.Version)

	require.Len(t, f.history.entries, 1)
	assert.Equal(t, domain.ChangeTypeStatus, f.history.entries[0].ChangeType)
	require.Len(t, f.dispatcher.published, 1)
	assert.Equal(t, events.EventAppraisalSubmitted, f.dispatcher.published[0].Type)
}

func TestSubmit_RejectsInvalidPayload(t *testing.T) {
	f := newServiceFixture()
	payload := validPayload()
	payload.Department = ""

	_, err := f.service.Submit(context.Background(), facultyCS, payload, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
	assert.Empty(t, f.repo.records)
	assert.Empty(t, f.dispatcher.published)
}

func TestReviewAsHOD_ApproveMovesToPendingAdmin(t *testing.T) {
	f := newServiceFixture()
	record := submitValid(t, f)

	updated, err := f.service.ReviewAsHOD(context.Background(), hodCS, record.ID, true, "solid portfolio")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPendingAdmin, updated.Status)
	require.True(t, updated.HODApproval.Acted())
	assert.True(t, *updated.HODApproval.Approved)
	assert.Equal(t, "solid portfolio", updated.HODApproval.Remarks)
	assert.False(t, updated.AdminApproval.Acted())
}

func TestReviewAsHOD_RejectMovesToRejected(t *testing.T) {
	f := newServiceFixture()
	record := submitValid(t, f)

	updated, err := f.service.ReviewAsHOD(context.Background(), hodCS, record.ID, false, "needs more detail")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, updated.Status)
	require.True(t, updated.HODApproval.Acted())
	assert.False(t, *updated.HODApproval.Approved)
}

func TestReviewAsHOD_WrongDepartmentBeforeStatusGuard(t *testing.T) {
	f := newServiceFixture()
	record := submitValid(t, f)

	_, err := f.service.ReviewAsHOD(context.Background(), hodCS, record.ID, true, "")
	require.NoError(t, err)

	// the record is no longer pending_hod, but the foreign HOD must still
	// see FORBIDDEN, not the status error
	_, err = f.service.ReviewAsHOD(context.Background(), hodMech, record.ID, true, "")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))
}

func TestReviewAsHOD_RepeatDecisionIsStale(t *testing.T) {
	f := newServiceFixture()
	record := submitValid(t, f)

	_, err := f.service.ReviewAsHOD(context.Background(), hodCS, record.ID, true, "")
	require.NoError(t, err)

	_, err = f.service.ReviewAsHOD(context.Background(), hodCS, record.ID, true, "")
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "STALE_TRANSITION"))

	details := domainErrDetails(t, err)
	assert.Equal(t, "pending_hod", details["expected_status"])
	assert.Equal(t, "pending_admin", details["actual_status"])
}

func TestReviewAsAdmin_RequiresHODRecommendation(t *testing.T) {
	f := newServiceFixture()
	record := submitValid(t, f)

	_, err := f.service.ReviewAsAdmin(context.Background(), adminUser, record.ID, true, "")
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "STALE_TRANSITION"))
	details := domainErrDetails(t, err)
	assert.Equal(t, "pending_admin", details["expected_status"])
	assert.Equal(t, "pending_hod", details["actual_status"])
}

func TestFullLifecycle_SubmitHODAdminApprove(t *testing.T) {
	f := newServiceFixture()
	record := submitValid(t, f)

	_, err := f.service.ReviewAsHOD(context.Background(), hodCS, record.ID, true, "recommended")
	require.NoError(t, err)

	final, err := f.service.ReviewAsAdmin(context.Background(), adminUser, record.ID, true, "ratified")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, final.Status)
	require.True(t, final.HODApproval.Acted())
	require.True(t, final.AdminApproval.Acted())
	assert.True(t, *final.AdminApproval.Approved)

	// submitted, hod decision, admin decision
	assert.Len(t, f.history.entries, 3)
	assert.Len(t, f.dispatcher.published, 3)
}

func TestReview_NotFound(t *testing.T) {
	f := newServiceFixture()
	_, err := f.service.ReviewAsHOD(context.Background(), hodCS, "missing", true, "")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
}

func TestEdit_OnlyOwnerMayEdit(t *testing.T) {
	f := newServiceFixture()
	record := submitValid(t, f)

	other := domain.Principal{UserID: "user-other", Role: domain.RoleFaculty, Department: "Computer Science"}
	_, err := f.service.Edit(context.Background(), other, record.ID, validPayload(), nil, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))
}

func TestEdit_ApprovedRecordIsLocked(t *testing.T) {
	f := newServiceFixture()
	record := submitValid(t, f)
	_, err := f.service.ReviewAsHOD(context.Background(), hodCS, record.ID, true, "")
	require.NoError(t, err)
	_, err = f.service.ReviewAsAdmin(context.Background(), adminUser, record.ID, true, "")
	require.NoError(t, err)

	_, err = f.service.Edit(context.Background(), facultyCS, record.ID, validPayload(), nil, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "STALE_TRANSITION"))
}

func TestEdit_WhilePendingHODKeepsStatus(t *testing.T) {
	f := newServiceFixture()
	record := submitValid(t, f)

	payload := validPayload()
	payload.Designation = "Associate Professor"

	updated, err := f.service.Edit(context.Background(), facultyCS, record.ID, payload, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPendingHOD, updated.Status)
	assert.Equal(t, "Associate Professor", updated.Designation)
}

func TestEdit_AfterRejectionResetsWorkflow(t *testing.T) {
	f := newServiceFixture()
	record := submitValid(t, f)
	originalSubmission := record.SubmissionDate

	_, err := f.service.ReviewAsHOD(context.Background(), hodCS, record.ID, false, "incomplete")
	require.NoError(t, err)

	updated, err := f.service.Edit(context.Background(), facultyCS, record.ID, validPayload(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPendingHOD, updated.Status)
	assert.False(t, updated.HODApproval.Acted())
	assert.False(t, updated.AdminApproval.Acted())
	assert.True(t, updated.SubmissionDate.Equal(originalSubmission))
}

func TestEdit_NeverChangesDepartment(t *testing.T) {
	f := newServiceFixture()
	record := submitValid(t, f)

	payload := validPayload()
	payload.Department = "Mechanical"

	updated, err := f.service.Edit(context.Background(), facultyCS, record.ID, payload, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Computer Science", updated.Department)
}

func TestSave_ConcurrentWriteBecomesConflict(t *testing.T) {
	f := newServiceFixture()
	record := submitValid(t, f)

	f.repo.bumpAfterGet = true
	_, err := f.service.ReviewAsHOD(context.Background(), hodCS, record.ID, true, "")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "CONFLICT"))
}

func TestGetForPrincipal_Scoping(t *testing.T) {
	f := newServiceFixture()
	record := submitValid(t, f)

	_, err := f.service.GetForPrincipal(context.Background(), facultyCS, record.ID)
	assert.NoError(t, err)

	_, err = f.service.GetForPrincipal(context.Background(), hodCS, record.ID)
	assert.NoError(t, err)

	_, err = f.service.GetForPrincipal(context.Background(), adminUser, record.ID)
	assert.NoError(t, err)

	_, err = f.service.GetForPrincipal(context.Background(), hodMech, record.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))

	other := domain.Principal{UserID: "user-other", Role: domain.RoleFaculty}
	_, err = f.service.GetForPrincipal(context.Background(), other, record.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))
}

func TestHistoryForPrincipal_TracksTransitions(t *testing.T) {
	f := newServiceFixture()
	record := submitValid(t, f)
	_, err := f.service.ReviewAsHOD(context.Background(), hodCS, record.ID, false, "revise")
	require.NoError(t, err)

	entries, err := f.service.HistoryForPrincipal(context.Background(), facultyCS, record.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
