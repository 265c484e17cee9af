package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aniketsharma889/faculty-appraisal-system-sub001/internal/domain"
)

// ErrVersionConflict is returned when an update observes a version other than
// the one it loaded. The caller decides whether to retry.
var ErrVersionConflict = errors.New("appraisal version conflict")

// AppraisalRepository encapsulates appraisal record persistence. Update is
// optimistic: it only applies when the stored version matches the loaded one,
// so two concurrent transitions on the same record cannot both succeed.
type AppraisalRepository interface {
	Create(ctx context.Context, record *domain.AppraisalRecord) error
	Update(ctx context.Context, record *domain.AppraisalRecord) error
	GetByID(ctx context.Context, id string) (*domain.AppraisalRecord, error)
	ListByFaculty(ctx context.Context, facultyID string) ([]domain.AppraisalRecord, error)
	ListByDepartmentAndStatus(ctx context.Context, department string, status domain.AppraisalStatus) ([]domain.AppraisalRecord, error)
	ListByStatus(ctx context.Context, status domain.AppraisalStatus) ([]domain.AppraisalRecord, error)
	CountByStatus(ctx context.Context) (map[domain.AppraisalStatus]int64, error)
}

// appraisalSections groups the professional collections into one jsonb column.
type appraisalSections struct {
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
}

type appraisalRepository struct {
	pool *pgxpool.Pool
}

// NewAppraisalRepository instantiates repository.
func NewAppraisalRepository(pool *pgxpool.Pool) AppraisalRepository {
	return &appraisalRepository{pool: pool}
}

func (r *appraisalRepository) Create(ctx context.Context, record *domain.AppraisalRecord) error {
	sections, attachments, hod, admin, err := encodeJSONColumns(record)
	if err != nil {
		return err
	}

	const query = `
        INSERT INTO appraisals (faculty_id, full_name, employee_code, email, phone, department,
            designation, date_of_joining, date_of_birth, address,
            sections, attachments, status, submission_date, hod_approval, admin_approval, version)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,1)
        RETURNING id, version, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		record.FacultyID,
		record.FullName,
		record.EmployeeCode,
		record.Email,
		record.Phone,
		record.Department,
		record.Designation,
		record.DateOfJoining,
		record.DateOfBirth,
		record.Address,
		sections,
		attachments,
		record.Status,
		record.SubmissionDate,
		hod,
		admin,
	).Scan(&record.ID, &record.Version, &record.CreatedAt, &record.UpdatedAt)
}

func (r *appraisalRepository) Update(ctx context.Context, record *domain.AppraisalRecord) error {
	sections, attachments, hod, admin, err := encodeJSONColumns(record)
	if err != nil {
		return err
	}

	const query = `
        UPDATE appraisals SET full_name=$1, employee_code=$2, email=$3, phone=$4,
            designation=$5, date_of_joining=$6, date_of_birth=$7, address=$8,
            sections=$9, attachments=$10, status=$11, hod_approval=$12, admin_approval=$13,
            version=version+1, updated_at=NOW()
        WHERE id=$14 AND version=$15`
	cmd, err := r.pool.Exec(ctx, query,
		record.FullName,
		record.EmployeeCode,
		record.Email,
		record.Phone,
		record.Designation,
		record.DateOfJoining,
		record.DateOfBirth,
		record.Address,
		sections,
		attachments,
		record.Status,
		hod,
		admin,
		record.ID,
		record.Version,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		// Records are never hard-deleted, so a zero row count means the
		// version moved underneath us.
		return ErrVersionConflict
	}
	record.Version++
	return nil
}

const appraisalColumns = `id, faculty_id, full_name, employee_code, email, phone, department,
       designation, date_of_joining, date_of_birth, address,
       sections, attachments, status, submission_date, hod_approval, admin_approval,
       version, created_at, updated_at`

func (r *appraisalRepository) GetByID(ctx context.Context, id string) (*domain.AppraisalRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM appraisals WHERE id=$1`, appraisalColumns)
	row := r.pool.QueryRow(ctx, query, id)
	return scanAppraisalRow(row)
}

func (r *appraisalRepository) ListByFaculty(ctx context.Context, facultyID string) ([]domain.AppraisalRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM appraisals WHERE faculty_id=$1 ORDER BY submission_date DESC`, appraisalColumns)
	return r.list(ctx, query, facultyID)
}

func (r *appraisalRepository) ListByDepartmentAndStatus(ctx context.Context, department string, status domain.AppraisalStatus) ([]domain.AppraisalRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM appraisals WHERE department=$1 AND status=$2 ORDER BY submission_date DESC`, appraisalColumns)
	return r.list(ctx, query, department, status)
}

func (r *appraisalRepository) ListByStatus(ctx context.Context, status domain.AppraisalStatus) ([]domain.AppraisalRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM appraisals WHERE status=$1 ORDER BY submission_date DESC`, appraisalColumns)
	return r.list(ctx, query, status)
}

func (r *appraisalRepository) CountByStatus(ctx context.Context) (map[domain.AppraisalStatus]int64, error) {
	const query = `SELECT status, COUNT(*) FROM appraisals GROUP BY status`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[domain.AppraisalStatus]int64{}
	for rows.Next() {
		var status domain.AppraisalStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func (r *appraisalRepository) list(ctx context.Context, query string, args ...any) ([]domain.AppraisalRecord, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AppraisalRecord
	for rows.Next() {
		record, err := scanAppraisalRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *record)
	}
	return result, rows.Err()
}

func encodeJSONColumns(record *domain.AppraisalRecord) (sections, attachments, hod, admin []byte, err error) {
	sections, err = json.Marshal(appraisalSections{
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
	})
	if err != nil {
		return nil, nil, nil, nil, err
	}
	attachments, err = json.Marshal(record.Attachments)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	hod, err = json.Marshal(record.HODApproval)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	admin, err = json.Marshal(record.AdminApproval)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return sections, attachments, hod, admin, nil
}

func scanAppraisalRow(row pgx.Row) (*domain.AppraisalRecord, error) {
	var record domain.AppraisalRecord
	var sectionsRaw, attachmentsRaw, hodRaw, adminRaw []byte
	if err := row.Scan(
		&record.ID,
		&record.FacultyID,
		&record.FullName,
		&record.EmployeeCode,
		&record.Email,
		&record.Phone,
		&record.Department,
		&record.Designation,
		&record.DateOfJoining,
		&record.DateOfBirth,
		&record.Address,
		&sectionsRaw,
		&attachmentsRaw,
		&record.Status,
		&record.SubmissionDate,
		&hodRaw,
		&adminRaw,
		&record.Version,
		&record.CreatedAt,
		&record.UpdatedAt,
	); err != nil {
		return nil, err
	}

	var sections appraisalSections
	if err := json.Unmarshal(sectionsRaw, &sections); err != nil {
		return nil, err
	}
	record.AcademicQualifications = sections.AcademicQualifications
	record.ResearchPublications = sections.ResearchPublications
	record.Seminars = sections.Seminars
	record.Projects = sections.Projects
	record.Lectures = sections.Lectures
	record.AwardsRecognitions = sections.AwardsRecognitions
	record.ProfessionalMemberships = sections.ProfessionalMemberships
	record.CoursesTaught = sections.CoursesTaught
	record.AdministrativeResponsibilities = sections.AdministrativeResponsibilities
	record.StudentMentoring = sections.StudentMentoring

	if err := json.Unmarshal(attachmentsRaw, &record.Attachments); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(hodRaw, &record.HODApproval); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(adminRaw, &record.AdminApproval); err != nil {
		return nil, err
	}
	return &record, nil
}
