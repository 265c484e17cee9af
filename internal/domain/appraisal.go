package domain

import "time"

// AppraisalStatus enumerates lifecycle states for appraisal records.
// The string values are a wire contract shared with reporting and UI clients.
type AppraisalStatus string

const (
	StatusPendingHOD   AppraisalStatus = "pending_hod"
	StatusPendingAdmin AppraisalStatus = "pending_admin"
	StatusApproved     AppraisalStatus = "approved"
	StatusRejected     AppraisalStatus = "rejected"
)

// ReviewDecision captures one stage's outcome. Approved stays nil until the
// stage has been acted on; the edit path is the only thing that clears it.
type ReviewDecision struct {
	Approved *bool      `json:"approved"`
	Date     *time.Time `json:"date"`
	Remarks  string     `json:"remarks"`
}

// Acted reports whether the stage has been decided.
func (d ReviewDecision) Acted() bool {
	return d.Approved != nil
}

// FileRef is one stored attachment reference.
type FileRef struct {
	FileName   string    `json:"fileName"`
	FileURL    string    `json:"fileUrl"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// Qualification is one academic qualification entry. Only the first entry of
// the collection is required to be fully populated.
type Qualification struct {
	Degree        string `json:"degree"`
	Institution   string `json:"institution"`
	YearOfPassing string `json:"yearOfPassing"`
	Grade         string `json:"grade,omitempty"`
}

// Publication is one research publication entry.
type Publication struct {
	Title   string `json:"title"`
	Journal string `json:"journal,omitempty"`
	Year    string `json:"year,omitempty"`
}

// Seminar is one seminar/conference entry.
type Seminar struct {
	Title string `json:"title"`
	Venue string `json:"venue,omitempty"`
	Date  string `json:"date,omitempty"`
}

// Project is one research or consultancy project entry.
type Project struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Year        string `json:"year,omitempty"`
}

// Lecture is one invited or guest lecture entry.
type Lecture struct {
	Topic string `json:"topic"`
	Venue string `json:"venue,omitempty"`
	Date  string `json:"date,omitempty"`
}

// Award is one award or recognition entry.
type Award struct {
	Title string `json:"title"`
	Year  string `json:"year,omitempty"`
}

// Course is one taught course entry.
type Course struct {
	CourseName string `json:"courseName"`
	Semester   string `json:"semester,omitempty"`
	Level      string `json:"level,omitempty"`
}

// AdminResponsibility is one administrative responsibility entry.
type AdminResponsibility struct {
	Role     string `json:"role"`
	Duration string `json:"duration,omitempty"`
}

// Mentoring is one student mentoring entry.
type Mentoring struct {
	StudentName string `json:"studentName"`
	Activity    string `json:"activity,omitempty"`
	Year        string `json:"year,omitempty"`
}

// AppraisalRecord is the aggregate for faculty performance appraisals.
// Status is the single source of truth for whose turn it is; Department is
// copied from the submitter at submission time and never re-derived.
type AppraisalRecord struct {
	ID        string
	FacultyID string

	FullName      string
	EmployeeCode  string
	Email         string
	Phone         string
	Department    string
	Designation   string
	DateOfJoining string
	DateOfBirth   string
	Address       string

	AcademicQualifications         []Qualification
	ResearchPublications           []Publication
	Seminars                       []Seminar
	Projects                       []Project
	Lectures                       []Lecture
	AwardsRecognitions             []Award
	ProfessionalMemberships        []string
	CoursesTaught                  []Course
	AdministrativeResponsibilities []AdminResponsibility
	StudentMentoring               []Mentoring

	Attachments []FileRef

	Status         AppraisalStatus
	SubmissionDate time.Time
	HODApproval    ReviewDecision
	AdminApproval  ReviewDecision

	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
