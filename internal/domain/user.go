package domain

import "time"

// Role enumerates who a principal acts as in the appraisal pipeline.
type Role string

const (
	RoleFaculty Role = "faculty"
	RoleHOD     Role = "hod"
	RoleAdmin   Role = "admin"
)

// User is the domain model for faculty members and reviewers.
// Department is a flat string; it is the only organizational axis.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Department   string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal is the authenticated caller handed to the workflow engine. The
// engine trusts it verbatim and performs no secondary user lookups.
type Principal struct {
	UserID     string
	Role       Role
	Department string
}
