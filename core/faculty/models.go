package faculty

import (
	"strings"
	"time"

	"github.com/volatiletech/null/v8"
)

// Statuses
const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusGraduated = "graduated"
	StatusDropped   = "dropped"
)

// Positions
const (
	PositionDean           = "Dean"
	PositionInstructor     = "Instructor"
	PositionPartTime       = "Part-time"
	PositionDepartmentHead = "Department Head"
)

var (
	Statuses  = []string{StatusActive, StatusInactive, StatusGraduated, StatusDropped}
	Positions = []string{PositionDean, PositionInstructor, PositionPartTime, PositionDepartmentHead}
)

type Faculty struct {
	ID           int         `db:"faculty_id" json:"faculty_id"`
	FirstName    string      `db:"f_name" json:"f_name"`
	MiddleName   string      `db:"m_name" json:"m_name"`
	LastName     string      `db:"l_name" json:"l_name"`
	Suffix       string      `db:"suffix" json:"suffix"`
	DateOfBirth  null.Time   `db:"date_of_birth" json:"date_of_birth"`
	Age          null.Int    `db:"age" json:"age"`
	Sex          string      `db:"sex" json:"sex"`
	PhoneNumber  string      `db:"phone_number" json:"phone_number"`
	Email        string      `db:"email_address" json:"email_address"`
	Address      string      `db:"address" json:"address"`
	Region       null.String `db:"region" json:"region"`
	Province     null.String `db:"province" json:"province"`
	Municipality null.String `db:"municipality" json:"municipality"`
	Position     null.String `db:"position" json:"position"`
	Status       string      `db:"status" json:"status"`
	DepartmentID null.Int    `db:"department_id" json:"department_id"`
	CreatedAt    time.Time   `db:"created_at" json:"created_at"`   // UTC
	UpdatedAt    time.Time   `db:"updated_at" json:"updated_at"`   // UTC
	ArchivedAt   null.Time   `db:"archived_at" json:"archived_at"` // UTC
}

// FullName joins the non-empty name parts with a single space.
func (f Faculty) FullName() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{f.FirstName, f.MiddleName, f.LastName, f.Suffix} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

func (f Faculty) IsArchived() bool {
	return f.ArchivedAt.Valid
}

// GetFilter selects a single faculty member by ID, or by case-insensitive email.
// ExcludeID skips the faculty member with that ID when looking up by email.
type GetFilter struct {
	ID        int
	Email     string
	ExcludeID int
}

// QueryFilter applies AND operation on its non-zero fields. Archived faculty are skipped unless IncludeArchived.
type QueryFilter struct {
	DepartmentID    int    `query:"department_id" json:"department_id"`
	Status          string `query:"status" json:"status"`
	Position        string `query:"position" json:"position"`
	IncludeArchived bool   `query:"include_archived" json:"include_archived"`
}
