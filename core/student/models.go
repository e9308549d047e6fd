package student

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

var Statuses = []string{StatusActive, StatusInactive, StatusGraduated, StatusDropped}

type Student struct {
	ID             int         `db:"student_id" json:"student_id"`
	FirstName      string      `db:"f_name" json:"f_name"`
	MiddleName     string      `db:"m_name" json:"m_name"`
	LastName       string      `db:"l_name" json:"l_name"`
	Suffix         string      `db:"suffix" json:"suffix"`
	DateOfBirth    null.Time   `db:"date_of_birth" json:"date_of_birth"`
	Age            null.Int    `db:"age" json:"age"`
	Sex            string      `db:"sex" json:"sex"`
	PhoneNumber    string      `db:"phone_number" json:"phone_number"`
	Email          string      `db:"email_address" json:"email_address"`
	Address        string      `db:"address" json:"address"`
	Region         null.String `db:"region" json:"region"`
	Province       null.String `db:"province" json:"province"`
	Municipality   null.String `db:"municipality" json:"municipality"`
	Status         string      `db:"status" json:"status"`
	DepartmentID   null.Int    `db:"department_id" json:"department_id"`
	CourseID       null.Int    `db:"course_id" json:"course_id"`
	AcademicYearID null.Int    `db:"academic_year_id" json:"academic_year_id"`
	YearLevel      null.String `db:"year_level" json:"year_level"`
	CreatedAt      time.Time   `db:"created_at" json:"created_at"`   // UTC
	UpdatedAt      time.Time   `db:"updated_at" json:"updated_at"`   // UTC
	ArchivedAt     null.Time   `db:"archived_at" json:"archived_at"` // UTC
}

// FullName joins the non-empty name parts with a single space.
func (s Student) FullName() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{s.FirstName, s.MiddleName, s.LastName, s.Suffix} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

func (s Student) IsArchived() bool {
	return s.ArchivedAt.Valid
}

// GetFilter selects a single student by ID, or by case-insensitive email.
// ExcludeID skips the student with that ID when looking up by email.
type GetFilter struct {
	ID        int
	Email     string
	ExcludeID int
}

// QueryFilter applies AND operation on its non-zero fields. Archived students are skipped unless IncludeArchived.
type QueryFilter struct {
	DepartmentID    int    `query:"department_id" json:"department_id"`
	CourseID        int    `query:"course_id" json:"course_id"`
	AcademicYearID  int    `query:"academic_year_id" json:"academic_year_id"`
	Status          string `query:"status" json:"status"`
	IncludeArchived bool   `query:"include_archived" json:"include_archived"`
}
