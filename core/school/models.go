package school

import (
	"time"

	"github.com/volatiletech/null/v8"
)

type Department struct {
	ID         int       `db:"department_id" json:"department_id"`
	Name       string    `db:"department_name" json:"department_name"`
	HeadID     null.Int  `db:"department_head_id" json:"department_head_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`   // UTC
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`   // UTC
	ArchivedAt null.Time `db:"archived_at" json:"archived_at"` // UTC
}

type Course struct {
	ID           int       `db:"course_id" json:"course_id"`
	Name         string    `db:"course_name" json:"course_name"`
	DepartmentID int       `db:"department_id" json:"department_id"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
	ArchivedAt   null.Time `db:"archived_at" json:"archived_at"`
}

type AcademicYear struct {
	ID         int       `db:"academic_year_id" json:"academic_year_id"`
	SchoolYear string    `db:"school_year" json:"school_year"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
	ArchivedAt null.Time `db:"archived_at" json:"archived_at"`
}

// GetFilter selects a single record by ID, or else by exact (case-sensitive) display name.
type GetFilter struct {
	ID   int
	Name string
}

// Options lists the selectable report filters.
type Options struct {
	Departments   []Department   `json:"departments"`
	Courses       []Course       `json:"courses"`
	AcademicYears []AcademicYear `json:"academic_years"`
}

// Names maps record IDs to display names, used when projecting profiles into reports.
type Names struct {
	Departments   map[int]string
	Courses       map[int]string
	AcademicYears map[int]string
}

func (n Names) Department(id null.Int) string   { return lookup(n.Departments, id) }
func (n Names) Course(id null.Int) string       { return lookup(n.Courses, id) }
func (n Names) AcademicYear(id null.Int) string { return lookup(n.AcademicYears, id) }

func lookup(m map[int]string, id null.Int) string {
	if !id.Valid {
		return ""
	}
	return m[id.Int]
}
