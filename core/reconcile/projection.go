package reconcile

import (
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/registrar/core/faculty"
	"github.com/trezcool/registrar/core/school"
	"github.com/trezcool/registrar/core/student"
)

// Roster headers
var (
	StudentRosterHeaders = []string{"student_id", "name", "email", "course", "department", "status"}
	FacultyRosterHeaders = []string{"Faculty ID", "Name", "Email", "Phone", "Department", "Position", "Status"}
)

// Headers returns the report header row of an entity generation.
func Headers(entity Entity, gen Generation) []string {
	l := LayoutFor(entity, gen)
	h := make([]string, l.Width)
	set := func(idx int, name string) {
		if l.Has(idx) {
			h[idx] = name
		}
	}
	set(l.ID, entity.String()+"_id")
	set(l.FirstName, "f_name")
	set(l.MiddleName, "m_name")
	set(l.LastName, "l_name")
	set(l.Suffix, "suffix")
	set(l.DateOfBirth, "date_of_birth")
	set(l.Age, "age")
	set(l.Sex, "sex")
	set(l.Phone, "phone_number")
	set(l.Email, "email_address")
	set(l.Address, "address")
	set(l.Region, "region")
	set(l.Province, "province")
	set(l.Municipality, "municipality")
	set(l.Position, "position")
	set(l.Status, "status")
	set(l.Department, "department")
	set(l.Course, "course")
	set(l.AcademicYear, "academic_year")
	set(l.YearLevel, "year_level")
	set(l.CreatedAt, "created_at")
	set(l.UpdatedAt, "updated_at")
	set(l.ArchivedAt, "archived_at")
	return h
}

// rowBuilder places values at their layout column.
type rowBuilder struct {
	l   Layout
	row []interface{}
}

func newRowBuilder(l Layout) *rowBuilder {
	return &rowBuilder{l: l, row: make([]interface{}, l.Width)}
}

func (b *rowBuilder) set(idx int, v interface{}) {
	if b.l.Has(idx) {
		b.row[idx] = v
	}
}

// StudentRows projects students to report rows in the `gen` layout.
// Foreign keys are written as display names, so that the rows can be imported back.
func StudentRows(students []student.Student, names school.Names, gen Generation) [][]interface{} {
	l := LayoutFor(Students, gen)
	rows := make([][]interface{}, 0, len(students))
	for _, s := range students {
		b := newRowBuilder(l)
		b.set(l.ID, s.ID)
		b.set(l.FirstName, s.FirstName)
		b.set(l.MiddleName, s.MiddleName)
		b.set(l.LastName, s.LastName)
		b.set(l.Suffix, s.Suffix)
		b.set(l.DateOfBirth, formatTime(s.DateOfBirth, DateFormat))
		b.set(l.Age, ReportAge(s.Age, s.DateOfBirth))
		b.set(l.Sex, s.Sex)
		b.set(l.Phone, s.PhoneNumber)
		b.set(l.Email, s.Email)
		b.set(l.Address, s.Address)
		b.set(l.Region, nullString(s.Region))
		b.set(l.Province, nullString(s.Province))
		b.set(l.Municipality, nullString(s.Municipality))
		b.set(l.Status, s.Status)
		b.set(l.Department, name(names.Department(s.DepartmentID)))
		b.set(l.Course, name(names.Course(s.CourseID)))
		b.set(l.AcademicYear, name(names.AcademicYear(s.AcademicYearID)))
		b.set(l.YearLevel, nullString(s.YearLevel))
		b.set(l.CreatedAt, formatTime(null.TimeFrom(s.CreatedAt), DateTimeFormat))
		b.set(l.UpdatedAt, formatTime(null.TimeFrom(s.UpdatedAt), DateTimeFormat))
		b.set(l.ArchivedAt, formatTime(s.ArchivedAt, DateTimeFormat))
		rows = append(rows, b.row)
	}
	return rows
}

// FacultyRows projects faculty to report rows in the `gen` layout.
func FacultyRows(members []faculty.Faculty, names school.Names, gen Generation) [][]interface{} {
	l := LayoutFor(Faculty, gen)
	rows := make([][]interface{}, 0, len(members))
	for _, f := range members {
		b := newRowBuilder(l)
		b.set(l.ID, f.ID)
		b.set(l.FirstName, f.FirstName)
		b.set(l.MiddleName, f.MiddleName)
		b.set(l.LastName, f.LastName)
		b.set(l.Suffix, f.Suffix)
		b.set(l.DateOfBirth, formatTime(f.DateOfBirth, DateFormat))
		b.set(l.Age, ReportAge(f.Age, f.DateOfBirth))
		b.set(l.Sex, f.Sex)
		b.set(l.Phone, f.PhoneNumber)
		b.set(l.Email, f.Email)
		b.set(l.Address, f.Address)
		b.set(l.Region, nullString(f.Region))
		b.set(l.Province, nullString(f.Province))
		b.set(l.Municipality, nullString(f.Municipality))
		b.set(l.Position, nullString(f.Position))
		b.set(l.Status, f.Status)
		b.set(l.Department, name(names.Department(f.DepartmentID)))
		b.set(l.CreatedAt, formatTime(null.TimeFrom(f.CreatedAt), DateTimeFormat))
		b.set(l.UpdatedAt, formatTime(null.TimeFrom(f.UpdatedAt), DateTimeFormat))
		b.set(l.ArchivedAt, formatTime(f.ArchivedAt, DateTimeFormat))
		rows = append(rows, b.row)
	}
	return rows
}

// StudentRoster projects students to the short roster layout (see StudentRosterHeaders).
func StudentRoster(students []student.Student, names school.Names) [][]interface{} {
	rows := make([][]interface{}, 0, len(students))
	for _, s := range students {
		rows = append(rows, []interface{}{
			s.ID,
			s.FullName(),
			s.Email,
			name(names.Course(s.CourseID)),
			name(names.Department(s.DepartmentID)),
			s.Status,
		})
	}
	return rows
}

// FacultyRoster projects faculty to the short roster layout (see FacultyRosterHeaders).
func FacultyRoster(members []faculty.Faculty, names school.Names) [][]interface{} {
	rows := make([][]interface{}, 0, len(members))
	for _, f := range members {
		rows = append(rows, []interface{}{
			f.ID,
			f.FullName(),
			f.Email,
			f.PhoneNumber,
			name(names.Department(f.DepartmentID)),
			nullString(f.Position),
			f.Status,
		})
	}
	return rows
}

// ReportAge returns the stored age, or the age derived from the date of birth, or nil.
func ReportAge(age null.Int, dob null.Time) interface{} {
	if age.Valid {
		return age.Int
	}
	if !dob.Valid {
		return nil
	}
	if years, ok := ageAt(dob.Time, nowFunc().UTC()); ok {
		return years
	}
	return nil
}

func formatTime(t null.Time, layout string) interface{} {
	if !t.Valid || t.Time.IsZero() {
		return nil
	}
	return t.Time.UTC().Format(layout)
}

func nullString(s null.String) interface{} {
	if !s.Valid {
		return nil
	}
	return s.String
}

func name(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

