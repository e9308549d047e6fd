package reconcile

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Entity is the kind of profile held by a tab.
type Entity int

const (
	Students Entity = iota
	Faculty
)

var ErrUnknownEntity = errors.New("unknown entity type")

func (e Entity) String() string {
	switch e {
	case Students:
		return "student"
	case Faculty:
		return "faculty"
	default:
		return fmt.Sprintf("Entity(%d)", int(e))
	}
}

// ParseEntity accepts "student(s)" or "faculty", case-insensitively.
func ParseEntity(s string) (Entity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "student", "students":
		return Students, nil
	case "faculty", "faculties":
		return Faculty, nil
	default:
		return 0, errors.Wrapf(ErrUnknownEntity, "%q", s)
	}
}

// Generation is a historical column layout of the imported tabs.
type Generation int

const (
	// Legacy layouts have no age, region, province or municipality columns.
	Legacy Generation = iota
	Current
)

func (g Generation) String() string {
	switch g {
	case Legacy:
		return "legacy"
	case Current:
		return "current"
	default:
		return fmt.Sprintf("Generation(%d)", int(g))
	}
}

const noColumn = -1

// Layout holds the 0-based column index of every field; absent fields are noColumn.
type Layout struct {
	ID           int
	FirstName    int
	MiddleName   int
	LastName     int
	Suffix       int
	DateOfBirth  int
	Age          int
	Sex          int
	Phone        int
	Email        int
	Address      int
	Region       int
	Province     int
	Municipality int
	Position     int
	Status       int
	Department   int
	Course       int
	AcademicYear int
	YearLevel    int
	CreatedAt    int
	UpdatedAt    int
	ArchivedAt   int
	Width        int
}

// Has reports whether the layout has a column at `idx`.
func (l Layout) Has(idx int) bool {
	return idx != noColumn
}

var (
	studentCurrent = Layout{
		ID: 0, FirstName: 1, MiddleName: 2, LastName: 3, Suffix: 4, DateOfBirth: 5, Age: 6, Sex: 7,
		Phone: 8, Email: 9, Address: 10, Region: 11, Province: 12, Municipality: 13, Position: noColumn,
		Status: 14, Department: 15, Course: 16, AcademicYear: 17, YearLevel: 18,
		CreatedAt: 19, UpdatedAt: 20, ArchivedAt: 21, Width: 22,
	}
	studentLegacy = Layout{
		ID: 0, FirstName: 1, MiddleName: 2, LastName: 3, Suffix: 4, DateOfBirth: 5, Age: noColumn, Sex: 6,
		Phone: 7, Email: 8, Address: 9, Region: noColumn, Province: noColumn, Municipality: noColumn, Position: noColumn,
		Status: 10, Department: 11, Course: 12, AcademicYear: 13, YearLevel: 14,
		CreatedAt: 15, UpdatedAt: 16, ArchivedAt: 17, Width: 18,
	}
	facultyCurrent = Layout{
		ID: 0, FirstName: 1, MiddleName: 2, LastName: 3, Suffix: 4, DateOfBirth: 5, Age: 6, Sex: 7,
		Phone: 8, Email: 9, Address: 10, Region: 11, Province: 12, Municipality: 13, Position: 14,
		Status: 15, Department: 16, Course: noColumn, AcademicYear: noColumn, YearLevel: noColumn,
		CreatedAt: 17, UpdatedAt: 18, ArchivedAt: 19, Width: 20,
	}
	facultyLegacy = Layout{
		ID: 0, FirstName: 1, MiddleName: 2, LastName: 3, Suffix: 4, DateOfBirth: 5, Age: noColumn, Sex: 6,
		Phone: 7, Email: 8, Address: 9, Region: noColumn, Province: noColumn, Municipality: noColumn, Position: 10,
		Status: 11, Department: 12, Course: noColumn, AcademicYear: noColumn, YearLevel: noColumn,
		CreatedAt: 13, UpdatedAt: 14, ArchivedAt: 15, Width: 16,
	}
)

// LayoutFor returns the column layout of an entity generation.
func LayoutFor(entity Entity, gen Generation) Layout {
	switch entity {
	case Students:
		switch gen {
		case Legacy:
			return studentLegacy
		case Current:
			return studentCurrent
		}
	case Faculty:
		switch gen {
		case Legacy:
			return facultyLegacy
		case Current:
			return facultyCurrent
		}
	}
	panic(fmt.Sprintf("reconcile: no layout for %v %v", entity, gen))
}

// minCurrentWidth is the narrowest unpadded row still considered to be in the current layout.
func minCurrentWidth(entity Entity) int {
	switch entity {
	case Students:
		return 19
	case Faculty:
		return 20
	default:
		panic(fmt.Sprintf("reconcile: unknown entity %v", entity))
	}
}

// readRange returns the A1 cell span read when importing a tab.
func readRange(entity Entity) string {
	switch entity {
	case Students:
		return "A2:V"
	case Faculty:
		return "A2:Z"
	default:
		panic(fmt.Sprintf("reconcile: unknown entity %v", entity))
	}
}

// Detect picks the layout generation of a row.
// A recognized sex token in the current layout's sex column wins, then in the legacy one;
// otherwise the unpadded row `width` decides, since trailing empty columns make it unreliable.
func Detect(entity Entity, row Row, width int) Generation {
	if _, ok := parseSex(row.Cell(LayoutFor(entity, Current).Sex)); ok {
		return Current
	}
	if _, ok := parseSex(row.Cell(LayoutFor(entity, Legacy).Sex)); ok {
		return Legacy
	}
	if width >= minCurrentWidth(entity) {
		return Current
	}
	return Legacy
}
