package reconcile

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
	"golang.org/x/text/cases"

	"github.com/trezcool/registrar/core/school"
)

// Sexes
const (
	SexMale   = "male"
	SexFemale = "female"
	SexOther  = "other"
)

var (
	sexAliases = map[string]string{
		"male": SexMale, "m": SexMale,
		"female": SexFemale, "f": SexFemale,
		"other": SexOther, "o": SexOther,
	}

	yearLevels = map[string]string{
		"1": "1st", "1st": "1st",
		"2": "2nd", "2nd": "2nd",
		"3": "3rd", "3rd": "3rd",
		"4": "4th", "4th": "4th",
	}

	whitespaceRegex   = regexp.MustCompile(`\s+`)
	phoneSepsReplacer = strings.NewReplacer(" ", "", "-", "", ".", "", "(", "", ")", "")
)

// Record is the typed, normalized representation of one imported row.
type Record struct {
	ID             null.Int
	FirstName      string
	MiddleName     string
	LastName       string
	Suffix         string
	DateOfBirth    null.String
	Age            null.Int
	Sex            string
	PhoneNumber    string
	Email          string
	Address        string
	Region         null.String
	Province       null.String
	Municipality   null.String
	Position       null.String // faculty only
	Status         string
	DepartmentID   null.Int
	CourseID       null.Int    // students only
	AcademicYearID null.Int    // students only
	YearLevel      null.String // students only
	CreatedAt      null.String
	UpdatedAt      null.String
	ArchivedAt     null.String
}

// References resolves the department, course and academic year cells of a row.
type References interface {
	GetDepartment(ctx context.Context, filter school.GetFilter) (school.Department, error)
	GetCourse(ctx context.Context, filter school.GetFilter) (school.Course, error)
	GetAcademicYear(ctx context.Context, filter school.GetFilter) (school.AcademicYear, error)
}

// Normalizer maps raw rows to Records.
type Normalizer struct {
	refs References
}

func NewNormalizer(refs References) *Normalizer {
	return &Normalizer{refs: refs}
}

// Normalize maps `row` to a Record through the `gen` layout of `entity`.
// An unknown sex yields an empty Record.Sex; validating it is left to the caller.
func (n *Normalizer) Normalize(ctx context.Context, entity Entity, row Row, gen Generation) (Record, error) {
	l := LayoutFor(entity, gen)

	id, err := parseID(row.Trimmed(l.ID))
	if err != nil {
		return Record{}, errors.Errorf("Invalid %s ID '%s'.", entity, row.Trimmed(l.ID))
	}

	rec := Record{
		ID:          id,
		FirstName:   row.Cell(l.FirstName),
		MiddleName:  row.Cell(l.MiddleName),
		LastName:    row.Cell(l.LastName),
		Suffix:      row.Cell(l.Suffix),
		DateOfBirth: optional(row.Cell(l.DateOfBirth)),
		PhoneNumber: NormalizePhone(row.Cell(l.Phone)),
		Email:       NormalizeEmail(row.Cell(l.Email)),
		Address:     row.Cell(l.Address),
		Status:      row.Trimmed(l.Status),
		CreatedAt:   optional(row.Cell(l.CreatedAt)),
		UpdatedAt:   optional(row.Cell(l.UpdatedAt)),
		ArchivedAt:  optional(row.Cell(l.ArchivedAt)),
	}
	rec.Sex, _ = parseSex(row.Cell(l.Sex))
	rec.Age = resolveAge(row, l, rec.DateOfBirth)

	if l.Has(l.Region) {
		rec.Region = optional(row.Cell(l.Region))
		rec.Province = optional(row.Cell(l.Province))
		rec.Municipality = optional(row.Cell(l.Municipality))
	}
	if l.Has(l.Position) {
		rec.Position = optional(row.Cell(l.Position))
	}
	if l.Has(l.YearLevel) {
		rec.YearLevel = NormalizeYearLevel(row.Cell(l.YearLevel))
	}

	if rec.DepartmentID, err = n.department(ctx, row.Trimmed(l.Department)); err != nil {
		return Record{}, errors.Wrap(err, "resolving department")
	}
	if l.Has(l.Course) {
		if rec.CourseID, err = n.course(ctx, row.Trimmed(l.Course)); err != nil {
			return Record{}, errors.Wrap(err, "resolving course")
		}
	}
	if l.Has(l.AcademicYear) {
		if rec.AcademicYearID, err = n.academicYear(ctx, row.Trimmed(l.AcademicYear)); err != nil {
			return Record{}, errors.Wrap(err, "resolving academic year")
		}
	}
	return rec, nil
}

func (n *Normalizer) department(ctx context.Context, ref string) (null.Int, error) {
	return resolveRef(ref, school.ErrDepartmentNotFound, func(f school.GetFilter) (int, error) {
		d, err := n.refs.GetDepartment(ctx, f)
		return d.ID, err
	})
}

func (n *Normalizer) course(ctx context.Context, ref string) (null.Int, error) {
	return resolveRef(ref, school.ErrCourseNotFound, func(f school.GetFilter) (int, error) {
		c, err := n.refs.GetCourse(ctx, f)
		return c.ID, err
	})
}

func (n *Normalizer) academicYear(ctx context.Context, ref string) (null.Int, error) {
	return resolveRef(ref, school.ErrAcademicYearNotFound, func(f school.GetFilter) (int, error) {
		y, err := n.refs.GetAcademicYear(ctx, f)
		return y.ID, err
	})
}

// resolveRef looks `ref` up as a positive integer ID first, then as an exact display name.
// An unresolved reference is null, not an error.
func resolveRef(ref string, errNotFound error, get func(school.GetFilter) (int, error)) (null.Int, error) {
	if ref == "" {
		return null.Int{}, nil
	}
	if id, err := strconv.Atoi(ref); err == nil && id > 0 {
		found, err := get(school.GetFilter{ID: id})
		if err == nil {
			return null.IntFrom(found), nil
		} else if errors.Cause(err) != errNotFound {
			return null.Int{}, err
		}
	}
	found, err := get(school.GetFilter{Name: ref})
	if err != nil {
		if errors.Cause(err) == errNotFound {
			return null.Int{}, nil
		}
		return null.Int{}, err
	}
	return null.IntFrom(found), nil
}

func parseID(s string) (null.Int, error) {
	if s == "" {
		return null.Int{}, nil
	}
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return null.Int{}, fmt.Errorf("invalid id %q", s)
	}
	return null.IntFrom(id), nil
}

// resolveAge prefers the age column, then derives the age from the date of birth.
func resolveAge(row Row, l Layout, dob null.String) null.Int {
	if l.Has(l.Age) {
		if age, err := strconv.Atoi(row.Trimmed(l.Age)); err == nil && age >= 0 {
			return null.IntFrom(age)
		}
	}
	if !dob.Valid {
		return null.Int{}
	}
	t, err := ParseDate(dob.String)
	if err != nil {
		return null.Int{}
	}
	if age, ok := ageAt(t, nowFunc().UTC()); ok {
		return null.IntFrom(age)
	}
	return null.Int{}
}

func optional(s string) null.String {
	s = strings.TrimSpace(s)
	return null.NewString(s, s != "")
}

func fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// parseSex maps a sex cell through the alias table.
func parseSex(s string) (string, bool) {
	sex, ok := sexAliases[fold(s)]
	return sex, ok
}

// NormalizePhone converts 10-digit numbers starting with 9 to the 11-digit local format (09...).
// Anything else is returned trimmed.
func NormalizePhone(s string) string {
	raw := strings.TrimSpace(s)
	digits := phoneSepsReplacer.Replace(raw)
	if !isDigits(digits) {
		return raw
	}
	switch {
	case len(digits) == 10 && digits[0] == '9':
		return "0" + digits
	case len(digits) == 11 && strings.HasPrefix(digits, "09"):
		return digits
	default:
		return raw
	}
}

func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeYearLevel maps 1..4 and 1st..4th (any case or spacing) to 1st..4th.
// Unknown values are kept trimmed; blank values are null.
func NormalizeYearLevel(s string) null.String {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return null.String{}
	}
	if lvl, ok := yearLevels[fold(whitespaceRegex.ReplaceAllString(raw, ""))]; ok {
		return null.StringFrom(lvl)
	}
	return null.StringFrom(raw)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
