package reconcile

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/registrar/core/faculty"
	"github.com/trezcool/registrar/core/school"
	"github.com/trezcool/registrar/core/student"
	testutil "github.com/trezcool/registrar/tests"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "9171234567", want: "09171234567"},
		{in: " 917-123-4567 ", want: "09171234567"},
		{in: "(0917) 123 4567", want: "09171234567"},
		{in: "09171234567", want: "09171234567"},
		{in: "8171234567", want: "8171234567"},
		{in: "+639171234567", want: "+639171234567"},
		{in: "n/a", want: "n/a"},
		{in: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := NormalizePhone(tt.in); got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizePhone_properties(t *testing.T) {
	for n := 0; n < 100000; n += 7919 {
		local := fmt.Sprintf("09%09d", n*1013%1000000000)
		if got := NormalizePhone(local); got != local {
			t.Errorf("NormalizePhone(%q) = %q, want identity", local, got)
		}

		short := fmt.Sprintf("9%09d", n*7%1000000000)
		got := NormalizePhone(short)
		if got != "0"+short || len(got) != 11 {
			t.Errorf("NormalizePhone(%q) = %q, want %q", short, got, "0"+short)
		}
	}
}

func TestNormalizeYearLevel(t *testing.T) {
	tests := []struct {
		in   string
		want null.String
	}{
		{in: "1", want: null.StringFrom("1st")},
		{in: " 2ND ", want: null.StringFrom("2nd")},
		{in: "3 rd", want: null.StringFrom("3rd")},
		{in: "4th", want: null.StringFrom("4th")},
		{in: " Irregular ", want: null.StringFrom("Irregular")},
		{in: "  ", want: null.String{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := NormalizeYearLevel(tt.in); got != tt.want {
				t.Errorf("NormalizeYearLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizer_departmentReference(t *testing.T) {
	ctx := context.Background()
	l := LayoutFor(Students, Current)
	row := PadRow(studentRow("", "Ana", "Reyes", "F", "ana@school.edu"), l.Width)
	row[l.Department] = "5"

	t.Run("existing id", func(t *testing.T) {
		env := newTestEnv(t)
		for i := 1; i <= 5; i++ {
			testutil.CreateDepartment(t, env.schools, fmt.Sprintf("Department %d", i))
		}
		rec, err := NewNormalizer(school.NewService(env.schools)).Normalize(ctx, Students, row, Current)
		require.NoError(t, err)
		assert.Equal(t, null.IntFrom(5), rec.DepartmentID)
	})

	t.Run("unknown id", func(t *testing.T) {
		env := newTestEnv(t)
		rec, err := NewNormalizer(school.NewService(env.schools)).Normalize(ctx, Students, row, Current)
		require.NoError(t, err)
		assert.False(t, rec.DepartmentID.Valid)
	})

	t.Run("by name", func(t *testing.T) {
		env := newTestEnv(t)
		dept := testutil.CreateDepartment(t, env.schools, "College of Engineering")
		named := append(Row(nil), row...)
		named[l.Department] = "College of Engineering"
		rec, err := NewNormalizer(school.NewService(env.schools)).Normalize(ctx, Students, named, Current)
		require.NoError(t, err)
		assert.Equal(t, null.IntFrom(dept.ID), rec.DepartmentID)
	})

	t.Run("non-positive ids are unresolved", func(t *testing.T) {
		env := newTestEnv(t)
		testutil.CreateDepartment(t, env.schools, "College of Engineering")
		for _, ref := range []string{"0", "-3", "00"} {
			zero := append(Row(nil), row...)
			zero[l.Department] = ref
			rec, err := NewNormalizer(school.NewService(env.schools)).Normalize(ctx, Students, zero, Current)
			require.NoError(t, err, ref)
			assert.False(t, rec.DepartmentID.Valid, ref)
		}
	})

	t.Run("decimal id is looked up by name", func(t *testing.T) {
		env := newTestEnv(t)
		testutil.CreateDepartment(t, env.schools, "College of Engineering")
		dept := testutil.CreateDepartment(t, env.schools, "5.0")
		decimal := append(Row(nil), row...)
		decimal[l.Department] = "5.0"
		rec, err := NewNormalizer(school.NewService(env.schools)).Normalize(ctx, Students, decimal, Current)
		require.NoError(t, err)
		assert.Equal(t, null.IntFrom(dept.ID), rec.DepartmentID)
	})
}

func TestNormalizer_age(t *testing.T) {
	defer func(f func() time.Time) { nowFunc = f }(nowFunc)
	nowFunc = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }

	l := LayoutFor(Students, Current)
	env := newTestEnv(t)
	n := NewNormalizer(school.NewService(env.schools))

	row := PadRow(studentRow("", "Ana", "Reyes", "F", "ana@school.edu"), l.Width)
	row[l.DateOfBirth] = "2003-06-02"
	rec, err := n.Normalize(context.Background(), Students, row, Current)
	require.NoError(t, err)
	assert.Equal(t, null.IntFrom(20), rec.Age)

	row[l.Age] = "30"
	rec, err = n.Normalize(context.Background(), Students, row, Current)
	require.NoError(t, err)
	assert.Equal(t, null.IntFrom(30), rec.Age)
}

// toCells formats exported values the way a spreadsheet returns them.
func toCells(rows [][]interface{}) [][]string {
	grid := make([][]string, len(rows))
	for i, row := range rows {
		grid[i] = make([]string, len(row))
		for j, v := range row {
			if v != nil {
				grid[i][j] = fmt.Sprint(v)
			}
		}
		for len(grid[i]) > 0 && grid[i][len(grid[i])-1] == "" {
			grid[i] = grid[i][:len(grid[i])-1]
		}
	}
	return grid
}

func TestRoundTrip_students(t *testing.T) {
	defer func(f func() time.Time) { nowFunc = f }(nowFunc)
	nowFunc = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	env := newTestEnv(t)
	dept := testutil.CreateDepartment(t, env.schools, "College of Computer Studies")
	course := testutil.CreateCourse(t, env.schools, "Bachelor of Science in Computer Science", dept.ID)
	year := testutil.CreateAcademicYear(t, env.schools, "2024-2025")
	names, err := school.NewService(env.schools).Names(ctx)
	require.NoError(t, err)

	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	students := []student.Student{
		{
			ID: 7, FirstName: "Ana", MiddleName: "Santos", LastName: "Reyes", Suffix: "Jr.",
			DateOfBirth: null.TimeFrom(time.Date(2003, 4, 5, 0, 0, 0, 0, time.UTC)),
			Sex:         "female", PhoneNumber: "09171234567", Email: "ana@school.edu", Address: "Manila",
			Region: null.StringFrom("NCR"), Province: null.StringFrom("Metro Manila"), Municipality: null.StringFrom("Manila"),
			Status: student.StatusActive, DepartmentID: null.IntFrom(dept.ID), CourseID: null.IntFrom(course.ID),
			AcademicYearID: null.IntFrom(year.ID), YearLevel: null.StringFrom("2nd"),
			CreatedAt: created, UpdatedAt: created.Add(time.Hour),
		},
		{
			ID: 8, FirstName: "Ben", LastName: "Cruz", Sex: "male", Email: "ben@school.edu", Age: null.IntFrom(19),
			Status: student.StatusDropped, CreatedAt: created, UpdatedAt: created,
			ArchivedAt: null.TimeFrom(created.Add(48 * time.Hour)),
		},
	}

	for _, gen := range []Generation{Current, Legacy} {
		t.Run(gen.String(), func(t *testing.T) {
			grid := toCells(StudentRows(students, names, gen))
			for i, s := range students {
				row := PadRow(grid[i], LayoutFor(Students, Current).Width)
				require.Equal(t, gen, Detect(Students, row, len(grid[i])))

				got, err := NewNormalizer(school.NewService(env.schools)).Normalize(ctx, Students, row, gen)
				require.NoError(t, err)

				want := Record{
					ID: null.IntFrom(s.ID), FirstName: s.FirstName, MiddleName: s.MiddleName, LastName: s.LastName,
					Suffix: s.Suffix, Sex: s.Sex, PhoneNumber: s.PhoneNumber, Email: s.Email, Address: s.Address,
					Status: s.Status, DepartmentID: s.DepartmentID, CourseID: s.CourseID,
					AcademicYearID: s.AcademicYearID, YearLevel: s.YearLevel,
					CreatedAt: null.StringFrom(s.CreatedAt.Format(DateTimeFormat)),
					UpdatedAt: null.StringFrom(s.UpdatedAt.Format(DateTimeFormat)),
				}
				if s.DateOfBirth.Valid {
					want.DateOfBirth = null.StringFrom(s.DateOfBirth.Time.Format(DateFormat))
					want.Age = null.IntFrom(21)
				}
				if gen == Current {
					want.Region, want.Province, want.Municipality = s.Region, s.Province, s.Municipality
					want.Age = s.Age
					if s.DateOfBirth.Valid {
						want.Age = null.IntFrom(21)
					}
				}
				if s.ArchivedAt.Valid {
					want.ArchivedAt = null.StringFrom(s.ArchivedAt.Time.Format(DateTimeFormat))
				}
				assert.Equal(t, want, got)
			}
		})
	}
}

func TestRoundTrip_faculty(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	dept := testutil.CreateDepartment(t, env.schools, "College of Engineering")
	names, err := school.NewService(env.schools).Names(ctx)
	require.NoError(t, err)

	created := time.Date(2023, 8, 1, 8, 0, 0, 0, time.UTC)
	member := faculty.Faculty{
		ID: 3, FirstName: "Jose", LastName: "Rizal", Sex: "male", PhoneNumber: "09998887777",
		Email: "jose@school.edu", Position: null.StringFrom(faculty.PositionDepartmentHead),
		Status: faculty.StatusActive, DepartmentID: null.IntFrom(dept.ID), Age: null.IntFrom(45),
		Region: null.StringFrom("Region IV-A"), CreatedAt: created, UpdatedAt: created,
	}

	for _, gen := range []Generation{Current, Legacy} {
		t.Run(gen.String(), func(t *testing.T) {
			grid := toCells(FacultyRows([]faculty.Faculty{member}, names, gen))
			row := PadRow(grid[0], LayoutFor(Faculty, Current).Width)
			got, err := NewNormalizer(school.NewService(env.schools)).Normalize(ctx, Faculty, row, Detect(Faculty, row, len(grid[0])))
			require.NoError(t, err)

			assert.Equal(t, null.IntFrom(member.ID), got.ID)
			assert.Equal(t, member.Position, got.Position)
			assert.Equal(t, member.DepartmentID, got.DepartmentID)
			assert.Equal(t, member.PhoneNumber, got.PhoneNumber)
			if gen == Current {
				assert.Equal(t, member.Age, got.Age)
				assert.Equal(t, member.Region, got.Region)
			} else {
				assert.False(t, got.Age.Valid)
				assert.False(t, got.Region.Valid)
			}
		})
	}
}

func TestHeaders(t *testing.T) {
	h := Headers(Students, Current)
	assert.Len(t, h, 22)
	assert.Equal(t, "student_id", h[0])
	assert.Equal(t, "sex", h[7])
	assert.Equal(t, "year_level", h[18])

	h = Headers(Faculty, Legacy)
	assert.Equal(t, "faculty_id", h[0])
	assert.Equal(t, "position", h[10])
	assert.NotContains(t, strings.Join(h, ","), "region")
}
