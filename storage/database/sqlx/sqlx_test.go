package sqlxrepos

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/registrar/core"
	"github.com/trezcool/registrar/core/faculty"
	"github.com/trezcool/registrar/core/reconcile"
	"github.com/trezcool/registrar/core/school"
	"github.com/trezcool/registrar/core/student"
	testutil "github.com/trezcool/registrar/tests"
)

func TestSchoolRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewSchoolRepository(testutil.PrepareDB(t))

	ccs := testutil.CreateDepartment(t, repo, "College of Computer Studies")
	eng := testutil.CreateDepartment(t, repo, "College of Engineering")
	bscs := testutil.CreateCourse(t, repo, "Bachelor of Science in Computer Science", ccs.ID)
	testutil.CreateAcademicYear(t, repo, "2023-2024")
	testutil.CreateAcademicYear(t, repo, "2024-2025")

	tests := []struct {
		name    string
		filter  school.GetFilter
		wantID  int
		wantErr error
	}{
		{name: "by id", filter: school.GetFilter{ID: eng.ID}, wantID: eng.ID},
		{name: "by name", filter: school.GetFilter{Name: "College of Computer Studies"}, wantID: ccs.ID},
		{name: "name is case sensitive", filter: school.GetFilter{Name: "college of computer studies"}, wantErr: school.ErrDepartmentNotFound},
		{name: "unknown id", filter: school.GetFilter{ID: 999}, wantErr: school.ErrDepartmentNotFound},
		{name: "empty filter", filter: school.GetFilter{}, wantErr: school.ErrDepartmentNotFound},
		{name: "negative id", filter: school.GetFilter{ID: -3}, wantErr: school.ErrDepartmentNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.GetDepartment(ctx, tt.filter)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("GetDepartment() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got.ID != tt.wantID {
				t.Errorf("GetDepartment() ID = %d, want %d", got.ID, tt.wantID)
			}
		})
	}

	course, err := repo.GetCourse(ctx, school.GetFilter{Name: bscs.Name})
	require.NoError(t, err)
	assert.Equal(t, ccs.ID, course.DepartmentID)

	years, err := repo.QueryAcademicYears(ctx)
	require.NoError(t, err)
	require.Len(t, years, 2)
	assert.Equal(t, "2024-2025", years[0].SchoolYear)

	depts, err := repo.QueryDepartments(ctx)
	require.NoError(t, err)
	assert.Len(t, depts, 2)
}

func TestNormalizer_references(t *testing.T) {
	ctx := context.Background()
	repo := NewSchoolRepository(testutil.PrepareDB(t))
	ccs := testutil.CreateDepartment(t, repo, "College of Computer Studies")
	normalizer := reconcile.NewNormalizer(school.NewService(repo))

	l := reconcile.LayoutFor(reconcile.Students, reconcile.Current)
	tests := []struct {
		ref  string
		want null.Int
	}{
		{ref: strconv.Itoa(ccs.ID), want: null.IntFrom(ccs.ID)},
		{ref: "College of Computer Studies", want: null.IntFrom(ccs.ID)},
		{ref: "0"},
		{ref: "-3"},
		{ref: "999"},
		{ref: "College of Nursing"},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			row := make(reconcile.Row, l.Width)
			row[l.FirstName], row[l.Sex], row[l.Email] = "Ana", "F", "ana@school.edu"
			row[l.Department] = tt.ref

			rec, err := normalizer.Normalize(ctx, reconcile.Students, row, reconcile.Current)
			require.NoError(t, err)
			assert.Equal(t, tt.want, rec.DepartmentID)
		})
	}
}

func TestStudentRepository(t *testing.T) {
	ctx := context.Background()
	db := testutil.PrepareDB(t)
	repo := NewStudentRepository(db)
	schools := NewSchoolRepository(db)

	dept := testutil.CreateDepartment(t, schools, "College of Computer Studies")
	course := testutil.CreateCourse(t, schools, "BS Computer Science", dept.ID)

	ana := testutil.CreateStudent(t, repo, 10, "ana@school.edu", course.ID)
	auto := testutil.CreateStudent(t, repo, 0, "ben@school.edu")
	assert.Equal(t, 11, auto.ID, "auto IDs follow explicit ones")

	t.Run("get by email ignores case", func(t *testing.T) {
		got, err := repo.GetStudent(ctx, student.GetFilter{Email: "ANA@School.edu"})
		require.NoError(t, err)
		assert.Equal(t, ana.ID, got.ID)
	})

	t.Run("get by email excludes id", func(t *testing.T) {
		_, err := repo.GetStudent(ctx, student.GetFilter{Email: "ana@school.edu", ExcludeID: ana.ID})
		assert.True(t, errors.Is(err, student.ErrNotFound))
	})

	t.Run("update keeps created_at", func(t *testing.T) {
		upd := ana
		upd.CreatedAt = time.Time{}
		upd.UpdatedAt = time.Now().UTC().Add(time.Hour)
		upd.DateOfBirth = null.TimeFrom(time.Date(2003, 4, 5, 0, 0, 0, 0, time.UTC))
		upd.Status = student.StatusGraduated

		got, created, err := repo.UpdateOrCreateStudent(ctx, upd)
		require.NoError(t, err)
		assert.False(t, created)
		assert.True(t, got.CreatedAt.Equal(ana.CreatedAt))

		stored, err := repo.GetStudent(ctx, student.GetFilter{ID: ana.ID})
		require.NoError(t, err)
		assert.Equal(t, student.StatusGraduated, stored.Status)
		assert.Equal(t, "2003-04-05", stored.DateOfBirth.Time.Format("2006-01-02"))
	})

	t.Run("query filters", func(t *testing.T) {
		got, err := repo.QueryStudents(ctx, student.QueryFilter{CourseID: course.ID}, nil)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, ana.ID, got[0].ID)

		got, err = repo.QueryStudents(ctx, student.QueryFilter{}, []core.DBOrdering{{Field: "student_id"}})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, auto.ID, got[0].ID)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		dup := student.Student{Email: "BEN@school.edu", Sex: "male", Status: student.StatusActive, UpdatedAt: time.Now().UTC()}
		_, _, err := repo.UpdateOrCreateStudent(ctx, dup)
		assert.Error(t, err)
	})
}

func TestFacultyRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewFacultyRepository(testutil.PrepareDB(t))

	cruz := testutil.CreateFaculty(t, repo, 3, "cruz@school.edu")
	testutil.CreateFaculty(t, repo, 0, "diaz@school.edu")

	got, err := repo.GetFaculty(ctx, faculty.GetFilter{Email: "Cruz@School.EDU"})
	require.NoError(t, err)
	assert.Equal(t, cruz.ID, got.ID)

	cruz.Position = null.StringFrom(faculty.PositionDean)
	cruz.UpdatedAt = time.Now().UTC()
	_, created, err := repo.UpdateOrCreateFaculty(ctx, cruz)
	require.NoError(t, err)
	assert.False(t, created)

	deans, err := repo.QueryFaculty(ctx, faculty.QueryFilter{Position: "dean"}, nil)
	require.NoError(t, err)
	require.Len(t, deans, 1)
	assert.Equal(t, cruz.ID, deans[0].ID)

	_, err = repo.GetFaculty(ctx, faculty.GetFilter{})
	assert.True(t, errors.Is(err, faculty.ErrNotFound))
}

func TestOrderBy(t *testing.T) {
	tests := []struct {
		name     string
		ordering []core.DBOrdering
		want     string
	}{
		{name: "fallback", want: " ORDER BY student_id ASC"},
		{name: "allowed", ordering: []core.DBOrdering{{Field: "l_name", Ascending: true}, {Field: "created_at"}}, want: " ORDER BY l_name ASC, created_at DESC"},
		{name: "unknown skipped", ordering: []core.DBOrdering{{Field: "1; DROP TABLE student_profiles"}}, want: " ORDER BY student_id ASC"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := orderBy(tt.ordering, studentColumns, "student_id ASC"); got != tt.want {
				t.Errorf("orderBy() = %q, want %q", got, tt.want)
			}
		})
	}
}
