package report

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/registrar/core"
	"github.com/trezcool/registrar/core/faculty"
	"github.com/trezcool/registrar/core/reconcile"
	"github.com/trezcool/registrar/core/school"
	"github.com/trezcool/registrar/core/student"
	emailsvc "github.com/trezcool/registrar/services/email"
	sheetsvc "github.com/trezcool/registrar/services/spreadsheet"
	dummydb "github.com/trezcool/registrar/storage/database/dummy"
	testutil "github.com/trezcool/registrar/tests"
)

type testEnv struct {
	svc      *Service
	sheet    *sheetsvc.Memory
	schools  school.Repository
	students student.Repository
	faculty  faculty.Repository
}

func newTestEnv(t *testing.T, tabs ...string) *testEnv {
	t.Helper()
	conf := testutil.NewConfig(t)
	logger := new(testutil.Logger)
	core.ParseEmailTemplates(conf, logger)

	db, err := dummydb.Open()
	require.NoError(t, err)
	env := &testEnv{
		sheet:    sheetsvc.NewMemory(tabs...),
		schools:  dummydb.NewSchoolRepository(db),
		students: dummydb.NewStudentRepository(db),
		faculty:  dummydb.NewFacultyRepository(db),
	}

	schools := school.NewService(env.schools)
	students := student.NewService(env.students)
	members := faculty.NewService(env.faculty)
	rec, err := reconcile.NewService(reconcile.Deps{
		Sheet:      env.sheet,
		References: schools,
		Students:   students,
		Faculty:    members,
		Logger:     logger,
	})
	require.NoError(t, err)

	env.svc, err = NewService(Deps{
		Schools:        schools,
		Students:       students,
		Faculty:        members,
		Reconciler:     rec,
		Mail:           emailsvc.NewConsoleServiceMock(conf),
		Recipients:     conf.ReportRecipients(),
		SpreadsheetURL: "https://docs.google.com/spreadsheets/d/test",
		Logger:         logger,
	})
	require.NoError(t, err)
	return env
}

func TestService_Generate(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	dept := testutil.CreateDepartment(t, env.schools, "College of Computer Studies")
	bscs := testutil.CreateCourse(t, env.schools, "BS Computer Science", dept.ID)
	bsit := testutil.CreateCourse(t, env.schools, "BS Information Technology", dept.ID)
	testutil.CreateStudent(t, env.students, 1, "ana@school.edu", bscs.ID)
	testutil.CreateStudent(t, env.students, 2, "ben@school.edu", bsit.ID)
	testutil.CreateFaculty(t, env.faculty, 1, "cruz@school.edu", dept.ID)

	tests := []struct {
		name     string
		req      GenerateRequest
		wantRows int
		wantErr  bool
	}{
		{name: "all students", req: GenerateRequest{Type: "student"}, wantRows: 2},
		{name: "by course", req: GenerateRequest{Type: "student", CourseID: bscs.ID}, wantRows: 1},
		{name: "by status", req: GenerateRequest{Type: "student", Status: student.StatusGraduated}, wantRows: 0},
		{name: "faculty", req: GenerateRequest{Type: "faculty", DepartmentID: dept.ID}, wantRows: 1},
		{name: "unknown type", req: GenerateRequest{Type: "staff"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := env.svc.Generate(ctx, tt.req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Generate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(got.Rows) != tt.wantRows {
				t.Errorf("Generate() rows = %d, want %d", len(got.Rows), tt.wantRows)
			}
		})
	}

	rep, err := env.svc.Generate(ctx, GenerateRequest{Type: "student", CourseID: bscs.ID})
	require.NoError(t, err)
	assert.Equal(t, reconcile.Headers(reconcile.Students, reconcile.Current), rep.Headers)
	assert.Equal(t, "BS Computer Science", rep.Rows[0][16])
	assert.Nil(t, rep.Rows[0][15], "no department")
}

func TestService_Export(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	testutil.CreateStudent(t, env.students, 1, "ana@school.edu")

	res, err := env.svc.Export(ctx, GenerateRequest{Type: "student", Format: FormatSheets})
	require.NoError(t, err)
	assert.Equal(t, ExportResult{Tab: reconcile.DefaultStudentTab, Rows: 1, SpreadsheetURL: "https://docs.google.com/spreadsheets/d/test"}, res)
	assert.Len(t, env.sheet.Rows(reconcile.DefaultStudentTab), 2)

	res, err = env.svc.Export(ctx, GenerateRequest{Type: "faculty", Tab: "Faculty Report"})
	require.NoError(t, err)
	assert.Equal(t, "Faculty Report", res.Tab)
	assert.Equal(t, 0, res.Rows)
}

func TestService_ExportRoster(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	dept := testutil.CreateDepartment(t, env.schools, "College of Engineering and Architecture")
	course := testutil.CreateCourse(t, env.schools, "Bachelor of Science in Computer Science", dept.ID)
	testutil.CreateStudent(t, env.students, 1, "ana@school.edu", course.ID)
	testutil.CreateStudent(t, env.students, 2, "ben@school.edu")
	testutil.CreateFaculty(t, env.faculty, 1, "cruz@school.edu", dept.ID)

	res, err := env.svc.ExportRoster(ctx, RosterRequest{Type: "student", CourseID: course.ID})
	require.NoError(t, err)
	assert.Equal(t, "BSCS STUDENT", res.Tab)
	assert.Equal(t, 1, res.Rows)
	assert.Equal(t, [][]string{
		reconcile.StudentRosterHeaders,
		{"1", "Student No1", "ana@school.edu", "Bachelor of Science in Computer Science", "", "active"},
	}, env.sheet.Rows("BSCS STUDENT"))

	res, err = env.svc.ExportRoster(ctx, RosterRequest{Type: "faculty", DepartmentID: dept.ID})
	require.NoError(t, err)
	assert.Equal(t, "CEA FACULTY", res.Tab)
	assert.Equal(t, 1, res.Rows)

	_, err = env.svc.ExportRoster(ctx, RosterRequest{Type: "faculty", DepartmentID: 999})
	assert.ErrorIs(t, err, school.ErrDepartmentNotFound)

	// unfiltered rosters are named after the first profile
	res, err = env.svc.ExportRoster(ctx, RosterRequest{Type: "student"})
	require.NoError(t, err)
	assert.Equal(t, "BSCS STUDENT", res.Tab)
	assert.Equal(t, 2, res.Rows)

	res, err = env.svc.ExportRoster(ctx, RosterRequest{Type: "faculty"})
	require.NoError(t, err)
	assert.Equal(t, "CEA FACULTY", res.Tab)
	assert.Equal(t, 1, res.Rows)
}

func TestService_ExportRoster_unfiltered(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	res, err := env.svc.ExportRoster(ctx, RosterRequest{Type: "faculty"})
	require.NoError(t, err)
	assert.Equal(t, "F FACULTY", res.Tab)
	assert.Equal(t, 0, res.Rows)
	assert.Equal(t, [][]string{reconcile.FacultyRosterHeaders}, env.sheet.Rows("F FACULTY"))

	dept := testutil.CreateDepartment(t, env.schools, "College of Nursing")
	course := testutil.CreateCourse(t, env.schools, "BS Nursing", dept.ID)
	testutil.CreateStudent(t, env.students, 1, "ana@school.edu")
	testutil.CreateStudent(t, env.students, 2, "ben@school.edu", course.ID)
	testutil.CreateFaculty(t, env.faculty, 1, "cruz@school.edu")

	res, err = env.svc.ExportRoster(ctx, RosterRequest{Type: "student"})
	require.NoError(t, err)
	assert.Equal(t, "S STUDENT", res.Tab, "first student has no course")
	assert.Equal(t, 2, res.Rows)

	res, err = env.svc.ExportRoster(ctx, RosterRequest{Type: "faculty"})
	require.NoError(t, err)
	assert.Equal(t, "F FACULTY", res.Tab)
	assert.Equal(t, 1, res.Rows)
}

func TestService_Import(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	l := reconcile.LayoutFor(reconcile.Students, reconcile.Current)
	row := func(first, sex, email string) []string {
		r := make([]string, l.Width)
		r[l.FirstName], r[l.Sex], r[l.Email] = first, sex, email
		return r
	}
	env.sheet.Seed("All Students Data",
		reconcile.Headers(reconcile.Students, reconcile.Current),
		row("Ana", "F", "ana@school.edu"),
		row("Ben", "", "ben@school.edu"),
	)

	emailsvc.SentMessages = emailsvc.SentMessages[:0]
	res, err := env.svc.Import(ctx, ImportRequest{Type: "student"})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, 1, res.Imported)
	assert.Equal(t, MsgImportFailed, res.Message)
	assert.Equal(t, []string{"Row 3: Missing sex value."}, res.Errors)

	require.Len(t, emailsvc.SentMessages, 1)
	sent := emailsvc.SentMessages[0]
	assert.Equal(t, "Student import: "+MsgImportFailed, sent.Subject)
	assert.Contains(t, sent.TextContent, "Row 3: Missing sex value.")
	assert.Contains(t, sent.HTMLContent, "Row 3: Missing sex value.")
	require.Len(t, sent.Attachments, 1)
	assert.Equal(t, "text/plain", sent.Attachments[0].ContentType)

	tab := "Nope"
	_, err = env.svc.Import(ctx, ImportRequest{Type: "student", Tab: &tab})
	assert.True(t, reconcile.IsTabNotFound(err))
}

func TestImportMessage(t *testing.T) {
	tests := []struct {
		name string
		out  reconcile.Outcome
		want string
	}{
		{name: "success", out: reconcile.Outcome{Success: true}, want: MsgImportSucceeded},
		{name: "duplicates", out: reconcile.Outcome{Duplicates: []string{"a@b.c"}, Errors: []string{"x"}}, want: MsgImportDuplicate},
		{name: "errors", out: reconcile.Outcome{Errors: []string{"x"}}, want: MsgImportFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ImportMessage(tt.out); got != tt.want {
				t.Errorf("ImportMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGenerateRequest_Clean(t *testing.T) {
	req := GenerateRequest{Type: " Student ", Status: "ACTIVE", Tab: "  My Tab "}
	req.Clean()
	assert.Equal(t, GenerateRequest{Type: "student", Format: FormatJSON, Status: "active", Tab: "My Tab"}, req)
}
