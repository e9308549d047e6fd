package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/registrar/core"
	"github.com/trezcool/registrar/core/faculty"
	"github.com/trezcool/registrar/core/school"
	"github.com/trezcool/registrar/core/student"
	"github.com/trezcool/registrar/storage/database"
)

// NewConfig returns a test configuration backed by a temporary sqlite database.
func NewConfig(t *testing.T) *core.Config {
	t.Helper()
	dir := t.TempDir()
	return &core.Config{
		AppName:  "Registrar",
		Env:      "TEST",
		Debug:    true,
		TestMode: true,
		WorkDir:  dir,
		Database: core.DatabaseConfig{
			Engine: core.EngineSQLite,
			Path:   filepath.Join(dir, "registrar.db"),
		},
		Sheets: core.SheetsConfig{
			Driver:       core.SheetsDriverExcel,
			WorkbookPath: filepath.Join(dir, "registrar.xlsx"),
			StudentTab:   "All Students Data",
			FacultyTab:   "All Faculty Data",
			Timeout:      5 * time.Second,
		},
		Mail: core.MailConfig{
			DefaultFrom:      "Registrar <noreply@registrar.test>",
			ReportRecipients: []string{"registrar@school.test"},
		},
	}
}

// PrepareDB opens and migrates a fresh sqlite database, closed at the end of the test.
func PrepareDB(t *testing.T) *sqlx.DB {
	t.Helper()
	conf := NewConfig(t)
	db, err := database.Open(conf)
	if err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err = database.Migrate(db, conf.Database.Engine); err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	return db
}

type LogEntry struct {
	Level string
	Msg   string
	Args  []interface{}
}

// Logger records log entries.
type Logger struct {
	mu      sync.Mutex
	Entries []LogEntry
}

var _ core.Logger = (*Logger)(nil)

func (l *Logger) log(level, msg string, args []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Entries = append(l.Entries, LogEntry{Level: level, Msg: msg, Args: args})
}

func (l *Logger) Debug(msg string, args ...interface{}) { l.log("debug", msg, args) }
func (l *Logger) Info(msg string, args ...interface{})  { l.log("info", msg, args) }
func (l *Logger) Warn(msg string, args ...interface{})  { l.log("warning", msg, args) }
func (l *Logger) Error(msg string, args ...interface{}) { l.log("error", msg, args) }
func (l *Logger) Fatal(msg string, args ...interface{}) { l.log("critical", msg, args) }

// Messages returns the messages logged at `level`.
func (l *Logger) Messages(level string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var msgs []string
	for _, e := range l.Entries {
		if e.Level == level {
			msgs = append(msgs, e.Msg)
		}
	}
	return msgs
}

func CreateDepartment(t *testing.T, repo school.Repository, name string) school.Department {
	t.Helper()
	now := time.Now().UTC()
	dept, err := repo.CreateDepartment(context.Background(), school.Department{Name: name, CreatedAt: now, UpdatedAt: now})
	if err != nil {
		t.Fatalf("CreateDepartment() failed: %v", err)
	}
	return dept
}

func CreateCourse(t *testing.T, repo school.Repository, name string, departmentID int) school.Course {
	t.Helper()
	now := time.Now().UTC()
	course, err := repo.CreateCourse(context.Background(), school.Course{
		Name:         name,
		DepartmentID: departmentID,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("CreateCourse() failed: %v", err)
	}
	return course
}

func CreateAcademicYear(t *testing.T, repo school.Repository, schoolYear string) school.AcademicYear {
	t.Helper()
	now := time.Now().UTC()
	year, err := repo.CreateAcademicYear(context.Background(), school.AcademicYear{SchoolYear: schoolYear, CreatedAt: now, UpdatedAt: now})
	if err != nil {
		t.Fatalf("CreateAcademicYear() failed: %v", err)
	}
	return year
}

// CreateStudent inserts an active student named after its email.
func CreateStudent(t *testing.T, repo student.Repository, id int, email string, courseID ...int) student.Student {
	t.Helper()
	now := time.Now().UTC()
	s := student.Student{
		ID:        id,
		FirstName: "Student",
		LastName:  fmt.Sprintf("No%d", id),
		Sex:       "female",
		Email:     email,
		Status:    student.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if len(courseID) > 0 {
		s.CourseID = null.IntFrom(courseID[0])
	}
	s, _, err := repo.UpdateOrCreateStudent(context.Background(), s)
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return s
}

// CreateFaculty inserts an active instructor named after its email.
func CreateFaculty(t *testing.T, repo faculty.Repository, id int, email string, departmentID ...int) faculty.Faculty {
	t.Helper()
	now := time.Now().UTC()
	f := faculty.Faculty{
		ID:        id,
		FirstName: "Faculty",
		LastName:  fmt.Sprintf("No%d", id),
		Sex:       "male",
		Email:     email,
		Position:  null.StringFrom(faculty.PositionInstructor),
		Status:    faculty.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if len(departmentID) > 0 {
		f.DepartmentID = null.IntFrom(departmentID[0])
	}
	f, _, err := repo.UpdateOrCreateFaculty(context.Background(), f)
	if err != nil {
		t.Fatalf("CreateFaculty() failed: %v", err)
	}
	return f
}
