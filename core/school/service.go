package school

import (
	"context"
	"errors"
	"time"

	"github.com/trezcool/registrar/core"
)

var (
	// errors
	ErrDepartmentNotFound   = errors.New("department not found")
	ErrCourseNotFound       = errors.New("course not found")
	ErrAcademicYearNotFound = errors.New("academic year not found")
)

type (
	Repository interface {
		GetDepartment(ctx context.Context, filter GetFilter, exec ...core.DBExecutor) (Department, error)
		GetCourse(ctx context.Context, filter GetFilter, exec ...core.DBExecutor) (Course, error)
		GetAcademicYear(ctx context.Context, filter GetFilter, exec ...core.DBExecutor) (AcademicYear, error)
		// Query* return non-archived records ordered by display name (school year descending for academic years).
		QueryDepartments(ctx context.Context, exec ...core.DBExecutor) ([]Department, error)
		QueryCourses(ctx context.Context, exec ...core.DBExecutor) ([]Course, error)
		QueryAcademicYears(ctx context.Context, exec ...core.DBExecutor) ([]AcademicYear, error)
		CreateDepartment(ctx context.Context, dept Department, exec ...core.DBExecutor) (Department, error)
		CreateCourse(ctx context.Context, course Course, exec ...core.DBExecutor) (Course, error)
		CreateAcademicYear(ctx context.Context, year AcademicYear, exec ...core.DBExecutor) (AcademicYear, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) GetDepartment(ctx context.Context, filter GetFilter) (Department, error) {
	return svc.repo.GetDepartment(ctx, filter)
}

func (svc *Service) GetCourse(ctx context.Context, filter GetFilter) (Course, error) {
	return svc.repo.GetCourse(ctx, filter)
}

func (svc *Service) GetAcademicYear(ctx context.Context, filter GetFilter) (AcademicYear, error) {
	return svc.repo.GetAcademicYear(ctx, filter)
}

func (svc *Service) CreateDepartment(ctx context.Context, name string) (Department, error) {
	now := time.Now().UTC()
	return svc.repo.CreateDepartment(ctx, Department{Name: core.CleanString(name), CreatedAt: now, UpdatedAt: now})
}

func (svc *Service) CreateCourse(ctx context.Context, name string, departmentID int) (Course, error) {
	now := time.Now().UTC()
	return svc.repo.CreateCourse(ctx, Course{
		Name:         core.CleanString(name),
		DepartmentID: departmentID,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

func (svc *Service) CreateAcademicYear(ctx context.Context, schoolYear string) (AcademicYear, error) {
	now := time.Now().UTC()
	return svc.repo.CreateAcademicYear(ctx, AcademicYear{SchoolYear: core.CleanString(schoolYear), CreatedAt: now, UpdatedAt: now})
}

// Options returns the non-archived departments, courses and academic years.
func (svc *Service) Options(ctx context.Context) (Options, error) {
	var (
		opts Options
		err  error
	)
	if opts.Departments, err = svc.repo.QueryDepartments(ctx); err != nil {
		return Options{}, err
	}
	if opts.Courses, err = svc.repo.QueryCourses(ctx); err != nil {
		return Options{}, err
	}
	if opts.AcademicYears, err = svc.repo.QueryAcademicYears(ctx); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// Names returns the display names of all non-archived records keyed by ID.
func (svc *Service) Names(ctx context.Context) (Names, error) {
	opts, err := svc.Options(ctx)
	if err != nil {
		return Names{}, err
	}
	names := Names{
		Departments:   make(map[int]string, len(opts.Departments)),
		Courses:       make(map[int]string, len(opts.Courses)),
		AcademicYears: make(map[int]string, len(opts.AcademicYears)),
	}
	for _, d := range opts.Departments {
		names.Departments[d.ID] = d.Name
	}
	for _, c := range opts.Courses {
		names.Courses[c.ID] = c.Name
	}
	for _, y := range opts.AcademicYears {
		names.AcademicYears[y.ID] = y.SchoolYear
	}
	return names, nil
}
