package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/trezcool/registrar/core"
	"github.com/trezcool/registrar/core/school"
)

const (
	departmentColumns   = "department_id, department_name, department_head_id, created_at, updated_at, archived_at"
	courseColumns       = "course_id, course_name, department_id, created_at, updated_at, archived_at"
	academicYearColumns = "academic_year_id, school_year, created_at, updated_at, archived_at"
)

type schoolRepository struct {
	base
}

var _ school.Repository = (*schoolRepository)(nil) // interface compliance check

func NewSchoolRepository(db core.DB) *schoolRepository {
	return &schoolRepository{base{db: db}}
}

// getOne runs a by-ID or else by-name lookup. An empty filter matches nothing.
func getOne(ctx context.Context, exe core.DBExecutor, dest interface{}, table, columns, idCol, nameCol string, filter school.GetFilter) error {
	q := "SELECT " + columns + " FROM " + table
	var arg interface{}
	switch {
	case filter.ID > 0:
		q += " WHERE " + idCol + " = ?"
		arg = filter.ID
	case filter.Name != "":
		q += " WHERE " + nameCol + " = ? ORDER BY " + idCol + " LIMIT 1"
		arg = filter.Name
	default:
		return sql.ErrNoRows
	}
	return exe.GetContext(ctx, dest, exe.Rebind(q), arg)
}

func (repo schoolRepository) GetDepartment(ctx context.Context, filter school.GetFilter, exec ...core.DBExecutor) (school.Department, error) {
	var dept school.Department
	err := getOne(ctx, repo.getExec(exec), &dept, "departments", departmentColumns, "department_id", "department_name", filter)
	if err != nil {
		return school.Department{}, trapNoRowsErr(err, school.ErrDepartmentNotFound, "getting department")
	}
	return dept, nil
}

func (repo schoolRepository) GetCourse(ctx context.Context, filter school.GetFilter, exec ...core.DBExecutor) (school.Course, error) {
	var course school.Course
	err := getOne(ctx, repo.getExec(exec), &course, "courses", courseColumns, "course_id", "course_name", filter)
	if err != nil {
		return school.Course{}, trapNoRowsErr(err, school.ErrCourseNotFound, "getting course")
	}
	return course, nil
}

func (repo schoolRepository) GetAcademicYear(ctx context.Context, filter school.GetFilter, exec ...core.DBExecutor) (school.AcademicYear, error) {
	var year school.AcademicYear
	err := getOne(ctx, repo.getExec(exec), &year, "academic_years", academicYearColumns, "academic_year_id", "school_year", filter)
	if err != nil {
		return school.AcademicYear{}, trapNoRowsErr(err, school.ErrAcademicYearNotFound, "getting academic year")
	}
	return year, nil
}

func (repo schoolRepository) QueryDepartments(ctx context.Context, exec ...core.DBExecutor) ([]school.Department, error) {
	depts := make([]school.Department, 0)
	q := "SELECT " + departmentColumns + " FROM departments WHERE archived_at IS NULL ORDER BY department_name ASC"
	if err := repo.getExec(exec).SelectContext(ctx, &depts, q); err != nil {
		return nil, errors.Wrap(err, "querying departments")
	}
	return depts, nil
}

func (repo schoolRepository) QueryCourses(ctx context.Context, exec ...core.DBExecutor) ([]school.Course, error) {
	courses := make([]school.Course, 0)
	q := "SELECT " + courseColumns + " FROM courses WHERE archived_at IS NULL ORDER BY course_name ASC"
	if err := repo.getExec(exec).SelectContext(ctx, &courses, q); err != nil {
		return nil, errors.Wrap(err, "querying courses")
	}
	return courses, nil
}

func (repo schoolRepository) QueryAcademicYears(ctx context.Context, exec ...core.DBExecutor) ([]school.AcademicYear, error) {
	years := make([]school.AcademicYear, 0)
	q := "SELECT " + academicYearColumns + " FROM academic_years WHERE archived_at IS NULL ORDER BY school_year DESC"
	if err := repo.getExec(exec).SelectContext(ctx, &years, q); err != nil {
		return nil, errors.Wrap(err, "querying academic years")
	}
	return years, nil
}

func (repo schoolRepository) CreateDepartment(ctx context.Context, dept school.Department, exec ...core.DBExecutor) (school.Department, error) {
	exe := repo.getExec(exec)
	q, args, err := exe.BindNamed(`INSERT INTO departments (department_name, department_head_id, created_at, updated_at, archived_at)
		VALUES (:department_name, :department_head_id, :created_at, :updated_at, :archived_at) RETURNING department_id`, dept)
	if err != nil {
		return school.Department{}, errors.Wrap(err, "inserting department")
	}
	if err = exe.GetContext(ctx, &dept.ID, q, args...); err != nil {
		return school.Department{}, errors.Wrap(err, "inserting department")
	}
	return dept, nil
}

func (repo schoolRepository) CreateCourse(ctx context.Context, course school.Course, exec ...core.DBExecutor) (school.Course, error) {
	exe := repo.getExec(exec)
	q, args, err := exe.BindNamed(`INSERT INTO courses (course_name, department_id, created_at, updated_at, archived_at)
		VALUES (:course_name, :department_id, :created_at, :updated_at, :archived_at) RETURNING course_id`, course)
	if err != nil {
		return school.Course{}, errors.Wrap(err, "inserting course")
	}
	if err = exe.GetContext(ctx, &course.ID, q, args...); err != nil {
		return school.Course{}, errors.Wrap(err, "inserting course")
	}
	return course, nil
}

func (repo schoolRepository) CreateAcademicYear(ctx context.Context, year school.AcademicYear, exec ...core.DBExecutor) (school.AcademicYear, error) {
	exe := repo.getExec(exec)
	q, args, err := exe.BindNamed(`INSERT INTO academic_years (school_year, created_at, updated_at, archived_at)
		VALUES (:school_year, :created_at, :updated_at, :archived_at) RETURNING academic_year_id`, year)
	if err != nil {
		return school.AcademicYear{}, errors.Wrap(err, "inserting academic year")
	}
	if err = exe.GetContext(ctx, &year.ID, q, args...); err != nil {
		return school.AcademicYear{}, errors.Wrap(err, "inserting academic year")
	}
	return year, nil
}
