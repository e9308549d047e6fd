package dummydb

import (
	"context"
	"sort"

	"github.com/trezcool/registrar/core"
	"github.com/trezcool/registrar/core/school"
)

type schoolRepository struct {
	db *schoolTables
}

var _ school.Repository = (*schoolRepository)(nil) // interface compliance check

func NewSchoolRepository(db *DB) school.Repository {
	return &schoolRepository{db: db.school}
}

func (repo *schoolRepository) GetDepartment(_ context.Context, filter school.GetFilter, _ ...core.DBExecutor) (school.Department, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if filter.ID > 0 {
		if d, ok := repo.db.departments[filter.ID]; ok {
			return *d, nil
		}
		return school.Department{}, school.ErrDepartmentNotFound
	}
	for _, d := range repo.sortedDepartments() {
		if filter.Name != "" && d.Name == filter.Name {
			return d, nil
		}
	}
	return school.Department{}, school.ErrDepartmentNotFound
}

func (repo *schoolRepository) GetCourse(_ context.Context, filter school.GetFilter, _ ...core.DBExecutor) (school.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if filter.ID > 0 {
		if c, ok := repo.db.courses[filter.ID]; ok {
			return *c, nil
		}
		return school.Course{}, school.ErrCourseNotFound
	}
	for _, c := range repo.sortedCourses() {
		if filter.Name != "" && c.Name == filter.Name {
			return c, nil
		}
	}
	return school.Course{}, school.ErrCourseNotFound
}

func (repo *schoolRepository) GetAcademicYear(_ context.Context, filter school.GetFilter, _ ...core.DBExecutor) (school.AcademicYear, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if filter.ID > 0 {
		if y, ok := repo.db.academicYears[filter.ID]; ok {
			return *y, nil
		}
		return school.AcademicYear{}, school.ErrAcademicYearNotFound
	}
	for _, y := range repo.db.academicYears {
		if filter.Name != "" && y.SchoolYear == filter.Name {
			return *y, nil
		}
	}
	return school.AcademicYear{}, school.ErrAcademicYearNotFound
}

// sorted* return records by ID
func (repo *schoolRepository) sortedDepartments() []school.Department {
	depts := make([]school.Department, 0, len(repo.db.departments))
	for _, d := range repo.db.departments {
		depts = append(depts, *d)
	}
	sort.Slice(depts, func(i, j int) bool { return depts[i].ID < depts[j].ID })
	return depts
}

func (repo *schoolRepository) sortedCourses() []school.Course {
	courses := make([]school.Course, 0, len(repo.db.courses))
	for _, c := range repo.db.courses {
		courses = append(courses, *c)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].ID < courses[j].ID })
	return courses
}

func (repo *schoolRepository) QueryDepartments(context.Context, ...core.DBExecutor) ([]school.Department, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	depts := make([]school.Department, 0, len(repo.db.departments))
	for _, d := range repo.sortedDepartments() {
		if !d.ArchivedAt.Valid {
			depts = append(depts, d)
		}
	}
	sort.SliceStable(depts, func(i, j int) bool { return depts[i].Name < depts[j].Name })
	return depts, nil
}

func (repo *schoolRepository) QueryCourses(context.Context, ...core.DBExecutor) ([]school.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	courses := make([]school.Course, 0, len(repo.db.courses))
	for _, c := range repo.sortedCourses() {
		if !c.ArchivedAt.Valid {
			courses = append(courses, c)
		}
	}
	sort.SliceStable(courses, func(i, j int) bool { return courses[i].Name < courses[j].Name })
	return courses, nil
}

func (repo *schoolRepository) QueryAcademicYears(context.Context, ...core.DBExecutor) ([]school.AcademicYear, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	years := make([]school.AcademicYear, 0, len(repo.db.academicYears))
	for _, y := range repo.db.academicYears {
		if !y.ArchivedAt.Valid {
			years = append(years, *y)
		}
	}
	sort.Slice(years, func(i, j int) bool { return years[i].SchoolYear > years[j].SchoolYear })
	return years, nil
}

func (repo *schoolRepository) CreateDepartment(_ context.Context, dept school.Department, _ ...core.DBExecutor) (school.Department, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.pkCount++
	dept.ID = repo.db.pkCount
	repo.db.departments[dept.ID] = &dept
	return dept, nil
}

func (repo *schoolRepository) CreateCourse(_ context.Context, course school.Course, _ ...core.DBExecutor) (school.Course, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.pkCount++
	course.ID = repo.db.pkCount
	repo.db.courses[course.ID] = &course
	return course, nil
}

func (repo *schoolRepository) CreateAcademicYear(_ context.Context, year school.AcademicYear, _ ...core.DBExecutor) (school.AcademicYear, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.pkCount++
	year.ID = repo.db.pkCount
	repo.db.academicYears[year.ID] = &year
	return year, nil
}
