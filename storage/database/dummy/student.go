package dummydb

import (
	"context"
	"sort"
	"strings"

	"github.com/trezcool/registrar/core"
	"github.com/trezcool/registrar/core/student"
)

type studentRepository struct {
	db *studentTable
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{db: db.student}
}

func (repo *studentRepository) GetStudent(_ context.Context, filter student.GetFilter, _ ...core.DBExecutor) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if filter.ID > 0 {
		if s, ok := repo.db.table[filter.ID]; ok {
			return *s, nil
		}
		return student.Student{}, student.ErrNotFound
	}
	if filter.Email != "" {
		for _, s := range repo.db.table {
			if s.ID != filter.ExcludeID && strings.EqualFold(s.Email, filter.Email) {
				return *s, nil
			}
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) QueryStudents(_ context.Context, filter student.QueryFilter, ordering []core.DBOrdering, _ ...core.DBExecutor) ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	students := make([]student.Student, 0, len(repo.db.table))
	for _, s := range repo.db.table {
		if !filter.IncludeArchived && s.ArchivedAt.Valid {
			continue
		}
		if filter.DepartmentID > 0 && s.DepartmentID.Int != filter.DepartmentID {
			continue
		}
		if filter.CourseID > 0 && s.CourseID.Int != filter.CourseID {
			continue
		}
		if filter.AcademicYearID > 0 && s.AcademicYearID.Int != filter.AcademicYearID {
			continue
		}
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		students = append(students, *s)
	}

	// only ID ordering is supported
	desc := len(ordering) > 0 && ordering[0].Field == "student_id" && !ordering[0].Ascending
	sort.Slice(students, func(i, j int) bool {
		if desc {
			return students[i].ID > students[j].ID
		}
		return students[i].ID < students[j].ID
	})
	return students, nil
}

func (repo *studentRepository) UpdateOrCreateStudent(_ context.Context, s student.Student, _ ...core.DBExecutor) (student.Student, bool, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if existing, ok := repo.db.table[s.ID]; ok && s.ID > 0 {
		if s.CreatedAt.IsZero() {
			s.CreatedAt = existing.CreatedAt
		}
		repo.db.table[s.ID] = &s
		return s, false, nil
	}

	if s.ID == 0 {
		repo.db.pkCount++
		s.ID = repo.db.pkCount
	} else if s.ID > repo.db.pkCount {
		repo.db.pkCount = s.ID
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = s.UpdatedAt
	}
	repo.db.table[s.ID] = &s
	return s, true, nil
}
