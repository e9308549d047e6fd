package dummydb

import (
	"context"
	"sort"
	"strings"

	"github.com/trezcool/registrar/core"
	"github.com/trezcool/registrar/core/faculty"
)

type facultyRepository struct {
	db *facultyTable
}

var _ faculty.Repository = (*facultyRepository)(nil) // interface compliance check

func NewFacultyRepository(db *DB) faculty.Repository {
	return &facultyRepository{db: db.faculty}
}

func (repo *facultyRepository) GetFaculty(_ context.Context, filter faculty.GetFilter, _ ...core.DBExecutor) (faculty.Faculty, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if filter.ID > 0 {
		if f, ok := repo.db.table[filter.ID]; ok {
			return *f, nil
		}
		return faculty.Faculty{}, faculty.ErrNotFound
	}
	if filter.Email != "" {
		for _, f := range repo.db.table {
			if f.ID != filter.ExcludeID && strings.EqualFold(f.Email, filter.Email) {
				return *f, nil
			}
		}
	}
	return faculty.Faculty{}, faculty.ErrNotFound
}

func (repo *facultyRepository) QueryFaculty(_ context.Context, filter faculty.QueryFilter, _ []core.DBOrdering, _ ...core.DBExecutor) ([]faculty.Faculty, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	members := make([]faculty.Faculty, 0, len(repo.db.table))
	for _, f := range repo.db.table {
		switch {
		case !filter.IncludeArchived && f.ArchivedAt.Valid:
		case filter.DepartmentID > 0 && f.DepartmentID.Int != filter.DepartmentID:
		case filter.Status != "" && f.Status != filter.Status:
		case filter.Position != "" && !strings.EqualFold(f.Position.String, filter.Position):
		default:
			members = append(members, *f)
		}
	}
	sort.Slice(members, func(i, j int) bool { return members[i].ID < members[j].ID })
	return members, nil
}

func (repo *facultyRepository) UpdateOrCreateFaculty(_ context.Context, f faculty.Faculty, _ ...core.DBExecutor) (faculty.Faculty, bool, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	created := true
	if existing, ok := repo.db.table[f.ID]; ok && f.ID > 0 {
		created = false
		if f.CreatedAt.IsZero() {
			f.CreatedAt = existing.CreatedAt
		}
	} else {
		if f.ID == 0 {
			repo.db.pkCount++
			f.ID = repo.db.pkCount
		} else if f.ID > repo.db.pkCount {
			repo.db.pkCount = f.ID
		}
		if f.CreatedAt.IsZero() {
			f.CreatedAt = f.UpdatedAt
		}
	}
	repo.db.table[f.ID] = &f
	return f, created, nil
}
