package student

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/trezcool/registrar/core"
)

var (
	// errors
	ErrNotFound      = errors.New("student not found")
	ErrInvalidStatus = errors.New("invalid student status")
)

type (
	Repository interface {
		GetStudent(ctx context.Context, filter GetFilter, exec ...core.DBExecutor) (Student, error)
		QueryStudents(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]Student, error)
		// UpdateOrCreateStudent updates the student with `s.ID` if it exists, or inserts it otherwise
		// (with `s.ID` when set). Reports whether a new student was created.
		UpdateOrCreateStudent(ctx context.Context, s Student, exec ...core.DBExecutor) (Student, bool, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) GetByID(ctx context.Context, id int) (Student, error) {
	return svc.repo.GetStudent(ctx, GetFilter{ID: id})
}

// GetByEmail finds the student owning `email` (case-insensitive), ignoring the student `excludeID`.
func (svc *Service) GetByEmail(ctx context.Context, email string, excludeID int) (Student, error) {
	return svc.repo.GetStudent(ctx, GetFilter{Email: core.CleanString(email, true /* lower */), ExcludeID: excludeID})
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering) ([]Student, error) {
	if len(ordering) == 0 {
		ordering = []core.DBOrdering{{Field: "student_id", Ascending: true}}
	}
	return svc.repo.QueryStudents(ctx, filter, ordering)
}

func (svc *Service) UpdateOrCreate(ctx context.Context, s Student) (Student, bool, error) {
	s.Email = core.CleanString(s.Email, true /* lower */)
	s.Status = core.CleanString(s.Status, true /* lower */)
	if s.Status == "" {
		s.Status = StatusActive
	}
	if !isValidStatus(s.Status) {
		err := fmt.Errorf("%w '%s'", ErrInvalidStatus, s.Status)
		return Student{}, false, core.NewValidationError(err, core.FieldError{Field: "status", Error: err.Error()})
	}

	s.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateOrCreateStudent(ctx, s)
}

func isValidStatus(status string) bool {
	for _, s := range Statuses {
		if s == status {
			return true
		}
	}
	return false
}
