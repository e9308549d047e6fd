package faculty

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/registrar/core"
)

var (
	// errors
	ErrNotFound        = errors.New("faculty not found")
	ErrInvalidStatus   = errors.New("invalid faculty status")
	ErrInvalidPosition = errors.New("invalid faculty position")
)

type (
	Repository interface {
		GetFaculty(ctx context.Context, filter GetFilter, exec ...core.DBExecutor) (Faculty, error)
		QueryFaculty(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]Faculty, error)
		// UpdateOrCreateFaculty updates the faculty member with `f.ID` if it exists, or inserts it otherwise
		// (with `f.ID` when set). Reports whether a new faculty member was created.
		UpdateOrCreateFaculty(ctx context.Context, f Faculty, exec ...core.DBExecutor) (Faculty, bool, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) GetByID(ctx context.Context, id int) (Faculty, error) {
	return svc.repo.GetFaculty(ctx, GetFilter{ID: id})
}

// GetByEmail finds the faculty member owning `email` (case-insensitive), ignoring the faculty member `excludeID`.
func (svc *Service) GetByEmail(ctx context.Context, email string, excludeID int) (Faculty, error) {
	return svc.repo.GetFaculty(ctx, GetFilter{Email: core.CleanString(email, true /* lower */), ExcludeID: excludeID})
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering) ([]Faculty, error) {
	if len(ordering) == 0 {
		ordering = []core.DBOrdering{{Field: "faculty_id", Ascending: true}}
	}
	return svc.repo.QueryFaculty(ctx, filter, ordering)
}

func (svc *Service) UpdateOrCreate(ctx context.Context, f Faculty) (Faculty, bool, error) {
	f.Email = core.CleanString(f.Email, true /* lower */)
	f.Status = core.CleanString(f.Status, true /* lower */)
	if f.Status == "" {
		f.Status = StatusActive
	}
	if !contains(Statuses, f.Status) {
		err := fmt.Errorf("%w '%s'", ErrInvalidStatus, f.Status)
		return Faculty{}, false, core.NewValidationError(err, core.FieldError{Field: "status", Error: err.Error()})
	}

	if pos := core.CleanString(f.Position.String); pos == "" {
		f.Position = null.String{}
	} else if canonical, ok := canonicalPosition(pos); ok {
		f.Position = null.StringFrom(canonical)
	} else {
		err := fmt.Errorf("%w '%s'", ErrInvalidPosition, pos)
		return Faculty{}, false, core.NewValidationError(err, core.FieldError{Field: "position", Error: err.Error()})
	}

	f.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateOrCreateFaculty(ctx, f)
}

// canonicalPosition matches a position case-insensitively, e.g. "part-time" => "Part-time".
func canonicalPosition(pos string) (string, bool) {
	for _, p := range Positions {
		if strings.EqualFold(p, pos) {
			return p, true
		}
	}
	return "", false
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
