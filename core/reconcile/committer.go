package reconcile

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/registrar/core/faculty"
	"github.com/trezcool/registrar/core/student"
)

type (
	StudentStore interface {
		GetByEmail(ctx context.Context, email string, excludeID int) (student.Student, error)
		UpdateOrCreate(ctx context.Context, s student.Student) (student.Student, bool, error)
	}

	FacultyStore interface {
		GetByEmail(ctx context.Context, email string, excludeID int) (faculty.Faculty, error)
		UpdateOrCreate(ctx context.Context, f faculty.Faculty) (faculty.Faculty, bool, error)
	}

	// target is the persistence side of one entity.
	target interface {
		// emailOwner returns the ID of the record owning `email` other than `excludeID`, or 0.
		emailOwner(ctx context.Context, email string, excludeID int) (int, error)
		// commit upserts the record and reports whether it was created.
		commit(ctx context.Context, rec Record) (bool, error)
	}
)

type studentTarget struct {
	store StudentStore
}

var _ target = (*studentTarget)(nil)

func (t studentTarget) emailOwner(ctx context.Context, email string, excludeID int) (int, error) {
	s, err := t.store.GetByEmail(ctx, email, excludeID)
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return 0, nil
		}
		return 0, err
	}
	return s.ID, nil
}

func (t studentTarget) commit(ctx context.Context, rec Record) (bool, error) {
	ts, err := parseTimestamps(rec)
	if err != nil {
		return false, err
	}
	_, created, err := t.store.UpdateOrCreate(ctx, student.Student{
		ID:             rec.ID.Int,
		FirstName:      rec.FirstName,
		MiddleName:     rec.MiddleName,
		LastName:       rec.LastName,
		Suffix:         rec.Suffix,
		DateOfBirth:    ts.dob,
		Age:            rec.Age,
		Sex:            rec.Sex,
		PhoneNumber:    rec.PhoneNumber,
		Email:          rec.Email,
		Address:        rec.Address,
		Region:         rec.Region,
		Province:       rec.Province,
		Municipality:   rec.Municipality,
		Status:         rec.Status,
		DepartmentID:   rec.DepartmentID,
		CourseID:       rec.CourseID,
		AcademicYearID: rec.AcademicYearID,
		YearLevel:      rec.YearLevel,
		CreatedAt:      ts.created,
		ArchivedAt:     ts.archived,
	})
	return created, err
}

type facultyTarget struct {
	store FacultyStore
}

var _ target = (*facultyTarget)(nil)

func (t facultyTarget) emailOwner(ctx context.Context, email string, excludeID int) (int, error) {
	f, err := t.store.GetByEmail(ctx, email, excludeID)
	if err != nil {
		if errors.Cause(err) == faculty.ErrNotFound {
			return 0, nil
		}
		return 0, err
	}
	return f.ID, nil
}

func (t facultyTarget) commit(ctx context.Context, rec Record) (bool, error) {
	ts, err := parseTimestamps(rec)
	if err != nil {
		return false, err
	}
	_, created, err := t.store.UpdateOrCreate(ctx, faculty.Faculty{
		ID:           rec.ID.Int,
		FirstName:    rec.FirstName,
		MiddleName:   rec.MiddleName,
		LastName:     rec.LastName,
		Suffix:       rec.Suffix,
		DateOfBirth:  ts.dob,
		Age:          rec.Age,
		Sex:          rec.Sex,
		PhoneNumber:  rec.PhoneNumber,
		Email:        rec.Email,
		Address:      rec.Address,
		Region:       rec.Region,
		Province:     rec.Province,
		Municipality: rec.Municipality,
		Position:     rec.Position,
		Status:       rec.Status,
		DepartmentID: rec.DepartmentID,
		CreatedAt:    ts.created,
		ArchivedAt:   ts.archived,
	})
	return created, err
}

type timestamps struct {
	dob      null.Time
	created  time.Time // zero when absent
	archived null.Time
}

// parseTimestamps parses the date cells of a record. updated_at is always set by the store.
func parseTimestamps(rec Record) (timestamps, error) {
	var ts timestamps
	if rec.DateOfBirth.Valid {
		t, err := ParseDate(rec.DateOfBirth.String)
		if err != nil {
			return ts, errors.Wrap(err, "date_of_birth")
		}
		ts.dob = null.TimeFrom(t)
	}
	if rec.CreatedAt.Valid {
		t, err := ParseDate(rec.CreatedAt.String)
		if err != nil {
			return ts, errors.Wrap(err, "created_at")
		}
		ts.created = t
	}
	if rec.ArchivedAt.Valid {
		t, err := ParseDate(rec.ArchivedAt.String)
		if err != nil {
			return ts, errors.Wrap(err, "archived_at")
		}
		ts.archived = null.TimeFrom(t)
	}
	return ts, nil
}
