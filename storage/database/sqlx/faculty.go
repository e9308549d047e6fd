package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/registrar/core"
	"github.com/trezcool/registrar/core/faculty"
)

const facultyColumns = "faculty_id, f_name, m_name, l_name, suffix, date_of_birth, age, sex, phone_number, " +
	"email_address, address, region, province, municipality, position, status, department_id, " +
	"created_at, updated_at, archived_at"

const (
	insertFacultyQ = `INSERT INTO faculty_profiles (` + facultyColumns + `) VALUES (
		:faculty_id, :f_name, :m_name, :l_name, :suffix, :date_of_birth, :age, :sex, :phone_number,
		:email_address, :address, :region, :province, :municipality, :position, :status, :department_id,
		:created_at, :updated_at, :archived_at)`

	insertFacultyAutoIDQ = `INSERT INTO faculty_profiles (
		f_name, m_name, l_name, suffix, date_of_birth, age, sex, phone_number,
		email_address, address, region, province, municipality, position, status, department_id,
		created_at, updated_at, archived_at) VALUES (
		:f_name, :m_name, :l_name, :suffix, :date_of_birth, :age, :sex, :phone_number,
		:email_address, :address, :region, :province, :municipality, :position, :status, :department_id,
		:created_at, :updated_at, :archived_at) RETURNING faculty_id`

	updateFacultyQ = `UPDATE faculty_profiles SET
		f_name = :f_name, m_name = :m_name, l_name = :l_name, suffix = :suffix,
		date_of_birth = :date_of_birth, age = :age, sex = :sex, phone_number = :phone_number,
		email_address = :email_address, address = :address, region = :region, province = :province,
		municipality = :municipality, position = :position, status = :status, department_id = :department_id,
		created_at = :created_at, updated_at = :updated_at, archived_at = :archived_at
		WHERE faculty_id = :faculty_id`
)

type facultyRepository struct {
	base
}

var _ faculty.Repository = (*facultyRepository)(nil) // interface compliance check

func NewFacultyRepository(db core.DB) *facultyRepository {
	return &facultyRepository{base{db: db}}
}

func (repo facultyRepository) GetFaculty(ctx context.Context, filter faculty.GetFilter, exec ...core.DBExecutor) (faculty.Faculty, error) {
	exe := repo.getExec(exec)
	q := "SELECT " + facultyColumns + " FROM faculty_profiles"

	var args []interface{}
	if filter.ID > 0 {
		q += " WHERE faculty_id = ?"
		args = append(args, filter.ID)
	} else if filter.Email != "" {
		q += " WHERE LOWER(email_address) = LOWER(?) AND faculty_id <> ? LIMIT 1"
		args = append(args, filter.Email, filter.ExcludeID)
	} else {
		return faculty.Faculty{}, faculty.ErrNotFound
	}

	var member faculty.Faculty
	if err := exe.GetContext(ctx, &member, exe.Rebind(q), args...); err != nil {
		return faculty.Faculty{}, trapNoRowsErr(err, faculty.ErrNotFound, "getting faculty")
	}
	return member, nil
}

func (repo facultyRepository) QueryFaculty(ctx context.Context, filter faculty.QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]faculty.Faculty, error) {
	exe := repo.getExec(exec)

	var w where
	if !filter.IncludeArchived {
		w.add("archived_at IS NULL")
	}
	if filter.DepartmentID > 0 {
		w.add("department_id = ?", filter.DepartmentID)
	}
	if filter.Status != "" {
		w.add("status = ?", filter.Status)
	}
	if filter.Position != "" {
		w.add("LOWER(position) = LOWER(?)", filter.Position)
	}

	q := "SELECT " + facultyColumns + " FROM faculty_profiles" + w.String() +
		orderBy(ordering, facultyColumns, "faculty_id ASC")

	members := make([]faculty.Faculty, 0)
	if err := exe.SelectContext(ctx, &members, exe.Rebind(q), w.args...); err != nil {
		return nil, errors.Wrap(err, "querying faculty")
	}
	return members, nil
}

func (repo facultyRepository) insert(ctx context.Context, exe core.DBExecutor, member *faculty.Faculty) error {
	if member.ID == 0 {
		q, args, err := exe.BindNamed(insertFacultyAutoIDQ, member)
		if err != nil {
			return errors.Wrap(err, "inserting faculty")
		}
		return errors.Wrap(exe.GetContext(ctx, &member.ID, q, args...), "inserting faculty")
	}

	q, args, err := exe.BindNamed(insertFacultyQ, member)
	if err != nil {
		return errors.Wrap(err, "inserting faculty")
	}
	if _, err = exe.ExecContext(ctx, q, args...); err != nil {
		return errors.Wrap(err, "inserting faculty")
	}
	return syncSequence(ctx, exe, "faculty_profiles", "faculty_id")
}

func (repo facultyRepository) UpdateOrCreateFaculty(ctx context.Context, member faculty.Faculty, exec ...core.DBExecutor) (faculty.Faculty, bool, error) {
	var created bool
	err := repo.inTx(ctx, exec, func(exe core.DBExecutor) error {
		if member.ID > 0 {
			existing, err := repo.GetFaculty(ctx, faculty.GetFilter{ID: member.ID}, exe)
			if err == nil {
				if member.CreatedAt.IsZero() {
					member.CreatedAt = existing.CreatedAt
				}
				q, args, err := exe.BindNamed(updateFacultyQ, member)
				if err != nil {
					return errors.Wrap(err, "updating faculty")
				}
				_, err = exe.ExecContext(ctx, q, args...)
				return errors.Wrap(err, "updating faculty")
			}
			if !errors.Is(err, faculty.ErrNotFound) {
				return err
			}
		}

		created = true
		if member.CreatedAt.IsZero() {
			member.CreatedAt = member.UpdatedAt
		}
		return repo.insert(ctx, exe, &member)
	})
	if err != nil {
		return faculty.Faculty{}, false, err
	}
	return member, created, nil
}
