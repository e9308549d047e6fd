package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/registrar/core"
	"github.com/trezcool/registrar/core/student"
)

const studentColumns = "student_id, f_name, m_name, l_name, suffix, date_of_birth, age, sex, phone_number, " +
	"email_address, address, region, province, municipality, status, department_id, course_id, " +
	"academic_year_id, year_level, created_at, updated_at, archived_at"

const (
	insertStudentQ = `INSERT INTO student_profiles (` + studentColumns + `) VALUES (
		:student_id, :f_name, :m_name, :l_name, :suffix, :date_of_birth, :age, :sex, :phone_number,
		:email_address, :address, :region, :province, :municipality, :status, :department_id, :course_id,
		:academic_year_id, :year_level, :created_at, :updated_at, :archived_at)`

	insertStudentAutoIDQ = `INSERT INTO student_profiles (
		f_name, m_name, l_name, suffix, date_of_birth, age, sex, phone_number,
		email_address, address, region, province, municipality, status, department_id, course_id,
		academic_year_id, year_level, created_at, updated_at, archived_at) VALUES (
		:f_name, :m_name, :l_name, :suffix, :date_of_birth, :age, :sex, :phone_number,
		:email_address, :address, :region, :province, :municipality, :status, :department_id, :course_id,
		:academic_year_id, :year_level, :created_at, :updated_at, :archived_at) RETURNING student_id`

	updateStudentQ = `UPDATE student_profiles SET
		f_name = :f_name, m_name = :m_name, l_name = :l_name, suffix = :suffix,
		date_of_birth = :date_of_birth, age = :age, sex = :sex, phone_number = :phone_number,
		email_address = :email_address, address = :address, region = :region, province = :province,
		municipality = :municipality, status = :status, department_id = :department_id,
		course_id = :course_id, academic_year_id = :academic_year_id, year_level = :year_level,
		created_at = :created_at, updated_at = :updated_at, archived_at = :archived_at
		WHERE student_id = :student_id`
)

type studentRepository struct {
	base
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db core.DB) *studentRepository {
	return &studentRepository{base{db: db}}
}

func (repo studentRepository) GetStudent(ctx context.Context, filter student.GetFilter, exec ...core.DBExecutor) (student.Student, error) {
	exe := repo.getExec(exec)
	q := "SELECT " + studentColumns + " FROM student_profiles"

	var args []interface{}
	switch {
	case filter.ID > 0:
		q += " WHERE student_id = ?"
		args = append(args, filter.ID)
	case filter.Email != "":
		q += " WHERE LOWER(email_address) = LOWER(?) AND student_id <> ? LIMIT 1"
		args = append(args, filter.Email, filter.ExcludeID)
	default:
		return student.Student{}, student.ErrNotFound
	}

	var s student.Student
	if err := exe.GetContext(ctx, &s, exe.Rebind(q), args...); err != nil {
		return student.Student{}, trapNoRowsErr(err, student.ErrNotFound, "getting student")
	}
	return s, nil
}

func (repo studentRepository) QueryStudents(ctx context.Context, filter student.QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]student.Student, error) {
	exe := repo.getExec(exec)

	var w where
	if !filter.IncludeArchived {
		w.add("archived_at IS NULL")
	}
	if filter.DepartmentID > 0 {
		w.add("department_id = ?", filter.DepartmentID)
	}
	if filter.CourseID > 0 {
		w.add("course_id = ?", filter.CourseID)
	}
	if filter.AcademicYearID > 0 {
		w.add("academic_year_id = ?", filter.AcademicYearID)
	}
	if filter.Status != "" {
		w.add("status = ?", filter.Status)
	}

	q := "SELECT " + studentColumns + " FROM student_profiles" + w.String() +
		orderBy(ordering, studentColumns, "student_id ASC")

	students := make([]student.Student, 0)
	if err := exe.SelectContext(ctx, &students, exe.Rebind(q), w.args...); err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	return students, nil
}

func (repo studentRepository) UpdateOrCreateStudent(ctx context.Context, s student.Student, exec ...core.DBExecutor) (student.Student, bool, error) {
	var created bool
	err := repo.inTx(ctx, exec, func(exe core.DBExecutor) error {
		if s.ID > 0 {
			existing, err := repo.GetStudent(ctx, student.GetFilter{ID: s.ID}, exe)
			switch {
			case err == nil:
				if s.CreatedAt.IsZero() {
					s.CreatedAt = existing.CreatedAt
				}
				q, args, err := exe.BindNamed(updateStudentQ, s)
				if err != nil {
					return errors.Wrap(err, "updating student")
				}
				_, err = exe.ExecContext(ctx, q, args...)
				return errors.Wrap(err, "updating student")
			case !errors.Is(err, student.ErrNotFound):
				return err
			}
		}

		created = true
		if s.CreatedAt.IsZero() {
			s.CreatedAt = s.UpdatedAt
		}
		if s.ID > 0 {
			q, args, err := exe.BindNamed(insertStudentQ, s)
			if err != nil {
				return errors.Wrap(err, "inserting student")
			}
			if _, err = exe.ExecContext(ctx, q, args...); err != nil {
				return errors.Wrap(err, "inserting student")
			}
			return syncSequence(ctx, exe, "student_profiles", "student_id")
		}

		q, args, err := exe.BindNamed(insertStudentAutoIDQ, s)
		if err != nil {
			return errors.Wrap(err, "inserting student")
		}
		return errors.Wrap(exe.GetContext(ctx, &s.ID, q, args...), "inserting student")
	})
	if err != nil {
		return student.Student{}, false, err
	}
	return s, created, nil
}
