package dummydb

import (
	"sync"

	"github.com/trezcool/registrar/core/faculty"
	"github.com/trezcool/registrar/core/school"
	"github.com/trezcool/registrar/core/student"
)

type (
	// DB is an in-memory database for tests and local runs.
	DB struct {
		school  *schoolTables
		student *studentTable
		faculty *facultyTable
	}

	schoolTables struct {
		sync.RWMutex
		departments   map[int]*school.Department
		courses       map[int]*school.Course
		academicYears map[int]*school.AcademicYear
		pkCount       int
	}

	studentTable struct {
		sync.RWMutex
		table   map[int]*student.Student
		pkCount int
	}

	facultyTable struct {
		sync.RWMutex
		table   map[int]*faculty.Faculty
		pkCount int
	}
)

func Open() (*DB, error) {
	db := &DB{
		school: &schoolTables{
			departments:   make(map[int]*school.Department),
			courses:       make(map[int]*school.Course),
			academicYears: make(map[int]*school.AcademicYear),
		},
		student: &studentTable{table: make(map[int]*student.Student)},
		faculty: &facultyTable{table: make(map[int]*faculty.Faculty)},
	}
	return db, nil
}
