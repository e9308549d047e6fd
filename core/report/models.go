package report

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/registrar/core"
	"github.com/trezcool/registrar/core/reconcile"
)

// Report formats
const (
	FormatJSON   = "json"
	FormatSheets = "sheets"
)

// StatusArchived filters on archived profiles, which reports exclude; the report is then empty.
const StatusArchived = "archived"

// Report status filters
var (
	StudentStatusFilters = []string{"active", "inactive", "graduated", StatusArchived}
	FacultyStatusFilters = []string{"active", "inactive", StatusArchived}
)

// GenerateRequest filters the full student or faculty report.
type GenerateRequest struct {
	Type           string `json:"type" query:"type" validate:"required,oneof=student faculty"`
	Format         string `json:"format" query:"format" validate:"omitempty,oneof=json sheets"`
	DepartmentID   int    `json:"department_id" query:"department_id" validate:"omitempty,min=1"`
	CourseID       int    `json:"course_id" query:"course_id" validate:"omitempty,min=1"`
	AcademicYearID int    `json:"academic_year_id" query:"academic_year_id" validate:"omitempty,min=1"`
	Status         string `json:"status" query:"status"`
	Tab            string `json:"tab" query:"tab" validate:"sheet_tab"`

	Ordering []core.DBOrdering `json:"-" query:"-"`
}

func (r *GenerateRequest) Clean() {
	r.Type = core.CleanString(r.Type, true /* lower */)
	r.Format = core.CleanString(r.Format, true /* lower */)
	if r.Format == "" {
		r.Format = FormatJSON
	}
	r.Status = core.CleanString(r.Status, true /* lower */)
	r.Tab = core.CleanString(r.Tab)
}

func (r *GenerateRequest) Validate(validate *validator.Validate) error {
	r.Clean()
	if err := validate.Struct(r); err != nil {
		return err
	}
	return validateStatusFilter(r.Type, r.Status)
}

func validateStatusFilter(typ, status string) error {
	if status == "" {
		return nil
	}
	allowed := StudentStatusFilters
	if typ == "faculty" {
		allowed = FacultyStatusFilters
	}
	for _, s := range allowed {
		if s == status {
			return nil
		}
	}
	return core.NewValidationError(
		errors.Errorf("invalid %s status filter '%s'", typ, status),
		core.FieldError{Field: "status", Error: "must be one of: " + strings.Join(allowed, ", ")},
	)
}

// RosterRequest exports the roster of a department (faculty) or course (students) to its own tab.
// Without a department or course, every non-archived profile is exported.
type RosterRequest struct {
	Type         string `json:"type" validate:"required,oneof=student faculty"`
	DepartmentID int    `json:"department_id" validate:"omitempty,min=1"`
	CourseID     int    `json:"course_id" validate:"omitempty,min=1"`
}

func (r *RosterRequest) Clean() {
	r.Type = core.CleanString(r.Type, true /* lower */)
}

func (r *RosterRequest) Validate(validate *validator.Validate) error {
	r.Clean()
	return validate.Struct(r)
}

// ImportRequest imports a tab; the tab is resolved when empty.
type ImportRequest struct {
	Type string  `json:"type" validate:"required,oneof=student faculty"`
	Tab  *string `json:"tab" validate:"omitempty,sheet_tab"`
}

func (r *ImportRequest) Clean() {
	r.Type = core.CleanString(r.Type, true /* lower */)
}

func (r *ImportRequest) Validate(validate *validator.Validate) error {
	r.Clean()
	return validate.Struct(r)
}

// Report is a tabular report.
type Report struct {
	Headers []string        `json:"headers"`
	Rows    [][]interface{} `json:"rows"`
}

// ExportResult describes a written tab.
type ExportResult struct {
	Tab            string `json:"tab"`
	Rows           int    `json:"rows"`
	SpreadsheetURL string `json:"spreadsheet_url"`
}

// ImportResult wraps an import outcome with the message shown to admins.
type ImportResult struct {
	reconcile.Outcome
	Message string `json:"message"`
}
