package report

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/trezcool/registrar/core"
	"github.com/trezcool/registrar/core/faculty"
	"github.com/trezcool/registrar/core/reconcile"
	"github.com/trezcool/registrar/core/school"
	"github.com/trezcool/registrar/core/student"
)

// Import messages
const (
	MsgImportSucceeded = "Import completed successfully."
	MsgImportFailed    = "Import halted due to duplicate or invalid rows."
	MsgImportDuplicate = "Import halted due to duplicate email addresses."
)

type (
	Deps struct {
		Schools        *school.Service
		Students       *student.Service
		Faculty        *faculty.Service
		Reconciler     *reconcile.Service
		Mail           core.EmailService
		Recipients     []mail.Address // import report recipients; no report is sent if empty
		SpreadsheetURL string
		Logger         core.Logger
	}

	Service struct {
		schools        *school.Service
		students       *student.Service
		faculty        *faculty.Service
		reconciler     *reconcile.Service
		mail           core.EmailService
		recipients     []mail.Address
		spreadsheetURL string
		logger         core.Logger
	}
)

func NewService(deps Deps) (*Service, error) {
	err := vala.BeginValidation().Validate(
		vala.IsNotNil(deps.Schools, "Schools"),
		vala.IsNotNil(deps.Students, "Students"),
		vala.IsNotNil(deps.Faculty, "Faculty"),
		vala.IsNotNil(deps.Reconciler, "Reconciler"),
		vala.IsNotNil(deps.Mail, "Mail"),
		vala.IsNotNil(deps.Logger, "Logger"),
	).Check()
	if err != nil {
		return nil, errors.Wrap(err, "creating report service")
	}
	return &Service{
		schools:        deps.Schools,
		students:       deps.Students,
		faculty:        deps.Faculty,
		reconciler:     deps.Reconciler,
		mail:           deps.Mail,
		recipients:     deps.Recipients,
		spreadsheetURL: deps.SpreadsheetURL,
		logger:         deps.Logger,
	}, nil
}

// Options lists the non-archived departments, courses and academic years.
func (svc *Service) Options(ctx context.Context) (school.Options, error) {
	return svc.schools.Options(ctx)
}

// Generate builds the filtered full report of non-archived students or faculty.
func (svc *Service) Generate(ctx context.Context, req GenerateRequest) (Report, error) {
	entity, err := reconcile.ParseEntity(req.Type)
	if err != nil {
		return Report{}, err
	}
	names, err := svc.schools.Names(ctx)
	if err != nil {
		return Report{}, errors.Wrap(err, "loading names")
	}

	rep := Report{Headers: reconcile.Headers(entity, reconcile.Current)}
	switch entity {
	case reconcile.Students:
		students, err := svc.students.Query(ctx, student.QueryFilter{
			DepartmentID:   req.DepartmentID,
			CourseID:       req.CourseID,
			AcademicYearID: req.AcademicYearID,
			Status:         req.Status,
		}, req.Ordering)
		if err != nil {
			return Report{}, errors.Wrap(err, "querying students")
		}
		rep.Rows = reconcile.StudentRows(students, names, reconcile.Current)
	case reconcile.Faculty:
		members, err := svc.faculty.Query(ctx, faculty.QueryFilter{
			DepartmentID: req.DepartmentID,
			Status:       req.Status,
		}, req.Ordering)
		if err != nil {
			return Report{}, errors.Wrap(err, "querying faculty")
		}
		rep.Rows = reconcile.FacultyRows(members, names, reconcile.Current)
	}
	return rep, nil
}

// Export writes the filtered full report to `req.Tab`, or to the default tab of the entity.
func (svc *Service) Export(ctx context.Context, req GenerateRequest) (ExportResult, error) {
	rep, err := svc.Generate(ctx, req)
	if err != nil {
		return ExportResult{}, err
	}
	tab := req.Tab
	if tab == "" {
		entity, _ := reconcile.ParseEntity(req.Type)
		tab = svc.reconciler.DefaultTab(entity)
	}
	if err = svc.reconciler.ExportRows(ctx, tab, rep.Headers, rep.Rows); err != nil {
		return ExportResult{}, err
	}
	return ExportResult{Tab: tab, Rows: len(rep.Rows), SpreadsheetURL: svc.spreadsheetURL}, nil
}

// Roster tab labels used when the roster is not filtered and the first profile has no department or course.
const (
	rosterFacultyLabel = "Faculty"
	rosterStudentLabel = "Student"
)

// ExportRoster writes the roster of a department's faculty, or of a course's students,
// to a tab named after the department or course, e.g. "BSCS STUDENT".
// An unfiltered roster is named after the first profile's department or course, e.g. "F FACULTY" when it has none.
func (svc *Service) ExportRoster(ctx context.Context, req RosterRequest) (ExportResult, error) {
	entity, err := reconcile.ParseEntity(req.Type)
	if err != nil {
		return ExportResult{}, err
	}
	names, err := svc.schools.Names(ctx)
	if err != nil {
		return ExportResult{}, errors.Wrap(err, "loading names")
	}

	var (
		label   string
		tab     string
		headers []string
		rows    [][]interface{}
	)
	switch entity {
	case reconcile.Faculty:
		filter := faculty.QueryFilter{}
		if req.DepartmentID > 0 {
			dept, err := svc.schools.GetDepartment(ctx, school.GetFilter{ID: req.DepartmentID})
			if err != nil {
				return ExportResult{}, err
			}
			filter.DepartmentID, label = dept.ID, dept.Name
		}
		members, err := svc.faculty.Query(ctx, filter, nil)
		if err != nil {
			return ExportResult{}, errors.Wrap(err, "querying faculty")
		}
		if label == "" && len(members) > 0 {
			label = names.Department(members[0].DepartmentID)
		}
		if label == "" {
			label = rosterFacultyLabel
		}
		tab = reconcile.TabName(label, reconcile.SuffixFaculty)
		headers, rows = reconcile.FacultyRosterHeaders, reconcile.FacultyRoster(members, names)
	case reconcile.Students:
		filter := student.QueryFilter{}
		if req.CourseID > 0 {
			course, err := svc.schools.GetCourse(ctx, school.GetFilter{ID: req.CourseID})
			if err != nil {
				return ExportResult{}, err
			}
			filter.CourseID, label = course.ID, course.Name
		}
		students, err := svc.students.Query(ctx, filter, nil)
		if err != nil {
			return ExportResult{}, errors.Wrap(err, "querying students")
		}
		if label == "" && len(students) > 0 {
			label = names.Course(students[0].CourseID)
		}
		if label == "" {
			label = rosterStudentLabel
		}
		tab = reconcile.TabName(label, reconcile.SuffixStudent)
		headers, rows = reconcile.StudentRosterHeaders, reconcile.StudentRoster(students, names)
	}

	if err = svc.reconciler.ExportRows(ctx, tab, headers, rows); err != nil {
		return ExportResult{}, err
	}
	return ExportResult{Tab: tab, Rows: len(rows), SpreadsheetURL: svc.spreadsheetURL}, nil
}

// Import imports a tab and mails the outcome to the report recipients.
func (svc *Service) Import(ctx context.Context, req ImportRequest) (ImportResult, error) {
	entity, err := reconcile.ParseEntity(req.Type)
	if err != nil {
		return ImportResult{}, err
	}
	var tab string
	if req.Tab != nil {
		tab = *req.Tab
	}

	out, err := svc.reconciler.ImportTab(ctx, entity, tab)
	if err != nil {
		return ImportResult{}, err
	}
	svc.notify(out)
	return ImportResult{Outcome: out, Message: ImportMessage(out)}, nil
}

// ImportMessage summarizes an import outcome for admins.
func ImportMessage(out reconcile.Outcome) string {
	switch {
	case out.Success:
		return MsgImportSucceeded
	case out.HasDuplicates():
		return MsgImportDuplicate
	default:
		return MsgImportFailed
	}
}

func (svc *Service) notify(out reconcile.Outcome) {
	if len(svc.recipients) == 0 {
		return
	}
	msg := &core.EmailMessage{
		To:           svc.recipients,
		Subject:      fmt.Sprintf("%s import: %s", cases.Title(language.English).String(out.Entity), ImportMessage(out)),
		TemplateName: "import_report",
		TemplateData: out,
	}
	if len(out.Errors) > 0 {
		body := strings.NewReader(strings.Join(out.Errors, "\n") + "\n")
		if err := msg.Attach(body, "import-errors-"+out.RunID+".txt", "text/plain"); err != nil {
			svc.logger.Error(fmt.Sprintf("attaching import errors: %v", err), err)
		}
	}
	svc.mail.SendMessages(msg)
}
