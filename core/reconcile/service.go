package reconcile

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/trezcool/registrar/core"
)

// Default tabs
const (
	DefaultStudentTab = "All Students Data"
	DefaultFacultyTab = "All Faculty Data"
)

type (
	Deps struct {
		Sheet      core.Spreadsheet
		References References
		Students   StudentStore
		Faculty    FacultyStore
		Logger     core.Logger
		StudentTab string // preferred import tab; DefaultStudentTab if empty
		FacultyTab string // preferred import tab; DefaultFacultyTab if empty
	}

	// Service reconciles profiles between a spreadsheet and the database.
	Service struct {
		sheet      core.Spreadsheet
		normalizer *Normalizer
		students   studentTarget
		faculty    facultyTarget
		logger     core.Logger
		studentTab string
		facultyTab string
	}
)

func NewService(deps Deps) (*Service, error) {
	err := vala.BeginValidation().Validate(
		vala.IsNotNil(deps.Sheet, "Sheet"),
		vala.IsNotNil(deps.References, "References"),
		vala.IsNotNil(deps.Students, "Students"),
		vala.IsNotNil(deps.Faculty, "Faculty"),
		vala.IsNotNil(deps.Logger, "Logger"),
	).Check()
	if err != nil {
		return nil, errors.Wrap(err, "creating reconcile service")
	}

	svc := &Service{
		sheet:      deps.Sheet,
		normalizer: NewNormalizer(deps.References),
		students:   studentTarget{store: deps.Students},
		faculty:    facultyTarget{store: deps.Faculty},
		logger:     deps.Logger,
		studentTab: deps.StudentTab,
		facultyTab: deps.FacultyTab,
	}
	if svc.studentTab == "" {
		svc.studentTab = DefaultStudentTab
	}
	if svc.facultyTab == "" {
		svc.facultyTab = DefaultFacultyTab
	}
	return svc, nil
}

func (svc *Service) target(entity Entity) target {
	switch entity {
	case Students:
		return svc.students
	case Faculty:
		return svc.faculty
	default:
		panic(fmt.Sprintf("reconcile: unknown entity %v", entity))
	}
}

// ImportRows imports the data rows of a tab (header excluded) as `entity` profiles.
// Rows are independent: a rejected or failing row never aborts the others.
func (svc *Service) ImportRows(ctx context.Context, entity Entity, rows [][]string) Outcome {
	out := newOutcome(uuid.New().String(), entity)
	tgt := svc.target(entity)
	width := LayoutFor(entity, Current).Width

	b := newBatch()
	staged := make([]stagedRow, 0, len(rows))
	for i, cells := range rows {
		row := PadRow(cells, width)
		if row.IsBlank() {
			continue
		}
		st := stagedRow{num: i + 2, row: row}
		st.gen = Detect(entity, row, len(cells))
		st.email = NormalizeEmail(row.Cell(LayoutFor(entity, st.gen).Email))
		st.rec, st.err = svc.normalizer.Normalize(ctx, entity, row, st.gen)
		b.see(st.email, st.num)
		staged = append(staged, st)
	}

	for _, st := range staged {
		if !svc.resolve(ctx, entity, tgt, b, st, out) {
			continue
		}
		created, err := tgt.commit(ctx, st.rec)
		if err != nil {
			out.addRowError(st.num, err)
			continue
		}
		if created {
			out.Imported++
		} else {
			out.Updated++
		}
	}

	res := out.done()
	svc.logger.Info(
		fmt.Sprintf("%s import finished: %d imported, %d updated, %d errors", entity, res.Imported, res.Updated, len(res.Errors)),
		map[string]interface{}{"run_id": res.RunID, "duplicates": res.Duplicates},
	)
	return res
}

// ImportTab resolves the import tab of `entity` (see ResolveTab) and imports its rows.
func (svc *Service) ImportTab(ctx context.Context, entity Entity, tab string) (Outcome, error) {
	resolved, err := svc.ResolveTab(ctx, entity, tab)
	if err != nil {
		return Outcome{}, err
	}
	rows, err := svc.sheet.ReadRange(ctx, core.A1Range(resolved, readRange(entity)))
	if err != nil {
		return Outcome{}, errors.Wrapf(err, "reading tab %q", resolved)
	}
	out := svc.ImportRows(ctx, entity, rows)
	out.Tab = resolved
	return out, nil
}

// DefaultTab returns the preferred tab of an entity.
func (svc *Service) DefaultTab(entity Entity) string {
	switch entity {
	case Students:
		return svc.studentTab
	case Faculty:
		return svc.facultyTab
	default:
		panic(fmt.Sprintf("reconcile: unknown entity %v", entity))
	}
}
