package sheetsvc

import (
	"context"
	"os"
	"sync"
	"unicode/utf8"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/registrar/core"
)

const (
	minColWidth = 8
	maxColWidth = 80
)

// Workbook is a local .xlsx file used as a spreadsheet. Every operation opens and saves the file.
type Workbook struct {
	mu   sync.Mutex
	path string
}

var _ core.Spreadsheet = (*Workbook)(nil)

func NewWorkbook(path string) (*Workbook, error) {
	if err := vala.BeginValidation().Validate(vala.StringNotEmpty(path, "path")).Check(); err != nil {
		return nil, errors.Wrap(err, "creating workbook")
	}
	return &Workbook{path: path}, nil
}

// open opens the workbook, or a new empty one if the file does not exist yet.
func (wb *Workbook) open() (*excelize.File, error) {
	f, err := excelize.OpenFile(wb.path)
	if err == nil {
		return f, nil
	}
	if os.IsNotExist(errors.Cause(err)) {
		return excelize.NewFile(), nil
	}
	return nil, errors.Wrapf(err, "opening workbook %s", wb.path)
}

// update runs fn on the opened workbook then saves it.
func (wb *Workbook) update(ctx context.Context, fn func(f *excelize.File) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	wb.mu.Lock()
	defer wb.mu.Unlock()

	f, err := wb.open()
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if err = fn(f); err != nil {
		return err
	}
	return errors.Wrapf(f.SaveAs(wb.path), "saving workbook %s", wb.path)
}

func (wb *Workbook) view(ctx context.Context, fn func(f *excelize.File) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	wb.mu.Lock()
	defer wb.mu.Unlock()

	f, err := wb.open()
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return fn(f)
}

func (wb *Workbook) ListTabs(ctx context.Context) ([]string, error) {
	var tabs []string
	err := wb.view(ctx, func(f *excelize.File) error {
		tabs = f.GetSheetList()
		return nil
	})
	return tabs, err
}

func (wb *Workbook) CreateTab(ctx context.Context, title string) error {
	return wb.update(ctx, func(f *excelize.File) error {
		_, err := f.NewSheet(title)
		return errors.Wrapf(err, "creating tab %q", title)
	})
}

func (wb *Workbook) ClearTab(ctx context.Context, title string) error {
	return wb.update(ctx, func(f *excelize.File) error {
		rows, err := f.GetRows(title)
		if err != nil {
			return errors.Wrapf(err, "reading tab %q", title)
		}
		for r := len(rows); r >= 1; r-- {
			if err = f.RemoveRow(title, r); err != nil {
				return errors.Wrapf(err, "clearing tab %q", title)
			}
		}
		return nil
	})
}

func (wb *Workbook) WriteRange(ctx context.Context, a1Range string, values [][]interface{}) error {
	title, sp, err := parseRange(a1Range)
	if err != nil {
		return err
	}
	return wb.update(ctx, func(f *excelize.File) error {
		for i := range values {
			cell, err := excelize.CoordinatesToCellName(sp.startCol, sp.startRow+i)
			if err != nil {
				return err
			}
			if err = f.SetSheetRow(title, cell, &values[i]); err != nil {
				return errors.Wrapf(err, "writing %s", a1Range)
			}
		}
		return nil
	})
}

// ResizeColumns approximates auto-fit from the longest value of each column.
func (wb *Workbook) ResizeColumns(ctx context.Context, title string, count int) error {
	return wb.update(ctx, func(f *excelize.File) error {
		rows, err := f.GetRows(title)
		if err != nil {
			return errors.Wrapf(err, "reading tab %q", title)
		}
		for c := 1; c <= count; c++ {
			width := minColWidth
			for _, row := range rows {
				if c <= len(row) {
					if w := utf8.RuneCountInString(row[c-1]) + 2; w > width {
						width = w
					}
				}
			}
			if width > maxColWidth {
				width = maxColWidth
			}
			col, err := excelize.ColumnNumberToName(c)
			if err != nil {
				return err
			}
			if err = f.SetColWidth(title, col, col, float64(width)); err != nil {
				return errors.Wrapf(err, "resizing column %s", col)
			}
		}
		return nil
	})
}

func (wb *Workbook) ReadRange(ctx context.Context, a1Range string) ([][]string, error) {
	title, sp, err := parseRange(a1Range)
	if err != nil {
		return nil, err
	}
	var out [][]string
	err = wb.view(ctx, func(f *excelize.File) error {
		rows, err := f.GetRows(title)
		if err != nil {
			return errors.Wrapf(err, "reading %s", a1Range)
		}
		out = sp.cut(rows)
		return nil
	})
	return out, err
}
