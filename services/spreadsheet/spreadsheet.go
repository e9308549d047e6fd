package sheetsvc

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/registrar/core"
)

// New returns the spreadsheet driver selected by the configuration.
func New(ctx context.Context, conf core.SheetsConfig) (core.Spreadsheet, error) {
	switch conf.Driver {
	case core.SheetsDriverGoogle:
		return NewGoogleSheets(ctx, conf.SpreadsheetID, conf.CredentialsFile, conf.Timeout)
	case core.SheetsDriverExcel:
		return NewWorkbook(conf.WorkbookPath)
	default:
		return nil, errors.Errorf("unknown spreadsheet driver %q", conf.Driver)
	}
}

// span is a parsed A1 cell span; endCol and endRow are 0 when unbounded.
type span struct {
	startCol, startRow int
	endCol, endRow     int
}

// parseRange splits an A1 range into its tab title and its 1-based cell span.
func parseRange(a1Range string) (string, span, error) {
	title, cells, err := core.SplitA1Range(a1Range)
	if err != nil {
		return "", span{}, err
	}

	var sp span
	parts := strings.SplitN(cells, ":", 2)
	if sp.startCol, sp.startRow, err = excelize.CellNameToCoordinates(parts[0]); err != nil {
		return "", span{}, errors.Wrap(core.ErrInvalidRange, a1Range)
	}
	if len(parts) == 2 {
		if sp.endCol, sp.endRow, err = excelize.CellNameToCoordinates(parts[1]); err != nil {
			// column only, e.g. `A2:V`
			sp.endRow = 0
			if sp.endCol, err = excelize.ColumnNameToNumber(parts[1]); err != nil {
				return "", span{}, errors.Wrap(core.ErrInvalidRange, a1Range)
			}
		}
	}
	return title, sp, nil
}

// cut returns the part of a grid (1-based rows & cols) covered by the span,
// trimming trailing empty cells of each row and trailing empty rows.
func (sp span) cut(grid [][]string) [][]string {
	out := make([][]string, 0, len(grid))
	for r := sp.startRow; r <= len(grid); r++ {
		if sp.endRow > 0 && r > sp.endRow {
			break
		}
		row := grid[r-1]
		var cells []string
		if sp.startCol <= len(row) {
			end := len(row)
			if sp.endCol > 0 && sp.endCol < end {
				end = sp.endCol
			}
			cells = append(cells, row[sp.startCol-1:end]...)
		}
		out = append(out, trimTrailing(cells))
	}
	for len(out) > 0 && len(out[len(out)-1]) == 0 {
		out = out[:len(out)-1]
	}
	return out
}

func trimTrailing(cells []string) []string {
	n := len(cells)
	for n > 0 && cells[n-1] == "" {
		n--
	}
	return cells[:n]
}

func formatValue(v interface{}) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
