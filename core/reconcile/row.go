package reconcile

import "strings"

// Row is a fixed-width row of raw cells. Reading a cell out of range yields "".
type Row []string

// PadRow copies `cells` into a Row at least `width` wide, filling missing trailing cells with "".
func PadRow(cells []string, width int) Row {
	n := len(cells)
	if n < width {
		n = width
	}
	row := make(Row, n)
	copy(row, cells)
	return row
}

// Cell returns the raw cell at `idx`, or "" for noColumn and out of range indices.
func (r Row) Cell(idx int) string {
	if idx < 0 || idx >= len(r) {
		return ""
	}
	return r[idx]
}

// Trimmed returns the cell at `idx` without leading and trailing whitespace.
func (r Row) Trimmed(idx int) string {
	return strings.TrimSpace(r.Cell(idx))
}

// IsBlank reports whether every cell of the row is empty or whitespace.
func (r Row) IsBlank() bool {
	for _, c := range r {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
