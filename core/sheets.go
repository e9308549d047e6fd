package core

import (
	"context"
	"strings"

	"github.com/pkg/errors"
)

var ErrInvalidRange = errors.New("invalid A1 range")

// Spreadsheet is a remote (or local) tabular store made of named tabs.
// Ranges use A1 notation with a quoted tab name, e.g. `'All Students Data'!A2:V`.
type Spreadsheet interface {
	// ListTabs returns the tab titles in display order.
	ListTabs(ctx context.Context) ([]string, error)
	CreateTab(ctx context.Context, title string) error
	// ClearTab clears every value of the tab, keeping the tab itself.
	ClearTab(ctx context.Context, title string) error
	// WriteRange writes raw values starting at the top left cell of a1Range.
	WriteRange(ctx context.Context, a1Range string, values [][]interface{}) error
	// ResizeColumns auto-fits the width of the first `count` columns of the tab.
	ResizeColumns(ctx context.Context, title string, count int) error
	// ReadRange returns the formatted values of a1Range; trailing empty cells of each row are omitted.
	ReadRange(ctx context.Context, a1Range string) ([][]string, error)
}

// QuoteTab quotes a tab title for use in an A1 range.
func QuoteTab(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

// A1Range builds a range like `'My Tab'!A1` from a tab title and a cell span.
func A1Range(title, cells string) string {
	return QuoteTab(title) + "!" + cells
}

// SplitA1Range splits an A1 range into its unquoted tab title and its cell span.
func SplitA1Range(a1Range string) (title, cells string, err error) {
	idx := strings.LastIndex(a1Range, "!")
	if idx <= 0 || idx == len(a1Range)-1 {
		return "", "", errors.Wrap(ErrInvalidRange, a1Range)
	}
	title, cells = a1Range[:idx], a1Range[idx+1:]
	if strings.HasPrefix(title, "'") {
		if len(title) < 2 || !strings.HasSuffix(title, "'") {
			return "", "", errors.Wrap(ErrInvalidRange, a1Range)
		}
		title = strings.ReplaceAll(title[1:len(title)-1], "''", "'")
	}
	return title, cells, nil
}
