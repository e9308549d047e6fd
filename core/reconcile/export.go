package reconcile

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/trezcool/registrar/core"
)

// Tab suffixes
const (
	SuffixStudent = "STUDENT"
	SuffixFaculty = "FACULTY"
)

var (
	nonAlphaNumRegex = regexp.MustCompile(`[^A-Za-z0-9]+`)

	acronymStopWords = map[string]bool{
		"and": true, "of": true, "in": true, "the": true, "for": true, "a": true, "an": true, "to": true,
	}
)

// ExportRows replaces the content of `tab` with `headers` followed by `rows`, creating the tab if needed.
// nil values are written as empty cells. Failing to clear or resize the tab is only logged.
func (svc *Service) ExportRows(ctx context.Context, tab string, headers []string, rows [][]interface{}) error {
	runID := uuid.New().String()
	logData := map[string]interface{}{"run_id": runID, "tab": tab}

	if err := svc.ensureTab(ctx, tab); err != nil {
		svc.logger.Error(fmt.Sprintf("ensuring tab %q: %v", tab, err), err, logData)
		return errors.Wrapf(err, "ensuring tab %q", tab)
	}

	if err := svc.sheet.ClearTab(ctx, tab); err != nil {
		svc.logger.Warn(fmt.Sprintf("clearing tab %q: %v", tab, err), err, logData)
	}

	values := make([][]interface{}, 0, len(rows)+1)
	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	values = append(values, header)
	for _, row := range rows {
		values = append(values, cellValues(row))
	}
	if err := svc.sheet.WriteRange(ctx, core.A1Range(tab, "A1"), values); err != nil {
		svc.logger.Error(fmt.Sprintf("writing tab %q: %v", tab, err), err, logData)
		return errors.Wrapf(err, "writing tab %q", tab)
	}

	if err := svc.sheet.ResizeColumns(ctx, tab, len(headers)); err != nil {
		svc.logger.Warn(fmt.Sprintf("resizing tab %q: %v", tab, err), err, logData)
	}

	svc.logger.Info(fmt.Sprintf("exported %d rows to tab %q", len(rows), tab), logData)
	return nil
}

func (svc *Service) ensureTab(ctx context.Context, tab string) error {
	tabs, err := svc.sheet.ListTabs(ctx)
	if err != nil {
		return err
	}
	if _, ok := firstExisting(tabs, tab); ok {
		return nil
	}
	return svc.sheet.CreateTab(ctx, tab)
}

func cellValues(row []interface{}) []interface{} {
	cells := make([]interface{}, len(row))
	for i, v := range row {
		if v == nil {
			cells[i] = ""
		} else {
			cells[i] = v
		}
	}
	return cells
}

// TabName builds an export tab title from a label, e.g. ("Computer Science", "STUDENT") => "CS STUDENT".
func TabName(label, suffix string) string {
	return strings.TrimSpace(Acronym(label) + " " + cases.Upper(language.Und).String(suffix))
}

// Acronym returns the upper-cased initials of the words of `label`, stop words excluded.
// Falls back to the first 4 alphanumeric characters, then "TAB".
func Acronym(label string) string {
	var b strings.Builder
	for _, word := range nonAlphaNumRegex.Split(label, -1) {
		if word == "" || acronymStopWords[strings.ToLower(word)] {
			continue
		}
		b.WriteString(word[:1])
	}
	acronym := b.String()
	if acronym == "" {
		acronym = nonAlphaNumRegex.ReplaceAllString(label, "")
		if len(acronym) > 4 {
			acronym = acronym[:4]
		}
	}
	if acronym == "" {
		return "TAB"
	}
	return cases.Upper(language.Und).String(acronym)
}
