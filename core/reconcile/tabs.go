package reconcile

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"
)

var (
	ErrEmptyTab = errors.New("tab name for import cannot be empty")

	facultyTabRegex = regexp.MustCompile(`(?i)FACULTY$`)

	minSuggestionRatio = 0.6
)

// Fallback tabs
const (
	studentsTab = "Students"
	facultyTab  = "Faculty"
)

// TabNotFoundError is returned when no tab can be imported.
type TabNotFoundError struct {
	Tab        string // requested tab, if any
	Entity     Entity
	Available  []string
	Suggestion string // closest available tab, if any
}

func (err *TabNotFoundError) Error() string {
	var msg string
	if err.Tab != "" {
		msg = fmt.Sprintf("Sheet '%s' was not found in the spreadsheet.", err.Tab)
	} else {
		msg = fmt.Sprintf("Unable to locate a %s tab in the spreadsheet. Available sheet tabs: %s",
			err.Entity, strings.Join(err.Available, ", "))
	}
	if err.Suggestion != "" {
		msg += fmt.Sprintf(" Did you mean '%s'?", err.Suggestion)
	}
	return msg
}

func IsTabNotFound(err error) bool {
	_, ok := errors.Cause(err).(*TabNotFoundError)
	return ok
}

// ResolveTab picks the tab to import.
//
// Students: the requested tab (or the configured one), then "Students".
// Faculty: the requested tab which must exist; otherwise the configured tab, "Faculty",
// then the first tab whose title ends with "FACULTY" (any case).
func (svc *Service) ResolveTab(ctx context.Context, entity Entity, tab string) (string, error) {
	requested := strings.TrimSpace(tab)
	if tab != "" && requested == "" {
		return "", ErrEmptyTab
	}

	tabs, err := svc.sheet.ListTabs(ctx)
	if err != nil {
		return "", errors.Wrap(err, "listing tabs")
	}

	switch entity {
	case Students:
		preferred := requested
		if preferred == "" {
			preferred = svc.studentTab
		}
		if found, ok := firstExisting(tabs, preferred, studentsTab); ok {
			return found, nil
		}
		return "", &TabNotFoundError{Tab: requested, Entity: entity, Available: tabs, Suggestion: closest(preferred, tabs)}

	case Faculty:
		if requested != "" {
			if found, ok := firstExisting(tabs, requested); ok {
				return found, nil
			}
			return "", &TabNotFoundError{Tab: requested, Entity: entity, Available: tabs, Suggestion: closest(requested, tabs)}
		}
		if found, ok := firstExisting(tabs, svc.facultyTab, facultyTab); ok {
			return found, nil
		}
		for _, t := range tabs {
			if facultyTabRegex.MatchString(t) {
				return t, nil
			}
		}
		return "", &TabNotFoundError{Entity: entity, Available: tabs}

	default:
		panic(fmt.Sprintf("reconcile: unknown entity %v", entity))
	}
}

func firstExisting(tabs []string, candidates ...string) (string, bool) {
	for _, c := range candidates {
		for _, t := range tabs {
			if t == c {
				return t, true
			}
		}
	}
	return "", false
}

// closest returns the available tab most similar to `tab`, if similar enough.
func closest(tab string, tabs []string) string {
	var (
		best      string
		bestRatio float64
	)
	want := strings.Split(strings.ToLower(tab), "")
	for _, t := range tabs {
		ratio := difflib.NewMatcher(want, strings.Split(strings.ToLower(t), "")).Ratio()
		if ratio >= minSuggestionRatio && ratio > bestRatio {
			best, bestRatio = t, ratio
		}
	}
	return best
}
