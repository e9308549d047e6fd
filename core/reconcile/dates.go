package reconcile

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

var nowFunc = time.Now // mockable

// Export formats
const (
	DateFormat     = "2006-01-02"
	DateTimeFormat = "2006-01-02 15:04:05"
)

var dateLayouts = []string{
	DateFormat,
	DateTimeFormat,
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"January 2, 2006",
	"Jan 2, 2006",
}

// ParseDate parses the date and timestamp formats found in the imported tabs, as UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errors.Errorf("invalid date '%s'", s)
}

// ageAt returns the age in whole years of someone born on `dob`, or false if `dob` is after `now`.
func ageAt(dob, now time.Time) (int, bool) {
	if dob.After(now) {
		return 0, false
	}
	years := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		years--
	}
	return years, true
}
