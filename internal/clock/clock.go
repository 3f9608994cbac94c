// Package clock supplies the current time in the single configured timezone
// and the date/time parsing shared by the wizard, the store and the sweep.
package clock

import (
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout    = "2006-01-02" // stored form
	DisplayLayout = "02.01.2006" // shown to users
	TimeLayout    = "15:04"

	// Accepts 1.2.2026 as well as 01.02.2026. The year must have four digits.
	inputDateLayout = "2.1.2006"
)

type Clock interface {
	Now() time.Time
}

// Local reports wall-clock time in a fixed location.
type Local struct {
	loc *time.Location
}

func New(loc *time.Location) *Local {
	if loc == nil {
		loc = time.Local
	}
	return &Local{loc: loc}
}

func (c *Local) Now() time.Time { return time.Now().In(c.loc) }

func (c *Local) Location() *time.Location { return c.loc }

// Func adapts a plain function to Clock.
type Func func() time.Time

func (f Func) Now() time.Time { return f() }

// Today returns midnight of the current local date.
func Today(c Clock) time.Time {
	return DateOf(c.Now())
}

// DateOf truncates t to midnight in its own location.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// TimeOfDay formats t as HH:MM, the key the sweep matches on.
func TimeOfDay(t time.Time) string {
	return t.Format(TimeLayout)
}

// ParseInputDate parses a user-typed day.month.year date.
// Calendar-invalid dates such as 31.02.2025 are rejected.
func ParseInputDate(s string) (time.Time, error) {
	t, err := time.Parse(inputDateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return t, nil
}

// ParseStoredDate accepts the canonical YYYY-MM-DD form and, for older rows,
// the DD.MM.YYYY display form.
func ParseStoredDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, "-") {
		t, err := time.Parse(DateLayout, s)
		if err != nil {
			return time.Time{}, fmt.Errorf("parsing stored date %q: %w", s, err)
		}
		return t, nil
	}
	return ParseInputDate(s)
}

// ParseTimeOfDay validates a 24-hour HH:MM time and returns it normalized
// to two-digit hours ("9:30" becomes "09:30").
func ParseTimeOfDay(s string) (string, error) {
	t, err := time.Parse(TimeLayout, strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("parsing time %q: %w", s, err)
	}
	return t.Format(TimeLayout), nil
}

// DaysBetween returns the signed number of calendar days from one date to
// another. Clock time and DST shifts are ignored. Unix seconds are used
// rather than Sub, whose Duration saturates at about 292 years.
func DaysBetween(from, to time.Time) int {
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int((b.Unix() - a.Unix()) / secondsPerDay)
}

const secondsPerDay = 24 * 60 * 60

// DaysUntil is the day-delta between today and a stored event date.
func DaysUntil(c Clock, date string) (int, error) {
	d, err := ParseStoredDate(date)
	if err != nil {
		return 0, err
	}
	return DaysBetween(Today(c), d), nil
}
