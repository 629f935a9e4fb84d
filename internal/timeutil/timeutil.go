package timeutil

import (
	"fmt"
	"time"
)

// DateLayout defines the canonical date format (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// FormatDate formats a time as YYYY-MM-DD in its current location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// LookbackRange returns the first and last dates (inclusive) of a window of days ending on t.
// A non-positive days value is treated as a single day.
func LookbackRange(t time.Time, days int) (start, end string) {
	if days < 1 {
		days = 1
	}
	return FormatDate(t.AddDate(0, 0, -(days - 1))), FormatDate(t)
}

// HourWindow is a wall-clock hour range [Start, End) evaluated in Location.
// Start > End wraps past midnight; Start == End is always open.
type HourWindow struct {
	Start    int
	End      int
	Location *time.Location
}

// Contains reports whether t falls inside the window.
func (w HourWindow) Contains(t time.Time) bool {
	if w.Start == w.End {
		return true
	}
	loc := w.Location
	if loc == nil {
		loc = time.UTC
	}
	hour := t.In(loc).Hour()
	if w.Start < w.End {
		return hour >= w.Start && hour < w.End
	}
	return hour >= w.Start || hour < w.End
}

// Validate checks both bounds are valid hours of day.
func (w HourWindow) Validate() error {
	if w.Start < 0 || w.Start > 23 || w.End < 0 || w.End > 23 {
		return fmt.Errorf("hour window bounds must be within 0-23, got %d-%d", w.Start, w.End)
	}
	return nil
}

func (w HourWindow) String() string {
	loc := "UTC"
	if w.Location != nil {
		loc = w.Location.String()
	}
	return fmt.Sprintf("%02d:00-%02d:00 %s", w.Start, w.End, loc)
}
