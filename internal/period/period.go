// Package period computes the calendar windows usage limits are counted in
// and normalizes calendar dates to a single canonical representation.
//
// A canonical date is midnight UTC of the calendar day. It is what gets
// stored in DATE columns and compared against, so equality of two dates
// never depends on the zone either side was parsed in.
package period

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// Window is a half-open [Start, End) range.
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

func DayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func MonthStart(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

// Day is the whole calendar day t falls on, in t's location.
func Day(t time.Time) Window {
	start := DayStart(t)
	return Window{Start: start, End: start.AddDate(0, 0, 1)}
}

// DayWindow is [start of today, now): Day(now) cut off at now.
func DayWindow(now time.Time) Window {
	return Window{Start: Day(now).Start, End: now}
}

// MonthWindow is [start of this month, now]. End is nudged forward so a row
// stamped exactly at now is still counted.
func MonthWindow(now time.Time) Window {
	return Window{Start: MonthStart(now), End: now.Add(time.Nanosecond)}
}

// DateOf returns the canonical date of the calendar day t falls on in loc.
func DateOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return d, nil
}

// SameDay compares calendar days as written, ignoring zones.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
