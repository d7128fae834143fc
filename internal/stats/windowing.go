package stats

import "time"

// MonthWindow is an inclusive run of calendar months in a single location.
type MonthWindow struct {
	First time.Time `json:"first"` // first instant of the earliest month
	Last  time.Time `json:"last"`  // first instant of the latest month
}

// MonthStart returns midnight on the first day of t's month in loc.
// A nil loc keeps t's own location.
func MonthStart(t time.Time, loc *time.Location) time.Time {
	if loc != nil {
		t = t.In(loc)
	}
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// NewMonthWindow spans the months of a and b, in either order, using a's location.
func NewMonthWindow(a, b time.Time) MonthWindow {
	loc := a.Location()
	first, last := MonthStart(a, loc), MonthStart(b, loc)
	if last.Before(first) {
		first, last = last, first
	}
	return MonthWindow{First: first, Last: last}
}

// Len is the number of months in the window.
func (w MonthWindow) Len() int {
	return monthsBetween(w.First, w.Last) + 1
}

// Months returns the first instant of every month in the window, oldest first.
func (w MonthWindow) Months() []time.Time {
	months := make([]time.Time, 0, w.Len())
	for m := w.First; !m.After(w.Last); m = m.AddDate(0, 1, 0) {
		months = append(months, m)
	}
	return months
}

// Index returns the position of t's month in the window, or -1 when outside.
// t is converted to the window's location first.
func (w MonthWindow) Index(t time.Time) int {
	m := MonthStart(t, w.First.Location())
	if m.Before(w.First) || m.After(w.Last) {
		return -1
	}
	return monthsBetween(w.First, m)
}

// MonthLabel formats a month the way the dashboard shows it, e.g. "Jan 2025".
func MonthLabel(t time.Time) string {
	return t.Format(MonthLabelLayout)
}

func monthsBetween(from, to time.Time) int {
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
}
