package stats

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"

	"grievance-analytics/internal/grievance"
)

// TimeRange selects reports created within a trailing window of now.
type TimeRange string

const (
	RangeAll   TimeRange = "all"
	RangeWeek  TimeRange = "week"
	RangeMonth TimeRange = "month"
	RangeYear  TimeRange = "year"
)

// AllValues is the selector value meaning "no restriction".
const AllValues = "all"

// ParseTimeRange validates a time range selector. The empty string means all.
func ParseTimeRange(s string) (TimeRange, error) {
	switch TimeRange(strings.ToLower(strings.TrimSpace(s))) {
	case "", RangeAll:
		return RangeAll, nil
	case RangeWeek:
		return RangeWeek, nil
	case RangeMonth:
		return RangeMonth, nil
	case RangeYear:
		return RangeYear, nil
	default:
		return "", fmt.Errorf("unknown time range %q (expected all, week, month or year)", s)
	}
}

// Since returns the inclusive lower bound of the window, and false for RangeAll.
func (r TimeRange) Since(now time.Time) (time.Time, bool) {
	switch r {
	case RangeWeek:
		return now.AddDate(0, 0, -7), true
	case RangeMonth:
		return now.AddDate(0, -1, 0), true
	case RangeYear:
		return now.AddDate(-1, 0, 0), true
	default:
		return time.Time{}, false
	}
}

// Filter is the explicit filter state of a dashboard view.
// Department and Status match exactly; "" and "all" disable them.
type Filter struct {
	TimeRange  TimeRange `json:"timeRange"`
	Department string    `json:"department"`
	Status     string    `json:"status"`
}

// NewFilter validates raw selector values into a Filter.
func NewFilter(timeRange, department, status string) (Filter, error) {
	tr, err := ParseTimeRange(timeRange)
	if err != nil {
		return Filter{}, err
	}
	return Filter{TimeRange: tr, Department: department, Status: status}, nil
}

func isUnrestricted(v string) bool {
	return v == "" || v == AllValues
}

// IsZero reports whether the filter keeps every report.
func (f Filter) IsZero() bool {
	return (f.TimeRange == "" || f.TimeRange == RangeAll) && isUnrestricted(f.Department) && isUnrestricted(f.Status)
}

// Matches reports whether a single report passes the filter at time now.
// Reports without a creation date never pass a bounded time range.
func (f Filter) Matches(r grievance.Report, now time.Time) bool {
	if since, bounded := f.TimeRange.Since(now); bounded {
		if !r.HasDate() || r.DateCreated.Before(since) {
			return false
		}
	}
	if !isUnrestricted(f.Department) && r.Department != f.Department {
		return false
	}
	if !isUnrestricted(f.Status) && !f.statusMatches(r) {
		return false
	}
	return true
}

// statusMatches compares known status labels case-insensitively, as ParseStatus
// buckets them. Unknown labels must equal the raw status exactly.
func (f Filter) statusMatches(r grievance.Report) bool {
	if want := grievance.ParseStatus(f.Status); want != grievance.StatusOther {
		return r.Status == want
	}
	return r.RawStatus == f.Status
}

// Apply returns a new slice with the reports that pass the filter at time now.
// The input slice is never modified.
func (f Filter) Apply(reports []grievance.Report, now time.Time) []grievance.Report {
	if f.IsZero() {
		return slices.Clone(reports)
	}
	return lo.Filter(reports, func(r grievance.Report, _ int) bool {
		return f.Matches(r, now)
	})
}
