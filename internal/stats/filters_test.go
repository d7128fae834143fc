package stats

import (
	"testing"
	"time"

	"grievance-analytics/internal/grievance"
)

func TestParseTimeRange(t *testing.T) {
	tests := []struct {
		input   string
		want    TimeRange
		wantErr bool
	}{
		{"", RangeAll, false},
		{"all", RangeAll, false},
		{"week", RangeWeek, false},
		{" Month ", RangeMonth, false},
		{"YEAR", RangeYear, false},
		{"decade", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTimeRange(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTimeRange(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseTimeRange(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFilter_TimeWindowBoundary(t *testing.T) {
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		rng      TimeRange
		created  time.Time
		expected bool
	}{
		{"WeekAtBoundary", RangeWeek, now.AddDate(0, 0, -7), true},
		{"WeekJustBefore", RangeWeek, now.AddDate(0, 0, -7).Add(-time.Nanosecond), false},
		{"MonthCalendar", RangeMonth, time.Date(2025, time.May, 15, 12, 0, 0, 0, time.UTC), true},
		{"MonthTooOld", RangeMonth, time.Date(2025, time.May, 15, 11, 59, 0, 0, time.UTC), false},
		{"YearInside", RangeYear, time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC), true},
		{"YearOutside", RangeYear, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC), false},
		{"AllKeepsOld", RangeAll, time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC), true},
		{"AllKeepsUndated", RangeAll, time.Time{}, true},
		{"WeekDropsUndated", RangeWeek, time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Filter{TimeRange: tt.rng}
			r := report("1", "Roads", "Pending", "", tt.created, "")
			if got := f.Matches(r, now); got != tt.expected {
				t.Errorf("Matches() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestFilter_Apply(t *testing.T) {
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	reports := []grievance.Report{
		report("1", "Roads", "Pending", "", now.AddDate(0, 0, -1), ""),
		report("2", "Roads", "Resolved", "", now.AddDate(0, 0, -2), ""),
		report("3", "Water", "Pending", "", now.AddDate(0, 0, -3), ""),
		report("4", "roads", "pending", "", now.AddDate(0, 0, -4), ""),
	}

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"NoFilter", Filter{}, []string{"1", "2", "3", "4"}},
		{"AllSelectors", Filter{TimeRange: RangeAll, Department: "all", Status: "all"}, []string{"1", "2", "3", "4"}},
		{"DepartmentExact", Filter{Department: "Roads"}, []string{"1", "2"}},
		{"StatusIgnoresCase", Filter{Status: "Pending"}, []string{"1", "3", "4"}},
		{"Combined", Filter{Department: "Roads", Status: "Pending"}, []string{"1"}},
		{"NoMatch", Filter{Department: "Parks"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.filter.Apply(reports, now)
			if len(got) != len(tt.want) {
				t.Fatalf("Apply() returned %d reports, want %d", len(got), len(tt.want))
			}
			for i, r := range got {
				if r.ID != tt.want[i] {
					t.Errorf("Apply()[%d] = %s, want %s", i, r.ID, tt.want[i])
				}
			}
		})
	}

	if len(reports) != 4 || reports[0].ID != "1" {
		t.Errorf("Apply mutated its input")
	}
}

func TestFilter_UnknownStatusMatchesRawValue(t *testing.T) {
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	reports := []grievance.Report{
		report("1", "Roads", "Escalated", "", now, ""),
		report("2", "Roads", "escalated", "", now, ""),
		report("3", "Roads", "resolved", "", now, ""),
	}

	got := Filter{Status: "Escalated"}.Apply(reports, now)
	if len(got) != 1 || got[0].ID != "1" {
		t.Errorf("Apply(Escalated) = %v, want only report 1", got)
	}

	got = Filter{Status: "Resolved"}.Apply(reports, now)
	if len(got) != 1 || got[0].ID != "3" {
		t.Errorf("Apply(Resolved) = %v, want only report 3", got)
	}
}

func TestFilter_ApplyWithoutRestrictionCopies(t *testing.T) {
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	reports := []grievance.Report{report("1", "Roads", "Pending", "", now, "")}

	got := Filter{TimeRange: RangeAll}.Apply(reports, now)
	got[0].ID = "changed"
	if reports[0].ID != "1" {
		t.Error("Apply returned a slice sharing the input's backing array")
	}
}

func TestNewFilter(t *testing.T) {
	f, err := NewFilter("week", "Roads", "all")
	if err != nil {
		t.Fatalf("NewFilter() error = %v", err)
	}
	if f.TimeRange != RangeWeek || f.Department != "Roads" || f.IsZero() {
		t.Errorf("NewFilter() = %+v", f)
	}
	if _, err := NewFilter("fortnight", "", ""); err == nil {
		t.Error("expected error for unknown time range")
	}
	if !(Filter{}).IsZero() {
		t.Error("zero Filter should be unrestricted")
	}
}
