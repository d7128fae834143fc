package stats

import (
	"testing"
	"time"
)

func TestMonthWindow_Months(t *testing.T) {
	w := NewMonthWindow(
		time.Date(2025, time.February, 3, 8, 0, 0, 0, time.UTC),
		time.Date(2024, time.November, 17, 8, 0, 0, 0, time.UTC),
	)

	if !w.First.Equal(time.Date(2024, time.November, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("first not snapped: %v", w.First)
	}
	if w.Len() != 4 {
		t.Fatalf("expected 4 months, got %d", w.Len())
	}

	want := []string{"Nov 2024", "Dec 2024", "Jan 2025", "Feb 2025"}
	for i, m := range w.Months() {
		if got := MonthLabel(m); got != want[i] {
			t.Errorf("month %d label = %q, want %q", i, got, want[i])
		}
	}
}

func TestMonthWindow_Index(t *testing.T) {
	w := NewMonthWindow(
		time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC),
	)

	tests := []struct {
		name string
		t    time.Time
		want int
	}{
		{"first month", time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC), 0},
		{"last month", time.Date(2025, time.March, 31, 23, 0, 0, 0, time.UTC), 2},
		{"before window", time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC), -1},
		{"after window", time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC), -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.Index(tt.t); got != tt.want {
				t.Errorf("Index = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMonthWindow_IndexConvertsZone(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	w := NewMonthWindow(
		time.Date(2025, time.January, 1, 0, 0, 0, 0, ist),
		time.Date(2025, time.February, 28, 0, 0, 0, 0, ist),
	)

	// 20:00 UTC on Jan 31 is already Feb 1 in IST.
	if got := w.Index(time.Date(2025, time.January, 31, 20, 0, 0, 0, time.UTC)); got != 1 {
		t.Errorf("Index = %d, want 1", got)
	}
}

func TestMonthStart(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	got := MonthStart(time.Date(2025, time.March, 31, 19, 0, 0, 0, time.UTC), ist)
	want := time.Date(2025, time.April, 1, 0, 0, 0, 0, ist)
	if !got.Equal(want) {
		t.Errorf("MonthStart = %v, want %v", got, want)
	}
	if got.Location() != ist {
		t.Errorf("MonthStart location = %v, want IST", got.Location())
	}
}
