package visuals

import (
	"strings"
	"testing"

	"grievance-analytics/internal/stats"
)

func TestGenerateStatusPie(t *testing.T) {
	if got := GenerateStatusPie(stats.StatusTally{}); got != "" {
		t.Errorf("empty tally should render nothing, got %q", got)
	}

	got := GenerateStatusPie(stats.StatusTally{Pending: 3, Resolved: 2})
	if !strings.Contains(got, "\"Pending\" : 3") || !strings.Contains(got, "\"Resolved\" : 2") {
		t.Errorf("pie missing slices:\n%s", got)
	}
	if strings.Contains(got, "In Progress") {
		t.Error("zero buckets should be omitted")
	}
}

func TestGenerateDepartmentChart(t *testing.T) {
	ranking := []stats.DepartmentStat{
		{Department: "Roads", Total: 10, Resolved: 4},
		{Department: "", Total: 2, Resolved: 0},
	}

	got := GenerateDepartmentChart(ranking)

	tests := []string{
		"x-axis [\"Roads\", \"(none)\"]",
		"y-axis \"Reports\" 0 --> 12",
		"bar [10, 2]",
		"line [4, 0]",
	}
	for _, want := range tests {
		if !strings.Contains(got, want) {
			t.Errorf("chart missing %q:\n%s", want, got)
		}
	}
}

func TestGenerateTrendChart(t *testing.T) {
	series := []stats.SeriesPoint{{Label: "Jan 2025", Count: 1}, {Label: "Feb 2025", Count: 0}, {Label: "Mar 2025", Count: 4}}

	got := GenerateTrendChart(series)
	if !strings.Contains(got, "line [1, 0, 4]") || !strings.HasPrefix(got, "```mermaid") {
		t.Errorf("unexpected trend chart:\n%s", got)
	}
	if GenerateTrendChart(nil) != "" {
		t.Error("empty series should render nothing")
	}
}

func TestGenerateLocationChart_QuotesLabels(t *testing.T) {
	got := GenerateLocationChart([]stats.RankEntry{{Key: `Near "Big" Tree `, Count: 2}})
	if !strings.Contains(got, `"Near 'Big' Tree"`) {
		t.Errorf("label not sanitized:\n%s", got)
	}
}
