package visuals

import (
	"fmt"
	"math"
	"strings"

	"grievance-analytics/internal/stats"
)

// maxBars caps bar charts so the text stays readable in a chat context.
const maxBars = 15

// GenerateStatusPie creates a Mermaid pie chart of the global status tally.
func GenerateStatusPie(tally stats.StatusTally) string {
	if tally.Total() == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("pie showData\n")
	sb.WriteString("    title \"Reports by Status\"\n")
	parts := []struct {
		label string
		count int
	}{
		{"Pending", tally.Pending},
		{"In Progress", tally.InProgress},
		{"Resolved", tally.Resolved},
		{"Other", tally.Other},
	}
	for _, s := range parts {
		if s.count > 0 {
			sb.WriteString(fmt.Sprintf("    \"%s\" : %d\n", s.label, s.count))
		}
	}
	sb.WriteString("```")
	return sb.String()
}

// GenerateDepartmentChart creates a Mermaid bar chart of report totals per department
// with a resolved-count line.
func GenerateDepartmentChart(ranking []stats.DepartmentStat) string {
	if len(ranking) == 0 {
		return ""
	}
	if len(ranking) > maxBars {
		ranking = ranking[:maxBars]
	}

	var labels, totals, resolved []string
	maxVal := 0
	for _, d := range ranking {
		labels = append(labels, quote(departmentLabel(d.Department)))
		totals = append(totals, fmt.Sprintf("%d", d.Total))
		resolved = append(resolved, fmt.Sprintf("%d", d.Resolved))
		maxVal = max(maxVal, d.Total)
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Reports by Department\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Reports\" 0 --> %d\n", headroom(maxVal)))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(totals, ", ")))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(resolved, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateTrendChart creates a Mermaid line chart of the monthly report series.
func GenerateTrendChart(series []stats.SeriesPoint) string {
	if len(series) == 0 {
		return ""
	}

	var labels, values []string
	maxVal := 0
	for _, p := range series {
		labels = append(labels, quote(p.Label))
		values = append(values, fmt.Sprintf("%d", p.Count))
		maxVal = max(maxVal, p.Count)
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Monthly Reports\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Reports\" 0 --> %d\n", headroom(maxVal)))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateLocationChart creates a Mermaid bar chart of the top locations.
func GenerateLocationChart(top []stats.RankEntry) string {
	if len(top) == 0 {
		return ""
	}
	if len(top) > maxBars {
		top = top[:maxBars]
	}

	var labels, values []string
	maxVal := 0
	for _, e := range top {
		labels = append(labels, quote(e.Key))
		values = append(values, fmt.Sprintf("%d", e.Count))
		maxVal = max(maxVal, e.Count)
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Top Locations\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Reports\" 0 --> %d\n", headroom(maxVal)))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}

func departmentLabel(d string) string {
	if d == "" {
		return "(none)"
	}
	return d
}

// quote makes a label safe inside a Mermaid axis list.
func quote(s string) string {
	s = strings.ReplaceAll(s, "\"", "'")
	return fmt.Sprintf("\"%s\"", strings.TrimSpace(s))
}

func headroom(maxVal int) int {
	return maxVal + int(math.Max(1, float64(maxVal)*0.2))
}
