package export

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"grievance-analytics/internal/stats"
)

// SummaryPDF renders a one-page analytics summary of a view.
func SummaryPDF(view stats.View, title string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "", 16)
	pdf.Cell(0, 10, tr(title))
	pdf.Ln(12)

	// 1. Header
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Generated: %s", view.GeneratedAt.Format("02 Jan 2006 15:04 MST")))
	pdf.Ln(7)
	pdf.Cell(0, 8, tr(fmt.Sprintf("Filter: time range %s, department %s, status %s",
		orAll(string(view.Filter.TimeRange)), orAll(view.Filter.Department), orAll(view.Filter.Status))))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Total reports: %d    Resolved: %d    Resolution rate: %d%%",
		view.Summary.TotalReports, view.Summary.TotalResolved, view.Summary.ResolutionRate))
	pdf.Ln(10)

	// 2. Status distribution
	section(pdf, "Status distribution")
	tally := view.Aggregate.Status
	for _, line := range []struct {
		label string
		count int
	}{
		{"Pending", tally.Pending},
		{"In Progress", tally.InProgress},
		{"Resolved", tally.Resolved},
		{"Other", tally.Other},
	} {
		pdf.Cell(0, 6, fmt.Sprintf("- %s: %d", line.label, line.count))
		pdf.Ln(6)
	}

	// 3. Departments table
	pdf.Ln(4)
	section(pdf, "Departments")
	widths := []float64{60, 20, 22, 24, 20, 20, 24}
	pdf.SetFont("Helvetica", "B", 9)
	for i, h := range []string{"Department", "Total", "Resolved", "In Progress", "Pending", "Other", "Rate"} {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 9)
	for _, d := range view.Summary.DepartmentRanking {
		name := d.Department
		if name == "" {
			name = "(none)"
		}
		cells := []string{
			tr(name),
			fmt.Sprint(d.Total),
			fmt.Sprint(d.Resolved),
			fmt.Sprint(d.InProgress),
			fmt.Sprint(d.Pending),
			fmt.Sprint(d.Other),
			fmt.Sprintf("%d%% (%s)", d.ResolutionRate, stats.Band(d.ResolutionRate)),
		}
		for i, c := range cells {
			align := "R"
			if i == 0 {
				align = "L"
			}
			pdf.CellFormat(widths[i], 6, c, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	// 4. Top locations
	pdf.Ln(4)
	section(pdf, "Top locations")
	for i, e := range view.Summary.TopLocations {
		pdf.Cell(0, 6, tr(fmt.Sprintf("%d. %s: %d", i+1, e.Key, e.Count)))
		pdf.Ln(6)
	}

	// 5. Top contributors
	pdf.Ln(4)
	section(pdf, "Top contributors")
	for i, c := range view.Summary.TopContributors {
		pdf.Cell(0, 6, tr(fmt.Sprintf("%d. %s: %d reports (%d%%)", i+1, c.Name, c.Count, c.Percentage)))
		pdf.Ln(6)
	}

	// 6. Monthly trend
	pdf.Ln(4)
	section(pdf, "Monthly reports")
	for _, p := range view.Summary.MonthlyChronological {
		pdf.Cell(0, 6, fmt.Sprintf("%s: %d", p.Label, p.Count))
		pdf.Ln(6)
	}

	buffer := bytes.NewBuffer(nil)
	if err := pdf.Output(buffer); err != nil {
		return nil, fmt.Errorf("failed to render summary pdf: %w", err)
	}
	return buffer.Bytes(), nil
}

func section(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 8, title)
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
}

func orAll(v string) string {
	if v == "" {
		return stats.AllValues
	}
	return v
}
