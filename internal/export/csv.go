package export

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"grievance-analytics/internal/stats"
)

// DepartmentsCSV renders the department ranking as CSV.
func DepartmentsCSV(ranking []stats.DepartmentStat) ([]byte, error) {
	headers := []string{"department", "total", "resolved", "in_progress", "pending", "other", "resolution_rate", "performance"}
	rows := lo.Map(ranking, func(d stats.DepartmentStat, _ int) []string {
		return []string{
			textCell(d.Department),
			strconv.Itoa(d.Total),
			strconv.Itoa(d.Resolved),
			strconv.Itoa(d.InProgress),
			strconv.Itoa(d.Pending),
			strconv.Itoa(d.Other),
			strconv.Itoa(d.ResolutionRate),
			string(stats.Band(d.ResolutionRate)),
		}
	})
	return writeCSV(headers, rows)
}

// LocationsCSV renders a location ranking as CSV.
func LocationsCSV(ranking []stats.RankEntry) ([]byte, error) {
	rows := lo.Map(ranking, func(e stats.RankEntry, _ int) []string {
		return []string{textCell(e.Key), strconv.Itoa(e.Count)}
	})
	return writeCSV([]string{"location", "count"}, rows)
}

// textCell neutralises free text that a spreadsheet would evaluate as a formula.
func textCell(s string) string {
	if s != "" && strings.ContainsRune("=+-@\t\r", rune(s[0])) {
		return "'" + s
	}
	return s
}

func writeCSV(headers []string, rows [][]string) ([]byte, error) {
	buffer := bytes.NewBuffer(nil)
	writer := csv.NewWriter(buffer)
	if err := writer.Write(headers); err != nil {
		return nil, err
	}
	if err := writer.WriteAll(rows); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
