package stats

import "hash/fnv"

// departmentColors are the fixed colours the portal assigns to its own departments.
var departmentColors = map[string]string{
	"Road Maintenance": "#ff6b6b",
	"Sanitation":       "#4ecdc4",
	"Electricity":      "#45b7d1",
	"Water Supply":     "#f9ca24",
	"Public Works":     "#6c5ce7",
}

// chartPalette is used for departments outside the fixed table.
var chartPalette = []string{
	"#FF6B6B", "#4ECDC4", "#45B7D1", "#96CEB4",
	"#FFEAA7", "#DDA0DD", "#98D8C8", "#F7DC6F",
}

// DepartmentColor returns a stable display colour for a department name.
func DepartmentColor(department string) string {
	if c, ok := departmentColors[department]; ok {
		return c
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(department))
	return chartPalette[h.Sum32()%uint32(len(chartPalette))]
}
