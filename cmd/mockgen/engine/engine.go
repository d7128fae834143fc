package engine

import (
	"fmt"
	"math"
	"math/rand"
	"path/filepath"
	"strconv"
	"time"

	"grievance-analytics/internal/grievance"
	"grievance-analytics/internal/snapshot"
	"grievance-analytics/internal/stats"
)

type GeneratorConfig struct {
	Scenario string // "mild", "hotspot" or "messy"
	Count    int
	Users    int
	Seed     int64
	Now      time.Time
}

// Departments are the categories offered by the portal's submission form.
var Departments = []string{"Road Maintenance", "Sanitation", "Electricity", "Water Supply", "Public Works"}

var titles = map[string][]string{
	"Road Maintenance": {"Pothole on main road", "Broken divider", "Road caved in"},
	"Sanitation":       {"Garbage not collected", "Overflowing drain", "Dead animal on street"},
	"Electricity":      {"Streetlight not working", "Loose overhead wire", "Transformer sparking"},
	"Water Supply":     {"No water since two days", "Pipeline leakage", "Contaminated water"},
	"Public Works":     {"Damaged footpath", "Park bench broken", "Bus stop roof missing"},
}

// Generate produces a deterministic synthetic snapshot for the given seed.
func Generate(cfg GeneratorConfig) []grievance.Report {
	if cfg.Now.IsZero() {
		cfg.Now = time.Now()
	}
	if cfg.Users <= 0 {
		cfg.Users = 12
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	places := stats.DefaultGazetteer().Places

	reports := make([]grievance.Report, 0, cfg.Count)
	for i := 0; i < cfg.Count; i++ {
		id := int64(i + 1)
		dept := Departments[rng.Intn(len(Departments))]

		// 1. Creation date: spread over the last year, skewed towards recent days
		ageDays := math.Abs(rng.NormFloat64()) * 90
		if ageDays > 365 {
			ageDays = 365
		}
		created := cfg.Now.Add(-time.Duration(ageDays*24) * time.Hour)

		// 2. Status depends on age: old reports are mostly resolved
		status := pickStatus(rng, ageDays)

		// 3. Location
		place := places[rng.Intn(len(places))].Name
		if cfg.Scenario == "hotspot" && rng.Float64() < 0.4 {
			place = "cidco n-3"
		}
		location := grievance.StringPtr(displayCase(rng, place))

		r := grievance.Report{
			ID:          strconv.FormatInt(id, 10),
			Code:        grievance.FormatCode(id),
			Title:       titles[dept][rng.Intn(len(titles[dept]))],
			Description: fmt.Sprintf("Reported near %s", place),
			Department:  dept,
			RawStatus:   status,
			Status:      grievance.ParseStatus(status),
			Location:    location,
			DateCreated: created.UTC().Truncate(time.Second),
		}
		uid := rng.Intn(cfg.Users) + 1
		r.User = &grievance.User{
			ID:    strconv.Itoa(uid),
			Name:  fmt.Sprintf("Citizen %d", uid),
			Email: fmt.Sprintf("citizen%d@example.com", uid),
		}
		if status == grievance.LabelForwarded {
			r.ForwardedTo = grievance.StringPtr("Municipal Corporation")
		}

		if cfg.Scenario == "messy" {
			messUp(rng, &r)
		}
		reports = append(reports, r)
	}
	return reports
}

func pickStatus(rng *rand.Rand, ageDays float64) string {
	u := rng.Float64()
	switch {
	case ageDays > 60 && u < 0.75:
		return grievance.LabelResolved
	case u < 0.35:
		return grievance.LabelPending
	case u < 0.70:
		return grievance.LabelInProgress
	case u < 0.90:
		return grievance.LabelResolved
	case u < 0.95:
		return grievance.LabelVerified
	default:
		return grievance.LabelForwarded
	}
}

// displayCase varies casing and padding the way free-text input does.
func displayCase(rng *rand.Rand, place string) string {
	switch rng.Intn(4) {
	case 0:
		return place
	case 1:
		return " " + place + " "
	case 2:
		return titleCase(place)
	default:
		return titleCase(place) + " Road"
	}
}

func titleCase(s string) string {
	b := []byte(s)
	upper := true
	for i, c := range b {
		if upper && c >= 'a' && c <= 'z' {
			b[i] = c - 'a' + 'A'
		}
		upper = c == ' ' || c == '-'
	}
	return string(b)
}

// messUp drops optional fields so consumers see the shapes a real portal export has.
func messUp(rng *rand.Rand, r *grievance.Report) {
	switch rng.Intn(6) {
	case 0:
		r.Location = nil
	case 1:
		r.Location = grievance.StringPtr("   ")
	case 2:
		r.Department = ""
	case 3:
		r.DateCreated = time.Time{}
	case 4:
		r.User = nil
	}
	if rng.Intn(10) == 0 {
		r.RawStatus = "Escalated"
		r.Status = grievance.ParseStatus(r.RawStatus)
	}
}

// Save writes the snapshot as JSONL under outDir and returns the file path.
func Save(outDir string, name string, reports []grievance.Report) (string, error) {
	path := filepath.Join(outDir, fmt.Sprintf("%s.jsonl", name))
	if err := snapshot.WriteJSONL(path, reports); err != nil {
		return "", err
	}
	return path, nil
}
