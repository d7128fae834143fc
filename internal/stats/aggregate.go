package stats

import (
	"time"

	"grievance-analytics/internal/grievance"
)

// MonthLabelLayout renders month buckets as short month plus year ("Jan 2025").
const MonthLabelLayout = "Jan 2006"

// AggregateOptions controls presentation details of an aggregation pass.
type AggregateOptions struct {
	// Location is the viewer time zone used to bucket months. Defaults to UTC.
	Location *time.Location
}

func (o AggregateOptions) location() *time.Location {
	if o.Location == nil {
		return time.UTC
	}
	return o.Location
}

// DepartmentStat is the per-department status breakdown.
// Total always equals Resolved + InProgress + Pending + Other.
type DepartmentStat struct {
	Department     string `json:"department"`
	Total          int    `json:"total"`
	Resolved       int    `json:"resolved"`
	InProgress     int    `json:"inProgress"`
	Pending        int    `json:"pending"`
	Other          int    `json:"other"`
	ResolutionRate int    `json:"resolutionRate"`
	Color          string `json:"color"`
}

// LegacyPending folds the Other bucket into Pending, matching the admin
// dashboard that displayed everything not resolved or in progress as pending.
func (d DepartmentStat) LegacyPending() int {
	return d.Pending + d.Other
}

// StatusTally is the global count per canonical status bucket.
type StatusTally struct {
	Pending    int `json:"Pending"`
	InProgress int `json:"In Progress"`
	Resolved   int `json:"Resolved"`
	Other      int `json:"Other"`
}

// Total returns the sum over all buckets.
func (s StatusTally) Total() int {
	return s.Pending + s.InProgress + s.Resolved + s.Other
}

func (s *StatusTally) add(b grievance.Bucket) {
	switch b {
	case grievance.BucketPending:
		s.Pending++
	case grievance.BucketInProgress:
		s.InProgress++
	case grievance.BucketResolved:
		s.Resolved++
	default:
		s.Other++
	}
}

// SeriesPoint is one month bucket of the report time series.
type SeriesPoint struct {
	Label string    `json:"label"`
	Month time.Time `json:"month"`
	Count int       `json:"count"`
}

// RankEntry is a generic (key, count) pair.
type RankEntry struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Contributor is a submitter and how many reports they filed.
type Contributor struct {
	UserID     string `json:"userId"`
	Name       string `json:"name"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

// Aggregate is the result of one dimensional aggregation pass.
// All slices are in first-seen order.
type Aggregate struct {
	Total        int              `json:"totalReports"`
	Departments  []DepartmentStat `json:"departments"`
	Status       StatusTally      `json:"statusTally"`
	Monthly      []SeriesPoint    `json:"monthly"`
	Locations    []RankEntry      `json:"locations"`
	Contributors []Contributor    `json:"contributors"`

	deptIndex map[string]int
}

// Department returns the stat for a department key.
func (a Aggregate) Department(name string) (DepartmentStat, bool) {
	i, ok := a.deptIndex[name]
	if !ok {
		return DepartmentStat{}, false
	}
	return a.Departments[i], true
}

// Resolved returns the number of reports in the Resolved bucket.
func (a Aggregate) Resolved() int {
	return a.Status.Resolved
}

// AggregateReports walks reports once and builds all dimensional tallies.
// Missing departments count under "". Missing dates are left out of Monthly only.
// Blank locations are left out of Locations only. Reports without a submitter are
// left out of Contributors only.
func AggregateReports(reports []grievance.Report, opts AggregateOptions) Aggregate {
	loc := opts.location()

	agg := Aggregate{
		Total:        len(reports),
		Departments:  make([]DepartmentStat, 0),
		Monthly:      make([]SeriesPoint, 0),
		Locations:    make([]RankEntry, 0),
		Contributors: make([]Contributor, 0),
		deptIndex:    make(map[string]int),
	}
	monthIndex := make(map[string]int)
	locationIndex := make(map[string]int)
	userIndex := make(map[string]int)

	for _, r := range reports {
		bucket := r.Status.Bucket()

		// 1. Department breakdown
		di, ok := agg.deptIndex[r.Department]
		if !ok {
			di = len(agg.Departments)
			agg.deptIndex[r.Department] = di
			agg.Departments = append(agg.Departments, DepartmentStat{
				Department: r.Department,
				Color:      DepartmentColor(r.Department),
			})
		}
		d := &agg.Departments[di]
		d.Total++
		switch bucket {
		case grievance.BucketResolved:
			d.Resolved++
		case grievance.BucketInProgress:
			d.InProgress++
		case grievance.BucketPending:
			d.Pending++
		default:
			d.Other++
		}

		// 2. Global status tally
		agg.Status.add(bucket)

		// 3. Month series
		if r.HasDate() {
			month := MonthStart(r.DateCreated, loc)
			label := MonthLabel(month)
			mi, ok := monthIndex[label]
			if !ok {
				mi = len(agg.Monthly)
				monthIndex[label] = mi
				agg.Monthly = append(agg.Monthly, SeriesPoint{
					Label: label,
					Month: month,
				})
			}
			agg.Monthly[mi].Count++
		}

		// 4. Raw location tally
		if r.HasLocation() {
			raw := r.LocationText()
			li, ok := locationIndex[raw]
			if !ok {
				li = len(agg.Locations)
				locationIndex[raw] = li
				agg.Locations = append(agg.Locations, RankEntry{Key: raw})
			}
			agg.Locations[li].Count++
		}

		// 5. Submitters
		if id, name, ok := submitter(r); ok {
			ui, seen := userIndex[id]
			if !seen {
				ui = len(agg.Contributors)
				userIndex[id] = ui
				agg.Contributors = append(agg.Contributors, Contributor{UserID: id, Name: name})
			}
			agg.Contributors[ui].Count++
		}
	}

	for i := range agg.Departments {
		d := &agg.Departments[i]
		d.ResolutionRate = ResolutionRate(d.Resolved, d.Total)
	}
	for i := range agg.Contributors {
		c := &agg.Contributors[i]
		c.Percentage = percentage(c.Count, agg.Total)
	}

	return agg
}

func submitter(r grievance.Report) (id, name string, ok bool) {
	if r.User == nil {
		return "", "", false
	}
	id = r.User.ID
	if id == "" {
		id = r.User.Name
	}
	if id == "" {
		return "", "", false
	}
	name = r.User.Name
	if name == "" {
		name = "Unknown"
	}
	return id, name, true
}
