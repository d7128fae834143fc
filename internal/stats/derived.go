package stats

import (
	"cmp"
	"math"
	"slices"
)

const (
	DefaultTopDepartments  = 5
	DefaultTopLocations    = 10
	DefaultTopContributors = 10
)

// ResolutionRate returns round(resolved/total*100), or 0 when total is 0.
func ResolutionRate(resolved, total int) int {
	return percentage(resolved, total)
}

func percentage(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

// PerformanceBand classifies a department resolution rate.
type PerformanceBand string

const (
	BandGood PerformanceBand = "good"
	BandFair PerformanceBand = "fair"
	BandPoor PerformanceBand = "poor"
)

// Band returns the performance band for a resolution rate.
func Band(rate int) PerformanceBand {
	switch {
	case rate >= 80:
		return BandGood
	case rate >= 60:
		return BandFair
	default:
		return BandPoor
	}
}

// SummaryOptions sets the top-N cut-offs. Zero values use the defaults.
type SummaryOptions struct {
	TopDepartments  int
	TopLocations    int
	TopContributors int
}

func (o SummaryOptions) withDefaults() SummaryOptions {
	if o.TopDepartments == 0 {
		o.TopDepartments = DefaultTopDepartments
	}
	if o.TopLocations == 0 {
		o.TopLocations = DefaultTopLocations
	}
	if o.TopContributors == 0 {
		o.TopContributors = DefaultTopContributors
	}
	return o
}

// Summary holds the derived metrics of one aggregation pass.
type Summary struct {
	TotalReports      int              `json:"totalReports"`
	TotalResolved     int              `json:"totalResolved"`
	ResolutionRate    int              `json:"resolutionRate"`
	Performance       PerformanceBand  `json:"performance"`
	DepartmentRanking []DepartmentStat `json:"departmentRanking"`
	TopDepartments    []DepartmentStat `json:"topDepartments"`
	TopLocations      []RankEntry      `json:"topLocations"`
	TopContributors   []Contributor    `json:"topContributors"`

	// MonthlyTrend is in first-seen order; MonthlyChronological is sorted
	// and gap-filled with zero months.
	MonthlyTrend         []SeriesPoint `json:"monthlyTrend"`
	MonthlyChronological []SeriesPoint `json:"monthlyChronological"`
}

// Summarize derives rates and rankings from an aggregate.
func Summarize(agg Aggregate, opts SummaryOptions) Summary {
	opts = opts.withDefaults()

	ranking := RankDepartments(agg, 0)
	rate := ResolutionRate(agg.Resolved(), agg.Total)

	return Summary{
		TotalReports:         agg.Total,
		TotalResolved:        agg.Resolved(),
		ResolutionRate:       rate,
		Performance:          Band(rate),
		DepartmentRanking:    ranking,
		TopDepartments:       truncate(ranking, opts.TopDepartments),
		TopLocations:         RankLocations(agg, opts.TopLocations),
		TopContributors:      TopContributors(agg, opts.TopContributors),
		MonthlyTrend:         slices.Clone(agg.Monthly),
		MonthlyChronological: ChronologicalSeries(agg.Monthly),
	}
}

// RankDepartments orders departments by total, descending. Ties keep first-seen order.
// n <= 0 returns the full ranking.
func RankDepartments(agg Aggregate, n int) []DepartmentStat {
	out := slices.Clone(agg.Departments)
	slices.SortStableFunc(out, func(a, b DepartmentStat) int {
		return cmp.Compare(b.Total, a.Total)
	})
	return truncate(out, n)
}

// RankLocations orders raw location strings by count, descending. Ties keep first-seen order.
func RankLocations(agg Aggregate, n int) []RankEntry {
	out := slices.Clone(agg.Locations)
	slices.SortStableFunc(out, func(a, b RankEntry) int {
		return cmp.Compare(b.Count, a.Count)
	})
	return truncate(out, n)
}

// TopContributors orders submitters by report count, descending. Ties keep first-seen order.
func TopContributors(agg Aggregate, n int) []Contributor {
	out := slices.Clone(agg.Contributors)
	slices.SortStableFunc(out, func(a, b Contributor) int {
		return cmp.Compare(b.Count, a.Count)
	})
	return truncate(out, n)
}

// RankClusters orders clusters by count, descending. Ties keep first-seen order.
func RankClusters(set ClusterSet, n int) []*LocationCluster {
	out := slices.Clone(set.Clusters)
	slices.SortStableFunc(out, func(a, b *LocationCluster) int {
		return cmp.Compare(b.Count, a.Count)
	})
	return truncate(out, n)
}

// ChronologicalSeries sorts a month series and fills missing months with zero counts.
func ChronologicalSeries(points []SeriesPoint) []SeriesPoint {
	if len(points) == 0 {
		return []SeriesPoint{}
	}

	first, last := points[0].Month, points[0].Month
	for _, p := range points[1:] {
		if p.Month.Before(first) {
			first = p.Month
		}
		if p.Month.After(last) {
			last = p.Month
		}
	}

	window := NewMonthWindow(first, last)
	months := window.Months()
	out := make([]SeriesPoint, len(months))
	for i, m := range months {
		out[i] = SeriesPoint{Label: MonthLabel(m), Month: m}
	}
	for _, p := range points {
		if idx := window.Index(p.Month); idx >= 0 {
			out[idx].Count += p.Count
		}
	}
	return out
}

func truncate[T any](s []T, n int) []T {
	if n > 0 && len(s) > n {
		return s[:n]
	}
	return s
}
