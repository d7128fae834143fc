package stats

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"grievance-analytics/internal/grievance"
)

// SessionOptions carries presentation settings for a pass.
type SessionOptions struct {
	Aggregate AggregateOptions
	Summary   SummaryOptions
}

// AnalysisSession runs one full aggregation pass over a report snapshot.
// All state is explicit: nothing is read from package globals and nothing
// survives between runs.
type AnalysisSession struct {
	resolver LocationResolver
	filter   Filter
	now      time.Time
	opts     SessionOptions
	passID   string
}

// View is everything a dashboard needs from one pass.
type View struct {
	PassID       string             `json:"passId"`
	GeneratedAt  time.Time          `json:"generatedAt"`
	Filter       Filter             `json:"filter"`
	TotalReports int                `json:"totalReports"`
	Aggregate    Aggregate          `json:"aggregate"`
	Summary      Summary            `json:"summary"`
	Clusters     []*LocationCluster `json:"clusters"`

	clusterSet ClusterSet
}

// ClusterSet returns the full keyed cluster set of the view.
func (v View) ClusterSet() ClusterSet {
	return v.clusterSet
}

// ErrNoResolver is returned when a session is created without a location resolver.
var ErrNoResolver = errors.New("analysis session requires a location resolver")

// NewAnalysisSession creates a session. A zero now means time.Now().
func NewAnalysisSession(resolver LocationResolver, filter Filter, now time.Time, opts SessionOptions) (*AnalysisSession, error) {
	if resolver == nil {
		return nil, ErrNoResolver
	}
	if now.IsZero() {
		now = time.Now()
	}
	return &AnalysisSession{
		resolver: resolver,
		filter:   filter,
		now:      now,
		opts:     opts,
		passID:   uuid.NewString(),
	}, nil
}

// PassID identifies this session in logs and responses.
func (s *AnalysisSession) PassID() string {
	return s.passID
}

// Filter returns the filter the session applies.
func (s *AnalysisSession) Filter() Filter {
	return s.filter
}

// Now returns the reference time for time-range filtering.
func (s *AnalysisSession) Now() time.Time {
	return s.now
}

// Resolver returns the session's location resolver.
func (s *AnalysisSession) Resolver() LocationResolver {
	return s.resolver
}

// Select applies the session filter to the full snapshot.
func (s *AnalysisSession) Select(snapshot []grievance.Report) []grievance.Report {
	return s.filter.Apply(snapshot, s.now)
}

// Aggregate runs the dimensional aggregator over already-selected reports.
func (s *AnalysisSession) Aggregate(selected []grievance.Report) Aggregate {
	return AggregateReports(selected, s.opts.Aggregate)
}

// Cluster runs the location clusterer over already-selected reports.
func (s *AnalysisSession) Cluster(selected []grievance.Report) ClusterSet {
	return ClusterReports(selected, s.resolver)
}

// Assemble combines independently computed parts into a View.
func (s *AnalysisSession) Assemble(agg Aggregate, clusters ClusterSet) View {
	return View{
		PassID:       s.passID,
		GeneratedAt:  s.now,
		Filter:       s.filter,
		TotalReports: agg.Total,
		Aggregate:    agg,
		Summary:      Summarize(agg, s.opts.Summary),
		Clusters:     clusters.Clusters,
		clusterSet:   clusters,
	}
}

// Run filters the full snapshot and recomputes every derived structure from scratch.
func (s *AnalysisSession) Run(snapshot []grievance.Report) View {
	// 1. Filter
	selected := s.Select(snapshot)

	// 2. Aggregate and cluster over the same selection
	agg := s.Aggregate(selected)
	clusters := s.Cluster(selected)

	// 3. Derive
	return s.Assemble(agg, clusters)
}

// HeatmapCell is the per-department shape served to the map legend.
type HeatmapCell struct {
	Total      int    `json:"total"`
	Resolved   int    `json:"resolved"`
	InProgress int    `json:"in_progress"`
	Pending    int    `json:"pending"`
	Other      int    `json:"other"`
	Color      string `json:"color"`
}

// DepartmentHeatmap returns the per-department counts keyed by department name.
func DepartmentHeatmap(agg Aggregate) map[string]HeatmapCell {
	out := make(map[string]HeatmapCell, len(agg.Departments))
	for _, d := range agg.Departments {
		out[d.Department] = HeatmapCell{
			Total:      d.Total,
			Resolved:   d.Resolved,
			InProgress: d.InProgress,
			Pending:    d.Pending,
			Other:      d.Other,
			Color:      d.Color,
		}
	}
	return out
}

// LocationPoint is one flat location record for the map's raw layer.
type LocationPoint struct {
	Location   string `json:"location"`
	Department string `json:"department"`
	Status     string `json:"status"`
	Title      string `json:"title"`
	Count      int    `json:"count"`
}

// LocationPoints lists every located report as a single-count point.
func LocationPoints(reports []grievance.Report) []LocationPoint {
	out := make([]LocationPoint, 0, len(reports))
	for _, r := range reports {
		if !r.HasLocation() {
			continue
		}
		out = append(out, LocationPoint{
			Location:   r.LocationText(),
			Department: r.Department,
			Status:     r.RawStatus,
			Title:      r.Title,
			Count:      1,
		})
	}
	return out
}
