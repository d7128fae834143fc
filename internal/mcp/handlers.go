package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"grievance-analytics/internal/analytics"
	"grievance-analytics/internal/grievance"
	"grievance-analytics/internal/stats"
	"grievance-analytics/internal/telemetry"
	"grievance-analytics/internal/visuals"
)

const (
	defaultRadiusKm = 2.0
	previewSize     = 3
)

func (s *Server) run(ctx context.Context, tool string, in interface{ filter() (stats.Filter, error) }) (analytics.Result, error) {
	filter, err := in.filter()
	if err != nil {
		return analytics.Result{}, err
	}
	log.Info().Str("tool", tool).Interface("filter", filter).Msg("Tool call")
	return s.service.Run(ctx, telemetry.SurfaceMCP, filter)
}

func (s *Server) limit(n int) int {
	if n <= 0 {
		return s.opts.TopLocations
	}
	return n
}

func (s *Server) charts(generate ...func() string) []string {
	if !s.opts.EnableMermaidCharts {
		return nil
	}
	return lo.Map(generate, func(g func() string, _ int) string { return g() })
}

func (s *Server) handleOverview(ctx context.Context, _ *mcp.CallToolRequest, in FilterInput) (*mcp.CallToolResult, any, error) {
	res, err := s.run(ctx, "analytics_overview", in)
	if err != nil {
		return errorResult(err), nil, nil
	}

	summary := res.View.Summary
	data := map[string]any{
		"summary":      summary,
		"status_tally": res.View.Aggregate.Status,
	}
	guidance := []string{
		fmt.Sprintf("Overall performance is '%s' (resolution rate %d%%).", summary.Performance, summary.ResolutionRate),
		"Use 'department_heatmap' for the per-department status breakdown.",
		"Use 'location_clusters' or 'clusters_near' to see where reports concentrate.",
		"'monthlyTrend' keeps first-seen order; prefer 'monthlyChronological' when describing trends over time.",
	}
	charts := s.charts(
		func() string { return visuals.GenerateStatusPie(res.View.Aggregate.Status) },
		func() string { return visuals.GenerateDepartmentChart(summary.DepartmentRanking) },
		func() string { return visuals.GenerateTrendChart(summary.MonthlyChronological) },
	)
	return WrapResponse(data, passContext(res), res.Warnings, guidance, charts...), nil, nil
}

func (s *Server) handleDepartmentHeatmap(ctx context.Context, _ *mcp.CallToolRequest, in FilterInput) (*mcp.CallToolResult, any, error) {
	res, err := s.run(ctx, "department_heatmap", in)
	if err != nil {
		return errorResult(err), nil, nil
	}

	guidance := []string{
		"Counts per department are split into resolved, in_progress, pending and other.",
		"The legacy 'pending' figure of the portal dashboard equals pending + other.",
	}
	charts := s.charts(func() string { return visuals.GenerateDepartmentChart(res.View.Summary.DepartmentRanking) })
	return WrapResponse(stats.DepartmentHeatmap(res.View.Aggregate), passContext(res), res.Warnings, guidance, charts...), nil, nil
}

// ClusterSummary is a cluster as presented to tool callers.
type ClusterSummary struct {
	Key         string              `json:"key"`
	Name        string              `json:"name"`
	Lat         float64             `json:"lat"`
	Lng         float64             `json:"lng"`
	Count       int                 `json:"count"`
	Departments []string            `json:"departments"`
	Radius      int                 `json:"radius"`
	Tier        stats.IntensityTier `json:"tier"`
	Color       string              `json:"color"`
	Preview     []PreviewItem       `json:"preview"`
}

// PreviewItem is a short description of one report in a cluster.
type PreviewItem struct {
	Code       string `json:"code"`
	Title      string `json:"title"`
	Department string `json:"department"`
	Status     string `json:"status"`
}

func summarizeCluster(c *stats.LocationCluster) ClusterSummary {
	tier := stats.Intensity(c.Count)
	return ClusterSummary{
		Key:         c.Key,
		Name:        c.DisplayName,
		Lat:         c.Coordinates.Lat(),
		Lng:         c.Coordinates.Lng(),
		Count:       c.Count,
		Departments: c.Departments,
		Radius:      stats.MarkerRadius(c.Count),
		Tier:        tier,
		Color:       tier.Color(),
		Preview: lo.Map(c.Preview(previewSize), func(r grievance.Report, _ int) PreviewItem {
			return PreviewItem{Code: r.Code, Title: r.Title, Department: r.Department, Status: r.RawStatus}
		}),
	}
}

func (s *Server) handleLocationClusters(ctx context.Context, _ *mcp.CallToolRequest, in RankInput) (*mcp.CallToolResult, any, error) {
	res, err := s.run(ctx, "location_clusters", in)
	if err != nil {
		return errorResult(err), nil, nil
	}

	set := res.View.ClusterSet()
	ranked := stats.RankClusters(set, s.limit(in.Limit))
	data := map[string]any{
		"total_clusters": set.Len(),
		"clusters":       lo.Map(ranked, func(c *stats.LocationCluster, _ int) ClusterSummary { return summarizeCluster(c) }),
	}
	guidance := []string{
		"Clusters group location strings case-insensitively after trimming whitespace.",
		"Locations missing from the gazetteer are placed at the city centre; check 'warnings' before reading the map literally.",
	}
	return WrapResponse(data, passContext(res), res.Warnings, guidance), nil, nil
}

func (s *Server) handleRankLocations(ctx context.Context, _ *mcp.CallToolRequest, in RankInput) (*mcp.CallToolResult, any, error) {
	res, err := s.run(ctx, "rank_locations", in)
	if err != nil {
		return errorResult(err), nil, nil
	}

	ranking := stats.RankLocations(res.View.Aggregate, s.limit(in.Limit))
	guidance := []string{
		"This ranking keys on the exact submitted text, so 'Osmanpura' and 'osmanpura ' count separately. Use 'location_clusters' for the merged view.",
	}
	charts := s.charts(func() string { return visuals.GenerateLocationChart(ranking) })
	return WrapResponse(ranking, passContext(res), res.Warnings, guidance, charts...), nil, nil
}

func (s *Server) handleTopContributors(ctx context.Context, _ *mcp.CallToolRequest, in RankInput) (*mcp.CallToolResult, any, error) {
	res, err := s.run(ctx, "top_contributors", in)
	if err != nil {
		return errorResult(err), nil, nil
	}

	contributors := stats.TopContributors(res.View.Aggregate, s.limit(in.Limit))
	guidance := []string{
		"Percentages are shares of all reports in the filtered snapshot, including anonymous ones.",
	}
	return WrapResponse(contributors, passContext(res), res.Warnings, guidance), nil, nil
}

func (s *Server) handleResolveLocation(_ context.Context, _ *mcp.CallToolRequest, in ResolveInput) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(in.Location) == "" {
		return errorResult(fmt.Errorf("location must not be empty")), nil, nil
	}

	resolver := s.service.Resolver()
	coords := resolver.Resolve(in.Location)
	data := map[string]any{
		"location": in.Location,
		"lat":      coords.Lat(),
		"lng":      coords.Lng(),
	}
	var warnings []string
	if m, ok := resolver.(interface{ Match(string) string }); ok {
		key := m.Match(in.Location)
		data["matched"] = key
		data["fallback"] = key == ""
		if key == "" {
			warnings = append(warnings, "No gazetteer entry matched; the city-centre default was used.")
		}
	}
	return WrapResponse(data, nil, warnings, nil), nil, nil
}

func (s *Server) handleClustersNear(ctx context.Context, _ *mcp.CallToolRequest, in NearInput) (*mcp.CallToolResult, any, error) {
	if in.Lat < -90 || in.Lat > 90 || in.Lng < -180 || in.Lng > 180 {
		return errorResult(fmt.Errorf("coordinates out of range: lat=%v lng=%v", in.Lat, in.Lng)), nil, nil
	}
	radius := in.RadiusKm
	if radius <= 0 {
		radius = defaultRadiusKm
	}

	res, err := s.run(ctx, "clusters_near", in)
	if err != nil {
		return errorResult(err), nil, nil
	}

	nearby := stats.ClustersWithin(res.View.ClusterSet(), stats.Coordinates{in.Lat, in.Lng}, radius)
	data := map[string]any{
		"radius_km": radius,
		"clusters": lo.Map(nearby, func(n stats.NearbyCluster, _ int) map[string]any {
			return map[string]any{
				"distance_km": n.DistanceKm,
				"cluster":     summarizeCluster(n.Cluster),
			}
		}),
	}
	return WrapResponse(data, passContext(res), res.Warnings, nil), nil, nil
}
