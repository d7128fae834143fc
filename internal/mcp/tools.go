package mcp

import (
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"grievance-analytics/internal/stats"
)

// FilterInput narrows the snapshot before aggregation.
type FilterInput struct {
	TimeRange  string `json:"time_range,omitempty" jsonschema:"One of all, week, month, year. Default: all."`
	Department string `json:"department,omitempty" jsonschema:"Exact department name, or all."`
	Status     string `json:"status,omitempty" jsonschema:"Exact status as stored by the portal (e.g. Pending, In Progress, Resolved), or all."`
}

func (in FilterInput) filter() (stats.Filter, error) {
	return stats.NewFilter(in.TimeRange, in.Department, in.Status)
}

// RankInput is a filter plus a result limit.
type RankInput struct {
	TimeRange  string `json:"time_range,omitempty" jsonschema:"One of all, week, month, year. Default: all."`
	Department string `json:"department,omitempty" jsonschema:"Exact department name, or all."`
	Status     string `json:"status,omitempty" jsonschema:"Exact status as stored by the portal, or all."`
	Limit      int    `json:"limit,omitempty" jsonschema:"Maximum number of entries to return. Default: the configured top-N."`
}

func (in RankInput) filter() (stats.Filter, error) {
	return stats.NewFilter(in.TimeRange, in.Department, in.Status)
}

// ResolveInput names a free-text location.
type ResolveInput struct {
	Location string `json:"location" jsonschema:"Free-text location as typed by a citizen."`
}

// NearInput selects clusters around a coordinate.
type NearInput struct {
	TimeRange  string  `json:"time_range,omitempty" jsonschema:"One of all, week, month, year. Default: all."`
	Department string  `json:"department,omitempty" jsonschema:"Exact department name, or all."`
	Status     string  `json:"status,omitempty" jsonschema:"Exact status as stored by the portal, or all."`
	Lat        float64 `json:"lat" jsonschema:"Latitude of the centre point in degrees."`
	Lng        float64 `json:"lng" jsonschema:"Longitude of the centre point in degrees."`
	RadiusKm   float64 `json:"radius_km,omitempty" jsonschema:"Search radius in kilometres. Default: 2."`
}

func (in NearInput) filter() (stats.Filter, error) {
	return stats.NewFilter(in.TimeRange, in.Department, in.Status)
}

func (s *Server) registerTools(server *mcp.Server) error {
	if err := addTool(server, "analytics_overview",
		"Overall grievance analytics for the filtered snapshot: totals, resolution rate and performance band, "+
			"status distribution, department ranking, top locations, top contributors and the monthly trend. "+
			"Guidance: start here before drilling into departments or locations.",
		s.handleOverview); err != nil {
		return err
	}
	if err := addTool(server, "department_heatmap",
		"Per-department status breakdown with the department's map colour. Use it to compare departments "+
			"or to build a map legend.",
		s.handleDepartmentHeatmap); err != nil {
		return err
	}
	if err := addTool(server, "location_clusters",
		"Reports grouped by normalized location with coordinates, marker radius, intensity tier and a short "+
			"preview of the reports in each cluster. Ordered by report count, largest first.",
		s.handleLocationClusters); err != nil {
		return err
	}
	if err := addTool(server, "rank_locations",
		"Locations ranked by report count, using the location text exactly as submitted.",
		s.handleRankLocations); err != nil {
		return err
	}
	if err := addTool(server, "top_contributors",
		"Citizens ranked by number of submitted reports, with their share of all reports.",
		s.handleTopContributors); err != nil {
		return err
	}
	if err := addTool(server, "resolve_location",
		"Resolve a free-text location to map coordinates using the gazetteer. Reports whether the city-centre "+
			"fallback was used.",
		s.handleResolveLocation); err != nil {
		return err
	}
	return addTool(server, "clusters_near",
		"Location clusters whose coordinates lie within a radius of a point, nearest first.",
		s.handleClustersNear)
}

func addTool[In any](server *mcp.Server, name, description string, handler mcp.ToolHandlerFor[In, any]) error {
	schema, err := jsonschema.For[In](nil)
	if err != nil {
		return fmt.Errorf("failed to build input schema for %s: %w", name, err)
	}
	mcp.AddTool(server, &mcp.Tool{
		Name:        name,
		Description: description,
		InputSchema: schema,
	}, handler)
	return nil
}
