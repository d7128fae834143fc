package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"grievance-analytics/internal/analytics"
	"grievance-analytics/internal/export"
	"grievance-analytics/internal/grievance"
	"grievance-analytics/internal/snapshot"
	"grievance-analytics/internal/stats"
	"grievance-analytics/internal/telemetry"
)

// Health reports liveness.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// run parses the filter query parameters and executes one pass.
// On failure it writes the error response and returns false.
func (h *Handlers) run(c *gin.Context) (analytics.Result, bool) {
	filter, err := stats.NewFilter(c.Query("time_range"), c.Query("department"), c.Query("status"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return analytics.Result{}, false
	}

	res, err := h.service.Run(c.Request.Context(), telemetry.SurfaceHTTP, filter)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, snapshot.ErrNoSnapshot) || errors.Is(err, grievance.ErrUnauthorized) {
			status = http.StatusBadGateway
		}
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Aggregation pass failed")
		c.JSON(status, gin.H{"error": err.Error()})
		return analytics.Result{}, false
	}
	return res, true
}

func (h *Handlers) limit(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return h.topLocations, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid limit %q", raw)})
		return 0, false
	}
	return n, true
}

// Analytics returns the derived summary of one pass.
func (h *Handlers) Analytics(c *gin.Context) {
	res, ok := h.run(c)
	if !ok {
		return
	}
	view := res.View
	c.JSON(http.StatusOK, gin.H{
		"passId":       view.PassID,
		"generatedAt":  view.GeneratedAt,
		"source":       res.Source,
		"fetchedAt":    res.FetchedAt,
		"filter":       view.Filter,
		"totalReports": view.TotalReports,
		"statusTally":  view.Aggregate.Status,
		"summary":      view.Summary,
		"warnings":     res.Warnings,
	})
}

// HeatmapData returns the per-department status breakdown keyed by department.
func (h *Handlers) HeatmapData(c *gin.Context) {
	res, ok := h.run(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, stats.DepartmentHeatmap(res.View.Aggregate))
}

// HeatmapLocations returns one point per located report.
func (h *Handlers) HeatmapLocations(c *gin.Context) {
	res, ok := h.run(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, stats.LocationPoints(res.Selected))
}

// HeatmapClusters returns the location clusters as a GeoJSON FeatureCollection.
func (h *Handlers) HeatmapClusters(c *gin.Context) {
	res, ok := h.run(c)
	if !ok {
		return
	}
	data, err := export.ClustersGeoJSON(res.View.Clusters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/geo+json", data)
}

// RankLocations returns locations ranked by report count.
func (h *Handlers) RankLocations(c *gin.Context) {
	n, ok := h.limit(c)
	if !ok {
		return
	}
	res, ok := h.run(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, stats.RankLocations(res.View.Aggregate, n))
}

// ExportSummaryPDF renders the analytics summary as a PDF download.
func (h *Handlers) ExportSummaryPDF(c *gin.Context) {
	res, ok := h.run(c)
	if !ok {
		return
	}
	data, err := export.SummaryPDF(res.View, "Grievance Analytics Summary")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="grievance-summary.pdf"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

// ExportDepartmentsCSV renders the department ranking as a CSV download.
func (h *Handlers) ExportDepartmentsCSV(c *gin.Context) {
	res, ok := h.run(c)
	if !ok {
		return
	}
	data, err := export.DepartmentsCSV(res.View.Summary.DepartmentRanking)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="departments.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

// ExportLocationsCSV renders the full location ranking as a CSV download.
func (h *Handlers) ExportLocationsCSV(c *gin.Context) {
	res, ok := h.run(c)
	if !ok {
		return
	}
	data, err := export.LocationsCSV(stats.RankLocations(res.View.Aggregate, 0))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="locations.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}
