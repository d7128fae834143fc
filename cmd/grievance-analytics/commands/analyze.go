package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"grievance-analytics/internal/export"
	"grievance-analytics/internal/stats"
	"grievance-analytics/internal/telemetry"
)

var (
	analyzeTimeRange  string
	analyzeDepartment string
	analyzeStatus     string
	analyzePDF        string
	analyzeGeoJSON    string
	analyzeCSV        string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run one aggregation pass and print the result as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, err := stats.NewFilter(analyzeTimeRange, analyzeDepartment, analyzeStatus)
		if err != nil {
			return err
		}

		ctx, cancel := signalContext(cmd)
		defer cancel()

		a, err := newApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.service.Run(ctx, telemetry.SurfaceCLI, filter)
		if err != nil {
			return err
		}
		for _, w := range res.Warnings {
			log.Warn().Str("pass", res.View.PassID).Msg(w)
		}

		if analyzePDF != "" {
			data, err := export.SummaryPDF(res.View, "Grievance Analytics Summary")
			if err != nil {
				return err
			}
			if err := writeOutput(analyzePDF, data); err != nil {
				return err
			}
		}
		if analyzeGeoJSON != "" {
			data, err := export.ClustersGeoJSON(res.View.Clusters)
			if err != nil {
				return err
			}
			if err := writeOutput(analyzeGeoJSON, data); err != nil {
				return err
			}
		}
		if analyzeCSV != "" {
			data, err := export.DepartmentsCSV(res.View.Summary.DepartmentRanking)
			if err != nil {
				return err
			}
			if err := writeOutput(analyzeCSV, data); err != nil {
				return err
			}
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res.View)
	},
}

func writeOutput(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	log.Info().Str("path", path).Int("bytes", len(data)).Msg("Wrote export")
	return nil
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeTimeRange, "time-range", "all", "all, week, month or year")
	analyzeCmd.Flags().StringVar(&analyzeDepartment, "department", "all", "department to include, or all")
	analyzeCmd.Flags().StringVar(&analyzeStatus, "status", "all", "status to include, or all")
	analyzeCmd.Flags().StringVar(&analyzePDF, "pdf", "", "also write a PDF summary to this path")
	analyzeCmd.Flags().StringVar(&analyzeGeoJSON, "geojson", "", "also write the clusters as GeoJSON to this path")
	analyzeCmd.Flags().StringVar(&analyzeCSV, "csv", "", "also write the department table as CSV to this path")
}
