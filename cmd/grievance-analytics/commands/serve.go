package commands

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"grievance-analytics/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analytics tools over MCP stdio (default)",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext(cmd)
	defer cancel()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	log.Info().Msg("MCP Server starting Stdio loop")
	server := mcp.NewServer(a.service, mcp.Options{
		EnableMermaidCharts: cfg.EnableMermaidCharts,
		TopLocations:        cfg.TopLocations,
	})
	return server.Serve(ctx)
}
