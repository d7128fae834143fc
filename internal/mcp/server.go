package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"grievance-analytics/internal/analytics"
)

const (
	serverName    = "grievance-analytics"
	serverVersion = "0.1.0"
)

// Options tune what the tools return.
type Options struct {
	// EnableMermaidCharts appends Mermaid chart blocks to tool results.
	EnableMermaidCharts bool
	// TopLocations is the default limit of ranking tools when the caller gives none.
	TopLocations int
}

// Server exposes the analytics engine as MCP tools.
type Server struct {
	service *analytics.Service
	opts    Options
}

// NewServer creates a new MCP server.
func NewServer(service *analytics.Service, opts Options) *Server {
	if opts.TopLocations <= 0 {
		opts.TopLocations = 10
	}
	return &Server{service: service, opts: opts}
}

// Build returns an SDK server with every tool registered.
func (s *Server) Build() (*mcp.Server, error) {
	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)
	if err := s.registerTools(server); err != nil {
		return nil, err
	}
	return server, nil
}

// Serve runs the tool server over stdio until the client disconnects or ctx is done.
func (s *Server) Serve(ctx context.Context) error {
	server, err := s.Build()
	if err != nil {
		return err
	}
	log.Info().Str("name", serverName).Str("version", serverVersion).Msg("MCP server listening on stdio")
	return server.Run(ctx, &mcp.StdioTransport{})
}
