package snapshot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"grievance-analytics/internal/grievance"
)

// ErrNoSnapshot is returned when neither the source nor the cache can provide reports.
var ErrNoSnapshot = errors.New("no report snapshot available")

// Source delivers a full, already-decoded report snapshot.
type Source interface {
	Name() string
	Load(ctx context.Context) ([]grievance.Report, error)
}

// APISource reads the snapshot from the portal's admin endpoint.
type APISource struct {
	client     grievance.Client
	department string
	status     string
}

// NewAPISource wraps a portal client. Department and status are optional
// server-side pre-filters; leave them empty to fetch everything.
func NewAPISource(client grievance.Client, department, status string) *APISource {
	return &APISource{client: client, department: department, status: status}
}

func (s *APISource) Name() string { return "api" }

func (s *APISource) Load(ctx context.Context) ([]grievance.Report, error) {
	if s.department == "" && s.status == "" {
		return s.client.ListReports(ctx)
	}
	return s.client.ListReportsFiltered(ctx, s.department, s.status)
}

// FileSource reads a JSON array or JSONL file of reports.
type FileSource struct {
	Path string
}

func (s *FileSource) Name() string { return "file" }

func (s *FileSource) Load(ctx context.Context) ([]grievance.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		return grievance.DecodeReports([]byte(trimmed))
	}
	return DecodeJSONL(strings.NewReader(trimmed), s.Path)
}

// MultiSource loads several sources concurrently and concatenates them in order.
type MultiSource struct {
	Sources []Source
}

func (m *MultiSource) Name() string {
	names := make([]string, len(m.Sources))
	for i, s := range m.Sources {
		names[i] = s.Name()
	}
	return strings.Join(names, "+")
}

func (m *MultiSource) Load(ctx context.Context) ([]grievance.Report, error) {
	parts := make([][]grievance.Report, len(m.Sources))
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range m.Sources {
		g.Go(func() error {
			reports, err := src.Load(gctx)
			if err != nil {
				return fmt.Errorf("source %s: %w", src.Name(), err)
			}
			parts[i] = reports
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, p := range parts {
		total += len(p)
	}
	out := make([]grievance.Report, 0, total)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out, nil
}
