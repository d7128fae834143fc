package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"grievance-analytics/internal/grievance"
	"grievance-analytics/internal/snapshot"
	"grievance-analytics/internal/stats"
	"grievance-analytics/internal/telemetry"
)

// SnapshotProvider hands out the current report snapshot.
type SnapshotProvider interface {
	SourceName() string
	Snapshot(ctx context.Context) (snapshot.Snapshot, error)
}

// Service runs aggregation passes over the provider's current snapshot.
// It is shared by the MCP tools, the HTTP API and the analyze command.
type Service struct {
	provider SnapshotProvider
	resolver stats.LocationResolver
	opts     stats.SessionOptions
	now      func() time.Time
}

// Result is one pass plus the context needed to explain it.
type Result struct {
	View      stats.View
	Selected  []grievance.Report
	Source    string
	FetchedAt time.Time
	Warnings  []string
}

// NewService creates a service.
func NewService(provider SnapshotProvider, resolver stats.LocationResolver, opts stats.SessionOptions) *Service {
	return &Service{
		provider: provider,
		resolver: resolver,
		opts:     opts,
		now:      time.Now,
	}
}

// Resolver is the location resolver used for every pass.
func (s *Service) Resolver() stats.LocationResolver {
	return s.resolver
}

// Run loads the snapshot, applies the filter and computes the aggregate and
// the cluster set concurrently. Both halves read the same selection.
func (s *Service) Run(ctx context.Context, surface string, filter stats.Filter) (Result, error) {
	started := time.Now()

	snap, err := s.provider.Snapshot(ctx)
	telemetry.ObserveSnapshot(s.provider.SourceName(), len(snap.Reports), err)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load snapshot: %w", err)
	}

	session, err := stats.NewAnalysisSession(s.resolver, filter, s.now(), s.opts)
	if err != nil {
		return Result{}, err
	}
	selected := session.Select(snap.Reports)

	var (
		agg      stats.Aggregate
		clusters stats.ClusterSet
	)
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		agg = session.Aggregate(selected)
		return nil
	})
	g.Go(func() error {
		clusters = session.Cluster(selected)
		return nil
	})
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	view := session.Assemble(agg, clusters)

	telemetry.ObservePass(surface, started)
	log.Debug().
		Str("pass", view.PassID).
		Str("surface", surface).
		Int("snapshot", len(snap.Reports)).
		Int("selected", len(selected)).
		Int("clusters", clusters.Len()).
		Dur("took", time.Since(started)).
		Msg("Aggregation pass complete")

	return Result{
		View:      view,
		Selected:  selected,
		Source:    snap.Source,
		FetchedAt: snap.FetchedAt,
		Warnings:  s.warnings(snap, selected),
	}, nil
}

func (s *Service) warnings(snap snapshot.Snapshot, selected []grievance.Report) []string {
	var warnings []string
	if len(snap.Reports) == 0 {
		warnings = append(warnings, "The snapshot is empty: the source returned no reports.")
	} else if len(selected) == 0 {
		warnings = append(warnings, "No reports match the current filter.")
	}

	undated := 0
	for _, r := range selected {
		if !r.HasDate() {
			undated++
		}
	}
	if undated > 0 {
		warnings = append(warnings, fmt.Sprintf("%d report(s) have no creation date and are missing from the monthly series.", undated))
	}

	if m, ok := s.resolver.(interface{ Match(string) string }); ok {
		fallback := 0
		for _, r := range selected {
			if r.HasLocation() && m.Match(r.LocationText()) == "" {
				fallback++
			}
		}
		if fallback > 0 {
			warnings = append(warnings, fmt.Sprintf("%d report(s) have locations outside the gazetteer and are plotted at the city centre.", fallback))
		}
	}
	return warnings
}
