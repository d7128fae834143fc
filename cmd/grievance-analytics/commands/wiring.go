package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"grievance-analytics/internal/analytics"
	"grievance-analytics/internal/config"
	"grievance-analytics/internal/grievance"
	"grievance-analytics/internal/snapshot"
	"grievance-analytics/internal/stats"
)

// app bundles what every command needs.
type app struct {
	provider *snapshot.Provider
	service  *analytics.Service
	closers  []func() error
}

func (a *app) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			log.Warn().Err(err).Msg("Failed to close resource")
		}
	}
}

func newApp(ctx context.Context, cfg *config.AppConfig) (*app, error) {
	a := &app{}

	source, err := a.buildSource(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	resolver, err := buildResolver(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.provider = snapshot.NewProvider(source, snapshot.NewStore(), cfg.CacheDir, cfg.SnapshotMaxAge)
	a.service = analytics.NewService(a.provider, resolver, stats.SessionOptions{
		Aggregate: stats.AggregateOptions{Location: cfg.LabelTimezone},
		Summary:   stats.SummaryOptions{TopLocations: cfg.TopLocations},
	})
	return a, nil
}

func (a *app) buildSource(ctx context.Context, cfg *config.AppConfig) (snapshot.Source, error) {
	sources := make([]snapshot.Source, 0, len(cfg.SnapshotSources))
	for _, kind := range cfg.SnapshotSources {
		switch kind {
		case config.SourceAPI:
			client := grievance.NewClient(cfg.Portal)
			sources = append(sources, snapshot.NewAPISource(client, "", ""))
		case config.SourceSQL:
			db, err := snapshot.OpenDB(ctx, cfg.SQLDriver, cfg.SQLDSN)
			if err != nil {
				return nil, err
			}
			a.closers = append(a.closers, db.Close)
			src, err := snapshot.NewSQLSource(db, cfg.SQLDriver)
			if err != nil {
				return nil, err
			}
			sources = append(sources, src)
		case config.SourceFile:
			sources = append(sources, &snapshot.FileSource{Path: cfg.SnapshotFile})
		default:
			return nil, fmt.Errorf("unknown snapshot source %q", kind)
		}
	}

	if len(sources) == 1 {
		return sources[0], nil
	}
	return &snapshot.MultiSource{Sources: sources}, nil
}

func buildResolver(cfg *config.AppConfig) (stats.LocationResolver, error) {
	if cfg.GazetteerPath == "" {
		return stats.DefaultGazetteer(), nil
	}
	g, err := stats.LoadGazetteer(cfg.GazetteerPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load gazetteer: %w", err)
	}
	log.Info().Str("path", cfg.GazetteerPath).Int("places", len(g.Places)).Msg("Loaded gazetteer")
	return g, nil
}
