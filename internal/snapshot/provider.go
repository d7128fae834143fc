package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// Provider hands out the current snapshot for one source. It reuses a fresh
// in-memory copy, reloads when it is older than MaxAge, and falls back to the
// on-disk cache when the source fails. Concurrent reloads of one source are
// collapsed into a single load.
type Provider struct {
	source   Source
	store    *Store
	cacheDir string
	maxAge   time.Duration
	now      func() time.Time
	flight   singleflight.Group
}

// NewProvider creates a provider. cacheDir may be empty to disable persistence;
// maxAge <= 0 reloads on every call.
func NewProvider(source Source, store *Store, cacheDir string, maxAge time.Duration) *Provider {
	if store == nil {
		store = NewStore()
	}
	return &Provider{
		source:   source,
		store:    store,
		cacheDir: cacheDir,
		maxAge:   maxAge,
		now:      time.Now,
	}
}

// SourceName is the name of the underlying source.
func (p *Provider) SourceName() string {
	return p.source.Name()
}

// Snapshot returns the current report snapshot.
func (p *Provider) Snapshot(ctx context.Context) (Snapshot, error) {
	name := p.source.Name()

	// 1. Fresh in-memory copy
	if snap, ok := p.store.Get(name); ok && p.isFresh(snap) {
		log.Debug().Str("source", name).Msg("Snapshot served from memory")
		return snap, nil
	}

	// 2. Reload from the source
	snap, err := p.reload(ctx, true)
	if err == nil {
		return snap, nil
	}
	if ctx.Err() != nil {
		return Snapshot{}, err
	}

	// 3. Fall back to whatever is cached
	log.Warn().Err(err).Str("source", name).Msg("Snapshot source failed, falling back to cache")
	if cached, ok := p.store.Get(name); ok {
		return cached, nil
	}
	if p.cacheDir != "" {
		if found, cerr := p.store.Load(p.cacheDir, name); cerr == nil && found {
			cached, _ := p.store.Get(name)
			return cached, nil
		}
	}
	return Snapshot{}, fmt.Errorf("%w: %v", ErrNoSnapshot, err)
}

// Refresh loads from the source and persists the result. A caller that arrives
// while another load of the same source is running shares that load.
func (p *Provider) Refresh(ctx context.Context) (Snapshot, error) {
	return p.reload(ctx, false)
}

// Reset forgets the in-memory snapshot and deletes the on-disk cache.
func (p *Provider) Reset() error {
	name := p.source.Name()
	p.store.Clear(name)
	if p.cacheDir == "" {
		return nil
	}
	if err := DeleteCache(p.cacheDir, name); err != nil {
		return fmt.Errorf("failed to delete cache for %s: %w", name, err)
	}
	log.Info().Str("source", name).Msg("Snapshot cache reset")
	return nil
}

// Cached is the number of reports currently held in memory for the source.
func (p *Provider) Cached() int {
	return p.store.Count(p.source.Name())
}

// reload runs at most one load per source at a time. With reuseFresh set, a
// snapshot that became fresh while the caller waited is returned as is.
func (p *Provider) reload(ctx context.Context, reuseFresh bool) (Snapshot, error) {
	name := p.source.Name()
	v, err, shared := p.flight.Do(name, func() (interface{}, error) {
		if reuseFresh {
			if snap, ok := p.store.Get(name); ok && p.isFresh(snap) {
				return snap, nil
			}
		}
		return p.load(ctx)
	})
	if err != nil {
		return Snapshot{}, err
	}
	if shared {
		log.Debug().Str("source", name).Msg("Joined in-flight snapshot load")
	}
	return v.(Snapshot), nil
}

func (p *Provider) load(ctx context.Context) (Snapshot, error) {
	name := p.source.Name()
	start := p.now()

	reports, err := p.source.Load(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to load snapshot from %s: %w", name, err)
	}

	snap := Snapshot{Source: name, FetchedAt: p.now(), Reports: reports}
	p.store.Put(snap)
	log.Info().Str("source", name).Int("reports", len(reports)).Dur("elapsed", p.now().Sub(start)).Msg("Snapshot loaded")

	if p.cacheDir != "" {
		if err := p.store.Save(p.cacheDir, name); err != nil {
			log.Warn().Err(err).Str("source", name).Msg("Failed to persist snapshot")
		}
	}
	return snap, nil
}

func (p *Provider) isFresh(snap Snapshot) bool {
	if p.maxAge <= 0 {
		return false
	}
	return p.now().Sub(snap.FetchedAt) < p.maxAge
}
