package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"grievance-analytics/internal/grievance"
)

// Snapshot is a set of reports fetched from one source at one moment.
type Snapshot struct {
	Source    string
	FetchedAt time.Time
	Reports   []grievance.Report
}

// Store keeps the latest snapshot per source and persists it as JSONL.
type Store struct {
	mu        sync.RWMutex
	snapshots map[string]Snapshot
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		snapshots: make(map[string]Snapshot),
	}
}

// Put replaces the snapshot for a source.
func (s *Store) Put(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[snap.Source] = snap
}

// Get returns the snapshot for a source.
func (s *Store) Get(source string) (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[source]
	return snap, ok
}

// Count returns the number of reports held for a source.
func (s *Store) Count(source string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snapshots[source].Reports)
}

// Clear drops the in-memory snapshot for a source.
func (s *Store) Clear(source string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, source)
}

// CachePath is the JSONL file for a source inside cacheDir.
func CachePath(cacheDir, source string) string {
	return filepath.Join(cacheDir, fmt.Sprintf("%s.jsonl", source))
}

// Load reads a source's JSONL cache file. A missing file is not an error and
// leaves the store unchanged; FetchedAt is taken from the file's mtime.
func (s *Store) Load(cacheDir, source string) (bool, error) {
	path := CachePath(cacheDir, source)
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat cache: %w", err)
	}

	reports, err := ReadJSONL(path)
	if err != nil {
		return false, fmt.Errorf("failed to open cache: %w", err)
	}

	log.Info().Str("source", source).Int("count", len(reports)).Msg("Loaded snapshot from cache")
	s.Put(Snapshot{Source: source, FetchedAt: info.ModTime(), Reports: reports})
	return true, nil
}

// Save persists a source's snapshot to cacheDir.
func (s *Store) Save(cacheDir, source string) error {
	snap, ok := s.Get(source)
	if !ok {
		return nil
	}

	path := CachePath(cacheDir, source)
	if err := WriteJSONL(path, snap.Reports); err != nil {
		return err
	}
	if !snap.FetchedAt.IsZero() {
		_ = os.Chtimes(path, snap.FetchedAt, snap.FetchedAt)
	}

	log.Info().Str("source", source).Int("count", len(snap.Reports)).Msg("Snapshot saved to cache")
	return nil
}

// DeleteCache removes a source's cache file.
func DeleteCache(cacheDir, source string) error {
	err := os.Remove(CachePath(cacheDir, source))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
