package snapshot

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grievance-analytics/internal/grievance"
)

type stubSource struct {
	name    string
	reports []grievance.Report
	err     error
	calls   int
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Load(ctx context.Context) ([]grievance.Report, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.reports, nil
}

func sampleReports() []grievance.Report {
	return []grievance.Report{
		{ID: "1", Code: "CMP-000001", Department: "Sanitation", RawStatus: "Pending", Status: grievance.StatusPending,
			Location: grievance.StringPtr("Harsul"), DateCreated: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
			User: &grievance.User{ID: "3", Name: "Asha"}},
		{ID: "2", Code: "CMP-000002", Department: "Electricity", RawStatus: "Resolved", Status: grievance.StatusResolved},
	}
}

func TestProvider_ReusesFreshSnapshot(t *testing.T) {
	src := &stubSource{name: "stub", reports: sampleReports()}
	p := NewProvider(src, nil, "", time.Hour)

	first, err := p.Snapshot(context.Background())
	require.NoError(t, err)
	second, err := p.Snapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, src.calls)
	assert.Len(t, second.Reports, 2)
	assert.Equal(t, first.FetchedAt, second.FetchedAt)
}

func TestProvider_ReloadsWhenStale(t *testing.T) {
	src := &stubSource{name: "stub", reports: sampleReports()}
	p := NewProvider(src, nil, "", time.Minute)

	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return current }

	_, err := p.Snapshot(context.Background())
	require.NoError(t, err)
	current = current.Add(2 * time.Minute)
	_, err = p.Snapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, src.calls)
}

func TestProvider_FallsBackToDiskCache(t *testing.T) {
	dir := t.TempDir()

	// 1. A healthy run persists the snapshot
	healthy := &stubSource{name: "portal", reports: sampleReports()}
	_, err := NewProvider(healthy, nil, dir, 0).Snapshot(context.Background())
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "portal.jsonl"))

	// 2. A new process with a failing source reads it back
	failing := &stubSource{name: "portal", err: errors.New("portal down")}
	snap, err := NewProvider(failing, nil, dir, 0).Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Reports, 2)
	assert.Equal(t, "Harsul", snap.Reports[0].LocationText())
	assert.Equal(t, grievance.StatusResolved, snap.Reports[1].Status)
	assert.True(t, snap.Reports[0].DateCreated.Equal(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)))
}

type gatedSource struct {
	loads   atomic.Int32
	release chan struct{}
}

func (s *gatedSource) Name() string { return "portal" }

func (s *gatedSource) Load(ctx context.Context) ([]grievance.Report, error) {
	s.loads.Add(1)
	<-s.release
	return sampleReports(), nil
}

func TestProvider_ConcurrentColdCallsShareOneLoad(t *testing.T) {
	dir := t.TempDir()
	src := &gatedSource{release: make(chan struct{})}
	p := NewProvider(src, nil, dir, time.Hour)

	const callers = 8
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snap, err := p.Snapshot(context.Background())
			if err == nil && len(snap.Reports) != 2 {
				err = errors.New("short snapshot")
			}
			errs <- err
		}()
	}

	time.Sleep(20 * time.Millisecond)
	close(src.release)
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.EqualValues(t, 1, src.loads.Load())
	assert.Equal(t, 2, p.Cached())

	leftovers, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestProvider_ResetDropsMemoryAndDisk(t *testing.T) {
	dir := t.TempDir()
	src := &stubSource{name: "portal", reports: sampleReports()}
	p := NewProvider(src, nil, dir, time.Hour)

	_, err := p.Refresh(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, p.Cached())
	require.FileExists(t, CachePath(dir, "portal"))

	require.NoError(t, p.Reset())
	assert.Equal(t, 0, p.Cached())
	assert.NoFileExists(t, CachePath(dir, "portal"))

	// Resetting again is harmless.
	require.NoError(t, p.Reset())

	_, err = p.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls)
}

func TestWriteJSONL_ConcurrentWriters(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "portal.jsonl")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, WriteJSONL(path, sampleReports()))
		}()
	}
	wg.Wait()

	reports, err := ReadJSONL(path)
	require.NoError(t, err)
	assert.Len(t, reports, 2)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestProvider_NoSnapshot(t *testing.T) {
	failing := &stubSource{name: "portal", err: errors.New("portal down")}
	_, err := NewProvider(failing, nil, t.TempDir(), 0).Snapshot(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoSnapshot))
	assert.Contains(t, err.Error(), "portal down")
}

func TestFileSource_ArrayAndJSONL(t *testing.T) {
	dir := t.TempDir()

	arrayPath := filepath.Join(dir, "reports.json")
	require.NoError(t, os.WriteFile(arrayPath, []byte(`[{"id": 5, "department": "Sanitation", "status": "Pending", "location": "Gulmandi"}]`), 0644))

	reports, err := (&FileSource{Path: arrayPath}).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "CMP-000005", reports[0].Code)

	jsonlPath := filepath.Join(dir, "reports.jsonl")
	require.NoError(t, WriteJSONL(jsonlPath, sampleReports()))
	reports, err = (&FileSource{Path: jsonlPath}).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, reports, 2)

	badPath := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(badPath, []byte(`[1, 2]`), 0644))
	_, err = (&FileSource{Path: badPath}).Load(context.Background())
	assert.Error(t, err)
}

func TestDecodeJSONL_SkipsInvalidLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mixed.jsonl")
	content := `{"id": 1, "status": "Pending"}
not json

{"id": 2, "status": "Resolved"}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	reports, err := ReadJSONL(path)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, "2", reports[1].ID)
}

func TestMultiSource(t *testing.T) {
	a := &stubSource{name: "a", reports: sampleReports()[:1]}
	b := &stubSource{name: "b", reports: sampleReports()[1:]}

	m := &MultiSource{Sources: []Source{a, b}}
	assert.Equal(t, "a+b", m.Name())

	reports, err := m.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, "1", reports[0].ID)
	assert.Equal(t, "2", reports[1].ID)

	b.err = errors.New("boom")
	_, err = m.Load(context.Background())
	assert.ErrorContains(t, err, "source b")
}
