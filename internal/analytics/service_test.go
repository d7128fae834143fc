package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grievance-analytics/internal/grievance"
	"grievance-analytics/internal/snapshot"
	"grievance-analytics/internal/stats"
	"grievance-analytics/internal/telemetry"
)

type fixedProvider struct {
	snap snapshot.Snapshot
	err  error
}

func (p fixedProvider) SourceName() string { return "fixed" }

func (p fixedProvider) Snapshot(context.Context) (snapshot.Snapshot, error) {
	return p.snap, p.err
}

func fixture() []grievance.Report {
	created := time.Date(2025, time.May, 10, 9, 0, 0, 0, time.UTC)
	return []grievance.Report{
		{ID: "1", Department: "Sanitation", Status: grievance.StatusResolved, RawStatus: "Resolved",
			Location: grievance.StringPtr("CIDCO N-5"), DateCreated: created},
		{ID: "2", Department: "Sanitation", Status: grievance.StatusPending, RawStatus: "Pending",
			Location: grievance.StringPtr("Somewhere Else"), DateCreated: created},
		{ID: "3", Department: "Water Supply", Status: grievance.StatusInProgress, RawStatus: "In Progress",
			Location: grievance.StringPtr("cidco n-5")},
	}
}

func newService(p SnapshotProvider) *Service {
	s := NewService(p, stats.DefaultGazetteer(), stats.SessionOptions{})
	s.now = func() time.Time { return time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC) }
	return s
}

func TestService_Run(t *testing.T) {
	fetched := time.Date(2025, time.May, 31, 0, 0, 0, 0, time.UTC)
	svc := newService(fixedProvider{snap: snapshot.Snapshot{Source: "fixed", FetchedAt: fetched, Reports: fixture()}})

	res, err := svc.Run(context.Background(), telemetry.SurfaceCLI, stats.Filter{})
	require.NoError(t, err)

	assert.Equal(t, 3, res.View.TotalReports)
	assert.Len(t, res.Selected, 3)
	assert.Equal(t, "fixed", res.Source)
	assert.Equal(t, fetched, res.FetchedAt)
	assert.NotEmpty(t, res.View.PassID)

	cluster, ok := res.View.ClusterSet().Get("CIDCO N-5")
	require.True(t, ok)
	assert.Equal(t, 2, cluster.Count)

	assert.Len(t, res.Warnings, 2)
	assert.Contains(t, res.Warnings[0], "1 report(s) have no creation date")
	assert.Contains(t, res.Warnings[1], "1 report(s) have locations outside the gazetteer")
}

func TestService_Run_FilterMatchesNothing(t *testing.T) {
	svc := newService(fixedProvider{snap: snapshot.Snapshot{Source: "fixed", Reports: fixture()}})

	res, err := svc.Run(context.Background(), telemetry.SurfaceCLI, stats.Filter{Department: "Electricity"})
	require.NoError(t, err)

	assert.Zero(t, res.View.TotalReports)
	assert.Empty(t, res.View.Clusters)
	assert.Equal(t, []string{"No reports match the current filter."}, res.Warnings)
}

func TestService_Run_SnapshotError(t *testing.T) {
	svc := newService(fixedProvider{err: snapshot.ErrNoSnapshot})

	_, err := svc.Run(context.Background(), telemetry.SurfaceCLI, stats.Filter{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, snapshot.ErrNoSnapshot))
}
