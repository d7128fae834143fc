package stats_test

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"grievance-analytics/cmd/mockgen/engine"
	"grievance-analytics/internal/stats"
)

// TestProperties_SyntheticSnapshots checks the aggregate invariants over generated data.
func TestProperties_SyntheticSnapshots(t *testing.T) {
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

	for _, scenario := range []string{"mild", "hotspot", "messy"} {
		for seed := int64(1); seed <= 5; seed++ {
			reports := engine.Generate(engine.GeneratorConfig{Scenario: scenario, Count: 150, Seed: seed, Now: now})

			agg := stats.AggregateReports(reports, stats.AggregateOptions{})

			// 1. Department totals sum to the number of reports
			sum := 0
			for _, d := range agg.Departments {
				sum += d.Total
				if d.Total != d.Resolved+d.InProgress+d.Pending+d.Other {
					t.Errorf("%s/%d: department %q buckets do not add up: %+v", scenario, seed, d.Department, d)
				}
				if d.ResolutionRate < 0 || d.ResolutionRate > 100 {
					t.Errorf("%s/%d: rate out of range: %d", scenario, seed, d.ResolutionRate)
				}
				if (d.ResolutionRate == 0) != (d.Resolved == 0) {
					t.Errorf("%s/%d: rate %d with %d resolved", scenario, seed, d.ResolutionRate, d.Resolved)
				}
			}
			if sum != len(reports) {
				t.Errorf("%s/%d: department totals = %d, want %d", scenario, seed, sum, len(reports))
			}
			if agg.Status.Total() != len(reports) {
				t.Errorf("%s/%d: status tally = %d, want %d", scenario, seed, agg.Status.Total(), len(reports))
			}

			// 2. Every located report is in exactly one cluster
			set := stats.ClusterReports(reports, stats.DefaultGazetteer())
			located := 0
			for _, r := range reports {
				if r.HasLocation() {
					located++
				}
			}
			clustered := 0
			for _, c := range set.Clusters {
				if c.Count != len(c.Reports) {
					t.Errorf("%s/%d: cluster %q count mismatch", scenario, seed, c.Key)
				}
				clustered += c.Count
			}
			if clustered != located {
				t.Errorf("%s/%d: clustered %d reports, want %d", scenario, seed, clustered, located)
			}

			// 3. Idempotence
			again := stats.AggregateReports(reports, stats.AggregateOptions{})
			if !reflect.DeepEqual(agg, again) {
				t.Errorf("%s/%d: aggregation is not idempotent", scenario, seed)
			}
			a, _ := json.Marshal(agg)
			b, _ := json.Marshal(again)
			if string(a) != string(b) {
				t.Errorf("%s/%d: JSON differs between runs", scenario, seed)
			}
		}
	}
}

func TestProperties_GeneratorIsDeterministic(t *testing.T) {
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	cfg := engine.GeneratorConfig{Scenario: "messy", Count: 50, Seed: 42, Now: now}

	a := engine.Generate(cfg)
	b := engine.Generate(cfg)
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed produced different snapshots")
	}
}
