package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"grievance-analytics/cmd/mockgen/engine"
)

func main() {
	scenario := flag.String("scenario", "mild", "Scenario to generate: mild, hotspot, messy")
	outDir := flag.String("out", "./.cache", "Output directory for mock files")
	name := flag.String("name", "MOCK_PORTAL", "Snapshot name")
	count := flag.Int("count", 200, "Number of reports to generate")
	users := flag.Int("users", 12, "Number of distinct submitters")
	seed := flag.Int64("seed", 1, "Random seed")
	flag.Parse()

	cfg := engine.GeneratorConfig{
		Scenario: *scenario,
		Count:    *count,
		Users:    *users,
		Seed:     *seed,
		Now:      time.Now(),
	}

	fmt.Printf("Generating scenario '%s' (Count: %d, Seed: %d) to %s...\n", cfg.Scenario, cfg.Count, cfg.Seed, *outDir)

	reports := engine.Generate(cfg)

	path, err := engine.Save(*outDir, *name, reports)
	if err != nil {
		fmt.Printf("Failed to save mock data: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Done. Wrote %d reports to %s\n", len(reports), path)
}
