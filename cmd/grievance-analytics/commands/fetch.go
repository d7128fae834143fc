package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"grievance-analytics/internal/snapshot"
	"grievance-analytics/internal/telemetry"
)

var (
	fetchOut   string
	fetchReset bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Load a snapshot from the configured source and cache it as JSONL",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext(cmd)
		defer cancel()

		a, err := newApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		if fetchReset {
			if err := a.provider.Reset(); err != nil {
				return err
			}
		}

		snap, err := a.provider.Refresh(ctx)
		telemetry.ObserveSnapshot(a.provider.SourceName(), len(snap.Reports), err)
		if err != nil {
			return err
		}

		path := snapshot.CachePath(cfg.CacheDir, snap.Source)
		if fetchOut != "" {
			if err := snapshot.WriteJSONL(fetchOut, snap.Reports); err != nil {
				return err
			}
			path = fetchOut
		}
		log.Info().Str("source", snap.Source).Int("reports", a.provider.Cached()).Str("path", path).Msg("Snapshot cached")
		fmt.Fprintf(cmd.OutOrStdout(), "Fetched %d reports from %s into %s\n", len(snap.Reports), snap.Source, path)
		return nil
	},
}

func init() {
	fetchCmd.Flags().StringVar(&fetchOut, "out", "", "also write the snapshot to this JSONL file")
	fetchCmd.Flags().BoolVar(&fetchReset, "reset", false, "delete the cached snapshot before fetching")
}
