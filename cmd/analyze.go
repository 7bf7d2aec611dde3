package cmd

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/spf13/cobra"
)

var analyzeUserID int64

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Warm the artwork feature cache for a user's library",
	Long: `Analyze every track of a user's ingested library through the
feature cache. Artwork already analyzed is served from the cache;
the rest is computed once and stored. Failures are printed per track.`,
	Run: func(cmd *cobra.Command, args []string) {
		p, cleanup := buildPipeline()
		defer cleanup()

		ctx := context.Background()
		pool, err := p.repo.GetTracksByUserID(ctx, analyzeUserID)
		if err != nil {
			log.Fatalf("failed to load library: %v", err)
		}
		if len(pool) == 0 {
			fmt.Println("library is empty, sync it first")
			return
		}

		features, manifest, err := p.analyzer.Analyze(ctx, pool, nil)
		if err != nil {
			log.Fatalf("analysis failed: %v", err)
		}

		// Persist resolved content keys so later runs skip the download.
		for _, f := range features {
			if f.Track.ArtworkKey == f.Record.ArtworkKey {
				continue
			}
			if err := p.repo.UpdateArtworkKey(ctx, analyzeUserID, f.Track.ID, f.Record.ArtworkKey); err != nil {
				log.Printf("failed to record artwork key for %s: %v", f.Track.ID, err)
			}
		}

		fmt.Printf("analyzed %d of %d tracks\n", len(features), len(pool))
		if len(manifest.Failures) > 0 {
			ids := make([]string, 0, len(manifest.Failures))
			for id := range manifest.Failures {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			for _, id := range ids {
				fmt.Printf("  %s: %s\n", id, manifest.Failures[id])
			}
		}
	},
}

func init() {
	analyzeCmd.Flags().Int64Var(&analyzeUserID, "user", 0, "user ID whose library to analyze")
	analyzeCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(analyzeCmd)
}
