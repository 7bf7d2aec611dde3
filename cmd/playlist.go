package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"ChromaFM/model"
	"ChromaFM/spotify"

	"github.com/spf13/cobra"
)

var (
	playlistUserID    int64
	playlistPolicy    string
	playlistStartRule string
	playlistImage     string
	playlistGridW     int
	playlistGridH     int
	playlistCreate    bool
)

var playlistCmd = &cobra.Command{
	Use:   "playlist",
	Short: "Generate playlists from a user's library",
	Long: `Generate playlists under one of the policies: color, seasonal,
time_of_day, mood, objects, gradient, image, vibes. With --create the
playlists are also pushed to the music service.`,
	Run: func(cmd *cobra.Command, args []string) {
		p, cleanup := buildPipeline()
		defer cleanup()

		ctx := context.Background()
		pool, err := p.repo.GetTracksByUserID(ctx, playlistUserID)
		if err != nil {
			log.Fatalf("failed to load library: %v", err)
		}

		opts := model.PolicyOptions{}
		if playlistStartRule != "" {
			opts.Gradient = &model.GradientOptions{StartRule: model.StartRule(playlistStartRule)}
		}
		if playlistImage != "" {
			target, err := os.ReadFile(playlistImage)
			if err != nil {
				log.Fatalf("failed to read target image: %v", err)
			}
			opts.Image = &model.ImageOptions{Target: target, GridWidth: playlistGridW, GridHeight: playlistGridH}
		}

		lists, manifest, err := p.partitioner.Generate(ctx, model.Policy(playlistPolicy), opts, pool)
		if err != nil {
			log.Fatalf("playlist generation failed: %v", err)
		}

		for _, pl := range lists {
			fmt.Printf("%s (%d tracks)\n", pl.Name, len(pl.TrackIDs))
			fmt.Printf("  %s\n", strings.Join(pl.TrackIDs, ", "))
		}
		if len(manifest.Failures) > 0 {
			fmt.Printf("%d tracks skipped, see server logs\n", len(manifest.Failures))
		}

		if playlistCreate {
			client := spotify.NewClient(p.cfg)
			for _, pl := range lists {
				id, err := client.CreatePlaylist(ctx, pl.Name,
					"Generated by the "+playlistPolicy+" policy", pl.TrackIDs, nil)
				if err != nil {
					log.Printf("failed to create %q: %v", pl.Name, err)
					continue
				}
				fmt.Printf("created %s as %s\n", pl.Name, id)
			}
		}
	},
}

func init() {
	playlistCmd.Flags().Int64Var(&playlistUserID, "user", 0, "user ID whose library to partition")
	playlistCmd.Flags().StringVar(&playlistPolicy, "policy", "color", "generation policy")
	playlistCmd.Flags().StringVar(&playlistStartRule, "start-rule", "", "gradient start rule (min_hue, darkest, lightest)")
	playlistCmd.Flags().StringVar(&playlistImage, "image", "", "target image file for the image policy")
	playlistCmd.Flags().IntVar(&playlistGridW, "grid-width", 4, "mosaic grid width")
	playlistCmd.Flags().IntVar(&playlistGridH, "grid-height", 4, "mosaic grid height")
	playlistCmd.Flags().BoolVar(&playlistCreate, "create", false, "create the playlists on the music service")
	playlistCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(playlistCmd)
}
