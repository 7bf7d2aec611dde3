package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "chromafm",
	Short: "ChromaFM builds playlists from what album covers look like.",
	Long: `ChromaFM analyzes the album artwork of a music library (dominant
colors, detected objects, mood) and partitions or sequences the library
into playlists: by color, mood, season, time of day, cover objects,
a smooth color gradient, or a mosaic approximating a target image.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
