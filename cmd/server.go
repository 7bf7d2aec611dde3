package cmd

import (
	"ChromaFM/server"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the ChromaFM HTTP server",
	Long:  `Start the HTTP API server: library sync, feature lookup and playlist generation.`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
