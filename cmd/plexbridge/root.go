package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var (
	serverURL  string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "plexbridge",
	Short: "CLI client for the plexbridge daemon",
	Long: `plexbridge - CLI client for the plexbridge daemon

Query and manage the Plex connection held by plexbridged:
connection status, media search, library refreshes and file scans.

Run 'plexbridged' to start the server daemon.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8486", "Server URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("plexbridge {{.Version}}\n")
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}
