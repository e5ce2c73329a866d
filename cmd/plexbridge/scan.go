package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan <path>",
	Short: "Scan a specific path for new media",
	Long: `Tell Plex to scan a specific directory or file.

The path is matched against library section locations, so only the
section containing the path is scanned.

Examples:
  plexbridge scan "/movies/Alien (1979)"
  plexbridge scan /tv/The.Expanse/Season.01`,
	Args: cobra.ExactArgs(1),
	RunE: runScanCmd,
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

func runScanCmd(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL)
	if err := client.Scan(args[0]); err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	fmt.Printf("Scan triggered for %s\n", args[0])
	return nil
}
