package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show connection lifecycle events",
	Long: `Show persisted connection lifecycle events.

By default shows the last 24 hours. Use --since with an RFC3339
timestamp to change the window.

Examples:
  plexbridge events
  plexbridge events --since 2026-08-01T00:00:00Z`,
	Args: cobra.NoArgs,
	RunE: runEventsCmd,
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.Flags().String("since", "", "Only events after this RFC3339 timestamp")
}

func runEventsCmd(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL)
	since, _ := cmd.Flags().GetString("since")

	evts, err := client.Events(since)
	if err != nil {
		return fmt.Errorf("events failed: %w", err)
	}

	if jsonOutput {
		printJSON(evts)
		return nil
	}

	if len(evts) == 0 {
		fmt.Println("No events")
		return nil
	}

	for _, e := range evts {
		when := e.OccurredAt
		if t, err := time.Parse(time.RFC3339, e.OccurredAt); err == nil {
			when = t.Local().Format("2006-01-02 15:04:05")
		}
		fmt.Printf("  %s  %-24s gen %d\n", when, e.Type, e.EntityID)
	}
	fmt.Printf("\n%d events\n", len(evts))
	return nil
}
