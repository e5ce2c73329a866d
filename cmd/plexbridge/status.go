package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show Plex connection status",
	Long: `Show the daemon's connection to the Plex server.

Examples:
  plexbridge status           # Human-readable status
  plexbridge status --json    # Machine-readable status`,
	Args: cobra.NoArgs,
	RunE: runStatusCmd,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatusCmd(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL)
	status, err := client.Status()
	if err != nil {
		return fmt.Errorf("status check failed: %w", err)
	}

	if jsonOutput {
		printJSON(status)
		return nil
	}

	printStatusHuman(status)
	return nil
}

func printStatusHuman(s *StatusResponse) {
	if !s.Connected {
		fmt.Printf("Plex: %s\n", s.State)
		fmt.Println()
		fmt.Println("Run 'plexbridge connect' to establish a connection,")
		fmt.Println("or issue any command that needs the server.")
		return
	}

	fmt.Printf("Plex: %s (%s)\n", s.ServerName, s.Version)
	fmt.Printf("  State:       %s\n", s.State)
	fmt.Printf("  Generation:  %d\n", s.Generation)
	if s.ConnectedAt != nil {
		if t, err := time.Parse(time.RFC3339, *s.ConnectedAt); err == nil {
			fmt.Printf("  Connected:   %s\n", formatTimeAgo(t.Unix()))
		}
	}
}

func formatTimeAgo(unixTime int64) string {
	if unixTime == 0 {
		return "never"
	}

	t := time.Unix(unixTime, 0)
	ago := time.Since(t)

	switch {
	case ago < time.Minute:
		return "just now"
	case ago < time.Hour:
		mins := int(ago.Minutes())
		if mins == 1 {
			return "1m ago"
		}
		return fmt.Sprintf("%dm ago", mins)
	case ago < 24*time.Hour:
		hours := int(ago.Hours())
		if hours == 1 {
			return "1h ago"
		}
		return fmt.Sprintf("%dh ago", hours)
	default:
		days := int(ago.Hours() / 24)
		if days == 1 {
			return "1d ago"
		}
		return fmt.Sprintf("%dd ago", days)
	}
}
