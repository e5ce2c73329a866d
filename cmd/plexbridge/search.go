package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the Plex library",
	Long: `Search the Plex library for movies and shows.

Examples:
  plexbridge search "The Matrix"
  plexbridge search alien --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearchCmd,
}

var findCmd = &cobra.Command{
	Use:   "find <title>",
	Short: "Find an exact movie or show by title",
	Long: `Find a specific movie or show using title matching.

Unlike 'search', this resolves a single item: exact title and year
first, then a year-tolerant and fuzzy fallback.

Examples:
  plexbridge find "Ex Machina" --year 2014
  plexbridge find "The Expanse" --type show`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFindCmd,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(findCmd)

	findCmd.Flags().Int("year", 0, "Release year (movies)")
	findCmd.Flags().String("type", "movie", "Item type: movie or show")
}

func runSearchCmd(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL)
	query := strings.Join(args, " ")

	resp, err := client.Search(query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if jsonOutput {
		printJSON(resp)
		return nil
	}

	if len(resp.Items) == 0 {
		fmt.Printf("No results for %q\n", query)
		return nil
	}

	fmt.Printf("Results for %q (%d):\n\n", query, len(resp.Items))
	for _, item := range resp.Items {
		year := ""
		if item.Year > 0 {
			year = fmt.Sprintf(" (%d)", item.Year)
		}
		fmt.Printf("  %-7s %s%s\n", item.Type, item.Title, year)
	}
	return nil
}

func runFindCmd(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL)
	title := strings.Join(args, " ")
	year, _ := cmd.Flags().GetInt("year")
	kind, _ := cmd.Flags().GetString("type")

	resp, err := client.Find(kind, title, year)
	if err != nil {
		return fmt.Errorf("find failed: %w", err)
	}

	if jsonOutput {
		printJSON(resp)
		return nil
	}

	if !resp.Found {
		fmt.Printf("Not found: %q\n", title)
		return nil
	}
	fmt.Printf("Found %q (rating key %s)\n", title, resp.RatingKey)
	return nil
}
