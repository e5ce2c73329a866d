package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Plex library commands",
}

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List library sections",
	Args:  cobra.NoArgs,
	RunE:  runLibraryListCmd,
}

var libraryItemsCmd = &cobra.Command{
	Use:   "items <key>",
	Short: "List items in a library section",
	Args:  cobra.ExactArgs(1),
	RunE:  runLibraryItemsCmd,
}

var libraryRefreshCmd = &cobra.Command{
	Use:   "refresh <name>",
	Short: "Trigger a scan of a library section",
	Args:  cobra.ExactArgs(1),
	RunE:  runLibraryRefreshCmd,
}

func init() {
	rootCmd.AddCommand(libraryCmd)
	libraryCmd.AddCommand(libraryListCmd)
	libraryCmd.AddCommand(libraryItemsCmd)
	libraryCmd.AddCommand(libraryRefreshCmd)
}

func runLibraryListCmd(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL)
	libs, err := client.Libraries()
	if err != nil {
		return fmt.Errorf("library list failed: %w", err)
	}

	if jsonOutput {
		printJSON(libs)
		return nil
	}

	if len(libs) == 0 {
		fmt.Println("No libraries found")
		return nil
	}

	fmt.Println("Libraries:")
	for _, lib := range libs {
		status := ""
		if lib.Refreshing {
			status = " (scanning)"
		}
		fmt.Printf("  %-4s %-12s %-8s scanned %s%s\n",
			lib.Key, lib.Title, lib.Type, formatTimeAgo(lib.ScannedAt), status)
	}
	return nil
}

func runLibraryItemsCmd(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL)
	resp, err := client.LibraryItems(args[0])
	if err != nil {
		return fmt.Errorf("library items failed: %w", err)
	}

	if jsonOutput {
		printJSON(resp)
		return nil
	}

	if len(resp.Items) == 0 {
		fmt.Println("No items found")
		return nil
	}

	for _, item := range resp.Items {
		year := ""
		if item.Year > 0 {
			year = fmt.Sprintf(" (%d)", item.Year)
		}
		fmt.Printf("  %s%s\n", item.Title, year)
	}
	fmt.Printf("\n%d items\n", len(resp.Items))
	return nil
}

func runLibraryRefreshCmd(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL)
	if err := client.RefreshLibrary(args[0]); err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}

	fmt.Printf("Refresh triggered for %q\n", args[0])
	return nil
}
