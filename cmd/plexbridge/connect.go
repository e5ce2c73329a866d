package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Establish the Plex connection",
	Args:  cobra.NoArgs,
	RunE:  runConnectCmd,
}

var reconnectCmd = &cobra.Command{
	Use:   "reconnect",
	Short: "Drop the cached Plex connection and establish a new one",
	Args:  cobra.NoArgs,
	RunE:  runReconnectCmd,
}

func init() {
	rootCmd.AddCommand(connectCmd)
	rootCmd.AddCommand(reconnectCmd)
}

func runConnectCmd(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL)
	status, err := client.Connect()
	if err != nil {
		return fmt.Errorf("connect failed: %w", err)
	}

	if jsonOutput {
		printJSON(status)
		return nil
	}

	fmt.Printf("Connected to %s (%s)\n", status.ServerName, status.Version)
	return nil
}

func runReconnectCmd(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL)
	status, err := client.Reconnect()
	if err != nil {
		return fmt.Errorf("reconnect failed: %w", err)
	}

	if jsonOutput {
		printJSON(status)
		return nil
	}

	fmt.Printf("Reconnected to %s (%s), generation %d\n",
		status.ServerName, status.Version, status.Generation)
	return nil
}
