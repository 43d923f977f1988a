package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/arena-client/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all registered feeds",
	Long:  `Shows a list of all feeds the client can watch by name.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	feeds := registry.List()

	if len(feeds) == 0 {
		fmt.Println("No feeds available.")
		return
	}

	fmt.Println("Available feeds:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, f := range feeds {
		if len(f.ID) > maxIDLen {
			maxIDLen = len(f.ID)
		}
	}

	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Title")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----")

	for _, f := range feeds {
		fmt.Printf("  %-*s  %s\n", maxIDLen, f.ID, f.Title)
	}

	fmt.Println()
	fmt.Println("Run 'arena watch <id>' to watch a feed.")
}
