package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-cosmos/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available effects",
	Long:  `Shows a list of all effects registered in cosmos.`,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	effects := registry.List()

	if len(effects) == 0 {
		fmt.Println("No effects available.")
		return
	}

	fmt.Println("Available effects:")
	fmt.Println()

	maxIDLen, maxTitleLen := 2, 5 // "ID", "Title" headers
	for _, e := range effects {
		maxIDLen = max(maxIDLen, len(e.ID))
		maxTitleLen = max(maxTitleLen, len(e.Title))
	}

	fmt.Printf("  %-*s  %-*s  %s\n", maxIDLen, "ID", maxTitleLen, "Title", "Description")
	fmt.Printf("  %-*s  %-*s  %s\n", maxIDLen, "--", maxTitleLen, "-----", "-----------")

	for _, e := range effects {
		fmt.Printf("  %-*s  %-*s  %s\n", maxIDLen, e.ID, maxTitleLen, e.Title, e.Description)
	}

	fmt.Println()
	fmt.Println("Run 'cosmos play <id>' to watch an effect.")
}
