package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-cosmos/internal/registry"
	"github.com/vovakirdan/tui-cosmos/internal/storage"
)

var statsCmd = &cobra.Command{
	Use:   "stats [effect]",
	Short: "Show aggregates of recorded sessions",
	Long: `Display totals for every effect, or details for one effect.

Examples:
  cosmos stats
  cosmos stats cosmos`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("opening sessions database: %w", err)
	}
	defer store.Close()

	if len(args) == 1 {
		return printEffectStats(store, args[0])
	}

	all, err := store.AllEffectStats()
	if err != nil {
		return fmt.Errorf("retrieving stats: %w", err)
	}
	if len(all) == 0 {
		fmt.Println("No sessions recorded yet.")
		fmt.Println()
		fmt.Println("Run 'cosmos play cosmos' and quit with Q to record one.")
		return nil
	}

	ids := make([]string, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Printf("  %-10s  %8s  %10s  %10s  %8s  %s\n", "Effect", "Sessions", "Total", "Longest", "Comets", "Last")
	fmt.Printf("  %-10s  %8s  %10s  %10s  %8s  %s\n", "------", "--------", "-----", "-------", "------", "----")
	for _, id := range ids {
		s := all[id]
		fmt.Printf("  %-10s  %8d  %10s  %10s  %8d  %s\n",
			id, s.Sessions,
			s.TotalTime.Round(time.Second), s.LongestRun.Round(time.Second),
			s.TotalComets, s.LastPlayed.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func printEffectStats(store *storage.Store, effectID string) error {
	if !registry.Exists(effectID) {
		return fmt.Errorf("unknown effect %q; run 'cosmos list' to see available effects", effectID)
	}

	s, err := store.EffectStats(effectID)
	if err != nil {
		return fmt.Errorf("retrieving stats: %w", err)
	}

	fmt.Printf("Stats - %s\n", effectID)
	fmt.Println()
	if s.Sessions == 0 {
		fmt.Println("No sessions recorded yet.")
		return nil
	}

	fmt.Printf("  Sessions:     %d\n", s.Sessions)
	fmt.Printf("  Total time:   %s\n", s.TotalTime.Round(time.Second))
	fmt.Printf("  Longest run:  %s\n", s.LongestRun.Round(time.Second))
	fmt.Printf("  Frames:       %d\n", s.TotalFrames)
	fmt.Printf("  Comets:       %d\n", s.TotalComets)
	fmt.Printf("  Explosions:   %d\n", s.TotalExplosions)
	fmt.Printf("  Peak zoom:    x%.2f\n", s.PeakScale)
	fmt.Printf("  Last watched: %s\n", s.LastPlayed.Local().Format("2006-01-02 15:04"))
	return nil
}
