package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-cosmos/internal/platform/tui"
	"github.com/vovakirdan/tui-cosmos/internal/registry"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start cosmos with an effect picker menu",
	Long: `Start cosmos in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select an effect.
Press Esc inside an effect to return to the menu, Tab to browse history.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select effect
  Tab          - Session history
  Q            - Quit

Examples:
  cosmos menu
  cosmos menu --fps 30
  cosmos menu --db ./sessions.db`,
	RunE: runMenu,
}

func runMenu(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	cfg := s.runtime
	for {
		menuResult, err := tui.RunMenu(s.store, cfg)
		if err != nil {
			return err
		}
		cfg = menuResult.Config

		if menuResult.Quit {
			return nil
		}

		if menuResult.WantsHistory {
			goBack, err := tui.RunHistory(s.store, cfg.ScreenW, cfg.ScreenH)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
			if goBack {
				continue
			}
			return nil
		}

		effect, err := registry.Create(menuResult.EffectID, effectEnv(s.cfg, s.logger))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating effect: %v\n", err)
			continue
		}

		// Fresh layout for each run unless a seed was pinned
		if s.cfg.Scene.Seed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}

		result, err := tui.Run(effect, cfg, tui.Options{Store: s.store, Logger: s.logger})
		if err != nil {
			return fmt.Errorf("running effect: %w", err)
		}
		cfg = result.Config
		if !result.BackToMenu {
			return nil
		}
	}
}
