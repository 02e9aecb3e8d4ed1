package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-cosmos/internal/platform/tui"
	"github.com/vovakirdan/tui-cosmos/internal/registry"
)

var playCmd = &cobra.Command{
	Use:   "play <effect>",
	Short: "Watch an effect",
	Long: `Start the specified effect in the terminal.

Mouse:
  Move       - Push nearby particles away
  Drag       - Pan the particle field
  Wheel      - Zoom
  Click title - Explode the field

Keys:
  +/-        - Zoom in/out
  E          - Explode
  P          - Pause
  ?          - Toggle help
  Ctrl+S     - Save a text screenshot to ~/.cosmos/screenshots
  Q/Ctrl+C   - Quit

Examples:
  cosmos play cosmos
  cosmos play comets --fps 30
  cosmos play particles --seed 42`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func runPlay(cmd *cobra.Command, args []string) error {
	effectID := args[0]

	if !registry.Exists(effectID) {
		return fmt.Errorf("unknown effect %q; run 'cosmos list' to see available effects", effectID)
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	effect, err := registry.Create(effectID, effectEnv(s.cfg, s.logger))
	if err != nil {
		return fmt.Errorf("creating effect: %w", err)
	}

	s.logger.Info("starting effect", "effect", effectID, "width", s.runtime.ScreenW, "height", s.runtime.ScreenH)
	if _, err := tui.Run(effect, s.runtime, tui.Options{Store: s.store, Logger: s.logger}); err != nil {
		return fmt.Errorf("running effect: %w", err)
	}
	return nil
}
