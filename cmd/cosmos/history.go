package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-cosmos/internal/platform/tui"
	"github.com/vovakirdan/tui-cosmos/internal/registry"
)

var flagClear string

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse recent sessions",
	Long: `Open a table of recent sessions. Tab switches between effects.

Examples:
  cosmos history
  cosmos history --clear comets`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&flagClear, "clear", "", "Delete every recorded session of an effect and exit")
}

func runHistory(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if s.store == nil {
		return errors.New("sessions database unavailable")
	}

	if flagClear != "" {
		if !registry.Exists(flagClear) {
			return fmt.Errorf("unknown effect %q; run 'cosmos list' to see available effects", flagClear)
		}
		if err := s.store.ClearSessions(flagClear); err != nil {
			return err
		}
		fmt.Printf("Cleared sessions of %s\n", flagClear)
		return nil
	}

	_, err = tui.RunHistory(s.store, s.runtime.ScreenW, s.runtime.ScreenH)
	return err
}
