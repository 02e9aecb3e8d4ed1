// cosmos renders an interactive particle field, comets and a twinkling star
// field in the terminal, locally or over SSH.
//
// Usage:
//
//	cosmos list              - List available effects
//	cosmos play <effect>     - Watch an effect
//	cosmos menu              - Pick effects interactively
//	cosmos serve             - Start SSH server for remote viewing
//	cosmos stats [effect]    - Show session aggregates
//	cosmos history           - Browse recent sessions
//
// Global flags:
//
//	--fps <rate>     - Set tick rate (default: 60)
//	--seed <value>   - Set RNG seed for reproducible layouts
//	--db <path>      - Set database path (default: ~/.cosmos/sessions.db)
//	--config <path>  - Use a specific config file
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import effects to register them
	_ "github.com/vovakirdan/tui-cosmos/internal/scene"
)

var (
	// Global flags
	flagFPS    int
	flagSeed   int64
	flagDBPath string
	flagConfig string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "cosmos",
	Short: "Cosmos - glowing particles and comets in your terminal",
	Long: `Cosmos draws an interactive particle field, recurring comets and a
twinkling star field in the terminal. Move the mouse to push particles,
drag to pan, scroll to zoom and click the title to make it explode.

Available commands:
  list     - Show all available effects
  play     - Watch a specific effect
  menu     - Interactive effect picker
  serve    - Start SSH server for remote viewing
  stats    - Show aggregates of recorded sessions
  history  - Browse recent sessions

Examples:
  cosmos list
  cosmos play cosmos
  cosmos menu
  cosmos serve --ssh :2222
  cosmos stats comets`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.cosmos/sessions.db", "Path to sessions database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(historyCmd)
}
