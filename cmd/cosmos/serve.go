package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-cosmos/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout time.Duration
	flagMaxSession  time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the cosmos SSH server",
	Long: `Start an SSH server that lets users connect and watch the effects.

Each SSH connection gets its own scene and effect picker menu.
Sessions are recorded per server, tagged with the SSH user name.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.cosmos/host_key

Examples:
  cosmos serve                           # Listen on :23235 with auto-generated key
  cosmos serve --ssh :2222               # Listen on port 2222
  cosmos serve --host-key ./my_host_key  # Use specific host key
  cosmos serve --max-session 15m         # Disconnect after 15 minutes

Users can connect with:
  ssh localhost -p 23235`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (host:port, default from config)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().DurationVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout before disconnecting (default from config)")
	serveCmd.Flags().DurationVar(&flagMaxSession, "max-session", 0, "Maximum connection lifetime (0 = unlimited)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("ssh") {
		cfg.Server.Address = flagSSHAddr
	}
	if flags.Changed("host-key") {
		cfg.Server.HostKey = flagHostKey
	}
	if flags.Changed("idle-timeout") {
		cfg.Server.IdleTimeout = flagIdleTimeout
	}
	if flags.Changed("max-session") {
		cfg.Server.MaxSession = flagMaxSession
	}

	runtime := runtimeConfig(cfg)
	server, err := tui.NewSSHServer(tui.SSHServerConfig{
		Address:     cfg.Server.Address,
		HostKeyPath: cfg.Server.HostKey,
		DBPath:      cfg.Storage.Path,
		IdleTimeout: cfg.Server.IdleTimeout,
		MaxSession:  cfg.Server.MaxSession,
		LogLevel:    cfg.LogLevel(),
		Runtime:     runtime,
		Env:         effectEnv(cfg, nil),
	})
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	fmt.Printf("Starting cosmos SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	return server.ListenAndServe()
}
