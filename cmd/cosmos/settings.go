package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-cosmos/internal/config"
	"github.com/vovakirdan/tui-cosmos/internal/core"
	"github.com/vovakirdan/tui-cosmos/internal/registry"
	"github.com/vovakirdan/tui-cosmos/internal/storage"
)

// loadConfig reads the config file and applies explicitly set global flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("fps") {
		cfg.Display.FPS = flagFPS
	}
	if flags.Changed("seed") {
		cfg.Scene.Seed = flagSeed
	}
	if flags.Changed("db") {
		cfg.Storage.Path = flagDBPath
	}
	return cfg, cfg.Validate()
}

// runtimeConfig builds the effect runtime from cfg and the terminal size.
func runtimeConfig(cfg config.Config) core.RuntimeConfig {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: cfg.Display.FPS,
		Seed:     cfg.Scene.Seed,
		CellW:    cfg.Display.CellWidth,
		CellH:    cfg.Display.CellHeight,
	}
}

// effectEnv returns the settings passed to effect factories.
func effectEnv(cfg config.Config, logger *log.Logger) registry.Env {
	return registry.Env{
		Logger:     logger,
		Title:      cfg.Scene.Title,
		Subtitle:   cfg.Scene.Subtitle,
		WheelNotch: cfg.Scene.WheelNotch,
	}
}

// newFileLogger opens the log file for the local TUI, which owns stdout.
// An empty path discards log output.
func newFileLogger(cfg config.Config) (*log.Logger, io.Closer, error) {
	opts := log.Options{
		ReportTimestamp: true,
		Prefix:          "cosmos",
		Level:           cfg.LogLevel(),
	}
	if cfg.Log.File == "" {
		return log.NewWithOptions(io.Discard, opts), io.NopCloser(nil), nil
	}

	path := config.ExpandHome(cfg.Log.File)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("cannot create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open log file: %w", err)
	}
	return log.NewWithOptions(f, opts), f, nil
}

// openStore opens the sessions database, or returns nil with a warning.
func openStore(cfg config.Config) *storage.Store {
	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open sessions database: %v\n", err)
		return nil
	}
	return store
}

// session bundles what every interactive command needs.
type session struct {
	cfg     config.Config
	runtime core.RuntimeConfig
	logger  *log.Logger
	store   *storage.Store
	closers []io.Closer
}

// openSession loads config, the file logger and the store.
func openSession(cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger, closer, err := newFileLogger(cfg)
	if err != nil {
		return nil, err
	}

	s := &session{
		cfg:     cfg,
		runtime: runtimeConfig(cfg),
		logger:  logger,
		closers: []io.Closer{closer},
	}
	if s.store = openStore(cfg); s.store != nil {
		s.closers = append(s.closers, s.store)
	}
	return s, nil
}

func (s *session) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i].Close() //nolint:errcheck // Best-effort cleanup
	}
}
