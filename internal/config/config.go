// Package config provides YAML-based configuration loading for the cosmos
// runtime: display timing, hero text, storage, logging, and the SSH server.
package config

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// Config is the full runtime configuration.
type Config struct {
	Display DisplayConfig `yaml:"display"`
	Scene   SceneConfig   `yaml:"scene"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
	Server  ServerConfig  `yaml:"server"`
}

// DisplayConfig controls the tick loop and the pixel size of one cell.
type DisplayConfig struct {
	FPS        int `yaml:"fps"`
	CellWidth  int `yaml:"cell_width"`  // Pixels per cell horizontally
	CellHeight int `yaml:"cell_height"` // Pixels per cell vertically
}

// SceneConfig holds the hero text and input tuning.
type SceneConfig struct {
	Title      string  `yaml:"title"`
	Subtitle   string  `yaml:"subtitle"`
	WheelNotch float64 `yaml:"wheel_notch"` // Pixels per wheel notch or zoom key press
	Seed       int64   `yaml:"seed"`        // 0 = random based on time
}

// StorageConfig locates the session database.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// LogConfig controls the logger.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // Log file for the local TUI; empty disables logging there
}

// ServerConfig configures `cosmos serve`.
type ServerConfig struct {
	Address     string        `yaml:"address"`
	HostKey     string        `yaml:"host_key"` // Auto-generated when empty
	IdleTimeout time.Duration `yaml:"idle_timeout"`
	MaxSession  time.Duration `yaml:"max_session"` // 0 = unlimited
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Display.FPS < 1 || c.Display.FPS > 240 {
		return fmt.Errorf("config: display.fps must be in [1, 240], got %d", c.Display.FPS)
	}
	if c.Display.CellWidth <= 0 || c.Display.CellHeight <= 0 {
		return fmt.Errorf("config: display cell size must be positive, got %dx%d",
			c.Display.CellWidth, c.Display.CellHeight)
	}
	if c.Scene.WheelNotch <= 0 {
		return fmt.Errorf("config: scene.wheel_notch must be positive, got %v", c.Scene.WheelNotch)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: log.level: %w", err)
	}
	if c.Server.IdleTimeout < 0 || c.Server.MaxSession < 0 {
		return fmt.Errorf("config: server timeouts must not be negative")
	}
	return nil
}

// LogLevel returns the configured level, or info when it does not parse.
func (c Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
