package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/cosmos.yaml
var defaultYAML []byte

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Display: DisplayConfig{
			FPS:        60,
			CellWidth:  8,
			CellHeight: 16,
		},
		Scene: SceneConfig{
			Title:      "C O S M O S",
			Subtitle:   "drag to pan · scroll to zoom · click the title",
			WheelNotch: 100,
		},
		Storage: StorageConfig{
			Path: "~/.cosmos/sessions.db",
		},
		Log: LogConfig{
			Level: "info",
			File:  "~/.cosmos/cosmos.log",
		},
		Server: ServerConfig{
			Address:     ":23235",
			IdleTimeout: 30 * time.Minute,
		},
	}
}
