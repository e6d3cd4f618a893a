// Package config provides YAML-based configuration for escapecore, with
// environment variable overrides.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

//go:embed defaults/escapecore.yaml
var defaultYAML []byte

// Config is the full escapecore configuration.
type Config struct {
	Log     LogConfig     `yaml:"log"`
	Engine  EngineConfig  `yaml:"engine"`
	Records RecordsConfig `yaml:"records"`
	Serve   ServeConfig   `yaml:"serve"`
	TUI     TUIConfig     `yaml:"tui"`
}

// LogConfig controls the logging package.
type LogConfig struct {
	Level string `yaml:"level" env:"ESCAPECORE_LOG_LEVEL"`
	File  string `yaml:"file" env:"ESCAPECORE_LOG_FILE"`
}

// EngineConfig tunes the game state machine.
type EngineConfig struct {
	MaxCascade int `yaml:"max_cascade" env:"ESCAPECORE_MAX_CASCADE"`
}

// RecordsConfig controls the finished-run store.
type RecordsConfig struct {
	Enabled bool   `yaml:"enabled" env:"ESCAPECORE_RECORDS_ENABLED"`
	Path    string `yaml:"path" env:"ESCAPECORE_RECORDS_PATH"`
}

// ServeConfig controls the SSH server.
type ServeConfig struct {
	Address     string        `yaml:"address" env:"ESCAPECORE_SSH_ADDR"`
	HostKey     string        `yaml:"host_key" env:"ESCAPECORE_HOST_KEY"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"ESCAPECORE_IDLE_TIMEOUT"`
}

// TUIConfig controls the terminal UI.
type TUIConfig struct {
	ShowMap     bool `yaml:"show_map"`
	HistorySize int  `yaml:"history_size"`
}

// Default returns the hardcoded defaults, matching defaults/escapecore.yaml.
func Default() Config {
	return Config{
		Log:    LogConfig{Level: "info"},
		Engine: EngineConfig{MaxCascade: 1000},
		Records: RecordsConfig{
			Enabled: true,
			Path:    "~/.escapecore/records.db",
		},
		Serve: ServeConfig{
			Address:     ":23234",
			HostKey:     ".ssh/escapecore_ed25519",
			IdleTimeout: 30 * time.Minute,
		},
		TUI: TUIConfig{ShowMap: true, HistorySize: 100},
	}
}

// Load loads configuration and applies environment overrides.
// Search order: customPath -> ~/.escapecore/config.yaml -> ./escapecore.yaml -> embedded default.
// Files only need to set the keys they change.
func Load(customPath string) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		cfg = Default() // Fallback to hardcoded if embed fails
	}

	switch {
	case customPath != "":
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
	default:
		for _, path := range []string{userConfigPath(), "escapecore.yaml"} {
			if path == "" {
				continue
			}
			data, err := os.ReadFile(path)
			if err != nil {
				continue
			}
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
			break
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// userConfigPath returns the path to the user config file, or empty if home
// is unavailable.
func userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".escapecore", "config.yaml")
}

// ExpandHome expands a leading ~ to the user's home directory.
func ExpandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}
