// escapecore plays point-and-click style escape rooms written in Lua, in
// the terminal or over SSH.
//
// Usage:
//
//	escapecore play <dir>      - Play a game (TUI, or plain with --plain)
//	escapecore check <dir>     - Validate game content
//	escapecore serve <dir>     - Start SSH server for remote play
//	escapecore records <dir>   - Show the best finished runs of a game
//
// Global flags:
//
//	--config <path>  - Config file (default: ~/.escapecore/config.yaml)
//	--version        - Print version
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/nathoo/escapecore/config"
	"github.com/nathoo/escapecore/engine"
	"github.com/nathoo/escapecore/logging"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var flagConfig string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "escapecore",
	Short: "escapecore - escape rooms in your terminal",
	Long: `escapecore runs escape-room games defined in Lua: rooms full of objects
that lock, unlock, reveal each other and ask for codes.

Available commands:
  play     - Play a game
  check    - Validate a game directory
  serve    - Start SSH server for remote play
  records  - View the best finished runs

Examples:
  escapecore play examples/escape-room
  escapecore play examples/escape-room --plain
  escapecore check examples/escape-room
  escapecore serve examples/escape-room --ssh :2222
  escapecore records examples/escape-room`,
	Version:      fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config file")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(recordsCmd)
}

// mustLoadConfig loads the config or exits.
func mustLoadConfig() config.Config {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// stderrLogger is the command-level logger.
func stderrLogger(cfg config.Config) *log.Logger {
	logger, err := logging.New(os.Stderr, cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return logger
}

// engineOptions applies the engine config section.
func engineOptions(cfg config.Config, logger *log.Logger) []engine.Option {
	opts := []engine.Option{engine.WithLogger(logger)}
	if cfg.Engine.MaxCascade > 0 {
		opts = append(opts, engine.WithMaxCascade(cfg.Engine.MaxCascade))
	}
	return opts
}
