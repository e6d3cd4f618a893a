package main

import (
	"fmt"
	"os"
	"os/user"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/nathoo/escapecore/cli"
	"github.com/nathoo/escapecore/config"
	"github.com/nathoo/escapecore/engine"
	"github.com/nathoo/escapecore/loader"
	"github.com/nathoo/escapecore/logging"
	"github.com/nathoo/escapecore/records"
	"github.com/nathoo/escapecore/tui"
)

var (
	flagPlain  bool
	flagScript string
	flagTrace  bool
	flagPlayer string
)

var playCmd = &cobra.Command{
	Use:   "play <dir>",
	Short: "Play a game",
	Long: `Load the game in <dir> and play it.

The full-screen TUI is used when stdout is a terminal. --plain, --script or
a redirected stdout select the line-oriented interface instead.

Controls (TUI):
  Enter      - Submit a command (or a code, in code entry)
  Esc        - Leave code entry / close an inspect view
  Up/Down    - Command history
  PgUp/PgDn  - Scroll
  Ctrl+C     - Quit

Examples:
  escapecore play examples/escape-room
  escapecore play examples/escape-room --plain --trace
  escapecore play examples/escape-room --script walkthrough.txt`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagPlain, "plain", false, "Use the plain line interface")
	playCmd.Flags().StringVar(&flagScript, "script", "", "Play commands from a file (implies --plain)")
	playCmd.Flags().BoolVar(&flagTrace, "trace", false, "Show resolved events after each command")
	playCmd.Flags().StringVar(&flagPlayer, "player", "", "Player name for records (default: OS user)")
}

func runPlay(_ *cobra.Command, args []string) {
	cfg := mustLoadConfig()
	logger := stderrLogger(cfg)

	if err := play(cfg, logger, args[0]); err != nil {
		logger.Error("play failed", "dir", args[0], "error", err)
		os.Exit(1)
	}
}

func play(cfg config.Config, logger *log.Logger, dir string) error {
	defs, warnings, err := loader.LoadWithWarnings(dir)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		logger.Warn(w)
	}

	// The TUI owns stdout; engine logs go to the configured file.
	engineLog, closeLog, err := logging.NewFile(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	eng := engine.New(defs, engineOptions(cfg, engineLog)...)
	started := time.Now()

	switch {
	case flagScript != "":
		f, err := os.Open(flagScript)
		if err != nil {
			return fmt.Errorf("opening script: %w", err)
		}
		defer f.Close()
		printHeader(defs.Game.Title, defs.Game.Version, defs.Game.Author)
		c := cli.New(eng, defs)
		c.In = f
		c.EchoInput = true
		c.Trace = flagTrace
		c.Run()

	case flagPlain || !term.IsTerminal(int(os.Stdout.Fd())):
		printHeader(defs.Game.Title, defs.Game.Version, defs.Game.Author)
		c := cli.New(eng, defs)
		c.Trace = flagTrace
		c.Run()

	default:
		opts := tui.OptionsFromConfig(cfg.TUI)
		opts.Trace = flagTrace
		if err := tui.Run(eng, defs, opts); err != nil {
			return err
		}
	}

	// Script runs are rehearsals, not records.
	if flagScript == "" {
		saveRun(cfg, logger, records.FromGame(eng.Game, playerName(), started))
	}
	return nil
}

func printHeader(title, version, author string) {
	header := title
	if version != "" {
		header += " v" + version
	}
	if author != "" {
		header += " by " + author
	}
	fmt.Printf("%s\n\n", header)
}

// saveRun records a finished session when records are enabled. Failures
// are logged; the game is already over.
func saveRun(cfg config.Config, logger *log.Logger, run records.Run) {
	if !cfg.Records.Enabled {
		return
	}
	store, err := records.Open(cfg.Records.Path)
	if err != nil {
		logger.Warn("could not open records database", "error", err)
		return
	}
	defer store.Close()

	if _, err := store.SaveRun(run); err != nil {
		logger.Warn("could not save run", "error", err)
	}
}

func playerName() string {
	if flagPlayer != "" {
		return flagPlayer
	}
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return "player"
}
