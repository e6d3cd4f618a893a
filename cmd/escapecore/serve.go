package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/nathoo/escapecore/engine/state"
	"github.com/nathoo/escapecore/loader"
	"github.com/nathoo/escapecore/records"
	"github.com/nathoo/escapecore/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve <dir>",
	Short: "Start the escapecore SSH server",
	Long: `Start an SSH server that lets users connect and play the game in <dir>.

Each SSH connection plays its own copy of the game. Finished runs are
recorded in the shared records database when records are enabled.

Flags override the serve section of the config file. The host key is
generated on first start if it does not exist.

Examples:
  escapecore serve examples/escape-room
  escapecore serve examples/escape-room --ssh :2222
  escapecore serve examples/escape-room --host-key ./my_host_key

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.ExactArgs(1),
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout in minutes before disconnecting")
}

func runServe(cmd *cobra.Command, args []string) {
	dir := args[0]
	cfg := mustLoadConfig()
	logger := stderrLogger(cfg)

	if cmd.Flags().Changed("ssh") {
		cfg.Serve.Address = flagSSHAddr
	}
	if cmd.Flags().Changed("host-key") {
		cfg.Serve.HostKey = flagHostKey
	}
	if cmd.Flags().Changed("idle-timeout") {
		cfg.Serve.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	}

	// Fail fast on broken content instead of per session.
	defs, warnings, err := loader.LoadWithWarnings(dir)
	if err != nil {
		logger.Error("cannot load game", "dir", dir, "error", err)
		os.Exit(1)
	}
	for _, w := range warnings {
		logger.Warn(w)
	}

	sshCfg, err := tui.SSHConfigFromConfig(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	sshCfg.Load = func() (*state.Defs, error) { return loader.Load(dir) }
	sshCfg.Logger = logger

	if cfg.Records.Enabled {
		store, err := records.Open(cfg.Records.Path)
		if err != nil {
			logger.Warn("could not open records database", "error", err)
		} else {
			defer store.Close()
			sshCfg.Store = store
		}
	}

	server, err := tui.NewSSHServer(sshCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Serving %q on %s\n", defs.Game.Title, server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
