package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/nathoo/escapecore/config"
	"github.com/nathoo/escapecore/engine"
	"github.com/nathoo/escapecore/engine/state"
	"github.com/nathoo/escapecore/records"
)

// LoadFunc loads a fresh set of definitions. Lock state lives in the
// objects, so every session needs its own.
type LoadFunc func() (*state.Defs, error)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file. It is generated on
	// first start if missing.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Load builds the definitions for one session.
	Load LoadFunc

	// MaxCascade bounds event resolution per call (0 keeps the default).
	MaxCascade int

	// TUI options applied to every session.
	TUI Options

	// Store records finished sessions. Nil disables records.
	Store *records.Store

	// Logger receives server and session logs. Nil logs to stderr.
	Logger *log.Logger
}

// SSHConfigFromConfig fills the address, host key and idle timeout from the
// serve section.
func SSHConfigFromConfig(cfg config.Config) (SSHServerConfig, error) {
	hostKey, err := config.ExpandHome(cfg.Serve.HostKey)
	if err != nil {
		return SSHServerConfig{}, err
	}
	return SSHServerConfig{
		Address:     cfg.Serve.Address,
		HostKeyPath: hostKey,
		IdleTimeout: cfg.Serve.IdleTimeout,
		MaxCascade:  cfg.Engine.MaxCascade,
		TUI:         OptionsFromConfig(cfg.TUI),
	}, nil
}

type ctxKey int

const sessionKey ctxKey = iota

// sessionInfo ties a running game to its SSH session for the record
// written when the session ends.
type sessionInfo struct {
	engine  *engine.Engine
	started time.Time
}

// SSHServer wraps a Wish SSH server. Each connection plays its own game.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	logger *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	if cfg.Load == nil {
		return nil, errors.New("ssh server needs a game loader")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "escapecore-ssh",
		})
	}

	srv := &SSHServer{
		config: cfg,
		logger: logger,
	}

	// Ensure host key directory exists
	if cfg.HostKeyPath == "" {
		return nil, errors.New("ssh server needs a host key path")
	}
	hostKeyDir := filepath.Dir(cfg.HostKeyPath)
	if err := os.MkdirAll(hostKeyDir, 0o700); err != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", err)
	}

	// Middlewares run last to first: logging wraps records wraps the program.
	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(cfg.HostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.recordMiddleware,
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler loads a fresh game for each SSH session.
func (s *SSHServer) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	if _, _, ok := sess.Pty(); !ok {
		s.logger.Warn("no PTY requested", "user", sess.User())
		wish.Fatalln(sess, "escapecore needs an interactive terminal (ssh -t).")
		return nil, nil
	}

	defs, err := s.config.Load()
	if err != nil {
		s.logger.Error("cannot load game", "user", sess.User(), "error", err)
		wish.Fatalln(sess, "The game could not be loaded.")
		return nil, nil
	}

	var opts []engine.Option
	opts = append(opts, engine.WithLogger(s.logger.With("user", sess.User())))
	if s.config.MaxCascade > 0 {
		opts = append(opts, engine.WithMaxCascade(s.config.MaxCascade))
	}
	eng := engine.New(defs, opts...)
	sess.Context().SetValue(sessionKey, &sessionInfo{engine: eng, started: time.Now()})

	return New(eng, defs, s.config.TUI), []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// recordMiddleware stores the finished run once the program has exited.
func (s *SSHServer) recordMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		next(sess)
		info, ok := sess.Context().Value(sessionKey).(*sessionInfo)
		if !ok || s.config.Store == nil {
			return
		}
		run := records.FromGame(info.engine.Game, sess.User(), info.started)
		if _, err := s.config.Store.SaveRun(run); err != nil {
			s.logger.Warn("could not save run", "user", sess.User(), "error", err)
		}
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		s.logger.Info("session started",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
		)
		next(sess)
		s.logger.Info("session ended",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until SIGINT or SIGTERM.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	errc := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errc <- err
		}
	}()

	select {
	case <-done:
	case err := <-errc:
		s.logger.Error("server error", "error", err)
		return err
	}
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
