package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/google/uuid"

	"github.com/vovakirdan/arena-client/internal/config"
	"github.com/vovakirdan/arena-client/internal/registry"
	"github.com/vovakirdan/arena-client/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.arena/host_key.
	HostKeyPath string

	// DBPath is the path to the results database.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Config is handed to every session's viewer.
	Config config.Config

	// Logger receives session events. A stderr logger is used when nil.
	Logger *log.Logger
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.arena/results.db",
		IdleTimeout: 30 * time.Minute,
		Config:      config.DefaultConfig(),
	}
}

// SSHServer wraps a Wish SSH server that shows the feed menu to each
// connecting terminal.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "arena-ssh",
		})
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open results database", "error", err)
		// Continue without storage
		store = nil
	}

	srv := &SSHServer{
		config: cfg,
		store:  store,
		logger: logger,
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".arena", "host_key")
	}

	if mkdirErr := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	model := NewSessionModel(SessionOptions{
		User:   sshSession.User(),
		Config: s.config.Config,
		Store:  s.store,
		Logger: s.logger.With("user", sshSession.User()),
		Width:  pty.Window.Width,
		Height: pty.Window.Height,
	})

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.store != nil {
		s.store.Close()
	}

	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// SessionOptions configures one menu session.
type SessionOptions struct {
	User   string
	Config config.Config
	Store  *storage.Store
	Logger *log.Logger
	Width  int
	Height int
}

type screen int

const (
	screenMenu screen = iota
	screenViewer
	screenScoreboard
)

// SessionModel manages the full session flow: menu -> viewer -> menu, with
// the scoreboard reachable from the menu. This is the top-level model used
// for SSH sessions.
type SessionModel struct {
	opts       SessionOptions
	screen     screen
	menu       MenuModel
	viewer     Viewer
	scoreboard ScoreboardModel
	notice     string
	quitting   bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(opts SessionOptions) SessionModel {
	if opts.User == "" {
		opts.User = "guest"
	}
	return SessionModel{
		opts: opts,
		menu: NewMenuModel(opts.Width, opts.Height),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.opts.Width = wsm.Width
		m.opts.Height = wsm.Height
	}

	switch m.screen {
	case screenViewer:
		return m.updateViewer(msg)
	case screenScoreboard:
		return m.updateScoreboard(msg)
	}
	return m.updateMenu(msg)
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.menu.WantsScoreboard() {
		m.scoreboard = NewScoreboardModel(m.opts.Store, m.opts.Width, m.opts.Height)
		m.screen = screenScoreboard
		return m, m.scoreboard.Init()
	}

	if selected := m.menu.Selected(); selected != nil {
		src, err := registry.Create(selected.FeedID, registry.Options{
			Demo: m.opts.Config.Demo,
			Seed: time.Now().UnixNano(),
		})
		if err != nil {
			// Shouldn't happen since menu only shows registered feeds
			m.logger().Error("could not open feed", "feed", selected.FeedID, "error", err)
			m.notice = err.Error()
			m.menu = NewMenuModel(m.opts.Width, m.opts.Height)
			return m, nil
		}

		m.notice = ""
		m.viewer = NewViewer(src, ViewerOptions{
			FeedID:   selected.FeedID,
			Session:  m.opts.User + "-" + uuid.NewString(),
			Config:   m.opts.Config,
			Store:    m.opts.Store,
			Logger:   m.opts.Logger,
			Width:    m.opts.Width,
			Height:   m.opts.Height,
			Embedded: true,
		})
		m.screen = screenViewer
		return m, m.viewer.Init()
	}

	return m, cmd
}

// updateViewer handles updates while a feed is on screen.
func (m SessionModel) updateViewer(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.viewer.Update(msg)
	if v, ok := newModel.(Viewer); ok {
		m.viewer = v
	}

	if m.viewer.BackToMenu() {
		m.closeViewer()
		m.menu = NewMenuModel(m.opts.Width, m.opts.Height)
		m.screen = screenMenu
		return m, m.menu.Init()
	}

	if m.viewer.IsQuitting() {
		m.closeViewer()
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

// updateScoreboard handles updates while results are on screen.
func (m SessionModel) updateScoreboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.scoreboard.Update(msg)
	if sb, ok := newModel.(ScoreboardModel); ok {
		m.scoreboard = sb
	}

	if m.scoreboard.IsGoingBack() {
		m.menu = NewMenuModel(m.opts.Width, m.opts.Height)
		m.screen = screenMenu
		return m, m.menu.Init()
	}

	if m.scoreboard.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

func (m *SessionModel) closeViewer() {
	if m.viewer.src == nil {
		return
	}
	if err := m.viewer.src.Close(); err != nil {
		m.logger().Warn("could not close feed", "feed", m.viewer.opts.FeedID, "error", err)
	}
}

func (m SessionModel) logger() *log.Logger {
	if m.opts.Logger == nil {
		return log.Default()
	}
	return m.opts.Logger
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenViewer:
		return m.viewer.View()
	case screenScoreboard:
		return m.scoreboard.View()
	}

	view := m.menu.View()
	if m.notice != "" {
		view = strings.TrimRight(view, "\n") + "\n" + centerText(m.notice, m.opts.Width) + "\n"
	}
	return view
}

// Screen names the screen currently shown, for logging and tests.
func (m SessionModel) Screen() string {
	switch m.screen {
	case screenViewer:
		return "viewer"
	case screenScoreboard:
		return "scoreboard"
	}
	return "menu"
}
