package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/arena-client/internal/board"
	"github.com/vovakirdan/arena-client/internal/config"
	"github.com/vovakirdan/arena-client/internal/core"
	"github.com/vovakirdan/arena-client/internal/feed"
	"github.com/vovakirdan/arena-client/internal/protocol"
	"github.com/vovakirdan/arena-client/internal/render"
	"github.com/vovakirdan/arena-client/internal/storage"
)

// hudHeight is the number of screen rows above the board.
const hudHeight = 2

// Result reasons stored with a session.
const (
	ReasonGameOver = "game over"
	ReasonEOF      = "eof"
)

// ViewerOptions configures a viewer.
type ViewerOptions struct {
	FeedID   string // name results are stored under
	Session  string // results session ID; a UUID when empty
	Config   config.Config
	Store    *storage.Store // nil disables result saving
	Logger   *log.Logger    // nil discards
	Width    int
	Height   int
	Embedded bool // back returns to a parent model instead of quitting
}

// FrameMsg carries the outcome of one pull from the feed.
type FrameMsg struct {
	Resp protocol.EventResponse
	Err  error
}

// Viewer is the Bubble Tea model that watches a feed. Each tick it pulls
// one snapshot, skips it when it is identical to the previous one, and
// otherwise hands it to the board, which repaints only the changed cells
// onto the canvas. View rasterizes the canvas into a screen buffer.
type Viewer struct {
	src    feed.Source
	opts   ViewerOptions
	logger *log.Logger
	keys   ViewerKeyMap
	help   help.Model
	styles styleCache

	screen *core.Screen
	canvas *render.Canvas
	board  *board.Board

	lastPrint uint64
	steer     []protocol.EventRequest
	pulling   bool

	status   protocol.Status
	player   protocol.Player
	players  int
	frames   int
	skipped  int
	best     int
	paused   bool
	ended    bool
	reason   string
	err      error
	saved    bool
	notice   string
	quitting bool
	back     bool
}

// NewViewer creates a viewer for src.
func NewViewer(src feed.Source, opts ViewerOptions) Viewer {
	if opts.Session == "" {
		opts.Session = uuid.NewString()
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = 80, 24
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	h := help.New()
	h.ShowAll = opts.Config.Viewer.ShowHelp
	h.Width = opts.Width

	v := Viewer{
		src:    src,
		opts:   opts,
		logger: logger,
		keys:   DefaultViewerKeyMap(),
		help:   h,
		styles: styleCache{},
		screen: core.NewScreen(opts.Width, opts.Height),
		canvas: render.NewCanvas(),
	}
	if opts.Store != nil && opts.FeedID != "" {
		best, err := opts.Store.BestSize(opts.FeedID)
		if err != nil {
			logger.Warn("could not load best size", "feed", opts.FeedID, "error", err)
		}
		v.best = best
	}
	return v
}

// Init starts the tick loop.
func (m Viewer) Init() tea.Cmd {
	return tickCmd(m.opts.Config.Viewer.TickRate)
}

// Update handles messages and updates the model state.
func (m Viewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.opts.Width, m.opts.Height = msg.Width, msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()

	case FrameMsg:
		return m.handleFrame(msg)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Viewer) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Screenshot):
		m.saveScreenshot()
		return m, nil
	case key.Matches(msg, m.keys.Back) && m.ended:
		m.back = true
		if m.opts.Embedded {
			return m, nil
		}
		return m, tea.Quit
	}

	action := m.keys.MapKey(msg)
	switch action {
	case core.ActionQuit:
		m.quitting = true
		return m, tea.Quit
	case core.ActionPause:
		m.paused = !m.paused
	case core.ActionRedraw:
		m.redraw()
	default:
		if dir, ok := Direction(action); ok && m.player.ID != "" && !m.ended {
			req, err := protocol.NewDirectionEvent(m.player.ID, dir)
			if err == nil {
				m.steer = append(m.steer, req)
			}
		}
	}
	return m, nil
}

// handleTick pulls the next snapshot unless a pull is already running.
func (m Viewer) handleTick() (tea.Model, tea.Cmd) {
	if m.ended {
		return m, nil
	}
	next := tickCmd(m.opts.Config.Viewer.TickRate)
	if m.paused || m.pulling {
		return m, next
	}
	m.pulling = true
	steer := m.steer
	m.steer = nil
	return m, tea.Batch(pullCmd(m.src, steer), next)
}

// pullCmd sends queued key events and reads one snapshot. Both happen on
// the command goroutine so the feed is never used concurrently.
func pullCmd(src feed.Source, steer []protocol.EventRequest) tea.Cmd {
	return func() tea.Msg {
		if s, ok := src.(feed.Steerer); ok {
			for _, req := range steer {
				//nolint:errcheck // stale keys for a finished player are harmless
				s.Send(req)
			}
		}
		resp, err := src.Next(context.Background())
		return FrameMsg{Resp: resp, Err: err}
	}
}

// handleFrame applies one pulled snapshot.
func (m Viewer) handleFrame(msg FrameMsg) (tea.Model, tea.Cmd) {
	m.pulling = false
	if msg.Err != nil {
		m.ended = true
		if errors.Is(msg.Err, io.EOF) {
			m.reason = ReasonEOF
			m.saveResult()
			return m, nil
		}
		m.err = msg.Err
		m.logger.Error("feed failed", "feed", m.opts.FeedID, "error", msg.Err)
		return m, nil
	}

	resp := msg.Resp
	m.status = resp.Status
	if resp.Status == protocol.StatusWaiting {
		return m, nil
	}

	m.frames++
	m.players = len(resp.Body.Players)
	if p, ok := m.localPlayer(resp); ok {
		m.player = p
	}

	if err := m.apply(resp.Body); err != nil {
		m.ended = true
		m.err = err
		m.logger.Error("bad snapshot", "feed", m.opts.FeedID, "frame", m.frames, "error", err)
		return m, nil
	}

	if resp.Status == protocol.StatusError {
		m.ended = true
		m.reason = ReasonGameOver
		m.saveResult()
	}
	return m, nil
}

// apply draws a snapshot body, building the board on the first frame or
// when the server changes the board size.
func (m *Viewer) apply(body protocol.Body) error {
	grid, err := body.Grid()
	if err != nil {
		return err
	}

	if m.board == nil || m.board.Width() != body.Width || m.board.Height() != body.Height {
		b, err := board.New(m.canvas, body.Width, body.Height,
			board.WithLayout(m.opts.Config.Board),
			board.WithPalette(m.opts.Config.Palette),
			board.WithLogger(m.logger),
		)
		if err != nil {
			return err
		}
		m.canvas.Reset()
		m.board = b
		if _, err := b.ForceDraw(grid); err != nil {
			return err
		}
		m.lastPrint = body.Fingerprint()
		return nil
	}

	fp := body.Fingerprint()
	if fp == m.lastPrint {
		m.skipped++
		return nil
	}
	if _, err := m.board.Draw(grid, false); err != nil {
		return err
	}
	m.lastPrint = fp
	return nil
}

// redraw repaints every stored cell onto a fresh canvas.
func (m *Viewer) redraw() {
	if m.board == nil {
		return
	}
	m.canvas.Reset()
	if _, err := m.board.ForceDraw(nil); err != nil {
		m.logger.Error("redraw failed", "error", err)
	}
}

func (m Viewer) localPlayer(resp protocol.EventResponse) (protocol.Player, bool) {
	if id := m.opts.Config.Viewer.Player; id != "" {
		return resp.Body.PlayerByID(id)
	}
	return feed.LocalPlayer(m.src, resp)
}

// saveResult records the local player's size once per session.
func (m *Viewer) saveResult() {
	if m.saved || m.frames == 0 || m.player.ID == "" {
		return
	}
	m.saved = true
	if m.player.Size > m.best {
		m.best = m.player.Size
	}
	if m.opts.Store == nil || m.opts.FeedID == "" {
		return
	}
	_, err := m.opts.Store.SaveResult(storage.Result{
		Session: m.opts.Session,
		Feed:    m.opts.FeedID,
		Player:  m.player.ID,
		Size:    m.player.Size,
		Ticks:   m.frames,
		Reason:  m.reason,
	})
	if err != nil {
		// Best-effort save, the viewer continues regardless
		m.logger.Warn("could not save result", "feed", m.opts.FeedID, "error", err)
	}
}

// saveScreenshot saves the current screen to a file.
func (m *Viewer) saveScreenshot() {
	m.compose()

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".arena", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	name := m.opts.FeedID
	if name == "" {
		name = "feed"
	}
	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", filepath.Base(name), timestamp))

	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.notice = "screenshot failed"
		return
	}
	m.notice = "saved " + path
}

// compose draws the HUD and the board into the screen buffer.
func (m *Viewer) compose() {
	m.screen.Clear()
	m.screen.DrawText(0, 0, m.hud())
	if m.notice != "" {
		m.screen.DrawText(0, 1, m.notice)
	}

	if m.board == nil {
		m.screen.DrawTextCentered(m.screen.Height()/2, m.waitingText())
		return
	}

	// One column and row of frame on each side of the board.
	cx, _ := m.screen.Bounds().Center()
	dx := core.Max(cx-m.board.Width()/2-1, 0)
	m.screen.DrawBox(core.NewRect(dx, hudHeight, m.board.Width()+2, m.board.Height()+2))
	m.canvas.Rasterize(m.screen, m.board, dx+1, hudHeight+1)

	if m.ended {
		y := hudHeight + 1 + m.board.Height()/2
		m.screen.DrawTextCentered(y, m.endText())
		m.screen.DrawTextCentered(y+1, "esc/b: back  q: quit")
	} else if m.paused {
		m.screen.DrawTextCentered(hudHeight+1+m.board.Height()/2, "PAUSED")
	}
}

func (m Viewer) hud() string {
	name := m.opts.FeedID
	if name == "" {
		name = "feed"
	}
	line := fmt.Sprintf("arena · %s · frame %d", name, m.frames)
	if m.player.ID != "" {
		line += fmt.Sprintf(" · %s size %d", m.player.ID, m.player.Size)
	}
	if m.players > 1 {
		line += fmt.Sprintf(" · %d players", m.players)
	}
	if m.best > 0 {
		line += fmt.Sprintf(" · best %d", m.best)
	}
	return line
}

func (m Viewer) waitingText() string {
	switch {
	case m.err != nil:
		return "error: " + m.err.Error()
	case m.ended:
		return "feed ended before the first board"
	case m.status == protocol.StatusWaiting:
		return "waiting for players..."
	}
	return "connecting..."
}

func (m Viewer) endText() string {
	switch {
	case m.err != nil:
		return "error: " + m.err.Error()
	case m.reason == ReasonEOF:
		return fmt.Sprintf("END OF RECORDING · size %d", m.player.Size)
	}
	return fmt.Sprintf("GAME OVER · size %d", m.player.Size)
}

// View renders the current state to a string for display.
func (m Viewer) View() string {
	if m.quitting {
		return ""
	}

	m.compose()
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	return renderScreen(m.screen, m.styles) + "\n" + helpStyle.Render(m.help.View(m.keys))
}

// Stats returns the board's draw counters and the number of snapshots
// skipped as duplicates.
func (m Viewer) Stats() (board.Stats, int) {
	if m.board == nil {
		return board.Stats{}, m.skipped
	}
	return m.board.Stats(), m.skipped
}

// Ended reports whether the feed finished.
func (m Viewer) Ended() bool {
	return m.ended
}

// Err returns the error that stopped the feed, if any.
func (m Viewer) Err() error {
	return m.err
}

// IsQuitting returns true if user requested to quit entirely.
func (m Viewer) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back.
func (m Viewer) BackToMenu() bool {
	return m.back
}

// Run starts a Bubble Tea program watching src.
func Run(src feed.Source, opts ViewerOptions) error {
	model := NewViewer(src, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	final, err := p.Run()
	if err != nil {
		return err
	}
	if v, ok := final.(Viewer); ok && v.Err() != nil {
		return v.Err()
	}
	return nil
}
