package tui

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/arena-client/internal/config"
	"github.com/vovakirdan/arena-client/internal/feed"
	"github.com/vovakirdan/arena-client/internal/protocol"
	"github.com/vovakirdan/arena-client/internal/storage"
)

func newDemo(t *testing.T) *feed.Demo {
	t.Helper()
	cfg := feed.DefaultDemoConfig()
	cfg.Width, cfg.Height = 10, 10
	d, err := feed.NewDemo(cfg, 7)
	require.NoError(t, err)
	return d
}

func newStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func pull(t *testing.T, src feed.Source) protocol.EventResponse {
	t.Helper()
	resp, err := src.Next(context.Background())
	require.NoError(t, err)
	return resp
}

func send(t *testing.T, v Viewer, msg tea.Msg) Viewer {
	t.Helper()
	m, _ := v.Update(msg)
	next, ok := m.(Viewer)
	require.True(t, ok)
	return next
}

func TestViewerFirstFrameForcesDraw(t *testing.T) {
	d := newDemo(t)
	v := NewViewer(d, ViewerOptions{FeedID: "demo", Config: config.DefaultConfig()})

	v = send(t, v, FrameMsg{Resp: pull(t, d)})

	stats, skipped := v.Stats()
	assert.Equal(t, 1, stats.Draws)
	assert.Equal(t, 100, stats.CellsDrawn)
	assert.Zero(t, skipped)
	assert.Equal(t, "snake-1", v.player.ID)
	assert.Equal(t, 3, v.player.Size)
}

func TestViewerDrawsOnlyChangedCells(t *testing.T) {
	d := newDemo(t)
	v := NewViewer(d, ViewerOptions{FeedID: "demo", Config: config.DefaultConfig()})

	v = send(t, v, FrameMsg{Resp: pull(t, d)})
	v = send(t, v, FrameMsg{Resp: pull(t, d)})

	stats, _ := v.Stats()
	assert.Equal(t, 2, stats.Draws)
	assert.Greater(t, stats.CellsDrawn, 100)
	assert.Less(t, stats.CellsDrawn, 200)
}

func TestViewerSkipsDuplicateSnapshot(t *testing.T) {
	d := newDemo(t)
	v := NewViewer(d, ViewerOptions{FeedID: "demo", Config: config.DefaultConfig()})

	resp := pull(t, d)
	v = send(t, v, FrameMsg{Resp: resp})
	v = send(t, v, FrameMsg{Resp: resp})

	stats, skipped := v.Stats()
	assert.Equal(t, 1, stats.Draws)
	assert.Equal(t, 1, skipped)
	assert.Equal(t, 2, v.frames)
}

func TestViewerRebuildsBoardOnResize(t *testing.T) {
	d := newDemo(t)
	v := NewViewer(d, ViewerOptions{Config: config.DefaultConfig()})
	v = send(t, v, FrameMsg{Resp: pull(t, d)})

	cfg := feed.DefaultDemoConfig()
	cfg.Width, cfg.Height = 12, 8
	other, err := feed.NewDemo(cfg, 1)
	require.NoError(t, err)

	v = send(t, v, FrameMsg{Resp: pull(t, other)})

	require.NotNil(t, v.board)
	assert.Equal(t, 12, v.board.Width())
	assert.Equal(t, 8, v.board.Height())
	stats, _ := v.Stats()
	assert.Equal(t, 96, stats.CellsDrawn)
}

func TestViewerWaiting(t *testing.T) {
	v := NewViewer(newDemo(t), ViewerOptions{Config: config.DefaultConfig()})

	v = send(t, v, FrameMsg{Resp: protocol.EventResponse{Status: protocol.StatusWaiting}})

	assert.Nil(t, v.board)
	assert.Zero(t, v.frames)
	assert.Equal(t, "waiting for players...", v.waitingText())
	assert.NotEmpty(t, v.View())
}

func TestViewerRejectsBadBoard(t *testing.T) {
	v := NewViewer(newDemo(t), ViewerOptions{Config: config.DefaultConfig()})

	bad := protocol.EventResponse{Body: protocol.Body{Board: []int{0, 0, 0}, Width: 2, Height: 2}}
	v = send(t, v, FrameMsg{Resp: bad})

	assert.True(t, v.Ended())
	assert.ErrorIs(t, v.Err(), protocol.ErrBoardSize)
}

func TestViewerSavesResultOnGameOver(t *testing.T) {
	d := newDemo(t)
	store := newStore(t)
	v := NewViewer(d, ViewerOptions{FeedID: "demo", Session: "s1", Config: config.DefaultConfig(), Store: store})

	v = send(t, v, FrameMsg{Resp: pull(t, d)})
	last := pull(t, d)
	last.Status = protocol.StatusError
	v = send(t, v, FrameMsg{Resp: last})
	// A second end must not store a second row.
	v = send(t, v, FrameMsg{Err: io.EOF})

	assert.True(t, v.Ended())
	assert.NoError(t, v.Err())

	results, err := store.SessionResults("s1")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "demo", results[0].Feed)
	assert.Equal(t, "snake-1", results[0].Player)
	assert.Equal(t, ReasonGameOver, results[0].Reason)
	assert.Equal(t, 2, results[0].Ticks)
	assert.Equal(t, v.player.Size, results[0].Size)
}

func TestViewerSavesResultOnEOF(t *testing.T) {
	d := newDemo(t)
	store := newStore(t)
	v := NewViewer(d, ViewerOptions{FeedID: "demo", Session: "s2", Config: config.DefaultConfig(), Store: store})

	v = send(t, v, FrameMsg{Resp: pull(t, d)})
	v = send(t, v, FrameMsg{Err: io.EOF})

	results, err := store.SessionResults("s2")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, ReasonEOF, results[0].Reason)
}

func TestViewerFeedError(t *testing.T) {
	v := NewViewer(newDemo(t), ViewerOptions{Config: config.DefaultConfig()})
	boom := errors.New("boom")

	v = send(t, v, FrameMsg{Err: boom})

	assert.True(t, v.Ended())
	assert.ErrorIs(t, v.Err(), boom)
}

func TestViewerQueuesSteering(t *testing.T) {
	d := newDemo(t)
	v := NewViewer(d, ViewerOptions{Config: config.DefaultConfig()})

	// No player yet, nothing to steer.
	v = send(t, v, runeKey("d"))
	assert.Empty(t, v.steer)

	v = send(t, v, FrameMsg{Resp: pull(t, d)})
	v = send(t, v, runeKey("d"))
	v = send(t, v, tea.KeyMsg{Type: tea.KeyUp})

	require.Len(t, v.steer, 2)
	assert.Equal(t, protocol.EventRequest{ID: "snake-1", EventType: protocol.EventTypeKey, Key: protocol.MoveRight}, v.steer[0])
	assert.Equal(t, protocol.MoveUp, v.steer[1].Key)
}

func TestViewerTickPullsOnce(t *testing.T) {
	v := NewViewer(newDemo(t), ViewerOptions{Config: config.DefaultConfig()})
	v.steer = []protocol.EventRequest{{ID: "snake-1"}}

	m, cmd := v.handleTick()
	v = m.(Viewer)
	assert.NotNil(t, cmd)
	assert.True(t, v.pulling)
	assert.Empty(t, v.steer)

	m, _ = v.handleTick()
	assert.True(t, m.(Viewer).pulling)
}

func TestPullCmdSendsSteering(t *testing.T) {
	d := newDemo(t)
	pull(t, d)

	req, err := protocol.NewDirectionEvent("snake-1", protocol.MoveDown)
	require.NoError(t, err)
	msg := pullCmd(d, []protocol.EventRequest{req})()

	frame, ok := msg.(FrameMsg)
	require.True(t, ok)
	require.NoError(t, frame.Err)
	p, ok := frame.Resp.Body.PlayerByID("snake-1")
	require.True(t, ok)
	if p.Direction != protocol.MoveDown {
		// A reverse key is ignored by the demo.
		assert.Equal(t, protocol.MoveUp, p.Direction)
	}
}

func TestViewerPauseAndRedraw(t *testing.T) {
	d := newDemo(t)
	v := NewViewer(d, ViewerOptions{Config: config.DefaultConfig()})
	v = send(t, v, FrameMsg{Resp: pull(t, d)})

	v = send(t, v, runeKey("p"))
	assert.True(t, v.paused)
	_, cmd := v.handleTick()
	assert.NotNil(t, cmd)
	assert.False(t, v.pulling)

	v = send(t, v, runeKey("f"))
	stats, _ := v.Stats()
	assert.Equal(t, 2, stats.Draws)
	assert.Equal(t, 200, stats.CellsDrawn)
}

func TestViewerBackOnlyWhenEnded(t *testing.T) {
	d := newDemo(t)
	v := NewViewer(d, ViewerOptions{Config: config.DefaultConfig(), Embedded: true})

	v = send(t, v, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, v.BackToMenu())

	v = send(t, v, FrameMsg{Err: io.EOF})
	m, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, cmd)
	assert.True(t, m.(Viewer).BackToMenu())
}

func TestViewerQuit(t *testing.T) {
	v := NewViewer(newDemo(t), ViewerOptions{Config: config.DefaultConfig()})

	m, cmd := v.Update(runeKey("q"))

	assert.NotNil(t, cmd)
	assert.True(t, m.(Viewer).IsQuitting())
	assert.Empty(t, m.View())
}

func TestViewerLoadsBestSize(t *testing.T) {
	store := newStore(t)
	_, err := store.SaveResult(storage.Result{Session: "old", Feed: "demo", Player: "snake-1", Size: 9})
	require.NoError(t, err)

	v := NewViewer(newDemo(t), ViewerOptions{FeedID: "demo", Config: config.DefaultConfig(), Store: store})

	assert.Equal(t, 9, v.best)
	assert.Contains(t, v.hud(), "best 9")
}

func TestViewerComposeFramesBoard(t *testing.T) {
	d := newDemo(t)
	v := NewViewer(d, ViewerOptions{FeedID: "demo", Config: config.DefaultConfig(), Width: 80, Height: 24})
	v = send(t, v, FrameMsg{Resp: pull(t, d)})

	v.compose()

	// 10 columns centered on an 80 column screen, framed.
	top := []rune(v.screen.Row(hudHeight))
	assert.Equal(t, '┌', top[34])
	assert.Equal(t, '┐', top[45])
	bottom := []rune(v.screen.Row(hudHeight + 11))
	assert.Equal(t, '└', bottom[34])

	first := []rune(v.screen.Row(hudHeight + 1))
	assert.Equal(t, '│', first[34])
	for x := 35; x < 45; x++ {
		assert.NotEqual(t, ' ', first[x], "column %d", x)
	}
	assert.Contains(t, v.screen.Row(0), "frame 1")
}
