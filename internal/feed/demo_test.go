package feed

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/arena-client/internal/protocol"
)

func newDemo(t *testing.T, cfg DemoConfig, seed int64) *Demo {
	t.Helper()
	d, err := NewDemo(cfg, seed)
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestDemoConfigValidate(t *testing.T) {
	require.NoError(t, DefaultDemoConfig().Validate())

	tests := []struct {
		name string
		edit func(*DemoConfig)
	}{
		{"zero width", func(c *DemoConfig) { c.Width = 0 }},
		{"negative height", func(c *DemoConfig) { c.Height = -1 }},
		{"no snakes", func(c *DemoConfig) { c.Snakes = 0 }},
		{"zero size", func(c *DemoConfig) { c.InitialSize = 0 }},
		{"negative apples", func(c *DemoConfig) { c.Apples = -1 }},
		{"negative max ticks", func(c *DemoConfig) { c.MaxTicks = -3 }},
		{"wander above one", func(c *DemoConfig) { c.Wander = 1.5 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultDemoConfig()
			tc.edit(&cfg)
			assert.Error(t, cfg.Validate())
			_, err := NewDemo(cfg, 1)
			assert.Error(t, err)
		})
	}
}

func TestDemoNoRoom(t *testing.T) {
	cfg := DefaultDemoConfig()
	cfg.Width, cfg.Height = 2, 2
	cfg.Snakes = 2
	_, err := NewDemo(cfg, 1)
	require.ErrorIs(t, err, ErrNoRoom)
}

func TestDemoFirstFrame(t *testing.T) {
	cfg := DefaultDemoConfig()
	d := newDemo(t, cfg, 42)

	resp, err := d.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, protocol.StatusOK, resp.Status)
	assert.Equal(t, 0, d.Tick())
	require.Len(t, resp.Body.Board, cfg.Width*cfg.Height)
	require.Len(t, resp.Body.Players, 1)

	var body, apples int
	for _, v := range resp.Body.Board {
		switch {
		case v > 0:
			body++
		case v == Apple:
			apples++
		}
	}
	assert.Equal(t, cfg.InitialSize, body)
	assert.Equal(t, cfg.Apples, apples)

	p := resp.Body.Players[0]
	assert.Equal(t, d.PlayerID(), p.ID)
	assert.Equal(t, cfg.InitialSize, p.Size)
	assert.Equal(t, cfg.InitialSize, resp.Body.Board[p.Y*cfg.Width+p.X], "head holds the size")
}

func TestDemoDeterminism(t *testing.T) {
	cfg := DefaultDemoConfig()
	cfg.Snakes = 2
	cfg.Apples = 3
	d1 := newDemo(t, cfg, 7)
	d2 := newDemo(t, cfg, 7)

	ctx := context.Background()
	for i := 0; i < 60; i++ {
		r1, err1 := d1.Next(ctx)
		r2, err2 := d2.Next(ctx)
		require.Equal(t, err1, err2)
		if err1 != nil {
			break
		}
		require.Equal(t, r1, r2, "frame %d", i)
	}
}

func TestDemoHeadTracksSize(t *testing.T) {
	cfg := DefaultDemoConfig()
	cfg.Apples = 5
	cfg.MaxTicks = 200
	d := newDemo(t, cfg, 3)

	ctx := context.Background()
	for {
		resp, err := d.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		if resp.Status != protocol.StatusOK {
			continue
		}
		p := resp.Body.Players[0]
		assert.Equal(t, p.Size, resp.Body.Board[p.Y*cfg.Width+p.X], "tick %d", d.Tick())
	}
}

func TestDemoMaxTicks(t *testing.T) {
	cfg := DefaultDemoConfig()
	cfg.MaxTicks = 5
	d := newDemo(t, cfg, 11)

	ctx := context.Background()
	var statuses []protocol.Status
	for {
		resp, err := d.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		statuses = append(statuses, resp.Status)
	}

	// The initial board plus five moves, the last one ending the session.
	require.Len(t, statuses, 6)
	for _, s := range statuses[:5] {
		assert.Equal(t, protocol.StatusOK, s)
	}
	assert.Equal(t, protocol.StatusError, statuses[5])

	_, err := d.Next(ctx)
	assert.ErrorIs(t, err, io.EOF)
}

func TestDemoSteeredIntoWall(t *testing.T) {
	cfg := DefaultDemoConfig()
	cfg.Apples = 0
	d := newDemo(t, cfg, 5)
	ctx := context.Background()

	first, err := d.Next(ctx)
	require.NoError(t, err)
	dir := first.Body.Players[0].Direction

	// Holding the current direction drives the snake straight into a wall.
	require.NoError(t, d.Send(protocol.EventRequest{ID: d.PlayerID(), EventType: protocol.EventTypeKey, Key: dir}))

	var last protocol.EventResponse
	for i := 0; i <= cfg.Width+cfg.Height; i++ {
		last, err = d.Next(ctx)
		require.NoError(t, err)
		if last.Status == protocol.StatusError {
			break
		}
	}
	require.Equal(t, protocol.StatusError, last.Status)
	assert.Equal(t, cfg.InitialSize, last.Body.Players[0].Size)
	assert.Equal(t, dir, last.Body.Players[0].Direction)

	_, err = d.Next(ctx)
	assert.ErrorIs(t, err, io.EOF)
}

func TestDemoSendRejectsReverse(t *testing.T) {
	d := newDemo(t, DefaultDemoConfig(), 9)
	first, err := d.Next(context.Background())
	require.NoError(t, err)
	dir := first.Body.Players[0].Direction

	require.NoError(t, d.Send(protocol.EventRequest{ID: d.PlayerID(), EventType: protocol.EventTypeKey, Key: reverse(dir)}))
	assert.Equal(t, dir, d.snakes[0].dir)
	assert.True(t, d.snakes[0].manual)
}

func TestDemoSendErrors(t *testing.T) {
	d := newDemo(t, DefaultDemoConfig(), 9)

	assert.Error(t, d.Send(protocol.EventRequest{ID: "nobody", EventType: protocol.EventTypeKey, Key: protocol.MoveUp}))
	assert.Error(t, d.Send(protocol.EventRequest{ID: d.PlayerID(), EventType: protocol.EventTypeKey, Key: 9}))
	assert.Error(t, d.Send(protocol.EventRequest{ID: d.PlayerID(), EventType: 4, Key: protocol.MoveUp}))
}

func TestDemoCanceled(t *testing.T) {
	d := newDemo(t, DefaultDemoConfig(), 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := d.Next(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDemoClose(t *testing.T) {
	d := newDemo(t, DefaultDemoConfig(), 1)
	require.NoError(t, d.Close())
	_, err := d.Next(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestDemoCloseWhilePulling(t *testing.T) {
	cfg := DefaultDemoConfig()
	cfg.Snakes = 2
	d := newDemo(t, cfg, 9)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			if _, err := d.Next(context.Background()); err != nil {
				return
			}
		}
	}()
	req, err := protocol.NewDirectionEvent(d.PlayerID(), protocol.MoveUp)
	require.NoError(t, err)
	_ = d.Send(req)
	require.NoError(t, d.Close())
	require.NoError(t, d.Close())
	wg.Wait()

	_, err = d.Next(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestLocalPlayer(t *testing.T) {
	cfg := DefaultDemoConfig()
	cfg.Snakes = 2
	d := newDemo(t, cfg, 4)
	resp, err := d.Next(context.Background())
	require.NoError(t, err)

	p, ok := LocalPlayer(d, resp)
	require.True(t, ok)
	assert.Equal(t, "snake-1", p.ID)

	// Sources without an identity fall back to the first player.
	fs := NewFileSource(strings.NewReader(""))
	resp.Body.Players[0], resp.Body.Players[1] = resp.Body.Players[1], resp.Body.Players[0]
	p, ok = LocalPlayer(fs, resp)
	require.True(t, ok)
	assert.Equal(t, "snake-2", p.ID)

	_, ok = LocalPlayer(fs, protocol.EventResponse{})
	assert.False(t, ok)
}
