// Package protocol defines the JSON messages the game server exchanges
// with clients and converts board payloads into board.Grid snapshots.
// Moving the bytes is someone else's job; this package only shapes them.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/vovakirdan/arena-client/internal/board"
)

// Status is the outcome code carried by every server message.
type Status int

const (
	StatusOK      Status = iota // regular tick with a board
	StatusError                 // the receiving player is out; body has final sizes
	StatusWaiting               // matchmaking, no board yet
)

// String returns a human-readable name for the status.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusError:
		return "game over"
	case StatusWaiting:
		return "waiting"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Direction keys a client sends to steer its snake.
const (
	MoveLeft = iota
	MoveRight
	MoveUp
	MoveDown
)

// EventTypeKey is the event type of a direction key press.
const EventTypeKey = 0

// ErrBoardSize is returned when a flat board does not hold width*height cells.
var ErrBoardSize = errors.New("protocol: board size mismatch")

// Player is one player's public state.
type Player struct {
	ID        string `json:"id"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Size      int    `json:"size"`
	Direction int    `json:"direction"`
}

// Body is the payload of a server message. Board is row-major.
type Body struct {
	Board   []int    `json:"board"`
	Width   int      `json:"width"`
	Height  int      `json:"height"`
	Players []Player `json:"players"`
}

// EventResponse is a server to client message.
type EventResponse struct {
	Status Status `json:"status"`
	Body   Body   `json:"body"`
}

// EventRequest is a client to server message.
type EventRequest struct {
	ID        string `json:"id"`
	EventType int    `json:"eventtype"`
	Key       int    `json:"key"`
}

// NewDirectionEvent builds the request for a direction key press.
func NewDirectionEvent(playerID string, dir int) (EventRequest, error) {
	if dir < MoveLeft || dir > MoveDown {
		return EventRequest{}, fmt.Errorf("protocol: invalid direction %d", dir)
	}
	return EventRequest{ID: playerID, EventType: EventTypeKey, Key: dir}, nil
}

// Decode parses one server message.
func Decode(data []byte) (EventResponse, error) {
	var resp EventResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return EventResponse{}, fmt.Errorf("protocol: cannot decode message: %w", err)
	}
	return resp, nil
}

// Encode serializes a message as a single JSON line (no trailing newline).
func Encode(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("protocol: cannot encode message: %w", err)
	}
	return data, nil
}

// Grid converts the body's board into a snapshot.
func (b Body) Grid() (board.Grid, error) {
	return ToGrid(b.Board, b.Width, b.Height)
}

// PlayerByID returns the player with the given ID.
func (b Body) PlayerByID(id string) (Player, bool) {
	for _, p := range b.Players {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}

// Fingerprint hashes the board payload and its dimensions.
func (b Body) Fingerprint() uint64 {
	d := xxhash.New()
	var buf [8]byte
	putInt := func(v int) {
		u := uint64(v)
		for i := range buf {
			buf[i] = byte(u >> (8 * i))
		}
		//nolint:errcheck // xxhash.Digest.Write never fails
		d.Write(buf[:])
	}
	putInt(b.Width)
	putInt(b.Height)
	for _, v := range b.Board {
		putInt(v)
	}
	return d.Sum64()
}

// ToGrid reshapes a row-major flat board: cell (col, row) is
// flat[row*width+col].
func ToGrid(flat []int, width, height int) (board.Grid, error) {
	if width <= 0 || height <= 0 || len(flat) != width*height {
		return nil, fmt.Errorf("%w: %d cells for %dx%d", ErrBoardSize, len(flat), width, height)
	}
	g := make(board.Grid, height)
	for row := range g {
		g[row] = append([]int(nil), flat[row*width:(row+1)*width]...)
	}
	return g, nil
}

// Flatten is the inverse of ToGrid.
func Flatten(g board.Grid) []int {
	w, h := g.Dims()
	flat := make([]int, 0, w*h)
	for _, row := range g {
		flat = append(flat, row...)
	}
	return flat
}
