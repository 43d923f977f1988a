// Package feed provides sources of server snapshots for the viewer:
// recorded sessions, a live in-process demo, and a recorder that writes
// the recording format.
package feed

import (
	"context"

	"github.com/vovakirdan/arena-client/internal/protocol"
)

// Source yields server messages in order. Next returns io.EOF once the
// stream is exhausted.
type Source interface {
	Next(ctx context.Context) (protocol.EventResponse, error)
	Close() error
}

// Steerer is implemented by sources that accept client key events.
type Steerer interface {
	Send(req protocol.EventRequest) error
}

// Identified is implemented by sources that know which player is local.
type Identified interface {
	PlayerID() string
}

// LocalPlayer returns the local player's ID in resp. It asks src first and
// falls back to the first listed player.
func LocalPlayer(src Source, resp protocol.EventResponse) (protocol.Player, bool) {
	if id, ok := src.(Identified); ok {
		return resp.Body.PlayerByID(id.PlayerID())
	}
	if len(resp.Body.Players) == 0 {
		return protocol.Player{}, false
	}
	return resp.Body.Players[0], true
}
