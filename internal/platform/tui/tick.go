// Package tui provides the Bubble Tea integration for the arena client.
// It runs the snapshot viewer loop, maps keys to actions, and serves the
// same viewer over SSH.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/arena-client/internal/core"
)

// maxTickRate caps the snapshot pull rate.
const maxTickRate = 120

// TickMsg is sent when the viewer should pull the next snapshot.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(tickRate int) tea.Cmd {
	tickRate = core.Clamp(tickRate, 1, maxTickRate)
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
