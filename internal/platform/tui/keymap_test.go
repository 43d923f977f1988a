package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/vovakirdan/arena-client/internal/core"
	"github.com/vovakirdan/arena-client/internal/protocol"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestMapKey(t *testing.T) {
	keys := DefaultViewerKeyMap()

	tests := []struct {
		name string
		msg  tea.KeyMsg
		want core.Action
	}{
		{"w", runeKey("w"), core.ActionMoveUp},
		{"arrow up", tea.KeyMsg{Type: tea.KeyUp}, core.ActionMoveUp},
		{"s", runeKey("s"), core.ActionMoveDown},
		{"a", runeKey("a"), core.ActionMoveLeft},
		{"arrow right", tea.KeyMsg{Type: tea.KeyRight}, core.ActionMoveRight},
		{"p", runeKey("p"), core.ActionPause},
		{"f", runeKey("f"), core.ActionRedraw},
		{"q", runeKey("q"), core.ActionQuit},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit},
		{"unbound", runeKey("x"), core.ActionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, keys.MapKey(tt.msg))
		})
	}
}

func TestDirection(t *testing.T) {
	tests := []struct {
		action core.Action
		want   int
		ok     bool
	}{
		{core.ActionMoveLeft, protocol.MoveLeft, true},
		{core.ActionMoveRight, protocol.MoveRight, true},
		{core.ActionMoveUp, protocol.MoveUp, true},
		{core.ActionMoveDown, protocol.MoveDown, true},
		{core.ActionPause, 0, false},
		{core.ActionNone, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.action.String(), func(t *testing.T) {
			got, ok := Direction(tt.action)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMapKeyToMenuAction(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want MenuAction
	}{
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, MenuActionSelect},
		{"tab", tea.KeyMsg{Type: tea.KeyTab}, MenuActionScoreboard},
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}, MenuActionBack},
		{"k", runeKey("k"), MenuActionUp},
		{"j", runeKey("j"), MenuActionDown},
		{"q", runeKey("q"), MenuActionQuit},
		{"other", runeKey("z"), MenuActionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapKeyToMenuAction(tt.msg))
		})
	}
}
