package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/arena-client/internal/registry"
)

// MenuItem represents a selectable feed in the menu.
type MenuItem struct {
	FeedID string
	Title  string
}

// MenuModel is the Bubble Tea model for the feed picker.
type MenuModel struct {
	items          []MenuItem
	cursor         int
	width          int
	height         int
	quitting       bool
	selected       *MenuItem // Set when user selects a feed
	openScoreboard bool      // True if user pressed Tab for scoreboard
	exitOnChoice   bool      // Quit the program on a choice (standalone menu)
}

// NewMenuModel creates a new menu model listing every registered feed.
func NewMenuModel(width, height int) MenuModel {
	feeds := registry.List()
	items := make([]MenuItem, 0, len(feeds))
	for _, f := range feeds {
		items = append(items, MenuItem{FeedID: f.ID, Title: f.Title})
	}

	return MenuModel{
		items:  items,
		width:  width,
		height: height,
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
			return m, m.choiceCmd()
		}

	case MenuActionScoreboard:
		m.openScoreboard = true
		return m, m.choiceCmd()
	}

	return m, nil
}

func (m MenuModel) choiceCmd() tea.Cmd {
	if m.exitOnChoice {
		return tea.Quit
	}
	return nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("  A R E N A  ", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select a feed to watch", m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		line := fmt.Sprintf("%s%-8s %s", cursor, item.FeedID, item.Title)
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Watch  |  Tab: Results  |  Q: Quit"
	b.WriteString(centerText(controls, m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// Size returns the last known terminal size.
func (m MenuModel) Size() (width, height int) {
	return m.width, m.height
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	n := len([]rune(text))
	if n >= width {
		return text
	}
	padding := (width - n) / 2
	return strings.Repeat(" ", padding) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	FeedID          string
	Width, Height   int
	WantsScoreboard bool
	Quit            bool
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(width, height int) (MenuResult, error) {
	model := NewMenuModel(width, height)
	model.exitOnChoice = true

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Width: width, Height: height}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Width: width, Height: height, Quit: true}, nil
	}

	result := MenuResult{}
	result.Width, result.Height = m.Size()

	switch {
	case m.WantsScoreboard():
		result.WantsScoreboard = true
	case m.IsQuitting() || m.Selected() == nil:
		result.Quit = true
	default:
		result.FeedID = m.Selected().FeedID
	}
	return result, nil
}
