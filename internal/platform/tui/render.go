package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/arena-client/internal/core"
)

// styleCache memoizes one lipgloss style per colour. Board palettes are
// small, so the cache stays tiny.
type styleCache map[core.Color]lipgloss.Style

func (c styleCache) get(col core.Color) lipgloss.Style {
	if s, ok := c[col]; ok {
		return s
	}
	s := lipgloss.NewStyle().Foreground(lipgloss.Color(col.Hex()))
	c[col] = s
	return s
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
// Unstyled cells use the terminal's default foreground.
func RenderScreen(s *core.Screen) string {
	return renderScreen(s, styleCache{})
}

func renderScreen(s *core.Screen, styles styleCache) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		// Group consecutive cells with the same color for efficiency
		x := 0
		for x < s.Width() {
			start := s.GetCell(x, y)

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Styled != start.Styled || (cell.Styled && cell.Color != start.Color) {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			if !start.Styled {
				sb.WriteString(run.String())
				continue
			}
			sb.WriteString(styles.get(start.Color).Render(run.String()))
		}
	}
	return sb.String()
}
