package board

// Grid is a row-major integer grid: grid[row][col], row = y, col = x.
type Grid [][]int

// NewGrid allocates a zeroed grid of the given dimensions.
func NewGrid(width, height int) Grid {
	g := make(Grid, height)
	for y := range g {
		g[y] = make([]int, width)
	}
	return g
}

// Dims returns the width (length of the first row) and height.
// A grid with zero rows has width 0.
func (g Grid) Dims() (width, height int) {
	if len(g) == 0 {
		return 0, 0
	}
	return len(g[0]), len(g)
}

// Rectangular reports whether every row has the given width and there are
// exactly height rows.
func (g Grid) Rectangular(width, height int) bool {
	if len(g) != height {
		return false
	}
	for _, row := range g {
		if len(row) != width {
			return false
		}
	}
	return true
}

// Clone returns a deep copy.
func (g Grid) Clone() Grid {
	c := make(Grid, len(g))
	for y, row := range g {
		c[y] = append([]int(nil), row...)
	}
	return c
}

// Style is the visual class of a cell, decided by the sign of its value.
type Style int

const (
	StyleEmpty    Style = iota // zero
	StyleDamaged               // negative
	StyleOccupied              // positive
)

// Classify maps a cell value to its style. Magnitude carries no meaning.
func Classify(v int) Style {
	switch {
	case v < 0:
		return StyleDamaged
	case v > 0:
		return StyleOccupied
	default:
		return StyleEmpty
	}
}

// String returns a human-readable name for the style.
func (s Style) String() string {
	switch s {
	case StyleEmpty:
		return "empty"
	case StyleDamaged:
		return "damaged"
	case StyleOccupied:
		return "occupied"
	default:
		return "unknown"
	}
}
