package board

import "github.com/vovakirdan/arena-client/internal/core"

// Layout places cells in pixel space. The grid is centered inside a
// fixed viewport.
type Layout struct {
	CellSize   int `yaml:"cell_size"`
	CellMargin int `yaml:"cell_margin"`
	ViewportW  int `yaml:"viewport_width"`
	ViewportH  int `yaml:"viewport_height"`
}

// DefaultLayout returns 16px cells with a 4px gap in a 1000x1000 viewport,
// which puts a 40x40 board at (100, 100).
func DefaultLayout() Layout {
	return Layout{
		CellSize:   16,
		CellMargin: 4,
		ViewportW:  1000,
		ViewportH:  1000,
	}
}

// Pitch is the distance between the origins of neighbouring cells.
func (l Layout) Pitch() int {
	return l.CellSize + l.CellMargin
}

// Origin returns the pixel origin of a width x height grid. It is negative
// when the grid does not fit the viewport.
func (l Layout) Origin(width, height int) (x, y int) {
	x = (l.ViewportW - width*l.Pitch()) / 2
	y = (l.ViewportH - height*l.Pitch()) / 2
	return x, y
}

// CellRect returns the pixel rectangle of cell (col, row) for a grid whose
// origin is (ox, oy).
func (l Layout) CellRect(ox, oy, col, row int) core.Rect {
	return core.NewRect(ox+col*l.Pitch(), oy+row*l.Pitch(), l.CellSize, l.CellSize)
}

// CellAt is the inverse of CellRect: it returns the cell whose rectangle
// contains pixel (px, py). ok is false for margins and positions outside
// a width x height grid.
func (l Layout) CellAt(ox, oy, width, height, px, py int) (col, row int, ok bool) {
	pitch := l.Pitch()
	if pitch <= 0 {
		return 0, 0, false
	}
	if !l.GridRect(ox, oy, width, height).Contains(px, py) {
		return 0, 0, false
	}
	c, r := (px-ox)/pitch, (py-oy)/pitch
	if !l.CellRect(ox, oy, c, r).Contains(px, py) {
		return 0, 0, false
	}
	return c, r, true
}

// GridRect returns the pixel rectangle spanned by a width x height grid
// whose origin is (ox, oy), trailing margins included.
func (l Layout) GridRect(ox, oy, width, height int) core.Rect {
	return core.NewRect(ox, oy, width*l.Pitch(), height*l.Pitch())
}
