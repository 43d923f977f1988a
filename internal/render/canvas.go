// Package render provides a retained-mode board.Surface. Primitives are
// keyed by their origin, so repainting a cell replaces what was there
// instead of stacking another primitive on top.
package render

import (
	"sort"

	"github.com/vovakirdan/arena-client/internal/board"
	"github.com/vovakirdan/arena-client/internal/core"
)

// Glyphs used when rasterizing cells onto a terminal screen.
const (
	GlyphFilled = '█'
	GlyphFramed = '▫'
)

// Primitive is the retained state of one cell position.
type Primitive struct {
	Rect        core.Rect
	Fill        core.Color
	Stroke      core.Color
	StrokeWidth int
	Stroked     bool
}

// Canvas implements board.Surface.
type Canvas struct {
	prims  map[core.Point]*Primitive
	issued int
}

var _ board.Surface = (*Canvas)(nil)

// NewCanvas creates an empty canvas.
func NewCanvas() *Canvas {
	return &Canvas{prims: make(map[core.Point]*Primitive)}
}

// FillRect replaces the primitive at r's origin with a plain fill.
func (c *Canvas) FillRect(r core.Rect, fill core.Color) {
	c.prims[r.Origin()] = &Primitive{Rect: r, Fill: fill}
	c.issued++
}

// StrokeRect adds a border to the primitive at r's origin, creating an
// unfilled one if nothing is there yet.
func (c *Canvas) StrokeRect(r core.Rect, stroke core.Color, width int) {
	p, ok := c.prims[r.Origin()]
	if !ok {
		p = &Primitive{Rect: r}
		c.prims[r.Origin()] = p
	}
	p.Stroke = stroke
	p.StrokeWidth = width
	p.Stroked = true
	c.issued++
}

// Len returns the number of retained primitives.
func (c *Canvas) Len() int {
	return len(c.prims)
}

// Issued returns how many surface calls the canvas has received.
func (c *Canvas) Issued() int {
	return c.issued
}

// At returns the primitive whose rectangle starts at (x, y).
func (c *Canvas) At(x, y int) (Primitive, bool) {
	p, ok := c.prims[core.Point{X: x, Y: y}]
	if !ok {
		return Primitive{}, false
	}
	return *p, true
}

// Primitives returns the retained primitives ordered top to bottom,
// left to right.
func (c *Canvas) Primitives() []Primitive {
	out := make([]Primitive, 0, len(c.prims))
	for _, p := range c.prims {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rect.Y != out[j].Rect.Y {
			return out[i].Rect.Y < out[j].Rect.Y
		}
		return out[i].Rect.X < out[j].Rect.X
	})
	return out
}

// Reset drops every primitive.
func (c *Canvas) Reset() {
	clear(c.prims)
	c.issued = 0
}

// Rasterize projects the canvas onto a screen, one character per board
// cell, with the grid's top-left cell at (dx, dy). Filled cells become a
// coloured block; framed cells show their stroke colour. Cells that fall
// off the screen are clipped.
func (c *Canvas) Rasterize(dst *core.Screen, b *board.Board, dx, dy int) {
	layout := b.Layout()
	ox, oy := b.Origin()
	grid := layout.GridRect(ox, oy, b.Width(), b.Height())
	for _, p := range c.prims {
		if !grid.Intersects(p.Rect) {
			continue
		}
		col, row, ok := layout.CellAt(ox, oy, b.Width(), b.Height(), p.Rect.X, p.Rect.Y)
		if !ok {
			continue
		}
		if p.Stroked {
			dst.SetColored(dx+col, dy+row, GlyphFramed, p.Stroke)
			continue
		}
		dst.SetColored(dx+col, dy+row, GlyphFilled, p.Fill)
	}
}
