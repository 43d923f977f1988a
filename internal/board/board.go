// Package board implements the grid diff renderer: a Board owns a snapshot
// of the game grid and, on each draw, repaints only the cells whose value
// changed since the previous pass (or every cell when forced).
//
// The Board is not safe for concurrent use. Each instance belongs to the
// single goroutine that feeds it snapshots.
package board

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/arena-client/internal/core"
)

var (
	// ErrOutOfBounds is returned for cell coordinates outside the grid.
	ErrOutOfBounds = errors.New("board: cell out of bounds")

	// ErrDimensionMismatch is returned when a snapshot's shape differs from
	// the board's.
	ErrDimensionMismatch = errors.New("board: dimension mismatch")

	// ErrInvalidSize is returned by New for non-positive dimensions.
	ErrInvalidSize = errors.New("board: invalid size")
)

// Surface is the rendering sink the board paints on. Calls are
// fire-and-forget; every call creates a new primitive.
type Surface interface {
	FillRect(r core.Rect, fill core.Color)
	StrokeRect(r core.Rect, stroke core.Color, width int)
}

// Stats counts the work a board has issued since it was created.
type Stats struct {
	Draws        int // Draw/ForceDraw calls that passed validation
	CellsDrawn   int // cells repainted
	Primitives   int // FillRect + StrokeRect calls
	CellsSkipped int // unchanged cells skipped by non-forced draws
}

// Board is a width x height grid bound to a Surface.
type Board struct {
	surface Surface
	width   int
	height  int
	raw     Grid
	layout  Layout
	palette Palette
	logger  *log.Logger
	stats   Stats
}

// Option configures a Board.
type Option func(*Board)

// WithLayout sets the pixel layout.
func WithLayout(l Layout) Option {
	return func(b *Board) {
		b.layout = l
	}
}

// WithPalette sets the cell colours.
func WithPalette(p Palette) Option {
	return func(b *Board) {
		b.palette = p
	}
}

// WithLogger sets the logger used for per-draw debug output.
func WithLogger(l *log.Logger) Option {
	return func(b *Board) {
		if l != nil {
			b.logger = l
		}
	}
}

// New creates a zeroed board. Nothing is drawn until Draw is called.
func New(surface Surface, width, height int, opts ...Option) (*Board, error) {
	if surface == nil {
		return nil, errors.New("board: nil surface")
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}

	b := &Board{
		surface: surface,
		width:   width,
		height:  height,
		raw:     NewGrid(width, height),
		layout:  DefaultLayout(),
		palette: DefaultPalette(),
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Width returns the number of columns.
func (b *Board) Width() int {
	return b.width
}

// Height returns the number of rows.
func (b *Board) Height() int {
	return b.height
}

// Layout returns the pixel layout the board draws with.
func (b *Board) Layout() Layout {
	return b.layout
}

// Origin returns the pixel origin of the grid inside the viewport.
func (b *Board) Origin() (x, y int) {
	return b.layout.Origin(b.width, b.height)
}

// Stats returns the cumulative draw counters.
func (b *Board) Stats() Stats {
	return b.stats
}

// Snapshot returns a copy of the stored grid.
func (b *Board) Snapshot() Grid {
	return b.raw.Clone()
}

// Cell returns the stored value at column x, row y.
func (b *Board) Cell(x, y int) (int, error) {
	if err := b.checkBounds(x, y); err != nil {
		return 0, err
	}
	return b.raw[y][x], nil
}

// SetCell writes a value at column x, row y without redrawing.
func (b *Board) SetCell(x, y, v int) error {
	if err := b.checkBounds(x, y); err != nil {
		return err
	}
	b.raw[y][x] = v
	return nil
}

// Sync overwrites the stored grid without comparing or redrawing.
func (b *Board) Sync(data Grid) error {
	if err := b.checkDims(data); err != nil {
		return err
	}
	for y := 0; y < b.height; y++ {
		copy(b.raw[y], data[y])
	}
	return nil
}

// ForceDraw repaints every cell from data. See Draw.
func (b *Board) ForceDraw(data Grid) (int, error) {
	return b.Draw(data, true)
}

// Draw reconciles the stored grid with data and repaints the cells that
// differ, or every cell when force is set. Empty data (no rows) redraws
// from the stored grid, which without force changes nothing.
//
// It returns the number of cells repainted. A snapshot of the wrong shape
// is rejected before any cell is touched.
func (b *Board) Draw(data Grid, force bool) (int, error) {
	if len(data) == 0 {
		data = b.raw
	}
	if err := b.checkDims(data); err != nil {
		return 0, err
	}

	ox, oy := b.Origin()
	drawn := 0
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			v := data[y][x]
			if !force && b.raw[y][x] == v {
				b.stats.CellsSkipped++
				continue
			}
			b.raw[y][x] = v
			b.paint(b.layout.CellRect(ox, oy, x, y), v)
			drawn++
		}
	}

	b.stats.Draws++
	b.stats.CellsDrawn += drawn
	b.logger.Debug("board drawn", "cells", drawn, "force", force)
	return drawn, nil
}

// paint issues the primitives for one cell.
func (b *Board) paint(r core.Rect, v int) {
	switch Classify(v) {
	case StyleDamaged:
		b.surface.FillRect(r, b.palette.Damaged)
		b.stats.Primitives++
	case StyleOccupied:
		b.surface.FillRect(r, b.palette.Occupied)
		b.stats.Primitives++
	default:
		b.surface.FillRect(r, b.palette.EmptyFill)
		b.surface.StrokeRect(r, b.palette.EmptyStroke, b.palette.StrokeWidth)
		b.stats.Primitives += 2
	}
}

func (b *Board) checkBounds(x, y int) error {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return fmt.Errorf("%w: (%d, %d) on %dx%d", ErrOutOfBounds, x, y, b.width, b.height)
	}
	return nil
}

func (b *Board) checkDims(data Grid) error {
	if !data.Rectangular(b.width, b.height) {
		w, h := data.Dims()
		return fmt.Errorf("%w: got %dx%d, want %dx%d", ErrDimensionMismatch, w, h, b.width, b.height)
	}
	return nil
}
