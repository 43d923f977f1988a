package board

import "github.com/vovakirdan/arena-client/internal/core"

// Palette holds the colours for each cell style. Empty cells are drawn as
// a filled background plus a stroked border.
type Palette struct {
	Damaged     core.Color `yaml:"damaged"`
	Occupied    core.Color `yaml:"occupied"`
	EmptyFill   core.Color `yaml:"empty_fill"`
	EmptyStroke core.Color `yaml:"empty_stroke"`
	StrokeWidth int        `yaml:"stroke_width"`
}

// DefaultPalette returns the stock board colours.
func DefaultPalette() Palette {
	return Palette{
		Damaged:     core.ColorSalmon,
		Occupied:    core.ColorSilver,
		EmptyFill:   core.ColorBlack,
		EmptyStroke: core.ColorSteelBlue,
		StrokeWidth: 1,
	}
}
