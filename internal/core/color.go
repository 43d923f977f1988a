package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is a 24-bit RGB colour packed as 0xRRGGBB.
// The zero value is black.
type Color uint32

// Colors used by the default board palette.
const (
	ColorBlack     Color = 0x000000
	ColorWhite     Color = 0xffffff
	ColorSalmon    Color = 0xff9999 // damaged cells
	ColorSilver    Color = 0xcccccc // occupied cells
	ColorSteelBlue Color = 0x1a65ac // empty cell border
)

// RGB packs the three channels into a Color.
func RGB(r, g, b uint8) Color {
	return Color(uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// Channels unpacks the colour into red, green and blue.
func (c Color) Channels() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// Hex returns the colour as "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%06x", uint32(c)&0xffffff)
}

// String implements fmt.Stringer.
func (c Color) String() string {
	return c.Hex()
}

// ParseColor parses "#rrggbb", "rrggbb" or "0xrrggbb".
func ParseColor(s string) (Color, error) {
	raw := strings.TrimSpace(s)
	raw = strings.TrimPrefix(raw, "#")
	raw = strings.TrimPrefix(strings.ToLower(raw), "0x")
	if len(raw) != 6 {
		return 0, fmt.Errorf("core: invalid color %q: want 6 hex digits", s)
	}
	v, err := strconv.ParseUint(raw, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("core: invalid color %q: %w", s, err)
	}
	return Color(v), nil
}

// MarshalText encodes the colour as "#rrggbb" so configs stay readable.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// UnmarshalText decodes any form accepted by ParseColor.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
