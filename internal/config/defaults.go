package config

import (
	_ "embed"

	"github.com/vovakirdan/arena-client/internal/board"
	"github.com/vovakirdan/arena-client/internal/feed"
	"github.com/vovakirdan/arena-client/internal/ship"
)

//go:embed defaults/arena.yaml
var defaultArenaYAML []byte

// DefaultConfig returns the hard-coded configuration, used when even the
// embedded YAML cannot be parsed.
func DefaultConfig() Config {
	return Config{
		Board:   board.DefaultLayout(),
		Palette: board.DefaultPalette(),
		Ship:    ship.DefaultConfig(),
		Viewer: ViewerConfig{
			TickRate: 10,
		},
		Demo: feed.DefaultDemoConfig(),
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultArenaYAML
}
