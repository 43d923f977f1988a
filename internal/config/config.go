// Package config provides YAML-based configuration loading for the arena
// client: board layout and colours, ship tuning, viewer and demo settings.
package config

import (
	"fmt"

	"github.com/vovakirdan/arena-client/internal/board"
	"github.com/vovakirdan/arena-client/internal/feed"
	"github.com/vovakirdan/arena-client/internal/ship"
)

// Config is the whole client configuration.
type Config struct {
	Board   board.Layout    `yaml:"board"`
	Palette board.Palette   `yaml:"palette"`
	Ship    ship.Config     `yaml:"ship"`
	Viewer  ViewerConfig    `yaml:"viewer"`
	Demo    feed.DemoConfig `yaml:"demo"`
}

// ViewerConfig defines terminal viewer behaviour.
type ViewerConfig struct {
	TickRate int    `yaml:"tick_rate"` // snapshots pulled per second
	Player   string `yaml:"player"`    // local player ID; empty asks the feed
	ShowHelp bool   `yaml:"show_help"` // start with the full key help
}

// Validate rejects values the board, viewer or demo cannot run with.
func (c Config) Validate() error {
	switch {
	case c.Board.CellSize <= 0:
		return fmt.Errorf("config: invalid cell size %d", c.Board.CellSize)
	case c.Board.CellMargin < 0:
		return fmt.Errorf("config: invalid cell margin %d", c.Board.CellMargin)
	case c.Board.ViewportW <= 0 || c.Board.ViewportH <= 0:
		return fmt.Errorf("config: invalid viewport %dx%d", c.Board.ViewportW, c.Board.ViewportH)
	case c.Palette.StrokeWidth < 0:
		return fmt.Errorf("config: invalid stroke width %d", c.Palette.StrokeWidth)
	case c.Ship.Speed < 0 || c.Ship.BulletSpeed < 0:
		return fmt.Errorf("config: negative ship speed")
	case c.Ship.BulletTTL <= 0:
		return fmt.Errorf("config: invalid bullet ttl %s", c.Ship.BulletTTL)
	case c.Ship.Bounds <= 0:
		return fmt.Errorf("config: invalid bullet bounds %g", c.Ship.Bounds)
	case c.Viewer.TickRate <= 0:
		return fmt.Errorf("config: invalid tick rate %d", c.Viewer.TickRate)
	}
	if err := c.Demo.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
