// Package ship holds the pose-driven ship logic: steering toward a
// pointer, strafing relative to the heading and firing along it.
//
// Physics is not simulated here. A ship publishes a velocity; whatever
// integrates motion reports the resulting position back via SyncPosition.
package ship

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/arena-client/internal/core"
	"github.com/vovakirdan/arena-client/internal/geom"
)

// ErrDestroyed is returned when a destroyed ship is asked to act.
var ErrDestroyed = errors.New("ship: destroyed")

// Config holds ship tuning.
type Config struct {
	Speed       float64       `yaml:"speed"`        // units per second
	HP          int           `yaml:"hp"`           // hits survived; destroyed below zero
	BulletSpeed float64       `yaml:"bullet_speed"` // units per second
	BulletTTL   time.Duration `yaml:"bullet_ttl"`
	Bounds      float64       `yaml:"bounds"`      // bullets beyond [0, Bounds] are dead
	FineTurn    float64       `yaml:"fine_turn"`   // degrees per aim step near the target line
	CoarseTurn  float64       `yaml:"coarse_turn"` // degrees per aim step otherwise
	AimBand     float64       `yaml:"aim_band"`    // local |y| below which the fine turn is used
}

// DefaultConfig returns the stock ship tuning.
func DefaultConfig() Config {
	return Config{
		Speed:       200,
		HP:          3,
		BulletSpeed: 500,
		BulletTTL:   500 * time.Millisecond,
		Bounds:      2160,
		FineTurn:    1,
		CoarseTurn:  5,
		AimBand:     5,
	}
}

// Relative movement angles, in degrees from the heading.
const (
	forward  = 0
	backward = -180
	left     = -90
	right    = 90
)

// Ship is a player- or AI-controlled ship.
type Ship struct {
	ID       string
	HP       int
	Pose     geom.Coordinate
	Velocity geom.Vector
	// Facing is the sprite rotation in degrees. It accumulates every turn
	// and starts a quarter turn ahead of the pose, as the sprite art
	// points up.
	Facing float64

	cfg       Config
	destroyed bool
}

// New creates a ship at pos facing 0°. An empty id gets a random UUID.
func New(id string, pos geom.Vector, cfg Config) *Ship {
	if id == "" {
		id = uuid.NewString()
	}
	return &Ship{
		ID:     id,
		HP:     cfg.HP,
		Pose:   geom.NewCoordinate(pos, 0),
		Facing: 90,
		cfg:    cfg,
	}
}

// Config returns the ship's tuning.
func (s *Ship) Config() Config {
	return s.cfg
}

// Alive reports whether the ship can still act.
func (s *Ship) Alive() bool {
	return !s.destroyed
}

// Position returns the world position of the ship's local origin.
func (s *Ship) Position() geom.Vector {
	return s.Pose.ConvertToWorld(geom.Zero)
}

// SyncPosition records where the motion integrator put the ship.
func (s *Ship) SyncPosition(x, y float64) {
	s.Pose.Pos = geom.New(x, y)
}

// Rotate turns the ship and its sprite by d degrees.
func (s *Ship) Rotate(d float64) {
	s.Facing += d
	s.Pose.Rotate(d)
}

// SetDirection turns one aim step toward the world point target: a fine
// step when the target is nearly on the heading line, a coarse one
// otherwise. Positive local y turns positive.
func (s *Ship) SetDirection(target geom.Vector) {
	local := s.Pose.ConvertToLocal(target)

	step := s.cfg.CoarseTurn
	if math.Abs(local.Y) < s.cfg.AimBand {
		step = s.cfg.FineTurn
	}
	if local.Y > 0 {
		s.Rotate(step)
		return
	}
	s.Rotate(-step)
}

// SetDirectionPhi turns the ship to face phi degrees.
func (s *Ship) SetDirectionPhi(phi float64) {
	s.Rotate(phi - s.Pose.Theta)
}

// MoveUpper thrusts along the heading.
func (s *Ship) MoveUpper() { s.move(s.cfg.Speed, forward) }

// MoveDowner thrusts against the heading.
func (s *Ship) MoveDowner() { s.move(s.cfg.Speed, backward) }

// MoveLeft strafes left of the heading.
func (s *Ship) MoveLeft() { s.move(s.cfg.Speed, left) }

// MoveRight strafes right of the heading.
func (s *Ship) MoveRight() { s.move(s.cfg.Speed, right) }

// Stop zeroes the velocity.
func (s *Ship) Stop() { s.move(0, forward) }

func (s *Ship) move(speed, relative float64) {
	if s.destroyed {
		return
	}
	s.Velocity = s.Pose.DirectionToWorld(relative, speed)
}

// Apply maps one frame of input onto the ship. It returns the bullet
// fired this frame, if any.
func (s *Ship) Apply(in core.InputFrame, now time.Time) (*Bullet, error) {
	switch {
	case in.Has(core.ActionMoveUp):
		s.MoveUpper()
	case in.Has(core.ActionMoveDown):
		s.MoveDowner()
	case in.Has(core.ActionMoveLeft):
		s.MoveLeft()
	case in.Has(core.ActionMoveRight):
		s.MoveRight()
	case in.Has(core.ActionStop):
		s.Stop()
	}

	if !in.Has(core.ActionFire) {
		return nil, nil
	}
	b, err := s.Fire(now)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Fire launches a bullet from the ship's position along its heading.
func (s *Ship) Fire(now time.Time) (Bullet, error) {
	if s.destroyed {
		return Bullet{}, ErrDestroyed
	}
	return Bullet{
		Pos:      s.Position(),
		Velocity: s.Pose.DirectionToWorld(0, s.cfg.BulletSpeed),
		FiredAt:  now,
		TTL:      s.cfg.BulletTTL,
	}, nil
}

// Hit takes one point of damage and reports whether it destroyed the ship.
func (s *Ship) Hit() bool {
	if s.destroyed {
		return false
	}
	s.HP--
	if s.HP < 0 {
		s.destroyed = true
		s.Velocity = geom.Zero
		return true
	}
	return false
}

// Bullet is a fired projectile.
type Bullet struct {
	Pos      geom.Vector
	Velocity geom.Vector
	FiredAt  time.Time
	TTL      time.Duration
}

// Expired reports whether the bullet outlived its TTL.
func (b Bullet) Expired(now time.Time) bool {
	return now.Sub(b.FiredAt) >= b.TTL
}

// OutOfBounds reports whether the bullet left the [0, limit] square.
func (b Bullet) OutOfBounds(limit float64) bool {
	return b.Pos.X < 0 || b.Pos.Y < 0 || b.Pos.X > limit || b.Pos.Y > limit
}
