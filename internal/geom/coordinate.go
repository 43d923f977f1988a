package geom

import "math"

// Coordinate is a pose: a position and a heading Theta in degrees.
// Theta is kept in [0, 360). Move and Rotate mutate the pose; the
// conversions are pure.
//
// A Coordinate belongs to exactly one entity. Copy it (it is a plain
// value) rather than sharing a pointer between owners.
type Coordinate struct {
	Pos   Vector
	Theta float64
}

// NewCoordinate returns a pose at pos facing theta degrees.
func NewCoordinate(pos Vector, theta float64) Coordinate {
	return Coordinate{Pos: pos, Theta: normalizeDegrees(theta)}
}

// Radians returns Theta in radians.
func (c Coordinate) Radians() float64 {
	return radians(c.Theta)
}

// Heading returns the unit vector the pose faces.
func (c Coordinate) Heading() Vector {
	return c.DirectionToWorld(0, 1)
}

// Move translates the position by distance along Theta+relativeDeg.
func (c *Coordinate) Move(distance, relativeDeg float64) {
	rad := radians(c.Theta + relativeDeg)
	c.Pos = Vector{
		X: c.Pos.X + distance*math.Cos(rad),
		Y: c.Pos.Y + distance*math.Sin(rad),
	}
}

// Rotate turns the heading by deltaDeg.
func (c *Coordinate) Rotate(deltaDeg float64) {
	c.Theta = normalizeDegrees(c.Theta + deltaDeg)
}

// ConvertToWorld maps a point in the pose's local frame to world space:
// pos + R(theta)·local.
func (c Coordinate) ConvertToWorld(local Vector) Vector {
	sin, cos := math.Sincos(c.Radians())
	return Vector{
		X: c.Pos.X + cos*local.X - sin*local.Y,
		Y: c.Pos.Y + sin*local.X + cos*local.Y,
	}
}

// ConvertToLocal is the inverse of ConvertToWorld: R(-theta)·(world - pos).
func (c Coordinate) ConvertToLocal(world Vector) Vector {
	sin, cos := math.Sincos(c.Radians())
	d := world.Sub(c.Pos)
	return Vector{
		X: cos*d.X + sin*d.Y,
		Y: -sin*d.X + cos*d.Y,
	}
}

// DirectionToWorld returns a world-space vector of the given magnitude
// pointing at Theta+relativeDeg. Position is ignored.
func (c Coordinate) DirectionToWorld(relativeDeg, magnitude float64) Vector {
	rad := radians(c.Theta + relativeDeg)
	return Vector{
		X: magnitude * math.Cos(rad),
		Y: magnitude * math.Sin(rad),
	}
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// normalizeDegrees maps any finite angle into [0, 360).
func normalizeDegrees(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	// -1e-15 + 360 rounds to 360.
	if d >= 360 {
		d = 0
	}
	return d
}
