package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertVectorNear(t *testing.T, want, got Vector, delta float64) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, delta, "x of %s", got)
	assert.InDelta(t, want.Y, got.Y, delta, "y of %s", got)
}

func TestCoordinate_Move(t *testing.T) {
	t.Run("along heading", func(t *testing.T) {
		c := NewCoordinate(New(10, 10), 0)
		c.Move(5, 0)
		assertVectorNear(t, New(15, 10), c.Pos, eps)
	})

	// 90° is +y: counter-clockwise in math convention, downwards on screen.
	t.Run("angle convention", func(t *testing.T) {
		c := NewCoordinate(Zero, 90)
		c.Move(3, 0)
		assertVectorNear(t, New(0, 3), c.Pos, eps)
	})

	t.Run("relative angle", func(t *testing.T) {
		c := NewCoordinate(Zero, 90)
		c.Move(2, -90)
		assertVectorNear(t, New(2, 0), c.Pos, eps)

		c.Move(2, 180)
		assertVectorNear(t, New(2, -2), c.Pos, eps)
	})

	t.Run("heading unchanged", func(t *testing.T) {
		c := NewCoordinate(Zero, 33)
		c.Move(100, 12)
		assert.Equal(t, 33.0, c.Theta)
	})
}

func TestCoordinate_Rotate(t *testing.T) {
	tests := []struct {
		name        string
		initial     float64
		deltas      []float64
		expectTheta float64
	}{
		{"simple", 0, []float64{45}, 45},
		{"wraps forward", 350, []float64{20}, 10},
		{"negative wraps to positive", 0, []float64{-90}, 270},
		{"full turn", 90, []float64{360}, 90},
		{"many turns", 10, []float64{725, -1080}, 15},
		{"exact negative multiple", 0, []float64{-720}, 0},
		{"two steps", 300, []float64{50, 40}, 30},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := NewCoordinate(Zero, tc.initial)
			for _, d := range tc.deltas {
				c.Rotate(d)
			}
			assert.InDelta(t, tc.expectTheta, c.Theta, 1e-9)
		})
	}
}

func TestCoordinate_RotateStaysInRange(t *testing.T) {
	c := NewCoordinate(Zero, 0)
	expected := 0.0
	for i := 0; i < 500; i++ {
		d := float64((i*37)%1000-500) / 3
		c.Rotate(d)
		expected = math.Mod(expected+d, 360)
		if expected < 0 {
			expected += 360
		}
		require.GreaterOrEqual(t, c.Theta, 0.0)
		require.Less(t, c.Theta, 360.0)
		require.InDelta(t, expected, c.Theta, 1e-6)
	}

	// A tiny negative remainder must not round up to 360.
	tiny := NewCoordinate(Zero, 0)
	tiny.Rotate(-1e-15)
	assert.Less(t, tiny.Theta, 360.0)
	assert.GreaterOrEqual(t, tiny.Theta, 0.0)
}

func TestCoordinate_NewNormalizesTheta(t *testing.T) {
	assert.InDelta(t, 270, NewCoordinate(Zero, -90).Theta, eps)
	assert.InDelta(t, 45, NewCoordinate(Zero, 405).Theta, eps)
}

func TestCoordinate_ConvertToWorld(t *testing.T) {
	c := NewCoordinate(New(100, 50), 90)

	// Local +x is the heading.
	assertVectorNear(t, New(100, 60), c.ConvertToWorld(New(10, 0)), eps)
	// Local +y is 90° further round.
	assertVectorNear(t, New(90, 50), c.ConvertToWorld(New(0, 10)), eps)
	// Origin maps to the position.
	assertVectorNear(t, c.Pos, c.ConvertToWorld(Zero), eps)
}

func TestCoordinate_ConvertToLocal(t *testing.T) {
	c := NewCoordinate(New(100, 50), 90)

	assertVectorNear(t, New(10, 0), c.ConvertToLocal(New(100, 60)), eps)
	assertVectorNear(t, New(0, 10), c.ConvertToLocal(New(90, 50)), eps)
	assertVectorNear(t, Zero, c.ConvertToLocal(c.Pos), eps)
}

func TestCoordinate_RoundTrip(t *testing.T) {
	points := []Vector{
		Zero,
		New(1, 0),
		New(-13.5, 7.25),
		New(1000, -2000),
		New(0.001, 0.002),
	}
	for theta := -720.0; theta <= 720; theta += 17.5 {
		c := NewCoordinate(New(theta/3, -theta/7), theta)
		for _, p := range points {
			assertVectorNear(t, p, c.ConvertToLocal(c.ConvertToWorld(p)), 1e-9)
			assertVectorNear(t, p, c.ConvertToWorld(c.ConvertToLocal(p)), 1e-9)
		}
	}
}

func TestCoordinate_DirectionToWorld(t *testing.T) {
	c := NewCoordinate(New(500, 500), 30)

	for _, r := range []float64{0.5, 1, 200, 500} {
		d := c.DirectionToWorld(0, r)
		assert.InDelta(t, r, d.Magnitude(), 1e-9)
	}

	// Position is ignored, direction follows theta + relative.
	d := c.DirectionToWorld(60, 2)
	assertVectorNear(t, New(0, 2), d, 1e-9)

	// Matches the world-space offset of a local point on the heading.
	fromPose := c.ConvertToWorld(New(7, 0)).Sub(c.Pos)
	assertVectorNear(t, c.DirectionToWorld(0, 7), fromPose, 1e-9)
}

func TestCoordinate_Heading(t *testing.T) {
	c := NewCoordinate(Zero, 180)
	assertVectorNear(t, New(-1, 0), c.Heading(), eps)
	assert.InDelta(t, math.Pi, c.Radians(), eps)
}

func TestCoordinate_ValueSemantics(t *testing.T) {
	a := NewCoordinate(New(1, 1), 0)
	b := a
	b.Move(10, 0)
	b.Rotate(90)

	assert.Equal(t, New(1, 1), a.Pos)
	assert.Equal(t, 0.0, a.Theta)
}
