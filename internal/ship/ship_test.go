package ship

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/arena-client/internal/core"
	"github.com/vovakirdan/arena-client/internal/geom"
)

func newShip(t *testing.T) *Ship {
	t.Helper()
	return New("p1", geom.New(100, 100), DefaultConfig())
}

func TestNew(t *testing.T) {
	s := New("", geom.New(1, 2), DefaultConfig())
	assert.NotEmpty(t, s.ID, "an empty id is replaced by a UUID")
	assert.Len(t, s.ID, 36)
	assert.Equal(t, 3, s.HP)
	assert.Equal(t, geom.New(1, 2), s.Position())
	assert.Equal(t, 90.0, s.Facing)
	assert.True(t, s.Alive())
}

func TestMovement(t *testing.T) {
	tests := []struct {
		name string
		move func(*Ship)
		want geom.Vector
	}{
		{"upper", (*Ship).MoveUpper, geom.New(200, 0)},
		{"downer", (*Ship).MoveDowner, geom.New(-200, 0)},
		{"left", (*Ship).MoveLeft, geom.New(0, -200)},
		{"right", (*Ship).MoveRight, geom.New(0, 200)},
		{"stop", (*Ship).Stop, geom.New(0, 0)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newShip(t)
			s.Velocity = geom.New(9, 9)
			tc.move(s)
			assert.InDelta(t, tc.want.X, s.Velocity.X, 1e-9)
			assert.InDelta(t, tc.want.Y, s.Velocity.Y, 1e-9)
			// Velocity only; the position comes back through SyncPosition.
			assert.Equal(t, geom.New(100, 100), s.Position())
		})
	}
}

func TestMovementFollowsHeading(t *testing.T) {
	s := newShip(t)
	s.Rotate(90)
	s.MoveUpper()
	assert.InDelta(t, 0, s.Velocity.X, 1e-9)
	assert.InDelta(t, 200, s.Velocity.Y, 1e-9)
	assert.Equal(t, 180.0, s.Facing)
}

func TestSetDirection(t *testing.T) {
	tests := []struct {
		name   string
		target geom.Vector
		want   float64
	}{
		{"far positive side", geom.New(200, 200), 5},
		{"near positive side", geom.New(200, 102), 1},
		{"near negative side", geom.New(200, 98), 359},
		{"far negative side", geom.New(200, 0), 355},
		{"on the line", geom.New(200, 100), 359},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newShip(t)
			s.SetDirection(tc.target)
			assert.InDelta(t, tc.want, s.Pose.Theta, 1e-9)
		})
	}
}

func TestSetDirectionConverges(t *testing.T) {
	s := newShip(t)
	target := geom.New(100, 400) // straight down the +y axis: 90°

	for i := 0; i < 200; i++ {
		s.SetDirection(target)
	}

	// Near the line the fine and coarse steps alternate, so the heading
	// settles within one coarse step of the target.
	toTarget := target.Sub(s.Position())
	angle, err := s.Pose.Heading().Angle(toTarget)
	require.NoError(t, err)
	assert.LessOrEqual(t, angle, DefaultConfig().CoarseTurn+1e-9)
}

func TestSetDirectionPhi(t *testing.T) {
	s := newShip(t)
	s.Rotate(30)
	s.SetDirectionPhi(300)
	assert.InDelta(t, 300, s.Pose.Theta, 1e-9)
	assert.InDelta(t, 90+300, s.Facing, 1e-9)
}

func TestFire(t *testing.T) {
	s := newShip(t)
	s.Rotate(90)
	now := time.Unix(1000, 0)

	b, err := s.Fire(now)
	require.NoError(t, err)
	assert.Equal(t, geom.New(100, 100), b.Pos)
	assert.InDelta(t, 500, b.Velocity.Magnitude(), 1e-9)
	assert.InDelta(t, 500, b.Velocity.Y, 1e-9)

	assert.False(t, b.Expired(now.Add(499*time.Millisecond)))
	assert.True(t, b.Expired(now.Add(500*time.Millisecond)))
}

func TestBulletOutOfBounds(t *testing.T) {
	limit := DefaultConfig().Bounds
	assert.False(t, Bullet{Pos: geom.New(0, 0)}.OutOfBounds(limit))
	assert.False(t, Bullet{Pos: geom.New(2160, 2160)}.OutOfBounds(limit))
	assert.True(t, Bullet{Pos: geom.New(-1, 5)}.OutOfBounds(limit))
	assert.True(t, Bullet{Pos: geom.New(5, 2161)}.OutOfBounds(limit))
}

func TestHit(t *testing.T) {
	s := newShip(t)

	// HP 3 survives three hits; the fourth takes it below zero.
	for i := 0; i < 3; i++ {
		assert.False(t, s.Hit())
		assert.True(t, s.Alive())
	}
	assert.True(t, s.Hit())
	assert.False(t, s.Alive())
	assert.False(t, s.Hit(), "already destroyed")

	_, err := s.Fire(time.Now())
	require.ErrorIs(t, err, ErrDestroyed)

	s.MoveUpper()
	assert.Equal(t, geom.Zero, s.Velocity)
}

func TestApply(t *testing.T) {
	s := newShip(t)
	now := time.Unix(5, 0)

	in := core.NewInputFrame()
	in.Set(core.ActionMoveRight)
	b, err := s.Apply(in, now)
	require.NoError(t, err)
	assert.Nil(t, b)
	assert.InDelta(t, 200, s.Velocity.Y, 1e-9)

	in.Clear()
	in.Set(core.ActionFire)
	in.Set(core.ActionStop)
	b, err = s.Apply(in, now)
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.Equal(t, now, b.FiredAt)
	assert.Equal(t, geom.Zero, s.Velocity)
}

func TestEnemyRandomShoot(t *testing.T) {
	e := NewEnemy("e1", geom.New(0, 0), DefaultConfig())
	rng := rand.New(rand.NewSource(7))
	now := time.Unix(0, 0)

	var shots []int
	for i := 0; i < 400; i++ {
		b, err := e.RandomShoot(rng, now)
		require.NoError(t, err)
		if b != nil {
			shots = append(shots, i)
		}
	}
	require.GreaterOrEqual(t, len(shots), 3)
	assert.LessOrEqual(t, shots[0], maxShotDelay)
	for i := 1; i < len(shots); i++ {
		gap := shots[i] - shots[i-1]
		assert.GreaterOrEqual(t, gap, 1)
		assert.LessOrEqual(t, gap, maxShotDelay+1)
	}

	e.Hit()
	e.Hit()
	e.Hit()
	e.Hit()
	e.Rearm()
	for i := 0; i <= maxShotDelay; i++ {
		_, err := e.RandomShoot(rng, now)
		if err != nil {
			require.ErrorIs(t, err, ErrDestroyed)
			return
		}
	}
	t.Fatal("a destroyed enemy never reported ErrDestroyed")
}

func TestEnemyRandomWalk(t *testing.T) {
	e := NewEnemy("e1", geom.New(500, 500), DefaultConfig())
	rng := rand.New(rand.NewSource(1))

	e.RandomWalk(rng)
	theta := e.Pose.Theta
	assert.True(t, theta == 5 || theta == 1 || theta == 359 || theta == 355, "theta = %v", theta)
	assert.InDelta(t, 200, e.Velocity.Magnitude(), 1e-9)
}

func TestFrames(t *testing.T) {
	assert.Equal(t, 1, Frames(0))
	assert.Equal(t, 1, Frames(5*time.Millisecond))
	assert.Equal(t, 1, Frames(FrameDuration))
	assert.Equal(t, 3, Frames(50*time.Millisecond))
	assert.Equal(t, 60, Frames(time.Second))
}

func TestEnemyPredict(t *testing.T) {
	e := NewEnemy("e1", geom.New(0, 0), DefaultConfig())
	at := time.Unix(100, 0)

	// Never observed: the current pose.
	assert.Equal(t, e.Pose, e.Predict(at))

	e.Observe(10, 20, 90, at)
	assert.Equal(t, at, e.LastSeen())

	// One second of lag is 60 frames at 200 units/s.
	p := e.Predict(at.Add(time.Second))
	assert.InDelta(t, 10, p.Pos.X, 1e-6)
	assert.InDelta(t, 220, p.Pos.Y, 1e-6)
	assert.InDelta(t, 90, p.Theta, 1e-9)

	// Prediction does not move the enemy.
	assert.Equal(t, geom.New(10, 20), e.Position())
}

func TestEnemyPredictWholeFrameSteps(t *testing.T) {
	e := NewEnemy("e1", geom.New(0, 0), DefaultConfig())
	at := time.Unix(100, 0)
	e.Observe(0, 0, 0, at)

	// Every frame advances exactly Speed/60, with no drift from the
	// truncated frame duration.
	for _, frames := range []int{1, 3, 60, 600} {
		lag := time.Duration(frames) * time.Second / FramesPerSecond
		p := e.Predict(at.Add(lag))
		assert.InDelta(t, float64(frames)*200/FramesPerSecond, p.Pos.X, 1e-9, "frames %d", frames)
	}
}
