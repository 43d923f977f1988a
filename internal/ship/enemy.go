package ship

import (
	"math"
	"math/rand"
	"time"

	"github.com/vovakirdan/arena-client/internal/geom"
)

// FramesPerSecond is the frame rate lag is measured in.
const FramesPerSecond = 60

// FrameDuration is one frame, truncated to whole nanoseconds. Only lag is
// measured in it; distances per frame use Speed / FramesPerSecond.
const FrameDuration = time.Second / FramesPerSecond

// walkArea bounds the random targets an enemy wanders toward.
const walkArea = 1000

// maxShotDelay bounds the random number of ticks between enemy shots.
const maxShotDelay = 100

// Enemy is a remote or AI ship. It keeps its own timing state: the last
// authoritative pose it was told about and its shot countdown.
type Enemy struct {
	*Ship

	shotCountdown int // ticks until the next shot; -1 means unarmed
	lastSeen      time.Time
	lastPose      geom.Coordinate
}

// NewEnemy creates an enemy ship at pos.
func NewEnemy(id string, pos geom.Vector, cfg Config) *Enemy {
	return &Enemy{
		Ship:          New(id, pos, cfg),
		shotCountdown: -1,
	}
}

// RandomWalk steers toward a random point and thrusts forward.
func (e *Enemy) RandomWalk(rng *rand.Rand) {
	if !e.Alive() {
		return
	}
	target := geom.New(float64(rng.Intn(walkArea+1)), float64(rng.Intn(walkArea+1)))
	e.SetDirection(target)
	e.MoveUpper()
}

// RandomShoot fires after a random delay of up to maxShotDelay calls,
// then draws the next delay.
func (e *Enemy) RandomShoot(rng *rand.Rand, now time.Time) (*Bullet, error) {
	if e.shotCountdown == -1 {
		e.shotCountdown = rng.Intn(maxShotDelay + 1)
	}
	e.shotCountdown--
	if e.shotCountdown >= 0 {
		return nil, nil
	}
	b, err := e.Fire(now)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Rearm drops the pending delay; the next RandomShoot draws a fresh one.
func (e *Enemy) Rearm() {
	e.shotCountdown = -1
}

// Observe records an authoritative pose received at the given time.
func (e *Enemy) Observe(x, y, theta float64, at time.Time) {
	e.SyncPosition(x, y)
	e.SetDirectionPhi(theta)
	e.lastPose = e.Pose
	e.lastSeen = at
}

// LastSeen returns when the enemy's pose was last observed.
func (e *Enemy) LastSeen() time.Time {
	return e.lastSeen
}

// Frames converts a lag into whole 60 fps frames, at least one.
func Frames(lag time.Duration) int {
	n := int(math.Round(float64(lag) / float64(FrameDuration)))
	if n < 1 {
		return 1
	}
	return n
}

// Predict extrapolates the last observed pose to now, moving forward at
// the ship's speed for every elapsed frame. The enemy itself is not
// changed.
func (e *Enemy) Predict(now time.Time) geom.Coordinate {
	if e.lastSeen.IsZero() {
		return e.Pose
	}
	predicted := e.lastPose
	step := e.cfg.Speed / FramesPerSecond
	for i := Frames(now.Sub(e.lastSeen)); i > 0; i-- {
		predicted.Move(step, 0)
	}
	return predicted
}
