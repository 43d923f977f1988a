package main

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/arena-client/internal/core"
	"github.com/vovakirdan/arena-client/internal/geom"
	"github.com/vovakirdan/arena-client/internal/ship"
)

var (
	flagShipFrames       int
	flagShipEnemies      int
	flagShipEvery        int
	flagShipFireEvery    int
	flagShipObserveEvery int
	flagShipID           string
)

var shipCmd = &cobra.Command{
	Use:   "ship",
	Short: "Run a headless ship skirmish and print poses",
	Long: `Run the ship controller against random-walking enemies for a number of
60 fps frames, using the ship tuning from the config.

The player ship turns toward the nearest enemy, thrusts until it is in
range and fires on a fixed cadence. Enemies wander and fire at random.
Every --observe-every frames each enemy's pose is recorded the way a
server update would be, and the report shows where the client would
predict it against where it really is.

Examples:
  arena ship
  arena ship --frames 1200 --enemies 3 --seed 7
  arena ship --every 10 --fire-every 5`,
	RunE: runShip,
}

func init() {
	shipCmd.Flags().IntVar(&flagShipFrames, "frames", 600, "Frames to simulate")
	shipCmd.Flags().IntVar(&flagShipEnemies, "enemies", 2, "Number of enemies")
	shipCmd.Flags().IntVar(&flagShipEvery, "every", 60, "Print a report line every N frames")
	shipCmd.Flags().IntVar(&flagShipFireEvery, "fire-every", 15, "Player fires every N frames")
	shipCmd.Flags().IntVar(&flagShipObserveEvery, "observe-every", 6, "Record enemy poses every N frames")
	shipCmd.Flags().StringVar(&flagShipID, "id", "", "Player ship ID (random UUID when empty)")
}

func runShip(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	_, err = runSkirmish(os.Stdout, cfg.Ship, skirmishOptions{
		PlayerID:     flagShipID,
		Frames:       flagShipFrames,
		Enemies:      flagShipEnemies,
		Every:        flagShipEvery,
		FireEvery:    flagShipFireEvery,
		ObserveEvery: flagShipObserveEvery,
		Seed:         seed,
	})
	return err
}

// Skirmish geometry, in world units.
const (
	arenaSize = 1000 // enemies spawn in [0, arenaSize)²; the player in the middle
	hitRadius = 16   // a bullet this close to a ship hits it
	walkEvery = 30   // frames between enemy course changes
)

type skirmishOptions struct {
	PlayerID     string
	Frames       int
	Enemies      int
	Every        int
	FireEvery    int
	ObserveEvery int
	Seed         int64
}

type skirmishSummary struct {
	Frames    int
	Shots     int // bullets fired by the player
	Hits      int // player bullets that hit an enemy
	Destroyed int // enemies destroyed
	Taken     int // enemy bullets that hit the player
	Alive     bool
}

type shot struct {
	ship.Bullet
	fromPlayer bool
}

// runSkirmish drives a player ship and cfg-tuned enemies frame by frame,
// integrating velocities itself, and writes a report to w.
func runSkirmish(w io.Writer, cfg ship.Config, opts skirmishOptions) (skirmishSummary, error) {
	if opts.Frames <= 0 {
		return skirmishSummary{}, fmt.Errorf("invalid frame count %d", opts.Frames)
	}
	if opts.Enemies <= 0 {
		return skirmishSummary{}, fmt.Errorf("invalid enemy count %d", opts.Enemies)
	}
	opts.Every = core.Max(opts.Every, 1)
	opts.FireEvery = core.Max(opts.FireEvery, 1)
	opts.ObserveEvery = core.Max(opts.ObserveEvery, 1)

	rng := rand.New(rand.NewSource(opts.Seed))
	now := time.Unix(0, 0)

	player := ship.New(opts.PlayerID, geom.New(arenaSize/2, arenaSize/2), cfg)
	enemies := make([]*ship.Enemy, opts.Enemies)
	for i := range enemies {
		pos := geom.New(float64(rng.Intn(arenaSize)), float64(rng.Intn(arenaSize)))
		enemies[i] = ship.NewEnemy(fmt.Sprintf("enemy-%d", i+1), pos, cfg)
		enemies[i].Observe(pos.X, pos.Y, enemies[i].Pose.Theta, now)
	}

	fmt.Fprintf(w, "player %s at %s, %d enemies, seed %d\n", player.ID, player.Position(), len(enemies), opts.Seed)

	var (
		sum   skirmishSummary
		shots []shot
		in    = core.NewInputFrame()
	)
	for frame := 0; frame < opts.Frames; frame++ {
		target, ok := nearest(player.Position(), enemies)
		if !ok || !player.Alive() {
			break
		}

		in.Clear()
		player.SetDirection(target.Position())
		if player.Position().Distance(target.Position()) > float64(hitRadius)*8 {
			in.Set(core.ActionMoveUp)
		} else {
			in.Set(core.ActionStop)
		}
		if frame%opts.FireEvery == 0 {
			in.Set(core.ActionFire)
		}
		b, err := player.Apply(in, now)
		if err != nil {
			return sum, err
		}
		if b != nil {
			shots = append(shots, shot{Bullet: *b, fromPlayer: true})
			sum.Shots++
		}

		for _, e := range enemies {
			if !e.Alive() {
				continue
			}
			if frame%walkEvery == 0 {
				e.RandomWalk(rng)
			}
			b, err := e.RandomShoot(rng, now)
			if err != nil && !errors.Is(err, ship.ErrDestroyed) {
				return sum, err
			}
			if b != nil {
				shots = append(shots, shot{Bullet: *b})
			}
		}

		integrate(player)
		for _, e := range enemies {
			integrate(e.Ship)
			if frame%opts.ObserveEvery == 0 && e.Alive() {
				pos := e.Position()
				e.Observe(pos.X, pos.Y, e.Pose.Theta, now)
			}
		}

		now = now.Add(ship.FrameDuration)
		shots = resolveShots(shots, player, enemies, cfg, now, &sum)

		if frame%opts.Every == 0 {
			report(w, frame, now, player, enemies, len(shots))
		}
		sum.Frames = frame + 1
	}

	sum.Alive = player.Alive()
	fmt.Fprintf(w, "frames %d, shots %d, hits %d, destroyed %d/%d, taken %d, player alive %t\n",
		sum.Frames, sum.Shots, sum.Hits, sum.Destroyed, len(enemies), sum.Taken, sum.Alive)
	return sum, nil
}

// integrate moves a live ship by one frame of its velocity.
func integrate(s *ship.Ship) {
	if !s.Alive() {
		return
	}
	pos := s.Position().Add(s.Velocity.Mul(1.0 / ship.FramesPerSecond))
	s.SyncPosition(pos.X, pos.Y)
}

// resolveShots advances bullets, applies hits and drops spent bullets.
func resolveShots(shots []shot, player *ship.Ship, enemies []*ship.Enemy, cfg ship.Config, now time.Time, sum *skirmishSummary) []shot {
	live := shots[:0]
	for _, s := range shots {
		s.Pos = s.Pos.Add(s.Velocity.Mul(1.0 / ship.FramesPerSecond))
		if s.Expired(now) || s.OutOfBounds(cfg.Bounds) {
			continue
		}
		if s.fromPlayer {
			if e, ok := struck(s.Pos, enemies); ok {
				sum.Hits++
				if e.Hit() {
					sum.Destroyed++
				}
				continue
			}
		} else if player.Alive() && s.Pos.Distance(player.Position()) < hitRadius {
			sum.Taken++
			player.Hit()
			continue
		}
		live = append(live, s)
	}
	return live
}

func struck(pos geom.Vector, enemies []*ship.Enemy) (*ship.Enemy, bool) {
	for _, e := range enemies {
		if e.Alive() && pos.Distance(e.Position()) < hitRadius {
			return e, true
		}
	}
	return nil, false
}

func nearest(from geom.Vector, enemies []*ship.Enemy) (*ship.Enemy, bool) {
	var (
		best *ship.Enemy
		dist float64
	)
	for _, e := range enemies {
		if !e.Alive() {
			continue
		}
		if d := from.Distance(e.Position()); best == nil || d < dist {
			best, dist = e, d
		}
	}
	return best, best != nil
}

func report(w io.Writer, frame int, now time.Time, player *ship.Ship, enemies []*ship.Enemy, bullets int) {
	fmt.Fprintf(w, "frame %4d  player %s theta %.0f hp %d  bullets %d\n",
		frame, fmtVec(player.Position()), player.Pose.Theta, player.HP, bullets)
	for _, e := range enemies {
		if !e.Alive() {
			fmt.Fprintf(w, "            %s destroyed\n", e.ID)
			continue
		}
		predicted := e.Predict(now)
		fmt.Fprintf(w, "            %s %s predicted %s off %.1f hp %d\n",
			e.ID, fmtVec(e.Position()), fmtVec(predicted.Pos), predicted.Pos.Distance(e.Position()), e.HP)
	}
}

func fmtVec(v geom.Vector) string {
	return fmt.Sprintf("(%.1f, %.1f)", v.X, v.Y)
}
