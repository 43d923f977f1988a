package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"slices"
	"sync"

	"github.com/vovakirdan/arena-client/internal/board"
	"github.com/vovakirdan/arena-client/internal/protocol"
)

// Apple marks an apple cell. Positive cells are snake bodies: the head
// holds the snake's size and the count drops by one each tick until the
// cell is free again.
const Apple = -1

// ErrNoRoom is returned when the board cannot fit the requested snakes.
var ErrNoRoom = errors.New("feed: no room for snakes")

// DemoConfig tunes the demo board.
type DemoConfig struct {
	Width       int     `yaml:"width"`
	Height      int     `yaml:"height"`
	Snakes      int     `yaml:"snakes"`
	InitialSize int     `yaml:"initial_size"`
	Apples      int     `yaml:"apples"`
	MaxTicks    int     `yaml:"max_ticks"` // 0 runs until the local snake dies
	Wander      float64 `yaml:"wander"`    // chance per tick of a random safe turn
}

// DefaultDemoConfig returns a single snake on a 40x40 board.
func DefaultDemoConfig() DemoConfig {
	return DemoConfig{
		Width:       40,
		Height:      40,
		Snakes:      1,
		InitialSize: 3,
		Apples:      1,
		Wander:      0.1,
	}
}

// Validate checks the config for values the generator cannot run with.
func (c DemoConfig) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("feed: invalid demo board %dx%d", c.Width, c.Height)
	case c.Snakes <= 0:
		return fmt.Errorf("feed: invalid snake count %d", c.Snakes)
	case c.InitialSize <= 0:
		return fmt.Errorf("feed: invalid initial size %d", c.InitialSize)
	case c.Apples < 0:
		return fmt.Errorf("feed: invalid apple count %d", c.Apples)
	case c.MaxTicks < 0:
		return fmt.Errorf("feed: invalid max ticks %d", c.MaxTicks)
	case c.Wander < 0 || c.Wander > 1:
		return fmt.Errorf("feed: wander %g outside [0, 1]", c.Wander)
	}
	return nil
}

type cell struct{ x, y int }

type snake struct {
	id     string
	head   cell
	size   int
	dir    int
	manual bool // steered by key events instead of the autopilot
	alive  bool
}

// Demo generates a game in process. Snakes are driven by a simple
// autopilot that heads for apples and avoids obstacles one step ahead.
// The first snake is the local player; it can be steered with Send.
//
// A snake that runs into a wall or a body is out. The session ends when
// the local snake is out, when every snake is out, or after MaxTicks.
// That frame has StatusError and the final sizes; Next then returns
// io.EOF.
//
// A Demo is safe for concurrent use, so Close may interrupt a pending Next.
type Demo struct {
	mu sync.Mutex

	cfg     DemoConfig
	rng     *rand.Rand
	cells   board.Grid
	snakes  []*snake
	tick    int
	started bool
	over    bool
}

// NewDemo seeds a new demo session.
func NewDemo(cfg DemoConfig, seed int64) (*Demo, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	d := &Demo{
		cfg:   cfg,
		rng:   rand.New(rand.NewSource(seed)),
		cells: board.NewGrid(cfg.Width, cfg.Height),
	}
	for i := 0; i < cfg.Snakes; i++ {
		s := &snake{id: fmt.Sprintf("snake-%d", i+1), size: cfg.InitialSize, alive: true}
		if !d.place(s) {
			return nil, fmt.Errorf("%w: %d of size %d on %dx%d", ErrNoRoom, cfg.Snakes, cfg.InitialSize, cfg.Width, cfg.Height)
		}
		d.snakes = append(d.snakes, s)
	}
	for i := 0; i < cfg.Apples; i++ {
		d.spawnApple()
	}
	return d, nil
}

// PlayerID returns the local snake's ID.
func (d *Demo) PlayerID() string {
	return d.snakes[0].id
}

// Tick returns the number of moves played.
func (d *Demo) Tick() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tick
}

// Next returns the board before the first move, then one frame per move.
// The move that ends the session yields a StatusError frame.
func (d *Demo) Next(ctx context.Context) (protocol.EventResponse, error) {
	if err := ctx.Err(); err != nil {
		return protocol.EventResponse{}, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.over {
		return protocol.EventResponse{}, io.EOF
	}
	if d.started {
		d.step()
	}
	d.started = true
	if d.over {
		return d.frame(protocol.StatusError), nil
	}
	return d.frame(protocol.StatusOK), nil
}

// Send applies a direction key to the named snake and hands it over from
// the autopilot. Turning back onto the body is ignored.
func (d *Demo) Send(req protocol.EventRequest) error {
	if req.EventType != protocol.EventTypeKey {
		return fmt.Errorf("feed: unsupported event type %d", req.EventType)
	}
	if req.Key < protocol.MoveLeft || req.Key > protocol.MoveDown {
		return fmt.Errorf("feed: invalid direction %d", req.Key)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, s := range d.snakes {
		if s.id != req.ID {
			continue
		}
		s.manual = true
		if !opposite(s.dir, req.Key) {
			s.dir = req.Key
		}
		return nil
	}
	return fmt.Errorf("feed: unknown player %q", req.ID)
}

// Close ends the session. Closing twice is a no-op.
func (d *Demo) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.over = true
	return nil
}

func (d *Demo) step() {
	d.tick++
	for _, s := range d.snakes {
		if !s.alive {
			continue
		}
		if !s.manual {
			d.steer(s)
		}
		d.move(s)
	}
	d.decay()

	alive := 0
	for _, s := range d.snakes {
		if s.alive {
			alive++
		}
	}
	if !d.snakes[0].alive || alive == 0 || (d.cfg.MaxTicks > 0 && d.tick >= d.cfg.MaxTicks) {
		d.over = true
	}
}

func (d *Demo) move(s *snake) {
	next, ok := d.ahead(s.head, s.dir)
	if !ok || d.cells[next.y][next.x] > 0 {
		s.alive = false
		return
	}
	ate := d.cells[next.y][next.x] == Apple
	if ate {
		s.size++
	}
	// One above the size so the head holds the size after this tick's decay.
	d.cells[next.y][next.x] = s.size + 1
	s.head = next
	if ate {
		d.spawnApple()
	}
}

func (d *Demo) decay() {
	for _, row := range d.cells {
		for x, v := range row {
			if v > 0 {
				row[x] = v - 1
			}
		}
	}
}

// steer picks the autopilot's direction for this tick.
func (d *Demo) steer(s *snake) {
	var safe []int
	for dir := protocol.MoveLeft; dir <= protocol.MoveDown; dir++ {
		if opposite(dir, s.dir) {
			continue
		}
		if next, ok := d.ahead(s.head, dir); ok && d.cells[next.y][next.x] <= 0 {
			safe = append(safe, dir)
		}
	}
	if len(safe) == 0 {
		return
	}
	if d.rng.Float64() < d.cfg.Wander {
		s.dir = safe[d.rng.Intn(len(safe))]
		return
	}
	target, ok := d.nearestApple(s.head)
	if !ok {
		if !slices.Contains(safe, s.dir) {
			s.dir = safe[0]
		}
		return
	}
	best, bestDist := safe[0], -1
	for _, dir := range safe {
		next, _ := d.ahead(s.head, dir)
		dist := manhattan(next, target)
		if bestDist == -1 || dist < bestDist {
			best, bestDist = dir, dist
		}
	}
	s.dir = best
}

func (d *Demo) nearestApple(from cell) (cell, bool) {
	best, bestDist := cell{}, -1
	for y, row := range d.cells {
		for x, v := range row {
			if v != Apple {
				continue
			}
			c := cell{x, y}
			if dist := manhattan(from, c); bestDist == -1 || dist < bestDist {
				best, bestDist = c, dist
			}
		}
	}
	return best, bestDist != -1
}

// place puts a straight snake on free cells, body trailing behind the
// head. Cells run from size at the head down to 1 at the tail.
func (d *Demo) place(s *snake) bool {
	for range 200 {
		head := cell{d.rng.Intn(d.cfg.Width), d.rng.Intn(d.cfg.Height)}
		dir := d.rng.Intn(4)
		back := reverse(dir)

		body := []cell{head}
		ok := d.cells[head.y][head.x] == 0
		for i := 1; ok && i < s.size; i++ {
			next, in := d.ahead(body[len(body)-1], back)
			ok = in && d.cells[next.y][next.x] == 0
			body = append(body, next)
		}
		// The snake must have a free cell to move into.
		if ok {
			front, in := d.ahead(head, dir)
			ok = in && d.cells[front.y][front.x] == 0
		}
		if !ok {
			continue
		}
		for i, c := range body {
			d.cells[c.y][c.x] = s.size - i
		}
		s.head, s.dir = head, dir
		return true
	}
	return false
}

// spawnApple drops an apple on a random free cell, if there is one.
func (d *Demo) spawnApple() {
	var free []cell
	for y, row := range d.cells {
		for x, v := range row {
			if v == 0 {
				free = append(free, cell{x, y})
			}
		}
	}
	if len(free) == 0 {
		return
	}
	c := free[d.rng.Intn(len(free))]
	d.cells[c.y][c.x] = Apple
}

func (d *Demo) ahead(c cell, dir int) (cell, bool) {
	switch dir {
	case protocol.MoveLeft:
		c.x--
	case protocol.MoveRight:
		c.x++
	case protocol.MoveUp:
		c.y--
	case protocol.MoveDown:
		c.y++
	}
	return c, c.x >= 0 && c.y >= 0 && c.x < d.cfg.Width && c.y < d.cfg.Height
}

func (d *Demo) frame(status protocol.Status) protocol.EventResponse {
	players := make([]protocol.Player, len(d.snakes))
	for i, s := range d.snakes {
		players[i] = protocol.Player{
			ID:        s.id,
			X:         s.head.x,
			Y:         s.head.y,
			Size:      s.size,
			Direction: s.dir,
		}
	}
	return protocol.EventResponse{
		Status: status,
		Body: protocol.Body{
			Board:   protocol.Flatten(d.cells),
			Width:   d.cfg.Width,
			Height:  d.cfg.Height,
			Players: players,
		},
	}
}

func reverse(dir int) int {
	switch dir {
	case protocol.MoveLeft:
		return protocol.MoveRight
	case protocol.MoveRight:
		return protocol.MoveLeft
	case protocol.MoveUp:
		return protocol.MoveDown
	default:
		return protocol.MoveUp
	}
}

func opposite(a, b int) bool {
	return reverse(a) == b
}

func manhattan(a, b cell) int {
	dx, dy := a.x-b.x, a.y-b.y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}
