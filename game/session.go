// Package game runs a falling-block session: it owns the playfield and the
// active, next, and held pieces, and advances them one tick at a time.
package game

import (
	"fmt"
	"math/rand/v2"

	"github.com/plus3/blockfall/board"
	"github.com/plus3/blockfall/geom"
	"github.com/plus3/blockfall/piece"
)

// Session is a single game. It is not safe for concurrent use.
type Session struct {
	cfg   Config
	grid  *board.Grid
	gen   piece.Generator
	spawn geom.Vector2

	current      piece.Instance
	next         piece.Shape
	held         piece.Shape
	hasHeld      bool
	heldThisTurn bool

	score uint
	phase Phase
	tick  uint64
	stats *Stats

	scheduler *Scheduler
	listeners []Listener
}

// Option customizes a session at construction.
type Option func(*Session)

// WithGenerator overrides the generator selected by Config.
func WithGenerator(gen piece.Generator) Option {
	return func(s *Session) {
		s.gen = gen
	}
}

// WithListener subscribes l to tick events.
func WithListener(l Listener) Option {
	return func(s *Session) {
		s.listeners = append(s.listeners, l)
	}
}

// NewSession validates cfg and starts a session with an empty playfield and
// the first two pieces drawn.
func NewSession(cfg Config, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Session{
		cfg:   cfg,
		grid:  board.NewGrid(cfg.Width, cfg.Height),
		spawn: geom.Vec(1+(cfg.Width-1)/2, 2),
		stats: newStats(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.gen == nil {
		s.gen = newGenerator(cfg)
	}

	s.current = piece.Instance{Pos: s.spawn, Shape: s.draw()}
	s.next = s.draw()

	s.scheduler = NewScheduler(s)
	s.scheduler.Register(&InputSystem{})
	s.scheduler.Register(&GravitySystem{})
	s.scheduler.Register(&LockSystem{})
	s.scheduler.Register(&LineClearSystem{})
	s.scheduler.Register(&SpawnSystem{})

	return s, nil
}

func newGenerator(cfg Config) piece.Generator {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	src := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	if cfg.Generator == GeneratorBag {
		return &piece.Bag{Source: src}
	}
	return &piece.Uniform{Source: src}
}

// Tick advances the session by one tick: cmd is applied first, then gravity
// if due, then lock-in, line clearing and spawning as needed. Once the
// session is over, Tick does nothing and keeps reporting game over.
func (s *Session) Tick(cmd Command, gravityDue bool) TickResult {
	if s.phase == PhaseGameOver {
		return TickResult{GameOver: true}
	}
	s.tick++
	frame := s.scheduler.Once(cmd, gravityDue, s.listeners)
	frame.Result.GameOver = s.phase == PhaseGameOver
	return frame.Result
}

// Scheduler exposes the tick pipeline, mainly for its execution stats.
func (s *Session) Scheduler() *Scheduler {
	return s.scheduler
}

// Cell returns the playfield cell at (row, col).
func (s *Session) Cell(row, col int) board.Cell {
	return s.grid.Get(row, col)
}

// Bounds returns the playable interior of the grid.
func (s *Session) Bounds() board.Bounds {
	return s.grid.Bounds()
}

// Size returns the stored grid size including the border.
func (s *Session) Size() (width, height int) {
	return s.grid.Width(), s.grid.Height()
}

// Current returns the active piece.
func (s *Session) Current() piece.Instance { return s.current }

// Next returns the queued piece.
func (s *Session) Next() piece.Shape { return s.next }

// Held returns the held piece, if any.
func (s *Session) Held() (piece.Shape, bool) { return s.held, s.hasHeld }

// CanHold reports whether hold is still available before the next lock-in.
func (s *Session) CanHold() bool { return !s.heldThisTurn }

// Score is the number of rows cleared so far.
func (s *Session) Score() uint { return s.score }

// Phase returns the current lifecycle phase.
func (s *Session) Phase() Phase { return s.phase }

// Over reports whether the session has ended.
func (s *Session) Over() bool { return s.phase == PhaseGameOver }

// Ticks returns how many ticks have been applied.
func (s *Session) Ticks() uint64 { return s.tick }

// Stats returns the session counters. Callers must not modify them.
func (s *Session) Stats() *Stats { return s.stats }

// SpawnPoint is where new pieces enter the playfield.
func (s *Session) SpawnPoint() geom.Vector2 { return s.spawn }

// Ghost returns the position the active piece would settle at if dropped.
func (s *Session) Ghost() geom.Vector2 {
	pos := s.current.Pos
	if s.grid.Collides(s.current.Shape, pos) {
		return pos
	}
	for !s.grid.Collides(s.current.Shape, pos.Down()) {
		pos = pos.Down()
	}
	return pos
}

func (s *Session) draw() piece.Shape {
	shape := s.gen.Next()
	s.stats.recordSpawn(shape.Kind)
	return shape
}

func (s *Session) event(kind EventKind) Event {
	return Event{
		Kind:  kind,
		Tick:  s.tick,
		Piece: s.current.Shape.Kind,
		Score: s.score,
	}
}

// apply executes one command against the active piece. It reports whether
// the command requires the piece to lock this tick.
func (s *Session) apply(cmd Command, events *Events) bool {
	switch cmd {
	case CommandNone:
	case CommandMoveLeft:
		s.tryMove(geom.Vec(-1, 0))
	case CommandMoveRight:
		s.tryMove(geom.Vec(1, 0))
	case CommandSoftDrop:
		return !s.tryMove(geom.Vec(0, 1))
	case CommandRotate:
		s.tryRotate()
	case CommandHardDrop:
		s.hardDrop()
		s.stats.HardDrops++
		events.Emit(s.event(EventHardDrop))
		return true
	case CommandHold:
		s.hold(events)
	default:
		panic(fmt.Sprintf("game: unknown command %d", cmd))
	}
	return false
}

func (s *Session) tryMove(delta geom.Vector2) bool {
	moved := s.current.Moved(delta)
	if s.grid.Collides(moved.Shape, moved.Pos) {
		return false
	}
	s.current = moved
	return true
}

func (s *Session) tryRotate() bool {
	rotated := s.current.Rotated()
	if s.grid.Collides(rotated.Shape, rotated.Pos) {
		return false
	}
	s.current = rotated
	return true
}

func (s *Session) hardDrop() {
	for s.tryMove(geom.Vec(0, 1)) {
	}
}

func (s *Session) hold(events *Events) {
	if s.heldThisTurn {
		return
	}

	outgoing := s.current.Shape
	if s.hasHeld {
		s.current = piece.Instance{Pos: s.spawn, Shape: s.held}
	} else {
		s.current = piece.Instance{Pos: s.spawn, Shape: s.next}
		s.next = s.draw()
	}
	s.held, s.hasHeld = outgoing, true
	s.heldThisTurn = true
	s.stats.Holds++
	events.Emit(s.event(EventHeld))

	bottom := s.grid.Bounds().Bottom
	for s.grid.Collides(s.current.Shape, s.current.Pos) {
		if s.current.Pos.Y >= bottom {
			s.current.Pos = s.spawn
			s.phase = PhaseGameOver
			events.Emit(s.event(EventGameOver))
			return
		}
		s.current.Pos = s.current.Pos.Down()
	}
}

func (s *Session) lock(events *Events) {
	s.phase = PhaseLocking
	s.grid.Lock(s.current)
	s.heldThisTurn = false
	s.stats.Locked++
	events.Emit(s.event(EventLocked))
}

func (s *Session) clearLines(events *Events) int {
	n := s.grid.ClearFullLines()
	if n == 0 {
		return 0
	}
	s.score += uint(n)
	s.stats.recordClear(n)
	ev := s.event(EventLinesCleared)
	ev.Lines = n
	events.Emit(ev)
	return n
}

func (s *Session) promote(events *Events) {
	s.phase = PhaseSpawning
	s.current = piece.Instance{Pos: s.spawn, Shape: s.next}
	s.next = s.draw()

	if s.grid.Collides(s.current.Shape, s.current.Pos) {
		s.phase = PhaseGameOver
		events.Emit(s.event(EventGameOver))
		return
	}
	s.phase = PhaseFalling
	events.Emit(s.event(EventSpawned))
}
