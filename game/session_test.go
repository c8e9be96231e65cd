package game

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/blockfall/board"
	"github.com/plus3/blockfall/geom"
	"github.com/plus3/blockfall/piece"
)

func newTestSession(t *testing.T, kinds ...piece.Kind) *Session {
	t.Helper()
	s, err := NewSession(DefaultConfig(), WithGenerator(piece.NewSequence(kinds...)))
	require.NoError(t, err)
	return s
}

func run(s *Session, cmds ...Command) TickResult {
	var res TickResult
	for _, cmd := range cmds {
		res = s.Tick(cmd, false)
	}
	return res
}

func repeat(cmd Command, n int) []Command {
	out := make([]Command, n)
	for i := range out {
		out[i] = cmd
	}
	return out
}

func TestNewSession(t *testing.T) {
	s := newTestSession(t, piece.T, piece.I)

	assert.Equal(t, geom.Vec(5, 2), s.SpawnPoint())
	assert.Equal(t, piece.Instance{Pos: geom.Vec(5, 2), Shape: piece.Of(piece.T)}, s.Current())
	assert.Equal(t, piece.I, s.Next().Kind)
	_, held := s.Held()
	assert.False(t, held)
	assert.True(t, s.CanHold())
	assert.Equal(t, uint(0), s.Score())
	assert.Equal(t, PhaseFalling, s.Phase())
	assert.Equal(t, 0, s.grid.Occupied())

	w, h := s.Size()
	assert.Equal(t, 12, w)
	assert.Equal(t, 22, h)
}

func TestNewSessionRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width = 2
	_, err := NewSession(cfg)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestNewSessionUsesConfiguredGenerator(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Generator = GeneratorBag
	cfg.Seed = 42

	a, err := NewSession(cfg)
	require.NoError(t, err)
	b, err := NewSession(cfg)
	require.NoError(t, err)

	assert.Equal(t, a.Current(), b.Current())
	assert.Equal(t, a.Next(), b.Next())
	assert.NotEqual(t, a.Current().Shape.Kind, a.Next().Kind, "a bag never deals the same kind twice in a row within one bag")
}

func TestMove(t *testing.T) {
	s := newTestSession(t, piece.O)

	run(s, CommandMoveLeft)
	assert.Equal(t, geom.Vec(4, 2), s.Current().Pos)

	run(s, repeat(CommandMoveLeft, 10)...)
	assert.Equal(t, geom.Vec(1, 2), s.Current().Pos, "left wall stops the piece")

	run(s, repeat(CommandMoveRight, 20)...)
	assert.Equal(t, geom.Vec(9, 2), s.Current().Pos, "right wall stops the piece")

	run(s, CommandSoftDrop)
	assert.Equal(t, geom.Vec(9, 3), s.Current().Pos)
}

func TestMoveBlockedByCell(t *testing.T) {
	s := newTestSession(t, piece.O)
	s.grid.Set(2, 4, board.Filled(piece.ColorRed))

	res := run(s, CommandMoveLeft)
	assert.Equal(t, geom.Vec(5, 2), s.Current().Pos)
	assert.False(t, res.Locked, "a blocked sideways move is not a lock")
}

func TestRotate(t *testing.T) {
	s := newTestSession(t, piece.I)

	run(s, CommandRotate)
	assert.Equal(t, piece.Rotate(piece.Of(piece.I)), s.Current().Shape)

	run(s, repeat(CommandMoveRight, 10)...)
	assert.Equal(t, 10, s.Current().Pos.X)

	before := s.Current()
	run(s, CommandRotate)
	assert.Equal(t, before, s.Current(), "rotation into the wall is discarded without a kick")
}

func TestGravity(t *testing.T) {
	s := newTestSession(t, piece.O)

	s.Tick(CommandNone, false)
	assert.Equal(t, geom.Vec(5, 2), s.Current().Pos)

	s.Tick(CommandNone, true)
	assert.Equal(t, geom.Vec(5, 3), s.Current().Pos)

	s.Tick(CommandSoftDrop, true)
	assert.Equal(t, geom.Vec(5, 5), s.Current().Pos, "command and gravity both apply")
}

func TestGravityLocksWhenBlocked(t *testing.T) {
	s := newTestSession(t, piece.O)
	run(s, repeat(CommandSoftDrop, 17)...)
	require.Equal(t, geom.Vec(5, 19), s.Current().Pos)

	res := s.Tick(CommandNone, false)
	assert.False(t, res.Locked)

	res = s.Tick(CommandNone, true)
	assert.True(t, res.Locked)
	assert.Equal(t, 4, s.grid.Occupied())
	assert.Equal(t, s.SpawnPoint(), s.Current().Pos)
}

func TestSoftDropLocksWhenBlocked(t *testing.T) {
	s := newTestSession(t, piece.O)
	run(s, repeat(CommandSoftDrop, 17)...)

	res := s.Tick(CommandSoftDrop, false)
	assert.True(t, res.Locked)
	assert.Equal(t, 4, s.grid.Occupied())
}

func TestHardDropO(t *testing.T) {
	s := newTestSession(t, piece.O)

	res := s.Tick(CommandHardDrop, false)

	assert.True(t, res.Locked)
	assert.False(t, res.GameOver)
	assert.Equal(t, 0, res.LinesCleared)
	assert.Equal(t, uint(0), s.Score())
	assert.Equal(t, 4, s.grid.Occupied())
	for _, p := range []geom.Vector2{{X: 5, Y: 19}, {X: 6, Y: 19}, {X: 5, Y: 20}, {X: 6, Y: 20}} {
		assert.Equal(t, board.Filled(piece.ColorYellow), s.Cell(p.Y, p.X), "cell %v", p)
	}
	assert.Equal(t, piece.Instance{Pos: s.SpawnPoint(), Shape: piece.Of(piece.O)}, s.Current())
	assert.Equal(t, 1, s.Stats().HardDrops)
	assert.Equal(t, 1, s.Stats().Locked)
}

func TestHardDropCompletesRow(t *testing.T) {
	s := newTestSession(t, piece.I, piece.O)
	for col := 1; col <= 9; col++ {
		s.grid.Set(20, col, board.Filled(piece.ColorBlue))
	}
	s.grid.Set(19, 5, board.Filled(piece.ColorRed))

	run(s, CommandRotate)
	run(s, repeat(CommandMoveRight, 5)...)
	require.Equal(t, geom.Vec(10, 2), s.Current().Pos)

	res := s.Tick(CommandHardDrop, false)

	assert.True(t, res.Locked)
	assert.Equal(t, 1, res.LinesCleared)
	assert.Equal(t, uint(1), s.Score())
	assert.Equal(t, board.Filled(piece.ColorRed), s.Cell(20, 5), "row above shifts down")
	assert.False(t, s.Cell(19, 5).Occupied)
	for row := 18; row <= 20; row++ {
		assert.Equal(t, board.Filled(piece.ColorCyan), s.Cell(row, 10), "row %d", row)
	}
	assert.False(t, s.Cell(17, 10).Occupied)
	assert.Equal(t, 4, s.grid.Occupied())
}

func TestSequentialPlacementClearsRows(t *testing.T) {
	s := newTestSession(t, piece.O)

	placements := [][]Command{
		repeat(CommandMoveLeft, 4),
		repeat(CommandMoveLeft, 2),
		nil,
		repeat(CommandMoveRight, 2),
		repeat(CommandMoveRight, 4),
	}

	for i, moves := range placements {
		run(s, moves...)
		res := s.Tick(CommandHardDrop, false)
		require.True(t, res.Locked, "placement %d", i)
		if i < len(placements)-1 {
			assert.Equal(t, 0, res.LinesCleared, "placement %d", i)
		} else {
			assert.Equal(t, 2, res.LinesCleared)
		}
	}

	assert.Equal(t, uint(2), s.Score())
	assert.Equal(t, 0, s.grid.Occupied())
	assert.Equal(t, 1, s.Stats().Clears(2))
	assert.Equal(t, []int{2}, s.Stats().ClearSizes())
	assert.Equal(t, 2, s.Stats().Lines)
}

func TestRowMissingOneCellNeverClears(t *testing.T) {
	s := newTestSession(t, piece.O)
	for col := 1; col <= 10; col++ {
		if col != 5 && col != 6 && col != 7 {
			s.grid.Set(20, col, board.Filled(piece.ColorBlue))
		}
	}

	res := s.Tick(CommandHardDrop, false)
	assert.True(t, res.Locked)
	assert.Equal(t, 0, res.LinesCleared)
	assert.Equal(t, uint(0), s.Score())
}

func TestHold(t *testing.T) {
	s := newTestSession(t, piece.T, piece.I, piece.O, piece.S)

	run(s, CommandMoveLeft, CommandSoftDrop)
	run(s, CommandHold)

	held, ok := s.Held()
	require.True(t, ok)
	assert.Equal(t, piece.T, held.Kind)
	assert.Equal(t, piece.Instance{Pos: s.SpawnPoint(), Shape: piece.Of(piece.I)}, s.Current())
	assert.Equal(t, piece.O, s.Next().Kind)
	assert.False(t, s.CanHold())

	run(s, CommandHold)
	assert.Equal(t, piece.I, s.Current().Shape.Kind, "second hold before lock-in is a no-op")
	held, _ = s.Held()
	assert.Equal(t, piece.T, held.Kind)
	assert.Equal(t, 1, s.Stats().Holds)

	run(s, CommandHardDrop)
	assert.True(t, s.CanHold())
	assert.Equal(t, piece.O, s.Current().Shape.Kind)
	assert.Equal(t, piece.S, s.Next().Kind)

	run(s, CommandMoveRight, CommandHold)
	assert.Equal(t, piece.Instance{Pos: s.SpawnPoint(), Shape: piece.Of(piece.T)}, s.Current(), "swap brings the held piece back at spawn")
	held, _ = s.Held()
	assert.Equal(t, piece.O, held.Kind)
	assert.Equal(t, piece.S, s.Next().Kind, "a swap does not draw")
}

func TestHoldNudgesStuckPieceDown(t *testing.T) {
	s := newTestSession(t, piece.T, piece.I)
	s.grid.Set(2, 7, board.Filled(piece.ColorRed))
	require.False(t, s.grid.Collides(s.Current().Shape, s.Current().Pos))

	res := run(s, CommandHold)

	assert.False(t, res.GameOver)
	assert.Equal(t, piece.I, s.Current().Shape.Kind)
	assert.Equal(t, geom.Vec(5, 3), s.Current().Pos)
}

func TestHoldThatCannotBeFreedEndsSession(t *testing.T) {
	s := newTestSession(t, piece.T, piece.I)
	for row := 1; row <= 20; row++ {
		s.grid.Set(row, 7, board.Filled(piece.ColorRed))
	}

	res := run(s, CommandHold)

	assert.True(t, res.GameOver)
	assert.Equal(t, PhaseGameOver, s.Phase())
}

func TestGameOverOnBlockedSpawn(t *testing.T) {
	s := newTestSession(t, piece.T)
	for row := 3; row <= 20; row++ {
		for col := 1; col <= 9; col++ {
			s.grid.Set(row, col, board.Filled(piece.ColorBlue))
		}
	}

	res := s.Tick(CommandHardDrop, false)
	require.True(t, res.Locked)
	assert.True(t, res.GameOver)
	assert.Equal(t, PhaseGameOver, s.Phase())
	assert.Equal(t, 18*9+4, s.grid.Occupied())

	before := s.Snapshot()
	for _, cmd := range PollOrder {
		res = s.Tick(cmd, true)
		assert.True(t, res.GameOver)
		assert.False(t, res.Locked)
	}
	assert.Equal(t, before, s.Snapshot(), "no mutation after game over")
}

func TestGhost(t *testing.T) {
	s := newTestSession(t, piece.O)
	s.grid.Set(15, 6, board.Filled(piece.ColorRed))

	assert.Equal(t, geom.Vec(5, 13), s.Ghost())
	assert.Equal(t, geom.Vec(5, 2), s.Current().Pos, "projection does not move the piece")

	run(s, repeat(CommandMoveLeft, 4)...)
	assert.Equal(t, geom.Vec(1, 19), s.Ghost())
}

func TestListenerReceivesEventsAfterTick(t *testing.T) {
	var got []EventKind
	var scoreAtDelivery []uint
	var s *Session
	s, err := NewSession(DefaultConfig(),
		WithGenerator(piece.NewSequence(piece.O)),
		WithListener(ListenerFunc(func(ev Event) {
			got = append(got, ev.Kind)
			scoreAtDelivery = append(scoreAtDelivery, s.Score())
		})),
	)
	require.NoError(t, err)

	s.Tick(CommandHold, false)
	s.Tick(CommandHardDrop, false)

	assert.Equal(t, []EventKind{EventHeld, EventHardDrop, EventLocked, EventSpawned}, got)
	assert.Len(t, scoreAtDelivery, 4)
}

func TestSnapshot(t *testing.T) {
	s := newTestSession(t, piece.O, piece.T)
	run(s, CommandHold)
	run(s, CommandHardDrop)

	snap := s.Snapshot()
	assert.Equal(t, uint64(2), snap.Tick)
	assert.Equal(t, "falling", snap.Phase)
	require.Len(t, snap.Rows, 20)
	assert.Equal(t, "..........", snap.Rows[0])
	assert.Equal(t, "...666....", snap.Rows[19])
	assert.Equal(t, "....6.....", snap.Rows[18])
	assert.Equal(t, "O", snap.Current.Kind)
	assert.Equal(t, "T", snap.Next.Kind)
	require.NotNil(t, snap.Held)
	assert.Equal(t, "O", snap.Held.Kind)
	assert.Equal(t, "yellow", snap.Held.Color)
	assert.Len(t, snap.Ghost.Cells, 4)
	assert.Equal(t, 18, snap.Ghost.Cells[3].Y, "ghost rests on the locked T")
}

func TestOccupancyInvariant(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 2024
	s, err := NewSession(cfg)
	require.NoError(t, err)

	rng := rand.New(rand.NewPCG(3, 4))
	commands := append([]Command{CommandNone}, PollOrder[:]...)
	width := s.Bounds().Width()

	for i := 0; i < 5000 && !s.Over(); i++ {
		s.Tick(commands[rng.IntN(len(commands))], rng.IntN(4) == 0)

		st := s.Stats()
		require.Equal(t, 4*st.Locked-width*st.Lines, s.grid.Occupied(), "tick %d", i)
		require.Equal(t, uint(st.Lines), s.Score())
		if !s.Over() {
			require.False(t, s.grid.Collides(s.Current().Shape, s.Current().Pos), "tick %d", i)
		}
	}
}
