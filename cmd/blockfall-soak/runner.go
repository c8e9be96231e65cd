package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/plus3/blockfall/game"
)

// Runner plays sessions back to back, feeding random commands.
type Runner struct {
	Config       game.Config
	MaxTicks     int
	GravityEvery int
	Input        *rand.Rand
	Logger       logrus.FieldLogger
}

// commands are weighted toward moves so pieces spread across the field.
var commands = [...]game.Command{
	game.CommandNone, game.CommandNone, game.CommandNone,
	game.CommandMoveLeft, game.CommandMoveLeft,
	game.CommandMoveRight, game.CommandMoveRight,
	game.CommandSoftDrop,
	game.CommandRotate, game.CommandRotate,
	game.CommandHardDrop,
	game.CommandHold,
}

// Run plays up to n sessions, stopping early when ctx is done.
func (r *Runner) Run(ctx context.Context, n int, report *Report) error {
	for i := range n {
		if ctx.Err() != nil {
			r.Logger.WithField("played", i).Warn("soak run deadline reached")
			return nil
		}

		cfg := r.Config
		cfg.Seed = r.Config.Seed + uint64(i)
		s, err := game.NewSession(cfg)
		if err != nil {
			return fmt.Errorf("session %d: %w", i, err)
		}

		result := r.play(s, report)
		report.Add(result, s.Scheduler().GetStats())
		r.Logger.WithFields(logrus.Fields{
			"session": i,
			"score":   result.Score,
			"ticks":   result.Ticks,
			"over":    result.Over,
		}).Debug("session finished")
	}
	return nil
}

func (r *Runner) play(s *game.Session, report *Report) SessionResult {
	every := max(r.GravityEvery, 1)
	for tick := 1; tick <= r.MaxTicks; tick++ {
		cmd := commands[r.Input.IntN(len(commands))]

		start := time.Now()
		res := s.Tick(cmd, tick%every == 0)
		report.TickTime.Samples = append(report.TickTime.Samples, time.Since(start))

		if res.Locked && !occupancyHolds(s) {
			report.Violations++
			r.Logger.WithField("tick", s.Ticks()).Error("occupancy invariant violated")
		}
		if res.GameOver {
			break
		}
	}

	stats := s.Stats()
	return SessionResult{
		Score:  s.Score(),
		Lines:  stats.Lines,
		Locked: stats.Locked,
		Ticks:  s.Ticks(),
		Over:   s.Over(),
	}
}

// occupancyHolds checks that every locked piece left exactly four cells
// behind, minus the rows cleared since.
func occupancyHolds(s *game.Session) bool {
	b := s.Bounds()
	occupied := 0
	for row := b.Top; row < b.Bottom; row++ {
		for col := b.Left; col <= b.Right; col++ {
			if s.Cell(row, col).Occupied {
				occupied++
			}
		}
	}
	stats := s.Stats()
	return occupied == 4*stats.Locked-b.Width()*stats.Lines
}
