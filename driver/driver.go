// Package driver runs a game session against external input, rendering and
// clock collaborators at a fixed frame rate.
package driver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/plus3/blockfall/game"
)

// ErrQuit is returned by Input.Poll when the player asks to leave.
var ErrQuit = errors.New("driver: quit requested")

// Input is polled once per frame, then queried per command.
type Input interface {
	Poll() error
	Pressed(cmd game.Command) bool
}

// Renderer draws the session after each tick. It must only read from it.
type Renderer interface {
	Render(s *game.Session) error
}

// SelectCommand returns the first pressed command in game.PollOrder, or
// game.CommandNone.
func SelectCommand(in Input) game.Command {
	for _, cmd := range game.PollOrder {
		if in.Pressed(cmd) {
			return cmd
		}
	}
	return game.CommandNone
}

// Reason tells why Run returned.
type Reason string

const (
	ReasonGameOver  Reason = "game over"
	ReasonQuit      Reason = "quit"
	ReasonCancelled Reason = "cancelled"

	// ReasonError means a collaborator failed; Run also returns the error.
	ReasonError Reason = "error"
)

// Outcome summarizes a finished run.
type Outcome struct {
	Reason Reason
	Score  uint
	Ticks  uint64
}

// Loop wires a session to its collaborators.
type Loop struct {
	Session       *game.Session
	Input         Input
	Renderers     []Renderer
	Gate          *Gate
	FrameInterval time.Duration
	Logger        logrus.FieldLogger
}

// DefaultFrameInterval paces the loop at 60 frames per second.
const DefaultFrameInterval = time.Second / 60

// Step runs a single frame: poll input, tick the session, render.
func (l *Loop) Step() (game.TickResult, error) {
	if err := l.Input.Poll(); err != nil {
		return game.TickResult{}, err
	}
	cmd := SelectCommand(l.Input)
	res := l.Session.Tick(cmd, l.Gate.Due())

	for _, r := range l.Renderers {
		if err := r.Render(l.Session); err != nil {
			return res, fmt.Errorf("render: %w", err)
		}
	}
	return res, nil
}

// Run steps the loop on a ticker until the session ends, the player quits
// or ctx is cancelled.
func (l *Loop) Run(ctx context.Context) (Outcome, error) {
	interval := l.FrameInterval
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	log := l.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	outcome := func(reason Reason) Outcome {
		return Outcome{Reason: reason, Score: l.Session.Score(), Ticks: l.Session.Ticks()}
	}

	log.WithField("frame_interval", interval).Debug("loop starting")
	for {
		select {
		case <-ctx.Done():
			return outcome(ReasonCancelled), nil
		case <-ticker.C:
			res, err := l.Step()
			if errors.Is(err, ErrQuit) {
				return outcome(ReasonQuit), nil
			}
			if err != nil {
				return outcome(ReasonError), err
			}
			if res.GameOver {
				log.WithField("score", l.Session.Score()).Info("game over")
				return outcome(ReasonGameOver), nil
			}
		}
	}
}
