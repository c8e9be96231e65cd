package game

import "github.com/plus3/blockfall/geom"

// InputSystem applies the tick's command to the active piece.
type InputSystem struct{}

func (InputSystem) Execute(frame *Frame) {
	s := frame.Session
	if s.Over() {
		return
	}
	if s.apply(frame.Command, frame.Events) {
		frame.RequestLock()
	}
}

// GravitySystem moves the active piece down one row when gravity is due, or
// requests lock-in when it cannot move.
type GravitySystem struct{}

func (GravitySystem) Execute(frame *Frame) {
	s := frame.Session
	if s.Over() || !frame.GravityDue || frame.LockRequested() {
		return
	}
	if !s.tryMove(geom.Vec(0, 1)) {
		frame.RequestLock()
	}
}

// LockSystem writes the active piece into the grid.
type LockSystem struct{}

func (LockSystem) Execute(frame *Frame) {
	s := frame.Session
	if s.Over() || !frame.LockRequested() {
		return
	}
	s.lock(frame.Events)
	frame.Result.Locked = true
}

// LineClearSystem removes full rows after a lock and scores them.
type LineClearSystem struct{}

func (LineClearSystem) Execute(frame *Frame) {
	if !frame.Result.Locked {
		return
	}
	frame.Result.LinesCleared = frame.Session.clearLines(frame.Events)
}

// SpawnSystem promotes the next piece after a lock and ends the session if
// it does not fit.
type SpawnSystem struct{}

func (SpawnSystem) Execute(frame *Frame) {
	if !frame.Result.Locked {
		return
	}
	frame.Session.promote(frame.Events)
}
