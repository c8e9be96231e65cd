package game

// Frame carries the inputs and decisions of a single tick.
type Frame struct {
	Session    *Session
	Command    Command
	GravityDue bool
	Events     *Events
	Result     TickResult

	lock bool
}

// TickResult summarizes what happened during a tick.
type TickResult struct {
	GameOver     bool
	Locked       bool
	LinesCleared int
}

// RequestLock marks the active piece for lock-in this tick.
func (f *Frame) RequestLock() {
	f.lock = true
}

// LockRequested reports whether a system asked for lock-in this tick.
func (f *Frame) LockRequested() bool {
	return f.lock
}

func newFrame(s *Session, events *Events, cmd Command, gravityDue bool) *Frame {
	return &Frame{
		Session:    s,
		Command:    cmd,
		GravityDue: gravityDue,
		Events:     events,
	}
}
