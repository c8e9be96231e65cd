package game

import "github.com/plus3/blockfall/piece"

// EventKind classifies tick events.
type EventKind uint8

const (
	EventSpawned EventKind = iota
	EventHeld
	EventHardDrop
	EventLocked
	EventLinesCleared
	EventGameOver
)

func (k EventKind) String() string {
	switch k {
	case EventSpawned:
		return "spawned"
	case EventHeld:
		return "held"
	case EventHardDrop:
		return "hard_drop"
	case EventLocked:
		return "locked"
	case EventLinesCleared:
		return "lines_cleared"
	case EventGameOver:
		return "game_over"
	}
	return "unknown"
}

// Event is emitted by systems during a tick and delivered to listeners once
// the tick has finished.
type Event struct {
	Kind  EventKind
	Tick  uint64
	Piece piece.Kind
	Lines int
	Score uint
}

// Listener receives tick events.
type Listener interface {
	OnEvent(ev Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(ev Event)

func (f ListenerFunc) OnEvent(ev Event) { f(ev) }

// Events buffers events and deferred calls until the end of a tick so that
// listeners never observe a half-applied tick.
type Events struct {
	pending []Event
	defers  []func()
}

// Emit queues an event.
func (e *Events) Emit(ev Event) {
	e.pending = append(e.pending, ev)
}

// Defer queues fn to run after the queued events are delivered.
func (e *Events) Defer(fn func()) {
	e.defers = append(e.defers, fn)
}

// Len returns the number of queued events.
func (e *Events) Len() int {
	return len(e.pending)
}

// Flush delivers queued events to every listener in order, runs deferred
// calls, and resets the buffer.
func (e *Events) Flush(listeners []Listener) {
	for _, ev := range e.pending {
		for _, l := range listeners {
			l.OnEvent(ev)
		}
	}
	for _, fn := range e.defers {
		fn()
	}

	e.pending = e.pending[:0]
	e.defers = e.defers[:0]
}
