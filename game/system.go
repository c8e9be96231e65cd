package game

// System is one step of a tick. Systems run in registration order and share
// the tick's Frame; later systems see what earlier ones decided.
type System interface {
	Execute(frame *Frame)
}
