package game

// Phase is the lifecycle state of the active piece.
type Phase uint8

const (
	PhaseFalling Phase = iota
	PhaseLocking
	PhaseSpawning
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseFalling:
		return "falling"
	case PhaseLocking:
		return "locking"
	case PhaseSpawning:
		return "spawning"
	case PhaseGameOver:
		return "game over"
	}
	return "unknown"
}
