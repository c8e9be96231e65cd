package game

// Command is one discrete player action applied during a tick.
type Command uint8

const (
	CommandNone Command = iota
	CommandMoveLeft
	CommandMoveRight
	CommandSoftDrop
	CommandRotate
	CommandHardDrop
	CommandHold
)

// PollOrder is the order in which input is checked each tick; the first
// pressed command wins.
var PollOrder = [...]Command{
	CommandMoveRight,
	CommandMoveLeft,
	CommandSoftDrop,
	CommandRotate,
	CommandHardDrop,
	CommandHold,
}

var commandNames = [...]string{"none", "left", "right", "down", "rotate", "drop", "hold"}

func (c Command) String() string {
	if int(c) < len(commandNames) {
		return commandNames[c]
	}
	return "unknown"
}

// ParseCommand maps a command name back to its value.
func ParseCommand(name string) (Command, bool) {
	for i, n := range commandNames {
		if n == name {
			return Command(i), true
		}
	}
	return CommandNone, false
}
