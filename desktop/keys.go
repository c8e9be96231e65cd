package desktop

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/plus3/blockfall/driver"
	"github.com/plus3/blockfall/game"
)

// Held movement keys repeat after repeatDelay ticks, then every
// repeatInterval ticks.
const (
	repeatDelay    = 12
	repeatInterval = 3
)

// Keymap binds keys to commands.
type Keymap map[ebiten.Key]game.Command

// DefaultKeymap mirrors the terminal bindings.
func DefaultKeymap() Keymap {
	return Keymap{
		ebiten.KeyArrowLeft:  game.CommandMoveLeft,
		ebiten.KeyH:          game.CommandMoveLeft,
		ebiten.KeyArrowRight: game.CommandMoveRight,
		ebiten.KeyL:          game.CommandMoveRight,
		ebiten.KeyArrowDown:  game.CommandSoftDrop,
		ebiten.KeyJ:          game.CommandSoftDrop,
		ebiten.KeyArrowUp:    game.CommandRotate,
		ebiten.KeyK:          game.CommandRotate,
		ebiten.KeyX:          game.CommandRotate,
		ebiten.KeySpace:      game.CommandHardDrop,
		ebiten.KeyC:          game.CommandHold,
	}
}

func repeats(cmd game.Command) bool {
	switch cmd {
	case game.CommandMoveLeft, game.CommandMoveRight, game.CommandSoftDrop:
		return true
	}
	return false
}

// Keys is a driver.Input over ebiten's keyboard state. It is only valid
// inside ebiten's Update.
type Keys struct {
	keymap  Keymap
	pressed map[game.Command]bool
}

// NewKeys returns an input bound to keymap.
func NewKeys(keymap Keymap) *Keys {
	return &Keys{keymap: keymap, pressed: make(map[game.Command]bool)}
}

// Poll implements driver.Input.
func (k *Keys) Poll() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return driver.ErrQuit
	}
	clear(k.pressed)
	for key, cmd := range k.keymap {
		d := inpututil.KeyPressDuration(key)
		if d == 1 || (repeats(cmd) && d >= repeatDelay && (d-repeatDelay)%repeatInterval == 0) {
			k.pressed[cmd] = true
		}
	}
	return nil
}

// Pressed implements driver.Input.
func (k *Keys) Pressed(cmd game.Command) bool {
	return k.pressed[cmd]
}
