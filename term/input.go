package term

import (
	"context"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/plus3/blockfall/driver"
	"github.com/plus3/blockfall/game"
)

// Keymap binds tcell keys and runes to commands.
type Keymap struct {
	Keys  map[tcell.Key]game.Command
	Runes map[rune]game.Command
}

// DefaultKeymap uses the arrow keys, space for hard drop and c for hold.
func DefaultKeymap() Keymap {
	return Keymap{
		Keys: map[tcell.Key]game.Command{
			tcell.KeyLeft:  game.CommandMoveLeft,
			tcell.KeyRight: game.CommandMoveRight,
			tcell.KeyDown:  game.CommandSoftDrop,
			tcell.KeyUp:    game.CommandRotate,
		},
		Runes: map[rune]game.Command{
			'h': game.CommandMoveLeft,
			'l': game.CommandMoveRight,
			'j': game.CommandSoftDrop,
			'k': game.CommandRotate,
			'x': game.CommandRotate,
			' ': game.CommandHardDrop,
			'c': game.CommandHold,
		},
	}
}

// Keyboard collects key events from a screen between polls. It satisfies
// driver.Input.
type Keyboard struct {
	screen tcell.Screen
	keymap Keymap

	mu      sync.Mutex
	queued  map[game.Command]bool
	quit    bool
	pressed map[game.Command]bool
	anyKey  chan struct{}
	done    chan struct{}
}

// NewKeyboard starts pumping events from screen. Call Close to stop.
func NewKeyboard(screen tcell.Screen, keymap Keymap) *Keyboard {
	k := newKeyboard(screen, keymap)
	go k.pump()
	return k
}

func newKeyboard(screen tcell.Screen, keymap Keymap) *Keyboard {
	return &Keyboard{
		screen:  screen,
		keymap:  keymap,
		queued:  make(map[game.Command]bool),
		pressed: make(map[game.Command]bool),
		anyKey:  make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

func (k *Keyboard) pump() {
	defer close(k.done)
	for {
		ev := k.screen.PollEvent()
		if ev == nil {
			return
		}
		key, ok := ev.(*tcell.EventKey)
		if !ok {
			continue
		}
		k.handle(key)
	}
}

func (k *Keyboard) handle(ev *tcell.EventKey) {
	select {
	case k.anyKey <- struct{}{}:
	default:
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		k.quit = true
		return
	case tcell.KeyRune:
		if ev.Rune() == 'q' {
			k.quit = true
			return
		}
		if cmd, ok := k.keymap.Runes[ev.Rune()]; ok {
			k.queued[cmd] = true
		}
		return
	}
	if cmd, ok := k.keymap.Keys[ev.Key()]; ok {
		k.queued[cmd] = true
	}
}

// Poll moves the keys seen since the previous poll into the pressed set.
func (k *Keyboard) Poll() error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.quit {
		return driver.ErrQuit
	}
	k.pressed, k.queued = k.queued, k.pressed
	clear(k.queued)
	return nil
}

// Pressed reports whether cmd was pressed before the last poll.
func (k *Keyboard) Pressed(cmd game.Command) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.pressed[cmd]
}

// WaitKey discards keys already seen and blocks until the next key press
// or until ctx is done.
func (k *Keyboard) WaitKey(ctx context.Context) error {
	select {
	case <-k.anyKey:
	default:
	}
	select {
	case <-k.anyKey:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close waits for the event pump to exit. The screen must be finalized first.
func (k *Keyboard) Close() {
	<-k.done
}
