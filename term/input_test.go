package term

import (
	"context"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/blockfall/driver"
	"github.com/plus3/blockfall/game"
)

func TestKeyboardHandle(t *testing.T) {
	k := newKeyboard(nil, DefaultKeymap())

	k.handle(tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone))
	k.handle(tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone))
	k.handle(tcell.NewEventKey(tcell.KeyRune, 'z', tcell.ModNone))

	assert.False(t, k.Pressed(game.CommandMoveLeft), "keys count only after a poll")

	require.NoError(t, k.Poll())
	assert.True(t, k.Pressed(game.CommandMoveLeft))
	assert.True(t, k.Pressed(game.CommandHardDrop))
	assert.False(t, k.Pressed(game.CommandRotate))
	assert.Equal(t, game.CommandMoveLeft, driver.SelectCommand(k))

	require.NoError(t, k.Poll())
	assert.False(t, k.Pressed(game.CommandMoveLeft), "each press is seen by one poll")
	assert.Equal(t, game.CommandNone, driver.SelectCommand(k))
}

func TestKeyboardQuit(t *testing.T) {
	for _, ev := range []*tcell.EventKey{
		tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone),
		tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone),
	} {
		k := newKeyboard(nil, DefaultKeymap())
		k.handle(ev)
		assert.ErrorIs(t, k.Poll(), driver.ErrQuit)
	}
}

func TestKeyboardPump(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())

	k := NewKeyboard(screen, DefaultKeymap())
	screen.InjectKey(tcell.KeyUp, 0, tcell.ModNone)

	assert.Eventually(t, func() bool {
		return k.Poll() == nil && k.Pressed(game.CommandRotate)
	}, time.Second, 5*time.Millisecond)

	screen.Fini()
	k.Close()
}

func TestKeyboardWaitKey(t *testing.T) {
	k := newKeyboard(nil, DefaultKeymap())
	k.handle(tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone))

	// A key seen before the wait does not count.
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, k.WaitKey(ctx), context.DeadlineExceeded)

	go func() {
		time.Sleep(10 * time.Millisecond)
		k.handle(tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone))
	}()
	assert.NoError(t, k.WaitKey(context.Background()))
}
