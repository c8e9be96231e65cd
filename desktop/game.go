// Package desktop runs a session in an ebiten window.
package desktop

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/sirupsen/logrus"

	"github.com/plus3/blockfall/driver"
	"github.com/plus3/blockfall/game"
	"github.com/plus3/blockfall/geom"
	"github.com/plus3/blockfall/piece"
)

const (
	// CellSize is the edge of one grid cell in pixels.
	CellSize = 24
	// PanelWidth is the width of the score and preview panel.
	PanelWidth = 7 * CellSize
)

var palette = map[piece.Color]color.RGBA{
	piece.ColorCyan:   {0, 240, 240, 255},
	piece.ColorBlue:   {40, 80, 240, 255},
	piece.ColorOrange: {240, 160, 0, 255},
	piece.ColorYellow: {240, 240, 0, 255},
	piece.ColorGreen:  {0, 220, 60, 255},
	piece.ColorPurple: {160, 0, 240, 255},
	piece.ColorRed:    {240, 0, 0, 255},
}

var (
	background = color.RGBA{18, 18, 24, 255}
	wallColor  = color.RGBA{90, 90, 100, 255}
	emptyColor = color.RGBA{30, 30, 40, 255}
	ghostColor = color.RGBA{70, 70, 85, 255}
)

// Game adapts a driver.Loop to ebiten.Game. Each ebiten update is one tick.
type Game struct {
	loop       *driver.Loop
	newSession func() (*game.Session, error)
	onOver     func(*game.Session)
	debug      *DebugOverlay
	logger     logrus.FieldLogger
	over       bool
}

// Options configures NewGame.
type Options struct {
	// NewSession builds a fresh session, initially and on restart.
	NewSession func() (*game.Session, error)
	Gate       *driver.Gate
	Keymap     Keymap
	// Renderers run after every tick in addition to the window.
	Renderers []driver.Renderer
	// OnGameOver is called once per finished session.
	OnGameOver func(*game.Session)
	// Debug, if set, is drawn over the playfield; DebugToggleKey hides it.
	Debug  *DebugOverlay
	Logger logrus.FieldLogger
}

// NewGame builds the first session and returns a runnable game.
func NewGame(opts Options) (*Game, error) {
	if opts.NewSession == nil {
		return nil, errors.New("desktop: NewSession is required")
	}
	s, err := opts.NewSession()
	if err != nil {
		return nil, fmt.Errorf("desktop: new session: %w", err)
	}
	keymap := opts.Keymap
	if keymap == nil {
		keymap = DefaultKeymap()
	}
	gate := opts.Gate
	if gate == nil {
		gate = driver.NewGate(driver.DefaultGravityInterval, nil)
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Game{
		loop: &driver.Loop{
			Session:   s,
			Input:     NewKeys(keymap),
			Renderers: opts.Renderers,
			Gate:      gate,
			Logger:    logger,
		},
		newSession: opts.NewSession,
		onOver:     opts.OnGameOver,
		debug:      opts.Debug,
		logger:     logger,
	}, nil
}

// Session returns the session currently played.
func (g *Game) Session() *game.Session {
	return g.loop.Session
}

// WindowSize is the unscaled window size for the session's playfield.
func (g *Game) WindowSize() (int, int) {
	w, h := g.loop.Session.Size()
	return w*CellSize + PanelWidth, h * CellSize
}

func (g *Game) Update() error {
	if g.debug != nil {
		if inpututil.IsKeyJustPressed(DebugToggleKey) {
			g.debug.Toggle()
		}
		g.debug.beginFrame()
		defer func() { g.debug.endFrame(g.loop.Session) }()
	}

	if g.over {
		switch {
		case inpututil.IsKeyJustPressed(ebiten.KeyEscape), inpututil.IsKeyJustPressed(ebiten.KeyQ):
			return ebiten.Termination
		case inpututil.IsKeyJustPressed(ebiten.KeyR):
			return g.restart()
		}
		return nil
	}

	res, err := g.loop.Step()
	if errors.Is(err, driver.ErrQuit) {
		return ebiten.Termination
	}
	if err != nil {
		return err
	}
	if res.GameOver {
		g.over = true
		g.logger.WithField("score", g.loop.Session.Score()).Info("game over")
		if g.onOver != nil {
			g.onOver(g.loop.Session)
		}
	}
	return nil
}

func (g *Game) restart() error {
	s, err := g.newSession()
	if err != nil {
		return fmt.Errorf("desktop: restart: %w", err)
	}
	g.loop.Session = s
	g.loop.Gate.Reset()
	g.over = false
	g.logger.Info("session restarted")
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	s := g.loop.Session
	screen.Fill(background)

	w, h := s.Size()
	for row := range h {
		for col := range w {
			c := s.Cell(row, col)
			switch {
			case c.Occupied:
				drawCell(screen, col, row, palette[c.Color])
			case row == 0 || row == h-1 || col == 0 || col == w-1:
				drawCell(screen, col, row, wallColor)
			default:
				drawCell(screen, col, row, emptyColor)
			}
		}
	}

	if !s.Over() {
		cur := s.Current()
		ghost := piece.Instance{Pos: s.Ghost(), Shape: cur.Shape}
		for _, c := range ghost.Cells() {
			drawCell(screen, c.X, c.Y, ghostColor)
		}
		for _, c := range cur.Cells() {
			drawCell(screen, c.X, c.Y, palette[cur.Shape.Color])
		}
	}

	px := w*CellSize + CellSize/2
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("SCORE %d", s.Score()), px, CellSize/2)
	ebitenutil.DebugPrintAt(screen, "NEXT", px, 2*CellSize)
	drawPreview(screen, px, 3*CellSize, s.Next())
	ebitenutil.DebugPrintAt(screen, "HOLD", px, 7*CellSize)
	if held, ok := s.Held(); ok {
		drawPreview(screen, px, 8*CellSize, held)
	}
	if s.Over() {
		ebitenutil.DebugPrintAt(screen, "GAME OVER", px, 12*CellSize)
		ebitenutil.DebugPrintAt(screen, "R restart, Q quit", px, 13*CellSize)
	}

	if g.debug != nil {
		g.debug.draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := g.WindowSize()
	if g.debug != nil {
		g.debug.layout(w, h)
	}
	return w, h
}

func drawCell(screen *ebiten.Image, col, row int, c color.Color) {
	x := float32(col * CellSize)
	y := float32(row * CellSize)
	vector.DrawFilledRect(screen, x+1, y+1, CellSize-2, CellSize-2, c, false)
}

// drawPreview draws shape with its pivot one cell in from (x, y), in pixels.
func drawPreview(screen *ebiten.Image, x, y int, shape piece.Shape) {
	pivot := geom.Vec(1, 1)
	for _, off := range shape.Offsets {
		p := pivot.Add(off)
		vector.DrawFilledRect(screen,
			float32(x+p.X*CellSize)+1, float32(y+p.Y*CellSize)+1,
			CellSize-2, CellSize-2, palette[shape.Color], false)
	}
}
