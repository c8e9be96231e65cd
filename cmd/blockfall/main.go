// Command blockfall plays a falling-block game in the terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	"github.com/plus3/blockfall/audio"
	"github.com/plus3/blockfall/driver"
	"github.com/plus3/blockfall/game"
	"github.com/plus3/blockfall/scores"
	"github.com/plus3/blockfall/spectate"
	"github.com/plus3/blockfall/term"
)

type options struct {
	cfg       game.Config
	gravity   time.Duration
	fps       int
	ghost     bool
	db        string
	spectate  string
	sound     bool
	volume    float64
	logLevel  string
	logFile   string
	finalWait time.Duration
}

func parseFlags() options {
	var o options
	o.cfg = game.DefaultConfig()
	flag.IntVar(&o.cfg.Width, "width", o.cfg.Width, "Interior playfield width.")
	flag.IntVar(&o.cfg.Height, "height", o.cfg.Height, "Interior playfield height.")
	flag.StringVar(&o.cfg.Generator, "generator", game.GeneratorUniform, "Piece generator: uniform or bag.")
	flag.Uint64Var(&o.cfg.Seed, "seed", 0, "Piece seed; 0 picks one at random.")
	flag.DurationVar(&o.gravity, "gravity", driver.DefaultGravityInterval, "Interval between gravity steps.")
	flag.IntVar(&o.fps, "fps", 60, "Ticks per second.")
	flag.BoolVar(&o.ghost, "ghost", true, "Show where the active piece would land.")
	flag.StringVar(&o.db, "db", defaultDBPath(), "High-score database path; empty disables scores.")
	flag.StringVar(&o.spectate, "spectate", "", "Address to serve the spectator feed on, e.g. :8080.")
	flag.BoolVar(&o.sound, "sound", false, "Play sound cues.")
	flag.Float64Var(&o.volume, "volume", -1, "Sound volume as a power of two; 0 is unchanged.")
	flag.StringVar(&o.logLevel, "log-level", "info", "Log level.")
	flag.StringVar(&o.logFile, "log-file", filepath.Join(os.TempDir(), "blockfall.log"), "Log file; the terminal is owned by the game.")
	flag.DurationVar(&o.finalWait, "final-wait", 30*time.Second, "How long the final score stays up.")
	flag.Parse()
	return o
}

func defaultDBPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "blockfall", "scores.db")
}

func main() {
	o := parseFlags()
	if err := run(o); err != nil {
		fmt.Fprintf(os.Stderr, "blockfall: %v\n", err)
		os.Exit(1)
	}
}

func run(o options) error {
	if err := o.cfg.Validate(); err != nil {
		return err
	}
	if o.fps <= 0 {
		return fmt.Errorf("fps must be positive, got %d", o.fps)
	}

	logger, err := driver.NewLogger(o.logLevel)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	logFile, err := os.OpenFile(o.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	logger.SetOutput(logFile)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store *scores.Store
	if o.db != "" {
		store, err = scores.Open(o.db)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	sessionOpts := []game.Option{game.WithListener(driver.LogListener(logger))}
	if o.sound {
		player := audio.NewPlayer(o.volume)
		if err := player.Initialize(); err != nil {
			logger.WithError(err).Warn("sound disabled")
		} else {
			defer player.Close()
			sessionOpts = append(sessionOpts, game.WithListener(player))
		}
	}

	session, err := game.NewSession(o.cfg, sessionOpts...)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("terminal init: %w", err)
	}
	keyboard := term.NewKeyboard(screen, term.DefaultKeymap())
	defer func() {
		screen.Fini()
		keyboard.Close()
	}()
	screen.HideCursor()
	renderer := term.NewRenderer(screen, o.ghost)

	renderers := []driver.Renderer{renderer}
	if o.spectate != "" {
		publisher, shutdown := serveSpectators(ctx, o.spectate, logger)
		defer shutdown()
		renderers = append(renderers, publisher)
	}

	loop := &driver.Loop{
		Session:       session,
		Input:         keyboard,
		Renderers:     renderers,
		Gate:          driver.NewGate(o.gravity, nil),
		FrameInterval: time.Second / time.Duration(o.fps),
		Logger:        logger,
	}
	outcome, err := loop.Run(ctx)
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"reason": outcome.Reason,
		"score":  outcome.Score,
		"ticks":  outcome.Ticks,
	}).Info("session ended")

	if outcome.Reason != driver.ReasonGameOver {
		return nil
	}

	best := outcome.Score
	if store != nil {
		if err := store.Record(ctx, scores.EntryFor(session, time.Now())); err != nil {
			logger.WithError(err).Error("failed to record score")
		}
		if b, err := store.Best(ctx); err == nil {
			best = max(best, b)
		}
	}

	renderer.RenderFinal(outcome.Score, best)
	waitCtx, cancel := context.WithTimeout(ctx, o.finalWait)
	defer cancel()
	if err := keyboard.WaitKey(waitCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// serveSpectators starts the spectator hub and its HTTP server. The returned
// function shuts the server down.
func serveSpectators(ctx context.Context, addr string, logger logrus.FieldLogger) (*spectate.Publisher, func()) {
	hub := spectate.NewHub(logger)
	hubCtx, cancelHub := context.WithCancel(ctx)
	go hub.Run(hubCtx)

	srv := &http.Server{Addr: addr, Handler: hub.Router()}
	go func() {
		logger.WithField("addr", addr).Info("serving spectators")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("spectator server failed")
		}
	}()

	return spectate.NewPublisher(hub), func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
		cancelHub()
	}
}
