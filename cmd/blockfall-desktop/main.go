// Command blockfall-desktop plays a falling-block game in a window.
package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"

	"github.com/plus3/blockfall/audio"
	"github.com/plus3/blockfall/desktop"
	"github.com/plus3/blockfall/driver"
	"github.com/plus3/blockfall/game"
	"github.com/plus3/blockfall/scores"
)

func main() {
	cfg := game.DefaultConfig()
	flag.IntVar(&cfg.Width, "width", cfg.Width, "Interior playfield width.")
	flag.IntVar(&cfg.Height, "height", cfg.Height, "Interior playfield height.")
	flag.StringVar(&cfg.Generator, "generator", game.GeneratorBag, "Piece generator: uniform or bag.")
	flag.Uint64Var(&cfg.Seed, "seed", 0, "Piece seed; 0 picks one at random.")
	gravity := flag.Duration("gravity", driver.DefaultGravityInterval, "Interval between gravity steps.")
	scale := flag.Float64("scale", 1, "Window scale factor.")
	db := flag.String("db", defaultDBPath(), "High-score database path; empty disables scores.")
	sound := flag.Bool("sound", true, "Play sound cues.")
	volume := flag.Float64("volume", -1, "Sound volume as a power of two; 0 is unchanged.")
	logLevel := flag.String("log-level", "info", "Log level.")
	debug := flag.Bool("debug", false, "Show session and per-system stats; F3 toggles the overlay.")
	flag.Parse()

	logger, err := driver.NewLogger(*logLevel)
	if err != nil {
		logrus.WithError(err).Fatal("invalid log level")
	}
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}

	var store *scores.Store
	if *db != "" {
		store, err = scores.Open(*db)
		if err != nil {
			logger.WithError(err).Fatal("failed to open score database")
		}
		defer store.Close()
	}

	listeners := []game.Option{game.WithListener(driver.LogListener(logger))}
	if *sound {
		player := audio.NewPlayer(*volume)
		if err := player.Initialize(); err != nil {
			logger.WithError(err).Warn("sound disabled")
		} else {
			defer player.Close()
			listeners = append(listeners, game.WithListener(player))
		}
	}

	var overlay *desktop.DebugOverlay
	if *debug {
		w := int(float64((cfg.Width+2)*desktop.CellSize+desktop.PanelWidth) * *scale)
		h := int(float64((cfg.Height+2)*desktop.CellSize) * *scale)
		overlay = desktop.NewDebugOverlay("blockfall (debug)", w, h)
	}

	g, err := desktop.NewGame(desktop.Options{
		NewSession: func() (*game.Session, error) {
			return game.NewSession(cfg, listeners...)
		},
		Gate:   driver.NewGate(*gravity, nil),
		Debug:  overlay,
		Logger: logger,
		OnGameOver: func(s *game.Session) {
			if store == nil {
				return
			}
			if err := store.Record(context.Background(), scores.EntryFor(s, time.Now())); err != nil {
				logger.WithError(err).Error("failed to record score")
			}
		},
	})
	if err != nil {
		logger.WithError(err).Fatal("failed to start game")
	}

	w, h := g.WindowSize()
	ebiten.SetWindowSize(int(float64(w)**scale), int(float64(h)**scale))
	ebiten.SetWindowTitle("blockfall")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(g); err != nil {
		logger.WithError(err).Fatal("game exited with error")
	}
}

func defaultDBPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "blockfall", "scores.db")
}
