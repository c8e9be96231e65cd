// Command blockfall-soak plays many headless sessions with random input and
// reports timings, outcomes and invariant checks.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/plus3/blockfall/driver"
	"github.com/plus3/blockfall/game"
)

func main() {
	sessions := flag.Int("sessions", 200, "Number of sessions to play.")
	maxTicks := flag.Int("max-ticks", 20000, "Tick limit per session.")
	gravityEvery := flag.Int("gravity-every", 15, "Gravity is due every N ticks.")
	duration := flag.Duration("duration", time.Minute, "Upper bound on the whole run.")
	width := flag.Int("width", 10, "Interior playfield width.")
	height := flag.Int("height", 20, "Interior playfield height.")
	generator := flag.String("generator", game.GeneratorUniform, "Piece generator: uniform or bag.")
	seed := flag.Uint64("seed", 1, "Seed for pieces and input; 0 picks one at random.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	logLevel := flag.String("log-level", "info", "Log level.")
	flag.Parse()

	logger, err := driver.NewLogger(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid log level: %v\n", err)
		os.Exit(2)
	}

	if *seed == 0 {
		*seed = rand.Uint64()
	}
	cfg := game.Config{Width: *width, Height: *height, Generator: *generator, Seed: *seed}
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}

	report := &Report{
		Config:         cfg,
		Sessions:       *sessions,
		MaxTicks:       *maxTicks,
		GravityEvery:   *gravityEvery,
		GCPauseMetrics: *gcPauseMetrics,
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	logger.WithFields(logrus.Fields{
		"sessions": *sessions,
		"seed":     *seed,
		"size":     fmt.Sprintf("%dx%d", *width, *height),
	}).Info("starting soak run")

	start := time.Now()
	runner := &Runner{
		Config:       cfg,
		MaxTicks:     *maxTicks,
		GravityEvery: *gravityEvery,
		Input:        rand.New(rand.NewPCG(*seed, *seed+1)),
		Logger:       logger,
	}
	if err := runner.Run(ctx, *sessions, report); err != nil {
		logger.WithError(err).Fatal("soak run failed")
	}
	report.TotalTime = time.Since(start)
	report.TickTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)

	logger.WithField("played", report.Played).Info("soak run finished")

	if err := report.Generate(os.Stdout); err != nil {
		logger.WithError(err).Fatal("failed to generate report")
	}
	if report.Violations > 0 {
		os.Exit(1)
	}
}
