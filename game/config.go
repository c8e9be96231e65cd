package game

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("game: invalid config")

// Generator names accepted by Config.Generator.
const (
	GeneratorUniform = "uniform"
	GeneratorBag     = "bag"
)

// Config describes the playfield and how pieces are drawn.
type Config struct {
	Width     int    // Playable columns
	Height    int    // Playable rows
	Generator string // GeneratorUniform or GeneratorBag
	Seed      uint64 // RNG seed; 0 picks a random seed
}

// DefaultConfig returns a 10x20 playfield with uniformly drawn pieces.
func DefaultConfig() Config {
	return Config{
		Width:     10,
		Height:    20,
		Generator: GeneratorUniform,
	}
}

// Validate reports the first problem with c, wrapped in ErrInvalidConfig.
func (c Config) Validate() error {
	if c.Width < 4 || c.Width > 256 {
		return fmt.Errorf("%w: width %d not in [4,256]", ErrInvalidConfig, c.Width)
	}
	if c.Height < 4 || c.Height > 256 {
		return fmt.Errorf("%w: height %d not in [4,256]", ErrInvalidConfig, c.Height)
	}
	switch c.Generator {
	case GeneratorUniform, GeneratorBag, "":
	default:
		return fmt.Errorf("%w: unknown generator %q", ErrInvalidConfig, c.Generator)
	}
	return nil
}
