// Package audio plays short synthesized cues for session events.
package audio

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/plus3/blockfall/game"
)

// Note is one step of a cue.
type Note struct {
	Freq     float64
	Duration time.Duration
	Wave     Wave
}

// clearScale rises one step per cleared row.
var clearScale = []float64{523.25, 659.25, 783.99, 1046.50}

// Notes returns the melody played for ev, or nil if ev is silent.
func Notes(ev game.Event) []Note {
	switch ev.Kind {
	case game.EventLocked:
		return []Note{{Freq: 110, Duration: 40 * time.Millisecond, Wave: WaveSquare}}
	case game.EventHeld:
		return []Note{{Freq: 440, Duration: 30 * time.Millisecond, Wave: WaveTriangle}}
	case game.EventLinesCleared:
		n := min(max(ev.Lines, 1), len(clearScale))
		notes := make([]Note, 0, n)
		for _, f := range clearScale[:n] {
			notes = append(notes, Note{Freq: f, Duration: 70 * time.Millisecond, Wave: WaveSine})
		}
		return notes
	case game.EventGameOver:
		return []Note{
			{Freq: 392, Duration: 150 * time.Millisecond, Wave: WaveTriangle},
			{Freq: 311.13, Duration: 150 * time.Millisecond, Wave: WaveTriangle},
			{Freq: 196, Duration: 300 * time.Millisecond, Wave: WaveTriangle},
		}
	}
	return nil
}

// Cue renders notes into a single streamer at the given volume (0 is
// unchanged, negative is quieter, in halvings).
func Cue(notes []Note, rate beep.SampleRate, volume float64) beep.Streamer {
	if len(notes) == 0 {
		return nil
	}
	parts := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		parts = append(parts, Tone(n.Freq, n.Duration, n.Wave, rate))
	}
	return &effects.Volume{
		Streamer: beep.Seq(parts...),
		Base:     2,
		Volume:   volume,
	}
}
