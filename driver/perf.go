package driver

import (
	"cmp"
	"slices"
	"time"

	"github.com/plus3/blockfall/game"
)

// FrameTimes keeps the most recent frame durations, in milliseconds, in a
// fixed ring suitable for plotting.
type FrameTimes struct {
	samples []float32
	next    int
	filled  int
	now     func() time.Time
	last    time.Time
}

// NewFrameTimes returns a ring of size samples. now defaults to time.Now.
func NewFrameTimes(size int, now func() time.Time) *FrameTimes {
	if size <= 0 {
		panic("driver: frame history size must be positive")
	}
	if now == nil {
		now = time.Now
	}
	return &FrameTimes{
		samples: make([]float32, size),
		now:     now,
		last:    now(),
	}
}

// Tick records the time elapsed since the previous Tick (or construction).
func (f *FrameTimes) Tick() {
	t := f.now()
	f.Record(t.Sub(f.last))
	f.last = t
}

// Record appends d, overwriting the oldest sample once the ring is full.
func (f *FrameTimes) Record(d time.Duration) {
	f.samples[f.next] = float32(d.Seconds() * 1000)
	f.next = (f.next + 1) % len(f.samples)
	f.filled = min(f.filled+1, len(f.samples))
}

// Samples returns the ring's backing slice. Unfilled slots are zero.
func (f *FrameTimes) Samples() []float32 {
	return f.samples
}

// Avg returns the mean of the recorded samples in milliseconds.
func (f *FrameTimes) Avg() float32 {
	if f.filled == 0 {
		return 0
	}
	var total float32
	for _, s := range f.samples {
		total += s
	}
	return total / float32(f.filled)
}

// SystemRow is one system's execution times in milliseconds.
type SystemRow struct {
	Name string
	Runs int64
	Avg  float64
	Min  float64
	Max  float64
}

// Columns of a SystemRow table, in display order.
const (
	ColumnName = iota
	ColumnAvg
	ColumnMin
	ColumnMax
)

func millis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000.0
}

// SystemRows flattens scheduler statistics for display. Systems that never
// ran report zero durations.
func SystemRows(stats *game.SchedulerStats) []SystemRow {
	rows := make([]SystemRow, 0, len(stats.Systems))
	for _, sys := range stats.Systems {
		row := SystemRow{Name: sys.Name, Runs: sys.ExecutionCount}
		if sys.ExecutionCount > 0 {
			row.Avg = millis(sys.AvgDuration)
			row.Min = millis(sys.MinDuration)
			row.Max = millis(sys.MaxDuration)
		}
		rows = append(rows, row)
	}
	return rows
}

// SortSystemRows orders rows by column, keeping registration order on ties.
func SortSystemRows(rows []SystemRow, column int, descending bool) {
	slices.SortStableFunc(rows, func(a, b SystemRow) int {
		var c int
		switch column {
		case ColumnName:
			c = cmp.Compare(a.Name, b.Name)
		case ColumnAvg:
			c = cmp.Compare(a.Avg, b.Avg)
		case ColumnMin:
			c = cmp.Compare(a.Min, b.Min)
		case ColumnMax:
			c = cmp.Compare(a.Max, b.Max)
		}
		if descending {
			return -c
		}
		return c
	})
}
