package game

import (
	"github.com/kamstrup/intmap"

	"github.com/plus3/blockfall/piece"
)

// Stats accumulates counters over a session's lifetime.
type Stats struct {
	Locked    int
	Lines     int
	Holds     int
	HardDrops int

	spawned  [piece.KindCount]int
	clears   *intmap.Map[int, int]
	maxClear int
}

func newStats() *Stats {
	return &Stats{
		clears: intmap.New[int, int](4),
	}
}

// Spawned returns how many pieces of kind k entered play.
func (st *Stats) Spawned(k piece.Kind) int {
	return st.spawned[k]
}

// Clears returns how many locks cleared exactly n rows at once.
func (st *Stats) Clears(n int) int {
	count, _ := st.clears.Get(n)
	return count
}

// ClearSizes returns every distinct clear size seen, smallest first.
func (st *Stats) ClearSizes() []int {
	sizes := make([]int, 0, st.maxClear)
	for n := 1; n <= st.maxClear; n++ {
		if _, ok := st.clears.Get(n); ok {
			sizes = append(sizes, n)
		}
	}
	return sizes
}

func (st *Stats) recordSpawn(k piece.Kind) {
	st.spawned[k]++
}

func (st *Stats) recordClear(n int) {
	count, _ := st.clears.Get(n)
	st.clears.Put(n, count+1)
	st.maxClear = max(st.maxClear, n)
	st.Lines += n
}
