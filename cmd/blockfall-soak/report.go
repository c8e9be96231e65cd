package main

import (
	"io"
	"runtime"
	"slices"
	"text/template"
	"time"

	"github.com/plus3/blockfall/game"
)

// SessionResult is the outcome of one soak session.
type SessionResult struct {
	Score  uint
	Lines  int
	Locked int
	Ticks  uint64
	Over   bool
}

type Report struct {
	// Configuration
	Config         game.Config
	Sessions       int
	MaxTicks       int
	GravityEvery   int
	GCPauseMetrics bool

	// Results
	Played      int
	GameOvers   int
	Violations  int
	TotalTicks  uint64
	TotalLines  int
	TotalLocked int
	BestScore   uint
	TotalTime   time.Duration
	TickTime    Stats
	Systems     []game.SystemStats

	MemStatsStart runtime.MemStats
	MemStatsEnd   runtime.MemStats
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	P99     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		if sample < s.Min {
			s.Min = sample
		}
		if sample > s.Max {
			s.Max = sample
		}
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))

	sorted := slices.Clone(s.Samples)
	slices.Sort(sorted)
	s.P99 = sorted[(len(sorted)-1)*99/100]
}

// Add folds one finished session and its scheduler statistics into r.
func (r *Report) Add(res SessionResult, stats *game.SchedulerStats) {
	r.Played++
	if res.Over {
		r.GameOvers++
	}
	r.TotalTicks += res.Ticks
	r.TotalLines += res.Lines
	r.TotalLocked += res.Locked
	r.BestScore = max(r.BestScore, res.Score)

	if r.Systems == nil {
		r.Systems = make([]game.SystemStats, len(stats.Systems))
		for i, sys := range stats.Systems {
			r.Systems[i] = game.SystemStats{Name: sys.Name, MinDuration: sys.MinDuration}
		}
	}
	for i, sys := range stats.Systems {
		agg := &r.Systems[i]
		agg.ExecutionCount += sys.ExecutionCount
		agg.TotalDuration += sys.TotalDuration
		agg.MinDuration = min(agg.MinDuration, sys.MinDuration)
		agg.MaxDuration = max(agg.MaxDuration, sys.MaxDuration)
		if agg.ExecutionCount > 0 {
			agg.AvgDuration = agg.TotalDuration / time.Duration(agg.ExecutionCount)
		}
	}
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# Blockfall Soak Report

## Configuration
- **Playfield:** {{.Config.Width}}x{{.Config.Height}} ({{.Config.Generator}})
- **Seed:** {{.Config.Seed}}
- **Sessions:** {{.Played}} of {{.Sessions}} (tick limit {{.MaxTicks}}, gravity every {{.GravityEvery}})

## Outcomes
- **Game Overs:** {{.GameOvers}}
- **Best Score:** {{.BestScore}}
- **Lines Cleared:** {{.TotalLines}}
- **Pieces Locked:** {{.TotalLocked}}
- **Invariant Violations:** {{.Violations}}

## Performance
- **Total Ticks:** {{.TotalTicks}}
- **Total Time:** {{.TotalTime}}
- **Tick Time:**
  - **Avg:** {{.TickTime.Avg}}
  - **Min:** {{.TickTime.Min}}
  - **Max:** {{.TickTime.Max}}
  - **P99:** {{.TickTime.P99}}

## Systems
{{range .Systems}}- {{printf "%-16s" .Name}} runs={{.ExecutionCount}} avg={{.AvgDuration}} max={{.MaxDuration}}
{{end}}
## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
{{end}}`

	fm := template.FuncMap{
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}
