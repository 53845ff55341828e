package game

import (
	"log/slog"

	"github.com/pthm-cable/plife/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.census())
	perfStats := g.perfCollector.Stats()
	g.lastStats = stats

	// Log stats if enabled (console output)
	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick, g.field.Len()); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if g.outputManager != nil {
			if err := g.outputManager.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
		}
	}
}

// census samples the population for a stats window. Neighbor counts come from
// the current index; the queries are not charged to the window's counters.
func (g *Game) census() telemetry.Census {
	n := g.field.Len()
	kinds := g.reg.Kinds()

	c := telemetry.Census{
		Particles:      n,
		SpeciesNames:   make([]string, len(kinds)),
		SpeciesCounts:  make([]int, len(kinds)),
		NeighborCounts: make([]float64, n),
		AttractPairs:   g.attraction.Len(),
		RepelPairs:     g.repulsion.Len(),
	}
	for _, k := range kinds {
		c.SpeciesNames[k] = g.reg.Name(k)
	}
	for i := 0; i < n; i++ {
		c.SpeciesCounts[g.field.At(i).Kind()]++
		g.scratch = g.engine.Neighbors(i, g.scratch[:0])
		c.NeighborCounts[i] = float64(len(g.scratch))
	}
	g.engine.TakeCounters()
	return c
}
