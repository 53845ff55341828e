package telemetry

import (
	"fmt"
	"strings"
)

// Collector accumulates interaction work within tick windows and produces WindowStats.
type Collector struct {
	windowDurationTicks int32

	// Current window tracking
	windowStartTick int32

	// Counters for current window
	queries       int
	neighbors     int
	displacements int
	clamps        int
	resets        int
	pausedTicks   int
}

// NewCollector creates a collector that flushes every windowTicks ticks.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowDurationTicks: int32(windowTicks)}
}

// RecordInteraction adds one tick's engine counters.
func (c *Collector) RecordInteraction(queries, neighbors, displacements, clamps int) {
	c.queries += queries
	c.neighbors += neighbors
	c.displacements += displacements
	c.clamps += clamps
}

// RecordReset records a field reset.
func (c *Collector) RecordReset() {
	c.resets++
}

// RecordPausedTick records a tick skipped by the pause signal.
func (c *Collector) RecordPausedTick() {
	c.pausedTicks++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Census describes the population at flush time.
type Census struct {
	Particles      int
	SpeciesNames   []string
	SpeciesCounts  []int
	NeighborCounts []float64 // per particle, self excluded
	AttractPairs   int
	RepelPairs     int
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, census Census) WindowStats {
	var clampRate float64
	if c.displacements > 0 {
		clampRate = float64(c.clamps) / float64(c.displacements)
	}

	dist := ComputeDistribution(census.NeighborCounts)
	var isolated float64
	if n := len(census.NeighborCounts); n > 0 {
		alone := 0
		for _, v := range census.NeighborCounts {
			if v == 0 {
				alone++
			}
		}
		isolated = float64(alone) / float64(n)
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,

		Particles:    census.Particles,
		SpeciesMix:   speciesMix(census.SpeciesNames, census.SpeciesCounts),
		AttractPairs: census.AttractPairs,
		RepelPairs:   census.RepelPairs,

		Queries:       c.queries,
		Neighbors:     c.neighbors,
		Displacements: c.displacements,
		Clamps:        c.clamps,
		ClampRate:     clampRate,

		Resets:      c.resets,
		PausedTicks: c.pausedTicks,

		NeighborMean: dist.Mean,
		NeighborStd:  dist.Std,
		NeighborP10:  dist.P10,
		NeighborP50:  dist.P50,
		NeighborP90:  dist.P90,
		Isolated:     isolated,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.queries = 0
	c.neighbors = 0
	c.displacements = 0
	c.clamps = 0
	c.resets = 0
	c.pausedTicks = 0

	return stats
}

func speciesMix(names []string, counts []int) string {
	var b strings.Builder
	for i, n := range counts {
		if i > 0 {
			b.WriteByte(' ')
		}
		name := "?"
		if i < len(names) {
			name = names[i]
		}
		fmt.Fprintf(&b, "%s:%d", name, n)
	}
	return b.String()
}
