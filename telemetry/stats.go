// Package telemetry provides interaction statistics, bookmarks, perf timing and CSV output.
package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a tick window.
type WindowStats struct {
	WindowStartTick int32 `csv:"-"`
	WindowEndTick   int32 `csv:"window_end"`

	// Population at window end
	Particles    int    `csv:"particles"`
	SpeciesMix   string `csv:"species_mix"` // "A:512 B:488 ..."
	AttractPairs int    `csv:"attract_pairs"`
	RepelPairs   int    `csv:"repel_pairs"`

	// Interaction work during window
	Queries       int     `csv:"queries"`
	Neighbors     int     `csv:"neighbors"`
	Displacements int     `csv:"displacements"`
	Clamps        int     `csv:"clamps"`
	ClampRate     float64 `csv:"clamp_rate"`

	// Control events during window
	Resets      int `csv:"resets"`
	PausedTicks int `csv:"paused_ticks"`

	// Neighbor count distribution (sampled at window end)
	NeighborMean float64 `csv:"neighbor_mean"`
	NeighborStd  float64 `csv:"neighbor_std"`
	NeighborP10  float64 `csv:"neighbor_p10"`
	NeighborP50  float64 `csv:"neighbor_p50"`
	NeighborP90  float64 `csv:"neighbor_p90"`
	Isolated     float64 `csv:"isolated"` // fraction of particles with no neighbor
}

// Distribution summarizes a sample.
type Distribution struct {
	Mean, Std     float64
	P10, P50, P90 float64
}

// ComputeDistribution returns mean, standard deviation and empirical quantiles.
// An empty sample yields the zero Distribution.
func ComputeDistribution(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var d Distribution
	if len(sorted) == 1 {
		d.Mean = sorted[0]
	} else {
		d.Mean, d.Std = stat.MeanStdDev(sorted, nil)
	}
	d.P10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	d.P50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	d.P90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)
	return d
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Int("particles", s.Particles),
		slog.String("species_mix", s.SpeciesMix),
		slog.Int("attract_pairs", s.AttractPairs),
		slog.Int("repel_pairs", s.RepelPairs),
		slog.Int("queries", s.Queries),
		slog.Int("neighbors", s.Neighbors),
		slog.Int("displacements", s.Displacements),
		slog.Int("clamps", s.Clamps),
		slog.Float64("clamp_rate", s.ClampRate),
		slog.Int("resets", s.Resets),
		slog.Int("paused_ticks", s.PausedTicks),
		slog.Float64("neighbor_mean", s.NeighborMean),
		slog.Float64("neighbor_std", s.NeighborStd),
		slog.Float64("neighbor_p10", s.NeighborP10),
		slog.Float64("neighbor_p50", s.NeighborP50),
		slog.Float64("neighbor_p90", s.NeighborP90),
		slog.Float64("isolated", s.Isolated),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"particles", s.Particles,
		"species_mix", s.SpeciesMix,
		"displacements", s.Displacements,
		"clamps", s.Clamps,
		"clamp_rate", s.ClampRate,
		"resets", s.Resets,
		"paused_ticks", s.PausedTicks,
		"neighbor_mean", s.NeighborMean,
		"neighbor_p50", s.NeighborP50,
		"neighbor_p90", s.NeighborP90,
		"isolated", s.Isolated,
	)
}
