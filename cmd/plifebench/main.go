// Package main compares spatial index implementations on headless runs and
// writes per-phase timings as CSV.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/plife/config"
	"github.com/pthm-cable/plife/game"
	"github.com/pthm-cable/plife/telemetry"
)

func main() {
	configPath := flag.String("config", "", "Base config file (empty = use defaults)")
	indexes := flag.String("indexes", "kdtree,grid", "Comma-separated spatial indexes to compare")
	counts := flag.String("counts", "500,1000,2000,5000", "Comma-separated particle counts")
	ticks := flag.Int("ticks", 300, "Ticks per run")
	seed := flag.Int64("seed", 42, "RNG seed shared by every run")
	out := flag.String("out", "", "CSV output file (empty = stdout)")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	base, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	particleCounts, err := parseCounts(*counts)
	if err != nil {
		slog.Error("bad -counts", "error", err)
		os.Exit(1)
	}

	var rows []telemetry.PerfStatsCSV
	for _, index := range strings.Split(*indexes, ",") {
		index = strings.TrimSpace(index)
		for _, n := range particleCounts {
			row, err := benchmark(base, index, n, *ticks, *seed)
			if err != nil {
				slog.Error("run failed", "index", index, "particles", n, "error", err)
				os.Exit(1)
			}
			slog.Info("run complete",
				"index", index,
				"particles", n,
				"avg_tick_us", row.AvgTickUS,
				"spatial_index_us", row.SpatialIndexUS,
				"attract_us", row.AttractUS,
			)
			rows = append(rows, row)
		}
	}

	if err := writeRows(*out, rows); err != nil {
		slog.Error("failed to write results", "error", err)
		os.Exit(1)
	}
}

// benchmark runs one headless simulation and returns its averaged timings.
func benchmark(base *config.Config, index string, particles, ticks int, seed int64) (telemetry.PerfStatsCSV, error) {
	cfg := *base
	cfg.Physics.Index = index
	cfg.Population.Count = particles
	cfg.Telemetry.PerfWindow = ticks
	cfg.Telemetry.StatsWindow = ticks
	if err := cfg.Validate(); err != nil {
		return telemetry.PerfStatsCSV{}, err
	}

	g, err := game.NewGame(&cfg, game.Options{Seed: seed})
	if err != nil {
		return telemetry.PerfStatsCSV{}, err
	}
	defer g.Unload()

	for i := 0; i < ticks; i++ {
		g.Step()
	}
	return g.Perf().Stats().ToCSV(g.Tick(), index, particles), nil
}

func parseCounts(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, fmt.Errorf("particle count %d must not be negative", n)
		}
		out = append(out, n)
	}
	return out, nil
}

func writeRows(path string, rows []telemetry.PerfStatsCSV) error {
	var w io.Writer = os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return gocsv.Marshal(rows, w)
}
