// Package game drives the particle field: it applies control changes, runs the
// random walk and interaction passes, and hands out render snapshots.
package game

import (
	"fmt"
	"image/color"
	"log/slog"
	"math/rand"

	"github.com/pthm-cable/plife/components"
	"github.com/pthm-cable/plife/config"
	"github.com/pthm-cable/plife/systems"
	"github.com/pthm-cable/plife/telemetry"
)

// shadesPerSpecies is the palette size each species draws particle colors from.
const shadesPerSpecies = 8

// Options configures game behavior beyond the loaded config.
type Options struct {
	Seed           int64  // RNG seed (0 = population.seed from config)
	LogStats       bool   // log window and perf stats via slog
	OutputDir      string // CSV output directory (empty = disabled)
	StepsPerUpdate int    // ticks per Update call (default 1)
	MaxTicks       int    // Update stops at this tick (0 = unlimited)
}

// Game holds the complete simulation state.
type Game struct {
	cfg    *config.Config
	reg    *components.Registry
	field  *systems.Field
	engine *systems.Engine
	rng    *rand.Rand
	seed   int64

	// pending is written by the control surface; applied is what the last tick used.
	pending Controls
	applied Controls

	attraction *systems.RuleTable
	repulsion  *systems.RuleTable

	palettes [][]color.RGBA

	// State
	tick           int32
	needRebuild    bool
	rebuilds       int
	stepsPerUpdate int
	maxTicks       int32

	// Telemetry
	perfCollector    *telemetry.PerfCollector
	collector        *telemetry.Collector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	logStats         bool
	lastStats        telemetry.WindowStats
	scratch          []int
}

// NewGame builds the registry, rule tables, field and engine from cfg and
// generates the initial population.
func NewGame(cfg *config.Config, opts Options) (*Game, error) {
	reg, err := components.NewRegistry(cfg.Species)
	if err != nil {
		return nil, fmt.Errorf("species: %w", err)
	}
	attraction, err := systems.ParseRuleTable(cfg.Rules.Attraction, reg)
	if err != nil {
		return nil, fmt.Errorf("attraction rules: %w", err)
	}
	repulsion, err := systems.ParseRuleTable(cfg.Rules.Repulsion, reg)
	if err != nil {
		return nil, fmt.Errorf("repulsion rules: %w", err)
	}

	w, h := cfg.Derived.WorldW, cfg.Derived.WorldH
	field, err := systems.NewField(w, h, reg)
	if err != nil {
		return nil, err
	}
	index, err := systems.NewSpatialIndex(cfg.Physics, w, h)
	if err != nil {
		return nil, err
	}

	seed := opts.Seed
	if seed == 0 {
		seed = cfg.Population.Seed
	}
	stepsPerUpdate := opts.StepsPerUpdate
	if stepsPerUpdate < 1 {
		stepsPerUpdate = 1
	}

	g := &Game{
		cfg:            cfg,
		reg:            reg,
		field:          field,
		engine:         systems.NewEngine(field, index, w, h, cfg.Physics.Accumulation),
		rng:            rand.New(rand.NewSource(seed)),
		seed:           seed,
		attraction:     attraction,
		repulsion:      repulsion,
		needRebuild:    true,
		stepsPerUpdate: stepsPerUpdate,
		maxTicks:       int32(max(opts.MaxTicks, 0)),

		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		collector:        telemetry.NewCollector(cfg.Telemetry.StatsWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(10),
		logStats:         opts.LogStats,
	}

	for _, k := range reg.Kinds() {
		shades, err := reg.Palette(reg.Name(k), shadesPerSpecies)
		if err != nil {
			return nil, err
		}
		g.palettes = append(g.palettes, shades)
	}

	if err := field.Reset(cfg.Population.Count, g.rng); err != nil {
		return nil, err
	}

	g.applied = Controls{
		Count:      cfg.Population.Count,
		Attraction: attraction.Clone(),
		Repulsion:  repulsion.Clone(),
	}
	g.pending = g.applied.clone()

	om, err := telemetry.NewOutputManager(opts.OutputDir, telemetry.Run{
		Index:     cfg.Physics.Index,
		Particles: cfg.Population.Count,
		Seed:      seed,
	})
	if err != nil {
		return nil, err
	}
	if om != nil {
		if err := om.WriteConfig(cfg); err != nil {
			om.Close()
			return nil, err
		}
		slog.Info("output directory initialized", "path", om.Dir())
	}
	g.outputManager = om

	return g, nil
}

// Controls returns the control values the next tick will read.
// The control surface mutates them in place.
func (g *Game) Controls() *Controls { return &g.pending }

// Tick returns the number of simulated (non-paused) ticks.
func (g *Game) Tick() int32 { return g.tick }

// Seed returns the RNG seed in use.
func (g *Game) Seed() int64 { return g.seed }

// Paused reports whether the last tick was skipped by the pause signal.
func (g *Game) Paused() bool { return g.applied.Paused }

// Rebuilds returns how many times the spatial index has been rebuilt.
func (g *Game) Rebuilds() int { return g.rebuilds }

// Registry returns the species registry.
func (g *Game) Registry() *components.Registry { return g.reg }

// Field returns the particle field.
func (g *Game) Field() *systems.Field { return g.field }

// Config returns the configuration the game was built from.
func (g *Game) Config() *config.Config { return g.cfg }

// Perf returns the per-phase performance collector.
func (g *Game) Perf() *telemetry.PerfCollector { return g.perfCollector }

// LastStats returns the most recently flushed telemetry window.
func (g *Game) LastStats() telemetry.WindowStats { return g.lastStats }

// Unload releases output files.
func (g *Game) Unload() {
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
