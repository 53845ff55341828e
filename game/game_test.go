package game

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/pthm-cable/plife/components"
	"github.com/pthm-cable/plife/config"
	"github.com/pthm-cable/plife/telemetry"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Default()
	if err != nil {
		t.Fatal(err)
	}
	cfg.Population.Count = 100
	cfg.Derived.WorldW = 200
	cfg.Derived.WorldH = 200
	cfg.Rules.Attraction = map[string]bool{"A_A": true, "B_C": true}
	cfg.Rules.Repulsion = map[string]bool{"A_D": true}
	cfg.Telemetry.StatsWindow = 1000
	return cfg
}

func newTestGame(t *testing.T, cfg *config.Config) *Game {
	t.Helper()
	g, err := NewGame(cfg, Options{Seed: 42})
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	t.Cleanup(g.Unload)
	return g
}

func TestNewGame(t *testing.T) {
	g := newTestGame(t, testConfig(t))

	if g.Field().Len() != 100 {
		t.Errorf("particles = %d, want 100", g.Field().Len())
	}
	if g.Tick() != 0 {
		t.Errorf("Tick() = %d, want 0", g.Tick())
	}
	if c := g.Controls(); c.Count != 100 || c.Attraction.Len() != 2 || c.Repulsion.Len() != 1 {
		t.Errorf("initial controls = %+v", c)
	}
}

func TestNewGameErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   error
	}{
		{"unknown species in attraction", func(c *config.Config) {
			c.Rules.Attraction = map[string]bool{"A_Z": true}
		}, components.ErrUnknownSpecies},
		{"unknown species in repulsion", func(c *config.Config) {
			c.Rules.Repulsion = map[string]bool{"Q_A": true}
		}, components.ErrUnknownSpecies},
		{"unknown shape", func(c *config.Config) {
			c.Species[0].Shape = "hexagon"
		}, components.ErrUnknownShape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			tt.mutate(cfg)
			_, err := NewGame(cfg, Options{Seed: 1})
			if !errors.Is(err, tt.want) {
				t.Errorf("NewGame error = %v, want %v", err, tt.want)
			}
		})
	}

	t.Run("bad dimensions", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Derived.WorldW = 0
		if _, err := NewGame(cfg, Options{Seed: 1}); err == nil {
			t.Error("NewGame with zero width succeeded")
		}
	})
}

func TestPauseIsIdempotent(t *testing.T) {
	g := newTestGame(t, testConfig(t))
	for i := 0; i < 5; i++ {
		g.Step()
	}

	before := g.Snapshot(nil)
	tick := g.Tick()

	g.Controls().Paused = true
	for i := 0; i < 10; i++ {
		g.Step()
	}

	after := g.Snapshot(nil)
	if !reflect.DeepEqual(before, after) {
		t.Error("particles changed while paused")
	}
	if g.Tick() != tick {
		t.Errorf("Tick() = %d while paused, want %d", g.Tick(), tick)
	}
	if !g.Paused() {
		t.Error("Paused() = false after pause signal")
	}

	g.Controls().Paused = false
	g.Step()
	if reflect.DeepEqual(after, g.Snapshot(nil)) {
		t.Error("particles did not move after resuming")
	}
	if g.Tick() != tick+1 {
		t.Errorf("Tick() = %d after resume, want %d", g.Tick(), tick+1)
	}
}

func TestPauseMatchesUnpausedRun(t *testing.T) {
	cfg := testConfig(t)
	a := newTestGame(t, cfg)
	b := newTestGame(t, cfg)

	for i := 0; i < 3; i++ {
		a.Step()
		b.Step()
	}
	b.Controls().Paused = true
	for i := 0; i < 4; i++ {
		b.Step()
	}
	b.Controls().Paused = false
	for i := 0; i < 3; i++ {
		a.Step()
		b.Step()
	}

	if !reflect.DeepEqual(a.Snapshot(nil), b.Snapshot(nil)) {
		t.Error("pausing changed the trajectory")
	}
}

func TestResetCompleteness(t *testing.T) {
	g := newTestGame(t, testConfig(t))
	for i := 0; i < 3; i++ {
		g.Step()
	}

	old := make(map[*components.Particle]bool, g.Field().Len())
	for i := 0; i < g.Field().Len(); i++ {
		old[g.Field().At(i)] = true
	}

	c := g.Controls()
	c.Count = 37
	c.Overrides.StepSize = 0.5
	c.Reset = true
	g.Step()

	if g.Field().Len() != 37 {
		t.Errorf("particles after reset = %d, want 37", g.Field().Len())
	}
	if g.Field().Live() != 37 {
		t.Errorf("live entities after reset = %d, want 37", g.Field().Live())
	}
	if g.Controls().Reset {
		t.Error("Reset signal not cleared")
	}
	for i := 0; i < g.Field().Len(); i++ {
		p := g.Field().At(i)
		if old[p] {
			t.Fatalf("particle %d survived the reset", i)
		}
		if p.StepSize() != 0.5 {
			t.Fatalf("particle %d step size = %v, want override 0.5", i, p.StepSize())
		}
	}
}

func TestResetToZero(t *testing.T) {
	g := newTestGame(t, testConfig(t))
	g.Controls().Count = 0
	g.Controls().Reset = true
	g.Step()
	g.Step()

	if g.Field().Len() != 0 {
		t.Errorf("particles = %d, want 0", g.Field().Len())
	}
	if len(g.Snapshot(nil)) != 0 {
		t.Error("snapshot of empty field is not empty")
	}
}

func TestRebuildCadence(t *testing.T) {
	cfg := testConfig(t)
	cfg.Physics.RebuildEvery = 3
	g := newTestGame(t, cfg)

	for i := 0; i < 7; i++ {
		g.Step()
	}
	// Ticks 0, 3 and 6
	if g.Rebuilds() != 3 {
		t.Errorf("Rebuilds() = %d after 7 ticks, want 3", g.Rebuilds())
	}

	// Tick 7 is off cadence but follows a reset.
	g.Controls().Reset = true
	g.Step()
	if g.Rebuilds() != 4 {
		t.Errorf("Rebuilds() = %d after reset, want 4", g.Rebuilds())
	}

	g.Step()
	if g.Rebuilds() != 4 {
		t.Errorf("Rebuilds() = %d on tick 8, want 4", g.Rebuilds())
	}
}

func TestRejectedControlsRevert(t *testing.T) {
	g := newTestGame(t, testConfig(t))
	radius := g.Field().At(0).InfluenceRadius()

	c := g.Controls()
	c.Overrides.InfluenceRadius = -1
	c.Count = -5
	g.Step()

	if c.Overrides.InfluenceRadius != 0 {
		t.Errorf("InfluenceRadius override = %v, want reverted to 0", c.Overrides.InfluenceRadius)
	}
	if c.Count != 100 {
		t.Errorf("Count = %d, want reverted to 100", c.Count)
	}
	if got := g.Field().At(0).InfluenceRadius(); got != radius {
		t.Errorf("particle radius = %v, want unchanged %v", got, radius)
	}
	if g.Tick() != 1 {
		t.Errorf("Tick() = %d, want the loop to keep running", g.Tick())
	}
}

func TestOverridesApplied(t *testing.T) {
	g := newTestGame(t, testConfig(t))
	g.Controls().Overrides.InfluenceStrength = 0.75
	g.Step()

	for i := 0; i < g.Field().Len(); i++ {
		if got := g.Field().At(i).InfluenceStrength(); got != 0.75 {
			t.Fatalf("particle %d strength = %v, want 0.75", i, got)
		}
	}
}

func TestClearedOverrideRestoresSpeciesDefault(t *testing.T) {
	g := newTestGame(t, testConfig(t))
	p := g.Field().At(0)
	def := g.Registry().Species(p.Kind()).StepSize

	g.Controls().Overrides.StepSize = 0.5
	g.Step()
	if got := g.Field().At(0).StepSize(); got != 0.5 {
		t.Fatalf("step with override = %v, want 0.5", got)
	}

	g.Controls().Overrides.StepSize = 0
	g.Step()
	if got := g.Field().At(0).StepSize(); got != def {
		t.Errorf("step after clearing override = %v, want species default %v", got, def)
	}
}

func TestRuleEditsReadNextTick(t *testing.T) {
	g := newTestGame(t, testConfig(t))
	g.Controls().Attraction.Toggle(0, 0)
	if !g.attraction.Enabled(0, 0) {
		t.Fatal("edit reached the engine before the next tick")
	}
	g.Step()
	if g.attraction.Enabled(0, 0) {
		t.Error("toggled pair still enabled after the next tick")
	}
}

func TestSnapshot(t *testing.T) {
	g := newTestGame(t, testConfig(t))
	snap := g.Snapshot(nil)

	if len(snap) != g.Field().Len() {
		t.Fatalf("snapshot length = %d, want %d", len(snap), g.Field().Len())
	}
	for i, rp := range snap {
		p := g.Field().At(i)
		sp := g.Registry().Species(p.Kind())
		if rp.Pos != p.Pos || rp.Kind != p.Kind() || rp.Shape != sp.Shape {
			t.Fatalf("snapshot[%d] = %+v, want particle %+v", i, rp, p.Pos)
		}
		if rp.Color.A != 255 {
			t.Fatalf("snapshot[%d] color %v is not opaque", i, rp.Color)
		}
	}

	// Snapshots are copies.
	snap[0].Pos.X = -1
	if g.Field().At(0).Pos.X == -1 {
		t.Error("snapshot aliases particle state")
	}
}

func TestDeterministicSeed(t *testing.T) {
	cfg := testConfig(t)
	a := newTestGame(t, cfg)
	b := newTestGame(t, cfg)
	for i := 0; i < 10; i++ {
		a.Step()
		b.Step()
	}
	if !reflect.DeepEqual(a.Snapshot(nil), b.Snapshot(nil)) {
		t.Error("same seed produced different runs")
	}
}

func TestTelemetryWindow(t *testing.T) {
	cfg := testConfig(t)
	cfg.Telemetry.StatsWindow = 5
	g := newTestGame(t, cfg)

	g.Controls().Paused = true
	g.Step()
	g.Controls().Paused = false
	for i := 0; i < 5; i++ {
		g.Step()
	}

	stats := g.LastStats()
	if stats.WindowEndTick != 5 {
		t.Errorf("WindowEndTick = %d, want 5", stats.WindowEndTick)
	}
	if stats.Particles != 100 {
		t.Errorf("Particles = %d, want 100", stats.Particles)
	}
	if stats.Queries != 5*100*2 {
		t.Errorf("Queries = %d, want one per particle per pass", stats.Queries)
	}
	if stats.PausedTicks != 1 {
		t.Errorf("PausedTicks = %d, want 1", stats.PausedTicks)
	}
	if stats.AttractPairs != 2 || stats.RepelPairs != 1 {
		t.Errorf("pairs = %d/%d, want 2/1", stats.AttractPairs, stats.RepelPairs)
	}
}

func TestUpdateRunsStepsPerUpdate(t *testing.T) {
	g, err := NewGame(testConfig(t), Options{Seed: 42, StepsPerUpdate: 4})
	if err != nil {
		t.Fatal(err)
	}
	defer g.Unload()

	g.Update()
	if g.Tick() != 4 {
		t.Errorf("Tick() = %d after Update, want 4", g.Tick())
	}
}

func TestUpdateStopsAtMaxTicks(t *testing.T) {
	g, err := NewGame(testConfig(t), Options{Seed: 42, StepsPerUpdate: 4, MaxTicks: 6})
	if err != nil {
		t.Fatal(err)
	}
	defer g.Unload()

	tests := []struct {
		wantTick int32
		wantDone bool
	}{
		{4, false},
		{6, true},
		{6, true},
	}
	for i, tt := range tests {
		g.Update()
		if g.Tick() != tt.wantTick || g.Done() != tt.wantDone {
			t.Errorf("after Update %d: Tick() = %d, Done() = %v, want %d, %v",
				i+1, g.Tick(), g.Done(), tt.wantTick, tt.wantDone)
		}
	}

	g.SetMaxTicks(0)
	g.Update()
	if g.Tick() != 10 || g.Done() {
		t.Errorf("unlimited: Tick() = %d, Done() = %v, want 10, false", g.Tick(), g.Done())
	}
}

func TestOutputDirNamesRun(t *testing.T) {
	root := t.TempDir()
	cfg := testConfig(t)
	cfg.Physics.Index = config.IndexGrid
	g, err := NewGame(cfg, Options{Seed: 9, OutputDir: root})
	if err != nil {
		t.Fatal(err)
	}
	defer g.Unload()

	want := filepath.Join(root, "grid-n100-s9", telemetry.ConfigFile)
	if _, err := os.Stat(want); err != nil {
		t.Errorf("config snapshot missing: %v", err)
	}
}

func TestParticleAt(t *testing.T) {
	cfg := testConfig(t)
	cfg.Population.Count = 4 // centers at 50 and 150 on both axes
	g := newTestGame(t, cfg)

	tests := []struct {
		name    string
		pos     components.Vec2
		maxDist float64
		want    int
		wantOK  bool
	}{
		{"direct hit", components.Vec2{X: 52, Y: 49}, 10, 0, true},
		{"across right edge", components.Vec2{X: 199, Y: 51}, 60, 1, true},
		{"across bottom edge", components.Vec2{X: 150, Y: 199}, 60, 3, true},
		{"nothing in range", components.Vec2{X: 100, Y: 100}, 10, -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := g.ParticleAt(tt.pos, tt.maxDist)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParticleAt(%v) = %d, %v, want %d, %v", tt.pos, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestInspect(t *testing.T) {
	g := newTestGame(t, testConfig(t))

	info, ok := g.Inspect(0)
	if !ok {
		t.Fatal("Inspect(0) not ok")
	}
	p := g.Field().At(0)
	if info.Species != g.Registry().Name(p.Kind()) || info.InfluenceRadius != p.InfluenceRadius() {
		t.Errorf("Inspect(0) = %+v", info)
	}
	if _, ok := g.Inspect(g.Field().Len()); ok {
		t.Error("Inspect past the end succeeded")
	}
}
