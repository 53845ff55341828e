package game

import "github.com/pthm-cable/plife/telemetry"

// Update runs StepsPerUpdate ticks, stopping early once Done.
func (g *Game) Update() {
	for i := 0; i < g.stepsPerUpdate && !g.Done(); i++ {
		g.Step()
	}
}

// Done reports whether the tick limit has been reached. Without a limit it
// is always false.
func (g *Game) Done() bool {
	return g.maxTicks > 0 && g.tick >= g.maxTicks
}

// SetMaxTicks sets the tick limit Update stops at (0 = unlimited).
func (g *Game) SetMaxTicks(n int) {
	g.maxTicks = int32(max(n, 0))
}

// Step runs one tick: controls, random walk, index rebuild (on cadence or
// after a reset), attraction pass, repulsion pass, telemetry.
// While paused only the controls are read.
func (g *Game) Step() {
	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseControls)
	g.applyControls()

	if g.applied.Paused {
		g.collector.RecordPausedTick()
		g.perfCollector.EndTick()
		return
	}

	g.perfCollector.StartPhase(telemetry.PhaseRandomWalk)
	g.field.Step(g.rng)

	g.perfCollector.StartPhase(telemetry.PhaseSpatialIndex)
	if g.shouldRebuild() {
		g.engine.BuildSpatialIndex()
		g.needRebuild = false
		g.rebuilds++
	}

	g.perfCollector.StartPhase(telemetry.PhaseAttract)
	g.engine.Attract(g.attraction)

	g.perfCollector.StartPhase(telemetry.PhaseRepel)
	g.engine.Repel(g.repulsion)

	g.tick++

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	c := g.engine.TakeCounters()
	g.collector.RecordInteraction(c.Queries, c.Neighbors, c.Displacements, c.Clamps)
	g.flushTelemetry()

	g.perfCollector.EndTick()
}

// shouldRebuild applies the rebuild cadence: every rebuild_every ticks,
// counted from tick 0, and always on the first tick after a reset.
func (g *Game) shouldRebuild() bool {
	every := int32(g.cfg.Physics.RebuildEvery)
	if every < 1 {
		every = 1
	}
	return g.needRebuild || g.tick%every == 0
}

// StepsPerUpdate returns how many ticks Update runs.
func (g *Game) StepsPerUpdate() int { return g.stepsPerUpdate }

// SetStepsPerUpdate sets how many ticks Update runs, at least 1.
func (g *Game) SetStepsPerUpdate(n int) {
	if n < 1 {
		n = 1
	}
	g.stepsPerUpdate = n
}
