package game

import (
	"log/slog"

	"github.com/pthm-cable/plife/systems"
)

// Controls are the values the control surface writes between ticks.
type Controls struct {
	Count      int // particle count used by the next reset
	Overrides  systems.Overrides
	Attraction *systems.RuleTable
	Repulsion  *systems.RuleTable
	Paused     bool
	Reset      bool // one-shot; cleared once the reset runs
}

func (c Controls) clone() Controls {
	c.Attraction = c.Attraction.Clone()
	c.Repulsion = c.Repulsion.Clone()
	return c
}

// applyControls reads the pending controls at the start of a tick.
// A rejected value is logged and reverted so the loop keeps running.
func (g *Game) applyControls() {
	p := &g.pending

	// Rule tables are snapshotted so edits mid-tick never reach the passes.
	g.attraction = p.Attraction.Clone()
	g.repulsion = p.Repulsion.Clone()

	if p.Overrides != g.applied.Overrides {
		if err := g.field.ApplyOverrides(p.Overrides); err != nil {
			slog.Warn("rejected control update", "control", "overrides", "error", err)
			p.Overrides = g.applied.Overrides
		}
	}

	if p.Count < 0 {
		slog.Warn("rejected control update", "control", "count", "value", p.Count)
		p.Count = g.applied.Count
	}

	if p.Reset {
		p.Reset = false
		g.reset(p.Count, p.Overrides)
	}

	g.applied = p.clone()
}

// reset regenerates the field and forces an index rebuild on this tick.
func (g *Game) reset(count int, overrides systems.Overrides) {
	if err := g.field.Reset(count, g.rng); err != nil {
		slog.Error("reset failed", "count", count, "error", err)
		return
	}
	if !overrides.IsZero() {
		// Already validated against the previous population.
		if err := g.field.ApplyOverrides(overrides); err != nil {
			slog.Error("reapplying overrides failed", "error", err)
		}
	}
	g.needRebuild = true
	g.collector.RecordReset()
	slog.Info("reset",
		"tick", g.tick,
		"count", count,
		"attraction", g.attraction.Format(g.reg),
		"repulsion", g.repulsion.Format(g.reg),
	)
}
