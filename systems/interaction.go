package systems

import (
	"log/slog"
	"math"
	"sort"

	"github.com/pthm-cable/plife/components"
	"github.com/pthm-cable/plife/config"
)

// Counters accumulate interaction work between telemetry reads.
type Counters struct {
	Queries       int // neighbor queries issued
	Neighbors     int // neighbors returned, self excluded
	Displacements int // rule-enabled neighbor contributions
	Clamps        int // contributions limited by min distance
}

// LogValue implements slog.LogValuer.
func (c Counters) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("queries", c.Queries),
		slog.Int("neighbors", c.Neighbors),
		slog.Int("displacements", c.Displacements),
		slog.Int("clamps", c.Clamps),
	)
}

// Engine runs the neighbor interaction passes over a population.
type Engine struct {
	pop     Population
	index   SpatialIndex
	width   float64
	height  float64
	batched bool

	points   []components.Vec2
	scratch  []int
	counters Counters
}

// NewEngine creates an engine. accumulation is config.AccumulateSequential
// or config.AccumulateBatched; anything else means sequential.
func NewEngine(pop Population, index SpatialIndex, width, height float64, accumulation string) *Engine {
	return &Engine{
		pop:     pop,
		index:   index,
		width:   width,
		height:  height,
		batched: accumulation == config.AccumulateBatched,
	}
}

// Batched reports whether contributions are summed before being applied.
func (e *Engine) Batched() bool { return e.batched }

// BuildSpatialIndex rebuilds the index from current positions.
func (e *Engine) BuildSpatialIndex() {
	e.points = e.points[:0]
	for i := 0; i < e.pop.Len(); i++ {
		e.points = append(e.points, e.pop.At(i).Pos)
	}
	e.index.Rebuild(e.points)
}

// Neighbors appends to dst the indices within particle i's influence radius,
// excluding i, in ascending order.
func (e *Engine) Neighbors(i int, dst []int) []int {
	p := e.pop.At(i)
	start := len(dst)
	dst = e.index.QueryRadius(p.Pos, p.InfluenceRadius(), dst)
	e.counters.Queries++

	// Drop self and anything past the population (stale index).
	n := e.pop.Len()
	out := dst[:start]
	for _, j := range dst[start:] {
		if j != i && j < n {
			out = append(out, j)
		}
	}
	sort.Ints(out[start:])
	e.counters.Neighbors += len(out) - start
	return out
}

// Attract moves each particle toward its rule-enabled neighbors.
func (e *Engine) Attract(rules *RuleTable) {
	e.pass(rules, 1)
}

// Repel moves each particle away from its rule-enabled neighbors.
func (e *Engine) Repel(rules *RuleTable) {
	e.pass(rules, -1)
}

// pass visits particles in index order. Directions use live positions, so
// earlier moves in the same pass are seen by later particles.
func (e *Engine) pass(rules *RuleTable, sign float64) {
	if rules.Len() == 0 {
		return
	}
	for i := 0; i < e.pop.Len(); i++ {
		e.scratch = e.Neighbors(i, e.scratch[:0])
		e.influence(i, e.scratch, rules, sign)
	}
}

// influence applies the neighbors of particle i to its position.
func (e *Engine) influence(i int, neighbors []int, rules *RuleTable, sign float64) {
	p := e.pop.At(i)
	origin := p.Pos
	var sum components.Vec2
	moved := false

	for _, j := range neighbors {
		q := e.pop.At(j)
		if !rules.Enabled(p.Kind(), q.Kind()) {
			continue
		}

		from := p.Pos
		if e.batched {
			from = origin
		}
		u, d := unitToward(from, q.Pos)

		influence, clamped := StepLength(d, p.InfluenceStrength(), p.MinDistance(), sign)
		if clamped {
			e.counters.Clamps++
		}
		step := u.Scale(sign * influence)
		e.counters.Displacements++

		if e.batched {
			sum = sum.Add(step)
			moved = true
			continue
		}
		p.Pos = MoveParticle(p.Pos, step, e.width, e.height)
	}

	if moved {
		p.Pos = MoveParticle(origin, sum, e.width, e.height)
	}
}

// Counters returns the counters accumulated so far.
func (e *Engine) Counters() Counters { return e.counters }

// TakeCounters returns the accumulated counters and resets them.
func (e *Engine) TakeCounters() Counters {
	c := e.counters
	e.counters = Counters{}
	return c
}

// StepLength returns how far a particle moves toward (sign > 0) or away from
// a neighbor at distance d, and whether the min distance clamp applied.
func StepLength(d, strength, minDist, sign float64) (float64, bool) {
	if d-strength < minDist {
		return clampInfluence(d, minDist, sign), true
	}
	return strength, false
}

// clampInfluence limits a move that would end inside min distance.
// Attraction never closes a gap that is already below it.
func clampInfluence(d, minDist, sign float64) float64 {
	if sign > 0 {
		return math.Max(0, d-minDist)
	}
	return math.Abs(d - minDist)
}
