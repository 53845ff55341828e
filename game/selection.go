package game

import (
	"math"

	"github.com/pthm-cable/plife/components"
)

// ParticleAt returns the index of the particle nearest to pos within maxDist,
// measuring across wrapped edges. ok is false if none is that close.
func (g *Game) ParticleAt(pos components.Vec2, maxDist float64) (index int, ok bool) {
	w, h := g.field.Width(), g.field.Height()
	best := maxDist * maxDist
	index = -1
	for i := 0; i < g.field.Len(); i++ {
		p := g.field.At(i).Pos
		dx := wrappedDelta(p.X-pos.X, w)
		dy := wrappedDelta(p.Y-pos.Y, h)
		if d := dx*dx + dy*dy; d <= best {
			best = d
			index = i
		}
	}
	return index, index >= 0
}

// ParticleInfo is an inspector view of one particle.
type ParticleInfo struct {
	Index             int
	Species           string
	Shape             components.Shape
	Pos               components.Vec2
	StepSize          float64
	InfluenceStrength float64
	InfluenceRadius   float64
	MinDistance       float64
}

// Inspect describes particle i. ok is false if i is out of range, which
// happens when a selection outlives a reset.
func (g *Game) Inspect(i int) (info ParticleInfo, ok bool) {
	if i < 0 || i >= g.field.Len() {
		return ParticleInfo{}, false
	}
	p := g.field.At(i)
	return ParticleInfo{
		Index:             i,
		Species:           g.reg.Name(p.Kind()),
		Shape:             g.reg.Species(p.Kind()).Shape,
		Pos:               p.Pos,
		StepSize:          p.StepSize(),
		InfluenceStrength: p.InfluenceStrength(),
		InfluenceRadius:   p.InfluenceRadius(),
		MinDistance:       p.MinDistance(),
	}, true
}

func wrappedDelta(d, size float64) float64 {
	d = math.Abs(d)
	if d > size/2 {
		d = size - d
	}
	return d
}
