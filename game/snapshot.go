package game

import (
	"image/color"

	"github.com/pthm-cable/plife/components"
)

// RenderParticle is the read-only view of one particle handed to renderers.
type RenderParticle struct {
	Pos   components.Vec2
	Color color.RGBA
	Shape components.Shape
	Kind  components.Kind
}

// Snapshot copies every particle into dst (reset to length 0) in index order.
// Each particle takes a shade of its species palette chosen by index.
func (g *Game) Snapshot(dst []RenderParticle) []RenderParticle {
	dst = dst[:0]
	for i := 0; i < g.field.Len(); i++ {
		p := g.field.At(i)
		k := p.Kind()
		shades := g.palettes[k]
		dst = append(dst, RenderParticle{
			Pos:   p.Pos,
			Color: shades[i%len(shades)],
			Shape: g.reg.Species(k).Shape,
			Kind:  k,
		})
	}
	return dst
}
