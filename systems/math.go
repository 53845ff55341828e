package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/plife/components"
)

// wrap maps v into [0, size) with a positive modulo.
func wrap(v, size float64) float64 {
	m := math.Mod(v, size)
	if m < 0 {
		m += size
	}
	// -tiny + size rounds to size
	if m >= size {
		m = 0
	}
	return m
}

// MoveParticle returns pos displaced by vel and wrapped into the field.
func MoveParticle(pos, vel components.Vec2, width, height float64) components.Vec2 {
	return components.Vec2{
		X: wrap(pos.X+vel.X, width),
		Y: wrap(pos.Y+vel.Y, height),
	}
}

// unitToward returns the unit vector from a to b and the distance between them.
// Coincident points yield a zero vector.
func unitToward(a, b components.Vec2) (components.Vec2, float64) {
	delta := b.Sub(a)
	d := delta.Len()
	if d == 0 {
		return components.Vec2{}, 0
	}
	return components.Vec2{X: delta.X / d, Y: delta.Y / d}, d
}

// uniform returns a value drawn uniformly from [-s, s].
func uniform(r *rand.Rand, s float64) float64 {
	return s * (2*r.Float64() - 1)
}
