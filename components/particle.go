// Package components defines the particle record and species descriptors.
package components

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidCharacteristic is wrapped by every rejected particle update.
var ErrInvalidCharacteristic = errors.New("invalid particle characteristic")

// Vec2 is a 2D position or displacement in field units.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v * s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Kind identifies a particle type. It indexes the species registry.
type Kind uint8

// Particle is the canonical particle record. The kind is fixed at creation;
// kinematic parameters change only through the validated setters.
type Particle struct {
	// Pos is written by the field (random walk) and the interaction engine.
	Pos Vec2

	kind              Kind
	stepSize          float64
	influenceStrength float64
	influenceRadius   float64
	minDistance       float64
}

// NewParticle creates a particle of the given species at pos.
// Defaults are copied from the descriptor as-is.
func NewParticle(k Kind, sp *Species, pos Vec2) Particle {
	return Particle{
		Pos:               pos,
		kind:              k,
		stepSize:          sp.StepSize,
		influenceStrength: sp.InfluenceStrength,
		influenceRadius:   sp.InfluenceRadius,
		minDistance:       sp.MinDistance,
	}
}

// RestoreDefaults copies the overridable characteristics (step size,
// influence strength, influence radius) back from the descriptor, unvalidated
// like NewParticle. Position, kind and min distance are untouched.
func (p *Particle) RestoreDefaults(sp *Species) {
	p.stepSize = sp.StepSize
	p.influenceStrength = sp.InfluenceStrength
	p.influenceRadius = sp.InfluenceRadius
}

// Kind returns the particle type.
func (p *Particle) Kind() Kind { return p.kind }

// StepSize returns the per-axis bound of the random walk.
func (p *Particle) StepSize() float64 { return p.stepSize }

// InfluenceStrength returns the displacement applied per qualifying neighbor.
func (p *Particle) InfluenceStrength() float64 { return p.influenceStrength }

// InfluenceRadius returns the neighbor query radius.
func (p *Particle) InfluenceRadius() float64 { return p.influenceRadius }

// MinDistance returns the separation floor used by the interaction clamp.
func (p *Particle) MinDistance() float64 { return p.minDistance }

// SetStepSize sets the random walk bound. v must be positive.
func (p *Particle) SetStepSize(v float64) error {
	if !finite(v) || v <= 0 {
		return fmt.Errorf("%w: step size %v must be positive", ErrInvalidCharacteristic, v)
	}
	p.stepSize = v
	return nil
}

// SetInfluenceStrength sets the per-neighbor displacement. v must not be negative.
func (p *Particle) SetInfluenceStrength(v float64) error {
	if !finite(v) || v < 0 {
		return fmt.Errorf("%w: influence strength %v must not be negative", ErrInvalidCharacteristic, v)
	}
	p.influenceStrength = v
	return nil
}

// SetInfluenceRadius sets the neighbor query radius. v must be positive.
func (p *Particle) SetInfluenceRadius(v float64) error {
	if !finite(v) || v <= 0 {
		return fmt.Errorf("%w: influence radius %v must be positive", ErrInvalidCharacteristic, v)
	}
	p.influenceRadius = v
	return nil
}

// SetMinDistance sets the separation floor. v must not be negative.
func (p *Particle) SetMinDistance(v float64) error {
	if !finite(v) || v < 0 {
		return fmt.Errorf("%w: min distance %v must not be negative", ErrInvalidCharacteristic, v)
	}
	p.minDistance = v
	return nil
}

// SetPosition moves the particle to pos, which must lie inside [0,width) x [0,height).
func (p *Particle) SetPosition(pos Vec2, width, height float64) error {
	if !finite(pos.X) || !finite(pos.Y) {
		return fmt.Errorf("%w: position (%v, %v) is not finite", ErrInvalidCharacteristic, pos.X, pos.Y)
	}
	if pos.X < 0 || pos.X >= width || pos.Y < 0 || pos.Y >= height {
		return fmt.Errorf("%w: position (%v, %v) outside field %vx%v",
			ErrInvalidCharacteristic, pos.X, pos.Y, width, height)
	}
	p.Pos = pos
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
