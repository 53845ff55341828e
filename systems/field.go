package systems

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/plife/components"
)

// Population is the ordered particle collection the engine works on.
type Population interface {
	Len() int
	At(i int) *components.Particle
}

// Overrides are control panel values applied to every particle.
// A zero field means the species default: clearing an override restores it.
type Overrides struct {
	StepSize          float64
	InfluenceRadius   float64
	InfluenceStrength float64
}

// IsZero reports whether no override is set.
func (o Overrides) IsZero() bool {
	return o == Overrides{}
}

// Field owns the particles and the bounded toroidal area they live on.
// Each particle is an entity in an ECS world; the entity slice fixes the index order.
type Field struct {
	width  float64
	height float64
	reg    *components.Registry

	world    *ecs.World
	mapper   *ecs.Map1[components.Particle]
	filter   *ecs.Filter1[components.Particle]
	entities []ecs.Entity
}

// NewField creates an empty field. Species defaults come from reg.
func NewField(width, height float64, reg *components.Registry) (*Field, error) {
	if !(width > 0) || !(height > 0) || math.IsInf(width, 0) || math.IsInf(height, 0) {
		return nil, fmt.Errorf("field: dimensions %gx%g must be positive", width, height)
	}
	if reg == nil {
		return nil, errors.New("field: nil species registry")
	}
	f := &Field{width: width, height: height, reg: reg}
	f.newWorld(0)
	return f, nil
}

// newWorld discards the current world and every entity in it.
func (f *Field) newWorld(capacity int) {
	f.world = ecs.NewWorld()
	f.mapper = ecs.NewMap1[components.Particle](f.world)
	f.filter = ecs.NewFilter1[components.Particle](f.world)
	f.entities = make([]ecs.Entity, 0, capacity)
}

// Width returns the field width.
func (f *Field) Width() float64 { return f.width }

// Height returns the field height.
func (f *Field) Height() float64 { return f.height }

// Registry returns the species registry particles are created from.
func (f *Field) Registry() *components.Registry { return f.reg }

// Len returns the number of particles.
func (f *Field) Len() int { return len(f.entities) }

// At returns particle i. The pointer is valid until the next reset.
func (f *Field) At(i int) *components.Particle {
	return f.mapper.Get(f.entities[i])
}

// Live counts particle entities by querying the world directly.
func (f *Field) Live() int {
	n := 0
	query := f.filter.Query()
	for query.Next() {
		n++
	}
	return n
}

// Positions appends every particle position to dst in index order.
func (f *Field) Positions(dst []components.Vec2) []components.Vec2 {
	for _, e := range f.entities {
		dst = append(dst, f.mapper.Get(e).Pos)
	}
	return dst
}

// GenerateParticles replaces the population with count particles laid out on a grid.
// cols = ceil(sqrt(count)) and rows = ceil(count/cols); each particle sits at its
// cell center, filled row by row. Kinds are drawn uniformly from kinds.
func (f *Field) GenerateParticles(count int, kinds []components.Kind, rng *rand.Rand) error {
	if count < 0 {
		return fmt.Errorf("field: particle count %d must not be negative", count)
	}
	if count > 0 && len(kinds) == 0 {
		return errors.New("field: no particle kinds to draw from")
	}
	for _, k := range kinds {
		if int(k) >= f.reg.Len() {
			return fmt.Errorf("field: kind %d: %w", k, components.ErrUnknownSpecies)
		}
	}

	f.newWorld(count)
	if count == 0 {
		return nil
	}

	cols := int(math.Ceil(math.Sqrt(float64(count))))
	rows := (count + cols - 1) / cols
	cellW := f.width / float64(cols)
	cellH := f.height / float64(rows)

	for r := 0; r < rows && len(f.entities) < count; r++ {
		for c := 0; c < cols && len(f.entities) < count; c++ {
			k := kinds[rng.Intn(len(kinds))]
			pos := components.Vec2{
				X: (float64(c) + 0.5) * cellW,
				Y: (float64(r) + 0.5) * cellH,
			}
			p := components.NewParticle(k, f.reg.Species(k), pos)
			f.entities = append(f.entities, f.mapper.NewEntity(&p))
		}
	}
	return nil
}

// Reset discards every particle and regenerates count particles of all registered kinds.
func (f *Field) Reset(count int, rng *rand.Rand) error {
	return f.GenerateParticles(count, f.reg.Kinds(), rng)
}

// Step applies one random walk tick. Each axis moves by a uniform draw from
// [-step, step] and wraps.
func (f *Field) Step(rng *rand.Rand) {
	for _, e := range f.entities {
		p := f.mapper.Get(e)
		s := p.StepSize()
		vel := components.Vec2{X: uniform(rng, s), Y: uniform(rng, s)}
		p.Pos = MoveParticle(p.Pos, vel, f.width, f.height)
	}
}

// ApplyOverrides sets every particle's overridable characteristics to the
// override, or to its species default where the override is zero.
// Values are validated before any particle is touched.
func (f *Field) ApplyOverrides(o Overrides) error {
	var check components.Particle
	if err := applyOverrides(&check, o); err != nil {
		return err
	}
	for _, e := range f.entities {
		p := f.mapper.Get(e)
		p.RestoreDefaults(f.reg.Species(p.Kind()))
		// Validated above, cannot fail.
		_ = applyOverrides(p, o)
	}
	return nil
}

func applyOverrides(p *components.Particle, o Overrides) error {
	if o.StepSize != 0 {
		if err := p.SetStepSize(o.StepSize); err != nil {
			return err
		}
	}
	if o.InfluenceRadius != 0 {
		if err := p.SetInfluenceRadius(o.InfluenceRadius); err != nil {
			return err
		}
	}
	if o.InfluenceStrength != 0 {
		if err := p.SetInfluenceStrength(o.InfluenceStrength); err != nil {
			return err
		}
	}
	return nil
}
