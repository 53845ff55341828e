package components

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/plife/config"
)

// Lookup errors.
var (
	ErrUnknownSpecies = errors.New("unknown species")
	ErrUnknownShape   = errors.New("unknown shape")
)

// Shape is the render glyph of a species.
type Shape uint8

const (
	ShapeTriangle Shape = iota
	ShapeCircle
	ShapeSquare
	ShapeDiamond
)

// ParseShape accepts the short marker ("^", "o", "s", "D") or the full name.
func ParseShape(s string) (Shape, error) {
	switch s {
	case "^", "triangle":
		return ShapeTriangle, nil
	case "o", "circle":
		return ShapeCircle, nil
	case "s", "square":
		return ShapeSquare, nil
	case "D", "diamond":
		return ShapeDiamond, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownShape, s)
}

// String returns the shape name.
func (s Shape) String() string {
	switch s {
	case ShapeTriangle:
		return "triangle"
	case ShapeCircle:
		return "circle"
	case ShapeSquare:
		return "square"
	case ShapeDiamond:
		return "diamond"
	}
	return "unknown"
}

// Glyph returns the terminal glyph for the shape.
func (s Shape) Glyph() rune {
	switch s {
	case ShapeTriangle:
		return '▲'
	case ShapeCircle:
		return '●'
	case ShapeSquare:
		return '■'
	case ShapeDiamond:
		return '◆'
	}
	return '?'
}

// Species describes a particle type: creation defaults plus appearance.
type Species struct {
	Name              string
	StepSize          float64
	InfluenceStrength float64
	InfluenceRadius   float64
	MinDistance       float64
	Color             color.RGBA
	Shape             Shape

	base colorful.Color
}

// Registry is the lookup table of configured species.
// A Kind is the position of its species in the registry.
type Registry struct {
	species []Species
	index   map[string]Kind
}

// NewRegistry builds a registry from config, failing on the first bad entry.
func NewRegistry(cfgs []config.SpeciesConfig) (*Registry, error) {
	if len(cfgs) == 0 {
		return nil, errors.New("registry: no species configured")
	}
	if len(cfgs) > math.MaxUint8+1 {
		return nil, fmt.Errorf("registry: %d species exceeds the limit of %d", len(cfgs), math.MaxUint8+1)
	}

	r := &Registry{
		species: make([]Species, 0, len(cfgs)),
		index:   make(map[string]Kind, len(cfgs)),
	}
	for i, c := range cfgs {
		if _, dup := r.index[c.Name]; dup {
			return nil, fmt.Errorf("registry: duplicate species %q", c.Name)
		}
		base, err := colorful.Hex(c.Color)
		if err != nil {
			return nil, fmt.Errorf("registry: species %q color %q: %w", c.Name, c.Color, err)
		}
		shape, err := ParseShape(c.Shape)
		if err != nil {
			return nil, fmt.Errorf("registry: species %q: %w", c.Name, err)
		}
		r.species = append(r.species, Species{
			Name:              c.Name,
			StepSize:          c.StepSize,
			InfluenceStrength: c.InfluenceStrength,
			InfluenceRadius:   c.InfluenceRadius,
			MinDistance:       c.MinDistance,
			Color:             toRGBA(base),
			Shape:             shape,
			base:              base,
		})
		r.index[c.Name] = Kind(i)
	}
	return r, nil
}

// Len returns the number of species.
func (r *Registry) Len() int { return len(r.species) }

// Kinds returns every configured kind in registry order.
func (r *Registry) Kinds() []Kind {
	kinds := make([]Kind, len(r.species))
	for i := range kinds {
		kinds[i] = Kind(i)
	}
	return kinds
}

// Species returns the descriptor for k. k must come from this registry.
func (r *Registry) Species(k Kind) *Species {
	return &r.species[k]
}

// Name returns the species name of k, or "?" for an unknown kind.
func (r *Registry) Name(k Kind) string {
	if int(k) >= len(r.species) {
		return "?"
	}
	return r.species[k].Name
}

// Lookup resolves a species name to its kind.
func (r *Registry) Lookup(name string) (Kind, error) {
	k, ok := r.index[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownSpecies, name)
	}
	return k, nil
}

// Color returns the base color of the named species.
func (r *Registry) Color(name string) (color.RGBA, error) {
	k, err := r.Lookup(name)
	if err != nil {
		return color.RGBA{}, err
	}
	return r.species[k].Color, nil
}

// Shape returns the render shape of the named species.
func (r *Registry) Shape(name string) (Shape, error) {
	k, err := r.Lookup(name)
	if err != nil {
		return 0, err
	}
	return r.species[k].Shape, nil
}

// Palette returns n distinct shades within the color family of the named species.
// The first entry is the base color.
func (r *Registry) Palette(name string, n int) ([]color.RGBA, error) {
	k, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, nil
	}

	h, s, v := r.species[k].base.Hsv()
	out := make([]color.RGBA, 0, n)
	seen := make(map[color.RGBA]bool, n)
	out = append(out, r.species[k].Color)
	seen[r.species[k].Color] = true

	// Walk value and saturation away from the base; hue stays fixed.
	for step := 1; len(out) < n; step++ {
		t := float64(step) / float64(n+step)
		shade := colorful.Hsv(h, clampUnit(s*(1-0.5*t)), clampUnit(v*(1-0.6*t))).Clamped()
		c := toRGBA(shade)
		if seen[c] {
			if step > 64*n {
				break
			}
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out, nil
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func clampUnit(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
