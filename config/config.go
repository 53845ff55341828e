// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Spatial index kinds.
const (
	IndexKDTree = "kdtree"
	IndexGrid   = "grid"
)

// Accumulation modes for interaction passes.
const (
	AccumulateSequential = "sequential"
	AccumulateBatched    = "batched"
)

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen" toml:"screen"`
	World      WorldConfig      `yaml:"world" toml:"world"`
	Population PopulationConfig `yaml:"population" toml:"population"`
	Physics    PhysicsConfig    `yaml:"physics" toml:"physics"`
	Species    []SpeciesConfig  `yaml:"species" toml:"species"`
	Rules      RulesConfig      `yaml:"rules" toml:"rules"`
	Panel      PanelConfig      `yaml:"panel" toml:"panel"`
	Telemetry  TelemetryConfig  `yaml:"telemetry" toml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-" toml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width      int `yaml:"width" toml:"width"`
	Height     int `yaml:"height" toml:"height"`
	TargetFPS  int `yaml:"target_fps" toml:"target_fps"`
	PanelWidth int `yaml:"panel_width" toml:"panel_width"` // control panel on the right edge
}

// WorldConfig holds field dimensions.
// Zero values fall back to the screen area left of the control panel.
type WorldConfig struct {
	Width  float64 `yaml:"width" toml:"width"`
	Height float64 `yaml:"height" toml:"height"`
}

// PopulationConfig holds particle creation parameters.
type PopulationConfig struct {
	Count int   `yaml:"count" toml:"count"`
	Seed  int64 `yaml:"seed" toml:"seed"` // 0 = time-based (resolved by main)
}

// PhysicsConfig holds interaction engine parameters.
type PhysicsConfig struct {
	Index        string  `yaml:"index" toml:"index"`                 // kdtree | grid
	GridCellSize float64 `yaml:"grid_cell_size" toml:"grid_cell_size"` // grid index bucket size
	RebuildEvery int     `yaml:"rebuild_every" toml:"rebuild_every"`   // rebuild index every N ticks
	Accumulation string  `yaml:"accumulation" toml:"accumulation"`     // sequential | batched
}

// SpeciesConfig defines one particle type and its creation defaults.
type SpeciesConfig struct {
	Name              string  `yaml:"name" toml:"name"`
	StepSize          float64 `yaml:"step_size" toml:"step_size"`
	InfluenceStrength float64 `yaml:"influence_strength" toml:"influence_strength"`
	InfluenceRadius   float64 `yaml:"influence_radius" toml:"influence_radius"`
	MinDistance       float64 `yaml:"min_distance" toml:"min_distance"`
	Color             string  `yaml:"color" toml:"color"` // hex, e.g. "#d03030"
	Shape             string  `yaml:"shape" toml:"shape"` // ^ o s D or triangle/circle/square/diamond
}

// RulesConfig holds the initial rule tables keyed by "A_B" pair names.
type RulesConfig struct {
	Attraction map[string]bool `yaml:"attraction" toml:"attraction"`
	Repulsion  map[string]bool `yaml:"repulsion" toml:"repulsion"`
}

// SliderConfig holds a control panel slider range.
type SliderConfig struct {
	Min float64 `yaml:"min" toml:"min"`
	Max float64 `yaml:"max" toml:"max"`
}

// PanelConfig holds control panel slider ranges.
type PanelConfig struct {
	Count    SliderConfig `yaml:"count" toml:"count"`
	Speed    SliderConfig `yaml:"speed" toml:"speed"`
	Radius   SliderConfig `yaml:"radius" toml:"radius"`
	Strength SliderConfig `yaml:"strength" toml:"strength"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow int `yaml:"stats_window" toml:"stats_window"` // ticks per stats window
	PerfWindow  int `yaml:"perf_window" toml:"perf_window"`   // ticks averaged by the perf collector
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	WorldW       float64        // effective field width
	WorldH       float64        // effective field height
	SpeciesIndex map[string]int // name -> position in Species
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns the embedded defaults.
func Default() (*Config, error) {
	return Load("")
}

// Load loads configuration from a YAML or TOML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := cfg.merge(path, data); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// merge decodes data over cfg, choosing the decoder from the file extension.
// Only fields present in the file are overwritten.
func (c *Config) merge(path string, data []byte) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), c); err != nil {
			return fmt.Errorf("parsing config file: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parsing config file: %w", err)
		}
	}
	return nil
}

// Validate reports every configuration error found.
func (c *Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		fail("screen size %dx%d must be positive", c.Screen.Width, c.Screen.Height)
	}
	if c.Screen.PanelWidth < 0 || c.Screen.PanelWidth >= c.Screen.Width {
		fail("panel width %d must be in [0, %d)", c.Screen.PanelWidth, c.Screen.Width)
	}
	if c.World.Width < 0 || c.World.Height < 0 {
		fail("world size %gx%g must not be negative", c.World.Width, c.World.Height)
	}
	if c.Population.Count < 0 {
		fail("population count %d must not be negative", c.Population.Count)
	}

	switch c.Physics.Index {
	case IndexKDTree:
	case IndexGrid:
		if c.Physics.GridCellSize <= 0 {
			fail("grid cell size %g must be positive", c.Physics.GridCellSize)
		}
	default:
		fail("unknown spatial index %q", c.Physics.Index)
	}
	if c.Physics.RebuildEvery < 1 {
		fail("rebuild_every %d must be at least 1", c.Physics.RebuildEvery)
	}
	switch c.Physics.Accumulation {
	case AccumulateSequential, AccumulateBatched:
	default:
		fail("unknown accumulation mode %q", c.Physics.Accumulation)
	}

	if len(c.Species) == 0 {
		fail("at least one species is required")
	}
	seen := make(map[string]bool, len(c.Species))
	for _, sp := range c.Species {
		switch {
		case sp.Name == "":
			fail("species name must not be empty")
		case strings.Contains(sp.Name, "_"):
			fail("species name %q must not contain '_'", sp.Name)
		case seen[sp.Name]:
			fail("duplicate species %q", sp.Name)
		}
		seen[sp.Name] = true
	}

	if c.Telemetry.StatsWindow < 1 {
		fail("stats_window %d must be at least 1", c.Telemetry.StatsWindow)
	}

	return errors.Join(errs...)
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.WorldW = c.World.Width
	if c.Derived.WorldW == 0 {
		c.Derived.WorldW = float64(c.Screen.Width - c.Screen.PanelWidth)
	}
	c.Derived.WorldH = c.World.Height
	if c.Derived.WorldH == 0 {
		c.Derived.WorldH = float64(c.Screen.Height)
	}

	c.Derived.SpeciesIndex = make(map[string]int, len(c.Species))
	for i, sp := range c.Species {
		c.Derived.SpeciesIndex[sp.Name] = i
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
