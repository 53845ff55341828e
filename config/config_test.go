package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}

	if cfg.Population.Count != 2000 {
		t.Errorf("Population.Count = %d, want 2000", cfg.Population.Count)
	}
	if cfg.Population.Seed != 42 {
		t.Errorf("Population.Seed = %d, want 42", cfg.Population.Seed)
	}
	if len(cfg.Species) != 4 {
		t.Fatalf("len(Species) = %d, want 4", len(cfg.Species))
	}
	if cfg.Derived.WorldW != 1620 || cfg.Derived.WorldH != 1080 {
		t.Errorf("world = %gx%g, want 1620x1080", cfg.Derived.WorldW, cfg.Derived.WorldH)
	}
	if got := cfg.Derived.SpeciesIndex["C"]; got != 2 {
		t.Errorf("SpeciesIndex[C] = %d, want 2", got)
	}
	if !cfg.Rules.Attraction["A_A"] {
		t.Error("expected A_A attraction enabled by default")
	}
}

func TestLoadYAMLOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "override.yaml")
	data := []byte("population:\n  count: 10\nphysics:\n  index: grid\n  rebuild_every: 3\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Population.Count != 10 {
		t.Errorf("Population.Count = %d, want 10", cfg.Population.Count)
	}
	if cfg.Physics.Index != IndexGrid {
		t.Errorf("Physics.Index = %q, want %q", cfg.Physics.Index, IndexGrid)
	}
	if cfg.Physics.RebuildEvery != 3 {
		t.Errorf("Physics.RebuildEvery = %d, want 3", cfg.Physics.RebuildEvery)
	}
	// Untouched keys keep their defaults
	if cfg.Population.Seed != 42 {
		t.Errorf("Population.Seed = %d, want 42", cfg.Population.Seed)
	}
}

func TestLoadTOMLOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "override.toml")
	data := []byte("[world]\nwidth = 100.0\nheight = 50.0\n\n[physics]\naccumulation = \"batched\"\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Derived.WorldW != 100 || cfg.Derived.WorldH != 50 {
		t.Errorf("world = %gx%g, want 100x50", cfg.Derived.WorldW, cfg.Derived.WorldH)
	}
	if cfg.Physics.Accumulation != AccumulateBatched {
		t.Errorf("Physics.Accumulation = %q, want %q", cfg.Physics.Accumulation, AccumulateBatched)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown index", func(c *Config) { c.Physics.Index = "octree" }},
		{"zero grid cell", func(c *Config) { c.Physics.Index = IndexGrid; c.Physics.GridCellSize = 0 }},
		{"zero rebuild cadence", func(c *Config) { c.Physics.RebuildEvery = 0 }},
		{"unknown accumulation", func(c *Config) { c.Physics.Accumulation = "averaged" }},
		{"negative count", func(c *Config) { c.Population.Count = -1 }},
		{"no species", func(c *Config) { c.Species = nil }},
		{"duplicate species", func(c *Config) { c.Species = append(c.Species, c.Species[0]) }},
		{"underscore in name", func(c *Config) { c.Species[0].Name = "A_1" }},
		{"panel wider than screen", func(c *Config) { c.Screen.PanelWidth = c.Screen.Width }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Default()
			if err != nil {
				t.Fatal(err)
			}
			tc.mutate(cfg)
			err = cfg.Validate()
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	cfg.Population.Count = 77

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if loaded.Population.Count != 77 {
		t.Errorf("Population.Count = %d, want 77", loaded.Population.Count)
	}
}
