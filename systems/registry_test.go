package systems

import (
	"slices"
	"testing"

	"github.com/pthm-cable/plife/telemetry"
)

func TestSystemRegistryCoversPhases(t *testing.T) {
	reg := NewSystemRegistry()
	if got := reg.IDs(); !slices.Equal(got, telemetry.Phases) {
		t.Errorf("IDs() = %v, want %v", got, telemetry.Phases)
	}
	for _, id := range telemetry.Phases {
		if reg.GetName(id) == id {
			t.Errorf("GetName(%q) has no display name", id)
		}
	}
}

func TestSystemRegistryGetName(t *testing.T) {
	reg := NewSystemRegistry()

	tests := []struct {
		id   string
		want string
	}{
		{telemetry.PhaseSpatialIndex, "Spatial Index"},
		{telemetry.PhaseRandomWalk, "Random Walk"},
		{"unknown", "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := reg.GetName(tt.id); got != tt.want {
				t.Errorf("GetName(%q) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}
}
