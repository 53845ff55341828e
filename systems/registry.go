package systems

import "github.com/pthm-cable/plife/telemetry"

// SystemInfo describes a tick phase for UI display.
type SystemInfo struct {
	ID          string // Phase identifier used by the perf collector
	Name        string // Display name
	Description string // What this phase does
}

// SystemRegistry holds metadata about the tick phases.
// This centralizes phase naming so the UI and perf tracker stay in sync.
type SystemRegistry struct {
	systems []SystemInfo
	byID    map[string]SystemInfo
}

// NewSystemRegistry creates a registry with every tick phase in execution order.
func NewSystemRegistry() *SystemRegistry {
	reg := &SystemRegistry{
		byID: make(map[string]SystemInfo),
	}
	reg.registerDefaults()
	return reg
}

// registerDefaults must list every entry of telemetry.Phases.
func (r *SystemRegistry) registerDefaults() {
	r.Register(SystemInfo{ID: telemetry.PhaseControls, Name: "Controls", Description: "Applies pending panel changes"})
	r.Register(SystemInfo{ID: telemetry.PhaseRandomWalk, Name: "Random Walk", Description: "Moves every particle by a random step"})
	r.Register(SystemInfo{ID: telemetry.PhaseSpatialIndex, Name: "Spatial Index", Description: "Rebuilds the neighbor index"})
	r.Register(SystemInfo{ID: telemetry.PhaseAttract, Name: "Attract", Description: "Pulls particles toward enabled neighbors"})
	r.Register(SystemInfo{ID: telemetry.PhaseRepel, Name: "Repel", Description: "Pushes particles away from enabled neighbors"})
	r.Register(SystemInfo{ID: telemetry.PhaseTelemetry, Name: "Telemetry", Description: "Flushes stats windows"})
}

// Register adds a phase to the registry.
func (r *SystemRegistry) Register(info SystemInfo) {
	r.systems = append(r.systems, info)
	r.byID[info.ID] = info
}

// GetName returns the display name for a phase ID.
// Falls back to the ID itself if not found.
func (r *SystemRegistry) GetName(id string) string {
	if info, ok := r.byID[id]; ok {
		return info.Name
	}
	return id
}

// IDs returns all phase IDs in registration order.
func (r *SystemRegistry) IDs() []string {
	ids := make([]string, len(r.systems))
	for i, info := range r.systems {
		ids[i] = info.ID
	}
	return ids
}
