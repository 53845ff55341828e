package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/plife/systems"
	"github.com/pthm-cable/plife/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title          string
	Tick           int32
	Particles      int
	Index          string
	StepsPerUpdate int
	FPS            int32
	Paused         bool
	Window         telemetry.WindowStats
	OverlaysOn     int
	OverlaysTotal  int
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Particles: %d | Index: %s | Tick: %d | FPS: %d", data.Particles, data.Index, data.Tick, data.FPS),
		10, 35, 16, rl.LightGray,
	)

	w := data.Window
	if w.WindowEndTick > 0 {
		rl.DrawText(
			fmt.Sprintf("Neighbors: %.1f avg, p90 %.0f | Isolated: %.0f%% | Clamps: %.1f%%",
				w.NeighborMean, w.NeighborP90, w.Isolated*100, w.ClampRate*100),
			10, 55, 16, rl.LightGray,
		)
	}

	statusText := "Running"
	if data.Paused {
		statusText = "PAUSED"
	}
	if data.StepsPerUpdate > 1 {
		statusText = fmt.Sprintf("%s (%dx)", statusText, data.StepsPerUpdate)
	}
	statusText = fmt.Sprintf("%s | Overlays: %d/%d", statusText, data.OverlaysOn, data.OverlaysTotal)
	rl.DrawText(statusText, 10, 75, 16, rl.Yellow)
}

// DrawControls renders the control legend at the bottom of the screen with
// the overlay key lines stacked above it.
func (h *HUD) DrawControls(screenHeight int32, controls string, overlays []string) {
	y := screenHeight - 25
	rl.DrawText(controls, 10, y, 14, rl.Gray)
	for i := len(overlays) - 1; i >= 0; i-- {
		y -= 18
		rl.DrawText(overlays[i], 10, y, 14, rl.Gray)
	}
}

// PerfPanel renders the per-phase tick timings.
type PerfPanel struct {
	renderer *Renderer
	phases   *systems.SystemRegistry
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		phases:   systems.NewSystemRegistry(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x := p.x
	y := p.y

	ids := p.phases.IDs()
	p.renderer.DrawPanel(x-6, y-6, 260, int32(len(ids))*14+50)

	rl.DrawText("Phase Timings", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Tick: %s (%.0f/s)", stats.AvgTickDuration.Round(time.Microsecond), stats.TicksPerSecond), x, y, 14, rl.Yellow)
	y += 16

	for _, phase := range ids {
		pct := stats.PhasePct[phase]
		color := rl.LightGray
		if pct > 50 {
			color = rl.Red
		} else if pct > 25 {
			color = rl.Orange
		}
		rl.DrawText(
			fmt.Sprintf("%-14s %8s %5.1f%%", p.phases.GetName(phase), stats.PhaseAvg[phase].Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
