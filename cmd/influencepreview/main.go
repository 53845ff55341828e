// Influence preview tool - plots how far a particle moves per neighbor as a
// function of distance, with sliders for the species descriptor.
//
// Usage: go run ./cmd/influencepreview [-config path]
package main

import (
	"flag"
	"fmt"
	"log"

	rl "github.com/gen2brain/raylib-go/raylib"
	gui "github.com/gen2brain/raylib-go/raygui"

	"github.com/pthm-cable/plife/config"
	"github.com/pthm-cable/plife/systems"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	plotSize     = 512
	plotX        = 10
	plotY        = 10
	panelWidth   = windowWidth - plotSize - 30
	samples      = 256
)

var (
	attractColor = rl.Color{R: 40, G: 150, B: 60, A: 255}
	repelColor   = rl.Color{R: 200, G: 50, B: 50, A: 255}
)

// DescriptorParams holds the slider values for one species.
type DescriptorParams struct {
	Name        string
	StepSize    float32
	Strength    float32
	Radius      float32
	MinDistance float32
}

func fromSpecies(sp config.SpeciesConfig) DescriptorParams {
	return DescriptorParams{
		Name:        sp.Name,
		StepSize:    float32(sp.StepSize),
		Strength:    float32(sp.InfluenceStrength),
		Radius:      float32(sp.InfluenceRadius),
		MinDistance: float32(sp.MinDistance),
	}
}

func main() {
	configPath := flag.String("config", "", "Config file to take species from (empty = use defaults)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	rl.InitWindow(windowWidth, windowHeight, "Influence Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	current := 0
	params := fromSpecies(cfg.Species[current])

	for !rl.WindowShouldClose() {
		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		drawPlot(params)

		panelX := float32(plotSize + 20)
		panelY := float32(10)

		rl.DrawText(fmt.Sprintf("Species %s", params.Name), int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "< Prev") {
			current = (current + len(cfg.Species) - 1) % len(cfg.Species)
			params = fromSpecies(cfg.Species[current])
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Next >") {
			current = (current + 1) % len(cfg.Species)
			params = fromSpecies(cfg.Species[current])
		}
		panelY += 45

		params.Strength = slider(panelX, &panelY, "Influence strength (step per neighbor)", params.Strength, 0, 2, "%.3f")
		params.MinDistance = slider(panelX, &panelY, "Min distance (clamp threshold)", params.MinDistance, 0, 10, "%.2f")
		params.Radius = slider(panelX, &panelY, "Influence radius (neighbor cutoff)", params.Radius, 1, 100, "%.1f")
		params.StepSize = slider(panelX, &panelY, "Step size (random walk bound)", params.StepSize, 0, 5, "%.2f")

		rl.DrawLine(int32(panelX), int32(panelY), int32(panelX)+int32(panelWidth)-20, int32(panelY), rl.LightGray)
		panelY += 15

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Reset") {
			params = fromSpecies(cfg.Species[current])
		}
		panelY += 55

		lines := yamlLines(params)
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		for _, line := range lines {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			var text string
			for _, line := range lines {
				text += line + "\n"
			}
			rl.SetClipboardText(text)
		}

		rl.EndDrawing()
	}
}

// slider draws a labelled slider and advances y past it.
func slider(x float32, y *float32, label string, value, min, max float32, format string) float32 {
	rl.DrawText(label, int32(x), int32(*y), 14, rl.Gray)
	*y += 18
	v := gui.SliderBar(
		rl.Rectangle{X: x, Y: *y, Width: float32(panelWidth - 80), Height: 20},
		fmt.Sprintf("%g", min), fmt.Sprintf("%g", max),
		value, min, max,
	)
	rl.DrawText(fmt.Sprintf(format, value), int32(x+float32(panelWidth-70)), int32(*y+2), 16, rl.DarkGray)
	*y += 35
	return v
}

// drawPlot draws step length against neighbor distance for both passes.
// Distances past the radius are never queried, so the curves stop there.
func drawPlot(p DescriptorParams) {
	rl.DrawRectangle(plotX, plotY, plotSize, plotSize, rl.White)
	rl.DrawRectangleLines(plotX, plotY, plotSize, plotSize, rl.DarkGray)

	maxD := float64(p.Radius) * 1.2
	maxStep := float64(p.MinDistance) + float64(p.Strength)
	if maxStep <= 0 {
		maxStep = 1
	}
	maxStep *= 1.2

	toScreen := func(d, step float64) rl.Vector2 {
		return rl.Vector2{
			X: plotX + float32(d/maxD)*plotSize,
			Y: plotY + plotSize - float32(step/maxStep)*plotSize,
		}
	}

	// Min distance and radius markers
	minX := toScreen(float64(p.MinDistance), 0).X
	rl.DrawLine(int32(minX), plotY, int32(minX), plotY+plotSize, rl.LightGray)
	radX := toScreen(float64(p.Radius), 0).X
	rl.DrawLine(int32(radX), plotY, int32(radX), plotY+plotSize, rl.Gray)

	var clamped int
	for _, sign := range []float64{1, -1} {
		col := attractColor
		if sign < 0 {
			col = repelColor
		}
		prev := toScreen(0, stepAt(0, p, sign))
		for i := 1; i <= samples; i++ {
			d := float64(p.Radius) * float64(i) / samples
			step, c := systems.StepLength(d, float64(p.Strength), float64(p.MinDistance), sign)
			if c && sign > 0 {
				clamped = i
			}
			cur := toScreen(d, step)
			rl.DrawLineV(prev, cur, col)
			prev = cur
		}
	}

	statsY := int32(plotY + plotSize + 15)
	rl.DrawText("attract", plotX+5, statsY, 16, attractColor)
	rl.DrawText("repel", plotX+85, statsY, 16, repelColor)
	rl.DrawText(fmt.Sprintf("x: distance 0..%.1f   y: step 0..%.2f", maxD, maxStep), plotX+5, statsY+20, 16, rl.DarkGray)
	clampDist := float64(p.Radius) * float64(clamped) / samples
	rl.DrawText(fmt.Sprintf("Clamped below distance %.2f", clampDist), plotX+5, statsY+40, 16, rl.DarkGray)
}

func stepAt(d float64, p DescriptorParams, sign float64) float64 {
	step, _ := systems.StepLength(d, float64(p.Strength), float64(p.MinDistance), sign)
	return step
}

func yamlLines(p DescriptorParams) []string {
	return []string{
		fmt.Sprintf("- name: %s", p.Name),
		fmt.Sprintf("  step_size: %.2f", p.StepSize),
		fmt.Sprintf("  influence_strength: %.3f", p.Strength),
		fmt.Sprintf("  influence_radius: %.1f", p.Radius),
		fmt.Sprintf("  min_distance: %.2f", p.MinDistance),
	}
}
