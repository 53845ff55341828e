package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/plife/camera"
	"github.com/pthm-cable/plife/components"
	"github.com/pthm-cable/plife/game"
)

// particleSize is the half-extent of a particle shape in world units.
const particleSize = 2.0

// drawParticles draws every visible particle, plus wrapped copies at the
// view edges when ghosts is set.
func drawParticles(cam *camera.Camera, particles []game.RenderParticle, ghosts bool) {
	size := float32(particleSize * cam.Zoom)
	if size < 1 {
		size = 1
	}
	for _, p := range particles {
		if !cam.IsVisible(p.Pos.X, p.Pos.Y, particleSize) {
			continue
		}
		sx, sy := cam.WorldToScreen(p.Pos.X, p.Pos.Y)
		drawShape(p.Shape, sx, sy, size, p.Color)

		if ghosts {
			for _, g := range cam.GhostPositions(p.Pos.X, p.Pos.Y, particleSize) {
				drawShape(p.Shape, g.X, g.Y, size, p.Color)
			}
		}
	}
}

// drawShape draws one marker centered at (x, y).
func drawShape(shape components.Shape, x, y, r float32, color rl.Color) {
	switch shape {
	case components.ShapeTriangle:
		// DrawTriangle requires counter-clockwise winding (screen coords: Y down)
		rl.DrawTriangle(
			rl.Vector2{X: x, Y: y - r},
			rl.Vector2{X: x - r, Y: y + r},
			rl.Vector2{X: x + r, Y: y + r},
			color,
		)
	case components.ShapeSquare:
		rl.DrawRectangleV(rl.Vector2{X: x - r, Y: y - r}, rl.Vector2{X: 2 * r, Y: 2 * r}, color)
	case components.ShapeDiamond:
		rl.DrawTriangle(rl.Vector2{X: x, Y: y - r}, rl.Vector2{X: x - r, Y: y}, rl.Vector2{X: x + r, Y: y}, color)
		rl.DrawTriangle(rl.Vector2{X: x - r, Y: y}, rl.Vector2{X: x, Y: y + r}, rl.Vector2{X: x + r, Y: y}, color)
	default:
		rl.DrawCircleV(rl.Vector2{X: x, Y: y}, r, color)
	}
}

// drawRadius circles the influence radius around a world position.
func drawRadius(cam *camera.Camera, pos components.Vec2, radius float64) {
	sx, sy := cam.WorldToScreen(pos.X, pos.Y)
	rl.DrawCircleLines(int32(sx), int32(sy), float32(radius*cam.Zoom), rl.Color{R: 255, G: 255, B: 255, A: 120})
}
