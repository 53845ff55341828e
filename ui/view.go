package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/plife/camera"
	"github.com/pthm-cable/plife/components"
	"github.com/pthm-cable/plife/game"
)

const controlsLegend = "Space: pause | R: reset | Arrows: pan | Wheel/+/-: zoom | Home: camera | </>: speed"

// View is the raylib front end: it draws the field and panels and turns
// input into game.Controls. It never touches particle state.
type View struct {
	game      *game.Game
	cam       *camera.Camera
	panel     *ControlPanel
	hud       *HUD
	perf      *PerfPanel
	inspector *Inspector
	overlays  *OverlayRegistry

	particles []game.RenderParticle
	selected  int

	screenW, screenH int32
	panelW           int32
}

// NewView builds a view for g. The window must already be open.
func NewView(g *game.Game) *View {
	cfg := g.Config()
	screenW := int32(rl.GetScreenWidth())
	screenH := int32(rl.GetScreenHeight())
	panelW := int32(cfg.Screen.PanelWidth)
	fieldW := screenW - panelW

	cam := camera.New(float64(fieldW), float64(screenH), g.Field().Width(), g.Field().Height())
	cam.FlipY = true

	return &View{
		game:      g,
		cam:       cam,
		panel:     NewControlPanel(g.Registry(), cfg.Panel, g.Controls().Count, fieldW, panelW, screenH),
		hud:       NewHUD(),
		perf:      NewPerfPanel(10, 100),
		inspector: NewInspector(fieldW-230, 10, 220),
		overlays:  NewOverlayRegistry(),
		selected:  -1,
		screenW:   screenW,
		screenH:   screenH,
		panelW:    panelW,
	}
}

// HandleInput processes keyboard and mouse input.
func (v *View) HandleInput() {
	v.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	controls := v.game.Controls()
	if rl.IsKeyPressed(rl.KeySpace) {
		controls.Paused = !controls.Paused
	}
	if rl.IsKeyPressed(rl.KeyR) {
		controls.Reset = true
		v.selected = -1
	}

	// Steps-per-update control with < > keys (comma and period)
	steps := v.game.StepsPerUpdate()
	if rl.IsKeyPressed(rl.KeyComma) && steps > 1 {
		v.game.SetStepsPerUpdate(steps - 1)
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && steps < 10 {
		v.game.SetStepsPerUpdate(steps + 1)
	}

	for key := rl.GetKeyPressed(); key != 0; key = rl.GetKeyPressed() {
		v.overlays.HandleKeyPress(key)
	}

	mouse := rl.GetMousePosition()
	if v.panel.Contains(mouse) {
		return
	}
	v.handleCameraInput()

	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		wx, wy := v.cam.ScreenToWorld(mouse.X, mouse.Y)
		i, ok := v.game.ParticleAt(components.Vec2{X: wx, Y: wy}, 8/v.cam.Zoom)
		if !ok {
			i = -1
		}
		v.selected = i
	}
}

// handleResize checks for window resize and propagates new dimensions.
func (v *View) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := int32(rl.GetScreenWidth())
	h := int32(rl.GetScreenHeight())
	if w == v.screenW && h == v.screenH {
		return
	}
	v.screenW = w
	v.screenH = h

	fieldW := w - v.panelW
	v.cam.Resize(float64(fieldW), float64(h))
	v.panel.Resize(fieldW, h)
	v.inspector.SetPosition(fieldW-230, 10)
}

// handleCameraInput processes camera pan/zoom controls.
func (v *View) handleCameraInput() {
	// Pan speed scales inversely with zoom for natural feel
	panSpeed := 8.0 / v.cam.Zoom

	if rl.IsKeyDown(rl.KeyRight) {
		v.cam.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		v.cam.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		v.cam.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		v.cam.Pan(0, -panSpeed)
	}

	if wheelMove := rl.GetMouseWheelMove(); wheelMove != 0 {
		v.cam.ZoomBy(1.0 + float64(wheelMove)*0.1)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		v.cam.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		v.cam.ZoomBy(0.8)
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		v.cam.Reset()
	}
}

// Draw renders one frame from a fresh snapshot.
func (v *View) Draw() {
	v.game.Perf().RecordFrame()
	v.particles = v.game.Snapshot(v.particles)

	rl.BeginDrawing()
	rl.ClearBackground(rl.Color{R: 12, G: 14, B: 18, A: 255})

	drawParticles(v.cam, v.particles, v.overlays.IsEnabled(OverlayGhosts))

	info, selected := v.game.Inspect(v.selected)
	if selected && v.overlays.IsEnabled(OverlayRadius) {
		drawRadius(v.cam, info.Pos, info.InfluenceRadius)
	}

	if v.overlays.IsEnabled(OverlayHUD) {
		v.hud.Draw(HUDData{
			Title:          "Particle Life",
			Tick:           v.game.Tick(),
			Particles:      len(v.particles),
			Index:          v.game.Config().Physics.Index,
			StepsPerUpdate: v.game.StepsPerUpdate(),
			FPS:            rl.GetFPS(),
			Paused:         v.game.Paused(),
			Window:         v.game.LastStats(),
			OverlaysOn:     len(v.overlays.EnabledOverlays()),
			OverlaysTotal:  len(v.overlays.All()),
		})
	}
	if v.overlays.IsEnabled(OverlayPerf) {
		v.perf.Draw(v.game.Perf().Stats())
	}
	if selected && v.overlays.IsEnabled(OverlayInspector) {
		v.inspector.Draw(InspectorData{Info: info, Color: v.particles[info.Index].Color})
	}

	v.panel.Draw(v.game.Controls())
	v.hud.DrawControls(v.screenH, controlsLegend, v.overlays.Legend())

	rl.EndDrawing()
}
