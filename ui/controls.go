package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/plife/components"
	"github.com/pthm-cable/plife/config"
	"github.com/pthm-cable/plife/game"
	"github.com/pthm-cable/plife/systems"
)

// ControlPanel renders the right-side panel: the two rule matrices, the
// parameter sliders and the Reset / Pause buttons. It only writes game.Controls.
type ControlPanel struct {
	renderer *Renderer
	reg      *components.Registry
	ranges   config.PanelConfig
	x, y     int32
	width    int32
	height   int32

	// Slider positions. Speed, radius and strength start at the range minimum
	// and only become overrides once moved.
	count    float32
	speed    float32
	radius   float32
	strength float32
}

// NewControlPanel creates a panel at x spanning width by height pixels.
func NewControlPanel(reg *components.Registry, ranges config.PanelConfig, count int, x, width, height int32) *ControlPanel {
	return &ControlPanel{
		renderer: NewRenderer(),
		reg:      reg,
		ranges:   ranges,
		x:        x,
		width:    width,
		height:   height,
		count:    clampf(float32(count), ranges.Count),
		speed:    float32(ranges.Speed.Min),
		radius:   float32(ranges.Radius.Min),
		strength: float32(ranges.Strength.Min),
	}
}

// Resize moves the panel to the right edge of a resized window.
func (c *ControlPanel) Resize(x, height int32) {
	c.x = x
	c.height = height
}

// Contains reports whether a screen point is over the panel.
func (c *ControlPanel) Contains(p rl.Vector2) bool {
	return p.X >= float32(c.x)
}

// Draw renders the panel and writes any changes into controls.
func (c *ControlPanel) Draw(controls *game.Controls) {
	r := c.renderer
	padding := r.Theme.Padding
	r.DrawPanel(c.x, c.y, c.width, c.height)

	x := c.x + padding
	y := c.y + padding

	y = r.DrawSectionHeader(x, y, "Attraction")
	y = c.drawMatrix(x, y+4, controls.Attraction)

	y = r.DrawSectionHeader(x, y+8, "Repulsion")
	y = c.drawMatrix(x, y+4, controls.Repulsion)

	y += 12
	sliderW := float32(c.width - padding*2 - 60)

	var changed bool
	y, changed = c.slider(x, y, sliderW, "Particles", "%.0f", &c.count, c.ranges.Count)
	if changed {
		controls.Count = int(c.count)
	}
	y, changed = c.slider(x, y, sliderW, "Speed", "%.2f", &c.speed, c.ranges.Speed)
	if changed {
		controls.Overrides.StepSize = float64(c.speed)
	}
	y, changed = c.slider(x, y, sliderW, "Radius", "%.0f", &c.radius, c.ranges.Radius)
	if changed {
		controls.Overrides.InfluenceRadius = float64(c.radius)
	}
	y, changed = c.slider(x, y, sliderW, "Strength", "%.2f", &c.strength, c.ranges.Strength)
	if changed {
		controls.Overrides.InfluenceStrength = float64(c.strength)
	}

	y += 8
	buttonW := float32(c.width-padding*3) / 2
	if gui.Button(rl.Rectangle{X: float32(x), Y: float32(y), Width: buttonW, Height: 30}, "Reset") {
		controls.Reset = true
	}
	pauseLabel := "Pause"
	if controls.Paused {
		pauseLabel = "Resume"
	}
	if gui.Button(rl.Rectangle{X: float32(x) + buttonW + float32(padding), Y: float32(y), Width: buttonW, Height: 30}, pauseLabel) {
		controls.Paused = !controls.Paused
	}
}

// slider draws a labeled slider bar and reports whether the user moved it.
func (c *ControlPanel) slider(x, y int32, w float32, label, format string, value *float32, rng config.SliderConfig) (int32, bool) {
	r := c.renderer
	rl.DrawText(label, x, y, r.Theme.FontSize, r.Theme.LabelColor)
	y += r.Theme.LineHeight

	min, max := float32(rng.Min), float32(rng.Max)
	next := gui.SliderBar(
		rl.Rectangle{X: float32(x), Y: float32(y), Width: w, Height: 20},
		"", "",
		*value, min, max,
	)
	rl.DrawText(fmt.Sprintf(format, next), x+int32(w)+8, y+4, r.Theme.FontSize, r.Theme.ValueColor)

	changed := next != *value
	*value = next
	return y + 30, changed
}

// MatrixCell is one clickable rule cell for the pair (A, B).
type MatrixCell struct {
	Rect rl.Rectangle
	A, B components.Kind
}

// matrixLayout places the upper triangle (diagonal included) of an n×n matrix
// with its first cell at (x, y).
func matrixLayout(x, y, cell float32, n int) []MatrixCell {
	cells := make([]MatrixCell, 0, n*(n+1)/2)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			cells = append(cells, MatrixCell{
				Rect: rl.Rectangle{X: x + float32(j)*cell, Y: y + float32(i)*cell, Width: cell - 2, Height: cell - 2},
				A:    components.Kind(i),
				B:    components.Kind(j),
			})
		}
	}
	return cells
}

// drawMatrix draws species labels and the toggle cells of one rule table.
// A click on a cell toggles its pair.
func (c *ControlPanel) drawMatrix(x, y int32, rules *systems.RuleTable) int32 {
	r := c.renderer
	n := c.reg.Len()
	labelW := int32(24)
	cell := float32(c.width-r.Theme.Padding*2-labelW) / float32(n)
	if cell > 28 {
		cell = 28
	}

	originX := float32(x + labelW)
	originY := float32(y + r.Theme.LineHeight)
	for _, k := range c.reg.Kinds() {
		name := c.reg.Name(k)
		rl.DrawText(name, int32(originX+float32(k)*cell+cell/2-4), y, r.Theme.FontSize, r.Theme.LabelColor)
		rl.DrawText(name, x, int32(originY+float32(k)*cell+cell/2-6), r.Theme.FontSize, r.Theme.LabelColor)
	}

	mouse := rl.GetMousePosition()
	clicked := rl.IsMouseButtonPressed(rl.MouseButtonLeft)
	for _, mc := range matrixLayout(originX, originY, cell, n) {
		if clicked && rules != nil && rl.CheckCollisionPointRec(mouse, mc.Rect) {
			rules.Toggle(mc.A, mc.B)
		}
		color := r.Theme.CellOff
		if rules.Enabled(mc.A, mc.B) {
			color = r.Theme.CellOn
		}
		rl.DrawRectangleRec(mc.Rect, color)
		rl.DrawRectangleLinesEx(mc.Rect, 1, r.Theme.PanelBorder)
	}

	return int32(originY + float32(n)*cell)
}

func clampf(v float32, rng config.SliderConfig) float32 {
	if v < float32(rng.Min) {
		return float32(rng.Min)
	}
	if v > float32(rng.Max) {
		return float32(rng.Max)
	}
	return v
}
