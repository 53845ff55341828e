package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/plife/game"
)

// InspectorData holds all the data needed to render the inspector panel.
type InspectorData struct {
	Info  game.ParticleInfo
	Color rl.Color
}

// inspectorSections describes the inspector layout.
var inspectorSections = []SectionDescriptor{
	{
		ID:    "identity",
		Title: "Particle",
		Fields: []FieldDescriptor{
			{ID: "index", Label: "Index", Widget: WidgetText, Format: "%.0f",
				Getter: func(d any) float32 { return float32(d.(InspectorData).Info.Index) }},
			{ID: "species", Label: "Species", Widget: WidgetText,
				TextGetter: func(d any) string {
					info := d.(InspectorData).Info
					return fmt.Sprintf("%s (%s)", info.Species, info.Shape)
				}},
			{ID: "color", Label: "Color", Widget: WidgetColorSwatch,
				ColorGetter: func(d any) rl.Color { return d.(InspectorData).Color }},
			{ID: "pos", Label: "Position", Widget: WidgetText,
				TextGetter: func(d any) string {
					p := d.(InspectorData).Info.Pos
					return fmt.Sprintf("%.1f, %.1f", p.X, p.Y)
				}},
		},
	},
	{
		ID:    "motion",
		Title: "Characteristics",
		Fields: []FieldDescriptor{
			{ID: "step", Label: "Step", Widget: WidgetBar, Range: FieldRange{Min: 0, Max: 2},
				Getter: func(d any) float32 { return float32(d.(InspectorData).Info.StepSize) }},
			{ID: "strength", Label: "Strength", Widget: WidgetBar, Range: FieldRange{Min: 0, Max: 1},
				Getter: func(d any) float32 { return float32(d.(InspectorData).Info.InfluenceStrength) }},
			{ID: "radius", Label: "Radius", Widget: WidgetText, Format: "%.1f",
				Getter: func(d any) float32 { return float32(d.(InspectorData).Info.InfluenceRadius) }},
			{ID: "min", Label: "Min dist", Widget: WidgetText, Format: "%.2f",
				Getter: func(d any) float32 { return float32(d.(InspectorData).Info.MinDistance) }},
		},
	},
}

// Inspector renders the particle inspection panel.
type Inspector struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewInspector creates a new inspector panel.
func NewInspector(x, y, width int32) *Inspector {
	return &Inspector{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the inspector position.
func (ins *Inspector) SetPosition(x, y int32) {
	ins.x = x
	ins.y = y
}

// Draw renders the inspector panel for the given data.
func (ins *Inspector) Draw(data InspectorData) {
	r := ins.renderer
	padding := r.Theme.Padding
	height := padding*2 + r.Theme.LineHeight*11
	r.DrawPanel(ins.x, ins.y, ins.width, height)

	y := ins.y + padding
	for _, sd := range inspectorSections {
		y = r.DrawSection(ins.x+padding, y, sd, data, ins.width-padding*2)
	}
}
