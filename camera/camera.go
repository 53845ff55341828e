// Package camera provides a 2D camera system for viewport control.
package camera

import "math"

// Camera controls the viewport into the particle field.
// Supports pan and zoom with toroidal field wrapping. World coordinates are
// float64 like particle positions; screen coordinates are float32 for raylib.
type Camera struct {
	// Position is the camera center in world coordinates
	X, Y float64

	// Zoom level (1.0 = 1:1, 2.0 = 2x magnification)
	Zoom float64

	// Viewport dimensions (screen area showing the field)
	ViewportW, ViewportH float64

	// World dimensions (for toroidal wrapping)
	WorldW, WorldH float64

	// FlipY puts the world origin at the bottom-left of the viewport.
	FlipY bool

	// Zoom constraints
	MinZoom, MaxZoom float64
}

// ScreenPoint is a position in screen pixels.
type ScreenPoint struct {
	X, Y float32
}

// New creates a camera centered on the world with the closest allowed zoom to 1:1.
func New(viewportW, viewportH, worldW, worldH float64) *Camera {
	c := &Camera{
		ViewportW: viewportW,
		ViewportH: viewportH,
		WorldW:    worldW,
		WorldH:    worldH,
		MaxZoom:   8.0,
	}
	c.MinZoom = minZoom(viewportW, viewportH, worldW, worldH)
	c.Reset()
	return c
}

// minZoom keeps the visible area within world bounds:
// at zoom Z the view spans (viewportW/Z, viewportH/Z).
func minZoom(viewportW, viewportH, worldW, worldH float64) float64 {
	return math.Max(viewportW/worldW, viewportH/worldH)
}

// WorldToScreen converts world coordinates to screen coordinates.
// For toroidal worlds, this finds the shortest path to the viewport.
func (c *Camera) WorldToScreen(wx, wy float64) (sx, sy float32) {
	dx := toroidalDelta(wx, c.X, c.WorldW)
	dy := toroidalDelta(wy, c.Y, c.WorldH)
	if c.FlipY {
		dy = -dy
	}
	return float32(c.ViewportW/2 + dx*c.Zoom), float32(c.ViewportH/2 + dy*c.Zoom)
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float64) {
	dx := (float64(sx) - c.ViewportW/2) / c.Zoom
	dy := (float64(sy) - c.ViewportH/2) / c.Zoom
	if c.FlipY {
		dy = -dy
	}
	return mod(c.X+dx, c.WorldW), mod(c.Y+dy, c.WorldH)
}

// IsVisible returns true if a circle at (wx, wy) with given screen radius
// could be visible on screen (conservative check for culling).
func (c *Camera) IsVisible(wx, wy, radius float64) bool {
	dx := toroidalDelta(wx, c.X, c.WorldW)
	dy := toroidalDelta(wy, c.Y, c.WorldH)

	halfW := c.ViewportW/(2*c.Zoom) + radius
	halfH := c.ViewportH/(2*c.Zoom) + radius
	return math.Abs(dx) <= halfW && math.Abs(dy) <= halfH
}

// GhostPositions returns additional screen positions for particles near view edges.
// These copies make shapes appear on both sides while crossing a wrapped edge.
// Returns up to 3 additional positions (plus the primary position makes 4 max for corners).
func (c *Camera) GhostPositions(wx, wy, radius float64) []ScreenPoint {
	var ghosts []ScreenPoint

	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)

	dx := toroidalDelta(wx, c.X, c.WorldW)
	dy := toroidalDelta(wy, c.Y, c.WorldH)

	needsHorizontalGhost := false
	var ghostDX float64
	if dx > halfW-radius && dx < halfW+radius {
		needsHorizontalGhost = true
		ghostDX = dx - c.WorldW
	} else if dx < -halfW+radius && dx > -halfW-radius {
		needsHorizontalGhost = true
		ghostDX = dx + c.WorldW
	}

	needsVerticalGhost := false
	var ghostDY float64
	if dy > halfH-radius && dy < halfH+radius {
		needsVerticalGhost = true
		ghostDY = dy - c.WorldH
	} else if dy < -halfH+radius && dy > -halfH-radius {
		needsVerticalGhost = true
		ghostDY = dy + c.WorldH
	}

	toScreen := func(dx, dy float64) ScreenPoint {
		if c.FlipY {
			dy = -dy
		}
		return ScreenPoint{X: float32(c.ViewportW/2 + dx*c.Zoom), Y: float32(c.ViewportH/2 + dy*c.Zoom)}
	}

	if needsHorizontalGhost {
		ghosts = append(ghosts, toScreen(ghostDX, dy))
	}
	if needsVerticalGhost {
		ghosts = append(ghosts, toScreen(dx, ghostDY))
	}
	if needsHorizontalGhost && needsVerticalGhost {
		ghosts = append(ghosts, toScreen(ghostDX, ghostDY))
	}

	return ghosts
}

// Resize updates viewport dimensions and recalculates zoom constraints.
func (c *Camera) Resize(viewportW, viewportH float64) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.MinZoom = minZoom(viewportW, viewportH, c.WorldW, c.WorldH)
	if c.Zoom < c.MinZoom {
		c.Zoom = c.MinZoom
	}
}

// Pan moves the camera by the given delta in screen pixels.
// Automatically wraps around world boundaries.
func (c *Camera) Pan(dx, dy float64) {
	if c.FlipY {
		dy = -dy
	}
	c.X = mod(c.X+dx/c.Zoom, c.WorldW)
	c.Y = mod(c.Y+dy/c.Zoom, c.WorldH)
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float64) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float64) {
	c.SetZoom(c.Zoom * factor)
}

// Reset returns the camera to the world center and 1:1 zoom (or the minimum).
func (c *Camera) Reset() {
	c.X = c.WorldW / 2
	c.Y = c.WorldH / 2
	c.Zoom = math.Max(1.0, c.MinZoom)
}

// toroidalDelta computes the shortest signed distance from 'from' to 'to'
// in a toroidal space of the given size.
func toroidalDelta(to, from, size float64) float64 {
	d := to - from
	if d > size/2 {
		d -= size
	} else if d < -size/2 {
		d += size
	}
	return d
}

// mod computes the positive modulo (Go's % can return negative).
func mod(x, m float64) float64 {
	r := math.Mod(x, m)
	if r < 0 {
		r += m
	}
	if r >= m {
		r = 0
	}
	return r
}

// clamp restricts a value to a range.
func clamp(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
