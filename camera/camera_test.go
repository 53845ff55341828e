package camera

import (
	"math"
	"testing"
)

func TestNew(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)

	// Should be centered on world
	if cam.X != 1280 || cam.Y != 720 {
		t.Errorf("expected camera at (1280, 720), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
}

func TestWorldToScreenCentered(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)

	// Camera center should map to screen center
	sx, sy := cam.WorldToScreen(1280, 720)
	if math.Abs(float64(sx-640)) > 0.01 || math.Abs(float64(sy-360)) > 0.01 {
		t.Errorf("expected screen center (640, 360), got (%f, %f)", sx, sy)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	for _, flip := range []bool{false, true} {
		cam := New(1280, 720, 2560, 1440)
		cam.FlipY = flip

		testCases := []struct{ sx, sy float32 }{
			{640, 360},  // center
			{100, 100},  // top-left
			{1200, 600}, // near bottom-right
		}

		for _, tc := range testCases {
			wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
			sx, sy := cam.WorldToScreen(wx, wy)
			if math.Abs(float64(sx-tc.sx)) > 0.01 || math.Abs(float64(sy-tc.sy)) > 0.01 {
				t.Errorf("flip=%v roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
					flip, tc.sx, tc.sy, wx, wy, sx, sy)
			}
		}
	}
}

func TestFlipY(t *testing.T) {
	cam := New(100, 100, 100, 100)
	cam.FlipY = true

	// World origin is at the bottom-left of the view
	_, syLow := cam.WorldToScreen(50, 10)
	_, syHigh := cam.WorldToScreen(50, 90)
	if syLow <= syHigh {
		t.Errorf("low world y drawn at %f, high at %f; want low y below high y", syLow, syHigh)
	}
	if math.Abs(float64(syLow-90)) > 0.01 {
		t.Errorf("world y=10 drawn at screen y=%f, want 90", syLow)
	}
}

func TestToroidalWrap(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)
	cam.X = 100 // Near left edge

	// Entity at world right edge should appear on the left side of screen
	sx, _ := cam.WorldToScreen(2500, 720)
	if sx >= 640 {
		t.Errorf("expected entity on left of screen, got x=%f", sx)
	}
}

func TestPanWraps(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)
	cam.X = 100

	// Pan left should wrap to right side of world
	cam.Pan(-200, 0)

	if cam.X < 2000 {
		t.Errorf("expected X to wrap around, got %f", cam.X)
	}
}

func TestPanFlipped(t *testing.T) {
	cam := New(100, 100, 200, 200)
	cam.FlipY = true
	y := cam.Y

	// Panning the view down moves toward lower world y
	cam.Pan(0, 10)
	if cam.Y >= y {
		t.Errorf("expected Y below %f after flipped pan, got %f", y, cam.Y)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)

	// MinZoom should be max(1280/2560, 720/1440) = 0.5
	if cam.MinZoom != 0.5 {
		t.Errorf("expected MinZoom 0.5, got %f", cam.MinZoom)
	}

	cam.SetZoom(0.1) // Below min
	if cam.Zoom != 0.5 {
		t.Errorf("expected zoom clamped to 0.5, got %f", cam.Zoom)
	}

	cam.SetZoom(100.0) // Above max
	if cam.Zoom != cam.MaxZoom {
		t.Errorf("expected zoom clamped to %f, got %f", cam.MaxZoom, cam.Zoom)
	}
}

func TestMinZoomPreventsDeadSpace(t *testing.T) {
	cam := New(800, 600, 1600, 800)

	// MinZoom should be max(800/1600, 600/800) = 0.75
	if math.Abs(cam.MinZoom-0.75) > 0.001 {
		t.Errorf("expected MinZoom 0.75, got %f", cam.MinZoom)
	}

	cam.SetZoom(cam.MinZoom)
	visibleH := cam.ViewportH / cam.Zoom
	if math.Abs(visibleH-cam.WorldH) > 0.01 {
		t.Errorf("at min zoom, visible height %f should equal world height %f", visibleH, cam.WorldH)
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)

	if !cam.IsVisible(1280, 720, 10) {
		t.Error("center should be visible")
	}
	if cam.IsVisible(2400, 1300, 10) {
		t.Error("far point should not be visible")
	}
	if !cam.IsVisible(600, 720, 100) {
		t.Error("edge point with large radius should be visible")
	}
}

func TestGhostPositions(t *testing.T) {
	// View covers the whole field, so edge particles get a wrapped copy.
	cam := New(100, 100, 100, 100)

	if g := cam.GhostPositions(50, 50, 2); len(g) != 0 {
		t.Errorf("center particle ghosts = %v, want none", g)
	}
	if g := cam.GhostPositions(99, 50, 2); len(g) != 1 || g[0].X > 5 {
		t.Errorf("right edge ghosts = %v, want one copy near the left edge", g)
	}
	if g := cam.GhostPositions(0.5, 0.5, 2); len(g) != 3 {
		t.Errorf("corner ghosts = %v, want 3", g)
	}
}

func TestReset(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)
	cam.X = 500
	cam.Y = 500
	cam.Zoom = 2.5

	cam.Reset()

	if cam.X != 1280 || cam.Y != 720 {
		t.Errorf("expected position (1280, 720), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
}
