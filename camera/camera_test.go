package camera

import (
	"math"
	"testing"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 0.01
}

func TestNew(t *testing.T) {
	cam := New(1200, 600, 2400, 1200)

	if cam.X != 1200 || cam.Y != 600 {
		t.Errorf("camera at (%f, %f), want (1200, 600)", cam.X, cam.Y)
	}
	if cam.Zoom != 0.5 {
		t.Errorf("Zoom = %f, want fit zoom 0.5", cam.Zoom)
	}
}

func TestFitZoomLimitingAxis(t *testing.T) {
	// 800/1600 = 0.5, 600/800 = 0.75; the narrower fit wins
	cam := New(800, 600, 1600, 800)
	if !near(cam.FitZoom(), 0.5) {
		t.Errorf("FitZoom() = %f, want 0.5", cam.FitZoom())
	}

	// Whole world width visible at fit zoom
	minX, _, maxX, _ := cam.VisibleWorldBounds()
	if !near(minX, 0) || !near(maxX, 1600) {
		t.Errorf("visible x range = [%f, %f], want [0, 1600]", minX, maxX)
	}
}

func TestWorldToScreenCentered(t *testing.T) {
	cam := New(1200, 600, 2400, 1200)

	sx, sy := cam.WorldToScreen(1200, 600)
	if !near(sx, 600) || !near(sy, 300) {
		t.Errorf("WorldToScreen(center) = (%f, %f), want (600, 300)", sx, sy)
	}

	// World corners land on viewport corners at fit zoom
	sx, sy = cam.WorldToScreen(0, 0)
	if !near(sx, 0) || !near(sy, 0) {
		t.Errorf("WorldToScreen(0, 0) = (%f, %f), want (0, 0)", sx, sy)
	}
	sx, sy = cam.WorldToScreen(2400, 1200)
	if !near(sx, 1200) || !near(sy, 600) {
		t.Errorf("WorldToScreen(max) = (%f, %f), want (1200, 600)", sx, sy)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(1200, 600, 2400, 1200)
	cam.SetZoom(2)
	cam.Pan(100, -50)

	testCases := []struct{ sx, sy float32 }{
		{600, 300},
		{100, 100},
		{1150, 550},
		{-20, 700}, // off screen
	}

	for _, tc := range testCases {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if !near(sx, tc.sx) || !near(sy, tc.sy) {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestPanStaysInWorld(t *testing.T) {
	cam := New(1200, 600, 2400, 1200)

	cam.Pan(-1e6, 1e6)
	if cam.X != 0 || cam.Y != 1200 {
		t.Errorf("camera at (%f, %f), want clamped to (0, 1200)", cam.X, cam.Y)
	}

	// Pan is in screen pixels: 100px at zoom 0.5 is 200 world units
	cam.Reset()
	cam.Pan(100, 0)
	if !near(cam.X, 1400) {
		t.Errorf("X = %f, want 1400", cam.X)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(1200, 600, 2400, 1200)

	if cam.MinZoom != 0.25 || cam.MaxZoom != 32 {
		t.Errorf("zoom range = [%f, %f], want [0.25, 32]", cam.MinZoom, cam.MaxZoom)
	}

	cam.SetZoom(0.01)
	if cam.Zoom != 0.25 {
		t.Errorf("Zoom = %f, want clamped to 0.25", cam.Zoom)
	}

	cam.SetZoom(1000)
	if cam.Zoom != 32 {
		t.Errorf("Zoom = %f, want clamped to 32", cam.Zoom)
	}
}

func TestZoomAtKeepsPointFixed(t *testing.T) {
	cam := New(1200, 600, 2400, 1200)
	wx, wy := cam.ScreenToWorld(900, 150)

	cam.ZoomAt(900, 150, 2)

	sx, sy := cam.WorldToScreen(wx, wy)
	if !near(sx, 900) || !near(sy, 150) {
		t.Errorf("anchor moved to (%f, %f), want (900, 150)", sx, sy)
	}
	if cam.Zoom != 1 {
		t.Errorf("Zoom = %f, want 1", cam.Zoom)
	}
}

func TestResizeRefits(t *testing.T) {
	cam := New(1200, 600, 2400, 1200)
	cam.Resize(600, 300)

	if cam.MinZoom != 0.125 {
		t.Errorf("MinZoom = %f, want 0.125", cam.MinZoom)
	}
	// Zoom 0.5 is still inside the new range and is kept
	if cam.Zoom != 0.5 {
		t.Errorf("Zoom = %f, want 0.5", cam.Zoom)
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(1200, 600, 2400, 1200)
	cam.SetZoom(1)
	// Visible range: (600, 300) to (1800, 900)

	if !cam.IsVisible(1200, 600, 10) {
		t.Error("center should be visible")
	}
	if cam.IsVisible(2300, 1100, 10) {
		t.Error("far point should not be visible")
	}
	if !cam.IsVisible(550, 600, 100) {
		t.Error("edge point with large radius should be visible")
	}
}

func TestReset(t *testing.T) {
	cam := New(1200, 600, 2400, 1200)
	cam.X = 500
	cam.Y = 500
	cam.Zoom = 2.5

	cam.Reset()

	if cam.X != 1200 || cam.Y != 600 {
		t.Errorf("position = (%f, %f), want (1200, 600)", cam.X, cam.Y)
	}
	if cam.Zoom != 0.5 {
		t.Errorf("Zoom = %f, want 0.5", cam.Zoom)
	}
}
