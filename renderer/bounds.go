package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/morsefield/camera"
	"github.com/pthm-cable/morsefield/systems"
)

var (
	boundsColor = rl.Color{R: 200, G: 200, B: 200, A: 255}
	marginColor = rl.Color{R: 120, G: 60, B: 60, A: 160}
	centerColor = rl.Color{R: 255, G: 200, B: 80, A: 255}
	gridColor   = rl.Color{R: 60, G: 70, B: 80, A: 90}
	linkColor   = rl.Color{R: 120, G: 200, B: 255, A: 140}
	focusColor  = rl.Color{R: 255, G: 255, B: 255, A: 255}
)

// maxGridLines caps grid drawing when zoomed far out.
const maxGridLines = 400

// DrawBounds draws the reflective box, the safety margin and the attraction centers.
func DrawBounds(cam *camera.Camera, bounds r2.Vec, margin float64, centers []r2.Vec) {
	drawWorldRect(cam, 0, 0, bounds.X, bounds.Y, boundsColor)
	if margin > 0 {
		drawWorldRect(cam, -margin, -margin, bounds.X+margin, bounds.Y+margin, marginColor)
	}
	for _, c := range centers {
		sx, sy := cam.WorldToScreen(float32(c.X), float32(c.Y))
		rl.DrawCircleLines(int32(sx), int32(sy), 6, centerColor)
		rl.DrawLine(int32(sx)-9, int32(sy), int32(sx)+9, int32(sy), centerColor)
		rl.DrawLine(int32(sx), int32(sy)-9, int32(sx), int32(sy)+9, centerColor)
	}
}

// DrawHashGrid draws the spatial hash cell lines inside the visible part of the box.
func DrawHashGrid(cam *camera.Camera, bounds r2.Vec, cellSize float64) {
	minX, minY, maxX, maxY := cam.VisibleWorldBounds()
	x0 := math.Max(0, float64(minX))
	y0 := math.Max(0, float64(minY))
	x1 := math.Min(bounds.X, float64(maxX))
	y1 := math.Min(bounds.Y, float64(maxY))
	if x0 >= x1 || y0 >= y1 {
		return
	}
	if (x1-x0)/cellSize+(y1-y0)/cellSize > maxGridLines {
		return
	}

	first := systems.CellOf(r2.Vec{X: x0, Y: y0}, cellSize)
	for gx := float64(first.X) * cellSize; gx <= x1; gx += cellSize {
		drawWorldLine(cam, gx, y0, gx, y1, gridColor)
	}
	for gy := float64(first.Y) * cellSize; gy <= y1; gy += cellSize {
		drawWorldLine(cam, x0, gy, x1, gy, gridColor)
	}
}

// DrawPointer outlines the pointer force radius while a button is held.
func DrawPointer(cam *camera.Camera, at r2.Vec, radius float64, press systems.PointerPress) {
	var color rl.Color
	switch press {
	case systems.PointerAttract:
		color = rl.Color{R: 80, G: 200, B: 120, A: 200}
	case systems.PointerRepel:
		color = rl.Color{R: 220, G: 80, B: 80, A: 200}
	default:
		return
	}
	sx, sy := cam.WorldToScreen(float32(at.X), float32(at.Y))
	rl.DrawCircleLines(int32(sx), int32(sy), float32(radius)*cam.Zoom, color)
}

// DrawNeighbors links particle i to each of its neighbors and rings it with
// the interaction radius.
func DrawNeighbors(cam *camera.Camera, particles []systems.Particle, i int, neighbors []systems.Neighbor, radius float64) {
	if i < 0 || i >= len(particles) {
		return
	}
	p := particles[i].Pos
	for _, n := range neighbors {
		q := r2.Add(p, n.Delta)
		drawWorldLine(cam, p.X, p.Y, q.X, q.Y, linkColor)
	}
	sx, sy := cam.WorldToScreen(float32(p.X), float32(p.Y))
	rl.DrawCircleLines(int32(sx), int32(sy), float32(radius)*cam.Zoom, linkColor)
	rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, 3, focusColor)
}

func drawWorldRect(cam *camera.Camera, x0, y0, x1, y1 float64, color rl.Color) {
	sx0, sy0 := cam.WorldToScreen(float32(x0), float32(y0))
	sx1, sy1 := cam.WorldToScreen(float32(x1), float32(y1))
	rl.DrawRectangleLinesEx(rl.Rectangle{X: sx0, Y: sy0, Width: sx1 - sx0, Height: sy1 - sy0}, 1, color)
}

func drawWorldLine(cam *camera.Camera, x0, y0, x1, y1 float64, color rl.Color) {
	sx0, sy0 := cam.WorldToScreen(float32(x0), float32(y0))
	sx1, sy1 := cam.WorldToScreen(float32(x1), float32(y1))
	rl.DrawLineV(rl.Vector2{X: sx0, Y: sy0}, rl.Vector2{X: sx1, Y: sy1}, color)
}
