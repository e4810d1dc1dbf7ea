// Package renderer draws the particle field with raylib.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/morsefield/camera"
	"github.com/pthm-cable/morsefield/systems"
)

// ColorMode selects how particles are colored.
type ColorMode uint8

const (
	ColorBySpeed  ColorMode = iota // slow blue through to fast red
	ColorByBucket                  // hash bucket, shows the spatial index
)

// speedRamp runs from rest to max speed.
var speedRamp = [...]rl.Color{
	{R: 40, G: 80, B: 220, A: 255},
	{R: 40, G: 200, B: 220, A: 255},
	{R: 240, G: 220, B: 60, A: 255},
	{R: 240, G: 60, B: 40, A: 255},
}

// ParticleRenderer renders simulated particles.
type ParticleRenderer struct {
	Mode ColorMode

	// Size is the particle square in screen pixels.
	Size float32
}

// NewParticleRenderer creates a new particle renderer.
func NewParticleRenderer() *ParticleRenderer {
	return &ParticleRenderer{Size: 2}
}

// Draw renders all visible particles. maxSpeed scales the speed colors;
// cellSize and tableSize are used in bucket mode.
func (r *ParticleRenderer) Draw(particles []systems.Particle, cam *camera.Camera, maxSpeed, cellSize float64, tableSize uint32) {
	half := r.Size / 2
	for i := range particles {
		p := &particles[i]
		wx, wy := float32(p.Pos.X), float32(p.Pos.Y)
		if !cam.IsVisible(wx, wy, 0) {
			continue
		}

		var color rl.Color
		switch r.Mode {
		case ColorByBucket:
			h := systems.HashCell(systems.CellOf(p.Pos, cellSize), tableSize)
			color = BucketColor(h)
		default:
			color = SpeedColor(systems.Speed(p.Vel), maxSpeed)
		}

		sx, sy := cam.WorldToScreen(wx, wy)
		rl.DrawRectangleV(rl.Vector2{X: sx - half, Y: sy - half}, rl.Vector2{X: r.Size, Y: r.Size}, color)
	}
}

// SpeedColor interpolates the speed ramp. Speeds at or above maxSpeed get
// the last color.
func SpeedColor(speed, maxSpeed float64) rl.Color {
	if !(maxSpeed > 0) || !(speed > 0) {
		return speedRamp[0]
	}
	t := speed / maxSpeed
	if t >= 1 {
		return speedRamp[len(speedRamp)-1]
	}
	t *= float64(len(speedRamp) - 1)
	i := int(t)
	return lerpColor(speedRamp[i], speedRamp[i+1], float32(t-float64(i)))
}

// BucketColor maps a hash to a stable hue so neighbouring buckets differ.
func BucketColor(h uint32) rl.Color {
	hue := float32((h * 2654435761) % 360) // Knuth multiplicative scramble
	return rl.ColorFromHSV(hue, 0.7, 0.95)
}

func lerpColor(a, b rl.Color, t float32) rl.Color {
	return rl.Color{
		R: uint8(float32(a.R) + (float32(b.R)-float32(a.R))*t),
		G: uint8(float32(a.G) + (float32(b.G)-float32(a.G))*t),
		B: uint8(float32(a.B) + (float32(b.B)-float32(a.B))*t),
		A: 255,
	}
}
