package systems

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"
)

// Particle is one simulated point.
type Particle struct {
	Pos r2.Vec
	Vel r2.Vec
}

// Layout selects how initial particles are placed.
type Layout uint8

const (
	LayoutGrid Layout = iota
	LayoutRandom
)

// ParseLayout parses the config spelling of a layout.
func ParseLayout(s string) (Layout, bool) {
	switch s {
	case "", "grid":
		return LayoutGrid, true
	case "random":
		return LayoutRandom, true
	}
	return LayoutGrid, false
}

// SeedGrid places count particles on a near-square lattice covering bounds,
// each centered in its lattice cell and at rest. jitter > 0 offsets every
// particle by up to ±jitter on each axis.
func SeedGrid(count int, bounds r2.Vec, jitter float64, rng *rand.Rand) []Particle {
	if count <= 0 {
		return nil
	}
	cols := int(math.Ceil(math.Sqrt(float64(count))))
	rows := (count + cols - 1) / cols
	spacingX := bounds.X / float64(cols)
	spacingY := bounds.Y / float64(rows)

	particles := make([]Particle, count)
	for i := range particles {
		col := i % cols
		row := i / cols
		pos := r2.Vec{
			X: float64(col)*spacingX + spacingX/2,
			Y: float64(row)*spacingY + spacingY/2,
		}
		if jitter > 0 && rng != nil {
			pos.X += (rng.Float64()*2 - 1) * jitter
			pos.Y += (rng.Float64()*2 - 1) * jitter
		}
		particles[i] = Particle{Pos: pos}
	}
	return particles
}

// SeedRandom scatters count particles uniformly over bounds with velocity
// components drawn from [-speed, speed].
func SeedRandom(count int, bounds r2.Vec, speed float64, rng *rand.Rand) []Particle {
	if count <= 0 {
		return nil
	}
	particles := make([]Particle, count)
	for i := range particles {
		particles[i] = Particle{
			Pos: r2.Vec{X: rng.Float64() * bounds.X, Y: rng.Float64() * bounds.Y},
			Vel: r2.Vec{X: (rng.Float64()*2 - 1) * speed, Y: (rng.Float64()*2 - 1) * speed},
		}
	}
	return particles
}
