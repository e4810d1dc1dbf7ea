package main

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/morsefield/systems"
)

// ramp runs from empty to densest.
const ramp = " .:-=+*#%@"

// Density bins particle positions into a cols x rows grid covering the box.
// Particles outside the box are not counted.
func Density(particles []systems.Particle, bounds r2.Vec, cols, rows int) []int {
	counts := make([]int, cols*rows)
	if cols <= 0 || rows <= 0 || !(bounds.X > 0) || !(bounds.Y > 0) {
		return counts
	}
	sx := float64(cols) / bounds.X
	sy := float64(rows) / bounds.Y
	for i := range particles {
		p := particles[i].Pos
		if p.X < 0 || p.Y < 0 || p.X >= bounds.X || p.Y >= bounds.Y {
			continue
		}
		c := min(int(p.X*sx), cols-1)
		r := min(int(p.Y*sy), rows-1)
		counts[r*cols+c]++
	}
	return counts
}

// Shade maps counts to ramp characters on a log scale relative to the
// fullest cell. Any occupied cell gets at least the first visible shade.
func Shade(counts []int, cols, rows int) []string {
	peak := 0
	for _, c := range counts {
		peak = max(peak, c)
	}
	lines := make([]string, rows)
	var sb strings.Builder
	for r := range rows {
		sb.Reset()
		for c := range cols {
			sb.WriteByte(shadeOf(counts[r*cols+c], peak))
		}
		lines[r] = sb.String()
	}
	return lines
}

func shadeOf(count, peak int) byte {
	if count <= 0 || peak <= 0 {
		return ramp[0]
	}
	steps := len(ramp) - 2
	idx := 1 + int(float64(steps)*math.Log1p(float64(count))/math.Log1p(float64(peak)))
	return ramp[min(idx, len(ramp)-1)]
}
