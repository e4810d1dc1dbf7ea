package main

import (
	"math"

	"github.com/pthm-cable/morsefield/systems"
)

// Curve is the pair force sampled over [0, radius].
type Curve struct {
	D []float64
	F []float64

	MinF, MaxF float64
	MinAt      float64 // separation of the strongest attraction
}

// SampleCurve evaluates the Morse force at n evenly spaced separations.
func SampleCurve(m systems.Morse, radius float64, n int) Curve {
	n = max(n, 2)
	c := Curve{
		D:    make([]float64, n),
		F:    make([]float64, n),
		MinF: math.Inf(1),
		MaxF: math.Inf(-1),
	}
	for i := range n {
		d := radius * float64(i) / float64(n-1)
		f := systems.MorseForce(d, m)
		c.D[i] = d
		c.F[i] = f
		if f < c.MinF {
			c.MinF = f
			c.MinAt = d
		}
		c.MaxF = max(c.MaxF, f)
	}
	return c
}

// PeakAttraction returns where the attraction is strongest and its value:
// F' = 0 at exp(-a(d-re)) = 1/2.
func PeakAttraction(m systems.Morse) (d, f float64) {
	return m.Equilibrium + math.Ln2/m.Width, -m.Depth * m.Width / 2
}
