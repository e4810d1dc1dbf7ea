package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// MorseForce returns the signed pair force at separation d. Positive values
// push the pair apart; the force is zero at the equilibrium separation.
func MorseForce(d float64, m Morse) float64 {
	e := math.Exp(-m.Width * (d - m.Equilibrium))
	return -2 * m.Depth * m.Width * e * (1 - e)
}

// ForceModel sums the accelerations acting on one particle.
type ForceModel struct {
	morse   Morse
	gravity float64
	centers []r2.Vec
	pointer PointerConfig
}

// NewForceModel captures the force constants of cfg.
func NewForceModel(cfg *Config) ForceModel {
	return ForceModel{
		morse:   cfg.Morse,
		gravity: cfg.Gravity,
		centers: cfg.Centers,
		pointer: cfg.Pointer,
	}
}

// Pair returns the acceleration on a particle from a neighbor offset by
// delta (neighbor minus self) at distance dist.
func (f *ForceModel) Pair(delta r2.Vec, dist float64) r2.Vec {
	away := unitOf(r2.Scale(-1, delta), dist)
	return r2.Scale(MorseForce(dist, f.morse), away)
}

// Global returns the pull of every attraction center on pos.
func (f *ForceModel) Global(pos r2.Vec) r2.Vec {
	var acc r2.Vec
	if f.gravity == 0 {
		return acc
	}
	for _, c := range f.centers {
		acc = r2.Add(acc, r2.Scale(f.gravity, unit(r2.Sub(c, pos))))
	}
	return acc
}

// Pointer returns the pointer acceleration on a particle and its velocity
// after pointer damping. Out of range or with no button held, vel is
// returned unchanged.
func (f *ForceModel) Pointer(pos, vel r2.Vec, press PointerPress, at r2.Vec) (r2.Vec, r2.Vec) {
	if press != PointerAttract && press != PointerRepel {
		return r2.Vec{}, vel
	}
	toPointer := r2.Sub(at, pos)
	dist := r2.Norm(toPointer)
	if dist > f.pointer.Radius {
		return r2.Vec{}, vel
	}
	strength := f.pointer.Strength
	if press == PointerRepel {
		strength = -strength
	}
	acc := r2.Scale(strength, unitOf(toPointer, dist))
	return acc, r2.Scale(1-f.pointer.Damping, vel)
}
