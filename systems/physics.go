package systems

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// Events counts boundary activity produced by integrating one particle.
type Events struct {
	Reflections int
	Resets      int
}

// Add accumulates o into e.
func (e *Events) Add(o Events) {
	e.Reflections += o.Reflections
	e.Resets += o.Resets
}

// Integrator advances a particle by one tick inside the reflective box.
type Integrator struct {
	bounds      r2.Vec
	margin      float64
	dampBoth    bool
	maxSpeed    float64
	clamp       ClampPolicy
	fallbackVel r2.Vec
	fallbackPos r2.Vec
}

// NewIntegrator captures the boundary and clamp settings of cfg.
func NewIntegrator(cfg *Config) Integrator {
	return Integrator{
		bounds:      cfg.Bounds,
		margin:      cfg.Margin,
		dampBoth:    cfg.DampBothAxes,
		maxSpeed:    cfg.MaxSpeed,
		clamp:       cfg.ClampPolicy,
		fallbackVel: cfg.FallbackVelocity,
		fallbackPos: cfg.FallbackPosition,
	}
}

// Integrate applies acc to p for one tick and returns the new state.
func (in *Integrator) Integrate(p Particle, acc r2.Vec, params *Params) (Particle, Events) {
	var ev Events
	pos := p.Pos
	vel := r2.Add(p.Vel, r2.Scale(params.DT, acc))

	// A component flips only while moving outward, so a particle that is
	// already heading back in is left alone on the next tick.
	hitX := (pos.X < 0 && vel.X < 0) || (pos.X > in.bounds.X && vel.X > 0)
	hitY := (pos.Y < 0 && vel.Y < 0) || (pos.Y > in.bounds.Y && vel.Y > 0)
	if hitX {
		vel.X = -vel.X
		ev.Reflections++
	}
	if hitY {
		vel.Y = -vel.Y
		ev.Reflections++
	}
	if hitX || hitY {
		k := float64(params.BoundaryDamping) / 100
		switch {
		case in.dampBoth:
			vel = r2.Scale(k, vel)
		default:
			if hitX {
				vel.X *= k
			}
			if hitY {
				vel.Y *= k
			}
		}
	}

	if params.GlobalVelocityDamping > 0 {
		vel = r2.Scale(1-1/float64(params.GlobalVelocityDamping), vel)
	}

	vel = in.clampSpeed(vel)
	pos = r2.Add(pos, r2.Scale(params.DT, vel))

	if !in.inSafeRegion(pos) || !finite(vel) {
		pos = in.fallbackPos
		vel = in.fallbackVel
		ev.Resets++
	}
	return Particle{Pos: pos, Vel: vel}, ev
}

func (in *Integrator) clampSpeed(vel r2.Vec) r2.Vec {
	speed := r2.Norm(vel)
	// NaN compares false and falls through to the clamp.
	if speed <= in.maxSpeed {
		return vel
	}
	if in.clamp == ClampFallback || !finite(vel) {
		return in.fallbackVel
	}
	return r2.Scale(in.maxSpeed/speed, vel)
}

// inSafeRegion reports whether pos is finite and within the box grown by
// the margin.
func (in *Integrator) inSafeRegion(pos r2.Vec) bool {
	m := in.margin
	return pos.X >= -m && pos.X <= in.bounds.X+m &&
		pos.Y >= -m && pos.Y <= in.bounds.Y+m
}
