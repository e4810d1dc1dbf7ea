package systems

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func noDragParams() Params {
	p := DefaultParams()
	p.GlobalVelocityDamping = 0
	return p
}

// A particle crossing a wall flips once, then travels back inside without
// flipping again even though it is still outside for a few ticks.
func TestIntegrate_SingleFlipPerCrossing(t *testing.T) {
	cfg := testConfig()
	in := NewIntegrator(&cfg)
	params := noDragParams()
	params.DT = 0.01

	p := Particle{Pos: r2.Vec{X: 99.5, Y: 50}, Vel: r2.Vec{X: 20, Y: 0}}
	flips := 0
	for tick := 0; tick < 40; tick++ {
		before := p.Vel.X
		var ev Events
		p, ev = in.Integrate(p, r2.Vec{}, &params)
		if math.Signbit(before) != math.Signbit(p.Vel.X) {
			flips++
		}
		if ev.Reflections > 1 {
			t.Fatalf("tick %d: %d reflections on one axis", tick, ev.Reflections)
		}
	}
	if flips != 1 {
		t.Errorf("velocity flipped %d times, want 1", flips)
	}
	if p.Pos.X >= cfg.Bounds.X {
		t.Errorf("particle still outside at %v", p.Pos)
	}
}

func TestIntegrate_Reflection(t *testing.T) {
	cfg := testConfig()

	tests := []struct {
		name     string
		dampBoth bool
		damping  uint32
		p        Particle
		wantVel  r2.Vec
		wantRefl int
	}{
		{
			name:     "left wall, no loss",
			damping:  100,
			p:        Particle{Pos: r2.Vec{X: -1, Y: 50}, Vel: r2.Vec{X: -4, Y: 2}},
			wantVel:  r2.Vec{X: 4, Y: 2},
			wantRefl: 1,
		},
		{
			name:     "left wall, colliding axis damped",
			damping:  50,
			p:        Particle{Pos: r2.Vec{X: -1, Y: 50}, Vel: r2.Vec{X: -4, Y: 2}},
			wantVel:  r2.Vec{X: 2, Y: 2},
			wantRefl: 1,
		},
		{
			name:     "left wall, both axes damped",
			dampBoth: true,
			damping:  50,
			p:        Particle{Pos: r2.Vec{X: -1, Y: 50}, Vel: r2.Vec{X: -4, Y: 2}},
			wantVel:  r2.Vec{X: 2, Y: 1},
			wantRefl: 1,
		},
		{
			name:     "top wall moving inward is left alone",
			damping:  50,
			p:        Particle{Pos: r2.Vec{X: 50, Y: 101}, Vel: r2.Vec{X: 1, Y: -3}},
			wantVel:  r2.Vec{X: 1, Y: -3},
			wantRefl: 0,
		},
		{
			name:     "corner",
			damping:  100,
			p:        Particle{Pos: r2.Vec{X: 101, Y: -1}, Vel: r2.Vec{X: 3, Y: -3}},
			wantVel:  r2.Vec{X: -3, Y: 3},
			wantRefl: 2,
		},
		{
			name:     "inside",
			damping:  50,
			p:        Particle{Pos: r2.Vec{X: 50, Y: 50}, Vel: r2.Vec{X: -3, Y: 3}},
			wantVel:  r2.Vec{X: -3, Y: 3},
			wantRefl: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := cfg
			c.DampBothAxes = tt.dampBoth
			in := NewIntegrator(&c)
			params := noDragParams()
			params.BoundaryDamping = tt.damping

			got, ev := in.Integrate(tt.p, r2.Vec{}, &params)
			if !closeVec(got.Vel, tt.wantVel, 1e-12) {
				t.Errorf("vel = %v, want %v", got.Vel, tt.wantVel)
			}
			if ev.Reflections != tt.wantRefl {
				t.Errorf("reflections = %d, want %d", ev.Reflections, tt.wantRefl)
			}
			wantPos := r2.Add(tt.p.Pos, r2.Scale(params.DT, tt.wantVel))
			if !closeVec(got.Pos, wantPos, 1e-12) {
				t.Errorf("pos = %v, want %v", got.Pos, wantPos)
			}
		})
	}
}

func TestIntegrate_Drag(t *testing.T) {
	cfg := testConfig()
	in := NewIntegrator(&cfg)
	params := DefaultParams()
	params.GlobalVelocityDamping = 4

	got, _ := in.Integrate(Particle{Pos: r2.Vec{X: 50, Y: 50}, Vel: r2.Vec{X: 8, Y: -4}}, r2.Vec{}, &params)
	if want := (r2.Vec{X: 6, Y: -3}); !closeVec(got.Vel, want, 1e-12) {
		t.Errorf("vel = %v, want %v", got.Vel, want)
	}
}

func TestIntegrate_Acceleration(t *testing.T) {
	cfg := testConfig()
	in := NewIntegrator(&cfg)
	params := noDragParams()
	params.DT = 0.5

	got, _ := in.Integrate(Particle{Pos: r2.Vec{X: 50, Y: 50}}, r2.Vec{X: 2, Y: -4}, &params)
	if want := (r2.Vec{X: 1, Y: -2}); !closeVec(got.Vel, want, 1e-12) {
		t.Errorf("vel = %v, want %v", got.Vel, want)
	}
	if want := (r2.Vec{X: 50.5, Y: 49}); !closeVec(got.Pos, want, 1e-12) {
		t.Errorf("pos = %v, want %v", got.Pos, want)
	}
}

func TestIntegrate_ClampPolicy(t *testing.T) {
	tests := []struct {
		name   string
		policy ClampPolicy
		vel    r2.Vec
		want   r2.Vec
	}{
		{"scale keeps direction", ClampScale, r2.Vec{X: 300, Y: 400}, r2.Vec{X: 30, Y: 40}},
		{"fallback replaces", ClampFallback, r2.Vec{X: 300, Y: 400}, r2.Vec{X: 1, Y: -1}},
		{"under the limit", ClampScale, r2.Vec{X: 3, Y: 4}, r2.Vec{X: 3, Y: 4}},
		{"non-finite uses fallback", ClampScale, r2.Vec{X: math.Inf(1), Y: 0}, r2.Vec{X: 1, Y: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.ClampPolicy = tt.policy
			cfg.FallbackVelocity = r2.Vec{X: 1, Y: -1}
			in := NewIntegrator(&cfg)
			params := noDragParams()

			got, _ := in.Integrate(Particle{Pos: r2.Vec{X: 50, Y: 50}, Vel: tt.vel}, r2.Vec{}, &params)
			if !closeVec(got.Vel, tt.want, 1e-9) {
				t.Errorf("vel = %v, want %v", got.Vel, tt.want)
			}
		})
	}
}

func TestIntegrate_SafetyReset(t *testing.T) {
	cfg := testConfig()
	cfg.FallbackVelocity = r2.Vec{X: 0.5, Y: 0}
	in := NewIntegrator(&cfg)
	params := noDragParams()
	params.DT = 1

	tests := []struct {
		name      string
		p         Particle
		wantReset bool
	}{
		{"inside margin", Particle{Pos: r2.Vec{X: 105, Y: 50}, Vel: r2.Vec{X: -1, Y: 0}}, false},
		{"returning from the margin", Particle{Pos: r2.Vec{X: 109, Y: 50}, Vel: r2.Vec{X: -20, Y: 0}}, false},
		{"overshoots right margin", Particle{Pos: r2.Vec{X: 99, Y: 50}, Vel: r2.Vec{X: 40, Y: 0}}, true},
		{"already beyond bottom margin", Particle{Pos: r2.Vec{X: 50, Y: -20}}, true},
		{"NaN position", Particle{Pos: r2.Vec{X: math.NaN(), Y: 50}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ev := in.Integrate(tt.p, r2.Vec{}, &params)
			reset := ev.Resets == 1
			if reset != tt.wantReset {
				t.Fatalf("reset = %v, want %v (got %+v)", reset, tt.wantReset, got)
			}
			if reset && (got.Pos != cfg.FallbackPosition || got.Vel != cfg.FallbackVelocity) {
				t.Errorf("reset particle = %+v, want fallback", got)
			}
		})
	}
}
