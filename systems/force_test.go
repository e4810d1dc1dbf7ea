package systems

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestMorseForce_Shape(t *testing.T) {
	m := Morse{Depth: 2, Width: 1.5, Equilibrium: 3}

	if f := MorseForce(m.Equilibrium, m); f != 0 {
		t.Errorf("MorseForce(re) = %v, want 0", f)
	}
	if f := MorseForce(1, m); f <= 0 {
		t.Errorf("MorseForce(1) = %v, want repulsive (> 0)", f)
	}
	if f := MorseForce(4, m); f >= 0 {
		t.Errorf("MorseForce(4) = %v, want attractive (< 0)", f)
	}
	if f := MorseForce(100, m); math.Abs(f) > 1e-50 {
		t.Errorf("MorseForce(100) = %v, want ~0", f)
	}

	// -2*De*a*e*(1-e) at d=2: e = exp(1.5)
	e := math.Exp(1.5)
	want := -2 * 2 * 1.5 * e * (1 - e)
	if f := MorseForce(2, m); math.Abs(f-want) > 1e-12 {
		t.Errorf("MorseForce(2) = %v, want %v", f, want)
	}
}

func TestForceModel_PairDirection(t *testing.T) {
	cfg := testConfig()
	f := NewForceModel(&cfg)

	// Neighbor to the right, closer than equilibrium: pushed left.
	acc := f.Pair(r2.Vec{X: 1, Y: 0}, 1)
	if acc.X >= 0 || acc.Y != 0 {
		t.Errorf("Pair(close) = %v, want pointing -X", acc)
	}

	// Farther than equilibrium: pulled right.
	acc = f.Pair(r2.Vec{X: 3, Y: 0}, 3)
	if acc.X <= 0 {
		t.Errorf("Pair(far) = %v, want pointing +X", acc)
	}

	// Coincident particles produce no force, not NaN.
	acc = f.Pair(r2.Vec{}, 0)
	if acc != (r2.Vec{}) {
		t.Errorf("Pair(coincident) = %v, want zero", acc)
	}
}

func TestForceModel_Global(t *testing.T) {
	cfg := testConfig()
	cfg.Gravity = 3
	cfg.Centers = []r2.Vec{{X: 10, Y: 0}, {X: 0, Y: 10}}
	f := NewForceModel(&cfg)

	acc := f.Global(r2.Vec{})
	want := r2.Vec{X: 3, Y: 3}
	if !closeVec(acc, want, 1e-12) {
		t.Errorf("Global(origin) = %v, want %v", acc, want)
	}

	// A particle sitting on a center feels only the other one.
	acc = f.Global(r2.Vec{X: 10, Y: 0})
	want = r2.Scale(3, unit(r2.Vec{X: -10, Y: 10}))
	if !closeVec(acc, want, 1e-12) {
		t.Errorf("Global(on center) = %v, want %v", acc, want)
	}

	cfg.Gravity = 0
	f = NewForceModel(&cfg)
	if acc := f.Global(r2.Vec{}); acc != (r2.Vec{}) {
		t.Errorf("Global with zero gravity = %v, want zero", acc)
	}
}

func TestForceModel_Pointer(t *testing.T) {
	cfg := testConfig()
	f := NewForceModel(&cfg)
	pos := r2.Vec{X: 0, Y: 0}
	vel := r2.Vec{X: 2, Y: 0}
	at := r2.Vec{X: 0, Y: 5}

	tests := []struct {
		name    string
		press   PointerPress
		at      r2.Vec
		wantAcc r2.Vec
		wantVel r2.Vec
	}{
		{"released", PointerNone, at, r2.Vec{}, vel},
		{"attract", PointerAttract, at, r2.Vec{X: 0, Y: 5}, r2.Vec{X: 1.8, Y: 0}},
		{"repel", PointerRepel, at, r2.Vec{X: 0, Y: -5}, r2.Vec{X: 1.8, Y: 0}},
		{"out of range", PointerAttract, r2.Vec{X: 0, Y: 20}, r2.Vec{}, vel},
		{"on the pointer", PointerAttract, pos, r2.Vec{}, r2.Vec{X: 1.8, Y: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc, v := f.Pointer(pos, vel, tt.press, tt.at)
			if !closeVec(acc, tt.wantAcc, 1e-12) {
				t.Errorf("acc = %v, want %v", acc, tt.wantAcc)
			}
			if !closeVec(v, tt.wantVel, 1e-12) {
				t.Errorf("vel = %v, want %v", v, tt.wantVel)
			}
		})
	}
}

func TestUnit_Zero(t *testing.T) {
	if u := unit(r2.Vec{}); u != (r2.Vec{}) {
		t.Errorf("unit(0) = %v, want zero", u)
	}
	if u := unit(r2.Vec{X: 3, Y: 4}); !closeVec(u, r2.Vec{X: 0.6, Y: 0.8}, 1e-15) {
		t.Errorf("unit(3,4) = %v, want (0.6, 0.8)", u)
	}
}
