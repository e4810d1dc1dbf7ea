package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// unitOf returns v/length, or the zero vector when length is zero.
// length must be r2.Norm(v); callers usually have it already.
func unitOf(v r2.Vec, length float64) r2.Vec {
	if length == 0 || math.IsNaN(length) || math.IsInf(length, 0) {
		return r2.Vec{}
	}
	return r2.Scale(1/length, v)
}

// unit normalizes v. Coincident points give the zero vector, not NaN.
func unit(v r2.Vec) r2.Vec {
	return unitOf(v, r2.Norm(v))
}

// finite reports whether both components are finite.
func finite(v r2.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

// Speed returns the magnitude of a velocity.
func Speed(v r2.Vec) float64 {
	return r2.Norm(v)
}
