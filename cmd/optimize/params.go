// Package main provides CMA-ES tuning of the Morse field parameters.
package main

import (
	"math"

	"github.com/pthm-cable/morsefield/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "global_damping", Path: "physics.global_velocity_damping", Min: 100, Max: 100000, Default: 10000},
			{Name: "morse_depth", Path: "physics.morse.depth", Min: 1000, Max: 200000, Default: 40000},
			{Name: "morse_width", Path: "physics.morse.width", Min: 0.002, Max: 0.2, Default: 0.02},
			{Name: "gravity_strength", Path: "physics.gravity.strength", Min: 0, Max: 1000, Default: 150},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)

	cfg.Physics.GlobalVelocityDamping = uint32(math.Round(clamped[0]))
	cfg.Physics.Morse.Depth = clamped[1]
	cfg.Physics.Morse.Width = clamped[2]
	cfg.Physics.Gravity.Strength = clamped[3]
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		float64(cfg.Physics.GlobalVelocityDamping),
		cfg.Physics.Morse.Depth,
		cfg.Physics.Morse.Width,
		cfg.Physics.Gravity.Strength,
	}
}

// EvalRecord is one row of optimize_log.csv. Parameter columns follow Specs order.
type EvalRecord struct {
	Eval            int     `csv:"eval"`
	Fitness         float64 `csv:"fitness"`
	Speed           float64 `csv:"speed"`
	Resets          float64 `csv:"resets"`
	Stability       float64 `csv:"stability"`
	Blowup          bool    `csv:"blowup"`
	GlobalDamping   float64 `csv:"global_damping"`
	MorseDepth      float64 `csv:"morse_depth"`
	MorseWidth      float64 `csv:"morse_width"`
	GravityStrength float64 `csv:"gravity_strength"`
}

// NewEvalRecord builds a log row from clamped parameter values.
func NewEvalRecord(eval int, fitness float64, s Score, values []float64) EvalRecord {
	return EvalRecord{
		Eval:            eval,
		Fitness:         fitness,
		Speed:           s.Speed,
		Resets:          s.Resets,
		Stability:       s.Stability,
		Blowup:          s.Blowup,
		GlobalDamping:   values[0],
		MorseDepth:      values[1],
		MorseWidth:      values[2],
		GravityStrength: values[3],
	}
}
