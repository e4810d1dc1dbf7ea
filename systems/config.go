package systems

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Setup errors returned by Config.Validate and NewWorld.
var (
	ErrNoParticles   = errors.New("particle count must be positive")
	ErrNoTable       = errors.New("hash table size must be positive")
	ErrCellTooSmall  = errors.New("cell size must be at least the interaction radius")
	ErrBufferSize    = errors.New("buffer size does not match particle count")
	ErrFallbackSpeed = errors.New("fallback velocity exceeds max speed")
)

// ClampPolicy selects what happens to a velocity above MaxSpeed.
type ClampPolicy uint8

const (
	// ClampScale rescales the velocity to MaxSpeed, keeping its direction.
	ClampScale ClampPolicy = iota
	// ClampFallback replaces the velocity with Config.FallbackVelocity.
	ClampFallback
)

func (c ClampPolicy) String() string {
	switch c {
	case ClampScale:
		return "scale"
	case ClampFallback:
		return "fallback"
	default:
		return fmt.Sprintf("ClampPolicy(%d)", uint8(c))
	}
}

// ParseClampPolicy parses the config spelling of a clamp policy.
func ParseClampPolicy(s string) (ClampPolicy, error) {
	switch s {
	case "", "scale":
		return ClampScale, nil
	case "fallback":
		return ClampFallback, nil
	}
	return ClampScale, fmt.Errorf("unknown clamp policy %q", s)
}

// Morse holds the pairwise force curve constants.
type Morse struct {
	Depth       float64 // De, well depth
	Width       float64 // a, inverse well width
	Equilibrium float64 // re, separation with zero force
}

// PointerConfig holds pointer interaction constants.
type PointerConfig struct {
	Radius   float64 // interaction range around the pointer
	Strength float64 // acceleration toward/away from the pointer
	Damping  float64 // fraction of velocity removed per tick while in range
}

// Config is the immutable physics record a World is built with.
type Config struct {
	Bounds            r2.Vec  // reflective boundary is [0,Bounds.X] x [0,Bounds.Y]
	Margin            float64 // safety reset fires beyond Bounds + Margin
	CellSize          float64
	InteractionRadius float64
	TableSize         uint32

	Morse   Morse
	Gravity float64
	Centers []r2.Vec
	Pointer PointerConfig

	DampBothAxes     bool // boundary damping hits both axes instead of the colliding one
	MaxSpeed         float64
	ClampPolicy      ClampPolicy
	FallbackVelocity r2.Vec
	FallbackPosition r2.Vec
}

// Validate reports configuration errors. It runs once at setup.
func (c *Config) Validate() error {
	if c.TableSize == 0 {
		return ErrNoTable
	}
	if !(c.CellSize > 0) || !(c.InteractionRadius > 0) {
		return fmt.Errorf("cell size %v and interaction radius %v must be positive", c.CellSize, c.InteractionRadius)
	}
	if c.CellSize < c.InteractionRadius {
		return fmt.Errorf("%w: cell %v < radius %v", ErrCellTooSmall, c.CellSize, c.InteractionRadius)
	}
	if !(c.Bounds.X > 0) || !(c.Bounds.Y > 0) {
		return fmt.Errorf("bounds %v must be positive", c.Bounds)
	}
	if c.Margin < 0 || math.IsInf(c.Margin, 0) || math.IsNaN(c.Margin) {
		return fmt.Errorf("margin %v must be finite and non-negative", c.Margin)
	}
	if !(c.MaxSpeed > 0) {
		return fmt.Errorf("max speed %v must be positive", c.MaxSpeed)
	}
	if r2.Norm(c.FallbackVelocity) > c.MaxSpeed {
		return fmt.Errorf("%w: |%v| > %v", ErrFallbackSpeed, c.FallbackVelocity, c.MaxSpeed)
	}
	fp := c.FallbackPosition
	if fp.X < -c.Margin || fp.X > c.Bounds.X+c.Margin || fp.Y < -c.Margin || fp.Y > c.Bounds.Y+c.Margin {
		return fmt.Errorf("fallback position %v lies outside the safety margin", fp)
	}
	if c.Pointer.Damping < 0 || c.Pointer.Damping > 1 {
		return fmt.Errorf("pointer damping %v must be within [0, 1]", c.Pointer.Damping)
	}
	return nil
}

// PointerPress is the pointer button state sent with each tick.
type PointerPress uint32

const (
	PointerNone PointerPress = iota
	PointerAttract
	PointerRepel
)

func (p PointerPress) String() string {
	switch p {
	case PointerNone:
		return "none"
	case PointerAttract:
		return "attract"
	case PointerRepel:
		return "repel"
	default:
		return fmt.Sprintf("PointerPress(%d)", uint32(p))
	}
}

// Params is the per-tick parameter block supplied by the host.
type Params struct {
	DT           float64
	PointerPress PointerPress
	PointerPos   r2.Vec

	// BoundaryDamping is the percent of velocity kept after a wall hit.
	BoundaryDamping uint32
	// GlobalVelocityDamping is the drag divisor: velocity loses 1/n per tick.
	// Zero disables drag.
	GlobalVelocityDamping uint32
}

// DefaultParams returns the parameter block the host starts with.
func DefaultParams() Params {
	return Params{
		DT:                    1.0 / 1000.0,
		BoundaryDamping:       100,
		GlobalVelocityDamping: 10000,
	}
}
