// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/morsefield/systems"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	World     WorldConfig     `yaml:"world"`
	Particles ParticlesConfig `yaml:"particles"`
	Hash      HashConfig      `yaml:"hash"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Parallel  ParallelConfig  `yaml:"parallel"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Host      HostConfig      `yaml:"host"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds the reflective box dimensions.
type WorldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Margin float64 `yaml:"margin"` // safety reset distance beyond the box
}

// ParticlesConfig controls the initial particle state.
type ParticlesConfig struct {
	Count        int     `yaml:"count"`
	Layout       string  `yaml:"layout"` // grid or random
	Jitter       float64 `yaml:"jitter"` // grid only
	InitialSpeed float64 `yaml:"initial_speed"`
	Seed         int64   `yaml:"seed"`
}

// HashConfig sizes the spatial hash.
type HashConfig struct {
	CellSize    float64 `yaml:"cell_size"`
	TableFactor float64 `yaml:"table_factor"` // buckets per particle when table_size is 0
	TableSize   uint32  `yaml:"table_size"`
}

// Point is a 2D coordinate in config files.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Vec converts p to a gonum vector.
func (p Point) Vec() r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}

// MorseConfig holds the pair force curve.
type MorseConfig struct {
	Depth       float64 `yaml:"depth"`
	Width       float64 `yaml:"width"`
	Equilibrium float64 `yaml:"equilibrium"`
}

// GravityConfig holds the attraction centers.
type GravityConfig struct {
	Strength float64 `yaml:"strength"`
	Centers  []Point `yaml:"centers"`
}

// PointerConfig holds mouse interaction parameters.
type PointerConfig struct {
	Radius   float64 `yaml:"radius"`
	Strength float64 `yaml:"strength"`
	Damping  float64 `yaml:"damping"`
}

// BoundaryConfig holds wall collision parameters.
type BoundaryConfig struct {
	DampingPercent uint32 `yaml:"damping_percent"` // velocity kept after a hit, host-adjustable
	DampBothAxes   bool   `yaml:"damp_both_axes"`
}

// PhysicsConfig holds simulation physics parameters.
type PhysicsConfig struct {
	DT                    float64        `yaml:"dt"`
	InteractionRadius     float64        `yaml:"interaction_radius"`
	Morse                 MorseConfig    `yaml:"morse"`
	Gravity               GravityConfig  `yaml:"gravity"`
	Pointer               PointerConfig  `yaml:"pointer"`
	Boundary              BoundaryConfig `yaml:"boundary"`
	GlobalVelocityDamping uint32         `yaml:"global_velocity_damping"`
	MaxSpeed              float64        `yaml:"max_speed"`
	ClampPolicy           string         `yaml:"clamp_policy"` // scale or fallback
	FallbackVelocity      Point          `yaml:"fallback_velocity"`
	FallbackPosition      Point          `yaml:"fallback_position"`
}

// ParallelConfig sizes the worker pool.
type ParallelConfig struct {
	Workers   int `yaml:"workers"`   // 0 = GOMAXPROCS
	Threshold int `yaml:"threshold"` // items below which a pass runs inline
}

// TelemetryConfig holds telemetry and logging parameters.
type TelemetryConfig struct {
	StatsWindow     float64 `yaml:"stats_window"`     // simulated seconds per stats window
	PerfWindow      int     `yaml:"perf_window"`      // ticks in the perf rolling window
	BookmarkHistory int     `yaml:"bookmark_history"` // windows kept for bookmark detection
}

// HostConfig holds host loop parameters.
type HostConfig struct {
	TickMultiply int  `yaml:"tick_multiply"` // ticks per frame at startup
	Adaptive     bool `yaml:"adaptive"`      // adjust tick_multiply from frame rate
	FPSHigh      int  `yaml:"fps_high"`      // raise the multiplier above this
	FPSLow       int  `yaml:"fps_low"`       // lower it below this
}

// DerivedConfig holds values computed from the loaded config.
type DerivedConfig struct {
	Bounds      r2.Vec
	TableSize   uint32
	ClampPolicy systems.ClampPolicy
	Layout      systems.Layout
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() error {
	c.Derived.Bounds = r2.Vec{X: c.World.Width, Y: c.World.Height}

	c.Derived.TableSize = c.Hash.TableSize
	if c.Derived.TableSize == 0 {
		c.Derived.TableSize = systems.TableSizeFor(c.Particles.Count, c.Hash.TableFactor)
	}

	policy, err := systems.ParseClampPolicy(c.Physics.ClampPolicy)
	if err != nil {
		return fmt.Errorf("physics.clamp_policy: %w", err)
	}
	c.Derived.ClampPolicy = policy

	layout, ok := systems.ParseLayout(c.Particles.Layout)
	if !ok {
		return fmt.Errorf("particles.layout: unknown layout %q", c.Particles.Layout)
	}
	c.Derived.Layout = layout
	return nil
}

// Validate checks the loaded values. The physics record gets the same
// checks systems.NewWorld applies.
func (c *Config) Validate() error {
	if c.Particles.Count <= 0 {
		return fmt.Errorf("particles.count %d: %w", c.Particles.Count, systems.ErrNoParticles)
	}
	if !(c.Physics.DT > 0) {
		return fmt.Errorf("physics.dt %v must be positive", c.Physics.DT)
	}
	if c.Host.TickMultiply < 1 {
		return errors.New("host.tick_multiply must be at least 1")
	}
	phys := c.PhysicsConfig()
	if err := phys.Validate(); err != nil {
		return fmt.Errorf("physics: %w", err)
	}
	return nil
}

// PhysicsConfig builds the immutable physics record for systems.NewWorld.
func (c *Config) PhysicsConfig() systems.Config {
	centers := make([]r2.Vec, len(c.Physics.Gravity.Centers))
	for i, p := range c.Physics.Gravity.Centers {
		centers[i] = p.Vec()
	}
	return systems.Config{
		Bounds:            c.Derived.Bounds,
		Margin:            c.World.Margin,
		CellSize:          c.Hash.CellSize,
		InteractionRadius: c.Physics.InteractionRadius,
		TableSize:         c.Derived.TableSize,
		Morse: systems.Morse{
			Depth:       c.Physics.Morse.Depth,
			Width:       c.Physics.Morse.Width,
			Equilibrium: c.Physics.Morse.Equilibrium,
		},
		Gravity: c.Physics.Gravity.Strength,
		Centers: centers,
		Pointer: systems.PointerConfig{
			Radius:   c.Physics.Pointer.Radius,
			Strength: c.Physics.Pointer.Strength,
			Damping:  c.Physics.Pointer.Damping,
		},
		DampBothAxes:     c.Physics.Boundary.DampBothAxes,
		MaxSpeed:         c.Physics.MaxSpeed,
		ClampPolicy:      c.Derived.ClampPolicy,
		FallbackVelocity: c.Physics.FallbackVelocity.Vec(),
		FallbackPosition: c.Physics.FallbackPosition.Vec(),
	}
}

// Params returns the per-tick parameter block the host starts with.
func (c *Config) Params() systems.Params {
	return systems.Params{
		DT:                    c.Physics.DT,
		BoundaryDamping:       c.Physics.Boundary.DampingPercent,
		GlobalVelocityDamping: c.Physics.GlobalVelocityDamping,
	}
}

// Clone returns a deep copy, so runs can tweak parameters independently.
func (c *Config) Clone() *Config {
	out := *c
	out.Physics.Gravity.Centers = append([]Point(nil), c.Physics.Gravity.Centers...)
	return &out
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
