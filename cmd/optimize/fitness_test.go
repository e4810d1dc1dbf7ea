package main

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/morsefield/config"
	"github.com/pthm-cable/morsefield/telemetry"
)

const testConfigYAML = `
world: {width: 1000, height: 1000, margin: 100}
particles: {count: 100, layout: grid, seed: 1}
hash: {cell_size: 40, table_size: 211}
physics:
  dt: 0.0009765625
  interaction_radius: 40
  morse: {depth: 100, width: 0.1, equilibrium: 20}
  gravity: {strength: 10, centers: [{x: 500, y: 500}]}
  max_speed: 1000
  fallback_position: {x: 500, y: 500}
parallel: {workers: 1, threshold: 16}
telemetry: {stats_window: 0.009765625, perf_window: 10, bookmark_history: 5}
`

func window(particles, resets int, speed, rg float64) telemetry.WindowStats {
	return telemetry.WindowStats{
		Particles:        particles,
		Resets:           resets,
		SpeedMean:        speed,
		RadiusOfGyration: rg,
	}
}

func TestScoreWindows(t *testing.T) {
	calm := []telemetry.WindowStats{
		window(100, 0, 900, 50), // warmup
		window(100, 0, 900, 50), // warmup
		window(100, 0, 100, 200),
		window(100, 10, 300, 200),
	}

	s := ScoreWindows(calm, 1000)
	if s.Blowup {
		t.Fatal("calm run scored as blowup")
	}
	if math.Abs(s.Speed-0.2) > 1e-12 {
		t.Errorf("Speed = %v, want 0.2", s.Speed)
	}
	if math.Abs(s.Resets-0.05) > 1e-12 {
		t.Errorf("Resets = %v, want 0.05", s.Resets)
	}
	if s.Stability != 0 {
		t.Errorf("Stability = %v, want 0 for a constant radius", s.Stability)
	}
	want := weightSpeed*0.2 + weightResets*0.05
	if math.Abs(s.Fitness()-want) > 1e-12 {
		t.Errorf("Fitness = %v, want %v", s.Fitness(), want)
	}
}

func TestScoreWindows_Blowup(t *testing.T) {
	tests := []struct {
		name    string
		windows []telemetry.WindowStats
	}{
		{"no windows", nil},
		{"warmup only", []telemetry.WindowStats{window(100, 0, 1, 1), window(100, 0, 1, 1)}},
		{"mass reset", []telemetry.WindowStats{
			window(100, 60, 1, 1), window(100, 0, 1, 1), window(100, 0, 1, 1),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ScoreWindows(tt.windows, 1000)
			if !s.Blowup {
				t.Error("Blowup = false, want true")
			}
			if s.Fitness() != blowupFitness {
				t.Errorf("Fitness = %v, want %v", s.Fitness(), blowupFitness)
			}
		})
	}
}

func TestParamVector_RoundTrip(t *testing.T) {
	pv := NewParamVector()
	def := pv.DefaultVector()

	back := pv.Denormalize(pv.Normalize(def))
	for i := range def {
		if math.Abs(back[i]-def[i]) > 1e-9*math.Max(1, math.Abs(def[i])) {
			t.Errorf("%s: round trip = %v, want %v", pv.Specs[i].Name, back[i], def[i])
		}
	}

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	pv.ApplyToConfig(cfg, def)
	got := pv.ExtractFromConfig(cfg)
	for i := range def {
		if got[i] != def[i] {
			t.Errorf("%s: extracted %v, want %v", pv.Specs[i].Name, got[i], def[i])
		}
	}
}

func TestParamVector_Clamp(t *testing.T) {
	pv := NewParamVector()
	low := make([]float64, pv.Dim())
	high := make([]float64, pv.Dim())
	for i := range low {
		low[i] = -1e12
		high[i] = 1e12
	}

	for i, v := range pv.Clamp(low) {
		if v != pv.Specs[i].Min {
			t.Errorf("%s: Clamp(low) = %v, want %v", pv.Specs[i].Name, v, pv.Specs[i].Min)
		}
	}
	for i, v := range pv.Clamp(high) {
		if v != pv.Specs[i].Max {
			t.Errorf("%s: Clamp(high) = %v, want %v", pv.Specs[i].Name, v, pv.Specs[i].Max)
		}
	}
}

func TestEvaluate_Headless(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(testConfigYAML), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}

	pv := NewParamVector()
	fe := NewFitnessEvaluator(pv, 50, []int64{1, 2}, cfg)
	f := fe.Evaluate(pv.DefaultVector())

	if math.IsNaN(f) || f < 0 {
		t.Errorf("Evaluate = %v, want a non-negative number", f)
	}
	if cfg.Physics.Morse.Depth != 100 {
		t.Errorf("base config Morse depth = %v, want 100 (untouched)", cfg.Physics.Morse.Depth)
	}
}
