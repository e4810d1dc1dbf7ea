package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/morsefield/systems"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}

	if cfg.Particles.Count != 35000 {
		t.Errorf("Particles.Count = %d, want 35000", cfg.Particles.Count)
	}
	if cfg.Screen.Width != 1200 || cfg.Screen.Height != 1200 {
		t.Errorf("Screen = %dx%d, want 1200x1200", cfg.Screen.Width, cfg.Screen.Height)
	}
	if cfg.Physics.DT != 0.001 {
		t.Errorf("Physics.DT = %v, want 0.001", cfg.Physics.DT)
	}
	if cfg.Derived.Bounds != (r2.Vec{X: 40000, Y: 40000}) {
		t.Errorf("Derived.Bounds = %v, want 40000x40000", cfg.Derived.Bounds)
	}
	if cfg.Derived.TableSize < 70000 {
		t.Errorf("Derived.TableSize = %d, want >= 70000", cfg.Derived.TableSize)
	}
	if cfg.Derived.ClampPolicy != systems.ClampScale {
		t.Errorf("Derived.ClampPolicy = %v, want scale", cfg.Derived.ClampPolicy)
	}

	params := cfg.Params()
	if params != systems.DefaultParams() {
		t.Errorf("Params() = %+v, want %+v", params, systems.DefaultParams())
	}
}

func TestLoad_Overlay(t *testing.T) {
	path := writeFile(t, `
particles:
  count: 500
  layout: random
hash:
  table_size: 1009
physics:
  clamp_policy: fallback
  gravity:
    centers:
      - {x: 1, y: 2}
      - {x: 3, y: 4}
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Particles.Count != 500 {
		t.Errorf("Particles.Count = %d, want 500", cfg.Particles.Count)
	}
	// Untouched keys keep their defaults
	if cfg.World.Width != 40000 {
		t.Errorf("World.Width = %v, want 40000", cfg.World.Width)
	}
	if cfg.Derived.TableSize != 1009 {
		t.Errorf("Derived.TableSize = %d, want 1009", cfg.Derived.TableSize)
	}
	if cfg.Derived.Layout != systems.LayoutRandom {
		t.Errorf("Derived.Layout = %v, want random", cfg.Derived.Layout)
	}

	phys := cfg.PhysicsConfig()
	if phys.ClampPolicy != systems.ClampFallback {
		t.Errorf("ClampPolicy = %v, want fallback", phys.ClampPolicy)
	}
	want := []r2.Vec{{X: 1, Y: 2}, {X: 3, Y: 4}}
	if len(phys.Centers) != len(want) {
		t.Fatalf("Centers = %v, want %v", phys.Centers, want)
	}
	for i := range want {
		if phys.Centers[i] != want[i] {
			t.Errorf("Centers[%d] = %v, want %v", i, phys.Centers[i], want[i])
		}
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{"no particles", "particles: {count: 0}", systems.ErrNoParticles},
		{"cell below radius", "hash: {cell_size: 10}", systems.ErrCellTooSmall},
		{"bad clamp policy", "physics: {clamp_policy: wrap}", nil},
		{"bad layout", "particles: {layout: spiral}", nil},
		{"zero dt", "physics: {dt: 0}", nil},
		{"malformed", "physics: [", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.body))
			if err == nil {
				t.Fatal("Load() = nil error, want error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Load() = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load(missing) = nil error, want error")
	}
}

func TestWriteYAML_RoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Physics.GlobalVelocityDamping = 1234

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load(written): %v", err)
	}
	if back.Physics.GlobalVelocityDamping != 1234 {
		t.Errorf("GlobalVelocityDamping = %d, want 1234", back.Physics.GlobalVelocityDamping)
	}
}

func TestCfg_PanicsBeforeInit(t *testing.T) {
	saved := global
	global = nil
	defer func() {
		global = saved
		if recover() == nil {
			t.Error("Cfg() did not panic before Init")
		}
	}()
	Cfg()
}

func TestClone_Independent(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	c := cfg.Clone()
	c.Physics.Morse.Depth = 1
	c.Physics.Gravity.Centers[0].X = -1

	if cfg.Physics.Morse.Depth == 1 {
		t.Error("Clone shares Morse depth with the original")
	}
	if cfg.Physics.Gravity.Centers[0].X == -1 {
		t.Error("Clone shares gravity centers with the original")
	}
	if c.Derived.TableSize != cfg.Derived.TableSize {
		t.Errorf("Derived.TableSize = %d, want %d", c.Derived.TableSize, cfg.Derived.TableSize)
	}
}
