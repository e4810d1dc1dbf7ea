package game

import (
	"testing"
	"time"

	"github.com/pthm-cable/morsefield/config"
)

func TestThrottle_Observe(t *testing.T) {
	th := NewThrottle(config.HostConfig{TickMultiply: 1, Adaptive: true, FPSHigh: 80, FPSLow: 60})

	steps := []struct {
		fps  float64
		want int
	}{
		{90, 1}, // one fast second is not enough
		{90, 2},
		{90, 4},
		{70, 4}, // in band: offset clears
		{50, 3},
		{50, 1},
		{50, 1}, // floor
		{70, 1},
		{90, 1},
		{50, 1}, // slow drops a positive offset before counting down
		{90, 1},
		{90, 1},
		{90, 2},
	}

	for i, s := range steps {
		th.Observe(s.fps)
		if th.Multiply() != s.want {
			t.Errorf("step %d: Observe(%v) -> Multiply() = %d, want %d", i, s.fps, th.Multiply(), s.want)
		}
	}
}

func TestThrottle_NotAdaptive(t *testing.T) {
	th := NewThrottle(config.HostConfig{TickMultiply: 4, Adaptive: false, FPSHigh: 80, FPSLow: 60})
	for range 5 {
		th.Observe(10)
	}
	if th.Multiply() != 4 {
		t.Errorf("Multiply() = %d, want 4", th.Multiply())
	}
}

func TestThrottle_MinimumMultiply(t *testing.T) {
	th := NewThrottle(config.HostConfig{TickMultiply: 0})
	if th.Multiply() != 1 {
		t.Errorf("Multiply() = %d, want 1", th.Multiply())
	}
}

func TestThrottle_Frame(t *testing.T) {
	th := NewThrottle(config.HostConfig{TickMultiply: 1, Adaptive: true, FPSHigh: 80, FPSLow: 60})
	t0 := time.Unix(1000, 0)

	if th.Frame(t0, false) {
		t.Fatal("first frame reported")
	}
	for i := 1; i < 120; i++ {
		if th.Frame(t0.Add(time.Duration(i)*time.Second/120), false) {
			t.Fatalf("frame %d reported before a second passed", i)
		}
	}
	if !th.Frame(t0.Add(time.Second), false) {
		t.Fatal("frame at one second did not report")
	}
	if th.FPS() != 120 {
		t.Errorf("FPS() = %v, want 120", th.FPS())
	}

	// Paused seconds measure but do not adjust
	t1 := t0.Add(time.Second)
	for i := 1; i <= 120; i++ {
		th.Frame(t1.Add(time.Duration(i)*time.Second/120), true)
	}
	t2 := t1.Add(time.Second)
	for i := 1; i <= 120; i++ {
		th.Frame(t2.Add(time.Duration(i)*time.Second/120), false)
	}
	if th.Multiply() != 2 {
		t.Errorf("Multiply() = %d, want 2 after two fast unpaused seconds", th.Multiply())
	}
}
