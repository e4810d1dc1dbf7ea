package game

import (
	"time"

	"github.com/pthm-cable/morsefield/config"
)

// Throttle adapts the number of ticks run per frame to the frame rate.
// Once per second the measured fps is compared against the high and low
// marks: two fast seconds in a row start raising the multiplier, a slow
// second lowers it, never below 1.
type Throttle struct {
	multiply int
	offset   int
	adaptive bool
	high     float64
	low      float64

	frames     int
	lastReport time.Time
	lastFPS    float64
}

// NewThrottle creates a throttle from the host config.
func NewThrottle(cfg config.HostConfig) *Throttle {
	return &Throttle{
		multiply: max(cfg.TickMultiply, 1),
		adaptive: cfg.Adaptive,
		high:     float64(cfg.FPSHigh),
		low:      float64(cfg.FPSLow),
	}
}

// Multiply returns the current ticks per frame.
func (t *Throttle) Multiply() int {
	return t.multiply
}

// FPS returns the frame rate measured at the last report.
func (t *Throttle) FPS() float64 {
	return t.lastFPS
}

// Frame counts one rendered frame. When a second or more has passed since
// the last report it measures fps, adjusts the multiplier unless paused,
// and returns true.
func (t *Throttle) Frame(now time.Time, paused bool) bool {
	if t.lastReport.IsZero() {
		t.lastReport = now
		return false
	}
	t.frames++
	elapsed := now.Sub(t.lastReport).Seconds()
	if elapsed < 1 {
		return false
	}
	t.lastFPS = float64(t.frames) / elapsed
	t.frames = 0
	t.lastReport = now
	if !paused {
		t.Observe(t.lastFPS)
	}
	return true
}

// Observe applies one second's fps measurement.
func (t *Throttle) Observe(fps float64) {
	if !t.adaptive {
		return
	}

	switch {
	case fps > t.high:
		t.offset++
	case fps < t.low:
		if t.offset > 0 {
			t.offset = 0
		}
		t.offset--
	default:
		t.offset = 0
	}

	if t.offset >= 2 {
		t.multiply += t.offset - 1
	} else if t.offset <= -1 {
		t.multiply = max(t.multiply+t.offset, 1)
	}
}
