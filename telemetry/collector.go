package telemetry

import "github.com/pthm-cable/morsefield/systems"

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int64
	dt                  float64

	// Current window tracking
	windowStartTick int64

	// Event counters for current window
	reflections int
	resets      int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float64) *Collector {
	ticksPerWindow := int64(windowDurationSec / dt)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordTick adds the boundary events of one tick.
func (c *Collector) RecordTick(ev systems.Events) {
	c.reflections += ev.Reflections
	c.resets += ev.Resets
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int64) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int64, field FieldStats) WindowStats {
	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		Particles: field.Particles,

		Reflections: c.reflections,
		Resets:      c.resets,

		SpeedMean: field.SpeedMean,
		SpeedStd:  field.SpeedStd,
		SpeedP50:  field.SpeedP50,
		SpeedP90:  field.SpeedP90,
		SpeedMax:  field.SpeedMax,

		KineticEnergy:    field.KineticEnergy,
		CentroidX:        field.Centroid[0],
		CentroidY:        field.Centroid[1],
		RadiusOfGyration: field.RadiusOfGyration,

		OccupiedBuckets: field.OccupiedBuckets,
		LongestRun:      field.LongestRun,
	}
	if ticks := currentTick - c.windowStartTick; ticks > 0 {
		stats.ResetsPerTick = float64(c.resets) / float64(ticks)
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.reflections = 0
	c.resets = 0

	return stats
}

// Restart begins a fresh window at tick, dropping pending counts.
func (c *Collector) Restart(tick int64) {
	c.windowStartTick = tick
	c.reflections = 0
	c.resets = 0
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int64 {
	return c.windowDurationTicks
}
