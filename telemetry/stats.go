package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/morsefield/systems"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int64   `csv:"-"`
	WindowEndTick   int64   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	Particles int `csv:"particles"`

	// Boundary events during window
	Reflections   int     `csv:"reflections"`
	Resets        int     `csv:"resets"`
	ResetsPerTick float64 `csv:"resets_per_tick"`

	// Speed distribution (sampled at window end)
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`
	SpeedMax  float64 `csv:"speed_max"`

	KineticEnergy float64 `csv:"kinetic_energy"` // sum of v²/2, unit mass

	// Shape of the field
	CentroidX        float64 `csv:"centroid_x"`
	CentroidY        float64 `csv:"centroid_y"`
	RadiusOfGyration float64 `csv:"radius_of_gyration"`

	// Spatial index load
	OccupiedBuckets int `csv:"occupied_buckets"`
	LongestRun      int `csv:"longest_run"` // most particles sharing one hash
}

// FieldStats is a snapshot of the particle field at one instant.
type FieldStats struct {
	Particles        int
	SpeedMean        float64
	SpeedStd         float64
	SpeedP50         float64
	SpeedP90         float64
	SpeedMax         float64
	KineticEnergy    float64
	Centroid         [2]float64
	RadiusOfGyration float64
	OccupiedBuckets  int
	LongestRun       int
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeSpeedStats calculates mean, std, median, p90 and max of values.
// values is sorted in place.
func ComputeSpeedStats(values []float64) (mean, std, p50, p90, max float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	if n == 1 {
		mean = values[0]
	} else {
		mean, std = stat.MeanStdDev(values, nil)
	}

	sort.Float64s(values)
	p50 = Percentile(values, 0.50)
	p90 = Percentile(values, 0.90)
	max = values[n-1]

	return mean, std, p50, p90, max
}

// ComputeFieldStats summarizes particles and sorted hash entries built from
// those same positions. scratch is reused for speeds when large enough.
func ComputeFieldStats(particles []systems.Particle, entries []systems.HashEntry, scratch []float64) (FieldStats, []float64) {
	fs := FieldStats{Particles: len(particles)}
	if len(particles) == 0 {
		return fs, scratch
	}

	speeds := scratch[:0]
	var cx, cy float64
	for _, p := range particles {
		s := systems.Speed(p.Vel)
		speeds = append(speeds, s)
		fs.KineticEnergy += 0.5 * s * s
		cx += p.Pos.X
		cy += p.Pos.Y
	}
	n := float64(len(particles))
	cx /= n
	cy /= n
	fs.Centroid = [2]float64{cx, cy}

	var sq float64
	for _, p := range particles {
		dx, dy := p.Pos.X-cx, p.Pos.Y-cy
		sq += dx*dx + dy*dy
	}
	fs.RadiusOfGyration = math.Sqrt(sq / n)

	fs.SpeedMean, fs.SpeedStd, fs.SpeedP50, fs.SpeedP90, fs.SpeedMax = ComputeSpeedStats(speeds)
	fs.OccupiedBuckets, fs.LongestRun = bucketLoad(entries)

	return fs, speeds
}

// bucketLoad counts distinct hashes and the longest run in sorted entries.
func bucketLoad(entries []systems.HashEntry) (occupied, longest int) {
	run := 0
	for i, e := range entries {
		if i == 0 || entries[i-1].Hash != e.Hash {
			occupied++
			run = 0
		}
		run++
		if run > longest {
			longest = run
		}
	}
	return occupied, longest
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStartTick),
		slog.Int64("window_end", s.WindowEndTick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("particles", s.Particles),
		slog.Int("reflections", s.Reflections),
		slog.Int("resets", s.Resets),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_std", s.SpeedStd),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("speed_max", s.SpeedMax),
		slog.Float64("kinetic_energy", s.KineticEnergy),
		slog.Float64("radius_of_gyration", s.RadiusOfGyration),
		slog.Int("occupied_buckets", s.OccupiedBuckets),
		slog.Int("longest_run", s.LongestRun),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"particles", s.Particles,
		"reflections", s.Reflections,
		"resets", s.Resets,
		"speed_mean", s.SpeedMean,
		"speed_std", s.SpeedStd,
		"speed_p50", s.SpeedP50,
		"speed_p90", s.SpeedP90,
		"speed_max", s.SpeedMax,
		"kinetic_energy", s.KineticEnergy,
		"centroid_x", s.CentroidX,
		"centroid_y", s.CentroidY,
		"radius_of_gyration", s.RadiusOfGyration,
		"occupied_buckets", s.OccupiedBuckets,
		"longest_run", s.LongestRun,
	)
}
