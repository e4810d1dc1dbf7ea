package telemetry

import (
	"log/slog"
	"time"

	"github.com/pthm-cable/morsefield/systems"
)

// Phase names for the simulation step. The first four are reported by
// systems.World itself.
const (
	PhaseHashEntries = systems.PhaseHashEntries
	PhaseSort        = systems.PhaseSort
	PhaseBucketIndex = systems.PhaseBucketIndex
	PhaseUpdate      = systems.PhaseUpdate
	PhaseTelemetry   = "telemetry"
)

// phaseOrder is the order phases are logged in.
var phaseOrder = []string{
	PhaseHashEntries, PhaseSort, PhaseBucketIndex, PhaseUpdate, PhaseTelemetry,
}

// Phases returns the phase names in tick order.
func Phases() []string {
	return phaseOrder
}

// maxPhases bounds the distinct phase names a collector tracks. Later names
// are not timed.
const maxPhases = 16

// PerfSample holds timing data for a single tick, indexed by phase slot.
type PerfSample struct {
	TickDuration time.Duration
	Phases       [maxPhases]time.Duration
	entered      uint32 // bit per slot
}

// PerfCollector tracks performance metrics over a rolling window. Timing a
// tick does not allocate once every phase name has been seen.
type PerfCollector struct {
	windowSize  int
	samples     []PerfSample
	writeIndex  int
	sampleCount int

	names []string       // phase name per slot
	slots map[string]int // phase name to slot

	current    PerfSample
	tickStart  time.Time
	phaseStart time.Time
	lastSlot   int // -1 between ticks

	particles int // particles updated per tick

	now func() time.Time

	// Frame timing (for graphics mode)
	lastFrameTime time.Time
	frameDuration time.Duration
}

// NewPerfCollector creates a new performance collector.
// windowSize: number of ticks to average over (e.g., 60 for 1 second at 60fps).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	p := &PerfCollector{
		windowSize: windowSize,
		samples:    make([]PerfSample, windowSize),
		slots:      make(map[string]int, maxPhases),
		lastSlot:   -1,
		now:        time.Now,
	}
	for _, name := range phaseOrder {
		p.slot(name)
	}
	return p
}

// SetParticles sets the particle count used for the update throughput.
func (p *PerfCollector) SetParticles(n int) {
	p.particles = n
}

func (p *PerfCollector) slot(name string) int {
	if i, ok := p.slots[name]; ok {
		return i
	}
	if len(p.names) == maxPhases {
		return -1
	}
	p.names = append(p.names, name)
	p.slots[name] = len(p.names) - 1
	return len(p.names) - 1
}

// StartTick begins timing a new simulation tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = p.now()
	p.current = PerfSample{}
	p.lastSlot = -1
}

// endPhase charges the time since the last phase start to that phase.
func (p *PerfCollector) endPhase(now time.Time) {
	if p.lastSlot >= 0 {
		p.current.Phases[p.lastSlot] += now.Sub(p.phaseStart)
	}
}

// StartPhase begins timing a specific phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := p.now()
	p.endPhase(now)
	p.phaseStart = now
	p.lastSlot = p.slot(phase)
	if p.lastSlot >= 0 {
		p.current.entered |= 1 << p.lastSlot
	}
}

// EndTick finishes timing the current tick and records the sample.
func (p *PerfCollector) EndTick() {
	now := p.now()
	p.endPhase(now)
	p.lastSlot = -1

	p.current.TickDuration = now.Sub(p.tickStart)
	p.samples[p.writeIndex] = p.current
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// RecordFrame records frame timing for graphics mode.
func (p *PerfCollector) RecordFrame() {
	now := p.now()
	if !p.lastFrameTime.IsZero() {
		p.frameDuration = now.Sub(p.lastFrameTime)
	}
	p.lastFrameTime = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	// Tick timing
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration

	// Phase breakdown (average durations)
	PhaseAvg map[string]time.Duration

	// Phase percentages of total tick time
	PhasePct map[string]float64

	// Throughput
	TicksPerSecond           float64
	ParticleUpdatesPerSecond float64

	// Frame timing (graphics mode)
	FrameDuration time.Duration
	FPS           float64
}

// Stats computes aggregated statistics over the current window. Only phases
// that were entered at least once appear in the maps.
func (p *PerfCollector) Stats() PerfStats {
	stats := PerfStats{
		PhaseAvg:      make(map[string]time.Duration),
		PhasePct:      make(map[string]float64),
		FrameDuration: p.frameDuration,
	}
	// Frame timing is always available (independent of tick samples)
	if p.frameDuration > 0 {
		stats.FPS = float64(time.Second) / float64(p.frameDuration)
	}
	if p.sampleCount == 0 {
		return stats
	}

	var totalTick time.Duration
	var phaseSum [maxPhases]time.Duration
	var entered uint32
	for i := 0; i < p.sampleCount; i++ {
		s := &p.samples[i]
		totalTick += s.TickDuration

		if i == 0 || s.TickDuration < stats.MinTickDuration {
			stats.MinTickDuration = s.TickDuration
		}
		stats.MaxTickDuration = max(stats.MaxTickDuration, s.TickDuration)

		for slot, d := range s.Phases {
			phaseSum[slot] += d
		}
		entered |= s.entered
	}

	avgTick := totalTick / time.Duration(p.sampleCount)
	stats.AvgTickDuration = avgTick

	for slot, name := range p.names {
		if entered&(1<<slot) == 0 {
			continue
		}
		avg := phaseSum[slot] / time.Duration(p.sampleCount)
		stats.PhaseAvg[name] = avg
		if avgTick > 0 {
			stats.PhasePct[name] = float64(avg) / float64(avgTick) * 100
		}
	}

	if avgTick > 0 {
		stats.TicksPerSecond = float64(time.Second) / float64(avgTick)
		stats.ParticleUpdatesPerSecond = stats.TicksPerSecond * float64(p.particles)
	}
	return stats
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"min_tick_us", s.MinTickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}
	if s.ParticleUpdatesPerSecond > 0 {
		attrs = append(attrs, "particle_updates_per_sec", int64(s.ParticleUpdatesPerSecond))
	}

	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}

	for _, phase := range phaseOrder {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", int(pct*10)/10.0)
		}
	}

	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
		slog.Float64("particle_updates_per_sec", s.ParticleUpdatesPerSecond),
	}

	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}

	for _, phase := range phaseOrder {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}

	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd      int64   `csv:"window_end"`
	AvgTickUS      int64   `csv:"avg_tick_us"`
	MinTickUS      int64   `csv:"min_tick_us"`
	MaxTickUS      int64   `csv:"max_tick_us"`
	TicksPerSec    float64 `csv:"ticks_per_sec"`
	UpdatesPerSec  float64 `csv:"particle_updates_per_sec"`
	FPS            float64 `csv:"fps"`
	HashEntriesPct float64 `csv:"hash_entries_pct"`
	SortPct        float64 `csv:"sort_pct"`
	BucketIndexPct float64 `csv:"bucket_index_pct"`
	UpdatePct      float64 `csv:"update_pct"`
	TelemetryPct   float64 `csv:"telemetry_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd int64) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:      windowEnd,
		AvgTickUS:      s.AvgTickDuration.Microseconds(),
		MinTickUS:      s.MinTickDuration.Microseconds(),
		MaxTickUS:      s.MaxTickDuration.Microseconds(),
		TicksPerSec:    s.TicksPerSecond,
		UpdatesPerSec:  s.ParticleUpdatesPerSecond,
		FPS:            s.FPS,
		HashEntriesPct: s.PhasePct[PhaseHashEntries],
		SortPct:        s.PhasePct[PhaseSort],
		BucketIndexPct: s.PhasePct[PhaseBucketIndex],
		UpdatePct:      s.PhasePct[PhaseUpdate],
		TelemetryPct:   s.PhasePct[PhaseTelemetry],
	}
}
