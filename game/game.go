// Package game hosts the particle field: it owns the world, the command
// queue, the tick throttle and the telemetry pipeline. It has no window
// dependency; the viewer package drives it from raylib.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sync"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/morsefield/config"
	"github.com/pthm-cable/morsefield/systems"
	"github.com/pthm-cable/morsefield/telemetry"
)

// Options configures game creation.
type Options struct {
	Seed           int64
	Headless       bool
	LogStats       bool
	StatsWindowSec float64 // 0 = use config
	OutputDir      string  // empty = no CSV output
	StepsPerUpdate int     // ticks per UpdateHeadless call, minimum 1

	// Config overrides the global config. nil = config.Cfg().
	Config *config.Config

	// StatsCallback is called with every flushed stats window.
	StatsCallback func(telemetry.WindowStats)
}

// Game holds the complete host state.
type Game struct {
	cfg *config.Config
	rng *rand.Rand

	pool    *systems.Pool
	world   *systems.World
	initial []systems.Particle
	params  systems.Params

	// Host state
	tick           int64 // total ticks, survives resets
	paused         bool
	pendingSteps   int
	stepsPerUpdate int
	throttle       *Throttle

	cmdMu    sync.Mutex
	commands []Command

	// Telemetry
	perfCollector    *telemetry.PerfCollector
	collector        *telemetry.Collector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	statsCallback    func(telemetry.WindowStats)
	logStats         bool
	lastStats        telemetry.WindowStats
	speedScratch     []float64
}

// NewGameWithOptions creates a game seeded from the configured layout.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	g := &Game{
		cfg:            cfg,
		rng:            rand.New(rand.NewSource(opts.Seed)),
		params:         cfg.Params(),
		stepsPerUpdate: max(opts.StepsPerUpdate, 1),
		throttle:       NewThrottle(cfg.Host),
		statsCallback:  opts.StatsCallback,
		logStats:       opts.LogStats,
	}

	g.initial = g.seedParticles()
	g.pool = systems.NewPool(cfg.Parallel.Workers, cfg.Parallel.Threshold)

	world, err := systems.NewWorld(cfg.PhysicsConfig(), g.initial, g.pool)
	if err != nil {
		g.pool.Close()
		return nil, fmt.Errorf("creating world: %w", err)
	}
	g.world = world

	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}
	g.perfCollector = telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)
	g.perfCollector.SetParticles(g.world.Len())
	g.world.SetPhaseTimer(g.perfCollector)
	g.collector = telemetry.NewCollector(statsWindow, cfg.Physics.DT)
	g.bookmarkDetector = telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistory)

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		g.pool.Close()
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	slog.Info("world created",
		"particles", g.world.Len(),
		"table_size", g.world.TableSize(),
		"workers", g.pool.Workers(),
		"layout", cfg.Particles.Layout,
		"headless", opts.Headless,
	)

	return g, nil
}

// seedParticles builds the initial state the world starts from and resets to.
func (g *Game) seedParticles() []systems.Particle {
	p := g.cfg.Particles
	switch g.cfg.Derived.Layout {
	case systems.LayoutRandom:
		return systems.SeedRandom(p.Count, g.cfg.Derived.Bounds, p.InitialSpeed, g.rng)
	default:
		return systems.SeedGrid(p.Count, g.cfg.Derived.Bounds, p.Jitter, g.rng)
	}
}

// Unload releases the worker pool and closes output files.
func (g *Game) Unload() {
	g.pool.Close()
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}

// SaveSnapshot writes the current particle state to the output directory.
func (g *Game) SaveSnapshot() (string, error) {
	path, err := g.outputManager.WriteParticles(g.tick, g.world.Particles())
	if err != nil {
		return "", fmt.Errorf("saving snapshot: %w", err)
	}
	slog.Info("snapshot saved", "path", path, "tick", g.tick)
	return path, nil
}

// Inspect finds the particle nearest pos and appends its neighbors to dst.
// It returns -1 and dst unchanged when no particle is within the
// interaction radius of pos.
func (g *Game) Inspect(pos r2.Vec, dst []systems.Neighbor) (int, []systems.Neighbor) {
	g.world.Reindex()
	i, ok := g.world.Nearest(pos)
	if !ok {
		return -1, dst
	}
	return i, g.world.NeighborsInto(dst, i)
}

// Tick returns the number of ticks run since creation. Resets do not rewind it.
func (g *Game) Tick() int64 {
	return g.tick
}

// Stats returns the most recently flushed stats window.
func (g *Game) Stats() telemetry.WindowStats {
	return g.lastStats
}

// Perf returns the rolling performance stats.
func (g *Game) Perf() telemetry.PerfStats {
	return g.perfCollector.Stats()
}

// World returns the simulated world.
func (g *Game) World() *systems.World {
	return g.world
}

// Particles returns the current particle state.
func (g *Game) Particles() []systems.Particle {
	return g.world.Particles()
}

// Config returns the configuration the game was built from.
func (g *Game) Config() *config.Config {
	return g.cfg
}

// Params returns the per-tick parameters the next tick will use.
func (g *Game) Params() systems.Params {
	return g.params
}

// Paused reports whether the simulation is paused.
func (g *Game) Paused() bool {
	return g.paused
}

// TickMultiply returns the number of ticks run per frame.
func (g *Game) TickMultiply() int {
	return g.throttle.Multiply()
}
