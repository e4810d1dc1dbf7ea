package main

import (
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/morsefield/config"
	"github.com/pthm-cable/morsefield/game"
	"github.com/pthm-cable/morsefield/telemetry"
)

// Fitness component weights.
const (
	weightSpeed     = 1.0
	weightResets    = 10.0
	weightStability = 0.5

	warmupWindows = 2 // skip first N windows while the field settles

	// A run that resets more than this fraction of its particles in one
	// window has blown up; it scores blowupFitness and stops early.
	blowupResetFraction = 0.5
	blowupFitness       = 100.0
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int64
	seeds       []int64
	baseConfig  *config.Config
	statsWindow float64

	mu        sync.Mutex
	lastScore Score // breakdown from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int64, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: baseCfg.Telemetry.StatsWindow,
	}
}

// LastScore returns the averaged score breakdown of the most recent evaluation.
func (fe *FitnessEvaluator) LastScore() Score {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastScore
}

// Score breaks a fitness value into its parts.
type Score struct {
	Speed     float64 // late mean speed over max speed
	Resets    float64 // resets per particle per window
	Stability float64 // coefficient of variation of the radius of gyration
	Blowup    bool
}

// Fitness combines the parts into the value CMA-ES minimizes.
func (s Score) Fitness() float64 {
	if s.Blowup {
		return blowupFitness
	}
	return weightSpeed*s.Speed + weightResets*s.Resets + weightStability*s.Stability
}

// Evaluate computes fitness for a parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, x)

	scores := make([]Score, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			windows := fe.runSimulation(cfg.Clone(), s)
			scores[idx] = ScoreWindows(windows, cfg.Physics.MaxSpeed)
		}(i, seed)
	}
	wg.Wait()

	var avg Score
	var total float64
	for _, s := range scores {
		total += s.Fitness()
		avg.Speed += s.Speed
		avg.Resets += s.Resets
		avg.Stability += s.Stability
		avg.Blowup = avg.Blowup || s.Blowup
	}
	n := float64(len(scores))
	avg.Speed /= n
	avg.Resets /= n
	avg.Stability /= n
	fitness := total / n

	fe.mu.Lock()
	fe.lastScore = avg
	fe.mu.Unlock()

	return fitness
}

// runSimulation executes a single headless run and returns its stats windows.
// It stops early once a window shows a blowup.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed int64) []telemetry.WindowStats {
	var windows []telemetry.WindowStats
	blown := false

	g, err := game.NewGameWithOptions(game.Options{
		Seed:           seed,
		Headless:       true,
		StatsWindowSec: fe.statsWindow,
		StepsPerUpdate: 1,
		Config:         cfg,
		StatsCallback: func(stats telemetry.WindowStats) {
			windows = append(windows, stats)
			if isBlowup(stats) {
				blown = true
			}
		},
	})
	if err != nil {
		// Parameters that fail validation score as a blowup
		return []telemetry.WindowStats{{Particles: 1, Resets: 1}}
	}
	defer g.Unload()

	for g.Tick() < fe.maxTicks && !blown {
		g.UpdateHeadless()
	}
	return windows
}

func isBlowup(w telemetry.WindowStats) bool {
	return w.Particles > 0 && float64(w.Resets) > blowupResetFraction*float64(w.Particles)
}

// ScoreWindows scores one run from its stats windows. Windows before the
// warmup cutoff only count towards blowup detection.
func ScoreWindows(windows []telemetry.WindowStats, maxSpeed float64) Score {
	for _, w := range windows {
		if isBlowup(w) {
			return Score{Blowup: true}
		}
	}
	if len(windows) <= warmupWindows {
		return Score{Blowup: true}
	}
	late := windows[warmupWindows:]

	speeds := make([]float64, len(late))
	radii := make([]float64, len(late))
	var resets float64
	for i, w := range late {
		speeds[i] = w.SpeedMean
		radii[i] = w.RadiusOfGyration
		if w.Particles > 0 {
			resets += float64(w.Resets) / float64(w.Particles)
		}
	}

	var s Score
	if maxSpeed > 0 {
		s.Speed = stat.Mean(speeds, nil) / maxSpeed
	}
	s.Resets = resets / float64(len(late))
	if len(radii) >= 2 {
		mean, std := stat.MeanStdDev(radii, nil)
		if mean > 0 {
			s.Stability = std / mean
		}
	}
	return s
}
