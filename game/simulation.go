package game

import (
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/morsefield/systems"
	"github.com/pthm-cable/morsefield/telemetry"
)

// Input is the per-frame state a frontend gathers.
type Input struct {
	Commands   []Command
	Pointer    systems.PointerPress
	PointerPos r2.Vec // world coordinates
	Now        time.Time
}

// UpdateHeadless applies queued commands and runs StepsPerUpdate ticks,
// honoring pause and pending single steps.
func (g *Game) UpdateHeadless() {
	g.applyCommands()
	g.params.PointerPress = systems.PointerNone
	g.runTicks(g.stepsPerUpdate)
}

// Frame runs one rendered frame: it applies in.Commands with any queued
// ones, then runs TickMultiply ticks with the pointer from in.
// It returns true when the throttle reported a new fps measurement.
func (g *Game) Frame(in Input) bool {
	g.Enqueue(in.Commands...)
	g.applyCommands()

	g.params.PointerPress = in.Pointer
	g.params.PointerPos = in.PointerPos
	g.runTicks(g.throttle.Multiply())

	g.perfCollector.RecordFrame()
	if in.Now.IsZero() {
		return false
	}
	reported := g.throttle.Frame(in.Now, g.paused)
	if reported && g.logStats {
		tps := g.throttle.FPS() * float64(g.throttle.Multiply())
		if g.paused {
			tps = 0
		}
		g.perfCollector.Stats().LogStats()
		logFrameRate(g.throttle.FPS(), tps, g.throttle.Multiply())
	}
	return reported
}

// runTicks runs up to n ticks. While paused only pending single steps run.
func (g *Game) runTicks(n int) {
	if g.paused {
		if g.pendingSteps == 0 {
			return
		}
		g.pendingSteps--
	}
	for range n {
		g.step()
	}
}

// step advances the world one tick and feeds telemetry.
func (g *Game) step() {
	g.perfCollector.StartTick()
	g.world.Step(g.params)
	g.tick++

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.collector.RecordTick(g.world.LastEvents())
	g.flushTelemetry()
	g.perfCollector.EndTick()
}
