package game

import (
	"fmt"
	"log/slog"
)

// CommandKind identifies a host command.
type CommandKind uint8

const (
	CmdReset CommandKind = iota
	CmdTogglePause
	CmdStepOnce
	CmdAdjustGlobalDamping
	CmdAdjustBoundaryDamping
	CmdSetGlobalDamping
	CmdSetBoundaryDamping
)

func (k CommandKind) String() string {
	switch k {
	case CmdReset:
		return "reset"
	case CmdTogglePause:
		return "toggle_pause"
	case CmdStepOnce:
		return "step_once"
	case CmdAdjustGlobalDamping:
		return "adjust_global_damping"
	case CmdAdjustBoundaryDamping:
		return "adjust_boundary_damping"
	case CmdSetGlobalDamping:
		return "set_global_damping"
	case CmdSetBoundaryDamping:
		return "set_boundary_damping"
	default:
		return fmt.Sprintf("CommandKind(%d)", uint8(k))
	}
}

// Command is a host request applied at the next tick boundary.
type Command struct {
	Kind  CommandKind
	Delta int64  // adjust commands
	Value uint32 // set commands
}

func Reset() Command       { return Command{Kind: CmdReset} }
func TogglePause() Command { return Command{Kind: CmdTogglePause} }
func StepOnce() Command    { return Command{Kind: CmdStepOnce} }

// AdjustGlobalDamping changes the drag divisor by delta, saturating at zero.
func AdjustGlobalDamping(delta int64) Command {
	return Command{Kind: CmdAdjustGlobalDamping, Delta: delta}
}

// AdjustBoundaryDamping changes the wall damping percent by delta,
// saturating at zero.
func AdjustBoundaryDamping(delta int64) Command {
	return Command{Kind: CmdAdjustBoundaryDamping, Delta: delta}
}

func SetGlobalDamping(v uint32) Command {
	return Command{Kind: CmdSetGlobalDamping, Value: v}
}

func SetBoundaryDamping(v uint32) Command {
	return Command{Kind: CmdSetBoundaryDamping, Value: v}
}

// Enqueue queues commands for the next tick boundary. Safe for concurrent use.
func (g *Game) Enqueue(cmds ...Command) {
	g.cmdMu.Lock()
	g.commands = append(g.commands, cmds...)
	g.cmdMu.Unlock()
}

// applyCommands drains the queue in order. Only called between ticks.
func (g *Game) applyCommands() {
	g.cmdMu.Lock()
	cmds := g.commands
	g.commands = nil
	g.cmdMu.Unlock()

	for _, cmd := range cmds {
		g.apply(cmd)
	}
}

func (g *Game) apply(cmd Command) {
	switch cmd.Kind {
	case CmdReset:
		g.reset()
		slog.Info("reset", "tick", g.tick)
	case CmdTogglePause:
		g.paused = !g.paused
		if !g.paused {
			g.pendingSteps = 0
		}
		slog.Info("paused", "paused", g.paused)
	case CmdStepOnce:
		if g.paused {
			g.pendingSteps++
			slog.Info("adding pending step", "pending", g.pendingSteps)
		}
	case CmdAdjustGlobalDamping:
		g.params.GlobalVelocityDamping = saturatingAdd(g.params.GlobalVelocityDamping, cmd.Delta)
		slog.Info("global_velocity_damping", "value", g.params.GlobalVelocityDamping)
	case CmdAdjustBoundaryDamping:
		g.params.BoundaryDamping = saturatingAdd(g.params.BoundaryDamping, cmd.Delta)
		slog.Info("boundary_damping", "value", g.params.BoundaryDamping)
	case CmdSetGlobalDamping:
		g.params.GlobalVelocityDamping = cmd.Value
		slog.Info("global_velocity_damping", "value", g.params.GlobalVelocityDamping)
	case CmdSetBoundaryDamping:
		g.params.BoundaryDamping = cmd.Value
		slog.Info("boundary_damping", "value", g.params.BoundaryDamping)
	default:
		slog.Warn("unknown command", "kind", cmd.Kind)
	}
}

// reset restores the seeded state. Host parameters and the tick count are kept.
func (g *Game) reset() {
	if err := g.world.Reset(g.initial); err != nil {
		// initial always has the world's length
		panic(err)
	}
	g.collector.Restart(g.tick)
	g.bookmarkDetector.Reset()
}

func saturatingAdd(v uint32, delta int64) uint32 {
	r := int64(v) + delta
	if r < 0 {
		return 0
	}
	if r > int64(^uint32(0)) {
		return ^uint32(0)
	}
	return uint32(r)
}
