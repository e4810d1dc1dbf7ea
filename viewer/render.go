package viewer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/morsefield/game"
	"github.com/pthm-cable/morsefield/renderer"
	"github.com/pthm-cable/morsefield/ui"
)

// drawField draws the particles and field overlays in world space.
func (v *Viewer) drawField() {
	cfg := v.game.Config()
	phys := v.game.World().Config()

	if v.overlays.IsEnabled(ui.OverlayHashGrid) {
		renderer.DrawHashGrid(v.camera, phys.Bounds, phys.CellSize)
	}
	if v.overlays.IsEnabled(ui.OverlayBounds) {
		renderer.DrawBounds(v.camera, phys.Bounds, phys.Margin, phys.Centers)
	}

	v.particles.Mode = renderer.ColorBySpeed
	if v.overlays.IsEnabled(ui.OverlayBucketColors) {
		v.particles.Mode = renderer.ColorByBucket
	}
	v.particles.Draw(v.game.Particles(), v.camera, cfg.Physics.MaxSpeed, phys.CellSize, phys.TableSize)

	if v.overlays.IsEnabled(ui.OverlayNeighbors) {
		m := rl.GetMousePosition()
		wx, wy := v.camera.ScreenToWorld(m.X, m.Y)
		var i int
		i, v.neighbors = v.game.Inspect(r2.Vec{X: float64(wx), Y: float64(wy)}, v.neighbors[:0])
		renderer.DrawNeighbors(v.camera, v.game.Particles(), i, v.neighbors, phys.InteractionRadius)
	}
	if v.overlays.IsEnabled(ui.OverlayPointer) {
		p := v.game.Params()
		renderer.DrawPointer(v.camera, p.PointerPos, phys.Pointer.Radius, p.PointerPress)
	}
}

// drawUI draws the screen-space panels. Panel clicks become commands for
// the next frame.
func (v *Viewer) drawUI() {
	g := v.game
	perf := g.Perf()

	tps := perf.FPS * float64(g.TickMultiply())
	if g.Paused() {
		tps = 0
	}
	v.hud.Draw(ui.HUDData{
		Title:        "Morse Field",
		Particles:    g.World().Len(),
		Tick:         g.Tick(),
		SimTime:      float64(g.World().Tick()) * g.Params().DT,
		TickMultiply: g.TickMultiply(),
		FPS:          float64(rl.GetFPS()),
		TPS:          tps,
		Paused:       g.Paused(),
		Resets:       g.World().LastEvents().Resets,
	})

	if v.overlays.IsEnabled(ui.OverlayControls) {
		p := g.Params()
		res := v.controls.Draw(ui.ControlsState{
			GlobalDamping:   p.GlobalVelocityDamping,
			BoundaryDamping: p.BoundaryDamping,
			Paused:          g.Paused(),
		})
		v.applyControls(res)
	}
	if v.overlays.IsEnabled(ui.OverlayStats) {
		v.stats.Draw(g.Stats())
	}
	if v.overlays.IsEnabled(ui.OverlayPerf) {
		v.perf.Draw(perf)
	}

	v.hud.DrawControls(int32(v.screenWidth), int32(v.screenHeight), controlsLegend)
	rl.DrawText(v.overlays.Legend(), 10, int32(v.screenHeight)-45, 14, rl.DarkGray)
}

func (v *Viewer) applyControls(res ui.ControlsResult) {
	if !res.Any() {
		return
	}
	var cmds []game.Command
	if res.GlobalChanged {
		cmds = append(cmds, game.SetGlobalDamping(res.GlobalDamping))
	}
	if res.BoundaryChanged {
		cmds = append(cmds, game.SetBoundaryDamping(res.BoundaryDamping))
	}
	if res.TogglePause {
		cmds = append(cmds, game.TogglePause())
	}
	if res.Step {
		cmds = append(cmds, game.StepOnce())
	}
	if res.Reset {
		cmds = append(cmds, game.Reset())
	}
	v.game.Enqueue(cmds...)
}
