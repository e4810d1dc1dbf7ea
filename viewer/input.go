package viewer

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/morsefield/game"
	"github.com/pthm-cable/morsefield/systems"
	"github.com/pthm-cable/morsefield/ui"
)

// handleInput processes keyboard and mouse input.
func (v *Viewer) handleInput() {
	// Window resize propagation
	v.handleResize()

	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	// Snapshot needs -output-dir; SaveSnapshot logs the outcome
	if rl.IsKeyPressed(rl.KeyF5) {
		if _, err := v.game.SaveSnapshot(); err != nil {
			slog.Warn("snapshot failed", "error", err)
		}
	}

	v.handleSimulationKeys()
	v.handleOverlayKeys()
	v.handleCameraInput()
	v.handlePointer()
}

// handleSimulationKeys maps the simulation bindings to commands.
func (v *Viewer) handleSimulationKeys() {
	shift := rl.IsKeyDown(rl.KeyLeftShift) || rl.IsKeyDown(rl.KeyRightShift)
	step := int64(1)
	if shift {
		step = 10
	}

	if rl.IsKeyPressed(rl.KeyR) {
		v.command(game.Reset())
	}
	if rl.IsKeyPressed(rl.KeyC) {
		v.command(game.AdjustGlobalDamping(-step))
	}
	if rl.IsKeyPressed(rl.KeyH) {
		v.command(game.AdjustGlobalDamping(step))
	}
	if rl.IsKeyPressed(rl.KeyUp) {
		v.command(game.AdjustBoundaryDamping(1))
	}
	if rl.IsKeyPressed(rl.KeyDown) {
		v.command(game.AdjustBoundaryDamping(-1))
	}
	if rl.IsKeyPressed(rl.KeyRight) {
		v.command(game.StepOnce())
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		v.command(game.TogglePause())
	}
}

func (v *Viewer) handleOverlayKeys() {
	for _, desc := range v.overlays.All() {
		if desc.Key != 0 && rl.IsKeyPressed(desc.Key) {
			v.overlays.Toggle(desc.ID)
		}
	}
}

// handleResize checks for window resize and propagates new dimensions.
func (v *Viewer) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == v.screenWidth && h == v.screenHeight {
		return
	}
	v.screenWidth = w
	v.screenHeight = h

	v.camera.Resize(w, h)
	v.stats.SetPosition(int32(w)-270, 10)
}

// handleCameraInput processes camera pan/zoom controls. Arrow keys belong
// to the simulation, so panning uses IJKL and the middle mouse button.
func (v *Viewer) handleCameraInput() {
	panSpeed := float32(8.0)

	if rl.IsKeyDown(rl.KeyL) {
		v.camera.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyJ) {
		v.camera.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyK) {
		v.camera.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyI) {
		v.camera.Pan(0, -panSpeed)
	}

	if rl.IsMouseButtonDown(rl.MouseButtonMiddle) {
		d := rl.GetMouseDelta()
		v.camera.Pan(-d.X, -d.Y)
	}

	// Zoom toward the cursor
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		m := rl.GetMousePosition()
		v.camera.ZoomAt(m.X, m.Y, 1+wheel*0.1)
	}

	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		v.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		v.camera.ZoomBy(0.8)
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		v.camera.Reset()
	}
}

// handlePointer maps the mouse to the pointer force. Left attracts, right
// repels; clicks on the controls panel are ignored.
func (v *Viewer) handlePointer() {
	m := rl.GetMousePosition()
	if v.overlays.IsEnabled(ui.OverlayControls) && v.controls.Contains(m.X, m.Y) {
		return
	}

	var press systems.PointerPress
	switch {
	case rl.IsMouseButtonDown(rl.MouseButtonLeft):
		press = systems.PointerAttract
	case rl.IsMouseButtonDown(rl.MouseButtonRight):
		press = systems.PointerRepel
	default:
		return
	}

	wx, wy := v.camera.ScreenToWorld(m.X, m.Y)
	v.input.Pointer = press
	v.input.PointerPos = r2.Vec{X: float64(wx), Y: float64(wy)}
}

func (v *Viewer) command(cmd game.Command) {
	v.input.Commands = append(v.input.Commands, cmd)
}
