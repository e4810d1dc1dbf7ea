// Package viewer is the raylib frontend for a game: it turns keyboard,
// mouse and panel input into game input and draws the field.
package viewer

import (
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/morsefield/camera"
	"github.com/pthm-cable/morsefield/game"
	"github.com/pthm-cable/morsefield/renderer"
	"github.com/pthm-cable/morsefield/systems"
	"github.com/pthm-cable/morsefield/ui"
)

const controlsLegend = "[Space] pause  [Right] step  [R] reset  [c/h] drag -/+1  [C/H] -/+10  [Up/Down] wall damping  LMB attract  RMB repel"

// Viewer draws a game and feeds it input. Must be created after rl.InitWindow.
type Viewer struct {
	game *game.Game

	camera    *camera.Camera
	particles *renderer.ParticleRenderer
	overlays  *ui.OverlayRegistry
	hud       *ui.HUD
	controls  *ui.ControlsPanel
	stats     *ui.StatsPanel
	perf      *ui.PerfPanel

	screenWidth, screenHeight float32

	// Input gathered this frame
	input game.Input

	neighbors []systems.Neighbor
}

// New creates a viewer sized to the current window.
func New(g *game.Game) *Viewer {
	cfg := g.Config()
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())

	v := &Viewer{
		game:         g,
		camera:       camera.New(w, h, float32(cfg.World.Width), float32(cfg.World.Height)),
		particles:    renderer.NewParticleRenderer(),
		overlays:     ui.NewOverlayRegistry(),
		hud:          ui.NewHUD(),
		controls:     ui.NewControlsPanel(10, 100, 260),
		stats:        ui.NewStatsPanel(int32(w)-270, 10, 260, cfg.Physics.MaxSpeed),
		perf:         ui.NewPerfPanel(10, 340),
		screenWidth:  w,
		screenHeight: h,
		neighbors:    make([]systems.Neighbor, 0, systems.MaxQueryResults),
	}
	return v
}

// Update gathers input and advances the game by one frame.
func (v *Viewer) Update() {
	v.input = game.Input{Now: time.Now()}
	v.handleInput()
	v.game.Frame(v.input)
}

// Draw renders the field and the UI.
func (v *Viewer) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Color{R: 8, G: 10, B: 14, A: 255})

	v.drawField()
	v.drawUI()

	rl.EndDrawing()
}
