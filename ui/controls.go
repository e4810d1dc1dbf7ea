package ui

import (
	"fmt"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Drag divisor slider range, in log10 units.
const (
	dragSliderMin = 1.0
	dragSliderMax = 6.0
)

// ControlsState is what the controls panel displays.
type ControlsState struct {
	GlobalDamping   uint32
	BoundaryDamping uint32
	Paused          bool
}

// ControlsResult reports what the user changed this frame.
type ControlsResult struct {
	GlobalDamping   uint32
	GlobalChanged   bool
	BoundaryDamping uint32
	BoundaryChanged bool
	TogglePause     bool
	Step            bool
	Reset           bool
}

// Any reports whether the result carries a change.
func (r ControlsResult) Any() bool {
	return r.GlobalChanged || r.BoundaryChanged || r.TogglePause || r.Step || r.Reset
}

// ControlsPanel renders the raygui panel for the host parameters.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

// Contains reports whether a screen point is over the panel, so clicks there
// are not taken as pointer input.
func (c *ControlsPanel) Contains(sx, sy float32) bool {
	return sx >= float32(c.x) && sx < float32(c.x+c.width) &&
		sy >= float32(c.y) && sy < float32(c.y+c.height())
}

func (c *ControlsPanel) height() int32 {
	return 230
}

// Draw renders the panel and returns the user's changes.
func (c *ControlsPanel) Draw(state ControlsState) ControlsResult {
	var res ControlsResult
	r := c.renderer
	padding := r.Theme.Padding
	r.DrawPanel(c.x, c.y, c.width, c.height())

	x := float32(c.x + padding)
	y := float32(c.y + padding)
	sliderW := float32(c.width - padding*2 - 60)

	rl.DrawText("Controls", int32(x), int32(y), 16, rl.White)
	y += 26

	// Drag divisor on a log scale; 0 means drag off
	dragLabel := "off"
	if state.GlobalDamping > 0 {
		dragLabel = fmt.Sprintf("%d", state.GlobalDamping)
	}
	rl.DrawText("Global drag divisor: "+dragLabel, int32(x), int32(y), r.Theme.FontSize, r.Theme.LabelColor)
	y += 16
	cur := float32(DampingToSlider(state.GlobalDamping))
	next := gui.SliderBar(rl.Rectangle{X: x, Y: y, Width: sliderW, Height: 18}, "", "", cur, dragSliderMin, dragSliderMax)
	if next != cur {
		res.GlobalDamping = SliderToDamping(float64(next))
		res.GlobalChanged = res.GlobalDamping != state.GlobalDamping
	}
	if gui.Button(rl.Rectangle{X: x + sliderW + 6, Y: y, Width: 48, Height: 18}, "Off") && state.GlobalDamping != 0 {
		res.GlobalDamping = 0
		res.GlobalChanged = true
	}
	y += 30

	rl.DrawText(fmt.Sprintf("Wall velocity kept: %d%%", state.BoundaryDamping), int32(x), int32(y), r.Theme.FontSize, r.Theme.LabelColor)
	y += 16
	// Keyboard can push the percent past 100; the slider only reports drags
	curB := float32(min(state.BoundaryDamping, 100))
	nextB := gui.SliderBar(rl.Rectangle{X: x, Y: y, Width: sliderW, Height: 18}, "", "", curB, 0, 100)
	if nextB != curB {
		res.BoundaryDamping = uint32(nextB)
		res.BoundaryChanged = true
	}
	y += 36

	pauseText := "Pause"
	if state.Paused {
		pauseText = "Resume"
	}
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: 80, Height: 28}, pauseText) {
		res.TogglePause = true
	}
	if state.Paused {
		if gui.Button(rl.Rectangle{X: x + 88, Y: y, Width: 80, Height: 28}, "Step") {
			res.Step = true
		}
	}
	y += 38

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: 168, Height: 28}, "Reset particles") {
		res.Reset = true
	}

	return res
}

// DampingToSlider maps a drag divisor to the log10 slider position.
func DampingToSlider(n uint32) float64 {
	if n == 0 {
		return dragSliderMax
	}
	return min(max(math.Log10(float64(n)), dragSliderMin), dragSliderMax)
}

// SliderToDamping maps a slider position back to a drag divisor.
func SliderToDamping(v float64) uint32 {
	return uint32(math.Round(math.Pow(10, v)))
}
