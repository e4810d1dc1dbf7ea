// Morse force preview tool - interactive plot of the pair force with sliders.
//
// Usage: go run ./cmd/morsepreview [-config path]
package main

import (
	"flag"
	"fmt"
	"log"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/morsefield/config"
	"github.com/pthm-cable/morsefield/systems"
)

const (
	windowWidth  = 1000
	windowHeight = 640
	plotX        = 50
	plotY        = 20
	plotW        = 560
	plotH        = 560
	panelWidth   = windowWidth - plotX - plotW - 30
	samples      = 512
)

// previewParams holds the slider state.
type previewParams struct {
	LogDepth    float32 // log10 of the well depth
	Width       float32
	Equilibrium float32
	Radius      float32
}

func (p previewParams) morse() systems.Morse {
	return systems.Morse{
		Depth:       math.Pow(10, float64(p.LogDepth)),
		Width:       float64(p.Width),
		Equilibrium: float64(p.Equilibrium),
	}
}

func main() {
	configPath := flag.String("config", "", "Config YAML to start from (empty = defaults)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	initial := previewParams{
		LogDepth:    float32(math.Log10(max(cfg.Physics.Morse.Depth, 1))),
		Width:       float32(cfg.Physics.Morse.Width),
		Equilibrium: float32(cfg.Physics.Morse.Equilibrium),
		Radius:      float32(cfg.Physics.InteractionRadius),
	}
	params := initial

	rl.InitWindow(windowWidth, windowHeight, "Morse Force Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	for !rl.WindowShouldClose() {
		m := params.morse()
		curve := SampleCurve(m, float64(params.Radius), samples)

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		drawPlot(curve, m, float64(params.Radius))

		panelX := float32(plotX + plotW + 20)
		panelY := float32(10)

		rl.DrawText("Morse Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		params.LogDepth = slider(&panelY, panelX, "Depth De (log10)", fmt.Sprintf("%.0f", m.Depth), params.LogDepth, 1, 6)
		params.Width = slider(&panelY, panelX, "Width a (1/distance)", fmt.Sprintf("%.4f", params.Width), params.Width, 0.001, 0.2)
		params.Radius = slider(&panelY, panelX, "Interaction radius", fmt.Sprintf("%.0f", params.Radius), params.Radius, 10, 2000)
		params.Equilibrium = slider(&panelY, panelX, "Equilibrium re", fmt.Sprintf("%.0f", params.Equilibrium), params.Equilibrium, 0, params.Radius)

		rl.DrawLine(int32(panelX), int32(panelY), int32(panelX)+int32(panelWidth)-20, int32(panelY), rl.LightGray)
		panelY += 15

		peakD, peakF := PeakAttraction(m)
		rl.DrawText(fmt.Sprintf("F(0): %.1f", curve.F[0]), int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 20
		rl.DrawText(fmt.Sprintf("Peak attraction: %.1f at %.1f", peakF, peakD), int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 20
		if peakD > float64(params.Radius) {
			rl.DrawText("Peak lies beyond the cutoff", int32(panelX), int32(panelY), 14, rl.Maroon)
		}
		panelY += 30

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = initial
		}
		panelY += 50

		yamlText := fmt.Sprintf("physics:\n  interaction_radius: %.0f\n  morse:\n    depth: %.0f\n    width: %.4f\n    equilibrium: %.0f",
			params.Radius, m.Depth, params.Width, params.Equilibrium)
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		rl.DrawText(yamlText, int32(panelX), int32(panelY), 14, rl.Gray)

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(yamlText)
		}

		rl.EndDrawing()
	}
}

// slider draws a labeled slider and advances y.
func slider(y *float32, x float32, label, value string, cur, lo, hi float32) float32 {
	rl.DrawText(label, int32(x), int32(*y), 14, rl.Gray)
	*y += 18
	next := gui.SliderBar(
		rl.Rectangle{X: x, Y: *y, Width: float32(panelWidth - 80), Height: 20},
		"", "",
		cur, lo, hi,
	)
	rl.DrawText(value, int32(x+float32(panelWidth-70)), int32(*y+2), 16, rl.DarkGray)
	*y += 35
	return next
}

// drawPlot draws force against separation. The vertical scale is symmetric
// around zero so repulsion and attraction share one axis.
func drawPlot(c Curve, m systems.Morse, radius float64) {
	rl.DrawRectangleLines(plotX, plotY, plotW, plotH, rl.DarkGray)

	span := max(math.Abs(c.MinF), math.Abs(c.MaxF), 1e-9)
	// Repulsion near d=0 dwarfs the well; clip to a few wells deep
	span = min(span, 4*math.Abs(c.MinF)+1e-9)

	toScreen := func(d, f float64) rl.Vector2 {
		f = min(max(f, -span), span)
		return rl.Vector2{
			X: plotX + float32(d/radius)*plotW,
			Y: plotY + plotH/2 - float32(f/span)*plotH/2,
		}
	}

	zero := toScreen(0, 0)
	rl.DrawLine(plotX, int32(zero.Y), plotX+plotW, int32(zero.Y), rl.LightGray)

	eq := toScreen(m.Equilibrium, 0)
	rl.DrawLine(int32(eq.X), plotY, int32(eq.X), plotY+plotH, rl.SkyBlue)

	for i := 1; i < len(c.D); i++ {
		rl.DrawLineV(toScreen(c.D[i-1], c.F[i-1]), toScreen(c.D[i], c.F[i]), rl.Maroon)
	}

	peakD, peakF := PeakAttraction(m)
	if peakD <= radius {
		p := toScreen(peakD, peakF)
		rl.DrawCircleV(p, 4, rl.DarkBlue)
	}

	rl.DrawText("repel", plotX+6, plotY+6, 14, rl.Gray)
	rl.DrawText("attract", plotX+6, plotY+plotH-20, 14, rl.Gray)
	rl.DrawText(fmt.Sprintf("0 .. %.0f", radius), plotX, plotY+plotH+6, 14, rl.Gray)
	rl.DrawText(fmt.Sprintf("+/- %.1f", span), plotX+plotW-120, plotY+plotH+6, 14, rl.Gray)
}
