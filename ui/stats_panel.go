package ui

import (
	"github.com/pthm-cable/morsefield/telemetry"
)

// StatsPanel renders the latest telemetry window.
type StatsPanel struct {
	renderer *Renderer
	sections []SectionDescriptor[telemetry.WindowStats]
	x, y     int32
	width    int32
}

// NewStatsPanel creates a stats panel. maxSpeed scales the speed bars.
func NewStatsPanel(x, y, width int32, maxSpeed float64) *StatsPanel {
	return &StatsPanel{
		renderer: NewRenderer(),
		sections: windowStatsSections(maxSpeed),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (s *StatsPanel) SetPosition(x, y int32) {
	s.x = x
	s.y = y
}

// Draw renders the panel.
func (s *StatsPanel) Draw(stats telemetry.WindowStats) {
	r := s.renderer
	padding := r.Theme.Padding
	height := SectionsHeight(r, s.sections) + padding*2

	r.DrawPanel(s.x, s.y, s.width, height)

	y := s.y + padding
	for _, sd := range s.sections {
		y = DrawSection(r, s.x+padding, y, sd, &stats, s.width-padding*2)
	}
}

func windowStatsSections(maxSpeed float64) []SectionDescriptor[telemetry.WindowStats] {
	speedRange := FieldRange{Min: 0, Max: maxSpeed}
	return []SectionDescriptor[telemetry.WindowStats]{
		{
			Title: "Speed",
			Fields: []FieldDescriptor[telemetry.WindowStats]{
				{Label: "Mean", Widget: WidgetBar, Format: "%.0f", Range: speedRange,
					Getter: func(s *telemetry.WindowStats) float64 { return s.SpeedMean }},
				{Label: "P90", Widget: WidgetBar, Format: "%.0f", Range: speedRange,
					Getter: func(s *telemetry.WindowStats) float64 { return s.SpeedP90 }},
				{Label: "Max", Widget: WidgetBar, Format: "%.0f", Range: speedRange,
					Getter: func(s *telemetry.WindowStats) float64 { return s.SpeedMax }},
				{Label: "Kinetic", Widget: WidgetText, Format: "%.3g",
					Getter: func(s *telemetry.WindowStats) float64 { return s.KineticEnergy }},
			},
		},
		{
			Title: "Shape",
			Fields: []FieldDescriptor[telemetry.WindowStats]{
				{Label: "Centroid X", Widget: WidgetText, Format: "%.0f",
					Getter: func(s *telemetry.WindowStats) float64 { return s.CentroidX }},
				{Label: "Centroid Y", Widget: WidgetText, Format: "%.0f",
					Getter: func(s *telemetry.WindowStats) float64 { return s.CentroidY }},
				{Label: "Gyration", Widget: WidgetText, Format: "%.0f",
					Getter: func(s *telemetry.WindowStats) float64 { return s.RadiusOfGyration }},
			},
		},
		{
			Title: "Boundary",
			Fields: []FieldDescriptor[telemetry.WindowStats]{
				{Label: "Reflections", Widget: WidgetText, Format: "%.0f",
					Getter: func(s *telemetry.WindowStats) float64 { return float64(s.Reflections) }},
				{Label: "Resets", Widget: WidgetText, Format: "%.0f",
					Getter: func(s *telemetry.WindowStats) float64 { return float64(s.Resets) }},
			},
		},
		{
			Title: "Hash",
			Fields: []FieldDescriptor[telemetry.WindowStats]{
				{Label: "Occupied", Widget: WidgetBar, Format: "%.0f",
					Getter: func(s *telemetry.WindowStats) float64 { return float64(s.OccupiedBuckets) },
					RangeGetter: func(s *telemetry.WindowStats) FieldRange {
						return FieldRange{Min: 0, Max: float64(s.Particles)}
					}},
				{Label: "Longest run", Widget: WidgetText, Format: "%.0f",
					Getter: func(s *telemetry.WindowStats) float64 { return float64(s.LongestRun) }},
			},
		},
	}
}
