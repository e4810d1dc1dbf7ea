package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID uniquely identifies an overlay.
type OverlayID string

// Standard overlay IDs.
const (
	OverlaySpeedColors  OverlayID = "speed_colors"
	OverlayBucketColors OverlayID = "bucket_colors"
	OverlayBounds       OverlayID = "bounds"
	OverlayHashGrid     OverlayID = "hash_grid"
	OverlayPointer      OverlayID = "pointer"
	OverlayNeighbors    OverlayID = "neighbors"
	OverlayStats        OverlayID = "stats"
	OverlayPerf         OverlayID = "perf"
	OverlayControls     OverlayID = "controls"
)

// OverlayDescriptor defines an overlay that can be toggled.
type OverlayDescriptor struct {
	ID        OverlayID   // Unique identifier
	Name      string      // Display name
	Key       int32       // Keyboard key to toggle (0 = no key)
	KeyLabel  string      // Key label for display (e.g., "S", "V")
	Category  string      // Grouping (e.g., "field", "panels")
	Default   bool        // Enabled at startup
	Exclusive []OverlayID // Other overlays to disable when this is enabled
}

// OverlayRegistry manages overlay state and metadata.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	byID        map[OverlayID]OverlayDescriptor
	enabled     map[OverlayID]bool
}

// NewOverlayRegistry creates a registry with default overlays.
func NewOverlayRegistry() *OverlayRegistry {
	reg := &OverlayRegistry{
		byID:    make(map[OverlayID]OverlayDescriptor),
		enabled: make(map[OverlayID]bool),
	}
	reg.registerDefaults()
	return reg
}

// registerDefaults adds standard overlays. Keys avoid the simulation
// bindings (C, H, R, space, arrows).
func (r *OverlayRegistry) registerDefaults() {
	r.Register(OverlayDescriptor{
		ID:        OverlaySpeedColors,
		Name:      "Speed Colors",
		Key:       rl.KeyV,
		KeyLabel:  "V",
		Category:  "field",
		Default:   true,
		Exclusive: []OverlayID{OverlayBucketColors},
	})
	r.Register(OverlayDescriptor{
		ID:        OverlayBucketColors,
		Name:      "Bucket Colors",
		Key:       rl.KeyN,
		KeyLabel:  "N",
		Category:  "field",
		Exclusive: []OverlayID{OverlaySpeedColors},
	})
	r.Register(OverlayDescriptor{
		ID:       OverlayBounds,
		Name:     "Bounds",
		Key:      rl.KeyB,
		KeyLabel: "B",
		Category: "field",
		Default:  true,
	})
	r.Register(OverlayDescriptor{
		ID:       OverlayHashGrid,
		Name:     "Hash Grid",
		Key:      rl.KeyG,
		KeyLabel: "G",
		Category: "field",
	})
	r.Register(OverlayDescriptor{
		ID:       OverlayPointer,
		Name:     "Pointer Radius",
		Key:      rl.KeyM,
		KeyLabel: "M",
		Category: "field",
		Default:  true,
	})
	r.Register(OverlayDescriptor{
		ID:       OverlayNeighbors,
		Name:     "Neighbors",
		Key:      rl.KeyO,
		KeyLabel: "O",
		Category: "field",
	})

	r.Register(OverlayDescriptor{
		ID:       OverlayStats,
		Name:     "Stats",
		Key:      rl.KeyS,
		KeyLabel: "S",
		Category: "panels",
		Default:  true,
	})
	r.Register(OverlayDescriptor{
		ID:       OverlayPerf,
		Name:     "Perf",
		Key:      rl.KeyP,
		KeyLabel: "P",
		Category: "panels",
	})
	r.Register(OverlayDescriptor{
		ID:       OverlayControls,
		Name:     "Controls",
		Key:      rl.KeyTab,
		KeyLabel: "Tab",
		Category: "panels",
		Default:  true,
	})
}

// Register adds an overlay to the registry.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	r.descriptors = append(r.descriptors, desc)
	r.byID[desc.ID] = desc
	r.enabled[desc.ID] = desc.Default
}

// Toggle switches an overlay on/off and handles exclusivity.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	if _, ok := r.byID[id]; !ok {
		return false
	}
	r.SetEnabled(id, !r.enabled[id])
	return r.enabled[id]
}

// SetEnabled explicitly sets an overlay's state.
func (r *OverlayRegistry) SetEnabled(id OverlayID, enabled bool) {
	desc, ok := r.byID[id]
	if !ok {
		return
	}

	r.enabled[id] = enabled

	// If enabling, disable exclusive overlays
	if enabled {
		for _, excl := range desc.Exclusive {
			r.enabled[excl] = false
		}
	}
}

// IsEnabled returns whether an overlay is active.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// All returns all registered overlays in registration order.
func (r *OverlayRegistry) All() []OverlayDescriptor {
	return r.descriptors
}

// HandleKeyPress checks if a key corresponds to an overlay toggle.
// Returns the overlay ID and new state if a toggle occurred.
func (r *OverlayRegistry) HandleKeyPress(key int32) (OverlayID, bool, bool) {
	for _, desc := range r.descriptors {
		if desc.Key == key {
			newState := r.Toggle(desc.ID)
			return desc.ID, newState, true
		}
	}
	return "", false, false
}

// Legend returns the key bindings as one line for the HUD footer.
func (r *OverlayRegistry) Legend() string {
	var s string
	for i, desc := range r.descriptors {
		if desc.KeyLabel == "" {
			continue
		}
		if i > 0 {
			s += "  "
		}
		s += "[" + desc.KeyLabel + "] " + desc.Name
	}
	return s
}
