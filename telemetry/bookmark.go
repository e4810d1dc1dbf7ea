package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkResetBurst  BookmarkType = "reset_burst"
	BookmarkSpeedSpike  BookmarkType = "speed_spike"
	BookmarkCollapse    BookmarkType = "collapse"
	BookmarkSettled     BookmarkType = "settled"
	BookmarkSteadyState BookmarkType = "steady_state"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int64        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in the simulation.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	peakGyration       float64 // largest radius of gyration since the last collapse
	peakEnergy         float64 // largest kinetic energy seen
	settled            bool    // settled bookmark already emitted
	steadyWindowsCount int     // consecutive windows with steady kinetic energy
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for steady state detection
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if bd.historyFull || bd.historyIdx > 0 {
		if b := bd.checkResetBurst(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkSpeedSpike(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkCollapse(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkSettled(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkSteadyState(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)

	if stats.RadiusOfGyration > bd.peakGyration {
		bd.peakGyration = stats.RadiusOfGyration
	}
	if stats.KineticEnergy > bd.peakEnergy {
		bd.peakEnergy = stats.KineticEnergy
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// getHistory returns the recorded windows, oldest first.
func (bd *BookmarkDetector) getHistory() []WindowStats {
	if !bd.historyFull {
		return bd.history[:bd.historyIdx]
	}
	ordered := make([]WindowStats, 0, bd.historySize)
	ordered = append(ordered, bd.history[bd.historyIdx:]...)
	return append(ordered, bd.history[:bd.historyIdx]...)
}

// Safety resets well above the recent average mean the field is unstable.
func (bd *BookmarkDetector) checkResetBurst(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.Resets
	}
	avg := float64(total) / float64(len(history))

	if stats.Resets >= 10 && float64(stats.Resets) > avg*2.0 {
		return &Bookmark{
			Type:        BookmarkResetBurst,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d safety resets, average %.1f", stats.Resets, avg),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkSpeedSpike(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total float64
	for _, h := range history {
		total += h.SpeedP90
	}
	avg := total / float64(len(history))
	if avg == 0 {
		return nil
	}

	if stats.SpeedP90 > avg*2.0 {
		return &Bookmark{
			Type:        BookmarkSpeedSpike,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Speed p90 %.2f is %.1fx average (%.2f)", stats.SpeedP90, stats.SpeedP90/avg, avg),
		}
	}

	return nil
}

// The field contracting by more than 30% from its recent extent.
func (bd *BookmarkDetector) checkCollapse(stats WindowStats) *Bookmark {
	if bd.peakGyration == 0 {
		return nil
	}

	drop := 1.0 - stats.RadiusOfGyration/bd.peakGyration
	if drop > 0.30 {
		oldPeak := bd.peakGyration
		bd.peakGyration = stats.RadiusOfGyration

		return &Bookmark{
			Type:        BookmarkCollapse,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Field contracted %.0f%% from radius %.1f to %.1f", drop*100, oldPeak, stats.RadiusOfGyration),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkSettled(stats WindowStats) *Bookmark {
	if bd.settled || bd.peakEnergy == 0 {
		return nil
	}

	if stats.KineticEnergy < bd.peakEnergy*0.05 {
		bd.settled = true
		return &Bookmark{
			Type:        BookmarkSettled,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Kinetic energy %.3g fell below 5%% of peak %.3g", stats.KineticEnergy, bd.peakEnergy),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkSteadyState(stats WindowStats) *Bookmark {
	if stats.Particles == 0 {
		bd.steadyWindowsCount = 0
		return nil
	}

	history := bd.getHistory()
	if len(history) < 4 {
		return nil
	}

	recent := history[len(history)-4:]
	var sum float64
	for _, h := range recent {
		sum += h.KineticEnergy
	}
	mean := sum / 4

	var variance float64
	for _, h := range recent {
		d := h.KineticEnergy - mean
		variance += d * d
	}
	variance /= 4

	cv2 := 0.0
	if mean > 0 {
		cv2 = variance / (mean * mean)
	}

	if cv2 < 0.04 { // CV^2 < 0.04 means CV < 0.2
		bd.steadyWindowsCount++
	} else {
		bd.steadyWindowsCount = 0
	}

	if bd.steadyWindowsCount == 5 { // trigger exactly once at 5 windows
		return &Bookmark{
			Type:        BookmarkSteadyState,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Kinetic energy steady near %.3g over 5+ windows", mean),
		}
	}

	return nil
}

// Reset forgets all history, as after a simulation reset.
func (bd *BookmarkDetector) Reset() {
	*bd = *NewBookmarkDetector(bd.historySize)
}
