package game

import (
	"log/slog"

	"github.com/pthm-cable/morsefield/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	// Sample the field as it stands after this tick; the index Step left
	// behind still hashes the positions it integrated from.
	g.world.Reindex()
	var field telemetry.FieldStats
	field, g.speedScratch = telemetry.ComputeFieldStats(g.world.Particles(), g.world.Entries(), g.speedScratch)

	stats := g.collector.Flush(g.tick, field)
	perfStats := g.perfCollector.Stats()
	g.lastStats = stats

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if g.outputManager != nil {
			if err := g.outputManager.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
		}
	}
}

func logFrameRate(fps, tps float64, multiply int) {
	slog.Info("frame_rate",
		"fps", fps,
		"tps", tps,
		"tick_multiply", multiply,
	)
}
