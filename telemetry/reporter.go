package telemetry

import (
	"log/slog"

	"github.com/pthm-cable/flock/geom"
)

// Reporter emits windowed telemetry: every windowSteps simulation steps
// it computes flock statistics, optionally logs them, and appends CSV
// rows through the output manager.
type Reporter struct {
	windowSteps uint64
	dt          float64
	logStats    bool
	out         *OutputManager

	lastFlush uint64
}

// NewReporter creates a reporter that flushes every windowSteps steps.
// out may be nil to disable CSV output.
func NewReporter(windowSteps int, dt float64, logStats bool, out *OutputManager) *Reporter {
	if windowSteps < 1 {
		windowSteps = 1
	}
	return &Reporter{
		windowSteps: uint64(windowSteps),
		dt:          dt,
		logStats:    logStats,
		out:         out,
	}
}

// ShouldFlush returns true if enough steps have passed to flush the window.
func (r *Reporter) ShouldFlush(steps uint64) bool {
	return steps-r.lastFlush >= r.windowSteps
}

// MaybeFlush emits a stats window if enough steps have passed since the
// last flush. pos and vel are the current render state.
func (r *Reporter) MaybeFlush(steps uint64, pos, vel []geom.Vec3, perf *PerfCollector) {
	if !r.ShouldFlush(steps) {
		return
	}

	stats := ComputeFlockStats(pos, vel, int64(steps), float64(steps)*r.dt)
	perfStats := perf.Stats()

	if r.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if r.out != nil {
		if err := r.out.WriteStats(stats); err != nil {
			slog.Error("failed to write flock stats", "error", err)
		}
		if err := r.out.WritePerf(perfStats, int64(steps)); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	r.lastFlush = steps
}
