package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/flock/geom"
)

// FlockStats summarizes particle motion sampled at a window boundary.
type FlockStats struct {
	WindowEndStep int64   `csv:"window_end"`
	SimTime       float64 `csv:"sim_time"`

	// Speed distribution
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedP10  float64 `csv:"speed_p10"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`

	// Flock geometry
	CentroidX float64 `csv:"centroid_x"`
	CentroidY float64 `csv:"centroid_y"`
	CentroidZ float64 `csv:"centroid_z"`
	Spread    float64 `csv:"spread"` // RMS distance from the centroid
}

// ComputeFlockStats derives window statistics from the particle state.
func ComputeFlockStats(pos, vel []geom.Vec3, windowEndStep int64, simTime float64) FlockStats {
	s := FlockStats{WindowEndStep: windowEndStep, SimTime: simTime}
	n := len(pos)
	if n == 0 {
		return s
	}

	speeds := make([]float64, n)
	for i, v := range vel {
		speeds[i] = float64(v.Length())
	}

	var cx, cy, cz float64
	for _, p := range pos {
		cx += float64(p.X)
		cy += float64(p.Y)
		cz += float64(p.Z)
	}
	cx /= float64(n)
	cy /= float64(n)
	cz /= float64(n)

	var distSqSum float64
	for _, p := range pos {
		dx := float64(p.X) - cx
		dy := float64(p.Y) - cy
		dz := float64(p.Z) - cz
		distSqSum += dx*dx + dy*dy + dz*dz
	}

	// Quantile wants sorted input
	sort.Float64s(speeds)

	s.SpeedMean = stat.Mean(speeds, nil)
	if n > 1 {
		s.SpeedStd = stat.StdDev(speeds, nil)
	}
	s.SpeedP10 = stat.Quantile(0.10, stat.LinInterp, speeds, nil)
	s.SpeedP50 = stat.Quantile(0.50, stat.LinInterp, speeds, nil)
	s.SpeedP90 = stat.Quantile(0.90, stat.LinInterp, speeds, nil)

	s.CentroidX = cx
	s.CentroidY = cy
	s.CentroidZ = cz
	s.Spread = math.Sqrt(distSqSum / float64(n))

	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s FlockStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_end", s.WindowEndStep),
		slog.Float64("sim_time", s.SimTime),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_std", s.SpeedStd),
		slog.Float64("speed_p10", s.SpeedP10),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("centroid_x", s.CentroidX),
		slog.Float64("centroid_y", s.CentroidY),
		slog.Float64("centroid_z", s.CentroidZ),
		slog.Float64("spread", s.Spread),
	)
}

// LogStats logs the window stats using slog.
func (s FlockStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndStep,
		"sim_time", s.SimTime,
		"speed_mean", s.SpeedMean,
		"speed_std", s.SpeedStd,
		"speed_p10", s.SpeedP10,
		"speed_p50", s.SpeedP50,
		"speed_p90", s.SpeedP90,
		"centroid_x", s.CentroidX,
		"centroid_y", s.CentroidY,
		"centroid_z", s.CentroidZ,
		"spread", s.Spread,
	)
}
