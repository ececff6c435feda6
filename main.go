package main

import (
	"flag"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flock/config"
	"github.com/pthm-cable/flock/renderer"
	"github.com/pthm-cable/flock/sim"
	"github.com/pthm-cable/flock/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	strategyName := flag.String("strategy", "", "Neighbor evaluation strategy: brute, scattered or coherent (empty = use config)")
	particles := flag.Int("n", 0, "Particle count (0 = use config)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = use config)")
	maxSteps := flag.Int("max-steps", 0, "Stop after N steps (0 = unlimited)")
	logStats := flag.Bool("log-stats", false, "Output windowed stats via slog")
	outputDir := flag.String("out", "", "Output directory for CSV logs and config snapshot")
	stepsPerUpdate := flag.Int("steps-per-update", 0, "Simulation steps per rendered frame (0 = use config)")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// CLI flags override config values
	if *particles > 0 {
		cfg.Simulation.ParticleCount = *particles
	}
	if *seed != 0 {
		cfg.Simulation.Seed = *seed
	}
	if *strategyName != "" {
		cfg.Runtime.Strategy = *strategyName
	}
	if *outputDir != "" {
		cfg.Telemetry.OutputDir = *outputDir
	}
	if *stepsPerUpdate > 0 {
		cfg.Runtime.StepsPerUpdate = *stepsPerUpdate
	}

	strategy, err := sim.ParseStrategy(cfg.Runtime.Strategy)
	if err != nil {
		slog.Error("invalid strategy", "error", err)
		os.Exit(1)
	}

	s, err := sim.New(sim.ParamsFromConfig(cfg))
	if err != nil {
		slog.Error("failed to create simulation", "error", err)
		os.Exit(1)
	}
	defer s.Shutdown()

	out, err := telemetry.NewOutputManager(cfg.Telemetry.OutputDir)
	if err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}
	if out != nil {
		defer out.Close()
		if err := out.WriteConfig(cfg); err != nil {
			slog.Error("failed to write config snapshot", "error", err)
		}
	}

	reporter := telemetry.NewReporter(cfg.Telemetry.StatsWindow, cfg.Simulation.DT, *logStats, out)

	geo := s.Geometry()
	slog.Info("starting simulation",
		"particles", cfg.Simulation.ParticleCount,
		"strategy", strategy.String(),
		"workers", cfg.Derived.Workers,
		"seed", cfg.Simulation.Seed,
		"grid_side", geo.SideCount,
		"grid_cells", geo.CellCount,
		"cell_width", geo.CellWidth,
		"headless", *headless,
	)

	if *headless {
		// Headless mode - pure CPU simulation, no raylib needed
		for {
			s.Step(cfg.Derived.DT32, strategy)

			pos, vel := s.RenderState()
			reporter.MaybeFlush(s.Steps(), pos, vel, s.Perf())

			if *maxSteps > 0 && s.Steps() >= uint64(*maxSteps) {
				slog.Info("max steps reached", "steps", s.Steps())
				return
			}
		}
	} else {
		// Graphical mode
		rl.InitWindow(int32(cfg.Viewer.Width), int32(cfg.Viewer.Height), "Flock")
		defer rl.CloseWindow()

		rl.SetTargetFPS(int32(cfg.Viewer.TargetFPS))

		v := renderer.NewViewer(s, strategy, cfg)

		for !rl.WindowShouldClose() {
			v.Update()

			pos, vel := s.RenderState()
			reporter.MaybeFlush(s.Steps(), pos, vel, s.Perf())

			v.Draw()

			if *maxSteps > 0 && s.Steps() >= uint64(*maxSteps) {
				break
			}
		}
	}
}
