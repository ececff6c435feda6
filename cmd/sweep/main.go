// Package main provides a benchmark sweep comparing the three neighbor
// evaluation strategies across particle counts.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/flock/config"
	"github.com/pthm-cable/flock/sim"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	counts := flag.String("counts", "500,1000,2000,5000", "Comma-separated particle counts")
	steps := flag.Int("steps", 100, "Timed steps per configuration")
	warmup := flag.Int("warmup", 10, "Untimed steps before measurement")
	seed := flag.Int64("seed", 42, "RNG seed shared by all configurations")
	outPath := flag.String("out", "", "CSV output path (empty = print only)")
	flag.Parse()

	// Load base config
	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Cfg()

	populations, err := parseCounts(*counts)
	if err != nil {
		log.Fatalf("invalid -counts: %v", err)
	}

	strategies := []sim.Strategy{sim.BruteForce, sim.ScatteredGrid, sim.CoherentGrid}

	// Open CSV output if requested
	var writer *csv.Writer
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			log.Fatalf("failed to create output file: %v", err)
		}
		defer f.Close()

		writer = csv.NewWriter(f)
		defer writer.Flush()
		writer.Write([]string{"particles", "strategy", "steps", "mean_step_us", "std_step_us", "steps_per_sec"})
	}

	fmt.Printf("Sweeping %d populations x %d strategies, %d timed steps each (warmup %d)\n",
		len(populations), len(strategies), *steps, *warmup)

	startTime := time.Now()
	for _, n := range populations {
		for _, strategy := range strategies {
			mean, std := runCell(cfg, n, *seed, strategy, *warmup, *steps)

			var stepsPerSec float64
			if mean > 0 {
				stepsPerSec = 1e6 / mean
			}

			fmt.Printf("n=%-6d %-9s mean=%.1fus std=%.1fus steps/s=%.0f\n",
				n, strategy, mean, std, stepsPerSec)

			if writer != nil {
				writer.Write([]string{
					strconv.Itoa(n),
					strategy.String(),
					strconv.Itoa(*steps),
					fmt.Sprintf("%.2f", mean),
					fmt.Sprintf("%.2f", std),
					fmt.Sprintf("%.2f", stepsPerSec),
				})
				writer.Flush()
			}
		}
	}

	fmt.Printf("\nSweep complete in %s\n", time.Since(startTime).Round(time.Second))
	if *outPath != "" {
		fmt.Printf("Results written to %s\n", *outPath)
	}
}

// runCell times one (population, strategy) cell and returns the mean and
// standard deviation of the step duration in microseconds.
func runCell(cfg *config.Config, n int, seed int64, strategy sim.Strategy, warmup, steps int) (mean, std float64) {
	params := sim.ParamsFromConfig(cfg)
	params.ParticleCount = n
	params.Seed = seed

	s, err := sim.New(params)
	if err != nil {
		log.Fatalf("failed to create simulation (n=%d): %v", n, err)
	}
	defer s.Shutdown()

	dt := cfg.Derived.DT32

	for i := 0; i < warmup; i++ {
		s.Step(dt, strategy)
	}

	samples := make([]float64, steps)
	for i := 0; i < steps; i++ {
		start := time.Now()
		s.Step(dt, strategy)
		samples[i] = float64(time.Since(start)) / float64(time.Microsecond)
	}

	return stat.Mean(samples, nil), stat.StdDev(samples, nil)
}

// parseCounts parses a comma-separated list of particle counts.
func parseCounts(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	counts := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("bad count %q: %w", p, err)
		}
		if n < 1 {
			return nil, fmt.Errorf("count must be positive, got %d", n)
		}
		counts = append(counts, n)
	}
	return counts, nil
}
