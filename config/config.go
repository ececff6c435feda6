// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Rules      RulesConfig      `yaml:"rules"`
	Runtime    RuntimeConfig    `yaml:"runtime"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Viewer     ViewerConfig     `yaml:"viewer"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// SimulationConfig holds population and domain parameters.
type SimulationConfig struct {
	ParticleCount int     `yaml:"particle_count"`
	DT            float64 `yaml:"dt"`
	SceneScale    float64 `yaml:"scene_scale"` // Half-width of the cubic domain
	MaxSpeed      float64 `yaml:"max_speed"`
	Seed          int64   `yaml:"seed"`
}

// RulesConfig holds the three flocking rule radii and weights.
type RulesConfig struct {
	CohesionDistance   float64 `yaml:"cohesion_distance"`
	CohesionScale      float64 `yaml:"cohesion_scale"`
	SeparationDistance float64 `yaml:"separation_distance"`
	SeparationScale    float64 `yaml:"separation_scale"`
	AlignmentDistance  float64 `yaml:"alignment_distance"`
	AlignmentScale     float64 `yaml:"alignment_scale"`
}

// RuntimeConfig holds execution parameters.
type RuntimeConfig struct {
	Strategy       string `yaml:"strategy"`         // brute | scattered | coherent
	Workers        int    `yaml:"workers"`          // 0 = one per CPU
	StepsPerUpdate int    `yaml:"steps_per_update"` // Simulation steps per rendered frame
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfWindow  int    `yaml:"perf_window"`  // Steps in the rolling stage-timing window
	StatsWindow int    `yaml:"stats_window"` // Steps between flock stat snapshots
	OutputDir   string `yaml:"output_dir"`   // CSV/snapshot destination; empty disables output
}

// ViewerConfig holds display settings.
type ViewerConfig struct {
	Width        int     `yaml:"width"`
	Height       int     `yaml:"height"`
	TargetFPS    int     `yaml:"target_fps"`
	PointSize    float64 `yaml:"point_size"`    // Boid cube edge in display units
	DisplayScale float64 `yaml:"display_scale"` // World to display scale; 0 = 1/scene_scale
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32         float32 // Simulation.DT as float32
	SceneScale32 float32 // Simulation.SceneScale as float32
	MaxSpeed32   float32 // Simulation.MaxSpeed as float32
	CellWidth    float32 // Twice the largest rule distance
	DisplayScale float32 // Effective world to display scale
	Workers      int     // Effective worker count
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	// Compute derived values
	cfg.computeDerived()

	return cfg, nil
}

// validate rejects values the simulation cannot be constructed from.
// The strategy name is checked by the sim package when it is parsed.
func (c *Config) validate() error {
	if c.Simulation.ParticleCount <= 0 {
		return fmt.Errorf("simulation.particle_count must be positive, got %d", c.Simulation.ParticleCount)
	}
	if c.Simulation.DT <= 0 {
		return fmt.Errorf("simulation.dt must be positive, got %v", c.Simulation.DT)
	}
	if c.Simulation.SceneScale <= 0 {
		return fmt.Errorf("simulation.scene_scale must be positive, got %v", c.Simulation.SceneScale)
	}
	if c.Simulation.MaxSpeed <= 0 {
		return fmt.Errorf("simulation.max_speed must be positive, got %v", c.Simulation.MaxSpeed)
	}
	distances := []struct {
		name string
		val  float64
	}{
		{"rules.cohesion_distance", c.Rules.CohesionDistance},
		{"rules.separation_distance", c.Rules.SeparationDistance},
		{"rules.alignment_distance", c.Rules.AlignmentDistance},
	}
	for _, d := range distances {
		if d.val <= 0 {
			return fmt.Errorf("%s must be positive, got %v", d.name, d.val)
		}
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Simulation.DT)
	c.Derived.SceneScale32 = float32(c.Simulation.SceneScale)
	c.Derived.MaxSpeed32 = float32(c.Simulation.MaxSpeed)

	// Cell width is twice the largest rule radius so every neighbor within
	// any rule's reach lies in the particle's own cell or an adjacent one.
	maxDist := c.Rules.CohesionDistance
	if c.Rules.SeparationDistance > maxDist {
		maxDist = c.Rules.SeparationDistance
	}
	if c.Rules.AlignmentDistance > maxDist {
		maxDist = c.Rules.AlignmentDistance
	}
	c.Derived.CellWidth = float32(2 * maxDist)

	scale := c.Viewer.DisplayScale
	if scale == 0 {
		scale = 1 / c.Simulation.SceneScale
	}
	c.Derived.DisplayScale = float32(scale)

	workers := c.Runtime.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	c.Derived.Workers = workers

	if c.Runtime.StepsPerUpdate <= 0 {
		c.Runtime.StepsPerUpdate = 1
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
