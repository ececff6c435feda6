package renderer

import (
	"github.com/pthm-cable/flock/camera"
	"github.com/pthm-cable/flock/config"
	"github.com/pthm-cable/flock/sim"
)

// Viewer runs the interactive view over a simulation: orbital camera,
// input handling, and simulation stepping decoupled from the draw rate.
type Viewer struct {
	sim *sim.Simulation
	cam *camera.Camera

	strategy       sim.Strategy
	paused         bool
	stepsPerUpdate int

	dt           float32
	maxSpeed     float32
	displayScale float32
	pointSize    float32
	domainSide   float32

	records []float32
}

// NewViewer creates a viewer over a simulation. The camera starts on an
// orbit sized to the display-space domain.
func NewViewer(s *sim.Simulation, strategy sim.Strategy, cfg *config.Config) *Viewer {
	displayScale := cfg.Derived.DisplayScale
	side := 2 * cfg.Derived.SceneScale32 * displayScale

	return &Viewer{
		sim:            s,
		cam:            camera.New(side * 1.5),
		strategy:       strategy,
		stepsPerUpdate: cfg.Runtime.StepsPerUpdate,
		dt:             cfg.Derived.DT32,
		maxSpeed:       cfg.Derived.MaxSpeed32,
		displayScale:   displayScale,
		pointSize:      float32(cfg.Viewer.PointSize),
		domainSide:     side,
	}
}

// Update processes input and advances the simulation.
func (v *Viewer) Update() {
	v.handleInput()

	if v.paused {
		return
	}
	for i := 0; i < v.stepsPerUpdate; i++ {
		v.sim.Step(v.dt, v.strategy)
	}
}

// Strategy returns the currently selected evaluation strategy.
func (v *Viewer) Strategy() sim.Strategy {
	return v.strategy
}
