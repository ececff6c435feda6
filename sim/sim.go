// Package sim implements the flocking simulation core: particle state in
// flat slot-indexed arrays, three interchangeable neighbor evaluation
// strategies over a uniform spatial grid, and the step pipeline that
// drives them.
package sim

import (
	"fmt"
	"math/rand"

	"github.com/pthm-cable/flock/config"
	"github.com/pthm-cable/flock/geom"
	"github.com/pthm-cable/flock/grid"
	"github.com/pthm-cable/flock/par"
	"github.com/pthm-cable/flock/telemetry"
)

// Params configures a Simulation. Tests and sweep tools build it
// directly; the CLI goes through ParamsFromConfig.
type Params struct {
	ParticleCount int
	SceneScale    float32 // Half-width of the cubic domain
	MaxSpeed      float32

	CohesionDistance   float32
	CohesionScale      float32
	SeparationDistance float32
	SeparationScale    float32
	AlignmentDistance  float32
	AlignmentScale     float32

	Workers    int // 0 = one per CPU
	Seed       int64
	PerfWindow int // Steps in the perf rolling window; 0 = default
}

// ParamsFromConfig maps the loaded configuration onto simulation
// parameters.
func ParamsFromConfig(cfg *config.Config) Params {
	return Params{
		ParticleCount:      cfg.Simulation.ParticleCount,
		SceneScale:         cfg.Derived.SceneScale32,
		MaxSpeed:           cfg.Derived.MaxSpeed32,
		CohesionDistance:   float32(cfg.Rules.CohesionDistance),
		CohesionScale:      float32(cfg.Rules.CohesionScale),
		SeparationDistance: float32(cfg.Rules.SeparationDistance),
		SeparationScale:    float32(cfg.Rules.SeparationScale),
		AlignmentDistance:  float32(cfg.Rules.AlignmentDistance),
		AlignmentScale:     float32(cfg.Rules.AlignmentScale),
		Workers:            cfg.Derived.Workers,
		Seed:               cfg.Simulation.Seed,
		PerfWindow:         cfg.Telemetry.PerfWindow,
	}
}

// Simulation owns all particle state and the per-step grid buffers.
// Methods are driven from a single goroutine; the internal worker pool
// fans each pipeline stage out across CPUs and joins before the next
// stage starts.
type Simulation struct {
	params Params
	geo    grid.Geometry
	pool   *par.Pool
	perf   *telemetry.PerfCollector
	steps  uint64

	// Particle state. pos is mutated in place by integration; vel is a
	// ping-pong pair and cur selects the generation being read.
	pos []geom.Vec3
	vel [2][]geom.Vec3
	cur int

	// Per-step grid scratch, fully rebuilt every step.
	cellIDs []int32
	slots   []int32
	ranges  grid.Ranges
	sorter  *grid.Sorter

	// Gather targets for the coherent strategy.
	posSorted []geom.Vec3
	velSorted []geom.Vec3

	// Squared rule radii, precomputed once.
	cohDistSq float32
	sepDistSq float32
	aliDistSq float32
}

// New allocates a simulation and seeds particle positions uniformly in
// [-SceneScale, SceneScale]^3 with zero initial velocities.
func New(p Params) (*Simulation, error) {
	if p.ParticleCount <= 0 {
		return nil, fmt.Errorf("sim: particle count must be positive, got %d", p.ParticleCount)
	}
	if p.SceneScale <= 0 {
		return nil, fmt.Errorf("sim: scene scale must be positive, got %v", p.SceneScale)
	}
	if p.MaxSpeed <= 0 {
		return nil, fmt.Errorf("sim: max speed must be positive, got %v", p.MaxSpeed)
	}
	maxDist := p.CohesionDistance
	if p.SeparationDistance > maxDist {
		maxDist = p.SeparationDistance
	}
	if p.AlignmentDistance > maxDist {
		maxDist = p.AlignmentDistance
	}
	if maxDist <= 0 {
		return nil, fmt.Errorf("sim: rule distances must be positive")
	}

	// Cells twice the largest rule radius guarantee every neighbor within
	// any rule's reach lies in the nearest 2x2x2 cell block.
	geo := grid.NewGeometry(p.SceneScale, 2*maxDist)

	n := p.ParticleCount
	s := &Simulation{
		params:    p,
		geo:       geo,
		pool:      par.NewPool(p.Workers),
		perf:      telemetry.NewPerfCollector(p.PerfWindow),
		pos:       make([]geom.Vec3, n),
		vel:       [2][]geom.Vec3{make([]geom.Vec3, n), make([]geom.Vec3, n)},
		cellIDs:   make([]int32, n),
		slots:     make([]int32, n),
		ranges:    grid.NewRanges(geo.CellCount),
		sorter:    grid.NewSorter(n),
		posSorted: make([]geom.Vec3, n),
		velSorted: make([]geom.Vec3, n),
		cohDistSq: p.CohesionDistance * p.CohesionDistance,
		sepDistSq: p.SeparationDistance * p.SeparationDistance,
		aliDistSq: p.AlignmentDistance * p.AlignmentDistance,
	}

	rng := rand.New(rand.NewSource(p.Seed))
	for i := range s.pos {
		s.pos[i] = geom.Vec3{
			X: (2*rng.Float32() - 1) * p.SceneScale,
			Y: (2*rng.Float32() - 1) * p.SceneScale,
			Z: (2*rng.Float32() - 1) * p.SceneScale,
		}
	}

	return s, nil
}

// Step advances the simulation one timestep using the given strategy.
// Each pipeline stage runs to completion across all particles before the
// next begins.
func (s *Simulation) Step(dt float32, strategy Strategy) {
	s.perf.StartStep()
	n := len(s.pos)

	if strategy != BruteForce {
		// 1. Reset per-cell ranges to the empty sentinel.
		s.perf.StartPhase(telemetry.PhaseReset)
		s.ranges.Reset(s.pool)

		// 2. Label every particle with its slot and cell id.
		s.perf.StartPhase(telemetry.PhaseIndex)
		s.pool.ForEach(n, func(start, end int) {
			for i := start; i < end; i++ {
				s.slots[i] = int32(i)
				s.cellIDs[i] = s.geo.CellIDOf(s.pos[i])
			}
		})

		// 3. Group particles by cell. One stable sort carries the slot
		// payload, so every buffer derived from it shares a single
		// permutation.
		s.perf.StartPhase(telemetry.PhaseSort)
		s.sorter.SortByKey(s.cellIDs, s.slots, s.pool)

		// 4. Derive per-cell [start, end) ranges from the sorted ids.
		s.perf.StartPhase(telemetry.PhaseRanges)
		s.ranges.Build(s.cellIDs, s.pool)
	}

	if strategy == CoherentGrid {
		// 5. Pull positions and velocities into sorted order so
		// evaluation indexes them directly.
		s.perf.StartPhase(telemetry.PhaseGather)
		s.gatherSorted()
	}

	// 6. Evaluate the flocking rules into the next velocity generation.
	s.perf.StartPhase(telemetry.PhaseEvaluate)
	cur, next := s.vel[s.cur], s.vel[s.cur^1]
	switch strategy {
	case BruteForce:
		s.evaluateBrute(cur, next)
	case ScatteredGrid:
		s.evaluateScattered(cur, next)
	case CoherentGrid:
		s.evaluateCoherent(next)
	}

	// 7. Integrate positions from the new velocities and wrap at the
	// domain boundary.
	s.perf.StartPhase(telemetry.PhaseIntegrate)
	if strategy == CoherentGrid {
		// The coherent pass produced state in sorted order; integrate it
		// there and adopt the sorted order as the new slot order.
		s.integrate(s.posSorted, next, dt)
		s.pos, s.posSorted = s.posSorted, s.pos
	} else {
		s.integrate(s.pos, next, dt)
	}

	// 8. The freshly written buffer becomes the current generation.
	s.cur ^= 1
	s.steps++
	s.perf.EndStep()
}

// gatherSorted copies particle state into sorted-cell order. slots maps
// each sorted position to the slot it came from.
func (s *Simulation) gatherSorted() {
	cur := s.vel[s.cur]
	s.pool.ForEach(len(s.pos), func(start, end int) {
		for i := start; i < end; i++ {
			src := s.slots[i]
			s.posSorted[i] = s.pos[src]
			s.velSorted[i] = cur[src]
		}
	})
}

// RenderState exposes the particle positions and current velocities for
// rendering. The slices alias simulation storage and are only valid to
// read between steps.
func (s *Simulation) RenderState() (pos, vel []geom.Vec3) {
	return s.pos, s.vel[s.cur]
}

// Geometry returns the grid geometry derived at construction.
func (s *Simulation) Geometry() grid.Geometry {
	return s.geo
}

// Perf returns the per-stage timing collector.
func (s *Simulation) Perf() *telemetry.PerfCollector {
	return s.perf
}

// Steps returns the number of completed steps.
func (s *Simulation) Steps() uint64 {
	return s.steps
}

// Shutdown stops the worker pool. The simulation must not be stepped
// afterwards.
func (s *Simulation) Shutdown() {
	s.pool.Stop()
}
