package sim

import "github.com/pthm-cable/flock/geom"

// ruleAccum gathers the three rule contributions for one particle over a
// neighbor scan. Each rule applies its own radius, so a neighbor can
// count toward any subset of them.
type ruleAccum struct {
	center  geom.Vec3 // summed positions of cohesion neighbors
	repel   geom.Vec3 // summed away-from-neighbor offsets
	heading geom.Vec3 // summed velocities of alignment neighbors
	nearby  int32     // cohesion neighbor count
}

// observe folds one candidate neighbor into the accumulator.
func (a *ruleAccum) observe(s *Simulation, selfPos, nPos, nVel geom.Vec3) {
	d := nPos.Sub(selfPos)
	distSq := d.LengthSq()

	if distSq < s.cohDistSq {
		a.center = a.center.Add(nPos)
		a.nearby++
	}
	if distSq < s.sepDistSq {
		a.repel = a.repel.Sub(d)
	}
	if distSq < s.aliDistSq {
		a.heading = a.heading.Add(nVel)
	}
}

// finish combines the accumulated rules with the particle's current
// velocity and clamps the result to the speed limit. Cohesion steers
// toward the average neighbor position; separation and alignment apply
// their raw sums.
func (a *ruleAccum) finish(s *Simulation, selfPos, selfVel geom.Vec3) geom.Vec3 {
	v := selfVel
	if a.nearby > 0 {
		avg := a.center.Scale(1 / float32(a.nearby))
		v = v.Add(avg.Sub(selfPos).Scale(s.params.CohesionScale))
	}
	v = v.Add(a.repel.Scale(s.params.SeparationScale))
	v = v.Add(a.heading.Scale(s.params.AlignmentScale))
	return v.ClampLength(s.params.MaxSpeed)
}
