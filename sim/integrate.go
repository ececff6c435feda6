package sim

import "github.com/pthm-cable/flock/geom"

// integrate advances positions by one timestep of the given velocities
// and wraps any axis that left the domain.
func (s *Simulation) integrate(pos, vel []geom.Vec3, dt float32) {
	scale := s.params.SceneScale
	s.pool.ForEach(len(pos), func(start, end int) {
		for i := start; i < end; i++ {
			p := pos[i].Add(vel[i].Scale(dt))
			p.X = wrap(p.X, scale)
			p.Y = wrap(p.Y, scale)
			p.Z = wrap(p.Z, scale)
			pos[i] = p
		}
	})
}

// wrap resets a coordinate that crossed [-scale, scale] to the opposite
// boundary. A jump past both boundaries in one step still resets once.
func wrap(v, scale float32) float32 {
	if v < -scale {
		return scale
	}
	if v > scale {
		return -scale
	}
	return v
}
