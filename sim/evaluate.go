package sim

import "github.com/pthm-cable/flock/geom"

// evaluateBrute scans every other particle for each particle.
func (s *Simulation) evaluateBrute(cur, next []geom.Vec3) {
	s.pool.ForEach(len(s.pos), func(start, end int) {
		for i := start; i < end; i++ {
			selfPos := s.pos[i]
			var acc ruleAccum
			for j := range s.pos {
				if j == i {
					continue
				}
				acc.observe(s, selfPos, s.pos[j], cur[j])
			}
			next[i] = acc.finish(s, selfPos, cur[i])
		}
	})
}

// evaluateScattered scans the nearest 2x2x2 cell block, reaching particle
// data through the slot indirection left by the sort.
func (s *Simulation) evaluateScattered(cur, next []geom.Vec3) {
	s.pool.ForEach(len(s.pos), func(start, end int) {
		for i := start; i < end; i++ {
			selfPos := s.pos[i]
			var acc ruleAccum
			bx, by, bz := s.geo.NeighborBlock(selfPos)
			for dz := int32(0); dz < 2; dz++ {
				for dy := int32(0); dy < 2; dy++ {
					for dx := int32(0); dx < 2; dx++ {
						x, y, z := bx+dx, by+dy, bz+dz
						if !s.geo.Contains(x, y, z) {
							continue
						}
						cellStart, cellEnd := s.ranges.Span(s.geo.CellID(x, y, z))
						for k := cellStart; k < cellEnd; k++ {
							slot := s.slots[k]
							if int(slot) == i {
								continue
							}
							acc.observe(s, selfPos, s.pos[slot], cur[slot])
						}
					}
				}
			}
			next[i] = acc.finish(s, selfPos, cur[i])
		}
	})
}

// evaluateCoherent scans the same block against the gathered buffers,
// indexing them directly. next is written in sorted order; integration
// and the position swap carry that order forward as the new slot order.
func (s *Simulation) evaluateCoherent(next []geom.Vec3) {
	s.pool.ForEach(len(s.pos), func(start, end int) {
		for i := start; i < end; i++ {
			selfPos := s.posSorted[i]
			var acc ruleAccum
			bx, by, bz := s.geo.NeighborBlock(selfPos)
			for dz := int32(0); dz < 2; dz++ {
				for dy := int32(0); dy < 2; dy++ {
					for dx := int32(0); dx < 2; dx++ {
						x, y, z := bx+dx, by+dy, bz+dz
						if !s.geo.Contains(x, y, z) {
							continue
						}
						cellStart, cellEnd := s.ranges.Span(s.geo.CellID(x, y, z))
						for k := cellStart; k < cellEnd; k++ {
							if int(k) == i {
								continue
							}
							acc.observe(s, selfPos, s.posSorted[k], s.velSorted[k])
						}
					}
				}
			}
			next[i] = acc.finish(s, selfPos, s.velSorted[i])
		}
	})
}
