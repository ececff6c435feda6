// Package renderer draws the flock in a raylib window: an orbital camera
// over a point cloud of boids packed into display-space records.
package renderer

import "github.com/pthm-cable/flock/geom"

// PackDisplayRecords converts simulation positions into interleaved
// 4-component display records: three coordinates scaled into display
// space followed by a constant w of 1. dst is reused when it has
// capacity; the packed slice is returned.
func PackDisplayRecords(pos []geom.Vec3, scale float32, dst []float32) []float32 {
	n := len(pos) * 4
	if cap(dst) < n {
		dst = make([]float32, n)
	}
	dst = dst[:n]
	for i, p := range pos {
		j := i * 4
		dst[j] = p.X * scale
		dst[j+1] = p.Y * scale
		dst[j+2] = p.Z * scale
		dst[j+3] = 1
	}
	return dst
}

// VelocityColor maps a velocity to an RGB color. Each axis component
// shifts its channel away from mid-grey, so heading shows as hue and
// stationary boids read as grey.
func VelocityColor(vel geom.Vec3, maxSpeed float32) (r, g, b uint8) {
	if maxSpeed <= 0 {
		return 127, 127, 127
	}
	return channel(vel.X, maxSpeed), channel(vel.Y, maxSpeed), channel(vel.Z, maxSpeed)
}

// channel maps a velocity component from [-maxSpeed, maxSpeed] to [0, 255].
func channel(v, maxSpeed float32) uint8 {
	t := v/maxSpeed*0.5 + 0.5
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return uint8(t * 255)
}
