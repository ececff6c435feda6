// Package camera provides an orbital 3D camera for viewport control.
package camera

import (
	"math"

	"github.com/pthm-cable/flock/geom"
)

// Default orbit placed above and to the side of the flock.
const (
	defaultAzimuth   = math.Pi / 4
	defaultElevation = math.Pi / 8

	// Elevation stops just short of the poles so the view never flips.
	elevationLimit = math.Pi/2 - 0.05
)

// Camera orbits a target point at a fixed distance, always looking
// at the target. Angles are in radians.
type Camera struct {
	// Target is the point the camera looks at
	Target geom.Vec3

	// Azimuth is the horizontal orbit angle around the Y axis
	Azimuth float32

	// Elevation is the angle above the horizontal plane
	Elevation float32

	// Distance from the camera to the target
	Distance float32

	// Distance constraints
	MinDistance, MaxDistance float32

	// HomeDistance is the distance Reset returns to
	HomeDistance float32
}

// New creates a camera orbiting the origin at the given distance.
func New(distance float32) *Camera {
	return &Camera{
		Azimuth:      defaultAzimuth,
		Elevation:    defaultElevation,
		Distance:     distance,
		MinDistance:  distance / 5,
		MaxDistance:  distance * 5,
		HomeDistance: distance,
	}
}

// Position returns the camera location in world coordinates.
func (c *Camera) Position() geom.Vec3 {
	sinA, cosA := sincos(c.Azimuth)
	sinE, cosE := sincos(c.Elevation)
	return c.Target.Add(geom.Vec3{
		X: c.Distance * cosE * cosA,
		Y: c.Distance * sinE,
		Z: c.Distance * cosE * sinA,
	})
}

// Rotate adjusts the orbit angles by the given deltas in radians.
// Azimuth wraps around; elevation is clamped short of the poles.
func (c *Camera) Rotate(dAzimuth, dElevation float32) {
	c.Azimuth = mod(c.Azimuth+dAzimuth, 2*math.Pi)
	c.Elevation = clamp(c.Elevation+dElevation, -elevationLimit, elevationLimit)
}

// Pan moves the target by the given deltas along the camera's right
// and up axes, in world units.
func (c *Camera) Pan(dx, dy float32) {
	sinA, cosA := sincos(c.Azimuth)
	sinE, cosE := sincos(c.Elevation)

	// Right is horizontal; up is the view-plane up tilted by elevation.
	right := geom.Vec3{X: sinA, Y: 0, Z: -cosA}
	up := geom.Vec3{X: -sinE * cosA, Y: cosE, Z: -sinE * sinA}

	c.Target = c.Target.Add(right.Scale(dx)).Add(up.Scale(dy))
}

// SetDistance sets the orbit distance, clamped to min/max.
func (c *Camera) SetDistance(distance float32) {
	c.Distance = clamp(distance, c.MinDistance, c.MaxDistance)
}

// ZoomBy multiplies the current orbit distance by the given factor.
// Factors below 1 move the camera closer.
func (c *Camera) ZoomBy(factor float32) {
	c.SetDistance(c.Distance * factor)
}

// Reset returns the camera to the default orbit around the origin.
func (c *Camera) Reset() {
	c.Target = geom.Vec3{}
	c.Azimuth = defaultAzimuth
	c.Elevation = defaultElevation
	c.Distance = c.HomeDistance
}

// sincos returns the sine and cosine of a float32 angle.
func sincos(a float32) (sin, cos float32) {
	s, c := math.Sincos(float64(a))
	return float32(s), float32(c)
}

// mod computes the positive modulo (Go's % can return negative).
func mod(x, m float32) float32 {
	r := float32(math.Mod(float64(x), float64(m)))
	if r < 0 {
		r += m
	}
	return r
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
