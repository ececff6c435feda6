// Package geom provides float32 vector math for the simulation hot paths.
package geom

import "math"

// Vec3 is a 3-component float32 vector. Methods are value-based and never
// mutate the receiver.
type Vec3 struct {
	X, Y, Z float32
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v scaled by s.
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float32 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// LengthSq returns the squared length of v.
func (v Vec3) LengthSq() float32 {
	return v.Dot(v)
}

// Length returns the length of v.
func (v Vec3) Length() float32 {
	return float32(math.Sqrt(float64(v.LengthSq())))
}

// DistSq returns the squared distance between v and o.
func (v Vec3) DistSq(o Vec3) float32 {
	return v.Sub(o).LengthSq()
}

// ClampLength returns v rescaled to length max if it is longer than max,
// preserving direction. Shorter vectors are returned unchanged.
func (v Vec3) ClampLength(max float32) Vec3 {
	lenSq := v.LengthSq()
	if lenSq <= max*max {
		return v
	}
	return v.Scale(max / float32(math.Sqrt(float64(lenSq))))
}
