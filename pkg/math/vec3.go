package math

import "github.com/chewxy/math32"

// Cross computes the cross product of two 3D vectors.
func Cross(a, b [3]float32) [3]float32 {
	return [3]float32{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// Dot returns the dot product of two 3D vectors.
func Dot(a, b [3]float32) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

// Length returns the magnitude of a 3D vector.
func Length(v [3]float32) float32 {
	return math32.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// Normalize returns a unit vector in the same direction as v.
// A degenerate vector normalizes to +Y.
func Normalize(v [3]float32) [3]float32 {
	length := Length(v)
	if length < 1e-5 {
		return [3]float32{0, 1, 0}
	}
	return [3]float32{v[0] / length, v[1] / length, v[2] / length}
}
