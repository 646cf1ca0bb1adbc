package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	NODETOL = 1.e-12
	HalfPi  = 0.5 * math.Pi
)

var (
	XAxis = r3.Vec{X: 1}
	YAxis = r3.Vec{Y: 1}
	ZAxis = r3.Vec{Z: 1}
)

// Normalize returns the unit vector along v, or the zero vector when v has no length
func Normalize(v r3.Vec) r3.Vec {
	mag := r3.Norm(v)
	if mag < NODETOL {
		return r3.Vec{}
	}
	return r3.Scale(1./mag, v)
}

// Angle returns the unsigned angle in radians between a and b. A zero length
// operand yields 0, the cosine is clamped to [-1,1] before the inverse
func Angle(a, b r3.Vec) (theta float64) {
	var (
		ma, mb = r3.Norm(a), r3.Norm(b)
	)
	if ma < NODETOL || mb < NODETOL {
		return 0
	}
	c := r3.Dot(a, b) / (ma * mb)
	c = math.Max(-1, math.Min(1, c))
	theta = math.Acos(c)
	if math.IsNaN(theta) {
		theta = 0
	}
	return
}

// ProjectToPlane removes the component of a along the plane normal n
func ProjectToPlane(a, n r3.Vec) r3.Vec {
	nu := Normalize(n)
	return r3.Sub(a, r3.Scale(r3.Dot(a, nu), nu))
}

// ProjectToVector splits point p into the part parallel to v and the part
// perpendicular to it
func ProjectToVector(p, v r3.Vec) (parallel, perpendicular r3.Vec) {
	vu := Normalize(v)
	parallel = r3.Scale(r3.Dot(p, vu), vu)
	perpendicular = r3.Sub(p, parallel)
	return
}

// Rodrigues rotates v about axis k by theta radians (right hand rule)
func Rodrigues(v, k r3.Vec, theta float64) r3.Vec {
	var (
		ku   = Normalize(k)
		c, s = math.Cos(theta), math.Sin(theta)
	)
	rot := r3.Scale(c, v)
	rot = r3.Add(rot, r3.Scale(s, r3.Cross(ku, v)))
	rot = r3.Add(rot, r3.Scale(r3.Dot(ku, v)*(1-c), ku))
	return rot
}

// Resultant is the magnitude of p over the plane named by code, or over all
// three axes when code does not name a plane
func Resultant(p r3.Vec, code AxisCode) float64 {
	switch code {
	case 12, 21:
		return math.Hypot(p.X, p.Y)
	case 13, 31:
		return math.Hypot(p.X, p.Z)
	case 23, 32:
		return math.Hypot(p.Y, p.Z)
	default:
		return r3.Norm(p)
	}
}

// Component returns the axis'th component of p, axis in 1..3
func Component(p r3.Vec, axis int) float64 {
	switch axis {
	case 1:
		return p.X
	case 2:
		return p.Y
	default:
		return p.Z
	}
}

// Unit returns the basis vector for axis in 1..3
func Unit(axis int) r3.Vec {
	switch axis {
	case 1:
		return XAxis
	case 2:
		return YAxis
	default:
		return ZAxis
	}
}
