package geometry

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	ErrSingular   = errors.New("singular transformation matrix")
	ErrDegenerate = errors.New("degenerate axis definition")
)

// Transform is a 3x3 rotation whose rows are the local axes expressed in the
// reference frame, so Apply takes a reference frame vector into local axes
type Transform struct {
	M [3][3]float64
}

func Identity() Transform {
	return Transform{M: [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}}
}

// FromAxes builds the transform directly from three axis vectors, each is
// normalized
func FromAxes(x, y, z r3.Vec) (t Transform, err error) {
	for i, v := range [3]r3.Vec{x, y, z} {
		u := Normalize(v)
		if r3.Norm(u) == 0 {
			err = fmt.Errorf("%w: axis %d has zero length", ErrDegenerate, i+1)
			return
		}
		t.SetRow(i, u)
	}
	return
}

// FromTwoVectors builds the transform from a primary axis v1 and a vector v2
// lying in the plane of the primary and the second axis named by code. Codes
// outside the six valid pairs fall back to 32
func FromTwoVectors(v1, v2 r3.Vec, code AxisCode) (t Transform, err error) {
	var x, y, z r3.Vec
	switch code {
	case 12:
		x = v1
		z = r3.Cross(v1, v2)
		y = r3.Cross(z, v1)
	case 13:
		x = v1
		y = r3.Cross(v2, v1)
		z = r3.Cross(v1, y)
	case 21:
		y = v1
		z = r3.Cross(v2, v1)
		x = r3.Cross(v1, z)
	case 23:
		y = v1
		x = r3.Cross(v1, v2)
		z = r3.Cross(x, v1)
	case 31:
		z = v1
		y = r3.Cross(v1, v2)
		x = r3.Cross(y, v1)
	default:
		z = v1
		x = r3.Cross(v2, v1)
		y = r3.Cross(v1, x)
	}
	return FromAxes(x, y, z)
}

// FromPoints builds the transform from (p2-p1, p3-p1), see FromTwoVectors
func FromPoints(p1, p2, p3 r3.Vec, code AxisCode) (Transform, error) {
	return FromTwoVectors(r3.Sub(p2, p1), r3.Sub(p3, p1), code)
}

// FromEuler rotates the basis about z by alpha, then about the new x by beta,
// then about the new z by gamma (ZXZ), angles in radians
func FromEuler(alpha, beta, gamma float64) (t Transform) {
	var (
		x, y, z = XAxis, YAxis, ZAxis
	)
	x, y = Rodrigues(x, z, alpha), Rodrigues(y, z, alpha)
	y, z = Rodrigues(y, x, beta), Rodrigues(z, x, beta)
	x, y = Rodrigues(x, z, gamma), Rodrigues(y, z, gamma)
	t.SetRow(0, x)
	t.SetRow(1, y)
	t.SetRow(2, z)
	return
}

func (t *Transform) SetRow(i int, v r3.Vec) {
	t.M[i] = [3]float64{v.X, v.Y, v.Z}
}

// Row returns local axis i (0 based) in the reference frame
func (t Transform) Row(i int) r3.Vec {
	return r3.Vec{X: t.M[i][0], Y: t.M[i][1], Z: t.M[i][2]}
}

func (t Transform) Apply(v r3.Vec) r3.Vec {
	return r3.Vec{
		X: t.M[0][0]*v.X + t.M[0][1]*v.Y + t.M[0][2]*v.Z,
		Y: t.M[1][0]*v.X + t.M[1][1]*v.Y + t.M[1][2]*v.Z,
		Z: t.M[2][0]*v.X + t.M[2][1]*v.Y + t.M[2][2]*v.Z,
	}
}

// Mul returns the composition t·o, applying o first
func (t Transform) Mul(o Transform) (r Transform) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				r.M[i][j] += t.M[i][k] * o.M[k][j]
			}
		}
	}
	return
}

func (t Transform) Det() float64 {
	m := t.M
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

// Inverse is the closed form adjugate divided by the determinant
func (t Transform) Inverse() (inv Transform, err error) {
	var (
		m   = t.M
		det = t.Det()
	)
	if math.Abs(det) < NODETOL {
		err = ErrSingular
		return
	}
	// transposed cofactors
	inv.M[0][0] = m[1][1]*m[2][2] - m[1][2]*m[2][1]
	inv.M[0][1] = m[0][2]*m[2][1] - m[0][1]*m[2][2]
	inv.M[0][2] = m[0][1]*m[1][2] - m[0][2]*m[1][1]
	inv.M[1][0] = m[1][2]*m[2][0] - m[1][0]*m[2][2]
	inv.M[1][1] = m[0][0]*m[2][2] - m[0][2]*m[2][0]
	inv.M[1][2] = m[0][2]*m[1][0] - m[0][0]*m[1][2]
	inv.M[2][0] = m[1][0]*m[2][1] - m[1][1]*m[2][0]
	inv.M[2][1] = m[0][1]*m[2][0] - m[0][0]*m[2][1]
	inv.M[2][2] = m[0][0]*m[1][1] - m[0][1]*m[1][0]
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			inv.M[i][j] /= det
		}
	}
	return
}

func (t Transform) Dense() *mat.Dense {
	data := make([]float64, 0, 9)
	for i := 0; i < 3; i++ {
		data = append(data, t.M[i][:]...)
	}
	return mat.NewDense(3, 3, data)
}

func (t Transform) String() string {
	return fmt.Sprintf("%v", mat.Formatted(t.Dense(), mat.Squeeze()))
}
