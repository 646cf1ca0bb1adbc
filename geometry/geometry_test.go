package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

func vecNear(t *testing.T, want, got r3.Vec, tol float64) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, tol)
	assert.InDelta(t, want.Y, got.Y, tol)
	assert.InDelta(t, want.Z, got.Z, tol)
}

func TestAngle(t *testing.T) {
	v := r3.Vec{X: 1, Y: 2, Z: -3}
	{ // Opposite parallel vectors do not produce NaN
		theta := Angle(v, r3.Scale(-1.e9, v))
		assert.False(t, math.IsNaN(theta))
		assert.InDelta(t, math.Pi, theta, 1.e-9)
	}
	{ // Zero operand
		assert.Equal(t, 0., Angle(v, r3.Vec{}))
		assert.Equal(t, 0., Angle(r3.Vec{}, v))
	}
	{
		assert.InDelta(t, HalfPi, Angle(XAxis, YAxis), 1.e-12)
		assert.InDelta(t, 0.25*math.Pi, Angle(XAxis, r3.Vec{X: 1, Y: 1}), 1.e-12)
	}
}

func TestProjections(t *testing.T) {
	{
		p := ProjectToPlane(r3.Vec{X: 1, Y: 2, Z: 3}, r3.Vec{Z: 5})
		vecNear(t, r3.Vec{X: 1, Y: 2}, p, 1.e-12)
	}
	{
		par, perp := ProjectToVector(r3.Vec{X: 3, Y: 4}, r3.Vec{X: 2})
		vecNear(t, r3.Vec{X: 3}, par, 1.e-12)
		vecNear(t, r3.Vec{Y: 4}, perp, 1.e-12)
	}
}

func TestRodrigues(t *testing.T) {
	vecNear(t, YAxis, Rodrigues(XAxis, ZAxis, HalfPi), 1.e-12)
	vecNear(t, r3.Scale(-1, XAxis), Rodrigues(XAxis, r3.Vec{Z: 7}, math.Pi), 1.e-12)
	// Rotation about the vector itself leaves it unchanged
	v := r3.Vec{X: 1, Y: 1, Z: 1}
	vecNear(t, v, Rodrigues(v, v, 1.234), 1.e-12)
}

func TestResultant(t *testing.T) {
	p := r3.Vec{X: 3, Y: 4, Z: 12}
	assert.InDelta(t, 5., Resultant(p, 12), 1.e-12)
	assert.InDelta(t, 5., Resultant(p, 21), 1.e-12)
	assert.InDelta(t, math.Hypot(3, 12), Resultant(p, 31), 1.e-12)
	assert.InDelta(t, math.Hypot(4, 12), Resultant(p, 23), 1.e-12)
	assert.InDelta(t, 13., Resultant(p, 0), 1.e-12)
}

func TestAxisCode(t *testing.T) {
	for _, c := range []int{12, 13, 21, 23, 31, 32} {
		ac, err := NewAxisCode(c)
		require.NoError(t, err)
		assert.Equal(t, 6, ac.Primary()+ac.Secondary()+ac.Remaining())
	}
	for _, c := range []int{0, 11, 22, 14, 40, 123} {
		_, err := NewAxisCode(c)
		assert.ErrorIs(t, err, ErrAxisCode)
	}
	ac := AxisCode(31)
	assert.Equal(t, 3, ac.Primary())
	assert.Equal(t, 1, ac.Secondary())
	assert.Equal(t, 2, ac.Remaining())
}

func TestFromTwoVectors(t *testing.T) {
	// A tilted in-plane vector is re-orthogonalized for every code
	v1, v2 := r3.Vec{Z: 2}, r3.Vec{X: 1, Z: 0.5}
	tr, err := FromTwoVectors(v1, v2, 31)
	require.NoError(t, err)
	vecNear(t, XAxis, tr.Row(0), 1.e-12)
	vecNear(t, YAxis, tr.Row(1), 1.e-12)
	vecNear(t, ZAxis, tr.Row(2), 1.e-12)

	tr, err = FromTwoVectors(XAxis, r3.Vec{X: 1, Y: 1}, 12)
	require.NoError(t, err)
	vecNear(t, XAxis, tr.Row(0), 1.e-12)
	vecNear(t, YAxis, tr.Row(1), 1.e-12)
	vecNear(t, ZAxis, tr.Row(2), 1.e-12)

	for _, code := range []AxisCode{12, 13, 21, 23, 31, 32} {
		tr, err = FromTwoVectors(r3.Vec{X: 1, Y: 2, Z: 3}, r3.Vec{X: -2, Y: 0.5, Z: 1}, code)
		require.NoError(t, err)
		// Right handed orthonormal triad
		assert.InDelta(t, 1., tr.Det(), 1.e-12, "code %d", code)
		vecNear(t, tr.Row(2), r3.Cross(tr.Row(0), tr.Row(1)), 1.e-12)
		// The primary axis follows v1
		vecNear(t, Normalize(r3.Vec{X: 1, Y: 2, Z: 3}), tr.Row(code.Primary()-1), 1.e-12)
	}
	_, err = FromTwoVectors(XAxis, r3.Vec{X: 2}, 12)
	assert.ErrorIs(t, err, ErrDegenerate)
}

func TestEuler(t *testing.T) {
	tr := FromEuler(HalfPi, 0, 0)
	vecNear(t, YAxis, tr.Row(0), 1.e-12)
	vecNear(t, r3.Scale(-1, XAxis), tr.Row(1), 1.e-12)
	tr = FromEuler(0.3, -1.1, 2.7)
	assert.InDelta(t, 1., tr.Det(), 1.e-12)
}

func TestInverse(t *testing.T) {
	// A general (non orthogonal) matrix checked against the LU inverse
	tr := Transform{M: [3][3]float64{{2, -1, 0.5}, {0.3, 4, 1}, {-2, 0.1, 3}}}
	inv, err := tr.Inverse()
	require.NoError(t, err)
	var lu mat.Dense
	require.NoError(t, lu.Inverse(tr.Dense()))
	assert.True(t, mat.EqualApprox(&lu, inv.Dense(), 1.e-12))
	// Round trip
	p := r3.Vec{X: 1.5, Y: -2, Z: 7}
	vecNear(t, p, inv.Apply(tr.Apply(p)), 1.e-9)
	vecNear(t, p, tr.Mul(inv).Apply(p), 1.e-9)
	{ // Row [2][0] participates in the cofactors
		tr = Transform{M: [3][3]float64{{1, 0, 0}, {0, 1, 0}, {5, 0, 1}}}
		inv, err = tr.Inverse()
		require.NoError(t, err)
		assert.InDelta(t, -5., inv.M[2][0], 1.e-12)
	}
	_, err = Transform{}.Inverse()
	assert.ErrorIs(t, err, ErrSingular)
}
