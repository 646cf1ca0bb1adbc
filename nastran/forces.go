package nastran

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Tensor is an in-plane force or moment flux (XX, YY, XY)
type Tensor struct {
	XX, YY, XY float64
}

// Rotate returns the tensor expressed in axes rotated by theta radians
func (t Tensor) Rotate(theta float64) Tensor {
	var (
		avg  = 0.5 * (t.XX + t.YY)
		half = 0.5 * (t.XX - t.YY)
		c2   = math.Cos(2 * theta)
		s2   = math.Sin(2 * theta)
	)
	return Tensor{
		XX: avg + half*c2 + t.XY*s2,
		YY: avg - half*c2 - t.XY*s2,
		XY: -half*s2 + t.XY*c2,
	}
}

// PlateForces is one CQUAD4 element force record
type PlateForces struct {
	N, M       Tensor     // Membrane force and bending moment fluxes
	Q          [2]float64 // Transverse shear fluxes
	InMaterial bool       // Reported in the material frame rather than element axes
}

func (pf PlateForces) Rotate(theta float64) PlateForces {
	pf.N = pf.N.Rotate(theta)
	pf.M = pf.M.Rotate(theta)
	return pf
}

// BushForces is one CBUSH element force record in the element frame
type BushForces struct {
	Force, Moment r3.Vec
}
