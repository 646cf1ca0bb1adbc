package nastran

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
)

type PShell struct {
	ID, MID1     int
	T            float64
	MID2         int
	BendingRatio float64 // 12I/T^3
	MID3         int
	ShearRatio   float64 // TS/T
}

// NewPShell parses PID MID1 T MID2 12I/T**3 MID3 TS/T
func NewPShell(f Fields) *PShell {
	p := &PShell{
		ID:           f.Int(0),
		MID1:         f.Int(1),
		T:            f.Real(2),
		BendingRatio: f.RealOr(4, 1.),
		ShearRatio:   f.RealOr(6, 0.833333),
	}
	p.MID2 = f.IntOr(3, p.MID1)
	p.MID3 = f.IntOr(5, p.MID1)
	return p
}

type LaminateType uint8

const (
	LamNone LaminateType = iota
	LamSym
	LamSMCore
)

type Ply struct {
	MID   int
	T     float64
	Theta float64 // Degrees
	SOUT  bool
}

type PComp struct {
	ID    int
	Z0    float64
	Lam   LaminateType
	Plies []Ply
}

/*
NewPComp parses

	PID Z0 NSM SB FT TREF GE LAM
	MID1 T1 THETA1 SOUT1 MID2 T2 THETA2 SOUT2
	...

A ply is only counted when its THETA field is present.
*/
func NewPComp(f Fields) *PComp {
	p := &PComp{ID: f.Int(0), Z0: f.RealOr(1, -0.5)}
	switch strings.ToUpper(f.At(7)) {
	case "SYM":
		p.Lam = LamSym
	case "SMCORE":
		p.Lam = LamSMCore
	}
	for i := 8; i < len(f); i += 4 {
		if f.Blank(i + 2) {
			continue
		}
		p.Plies = append(p.Plies, Ply{
			MID:   f.Int(i),
			T:     f.Real(i + 1),
			Theta: f.Real(i + 2),
			SOUT:  strings.EqualFold(f.At(i+3), "YES"),
		})
	}
	return p
}

// Layup returns the full ply stack. SYM mirrors every ply, SMCORE mirrors the
// face plies about the last ply, which is the core
func (p *PComp) Layup() (plies []Ply) {
	plies = append(plies, p.Plies...)
	switch {
	case p.Lam == LamSym:
		for i := len(p.Plies) - 1; i >= 0; i-- {
			plies = append(plies, p.Plies[i])
		}
	case p.Lam == LamSMCore && len(p.Plies) > 1:
		for i := len(p.Plies) - 2; i >= 0; i-- {
			plies = append(plies, p.Plies[i])
		}
	}
	return
}

// Laminate holds the classical lamination theory stiffness of a PCOMP
type Laminate struct {
	A, B, D              *mat.Dense
	E11, E22, NU12, NU21 float64
	G12, Thickness       float64
}

// Laminate builds the A, B and D matrices from the ply stack. Plies whose
// material is missing contribute thickness only
func (m *Model) Laminate(p *PComp) (lam Laminate, err error) {
	plies := p.Layup()
	if len(plies) == 0 {
		err = fmt.Errorf("PCOMP %d: no plies", p.ID)
		return
	}
	lam.A = mat.NewDense(3, 3, nil)
	lam.B = mat.NewDense(3, 3, nil)
	lam.D = mat.NewDense(3, 3, nil)
	for _, ply := range plies {
		lam.Thickness += ply.T
	}
	if lam.Thickness <= 0 {
		err = fmt.Errorf("PCOMP %d: zero laminate thickness", p.ID)
		return
	}
	var (
		h    = -0.5 * lam.Thickness
		qbar mat.Dense
	)
	for _, ply := range plies {
		q := m.plyStiffness(ply.MID)
		qbar.Scale(1, q.rotate(ply.Theta*math.Pi/180.))
		var (
			h1 = h + ply.T
			a  mat.Dense
		)
		a.Scale(h1-h, &qbar)
		lam.A.Add(lam.A, &a)
		a.Scale((h1*h1-h*h)/2., &qbar)
		lam.B.Add(lam.B, &a)
		a.Scale((h1*h1*h1-h*h*h)/3., &qbar)
		lam.D.Add(lam.D, &a)
		h = h1
	}
	var (
		t   = lam.Thickness
		a11 = lam.A.At(0, 0) / t
		a22 = lam.A.At(1, 1) / t
		a12 = lam.A.At(0, 1) / t
	)
	if a11 == 0 || a22 == 0 {
		err = fmt.Errorf("PCOMP %d: laminate has no in-plane stiffness", p.ID)
		return
	}
	lam.E11 = a11 - a12*a12/a22
	lam.E22 = a22 - a12*a12/a11
	lam.NU12 = a12 / a22
	lam.NU21 = a12 / a11
	lam.G12 = lam.A.At(2, 2) / t
	return
}

// reduced ply stiffness in material axes, Q11 Q22 Q12 Q66
type plyQ struct {
	q11, q22, q12, q66 float64
}

func (m *Model) plyStiffness(mid int) (q plyQ) {
	mt, ok := m.Material(mid)
	if !ok || mt.E1 == 0 {
		m.log.Sugar().Warnf("ply material %d not found, ply has no stiffness", mid)
		return
	}
	var (
		nu21  = mt.E2 * mt.NU12 / mt.E1
		denom = 1 - mt.NU12*nu21
	)
	q.q11 = mt.E1 / denom
	q.q22 = mt.E2 / denom
	q.q12 = nu21 * mt.E1 / denom
	q.q66 = mt.G12
	return
}

// rotate returns Qbar for a ply at theta radians, including the Q16 and Q26
// coupling terms
func (q plyQ) rotate(theta float64) *mat.Dense {
	var (
		c, s   = math.Cos(theta), math.Sin(theta)
		c2, s2 = c * c, s * s
		c4, s4 = c2 * c2, s2 * s2
		cs2    = c2 * s2
	)
	q11 := q.q11*c4 + 2*(q.q12+2*q.q66)*cs2 + q.q22*s4
	q22 := q.q11*s4 + 2*(q.q12+2*q.q66)*cs2 + q.q22*c4
	q12 := (q.q11+q.q22-4*q.q66)*cs2 + q.q12*(s4+c4)
	q66 := (q.q11+q.q22-2*q.q12-2*q.q66)*cs2 + q.q66*(s4+c4)
	q16 := (q.q11-q.q12-2*q.q66)*c2*c*s - (q.q22-q.q12-2*q.q66)*s2*s*c
	q26 := (q.q11-q.q12-2*q.q66)*s2*s*c - (q.q22-q.q12-2*q.q66)*c2*c*s
	return mat.NewDense(3, 3, []float64{
		q11, q12, q16,
		q12, q22, q26,
		q16, q26, q66,
	})
}

type MaterialType uint8

const (
	Isotropic MaterialType = iota + 1
	Orthotropic
)

type Material struct {
	ID       int
	Type     MaterialType
	E1, E2   float64
	NU12     float64
	G12      float64
	G1Z, G2Z float64 // -1 when not given
	RHO      float64
	A1, A2   float64
}

// NewMAT1 parses MID E G NU RHO A, a blank G is derived from E and NU
func NewMAT1(f Fields) *Material {
	mt := &Material{
		ID:   f.Int(0),
		Type: Isotropic,
		E1:   f.Real(1),
		NU12: f.Real(3),
		RHO:  f.Real(4),
		A1:   f.Real(5),
	}
	mt.E2, mt.A2 = mt.E1, mt.A1
	mt.G12 = f.RealOr(2, mt.E1/(2*(1+mt.NU12)))
	mt.G1Z, mt.G2Z = mt.G12, mt.G12
	return mt
}

// NewMAT8 parses MID E1 E2 NU12 G12 G1Z G2Z RHO A1 A2
func NewMAT8(f Fields) *Material {
	return &Material{
		ID:   f.Int(0),
		Type: Orthotropic,
		E1:   f.Real(1),
		E2:   f.Real(2),
		NU12: f.Real(3),
		G12:  f.Real(4),
		G1Z:  f.RealOr(5, -1),
		G2Z:  f.RealOr(6, -1),
		RHO:  f.Real(7),
		A1:   f.Real(8),
		A2:   f.Real(9),
	}
}

type PBush struct {
	ID int
	K  [6]float64
}

// NewPBush parses PID followed by flagged lines, only the K line is kept
func NewPBush(f Fields) *PBush {
	p := &PBush{ID: f.Int(0)}
	for i := 1; i < len(f); i++ {
		if strings.EqualFold(f.At(i), "K") {
			for j := range p.K {
				p.K[j] = f.Real(i + 1 + j)
			}
			break
		}
	}
	return p
}
