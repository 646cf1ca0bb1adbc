package filledhole

import (
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/fillit/geometry"
	"github.com/notargets/fillit/nastran"
)

// Params controls how one fastener location is reduced
type Params struct {
	Depth        int  // Patch size N, the ring holds 4N-4 quads
	MaterialFlux bool // Ring fluxes in the quad material axes instead of aligned to the fastener
	AsIs         bool // Fastener forces in the bush frame, otherwise turned onto the material axes
	// Axis codes of the evaluated bush and of its pair. The primary digit is
	// the fastener axis, the secondary the in-plane alignment direction
	Axes [2]geometry.AxisCode
}

// sideFlux is the length weighted average of the fluxes acting across one side
type sideFlux struct {
	Normal, Shear, Moment, Twist float64
	Length                       float64
}

func (sf sideFlux) degenerate() bool { return sf.Length < geometry.NODETOL }

// sumSide averages Nyy Nxy Myy Mxy over SideY for sides 1 and 3 (yy) and
// Nxx Nxy Mxx Mxy over SideX for sides 2 and 4
func sumSide(m *nastran.Model, quads []int, subcase int, inMat bool, align *r3.Vec, yy bool) (sf sideFlux) {
	for _, id := range quads {
		q, ok := m.Quad(id)
		if !ok {
			continue
		}
		pf := m.QuadForces(id, subcase, inMat, align)
		w, normal, moment := q.SideX, pf.N.XX, pf.M.XX
		if yy {
			w, normal, moment = q.SideY, pf.N.YY, pf.M.YY
		}
		sf.Normal += normal * w
		sf.Shear += pf.N.XY * w
		sf.Moment += moment * w
		sf.Twist += pf.M.XY * w
		sf.Length += w
	}
	if sf.degenerate() {
		return sideFlux{}
	}
	sf.Normal /= sf.Length
	sf.Shear /= sf.Length
	sf.Moment /= sf.Length
	sf.Twist /= sf.Length
	return
}

// conservative returns the candidate of smallest magnitude with its sign, the
// first one wins ties. Degenerate sides are not candidates
func conservative(sides []sideFlux, value func(sideFlux) float64) (v float64) {
	best := math.Inf(1)
	for _, sf := range sides {
		if sf.degenerate() {
			continue
		}
		if c := value(sf); math.Abs(c) < best {
			best, v = math.Abs(c), c
		}
	}
	return
}

func normalFlux(sf sideFlux) float64 { return sf.Normal }
func shearFlux(sf sideFlux) float64 { return sf.Shear }
func momentFlux(sf sideFlux) float64 { return sf.Moment }
func twistFlux(sf sideFlux) float64 { return sf.Twist }

// ReduceFluxes fills the six plate fluxes of a record from the four sides
func ReduceFluxes(m *nastran.Model, s nastran.Sides, subcase int, inMat bool, align *r3.Vec) (fl nastran.FHLoads) {
	var sf [4]sideFlux
	for i := range s {
		sf[i] = sumSide(m, s[i], subcase, inMat, align, i%2 == 0)
	}
	var (
		xx  = []sideFlux{sf[1], sf[3]}
		yy  = []sideFlux{sf[0], sf[2]}
		all = sf[:]
	)
	fl.N = nastran.Tensor{
		XX: conservative(xx, normalFlux),
		YY: conservative(yy, normalFlux),
		XY: conservative(all, shearFlux),
	}
	fl.M = nastran.Tensor{
		XX: conservative(xx, momentFlux),
		YY: conservative(yy, momentFlux),
		XY: conservative(all, twistFlux),
	}
	return
}

// Aligned reports whether the fastener axis named by the code's primary digit
// points from node A toward node B
func Aligned(b *nastran.Bush, code geometry.AxisCode) bool {
	return geometry.Angle(b.AtoB, b.Vector(code.Primary())) < geometry.HalfPi
}

// fastener carries what the force reduction of one location needs between
// load cases
type fastener struct {
	bush, pair *nastran.Bush
	side       int
	code       geometry.AxisCode
	aligned    bool
	ownFlip    bool
	pairFlip   bool
	toMaterial *geometry.Transform
}

func newFastener(m *nastran.Model, b *nastran.Bush, side int, pair *nastran.Bush,
	p Params, s nastran.Sides) (f *fastener) {
	f = &fastener{bush: b, pair: pair, side: side & 1, code: p.Axes[0]}
	f.aligned = Aligned(b, f.code)
	f.ownFlip = f.aligned == (f.side == nastran.SideA)
	if pair != nil {
		pairAligned := Aligned(pair, p.Axes[1])
		if b.FastenerNodes[f.side] == pair.FastenerNodes[nastran.SideA] {
			f.pairFlip = pairAligned
		} else {
			f.pairFlip = !pairAligned
		}
	}
	if p.AsIs {
		return
	}
	if len(s[0]) == 0 {
		m.Logger().Debug("no ring, fastener forces left in the bush frame",
			zap.Int("cbush", b.ID), zap.Int("side", f.side))
		return
	}
	q, ok := m.Quad(s[0][0])
	if !ok {
		return
	}
	matVec := b.Transform.Apply(m.MaterialVector(q))
	t, err := geometry.FromTwoVectors(geometry.Unit(f.code.Primary()), matVec, f.code)
	if err != nil {
		m.Logger().Warn("material direction along the fastener axis, forces left in the bush frame",
			zap.Int("cbush", b.ID), zap.Int("quad", q.ID), zap.Error(err))
		return
	}
	f.toMaterial = &t
	return
}

// Loads returns the shears and pull-through of one load case
func (f *fastener) Loads(subcase int) (shear1, shear2, pullThrough float64) {
	var (
		axial = f.code.Primary()
		force r3.Vec
	)
	if bf, ok := f.bush.Forces(subcase); ok {
		force = bf.Force
	}
	if f.pair == nil {
		v := geometry.Component(force, axial)
		if (f.aligned && v > 0) || (!f.aligned && v < 0) {
			pullThrough = math.Abs(v)
		}
	}
	if f.ownFlip {
		force = r3.Scale(-1, force)
	}
	if f.toMaterial != nil {
		force = f.toMaterial.Apply(force)
	}
	if f.pair != nil {
		pf := f.pair.BasicForce(subcase)
		if f.pairFlip {
			pf = r3.Scale(-1, pf)
		}
		pf = f.bush.Transform.Apply(pf)
		if f.toMaterial != nil {
			pf = f.toMaterial.Apply(pf)
		}
		force = r3.Add(force, pf)
	}
	shear1 = geometry.Component(force, f.code.Secondary())
	shear2 = geometry.Component(force, f.code.Remaining())
	return
}

/*
Reduce computes the record of every load case in the model for one end of a
bush whose ring has already been cut into sides. Ring fluxes are rotated so
element x follows the fastener's secondary axis unless material axes are
requested.
*/
func Reduce(m *nastran.Model, b *nastran.Bush, side int, pair *nastran.Bush, s nastran.Sides,
	p Params) (loads map[int]nastran.FHLoads) {
	var (
		f     = newFastener(m, b, side, pair, p, s)
		align *r3.Vec
	)
	if !p.MaterialFlux {
		v := b.Vector(p.Axes[0].Secondary())
		align = &v
	}
	loads = make(map[int]nastran.FHLoads)
	for _, lc := range m.LoadCaseIDs() {
		fl := ReduceFluxes(m, s, lc, p.MaterialFlux, align)
		fl.Shear1, fl.Shear2, fl.PullThrough = f.Loads(lc)
		loads[lc] = fl
	}
	return
}
