package nastran

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/fillit/geometry"
)

// Quad is a CQUAD4 plate element
type Quad struct {
	ID, PID int
	G       [4]int
	Theta   float64 // Material angle in radians, used when MCID < 0
	MCID    int     // Material frame, -1 when THETA is given
	ZOffset float64
	// Set by Model.Link
	Centroid     r3.Vec  // BASIC
	SideX, SideY float64 // Lengths Nxx and Nyy act over
	Composite    bool
	// A quad only seen in results, it has no connectivity
	Placeholder bool

	axesOnce sync.Once
	axes     QuadAxes
	forces   map[int]PlateForces
}

// QuadAxes are the element axes in BASIC plus the angle from element x to the
// material x axis
type QuadAxes struct {
	X, Y, Normal  r3.Vec
	MaterialAngle float64
}

// NewQuad parses EID PID G1 G2 G3 G4 THETA/MCID ZOFFS
func NewQuad(f Fields) *Quad {
	q := &Quad{
		ID:      f.Int(0),
		PID:     f.Int(1),
		MCID:    -1,
		ZOffset: f.Real(7),
	}
	for i := range q.G {
		q.G[i] = f.Int(2 + i)
	}
	switch tm := f.At(6); {
	case tm == "":
	case IsReal(tm):
		q.Theta = ParseReal(tm) * math.Pi / 180.
	default:
		q.MCID = ParseInt(tm)
	}
	return q
}

func newPlaceholderQuad(id int) *Quad {
	return &Quad{ID: id, MCID: -1, Placeholder: true}
}

// SetForces stores the result for one load case, a later record replaces an
// earlier one
func (q *Quad) SetForces(subcase int, pf PlateForces) {
	if q.forces == nil {
		q.forces = make(map[int]PlateForces)
	}
	q.forces[subcase] = pf
}

func (q *Quad) Forces(subcase int) (pf PlateForces, ok bool) {
	pf, ok = q.forces[subcase]
	return
}

// QuadAxes returns the element axes of q, computed once on first use
func (m *Model) QuadAxes(q *Quad) QuadAxes {
	q.axesOnce.Do(func() {
		q.axes = m.computeQuadAxes(q)
	})
	return q.axes
}

/*
Element x bisects the angle between the diagonal G1->G3 and the G1->G2 edge
the way NASTRAN places it for a warped or skewed CQUAD4.
*/
func (m *Model) computeQuadAxes(q *Quad) (qa QuadAxes) {
	var n [4]r3.Vec
	for i, g := range q.G {
		n[i] = m.GridPosition(g, BASIC)
	}
	var (
		v0    = r3.Sub(n[1], n[0])
		v2    = r3.Sub(n[2], n[0])
		v3    = r3.Sub(n[3], n[1])
		v4    = r3.Sub(n[3], n[0])
		beta  = geometry.Angle(v0, v2)
		gamma = geometry.Angle(v3, r3.Scale(-1, v0))
		alpha = 0.5 * (beta + gamma)
	)
	qa.Normal = geometry.Normalize(r3.Cross(v0, v4))
	qa.X = geometry.Normalize(geometry.Rodrigues(v0, qa.Normal, beta-alpha))
	qa.Y = geometry.Normalize(r3.Cross(qa.Normal, qa.X))

	switch {
	case q.MCID >= 0:
		if _, ok := m.Frame(q.MCID); !ok && q.MCID != BASIC {
			m.log.Sugar().Warnf("CQUAD4 %d: material frame %d not found, using 0 degrees", q.ID, q.MCID)
			return
		}
		mx := geometry.ProjectToPlane(m.FrameAxis(q.MCID, 1, BASIC), qa.Normal)
		qa.MaterialAngle = geometry.Angle(qa.X, mx)
		if geometry.Angle(qa.Y, mx) > geometry.HalfPi {
			qa.MaterialAngle = -qa.MaterialAngle
		}
	default:
		qa.MaterialAngle = q.Theta
	}
	return
}

// MaterialVector is the material x axis in BASIC
func (m *Model) MaterialVector(q *Quad) r3.Vec {
	if q.Placeholder {
		return geometry.XAxis
	}
	qa := m.QuadAxes(q)
	return geometry.Rodrigues(qa.X, qa.Normal, qa.MaterialAngle)
}

/*
QuadForces returns the stored result for one load case rotated into the
requested axes:
  - inMat: the material frame
  - align: element x turned onto the projection of align in the plate,
    taking precedence over inMat
  - neither: element axes
Missing results are zero.
*/
func (m *Model) QuadForces(quadID, subcase int, inMat bool, align *r3.Vec) (pf PlateForces) {
	q, ok := m.Quad(quadID)
	if !ok {
		return
	}
	if pf, ok = q.Forces(subcase); !ok {
		return PlateForces{}
	}
	if q.Placeholder {
		// No geometry to rotate with
		return
	}
	qa := m.QuadAxes(q)
	var rot float64
	switch {
	case align != nil:
		proj := geometry.ProjectToPlane(*align, qa.Normal)
		rot = geometry.Angle(qa.X, proj)
		if geometry.Angle(qa.Y, proj) > geometry.HalfPi {
			rot = -rot
		}
		if pf.InMaterial {
			rot -= qa.MaterialAngle
		}
	case inMat:
		if pf.InMaterial {
			return
		}
		rot = qa.MaterialAngle
	default:
		if !pf.InMaterial {
			return
		}
		rot = -qa.MaterialAngle
	}
	pf = pf.Rotate(rot)
	pf.InMaterial = inMat && align == nil
	return
}
