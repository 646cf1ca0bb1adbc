package nastran

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/fillit/geometry"
)

// ResolveCoordinate expresses point p, given in frame from, in frame to. A
// frame missing from the model is taken as BASIC from that point on
func (m *Model) ResolveCoordinate(p r3.Vec, from, to int) r3.Vec {
	return m.resolve(p, from, to, true)
}

// ResolveVector is ResolveCoordinate without the frame origins
func (m *Model) ResolveVector(v r3.Vec, from, to int) r3.Vec {
	return m.resolve(v, from, to, false)
}

func (m *Model) resolve(p r3.Vec, from, to int, point bool) r3.Vec {
	if from == to {
		return p
	}
	// Up toward BASIC, stopping early when to is an ancestor of from
	cur := from
	for steps := 0; cur != BASIC && steps <= len(m.frames); steps++ {
		if cur == to {
			return p
		}
		cf, ok := m.frames[cur]
		if !ok {
			break
		}
		if point {
			p = cf.ToReference(p)
		} else {
			p = cf.VectorToReference(p)
		}
		cur = cf.RID
	}
	if to == BASIC {
		return p
	}
	var chain []*CoordFrame
	cur = to
	for steps := 0; cur != BASIC && steps <= len(m.frames); steps++ {
		cf, ok := m.frames[cur]
		if !ok {
			break
		}
		chain = append(chain, cf)
		cur = cf.RID
	}
	for i := len(chain) - 1; i >= 0; i-- {
		if point {
			p = chain[i].ToLocal(p)
		} else {
			p = chain[i].VectorToLocal(p)
		}
	}
	return p
}

// GridPosition returns the grid's coordinates in frame, zero for an unknown grid
func (m *Model) GridPosition(id, frame int) r3.Vec {
	g, ok := m.grids[id]
	if !ok {
		return r3.Vec{}
	}
	return m.ResolveCoordinate(g.X, g.CP, frame)
}

// FrameAxis returns axis (1..3) of frameID expressed in target
func (m *Model) FrameAxis(frameID, axis, target int) r3.Vec {
	cf, ok := m.frames[frameID]
	if !ok {
		return m.ResolveVector(geometry.Unit(axis), BASIC, target)
	}
	return m.ResolveVector(cf.Axis(axis), cf.RID, target)
}

// ResolveFastenerNode returns the grid that connects end (SideA or SideB) of a
// bush to the plate. A zero length bush end tied to the plate by a single
// one-to-one RBE2 resolves to the other end of that RBE2
func (m *Model) ResolveFastenerNode(bushID, end int) (node int) {
	b, ok := m.bushes[bushID]
	if !ok {
		return -1
	}
	node = b.GA
	if end == SideB {
		node = b.GB
	}
	g, ok := m.grids[node]
	if !ok || len(g.RBE2s) != 1 {
		return
	}
	r, ok := m.rbe2s[g.RBE2s[0]]
	if !ok || len(r.GM) != 1 {
		return
	}
	if r.GN == node {
		return r.GM[0]
	}
	return r.GN
}
