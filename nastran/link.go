package nastran

import (
	"github.com/james-bowman/sparse"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/fillit/geometry"
)

// Link builds the reverse connectivity, the cached quad geometry, the bush
// frames and the grid x quad incidence matrix. Call it once after loading
func (m *Model) Link() {
	for _, g := range m.grids {
		g.Quads, g.Bushes, g.RBE2s, g.RBE3s = nil, nil, nil, nil
	}
	register := func(kind string, owner, gid int, add func(*Grid)) {
		g, ok := m.grids[gid]
		if !ok {
			m.log.Warn("missing grid", zap.String("element", kind),
				zap.Int("id", owner), zap.Int("grid", gid))
			return
		}
		add(g)
	}
	for _, id := range sortedKeys(m.quads) {
		q := m.quads[id]
		if q.Placeholder {
			continue
		}
		for _, gid := range q.G {
			register("CQUAD4", id, gid, func(g *Grid) { g.Quads = addUnique(g.Quads, id) })
		}
		m.linkQuad(q)
	}
	for _, id := range sortedKeys(m.rbe2s) {
		r := m.rbe2s[id]
		add := func(g *Grid) { g.RBE2s = addUnique(g.RBE2s, id) }
		register("RBE2", id, r.GN, add)
		for _, gid := range r.GM {
			register("RBE2", id, gid, add)
		}
	}
	for _, id := range sortedKeys(m.rbe3s) {
		r := m.rbe3s[id]
		add := func(g *Grid) { g.RBE3s = addUnique(g.RBE3s, id) }
		register("RBE3", id, r.RefGrid, add)
		for _, gid := range r.Independents() {
			register("RBE3", id, gid, add)
		}
	}
	bushIDs := sortedKeys(m.bushes)
	for _, id := range bushIDs {
		b := m.bushes[id]
		if b.Placeholder {
			continue
		}
		add := func(g *Grid) { g.Bushes = addUnique(g.Bushes, id) }
		register("CBUSH", id, b.GA, add)
		register("CBUSH", id, b.GB, add)
	}
	// Fastener nodes need the complete RBE2 connectivity
	for _, id := range bushIDs {
		if b := m.bushes[id]; !b.Placeholder {
			m.linkBush(b)
		}
	}
	m.buildIncidence()
}

func (m *Model) linkQuad(q *Quad) {
	var n [4]r3.Vec
	for i, gid := range q.G {
		n[i] = m.GridPosition(gid, BASIC)
		q.Centroid = r3.Add(q.Centroid, n[i])
	}
	q.Centroid = r3.Scale(0.25, q.Centroid)
	q.SideX = 0.5 * (r3.Norm(r3.Sub(n[2], n[1])) + r3.Norm(r3.Sub(n[0], n[3])))
	q.SideY = 0.5 * (r3.Norm(r3.Sub(n[1], n[0])) + r3.Norm(r3.Sub(n[3], n[2])))
	if _, ok := m.pcomps[q.PID]; ok {
		q.Composite = true
	} else if ps, ok := m.pshells[q.PID]; ok {
		if mt, ok := m.materials[ps.MID1]; ok && mt.Type == Orthotropic {
			q.Composite = true
		}
	}
}

func (m *Model) linkBush(b *Bush) {
	b.FastenerNodes = [2]int{m.ResolveFastenerNode(b.ID, SideA), m.ResolveFastenerNode(b.ID, SideB)}

	_, okA := m.grids[b.FastenerNodes[0]]
	_, okB := m.grids[b.FastenerNodes[1]]
	if okA && okB {
		b.AtoB = r3.Sub(m.GridPosition(b.FastenerNodes[1], BASIC), m.GridPosition(b.FastenerNodes[0], BASIC))
	} else {
		b.AtoB = geometry.ZAxis
	}

	var (
		tr  geometry.Transform
		err error
	)
	switch b.Orientation {
	case ByFrame:
		if _, ok := m.frames[b.CID]; !ok && b.CID != BASIC {
			m.log.Warn("CBUSH frame not found, using BASIC", zap.Int("cbush", b.ID), zap.Int("cid", b.CID))
		}
		tr, err = geometry.FromAxes(m.FrameAxis(b.CID, 1, BASIC), m.FrameAxis(b.CID, 2, BASIC),
			m.FrameAxis(b.CID, 3, BASIC))
	default:
		var (
			pa = m.GridPosition(b.GA, BASIC)
			x  = r3.Sub(m.GridPosition(b.GB, BASIC), pa)
			v  r3.Vec
		)
		if r3.Norm(x) < geometry.NODETOL {
			// Zero length element, the fastener nodes carry the axis
			x = b.AtoB
		}
		if b.Orientation == ByGrid {
			v = r3.Sub(m.GridPosition(b.GO, BASIC), pa)
		} else {
			var cd int
			if ga, ok := m.grids[b.GA]; ok {
				cd = ga.CD
			}
			v = m.ResolveVector(b.V, cd, BASIC)
		}
		tr, err = geometry.FromTwoVectors(x, v, 12)
	}
	if err != nil {
		m.log.Warn("CBUSH orientation is degenerate, using BASIC axes",
			zap.Int("cbush", b.ID), zap.Stringer("orientation", b.Orientation), zap.Error(err))
		tr = geometry.Identity()
	}
	b.Transform = tr
	for i := range b.Axes {
		b.Axes[i] = tr.Row(i)
	}
	if b.Inverse, err = tr.Inverse(); err != nil {
		b.Transform, b.Inverse = geometry.Identity(), geometry.Identity()
	}
}

func (m *Model) buildIncidence() {
	m.incidence, m.gridRow, m.quadCol = nil, nil, nil
	var (
		gridIDs = sortedKeys(m.grids)
		quadIDs []int
	)
	for _, id := range sortedKeys(m.quads) {
		if !m.quads[id].Placeholder {
			quadIDs = append(quadIDs, id)
		}
	}
	if len(gridIDs) == 0 || len(quadIDs) == 0 {
		return
	}
	m.gridRow = make(map[int]int, len(gridIDs))
	for i, id := range gridIDs {
		m.gridRow[id] = i
	}
	m.quadCol = make(map[int]int, len(quadIDs))
	for j, id := range quadIDs {
		m.quadCol[id] = j
	}
	inc := sparse.NewDOK(len(gridIDs), len(quadIDs))
	for j, id := range quadIDs {
		for _, gid := range m.quads[id].G {
			if i, ok := m.gridRow[gid]; ok {
				inc.Set(i, j, 1)
			}
		}
	}
	m.incidence = inc.ToCSR()
}

// SharedQuads returns the sorted IDs of the quads connected to every one of
// grids. Unknown grids are ignored
func (m *Model) SharedQuads(grids []int) (quads []int) {
	if m.incidence == nil {
		return
	}
	var (
		nGrids, nQuads = m.incidence.Dims()
		sel            = sparse.NewDOK(1, nGrids)
		first          = -1
		k              int
	)
	for _, gid := range grids {
		i, ok := m.gridRow[gid]
		if !ok || sel.At(0, i) != 0 {
			continue
		}
		sel.Set(0, i, 1)
		if first < 0 {
			first = gid
		}
		k++
	}
	if k == 0 {
		return
	}
	hits := sparse.NewCSR(1, nQuads, nil, nil, nil)
	hits.Mul(sel.ToCSR(), m.incidence)
	for _, qid := range m.grids[first].Quads {
		if j, ok := m.quadCol[qid]; ok && int(hits.At(0, j)) == k {
			quads = append(quads, qid)
		}
	}
	return
}
