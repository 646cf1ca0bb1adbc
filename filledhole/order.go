package filledhole

import (
	"sort"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/fillit/geometry"
	"github.com/notargets/fillit/nastran"
)

type ringQuad struct {
	ID int
	P  r3.Vec // Centroid in the fastener frame
}

// ringCentroids expresses the ring quad centroids in the frame the sides are
// cut in: the bush frame about the fastener node for grid and vector
// orientations, the bush CID for frame orientation
func ringCentroids(m *nastran.Model, b *nastran.Bush, side int, ring []int) (rq []ringQuad) {
	var origin r3.Vec
	if b.Orientation != nastran.ByFrame {
		origin = m.GridPosition(b.FastenerNodes[side&1], nastran.BASIC)
	}
	for _, id := range ring {
		q, ok := m.Quad(id)
		if !ok {
			continue
		}
		var p r3.Vec
		switch b.Orientation {
		case nastran.ByFrame:
			p = m.ResolveCoordinate(q.Centroid, nastran.BASIC, b.CID)
		default:
			p = b.Transform.Apply(r3.Sub(q.Centroid, origin))
		}
		rq = append(rq, ringQuad{ID: id, P: p})
	}
	return
}

/*
OrderSides cuts a ring of 4N-4 quads into the four sides of the N x N patch.
The code's remaining axis is the across-sides direction and its secondary axis
the along-side direction:
  - side 1: lowest N along remaining, ascending along secondary
  - side 3: highest N along remaining, descending along secondary
  - side 2: highest N along secondary, ascending along remaining
  - side 4: lowest N along secondary, descending along remaining
Corner quads belong to two sides. A ring of the wrong size yields no sides.
*/
func OrderSides(m *nastran.Model, b *nastran.Bush, side int, ring []int, depth int,
	code geometry.AxisCode) (s nastran.Sides) {
	rq := ringCentroids(m, b, side, ring)
	if depth < 2 || len(rq) != 4*depth-4 {
		m.Logger().Warn("ring does not fit the patch, no sides",
			zap.Int("cbush", b.ID), zap.Int("side", side),
			zap.Int("expected", 4*depth-4), zap.Int("actual", len(rq)))
		return
	}
	var (
		n        = depth
		across   = code.Remaining()
		along    = code.Secondary()
		byAcross = sortedBy(rq, across)
		byAlong  = sortedBy(rq, along)
		lastN    = len(rq) - n
	)
	s[0] = quadIDs(sortedBy(byAcross[:n], along))
	s[2] = quadIDs(reversed(sortedBy(byAcross[lastN:], along)))
	s[1] = quadIDs(sortedBy(byAlong[lastN:], across))
	s[3] = quadIDs(reversed(sortedBy(byAlong[:n], across)))
	return
}

func quadIDs(rq []ringQuad) (ids []int) {
	for _, r := range rq {
		ids = append(ids, r.ID)
	}
	return
}

// sortedBy returns a stable sorted copy, ascending along axis 1..3
func sortedBy(rq []ringQuad, axis int) []ringQuad {
	out := append([]ringQuad(nil), rq...)
	sort.SliceStable(out, func(i, j int) bool {
		return geometry.Component(out[i].P, axis) < geometry.Component(out[j].P, axis)
	})
	return out
}

func reversed(rq []ringQuad) []ringQuad {
	for i, j := 0, len(rq)-1; i < j; i, j = i+1, j-1 {
		rq[i], rq[j] = rq[j], rq[i]
	}
	return rq
}

// RingOrder lists the quads of the sides in side order without the repeated
// corners
func RingOrder(s nastran.Sides) (ids []int) {
	seen := make(map[int]bool)
	for _, side := range s {
		for _, id := range side {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return
}
