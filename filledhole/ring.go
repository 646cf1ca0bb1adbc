package filledhole

import (
	"sort"

	"github.com/notargets/fillit/nastran"
)

/*
DiscoverRing walks outward from a fastener node through the plate mesh and
returns the outermost layer of quads of an N x N patch, N = depth.

Each pass collects the quads attached to the current frontier of grids that
were not in the previous layer. When the frontier touches no quads (a fastener
node floating off the plate) the walk bridges once through a spider: the
dependents of the first multi-grid RBE2 on the node, or failing that the
independents of the first multi-grid RBE3. The quads shared by every spider
grid become the first layer and the spider grids the new frontier.
*/
func DiscoverRing(m *nastran.Model, node, depth int) (ring []int) {
	if _, ok := m.Grid(node); !ok {
		return
	}
	var (
		frontier = []int{node}
		bridged  bool
	)
	for remaining := depth / 2; remaining > 0; {
		inRing := make(map[int]bool, len(ring))
		for _, id := range ring {
			inRing[id] = true
		}
		var collected []int
		for _, gid := range frontier {
			g, ok := m.Grid(gid)
			if !ok {
				continue
			}
			for _, qid := range g.Quads {
				if !inRing[qid] {
					collected = append(collected, qid)
				}
			}
		}
		if len(collected) == 0 {
			if bridged {
				return
			}
			bridged = true
			spider := spiderGrids(m, frontier[0])
			if len(spider) == 0 {
				return
			}
			frontier = spider
			if ring = m.SharedQuads(spider); len(ring) == 0 {
				return
			}
			continue
		}
		ring = sortUnique(collected)
		remaining--
		if remaining > 0 {
			frontier = nextFrontier(m, ring, frontier)
		}
	}
	return
}

// spiderGrids returns the plate side grids of the first rigid element on node
// that fans out to more than one grid
func spiderGrids(m *nastran.Model, node int) []int {
	g, ok := m.Grid(node)
	if !ok {
		return nil
	}
	for _, id := range g.RBE2s {
		if r, ok := m.RBE2(id); ok && len(r.GM) > 1 {
			return append([]int(nil), r.GM...)
		}
	}
	for _, id := range g.RBE3s {
		if r, ok := m.RBE3(id); ok {
			if ind := r.Independents(); len(ind) > 1 {
				return ind
			}
		}
	}
	return nil
}

func nextFrontier(m *nastran.Model, ring, frontier []int) []int {
	prev := make(map[int]bool, len(frontier))
	for _, gid := range frontier {
		prev[gid] = true
	}
	var next []int
	for _, qid := range ring {
		q, ok := m.Quad(qid)
		if !ok {
			continue
		}
		for _, gid := range q.G {
			if !prev[gid] {
				next = append(next, gid)
			}
		}
	}
	return sortUnique(next)
}

func sortUnique(ids []int) []int {
	if len(ids) == 0 {
		return ids
	}
	sort.Ints(ids)
	j := 0
	for i := 1; i < len(ids); i++ {
		if ids[i] != ids[j] {
			j++
			ids[j] = ids[i]
		}
	}
	return ids[:j+1]
}
