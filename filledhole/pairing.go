package filledhole

import (
	"sort"

	"github.com/notargets/fillit/nastran"
)

// Location is one fastener end on a plate: the node, the bush evaluated there
// and, when a second bush lands on the same node from the other face, its pair
type Location struct {
	Node int
	Side int // End of Bush on Node, nastran.SideA or nastran.SideB
	Bush int
	Pair int // 0 when unpaired
}

func (l Location) Paired() bool { return l.Pair != 0 }

/*
Locations indexes the bushes of a linked model by fastener node. Every bush is
listed under its A node and its B node; a node that is the A end of one bush
and the B end of another becomes a single paired location evaluated from the
A side. A locations come first, then the B nodes left over, each ascending by
node.
*/
func Locations(m *nastran.Model) (locs []Location) {
	var (
		byA = make(map[int][]int)
		byB = make(map[int][]int)
	)
	for _, id := range m.BushIDs() {
		b, _ := m.Bush(id)
		if b.Placeholder {
			continue
		}
		byA[b.FastenerNodes[nastran.SideA]] = append(byA[b.FastenerNodes[nastran.SideA]], id)
		byB[b.FastenerNodes[nastran.SideB]] = append(byB[b.FastenerNodes[nastran.SideB]], id)
	}
	for node, list := range byA {
		if other, ok := byB[node]; ok {
			byA[node] = append(list, other[0])
			delete(byB, node)
		}
	}
	add := func(index map[int][]int, side int) {
		nodes := make([]int, 0, len(index))
		for node := range index {
			nodes = append(nodes, node)
		}
		sort.Ints(nodes)
		for _, node := range nodes {
			list := index[node]
			loc := Location{Node: node, Side: side, Bush: list[0]}
			if len(list) > 1 {
				loc.Pair = list[1]
			}
			locs = append(locs, loc)
		}
	}
	add(byA, nastran.SideA)
	add(byB, nastran.SideB)
	return
}
