package nastran

import (
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
)

type Grid struct {
	ID int
	CP int    // Frame X is defined in
	X  r3.Vec // Coordinates in CP, never overwritten
	CD int    // Analysis (displacement) frame
	// Reverse connectivity, filled by Model.Link
	Quads, Bushes, RBE2s, RBE3s []int
}

// NewGrid parses ID CP X1 X2 X3 CD
func NewGrid(f Fields) *Grid {
	return &Grid{
		ID: f.Int(0),
		CP: f.Int(1),
		X:  r3.Vec{X: f.Real(2), Y: f.Real(3), Z: f.Real(4)},
		CD: f.Int(5),
	}
}

func addUnique(list []int, id int) []int {
	i := sort.SearchInts(list, id)
	if i < len(list) && list[i] == id {
		return list
	}
	list = append(list, 0)
	copy(list[i+1:], list[i:])
	list[i] = id
	return list
}
