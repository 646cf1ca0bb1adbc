package nastran

import "strings"

// RBE2 ties the dependent grids GM rigidly to the independent grid GN
type RBE2 struct {
	ID, GN int
	CM     int
	GM     []int
	Alpha  float64
}

// NewRBE2 parses EID GN CM GM1 GM2 ... [ALPHA]
func NewRBE2(f Fields) *RBE2 {
	r := &RBE2{ID: f.Int(0), GN: f.Int(1), CM: f.Int(2)}
	for i := 3; i < len(f); i++ {
		s := f.At(i)
		switch {
		case s == "":
		case IsReal(s):
			r.Alpha = ParseReal(s)
		default:
			r.GM = append(r.GM, ParseInt(s))
		}
	}
	return r
}

// RBE3Group is one weighted set of independent grids
type RBE3Group struct {
	Weight float64
	C      int
	Grids  []int
}

// RBE3 interpolates the reference grid from weighted independent grids
type RBE3 struct {
	ID, RefGrid, RefC int
	Groups            []RBE3Group
	UM                [][2]int // Grid and component pairs
	Alpha             float64
}

/*
NewRBE3 parses
	EID blank REFGRID REFC WT1 C1 G1,1 G1,2 ...
	WT2 C2 G2,1 ...
	"UM" GM1 CM1 GM2 CM2 ...
	"ALPHA" ALPHA
A real starts a new group, the integer after it is the component.
*/
func NewRBE3(f Fields) *RBE3 {
	r := &RBE3{ID: f.Int(0), RefGrid: f.Int(2), RefC: f.Int(3)}
	const (
		inGroups = iota
		inUM
		inAlpha
	)
	var (
		mode      = inGroups
		expectC   bool
		umPending = -1
	)
	for i := 4; i < len(f); i++ {
		s := f.At(i)
		if s == "" {
			continue
		}
		switch strings.ToUpper(s) {
		case "UM":
			mode = inUM
			continue
		case "ALPHA":
			mode = inAlpha
			continue
		}
		switch mode {
		case inAlpha:
			r.Alpha = ParseReal(s)
			mode = inGroups
		case inUM:
			if umPending < 0 {
				umPending = ParseInt(s)
			} else {
				r.UM = append(r.UM, [2]int{umPending, ParseInt(s)})
				umPending = -1
			}
		default:
			switch {
			case IsReal(s):
				r.Groups = append(r.Groups, RBE3Group{Weight: ParseReal(s)})
				expectC = true
			case len(r.Groups) == 0:
			case expectC:
				r.Groups[len(r.Groups)-1].C = ParseInt(s)
				expectC = false
			default:
				g := &r.Groups[len(r.Groups)-1]
				g.Grids = append(g.Grids, ParseInt(s))
			}
		}
	}
	return r
}

// Independents is the union of every group's grids in file order
func (r *RBE3) Independents() (grids []int) {
	seen := make(map[int]bool)
	for _, g := range r.Groups {
		for _, id := range g.Grids {
			if !seen[id] {
				seen[id] = true
				grids = append(grids, id)
			}
		}
	}
	return
}
