package nastran

import (
	"sync"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/fillit/geometry"
)

type Orientation uint8

const (
	ByFrame  Orientation = iota // CID axes
	ByGrid                      // GA->GB with GO in the xy plane
	ByVector                    // GA->GB with X1,X2,X3 in the xy plane
)

func (o Orientation) String() string {
	switch o {
	case ByGrid:
		return "GO"
	case ByVector:
		return "vector"
	default:
		return "CID"
	}
}

// Side indexes the two ends of a fastener
const (
	SideA = 0
	SideB = 1
)

// Sides holds the ordered quad IDs of the four sides of a ring
type Sides [4][]int

func (s Sides) Empty() bool {
	for _, side := range s {
		if len(side) != 0 {
			return false
		}
	}
	return true
}

// FHLoads is the filled hole record for one fastener side and load case
type FHLoads struct {
	N, M           Tensor
	Shear1, Shear2 float64
	PullThrough    float64
}

// Values is the record in output order Nxx Nyy Nxy Mxx Myy Mxy Shear1 Shear2 PullThrough
func (fl FHLoads) Values() [9]float64 {
	return [9]float64{
		fl.N.XX, fl.N.YY, fl.N.XY,
		fl.M.XX, fl.M.YY, fl.M.XY,
		fl.Shear1, fl.Shear2, fl.PullThrough,
	}
}

// Bush is a CBUSH fastener element
type Bush struct {
	ID, PID, GA, GB int
	Orientation     Orientation
	GO              int
	V               r3.Vec // Orientation vector, in the CD frame of GA
	CID             int
	S               float64
	OCID            int
	S1              r3.Vec
	Placeholder     bool
	// Set by Model.Link
	FastenerNodes [2]int
	Axes          [3]r3.Vec // Element axes in BASIC
	AtoB          r3.Vec    // Fastener node A to B in BASIC
	Transform     geometry.Transform
	Inverse       geometry.Transform

	forces map[int]BushForces

	mu      sync.Mutex
	sides   [2]Sides
	results [2]map[int]FHLoads
}

// NewBush parses EID PID GA GB X1/GO X2 X3 CID S OCID S1 S2 S3
func NewBush(f Fields) *Bush {
	b := &Bush{
		ID:   f.Int(0),
		PID:  f.Int(1),
		GA:   f.Int(2),
		GB:   f.Int(3),
		GO:   -1,
		CID:  -1,
		S:    f.RealOr(8, 0.5),
		OCID: f.IntOr(9, -1),
		S1:   r3.Vec{X: f.Real(10), Y: f.Real(11), Z: f.Real(12)},
	}
	switch x1 := f.At(4); {
	case x1 == "":
		b.Orientation = ByFrame
		b.CID = f.IntOr(7, BASIC)
	case IsReal(x1):
		b.Orientation = ByVector
		b.V = r3.Vec{X: ParseReal(x1), Y: f.Real(5), Z: f.Real(6)}
	default:
		b.Orientation = ByGrid
		b.GO = ParseInt(x1)
	}
	if b.OCID < -1 {
		b.OCID = -1
	}
	b.FastenerNodes = [2]int{b.GA, b.GB}
	return b
}

func newPlaceholderBush(id int) *Bush {
	return &Bush{ID: id, GO: -1, CID: -1, OCID: -1, S: 0.5, Placeholder: true,
		Transform: geometry.Identity(), Inverse: geometry.Identity(),
		Axes: [3]r3.Vec{geometry.XAxis, geometry.YAxis, geometry.ZAxis},
	}
}

// Vector returns element axis 1..3 or, for 4, the fastener node A to B vector
func (b *Bush) Vector(i int) r3.Vec {
	if i >= 1 && i <= 3 {
		return b.Axes[i-1]
	}
	return b.AtoB
}

func (b *Bush) SetForces(subcase int, bf BushForces) {
	if b.forces == nil {
		b.forces = make(map[int]BushForces)
	}
	b.forces[subcase] = bf
}

// Forces returns the punched force record in the element frame
func (b *Bush) Forces(subcase int) (bf BushForces, ok bool) {
	bf, ok = b.forces[subcase]
	return
}

// BasicForce is the punched force taken into BASIC, zero when missing
func (b *Bush) BasicForce(subcase int) r3.Vec {
	bf, ok := b.Forces(subcase)
	if !ok {
		return r3.Vec{}
	}
	return b.Inverse.Apply(bf.Force)
}

func (b *Bush) SetSides(side int, s Sides) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sides[side&1] = s
}

func (b *Bush) Sides(side int) Sides {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sides[side&1]
}

// SetResult stores the record for one load case, the first stored record wins
func (b *Bush) SetResult(side, subcase int, fl FHLoads) {
	b.mu.Lock()
	defer b.mu.Unlock()
	side &= 1
	if b.results[side] == nil {
		b.results[side] = make(map[int]FHLoads)
	}
	if _, present := b.results[side][subcase]; present {
		return
	}
	b.results[side][subcase] = fl
}

// ClearResults drops the sides and records of one end before it is evaluated again
func (b *Bush) ClearResults(side int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sides[side&1] = Sides{}
	b.results[side&1] = nil
}

func (b *Bush) Result(side, subcase int) (fl FHLoads, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fl, ok = b.results[side&1][subcase]
	return
}
