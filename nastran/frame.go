package nastran

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/fillit/geometry"
)

// BASIC is the implicit global frame at the root of every frame chain
const BASIC = 0

// CoordFrame is a rectangular frame defined by three points (CORD2R)
type CoordFrame struct {
	ID, RID int    // Frame ID and the frame A, B and C are given in
	Origin  r3.Vec // Point A, in RID
	B, C    r3.Vec // Z axis point and XZ plane point, in RID
	Forward geometry.Transform
	Inverse geometry.Transform
}

// NewCORD2R parses CID RID A1 A2 A3 B1 B2 B3 C1 C2 C3
func NewCORD2R(f Fields) (cf *CoordFrame, err error) {
	cf = &CoordFrame{
		ID:     f.Int(0),
		RID:    f.Int(1),
		Origin: r3.Vec{X: f.Real(2), Y: f.Real(3), Z: f.Real(4)},
		B:      r3.Vec{X: f.Real(5), Y: f.Real(6), Z: f.Real(7)},
		C:      r3.Vec{X: f.Real(8), Y: f.Real(9), Z: f.Real(10)},
	}
	if err = cf.build(); err != nil {
		err = fmt.Errorf("CORD2R %d: %w", cf.ID, err)
	}
	return
}

// NewCoordFrame builds a frame from an origin and an explicit transform
func NewCoordFrame(id, rid int, origin r3.Vec, fwd geometry.Transform) (cf *CoordFrame, err error) {
	cf = &CoordFrame{ID: id, RID: rid, Origin: origin, Forward: fwd}
	cf.B = r3.Add(origin, fwd.Row(2))
	cf.C = r3.Add(origin, fwd.Row(0))
	if cf.Inverse, err = fwd.Inverse(); err != nil {
		err = fmt.Errorf("frame %d: %w", id, err)
	}
	return
}

func (cf *CoordFrame) build() (err error) {
	if cf.Forward, err = geometry.FromPoints(cf.Origin, cf.B, cf.C, 31); err != nil {
		return
	}
	cf.Inverse, err = cf.Forward.Inverse()
	return
}

// ToLocal takes a point in the reference frame into this frame
func (cf *CoordFrame) ToLocal(p r3.Vec) r3.Vec {
	return cf.Forward.Apply(r3.Sub(p, cf.Origin))
}

// ToReference takes a point in this frame into the reference frame
func (cf *CoordFrame) ToReference(p r3.Vec) r3.Vec {
	return r3.Add(cf.Inverse.Apply(p), cf.Origin)
}

func (cf *CoordFrame) VectorToLocal(v r3.Vec) r3.Vec { return cf.Forward.Apply(v) }

func (cf *CoordFrame) VectorToReference(v r3.Vec) r3.Vec { return cf.Inverse.Apply(v) }

// Axis returns axis i (1..3) of this frame expressed in its reference frame
func (cf *CoordFrame) Axis(i int) r3.Vec {
	if i < 1 || i > 3 {
		i = 1
	}
	return cf.Forward.Row(i - 1)
}
