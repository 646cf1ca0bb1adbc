package filledhole

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/fillit/geometry"
	"github.com/notargets/fillit/nastran"
)

const (
	centreGrid = 900
	aboveGrid  = 901
	belowGrid  = 898
	spiderID   = 700
)

func gridID(n, i, j int) int { return 1 + i + j*(n+1) }

func quadID(n, i, j int) int { return 1001 + i + j*n }

// plate adds an n by n mesh of unit quads in the BASIC xy plane. Grid IDs run
// row by row from 1, quad IDs from 1001, corners counter clockwise
func plate(t *testing.T, m *nastran.Model, n int) {
	t.Helper()
	for j := 0; j <= n; j++ {
		for i := 0; i <= n; i++ {
			require.NoError(t, m.AddGrid(&nastran.Grid{ID: gridID(n, i, j),
				X: r3.Vec{X: float64(i), Y: float64(j)}}))
		}
	}
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			require.NoError(t, m.AddQuad(&nastran.Quad{ID: quadID(n, i, j), PID: 1, MCID: -1,
				G: [4]int{gridID(n, i, j), gridID(n, i+1, j), gridID(n, i+1, j+1), gridID(n, i, j+1)}}))
		}
	}
}

// spiderPlate is an odd n plate with a grid floating at the centre of the
// middle quad, tied to its corners by an RBE2
func spiderPlate(t *testing.T, n int) (m *nastran.Model) {
	t.Helper()
	m = nastran.NewModel(nil)
	plate(t, m, n)
	c := n / 2
	half := float64(n) / 2
	require.NoError(t, m.AddGrid(&nastran.Grid{ID: centreGrid, X: r3.Vec{X: half, Y: half}}))
	require.NoError(t, m.AddGrid(&nastran.Grid{ID: aboveGrid, X: r3.Vec{X: half, Y: half, Z: 1}}))
	require.NoError(t, m.AddGrid(&nastran.Grid{ID: belowGrid, X: r3.Vec{X: half, Y: half, Z: -1}}))
	require.NoError(t, m.AddRBE2(&nastran.RBE2{ID: spiderID, GN: centreGrid, CM: 123456,
		GM: []int{gridID(n, c, c), gridID(n, c+1, c), gridID(n, c+1, c+1), gridID(n, c, c+1)}}))
	return
}

// addBush adds a CBUSH from ga to gb oriented by the BASIC x vector. With the
// fastener along BASIC z its axes are x = Z, y = X and z = Y
func addBush(t *testing.T, m *nastran.Model, id, ga, gb int) {
	t.Helper()
	require.NoError(t, m.AddBush(&nastran.Bush{ID: id, PID: 1, GA: ga, GB: gb,
		Orientation: nastran.ByVector, V: geometry.XAxis, GO: -1, CID: -1, OCID: -1, S: 0.5}))
}

// uniform sets the same plate forces on every quad for one load case
func uniform(m *nastran.Model, subcase int, pf nastran.PlateForces) {
	m.EnsureLoadCase(subcase)
	for _, id := range m.QuadIDs() {
		q, _ := m.Quad(id)
		q.SetForces(subcase, pf)
	}
}
