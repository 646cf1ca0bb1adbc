package filledhole

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/fillit/geometry"
	"github.com/notargets/fillit/nastran"
)

// shell lists the quads on the boundary of an n by n plate
func shell(n int) (ids []int) {
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			if i == 0 || j == 0 || i == n-1 || j == n-1 {
				ids = append(ids, quadID(n, i, j))
			}
		}
	}
	return
}

func TestDiscoverRing(t *testing.T) {
	{ // Spider bridged, odd patch
		for _, n := range []int{3, 5, 7} {
			m := spiderPlate(t, n)
			m.Link()
			ring := DiscoverRing(m, centreGrid, n)
			assert.Len(t, ring, 4*n-4)
			assert.Equal(t, shell(n), ring)
		}
	}
	{ // Fastener on a plate grid, even patch
		for _, n := range []int{2, 4, 6} {
			m := nastran.NewModel(nil)
			plate(t, m, n)
			m.Link()
			ring := DiscoverRing(m, gridID(n, n/2, n/2), n)
			assert.Len(t, ring, 4*n-4)
			assert.Equal(t, shell(n), ring)
		}
	}
	{ // RBE3 spider
		m := nastran.NewModel(nil)
		plate(t, m, 3)
		require.NoError(t, m.AddGrid(&nastran.Grid{ID: centreGrid}))
		require.NoError(t, m.AddRBE3(&nastran.RBE3{ID: 800, RefGrid: centreGrid, RefC: 123456,
			Groups: []nastran.RBE3Group{{Weight: 1, C: 123,
				Grids: []int{gridID(3, 1, 1), gridID(3, 2, 1), gridID(3, 2, 2), gridID(3, 1, 2)}}}}))
		m.Link()
		assert.Equal(t, shell(3), DiscoverRing(m, centreGrid, 3))
	}
	{ // Nothing to bridge to
		m := spiderPlate(t, 3)
		m.Link()
		assert.Empty(t, DiscoverRing(m, aboveGrid, 3))
		assert.Empty(t, DiscoverRing(m, 12345, 3))
	}
	{ // Depth one never leaves the node
		m := spiderPlate(t, 3)
		m.Link()
		assert.Empty(t, DiscoverRing(m, centreGrid, 1))
	}
}

func TestOrderSides(t *testing.T) {
	var (
		n = 3
		m = spiderPlate(t, n)
		q = func(i, j int) int { return quadID(n, i, j) }
	)
	addBush(t, m, 500, centreGrid, aboveGrid)
	m.Link()
	b, ok := m.Bush(500)
	require.True(t, ok)
	ring := DiscoverRing(m, centreGrid, n)
	{ // Code 12 cuts across local z (BASIC y) and runs along local y (BASIC x)
		s := OrderSides(m, b, nastran.SideA, ring, n, 12)
		assert.Equal(t, []int{q(0, 0), q(1, 0), q(2, 0)}, s[0])
		assert.Equal(t, []int{q(2, 0), q(2, 1), q(2, 2)}, s[1])
		assert.Equal(t, []int{q(2, 2), q(1, 2), q(0, 2)}, s[2])
		assert.Equal(t, []int{q(0, 2), q(0, 1), q(0, 0)}, s[3])

		// Every side has N quads, each corner is shared by two sides
		count := make(map[int]int)
		for _, side := range s {
			assert.Len(t, side, n)
			for _, id := range side {
				count[id]++
			}
		}
		assert.Len(t, count, 4*n-4)
		for id, c := range count {
			corner := id == q(0, 0) || id == q(2, 0) || id == q(2, 2) || id == q(0, 2)
			if corner {
				assert.Equal(t, 2, c, "corner %d", id)
			} else {
				assert.Equal(t, 1, c, "edge %d", id)
			}
		}
		assert.Equal(t, []int{q(0, 0), q(1, 0), q(2, 0), q(2, 1), q(2, 2), q(1, 2), q(0, 2), q(0, 1)},
			RingOrder(s))
	}
	{ // Code 13 swaps the roles of the in-plane axes
		s := OrderSides(m, b, nastran.SideA, ring, n, 13)
		assert.Equal(t, []int{q(0, 0), q(0, 1), q(0, 2)}, s[0])
		assert.Equal(t, []int{q(0, 2), q(1, 2), q(2, 2)}, s[1])
	}
	{ // Frame oriented bush, centroids taken in BASIC
		bf := &nastran.Bush{ID: 501, GA: centreGrid, GB: aboveGrid, Orientation: nastran.ByFrame,
			CID: nastran.BASIC, GO: -1, OCID: -1}
		require.NoError(t, m.AddBush(bf))
		m.Link()
		bf, _ = m.Bush(501)
		// Code 31 cuts across BASIC y and runs along BASIC x
		s := OrderSides(m, bf, nastran.SideA, ring, n, 31)
		assert.Equal(t, []int{q(0, 0), q(1, 0), q(2, 0)}, s[0])
		assert.Equal(t, []int{q(2, 0), q(2, 1), q(2, 2)}, s[1])
	}
	{ // Ring mismatch, no sides
		s := OrderSides(m, b, nastran.SideA, ring[:4], n, geometry.DefaultAxisCode)
		assert.True(t, s.Empty())
		s = OrderSides(m, b, nastran.SideA, ring, 4, 12)
		assert.True(t, s.Empty())
	}
}
