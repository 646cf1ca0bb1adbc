package filledhole

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/notargets/fillit/geometry"
	"github.com/notargets/fillit/nastran"
)

func TestEndToEnd(t *testing.T) {
	n := 3
	m := spiderPlate(t, n)
	addBush(t, m, 500, centreGrid, aboveGrid)
	m.Link()
	uniform(m, 1, nastran.PlateForces{N: nastran.Tensor{XX: 1}})
	lc, _ := m.LoadCase(1)
	lc.SetHeader("FH", "UNIT NXX", "")

	e := NewEngine(m, nil, 2)
	p := Params{Depth: n, AsIs: true, Axes: [2]geometry.AxisCode{12, 12}}
	require.NoError(t, e.Run(context.Background(), e.AllJobs(p)))

	b, _ := m.Bush(500)
	fl, ok := b.Result(nastran.SideA, 1)
	require.True(t, ok)
	assert.InDelta(t, 1., fl.N.XX, 1.e-9)
	for i, v := range fl.Values() {
		if i == 0 {
			continue
		}
		assert.InDelta(t, 0., v, 1.e-6, "value %d", i)
	}
	assert.Len(t, RingOrder(b.Sides(nastran.SideA)), 4*n-4)

	rows := e.Rows(e.Locations(), RowOptions{})
	// The B end floats above the plate, it reports zeros and no ring
	require.Len(t, rows, 2)
	{
		r := rows[0]
		assert.Equal(t, 1, r.Subcase)
		assert.Equal(t, "UNIT NXX", r.Subtitle)
		assert.Equal(t, centreGrid, r.Grid)
		assert.Equal(t, 500, r.Bush)
		assert.Equal(t, 0, r.Pair)
		assert.InDelta(t, 1., r.Loads.N.XX, 1.e-9)
		assert.Len(t, r.Quads, 8)
	}
	{
		r := rows[1]
		assert.Equal(t, aboveGrid, r.Grid)
		assert.Equal(t, nastran.FHLoads{}, r.Loads)
		assert.Empty(t, r.Quads)
	}
	{ // Unknown subcases are dropped
		assert.Len(t, e.Rows(e.Locations(), RowOptions{Subcases: []int{1, 7}}), 2)
		assert.Empty(t, e.Rows(e.Locations(), RowOptions{Subcases: []int{7}}))
	}
	{ // Composite filter
		assert.Empty(t, e.Rows(e.Locations(), RowOptions{Composite: true}))
	}
	{ // Running again replaces the records
		uniform(m, 1, nastran.PlateForces{N: nastran.Tensor{XX: 2}})
		require.NoError(t, e.Run(context.Background(), e.AllJobs(p)))
		fl, _ = b.Result(nastran.SideA, 1)
		assert.InDelta(t, 2., fl.N.XX, 1.e-9)
	}
}

func TestCompositeRing(t *testing.T) {
	m := spiderPlate(t, 3)
	addBush(t, m, 500, centreGrid, aboveGrid)
	require.NoError(t, m.AddPComp(&nastran.PComp{ID: 1, Plies: []nastran.Ply{{MID: 1, T: 0.1}}}))
	m.Link()
	m.EnsureLoadCase(1)
	e := NewEngine(m, nil, 0)
	require.NoError(t, e.Run(context.Background(), e.AllJobs(Params{Depth: 3, AsIs: true,
		Axes: [2]geometry.AxisCode{12, 12}})))
	rows := e.Rows(e.Locations(), RowOptions{Composite: true})
	require.Len(t, rows, 1)
	assert.Equal(t, centreGrid, rows[0].Grid)
}

func TestGroupJobs(t *testing.T) {
	m := spiderPlate(t, 3)
	addBush(t, m, 501, belowGrid, centreGrid)
	addBush(t, m, 502, centreGrid, aboveGrid)
	m.Link()
	e := NewEngine(m, nil, 4)
	{ // Dual entry naming the evaluated bush keeps the order
		jobs := e.GroupJobs([]GroupEntry{{Node: centreGrid, DualBush: 502,
			Params: Params{Depth: 3, Axes: [2]geometry.AxisCode{12, 13}}}})
		require.Len(t, jobs, 1)
		assert.Equal(t, 502, jobs[0].Bush)
		assert.Equal(t, [2]geometry.AxisCode{12, 13}, jobs[0].Axes)
	}
	{ // Naming the pair swaps the codes
		jobs := e.GroupJobs([]GroupEntry{{Node: centreGrid, DualBush: 501,
			Params: Params{Depth: 3, Axes: [2]geometry.AxisCode{12, 13}}}})
		require.Len(t, jobs, 1)
		assert.Equal(t, [2]geometry.AxisCode{13, 12}, jobs[0].Axes)
	}
	{ // Unknown nodes are skipped
		assert.Empty(t, e.GroupJobs([]GroupEntry{{Node: 4242}}))
	}
	{ // Report one location per node
		locs := e.ReportLocations([]GroupEntry{{Node: aboveGrid}, {Node: centreGrid}})
		require.Len(t, locs, 2)
		assert.Equal(t, nastran.SideB, locs[0].Side)
		assert.Equal(t, 501, locs[1].Pair)
	}
}

func TestRunCancelled(t *testing.T) {
	m := spiderPlate(t, 3)
	addBush(t, m, 500, centreGrid, aboveGrid)
	m.Link()
	e := NewEngine(m, nil, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := e.Run(ctx, e.AllJobs(Params{Depth: 3}))
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoError(t, e.Run(ctx, nil))
	assert.Equal(t, 12, RingWidth(2, 4, 3))
}

func TestRunBuckets(t *testing.T) {
	m := spiderPlate(t, 3)
	addBush(t, m, 500, centreGrid, aboveGrid)
	m.Link()
	core, logs := observer.New(zap.DebugLevel)
	e := NewEngine(m, zap.New(core), 4)
	require.NoError(t, e.Run(context.Background(), e.AllJobs(Params{Depth: 3, AsIs: true})))
	// Two locations over four workers leave two buckets empty
	started := logs.FilterMessage("starting bucket").All()
	require.Len(t, started, 2)
	for _, entry := range started {
		assert.Equal(t, int64(1), entry.ContextMap()["jobs"])
	}
	assert.Equal(t, 1, logs.FilterMessage("fastener locations evaluated").Len())
}
