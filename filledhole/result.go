package filledhole

import (
	"github.com/notargets/fillit/nastran"
)

// Row is one output line: a location and load case with its record
type Row struct {
	Subcase  int
	Subtitle string
	Grid     int
	Bush     int
	Pair     int // 0 when unpaired
	Loads    nastran.FHLoads
	Quads    []int // Ring quads in side order
}

// RowOptions filters the rows of a report
type RowOptions struct {
	Subcases  []int // Empty means every load case of the model
	Composite bool  // Keep only locations with a composite quad in the ring
}

// RingWidth is the ring column count needed for the largest patch
func RingWidth(depths ...int) (width int) {
	for _, n := range depths {
		if w := 4*n - 4; w > width {
			width = w
		}
	}
	return
}

// Composite reports whether any quad of the ring has a composite property
func Composite(m *nastran.Model, s nastran.Sides) bool {
	for _, side := range s {
		for _, id := range side {
			if q, ok := m.Quad(id); ok && q.Composite {
				return true
			}
		}
	}
	return false
}

func (e *Engine) subcases(opts RowOptions) (ids []int) {
	if len(opts.Subcases) == 0 {
		return e.model.LoadCaseIDs()
	}
	for _, id := range opts.Subcases {
		if _, ok := e.model.LoadCase(id); ok {
			ids = append(ids, id)
		}
	}
	return
}

/*
Rows reports the evaluated locations, each location with one row per selected
load case. A load case without a stored record reports zeros.
*/
func (e *Engine) Rows(locs []Location, opts RowOptions) (rows []Row) {
	subcases := e.subcases(opts)
	for _, loc := range locs {
		b, ok := e.model.Bush(loc.Bush)
		if !ok {
			continue
		}
		sides := b.Sides(loc.Side)
		if opts.Composite && !Composite(e.model, sides) {
			continue
		}
		quads := RingOrder(sides)
		for _, sc := range subcases {
			lc, _ := e.model.LoadCase(sc)
			fl, _ := b.Result(loc.Side, sc)
			rows = append(rows, Row{
				Subcase:  sc,
				Subtitle: lc.Subtitle,
				Grid:     loc.Node,
				Bush:     loc.Bush,
				Pair:     loc.Pair,
				Loads:    fl,
				Quads:    quads,
			})
		}
	}
	return
}

// ReportLocations picks the location reported for each group node, the A side
// when the node has one
func (e *Engine) ReportLocations(entries []GroupEntry) (locs []Location) {
	for _, ge := range entries {
		if at := e.LocationsAt(ge.Node); len(at) > 0 {
			locs = append(locs, at[0])
		}
	}
	return
}
