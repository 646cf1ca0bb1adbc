package nastran

import (
	"errors"
	"fmt"
	"sort"

	"github.com/james-bowman/sparse"
	"go.uber.org/zap"
)

var ErrDuplicateID = errors.New("duplicate ID")

// Model owns every entity of a bulk data deck and its results, entities refer
// to each other by ID only
type Model struct {
	grids     map[int]*Grid
	frames    map[int]*CoordFrame
	quads     map[int]*Quad
	bushes    map[int]*Bush
	rbe2s     map[int]*RBE2
	rbe3s     map[int]*RBE3
	pshells   map[int]*PShell
	pcomps    map[int]*PComp
	materials map[int]*Material
	pbushes   map[int]*PBush
	loadCases map[int]*LoadCase

	// Grid x quad incidence, built by Link
	incidence *sparse.CSR
	gridRow   map[int]int
	quadCol   map[int]int

	log *zap.Logger
}

func NewModel(log *zap.Logger) *Model {
	if log == nil {
		log = zap.NewNop()
	}
	return &Model{
		grids:     make(map[int]*Grid),
		frames:    make(map[int]*CoordFrame),
		quads:     make(map[int]*Quad),
		bushes:    make(map[int]*Bush),
		rbe2s:     make(map[int]*RBE2),
		rbe3s:     make(map[int]*RBE3),
		pshells:   make(map[int]*PShell),
		pcomps:    make(map[int]*PComp),
		materials: make(map[int]*Material),
		pbushes:   make(map[int]*PBush),
		loadCases: make(map[int]*LoadCase),
		log:       log,
	}
}

func (m *Model) Logger() *zap.Logger { return m.log }

func addTo[T any](reg map[int]T, kind string, id int, v T) error {
	if _, present := reg[id]; present {
		return fmt.Errorf("%s %d: %w", kind, id, ErrDuplicateID)
	}
	reg[id] = v
	return nil
}

func (m *Model) AddGrid(g *Grid) error { return addTo(m.grids, "GRID", g.ID, g) }

func (m *Model) AddFrame(cf *CoordFrame) error {
	if cf.ID == BASIC {
		return fmt.Errorf("frame 0 is reserved for BASIC: %w", ErrDuplicateID)
	}
	return addTo(m.frames, "CORD2R", cf.ID, cf)
}

// AddQuad replaces a placeholder created by a results file read earlier
func (m *Model) AddQuad(q *Quad) error {
	if old, present := m.quads[q.ID]; present && old.Placeholder {
		q.forces = old.forces
		delete(m.quads, q.ID)
	}
	return addTo(m.quads, "CQUAD4", q.ID, q)
}

func (m *Model) AddBush(b *Bush) error {
	if old, present := m.bushes[b.ID]; present && old.Placeholder {
		b.forces = old.forces
		delete(m.bushes, b.ID)
	}
	return addTo(m.bushes, "CBUSH", b.ID, b)
}

func (m *Model) AddRBE2(r *RBE2) error { return addTo(m.rbe2s, "RBE2", r.ID, r) }
func (m *Model) AddRBE3(r *RBE3) error { return addTo(m.rbe3s, "RBE3", r.ID, r) }
func (m *Model) AddPShell(p *PShell) error { return addTo(m.pshells, "PSHELL", p.ID, p) }
func (m *Model) AddPComp(p *PComp) error { return addTo(m.pcomps, "PCOMP", p.ID, p) }
func (m *Model) AddMaterial(mt *Material) error { return addTo(m.materials, "MAT", mt.ID, mt) }
func (m *Model) AddPBush(p *PBush) error { return addTo(m.pbushes, "PBUSH", p.ID, p) }

func (m *Model) Grid(id int) (g *Grid, ok bool) { g, ok = m.grids[id]; return }
func (m *Model) Frame(id int) (cf *CoordFrame, ok bool) { cf, ok = m.frames[id]; return }
func (m *Model) Quad(id int) (q *Quad, ok bool) { q, ok = m.quads[id]; return }
func (m *Model) Bush(id int) (b *Bush, ok bool) { b, ok = m.bushes[id]; return }
func (m *Model) RBE2(id int) (r *RBE2, ok bool) { r, ok = m.rbe2s[id]; return }
func (m *Model) RBE3(id int) (r *RBE3, ok bool) { r, ok = m.rbe3s[id]; return }
func (m *Model) PShell(id int) (p *PShell, ok bool) { p, ok = m.pshells[id]; return }
func (m *Model) PComp(id int) (p *PComp, ok bool) { p, ok = m.pcomps[id]; return }
func (m *Model) Material(id int) (mt *Material, ok bool) { mt, ok = m.materials[id]; return }
func (m *Model) PBush(id int) (p *PBush, ok bool) { p, ok = m.pbushes[id]; return }
func (m *Model) LoadCase(id int) (lc *LoadCase, ok bool) { lc, ok = m.loadCases[id]; return }

// EnsureQuad returns the quad, creating a placeholder for an unknown ID
func (m *Model) EnsureQuad(id int) *Quad {
	q, ok := m.quads[id]
	if !ok {
		q = newPlaceholderQuad(id)
		m.quads[id] = q
	}
	return q
}

func (m *Model) EnsureBush(id int) *Bush {
	b, ok := m.bushes[id]
	if !ok {
		b = newPlaceholderBush(id)
		m.bushes[id] = b
	}
	return b
}

// EnsureLoadCase returns the load case, creating it on first sight
func (m *Model) EnsureLoadCase(id int) *LoadCase {
	lc, ok := m.loadCases[id]
	if !ok {
		lc = &LoadCase{ID: id}
		m.loadCases[id] = lc
	}
	return lc
}

func sortedKeys[T any](reg map[int]T) (ids []int) {
	ids = make([]int, 0, len(reg))
	for id := range reg {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return
}

func (m *Model) GridIDs() []int { return sortedKeys(m.grids) }
func (m *Model) QuadIDs() []int { return sortedKeys(m.quads) }
func (m *Model) BushIDs() []int { return sortedKeys(m.bushes) }
func (m *Model) PCompIDs() []int { return sortedKeys(m.pcomps) }
func (m *Model) LoadCaseIDs() []int { return sortedKeys(m.loadCases) }

// Counts summarises the registries for logging
func (m *Model) Counts() map[string]int {
	return map[string]int{
		"grids":     len(m.grids),
		"frames":    len(m.frames),
		"quads":     len(m.quads),
		"bushes":    len(m.bushes),
		"rbe2s":     len(m.rbe2s),
		"rbe3s":     len(m.rbe3s),
		"pshells":   len(m.pshells),
		"pcomps":    len(m.pcomps),
		"materials": len(m.materials),
		"loadcases": len(m.loadCases),
	}
}
