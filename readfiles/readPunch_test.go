package readfiles

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/fillit/nastran"
)

func header(subcase int, title, subtitle, kind, elemType string) []string {
	return []string{
		fmt.Sprintf("%-10s%s", "$TITLE   =", title),
		fmt.Sprintf("%-10s%s", "$SUBTITLE=", subtitle),
		fmt.Sprintf("%-10s%s", "$LABEL   =", "LBL"),
		kind,
		"$REAL OUTPUT",
		fmt.Sprintf("$SUBCASE ID = %11d", subcase),
		elemType,
	}
}

// record formats a punch record, the ID on the first line and -CONT- after
func record(id string, vals ...float64) (lines []string) {
	for i := 0; i < len(vals); i += 3 {
		var sb strings.Builder
		if i == 0 {
			fmt.Fprintf(&sb, "%18s", id)
		} else {
			fmt.Fprintf(&sb, "%-18s", "-CONT-")
		}
		for j := i; j < i+3 && j < len(vals); j++ {
			fmt.Fprintf(&sb, "%18.6E", vals[j])
		}
		fmt.Fprintf(&sb, "%8d", len(lines)+1)
		lines = append(lines, sb.String())
	}
	return
}

func TestParsePunch(t *testing.T) {
	var lines []string
	add := func(l ...string) { lines = append(lines, l...) }
	add(header(1, "FH TEST", "LEFT WING", "$ELEMENT FORCES",
		"$ELEMENT TYPE =          33  QUAD4")...)
	add(record("100", 1, 2, 3, 4, 5, 6, 7, 8, 0)...)
	add(record("101", -1, 0, 0, 0, 0, 0, 0, 0, 0)...)
	add(header(1, "FH TEST", "", "$ELEMENT FORCES",
		"$ELEMENT TYPE =         102  BUSH")...)
	add(record("500", 10, 20, 30, 0.1, 0.2, 0.3)...)
	// Displacements are not element forces
	add(header(2, "OTHER", "RIGHT", "$DISPLACEMENTS", "$REAL OUTPUT")...)
	add(record("100", 9, 9, 9, 9, 9, 9)...)
	add(header(2, "OTHER", "RIGHT", "$ELEMENT FORCES",
		"$ELEMENT TYPE =          33  QUAD4                           MATERIAL")...)
	add(record("100", 11, 12, 13, 14, 15, 16, 17, 18, 0)...)

	m := nastran.NewModel(nil)
	require.NoError(t, m.AddQuad(&nastran.Quad{ID: 100, MCID: -1}))
	n, err := ParsePunch(strings.NewReader(strings.Join(lines, "\n")), m, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	assert.Equal(t, []int{1, 2}, m.LoadCaseIDs())
	lc, _ := m.LoadCase(1)
	assert.Equal(t, "FH TEST", lc.Title)
	assert.Equal(t, "LEFT WING", lc.Subtitle)
	assert.Equal(t, "LBL", lc.Label)

	q, _ := m.Quad(100)
	pf, ok := q.Forces(1)
	require.True(t, ok)
	assert.False(t, pf.InMaterial)
	assert.Equal(t, nastran.Tensor{XX: 1, YY: 2, XY: 3}, pf.N)
	assert.Equal(t, nastran.Tensor{XX: 4, YY: 5, XY: 6}, pf.M)
	assert.Equal(t, [2]float64{7, 8}, pf.Q)
	pf, ok = q.Forces(2)
	require.True(t, ok)
	assert.True(t, pf.InMaterial)
	assert.Equal(t, 11., pf.N.XX)

	// Unknown IDs become placeholders
	q, ok = m.Quad(101)
	require.True(t, ok)
	assert.True(t, q.Placeholder)
	b, ok := m.Bush(500)
	require.True(t, ok)
	assert.True(t, b.Placeholder)
	bf, ok := b.Forces(1)
	require.True(t, ok)
	assert.Equal(t, r3.Vec{X: 10, Y: 20, Z: 30}, bf.Force)
	assert.InDelta(t, 0.3, bf.Moment.Z, 1.e-9)

	assert.Error(t, ReadPunch(filepath.Join(t.TempDir(), "none.pch"), m, nil))
}
