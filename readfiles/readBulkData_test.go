package readfiles

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/fillit/nastran"
)

// short formats a small field card image
func short(fields ...string) string {
	var sb strings.Builder
	for _, f := range fields {
		fmt.Fprintf(&sb, "%-8s", f)
	}
	return sb.String()
}

// long formats a large field card image, the first field is 8 wide
func long(name string, fields ...string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-8s", name)
	for _, f := range fields {
		fmt.Fprintf(&sb, "%-16s", f)
	}
	return sb.String()
}

func TestBulkReaderCards(t *testing.T) {
	deck := strings.Join([]string{
		"$ a comment",
		short("GRID", "1", "0", "0.", "0.", "0.", "0"),
		long("GRID*", "2", "0", "1.", "0."),
		long("*", "0.", "0"),
		"",
		short("CBUSH", "200", "1", "1", "2", "0.", "1.", "0.", ""),
		short("+", "0.25"),
		short("", "$ embedded"),
		"GRID,3,,1.,1.-1,0.",
		"CORD2R,1,0,0.,0.,0.,0.,0.,1.,1.,0.,0.",
		"PSHELL,1,2,0.1,,,,,,,",
		"ENDDATA",
		short("GRID", "99"),
	}, "\n")
	br := NewBulkReader(bufio.NewReader(strings.NewReader(deck)), "deck.bdf")
	var cards []*Card
	for {
		card, err := br.Next()
		if err != nil {
			break
		}
		cards = append(cards, card)
	}
	require.Len(t, cards, 6)
	assert.Equal(t, "GRID", cards[0].Name)
	assert.Equal(t, 2, cards[0].Line)
	{
		c := cards[1]
		assert.True(t, c.Long)
		assert.Len(t, c.Fields, 8)
		assert.Equal(t, "2", c.Fields.At(0))
		assert.Equal(t, "1.", c.Fields.At(2))
		assert.Equal(t, "0", c.Fields.At(5))
	}
	{
		c := cards[2]
		assert.Equal(t, "CBUSH", c.Name)
		assert.Len(t, c.Fields, 16)
		assert.Equal(t, "0.25", c.Fields.At(8))
	}
	{
		c := cards[3]
		assert.Equal(t, "GRID", c.Name)
		assert.InDelta(t, 0.1, c.Fields.Real(3), 1.e-15)
	}
	{ // A long free field line keeps every field
		c := cards[4]
		assert.Equal(t, "CORD2R", c.Name)
		assert.Len(t, c.Fields, 16)
		assert.Equal(t, []string{"1.", "0.", "0."}, []string(c.Fields[8:11]))
		cf, err := nastran.NewCORD2R(c.Fields)
		require.NoError(t, err)
		assert.Equal(t, 1, cf.ID)
	}
	{ // Trailing commas do not open a second block
		c := cards[5]
		assert.Len(t, c.Fields, 8)
		assert.Equal(t, "0.1", c.Fields.At(2))
	}
}

func TestReadBulkData(t *testing.T) {
	dir := t.TempDir()
	main := strings.Join([]string{
		short("GRID", "1", "0", "0.", "0.", "0."),
		short("GRID", "2", "0", "1.", "0.", "0."),
		short("CQUAD4", "100", "1", "1", "2", "3", "4", "45."),
		short("CBUSH", "200", "1", "1", "2", "0.", "1.", "0."),
		short("RBE2", "300", "1", "123456", "3", "4"),
		short("GRID", "2", "0", "9.", "9.", "9."),
		"include 'sub/inc.bdf'",
		"INCLUDE 'missing.bdf'",
	}, "\n")
	inc := strings.Join([]string{
		"GRID,3,,1.,1.,0.",
		"GRID,4,,0.,1.,0.",
		"PSHELL,1,2,0.1",
		"MAT8,2,1.+7,1.+6,0.3,5.+5",
	}, "\n")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.bdf"), []byte(main), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "inc.bdf"), []byte(inc), 0o644))

	m := nastran.NewModel(nil)
	require.NoError(t, ReadBulkData(filepath.Join(dir, "main.bdf"), m, nil))

	assert.Equal(t, []int{1, 2, 3, 4}, m.GridIDs())
	// The duplicate GRID 2 was skipped, the first one is kept
	assert.Equal(t, r3.Vec{X: 1}, m.GridPosition(2, nastran.BASIC))
	q, ok := m.Quad(100)
	require.True(t, ok)
	assert.InDelta(t, math.Pi/4, q.Theta, 1.e-12)
	// Linked after reading
	assert.True(t, q.Composite)
	assert.InDelta(t, 1., q.SideX, 1.e-12)
	b, ok := m.Bush(200)
	require.True(t, ok)
	assert.Equal(t, nastran.ByVector, b.Orientation)
	g, _ := m.Grid(1)
	assert.Equal(t, []int{300}, g.RBE2s)
	assert.Equal(t, []int{100}, g.Quads)

	err := ReadBulkData(filepath.Join(dir, "nope.bdf"), nastran.NewModel(nil), nil)
	assert.Error(t, err)
}
