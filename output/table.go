package output

import (
	"strconv"

	"github.com/notargets/fillit/filledhole"
)

const (
	Unpaired = "N/A"
	NoQuad   = "-"
)

var fixedColumns = []string{
	"Subcase", "Subtitle", "Grid", "CBUSH_1", "CBUSH_2",
	"Nxx", "Nyy", "Nxy", "Mxx", "Myy", "Mxy", "Fx", "Fy", "Fz",
}

// Table is a report in text cells, one record per row
type Table struct {
	Header  []string
	Records [][]string
}

// FormatValue prints a load with six significant digits, negative zero as 0
func FormatValue(v float64) string {
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// Header is the column set for a ring of width quads
func Header(width int) (h []string) {
	h = append(h, fixedColumns...)
	for i := 1; i <= width; i++ {
		h = append(h, "CQUAD"+strconv.Itoa(i))
	}
	return
}

/*
NewTable lays out the rows with width ring columns. Rings shorter than the
width are padded, a ring longer than the width widens the table.
*/
func NewTable(rows []filledhole.Row, width int) (t *Table) {
	for _, r := range rows {
		if len(r.Quads) > width {
			width = len(r.Quads)
		}
	}
	t = &Table{Header: Header(width)}
	for _, r := range rows {
		rec := make([]string, 0, len(t.Header))
		pair := Unpaired
		if r.Pair != 0 {
			pair = strconv.Itoa(r.Pair)
		}
		rec = append(rec, strconv.Itoa(r.Subcase), r.Subtitle, strconv.Itoa(r.Grid), strconv.Itoa(r.Bush), pair)
		for _, v := range r.Loads.Values() {
			rec = append(rec, FormatValue(v))
		}
		for i := 0; i < width; i++ {
			if i < len(r.Quads) {
				rec = append(rec, strconv.Itoa(r.Quads[i]))
			} else {
				rec = append(rec, NoQuad)
			}
		}
		t.Records = append(t.Records, rec)
	}
	return
}
