package output

import (
	"encoding/csv"
	"io"
)

// CSVWriter writes the .res text report
type CSVWriter struct{}

func (CSVWriter) Ext() string { return ".res" }

func (CSVWriter) Write(w io.Writer, t *Table) (err error) {
	cw := csv.NewWriter(w)
	if err = cw.Write(t.Header); err != nil {
		return
	}
	if err = cw.WriteAll(t.Records); err != nil {
		return
	}
	return cw.Error()
}
