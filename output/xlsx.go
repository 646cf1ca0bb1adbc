package output

import (
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// XLSXWriter writes one sheet, loads and IDs as numbers
type XLSXWriter struct {
	Sheet string
}

func (XLSXWriter) Ext() string { return ".xlsx" }

func (x XLSXWriter) Write(w io.Writer, t *Table) (err error) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := x.Sheet
	if sheet == "" {
		sheet = "Sheet1"
	}
	if err = f.SetSheetName("Sheet1", sheet); err != nil {
		return
	}
	if err = setRow(f, sheet, 1, t.Header); err != nil {
		return
	}
	for i, rec := range t.Records {
		if err = setRow(f, sheet, i+2, rec); err != nil {
			return
		}
	}
	if err = f.SetPanes(sheet, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	}); err != nil {
		return
	}
	return f.Write(w)
}

func setRow(f *excelize.File, sheet string, row int, cells []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	values := make([]interface{}, len(cells))
	for i, c := range cells {
		if v, err := strconv.ParseFloat(c, 64); err == nil {
			values[i] = v
		} else {
			values[i] = c
		}
	}
	return f.SetSheetRow(sheet, cell, &values)
}
