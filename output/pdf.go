package output

import (
	"io"

	"github.com/phpdave11/gofpdf"
)

// PDFWriter prints the table on landscape pages, the header repeated on each
type PDFWriter struct {
	Title string
}

func (PDFWriter) Ext() string { return ".pdf" }

func (p PDFWriter) Write(w io.Writer, t *Table) error {
	const (
		margin    = 8.
		rowHeight = 4.
	)
	pdf := gofpdf.New("L", "mm", "A3", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pageW, _ := pdf.GetPageSize()
	colW := (pageW - 2*margin) / float64(len(t.Header))
	pdf.SetHeaderFunc(func() {
		if pdf.PageNo() == 1 && p.Title != "" {
			pdf.SetFont("Helvetica", "B", 12)
			pdf.CellFormat(0, 8, p.Title, "", 1, "L", false, 0, "")
		}
		pdf.SetFont("Helvetica", "B", 6)
		for _, h := range t.Header {
			pdf.CellFormat(colW, rowHeight, h, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 6)
	})
	pdf.AddPage()
	for _, rec := range t.Records {
		for _, c := range rec {
			pdf.CellFormat(colW, rowHeight, c, "1", 0, "R", false, 0, "")
		}
		pdf.Ln(-1)
	}
	return pdf.Output(w)
}
