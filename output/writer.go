package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var ErrFormat = errors.New("unknown output format")

// Writer renders a table in one file format
type Writer interface {
	Write(w io.Writer, t *Table) error
	Ext() string
}

// New picks the writer for a format name, csv when the name is empty
func New(format string) (Writer, error) {
	switch strings.ToLower(format) {
	case "", "csv":
		return CSVWriter{}, nil
	case "xlsx":
		return XLSXWriter{Sheet: "FH_Data"}, nil
	case "pdf":
		return PDFWriter{Title: "Filled hole loads"}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrFormat, format)
}

// WriteFile writes the table to base plus the writer's extension
func WriteFile(wr Writer, base string, t *Table) (filename string, err error) {
	filename = base + wr.Ext()
	var file *os.File
	if file, err = os.Create(filename); err != nil {
		return "", fmt.Errorf("unable to create %s: %w", filename, err)
	}
	if err = wr.Write(file, t); err != nil {
		file.Close()
		return "", fmt.Errorf("writing %s: %w", filename, err)
	}
	if err = file.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", filename, err)
	}
	return
}
