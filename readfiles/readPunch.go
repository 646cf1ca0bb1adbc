package readfiles

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/fillit/nastran"
)

type punchBlock uint8

const (
	blockSkip punchBlock = iota
	blockQuad
	blockQuadMaterial
	blockBush
)

const (
	elemTypeQuad4 = 33
	elemTypeBush  = 102
)

type punchHeader struct {
	title, subtitle, label string
	subcase                int
	forces                 bool
	block                  punchBlock
}

// ReadPunch attaches the element force results of a punch file to the model
func ReadPunch(filename string, m *nastran.Model, log *zap.Logger) (err error) {
	var file *os.File
	if file, err = os.Open(filename); err != nil {
		return fmt.Errorf("unable to open punch file %s: %w", filename, err)
	}
	defer file.Close()
	if log == nil {
		log = zap.NewNop()
	}
	log.Info("reading punch", zap.String("file", filename))
	var n int
	if n, err = ParsePunch(file, m, log); err != nil {
		return fmt.Errorf("reading %s: %w", filename, err)
	}
	log.Info("punch loaded", zap.String("file", filename), zap.Int("records", n))
	return
}

/*
ParsePunch reads punch results from r. Each result block starts with a
header of $ lines beginning at $TITLE; only CQUAD4 (element or material
axes) and CBUSH element forces are kept, other blocks are skipped. Results
for unknown elements create placeholders
*/
func ParsePunch(r io.Reader, m *nastran.Model, log *zap.Logger) (records int, err error) {
	var (
		scanner = bufio.NewScanner(r)
		hdr     punchHeader
		record  []string
	)
	flush := func() {
		if len(record) == 0 {
			return
		}
		if addRecord(m, &hdr, record, log) {
			records++
		}
		record = record[:0]
	}
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.HasPrefix(line, "$") {
			flush()
			hdr.parse(line, m)
			continue
		}
		if isBlank(line) || hdr.block == blockSkip {
			continue
		}
		if !strings.HasPrefix(line, "-CONT-") {
			flush()
		}
		record = append(record, line)
	}
	flush()
	err = scanner.Err()
	return
}

func headerValue(line string) string {
	return strings.TrimSpace(pad(line)[10:72])
}

func (h *punchHeader) parse(line string, m *nastran.Model) {
	key := strings.ToUpper(line)
	switch {
	case strings.HasPrefix(key, "$TITLE"):
		*h = punchHeader{title: headerValue(line)}
	case strings.HasPrefix(key, "$SUBTITLE"):
		h.subtitle = headerValue(line)
	case strings.HasPrefix(key, "$LABEL"):
		h.label = headerValue(line)
	case strings.HasPrefix(key, "$ELEMENT FORCES"):
		h.forces = true
	case strings.HasPrefix(key, "$SUBCASE ID"):
		if i := strings.Index(line, "="); i >= 0 {
			if tokens := strings.Fields(line[i+1:]); len(tokens) > 0 {
				h.subcase = nastran.ParseInt(tokens[0])
			}
		}
		m.EnsureLoadCase(h.subcase).SetHeader(h.title, h.subtitle, h.label)
	case strings.HasPrefix(key, "$ELEMENT TYPE"):
		h.block = blockSkip
		i := strings.Index(line, "=")
		if !h.forces || i < 0 {
			return
		}
		tokens := strings.Fields(line[i+1:])
		if len(tokens) == 0 {
			return
		}
		switch nastran.ParseInt(tokens[0]) {
		case elemTypeQuad4:
			h.block = blockQuad
			if strings.Contains(key, "MATERIAL") {
				h.block = blockQuadMaterial
			}
		case elemTypeBush:
			h.block = blockBush
		}
	}
}

// recordValues returns the 18 column fields that follow the ID on each line
func recordValues(record []string) (vals []float64) {
	for _, line := range record {
		line = pad(line)
		for s := 18; s+18 <= 72; s += 18 {
			vals = append(vals, nastran.ParseReal(line[s:s+18]))
		}
	}
	return
}

func addRecord(m *nastran.Model, h *punchHeader, record []string, log *zap.Logger) bool {
	id := nastran.ParseInt(strings.TrimSpace(pad(record[0])[:18]))
	if id == 0 {
		return false
	}
	vals := recordValues(record)
	switch h.block {
	case blockQuad, blockQuadMaterial:
		if len(vals) < 8 {
			log.Warn("short CQUAD4 force record", zap.Int("element", id), zap.Int("subcase", h.subcase))
			return false
		}
		m.EnsureQuad(id).SetForces(h.subcase, nastran.PlateForces{
			N:          nastran.Tensor{XX: vals[0], YY: vals[1], XY: vals[2]},
			M:          nastran.Tensor{XX: vals[3], YY: vals[4], XY: vals[5]},
			Q:          [2]float64{vals[6], vals[7]},
			InMaterial: h.block == blockQuadMaterial,
		})
	case blockBush:
		if len(vals) < 6 {
			log.Warn("short CBUSH force record", zap.Int("element", id), zap.Int("subcase", h.subcase))
			return false
		}
		m.EnsureBush(id).SetForces(h.subcase, nastran.BushForces{
			Force:  r3.Vec{X: vals[0], Y: vals[1], Z: vals[2]},
			Moment: r3.Vec{X: vals[3], Y: vals[4], Z: vals[5]},
		})
	default:
		return false
	}
	return true
}
