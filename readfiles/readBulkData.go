package readfiles

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/notargets/fillit/nastran"
)

// Card is one bulk data entry with its continuation fields flattened, eight
// fields per logical line
type Card struct {
	Name   string
	Long   bool
	Fields nastran.Fields
	File   string
	Line   int
}

type cardParser func(m *nastran.Model, f nastran.Fields) error

var cardParsers = map[string]cardParser{
	"GRID":   func(m *nastran.Model, f nastran.Fields) error { return m.AddGrid(nastran.NewGrid(f)) },
	"CQUAD4": func(m *nastran.Model, f nastran.Fields) error { return m.AddQuad(nastran.NewQuad(f)) },
	"CBUSH":  func(m *nastran.Model, f nastran.Fields) error { return m.AddBush(nastran.NewBush(f)) },
	"RBE2":   func(m *nastran.Model, f nastran.Fields) error { return m.AddRBE2(nastran.NewRBE2(f)) },
	"RBE3":   func(m *nastran.Model, f nastran.Fields) error { return m.AddRBE3(nastran.NewRBE3(f)) },
	"PSHELL": func(m *nastran.Model, f nastran.Fields) error { return m.AddPShell(nastran.NewPShell(f)) },
	"PCOMP":  func(m *nastran.Model, f nastran.Fields) error { return m.AddPComp(nastran.NewPComp(f)) },
	"PBUSH":  func(m *nastran.Model, f nastran.Fields) error { return m.AddPBush(nastran.NewPBush(f)) },
	"MAT1":   func(m *nastran.Model, f nastran.Fields) error { return m.AddMaterial(nastran.NewMAT1(f)) },
	"MAT8":   func(m *nastran.Model, f nastran.Fields) error { return m.AddMaterial(nastran.NewMAT8(f)) },
	"CORD2R": func(m *nastran.Model, f nastran.Fields) error {
		cf, err := nastran.NewCORD2R(f)
		if err != nil {
			return err
		}
		return m.AddFrame(cf)
	},
}

/*
ReadBulkData loads a bulk data file and everything it INCLUDEs into the model,
then links it. Only the main file being unreadable is an error; unreadable
includes and bad cards are logged and skipped
*/
func ReadBulkData(filename string, m *nastran.Model, log *zap.Logger) (err error) {
	if log == nil {
		log = zap.NewNop()
	}
	var (
		queue  = []string{filename}
		seen   = map[string]bool{}
		nCards int
	)
	for i := 0; i < len(queue); i++ {
		name := queue[i]
		if abs, e := filepath.Abs(name); e == nil {
			if seen[abs] {
				continue
			}
			seen[abs] = true
		}
		var file *os.File
		if file, err = os.Open(name); err != nil {
			if i == 0 {
				return fmt.Errorf("unable to open bulk data file %s: %w", name, err)
			}
			log.Warn("unable to open include file, skipping", zap.String("file", name), zap.Error(err))
			err = nil
			continue
		}
		log.Info("reading bulk data", zap.String("file", name))
		br := NewBulkReader(bufio.NewReader(file), name)
		for {
			var card *Card
			if card, err = br.Next(); err != nil {
				break
			}
			nCards++
			if err = applyCard(m, card); err != nil {
				log.Warn("skipping card", zap.String("card", card.Name),
					zap.String("file", card.File), zap.Int("line", card.Line), zap.Error(err))
			}
		}
		file.Close()
		if !errors.Is(err, io.EOF) {
			return fmt.Errorf("reading %s: %w", name, err)
		}
		err = nil
		for _, inc := range br.Includes {
			if !filepath.IsAbs(inc) {
				inc = filepath.Join(filepath.Dir(name), inc)
			}
			queue = append(queue, inc)
		}
	}
	m.Link()
	log.Info("model loaded", zap.Int("cards", nCards), zap.Any("counts", m.Counts()))
	return
}

func applyCard(m *nastran.Model, card *Card) error {
	parse, ok := cardParsers[card.Name]
	if !ok {
		return nil
	}
	return parse(m, card.Fields)
}

// BulkReader splits a bulk data stream into cards
type BulkReader struct {
	reader   *bufio.Reader
	file     string
	line     int
	pending  *string
	done     bool
	Includes []string
}

func NewBulkReader(reader *bufio.Reader, file string) *BulkReader {
	return &BulkReader{reader: reader, file: file}
}

func (br *BulkReader) getLine() (line string, err error) {
	if br.pending != nil {
		line, br.pending = *br.pending, nil
		return
	}
	if br.done {
		return "", io.EOF
	}
	line, err = br.reader.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) || len(line) == 0 {
			return
		}
		err = nil
	}
	br.line++
	line = strings.TrimRight(line, "\r\n")
	return
}

func (br *BulkReader) unget(line string) { br.pending = &line }

/*
Next returns the next card. A continuation line starts with "+", "*", a comma
or eight blanks. INCLUDE statements are collected in Includes and ENDDATA ends
the stream
*/
func (br *BulkReader) Next() (card *Card, err error) {
	var line string
	for {
		if line, err = br.getLine(); err != nil {
			return
		}
		switch {
		case isSkippable(line):
			continue
		case isInclude(line):
			br.Includes = append(br.Includes, includeName(line))
			continue
		case isContinuation(line):
			// Orphan continuation, case control or a dropped card
			continue
		case strings.EqualFold(strings.TrimSpace(line), "ENDDATA"):
			br.done = true
			return nil, io.EOF
		}
		break
	}
	card = &Card{File: br.file, Line: br.line}
	card.Name, card.Long, card.Fields = splitFirst(line)
	for {
		if line, err = br.getLine(); err != nil {
			if errors.Is(err, io.EOF) {
				err = nil
			}
			return
		}
		if isSkippable(line) && !isBlank(line) {
			continue
		}
		if !isContinuation(line) {
			br.unget(line)
			return
		}
		card.Fields = append(card.Fields, splitContinuation(line, card.Long)...)
	}
}

func isBlank(line string) bool { return strings.TrimSpace(line) == "" }

func isSkippable(line string) bool {
	return isBlank(line) || strings.HasPrefix(strings.TrimSpace(line), "$")
}

func isContinuation(line string) bool {
	if isBlank(line) {
		return false
	}
	switch line[0] {
	case '+', '*', ',':
		return true
	}
	return len(line) >= 8 && strings.TrimSpace(line[:8]) == ""
}

func isInclude(line string) bool {
	return len(line) >= 7 && strings.EqualFold(line[:7], "INCLUDE")
}

func includeName(line string) string {
	s := strings.TrimSpace(line[7:])
	return strings.Trim(s, "'\" ")
}

// pad extends a line to the 80 column card image
func pad(line string) string {
	if len(line) < 80 {
		line += strings.Repeat(" ", 80-len(line))
	}
	return line
}

func fixedFields(line string, start, width, n int) (f nastran.Fields) {
	line = pad(line)
	for i := 0; i < n; i++ {
		s := start + i*width
		f = append(f, strings.TrimSpace(line[s:s+width]))
	}
	return
}

// freeFields splits a comma line into data fields in blocks of eight. Fields
// past the eighth carry on as if they were on a continuation line
func freeFields(line string) (f nastran.Fields) {
	for _, token := range strings.Split(line, ",")[1:] {
		f = append(f, strings.TrimSpace(token))
	}
	for len(f) > 8 && f[len(f)-1] == "" {
		f = f[:len(f)-1]
	}
	for len(f) == 0 || len(f)%8 != 0 {
		f = append(f, "")
	}
	return
}

func splitFirst(line string) (name string, long bool, f nastran.Fields) {
	if strings.Contains(line, ",") {
		name = strings.ToUpper(strings.TrimSpace(strings.Split(line, ",")[0]))
		if strings.HasSuffix(name, "*") {
			name, long = strings.TrimSuffix(name, "*"), true
		}
		return name, long, freeFields(line)
	}
	name = strings.ToUpper(strings.TrimSpace(pad(line)[:8]))
	if strings.HasSuffix(name, "*") {
		return strings.TrimSuffix(name, "*"), true, fixedFields(line, 8, 16, 4)
	}
	return name, false, fixedFields(line, 8, 8, 8)
}

func splitContinuation(line string, long bool) nastran.Fields {
	switch {
	case strings.Contains(line, ","):
		return freeFields(line)
	case line[0] == '*' || long && line[0] != '+':
		return fixedFields(line, 8, 16, 4)
	default:
		return fixedFields(line, 8, 8, 8)
	}
}
