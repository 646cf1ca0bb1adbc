package InputParameters

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/notargets/fillit/filledhole"
	"github.com/notargets/fillit/geometry"
)

// GroupLineError reports a group file line that was skipped
type GroupLineError struct {
	Line   int
	Reason string
}

func (e GroupLineError) Error() string { return fmt.Sprintf("line %d: %s", e.Line, e.Reason) }

// ReadGroupFile reads the fastener entries of a group file
func ReadGroupFile(filename string) (entries []filledhole.GroupEntry, skipped []GroupLineError, err error) {
	var file *os.File
	if file, err = os.Open(filename); err != nil {
		return nil, nil, fmt.Errorf("unable to open group file %s: %w", filename, err)
	}
	defer file.Close()
	if entries, skipped, err = ParseGroup(file); err != nil {
		err = fmt.Errorf("reading group file %s: %w", filename, err)
	}
	return
}

/*
ParseGroup reads one fastener per line:

	node, depth, MAT|x, MAT|x, SINGLE, axis
	node, depth, MAT|x, MAT|x, cbushID, axis1, axis2

The first flag puts plate fluxes in material axes, the second turns fastener
forces onto them. A dual entry gives the codes of cbushID and of its pair.
Lines that do not parse are returned in skipped.
*/
func ParseGroup(r io.Reader) (entries []filledhole.GroupEntry, skipped []GroupLineError, err error) {
	var (
		scanner = bufio.NewScanner(r)
		lineNo  int
	)
	for scanner.Scan() {
		lineNo++
		line := squeeze(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ge, reason := parseGroupLine(strings.Split(line, ","))
		if reason != "" {
			skipped = append(skipped, GroupLineError{Line: lineNo, Reason: reason})
			continue
		}
		entries = append(entries, ge)
	}
	err = scanner.Err()
	return
}

func parseGroupLine(f []string) (ge filledhole.GroupEntry, reason string) {
	if len(f) < 6 {
		return ge, fmt.Sprintf("%d fields, need at least 6", len(f))
	}
	ints := func(i int) (v int, ok bool) {
		var err error
		if v, err = strconv.Atoi(f[i]); err != nil {
			reason = fmt.Sprintf("field %d %q is not an integer", i+1, f[i])
			return 0, false
		}
		return v, true
	}
	var (
		ok         bool
		axis1      int
		axis2      int
		codes      [2]geometry.AxisCode
		singleBush = strings.EqualFold(f[4], "SINGLE")
	)
	if ge.Node, ok = ints(0); !ok {
		return
	}
	if ge.Depth, ok = ints(1); !ok {
		return
	}
	if axis1, ok = ints(5); !ok {
		return
	}
	axis2 = axis1
	if !singleBush {
		if len(f) < 7 {
			return ge, "dual entry needs a second axis code"
		}
		if ge.DualBush, ok = ints(4); !ok {
			return
		}
		if axis2, ok = ints(6); !ok {
			return
		}
	}
	for i, a := range []int{axis1, axis2} {
		var err error
		if codes[i], err = geometry.NewAxisCode(a); err != nil {
			return ge, err.Error()
		}
	}
	ge.MaterialFlux = f[2] == "MAT"
	ge.AsIs = f[3] != "MAT"
	ge.Axes = codes
	return
}

// OutputName is the report file of a group, its path with the extension replaced
func OutputName(group, ext string) string {
	return strings.TrimSuffix(group, filepath.Ext(group)) + ext
}
