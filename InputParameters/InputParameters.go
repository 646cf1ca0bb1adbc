package InputParameters

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ghodss/yaml"

	"github.com/notargets/fillit/filledhole"
	"github.com/notargets/fillit/geometry"
)

var (
	ErrNoInput      = errors.New("no input file defined in control file")
	ErrNoPunch      = errors.New("no punch files entered")
	ErrNoParameters = errors.New("no ALL parameters and no groups in control file")
)

// AllParameters apply to every fastener when no groups are given
type AllParameters struct {
	Composite      bool `json:"Composite"`      // Only report rings with a composite quad
	Depth          int  `json:"Depth"`          // Patch size N
	MaterialFlux   bool `json:"MaterialFlux"`   // Plate fluxes in material axes
	MaterialForces bool `json:"MaterialForces"` // Fastener forces turned onto the material axes
	Axis           int  `json:"Axis"`           // Axis code
}

// Parameters obtained from the control file, YAML or the keyword format
type InputParameters struct {
	Input    string         `json:"Input"`
	Punch    []string       `json:"Punch"`
	Subcases []int          `json:"Subcases"`
	All      *AllParameters `json:"All"`
	Groups   []string       `json:"Groups"`
}

func (ip *InputParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

// ReadControlFile reads and validates a control file in either format
func ReadControlFile(filename string) (ip *InputParameters, err error) {
	var data []byte
	if data, err = os.ReadFile(filename); err != nil {
		return nil, fmt.Errorf("unable to open control file %s: %w", filename, err)
	}
	ip = &InputParameters{}
	if IsKeywordFormat(data) {
		err = ip.ParseKeywords(data)
	} else {
		err = ip.Parse(data)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing control file %s: %w", filename, err)
	}
	if err = ip.Validate(); err != nil {
		return nil, fmt.Errorf("control file %s: %w", filename, err)
	}
	return
}

func (ip *InputParameters) Validate() error {
	switch {
	case ip.Input == "":
		return ErrNoInput
	case len(ip.Punch) == 0:
		return ErrNoPunch
	case len(ip.Groups) == 0 && ip.All == nil:
		return ErrNoParameters
	}
	if ip.All != nil {
		if _, err := geometry.NewAxisCode(ip.All.Axis); err != nil {
			return err
		}
		if ip.All.Depth < 2 {
			return fmt.Errorf("depth %d, a ring needs a patch of at least 2", ip.All.Depth)
		}
	}
	return nil
}

// Params converts the ALL line for the engine, the pair uses the same code
func (ap *AllParameters) Params() filledhole.Params {
	code := geometry.AxisCode(ap.Axis)
	return filledhole.Params{
		Depth:        ap.Depth,
		MaterialFlux: ap.MaterialFlux,
		AsIs:         !ap.MaterialForces,
		Axes:         [2]geometry.AxisCode{code, code},
	}
}

func (ip *InputParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Input\n", ip.Input)
	for _, p := range ip.Punch {
		fmt.Printf("\"%s\"\t\t= Punch\n", p)
	}
	fmt.Printf("%v\t\t\t= Subcases\n", ip.Subcases)
	if ip.All != nil {
		fmt.Printf("[%v]\t\t\t= Composite\n", ip.All.Composite)
		fmt.Printf("[%d]\t\t\t= Depth\n", ip.All.Depth)
		fmt.Printf("[%v]\t\t\t= Material Flux\n", ip.All.MaterialFlux)
		fmt.Printf("[%v]\t\t\t= Material Forces\n", ip.All.MaterialForces)
		fmt.Printf("[%d]\t\t\t= Axis\n", ip.All.Axis)
	}
	for _, g := range ip.Groups {
		fmt.Printf("\"%s\"\t\t= Group\n", g)
	}
}

var keywords = map[string]bool{"INPUT": true, "PUNCH": true, "GROUP": true, "ALL": true, "SUBCASES": true}

// squeeze drops every blank in a control line
func squeeze(line string) string {
	return strings.Join(strings.Fields(line), "")
}

// IsKeywordFormat reports whether the first non blank line is a block keyword
func IsKeywordFormat(data []byte) bool {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		if line := squeeze(scanner.Text()); line != "" {
			return keywords[line]
		}
	}
	return false
}

/*
ParseKeywords reads the keyword control format, blocks opened by a keyword
line and closed by a blank line or the next keyword:

	INPUT
	model.bdf
	PUNCH
	run1.pch
	run2.pch
	SUBCASES
	1,2,5
	ALL
	COMP, 3, MAT, MAT, 31
	GROUP
	wing.csv
*/
func (ip *InputParameters) ParseKeywords(data []byte) (err error) {
	var (
		scanner = bufio.NewScanner(bytes.NewReader(data))
		block   string
	)
	for scanner.Scan() {
		line := squeeze(scanner.Text())
		if keywords[line] {
			block = line
			continue
		}
		if line == "" {
			block = ""
			continue
		}
		switch block {
		case "INPUT":
			ip.Input, block = line, ""
		case "PUNCH":
			ip.Punch = append(ip.Punch, line)
		case "GROUP":
			ip.Groups = append(ip.Groups, line)
		case "SUBCASES":
			for _, s := range strings.Split(line, ",") {
				if s == "" {
					continue
				}
				var sc int
				if sc, err = strconv.Atoi(s); err != nil {
					return fmt.Errorf("subcase %q: %w", s, err)
				}
				ip.Subcases = append(ip.Subcases, sc)
			}
		case "ALL":
			if ip.All, err = parseAllLine(line); err != nil {
				return
			}
			block = ""
		}
	}
	return scanner.Err()
}

// parseAllLine reads COMP|x, depth, MAT|x, MAT|x, axis
func parseAllLine(line string) (ap *AllParameters, err error) {
	f := strings.Split(line, ",")
	if len(f) < 5 {
		return nil, fmt.Errorf("ALL line %q needs 5 fields", line)
	}
	ap = &AllParameters{
		Composite:      f[0] == "COMP",
		MaterialFlux:   f[2] == "MAT",
		MaterialForces: f[3] == "MAT",
	}
	if ap.Depth, err = strconv.Atoi(f[1]); err != nil {
		return nil, fmt.Errorf("ALL depth %q: %w", f[1], err)
	}
	if ap.Axis, err = strconv.Atoi(f[4]); err != nil {
		return nil, fmt.Errorf("ALL axis %q: %w", f[4], err)
	}
	return
}
