package nastran

import (
	"strconv"
	"strings"
)

// Fields is the flat field list of one card, excluding the card name field.
// Out of range indices read as blank
type Fields []string

func (f Fields) At(i int) string {
	if i < 0 || i >= len(f) {
		return ""
	}
	return strings.TrimSpace(f[i])
}

func (f Fields) Blank(i int) bool { return f.At(i) == "" }

func (f Fields) Int(i int) int { return ParseInt(f.At(i)) }

func (f Fields) Real(i int) float64 { return ParseReal(f.At(i)) }

// RealOr returns def when the field is blank
func (f Fields) RealOr(i int, def float64) float64 {
	if f.Blank(i) {
		return def
	}
	return f.Real(i)
}

// IntOr returns def when the field is blank
func (f Fields) IntOr(i int, def int) int {
	if f.Blank(i) {
		return def
	}
	return f.Int(i)
}

// RepairExponent inserts the E that NASTRAN allows to be dropped from a real
// exponent, "1.5-3" => "1.5E-3"
func RepairExponent(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 || strings.ContainsAny(s, "eEdD") {
		return s
	}
	pos := strings.IndexAny(s[1:], "+-")
	if pos < 0 {
		return s
	}
	pos++
	return s[:pos] + "E" + s[pos:]
}

// IsReal reports whether a field holds a real rather than an integer
func IsReal(s string) bool {
	return strings.Contains(s, ".")
}

// ParseReal parses a NASTRAN real, anything unparseable reads as 0
func ParseReal(s string) float64 {
	s = RepairExponent(s)
	if s == "" {
		return 0
	}
	s = strings.NewReplacer("d", "e", "D", "E").Replace(s)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// ParseInt parses a NASTRAN integer, anything unparseable reads as 0
func ParseInt(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		// A real in an integer field truncates
		if f := ParseReal(s); f != 0 {
			return int(f)
		}
		return 0
	}
	return v
}
