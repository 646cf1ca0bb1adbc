package nastran

import "strings"

// LoadCase is one result subcase, its strings come from the punch header
type LoadCase struct {
	ID                     int
	Title, Subtitle, Label string
}

// SetHeader keeps the first non blank value of each string
func (lc *LoadCase) SetHeader(title, subtitle, label string) {
	set := func(dst *string, s string) {
		if s = strings.TrimSpace(s); *dst == "" && s != "" {
			*dst = s
		}
	}
	set(&lc.Title, title)
	set(&lc.Subtitle, subtitle)
	set(&lc.Label, label)
}
