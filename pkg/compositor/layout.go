package compositor

import (
	"fmt"
	"strconv"
	"strings"
)

// A4 paper size in inches.
const (
	A4Width  = 8.27
	A4Height = 11.69
)

// Margins holds CSS lengths ("200px", "1cm", "0.5in", "10mm"). Empty sides
// print with no margin.
type Margins struct {
	Top    string `json:"top,omitempty" yaml:"top,omitempty"`
	Right  string `json:"right,omitempty" yaml:"right,omitempty"`
	Bottom string `json:"bottom,omitempty" yaml:"bottom,omitempty"`
	Left   string `json:"left,omitempty" yaml:"left,omitempty"`
}

// Uniform returns margins with the same length on every side.
func Uniform(length string) Margins {
	return Margins{Top: length, Right: length, Bottom: length, Left: length}
}

// Layout describes the page setup applied when printing a document. Header and
// footer templates use the Chrome print template classes (pageNumber,
// totalPages, date, title).
type Layout struct {
	Margins         Margins `json:"margins" yaml:"margins"`
	HeaderTemplate  string  `json:"headerTemplate,omitempty" yaml:"headerTemplate,omitempty"`
	FooterTemplate  string  `json:"footerTemplate,omitempty" yaml:"footerTemplate,omitempty"`
	PrintBackground bool    `json:"printBackground" yaml:"printBackground"`
}

// DefaultLayout is used for kinds without a dedicated page setup.
func DefaultLayout() Layout {
	return Layout{
		Margins:         Margins{Top: "200px", Bottom: "80px"},
		PrintBackground: true,
	}
}

// DisplayHeaderFooter reports whether Chrome should print the header/footer
// bands.
func (l Layout) DisplayHeaderFooter() bool {
	return strings.TrimSpace(l.HeaderTemplate) != "" || strings.TrimSpace(l.FooterTemplate) != ""
}

// Inches converts a CSS length to inches. Bare numbers are read as pixels.
func Inches(length string) (float64, error) {
	trimmed := strings.TrimSpace(strings.ToLower(length))
	if trimmed == "" {
		return 0, nil
	}

	units := []struct {
		suffix string
		factor float64
	}{
		{"px", 1.0 / 96},
		{"cm", 1 / 2.54},
		{"mm", 1 / 25.4},
		{"in", 1},
		{"pt", 1.0 / 72},
	}
	number, factor := trimmed, 1.0/96
	for _, u := range units {
		if strings.HasSuffix(trimmed, u.suffix) {
			number = strings.TrimSpace(strings.TrimSuffix(trimmed, u.suffix))
			factor = u.factor
			break
		}
	}

	value, err := strconv.ParseFloat(number, 64)
	if err != nil || value < 0 {
		return 0, fmt.Errorf("compositor: invalid length %q", length)
	}
	return value * factor, nil
}
