package render

import (
	"encoding/json"
	"maps"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-legaldocs/pkg/payload"
	"github.com/goliatone/go-legaldocs/pkg/ptbr"
)

// HelperSet maps helper names to template callables.
type HelperSet map[string]any

// Clone returns a shallow copy.
func (h HelperSet) Clone() HelperSet {
	return maps.Clone(h)
}

// DefaultHelpers returns the helpers every document template can call:
//
//	formatDate(v)    "05 de março de 2024"
//	shortDate(v)     "05/03/2024"
//	monthName(n)     "março"
//	numberToWords(n) "cento e vinte e três"
//	eq(a, b)         strict equality with numeric coercion
func DefaultHelpers() HelperSet {
	return HelperSet{
		"formatDate": func(v *pongo2.Value) string {
			return formatDate(v.Interface(), ptbr.FormatLongDate)
		},
		"shortDate": func(v *pongo2.Value) string {
			return formatDate(v.Interface(), ptbr.FormatShortDate)
		},
		"monthName": func(v *pongo2.Value) string {
			return monthName(v.Interface())
		},
		"numberToWords": func(v *pongo2.Value) string {
			return ptbr.NumberToWords(v.Interface())
		},
		"eq": func(a, b *pongo2.Value) bool {
			return equal(a.Interface(), b.Interface())
		},
	}
}

// formatDate never fails: blanks render empty and unparseable values render
// as written.
func formatDate(v any, format func(time.Time) string) string {
	switch d := v.(type) {
	case nil:
		return ""
	case time.Time:
		if d.IsZero() {
			return ""
		}
		return format(d)
	}
	raw := strings.TrimSpace(payload.String(v))
	if raw == "" {
		return ""
	}
	t, err := ptbr.ParseDate(raw)
	if err != nil {
		return raw
	}
	return format(t)
}

func monthName(v any) string {
	n, err := strconv.Atoi(strings.TrimSpace(payload.String(v)))
	if err != nil {
		return ""
	}
	return ptbr.MonthName(n)
}

func equal(a, b any) bool {
	if af, ok := number(a); ok {
		bf, ok := number(b)
		return ok && af == bf
	}
	if _, ok := number(b); ok {
		return false
	}
	return reflect.DeepEqual(a, b)
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
