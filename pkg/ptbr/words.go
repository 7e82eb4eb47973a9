// Package ptbr holds the Brazilian Portuguese text helpers used by adapters and
// templates: cardinal numbers in words, month names and calendar dates.
package ptbr

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

var (
	units    = []string{"", "um", "dois", "três", "quatro", "cinco", "seis", "sete", "oito", "nove"}
	teens    = []string{"dez", "onze", "doze", "treze", "catorze", "quinze", "dezesseis", "dezessete", "dezoito", "dezenove"}
	tens     = []string{"", "", "vinte", "trinta", "quarenta", "cinquenta", "sessenta", "setenta", "oitenta", "noventa"}
	hundreds = []string{"", "cento", "duzentos", "trezentos", "quatrocentos", "quinhentos", "seiscentos", "setecentos", "oitocentos", "novecentos"}
)

// NumberToWords spells out integers in [0, 999]. Anything else (including
// non-numeric input) comes back as its plain string form.
func NumberToWords(v any) string {
	n, text, ok := integer(v)
	if !ok || n < 0 || n > 999 {
		return text
	}
	return spell(n)
}

func spell(n int) string {
	if n == 0 {
		return "zero"
	}
	if n == 100 {
		return "cem"
	}

	parts := make([]string, 0, 3)
	if h := n / 100; h > 0 {
		parts = append(parts, hundreds[h])
	}
	rest := n % 100
	switch {
	case rest >= 20:
		parts = append(parts, tens[rest/10])
		if u := rest % 10; u > 0 {
			parts = append(parts, units[u])
		}
	case rest >= 10:
		parts = append(parts, teens[rest-10])
	case rest > 0:
		parts = append(parts, units[rest])
	}
	return strings.Join(parts, " e ")
}

func integer(v any) (int, string, bool) {
	switch n := v.(type) {
	case int:
		return n, strconv.Itoa(n), true
	case int64:
		return int(n), strconv.FormatInt(n, 10), true
	case float64:
		text := strconv.FormatFloat(n, 'f', -1, 64)
		if n != math.Trunc(n) {
			return 0, text, false
		}
		return int(n), text, true
	case json.Number:
		return integer(n.String())
	case string:
		trimmed := strings.TrimSpace(n)
		i, err := strconv.Atoi(trimmed)
		if err != nil {
			return 0, n, false
		}
		return i, trimmed, true
	case nil:
		return 0, "", false
	default:
		return 0, "", false
	}
}
