package orchestrator

import (
	"fmt"
	"path"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FilePath builds the blob path of a generated document:
//
//	<dir>/<slug(title)>-<Client_Name>-<unixMillis>-<suffix>.pdf
//
// Accents are folded and anything outside letters, digits, "-" and "_" is
// dropped, so the path is safe on any backend.
func FilePath(dir, title, clientName string, at time.Time, suffix string) string {
	name := fmt.Sprintf("%s-%s-%d", Slug(title), clientToken(clientName), at.UnixMilli())
	if suffix = sanitize(suffix, '-'); suffix != "" {
		name += "-" + suffix
	}
	return path.Join(dir, name+".pdf")
}

// Slug lowercases s, folds accents and joins words with "-".
func Slug(s string) string {
	out := sanitize(strings.ToLower(s), '-')
	if out == "" {
		return "documento"
	}
	return out
}

func clientToken(name string) string {
	out := sanitize(name, '_')
	if out == "" {
		return "cliente"
	}
	return out
}

// sanitize folds accents and collapses every run of other characters into a
// single sep.
func sanitize(s string, sep rune) string {
	folded := foldAccents(s)

	var b strings.Builder
	pending := false
	for _, r := range folded {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			if pending && b.Len() > 0 {
				b.WriteRune(sep)
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	return b.String()
}

func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
