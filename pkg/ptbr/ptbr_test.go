package ptbr

import (
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestNumberToWords(t *testing.T) {
	cases := map[any]string{
		0:        "zero",
		7:        "sete",
		15:       "quinze",
		21:       "vinte e um",
		40:       "quarenta",
		100:      "cem",
		101:      "cento e um",
		125:      "cento e vinte e cinco",
		250:      "duzentos e cinquenta",
		999:      "novecentos e noventa e nove",
		1000:     "1000",
		-3:       "-3",
		"12":     "doze",
		"abc":    "abc",
		12.0:     "doze",
		12.5:     "12.5",
		int64(3): "três",
	}
	for in, want := range cases {
		if got := NumberToWords(in); got != want {
			t.Errorf("NumberToWords(%#v) = %q, want %q", in, got, want)
		}
	}
}

func TestNumberToWords_Properties(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 200
	properties := gopter.NewProperties(params)

	properties.Property("in-range values are spelled out", prop.ForAll(
		func(n int) bool {
			got := NumberToWords(n)
			if got == "" {
				return false
			}
			_, err := strconv.Atoi(got)
			return err != nil
		},
		gen.IntRange(0, 999),
	))

	properties.Property("out-of-range values stay numeric", prop.ForAll(
		func(n int) bool {
			return NumberToWords(n) == strconv.Itoa(n)
		},
		gen.IntRange(1000, 1_000_000),
	))

	properties.Property("no dangling conjunction", prop.ForAll(
		func(n int) bool {
			got := NumberToWords(n)
			return !strings.HasPrefix(got, "e ") && !strings.HasSuffix(got, " e")
		},
		gen.IntRange(0, 999),
	))

	properties.TestingRun(t)
}

func TestSplitDate(t *testing.T) {
	cases := map[string]DateParts{
		"2024-03-05":                {Day: "05", Month: "03", Year: "2024"},
		"2024-12-31T23:30:00-03:00": {Day: "01", Month: "01", Year: "2025"},
		"2024-12-31T23:30:00":       {Day: "31", Month: "12", Year: "2024"},
		"2024-01-09T00:00:00.000Z":  {Day: "09", Month: "01", Year: "2024"},
		"09/01/2024":                {Day: "09", Month: "01", Year: "2024"},
	}
	for raw, want := range cases {
		got, err := SplitDate("documentDate", raw)
		if err != nil {
			t.Fatalf("SplitDate(%q): %v", raw, err)
		}
		if got != want {
			t.Errorf("SplitDate(%q) = %+v, want %+v", raw, got, want)
		}
	}
}

func TestSplitDate_Malformed(t *testing.T) {
	_, err := SplitDate("statementDate", "not a date")
	if !errors.Is(err, ErrMalformedDate) {
		t.Fatalf("expected ErrMalformedDate, got %v", err)
	}
	var dateErr *DateError
	if !errors.As(err, &dateErr) || dateErr.Field != "statementDate" {
		t.Fatalf("expected DateError for statementDate, got %#v", err)
	}
}

func TestFormatLongDate(t *testing.T) {
	at := time.Date(2024, time.March, 5, 1, 0, 0, 0, time.UTC)
	if got := FormatLongDate(at); got != "05 de março de 2024" {
		t.Fatalf("FormatLongDate = %q", got)
	}
	if got := FormatShortDate(at); got != "05/03/2024" {
		t.Fatalf("FormatShortDate = %q", got)
	}
	if MonthName(13) != "" || MonthName(12) != "dezembro" {
		t.Fatalf("unexpected month names")
	}
}
