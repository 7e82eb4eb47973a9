package ptbr

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrMalformedDate reports a date value that could not be parsed.
var ErrMalformedDate = errors.New("malformed date")

// DateError carries the offending field and raw value.
type DateError struct {
	Field string
	Value string
}

func (e *DateError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %q", ErrMalformedDate, e.Value)
	}
	return fmt.Sprintf("%s: %s=%q", ErrMalformedDate, e.Field, e.Value)
}

func (e *DateError) Unwrap() error { return ErrMalformedDate }

var monthNames = [12]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000",
	"2006-01-02 15:04:05",
	"02/01/2006",
}

var zoned = map[string]bool{
	time.RFC3339Nano: true,
	time.RFC3339:     true,
}

// MonthName returns the lower-case month name for 1-12, or "" out of range.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthNames[month-1]
}

// ParseDate returns the calendar date of raw at UTC midnight. Timestamps that
// carry a zone are converted to UTC first; date-only and zone-less values keep
// the day as written.
func ParseDate(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, &DateError{Value: raw}
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, value)
		if err != nil {
			continue
		}
		if zoned[layout] {
			t = t.UTC()
		}
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, &DateError{Value: raw}
}

// DateParts is a calendar date split into display strings.
type DateParts struct {
	Day   string
	Month string
	Year  string
}

// SplitDate parses raw and returns zero-padded day and month plus the year.
// field names the source key in the returned error.
func SplitDate(field, raw string) (DateParts, error) {
	t, err := ParseDate(raw)
	if err != nil {
		return DateParts{}, &DateError{Field: field, Value: raw}
	}
	return DateParts{
		Day:   fmt.Sprintf("%02d", t.Day()),
		Month: fmt.Sprintf("%02d", int(t.Month())),
		Year:  fmt.Sprintf("%d", t.Year()),
	}, nil
}

// FormatLongDate renders "05 de março de 2024" for the UTC day of t.
func FormatLongDate(t time.Time) string {
	u := t.UTC()
	return fmt.Sprintf("%02d de %s de %d", u.Day(), MonthName(int(u.Month())), u.Year())
}

// FormatShortDate renders "05/03/2024".
func FormatShortDate(t time.Time) string {
	return t.UTC().Format("02/01/2006")
}
