package adapters

import (
	"strings"

	"github.com/goliatone/go-legaldocs/pkg/normalize"
	"github.com/goliatone/go-legaldocs/pkg/payload"
	"github.com/goliatone/go-legaldocs/pkg/ptbr"
)

// Mapper reshapes a normalized payload into the canonical payload of one
// document kind. Mappers never modify their input. The only error they return
// wraps ptbr.ErrMalformedDate.
type Mapper func(payload.Payload) (payload.Payload, error)

func apply(in payload.Payload, fn func(payload.Payload) error) (payload.Payload, error) {
	data := in.Clone()
	if err := fn(data); err != nil {
		return nil, err
	}
	return data, nil
}

// fieldMove relocates a top-level key to a dotted target path.
type fieldMove struct {
	from string
	to   string
}

// relocate applies moves in order, so later sources sharing a target win.
func relocate(data payload.Payload, moves []fieldMove) {
	for _, m := range moves {
		value, ok := take(data, m.from)
		if !ok {
			continue
		}
		data.Set(m.to, value)
	}
}

func take(data payload.Payload, key string) (any, bool) {
	value, ok := data[key]
	if ok {
		delete(data, key)
	}
	return value, ok
}

// setIfPresent stores value under key unless it is nil. Absent sources leave
// the key unset rather than null.
func setIfPresent(dst payload.Payload, key string, value any) {
	if value != nil {
		dst[key] = value
	}
}

// moveIfPresent consumes from and stores its value under key in dst.
func moveIfPresent(dst payload.Payload, key string, data payload.Payload, from string) {
	value, _ := take(data, from)
	setIfPresent(dst, key, value)
}

// compact removes nil entries in place.
func compact(p payload.Payload) payload.Payload {
	for key, value := range p {
		if value == nil {
			delete(p, key)
		}
	}
	return p
}

func drop(data payload.Payload, keys ...string) {
	for _, key := range keys {
		delete(data, key)
	}
}

func has(data payload.Payload, keys ...string) bool {
	for _, key := range keys {
		if _, ok := data[key]; ok {
			return true
		}
	}
	return false
}

func text(data payload.Payload, key string) string {
	return payload.String(data[key])
}

// isTrue is strict: only the boolean true counts.
func isTrue(v any) bool {
	b, ok := v.(bool)
	return ok && b
}

// joinFields joins the non-empty values stored under keys with ", ".
func joinFields(data payload.Payload, keys ...string) string {
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, text(data, key))
	}
	return normalize.JoinParts(parts...)
}

// setDateParts splits the date stored under key into group fields named
// prefix+"Day", prefix+"Month" and prefix+"Year" (or day/month/year when
// prefix is empty).
func setDateParts(group payload.Payload, key string, raw any, prefix string) error {
	parts, err := ptbr.SplitDate(key, payload.String(raw))
	if err != nil {
		return err
	}
	group[dateKey(prefix, "day")] = parts.Day
	group[dateKey(prefix, "month")] = parts.Month
	group[dateKey(prefix, "year")] = parts.Year
	return nil
}

func dateKey(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + strings.ToUpper(name[:1]) + name[1:]
}

// documentDateAndLocation moves top-level dateKey and locationKey into the
// document group. Existing document values are kept.
func documentDateAndLocation(data payload.Payload, dateKey, locationKey string) error {
	if raw, ok := take(data, dateKey); ok {
		doc := data.Object("document")
		if !payload.Truthy(doc["day"]) {
			if err := setDateParts(doc, dateKey, raw, ""); err != nil {
				return err
			}
		}
	}
	if loc, ok := take(data, locationKey); ok {
		doc := data.Object("document")
		if !payload.Truthy(doc["location"]) {
			doc["location"] = loc
		}
	}
	return nil
}

// flag derives one boolean inside a group from a source value.
type flag struct {
	key    string
	derive func(any) bool
}

// deriveFlags consumes source and sets each flag in group. Without a source
// value, flags already present are kept and missing ones default to false.
func deriveFlags(data, group payload.Payload, source string, flags ...flag) {
	value, ok := take(data, source)
	for _, f := range flags {
		if ok {
			group[f.key] = f.derive(value)
			continue
		}
		if _, exists := group[f.key]; !exists {
			group[f.key] = false
		}
	}
}

func equals(want ...string) func(any) bool {
	return func(v any) bool {
		got := payload.String(v)
		for _, w := range want {
			if got == w {
				return true
			}
		}
		return false
	}
}

// contains tests membership, treating a scalar as a single-element list.
func contains(want string) func(any) bool {
	return func(v any) bool {
		for _, item := range payload.AsSlice(v) {
			if payload.String(item) == want {
				return true
			}
		}
		return false
	}
}

// matrix expands rows of positional values into objects named by columns.
// Non-row entries yield objects with every column unset.
func matrix(v any, columns ...string) []any {
	rows := payload.AsSlice(v)
	out := make([]any, 0, len(rows))
	for _, raw := range rows {
		cells := payload.AsSlice(raw)
		if _, isObject := payload.AsPayload(raw); isObject {
			cells = nil
		}
		row := payload.Payload{}
		for i, column := range columns {
			row[column] = cell(cells, i)
		}
		out = append(out, row)
	}
	return out
}

func cell(cells []any, i int) any {
	if i < len(cells) {
		return cells[i]
	}
	return nil
}

func isList(v any) bool {
	switch v.(type) {
	case []any, []string:
		return true
	default:
		return false
	}
}

// firstOf returns the first truthy value under keys.
func firstOf(data payload.Payload, keys ...string) any {
	for _, key := range keys {
		if v := data[key]; payload.Truthy(v) {
			return v
		}
	}
	return nil
}
