// Package payload models the schema-less key/value trees that flow through the
// generation pipeline. Every helper returns fresh values; callers that need to
// change a payload clone it first.
package payload

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Payload is a tree of string keys to scalars, arrays and nested payloads.
type Payload map[string]any

// Clone returns a deep copy of p. Nested maps are always returned as Payload.
func (p Payload) Clone() Payload {
	if p == nil {
		return Payload{}
	}
	out := make(Payload, len(p))
	for key, value := range p {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	switch v := value.(type) {
	case Payload:
		return v.Clone()
	case map[string]any:
		return Payload(v).Clone()
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = item
		}
		return out
	case []map[string]any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = Payload(item).Clone()
		}
		return out
	default:
		return v
	}
}

// Merge deep-merges overlay onto a copy of base. Keys present in overlay win;
// nested objects are merged recursively.
func Merge(base, overlay Payload) Payload {
	out := base.Clone()
	for key, value := range overlay {
		incoming := cloneValue(value)
		existing, ok := AsPayload(out[key])
		next, nested := AsPayload(incoming)
		if ok && nested {
			out[key] = Merge(existing, next)
			continue
		}
		out[key] = incoming
	}
	return out
}

// AsPayload reports whether v is an object and returns it typed as Payload.
func AsPayload(v any) (Payload, bool) {
	switch m := v.(type) {
	case Payload:
		return m, m != nil
	case map[string]any:
		return Payload(m), m != nil
	default:
		return nil, false
	}
}

// Has reports whether key is present at the top level.
func (p Payload) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// Get resolves a dotted path such as "client.address".
func (p Payload) Get(path string) (any, bool) {
	segments := splitPath(path)
	if len(segments) == 0 {
		return nil, false
	}
	var current any = p
	for _, segment := range segments {
		node, ok := AsPayload(current)
		if !ok {
			return nil, false
		}
		current, ok = node[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// Set writes value at a dotted path, creating intermediate objects. Non-object
// intermediates are replaced.
func (p Payload) Set(path string, value any) {
	segments := splitPath(path)
	if len(segments) == 0 {
		return
	}
	node := p
	for _, segment := range segments[:len(segments)-1] {
		child, ok := AsPayload(node[segment])
		if !ok {
			child = Payload{}
		}
		node[segment] = child
		node = child
	}
	node[segments[len(segments)-1]] = value
}

// Delete removes the value at a dotted path when it exists.
func (p Payload) Delete(path string) {
	segments := splitPath(path)
	if len(segments) == 0 {
		return
	}
	node := p
	for _, segment := range segments[:len(segments)-1] {
		child, ok := AsPayload(node[segment])
		if !ok {
			return
		}
		node = child
	}
	delete(node, segments[len(segments)-1])
}

// Object returns the nested object at key, creating (and storing) an empty one
// when missing or not an object.
func (p Payload) Object(key string) Payload {
	if child, ok := AsPayload(p[key]); ok {
		p[key] = child
		return child
	}
	child := Payload{}
	p[key] = child
	return child
}

// Keys returns the sorted top-level keys.
func (p Payload) Keys() []string {
	keys := make([]string, 0, len(p))
	for key := range p {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// MarshalJSON keeps nil payloads encoded as an empty object.
func (p Payload) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]any(p))
}

// Decode parses a JSON object into a Payload.
func Decode(data []byte) (Payload, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Payload{}, nil
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("payload: decode: %w", err)
	}
	return Payload(out).Clone(), nil
}

// String renders a scalar as text. Objects and arrays yield "".
func String(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case json.Number:
		return s.String()
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case int32:
		return strconv.FormatInt(int64(s), 10)
	case bool:
		return strconv.FormatBool(s)
	case Payload, map[string]any, []any:
		return ""
	default:
		return fmt.Sprint(s)
	}
}

// Truthy follows loose truthiness: empty strings, zero, false and nil are
// false; everything else is true.
func Truthy(v any) bool {
	switch s := v.(type) {
	case nil:
		return false
	case bool:
		return s
	case string:
		return s != ""
	case float64:
		return s != 0
	case int:
		return s != 0
	case int64:
		return s != 0
	case json.Number:
		f, err := s.Float64()
		return err != nil || f != 0
	default:
		return true
	}
}

// AsSlice normalizes a scalar-or-array value into a slice. Nil yields nil and
// a scalar yields a single-element slice.
func AsSlice(v any) []any {
	switch s := v.(type) {
	case nil:
		return nil
	case []any:
		return s
	case []string:
		out := make([]any, len(s))
		for i, item := range s {
			out[i] = item
		}
		return out
	default:
		return []any{s}
	}
}

func splitPath(path string) []string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, ".")
}
