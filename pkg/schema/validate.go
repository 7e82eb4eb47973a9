// Package schema checks canonical payloads against a template's optional
// field schema. Schemas use the OpenAPI 3 schema dialect (a JSON Schema
// subset) and are compiled with kin-openapi.
package schema

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-legaldocs/pkg/payload"
)

// Issue is one validation failure with its location in the payload.
type Issue struct {
	Path    string `json:"path,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// Result captures validation outcomes.
type Result struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues,omitempty"`
}

// Summary joins the issues into one line for logs and errors.
func (r Result) Summary() string {
	parts := make([]string, 0, len(r.Issues))
	for _, issue := range r.Issues {
		if issue.Field == "" {
			parts = append(parts, issue.Message)
			continue
		}
		parts = append(parts, issue.Field+": "+issue.Message)
	}
	return strings.Join(parts, "; ")
}

// Schema is a compiled field schema.
type Schema struct {
	root *openapi3.Schema
}

// Compile parses and checks a schema document.
func Compile(raw []byte) (*Schema, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, errors.New("schema: document is empty")
	}
	var root openapi3.Schema
	if err := json.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("schema: parse: %w", err)
	}
	if err := root.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("schema: invalid: %w", err)
	}
	return &Schema{root: &root}, nil
}

// Validate checks p and reports every issue found.
func (s *Schema) Validate(p payload.Payload) Result {
	result := Result{Valid: true}
	value, err := plainJSON(p)
	if err != nil {
		result.Valid = false
		result.Issues = []Issue{{Message: err.Error()}}
		return result
	}

	err = s.root.VisitJSON(value, openapi3.MultiErrors())
	if err == nil {
		return result
	}
	result.Valid = false
	result.Issues = issuesFromError(err)
	sort.SliceStable(result.Issues, func(i, j int) bool {
		return result.Issues[i].Field < result.Issues[j].Field
	})
	return result
}

// Validator compiles schemas on first use and keeps them by content.
type Validator struct {
	mu    sync.Mutex
	cache map[[sha256.Size]byte]*Schema
}

func NewValidator() *Validator {
	return &Validator{cache: make(map[[sha256.Size]byte]*Schema)}
}

// Validate checks p against raw. An empty schema accepts everything.
func (v *Validator) Validate(raw []byte, p payload.Payload) (Result, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return Result{Valid: true}, nil
	}
	key := sha256.Sum256(raw)

	v.mu.Lock()
	compiled, ok := v.cache[key]
	v.mu.Unlock()
	if !ok {
		var err error
		compiled, err = Compile(raw)
		if err != nil {
			return Result{}, err
		}
		v.mu.Lock()
		v.cache[key] = compiled
		v.mu.Unlock()
	}
	return compiled.Validate(p), nil
}

// plainJSON turns the payload into the generic shapes the visitor expects.
func plainJSON(p payload.Payload) (any, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("schema: encode payload: %w", err)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("schema: decode payload: %w", err)
	}
	return out, nil
}

func issuesFromError(err error) []Issue {
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		out := make([]Issue, 0, len(multi))
		for _, item := range multi {
			out = append(out, issuesFromError(item)...)
		}
		return out
	}
	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		pointer := schemaErr.JSONPointer()
		return []Issue{{
			Path:    pointerPath(pointer),
			Field:   fieldPath(pointer),
			Message: strings.TrimSpace(schemaErr.Reason),
		}}
	}
	return []Issue{{Message: strings.TrimSpace(err.Error())}}
}

func pointerPath(parts []string) string {
	if len(parts) == 0 {
		return ""
	}
	escaped := make([]string, len(parts))
	for i, part := range parts {
		part = strings.ReplaceAll(part, "~", "~0")
		escaped[i] = strings.ReplaceAll(part, "/", "~1")
	}
	return "#/" + strings.Join(escaped, "/")
}

// fieldPath renders a value pointer as the dotted form used by payload.Get.
func fieldPath(parts []string) string {
	return strings.Join(parts, ".")
}
