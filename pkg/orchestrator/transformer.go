package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/goliatone/go-legaldocs/pkg/payload"
)

// Transformer rewrites the canonical payload of a kind after field mapping and
// before validation. Whatever it returns is what gets rendered and stored in
// the snapshot.
type Transformer interface {
	Transform(ctx context.Context, title string, p payload.Payload) (payload.Payload, error)
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, title string, p payload.Payload) (payload.Payload, error)

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, title string, p payload.Payload) (payload.Payload, error) {
	if fn == nil {
		return p, nil
	}
	return fn(ctx, title, p)
}

// JSONPresetTransformer applies office-wide presets loaded from a JSON file.
// Defaults fill dotted paths that are absent. Kind sections apply only to the
// matching title and run before the global section, so their values win:
//
//	{
//	  "defaults": {"document.location": "Barueri"},
//	  "kinds": {
//	    "Procuração INSS": {
//	      "defaults": {"attorney.oab": "SP 123.456"},
//	      "rename": {"attorney.registry": "attorney.oab"}
//	    }
//	  }
//	}
type JSONPresetTransformer struct {
	document jsonPresetDocument
}

type jsonPresetDocument struct {
	Defaults map[string]any           `json:"defaults"`
	Rename   map[string]string        `json:"rename"`
	Kinds    map[string]jsonKindPatch `json:"kinds"`
}

type jsonKindPatch struct {
	Defaults map[string]any    `json:"defaults"`
	Rename   map[string]string `json:"rename"`
}

// NewJSONPresetTransformer constructs a transformer from raw JSON bytes.
func NewJSONPresetTransformer(data []byte) (*JSONPresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("json preset transformer: document is empty")
	}
	var document jsonPresetDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("json preset transformer: parse document: %w", err)
	}
	for path := range document.Defaults {
		if strings.TrimSpace(path) == "" {
			return nil, errors.New("json preset transformer: empty default path")
		}
	}
	return &JSONPresetTransformer{document: document}, nil
}

// NewJSONPresetTransformerFromFS loads a JSON transformer document from the
// provided filesystem path.
func NewJSONPresetTransformerFromFS(fsys fs.FS, path string) (*JSONPresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("json preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("json preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("json preset transformer: read %s: %w", path, err)
	}
	return NewJSONPresetTransformer(data)
}

// Transform returns a copy of p with the presets applied.
func (t *JSONPresetTransformer) Transform(ctx context.Context, title string, p payload.Payload) (payload.Payload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := p.Clone()

	for name, patch := range t.document.Kinds {
		if !strings.EqualFold(strings.TrimSpace(name), strings.TrimSpace(title)) {
			continue
		}
		applyRenames(out, patch.Rename)
		applyDefaults(out, patch.Defaults)
	}

	applyRenames(out, t.document.Rename)
	applyDefaults(out, t.document.Defaults)
	return out, nil
}

// Chain runs transformers in order, feeding each the previous output.
func Chain(transformers ...Transformer) Transformer {
	return TransformerFunc(func(ctx context.Context, title string, p payload.Payload) (payload.Payload, error) {
		current := p
		for _, t := range transformers {
			if t == nil {
				continue
			}
			next, err := t.Transform(ctx, title, current)
			if err != nil {
				return nil, err
			}
			current = next
		}
		return current, nil
	})
}

func applyRenames(p payload.Payload, renames map[string]string) {
	for _, from := range sortedKeys(renames) {
		to := strings.TrimSpace(renames[from])
		if to == "" {
			continue
		}
		value, ok := p.Get(from)
		if !ok {
			continue
		}
		p.Delete(from)
		p.Set(to, value)
	}
}

func applyDefaults(p payload.Payload, defaults map[string]any) {
	for _, path := range sortedKeys(defaults) {
		if current, ok := p.Get(path); ok && current != nil {
			continue
		}
		p.Set(path, defaults[path])
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
