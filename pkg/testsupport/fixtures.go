package testsupport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-legaldocs/pkg/compositor"
	"github.com/goliatone/go-legaldocs/pkg/payload"
)

// MustLoadPayload reads a JSON fixture into a payload. Testing helpers fail
// the test on error to keep table setup concise.
func MustLoadPayload(t *testing.T, path string) payload.Payload {
	t.Helper()

	p, err := LoadPayload(path)
	if err != nil {
		t.Fatalf("load payload: %v", err)
	}
	return p
}

// LoadPayload reads a JSON fixture without requiring testing.T.
func LoadPayload(path string) (payload.Payload, error) {
	if path == "" {
		return nil, errors.New("testsupport: payload path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testsupport: read payload: %w", err)
	}
	p, err := payload.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("testsupport: %w", err)
	}
	return p, nil
}

// WriteGolden writes arbitrary data to a golden file when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}

// PDFPrefix starts every document produced by RecordingCompositor.
const PDFPrefix = "%PDF-1.4\n"

// Composition is one call observed by RecordingCompositor.
type Composition struct {
	Markup string
	Layout compositor.Layout
}

// RecordingCompositor stands in for the browser in tests. It returns the
// markup behind a PDF header and records every call. Fail makes every call
// return that error.
type RecordingCompositor struct {
	mu    sync.Mutex
	calls []Composition
	Fail  error
}

var _ compositor.Compositor = (*RecordingCompositor)(nil)

// Compose implements compositor.Compositor.
func (c *RecordingCompositor) Compose(ctx context.Context, markup string, layout compositor.Layout) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, Composition{Markup: markup, Layout: layout})
	if c.Fail != nil {
		return nil, c.Fail
	}
	return []byte(PDFPrefix + markup), nil
}

// Calls returns a copy of the recorded compositions.
func (c *RecordingCompositor) Calls() []Composition {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Composition(nil), c.calls...)
}
