// Package compositor turns rendered markup into a paginated A4 PDF.
package compositor

import (
	"context"
	"errors"
	"fmt"
)

// ErrEngine marks failures of the rendering engine (launch, load or print).
var ErrEngine = errors.New("rendering engine failure")

// EngineError records which engine step failed.
type EngineError struct {
	Step string
	Err  error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("compositor: %s: %s: %v", ErrEngine, e.Step, e.Err)
}

func (e *EngineError) Unwrap() []error { return []error{ErrEngine, e.Err} }

func engineErr(step string, err error) error {
	return &EngineError{Step: step, Err: err}
}

// Compositor produces the binary artifact for rendered markup. No bytes are
// returned on failure.
type Compositor interface {
	Compose(ctx context.Context, markup string, layout Layout) ([]byte, error)
}

// Func adapts a function to the Compositor interface.
type Func func(ctx context.Context, markup string, layout Layout) ([]byte, error)

// Compose calls f.
func (f Func) Compose(ctx context.Context, markup string, layout Layout) ([]byte, error) {
	return f(ctx, markup, layout)
}
