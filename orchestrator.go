package legaldocs

import (
	"context"

	"github.com/goliatone/go-legaldocs/pkg/orchestrator"
)

// Request asks for one document; alias exported via the root package for
// convenience.
type Request = orchestrator.Request

// Result is the outcome of a successful generation.
type Result = orchestrator.Result

// BatchRequest asks for several documents for one client.
type BatchRequest = orchestrator.BatchRequest

// BatchItem is one document of a batch.
type BatchItem = orchestrator.BatchItem

// BatchResult lists the generated documents of a batch and the skipped items.
type BatchResult = orchestrator.BatchResult

// Transformer rewrites the adapted payload before validation and rendering.
type Transformer = orchestrator.Transformer

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// Generate builds an orchestrator from options and generates one document.
// Callers generating more than once should keep an orchestrator instead.
func Generate(ctx context.Context, req Request, options ...orchestrator.Option) (Result, error) {
	return orchestrator.New(options...).Generate(ctx, req)
}

// GenerateBatch builds an orchestrator from options and generates a batch.
func GenerateBatch(ctx context.Context, req BatchRequest, options ...orchestrator.Option) (BatchResult, error) {
	return orchestrator.New(options...).GenerateBatch(ctx, req)
}

// WithPresets registers office presets read from JSON. See
// orchestrator.NewJSONPresetTransformer for the document shape.
func WithPresets(data []byte) (orchestrator.Option, error) {
	t, err := orchestrator.NewJSONPresetTransformer(data)
	if err != nil {
		return nil, err
	}
	return orchestrator.WithTransformer(t), nil
}
