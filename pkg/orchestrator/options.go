package orchestrator

import (
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/goliatone/go-legaldocs/pkg/artifacts"
	"github.com/goliatone/go-legaldocs/pkg/assets"
	"github.com/goliatone/go-legaldocs/pkg/compositor"
	"github.com/goliatone/go-legaldocs/pkg/kinds"
	"github.com/goliatone/go-legaldocs/pkg/schema"
	"github.com/goliatone/go-legaldocs/pkg/store"
)

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithStore uses one store for clients, templates and generated records.
func WithStore(s store.Store) Option {
	return func(o *Orchestrator) {
		if s == nil {
			return
		}
		o.clients = s
		o.templates = s
		o.records = s
	}
}

// WithClients injects the client lookup.
func WithClients(src store.ClientSource) Option {
	return func(o *Orchestrator) {
		o.clients = src
	}
}

// WithTemplates injects the template lookup.
func WithTemplates(src store.TemplateSource) Option {
	return func(o *Orchestrator) {
		o.templates = src
	}
}

// WithRecords injects the generated-document record store.
func WithRecords(rs store.RecordStore) Option {
	return func(o *Orchestrator) {
		o.records = rs
	}
}

// WithBlobStore injects where composed PDFs are written.
func WithBlobStore(bs artifacts.BlobStore) Option {
	return func(o *Orchestrator) {
		o.blobs = bs
	}
}

// WithCompositor injects the PDF compositor. The default drives a local
// headless Chrome.
func WithCompositor(c compositor.Compositor) Option {
	return func(o *Orchestrator) {
		o.compositor = c
	}
}

// WithRenderer injects the markup renderer.
func WithRenderer(r Renderer) Option {
	return func(o *Orchestrator) {
		o.renderer = r
	}
}

// WithKinds injects the document kind registry.
func WithKinds(r *kinds.Registry) Option {
	return func(o *Orchestrator) {
		o.kinds = r
	}
}

// WithAssets selects the image source used for render-time decoration and
// page bands.
func WithAssets(src *assets.Source) Option {
	return func(o *Orchestrator) {
		o.assets = src
	}
}

// WithSchemaValidator injects the field schema validator.
func WithSchemaValidator(v *schema.Validator) Option {
	return func(o *Orchestrator) {
		o.validator = v
	}
}

// WithStrictSchema makes field schema violations fail generation. When off,
// violations are logged and generation continues.
func WithStrictSchema(strict bool) Option {
	return func(o *Orchestrator) {
		o.strictSchema = strict
	}
}

// WithTransformer registers a payload Transformer. Repeated calls chain the
// transformers in registration order.
func WithTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		if t == nil {
			return
		}
		if o.transformer == nil {
			o.transformer = t
			return
		}
		o.transformer = Chain(o.transformer, t)
	}
}

// WithConcurrency bounds how many batch items run at once. Values below one
// are ignored.
func WithConcurrency(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithUploadDir overrides the blob path prefix. The default is "uploads".
func WithUploadDir(dir string) Option {
	return func(o *Orchestrator) {
		dir = strings.Trim(strings.TrimSpace(dir), "/")
		if dir != "" {
			o.uploadDir = dir
		}
	}
}

// WithLogger overrides the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithTracer overrides the tracer. The default comes from the global
// OpenTelemetry provider.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *Orchestrator) {
		o.tracer = tracer
	}
}

// WithMeter overrides the meter used for generation counters and latency.
func WithMeter(meter metric.Meter) Option {
	return func(o *Orchestrator) {
		o.meter = meter
	}
}

// WithClock overrides the time source used in file names.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		o.now = now
	}
}

// WithSuffixGenerator overrides the random part of file names.
func WithSuffixGenerator(fn func() string) Option {
	return func(o *Orchestrator) {
		o.suffix = fn
	}
}
