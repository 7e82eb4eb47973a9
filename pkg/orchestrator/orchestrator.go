package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/goliatone/go-legaldocs/pkg/artifacts"
	"github.com/goliatone/go-legaldocs/pkg/assets"
	"github.com/goliatone/go-legaldocs/pkg/compositor"
	"github.com/goliatone/go-legaldocs/pkg/kinds"
	"github.com/goliatone/go-legaldocs/pkg/normalize"
	"github.com/goliatone/go-legaldocs/pkg/payload"
	"github.com/goliatone/go-legaldocs/pkg/render"
	"github.com/goliatone/go-legaldocs/pkg/schema"
	"github.com/goliatone/go-legaldocs/pkg/store"
)

const (
	// SuccessMessage is returned with every single generation.
	SuccessMessage = "Documento gerado com sucesso!"

	defaultUploadDir   = "uploads"
	defaultConcurrency = 4
	tracerName         = "github.com/goliatone/go-legaldocs/pkg/orchestrator"
)

// Renderer fills template markup with a canonical payload.
type Renderer interface {
	Render(markup string, data payload.Payload) (string, error)
}

// Orchestrator runs the generation pipeline: resolve the client and template,
// normalize and adapt the payload, render, compose the PDF, then persist the
// blob and its record. Missing collaborators are filled with the built-in
// implementations so callers can start with a single constructor call.
type Orchestrator struct {
	clients    store.ClientSource
	templates  store.TemplateSource
	records    store.RecordStore
	blobs      artifacts.BlobStore
	compositor compositor.Compositor
	renderer   Renderer
	kinds      *kinds.Registry
	assets     *assets.Source
	validator  *schema.Validator

	transformer  Transformer
	strictSchema bool
	concurrency  int
	uploadDir    string

	logger *slog.Logger
	tracer trace.Tracer
	meter  metric.Meter
	stats  instruments
	now    func() time.Time
	suffix func() string

	initialiseErr error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		concurrency: defaultConcurrency,
		uploadDir:   defaultUploadDir,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

func (o *Orchestrator) applyDefaults() {
	if o.logger == nil {
		o.logger = slog.Default().With("component", "orchestrator")
	}
	if o.tracer == nil {
		o.tracer = otel.Tracer(tracerName)
	}
	if o.meter == nil {
		o.meter = otel.Meter(tracerName)
	}
	stats, err := newInstruments(o.meter)
	if err != nil {
		o.initialiseErr = fmt.Errorf("orchestrator: init metrics: %w", err)
		return
	}
	o.stats = stats
	if o.now == nil {
		o.now = time.Now
	}
	if o.suffix == nil {
		o.suffix = randomSuffix
	}
	if o.clients == nil && o.templates == nil && o.records == nil {
		mem := store.NewMemory()
		o.clients, o.templates, o.records = mem, mem, mem
	}
	if o.blobs == nil {
		o.blobs = artifacts.NewMemoryStore()
	}
	if o.compositor == nil {
		o.compositor = compositor.NewChrome(compositor.WithLogger(o.logger))
	}
	if o.kinds == nil {
		o.kinds = kinds.Default()
	}
	if o.assets == nil {
		o.assets = assets.Default()
	}
	if o.validator == nil {
		o.validator = schema.NewValidator()
	}
	if o.renderer == nil {
		r, err := render.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: init renderer: %w", err)
			return
		}
		o.renderer = r
	}
	switch {
	case o.clients == nil:
		o.initialiseErr = errors.New("orchestrator: client source is required")
	case o.templates == nil:
		o.initialiseErr = errors.New("orchestrator: template source is required")
	case o.records == nil:
		o.initialiseErr = errors.New("orchestrator: record store is required")
	}
}

// Kinds exposes the kind registry in use.
func (o *Orchestrator) Kinds() *kinds.Registry {
	return o.kinds
}

// Request asks for one document.
type Request struct {
	ClientID     string          `json:"clientId"`
	TemplateID   string          `json:"templateId"`
	ExtraData    payload.Payload `json:"extraData"`
	ActingUserID string          `json:"-"`
}

// Result describes a generated document.
type Result struct {
	Message    string `json:"message"`
	Path       string `json:"path"`
	DocumentID string `json:"documentId"`
}

// Generate produces one document for req and persists it.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (Result, error) {
	if err := o.ready(ctx); err != nil {
		return Result{}, err
	}

	ctx, span := o.tracer.Start(ctx, "orchestrator.Generate", trace.WithAttributes(
		attribute.String("client.id", req.ClientID),
		attribute.String("template.id", req.TemplateID),
	))
	defer span.End()

	client, err := o.resolveClient(ctx, req.ClientID)
	if err != nil {
		return Result{}, spanError(span, err)
	}
	tpl, err := o.resolveTemplate(ctx, req.TemplateID)
	if err != nil {
		return Result{}, spanError(span, err)
	}

	res, err := o.generate(ctx, client, tpl, req.ExtraData, req.ActingUserID)
	if err != nil {
		return Result{}, spanError(span, err)
	}
	span.SetAttributes(attribute.String("document.id", res.DocumentID))
	return res, nil
}

// Replay is the outcome of re-rendering a stored snapshot.
type Replay struct {
	Document store.GeneratedDocument
	Template store.Template
	Markup   string
	PDF      []byte
}

// Replay re-renders the snapshot of a generated document through the current
// markup of its template. Template markup is not versioned, so the result
// matches the original only while the template is unchanged.
func (o *Orchestrator) Replay(ctx context.Context, documentID string) (Replay, error) {
	if err := o.ready(ctx); err != nil {
		return Replay{}, err
	}
	ctx, span := o.tracer.Start(ctx, "orchestrator.Replay", trace.WithAttributes(
		attribute.String("document.id", documentID),
	))
	defer span.End()

	out, err := o.replay(ctx, documentID)
	if err != nil {
		return Replay{}, spanError(span, err)
	}
	return out, nil
}

// Recompose replays a document and prints it again.
func (o *Orchestrator) Recompose(ctx context.Context, documentID string) (Replay, error) {
	if err := o.ready(ctx); err != nil {
		return Replay{}, err
	}
	ctx, span := o.tracer.Start(ctx, "orchestrator.Recompose", trace.WithAttributes(
		attribute.String("document.id", documentID),
	))
	defer span.End()

	out, err := o.replay(ctx, documentID)
	if err != nil {
		return Replay{}, spanError(span, err)
	}
	pdf, err := o.compose(ctx, out.Template.Title, out.Markup)
	if err != nil {
		return Replay{}, spanError(span, err)
	}
	out.PDF = pdf
	return out, nil
}

func (o *Orchestrator) replay(ctx context.Context, documentID string) (Replay, error) {
	if documentID == "" {
		return Replay{}, fail(StageResolving, ClassInvalidInput, errors.New("document id is required"))
	}
	doc, err := o.records.GetRecord(ctx, documentID)
	if err != nil {
		return Replay{}, resolveErr("document", documentID, err)
	}
	tpl, err := o.templates.FindTemplateByTitle(ctx, doc.Title)
	if err != nil {
		return Replay{}, resolveErr("template", doc.Title, err)
	}
	markup, err := o.render(tpl, doc.DataSnapshot)
	if err != nil {
		return Replay{}, err
	}
	return Replay{Document: doc, Template: tpl, Markup: markup}, nil
}

func (o *Orchestrator) ready(ctx context.Context) error {
	if ctx == nil {
		return errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return o.initialiseErr
}

func (o *Orchestrator) resolveClient(ctx context.Context, id string) (store.Client, error) {
	if id == "" {
		return store.Client{}, fail(StageResolving, ClassInvalidInput, errors.New("client id is required"))
	}
	client, err := o.clients.GetClient(ctx, id)
	if err != nil {
		return store.Client{}, resolveErr("client", id, err)
	}
	return client, nil
}

func (o *Orchestrator) resolveTemplate(ctx context.Context, id string) (store.Template, error) {
	if id == "" {
		return store.Template{}, fail(StageResolving, ClassInvalidInput, errors.New("template id is required"))
	}
	tpl, err := o.templates.GetTemplate(ctx, id)
	if err != nil {
		return store.Template{}, resolveErr("template", id, err)
	}
	return tpl, nil
}

func resolveErr(kind, id string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fail(StageResolving, ClassNotFound, fmt.Errorf("%w: %s %q: %w", ErrNotFound, kind, id, err))
	}
	return fail(StageResolving, ClassStorage, fmt.Errorf("load %s %q: %w", kind, id, err))
}

// generate runs everything after resolution. It is shared by single and
// batch generation.
func (o *Orchestrator) generate(ctx context.Context, client store.Client, tpl store.Template, extra payload.Payload, actingUserID string) (res Result, err error) {
	started := time.Now()
	defer func() { o.stats.record(ctx, tpl.Title, started, err) }()

	logger := o.logger.With("template", tpl.Title, "client_id", client.ID)

	if !o.kinds.Has(tpl.Title) {
		return Result{}, fail(StageResolving, ClassUnregistered, fmt.Errorf("%w: %q", ErrUnregisteredAdapter, tpl.Title))
	}

	canonical, err := o.canonical(ctx, client, tpl, extra)
	if err != nil {
		return Result{}, err
	}
	if err := o.validate(tpl, canonical, logger); err != nil {
		return Result{}, err
	}

	markup, err := o.render(tpl, canonical)
	if err != nil {
		return Result{}, err
	}
	pdf, err := o.compose(ctx, tpl.Title, markup)
	if err != nil {
		return Result{}, err
	}

	path := FilePath(o.uploadDir, tpl.Title, client.Name, o.now(), o.suffix())
	if err := o.blobs.Write(ctx, path, pdf); err != nil {
		return Result{}, fail(StagePersisting, ClassStorage, err)
	}

	doc, err := o.records.CreateRecord(ctx, store.NewRecord{
		Title:           tpl.Title,
		FilePath:        path,
		DataSnapshot:    canonical,
		ClientID:        client.ID,
		GeneratorUserID: actingUserID,
	})
	if err != nil {
		if delErr := o.blobs.Delete(context.WithoutCancel(ctx), path); delErr != nil {
			logger.Warn("orphaned blob left behind", "path", path, "error", delErr)
		}
		return Result{}, fail(StagePersisting, ClassStorage, fmt.Errorf("create record: %w", err))
	}

	logger.Info("document generated", "document_id", doc.ID, "path", path, "bytes", len(pdf))
	return Result{Message: SuccessMessage, Path: path, DocumentID: doc.ID}, nil
}

// canonical merges the client under "client" with the raw payload (raw keys
// win), then normalizes, adapts and transforms it.
func (o *Orchestrator) canonical(ctx context.Context, client store.Client, tpl store.Template, extra payload.Payload) (payload.Payload, error) {
	raw := payload.Merge(payload.Payload{"client": client.Payload()}, extra)

	normalized, err := normalize.Normalize(raw)
	if err != nil {
		return nil, fail(StageNormalizing, ClassInvalidInput, err)
	}
	canonical, err := o.kinds.Adapt(normalized, tpl.Title)
	if err != nil {
		return nil, fail(StageAdapting, ClassInvalidInput, err)
	}
	if o.transformer != nil {
		canonical, err = o.transformer.Transform(ctx, tpl.Title, canonical)
		if err != nil {
			return nil, fail(StageAdapting, ClassInvalidInput, fmt.Errorf("transform: %w", err))
		}
	}
	return canonical, nil
}

func (o *Orchestrator) validate(tpl store.Template, canonical payload.Payload, logger *slog.Logger) error {
	if len(tpl.FieldSchema) == 0 {
		return nil
	}
	result, err := o.validator.Validate(tpl.FieldSchema, canonical)
	if err != nil {
		return fail(StageValidating, ClassInvalidInput, err)
	}
	if result.Valid {
		return nil
	}
	if o.strictSchema {
		return fail(StageValidating, ClassInvalidInput, fmt.Errorf("%w: %s", ErrInvalidPayload, result.Summary()))
	}
	logger.Warn("payload does not match field schema", "issues", result.Summary())
	return nil
}

// render decorates a copy of the snapshot with the kind's images and fills
// the template markup.
func (o *Orchestrator) render(tpl store.Template, snapshot payload.Payload) (string, error) {
	decorated, err := o.kinds.Decorate(snapshot, tpl.Title, o.assets)
	if err != nil {
		return "", fail(StageRendering, ClassRendering, err)
	}
	markup, err := o.renderer.Render(tpl.Markup, decorated)
	if err != nil {
		return "", fail(StageRendering, ClassRendering, err)
	}
	return markup, nil
}

func (o *Orchestrator) compose(ctx context.Context, title, markup string) ([]byte, error) {
	layout, err := o.kinds.LayoutFor(title, o.assets)
	if err != nil {
		return nil, fail(StageComposing, ClassRendering, err)
	}
	pdf, err := o.compositor.Compose(ctx, markup, layout)
	if err != nil {
		return nil, fail(StageComposing, ClassRendering, err)
	}
	return pdf, nil
}

func spanError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if stage := StageOf(err); stage != "" {
		span.SetAttributes(attribute.String("orchestrator.stage", string(stage)))
	}
	return err
}

func randomSuffix() string {
	return uuid.NewString()[:8]
}
