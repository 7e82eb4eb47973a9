package orchestrator_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-legaldocs/pkg/artifacts"
	"github.com/goliatone/go-legaldocs/pkg/assets"
	"github.com/goliatone/go-legaldocs/pkg/compositor"
	"github.com/goliatone/go-legaldocs/pkg/kinds"
	"github.com/goliatone/go-legaldocs/pkg/orchestrator"
	"github.com/goliatone/go-legaldocs/pkg/payload"
	"github.com/goliatone/go-legaldocs/pkg/ptbr"
	"github.com/goliatone/go-legaldocs/pkg/store"
	"github.com/goliatone/go-legaldocs/pkg/testsupport"
)

const (
	testTitle  = "Termo de Teste"
	testMarkup = `<p>{{ client.name }} ({{ client.cpf }}) {{ document.day }}/{{ document.month }}/{{ document.year }} {{ document.kind }}</p><img src="{{ document.logoUrl }}">`
)

var fixedNow = time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)

type fixture struct {
	orch       *orchestrator.Orchestrator
	mem        *store.Memory
	blobs      *artifacts.MemoryStore
	compositor *testsupport.RecordingCompositor
	client     store.Client
	template   store.Template
}

func testKinds() *kinds.Registry {
	r := kinds.NewRegistry()
	r.MustRegister(kinds.Kind{
		Title:  testTitle,
		Folder: "termo-teste",
		Map: func(in payload.Payload) (payload.Payload, error) {
			out := in.Clone()
			out.Set("document.kind", "teste")
			return out, nil
		},
		Images: []kinds.Image{{Path: "document.logoUrl", Asset: assets.Logo}},
	})
	return r
}

func newFixture(t *testing.T, opts ...orchestrator.Option) *fixture {
	t.Helper()
	ctx := context.Background()

	f := &fixture{
		mem:        store.NewMemory(store.WithClock(func() time.Time { return fixedNow })),
		blobs:      artifacts.NewMemoryStore(),
		compositor: &testsupport.RecordingCompositor{},
	}

	client, err := f.mem.SaveClient(ctx, store.Client{
		ID:         "client-1",
		Name:       "Maria da Silva",
		Attributes: map[string]any{"cpf": "123.456.789-00"},
	})
	if err != nil {
		t.Fatalf("save client: %v", err)
	}
	f.client = client

	tpl, err := f.mem.SaveTemplate(ctx, store.Template{Title: testTitle, Markup: testMarkup})
	if err != nil {
		t.Fatalf("save template: %v", err)
	}
	f.template = tpl

	base := []orchestrator.Option{
		orchestrator.WithStore(f.mem),
		orchestrator.WithBlobStore(f.blobs),
		orchestrator.WithCompositor(f.compositor),
		orchestrator.WithKinds(testKinds()),
		orchestrator.WithClock(func() time.Time { return fixedNow }),
		orchestrator.WithSuffixGenerator(func() string { return "abc123" }),
	}
	f.orch = orchestrator.New(append(base, opts...)...)
	return f
}

func (f *fixture) request(extra payload.Payload) orchestrator.Request {
	return orchestrator.Request{
		ClientID:     f.client.ID,
		TemplateID:   f.template.ID,
		ExtraData:    extra,
		ActingUserID: "user-7",
	}
}

func TestGenerate_PersistsBlobAndSnapshot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.orch.Generate(ctx, f.request(payload.Payload{
		"document": payload.Payload{"documentDate": "2024-03-05"},
	}))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	wantPath := fmt.Sprintf("uploads/termo-de-teste-Maria_da_Silva-%d-abc123.pdf", fixedNow.UnixMilli())
	want := orchestrator.Result{Message: "Documento gerado com sucesso!", Path: wantPath, DocumentID: res.DocumentID}
	if diff := cmp.Diff(want, res); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}

	calls := f.compositor.Calls()
	if len(calls) != 1 {
		t.Fatalf("expected one composition, got %d", len(calls))
	}
	markup := calls[0].Markup
	if !strings.Contains(markup, "<p>Maria da Silva (123.456.789-00) 05/03/2024 teste</p>") {
		t.Fatalf("unexpected markup: %s", markup)
	}
	if !strings.Contains(markup, "data:image/png;base64,") {
		t.Fatalf("expected logo data URI in markup")
	}
	wantLayout, err := kinds.DefaultLayout(assets.Default())
	if err != nil {
		t.Fatalf("default layout: %v", err)
	}
	if diff := cmp.Diff(wantLayout, calls[0].Layout); diff != "" {
		t.Fatalf("layout mismatch (-want +got):\n%s", diff)
	}

	blob, err := f.blobs.Read(ctx, wantPath)
	if err != nil {
		t.Fatalf("read blob: %v", err)
	}
	if string(blob) != testsupport.PDFPrefix+markup {
		t.Fatalf("blob does not hold the composed document")
	}

	doc, err := f.mem.GetRecord(ctx, res.DocumentID)
	if err != nil {
		t.Fatalf("get record: %v", err)
	}
	wantSnapshot := payload.Payload{
		"client": map[string]any{
			"id":   "client-1",
			"name": "Maria da Silva",
			"cpf":  "123.456.789-00",
		},
		"document": map[string]any{
			"day":   "05",
			"month": "03",
			"year":  "2024",
			"kind":  "teste",
		},
	}
	if diff := cmp.Diff(plain(t, wantSnapshot), plain(t, doc.DataSnapshot)); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}
	if doc.Title != testTitle || doc.FilePath != wantPath || doc.ClientID != "client-1" || doc.GeneratorUserID != "user-7" {
		t.Fatalf("unexpected record: %+v", doc)
	}
}

func TestGenerate_RawPayloadWinsOverClient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.orch.Generate(ctx, f.request(payload.Payload{
		"client": payload.Payload{"name": "Maria S. Souza", "rg": "12.345.678-9"},
	}))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	doc, err := f.mem.GetRecord(ctx, res.DocumentID)
	if err != nil {
		t.Fatalf("get record: %v", err)
	}
	client := doc.DataSnapshot.Object("client")
	if client["name"] != "Maria S. Souza" {
		t.Fatalf("raw name should win, got %v", client["name"])
	}
	if client["cpf"] != "123.456.789-00" || client["rg"] != "12.345.678-9" {
		t.Fatalf("client fields lost in merge: %v", client)
	}
	if !strings.Contains(res.Path, "Maria_da_Silva") {
		t.Fatalf("file name uses the stored client name, got %s", res.Path)
	}
}

func TestGenerate_ResolutionFailures(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name  string
		req   orchestrator.Request
		class orchestrator.Class
		is    error
	}{
		{
			name:  "missing client",
			req:   orchestrator.Request{ClientID: "nope", TemplateID: f.template.ID},
			class: orchestrator.ClassNotFound,
			is:    orchestrator.ErrNotFound,
		},
		{
			name:  "missing template",
			req:   orchestrator.Request{ClientID: f.client.ID, TemplateID: "nope"},
			class: orchestrator.ClassNotFound,
			is:    store.ErrNotFound,
		},
		{
			name:  "empty client id",
			req:   orchestrator.Request{TemplateID: f.template.ID},
			class: orchestrator.ClassInvalidInput,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.orch.Generate(context.Background(), tc.req)
			if err == nil {
				t.Fatalf("expected error")
			}
			if got := orchestrator.ClassOf(err); got != tc.class {
				t.Fatalf("class = %q, want %q (%v)", got, tc.class, err)
			}
			if orchestrator.StageOf(err) != orchestrator.StageResolving {
				t.Fatalf("stage = %q", orchestrator.StageOf(err))
			}
			if tc.is != nil && !errors.Is(err, tc.is) {
				t.Fatalf("expected %v in chain, got %v", tc.is, err)
			}
		})
	}
	if len(f.compositor.Calls()) != 0 {
		t.Fatalf("nothing should be composed")
	}
}

func TestGenerate_UnregisteredTitle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tpl, err := f.mem.SaveTemplate(ctx, store.Template{Title: "Modelo Livre", Markup: "{{ client.name }}"})
	if err != nil {
		t.Fatalf("save template: %v", err)
	}

	_, err = f.orch.Generate(ctx, orchestrator.Request{ClientID: f.client.ID, TemplateID: tpl.ID})
	if !errors.Is(err, orchestrator.ErrUnregisteredAdapter) {
		t.Fatalf("expected ErrUnregisteredAdapter, got %v", err)
	}
	if orchestrator.ClassOf(err) != orchestrator.ClassUnregistered {
		t.Fatalf("class = %q", orchestrator.ClassOf(err))
	}
	if len(f.blobs.Paths()) != 0 {
		t.Fatalf("no blob expected")
	}
}

func TestGenerate_MalformedDate(t *testing.T) {
	f := newFixture(t)

	_, err := f.orch.Generate(context.Background(), f.request(payload.Payload{
		"document": payload.Payload{"documentDate": "ontem"},
	}))
	if !errors.Is(err, ptbr.ErrMalformedDate) {
		t.Fatalf("expected ErrMalformedDate, got %v", err)
	}
	if orchestrator.ClassOf(err) != orchestrator.ClassInvalidInput || orchestrator.StageOf(err) != orchestrator.StageNormalizing {
		t.Fatalf("unexpected classification: %v", err)
	}
}

func TestGenerate_ComposeFailure(t *testing.T) {
	f := newFixture(t)
	f.compositor.Fail = fmt.Errorf("%w: browser crashed", compositor.ErrEngine)

	_, err := f.orch.Generate(context.Background(), f.request(nil))
	if !errors.Is(err, compositor.ErrEngine) {
		t.Fatalf("expected ErrEngine, got %v", err)
	}
	if orchestrator.ClassOf(err) != orchestrator.ClassRendering || orchestrator.StageOf(err) != orchestrator.StageComposing {
		t.Fatalf("unexpected classification: %v", err)
	}
	if len(f.blobs.Paths()) != 0 {
		t.Fatalf("no blob expected after compose failure")
	}
}

func TestGenerate_RenderFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tpl, err := f.mem.SaveTemplate(ctx, store.Template{Title: testTitle, Markup: "{% if %}"})
	if err != nil {
		t.Fatalf("save template: %v", err)
	}

	_, err = f.orch.Generate(ctx, orchestrator.Request{ClientID: f.client.ID, TemplateID: tpl.ID})
	if orchestrator.ClassOf(err) != orchestrator.ClassRendering || orchestrator.StageOf(err) != orchestrator.StageRendering {
		t.Fatalf("unexpected classification: %v", err)
	}
}

type failingRecords struct {
	*store.Memory
}

func (failingRecords) CreateRecord(context.Context, store.NewRecord) (store.GeneratedDocument, error) {
	return store.GeneratedDocument{}, errors.New("database is locked")
}

func TestGenerate_RecordFailureRemovesBlob(t *testing.T) {
	f := newFixture(t)
	orch := orchestrator.New(
		orchestrator.WithStore(f.mem),
		orchestrator.WithRecords(failingRecords{f.mem}),
		orchestrator.WithBlobStore(f.blobs),
		orchestrator.WithCompositor(f.compositor),
		orchestrator.WithKinds(testKinds()),
	)

	_, err := orch.Generate(context.Background(), f.request(nil))
	if orchestrator.ClassOf(err) != orchestrator.ClassStorage || orchestrator.StageOf(err) != orchestrator.StagePersisting {
		t.Fatalf("unexpected classification: %v", err)
	}
	if paths := f.blobs.Paths(); len(paths) != 0 {
		t.Fatalf("blob should be removed, found %v", paths)
	}
}

const requireRG = `{
  "type": "object",
  "required": ["client"],
  "properties": {
    "client": {"type": "object", "required": ["rg"]}
  }
}`

func TestGenerate_FieldSchema(t *testing.T) {
	ctx := context.Background()

	t.Run("strict rejects", func(t *testing.T) {
		f := newFixture(t, orchestrator.WithStrictSchema(true))
		tpl := f.template
		tpl.FieldSchema = []byte(requireRG)
		if _, err := f.mem.SaveTemplate(ctx, tpl); err != nil {
			t.Fatalf("save template: %v", err)
		}

		_, err := f.orch.Generate(ctx, f.request(nil))
		if !errors.Is(err, orchestrator.ErrInvalidPayload) {
			t.Fatalf("expected ErrInvalidPayload, got %v", err)
		}
		if !strings.Contains(err.Error(), "client.rg") {
			t.Fatalf("expected issue path in error, got %v", err)
		}
		if len(f.compositor.Calls()) != 0 {
			t.Fatalf("nothing should be composed")
		}
	})

	t.Run("lenient continues", func(t *testing.T) {
		f := newFixture(t)
		tpl := f.template
		tpl.FieldSchema = []byte(requireRG)
		if _, err := f.mem.SaveTemplate(ctx, tpl); err != nil {
			t.Fatalf("save template: %v", err)
		}

		if _, err := f.orch.Generate(ctx, f.request(nil)); err != nil {
			t.Fatalf("generate: %v", err)
		}
	})

	t.Run("strict accepts valid payload", func(t *testing.T) {
		f := newFixture(t, orchestrator.WithStrictSchema(true))
		tpl := f.template
		tpl.FieldSchema = []byte(requireRG)
		if _, err := f.mem.SaveTemplate(ctx, tpl); err != nil {
			t.Fatalf("save template: %v", err)
		}

		if _, err := f.orch.Generate(ctx, f.request(payload.Payload{"rg": "1"})); err != nil {
			t.Fatalf("generate: %v", err)
		}
	})
}

func TestReplay_ReproducesMarkup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.orch.Generate(ctx, f.request(payload.Payload{
		"document": payload.Payload{"documentDate": "2024-03-05T23:30:00-03:00"},
	}))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	original := f.compositor.Calls()[0].Markup

	replay, err := f.orch.Replay(ctx, res.DocumentID)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if diff := cmp.Diff(original, replay.Markup); diff != "" {
		t.Fatalf("replay mismatch (-want +got):\n%s", diff)
	}
	if replay.PDF != nil {
		t.Fatalf("replay should not compose")
	}
	if _, ok := replay.Document.DataSnapshot.Get("document.logoUrl"); ok {
		t.Fatalf("snapshot must not carry render-time images")
	}

	again, err := f.orch.Recompose(ctx, res.DocumentID)
	if err != nil {
		t.Fatalf("recompose: %v", err)
	}
	if string(again.PDF) != testsupport.PDFPrefix+original {
		t.Fatalf("recomposed document differs")
	}
}

func TestReplay_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.orch.Replay(context.Background(), "missing")
	if !errors.Is(err, orchestrator.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGenerate_CancelledContext(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := f.orch.Generate(ctx, f.request(nil)); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestGenerate_BuiltinKind(t *testing.T) {
	f := newFixture(t, orchestrator.WithKinds(kinds.Default()))
	ctx := context.Background()

	tpl, err := f.mem.SaveTemplate(ctx, store.Template{
		Title:  kinds.InssPowerOfAttorney,
		Markup: `{{ grantor.name }}|{% if document.brasaoImage %}selo{% endif %}`,
	})
	if err != nil {
		t.Fatalf("save template: %v", err)
	}

	res, err := f.orch.Generate(ctx, orchestrator.Request{
		ClientID:   f.client.ID,
		TemplateID: tpl.ID,
		ExtraData:  payload.Payload{"grantor": payload.Payload{"name": "Maria da Silva"}},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.HasPrefix(res.Path, "uploads/procuracao-inss-Maria_da_Silva-") {
		t.Fatalf("unexpected path %s", res.Path)
	}
	calls := f.compositor.Calls()
	if got := calls[len(calls)-1].Markup; got != "Maria da Silva|selo" {
		t.Fatalf("unexpected markup %q", got)
	}
}

// plain round-trips a payload through JSON so nested Payload and map values
// compare equal.
func plain(t *testing.T, p payload.Payload) payload.Payload {
	t.Helper()
	data, err := p.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	out, err := payload.Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out
}
