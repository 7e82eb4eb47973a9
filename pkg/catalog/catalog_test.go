package catalog_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-legaldocs/pkg/catalog"
	"github.com/goliatone/go-legaldocs/pkg/kinds"
	"github.com/goliatone/go-legaldocs/pkg/payload"
	"github.com/goliatone/go-legaldocs/pkg/render"
	"github.com/goliatone/go-legaldocs/pkg/store"
)

func TestEmbeddedCatalog_CoversEveryBuiltinKind(t *testing.T) {
	m, err := catalog.ReadManifest(catalog.TemplatesFS())
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	folders := map[string]string{}
	for _, entry := range m.Templates {
		folders[entry.Title] = entry.Folder
	}

	for _, kind := range kinds.Builtin() {
		folder, ok := folders[kind.Title]
		if !ok {
			t.Errorf("kind %q has no catalog entry", kind.Title)
			continue
		}
		if folder != kind.Folder {
			t.Errorf("kind %q: catalog folder %q, kind folder %q", kind.Title, folder, kind.Folder)
		}
	}
	if len(m.Templates) != len(kinds.Builtin()) {
		t.Fatalf("expected %d entries, got %d", len(kinds.Builtin()), len(m.Templates))
	}
}

func TestEmbeddedCatalog_LoadsAndRendersEmptyPayloads(t *testing.T) {
	templates, err := catalog.Load(catalog.TemplatesFS())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	r, err := render.New()
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	registry := kinds.Default()

	withSchema := 0
	for _, tpl := range templates {
		if len(tpl.FieldSchema) > 0 {
			withSchema++
		}
		canonical, err := registry.Adapt(payload.Payload{}, tpl.Title)
		if err != nil {
			t.Fatalf("%s: adapt: %v", tpl.Title, err)
		}
		out, err := r.Render(tpl.Markup, canonical)
		if err != nil {
			t.Fatalf("%s: render: %v", tpl.Title, err)
		}
		if !strings.Contains(out, "<body>") {
			t.Fatalf("%s: rendered markup lost its body", tpl.Title)
		}
	}
	if withSchema != 3 {
		t.Fatalf("expected 3 templates with field schema, got %d", withSchema)
	}
}

func TestReadManifest_Errors(t *testing.T) {
	tests := map[string]string{
		"duplicate title": "templates:\n  - {title: A, folder: a}\n  - {title: A, folder: b}\n",
		"missing folder":  "templates:\n  - {title: A}\n",
		"escaping folder": "templates:\n  - {title: A, folder: ../a}\n",
		"missing title":   "templates:\n  - {folder: a}\n",
		"bad yaml":        "templates: [",
	}
	for name, manifest := range tests {
		t.Run(name, func(t *testing.T) {
			fsys := fstest.MapFS{catalog.ManifestFile: {Data: []byte(manifest)}}
			if _, err := catalog.ReadManifest(fsys); err == nil {
				t.Fatalf("expected manifest error")
			}
		})
	}
}

func TestLoad_RejectsBrokenSchema(t *testing.T) {
	fsys := fstest.MapFS{
		catalog.ManifestFile: {Data: []byte("templates:\n  - {title: A, folder: a, schema: s.json}\n")},
		"a/template.html":    {Data: []byte("<p>{{ x }}</p>")},
		"a/s.json":           {Data: []byte(`{"type": "banana"}`)},
	}
	if _, err := catalog.Load(fsys); err == nil {
		t.Fatalf("expected schema error")
	}
}

func TestSeed_UpsertsByTitle(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()

	first, err := catalog.Seed(ctx, catalog.TemplatesFS(), mem, nil)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	second, err := catalog.Seed(ctx, catalog.TemplatesFS(), mem, nil)
	if err != nil {
		t.Fatalf("reseed: %v", err)
	}

	ids := func(list []store.Template) []string {
		out := make([]string, 0, len(list))
		for _, tpl := range list {
			out = append(out, tpl.ID)
		}
		return out
	}
	if diff := cmp.Diff(ids(first), ids(second)); diff != "" {
		t.Fatalf("reseed changed ids (-want +got):\n%s", diff)
	}

	all, err := mem.ListTemplates(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != len(first) {
		t.Fatalf("expected %d templates, got %d", len(first), len(all))
	}
}

func TestWatch_ReseedsOnChange(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, catalog.ManifestFile), "templates:\n  - {title: Termo, folder: termo}\n")
	writeFile(t, filepath.Join(dir, "termo", catalog.MarkupFile), "<p>v1</p>")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mem := store.NewMemory()
	reloads := make(chan []store.Template, 8)
	done := make(chan error, 1)
	go func() {
		done <- catalog.Watch(ctx, dir, mem,
			catalog.WithDebounce(20*time.Millisecond),
			catalog.WithOnReload(func(list []store.Template, err error) {
				if err == nil {
					reloads <- list
				}
			}),
		)
	}()

	first := waitReload(t, reloads)
	if first[0].Markup != "<p>v1</p>" {
		t.Fatalf("unexpected initial markup %q", first[0].Markup)
	}

	writeFile(t, filepath.Join(dir, "termo", catalog.MarkupFile), "<p>v2</p>")

	deadline := time.After(5 * time.Second)
	for {
		select {
		case list := <-reloads:
			if list[0].Markup == "<p>v2</p>" {
				tpl, err := mem.FindTemplateByTitle(ctx, "Termo")
				if err != nil {
					t.Fatalf("find: %v", err)
				}
				if tpl.ID != first[0].ID {
					t.Fatalf("reload changed template id")
				}
				cancel()
				if err := <-done; err != nil {
					t.Fatalf("watch: %v", err)
				}
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for reload")
		}
	}
}

func waitReload(t *testing.T, ch <-chan []store.Template) []store.Template {
	t.Helper()
	select {
	case list := <-ch:
		return list
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for initial seed")
		return nil
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}
