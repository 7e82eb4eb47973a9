// Package catalog ships the bundled document templates and loads them into
// a template store. A catalog is a directory holding catalog.yaml and one
// folder per template with template.html and an optional JSON field schema.
package catalog

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-legaldocs/pkg/schema"
	"github.com/goliatone/go-legaldocs/pkg/store"
)

// ManifestFile names the catalog index at the catalog root.
const ManifestFile = "catalog.yaml"

// MarkupFile names the template markup inside each folder.
const MarkupFile = "template.html"

//go:embed templates
var embedded embed.FS

// TemplatesFS exposes the bundled catalog rooted at its manifest.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		return embedded
	}
	return sub
}

// Entry is one manifest line.
type Entry struct {
	Title  string `yaml:"title"`
	Folder string `yaml:"folder"`
	Schema string `yaml:"schema,omitempty"`
}

// Manifest is the parsed catalog.yaml.
type Manifest struct {
	Templates []Entry `yaml:"templates"`
}

// ReadManifest parses and checks the manifest of fsys.
func ReadManifest(fsys fs.FS) (Manifest, error) {
	raw, err := fs.ReadFile(fsys, ManifestFile)
	if err != nil {
		return Manifest{}, fmt.Errorf("catalog: read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return Manifest{}, fmt.Errorf("catalog: parse manifest: %w", err)
	}

	seen := make(map[string]struct{}, len(m.Templates))
	var errs []error
	for i, entry := range m.Templates {
		entry.Title = strings.TrimSpace(entry.Title)
		entry.Folder = strings.Trim(strings.TrimSpace(entry.Folder), "/")
		m.Templates[i] = entry
		switch {
		case entry.Title == "":
			errs = append(errs, fmt.Errorf("entry %d: title is required", i))
		case entry.Folder == "" || !fs.ValidPath(entry.Folder):
			errs = append(errs, fmt.Errorf("entry %q: invalid folder %q", entry.Title, entry.Folder))
		}
		if _, dup := seen[entry.Title]; dup {
			errs = append(errs, fmt.Errorf("entry %q: duplicate title", entry.Title))
		}
		seen[entry.Title] = struct{}{}
	}
	if err := errors.Join(errs...); err != nil {
		return Manifest{}, fmt.Errorf("catalog: manifest: %w", err)
	}
	return m, nil
}

// Load reads every template listed in the manifest. Field schemas are
// compiled so a broken schema fails the load rather than a generation.
func Load(fsys fs.FS) ([]store.Template, error) {
	m, err := ReadManifest(fsys)
	if err != nil {
		return nil, err
	}
	out := make([]store.Template, 0, len(m.Templates))
	for _, entry := range m.Templates {
		markup, err := fs.ReadFile(fsys, path.Join(entry.Folder, MarkupFile))
		if err != nil {
			return nil, fmt.Errorf("catalog: %q: read markup: %w", entry.Title, err)
		}
		tpl := store.Template{Title: entry.Title, Markup: string(markup)}
		if entry.Schema != "" {
			raw, err := fs.ReadFile(fsys, path.Join(entry.Folder, entry.Schema))
			if err != nil {
				return nil, fmt.Errorf("catalog: %q: read schema: %w", entry.Title, err)
			}
			if _, err := schema.Compile(raw); err != nil {
				return nil, fmt.Errorf("catalog: %q: %w", entry.Title, err)
			}
			tpl.FieldSchema = raw
		}
		out = append(out, tpl)
	}
	return out, nil
}

// Seed loads fsys and upserts every template by title. It returns the stored
// templates with their ids.
func Seed(ctx context.Context, fsys fs.FS, w store.TemplateWriter, logger *slog.Logger) ([]store.Template, error) {
	if logger == nil {
		logger = slog.Default()
	}
	templates, err := Load(fsys)
	if err != nil {
		return nil, err
	}
	saved := make([]store.Template, 0, len(templates))
	for _, tpl := range templates {
		stored, err := w.SaveTemplate(ctx, tpl)
		if err != nil {
			return saved, fmt.Errorf("catalog: seed %q: %w", tpl.Title, err)
		}
		logger.Debug("template seeded", "template", stored.Title, "template_id", stored.ID)
		saved = append(saved, stored)
	}
	logger.Info("catalog seeded", "templates", len(saved))
	return saved, nil
}
