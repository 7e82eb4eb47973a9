package store

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-legaldocs/pkg/payload"
)

// Memory is an in-process Store.
type Memory struct {
	mu        sync.RWMutex
	opts      options
	clients   map[string]Client
	templates map[string]Template
	records   []GeneratedDocument
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory(opts ...Option) *Memory {
	return &Memory{
		opts:      buildOptions(opts),
		clients:   make(map[string]Client),
		templates: make(map[string]Template),
	}
}

func buildOptions(opts []Option) options {
	o := options{
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

func (m *Memory) GetClient(_ context.Context, id string) (Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.clients[id]
	if !ok {
		return Client{}, fmt.Errorf("%w: client %q", ErrNotFound, id)
	}
	return cloneClient(c), nil
}

func (m *Memory) SaveClient(_ context.Context, c Client) (Client, error) {
	if strings.TrimSpace(c.ID) == "" {
		c.ID = m.opts.newID()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clients[c.ID] = cloneClient(c)
	return cloneClient(c), nil
}

func (m *Memory) GetTemplate(_ context.Context, id string) (Template, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, tpl := range m.templates {
		if tpl.ID == id {
			return cloneTemplate(tpl), nil
		}
	}
	return Template{}, fmt.Errorf("%w: template %q", ErrNotFound, id)
}

func (m *Memory) FindTemplateByTitle(_ context.Context, title string) (Template, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tpl, ok := m.templates[title]
	if !ok {
		return Template{}, fmt.Errorf("%w: template titled %q", ErrNotFound, title)
	}
	return cloneTemplate(tpl), nil
}

// SaveTemplate upserts by title. An existing template keeps its id.
func (m *Memory) SaveTemplate(_ context.Context, tpl Template) (Template, error) {
	if strings.TrimSpace(tpl.Title) == "" {
		return Template{}, fmt.Errorf("store: template title is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.templates[tpl.Title]; ok {
		tpl.ID = existing.ID
	} else if strings.TrimSpace(tpl.ID) == "" {
		tpl.ID = m.opts.newID()
	}
	m.templates[tpl.Title] = cloneTemplate(tpl)
	return cloneTemplate(tpl), nil
}

// ListTemplates returns every template ordered by title.
func (m *Memory) ListTemplates(_ context.Context) ([]Template, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Template, 0, len(m.templates))
	for _, tpl := range m.templates {
		out = append(out, cloneTemplate(tpl))
	}
	slices.SortFunc(out, func(a, b Template) int { return strings.Compare(a.Title, b.Title) })
	return out, nil
}

func (m *Memory) CreateRecord(_ context.Context, rec NewRecord) (GeneratedDocument, error) {
	doc := GeneratedDocument{
		ID:              m.opts.newID(),
		Title:           rec.Title,
		FilePath:        rec.FilePath,
		DataSnapshot:    rec.DataSnapshot.Clone(),
		ClientID:        rec.ClientID,
		GeneratorUserID: rec.GeneratorUserID,
		CreatedAt:       m.opts.now(),
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, doc)
	return cloneRecord(doc), nil
}

func (m *Memory) GetRecord(_ context.Context, id string) (GeneratedDocument, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, doc := range m.records {
		if doc.ID == id {
			return cloneRecord(doc), nil
		}
	}
	return GeneratedDocument{}, fmt.Errorf("%w: generated document %q", ErrNotFound, id)
}

// ListRecordsByClient returns the client's records, newest first.
func (m *Memory) ListRecordsByClient(_ context.Context, clientID string) ([]GeneratedDocument, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []GeneratedDocument{}
	for i := len(m.records) - 1; i >= 0; i-- {
		if m.records[i].ClientID == clientID {
			out = append(out, cloneRecord(m.records[i]))
		}
	}
	slices.SortStableFunc(out, func(a, b GeneratedDocument) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

func (m *Memory) Close() error { return nil }

func cloneClient(c Client) Client {
	c.Attributes = map[string]any(payload.Payload(c.Attributes).Clone())
	return c
}

func cloneTemplate(t Template) Template {
	t.FieldSchema = slices.Clone(t.FieldSchema)
	return t
}

func cloneRecord(d GeneratedDocument) GeneratedDocument {
	d.DataSnapshot = d.DataSnapshot.Clone()
	return d
}
