// Package store holds the records the generation pipeline reads and writes:
// clients and templates (read-only during generation) and generated
// documents (created once, never updated).
package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/goliatone/go-legaldocs/pkg/payload"
)

// ErrNotFound is returned when a lookup matches no record.
var ErrNotFound = errors.New("store: record not found")

// Client is the person a document is generated for.
type Client struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// Payload returns the client as template data: its attributes plus id and
// name.
func (c Client) Payload() payload.Payload {
	out := payload.Payload(c.Attributes).Clone()
	out["id"] = c.ID
	out["name"] = c.Name
	return out
}

// Template is a document template. Titles are unique and select the kind.
type Template struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Markup      string          `json:"markup"`
	FieldSchema json.RawMessage `json:"fieldSchema,omitempty"`
}

// GeneratedDocument is the immutable record of one generation.
type GeneratedDocument struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	FilePath        string          `json:"filePath"`
	DataSnapshot    payload.Payload `json:"dataSnapshot"`
	ClientID        string          `json:"clientId"`
	GeneratorUserID string          `json:"generatorUserId"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// NewRecord carries the fields of a record about to be created. The store
// assigns ID and CreatedAt.
type NewRecord struct {
	Title           string
	FilePath        string
	DataSnapshot    payload.Payload
	ClientID        string
	GeneratorUserID string
}

// ClientSource resolves clients.
type ClientSource interface {
	GetClient(ctx context.Context, id string) (Client, error)
}

// TemplateSource resolves templates by id or title.
type TemplateSource interface {
	GetTemplate(ctx context.Context, id string) (Template, error)
	FindTemplateByTitle(ctx context.Context, title string) (Template, error)
}

// RecordStore creates and reads generated-document records.
type RecordStore interface {
	CreateRecord(ctx context.Context, rec NewRecord) (GeneratedDocument, error)
	GetRecord(ctx context.Context, id string) (GeneratedDocument, error)
	ListRecordsByClient(ctx context.Context, clientID string) ([]GeneratedDocument, error)
}

// TemplateWriter upserts templates by title. Catalog seeding uses it.
type TemplateWriter interface {
	SaveTemplate(ctx context.Context, tpl Template) (Template, error)
}

// ClientWriter upserts clients by id.
type ClientWriter interface {
	SaveClient(ctx context.Context, c Client) (Client, error)
}

// Store is the full set of record operations a backend provides.
type Store interface {
	ClientSource
	ClientWriter
	TemplateSource
	TemplateWriter
	RecordStore
	ListTemplates(ctx context.Context) ([]Template, error)
	Close() error
}

// Option configures a store backend.
type Option func(*options)

type options struct {
	now   func() time.Time
	newID func() string
}

// WithClock overrides the clock used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithIDGenerator overrides record id generation.
func WithIDGenerator(fn func() string) Option {
	return func(o *options) {
		if fn != nil {
			o.newID = fn
		}
	}
}
