package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/goliatone/go-legaldocs/pkg/payload"
)

// Supported SQL drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// timeLayout sorts lexicographically, so created_at can be ordered as text on
// every driver.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS clients (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		attributes TEXT NOT NULL DEFAULT '{}'
	)`,
	`CREATE TABLE IF NOT EXISTS templates (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL UNIQUE,
		markup TEXT NOT NULL,
		field_schema TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS generated_documents (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		file_path TEXT NOT NULL,
		data_snapshot TEXT NOT NULL,
		client_id TEXT NOT NULL,
		generator_user_id TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS generated_documents_client_idx ON generated_documents (client_id, created_at)`,
}

// SQL is a Store on SQLite or Postgres through sqlx.
type SQL struct {
	db   *sqlx.DB
	opts options
}

var _ Store = (*SQL)(nil)

// OpenSQL opens a database, applies the schema and returns the store. For
// SQLite a bare path is turned into a DSN with a busy timeout.
func OpenSQL(ctx context.Context, driver, dsn string, opts ...Option) (*SQL, error) {
	driver = normalizeDriver(driver)
	switch driver {
	case DriverSQLite:
		dsn = sqliteDSN(dsn)
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("store: unsupported driver %q", driver)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping %s: %w", driver, err)
	}

	s := NewSQL(db, opts...)
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQL wraps an open connection. The caller runs Migrate when needed.
func NewSQL(db *sqlx.DB, opts ...Option) *SQL {
	return &SQL{db: db, opts: buildOptions(opts)}
}

// Migrate creates missing tables.
func (s *SQL) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("store: migrate: %w", err)
		}
	}
	return nil
}

// Close releases the connection pool.
func (s *SQL) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

type clientRow struct {
	ID         string `db:"id"`
	Name       string `db:"name"`
	Attributes string `db:"attributes"`
}

type templateRow struct {
	ID          string         `db:"id"`
	Title       string         `db:"title"`
	Markup      string         `db:"markup"`
	FieldSchema sql.NullString `db:"field_schema"`
}

type recordRow struct {
	ID              string `db:"id"`
	Title           string `db:"title"`
	FilePath        string `db:"file_path"`
	DataSnapshot    string `db:"data_snapshot"`
	ClientID        string `db:"client_id"`
	GeneratorUserID string `db:"generator_user_id"`
	CreatedAt       string `db:"created_at"`
}

const (
	selectClient   = `SELECT id, name, attributes FROM clients`
	selectTemplate = `SELECT id, title, markup, field_schema FROM templates`
	selectRecord   = `SELECT id, title, file_path, data_snapshot, client_id, generator_user_id, created_at FROM generated_documents`
)

func (s *SQL) GetClient(ctx context.Context, id string) (Client, error) {
	var row clientRow
	if err := s.db.GetContext(ctx, &row, s.db.Rebind(selectClient+` WHERE id = ?`), id); err != nil {
		return Client{}, notFound(err, "client %q", id)
	}
	return row.client()
}

func (s *SQL) SaveClient(ctx context.Context, c Client) (Client, error) {
	if strings.TrimSpace(c.ID) == "" {
		c.ID = s.opts.newID()
	}
	attrs, err := json.Marshal(payload.Payload(c.Attributes))
	if err != nil {
		return Client{}, fmt.Errorf("store: encode client attributes: %w", err)
	}
	query := s.db.Rebind(`INSERT INTO clients (id, name, attributes) VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET name = excluded.name, attributes = excluded.attributes`)
	if _, err := s.db.ExecContext(ctx, query, c.ID, c.Name, string(attrs)); err != nil {
		return Client{}, fmt.Errorf("store: save client: %w", err)
	}
	return cloneClient(c), nil
}

func (s *SQL) GetTemplate(ctx context.Context, id string) (Template, error) {
	var row templateRow
	if err := s.db.GetContext(ctx, &row, s.db.Rebind(selectTemplate+` WHERE id = ?`), id); err != nil {
		return Template{}, notFound(err, "template %q", id)
	}
	return row.template(), nil
}

func (s *SQL) FindTemplateByTitle(ctx context.Context, title string) (Template, error) {
	var row templateRow
	if err := s.db.GetContext(ctx, &row, s.db.Rebind(selectTemplate+` WHERE title = ?`), title); err != nil {
		return Template{}, notFound(err, "template titled %q", title)
	}
	return row.template(), nil
}

// SaveTemplate upserts by title. An existing template keeps its id.
func (s *SQL) SaveTemplate(ctx context.Context, tpl Template) (Template, error) {
	if strings.TrimSpace(tpl.Title) == "" {
		return Template{}, fmt.Errorf("store: template title is required")
	}
	if strings.TrimSpace(tpl.ID) == "" {
		tpl.ID = s.opts.newID()
	}
	var fieldSchema sql.NullString
	if len(tpl.FieldSchema) > 0 {
		fieldSchema = sql.NullString{String: string(tpl.FieldSchema), Valid: true}
	}
	query := s.db.Rebind(`INSERT INTO templates (id, title, markup, field_schema) VALUES (?, ?, ?, ?)
		ON CONFLICT (title) DO UPDATE SET markup = excluded.markup, field_schema = excluded.field_schema`)
	if _, err := s.db.ExecContext(ctx, query, tpl.ID, tpl.Title, tpl.Markup, fieldSchema); err != nil {
		return Template{}, fmt.Errorf("store: save template: %w", err)
	}
	return s.FindTemplateByTitle(ctx, tpl.Title)
}

// ListTemplates returns every template ordered by title.
func (s *SQL) ListTemplates(ctx context.Context) ([]Template, error) {
	rows := []templateRow{}
	if err := s.db.SelectContext(ctx, &rows, selectTemplate+` ORDER BY title`); err != nil {
		return nil, fmt.Errorf("store: list templates: %w", err)
	}
	out := make([]Template, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.template())
	}
	return out, nil
}

func (s *SQL) CreateRecord(ctx context.Context, rec NewRecord) (GeneratedDocument, error) {
	snapshot, err := json.Marshal(rec.DataSnapshot)
	if err != nil {
		return GeneratedDocument{}, fmt.Errorf("store: encode snapshot: %w", err)
	}
	doc := GeneratedDocument{
		ID:              s.opts.newID(),
		Title:           rec.Title,
		FilePath:        rec.FilePath,
		DataSnapshot:    rec.DataSnapshot.Clone(),
		ClientID:        rec.ClientID,
		GeneratorUserID: rec.GeneratorUserID,
		CreatedAt:       s.opts.now().UTC(),
	}
	query := s.db.Rebind(`INSERT INTO generated_documents
		(id, title, file_path, data_snapshot, client_id, generator_user_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	_, err = s.db.ExecContext(ctx, query,
		doc.ID, doc.Title, doc.FilePath, string(snapshot),
		doc.ClientID, doc.GeneratorUserID, doc.CreatedAt.Format(timeLayout))
	if err != nil {
		return GeneratedDocument{}, fmt.Errorf("store: create record: %w", err)
	}
	return doc, nil
}

func (s *SQL) GetRecord(ctx context.Context, id string) (GeneratedDocument, error) {
	var row recordRow
	if err := s.db.GetContext(ctx, &row, s.db.Rebind(selectRecord+` WHERE id = ?`), id); err != nil {
		return GeneratedDocument{}, notFound(err, "generated document %q", id)
	}
	return row.record()
}

// ListRecordsByClient returns the client's records, newest first.
func (s *SQL) ListRecordsByClient(ctx context.Context, clientID string) ([]GeneratedDocument, error) {
	rows := []recordRow{}
	query := s.db.Rebind(selectRecord + ` WHERE client_id = ? ORDER BY created_at DESC, id DESC`)
	if err := s.db.SelectContext(ctx, &rows, query, clientID); err != nil {
		return nil, fmt.Errorf("store: list records: %w", err)
	}
	out := make([]GeneratedDocument, 0, len(rows))
	for _, row := range rows {
		doc, err := row.record()
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

func (r clientRow) client() (Client, error) {
	attrs := map[string]any{}
	if strings.TrimSpace(r.Attributes) != "" {
		p, err := payload.Decode([]byte(r.Attributes))
		if err != nil {
			return Client{}, fmt.Errorf("store: client %q attributes: %w", r.ID, err)
		}
		attrs = map[string]any(p)
	}
	return Client{ID: r.ID, Name: r.Name, Attributes: attrs}, nil
}

func (r templateRow) template() Template {
	tpl := Template{ID: r.ID, Title: r.Title, Markup: r.Markup}
	if r.FieldSchema.Valid && strings.TrimSpace(r.FieldSchema.String) != "" {
		tpl.FieldSchema = json.RawMessage(r.FieldSchema.String)
	}
	return tpl
}

func (r recordRow) record() (GeneratedDocument, error) {
	snapshot, err := payload.Decode([]byte(r.DataSnapshot))
	if err != nil {
		return GeneratedDocument{}, fmt.Errorf("store: record %q snapshot: %w", r.ID, err)
	}
	createdAt, err := time.Parse(timeLayout, r.CreatedAt)
	if err != nil {
		createdAt, err = time.Parse(time.RFC3339Nano, r.CreatedAt)
		if err != nil {
			return GeneratedDocument{}, fmt.Errorf("store: record %q created_at: %w", r.ID, err)
		}
	}
	return GeneratedDocument{
		ID:              r.ID,
		Title:           r.Title,
		FilePath:        r.FilePath,
		DataSnapshot:    snapshot,
		ClientID:        r.ClientID,
		GeneratorUserID: r.GeneratorUserID,
		CreatedAt:       createdAt.UTC(),
	}, nil
}

func notFound(err error, format string, args ...any) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: "+format, append([]any{ErrNotFound}, args...)...)
	}
	return fmt.Errorf("store: get "+format+": %w", append(args, err)...)
}

func normalizeDriver(driver string) string {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "sqlite", "sqlite3":
		return DriverSQLite
	case "postgres", "postgresql", "pq":
		return DriverPostgres
	default:
		return strings.ToLower(strings.TrimSpace(driver))
	}
}

func sqliteDSN(dsn string) string {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" || dsn == ":memory:" {
		return "file::memory:?_pragma=busy_timeout(5000)"
	}
	if strings.HasPrefix(dsn, "file:") {
		return dsn
	}
	return fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", dsn)
}
