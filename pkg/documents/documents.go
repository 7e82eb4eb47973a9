// Package documents serves generated documents after the fact: history per
// client, single downloads and ZIP bundles.
package documents

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-legaldocs/pkg/artifacts"
	"github.com/goliatone/go-legaldocs/pkg/store"
)

// ErrNotFound reports a missing record or a record whose file is gone.
var ErrNotFound = errors.New("documents: generated document not found")

// Records is the subset of the record store the service reads.
type Records interface {
	GetRecord(ctx context.Context, id string) (store.GeneratedDocument, error)
	ListRecordsByClient(ctx context.Context, clientID string) ([]store.GeneratedDocument, error)
}

// Summary is one row of a client's history.
type Summary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
}

// File is a downloaded document.
type File struct {
	Name string
	Path string
	Data []byte
}

// Option customises a Service.
type Option func(*Service)

// WithLogger overrides the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Service reads generated documents.
type Service struct {
	records Records
	blobs   artifacts.BlobStore
	logger  *slog.Logger
}

// New builds a Service over records and blobs.
func New(records Records, blobs artifacts.BlobStore, opts ...Option) *Service {
	s := &Service{
		records: records,
		blobs:   blobs,
		logger:  slog.Default().With("component", "documents"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// List returns the documents generated for clientID, newest first.
func (s *Service) List(ctx context.Context, clientID string) ([]Summary, error) {
	if strings.TrimSpace(clientID) == "" {
		return nil, errors.New("documents: client id is required")
	}
	docs, err := s.records.ListRecordsByClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("documents: list %q: %w", clientID, err)
	}
	out := make([]Summary, 0, len(docs))
	for _, doc := range docs {
		out = append(out, Summary{ID: doc.ID, Title: doc.Title, CreatedAt: doc.CreatedAt})
	}
	return out, nil
}

// Get returns the full record, snapshot included.
func (s *Service) Get(ctx context.Context, id string) (store.GeneratedDocument, error) {
	doc, err := s.records.GetRecord(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.GeneratedDocument{}, fmt.Errorf("%w: %q", ErrNotFound, id)
		}
		return store.GeneratedDocument{}, fmt.Errorf("documents: get %q: %w", id, err)
	}
	return doc, nil
}

// Download reads the PDF of one document.
func (s *Service) Download(ctx context.Context, id string) (File, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return File{}, err
	}
	data, err := s.blobs.Read(ctx, doc.FilePath)
	if err != nil {
		if errors.Is(err, artifacts.ErrBlobNotFound) {
			return File{}, fmt.Errorf("%w: %q: file %s is missing", ErrNotFound, id, doc.FilePath)
		}
		return File{}, fmt.Errorf("documents: read %q: %w", id, err)
	}
	return File{Name: path.Base(doc.FilePath), Path: doc.FilePath, Data: data}, nil
}

// ExportZip writes the PDFs of ids into one ZIP archive on w, in the given
// order. Repeated file names get a numeric suffix. Any missing document fails
// the export.
func (s *Service) ExportZip(ctx context.Context, ids []string, w io.Writer) error {
	if len(ids) == 0 {
		return errors.New("documents: no documents to export")
	}

	zw := zip.NewWriter(w)
	seen := make(map[string]int, len(ids))
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}
		file, err := s.Download(ctx, id)
		if err != nil {
			return err
		}
		entry, err := zw.CreateHeader(&zip.FileHeader{
			Name:     uniqueName(seen, file.Name),
			Method:   zip.Deflate,
			Modified: time.Now(),
		})
		if err != nil {
			return fmt.Errorf("documents: zip entry %q: %w", id, err)
		}
		if _, err := entry.Write(file.Data); err != nil {
			return fmt.Errorf("documents: zip write %q: %w", id, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("documents: zip close: %w", err)
	}
	s.logger.Info("documents exported", "count", len(ids))
	return nil
}

func uniqueName(seen map[string]int, name string) string {
	n := seen[name]
	seen[name] = n + 1
	if n == 0 {
		return name
	}
	ext := path.Ext(name)
	return strings.TrimSuffix(name, ext) + "-" + strconv.Itoa(n+1) + ext
}
