package documents_test

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-legaldocs/pkg/artifacts"
	"github.com/goliatone/go-legaldocs/pkg/documents"
	"github.com/goliatone/go-legaldocs/pkg/payload"
	"github.com/goliatone/go-legaldocs/pkg/store"
)

type fixture struct {
	svc   *documents.Service
	mem   *store.Memory
	blobs *artifacts.MemoryStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	tick := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)
	mem := store.NewMemory(store.WithClock(func() time.Time {
		tick = tick.Add(time.Minute)
		return tick
	}))
	blobs := artifacts.NewMemoryStore()
	return &fixture{svc: documents.New(mem, blobs), mem: mem, blobs: blobs}
}

func (f *fixture) add(t *testing.T, clientID, title, filePath, body string) store.GeneratedDocument {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.blobs.Write(ctx, filePath, []byte(body)))
	doc, err := f.mem.CreateRecord(ctx, store.NewRecord{
		Title:        title,
		FilePath:     filePath,
		DataSnapshot: payload.Payload{"client": payload.Payload{"id": clientID}},
		ClientID:     clientID,
	})
	require.NoError(t, err)
	return doc
}

func TestService_ListNewestFirst(t *testing.T) {
	f := newFixture(t)
	first := f.add(t, "c1", "Procuração INSS", "uploads/a.pdf", "a")
	second := f.add(t, "c1", "LOAS - Idoso", "uploads/b.pdf", "b")
	f.add(t, "c2", "LOAS - Idoso", "uploads/c.pdf", "c")

	got, err := f.svc.List(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, second.ID, got[0].ID)
	assert.Equal(t, first.ID, got[1].ID)
	assert.Equal(t, "LOAS - Idoso", got[0].Title)
	assert.True(t, got[0].CreatedAt.After(got[1].CreatedAt))

	_, err = f.svc.List(context.Background(), " ")
	assert.Error(t, err)
}

func TestService_Download(t *testing.T) {
	f := newFixture(t)
	doc := f.add(t, "c1", "LOAS - Idoso", "uploads/loas-idoso-Ana-1.pdf", "%PDF-1.4")

	file, err := f.svc.Download(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "loas-idoso-Ana-1.pdf", file.Name)
	assert.Equal(t, "uploads/loas-idoso-Ana-1.pdf", file.Path)
	assert.Equal(t, []byte("%PDF-1.4"), file.Data)

	_, err = f.svc.Download(context.Background(), "missing")
	assert.True(t, errors.Is(err, documents.ErrNotFound), "got %v", err)

	require.NoError(t, f.blobs.Delete(context.Background(), doc.FilePath))
	_, err = f.svc.Download(context.Background(), doc.ID)
	assert.True(t, errors.Is(err, documents.ErrNotFound), "got %v", err)
}

func TestService_ExportZip(t *testing.T) {
	f := newFixture(t)
	a := f.add(t, "c1", "LOAS - Idoso", "uploads/doc.pdf", "first")
	b := f.add(t, "c1", "LOAS - Idoso", "archive/doc.pdf", "second")
	c := f.add(t, "c1", "Procuração INSS", "uploads/inss.pdf", "third")

	var buf bytes.Buffer
	require.NoError(t, f.svc.ExportZip(context.Background(), []string{a.ID, b.ID, c.ID}, &buf))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	names := make([]string, 0, len(zr.File))
	contents := make([]string, 0, len(zr.File))
	for _, entry := range zr.File {
		names = append(names, entry.Name)
		rc, err := entry.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, rc.Close())
		require.NoError(t, err)
		contents = append(contents, string(data))
	}
	assert.Equal(t, []string{"doc.pdf", "doc-2.pdf", "inss.pdf"}, names)
	assert.Equal(t, []string{"first", "second", "third"}, contents)
}

func TestService_ExportZipFailures(t *testing.T) {
	f := newFixture(t)
	a := f.add(t, "c1", "LOAS - Idoso", "uploads/doc.pdf", "first")

	var buf bytes.Buffer
	err := f.svc.ExportZip(context.Background(), []string{a.ID, "missing"}, &buf)
	assert.True(t, errors.Is(err, documents.ErrNotFound), "got %v", err)

	assert.Error(t, f.svc.ExportZip(context.Background(), nil, &buf))
}
