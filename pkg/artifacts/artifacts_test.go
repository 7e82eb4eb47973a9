package artifacts

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanPath(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "uploads/a.pdf", want: "uploads/a.pdf"},
		{in: "uploads//b/../a.pdf", want: "uploads/a.pdf"},
		{in: `uploads\a.pdf`, want: "uploads/a.pdf"},
		{in: "", wantErr: true},
		{in: "/etc/passwd", wantErr: true},
		{in: "../secret", wantErr: true},
		{in: "uploads/../../x", wantErr: true},
		{in: ".", wantErr: true},
	}
	for _, tc := range tests {
		got, err := CleanPath(tc.in)
		if tc.wantErr {
			assert.ErrorIs(t, err, ErrStorage, "path %q", tc.in)
			continue
		}
		require.NoError(t, err, "path %q", tc.in)
		assert.Equal(t, tc.want, got)
	}
}

func blobStores(t *testing.T) map[string]BlobStore {
	fileStore, err := NewFileStore(filepath.Join(t.TempDir(), "artifacts"))
	require.NoError(t, err)
	return map[string]BlobStore{
		"file":   fileStore,
		"memory": NewMemoryStore(),
		"s3":     newS3Store(newFakeS3(), "docs", "legal/"),
	}
}

func TestBlobStores_RoundTrip(t *testing.T) {
	for name, s := range blobStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			data := []byte("%PDF-1.4 contrato")

			require.NoError(t, s.Write(ctx, "uploads/contrato-Ana-1.pdf", data))
			data[0] = 'X'

			got, err := s.Read(ctx, "uploads/contrato-Ana-1.pdf")
			require.NoError(t, err)
			assert.Equal(t, []byte("%PDF-1.4 contrato"), got)

			require.NoError(t, s.Write(ctx, "uploads/contrato-Ana-1.pdf", []byte("v2")))
			got, err = s.Read(ctx, "uploads/contrato-Ana-1.pdf")
			require.NoError(t, err)
			assert.Equal(t, []byte("v2"), got)

			require.NoError(t, s.Delete(ctx, "uploads/contrato-Ana-1.pdf"))
			_, err = s.Read(ctx, "uploads/contrato-Ana-1.pdf")
			assert.ErrorIs(t, err, ErrBlobNotFound)
			assert.ErrorIs(t, err, ErrStorage)

			require.NoError(t, s.Delete(ctx, "uploads/never-written.pdf"))

			err = s.Write(ctx, "../escape.pdf", data)
			assert.ErrorIs(t, err, ErrStorage)
		})
	}
}

func TestFileStore_WritesUnderBaseDirWithoutTempLeftovers(t *testing.T) {
	base := t.TempDir()
	s, err := NewFileStore(base)
	require.NoError(t, err)

	require.NoError(t, s.Write(context.Background(), "uploads/a.pdf", []byte("a")))

	entries, err := os.ReadDir(filepath.Join(base, "uploads"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.pdf", entries[0].Name())
}

func TestFileStore_CancelledContext(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = s.Write(ctx, "uploads/a.pdf", []byte("a"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, ErrStorage)
}

func TestS3Store_PrefixAndContentType(t *testing.T) {
	fake := newFakeS3()
	s := newS3Store(fake, "docs", "legal/")

	require.NoError(t, s.Write(context.Background(), "uploads/a.pdf", []byte("x")))
	assert.Equal(t, "application/pdf", fake.contentTypes["legal/uploads/a.pdf"])
}

func TestS3Store_BackendFailure(t *testing.T) {
	fake := newFakeS3()
	fake.fail = errors.New("throttled")
	s := newS3Store(fake, "docs", "")

	err := s.Write(context.Background(), "uploads/a.pdf", []byte("x"))
	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorContains(t, err, "throttled")
}

func TestNew_Factory(t *testing.T) {
	ctx := context.Background()

	dir := t.TempDir()
	s, err := New(ctx, Config{Dir: dir})
	require.NoError(t, err)
	fs, ok := s.(*FileStore)
	require.True(t, ok, "expected *FileStore, got %T", s)
	assert.Equal(t, dir, fs.BaseDir())

	s, err = New(ctx, Config{Type: "MEMORY"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	_, err = New(ctx, Config{Type: StoreTypeS3})
	assert.ErrorContains(t, err, "ARTIFACT_S3_BUCKET")

	_, err = New(ctx, Config{Type: "ftp"})
	assert.ErrorContains(t, err, "unsupported storage type")
}

type fakeS3 struct {
	mu           sync.Mutex
	objects      map[string][]byte
	contentTypes map[string]string
	fail         error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, contentTypes: map[string]string{}}
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	key := aws.ToString(in.Key)
	f.objects[key] = data
	f.contentTypes[key] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("missing")}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}
