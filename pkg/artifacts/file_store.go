package artifacts

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore keeps blobs under a base directory on local disk.
type FileStore struct {
	baseDir string
}

var _ BlobStore = (*FileStore)(nil)

// NewFileStore creates the base directory when missing.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("artifacts: file store base dir is required")
	}
	if err := os.MkdirAll(baseDir, 0o750); err != nil {
		return nil, storageErr("mkdir", baseDir, err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

// BaseDir returns the directory blobs are written under.
func (s *FileStore) BaseDir() string { return s.baseDir }

// Write stores data atomically: a temp file in the target directory is
// renamed into place.
func (s *FileStore) Write(ctx context.Context, p string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return storageErr("write", p, err)
	}
	full, err := s.resolve(p)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
		return storageErr("write", p, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(full), ".tmp-*")
	if err != nil {
		return storageErr("write", p, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return storageErr("write", p, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return storageErr("write", p, err)
	}
	if err := os.Rename(tmpName, full); err != nil {
		_ = os.Remove(tmpName)
		return storageErr("write", p, err)
	}
	return nil
}

func (s *FileStore) Read(ctx context.Context, p string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, storageErr("read", p, err)
	}
	full, err := s.resolve(p)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, storageErr("read", p, ErrBlobNotFound)
	}
	if err != nil {
		return nil, storageErr("read", p, err)
	}
	return data, nil
}

// Delete removes a blob. Missing blobs are not an error.
func (s *FileStore) Delete(ctx context.Context, p string) error {
	if err := ctx.Err(); err != nil {
		return storageErr("delete", p, err)
	}
	full, err := s.resolve(p)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return storageErr("delete", p, err)
	}
	return nil
}

func (s *FileStore) resolve(p string) (string, error) {
	cleaned, err := CleanPath(p)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.baseDir, filepath.FromSlash(cleaned)), nil
}
