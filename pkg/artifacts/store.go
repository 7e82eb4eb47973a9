// Package artifacts stores the binary documents produced by the pipeline.
// Paths are slash separated and relative, e.g. "uploads/contrato-Ana-1.pdf".
package artifacts

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
)

var (
	// ErrStorage marks every failure of a blob backend.
	ErrStorage = errors.New("artifact storage failure")
	// ErrBlobNotFound is returned by Read for a missing path. It is always
	// joined with ErrStorage.
	ErrBlobNotFound = errors.New("artifact not found")
)

// BlobStore writes, reads and deletes blobs by path.
type BlobStore interface {
	Write(ctx context.Context, path string, data []byte) error
	Read(ctx context.Context, path string) ([]byte, error)
	Delete(ctx context.Context, path string) error
}

// StorageError records which operation failed on which path.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("artifacts: %s %q: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() []error { return []error{ErrStorage, e.Err} }

func storageErr(op, p string, err error) error {
	return &StorageError{Op: op, Path: p, Err: err}
}

// CleanPath validates a blob path and returns its canonical form. Absolute
// paths and parent references are rejected.
func CleanPath(p string) (string, error) {
	trimmed := strings.TrimSpace(strings.ReplaceAll(p, "\\", "/"))
	if trimmed == "" {
		return "", storageErr("validate", p, errors.New("empty path"))
	}
	if strings.HasPrefix(trimmed, "/") {
		return "", storageErr("validate", p, errors.New("absolute path"))
	}
	cleaned := path.Clean(trimmed)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", storageErr("validate", p, errors.New("path escapes the store"))
	}
	return cleaned, nil
}
