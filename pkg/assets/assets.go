// Package assets bundles the static images stamped onto generated documents:
// the firm logo used in page headers and the official seal used by federal
// forms.
package assets

import (
	"embed"
	"encoding/base64"
	"fmt"
	"io/fs"
	"path"
	"sync"
)

// Asset names.
const (
	Logo   = "logo"
	Brasao = "brasao"
)

//go:embed files/*.png
var embedded embed.FS

// EmbeddedFS returns the bundled image files.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embedded, "files")
	if err != nil {
		panic(err)
	}
	return sub
}

// Source resolves named images to data URIs. Files are read once and the
// encoded value is cached.
type Source struct {
	fsys  fs.FS
	mu    sync.Mutex
	cache map[string]string
}

// NewSource reads images from fsys. A nil fsys selects the bundled images.
func NewSource(fsys fs.FS) *Source {
	if fsys == nil {
		fsys = EmbeddedFS()
	}
	return &Source{fsys: fsys, cache: make(map[string]string)}
}

var (
	defaultOnce   sync.Once
	defaultSource *Source
)

// Default returns the shared source over the bundled images.
func Default() *Source {
	defaultOnce.Do(func() {
		defaultSource = NewSource(nil)
	})
	return defaultSource
}

// DataURI returns "data:image/png;base64,..." for the named image.
func (s *Source) DataURI(name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if uri, ok := s.cache[name]; ok {
		return uri, nil
	}
	data, err := fs.ReadFile(s.fsys, path.Clean(name)+".png")
	if err != nil {
		return "", fmt.Errorf("assets: read %q: %w", name, err)
	}
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)
	s.cache[name] = uri
	return uri, nil
}

// MustDataURI panics when the image is missing.
func (s *Source) MustDataURI(name string) string {
	uri, err := s.DataURI(name)
	if err != nil {
		panic(err)
	}
	return uri
}
