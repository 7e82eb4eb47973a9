package kinds

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-legaldocs/pkg/adapters"
	"github.com/goliatone/go-legaldocs/pkg/assets"
	"github.com/goliatone/go-legaldocs/pkg/compositor"
	"github.com/goliatone/go-legaldocs/pkg/payload"
)

// ErrNotRegistered is returned by Get for unknown titles.
var ErrNotRegistered = errors.New("kinds: document kind not registered")

// LayoutFunc builds the page setup of a kind. Header and footer bands can
// embed images from the asset source.
type LayoutFunc func(*assets.Source) (compositor.Layout, error)

// Image binds a bundled image to a payload path at render time.
type Image struct {
	Path  string
	Asset string
}

// Kind is one document variant: the mapper that produces its canonical
// payload, its page setup and the images injected before rendering.
type Kind struct {
	Title  string
	Folder string
	Map    adapters.Mapper
	Layout LayoutFunc
	Images []Image
}

// Registry stores kinds by title.
type Registry struct {
	mu    sync.RWMutex
	kinds map[string]Kind
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		kinds: make(map[string]Kind),
	}
}

// Register adds a kind. Duplicate titles return an error.
func (r *Registry) Register(kind Kind) error {
	key := normalizeTitle(kind.Title)
	if key == "" {
		return fmt.Errorf("kinds: title is required")
	}
	if kind.Map == nil {
		return fmt.Errorf("kinds: %q: mapper is required", kind.Title)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.kinds[key]; exists {
		return fmt.Errorf("kinds: %q already registered", kind.Title)
	}
	r.kinds[key] = kind
	return nil
}

// MustRegister panics on registration failure.
func (r *Registry) MustRegister(kind Kind) {
	if err := r.Register(kind); err != nil {
		panic(err)
	}
}

// Get retrieves a kind by title.
func (r *Registry) Get(title string) (Kind, error) {
	kind, ok := r.Lookup(title)
	if !ok {
		return Kind{}, fmt.Errorf("%w: %q", ErrNotRegistered, title)
	}
	return kind, nil
}

// Lookup retrieves a kind by title, reporting whether it exists.
func (r *Registry) Lookup(title string) (Kind, bool) {
	key := normalizeTitle(title)
	if key == "" {
		return Kind{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	kind, ok := r.kinds[key]
	return kind, ok
}

// Has reports whether a kind is registered.
func (r *Registry) Has(title string) bool {
	_, ok := r.Lookup(title)
	return ok
}

// List returns the registered titles, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	titles := make([]string, 0, len(r.kinds))
	for _, kind := range r.kinds {
		titles = append(titles, kind.Title)
	}
	sort.Strings(titles)
	return titles
}

// Adapt runs the mapper registered for title. Unknown titles pass the payload
// through unchanged.
func (r *Registry) Adapt(normalized payload.Payload, title string) (payload.Payload, error) {
	kind, ok := r.Lookup(title)
	if !ok {
		return normalized.Clone(), nil
	}
	out, err := kind.Map(normalized)
	if err != nil {
		return nil, fmt.Errorf("kinds: adapt %q: %w", kind.Title, err)
	}
	return out, nil
}

// LayoutFor returns the page setup for title, falling back to the default
// layout for unknown titles or kinds without one.
func (r *Registry) LayoutFor(title string, src *assets.Source) (compositor.Layout, error) {
	kind, ok := r.Lookup(title)
	if !ok || kind.Layout == nil {
		return DefaultLayout(src)
	}
	return kind.Layout(src)
}

// Decorate returns a copy of p with the kind's images set. The stored
// snapshot never carries these values.
func (r *Registry) Decorate(p payload.Payload, title string, src *assets.Source) (payload.Payload, error) {
	out := p.Clone()
	kind, ok := r.Lookup(title)
	if !ok {
		return out, nil
	}
	for _, img := range kind.Images {
		uri, err := src.DataURI(img.Asset)
		if err != nil {
			return nil, fmt.Errorf("kinds: decorate %q: %w", kind.Title, err)
		}
		out.Set(img.Path, uri)
	}
	return out, nil
}

func normalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}
