package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/goliatone/go-legaldocs/pkg/store"
)

// WatchOption configures Watch.
type WatchOption func(*watchConfig)

type watchConfig struct {
	logger   *slog.Logger
	debounce time.Duration
	onReload func([]store.Template, error)
}

// WithWatchLogger sets the logger used for reload events.
func WithWatchLogger(logger *slog.Logger) WatchOption {
	return func(c *watchConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDebounce sets how long the directory must stay quiet before a reload.
func WithDebounce(d time.Duration) WatchOption {
	return func(c *watchConfig) {
		if d > 0 {
			c.debounce = d
		}
	}
}

// WithOnReload is called after every reseed, including failed ones.
func WithOnReload(fn func([]store.Template, error)) WatchOption {
	return func(c *watchConfig) {
		c.onReload = fn
	}
}

// Watch seeds dir once, then reseeds whenever files under it change. It
// blocks until ctx is done. A failed reload is logged and the previous
// templates stay in the store.
func Watch(ctx context.Context, dir string, w store.TemplateWriter, opts ...WatchOption) error {
	cfg := watchConfig{logger: slog.Default(), debounce: 250 * time.Millisecond}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	logger := cfg.logger.With("component", "catalog", "dir", dir)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("catalog: create watcher: %w", err)
	}
	defer watcher.Close()

	if err := addTree(watcher, dir); err != nil {
		return err
	}

	reload := func() {
		templates, err := Seed(ctx, os.DirFS(dir), w, logger)
		if err != nil {
			logger.Error("catalog reload failed", "error", err)
		}
		if cfg.onReload != nil {
			cfg.onReload(templates, err)
		}
	}
	reload()

	timer := time.NewTimer(cfg.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := addTree(watcher, event.Name); err != nil {
						logger.Warn("watch new folder", "path", event.Name, "error", err)
					}
				}
			}
			timer.Reset(cfg.debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)
		case <-timer.C:
			reload()
		}
	}
}

func addTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := watcher.Add(p); err != nil {
			return fmt.Errorf("catalog: watch %s: %w", p, err)
		}
		return nil
	})
}
