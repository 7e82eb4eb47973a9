package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/goliatone/go-legaldocs/pkg/artifacts"
	"github.com/goliatone/go-legaldocs/pkg/compositor"
	"github.com/goliatone/go-legaldocs/pkg/config"
	"github.com/goliatone/go-legaldocs/pkg/documents"
	"github.com/goliatone/go-legaldocs/pkg/observability"
	"github.com/goliatone/go-legaldocs/pkg/orchestrator"
	"github.com/goliatone/go-legaldocs/pkg/store"
)

// app holds the wired services one command invocation works with.
type app struct {
	cfg       config.Config
	logger    *slog.Logger
	store     store.Store
	blobs     artifacts.BlobStore
	orch      *orchestrator.Orchestrator
	docs      *documents.Service
	telemetry *observability.Provider
}

// openApp builds the services from configuration. Tests replace it.
var openApp = newApp

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(config.Options{File: configFile, EnvFiles: envFiles})
	if err != nil {
		return nil, err
	}

	logger, err := observability.NewLogger(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	a := &app{cfg: cfg, logger: logger}
	ok := false
	defer func() {
		if !ok {
			_ = a.Close(context.WithoutCancel(ctx))
		}
	}()

	a.telemetry, err = observability.New(ctx, observability.Config{
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: version,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
	})
	if err != nil {
		return nil, err
	}

	a.store, err = store.OpenSQL(ctx, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	a.blobs, err = artifacts.New(ctx, cfg.Artifacts)
	if err != nil {
		return nil, err
	}

	opts := []orchestrator.Option{
		orchestrator.WithStore(a.store),
		orchestrator.WithBlobStore(a.blobs),
		orchestrator.WithCompositor(compositor.NewChrome(
			compositor.WithBrowserBin(cfg.Compose.ChromeBin),
			compositor.WithComposeTimeout(cfg.Compose.Timeout),
			compositor.WithLogger(logger.With("component", "compositor")),
		)),
		orchestrator.WithConcurrency(cfg.Concurrency),
		orchestrator.WithStrictSchema(cfg.StrictSchema),
		orchestrator.WithUploadDir(cfg.UploadDir),
		orchestrator.WithLogger(logger.With("component", "orchestrator")),
		orchestrator.WithTracer(a.telemetry.Tracer()),
		orchestrator.WithMeter(a.telemetry.Meter()),
	}
	if cfg.PresetsFile != "" {
		presets, err := orchestrator.NewJSONPresetTransformerFromFS(
			os.DirFS(filepath.Dir(cfg.PresetsFile)), filepath.Base(cfg.PresetsFile))
		if err != nil {
			return nil, err
		}
		opts = append(opts, orchestrator.WithTransformer(presets))
	}

	a.orch = orchestrator.New(opts...)
	a.docs = documents.New(a.store, a.blobs, documents.WithLogger(logger.With("component", "documents")))
	ok = true
	return a, nil
}

// Close releases the store, the blob backend and flushes telemetry.
func (a *app) Close(ctx context.Context) error {
	var errs []error
	if a.store != nil {
		errs = append(errs, a.store.Close())
	}
	if c, ok := a.blobs.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	if a.telemetry != nil {
		errs = append(errs, a.telemetry.Shutdown(ctx))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("docgen: close: %w", err)
	}
	return nil
}

// withApp opens the services, runs fn and closes them again.
func withApp(ctx context.Context, fn func(*app) error) (err error) {
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, a.Close(context.WithoutCancel(ctx)))
	}()
	return fn(a)
}
