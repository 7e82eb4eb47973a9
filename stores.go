package legaldocs

import (
	"context"

	"github.com/goliatone/go-legaldocs/pkg/artifacts"
	"github.com/goliatone/go-legaldocs/pkg/store"
)

// OpenStore opens the SQL record store ("sqlite" or "postgres") and applies
// its schema, keeping the concrete type hidden from consumers.
func OpenStore(ctx context.Context, driver, dsn string, options ...store.Option) (store.Store, error) {
	s, err := store.OpenSQL(ctx, driver, dsn, options...)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// NewBlobStore builds the blob backend selected by cfg.
func NewBlobStore(ctx context.Context, cfg artifacts.Config) (artifacts.BlobStore, error) {
	return artifacts.New(ctx, cfg)
}
