package artifacts

import (
	"context"
	"fmt"
	"strings"
)

// StoreType selects a blob backend.
type StoreType string

const (
	StoreTypeFS     StoreType = "fs"
	StoreTypeMemory StoreType = "memory"
	StoreTypeS3     StoreType = "s3"
	StoreTypeGCS    StoreType = "gcs"
)

// Config selects and configures a backend. Loaded by pkg/config from the
// ARTIFACT_* environment variables.
type Config struct {
	Type     StoreType `yaml:"type"`
	Dir      string    `yaml:"dir"`
	S3Bucket string    `yaml:"s3_bucket"`
	S3Region string    `yaml:"s3_region"`
	S3Prefix string    `yaml:"s3_prefix"`
	// S3Endpoint points at MinIO or LocalStack.
	S3Endpoint string `yaml:"s3_endpoint"`
	GCSBucket  string `yaml:"gcs_bucket"`
	GCSPrefix  string `yaml:"gcs_prefix"`
}

// New builds the configured backend. An empty type selects the file store.
func New(ctx context.Context, cfg Config) (BlobStore, error) {
	switch StoreType(strings.ToLower(string(cfg.Type))) {
	case "", StoreTypeFS:
		dir := cfg.Dir
		if dir == "" {
			dir = "data"
		}
		return NewFileStore(dir)
	case StoreTypeMemory:
		return NewMemoryStore(), nil
	case StoreTypeS3:
		if cfg.S3Bucket == "" {
			return nil, fmt.Errorf("artifacts: ARTIFACT_S3_BUCKET is required for s3 storage")
		}
		region := cfg.S3Region
		if region == "" {
			region = "us-east-1"
		}
		return NewS3Store(ctx, S3StoreConfig{
			Bucket:   cfg.S3Bucket,
			Region:   region,
			Endpoint: cfg.S3Endpoint,
			Prefix:   cfg.S3Prefix,
		})
	case StoreTypeGCS:
		return newGCSStore(ctx, cfg)
	default:
		return nil, fmt.Errorf("artifacts: unsupported storage type %q", cfg.Type)
	}
}
