//go:build !gcp

package artifacts

import (
	"context"
	"fmt"
)

func newGCSStore(context.Context, Config) (BlobStore, error) {
	return nil, fmt.Errorf("artifacts: gcs storage is not enabled in this build (use -tags gcp)")
}
