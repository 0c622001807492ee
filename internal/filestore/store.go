// Package filestore keeps attachment blobs under their stored names.
package filestore

import (
	"context"
	"fmt"
	"io"

	"github.com/frahmantamala/grievance-management/internal"
)

// Store is a flat namespace of blobs. Open returns internal.ErrFileNotFound
// for unknown names.
type Store interface {
	Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Delete(ctx context.Context, name string) error
}

// New builds the store selected by cfg.Driver.
func New(ctx context.Context, cfg internal.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case "", internal.StorageDriverLocal:
		return NewLocalStore(cfg.UploadDir)
	case internal.StorageDriverMinio:
		return NewMinioStore(ctx, cfg.Minio)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
