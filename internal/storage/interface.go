package storage

import (
	"context"
	"io"
)

// ObjectStorage is where the exported catalogue is published for static hosting.
type ObjectStorage interface {
	// EnsureBucket creates the bucket if the provider allows it.
	EnsureBucket(ctx context.Context) error

	// Upload uploads an object to storage
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error

	// GetURL returns the public URL for an object
	GetURL(key string) string

	// Exists checks if an object exists
	Exists(ctx context.Context, key string) (bool, error)
}
