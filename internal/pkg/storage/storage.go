package storage

import (
	"context"
	"io"
)

// Storage defines the minimal interface for object storage backends.
// Intentionally simple: Put an object, Delete it, get its public URL.
type Storage interface {
	// Put stores an object under the given key and returns an error on failure.
	Put(ctx context.Context, key string, reader io.Reader, contentType string) error

	// Delete removes an object by key. Returns nil if the object doesn't exist.
	Delete(ctx context.Context, key string) error

	// PublicURL returns the public URL for an object given its key.
	PublicURL(key string) string
}
