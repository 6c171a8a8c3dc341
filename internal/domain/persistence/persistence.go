package persistence

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Named partitions used by the repositories. Every key the service persists
// lives in exactly one of these.
const (
	PartitionMediaMeta = "media-meta"
	PartitionMessages  = "messages"
	PartitionSettings  = "settings"
)

// ErrNotFound is returned by Store.Get and BlobStore.Open when the addressed
// key does not exist. Callers treat it as a normal outcome, not a failure.
var ErrNotFound = errors.New("key not found")

// Store is the metadata side of the persistence backend: a key/value
// capability over named partitions. Implementations may be local (files on
// disk) or remote (database); repositories are written against this contract
// and never against a concrete backend.
type Store interface {
	// Get returns the stored value for key, or ErrNotFound.
	Get(ctx context.Context, partition, key string) ([]byte, error)

	// Set stores value under key, overwriting any previous value.
	Set(ctx context.Context, partition, key string, value []byte) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, partition, key string) error
}

// BlobStore is the payload side of the persistence backend. Binary payloads
// are addressed by storage key, never embedded in metadata records.
type BlobStore interface {
	// Upload stores the payload under key.
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error

	// Open returns the payload stream and its content type, or ErrNotFound.
	Open(ctx context.Context, key string) (io.ReadCloser, string, error)

	// URL returns a fetchable URL for the payload. Backends that cannot mint
	// URLs return "" with a nil error; callers fall back to streaming via Open.
	URL(ctx context.Context, key string) (string, error)

	// Delete removes the payload. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// ConfigError reports a backend that cannot be constructed because required
// configuration is missing or still holds placeholder values. It is returned
// at startup so the process fails with an actionable diagnostic instead of
// degrading into a backend whose every call fails.
type ConfigError struct {
	Backend string
	Missing []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s backend is not configured: set %v", e.Backend, e.Missing)
}
