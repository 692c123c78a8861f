// Package objectstore wraps the cloud object-storage collaborator. Stored
// objects are addressed by opaque keys; clients only ever see time-limited
// signed URLs minted at read time.
package objectstore

import (
	"context"
	"io"
	"time"
)

// Store is the interface for object storage operations.
type Store interface {
	// Upload writes an object under the given key.
	Upload(ctx context.Context, key string, r io.Reader, contentType string) error

	// Delete removes the object under the given key. Deleting a missing
	// object is not an error.
	Delete(ctx context.Context, key string) error

	// SignedURL exchanges a storage key for a capability URL that expires
	// after ttl.
	SignedURL(key string, ttl time.Duration) (string, error)
}
