// Package storage abstracts the object store holding organization
// registration documents. Paths are namespaced by approval status
// ("pending/<cnpj>/<file>") and relocated when the status changes, so the
// bucket layout doubles as an audit separation.
package storage

import (
	"context"
	"time"
)

// ObjectStore is the file-storage contract the services consume.
type ObjectStore interface {
	// Upload stores data under path and returns the stored path.
	Upload(ctx context.Context, path string, data []byte, contentType string) (string, error)
	// Copy duplicates an object inside the bucket.
	Copy(ctx context.Context, from, to string) error
	// Remove deletes objects. Missing objects are not an error.
	Remove(ctx context.Context, paths ...string) error
	// SignedURL returns a time-limited download URL for path.
	SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error)
}
