// Package objectstore abstracts the durable blob backend the attachment
// engine writes to. The engine only ever needs three operations: a
// no-overwrite put, a best-effort remove, and a deterministic public
// reference for a stored key.
package objectstore

import "context"

// Store is the object-storage contract used by the commit and deletion
// protocols.
type Store interface {
	// Put writes body under key and fails with common.ErrorKeyExists if the
	// key is already present. It never overwrites.
	Put(ctx context.Context, key string, body []byte, contentType string) error

	// Remove deletes the given keys. Removal is best-effort batch semantics:
	// the caller decides whether a failure is fatal.
	Remove(ctx context.Context, keys ...string) error

	// PublicReference derives the public URL for a stored key. It is pure
	// and deterministic: same key, same result, no I/O.
	PublicReference(key string) string
}
