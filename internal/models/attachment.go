// Package models defines the data types shared by the attachment engine and
// its storage layers.
package models

import "time"

// Attachment is a committed attachment: a metadata row paired with a blob in
// object storage. It exists only once both halves exist; the commit protocol
// never leaves one without the other on its own success paths.
type Attachment struct {
	// ID is the server-assigned identifier from the metadata store.
	ID int64
	// ParentID links the attachment to the record (form instance) it belongs to.
	ParentID string
	// StorageKey is the object-storage key of the blob.
	StorageKey string
	// PublicURL is derived deterministically from StorageKey; never stored.
	PublicURL string
	// Caption is the only field mutated after creation.
	Caption string
	// CreatedAt is assigned by the metadata store on insert.
	CreatedAt time.Time
}
