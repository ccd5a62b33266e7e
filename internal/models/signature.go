package models

import "time"

// SignatureCapture is the input for the single-item signature flow: a raster
// artifact produced by some capture surface, plus the identity of the signer.
// How the bytes were produced (canvas, stylus pad, scanned form) is the
// caller's concern; the commit protocol only sees the buffer.
type SignatureCapture struct {
	ParentID  string `validate:"required,uuid"`
	ActorID   string `validate:"required,uuid"`
	ActorName string `validate:"required"`
	Role      string `validate:"required,oneof=supervisor foreman worker inspector visitor"`
	PNG       []byte `validate:"required"`
	Width     int
	Height    int
}

// SignatureRecord is a committed signature: the stored blob plus its
// metadata row and capture details, handed back to the caller directly.
type SignatureRecord struct {
	ID         int64
	ParentID   string
	ActorID    string
	ActorName  string
	Role       string
	StorageKey string
	PublicURL  string
	Width      int
	Height     int
	CreatedAt  time.Time
}
