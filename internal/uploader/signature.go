package uploader

import (
	"context"
	"errors"
	"fmt"

	"github.com/mkhramtsov/siteforms/internal/common"
	"github.com/mkhramtsov/siteforms/internal/models"
)

// Signature submissions fail fast with one specific reason each; the checks
// run in this fixed order and short-circuit on the first failure.
var (
	ErrBadParentID      = errors.New("invalid report id")
	ErrBadActorID       = errors.New("invalid signer id")
	ErrMissingActorName = errors.New("signer name is required")
	ErrUnknownRole      = errors.New("unknown signer role")
	ErrEmptyArtifact    = errors.New("empty signature image")
)

var signatureChecks = []struct {
	field  string
	reason error
}{
	{"ParentID", ErrBadParentID},
	{"ActorID", ErrBadActorID},
	{"ActorName", ErrMissingActorName},
	{"Role", ErrUnknownRole},
	{"PNG", ErrEmptyArtifact},
}

// SubmitSignature commits a single captured artifact inline: no slot, no
// queue, no accumulator. Where the raster came from (a canvas, a stylus
// pad) is the caller's concern; the engine only sees the byte buffer.
// The committed record, including capture metadata, is delivered through
// done rather than through the parent sink.
func (e *Engine) SubmitSignature(ctx context.Context, capture models.SignatureCapture, done func(models.SignatureRecord, error)) {
	for _, c := range signatureChecks {
		if err := e.validate.StructPartialCtx(ctx, capture, c.field); err != nil {
			done(models.SignatureRecord{}, c.reason)
			return
		}
	}

	key := newStorageKey(capture.ParentID, "signature.png")

	if err := e.store.Put(ctx, key, capture.PNG, "image/png"); err != nil {
		done(models.SignatureRecord{}, fmt.Errorf("%w: %v", common.ErrorTransfer, err))
		return
	}

	rec := models.SignatureRecord{
		ParentID:   capture.ParentID,
		ActorID:    capture.ActorID,
		ActorName:  capture.ActorName,
		Role:       capture.Role,
		StorageKey: key,
		Width:      capture.Width,
		Height:     capture.Height,
	}

	if err := e.repo.InsertSignature(ctx, &rec); err != nil {
		if rerr := e.store.Remove(ctx, key); rerr != nil {
			e.logger.Error(ctx, "orphaned blob: compensating delete failed",
				"storage_key", key, "error", rerr)
		}
		done(models.SignatureRecord{}, fmt.Errorf("%w: %v", common.ErrorPersistence, err))
		return
	}

	rec.PublicURL = e.store.PublicReference(key)
	done(rec, nil)
}
