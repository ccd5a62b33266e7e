package uploader

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mkhramtsov/siteforms/internal/common"
	"github.com/mkhramtsov/siteforms/internal/models"
)

// newStorageKey mints a globally unique object key for one upload. It never
// depends on the original filename beyond the extension, so duplicate names
// across uploads cannot collide; the nanosecond timestamp plus a uuid keeps
// keys unique even under rapid sequential commits within one drain.
func newStorageKey(parentID, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("records/%s/%d-%s%s", parentID, time.Now().UnixNano(), uuid.New(), ext)
}

// commit runs the two-phase write for one slot: store the bytes under a
// fresh key, then insert the metadata row referencing it. On a metadata
// failure the just-written blob is deleted best-effort; if that delete also
// fails the orphan is logged, never hidden.
//
// The returned bool reports success; on failure the slot has already been
// marked Error and parked for dismissal.
func (e *Engine) commit(ctx context.Context, slot *models.Slot) (*models.Attachment, bool) {
	if err := slot.Transition(models.SlotUploading); err != nil {
		e.fail(slot, err)
		return nil, false
	}
	slot.Progress = 0
	e.notify(slot)

	key := newStorageKey(e.parentID, slot.Name)

	if err := e.store.Put(ctx, key, slot.Data, slot.ContentType); err != nil {
		e.fail(slot, fmt.Errorf("%w: %v", common.ErrorTransfer, err))
		return nil, false
	}

	slot.Progress = 60
	e.notify(slot)

	a := &models.Attachment{ParentID: e.parentID, StorageKey: key}
	if err := e.repo.Insert(ctx, a); err != nil {
		if rerr := e.store.Remove(ctx, key); rerr != nil {
			e.logger.Error(ctx, "orphaned blob: compensating delete failed",
				"storage_key", key, "error", rerr)
		}
		e.fail(slot, fmt.Errorf("%w: %v", common.ErrorPersistence, err))
		return nil, false
	}

	a.PublicURL = e.store.PublicReference(key)

	_ = slot.Transition(models.SlotUploaded)
	slot.Progress = 100
	e.notify(slot)

	return a, true
}

// fail marks the slot Error with reason and parks it until dismissal.
func (e *Engine) fail(slot *models.Slot, reason error) {
	slot.Err = reason
	_ = slot.Transition(models.SlotError)

	e.mu.Lock()
	e.failed = append(e.failed, slot)
	e.mu.Unlock()

	e.notify(slot)
}
