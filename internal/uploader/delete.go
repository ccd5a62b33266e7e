package uploader

import (
	"context"
	"errors"
	"fmt"

	"github.com/mkhramtsov/siteforms/internal/common"
	"github.com/mkhramtsov/siteforms/internal/models"
)

// Delete removes a committed attachment: the blob and the metadata row are
// deleted independently, and a failure of either half is reported, never
// swallowed. The parent list only drops the entry once both halves have
// confirmed, so the local list cannot diverge from the stores.
//
// User confirmation before calling this is the caller's concern.
func (e *Engine) Delete(ctx context.Context, a models.Attachment) error {
	storeErr := e.store.Remove(ctx, a.StorageKey)
	if storeErr != nil {
		e.logger.Error(ctx, "blob delete failed", "storage_key", a.StorageKey, "error", storeErr)
	}

	metaErr := e.repo.Delete(ctx, a.ID)
	if metaErr != nil {
		e.logger.Error(ctx, "metadata delete failed", "attachment_id", a.ID, "error", metaErr)
	}

	if storeErr != nil || metaErr != nil {
		return fmt.Errorf("%w: %v", common.ErrorDeletion, errors.Join(storeErr, metaErr))
	}

	e.sink.Update(func(prev []models.Attachment) []models.Attachment {
		out := make([]models.Attachment, 0, len(prev))
		for _, item := range prev {
			if item.ID != a.ID {
				out = append(out, item)
			}
		}
		return out
	})

	return nil
}
