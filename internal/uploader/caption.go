package uploader

import (
	"context"
	"fmt"

	"github.com/mkhramtsov/siteforms/internal/common"
	"github.com/mkhramtsov/siteforms/internal/models"
)

// SetCaptionDraft records a keystroke-level caption edit for one committed
// attachment. Drafts are purely local: nothing is written to the metadata
// store until CommitCaption.
func (e *Engine) SetCaptionDraft(id int64, text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.drafts[id] = text
}

// CaptionDraft returns the current draft, if one exists. The UI echoes this
// value while the field has focus.
func (e *Engine) CaptionDraft(id int64) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	text, ok := e.drafts[id]
	return text, ok
}

// CommitCaption is the blur boundary: the buffered draft is written to the
// metadata store and folded into the parent list. Without a draft it writes
// nothing. A draft that is never committed is simply lost; that is the
// accepted behavior, not a bug.
func (e *Engine) CommitCaption(ctx context.Context, id int64) error {
	e.mu.Lock()
	text, ok := e.drafts[id]
	e.mu.Unlock()
	if !ok {
		return nil
	}

	if err := e.repo.UpdateCaption(ctx, id, text); err != nil {
		return fmt.Errorf("%w: %v", common.ErrorPersistence, err)
	}

	e.sink.Update(func(prev []models.Attachment) []models.Attachment {
		out := append([]models.Attachment(nil), prev...)
		for i := range out {
			if out[i].ID == id {
				out[i].Caption = text
			}
		}
		return out
	})

	e.mu.Lock()
	delete(e.drafts, id)
	e.mu.Unlock()

	return nil
}
