package uploader

import (
	"context"
	"fmt"

	"github.com/mkhramtsov/siteforms/internal/common"
	"github.com/mkhramtsov/siteforms/internal/models"
)

// MergeAttachments appends to local every authoritative attachment whose id
// is not yet known locally. It is pure: when nothing is missing it returns
// local unchanged, which makes repeated reconciliation a no-op.
func MergeAttachments(local, authoritative []models.Attachment) []models.Attachment {
	known := make(map[int64]struct{}, len(local))
	for _, a := range local {
		known[a.ID] = struct{}{}
	}

	out := local
	copied := false
	for _, a := range authoritative {
		if _, ok := known[a.ID]; ok {
			continue
		}
		if !copied {
			out = append([]models.Attachment(nil), local...)
			copied = true
		}
		out = append(out, a)
	}
	return out
}

// Reconcile reads the authoritative attachment list for the parent record
// and appends anything missing from local state via the parent sink. It is
// idempotent and safe to run after errors, reloads, or concurrent sessions.
func (e *Engine) Reconcile(ctx context.Context) error {
	rows, err := e.repo.SelectByParent(ctx, e.parentID)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrorReconciliation, err)
	}

	authoritative := make([]models.Attachment, 0, len(rows))
	for _, r := range rows {
		a := *r
		a.PublicURL = e.store.PublicReference(a.StorageKey)
		authoritative = append(authoritative, a)
	}

	e.sink.Update(func(prev []models.Attachment) []models.Attachment {
		return MergeAttachments(prev, authoritative)
	})

	return nil
}

// reconcile is the post-drain pass: a failure is logged and skipped, local
// state stays as accumulated and the next successful pass catches up.
func (e *Engine) reconcile(ctx context.Context) {
	if err := e.Reconcile(ctx); err != nil {
		e.logger.Warn(ctx, "reconciliation skipped", "parent_id", e.parentID, "error", err)
	}
}
