package uploader

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mkhramtsov/siteforms/internal/common"
	sc "github.com/mkhramtsov/siteforms/internal/config"
	"github.com/mkhramtsov/siteforms/internal/models"
)

// Asset is a locally selected binary candidate, not yet validated.
type Asset struct {
	Name        string
	ContentType string
	Data        []byte
}

// Rejection reports one asset that failed validation. Rejected assets are
// never queued; their slot is never created.
type Rejection struct {
	Asset  Asset
	Reason error
}

// Policy is the validation configuration for one record's attachments.
type Policy struct {
	AllowedTypes []string
	MaxBytes     int64
	MaxCount     int
}

// PolicyFromConfig maps the runtime configuration onto a Policy.
func PolicyFromConfig(cfg *sc.Config) Policy {
	return Policy{
		AllowedTypes: cfg.AllowedTypes,
		MaxBytes:     cfg.MaxAttachmentBytes,
		MaxCount:     cfg.MaxAttachmentsPerRecord,
	}
}

// Check validates a single asset's type and size.
func (p Policy) Check(a Asset) error {
	if !p.typeAllowed(a.ContentType) {
		return fmt.Errorf("%w: %s", common.ErrorUnsupportedType, a.ContentType)
	}
	if int64(len(a.Data)) > p.MaxBytes {
		return fmt.Errorf("%w: %d bytes (limit %d)", common.ErrorFileTooLarge, len(a.Data), p.MaxBytes)
	}
	return nil
}

func (p Policy) typeAllowed(contentType string) bool {
	for _, t := range p.AllowedTypes {
		if t == contentType {
			return true
		}
	}
	return false
}

// Add validates a batch of assets and queues the valid ones for upload.
//
// The capacity check runs first, against the authoritative committed count:
// if the batch does not fit into maxCount minus committed, the whole batch is
// rejected before any slot is created. Per-asset failures are returned as
// Rejections; the remaining assets still become slots. A drain is started
// if one is not already running.
func (e *Engine) Add(ctx context.Context, assets ...Asset) ([]Rejection, error) {
	if len(assets) == 0 {
		return nil, nil
	}

	committed, err := e.repo.CountByParent(ctx, e.parentID)
	if err != nil {
		return nil, fmt.Errorf("capacity check: %w", err)
	}

	remaining := e.policy.MaxCount - committed
	if remaining < 0 {
		remaining = 0
	}
	if len(assets) > remaining {
		return nil, fmt.Errorf("%w: only %d more allowed", common.ErrorTooManyFiles, remaining)
	}

	var rejections []Rejection
	var queued []*models.Slot

	for _, a := range assets {
		if err := e.policy.Check(a); err != nil {
			rejections = append(rejections, Rejection{Asset: a, Reason: err})
			continue
		}
		slot := &models.Slot{
			ID:          uuid.NewString(),
			Name:        a.Name,
			ContentType: a.ContentType,
			Data:        a.Data,
			Status:      models.SlotEmpty,
		}
		queued = append(queued, slot)
	}

	if len(queued) == 0 {
		return rejections, nil
	}

	for _, s := range queued {
		e.notify(s)
	}

	e.mu.Lock()
	e.queue = append(e.queue, queued...)
	e.mu.Unlock()

	e.startDrain()

	return rejections, nil
}
