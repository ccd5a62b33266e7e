// Package uploader implements the attachment upload and consistency engine:
// it validates locally selected assets, drains them one at a time through a
// two-phase commit (object-store blob, then metadata row), applies the
// batch's successes to the caller-owned attachment list in a single merge,
// and reconciles local state against the authoritative metadata store.
//
// The engine owns no persisted state of its own; everything durable lives in
// the two collaborator stores it is handed.
package uploader

import (
	"context"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/mkhramtsov/siteforms/internal/logging"
	"github.com/mkhramtsov/siteforms/internal/models"
	"github.com/mkhramtsov/siteforms/internal/objectstore"
	"github.com/mkhramtsov/siteforms/internal/repositories/attachments"
)

// ParentSink is the caller-owned attachment list of one record. Update must
// apply the transform atomically against the latest value; the engine never
// captures a stale snapshot, so concurrent edits to sibling fields are never
// clobbered.
type ParentSink interface {
	Update(apply func(prev []models.Attachment) []models.Attachment)
}

// SlotListener observes slot lifecycle changes for progress/error UI.
// It receives a copy; mutating it has no effect on the engine.
type SlotListener func(models.Slot)

// Engine drives uploads for a single parent record.
type Engine struct {
	parentID string
	store    objectstore.Store
	repo     attachments.Repository
	sink     ParentSink
	policy   Policy
	logger   logging.Logger
	validate *validator.Validate

	// baseCtx drives drain loops, which outlive the Add call that
	// triggered them: once enqueued, an item is always attempted.
	baseCtx context.Context

	mu       sync.Mutex
	cond     *sync.Cond
	queue    []*models.Slot
	failed   []*models.Slot
	draining bool
	drafts   map[int64]string
	onSlot   SlotListener
}

// New builds an engine bound to one parent record. ctx drives background
// drains and should live as long as the record is being edited.
func New(ctx context.Context, parentID string, store objectstore.Store, repo attachments.Repository,
	sink ParentSink, policy Policy, logger logging.Logger) *Engine {

	e := &Engine{
		parentID: parentID,
		store:    store,
		repo:     repo,
		sink:     sink,
		policy:   policy,
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		baseCtx:  ctx,
		drafts:   make(map[int64]string),
	}
	e.cond = sync.NewCond(&e.mu)
	return e
}

// SetSlotListener registers the progress observer. Call before Add.
func (e *Engine) SetSlotListener(fn SlotListener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onSlot = fn
}

// Wait blocks until the queue is empty and no drain is running.
func (e *Engine) Wait() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for e.draining || len(e.queue) > 0 {
		e.cond.Wait()
	}
}

// FailedSlots returns the error slots still awaiting dismissal, oldest first.
func (e *Engine) FailedSlots() []models.Slot {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]models.Slot, 0, len(e.failed))
	for _, s := range e.failed {
		out = append(out, *s)
	}
	return out
}

// Dismiss destroys one failed slot. Returns false if the id is unknown.
func (e *Engine) Dismiss(slotID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, s := range e.failed {
		if s.ID == slotID {
			e.failed = append(e.failed[:i], e.failed[i+1:]...)
			return true
		}
	}
	return false
}

func (e *Engine) notify(s *models.Slot) {
	e.mu.Lock()
	fn := e.onSlot
	snapshot := *s
	e.mu.Unlock()
	if fn != nil {
		fn(snapshot)
	}
}
