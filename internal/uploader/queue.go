package uploader

import (
	"context"

	"github.com/mkhramtsov/siteforms/internal/models"
)

// startDrain launches the drain goroutine unless one is already running.
// The check-and-set happens under the engine's one lock, so re-entrant Add
// calls append to the live queue instead of racing a second loop.
func (e *Engine) startDrain() {
	e.mu.Lock()
	if e.draining {
		e.mu.Unlock()
		return
	}
	e.draining = true
	e.mu.Unlock()

	go e.drain()
}

// drain is the engine's only worker. Each cycle empties the queue strictly
// in enqueue order with concurrency 1, then applies the accumulated
// successes to the parent list as one merge, then reconciles against the
// metadata store. Items enqueued during the merge are picked up by the next
// cycle, never folded into the current one.
func (e *Engine) drain() {
	ctx := e.baseCtx

	for {
		committed := e.processQueue(ctx)

		if len(committed) > 0 {
			batch := committed
			e.sink.Update(func(prev []models.Attachment) []models.Attachment {
				out := make([]models.Attachment, 0, len(prev)+len(batch))
				out = append(out, prev...)
				return append(out, batch...)
			})
		}

		e.reconcile(ctx)

		e.mu.Lock()
		if len(e.queue) == 0 {
			e.draining = false
			e.cond.Broadcast()
			e.mu.Unlock()
			return
		}
		e.mu.Unlock()
	}
}

// processQueue pops and commits slots until the queue is empty, collecting
// the successes of this cycle. A failed slot is parked for dismissal and
// never aborts the rest of the queue.
func (e *Engine) processQueue(ctx context.Context) []models.Attachment {
	var committed []models.Attachment

	for {
		e.mu.Lock()
		if len(e.queue) == 0 {
			e.mu.Unlock()
			return committed
		}
		slot := e.queue[0]
		e.queue = e.queue[1:]
		e.mu.Unlock()

		a, ok := e.commit(ctx, slot)
		if !ok {
			continue
		}
		committed = append(committed, *a)
	}
}
