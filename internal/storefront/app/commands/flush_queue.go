package commands

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/dunya/storefront/internal/storefront/ports"
	"github.com/dunya/storefront/internal/storefront/state"
)

// FlushResult summarizes one flush pass over the persisted queue.
type FlushResult struct {
	// Skipped is true when another pass was in flight or the cooldown
	// window was still open; no backend calls were made.
	Skipped   bool
	Attempted int
	Delivered int
	Requeued  int
	Discarded int
}

// FlushQueueCommandHandler drains the pending-order queue sequentially in
// enqueue order. A single in-flight guard serializes passes: a concurrent
// call is dropped, not deferred, and the next trigger picks up any remainder.
type FlushQueueCommandHandler struct {
	backend  ports.Backend
	records  *state.Records
	bus      ports.EventBus
	clock    ports.Clock
	cooldown time.Duration

	inFlight atomic.Bool
}

func NewFlushQueueCommandHandler(
	backend ports.Backend,
	records *state.Records,
	bus ports.EventBus,
	clock ports.Clock,
	cooldown time.Duration,
) *FlushQueueCommandHandler {
	return &FlushQueueCommandHandler{
		backend:  backend,
		records:  records,
		bus:      bus,
		clock:    clock,
		cooldown: cooldown,
	}
}

func (h *FlushQueueCommandHandler) Handle(ctx context.Context) FlushResult {
	if !h.inFlight.CompareAndSwap(false, true) {
		return FlushResult{Skipped: true}
	}
	defer h.inFlight.Store(false)

	if startedAt, ok := h.records.CooldownStartedAt(ctx); ok {
		if h.clock.Now().Sub(startedAt) < h.cooldown {
			return FlushResult{Skipped: true}
		}
		_ = h.records.ClearCooldown(ctx)
	}

	queue := h.records.Queue(ctx)
	if len(queue) == 0 {
		return FlushResult{}
	}

	var result FlushResult
	for _, item := range queue {
		// Optimistic removal: taking the entry out before delivery means a
		// crash mid-flush re-queues at worst, never double-delivers.
		if err := h.records.RemoveQueued(ctx, item.ID); err != nil {
			continue
		}

		result.Attempted++
		err := h.backend.CreateOrder(ctx, item.Order)

		var serverErr *ports.ServerError
		var rejectedErr *ports.RejectedError
		switch {
		case err == nil:
			result.Delivered++
			_ = h.bus.PublishOrderDelivered(ctx, item.ID)
		case errors.As(err, &rejectedErr):
			// Permanent rejection: the backend saw the order and refused it.
			result.Discarded++
			_ = h.bus.PublishOrderDiscarded(ctx, item.ID, rejectedErr.Message)
		case errors.As(err, &serverErr):
			// Transient, but the cooldown recorded here gates the next pass.
			_ = h.records.StartCooldown(ctx)
			_ = h.bus.PublishBackendDown(ctx, serverErr.Error())
			_ = h.records.Append(ctx, item)
			result.Requeued++
		default:
			_ = h.records.Append(ctx, item)
			result.Requeued++
		}
	}

	return result
}
