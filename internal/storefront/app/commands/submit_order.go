package commands

import (
	"context"
	"errors"

	"github.com/dunya/storefront/internal/storefront/domain"
	"github.com/dunya/storefront/internal/storefront/ports"
	"github.com/dunya/storefront/internal/storefront/state"
)

// Submission outcomes, carried on SubmitResult for observers.
const (
	OutcomeDelivered   = "delivered"
	OutcomeQueued      = "queued"
	OutcomeRejected    = "rejected"
	OutcomeBackendDown = "backend_down"
	OutcomeInvalid     = "invalid"
	OutcomeQueueFailed = "queue_failed"
)

// Messages surfaced to the caller when the backend gives none.
const (
	backendDownMessage = "the shop is temporarily unavailable, please try again shortly"
	queueFailedMessage = "could not save the order for later delivery"
)

type SubmitOrderCommand struct {
	Order domain.OrderPayload
}

// SubmitResult describes the fate of a submission. The pipeline never
// propagates errors past this boundary; failures surface as Message.
type SubmitResult struct {
	Delivered bool
	Queued    bool
	Message   string
	Outcome   string
}

type SubmitHandler interface {
	Handle(ctx context.Context, cmd SubmitOrderCommand) SubmitResult
}

// SubmitOrderCommandHandler attempts to deliver one order and classifies the
// failure when it cannot: a confirmed server error starts the cooldown (the
// backend is reachable but unhealthy, queuing would retry into the same
// outage), a permanent rejection surfaces the backend's validation message,
// and only a transport failure buffers the order locally.
type SubmitOrderCommandHandler struct {
	backend ports.Backend
	records *state.Records
	bus     ports.EventBus
}

func NewSubmitOrderCommandHandler(
	backend ports.Backend,
	records *state.Records,
	bus ports.EventBus,
) *SubmitOrderCommandHandler {
	return &SubmitOrderCommandHandler{
		backend: backend,
		records: records,
		bus:     bus,
	}
}

func (h *SubmitOrderCommandHandler) Handle(ctx context.Context, cmd SubmitOrderCommand) SubmitResult {
	if err := cmd.Order.Validate(); err != nil {
		return SubmitResult{Message: err.Error(), Outcome: OutcomeInvalid}
	}

	err := h.backend.CreateOrder(ctx, cmd.Order)
	if err == nil {
		_ = h.bus.PublishOrderDelivered(ctx, "")
		return SubmitResult{Delivered: true, Outcome: OutcomeDelivered}
	}

	var serverErr *ports.ServerError
	if errors.As(err, &serverErr) {
		_ = h.records.StartCooldown(ctx)
		_ = h.bus.PublishBackendDown(ctx, serverErr.Error())
		return SubmitResult{Message: backendDownMessage, Outcome: OutcomeBackendDown}
	}

	var rejectedErr *ports.RejectedError
	if errors.As(err, &rejectedErr) {
		message := rejectedErr.Message
		if message == "" {
			message = rejectedErr.Error()
		}
		return SubmitResult{Message: message, Outcome: OutcomeRejected}
	}

	// Transport failure: no response reached us, so the order is buffered
	// for a later flush.
	item, queueErr := h.records.Enqueue(ctx, cmd.Order)
	if queueErr != nil {
		return SubmitResult{Message: queueFailedMessage, Outcome: OutcomeQueueFailed}
	}
	_ = h.bus.PublishOrderQueued(ctx, item.ID)

	return SubmitResult{Queued: true, Outcome: OutcomeQueued}
}
