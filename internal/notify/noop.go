package notify

import (
	"context"
	"log/slog"
)

// NoopBus logs events without delivering them to any observer. Useful for
// tests and one-shot CLI invocations with no status surface.
type NoopBus struct{}

// NewNoopBus returns a new no-op event publisher.
func NewNoopBus() *NoopBus {
	return &NoopBus{}
}

func (n *NoopBus) PublishQueueChanged(_ context.Context, length int) error {
	slog.Debug("event::queue_changed", "length", length)
	return nil
}

func (n *NoopBus) PublishOrderQueued(_ context.Context, orderID string) error {
	slog.Debug("event::order_queued", "order_id", orderID)
	return nil
}

func (n *NoopBus) PublishOrderDelivered(_ context.Context, orderID string) error {
	slog.Debug("event::order_delivered", "order_id", orderID)
	return nil
}

func (n *NoopBus) PublishOrderDiscarded(_ context.Context, orderID string, reason string) error {
	slog.Debug("event::order_discarded", "order_id", orderID, "reason", reason)
	return nil
}

func (n *NoopBus) PublishBackendDown(_ context.Context, reason string) error {
	slog.Debug("event::backend_down", "reason", reason)
	return nil
}
