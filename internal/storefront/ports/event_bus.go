package ports

import "context"

// EventBus defines the contract for publishing pipeline lifecycle events.
// Queue-changed events fire on every mutation of the persisted order queue so
// observers (status indicators) stay in sync in near-real time.
type EventBus interface {
	PublishQueueChanged(ctx context.Context, length int) error
	PublishOrderQueued(ctx context.Context, orderID string) error
	PublishOrderDelivered(ctx context.Context, orderID string) error
	PublishOrderDiscarded(ctx context.Context, orderID string, reason string) error
	PublishBackendDown(ctx context.Context, reason string) error
}
