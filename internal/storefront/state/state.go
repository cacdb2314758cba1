package state

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dunya/storefront/internal/storefront/domain"
	"github.com/dunya/storefront/internal/storefront/ports"
	"github.com/google/uuid"
)

// Record keys. The v1 suffix guards against layout changes across releases.
const (
	queueKey    = "orders_queue_v1"
	cacheKey    = "products_cache_v1"
	cacheTSKey  = "products_cache_ts_v1"
	cooldownKey = "backend_cooldown_v1"
)

// Records layers the storefront's typed records over the raw state store:
// the pending-order queue, the product cache with its fetch timestamp, and
// the backend-outage cooldown marker. Malformed stored content is treated as
// absent at every read site and never surfaces as an error. Queue mutations
// publish a queue-changed event with the new length.
type Records struct {
	store ports.StateStore
	bus   ports.EventBus
	clock ports.Clock
}

// New wires required dependencies.
func New(store ports.StateStore, bus ports.EventBus, clock ports.Clock) *Records {
	return &Records{store: store, bus: bus, clock: clock}
}

// Queue returns the pending-order queue in enqueue order.
func (r *Records) Queue(ctx context.Context) []domain.QueuedOrder {
	raw, err := r.store.Get(ctx, queueKey)
	if err != nil || len(raw) == 0 {
		return nil
	}

	var queue []domain.QueuedOrder
	if err := json.Unmarshal(raw, &queue); err != nil {
		return nil
	}
	return queue
}

// QueueLength reports the number of pending orders.
func (r *Records) QueueLength(ctx context.Context) int {
	return len(r.Queue(ctx))
}

// Enqueue appends a new queued order built from the payload and returns it.
func (r *Records) Enqueue(ctx context.Context, order domain.OrderPayload) (domain.QueuedOrder, error) {
	item := domain.QueuedOrder{
		ID:         uuid.NewString(),
		Order:      order,
		EnqueuedAt: r.clock.Now(),
	}
	if err := r.Append(ctx, item); err != nil {
		return domain.QueuedOrder{}, err
	}
	return item, nil
}

// Append re-queues an existing entry at the tail of the persisted queue.
func (r *Records) Append(ctx context.Context, item domain.QueuedOrder) error {
	queue := append(r.Queue(ctx), item)
	return r.saveQueue(ctx, queue)
}

// RemoveQueued deletes the entry with the given id, preserving the order of
// the remaining entries. Removing an absent id is a no-op.
func (r *Records) RemoveQueued(ctx context.Context, id string) error {
	queue := r.Queue(ctx)
	remaining := queue[:0]
	for _, item := range queue {
		if item.ID != id {
			remaining = append(remaining, item)
		}
	}
	if len(remaining) == len(queue) {
		return nil
	}
	return r.saveQueue(ctx, remaining)
}

func (r *Records) saveQueue(ctx context.Context, queue []domain.QueuedOrder) error {
	raw, err := json.Marshal(queue)
	if err != nil {
		return fmt.Errorf("encode order queue: %w", err)
	}
	if err := r.store.Set(ctx, queueKey, raw); err != nil {
		return fmt.Errorf("persist order queue: %w", err)
	}
	_ = r.bus.PublishQueueChanged(ctx, len(queue))
	return nil
}

// CachedProducts returns the last successfully fetched product listing.
func (r *Records) CachedProducts(ctx context.Context) []domain.Product {
	raw, err := r.store.Get(ctx, cacheKey)
	if err != nil || len(raw) == 0 {
		return nil
	}

	var products []domain.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil
	}
	return products
}

// CacheTimestamp reports when the cached listing was fetched.
func (r *Records) CacheTimestamp(ctx context.Context) (time.Time, bool) {
	return r.readTimestamp(ctx, cacheTSKey)
}

// SaveProducts overwrites the product cache and its timestamp wholesale.
func (r *Records) SaveProducts(ctx context.Context, products []domain.Product) error {
	raw, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("encode product cache: %w", err)
	}
	if err := r.store.Set(ctx, cacheKey, raw); err != nil {
		return fmt.Errorf("persist product cache: %w", err)
	}
	return r.writeTimestamp(ctx, cacheTSKey, r.clock.Now())
}

// CooldownStartedAt reports the backend-outage cooldown marker, if set.
func (r *Records) CooldownStartedAt(ctx context.Context) (time.Time, bool) {
	return r.readTimestamp(ctx, cooldownKey)
}

// StartCooldown records the current time as the cooldown marker.
func (r *Records) StartCooldown(ctx context.Context) error {
	return r.writeTimestamp(ctx, cooldownKey, r.clock.Now())
}

// ClearCooldown removes the cooldown marker.
func (r *Records) ClearCooldown(ctx context.Context) error {
	if err := r.store.Remove(ctx, cooldownKey); err != nil {
		return fmt.Errorf("clear cooldown marker: %w", err)
	}
	return nil
}

func (r *Records) readTimestamp(ctx context.Context, key string) (time.Time, bool) {
	raw, err := r.store.Get(ctx, key)
	if err != nil || len(raw) == 0 {
		return time.Time{}, false
	}

	var millis int64
	if err := json.Unmarshal(raw, &millis); err != nil || millis <= 0 {
		return time.Time{}, false
	}
	return time.UnixMilli(millis).UTC(), true
}

func (r *Records) writeTimestamp(ctx context.Context, key string, ts time.Time) error {
	raw, err := json.Marshal(ts.UnixMilli())
	if err != nil {
		return fmt.Errorf("encode timestamp: %w", err)
	}
	if err := r.store.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("persist timestamp: %w", err)
	}
	return nil
}
