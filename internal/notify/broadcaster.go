package notify

import (
	"context"
	"sync"
)

// EventType identifies a pipeline lifecycle event.
type EventType string

const (
	EventQueueChanged   EventType = "queue_changed"
	EventOrderQueued    EventType = "order_queued"
	EventOrderDelivered EventType = "order_delivered"
	EventOrderDiscarded EventType = "order_discarded"
	EventBackendDown    EventType = "backend_down"
)

// Event is a single pipeline notification. QueueLength is meaningful only
// for queue-changed events, Reason only for discard/backend-down events.
type Event struct {
	Type        EventType
	OrderID     string
	QueueLength int
	Reason      string
}

// Broadcaster fans pipeline events out to channel subscribers. It implements
// the storefront event bus port; publishing never blocks — a subscriber that
// falls behind its buffer misses events rather than stalling the pipeline.
type Broadcaster struct {
	mu   sync.Mutex
	subs map[int]chan Event
	next int
}

// NewBroadcaster constructs an empty Broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[int]chan Event)}
}

// Subscribe registers a new observer and returns its event channel together
// with an unsubscribe function. The channel is closed on unsubscribe.
func (b *Broadcaster) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++

	ch := make(chan Event, 16)
	b.subs[id] = ch

	unsubscribe := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}

	return ch, unsubscribe
}

func (b *Broadcaster) publish(event Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, sub := range b.subs {
		select {
		case sub <- event:
		default:
		}
	}
}

func (b *Broadcaster) PublishQueueChanged(_ context.Context, length int) error {
	b.publish(Event{Type: EventQueueChanged, QueueLength: length})
	return nil
}

func (b *Broadcaster) PublishOrderQueued(_ context.Context, orderID string) error {
	b.publish(Event{Type: EventOrderQueued, OrderID: orderID})
	return nil
}

func (b *Broadcaster) PublishOrderDelivered(_ context.Context, orderID string) error {
	b.publish(Event{Type: EventOrderDelivered, OrderID: orderID})
	return nil
}

func (b *Broadcaster) PublishOrderDiscarded(_ context.Context, orderID string, reason string) error {
	b.publish(Event{Type: EventOrderDiscarded, OrderID: orderID, Reason: reason})
	return nil
}

func (b *Broadcaster) PublishBackendDown(_ context.Context, reason string) error {
	b.publish(Event{Type: EventBackendDown, Reason: reason})
	return nil
}
