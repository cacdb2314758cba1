package status

import (
	"sync"

	"github.com/dunya/storefront/internal/notify"
)

// Snapshot is the current pipeline status as seen by interested observers.
type Snapshot struct {
	Online      bool `json:"online"`
	QueueLength int  `json:"queue_length"`
}

// Tracker derives a backend-online flag and the pending-queue length from
// broadcast pipeline events. Delivered orders mark the backend reachable;
// queued orders and confirmed outages mark it unreachable.
type Tracker struct {
	mu       sync.RWMutex
	snapshot Snapshot
	stop     func()
	done     chan struct{}
}

// NewTracker subscribes to the broadcaster and starts consuming events.
// initialLength seeds the queue length from the persisted store.
func NewTracker(broadcaster *notify.Broadcaster, initialLength int) *Tracker {
	events, unsubscribe := broadcaster.Subscribe()

	t := &Tracker{
		snapshot: Snapshot{Online: true, QueueLength: initialLength},
		stop:     unsubscribe,
		done:     make(chan struct{}),
	}

	go t.consume(events)
	return t
}

func (t *Tracker) consume(events <-chan notify.Event) {
	defer close(t.done)

	for event := range events {
		t.mu.Lock()
		switch event.Type {
		case notify.EventQueueChanged:
			t.snapshot.QueueLength = event.QueueLength
		case notify.EventOrderDelivered:
			t.snapshot.Online = true
		case notify.EventOrderQueued, notify.EventBackendDown:
			t.snapshot.Online = false
		}
		t.mu.Unlock()
	}
}

// Snapshot returns the current status.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.snapshot
}

// Close unsubscribes from the broadcaster and waits for the consumer to drain.
func (t *Tracker) Close() {
	t.stop()
	<-t.done
}
