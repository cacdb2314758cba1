package notify_test

import (
	"context"
	"testing"
	"time"

	"github.com/dunya/storefront/internal/notify"
)

func receive(t *testing.T, events <-chan notify.Event) notify.Event {
	t.Helper()
	select {
	case event, ok := <-events:
		if !ok {
			t.Fatal("expected an event, channel was closed")
		}
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for an event")
	}
	return notify.Event{}
}

func TestBroadcaster(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers each event type to a subscriber", func(t *testing.T) {
		broadcaster := notify.NewBroadcaster()
		events, unsubscribe := broadcaster.Subscribe()
		defer unsubscribe()

		_ = broadcaster.PublishQueueChanged(ctx, 3)
		_ = broadcaster.PublishOrderQueued(ctx, "id-1")
		_ = broadcaster.PublishOrderDelivered(ctx, "id-2")
		_ = broadcaster.PublishOrderDiscarded(ctx, "id-3", "out of stock")
		_ = broadcaster.PublishBackendDown(ctx, "HTTP 503")

		if event := receive(t, events); event.Type != notify.EventQueueChanged || event.QueueLength != 3 {
			t.Errorf("unexpected event: %+v", event)
		}
		if event := receive(t, events); event.Type != notify.EventOrderQueued || event.OrderID != "id-1" {
			t.Errorf("unexpected event: %+v", event)
		}
		if event := receive(t, events); event.Type != notify.EventOrderDelivered || event.OrderID != "id-2" {
			t.Errorf("unexpected event: %+v", event)
		}
		if event := receive(t, events); event.Type != notify.EventOrderDiscarded || event.Reason != "out of stock" {
			t.Errorf("unexpected event: %+v", event)
		}
		if event := receive(t, events); event.Type != notify.EventBackendDown || event.Reason != "HTTP 503" {
			t.Errorf("unexpected event: %+v", event)
		}
	})

	t.Run("fans out to every subscriber", func(t *testing.T) {
		broadcaster := notify.NewBroadcaster()
		first, stopFirst := broadcaster.Subscribe()
		defer stopFirst()
		second, stopSecond := broadcaster.Subscribe()
		defer stopSecond()

		_ = broadcaster.PublishOrderDelivered(ctx, "id-1")

		if event := receive(t, first); event.OrderID != "id-1" {
			t.Errorf("unexpected event on first subscriber: %+v", event)
		}
		if event := receive(t, second); event.OrderID != "id-1" {
			t.Errorf("unexpected event on second subscriber: %+v", event)
		}
	})

	t.Run("unsubscribe closes the channel and stops delivery", func(t *testing.T) {
		broadcaster := notify.NewBroadcaster()
		events, unsubscribe := broadcaster.Subscribe()

		unsubscribe()
		// Unsubscribing twice is harmless.
		unsubscribe()

		if _, ok := <-events; ok {
			t.Error("expected a closed channel")
		}

		_ = broadcaster.PublishOrderDelivered(ctx, "id-1")
	})

	t.Run("a full subscriber buffer drops events instead of blocking", func(t *testing.T) {
		broadcaster := notify.NewBroadcaster()
		events, unsubscribe := broadcaster.Subscribe()
		defer unsubscribe()

		done := make(chan struct{})
		go func() {
			defer close(done)
			for i := 0; i < 100; i++ {
				_ = broadcaster.PublishQueueChanged(ctx, i)
			}
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("publishing blocked on a slow subscriber")
		}

		// The buffer holds the earliest events; the rest were dropped.
		if event := receive(t, events); event.QueueLength != 0 {
			t.Errorf("expected the first event, got %+v", event)
		}
	})
}
