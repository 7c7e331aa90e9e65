package events

import (
	"testing"
	"time"
)

func receive(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case event := <-ch:
		return event
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for event")
		return Event{}
	}
}

func TestPublishReachesAllSubscribers(t *testing.T) {
	b := NewBroadcaster(4)
	defer b.Close()

	_, first := b.Subscribe()
	_, second := b.Subscribe()

	b.Publish(TypeNewOrder, map[string]interface{}{"order_id": 1})

	for _, ch := range []<-chan Event{first, second} {
		event := receive(t, ch)
		if event.Type != TypeNewOrder {
			t.Fatalf("expected %s, got %s", TypeNewOrder, event.Type)
		}
		if event.ID == "" {
			t.Fatalf("event id must be set")
		}
		if event.Timestamp.IsZero() {
			t.Fatalf("event timestamp must be set")
		}
	}
}

func TestPublishDoesNotBlockOnFullBuffer(t *testing.T) {
	b := NewBroadcaster(1)
	defer b.Close()

	_, slow := b.Subscribe()
	b.Publish(TypeNewOrder, nil)

	done := make(chan struct{})
	go func() {
		b.Publish(TypeOrderUpdated, nil)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("publish blocked on a full subscriber buffer")
	}

	// First event is still delivered; the second was dropped.
	if event := receive(t, slow); event.Type != TypeNewOrder {
		t.Fatalf("expected buffered %s, got %s", TypeNewOrder, event.Type)
	}
	select {
	case event, ok := <-slow:
		if ok {
			t.Fatalf("unexpected extra event %s", event.Type)
		}
	default:
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := NewBroadcaster(0)
	defer b.Close()

	id, ch := b.Subscribe()
	if got := b.SubscriberCount(); got != 1 {
		t.Fatalf("expected 1 subscriber, got %d", got)
	}

	b.Unsubscribe(id)
	if got := b.SubscriberCount(); got != 0 {
		t.Fatalf("expected 0 subscribers, got %d", got)
	}
	if _, ok := <-ch; ok {
		t.Fatalf("channel should be closed after unsubscribe")
	}

	// Publishing with nobody listening must be a no-op.
	b.Publish(TypeOrderDeleted, nil)
}

func TestCloseDisconnectsEverySubscriber(t *testing.T) {
	b := NewBroadcaster(0)
	_, first := b.Subscribe()
	_, second := b.Subscribe()

	b.Close()
	b.Close() // idempotent

	for _, ch := range []<-chan Event{first, second} {
		if _, ok := <-ch; ok {
			t.Fatalf("channel should be closed after Close")
		}
	}
	if got := b.SubscriberCount(); got != 0 {
		t.Fatalf("expected 0 subscribers after Close, got %d", got)
	}
}
