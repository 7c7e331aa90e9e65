package events

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/obeddx/notarichCafe-sub002/pkg/logger"
)

// Broadcaster fans out events to all connected subscribers. It is created
// once at startup, passed to every handler that mutates state, and closed
// on shutdown. Delivery is fire-and-forget: a subscriber whose buffer is
// full simply misses the event.
type Broadcaster struct {
	mu     sync.RWMutex
	subs   map[uint64]chan Event
	nextID uint64
	buffer int
	closed bool

	mirror *KafkaMirror
}

// NewBroadcaster creates a broadcaster whose subscribers buffer up to
// `buffer` undelivered events each.
func NewBroadcaster(buffer int) *Broadcaster {
	if buffer <= 0 {
		buffer = 16
	}
	return &Broadcaster{
		subs:   make(map[uint64]chan Event),
		buffer: buffer,
	}
}

// WithKafkaMirror additionally copies every published event to a Kafka
// topic so other back-office consumers can follow along.
func (b *Broadcaster) WithKafkaMirror(mirror *KafkaMirror) *Broadcaster {
	b.mirror = mirror
	return b
}

// Publish delivers the event to every current subscriber without blocking.
func (b *Broadcaster) Publish(eventType Type, payload interface{}) {
	event := Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now(),
	}

	b.mu.RLock()
	for id, ch := range b.subs {
		select {
		case ch <- event:
		default:
			logger.Logger.Warn().
				Uint64("subscriber", id).
				Str("event_type", string(eventType)).
				Msg("Subscriber buffer full, event dropped")
		}
	}
	b.mu.RUnlock()

	if b.mirror != nil {
		go b.mirror.Publish(event)
	}
}

// Subscribe registers a new subscriber and returns its id and channel.
func (b *Broadcaster) Subscribe() (uint64, <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	ch := make(chan Event, b.buffer)
	b.subs[id] = ch

	logger.Logger.Debug().
		Uint64("subscriber", id).
		Int("total", len(b.subs)).
		Msg("Subscriber connected")

	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *Broadcaster) Unsubscribe(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(ch)
	}
}

// SubscriberCount returns the number of connected subscribers.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close disconnects every subscriber. The broadcaster must not be used
// after Close.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}

	if b.mirror != nil {
		if err := b.mirror.Close(); err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to close Kafka mirror")
		}
	}
}
