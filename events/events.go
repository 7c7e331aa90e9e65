// Package events is the real-time notification channel. Lifecycle mutations
// publish an Event once; every currently connected subscriber receives it
// at-most-once, with no replay for late subscribers.
package events

import "time"

// Type names a state-change event consumed by front-end clients.
type Type string

const (
	TypeNewOrder             Type = "new-order"
	TypeOrderUpdated         Type = "order-updated"
	TypeOrderDeleted         Type = "order-deleted"
	TypePaymentStatusUpdated Type = "paymentStatusUpdated"
	TypeReservationDeleted   Type = "reservationDeleted"
	TypeTableStatusUpdated   Type = "tableStatusUpdated"
)

// Event is a single state-change notification.
type Event struct {
	ID        string      `json:"event_id"`
	Type      Type        `json:"event_type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Publisher is the write side of the notification channel. Publish must
// never block on slow subscribers.
type Publisher interface {
	Publish(eventType Type, payload interface{})
}

// NopPublisher discards events, used in tests and maintenance commands.
type NopPublisher struct{}

func (NopPublisher) Publish(Type, interface{}) {}
