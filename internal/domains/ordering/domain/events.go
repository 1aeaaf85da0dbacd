package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event is the base interface for all domain events.
type Event interface {
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent provides common event metadata.
type BaseEvent struct {
	Timestamp time.Time
}

// OccurredAt returns when the event occurred.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// OrderSent is returned when the backend accepts an order.
type OrderSent struct {
	BaseEvent
	OrderID uuid.UUID
}

// EventName returns the event type identifier.
func (e OrderSent) EventName() string {
	return "ordering.order.sent"
}

// OrderFailed is returned when dispatch fails or the backend rejects the order.
type OrderFailed struct {
	BaseEvent
	OrderID uuid.UUID
	Reason  string
}

// EventName returns the event type identifier.
func (e OrderFailed) EventName() string {
	return "ordering.order.failed"
}
