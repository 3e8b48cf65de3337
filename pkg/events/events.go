// Package events publishes domain lifecycle events so downstream
// consumers (notifications, analytics) can react without polling storage.
package events

import (
	"context"
	"time"
)

const (
	BookingCreated   = "booking.created"
	BookingConfirmed = "booking.confirmed"
	BookingCompleted = "booking.completed"
	BookingCancelled = "booking.cancelled"
	TripDeactivated  = "trip.deactivated"
)

// Event is one domain occurrence. Key selects the partition so events
// for the same entity stay ordered.
type Event struct {
	Type       string    `json:"type"`
	Key        string    `json:"key"`
	Payload    any       `json:"payload"`
	OccurredAt time.Time `json:"occurredAt"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NopPublisher drops every event. Used when no broker is configured and
// in tests.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }
