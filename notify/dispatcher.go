package notify

import (
	"context"

	"github.com/google/uuid"
)

type EventType string

const (
	EventAssigned EventType = "assigned"
	EventMessage  EventType = "message"
	EventEnded    EventType = "ended"
)

type Event struct {
	Type            EventType `json:"type"`
	SessionID       uuid.UUID `json:"session_id"`
	RecipientUserID int64     `json:"recipient_user_id"`
}

// Dispatcher hands events to the notification collaborator. Delivery
// mechanics (in-app, email) are the collaborator's responsibility, so
// implementations must never fail the transition that produced the event.
type Dispatcher interface {
	Notify(ctx context.Context, event Event)
}

// NullDispatcher drops every event.
type NullDispatcher struct{}

func (NullDispatcher) Notify(ctx context.Context, event Event) {}

// MultiDispatcher fans an event out to each configured sink.
type MultiDispatcher []Dispatcher

func (m MultiDispatcher) Notify(ctx context.Context, event Event) {
	for _, d := range m {
		d.Notify(ctx, event)
	}
}
