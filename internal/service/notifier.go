package service

import "github.com/google/uuid"

type EventType string

const (
	EventCoupleUpdated    EventType = "couple.updated"
	EventCoupleUnpaired   EventType = "couple.unpaired"
	EventSessionCreated   EventType = "session.created"
	EventSessionAnswered  EventType = "session.answered"
	EventSessionCompleted EventType = "session.completed"
	EventChatMessage      EventType = "chat.message"
)

// Event is an informational notification about a committed state change,
// delivered to both members of a couple.
type Event struct {
	Type    EventType   `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// Notifier fans committed events out to subscribed clients. Services never
// depend on delivery succeeding; publishing is fire-and-forget.
type Notifier interface {
	Publish(coupleID uuid.UUID, event Event)
}

// NopNotifier discards all events.
type NopNotifier struct{}

func (NopNotifier) Publish(uuid.UUID, Event) {}
