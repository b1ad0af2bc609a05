package broadcast

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventType enumerates the profile-change notifications live sessions see.
type EventType string

const (
	EventNodeAdded          EventType = "node_added"
	EventRelationshipAdded  EventType = "relationship_added"
	EventConversationUpdate EventType = "conversation_update"
)

// Event is one notification scoped to a single user's session room.
type Event struct {
	Type       EventType `json:"type"`
	ActionType string    `json:"action_type,omitempty"`
	Entity     string    `json:"entity"`
	Details    any       `json:"details,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Publisher routes events to whatever session transport is available.
// Absence of a live subscriber is not an error.
type Publisher interface {
	Publish(userID uuid.UUID, ev Event) error
}

// SessionPublisher publishes to the per-user NATS subject that the session
// transport collaborator subscribes to.
type SessionPublisher struct {
	client *Client
}

func NewSessionPublisher(client *Client) *SessionPublisher {
	return &SessionPublisher{client: client}
}

func (p *SessionPublisher) Publish(userID uuid.UUID, ev Event) error {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}
	subject := fmt.Sprintf("scribe.profile.%s.events", userID)
	return p.client.Publish(subject, ev)
}

// Noop is the test double; it accepts everything and delivers nothing.
type Noop struct{}

func (Noop) Publish(uuid.UUID, Event) error { return nil }
