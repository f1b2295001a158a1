package events

import "time"

const (
	UserLifecycleTopic      = "hr.user.lifecycle.v1"
	UserRegisteredEventType = "user_registered"
)

// UserRegisteredEvent is produced by the account service when a user signs
// up. Other event types may share the topic and are skipped by consumers.
type UserRegisteredEvent struct {
	EventType  string    `json:"event_type"`
	UserID     string    `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
