package models

import "time"

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// ListingEvent is published after a directory mutation commits.
type ListingEvent struct {
	EventID    string      `json:"event_id"`
	Entity     string      `json:"entity"`
	Action     string      `json:"action"`
	EntityID   int64       `json:"entity_id"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload,omitempty"`
}
