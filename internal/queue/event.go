// Package queue defines message payloads exchanged over the message broker.
package queue

// AssetEvent is published after a successful create, update or delete on
// any tracked resource. It carries enough for downstream audit or
// notification tooling to act without querying the primary database.
type AssetEvent struct {
	Resource   string `json:"resource"` // "task" | "material" | "inventory" | "pc"
	Action     string `json:"action"`   // "created" | "updated" | "deleted"
	ID         uint64 `json:"id"`
	Actor      string `json:"actor"` // username of the authenticated caller
	OccurredAt string `json:"occurred_at"`
}

// Actions and resources used when building events.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)
