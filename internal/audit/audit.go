// Package audit records who changed what and why. Entries are written inside
// the transaction of the change they describe and are never modified.
package audit

import (
	"time"

	"github.com/google/uuid"
)

// Action names a recorded change.
type Action string

const (
	ActionDelete Action = "delete"
)

// Entry is a single audit log row.
type Entry struct {
	ID         uuid.UUID `json:"id"`
	EntityType string    `json:"entity_type"`
	EntityID   uuid.UUID `json:"entity_id"`
	Action     Action    `json:"action"`
	Actor      string    `json:"actor"`
	Reason     string    `json:"reason"`
	CreatedAt  time.Time `json:"created_at"`
}

// RecordCommand describes an entry to write.
type RecordCommand struct {
	EntityType string
	EntityID   uuid.UUID
	Action     Action
	Actor      string
	Reason     string
}
