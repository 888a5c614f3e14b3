package models

import "time"

// Conversation groups the ordered messages of one chat session. The ID is the
// opaque session token handed to clients; records are never mutated after
// creation.
type Conversation struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}
