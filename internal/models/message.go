package models

import "time"

// Sender identifies which side of the conversation wrote a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// Message is a single transcript entry. Messages are immutable once written
// and totally ordered within their conversation by ID.
type Message struct {
	ID             int64     `json:"-"`
	ConversationID string    `json:"-"`
	Sender         Sender    `json:"sender"`
	Text           string    `json:"text"`
	CreatedAt      time.Time `json:"created_at"`
}
